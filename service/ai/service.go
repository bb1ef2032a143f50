/*
 * @module service/ai/service
 * @description AI service: gap analysis, recommendations, advisory evidence
 *              review and assessor chat. Provider-backed when a configured
 *              provider exists, heuristic otherwise; provider failures degrade
 *              to the heuristic path instead of erroring.
 * @architecture Layered - business service
 * @stateFlow request -> provider or heuristic -> advisory result; evidence
 *            verdicts land in evidence.ai_analysis only
 * @rules Provider output never changes compliance status; only the settings
 *        service hands out decrypted credentials
 * @dependencies ndi-assessment-service/service/scoring, ndi-assessment-service/service/settings, github.com/sashabaranov/go-openai
 */

package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"ndi-assessment-service/service/models"
	"ndi-assessment-service/service/scoring"
	"ndi-assessment-service/service/settings"

	openai "github.com/sashabaranov/go-openai"
	"gorm.io/gorm"
)

// ErrNoProvider no enabled AI provider is configured.
var ErrNoProvider = errors.New("no enabled ai provider configured")

// Service AI business logic.
type Service struct {
	db       *gorm.DB
	settings *settings.Service
	engine   *scoring.Engine
}

// NewService creates an AI service.
func NewService(db *gorm.DB, settingsService *settings.Service) *Service {
	return &Service{
		db:       db,
		settings: settingsService,
		engine:   scoring.NewEngine(db),
	}
}

// ChatMessage one turn of an assessor chat conversation.
type ChatMessage struct {
	Role    string `json:"role"` // user or assistant
	Content string `json:"content"`
}

// EvidenceReview the advisory verdict on one uploaded file.
type EvidenceReview struct {
	EvidenceID    string `json:"evidence_id"`
	SupportsLevel string `json:"supports_level"` // yes, partial, no
	Comments      string `json:"comments"`
	Source        string `json:"source"`
}

// AnalyzeGaps computes the gap analysis for an assessment. The heuristic
// result is always produced; when a provider is available its narrative
// summary replaces the heuristic one.
func (s *Service) AnalyzeGaps(ctx context.Context, assessmentID, lang string) (*GapAnalysis, error) {
	var assessment models.Assessment
	if err := s.db.First(&assessment, "id = ?", assessmentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("assessment not found")
		}
		return nil, err
	}

	maturity, err := s.engine.CalculateMaturityScore(assessmentID)
	if err != nil {
		return nil, err
	}

	target := 3
	if assessment.TargetLevel != nil {
		target = *assessment.TargetLevel
	}
	analysis := heuristicAnalysis(assessmentID, maturity, target, lang)

	if summary, provider, err := s.providerSummary(ctx, analysis, lang); err == nil {
		analysis.Summary = summary
		analysis.Source = provider
	}
	return analysis, nil
}

// Recommendations returns just the prioritized action list of the gap
// analysis.
func (s *Service) Recommendations(ctx context.Context, assessmentID, lang string) ([]Recommendation, error) {
	analysis, err := s.AnalyzeGaps(ctx, assessmentID, lang)
	if err != nil {
		return nil, err
	}
	return analysis.Recommendations, nil
}

// ReviewEvidence produces the advisory supports_level verdict for one file
// and stores it in the evidence analysis blob.
func (s *Service) ReviewEvidence(ctx context.Context, evidenceID string) (*EvidenceReview, error) {
	var ev models.Evidence
	if err := s.db.Preload("Response").First(&ev, "id = ?", evidenceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("evidence not found")
		}
		return nil, err
	}

	requirement, err := s.requirementText(&ev)
	if err != nil {
		return nil, err
	}

	review := s.heuristicReview(&ev, requirement)
	if verdict, comments, provider, err := s.providerReview(ctx, &ev, requirement); err == nil {
		review.SupportsLevel = verdict
		review.Comments = comments
		review.Source = provider
	}

	now := time.Now()
	ev.AIAnalysis = models.JSONB{
		"supports_level": review.SupportsLevel,
		"comments":       review.Comments,
		"source":         review.Source,
	}
	ev.AnalysisStatus = models.AnalysisStatusCompleted
	ev.AnalyzedAt = &now
	if err := s.db.Save(&ev).Error; err != nil {
		return nil, err
	}
	return review, nil
}

// Chat relays an assessor conversation to the configured provider. Unlike the
// analysis paths there is no heuristic fallback for free-form chat.
func (s *Service) Chat(ctx context.Context, messages []ChatMessage, lang string) (string, error) {
	client, model, provider, err := s.client()
	if err != nil {
		return "", err
	}

	system := "You are an advisor on national data management and maturity assessments. Answer concisely in English."
	if lang == "ar" {
		system = "أنت مستشار في إدارة البيانات الوطنية وتقييمات النضج. أجب بإيجاز باللغة العربية."
	}

	req := openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
		},
	}
	for _, m := range messages {
		role := openai.ChatMessageRoleUser
		if m.Role == "assistant" {
			role = openai.ChatMessageRoleAssistant
		}
		req.Messages = append(req.Messages, openai.ChatCompletionMessage{Role: role, Content: m.Content})
	}

	resp, err := client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("provider %s: %w", provider, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("provider %s returned no choices", provider)
	}
	return resp.Choices[0].Message.Content, nil
}

// requirementText resolves the acceptance-evidence text the file claims to
// satisfy, or empty when unlinked.
func (s *Service) requirementText(ev *models.Evidence) (string, error) {
	if ev.EvidenceID == nil || ev.Response == nil || ev.Response.SelectedLevel == nil {
		return "", nil
	}

	var ml models.MaturityLevel
	err := s.db.Preload("AcceptanceEvidence").
		Where("question_id = ? AND level = ?", ev.Response.QuestionID, *ev.Response.SelectedLevel).
		First(&ml).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}

	for _, item := range ml.AcceptanceEvidence {
		if item.EvidenceID == *ev.EvidenceID {
			return item.TextEn, nil
		}
	}
	return "", nil
}

// heuristicReview keyword-matches extracted text against the requirement.
func (s *Service) heuristicReview(ev *models.Evidence, requirement string) *EvidenceReview {
	review := &EvidenceReview{EvidenceID: ev.ID, Source: "heuristic"}

	if strings.TrimSpace(ev.ExtractedText) == "" {
		review.SupportsLevel = "no"
		review.Comments = "No text could be extracted from the file."
		return review
	}
	if requirement == "" {
		review.SupportsLevel = "partial"
		review.Comments = "File has readable content but is not linked to a specific requirement."
		return review
	}

	text := strings.ToLower(ev.ExtractedText)
	var matched, total int
	for _, word := range strings.Fields(strings.ToLower(requirement)) {
		if len(word) < 5 {
			continue
		}
		total++
		if strings.Contains(text, word) {
			matched++
		}
	}

	switch {
	case total > 0 && matched*2 >= total:
		review.SupportsLevel = "yes"
		review.Comments = fmt.Sprintf("Document content matches the requirement (%d/%d key terms found).", matched, total)
	case matched > 0:
		review.SupportsLevel = "partial"
		review.Comments = fmt.Sprintf("Document partially matches the requirement (%d/%d key terms found).", matched, total)
	default:
		review.SupportsLevel = "no"
		review.Comments = "Document content does not appear to address the requirement."
	}
	return review
}

// providerSummary asks the configured provider for a narrative summary.
func (s *Service) providerSummary(ctx context.Context, analysis *GapAnalysis, lang string) (string, string, error) {
	client, model, provider, err := s.client()
	if err != nil {
		return "", "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Overall maturity score: %.2f, target level: %d.\n", analysis.OverallScore, analysis.TargetLevel)
	for _, r := range analysis.Recommendations {
		fmt.Fprintf(&b, "- %s: level %d, gap %.2f, priority %s\n", r.DomainCode, r.CurrentLevel, r.Gap, r.Priority)
	}
	instruction := "Write a short executive summary (3 sentences) of this data management maturity gap analysis in English."
	if lang == "ar" {
		instruction = "اكتب ملخصاً تنفيذياً قصيراً (ثلاث جمل) لتحليل فجوات نضج إدارة البيانات هذا باللغة العربية."
	}

	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: instruction},
			{Role: openai.ChatMessageRoleUser, Content: b.String()},
		},
	})
	if err != nil {
		return "", "", err
	}
	if len(resp.Choices) == 0 {
		return "", "", errors.New("no choices")
	}
	return resp.Choices[0].Message.Content, provider, nil
}

// providerReview asks the configured provider for an evidence verdict.
func (s *Service) providerReview(ctx context.Context, ev *models.Evidence, requirement string) (string, string, string, error) {
	if requirement == "" || strings.TrimSpace(ev.ExtractedText) == "" {
		return "", "", "", ErrNoProvider
	}
	client, model, provider, err := s.client()
	if err != nil {
		return "", "", "", err
	}

	excerpt := ev.ExtractedText
	if len(excerpt) > 4000 {
		excerpt = excerpt[:4000]
	}
	prompt := fmt.Sprintf("Requirement: %s\n\nDocument excerpt:\n%s\n\nDoes the document satisfy the requirement? Reply with exactly one word on the first line: yes, partial or no. Then one sentence of justification.", requirement, excerpt)

	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", "", "", err
	}
	if len(resp.Choices) == 0 {
		return "", "", "", errors.New("no choices")
	}

	content := resp.Choices[0].Message.Content
	verdict := "partial"
	lower := strings.ToLower(content)
	switch {
	case strings.HasPrefix(lower, "yes"):
		verdict = "yes"
	case strings.HasPrefix(lower, "no"):
		verdict = "no"
	}
	return verdict, content, provider, nil
}

// client builds an API client for the default provider.
func (s *Service) client() (*openai.Client, string, string, error) {
	provider, err := s.settings.DefaultProvider()
	if err != nil {
		return nil, "", "", ErrNoProvider
	}
	apiKey, endpoint, model, err := s.settings.ProviderCredentials(provider.ID)
	if err != nil || apiKey == "" {
		return nil, "", "", ErrNoProvider
	}

	cfg := openai.DefaultConfig(apiKey)
	if endpoint != "" {
		cfg.BaseURL = endpoint
	}
	if model == "" {
		model = openai.GPT4o
	}
	return openai.NewClientWithConfig(cfg), model, provider.ID, nil
}
