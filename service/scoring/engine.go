/*
 * @module service/scoring/engine
 * @description Maturity and compliance scoring engines plus the combined
 *              result assembler. Stateless and read-heavy: every call is a
 *              self-contained read-then-compute over one assessment, safe to
 *              run concurrently for different assessments.
 * @architecture Layered - domain logic over the gorm read path
 * @stateFlow responses + taxonomy -> score computation -> result objects;
 *            cached score columns written only by Recalculate
 * @rules Taxonomy inconsistencies degrade gracefully (affected unit
 *        contributes zero) and never abort a computation; divisions are
 *        zero-guarded
 * @dependencies ndi-assessment-service/service/models, gorm.io/gorm
 */

package scoring

import (
	"log/slog"

	"ndi-assessment-service/service/models"

	"gorm.io/gorm"
)

// Engine computes maturity and compliance scores for assessments. It keeps no
// state beyond the database handle; results are a deterministic function of
// the data read.
type Engine struct {
	db *gorm.DB
}

// NewEngine creates a scoring engine instance.
func NewEngine(db *gorm.DB) *Engine {
	return &Engine{db: db}
}

// loadDomains returns all domains with their questions, in display order.
func (e *Engine) loadDomains() ([]models.Domain, error) {
	var domains []models.Domain
	err := e.db.Preload("Questions").Order("sort_order").Find(&domains).Error
	return domains, err
}

// loadResponses returns every response of an assessment with its question,
// the question's domain and the uploaded evidence files.
func (e *Engine) loadResponses(assessmentID string) ([]models.AssessmentResponse, error) {
	var responses []models.AssessmentResponse
	err := e.db.
		Preload("Question").
		Preload("Question.Domain").
		Preload("Evidence").
		Where("assessment_id = ?", assessmentID).
		Find(&responses).Error
	return responses, err
}

// loadMaturityLevel returns the maturity level of a question at the given
// level with its acceptance evidence, or nil when the taxonomy has no such
// row (degraded data, handled by the caller).
func (e *Engine) loadMaturityLevel(questionID string, level int) (*models.MaturityLevel, error) {
	var ml models.MaturityLevel
	err := e.db.
		Preload("AcceptanceEvidence").
		Where("question_id = ? AND level = ?", questionID, level).
		First(&ml).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &ml, nil
}

// totalQuestions returns the taxonomy-wide question count.
func (e *Engine) totalQuestions() int {
	var count int64
	e.db.Model(&models.Question{}).Count(&count)
	return int(count)
}

// CalculateMaturityScore computes the per-domain and overall maturity score
// of an assessment. An assessment with no answered questions returns an
// all-zero result; that is a displayable state, not an error.
func (e *Engine) CalculateMaturityScore(assessmentID string) (*MaturityScoreResult, error) {
	responses, err := e.loadResponses(assessmentID)
	if err != nil {
		return nil, err
	}
	domains, err := e.loadDomains()
	if err != nil {
		return nil, err
	}

	result := computeMaturity(domains, responses, e.totalQuestions())
	return &result, nil
}

// computeMaturity is the pure maturity aggregation over loaded data.
func computeMaturity(domains []models.Domain, responses []models.AssessmentResponse, totalQuestions int) MaturityScoreResult {
	// Answered responses indexed by question.
	answeredByQuestion := make(map[string]int)
	for _, r := range responses {
		if r.SelectedLevel != nil {
			answeredByQuestion[r.QuestionID] = *r.SelectedLevel
		}
	}

	domainScores := make([]DomainScore, 0, len(domains))
	var contributing []float64
	answeredTotal := 0

	for _, domain := range domains {
		sum := 0
		answered := 0
		for _, q := range domain.Questions {
			if lvl, ok := answeredByQuestion[q.ID]; ok {
				sum += lvl
				answered++
			}
		}

		var avg float64
		var level int
		if answered > 0 {
			// Mean of the answered subset only; unanswered questions do not
			// drag the domain average down.
			avg = float64(sum) / float64(answered)
			level = LevelFromScore(avg)
			// Domains with zero answered questions are excluded from the
			// overall mean, not counted as zero. Adding new domains to the
			// taxonomy must not deflate existing assessments.
			contributing = append(contributing, avg)
		}

		pct := 0.0
		if avg > 0 {
			pct = percentage(avg)
		}

		domainScores = append(domainScores, DomainScore{
			DomainCode:     domain.Code,
			DomainNameEn:   domain.NameEn,
			DomainNameAr:   domain.NameAr,
			Score:          round2(avg),
			Level:          level,
			LevelNameEn:    LevelName(level, "en"),
			LevelNameAr:    LevelName(level, "ar"),
			AnsweredCount:  answered,
			TotalQuestions: len(domain.Questions),
			Percentage:     pct,
		})
		answeredTotal += answered
	}

	overall := 0.0
	if len(contributing) > 0 {
		for _, s := range contributing {
			overall += s
		}
		overall /= float64(len(contributing))
	}
	overallLevel := LevelFromScore(overall)

	return MaturityScoreResult{
		OverallScore:       round2(overall),
		OverallLevel:       overallLevel,
		OverallLevelNameEn: LevelName(overallLevel, "en"),
		OverallLevelNameAr: LevelName(overallLevel, "ar"),
		OverallPercentage:  percentage(overall),
		DomainScores:       domainScores,
		AnsweredCount:      answeredTotal,
		TotalQuestions:     totalQuestions,
	}
}

// CalculateComplianceScore computes the binary per-specification compliance
// determination of an assessment.
//
// Each specification-tagged acceptance-evidence item of the response's
// selected maturity level is checked against the ordinals claimed by the
// response's uploaded files. inherits_from_level is a data-authoring
// convention and is intentionally NOT resolved across levels here: the check
// uses same-level file associations only.
func (e *Engine) CalculateComplianceScore(assessmentID string) (*ComplianceScoreResult, error) {
	responses, err := e.loadResponses(assessmentID)
	if err != nil {
		return nil, err
	}

	var detail []SpecificationStatus
	for _, response := range responses {
		if response.SelectedLevel == nil {
			continue
		}

		level, err := e.loadMaturityLevel(response.QuestionID, *response.SelectedLevel)
		if err != nil {
			return nil, err
		}
		if level == nil || len(level.AcceptanceEvidence) == 0 {
			// Missing maturity level row: contributes zero specification
			// items rather than failing.
			continue
		}

		questionCode := ""
		if response.Question != nil {
			questionCode = response.Question.Code
		}
		detail = append(detail, specStatuses(level.AcceptanceEvidence, uploadedOrdinals(response.Evidence), questionCode)...)
	}

	result := aggregateCompliance(detail)
	return &result, nil
}

// uploadedOrdinals collects the acceptance-evidence ordinals claimed by a
// response's uploaded files.
func uploadedOrdinals(evidence []models.Evidence) map[int]bool {
	uploaded := make(map[int]bool)
	for _, ev := range evidence {
		if ev.EvidenceID != nil {
			uploaded[*ev.EvidenceID] = true
		}
	}
	return uploaded
}

// specStatuses evaluates the specification-tagged items of one maturity level
// against the uploaded ordinals. Items without a specification code are not
// compliance-relevant and are skipped.
func specStatuses(items []models.AcceptanceEvidence, uploaded map[int]bool, questionCode string) []SpecificationStatus {
	var statuses []SpecificationStatus
	for _, item := range items {
		if item.SpecificationCode == nil || *item.SpecificationCode == "" {
			continue
		}
		hasEvidence := uploaded[item.EvidenceID]
		status := "non_compliant"
		if hasEvidence {
			status = "compliant"
		}
		statuses = append(statuses, SpecificationStatus{
			SpecificationCode: *item.SpecificationCode,
			QuestionCode:      questionCode,
			EvidenceID:        item.EvidenceID,
			Status:            status,
			HasEvidence:       hasEvidence,
		})
	}
	return statuses
}

// aggregateCompliance folds the per-specification statuses into the overall
// result. An assessment with zero compliance-relevant items is never
// compliant (no vacuous truth on empty data).
func aggregateCompliance(detail []SpecificationStatus) ComplianceScoreResult {
	total := len(detail)
	compliant := 0
	for _, s := range detail {
		if s.HasEvidence {
			compliant++
		}
	}

	pct := 0.0
	if total > 0 {
		pct = round1(float64(compliant) / float64(total) * 100)
	}

	return ComplianceScoreResult{
		CompliantCount:       compliant,
		PartialCount:         0,
		NonCompliantCount:    total - compliant,
		TotalSpecifications:  total,
		CompliancePercentage: pct,
		IsCompliant:          compliant == total && total > 0,
		SpecificationsDetail: detail,
	}
}

// CombinedAssessment packages maturity, compliance and the per-question
// detail list into one result for report and dashboard consumers.
func (e *Engine) CombinedAssessment(assessmentID string) (*CombinedAssessmentResult, error) {
	maturity, err := e.CalculateMaturityScore(assessmentID)
	if err != nil {
		return nil, err
	}
	compliance, err := e.CalculateComplianceScore(assessmentID)
	if err != nil {
		return nil, err
	}

	responses, err := e.loadResponses(assessmentID)
	if err != nil {
		return nil, err
	}

	var details []QuestionDetail
	for _, response := range responses {
		if response.SelectedLevel == nil {
			continue
		}

		level, err := e.loadMaturityLevel(response.QuestionID, *response.SelectedLevel)
		if err != nil {
			return nil, err
		}

		uploaded := uploadedOrdinals(response.Evidence)
		var specStatus []QuestionSpecStatus
		requiredCount := 0
		if level != nil {
			requiredCount = len(level.AcceptanceEvidence)
			for _, item := range level.AcceptanceEvidence {
				if item.SpecificationCode == nil || *item.SpecificationCode == "" {
					continue
				}
				specStatus = append(specStatus, QuestionSpecStatus{
					Code:       *item.SpecificationCode,
					EvidenceID: item.EvidenceID,
					Uploaded:   uploaded[item.EvidenceID],
				})
			}
		}

		// Vacuously true when the selected level tags no specifications.
		allCompliant := true
		for _, s := range specStatus {
			if !s.Uploaded {
				allCompliant = false
				break
			}
		}

		detail := QuestionDetail{
			SelectedLevel:         *response.SelectedLevel,
			LevelNameEn:           LevelName(*response.SelectedLevel, "en"),
			LevelNameAr:           LevelName(*response.SelectedLevel, "ar"),
			RequiredEvidenceCount: requiredCount,
			UploadedEvidenceCount: len(response.Evidence),
			SpecificationsStatus:  specStatus,
			AllSpecsCompliant:     allCompliant,
		}
		if response.Question != nil {
			detail.QuestionCode = response.Question.Code
			detail.QuestionEn = response.Question.QuestionEn
			detail.QuestionAr = response.Question.QuestionAr
			if response.Question.Domain != nil {
				detail.DomainCode = response.Question.Domain.Code
			}
		}
		details = append(details, detail)
	}

	return &CombinedAssessmentResult{
		Maturity:        *maturity,
		Compliance:      *compliance,
		QuestionDetails: details,
	}, nil
}

// Recalculate recomputes both scores and persists the denormalized
// current_score/maturity_score/compliance_score columns on the assessment
// row. The write is best-effort: racing recalculations converge because the
// computation is deterministic, and a concurrently deleted assessment makes
// the write a no-op rather than an error.
func (e *Engine) Recalculate(assessmentID string) (*CombinedAssessmentResult, error) {
	result, err := e.CombinedAssessment(assessmentID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"current_score":    result.Maturity.OverallScore,
		"maturity_score":   result.Maturity.OverallScore,
		"compliance_score": result.Compliance.CompliancePercentage,
	}
	tx := e.db.Model(&models.Assessment{}).Where("id = ?", assessmentID).Updates(updates)
	if tx.Error != nil {
		slog.Warn("score write-back failed", "assessment_id", assessmentID, "error", tx.Error)
	} else if tx.RowsAffected == 0 {
		slog.Debug("score write-back skipped, assessment gone", "assessment_id", assessmentID)
	}

	return result, nil
}
