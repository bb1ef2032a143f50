/*
 * @module service/report/service
 * @description Report assembly for completed assessments: the combined score
 *              report, the completed-assessments summary, JSON export and the
 *              Excel workbook export.
 * @architecture Layered - business service
 * @stateFlow read-only over assessments and the scoring engine
 * @rules Reports are built from live data at request time; nothing is stored
 * @dependencies ndi-assessment-service/service/scoring, github.com/xuri/excelize/v2, gorm.io/gorm
 */

package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"ndi-assessment-service/service/models"
	"ndi-assessment-service/service/scoring"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// ErrNotFound assessment does not exist.
var ErrNotFound = errors.New("assessment not found")

// Service report business logic.
type Service struct {
	db     *gorm.DB
	engine *scoring.Engine
}

// NewService creates a report service.
func NewService(db *gorm.DB, engine *scoring.Engine) *Service {
	return &Service{db: db, engine: engine}
}

// AssessmentReport the full report payload of one assessment.
type AssessmentReport struct {
	Assessment  models.Assessment                `json:"assessment"`
	GeneratedAt time.Time                        `json:"generated_at"`
	Maturity    scoring.MaturityScoreResult      `json:"maturity"`
	Compliance  scoring.ComplianceScoreResult    `json:"compliance"`
	Questions   []scoring.QuestionDetail         `json:"questions"`
}

// SummaryEntry one row of the completed-assessments summary.
type SummaryEntry struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	AssessmentType  string     `json:"assessment_type"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
	MaturityScore   *float64   `json:"maturity_score,omitempty"`
	ComplianceScore *float64   `json:"compliance_score,omitempty"`
}

// Build assembles the report for one assessment.
func (s *Service) Build(assessmentID string) (*AssessmentReport, error) {
	var assessment models.Assessment
	if err := s.db.First(&assessment, "id = ?", assessmentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	combined, err := s.engine.CombinedAssessment(assessmentID)
	if err != nil {
		return nil, err
	}

	return &AssessmentReport{
		Assessment:  assessment,
		GeneratedAt: time.Now(),
		Maturity:    combined.Maturity,
		Compliance:  combined.Compliance,
		Questions:   combined.QuestionDetails,
	}, nil
}

// ExportJSON renders the report as indented JSON.
func (s *Service) ExportJSON(assessmentID string) ([]byte, error) {
	report, err := s.Build(assessmentID)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(report, "", "  ")
}

// CompletedSummary lists completed assessments with their cached scores,
// newest first.
func (s *Service) CompletedSummary() ([]SummaryEntry, error) {
	var assessments []models.Assessment
	err := s.db.Where("status = ?", models.AssessmentStatusCompleted).
		Order("completed_at DESC").
		Find(&assessments).Error
	if err != nil {
		return nil, err
	}

	entries := make([]SummaryEntry, 0, len(assessments))
	for _, a := range assessments {
		entries = append(entries, SummaryEntry{
			ID:              a.ID,
			Name:            a.Name,
			AssessmentType:  a.AssessmentType,
			CompletedAt:     a.CompletedAt,
			MaturityScore:   a.MaturityScore,
			ComplianceScore: a.ComplianceScore,
		})
	}
	return entries, nil
}

// ExportExcel renders the report as a three-sheet workbook: Summary, Domain
// Scores and Responses.
func (s *Service) ExportExcel(assessmentID string) (*excelize.File, error) {
	report, err := s.Build(assessmentID)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()

	const summary = "Summary"
	f.SetSheetName("Sheet1", summary)
	summaryRows := [][]interface{}{
		{"Assessment", report.Assessment.Name},
		{"Type", report.Assessment.AssessmentType},
		{"Status", report.Assessment.Status},
		{"Generated At", report.GeneratedAt.Format(time.RFC3339)},
		{},
		{"Overall Maturity Score", report.Maturity.OverallScore},
		{"Overall Level", fmt.Sprintf("%d - %s", report.Maturity.OverallLevel, report.Maturity.OverallLevelNameEn)},
		{"Overall Percentage", report.Maturity.OverallPercentage},
		{"Answered Questions", fmt.Sprintf("%d / %d", report.Maturity.AnsweredCount, report.Maturity.TotalQuestions)},
		{},
		{"Compliance Percentage", report.Compliance.CompliancePercentage},
		{"Compliant Specifications", report.Compliance.CompliantCount},
		{"Non-Compliant Specifications", report.Compliance.NonCompliantCount},
		{"Fully Compliant", report.Compliance.IsCompliant},
	}
	for i, row := range summaryRows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(summary, cell, &row); err != nil {
			return nil, err
		}
	}

	const domains = "Domain Scores"
	if _, err := f.NewSheet(domains); err != nil {
		return nil, err
	}
	header := []interface{}{"Code", "Domain (EN)", "Domain (AR)", "Score", "Level", "Level Name", "Answered", "Total", "Percentage"}
	if err := f.SetSheetRow(domains, "A1", &header); err != nil {
		return nil, err
	}
	for i, ds := range report.Maturity.DomainScores {
		row := []interface{}{ds.DomainCode, ds.DomainNameEn, ds.DomainNameAr, ds.Score, ds.Level, ds.LevelNameEn, ds.AnsweredCount, ds.TotalQuestions, ds.Percentage}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(domains, cell, &row); err != nil {
			return nil, err
		}
	}

	const responses = "Responses"
	if _, err := f.NewSheet(responses); err != nil {
		return nil, err
	}
	header = []interface{}{"Domain", "Question Code", "Question", "Selected Level", "Level Name", "Required Evidence", "Uploaded Evidence", "All Specs Compliant"}
	if err := f.SetSheetRow(responses, "A1", &header); err != nil {
		return nil, err
	}
	for i, q := range report.Questions {
		row := []interface{}{q.DomainCode, q.QuestionCode, q.QuestionEn, q.SelectedLevel, q.LevelNameEn, q.RequiredEvidenceCount, q.UploadedEvidenceCount, q.AllSpecsCompliant}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(responses, cell, &row); err != nil {
			return nil, err
		}
	}

	return f, nil
}
