/*
 * @module testutil/test_helper
 * @description Test infrastructure: in-memory sqlite database and data
 *              factories for taxonomy, assessments, responses and evidence.
 * @architecture Test infrastructure - shared helpers and factories
 * @stateFlow test DB init -> factory data -> test run -> cleanup
 * @rules Factories create minimal valid rows; option functions override
 * @dependencies gorm, sqlite, ndi-assessment-service/service/models
 */

package testutil

import (
	"fmt"

	"ndi-assessment-service/service/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TestDB wraps an in-memory database with all models migrated.
type TestDB struct {
	DB *gorm.DB
}

// NewTestDB opens a fresh in-memory sqlite database and migrates every model.
func NewTestDB() *TestDB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		panic(fmt.Sprintf("failed to connect test database: %v", err))
	}

	err = db.AutoMigrate(
		&models.Domain{},
		&models.Question{},
		&models.MaturityLevel{},
		&models.AcceptanceEvidence{},
		&models.Specification{},
		&models.Assessment{},
		&models.AssessmentResponse{},
		&models.Evidence{},
		&models.User{},
		&models.Task{},
		&models.OrganizationSettings{},
		&models.Setting{},
		&models.AIProviderConfig{},
	)
	if err != nil {
		panic(fmt.Sprintf("failed to migrate test database: %v", err))
	}

	return &TestDB{DB: db}
}

// CleanDB empties every table without dropping the schema.
func (tdb *TestDB) CleanDB() {
	tables := []string{
		"evidence",
		"assessment_responses",
		"assessments",
		"tasks",
		"ndi_acceptance_evidence",
		"ndi_maturity_levels",
		"ndi_questions",
		"ndi_specifications",
		"ndi_domains",
		"users",
		"settings",
		"ai_provider_configs",
		"organization_settings",
	}

	for _, table := range tables {
		tdb.DB.Exec(fmt.Sprintf("DELETE FROM %s", table))
	}
}

// Close releases the underlying connection.
func (tdb *TestDB) Close() {
	if db, err := tdb.DB.DB(); err == nil {
		db.Close()
	}
}

// TestDataFactory creates related test rows.
type TestDataFactory struct {
	DB  *gorm.DB
	seq int
}

// NewTestDataFactory creates a factory bound to a database.
func NewTestDataFactory(db *gorm.DB) *TestDataFactory {
	return &TestDataFactory{DB: db}
}

func (f *TestDataFactory) next() int {
	f.seq++
	return f.seq
}

// DomainOption overrides fields of a factory-created domain.
type DomainOption func(*models.Domain)

// CreateDomain creates a domain with a unique code.
func (f *TestDataFactory) CreateDomain(opts ...DomainOption) *models.Domain {
	n := f.next()
	domain := &models.Domain{
		Code:      fmt.Sprintf("D%d", n),
		NameEn:    fmt.Sprintf("Test Domain %d", n),
		NameAr:    fmt.Sprintf("مجال تجريبي %d", n),
		SortOrder: n,
	}
	for _, opt := range opts {
		opt(domain)
	}
	if err := f.DB.Create(domain).Error; err != nil {
		panic(fmt.Sprintf("factory: create domain: %v", err))
	}
	return domain
}

// WithDomainCode sets the domain code.
func WithDomainCode(code string) DomainOption {
	return func(d *models.Domain) { d.Code = code }
}

// WithOEDomain marks the domain as an Open Entity domain.
func WithOEDomain() DomainOption {
	return func(d *models.Domain) { d.IsOEDomain = true }
}

// QuestionOption overrides fields of a factory-created question.
type QuestionOption func(*models.Question)

// WithQuestionCode sets the question code.
func WithQuestionCode(code string) QuestionOption {
	return func(q *models.Question) { q.Code = code }
}

// CreateQuestion creates a question under a domain together with its six
// maturity levels (0..5), mirroring the seeded taxonomy invariant.
func (f *TestDataFactory) CreateQuestion(domainID string, opts ...QuestionOption) *models.Question {
	n := f.next()
	question := &models.Question{
		DomainID:   domainID,
		Code:       fmt.Sprintf("D.MQ.%d", n),
		QuestionEn: fmt.Sprintf("Test question %d", n),
		QuestionAr: fmt.Sprintf("سؤال تجريبي %d", n),
		SortOrder:  n,
	}
	for _, opt := range opts {
		opt(question)
	}
	if err := f.DB.Create(question).Error; err != nil {
		panic(fmt.Sprintf("factory: create question: %v", err))
	}

	for level := 0; level <= 5; level++ {
		ml := &models.MaturityLevel{
			QuestionID:    question.ID,
			Level:         level,
			NameEn:        fmt.Sprintf("Level %d", level),
			NameAr:        fmt.Sprintf("المستوى %d", level),
			DescriptionEn: fmt.Sprintf("Description of level %d", level),
			DescriptionAr: fmt.Sprintf("وصف المستوى %d", level),
		}
		if err := f.DB.Create(ml).Error; err != nil {
			panic(fmt.Sprintf("factory: create maturity level: %v", err))
		}
	}
	return question
}

// MaturityLevelOf returns one of the question's levels.
func (f *TestDataFactory) MaturityLevelOf(questionID string, level int) *models.MaturityLevel {
	var ml models.MaturityLevel
	if err := f.DB.Where("question_id = ? AND level = ?", questionID, level).First(&ml).Error; err != nil {
		panic(fmt.Sprintf("factory: load maturity level: %v", err))
	}
	return &ml
}

// CreateAcceptanceEvidence attaches an acceptance-evidence item to a maturity
// level. specCode may be empty for items that are not compliance-relevant.
func (f *TestDataFactory) CreateAcceptanceEvidence(maturityLevelID string, evidenceID int, specCode string, inheritsFrom *int) *models.AcceptanceEvidence {
	item := &models.AcceptanceEvidence{
		MaturityLevelID:   maturityLevelID,
		EvidenceID:        evidenceID,
		TextEn:            fmt.Sprintf("Required document %d", evidenceID),
		TextAr:            fmt.Sprintf("المستند المطلوب %d", evidenceID),
		InheritsFromLevel: inheritsFrom,
		SortOrder:         evidenceID,
	}
	if specCode != "" {
		item.SpecificationCode = &specCode
	}
	if err := f.DB.Create(item).Error; err != nil {
		panic(fmt.Sprintf("factory: create acceptance evidence: %v", err))
	}
	return item
}

// AssessmentOption overrides fields of a factory-created assessment.
type AssessmentOption func(*models.Assessment)

// WithAssessmentStatus sets the assessment status.
func WithAssessmentStatus(status string) AssessmentOption {
	return func(a *models.Assessment) { a.Status = status }
}

// CreateAssessment creates a draft maturity assessment.
func (f *TestDataFactory) CreateAssessment(opts ...AssessmentOption) *models.Assessment {
	n := f.next()
	assessment := &models.Assessment{
		AssessmentType: models.AssessmentTypeMaturity,
		Status:         models.AssessmentStatusDraft,
		Name:           fmt.Sprintf("Test Assessment %d", n),
	}
	for _, opt := range opts {
		opt(assessment)
	}
	if err := f.DB.Create(assessment).Error; err != nil {
		panic(fmt.Sprintf("factory: create assessment: %v", err))
	}
	return assessment
}

// CreateResponse answers a question within an assessment. level may be nil
// for an unanswered placeholder row.
func (f *TestDataFactory) CreateResponse(assessmentID, questionID string, level *int) *models.AssessmentResponse {
	response := &models.AssessmentResponse{
		AssessmentID:  assessmentID,
		QuestionID:    questionID,
		SelectedLevel: level,
	}
	if err := f.DB.Create(response).Error; err != nil {
		panic(fmt.Sprintf("factory: create response: %v", err))
	}
	return response
}

// CreateEvidence attaches an uploaded file record to a response, claiming the
// given acceptance-evidence ordinal (nil for unlinked uploads).
func (f *TestDataFactory) CreateEvidence(responseID string, ordinal *int) *models.Evidence {
	n := f.next()
	evidence := &models.Evidence{
		ResponseID:     responseID,
		EvidenceID:     ordinal,
		FileName:       fmt.Sprintf("evidence_%d.pdf", n),
		FilePath:       fmt.Sprintf("uploads/evidence_%d.pdf", n),
		FileType:       "pdf",
		MimeType:       "application/pdf",
		AnalysisStatus: models.AnalysisStatusPending,
	}
	if err := f.DB.Create(evidence).Error; err != nil {
		panic(fmt.Sprintf("factory: create evidence: %v", err))
	}
	return evidence
}

// IntPtr convenience for nullable level fields.
func IntPtr(v int) *int { return &v }
