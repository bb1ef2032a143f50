/*
 * @module service/models/taxonomy
 * @description NDI taxonomy models: domains, questions, maturity levels and
 *              acceptance evidence. Reference data, seeded once and read-only
 *              during normal operation.
 * @architecture Layered - entity models
 * @stateFlow Seeded at startup (or via admin reseed), consumed by the scoring engines
 * @rules Every question carries exactly six maturity levels (0..5); acceptance
 *        evidence ordinals are unique per maturity level only
 * @dependencies gorm.io/gorm, github.com/google/uuid
 */

package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Domain NDI domain / المجال - top-level grouping of maturity questions.
type Domain struct {
	ID            string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Code          string `json:"code" gorm:"not null;unique;size:10"`
	NameEn        string `json:"name_en" gorm:"not null;size:255"`
	NameAr        string `json:"name_ar" gorm:"not null;size:255"`
	DescriptionEn string `json:"description_en" gorm:"type:text"`
	DescriptionAr string `json:"description_ar" gorm:"type:text"`
	QuestionCount int    `json:"question_count" gorm:"default:0"`
	// IsOEDomain marks Open Entity domains, which are reported separately.
	IsOEDomain bool   `json:"is_oe_domain" gorm:"default:false"`
	Icon       string `json:"icon,omitempty" gorm:"size:50"`
	Color      string `json:"color,omitempty" gorm:"size:20"`
	SortOrder  int    `json:"sort_order" gorm:"default:0"`

	Questions      []Question      `json:"questions,omitempty" gorm:"foreignKey:DomainID;constraint:OnDelete:CASCADE"`
	Specifications []Specification `json:"specifications,omitempty" gorm:"foreignKey:DomainID;constraint:OnDelete:CASCADE"`
}

// Question NDI maturity question / سؤال النضج.
type Question struct {
	ID         string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	DomainID   string `json:"domain_id" gorm:"not null;type:varchar(36);index"`
	Code       string `json:"code" gorm:"not null;unique;size:20"`
	QuestionEn string `json:"question_en" gorm:"not null;type:text"`
	QuestionAr string `json:"question_ar" gorm:"not null;type:text"`
	SortOrder  int    `json:"sort_order" gorm:"default:0"`

	Domain         *Domain         `json:"domain,omitempty" gorm:"foreignKey:DomainID"`
	MaturityLevels []MaturityLevel `json:"maturity_levels,omitempty" gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE"`
}

// MaturityLevel one of the six capability levels (0..5) of a question.
type MaturityLevel struct {
	ID            string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	QuestionID    string `json:"question_id" gorm:"not null;type:varchar(36);uniqueIndex:idx_question_level"`
	Level         int    `json:"level" gorm:"not null;uniqueIndex:idx_question_level"`
	NameEn        string `json:"name_en" gorm:"not null;size:50"`
	NameAr        string `json:"name_ar" gorm:"not null;size:50"`
	DescriptionEn string `json:"description_en" gorm:"type:text"`
	DescriptionAr string `json:"description_ar" gorm:"type:text"`

	Question           *Question            `json:"question,omitempty" gorm:"foreignKey:QuestionID"`
	AcceptanceEvidence []AcceptanceEvidence `json:"acceptance_evidence,omitempty" gorm:"foreignKey:MaturityLevelID;constraint:OnDelete:CASCADE"`
}

// AcceptanceEvidence a documentary requirement attached to a maturity level.
// EvidenceID is a small ordinal unique within its level only - never treat it
// as a global key; key by (maturity_level_id, evidence_id).
type AcceptanceEvidence struct {
	ID              string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	MaturityLevelID string `json:"maturity_level_id" gorm:"not null;type:varchar(36);uniqueIndex:idx_level_evidence"`
	EvidenceID      int    `json:"evidence_id" gorm:"not null;uniqueIndex:idx_level_evidence"`
	TextEn          string `json:"text_en" gorm:"type:text"`
	TextAr          string `json:"text_ar" gorm:"type:text"`
	// SpecificationCode, when set, makes this item compliance-relevant and maps
	// it to exactly one external specification.
	SpecificationCode *string `json:"specification_code,omitempty" gorm:"size:20;index"`
	// InheritsFromLevel references a lower level whose matching requirement is
	// considered already satisfied at data-authoring time. The compliance engine
	// does not resolve it across levels at runtime.
	InheritsFromLevel *int `json:"inherits_from_level,omitempty"`
	SortOrder         int  `json:"sort_order" gorm:"default:0"`

	MaturityLevel *MaturityLevel `json:"maturity_level,omitempty" gorm:"foreignKey:MaturityLevelID"`
}

// Specification NDI compliance specification / مواصفة الامتثال.
type Specification struct {
	ID            string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	DomainID      string `json:"domain_id" gorm:"not null;type:varchar(36);index"`
	Code          string `json:"code" gorm:"not null;unique;size:20"`
	TitleEn       string `json:"title_en" gorm:"not null;size:500"`
	TitleAr       string `json:"title_ar" gorm:"not null;size:500"`
	DescriptionEn string `json:"description_en" gorm:"type:text"`
	DescriptionAr string `json:"description_ar" gorm:"type:text"`
	MaturityLevel *int   `json:"maturity_level,omitempty"`
	SortOrder     int    `json:"sort_order" gorm:"default:0"`

	Domain *Domain `json:"domain,omitempty" gorm:"foreignKey:DomainID"`
}

func (d *Domain) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	return nil
}

func (q *Question) BeforeCreate(tx *gorm.DB) error {
	if q.ID == "" {
		q.ID = uuid.New().String()
	}
	return nil
}

func (ml *MaturityLevel) BeforeCreate(tx *gorm.DB) error {
	if ml.ID == "" {
		ml.ID = uuid.New().String()
	}
	return nil
}

func (ae *AcceptanceEvidence) BeforeCreate(tx *gorm.DB) error {
	if ae.ID == "" {
		ae.ID = uuid.New().String()
	}
	return nil
}

func (s *Specification) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	return nil
}

// TableName overrides keep the historical ndi_* table names used by the
// seeded database.
func (Domain) TableName() string             { return "ndi_domains" }
func (Question) TableName() string           { return "ndi_questions" }
func (MaturityLevel) TableName() string      { return "ndi_maturity_levels" }
func (AcceptanceEvidence) TableName() string { return "ndi_acceptance_evidence" }
func (Specification) TableName() string      { return "ndi_specifications" }
