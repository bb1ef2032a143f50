/*
 * @module service/models/assessment
 * @description Assessment run and per-question response models, including the
 *              denormalized cached score columns refreshed by the recalculate
 *              operation.
 * @architecture Layered - entity models
 * @stateFlow draft -> in_progress -> completed -> archived (one-directional)
 * @rules At most one response per (assessment, question); deleting an
 *        assessment cascades to its responses and their evidence
 * @dependencies gorm.io/gorm, github.com/google/uuid
 */

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Assessment types.
const (
	AssessmentTypeMaturity   = "maturity"
	AssessmentTypeCompliance = "compliance"
	AssessmentTypeOE         = "oe"
)

// Assessment statuses, ordered lifecycle.
const (
	AssessmentStatusDraft      = "draft"
	AssessmentStatusInProgress = "in_progress"
	AssessmentStatusCompleted  = "completed"
	AssessmentStatusArchived   = "archived"
)

// Assessment one assessment run / التقييم.
// CurrentScore, MaturityScore and ComplianceScore are eventually-consistent
// projections: they are written only by an explicit recalculate, never on read.
type Assessment struct {
	ID             string     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	AssessmentType string     `json:"assessment_type" gorm:"not null;size:20;default:'maturity'"`
	Status         string     `json:"status" gorm:"not null;size:20;default:'draft'"`
	Name           string     `json:"name" gorm:"size:255"`
	Description    string     `json:"description" gorm:"type:text"`
	TargetLevel    *int       `json:"target_level,omitempty"`
	CurrentScore   *float64   `json:"current_score,omitempty"`
	MaturityScore  *float64   `json:"maturity_score,omitempty"`
	ComplianceScore *float64  `json:"compliance_score,omitempty"`
	CreatedBy      string     `json:"created_by,omitempty" gorm:"type:varchar(36)"`
	CreatedAt      time.Time  `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt      time.Time  `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`

	Responses []AssessmentResponse `json:"responses,omitempty" gorm:"foreignKey:AssessmentID;constraint:OnDelete:CASCADE"`
}

// AssessmentResponse one answer per question per assessment / إجابة التقييم.
// SelectedLevel stays nil until the question is answered.
type AssessmentResponse struct {
	ID            string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	AssessmentID  string    `json:"assessment_id" gorm:"not null;type:varchar(36);uniqueIndex:idx_assessment_question"`
	QuestionID    string    `json:"question_id" gorm:"not null;type:varchar(36);uniqueIndex:idx_assessment_question"`
	SelectedLevel *int      `json:"selected_level,omitempty"`
	Justification string    `json:"justification" gorm:"type:text"`
	Notes         string    `json:"notes" gorm:"type:text"`
	CreatedAt     time.Time `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt     time.Time `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`

	Assessment *Assessment `json:"assessment,omitempty" gorm:"foreignKey:AssessmentID"`
	Question   *Question   `json:"question,omitempty" gorm:"foreignKey:QuestionID"`
	Evidence   []Evidence  `json:"evidence,omitempty" gorm:"foreignKey:ResponseID;constraint:OnDelete:CASCADE"`
}

func (a *Assessment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return nil
}

func (r *AssessmentResponse) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return nil
}

// ValidStatusTransition reports whether moving an assessment from one status
// to the next is allowed. The lifecycle is strictly forward; in particular,
// nothing ever goes back to draft.
func ValidStatusTransition(from, to string) bool {
	if from == to {
		return true
	}
	order := map[string]int{
		AssessmentStatusDraft:      0,
		AssessmentStatusInProgress: 1,
		AssessmentStatusCompleted:  2,
		AssessmentStatusArchived:   3,
	}
	f, okF := order[from]
	t, okT := order[to]
	if !okF || !okT {
		return false
	}
	return t > f
}
