/*
 * @module service/models/task
 * @description Assessment work distribution tasks / المهام - assigning
 *              questions to assessors with priority and due dates.
 * @architecture Layered - entity models
 * @stateFlow pending -> in_progress -> completed; overdue set by due date
 * @dependencies gorm.io/gorm, github.com/google/uuid
 */

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Task statuses.
const (
	TaskStatusPending    = "pending"
	TaskStatusInProgress = "in_progress"
	TaskStatusCompleted  = "completed"
	TaskStatusOverdue    = "overdue"
)

// Task priorities.
const (
	TaskPriorityLow    = "low"
	TaskPriorityMedium = "medium"
	TaskPriorityHigh   = "high"
	TaskPriorityUrgent = "urgent"
)

// Task a unit of assessment work assigned to a user.
type Task struct {
	ID            string     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	AssessmentID  string     `json:"assessment_id" gorm:"not null;type:varchar(36);index"`
	QuestionID    *string    `json:"question_id,omitempty" gorm:"type:varchar(36)"`
	AssignedTo    string     `json:"assigned_to" gorm:"not null;type:varchar(36);index"`
	AssignedBy    string     `json:"assigned_by" gorm:"not null;type:varchar(36);index"`
	TitleEn       string     `json:"title_en" gorm:"not null;size:500"`
	TitleAr       string     `json:"title_ar" gorm:"not null;size:500"`
	DescriptionEn string     `json:"description_en" gorm:"type:text"`
	DescriptionAr string     `json:"description_ar" gorm:"type:text"`
	Status        string     `json:"status" gorm:"not null;size:20;default:'pending'"`
	Priority      string     `json:"priority" gorm:"not null;size:20;default:'medium'"`
	DueDate       *time.Time `json:"due_date,omitempty"`
	Notes         string     `json:"notes" gorm:"type:text"`
	CreatedAt     time.Time  `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt     time.Time  `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`

	Assessment *Assessment `json:"assessment,omitempty" gorm:"foreignKey:AssessmentID;constraint:OnDelete:CASCADE"`
	Question   *Question   `json:"question,omitempty" gorm:"foreignKey:QuestionID"`
}

func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	return nil
}

// IsOverdue reports whether the task has passed its due date without being
// completed.
func (t *Task) IsOverdue(now time.Time) bool {
	return t.DueDate != nil && t.Status != TaskStatusCompleted && now.After(*t.DueDate)
}
