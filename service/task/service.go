/*
 * @module service/task/service
 * @description Task service: assigning assessment work to users, status
 *              updates, per-user task lists, statistics and overdue marking.
 * @architecture Layered - business service
 * @stateFlow pending -> in_progress -> completed; overdue applied by sweep
 * @rules Completing a task stamps completed_at; overdue never overwrites
 *        completed
 * @dependencies ndi-assessment-service/service/models, gorm.io/gorm
 */

package task

import (
	"errors"
	"time"

	"ndi-assessment-service/service/models"

	"gorm.io/gorm"
)

// ErrNotFound task does not exist.
var ErrNotFound = errors.New("task not found")

// Service task business logic.
type Service struct {
	db *gorm.DB
}

// NewService creates a task service.
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// CreateRequest payload for creating a task.
type CreateRequest struct {
	AssessmentID  string     `json:"assessment_id"`
	QuestionID    *string    `json:"question_id,omitempty"`
	AssignedTo    string     `json:"assigned_to"`
	AssignedBy    string     `json:"assigned_by"`
	TitleEn       string     `json:"title_en"`
	TitleAr       string     `json:"title_ar"`
	DescriptionEn string     `json:"description_en"`
	DescriptionAr string     `json:"description_ar"`
	Priority      string     `json:"priority"`
	DueDate       *time.Time `json:"due_date,omitempty"`
}

// UpdateRequest partial task update.
type UpdateRequest struct {
	Status   *string    `json:"status,omitempty"`
	Priority *string    `json:"priority,omitempty"`
	DueDate  *time.Time `json:"due_date,omitempty"`
	Notes    *string    `json:"notes,omitempty"`
}

// Stats aggregate task counts.
type Stats struct {
	Total      int64 `json:"total"`
	Pending    int64 `json:"pending"`
	InProgress int64 `json:"in_progress"`
	Completed  int64 `json:"completed"`
	Overdue    int64 `json:"overdue"`
}

// Create assigns a new task.
func (s *Service) Create(req *CreateRequest) (*models.Task, error) {
	if req.AssessmentID == "" || req.AssignedTo == "" {
		return nil, errors.New("assessment_id and assigned_to are required")
	}

	var count int64
	if err := s.db.Model(&models.Assessment{}).Where("id = ?", req.AssessmentID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, errors.New("assessment not found")
	}

	priority := req.Priority
	if priority == "" {
		priority = models.TaskPriorityMedium
	}
	switch priority {
	case models.TaskPriorityLow, models.TaskPriorityMedium, models.TaskPriorityHigh, models.TaskPriorityUrgent:
	default:
		return nil, errors.New("unknown priority")
	}

	task := &models.Task{
		AssessmentID:  req.AssessmentID,
		QuestionID:    req.QuestionID,
		AssignedTo:    req.AssignedTo,
		AssignedBy:    req.AssignedBy,
		TitleEn:       req.TitleEn,
		TitleAr:       req.TitleAr,
		DescriptionEn: req.DescriptionEn,
		DescriptionAr: req.DescriptionAr,
		Status:        models.TaskStatusPending,
		Priority:      priority,
		DueDate:       req.DueDate,
	}
	if err := s.db.Create(task).Error; err != nil {
		return nil, err
	}
	return task, nil
}

// Get returns one task.
func (s *Service) Get(id string) (*models.Task, error) {
	var task models.Task
	if err := s.db.First(&task, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &task, nil
}

// List returns tasks filtered by assessment, assignee and status.
func (s *Service) List(assessmentID, assignedTo, status string) ([]models.Task, error) {
	query := s.db.Model(&models.Task{})
	if assessmentID != "" {
		query = query.Where("assessment_id = ?", assessmentID)
	}
	if assignedTo != "" {
		query = query.Where("assigned_to = ?", assignedTo)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var tasks []models.Task
	err := query.Order("due_date IS NULL, due_date, created_at").Find(&tasks).Error
	return tasks, err
}

// Update applies a partial update. Setting status to completed stamps
// completed_at.
func (s *Service) Update(id string, req *UpdateRequest) (*models.Task, error) {
	task, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if req.Status != nil {
		switch *req.Status {
		case models.TaskStatusPending, models.TaskStatusInProgress, models.TaskStatusCompleted, models.TaskStatusOverdue:
		default:
			return nil, errors.New("unknown status")
		}
		task.Status = *req.Status
		if *req.Status == models.TaskStatusCompleted && task.CompletedAt == nil {
			now := time.Now()
			task.CompletedAt = &now
		}
	}
	if req.Priority != nil {
		task.Priority = *req.Priority
	}
	if req.DueDate != nil {
		task.DueDate = req.DueDate
	}
	if req.Notes != nil {
		task.Notes = *req.Notes
	}

	if err := s.db.Save(task).Error; err != nil {
		return nil, err
	}
	return task, nil
}

// Delete removes a task.
func (s *Service) Delete(id string) error {
	tx := s.db.Delete(&models.Task{}, "id = ?", id)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// StatsFor aggregates counts, optionally scoped to one assignee.
func (s *Service) StatsFor(assignedTo string) (*Stats, error) {
	base := func() *gorm.DB {
		q := s.db.Model(&models.Task{})
		if assignedTo != "" {
			q = q.Where("assigned_to = ?", assignedTo)
		}
		return q
	}

	var stats Stats
	if err := base().Count(&stats.Total).Error; err != nil {
		return nil, err
	}
	base().Where("status = ?", models.TaskStatusPending).Count(&stats.Pending)
	base().Where("status = ?", models.TaskStatusInProgress).Count(&stats.InProgress)
	base().Where("status = ?", models.TaskStatusCompleted).Count(&stats.Completed)
	base().Where("status = ?", models.TaskStatusOverdue).Count(&stats.Overdue)
	return &stats, nil
}

// MarkOverdue flips past-due open tasks to overdue and returns how many rows
// changed. Completed tasks are never touched.
func (s *Service) MarkOverdue(now time.Time) (int64, error) {
	tx := s.db.Model(&models.Task{}).
		Where("due_date IS NOT NULL AND due_date < ?", now).
		Where("status IN ?", []string{models.TaskStatusPending, models.TaskStatusInProgress}).
		Update("status", models.TaskStatusOverdue)
	return tx.RowsAffected, tx.Error
}
