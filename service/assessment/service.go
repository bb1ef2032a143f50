/*
 * @module service/assessment/service
 * @description Assessment lifecycle service: CRUD, one-directional status
 *              transitions, per-question response upsert and submission.
 * @architecture Layered - business service
 * @stateFlow draft -> in_progress -> completed -> archived
 * @rules One response per (assessment, question); selected levels must match
 *        an existing maturity level row; deletes cascade to responses and
 *        evidence
 * @dependencies ndi-assessment-service/service/models, ndi-assessment-service/service/scoring, gorm.io/gorm
 */

package assessment

import (
	"errors"
	"fmt"
	"time"

	"ndi-assessment-service/service/models"
	"ndi-assessment-service/service/scoring"

	"gorm.io/gorm"
)

// ErrNotFound assessment or related row does not exist.
var ErrNotFound = errors.New("assessment not found")

// ErrInvalidTransition disallowed status change.
var ErrInvalidTransition = errors.New("invalid status transition")

// Service assessment business logic.
type Service struct {
	db     *gorm.DB
	engine *scoring.Engine
}

// NewService creates an assessment service.
func NewService(db *gorm.DB, engine *scoring.Engine) *Service {
	return &Service{db: db, engine: engine}
}

// CreateRequest payload for creating an assessment.
type CreateRequest struct {
	AssessmentType string `json:"assessment_type"`
	Name           string `json:"name"`
	Description    string `json:"description"`
	TargetLevel    *int   `json:"target_level,omitempty"`
	CreatedBy      string `json:"created_by,omitempty"`
}

// UpdateRequest payload for updating an assessment.
type UpdateRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Status      *string `json:"status,omitempty"`
	TargetLevel *int    `json:"target_level,omitempty"`
}

// ResponseRequest payload for answering one question.
type ResponseRequest struct {
	QuestionID    string `json:"question_id"`
	SelectedLevel *int   `json:"selected_level,omitempty"`
	Justification string `json:"justification"`
	Notes         string `json:"notes"`
}

// ListItem assessment row enriched with progress information.
type ListItem struct {
	models.Assessment
	ResponsesCount     int     `json:"responses_count"`
	ProgressPercentage float64 `json:"progress_percentage"`
}

// Create creates a draft assessment.
func (s *Service) Create(req *CreateRequest) (*models.Assessment, error) {
	if req.AssessmentType == "" {
		req.AssessmentType = models.AssessmentTypeMaturity
	}
	switch req.AssessmentType {
	case models.AssessmentTypeMaturity, models.AssessmentTypeCompliance, models.AssessmentTypeOE:
	default:
		return nil, fmt.Errorf("unknown assessment type %q", req.AssessmentType)
	}
	if req.TargetLevel != nil && (*req.TargetLevel < 0 || *req.TargetLevel > 5) {
		return nil, errors.New("target level must be between 0 and 5")
	}

	assessment := &models.Assessment{
		AssessmentType: req.AssessmentType,
		Status:         models.AssessmentStatusDraft,
		Name:           req.Name,
		Description:    req.Description,
		TargetLevel:    req.TargetLevel,
		CreatedBy:      req.CreatedBy,
	}
	if err := s.db.Create(assessment).Error; err != nil {
		return nil, err
	}
	return assessment, nil
}

// Get returns one assessment.
func (s *Service) Get(id string) (*models.Assessment, error) {
	var assessment models.Assessment
	if err := s.db.First(&assessment, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &assessment, nil
}

// List returns a page of assessments with progress, newest first.
func (s *Service) List(page, pageSize int, status, assessmentType string) ([]ListItem, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	query := s.db.Model(&models.Assessment{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if assessmentType != "" {
		query = query.Where("assessment_type = ?", assessmentType)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var assessments []models.Assessment
	err := query.Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&assessments).Error
	if err != nil {
		return nil, 0, err
	}

	totalQuestions := s.totalQuestions()
	items := make([]ListItem, 0, len(assessments))
	for _, a := range assessments {
		var answered int64
		s.db.Model(&models.AssessmentResponse{}).
			Where("assessment_id = ? AND selected_level IS NOT NULL", a.ID).
			Count(&answered)

		progress := 0.0
		if totalQuestions > 0 {
			progress = float64(answered) / float64(totalQuestions) * 100
		}
		items = append(items, ListItem{
			Assessment:         a,
			ResponsesCount:     int(answered),
			ProgressPercentage: progress,
		})
	}
	return items, total, nil
}

// Update applies partial updates, enforcing the one-directional lifecycle.
func (s *Service) Update(id string, req *UpdateRequest) (*models.Assessment, error) {
	assessment, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if req.Status != nil && *req.Status != assessment.Status {
		if !models.ValidStatusTransition(assessment.Status, *req.Status) {
			return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, assessment.Status, *req.Status)
		}
		assessment.Status = *req.Status
		if *req.Status == models.AssessmentStatusCompleted && assessment.CompletedAt == nil {
			now := time.Now()
			assessment.CompletedAt = &now
		}
	}
	if req.Name != nil {
		assessment.Name = *req.Name
	}
	if req.Description != nil {
		assessment.Description = *req.Description
	}
	if req.TargetLevel != nil {
		if *req.TargetLevel < 0 || *req.TargetLevel > 5 {
			return nil, errors.New("target level must be between 0 and 5")
		}
		assessment.TargetLevel = req.TargetLevel
	}

	if err := s.db.Save(assessment).Error; err != nil {
		return nil, err
	}
	return assessment, nil
}

// Delete removes an assessment together with its responses and their
// evidence records.
func (s *Service) Delete(id string) error {
	assessment, err := s.Get(id)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		var responseIDs []string
		if err := tx.Model(&models.AssessmentResponse{}).
			Where("assessment_id = ?", assessment.ID).
			Pluck("id", &responseIDs).Error; err != nil {
			return err
		}
		if len(responseIDs) > 0 {
			if err := tx.Where("response_id IN ?", responseIDs).Delete(&models.Evidence{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("assessment_id = ?", assessment.ID).Delete(&models.AssessmentResponse{}).Error; err != nil {
			return err
		}
		if err := tx.Where("assessment_id = ?", assessment.ID).Delete(&models.Task{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Assessment{}, "id = ?", assessment.ID).Error
	})
}

// Submit marks an assessment completed and refreshes its cached scores.
func (s *Service) Submit(id string) (*models.Assessment, error) {
	assessment, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if !models.ValidStatusTransition(assessment.Status, models.AssessmentStatusCompleted) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, assessment.Status, models.AssessmentStatusCompleted)
	}

	now := time.Now()
	assessment.Status = models.AssessmentStatusCompleted
	assessment.CompletedAt = &now
	if err := s.db.Save(assessment).Error; err != nil {
		return nil, err
	}

	if _, err := s.engine.Recalculate(assessment.ID); err != nil {
		return nil, err
	}
	return s.Get(assessment.ID)
}

// Responses returns every response of an assessment with question, level and
// evidence detail.
func (s *Service) Responses(assessmentID string) ([]models.AssessmentResponse, error) {
	if _, err := s.Get(assessmentID); err != nil {
		return nil, err
	}

	var responses []models.AssessmentResponse
	err := s.db.
		Preload("Question").
		Preload("Question.MaturityLevels", func(db *gorm.DB) *gorm.DB {
			return db.Order("level")
		}).
		Preload("Question.MaturityLevels.AcceptanceEvidence", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order")
		}).
		Preload("Evidence").
		Where("assessment_id = ?", assessmentID).
		Find(&responses).Error
	return responses, err
}

// UpsertResponse creates or updates the single response of a question within
// an assessment. Answering a draft assessment moves it to in_progress.
func (s *Service) UpsertResponse(assessmentID string, req *ResponseRequest) (*models.AssessmentResponse, error) {
	assessment, err := s.Get(assessmentID)
	if err != nil {
		return nil, err
	}

	var question models.Question
	if err := s.db.First(&question, "id = ?", req.QuestionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("question not found")
		}
		return nil, err
	}

	if req.SelectedLevel != nil {
		if *req.SelectedLevel < 0 || *req.SelectedLevel > 5 {
			return nil, errors.New("selected level must be between 0 and 5")
		}
		// The level must exist in the taxonomy for this question.
		var count int64
		s.db.Model(&models.MaturityLevel{}).
			Where("question_id = ? AND level = ?", question.ID, *req.SelectedLevel).
			Count(&count)
		if count == 0 {
			return nil, fmt.Errorf("question %s has no maturity level %d", question.Code, *req.SelectedLevel)
		}
	}

	var response models.AssessmentResponse
	err = s.db.Where("assessment_id = ? AND question_id = ?", assessmentID, req.QuestionID).
		First(&response).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		response = models.AssessmentResponse{
			AssessmentID:  assessmentID,
			QuestionID:    req.QuestionID,
			SelectedLevel: req.SelectedLevel,
			Justification: req.Justification,
			Notes:         req.Notes,
		}
		if err := s.db.Create(&response).Error; err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	default:
		response.SelectedLevel = req.SelectedLevel
		response.Justification = req.Justification
		response.Notes = req.Notes
		if err := s.db.Save(&response).Error; err != nil {
			return nil, err
		}
	}

	if assessment.Status == models.AssessmentStatusDraft {
		assessment.Status = models.AssessmentStatusInProgress
		if err := s.db.Save(assessment).Error; err != nil {
			return nil, err
		}
	}

	return &response, nil
}

func (s *Service) totalQuestions() int {
	var count int64
	s.db.Model(&models.Question{}).Count(&count)
	return int(count)
}
