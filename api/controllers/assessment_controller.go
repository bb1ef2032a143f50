/*
 * @module api/controllers/assessment_controller
 * @description Assessment lifecycle endpoints: CRUD, response upsert, listing
 *              responses and submission.
 * @architecture MVC - controller layer
 * @stateFlow draft -> in_progress -> completed -> archived
 * @rules Lifecycle violations map to 409, unknown rows to 404
 * @dependencies ndi-assessment-service/service, github.com/go-chi/chi/v5, github.com/go-chi/render
 */

package controllers

import (
	"errors"
	"net/http"

	"ndi-assessment-service/service"
	"ndi-assessment-service/service/assessment"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/spf13/cast"
)

// AssessmentController assessment lifecycle endpoints.
type AssessmentController struct {
	svc *assessment.Service
}

// NewAssessmentController creates an assessment controller instance.
func NewAssessmentController() *AssessmentController {
	return &AssessmentController{svc: service.GlobalAssessmentService}
}

// Create create assessment
// @Summary Create an assessment
// @Tags Assessments
// @Accept json
// @Produce json
// @Param assessment body assessment.CreateRequest true "Assessment"
// @Success 201 {object} APIResponse{data=models.Assessment}
// @Failure 400 {object} APIResponse
// @Router /assessments [post]
func (c *AssessmentController) Create(w http.ResponseWriter, r *http.Request) {
	var req assessment.CreateRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		BadRequest(w, r, "invalid request body")
		return
	}

	created, err := c.svc.Create(&req)
	if err != nil {
		BadRequest(w, r, err.Error())
		return
	}
	Created(w, r, "assessment created", created)
}

// List list assessments
// @Summary List assessments with progress
// @Tags Assessments
// @Produce json
// @Param page query int false "Page" default(1)
// @Param size query int false "Page size" default(20)
// @Param status query string false "Status filter"
// @Param type query string false "Type filter"
// @Success 200 {object} PaginatedResponse{data=[]assessment.ListItem}
// @Router /assessments [get]
func (c *AssessmentController) List(w http.ResponseWriter, r *http.Request) {
	page := cast.ToInt(r.URL.Query().Get("page"))
	size := cast.ToInt(r.URL.Query().Get("size"))
	if page <= 0 {
		page = 1
	}
	if size <= 0 {
		size = 20
	}

	items, total, err := c.svc.List(page, size, r.URL.Query().Get("status"), r.URL.Query().Get("type"))
	if err != nil {
		ServerError(w, r, "failed to list assessments")
		return
	}
	Paginated(w, r, "assessments loaded", items, total, page, size)
}

// Get assessment detail
// @Summary Get one assessment
// @Tags Assessments
// @Produce json
// @Param id path string true "Assessment id"
// @Success 200 {object} APIResponse{data=models.Assessment}
// @Failure 404 {object} APIResponse
// @Router /assessments/{id} [get]
func (c *AssessmentController) Get(w http.ResponseWriter, r *http.Request) {
	found, err := c.svc.Get(chi.URLParam(r, "id"))
	if errors.Is(err, assessment.ErrNotFound) {
		NotFound(w, r, "assessment not found")
		return
	}
	if err != nil {
		ServerError(w, r, "failed to load assessment")
		return
	}
	Success(w, r, "assessment loaded", found)
}

// Update update assessment
// @Summary Update an assessment
// @Description Applies a partial update; status changes follow the one-directional lifecycle
// @Tags Assessments
// @Accept json
// @Produce json
// @Param id path string true "Assessment id"
// @Param assessment body assessment.UpdateRequest true "Fields to update"
// @Success 200 {object} APIResponse{data=models.Assessment}
// @Failure 404 {object} APIResponse
// @Failure 409 {object} APIResponse "Invalid status transition"
// @Router /assessments/{id} [put]
func (c *AssessmentController) Update(w http.ResponseWriter, r *http.Request) {
	var req assessment.UpdateRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		BadRequest(w, r, "invalid request body")
		return
	}

	updated, err := c.svc.Update(chi.URLParam(r, "id"), &req)
	switch {
	case errors.Is(err, assessment.ErrNotFound):
		NotFound(w, r, "assessment not found")
	case errors.Is(err, assessment.ErrInvalidTransition):
		Conflict(w, r, err.Error())
	case err != nil:
		BadRequest(w, r, err.Error())
	default:
		Success(w, r, "assessment updated", updated)
	}
}

// Delete delete assessment
// @Summary Delete an assessment and its responses
// @Tags Assessments
// @Produce json
// @Param id path string true "Assessment id"
// @Success 200 {object} APIResponse
// @Failure 404 {object} APIResponse
// @Router /assessments/{id} [delete]
func (c *AssessmentController) Delete(w http.ResponseWriter, r *http.Request) {
	err := c.svc.Delete(chi.URLParam(r, "id"))
	if errors.Is(err, assessment.ErrNotFound) {
		NotFound(w, r, "assessment not found")
		return
	}
	if err != nil {
		ServerError(w, r, "failed to delete assessment")
		return
	}
	Success(w, r, "assessment deleted", nil)
}

// Submit submit assessment
// @Summary Submit an assessment
// @Description Marks the assessment completed and recalculates its scores
// @Tags Assessments
// @Produce json
// @Param id path string true "Assessment id"
// @Success 200 {object} APIResponse{data=models.Assessment}
// @Failure 404 {object} APIResponse
// @Failure 409 {object} APIResponse "Invalid status transition"
// @Router /assessments/{id}/submit [post]
func (c *AssessmentController) Submit(w http.ResponseWriter, r *http.Request) {
	submitted, err := c.svc.Submit(chi.URLParam(r, "id"))
	switch {
	case errors.Is(err, assessment.ErrNotFound):
		NotFound(w, r, "assessment not found")
	case errors.Is(err, assessment.ErrInvalidTransition):
		Conflict(w, r, err.Error())
	case err != nil:
		ServerError(w, r, "failed to submit assessment")
	default:
		Success(w, r, "assessment submitted", submitted)
	}
}

// GetResponses list responses
// @Summary List the responses of an assessment
// @Tags Assessments
// @Produce json
// @Param id path string true "Assessment id"
// @Success 200 {object} APIResponse{data=[]models.AssessmentResponse}
// @Failure 404 {object} APIResponse
// @Router /assessments/{id}/responses [get]
func (c *AssessmentController) GetResponses(w http.ResponseWriter, r *http.Request) {
	responses, err := c.svc.Responses(chi.URLParam(r, "id"))
	if errors.Is(err, assessment.ErrNotFound) {
		NotFound(w, r, "assessment not found")
		return
	}
	if err != nil {
		ServerError(w, r, "failed to load responses")
		return
	}
	Success(w, r, "responses loaded", responses)
}

// UpsertResponse answer a question
// @Summary Create or update the response of one question
// @Tags Assessments
// @Accept json
// @Produce json
// @Param id path string true "Assessment id"
// @Param response body assessment.ResponseRequest true "Response"
// @Success 200 {object} APIResponse{data=models.AssessmentResponse}
// @Failure 400 {object} APIResponse
// @Failure 404 {object} APIResponse
// @Router /assessments/{id}/responses [post]
func (c *AssessmentController) UpsertResponse(w http.ResponseWriter, r *http.Request) {
	var req assessment.ResponseRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		BadRequest(w, r, "invalid request body")
		return
	}

	response, err := c.svc.UpsertResponse(chi.URLParam(r, "id"), &req)
	switch {
	case errors.Is(err, assessment.ErrNotFound):
		NotFound(w, r, "assessment not found")
	case err != nil:
		BadRequest(w, r, err.Error())
	default:
		Success(w, r, "response saved", response)
	}
}
