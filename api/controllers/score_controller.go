/*
 * @module api/controllers/score_controller
 * @description Scoring endpoints: maturity, compliance, the combined result
 *              and the explicit recalculation that persists cached scores.
 * @architecture MVC - controller layer
 * @rules Score reads never write; only recalculate touches the assessment row
 * @dependencies ndi-assessment-service/service, github.com/go-chi/chi/v5
 */

package controllers

import (
	"net/http"

	"ndi-assessment-service/service"
	"ndi-assessment-service/service/models"
	"ndi-assessment-service/service/scoring"

	"github.com/go-chi/chi/v5"
)

// ScoreController scoring endpoints.
type ScoreController struct {
	engine *scoring.Engine
}

// NewScoreController creates a score controller instance.
func NewScoreController() *ScoreController {
	return &ScoreController{engine: service.GlobalScoringEngine}
}

func (c *ScoreController) assessmentExists(id string) bool {
	var count int64
	service.DB.Model(&models.Assessment{}).Where("id = ?", id).Count(&count)
	return count > 0
}

// Maturity maturity score
// @Summary Calculate the maturity score of an assessment
// @Tags Scores
// @Produce json
// @Param id path string true "Assessment id"
// @Success 200 {object} APIResponse{data=scoring.MaturityScoreResult}
// @Failure 404 {object} APIResponse
// @Router /scores/{id}/maturity [get]
func (c *ScoreController) Maturity(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !c.assessmentExists(id) {
		NotFound(w, r, "assessment not found")
		return
	}

	result, err := c.engine.CalculateMaturityScore(id)
	if err != nil {
		ServerError(w, r, "maturity score calculation failed")
		return
	}
	Success(w, r, "maturity score calculated", result)
}

// Compliance compliance score
// @Summary Calculate the compliance score of an assessment
// @Tags Scores
// @Produce json
// @Param id path string true "Assessment id"
// @Success 200 {object} APIResponse{data=scoring.ComplianceScoreResult}
// @Failure 404 {object} APIResponse
// @Router /scores/{id}/compliance [get]
func (c *ScoreController) Compliance(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !c.assessmentExists(id) {
		NotFound(w, r, "assessment not found")
		return
	}

	result, err := c.engine.CalculateComplianceScore(id)
	if err != nil {
		ServerError(w, r, "compliance score calculation failed")
		return
	}
	Success(w, r, "compliance score calculated", result)
}

// Combined combined result
// @Summary Calculate maturity, compliance and question detail together
// @Tags Scores
// @Produce json
// @Param id path string true "Assessment id"
// @Success 200 {object} APIResponse{data=scoring.CombinedAssessmentResult}
// @Failure 404 {object} APIResponse
// @Router /scores/{id}/combined [get]
func (c *ScoreController) Combined(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !c.assessmentExists(id) {
		NotFound(w, r, "assessment not found")
		return
	}

	result, err := c.engine.CombinedAssessment(id)
	if err != nil {
		ServerError(w, r, "combined score calculation failed")
		return
	}
	Success(w, r, "combined result calculated", result)
}

// Recalculate recalculate and persist
// @Summary Recalculate scores and persist the cached score columns
// @Description Idempotent: repeated calls converge on the same stored values
// @Tags Scores
// @Produce json
// @Param id path string true "Assessment id"
// @Success 200 {object} APIResponse{data=scoring.CombinedAssessmentResult}
// @Failure 404 {object} APIResponse
// @Router /scores/{id}/recalculate [post]
func (c *ScoreController) Recalculate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !c.assessmentExists(id) {
		NotFound(w, r, "assessment not found")
		return
	}

	result, err := c.engine.Recalculate(id)
	if err != nil {
		ServerError(w, r, "recalculation failed")
		return
	}
	service.GlobalCacheClient.Invalidate(r.Context(), "dashboard:overview")
	Success(w, r, "scores recalculated", result)
}
