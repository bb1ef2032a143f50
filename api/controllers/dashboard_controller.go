/*
 * @module api/controllers/dashboard_controller
 * @description Dashboard aggregates: assessment counts, the latest completed
 *              scores and per-domain results. Backed by the optional redis
 *              cache with a short TTL.
 * @architecture MVC - controller layer
 * @stateFlow cache get -> on miss aggregate from db -> cache set
 * @dependencies ndi-assessment-service/service, ndi-assessment-service/service/cache
 */

package controllers

import (
	"net/http"

	"ndi-assessment-service/service"
	"ndi-assessment-service/service/cache"
	"ndi-assessment-service/service/models"
	"ndi-assessment-service/service/scoring"
)

const overviewCacheKey = "dashboard:overview"

// DashboardController dashboard endpoints.
type DashboardController struct{}

// NewDashboardController creates a dashboard controller instance.
func NewDashboardController() *DashboardController {
	return &DashboardController{}
}

// Overview the dashboard payload.
type Overview struct {
	Assessments struct {
		Total      int64 `json:"total"`
		Draft      int64 `json:"draft"`
		InProgress int64 `json:"in_progress"`
		Completed  int64 `json:"completed"`
		Archived   int64 `json:"archived"`
	} `json:"assessments"`
	Taxonomy struct {
		Domains   int64 `json:"domains"`
		Questions int64 `json:"questions"`
	} `json:"taxonomy"`
	Evidence struct {
		Total   int64 `json:"total"`
		Pending int64 `json:"pending"`
	} `json:"evidence"`
	LatestCompleted *scoring.MaturityScoreResult `json:"latest_completed,omitempty"`
	LatestName      string                       `json:"latest_name,omitempty"`
}

// GetOverview dashboard overview
// @Summary Dashboard overview aggregates
// @Description Counts plus the maturity breakdown of the most recently completed assessment
// @Tags Dashboard
// @Produce json
// @Success 200 {object} APIResponse{data=Overview}
// @Router /dashboard/overview [get]
func (c *DashboardController) GetOverview(w http.ResponseWriter, r *http.Request) {
	var overview Overview
	if service.GlobalCacheClient.GetJSON(r.Context(), overviewCacheKey, &overview) {
		Success(w, r, "overview loaded (cached)", overview)
		return
	}

	db := service.DB
	db.Model(&models.Assessment{}).Count(&overview.Assessments.Total)
	db.Model(&models.Assessment{}).Where("status = ?", models.AssessmentStatusDraft).Count(&overview.Assessments.Draft)
	db.Model(&models.Assessment{}).Where("status = ?", models.AssessmentStatusInProgress).Count(&overview.Assessments.InProgress)
	db.Model(&models.Assessment{}).Where("status = ?", models.AssessmentStatusCompleted).Count(&overview.Assessments.Completed)
	db.Model(&models.Assessment{}).Where("status = ?", models.AssessmentStatusArchived).Count(&overview.Assessments.Archived)

	db.Model(&models.Domain{}).Count(&overview.Taxonomy.Domains)
	db.Model(&models.Question{}).Count(&overview.Taxonomy.Questions)

	db.Model(&models.Evidence{}).Count(&overview.Evidence.Total)
	db.Model(&models.Evidence{}).Where("analysis_status = ?", models.AnalysisStatusPending).Count(&overview.Evidence.Pending)

	var latest models.Assessment
	err := db.Where("status = ?", models.AssessmentStatusCompleted).
		Order("completed_at DESC").
		First(&latest).Error
	if err == nil {
		if maturity, err := service.GlobalScoringEngine.CalculateMaturityScore(latest.ID); err == nil {
			overview.LatestCompleted = maturity
			overview.LatestName = latest.Name
		}
	}

	service.GlobalCacheClient.SetJSON(r.Context(), overviewCacheKey, overview, cache.DefaultTTL)
	Success(w, r, "overview loaded", overview)
}
