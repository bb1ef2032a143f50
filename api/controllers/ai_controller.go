/*
 * @module api/controllers/ai_controller
 * @description AI endpoints: gap analysis, recommendations and assessor chat.
 *              Responses honor the negotiated request language.
 * @architecture MVC - controller layer
 * @rules Analysis falls back to heuristics without a provider; chat requires
 *        a configured provider
 * @dependencies ndi-assessment-service/service, ndi-assessment-service/api/middleware
 */

package controllers

import (
	"errors"
	"net/http"

	"ndi-assessment-service/api/middleware"
	"ndi-assessment-service/service"
	"ndi-assessment-service/service/ai"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

// AIController AI analysis endpoints.
type AIController struct {
	svc *ai.Service
}

// NewAIController creates an AI controller instance.
func NewAIController() *AIController {
	return &AIController{svc: service.GlobalAIService}
}

// ChatRequest assessor chat payload.
type ChatRequest struct {
	Messages []ai.ChatMessage `json:"messages"`
}

// AnalyzeGaps gap analysis
// @Summary Gap analysis of an assessment against its target level
// @Tags AI
// @Produce json
// @Param id path string true "Assessment id"
// @Param lang query string false "Response language (en|ar)"
// @Success 200 {object} APIResponse{data=ai.GapAnalysis}
// @Failure 404 {object} APIResponse
// @Router /ai/assessments/{id}/gaps [get]
func (c *AIController) AnalyzeGaps(w http.ResponseWriter, r *http.Request) {
	analysis, err := c.svc.AnalyzeGaps(r.Context(), chi.URLParam(r, "id"), middleware.RequestLanguage(r))
	if err != nil {
		NotFound(w, r, err.Error())
		return
	}
	Success(w, r, "gap analysis complete", analysis)
}

// Recommendations improvement actions
// @Summary Prioritized improvement recommendations
// @Tags AI
// @Produce json
// @Param id path string true "Assessment id"
// @Param lang query string false "Response language (en|ar)"
// @Success 200 {object} APIResponse{data=[]ai.Recommendation}
// @Failure 404 {object} APIResponse
// @Router /ai/assessments/{id}/recommendations [get]
func (c *AIController) Recommendations(w http.ResponseWriter, r *http.Request) {
	recs, err := c.svc.Recommendations(r.Context(), chi.URLParam(r, "id"), middleware.RequestLanguage(r))
	if err != nil {
		NotFound(w, r, err.Error())
		return
	}
	Success(w, r, "recommendations generated", recs)
}

// Chat assessor chat
// @Summary Chat with the maturity advisor
// @Tags AI
// @Accept json
// @Produce json
// @Param chat body ChatRequest true "Conversation so far"
// @Success 200 {object} APIResponse{data=string}
// @Failure 400 {object} APIResponse
// @Failure 503 {object} APIResponse "No AI provider configured"
// @Router /ai/chat [post]
func (c *AIController) Chat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil || len(req.Messages) == 0 {
		BadRequest(w, r, "messages are required")
		return
	}

	reply, err := c.svc.Chat(r.Context(), req.Messages, middleware.RequestLanguage(r))
	if errors.Is(err, ai.ErrNoProvider) {
		respond(w, r, http.StatusServiceUnavailable, "no ai provider configured", nil)
		return
	}
	if err != nil {
		ServerError(w, r, "chat failed")
		return
	}
	Success(w, r, "reply generated", reply)
}
