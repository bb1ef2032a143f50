/*
 * @module api/routes
 * @description API route configuration: initializes middleware and registers
 *              every HTTP route of the service.
 * @architecture RESTful API
 * @stateFlow stateless HTTP request handling
 * @rules RESTful conventions, unified response envelope and error mapping
 * @dependencies github.com/go-chi/chi/v5, github.com/go-chi/cors, github.com/go-chi/render
 */

package api

import (
	"ndi-assessment-service/api/controllers"
	apimiddleware "ndi-assessment-service/api/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"
)

// InitRoute registers all API routes on the router.
func InitRoute(r *chi.Mux) {
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Use(apimiddleware.Language)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Accept-Language", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health checks
	healthController := controllers.NewHealthController()
	r.Get("/health", healthController.Health)
	r.Get("/ready", healthController.Ready)

	// Taxonomy (read-only reference data)
	r.Route("/ndi", func(r chi.Router) {
		ndiController := controllers.NewNDIController()
		r.Get("/domains", ndiController.GetDomains)
		r.Get("/domains/{code}", ndiController.GetDomain)
		r.Get("/questions/{id}", ndiController.GetQuestion)
		r.Get("/specifications", ndiController.GetSpecifications)
	})

	// Assessment lifecycle
	r.Route("/assessments", func(r chi.Router) {
		assessmentController := controllers.NewAssessmentController()
		r.Post("/", assessmentController.Create)
		r.Get("/", assessmentController.List)
		r.Get("/{id}", assessmentController.Get)
		r.Put("/{id}", assessmentController.Update)
		r.Delete("/{id}", assessmentController.Delete)
		r.Post("/{id}/submit", assessmentController.Submit)
		r.Get("/{id}/responses", assessmentController.GetResponses)
		r.Post("/{id}/responses", assessmentController.UpsertResponse)
	})

	// Scoring
	r.Route("/scores", func(r chi.Router) {
		scoreController := controllers.NewScoreController()
		r.Get("/{id}/maturity", scoreController.Maturity)
		r.Get("/{id}/compliance", scoreController.Compliance)
		r.Get("/{id}/combined", scoreController.Combined)
		r.Post("/{id}/recalculate", scoreController.Recalculate)
	})

	// Evidence files
	r.Route("/evidence", func(r chi.Router) {
		evidenceController := controllers.NewEvidenceController()
		r.Post("/responses/{response_id}", evidenceController.Upload)
		r.Get("/responses/{response_id}", evidenceController.List)
		r.Get("/{id}", evidenceController.Get)
		r.Get("/{id}/download", evidenceController.Download)
		r.Delete("/{id}", evidenceController.Delete)
		r.Post("/{id}/analyze", evidenceController.Analyze)
	})

	// AI analysis
	r.Route("/ai", func(r chi.Router) {
		aiController := controllers.NewAIController()
		r.Get("/assessments/{id}/gaps", aiController.AnalyzeGaps)
		r.Get("/assessments/{id}/recommendations", aiController.Recommendations)
		r.Post("/chat", aiController.Chat)
	})

	// Dashboard
	r.Route("/dashboard", func(r chi.Router) {
		dashboardController := controllers.NewDashboardController()
		r.Get("/overview", dashboardController.GetOverview)
	})

	// Reports
	r.Route("/reports", func(r chi.Router) {
		reportController := controllers.NewReportController()
		r.Get("/", reportController.Summary)
		r.Get("/{id}", reportController.Get)
		r.Get("/{id}/export/json", reportController.ExportJSON)
		r.Get("/{id}/export/excel", reportController.ExportExcel)
	})

	// Tasks
	r.Route("/tasks", func(r chi.Router) {
		taskController := controllers.NewTaskController()
		r.Post("/", taskController.Create)
		r.Get("/", taskController.List)
		r.Get("/stats", taskController.Stats)
		r.Get("/my/{user_id}", taskController.MyTasks)
		r.Get("/{id}", taskController.Get)
		r.Put("/{id}", taskController.Update)
		r.Delete("/{id}", taskController.Delete)
	})

	// Settings
	r.Route("/settings", func(r chi.Router) {
		settingsController := controllers.NewSettingsController()
		r.Get("/organization", settingsController.GetOrganization)
		r.Put("/organization", settingsController.UpdateOrganization)
		r.Get("/ai-providers", settingsController.ListProviders)
		r.Put("/ai-providers/{id}", settingsController.UpdateProvider)
		r.Get("/", settingsController.ListSettings)
		r.Put("/", settingsController.SetSetting)
		r.Delete("/{key}", settingsController.DeleteSetting)
	})

	// Administration
	r.Route("/admin", func(r chi.Router) {
		adminController := controllers.NewAdminController()
		r.Post("/reseed", adminController.ReseedTaxonomy)
		r.Get("/users", adminController.ListUsers)
	})
}
