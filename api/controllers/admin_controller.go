/*
 * @module api/controllers/admin_controller
 * @description Administrative endpoints: taxonomy reseed and user listing.
 * @architecture MVC - controller layer
 * @rules Reseeding with force drops and rebuilds the whole taxonomy; existing
 *        assessments keep their responses but may reference removed questions
 * @dependencies ndi-assessment-service/service, ndi-assessment-service/service/database
 */

package controllers

import (
	"net/http"

	"ndi-assessment-service/service"
	"ndi-assessment-service/service/database"
	"ndi-assessment-service/service/models"
)

// AdminController administrative endpoints.
type AdminController struct{}

// NewAdminController creates an admin controller instance.
func NewAdminController() *AdminController {
	return &AdminController{}
}

// ReseedTaxonomy reseed taxonomy
// @Summary Reseed the NDI taxonomy from the embedded dataset
// @Description With force=true the existing taxonomy is dropped and rebuilt
// @Tags Admin
// @Produce json
// @Param force query bool false "Drop and rebuild"
// @Success 200 {object} APIResponse
// @Failure 500 {object} APIResponse
// @Router /admin/reseed [post]
func (c *AdminController) ReseedTaxonomy(w http.ResponseWriter, r *http.Request) {
	force := r.URL.Query().Get("force") == "true"
	if err := database.SeedTaxonomy(service.DB, force); err != nil {
		ServerError(w, r, "reseed failed: "+err.Error())
		return
	}
	service.GlobalCacheClient.Invalidate(r.Context(), "dashboard:overview")
	Success(w, r, "taxonomy reseeded", nil)
}

// ListUsers list users
// @Summary List application users
// @Tags Admin
// @Produce json
// @Success 200 {object} APIResponse{data=[]models.User}
// @Router /admin/users [get]
func (c *AdminController) ListUsers(w http.ResponseWriter, r *http.Request) {
	var users []models.User
	if err := service.DB.Order("created_at").Find(&users).Error; err != nil {
		ServerError(w, r, "failed to list users")
		return
	}
	Success(w, r, "users loaded", users)
}
