/*
 * @module api/controllers/ndi_controller
 * @description Read-only taxonomy endpoints: domains, questions with their
 *              maturity levels and acceptance evidence, and specifications.
 * @architecture MVC - controller layer
 * @rules The taxonomy is reference data; these endpoints never mutate it
 * @dependencies ndi-assessment-service/service, github.com/go-chi/chi/v5
 */

package controllers

import (
	"net/http"

	"ndi-assessment-service/service"
	"ndi-assessment-service/service/models"

	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"
)

// NDIController taxonomy read endpoints.
type NDIController struct{}

// NewNDIController creates an NDI taxonomy controller instance.
func NewNDIController() *NDIController {
	return &NDIController{}
}

// GetDomains list domains
// @Summary List NDI domains
// @Description Returns every domain in display order
// @Tags Taxonomy
// @Produce json
// @Param oe query bool false "Filter to Open Entity domains"
// @Success 200 {object} APIResponse{data=[]models.Domain}
// @Router /ndi/domains [get]
func (c *NDIController) GetDomains(w http.ResponseWriter, r *http.Request) {
	query := service.DB.Model(&models.Domain{}).Order("sort_order")
	if r.URL.Query().Get("oe") == "true" {
		query = query.Where("is_oe_domain = ?", true)
	}

	var domains []models.Domain
	if err := query.Find(&domains).Error; err != nil {
		ServerError(w, r, "failed to load domains")
		return
	}
	Success(w, r, "domains loaded", domains)
}

// GetDomain domain detail
// @Summary Get one domain with its questions
// @Tags Taxonomy
// @Produce json
// @Param code path string true "Domain code"
// @Success 200 {object} APIResponse{data=models.Domain}
// @Failure 404 {object} APIResponse
// @Router /ndi/domains/{code} [get]
func (c *NDIController) GetDomain(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	var domain models.Domain
	err := service.DB.
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order")
		}).
		Where("code = ?", code).
		First(&domain).Error
	if err == gorm.ErrRecordNotFound {
		NotFound(w, r, "domain not found")
		return
	}
	if err != nil {
		ServerError(w, r, "failed to load domain")
		return
	}
	Success(w, r, "domain loaded", domain)
}

// GetQuestion question detail
// @Summary Get one question with maturity levels and acceptance evidence
// @Tags Taxonomy
// @Produce json
// @Param id path string true "Question id"
// @Success 200 {object} APIResponse{data=models.Question}
// @Failure 404 {object} APIResponse
// @Router /ndi/questions/{id} [get]
func (c *NDIController) GetQuestion(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var question models.Question
	err := service.DB.
		Preload("Domain").
		Preload("MaturityLevels", func(db *gorm.DB) *gorm.DB {
			return db.Order("level")
		}).
		Preload("MaturityLevels.AcceptanceEvidence", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order")
		}).
		First(&question, "id = ?", id).Error
	if err == gorm.ErrRecordNotFound {
		NotFound(w, r, "question not found")
		return
	}
	if err != nil {
		ServerError(w, r, "failed to load question")
		return
	}
	Success(w, r, "question loaded", question)
}

// GetSpecifications list specifications
// @Summary List compliance specifications
// @Tags Taxonomy
// @Produce json
// @Param domain query string false "Filter by domain code"
// @Success 200 {object} APIResponse{data=[]models.Specification}
// @Router /ndi/specifications [get]
func (c *NDIController) GetSpecifications(w http.ResponseWriter, r *http.Request) {
	query := service.DB.Model(&models.Specification{}).Order("code")

	if domainCode := r.URL.Query().Get("domain"); domainCode != "" {
		var domain models.Domain
		if err := service.DB.Where("code = ?", domainCode).First(&domain).Error; err != nil {
			NotFound(w, r, "domain not found")
			return
		}
		query = query.Where("domain_id = ?", domain.ID)
	}

	var specs []models.Specification
	if err := query.Find(&specs).Error; err != nil {
		ServerError(w, r, "failed to load specifications")
		return
	}
	Success(w, r, "specifications loaded", specs)
}
