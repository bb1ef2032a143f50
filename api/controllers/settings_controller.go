/*
 * @module api/controllers/settings_controller
 * @description Settings endpoints: organization profile, generic settings and
 *              AI provider configuration.
 * @architecture MVC - controller layer
 * @rules API keys are write-only through this surface; reads expose only
 *        has_api_key
 * @dependencies ndi-assessment-service/service, github.com/go-chi/chi/v5, github.com/go-chi/render
 */

package controllers

import (
	"errors"
	"net/http"

	"ndi-assessment-service/service"
	"ndi-assessment-service/service/settings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

// SettingsController settings endpoints.
type SettingsController struct {
	svc *settings.Service
}

// NewSettingsController creates a settings controller instance.
func NewSettingsController() *SettingsController {
	return &SettingsController{svc: service.GlobalSettingsService}
}

// SettingRequest payload for writing one setting.
type SettingRequest struct {
	Key      string `json:"key"`
	Value    string `json:"value"`
	Category string `json:"category"`
	IsSecret bool   `json:"is_secret"`
}

// GetOrganization organization profile
// @Summary Get the organization profile
// @Tags Settings
// @Produce json
// @Success 200 {object} APIResponse{data=models.OrganizationSettings}
// @Router /settings/organization [get]
func (c *SettingsController) GetOrganization(w http.ResponseWriter, r *http.Request) {
	org, err := c.svc.Organization()
	if err != nil {
		ServerError(w, r, "failed to load organization")
		return
	}
	Success(w, r, "organization loaded", org)
}

// UpdateOrganization update profile
// @Summary Update the organization profile
// @Tags Settings
// @Accept json
// @Produce json
// @Param organization body settings.OrganizationRequest true "Fields to update"
// @Success 200 {object} APIResponse{data=models.OrganizationSettings}
// @Failure 400 {object} APIResponse
// @Router /settings/organization [put]
func (c *SettingsController) UpdateOrganization(w http.ResponseWriter, r *http.Request) {
	var req settings.OrganizationRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		BadRequest(w, r, "invalid request body")
		return
	}

	org, err := c.svc.UpdateOrganization(&req)
	if err != nil {
		ServerError(w, r, "failed to update organization")
		return
	}
	Success(w, r, "organization updated", org)
}

// ListSettings list settings
// @Summary List settings, secrets masked
// @Tags Settings
// @Produce json
// @Param category query string false "Category filter"
// @Success 200 {object} APIResponse{data=[]models.Setting}
// @Router /settings [get]
func (c *SettingsController) ListSettings(w http.ResponseWriter, r *http.Request) {
	listed, err := c.svc.ListSettings(r.URL.Query().Get("category"))
	if err != nil {
		ServerError(w, r, "failed to list settings")
		return
	}
	Success(w, r, "settings loaded", listed)
}

// SetSetting write setting
// @Summary Create or replace a setting
// @Tags Settings
// @Accept json
// @Produce json
// @Param setting body SettingRequest true "Setting"
// @Success 200 {object} APIResponse
// @Failure 400 {object} APIResponse
// @Router /settings [put]
func (c *SettingsController) SetSetting(w http.ResponseWriter, r *http.Request) {
	var req SettingRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil || req.Key == "" {
		BadRequest(w, r, "key is required")
		return
	}

	if err := c.svc.SetSetting(req.Key, req.Value, req.Category, req.IsSecret); err != nil {
		ServerError(w, r, "failed to save setting")
		return
	}
	Success(w, r, "setting saved", nil)
}

// DeleteSetting delete setting
// @Summary Delete a setting
// @Tags Settings
// @Produce json
// @Param key path string true "Setting key"
// @Success 200 {object} APIResponse
// @Router /settings/{key} [delete]
func (c *SettingsController) DeleteSetting(w http.ResponseWriter, r *http.Request) {
	if err := c.svc.DeleteSetting(chi.URLParam(r, "key")); err != nil {
		ServerError(w, r, "failed to delete setting")
		return
	}
	Success(w, r, "setting deleted", nil)
}

// ListProviders AI providers
// @Summary List AI provider configurations, keys masked
// @Tags Settings
// @Produce json
// @Success 200 {object} APIResponse{data=[]settings.ProviderInfo}
// @Router /settings/ai-providers [get]
func (c *SettingsController) ListProviders(w http.ResponseWriter, r *http.Request) {
	providers, err := c.svc.ListProviders()
	if err != nil {
		ServerError(w, r, "failed to list providers")
		return
	}
	Success(w, r, "providers loaded", providers)
}

// UpdateProvider configure provider
// @Summary Update one AI provider configuration
// @Tags Settings
// @Accept json
// @Produce json
// @Param id path string true "Provider slug (openai|claude|gemini|azure)"
// @Param provider body settings.ProviderRequest true "Fields to update"
// @Success 200 {object} APIResponse{data=settings.ProviderInfo}
// @Failure 404 {object} APIResponse
// @Router /settings/ai-providers/{id} [put]
func (c *SettingsController) UpdateProvider(w http.ResponseWriter, r *http.Request) {
	var req settings.ProviderRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		BadRequest(w, r, "invalid request body")
		return
	}

	info, err := c.svc.UpdateProvider(chi.URLParam(r, "id"), &req)
	if errors.Is(err, settings.ErrProviderNotFound) {
		NotFound(w, r, "provider not found")
		return
	}
	if err != nil {
		ServerError(w, r, "failed to update provider")
		return
	}
	Success(w, r, "provider updated", info)
}
