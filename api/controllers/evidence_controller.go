/*
 * @module api/controllers/evidence_controller
 * @description Evidence endpoints: multipart upload, listing, download,
 *              deletion and triggering the advisory analysis.
 * @architecture MVC - controller layer
 * @rules Upload size is bounded; the analysis verdict is advisory only
 * @dependencies ndi-assessment-service/service, github.com/go-chi/chi/v5
 */

package controllers

import (
	"errors"
	"net/http"

	"ndi-assessment-service/service"
	"ndi-assessment-service/service/evidence"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/cast"
)

// EvidenceController evidence file endpoints.
type EvidenceController struct {
	svc *evidence.Service
}

// NewEvidenceController creates an evidence controller instance.
func NewEvidenceController() *EvidenceController {
	return &EvidenceController{svc: service.GlobalEvidenceService}
}

// Upload upload evidence file
// @Summary Upload an evidence file for a response
// @Description Multipart form with the file field plus optional evidence_id (acceptance-evidence ordinal)
// @Tags Evidence
// @Accept multipart/form-data
// @Produce json
// @Param response_id path string true "Response id"
// @Param file formData file true "Evidence file"
// @Param evidence_id formData int false "Acceptance-evidence ordinal the file satisfies"
// @Success 201 {object} APIResponse{data=models.Evidence}
// @Failure 400 {object} APIResponse
// @Router /evidence/responses/{response_id} [post]
func (c *EvidenceController) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(evidence.MaxFileSize); err != nil {
		BadRequest(w, r, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		BadRequest(w, r, "file field is required")
		return
	}
	defer file.Close()

	var ordinal *int
	if v := r.FormValue("evidence_id"); v != "" {
		n := cast.ToInt(v)
		ordinal = &n
	}

	uploaded, err := c.svc.Upload(chi.URLParam(r, "response_id"), ordinal, header.Filename, file)
	if err != nil {
		if errors.Is(err, evidence.ErrFileTooLarge) {
			BadRequest(w, r, "file exceeds the maximum allowed size")
			return
		}
		BadRequest(w, r, err.Error())
		return
	}
	Created(w, r, "evidence uploaded", uploaded)
}

// List list evidence of a response
// @Summary List the files uploaded for a response
// @Tags Evidence
// @Produce json
// @Param response_id path string true "Response id"
// @Success 200 {object} APIResponse{data=[]models.Evidence}
// @Router /evidence/responses/{response_id} [get]
func (c *EvidenceController) List(w http.ResponseWriter, r *http.Request) {
	files, err := c.svc.ListByResponse(chi.URLParam(r, "response_id"))
	if err != nil {
		ServerError(w, r, "failed to list evidence")
		return
	}
	Success(w, r, "evidence loaded", files)
}

// Get evidence detail
// @Summary Get one evidence record
// @Tags Evidence
// @Produce json
// @Param id path string true "Evidence id"
// @Success 200 {object} APIResponse{data=models.Evidence}
// @Failure 404 {object} APIResponse
// @Router /evidence/{id} [get]
func (c *EvidenceController) Get(w http.ResponseWriter, r *http.Request) {
	found, err := c.svc.Get(chi.URLParam(r, "id"))
	if errors.Is(err, evidence.ErrNotFound) {
		NotFound(w, r, "evidence not found")
		return
	}
	if err != nil {
		ServerError(w, r, "failed to load evidence")
		return
	}
	Success(w, r, "evidence loaded", found)
}

// Download download stored file
// @Summary Download the stored evidence file
// @Tags Evidence
// @Produce octet-stream
// @Param id path string true "Evidence id"
// @Success 200 {file} binary
// @Failure 404 {object} APIResponse
// @Router /evidence/{id}/download [get]
func (c *EvidenceController) Download(w http.ResponseWriter, r *http.Request) {
	path, name, mimeType, err := c.svc.FilePath(chi.URLParam(r, "id"))
	if errors.Is(err, evidence.ErrNotFound) {
		NotFound(w, r, "evidence not found")
		return
	}
	if err != nil {
		ServerError(w, r, "failed to locate file")
		return
	}

	w.Header().Set("Content-Type", mimeType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	http.ServeFile(w, r, path)
}

// Delete delete evidence
// @Summary Delete an evidence record and its stored file
// @Tags Evidence
// @Produce json
// @Param id path string true "Evidence id"
// @Success 200 {object} APIResponse
// @Failure 404 {object} APIResponse
// @Router /evidence/{id} [delete]
func (c *EvidenceController) Delete(w http.ResponseWriter, r *http.Request) {
	err := c.svc.Delete(chi.URLParam(r, "id"))
	if errors.Is(err, evidence.ErrNotFound) {
		NotFound(w, r, "evidence not found")
		return
	}
	if err != nil {
		ServerError(w, r, "failed to delete evidence")
		return
	}
	Success(w, r, "evidence deleted", nil)
}

// Analyze run analysis now
// @Summary Run text extraction and the advisory AI review for one file
// @Tags Evidence
// @Produce json
// @Param id path string true "Evidence id"
// @Success 200 {object} APIResponse{data=models.Evidence}
// @Failure 404 {object} APIResponse
// @Router /evidence/{id}/analyze [post]
func (c *EvidenceController) Analyze(w http.ResponseWriter, r *http.Request) {
	analyzed, err := c.svc.Analyze(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, evidence.ErrNotFound) {
		NotFound(w, r, "evidence not found")
		return
	}
	if err != nil {
		ServerError(w, r, "analysis failed")
		return
	}
	Success(w, r, "evidence analyzed", analyzed)
}
