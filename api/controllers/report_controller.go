/*
 * @module api/controllers/report_controller
 * @description Report endpoints: full assessment report, completed summary,
 *              JSON export and the Excel workbook download.
 * @architecture MVC - controller layer
 * @dependencies ndi-assessment-service/service, github.com/go-chi/chi/v5
 */

package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"ndi-assessment-service/service"
	"ndi-assessment-service/service/report"

	"github.com/go-chi/chi/v5"
)

// ReportController report endpoints.
type ReportController struct {
	svc *report.Service
}

// NewReportController creates a report controller instance.
func NewReportController() *ReportController {
	return &ReportController{svc: service.GlobalReportService}
}

// Get assessment report
// @Summary Full report of one assessment
// @Tags Reports
// @Produce json
// @Param id path string true "Assessment id"
// @Success 200 {object} APIResponse{data=report.AssessmentReport}
// @Failure 404 {object} APIResponse
// @Router /reports/{id} [get]
func (c *ReportController) Get(w http.ResponseWriter, r *http.Request) {
	built, err := c.svc.Build(chi.URLParam(r, "id"))
	if errors.Is(err, report.ErrNotFound) {
		NotFound(w, r, "assessment not found")
		return
	}
	if err != nil {
		ServerError(w, r, "report generation failed")
		return
	}
	Success(w, r, "report generated", built)
}

// Summary completed assessments
// @Summary Summary of completed assessments
// @Tags Reports
// @Produce json
// @Success 200 {object} APIResponse{data=[]report.SummaryEntry}
// @Router /reports [get]
func (c *ReportController) Summary(w http.ResponseWriter, r *http.Request) {
	entries, err := c.svc.CompletedSummary()
	if err != nil {
		ServerError(w, r, "summary generation failed")
		return
	}
	Success(w, r, "summary generated", entries)
}

// ExportJSON JSON download
// @Summary Download the report as a JSON document
// @Tags Reports
// @Produce json
// @Param id path string true "Assessment id"
// @Success 200 {file} binary
// @Failure 404 {object} APIResponse
// @Router /reports/{id}/export/json [get]
func (c *ReportController) ExportJSON(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	data, err := c.svc.ExportJSON(id)
	if errors.Is(err, report.ErrNotFound) {
		NotFound(w, r, "assessment not found")
		return
	}
	if err != nil {
		ServerError(w, r, "export failed")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="assessment_%s.json"`, id))
	w.Write(data)
}

// ExportExcel Excel download
// @Summary Download the report as an Excel workbook
// @Tags Reports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param id path string true "Assessment id"
// @Success 200 {file} binary
// @Failure 404 {object} APIResponse
// @Router /reports/{id}/export/excel [get]
func (c *ReportController) ExportExcel(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	f, err := c.svc.ExportExcel(id)
	if errors.Is(err, report.ErrNotFound) {
		NotFound(w, r, "assessment not found")
		return
	}
	if err != nil {
		ServerError(w, r, "export failed")
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="assessment_%s.xlsx"`, id))
	if err := f.Write(w); err != nil {
		ServerError(w, r, "workbook write failed")
	}
}
