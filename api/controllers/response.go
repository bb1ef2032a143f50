package controllers

import (
	"net/http"

	"github.com/go-chi/render"
)

// APIResponse unified API response envelope.
type APIResponse struct {
	Status int         `json:"status" example:"200"`
	Msg    string      `json:"msg" example:"ok"`
	Data   interface{} `json:"data,omitempty"`
}

// PaginatedResponse list response envelope with paging metadata.
type PaginatedResponse struct {
	Status int         `json:"status" example:"200"`
	Msg    string      `json:"msg" example:"ok"`
	Data   interface{} `json:"data"`
	Total  int64       `json:"total" example:"100"`
	Page   int         `json:"page" example:"1"`
	Size   int         `json:"size" example:"10"`
}

func respond(w http.ResponseWriter, r *http.Request, status int, msg string, data interface{}) {
	render.Status(r, status)
	render.JSON(w, r, APIResponse{Status: status, Msg: msg, Data: data})
}

// Success 200 with payload.
func Success(w http.ResponseWriter, r *http.Request, msg string, data interface{}) {
	respond(w, r, http.StatusOK, msg, data)
}

// Created 201 with payload.
func Created(w http.ResponseWriter, r *http.Request, msg string, data interface{}) {
	respond(w, r, http.StatusCreated, msg, data)
}

// BadRequest 400.
func BadRequest(w http.ResponseWriter, r *http.Request, msg string) {
	respond(w, r, http.StatusBadRequest, msg, nil)
}

// NotFound 404.
func NotFound(w http.ResponseWriter, r *http.Request, msg string) {
	respond(w, r, http.StatusNotFound, msg, nil)
}

// Conflict 409, used for lifecycle violations.
func Conflict(w http.ResponseWriter, r *http.Request, msg string) {
	respond(w, r, http.StatusConflict, msg, nil)
}

// ServerError 500.
func ServerError(w http.ResponseWriter, r *http.Request, msg string) {
	respond(w, r, http.StatusInternalServerError, msg, nil)
}

// Paginated 200 list with paging metadata.
func Paginated(w http.ResponseWriter, r *http.Request, msg string, data interface{}, total int64, page, size int) {
	render.Status(r, http.StatusOK)
	render.JSON(w, r, PaginatedResponse{Status: http.StatusOK, Msg: msg, Data: data, Total: total, Page: page, Size: size})
}
