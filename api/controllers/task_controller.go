/*
 * @module api/controllers/task_controller
 * @description Task endpoints: assignment CRUD, per-user task list and
 *              statistics.
 * @architecture MVC - controller layer
 * @dependencies ndi-assessment-service/service, github.com/go-chi/chi/v5, github.com/go-chi/render
 */

package controllers

import (
	"errors"
	"net/http"

	"ndi-assessment-service/service"
	"ndi-assessment-service/service/task"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

// TaskController task endpoints.
type TaskController struct {
	svc *task.Service
}

// NewTaskController creates a task controller instance.
func NewTaskController() *TaskController {
	return &TaskController{svc: service.GlobalTaskService}
}

// Create create task
// @Summary Assign a new task
// @Tags Tasks
// @Accept json
// @Produce json
// @Param task body task.CreateRequest true "Task"
// @Success 201 {object} APIResponse{data=models.Task}
// @Failure 400 {object} APIResponse
// @Router /tasks [post]
func (c *TaskController) Create(w http.ResponseWriter, r *http.Request) {
	var req task.CreateRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		BadRequest(w, r, "invalid request body")
		return
	}

	created, err := c.svc.Create(&req)
	if err != nil {
		BadRequest(w, r, err.Error())
		return
	}
	Created(w, r, "task created", created)
}

// List list tasks
// @Summary List tasks with filters
// @Tags Tasks
// @Produce json
// @Param assessment_id query string false "Assessment filter"
// @Param assigned_to query string false "Assignee filter"
// @Param status query string false "Status filter"
// @Success 200 {object} APIResponse{data=[]models.Task}
// @Router /tasks [get]
func (c *TaskController) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	tasks, err := c.svc.List(q.Get("assessment_id"), q.Get("assigned_to"), q.Get("status"))
	if err != nil {
		ServerError(w, r, "failed to list tasks")
		return
	}
	Success(w, r, "tasks loaded", tasks)
}

// MyTasks tasks of one user
// @Summary List the tasks assigned to a user
// @Tags Tasks
// @Produce json
// @Param user_id path string true "User id"
// @Success 200 {object} APIResponse{data=[]models.Task}
// @Router /tasks/my/{user_id} [get]
func (c *TaskController) MyTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := c.svc.List("", chi.URLParam(r, "user_id"), "")
	if err != nil {
		ServerError(w, r, "failed to list tasks")
		return
	}
	Success(w, r, "tasks loaded", tasks)
}

// Stats task statistics
// @Summary Task statistics, optionally scoped to one assignee
// @Tags Tasks
// @Produce json
// @Param assigned_to query string false "Assignee filter"
// @Success 200 {object} APIResponse{data=task.Stats}
// @Router /tasks/stats [get]
func (c *TaskController) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := c.svc.StatsFor(r.URL.Query().Get("assigned_to"))
	if err != nil {
		ServerError(w, r, "failed to compute statistics")
		return
	}
	Success(w, r, "statistics computed", stats)
}

// Get task detail
// @Summary Get one task
// @Tags Tasks
// @Produce json
// @Param id path string true "Task id"
// @Success 200 {object} APIResponse{data=models.Task}
// @Failure 404 {object} APIResponse
// @Router /tasks/{id} [get]
func (c *TaskController) Get(w http.ResponseWriter, r *http.Request) {
	found, err := c.svc.Get(chi.URLParam(r, "id"))
	if errors.Is(err, task.ErrNotFound) {
		NotFound(w, r, "task not found")
		return
	}
	if err != nil {
		ServerError(w, r, "failed to load task")
		return
	}
	Success(w, r, "task loaded", found)
}

// Update update task
// @Summary Update a task
// @Tags Tasks
// @Accept json
// @Produce json
// @Param id path string true "Task id"
// @Param task body task.UpdateRequest true "Fields to update"
// @Success 200 {object} APIResponse{data=models.Task}
// @Failure 404 {object} APIResponse
// @Router /tasks/{id} [put]
func (c *TaskController) Update(w http.ResponseWriter, r *http.Request) {
	var req task.UpdateRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		BadRequest(w, r, "invalid request body")
		return
	}

	updated, err := c.svc.Update(chi.URLParam(r, "id"), &req)
	if errors.Is(err, task.ErrNotFound) {
		NotFound(w, r, "task not found")
		return
	}
	if err != nil {
		BadRequest(w, r, err.Error())
		return
	}
	Success(w, r, "task updated", updated)
}

// Delete delete task
// @Summary Delete a task
// @Tags Tasks
// @Produce json
// @Param id path string true "Task id"
// @Success 200 {object} APIResponse
// @Failure 404 {object} APIResponse
// @Router /tasks/{id} [delete]
func (c *TaskController) Delete(w http.ResponseWriter, r *http.Request) {
	err := c.svc.Delete(chi.URLParam(r, "id"))
	if errors.Is(err, task.ErrNotFound) {
		NotFound(w, r, "task not found")
		return
	}
	if err != nil {
		ServerError(w, r, "failed to delete task")
		return
	}
	Success(w, r, "task deleted", nil)
}
