package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kajkor/kajkor-backend/internal/http/response"
	"github.com/kajkor/kajkor-backend/internal/services"
)

const msgTaskNotFound = "Task not found"

type TaskHandler struct {
	tasks services.TaskService
}

func NewTaskHandler(tasks services.TaskService) *TaskHandler {
	return &TaskHandler{tasks: tasks}
}

// GET /tasks?date=YYYY-MM-DD
func (h *TaskHandler) List(c *gin.Context) {
	rows, err := h.tasks.List(c.Request.Context(), c.Query("date"))
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, rows)
}

// POST /tasks
func (h *TaskHandler) Create(c *gin.Context) {
	var req services.TaskRequest
	if !bindJSON(c, &req, false) {
		return
	}
	row, err := h.tasks.Create(c.Request.Context(), req)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondCreated(c, row)
}

// PUT /tasks/:id
func (h *TaskHandler) Update(c *gin.Context) {
	id, ok := pathID(c, msgTaskNotFound)
	if !ok {
		return
	}
	var req services.TaskRequest
	if !bindJSON(c, &req, false) {
		return
	}
	row, err := h.tasks.Update(c.Request.Context(), id, req)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, row)
}

// PATCH /tasks/:id/toggle
func (h *TaskHandler) Toggle(c *gin.Context) {
	id, ok := pathID(c, msgTaskNotFound)
	if !ok {
		return
	}
	row, err := h.tasks.Toggle(c.Request.Context(), id)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, row)
}

// DELETE /tasks/:id
func (h *TaskHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, msgTaskNotFound)
	if !ok {
		return
	}
	if err := h.tasks.Delete(c.Request.Context(), id); err != nil {
		response.RespondErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
