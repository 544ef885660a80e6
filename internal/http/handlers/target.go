package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kajkor/kajkor-backend/internal/http/response"
	"github.com/kajkor/kajkor-backend/internal/services"
)

const msgTargetNotFound = "Target not found"

type TargetHandler struct {
	targets services.TargetService
}

func NewTargetHandler(targets services.TargetService) *TargetHandler {
	return &TargetHandler{targets: targets}
}

// GET /targets
func (h *TargetHandler) List(c *gin.Context) {
	rows, err := h.targets.List(c.Request.Context())
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, rows)
}

// POST /targets
func (h *TargetHandler) Create(c *gin.Context) {
	var req services.CreateTargetRequest
	if !bindJSON(c, &req, false) {
		return
	}
	row, err := h.targets.Create(c.Request.Context(), req)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondCreated(c, row)
}

// GET /targets/today
func (h *TargetHandler) Today(c *gin.Context) {
	rows, err := h.targets.Today(c.Request.Context())
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, rows)
}

// GET /targets/:id
func (h *TargetHandler) Get(c *gin.Context) {
	id, ok := pathID(c, msgTargetNotFound)
	if !ok {
		return
	}
	row, err := h.targets.Get(c.Request.Context(), id)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, row)
}

// PATCH /targets/:id
func (h *TargetHandler) Update(c *gin.Context) {
	id, ok := pathID(c, msgTargetNotFound)
	if !ok {
		return
	}
	var patch services.TargetPatch
	if !bindJSON(c, &patch, false) {
		return
	}
	row, err := h.targets.Update(c.Request.Context(), id, patch)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, row)
}

// PATCH /targets/:id/complete-day
func (h *TargetHandler) CompleteDay(c *gin.Context) {
	id, ok := pathID(c, msgTargetNotFound)
	if !ok {
		return
	}
	var req services.CompleteDayRequest
	if !bindJSON(c, &req, true) {
		return
	}
	row, err := h.targets.CompleteDay(c.Request.Context(), id, req)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondMessage(c, http.StatusOK, "Day completed", row)
}

// PATCH /targets/:id/skip-day
func (h *TargetHandler) SkipDay(c *gin.Context) {
	id, ok := pathID(c, msgTargetNotFound)
	if !ok {
		return
	}
	row, err := h.targets.SkipDay(c.Request.Context(), id)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondMessage(c, http.StatusOK, "Day skipped", row)
}

// PATCH /targets/:id/start-next
func (h *TargetHandler) StartNextDay(c *gin.Context) {
	id, ok := pathID(c, msgTargetNotFound)
	if !ok {
		return
	}
	res, err := h.targets.StartNextDay(c.Request.Context(), id)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondMessage(c, http.StatusOK, res.Message, res.Target)
}

// GET /targets/:id/can-start-next-day
func (h *TargetHandler) CanStartNextDay(c *gin.Context) {
	id, ok := pathID(c, msgTargetNotFound)
	if !ok {
		return
	}
	status, err := h.targets.CanStartNextDay(c.Request.Context(), id)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, status)
}

// GET /targets/:id/checkins
func (h *TargetHandler) Checkins(c *gin.Context) {
	id, ok := pathID(c, msgTargetNotFound)
	if !ok {
		return
	}
	rows, err := h.targets.Checkins(c.Request.Context(), id)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, rows)
}

// POST /targets/:id/milestones
func (h *TargetHandler) AddMilestone(c *gin.Context) {
	id, ok := pathID(c, msgTargetNotFound)
	if !ok {
		return
	}
	var req services.MilestoneRequest
	if !bindJSON(c, &req, false) {
		return
	}
	row, err := h.targets.AddMilestone(c.Request.Context(), id, req)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondCreated(c, row)
}

// PATCH /targets/:id/increment
func (h *TargetHandler) Increment(c *gin.Context) {
	id, ok := pathID(c, msgTargetNotFound)
	if !ok {
		return
	}
	row, err := h.targets.Increment(c.Request.Context(), id)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, row)
}
