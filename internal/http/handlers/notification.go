package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/kajkor/kajkor-backend/internal/http/response"
	"github.com/kajkor/kajkor-backend/internal/services"
)

type NotificationHandler struct {
	notifications services.NotificationService
}

func NewNotificationHandler(notifications services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// GET /notifications?status=queued
func (h *NotificationHandler) List(c *gin.Context) {
	rows, err := h.notifications.List(c.Request.Context(), c.Query("status"))
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, rows)
}

// GET /notifications/settings
func (h *NotificationHandler) GetSettings(c *gin.Context) {
	row, err := h.notifications.GetSettings(c.Request.Context())
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, row)
}

// PUT /notifications/settings
func (h *NotificationHandler) UpdateSettings(c *gin.Context) {
	var req services.NotificationSettingsRequest
	if !bindJSON(c, &req, false) {
		return
	}
	row, err := h.notifications.UpdateSettings(c.Request.Context(), req)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, row)
}

// POST /notifications/devices
func (h *NotificationHandler) RegisterDevice(c *gin.Context) {
	var req services.RegisterDeviceRequest
	if !bindJSON(c, &req, false) {
		return
	}
	row, err := h.notifications.RegisterDevice(c.Request.Context(), req)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondCreated(c, row)
}

// POST /notifications/reminders
func (h *NotificationHandler) QueueReminder(c *gin.Context) {
	var req services.ReminderRequest
	if !bindJSON(c, &req, false) {
		return
	}
	row, err := h.notifications.QueueReminder(c.Request.Context(), req)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondCreated(c, row)
}

// PATCH /notifications/:id/cancel
func (h *NotificationHandler) Cancel(c *gin.Context) {
	id, ok := pathID(c, "Notification not found")
	if !ok {
		return
	}
	row, err := h.notifications.Cancel(c.Request.Context(), id)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, row)
}
