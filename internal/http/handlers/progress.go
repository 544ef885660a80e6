package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/kajkor/kajkor-backend/internal/http/response"
	"github.com/kajkor/kajkor-backend/internal/services"
)

type ProgressHandler struct {
	progress services.ProgressService
}

func NewProgressHandler(progress services.ProgressService) *ProgressHandler {
	return &ProgressHandler{progress: progress}
}

// GET /progress
func (h *ProgressHandler) Dashboard(c *gin.Context) {
	out, err := h.progress.Dashboard(c.Request.Context())
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, out)
}
