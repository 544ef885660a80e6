package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/kajkor/kajkor-backend/internal/http/response"
	"github.com/kajkor/kajkor-backend/internal/services"
)

type FeedbackHandler struct {
	feedback services.FeedbackService
}

func NewFeedbackHandler(feedback services.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{feedback: feedback}
}

// POST /feedback
func (h *FeedbackHandler) Submit(c *gin.Context) {
	var req services.FeedbackRequest
	if !bindJSON(c, &req, false) {
		return
	}
	row, err := h.feedback.Submit(c.Request.Context(), req)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondCreated(c, row)
}
