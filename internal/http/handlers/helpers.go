package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kajkor/kajkor-backend/internal/http/response"
)

// pathID parses the :id param, writing a 404 on garbage. Unknown and malformed
// ids look the same to the caller.
func pathID(c *gin.Context, notFound string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil || id == uuid.Nil {
		response.RespondError(c, http.StatusNotFound, "not_found", errors.New(notFound))
		return uuid.Nil, false
	}
	return id, true
}

// bindJSON decodes the body into dst. An empty body is allowed when optional is set.
func bindJSON(c *gin.Context, dst any, optional bool) bool {
	if optional && c.Request.ContentLength == 0 {
		return true
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		// Chunked requests report ContentLength -1 and only surface emptiness as EOF.
		if optional && errors.Is(err, io.EOF) {
			return true
		}
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return false
	}
	return true
}
