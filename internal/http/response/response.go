package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kajkor/kajkor-backend/internal/platform/apierr"
)

const msgUnexpected = "Unexpected persistence failure"

// Envelope wraps every JSON body the API returns.
type Envelope struct {
	Success bool   `json:"success"`
	Result  any    `json:"result,omitempty"`
	Message string `json:"message,omitempty"`
	Code    string `json:"code,omitempty"`
}

func RespondOK(c *gin.Context, result any) {
	c.JSON(http.StatusOK, Envelope{Success: true, Result: result})
}

func RespondCreated(c *gin.Context, result any) {
	c.JSON(http.StatusCreated, Envelope{Success: true, Result: result})
}

func RespondMessage(c *gin.Context, status int, message string, result any) {
	c.JSON(status, Envelope{Success: status < 400, Message: message, Result: result})
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, Envelope{Success: false, Message: msg, Code: code})
}

// RespondErr renders a service error. Anything that is not an *apierr.Error is a 500
// whose message never leaks the cause.
func RespondErr(c *gin.Context, err error) {
	if apiErr, ok := apierr.From(err); ok && apiErr.Status != 0 {
		RespondError(c, apiErr.Status, apiErr.Code, apiErr)
		return
	}
	_ = c.Error(err)
	RespondError(c, http.StatusInternalServerError, "internal_error", errors.New(msgUnexpected))
}

// Abort is RespondError for middleware.
func Abort(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, Envelope{Success: false, Message: message, Code: code})
}
