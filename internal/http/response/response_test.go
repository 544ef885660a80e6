package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/kajkor/kajkor-backend/internal/platform/apierr"
)

func render(t *testing.T, fn func(c *gin.Context)) (int, Envelope, map[string]any) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	fn(c)
	var env Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	var raw map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &raw)
	return rec.Code, env, raw
}

func TestRespondOKOmitsErrorFields(t *testing.T) {
	status, env, raw := render(t, func(c *gin.Context) { RespondOK(c, gin.H{"id": 1}) })
	if status != http.StatusOK || !env.Success {
		t.Fatalf("want=200 success got=%d %v", status, env.Success)
	}
	if _, ok := raw["code"]; ok {
		t.Fatalf("code must be omitted on success")
	}
}

func TestRespondErrUsesAPIErrorStatus(t *testing.T) {
	status, env, _ := render(t, func(c *gin.Context) {
		RespondErr(c, apierr.BadRequest("already_completed_today", errors.New("Today's task is already completed")))
	})
	if status != http.StatusBadRequest || env.Success {
		t.Fatalf("want=400 failure got=%d %v", status, env.Success)
	}
	if env.Code != "already_completed_today" || env.Message != "Today's task is already completed" {
		t.Fatalf("body: %+v", env)
	}
}

func TestRespondErrHidesUntypedCause(t *testing.T) {
	status, env, _ := render(t, func(c *gin.Context) { RespondErr(c, errors.New("pq: relation missing")) })
	if status != http.StatusInternalServerError || env.Message != msgUnexpected {
		t.Fatalf("want=500 %q got=%d %q", msgUnexpected, status, env.Message)
	}
}
