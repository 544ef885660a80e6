package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kajkor/kajkor-backend/internal/platform/ctxutil"
	"github.com/kajkor/kajkor-backend/internal/platform/logger"
	"github.com/kajkor/kajkor-backend/internal/services"
)

type spyAuthService struct {
	services.AuthService
	userID uuid.UUID
	calls  int
}

func (s *spyAuthService) SetContextFromToken(ctx context.Context, token string) (context.Context, error) {
	s.calls++
	if token != "good" {
		return nil, errors.New("bad token")
	}
	return ctxutil.WithRequestData(ctx, &ctxutil.RequestData{TokenString: token, UserID: s.userID}), nil
}

func (s *spyAuthService) GetAccessTTL() time.Duration { return time.Hour }

func TestRequireAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	log, _ := logger.New("test")
	userID := uuid.New()
	spy := &spyAuthService{userID: userID}

	r := gin.New()
	r.Use(NewAuthMiddleware(log, spy).RequireAuth())
	var seen uuid.UUID
	r.GET("/me", func(c *gin.Context) {
		seen = ctxutil.UserID(c.Request.Context())
		c.Status(http.StatusOK)
	})

	cases := []struct {
		name      string
		header    string
		status    int
		wantCalls int
	}{
		{"missing header", "", http.StatusUnauthorized, 0},
		{"not bearer", "Basic abc", http.StatusUnauthorized, 0},
		{"bad token", "Bearer nope", http.StatusUnauthorized, 1},
		{"good token", "bearer good", http.StatusOK, 1},
	}
	for _, tc := range cases {
		spy.calls = 0
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		if rec.Code != tc.status {
			t.Fatalf("%s: status want=%d got=%d", tc.name, tc.status, rec.Code)
		}
		if spy.calls != tc.wantCalls {
			t.Fatalf("%s: token lookups want=%d got=%d", tc.name, tc.wantCalls, spy.calls)
		}
		if tc.status == http.StatusUnauthorized {
			var body map[string]any
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("%s: decode: %v", tc.name, err)
			}
			if body["success"] != false || body["code"] != "unauthorized" {
				t.Fatalf("%s: body=%v", tc.name, body)
			}
		}
	}
	if seen != userID {
		t.Fatalf("user id: want=%s got=%s", userID, seen)
	}
}

func TestAttachTraceContextEchoesRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AttachTraceContext())
	var td *ctxutil.TraceData
	r.GET("/x", func(c *gin.Context) {
		td = ctxutil.GetTraceData(c.Request.Context())
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("X-Request-Id", "req-123")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Request-Id"); got != "req-123" {
		t.Fatalf("request id header: want=req-123 got=%q", got)
	}
	if td == nil || td.RequestID != "req-123" || td.TraceID == "" {
		t.Fatalf("trace data: %+v", td)
	}
	if rec.Header().Get("X-Trace-Id") != td.TraceID {
		t.Fatalf("trace id header mismatch")
	}
}

func TestClientIDRejectsOversizedAndControlChars(t *testing.T) {
	cases := map[string]string{
		"  abc-1  ":              "abc-1",
		"with space":             "",
		"tab\tinside":            "",
		strings.Repeat("a", 129): "",
		strings.Repeat("b", 128): strings.Repeat("b", 128),
	}
	for in, want := range cases {
		if got := clientID(in); got != want {
			t.Fatalf("clientID(%q): want=%q got=%q", in, want, got)
		}
	}
}
