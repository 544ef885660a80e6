package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestHealthCheck(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := []struct {
		name   string
		ping   func(context.Context) error
		status int
		body   string
	}{
		{"no pinger", nil, http.StatusOK, "ok"},
		{"db up", func(context.Context) error { return nil }, http.StatusOK, "ok"},
		{"db down", func(context.Context) error { return errors.New("connection refused") }, http.StatusServiceUnavailable, "unavailable"},
	}
	for _, tc := range cases {
		r := gin.New()
		r.GET("/healthcheck", NewHealthHandler(tc.ping).HealthCheck)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthcheck", nil))
		if rec.Code != tc.status || rec.Body.String() != tc.body {
			t.Fatalf("%s: want=%d %q got=%d %q", tc.name, tc.status, tc.body, rec.Code, rec.Body.String())
		}
	}
}
