package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	types "github.com/kajkor/kajkor-backend/internal/domain"
	"github.com/kajkor/kajkor-backend/internal/platform/apierr"
	"github.com/kajkor/kajkor-backend/internal/services"
)

// spyTargets records calls. Methods a test does not use panic through the nil embed.
type spyTargets struct {
	services.TargetService

	completeID  uuid.UUID
	completeReq services.CompleteDayRequest
	completeErr error
	startNext   *services.StartNextResult
	checkins    []*types.Checkin
	checkinsErr error
}

func (s *spyTargets) CompleteDay(_ context.Context, id uuid.UUID, req services.CompleteDayRequest) (*types.Target, error) {
	s.completeID = id
	s.completeReq = req
	if s.completeErr != nil {
		return nil, s.completeErr
	}
	return &types.Target{ID: id, CurrentDay: 2, Streak: 1}, nil
}

func (s *spyTargets) StartNextDay(_ context.Context, id uuid.UUID) (*services.StartNextResult, error) {
	return s.startNext, nil
}

func (s *spyTargets) Checkins(_ context.Context, id uuid.UUID) ([]*types.Checkin, error) {
	return s.checkins, s.checkinsErr
}

type envelope struct {
	Success bool            `json:"success"`
	Result  json.RawMessage `json:"result"`
	Message string          `json:"message"`
	Code    string          `json:"code"`
}

func serveTarget(t *testing.T, spy *spyTargets, method, path, body string) (int, envelope) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	h := NewTargetHandler(spy)
	r := gin.New()
	r.PATCH("/targets/:id/complete-day", h.CompleteDay)
	r.PATCH("/targets/:id/start-next", h.StartNextDay)
	r.GET("/targets/:id/checkins", h.Checkins)

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	return rec.Code, env
}

func TestCompleteDayAcceptsEmptyBody(t *testing.T) {
	spy := &spyTargets{}
	id := uuid.New()
	status, env := serveTarget(t, spy, http.MethodPatch, "/targets/"+id.String()+"/complete-day", "")
	if status != http.StatusOK || !env.Success || env.Message != "Day completed" {
		t.Fatalf("want=200 success got=%d %+v", status, env)
	}
	if spy.completeID != id || spy.completeReq.TimeSpent != nil {
		t.Fatalf("unexpected call: id=%s req=%+v", spy.completeID, spy.completeReq)
	}
}

func TestCompleteDayAcceptsChunkedEmptyBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	spy := &spyTargets{}
	r := gin.New()
	r.PATCH("/targets/:id/complete-day", NewTargetHandler(spy).CompleteDay)
	id := uuid.New()

	cases := []struct {
		body string
		want int
	}{
		{"", http.StatusOK},
		{"{", http.StatusBadRequest},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodPatch, "/targets/"+id.String()+"/complete-day", strings.NewReader(tc.body))
		req.Header.Set("Content-Type", "application/json")
		req.ContentLength = -1
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		if rec.Code != tc.want {
			t.Fatalf("body %q: want=%d got=%d (%s)", tc.body, tc.want, rec.Code, rec.Body.String())
		}
	}
	if spy.completeID != id {
		t.Fatalf("service not called for empty chunked body")
	}
}

func TestCompleteDayPassesNotesAndTime(t *testing.T) {
	spy := &spyTargets{}
	id := uuid.New()
	status, _ := serveTarget(t, spy, http.MethodPatch, "/targets/"+id.String()+"/complete-day", `{"notes":"ch. 2","timeSpent":45}`)
	if status != http.StatusOK {
		t.Fatalf("status: want=200 got=%d", status)
	}
	if spy.completeReq.Notes != "ch. 2" || spy.completeReq.TimeSpent == nil || *spy.completeReq.TimeSpent != 45 {
		t.Fatalf("request: %+v", spy.completeReq)
	}
}

func TestCompleteDayErrors(t *testing.T) {
	cases := []struct {
		name   string
		path   string
		body   string
		err    error
		status int
		code   string
	}{
		{name: "malformed id", path: "/targets/nope/complete-day", status: http.StatusNotFound, code: "not_found"},
		{name: "bad json", path: "/targets/" + uuid.NewString() + "/complete-day", body: `{"timeSpent":"lots"}`, status: http.StatusBadRequest, code: "invalid_request"},
		{name: "already completed", path: "/targets/" + uuid.NewString() + "/complete-day", err: apierr.BadRequest("already_completed_today", errors.New("Today's task is already completed")), status: http.StatusBadRequest, code: "already_completed_today"},
		{name: "untyped", path: "/targets/" + uuid.NewString() + "/complete-day", err: errors.New("disk on fire"), status: http.StatusInternalServerError, code: "internal_error"},
	}
	for _, tc := range cases {
		spy := &spyTargets{completeErr: tc.err}
		status, env := serveTarget(t, spy, http.MethodPatch, tc.path, tc.body)
		if status != tc.status || env.Code != tc.code || env.Success {
			t.Fatalf("%s: want=%d/%s got=%d/%s", tc.name, tc.status, tc.code, status, env.Code)
		}
		if tc.name == "untyped" && strings.Contains(env.Message, "disk") {
			t.Fatalf("%s: cause leaked: %q", tc.name, env.Message)
		}
	}
}

func TestStartNextDayUsesServiceMessage(t *testing.T) {
	id := uuid.New()
	spy := &spyTargets{startNext: &services.StartNextResult{Target: &types.Target{ID: id}, Message: "Next day already unlocked"}}
	status, env := serveTarget(t, spy, http.MethodPatch, "/targets/"+id.String()+"/start-next", "")
	if status != http.StatusOK || env.Message != "Next day already unlocked" {
		t.Fatalf("want=200 %q got=%d %q", "Next day already unlocked", status, env.Message)
	}
}

func TestTargetCheckins(t *testing.T) {
	id := uuid.New()
	spy := &spyTargets{checkins: []*types.Checkin{{TargetID: id, Date: "2024-05-10", Status: "completed"}}}
	status, env := serveTarget(t, spy, http.MethodGet, "/targets/"+id.String()+"/checkins", "")
	if status != http.StatusOK || !env.Success {
		t.Fatalf("want=200 success got=%d %+v", status, env)
	}
	var rows []types.Checkin
	if err := json.Unmarshal(env.Result, &rows); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if len(rows) != 1 || rows[0].Date != "2024-05-10" || rows[0].Status != "completed" {
		t.Fatalf("rows: %+v", rows)
	}

	spy.checkinsErr = apierr.Missing("Target not found")
	status, env = serveTarget(t, spy, http.MethodGet, "/targets/"+id.String()+"/checkins", "")
	if status != http.StatusNotFound || env.Success {
		t.Fatalf("missing target: want=404 got=%d %+v", status, env)
	}
}
