package services

import (
	"errors"
	"net/http"
	"testing"

	domainagg "github.com/kajkor/kajkor-backend/internal/domain/aggregates"
	"github.com/kajkor/kajkor-backend/internal/platform/apierr"
)

func TestAPIErrorFromAggregate(t *testing.T) {
	cases := []struct {
		name   string
		in     error
		status int
		code   string
	}{
		{"rejection", domainagg.NewError(domainagg.CodeCompleteTodayFirst, "op", "Complete today's task first before starting tomorrow's task", nil), http.StatusBadRequest, "complete_today_first"},
		{"validation", domainagg.NewError(domainagg.CodeValidation, "op", "bad", nil), http.StatusBadRequest, "validation"},
		{"not found", domainagg.NewError(domainagg.CodeNotFound, "op", "gone", nil), http.StatusNotFound, "not_found"},
		{"conflict", domainagg.NewError(domainagg.CodeConflict, "op", "stale", nil), http.StatusBadRequest, "conflict"},
		{"internal", domainagg.NewError(domainagg.CodeInternal, "op", "boom", nil), http.StatusInternalServerError, "internal_error"},
		{"untyped", errors.New("disk full"), http.StatusInternalServerError, "internal_error"},
	}
	for _, tc := range cases {
		err := apiErrorFromAggregate(nil, "op", tc.in, msgTargetNotFound)
		var apiErr *apierr.Error
		if !errors.As(err, &apiErr) {
			t.Fatalf("%s: want *apierr.Error got %T", tc.name, err)
		}
		if apiErr.Status != tc.status || apiErr.Code != tc.code {
			t.Fatalf("%s: want=%d/%s got=%d/%s", tc.name, tc.status, tc.code, apiErr.Status, apiErr.Code)
		}
	}
}

func TestAPIErrorFromAggregateKeepsRejectionMessage(t *testing.T) {
	err := apiErrorFromAggregate(nil, "op", domainagg.NewError(domainagg.CodeAlreadyOnFinalDay, "op", "You are already on the final day", nil), msgTargetNotFound)
	if err.Error() != "You are already on the final day" {
		t.Fatalf("message: got=%q", err.Error())
	}
	err = apiErrorFromAggregate(nil, "op", domainagg.NewError(domainagg.CodeNotFound, "op", "row missing", nil), msgTargetNotFound)
	if err.Error() != msgTargetNotFound {
		t.Fatalf("not found message: got=%q", err.Error())
	}
}
