package apierr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestErrorMessageFallbacks(t *testing.T) {
	if got := New(http.StatusBadRequest, "", errors.New("boom")).Error(); got != "boom" {
		t.Fatalf("want=boom got=%q", got)
	}
	if got := New(http.StatusBadRequest, "bad_input", nil).Error(); got != "bad_input" {
		t.Fatalf("want=bad_input got=%q", got)
	}
	if got := New(http.StatusTeapot, "", nil).Error(); got != "api error (418)" {
		t.Fatalf("want=api error (418) got=%q", got)
	}
	var nilErr *Error
	if got := nilErr.Error(); got != "" {
		t.Fatalf("nil error: want empty got=%q", got)
	}
}

func TestErrorUnwrapsAndMatchesWithAs(t *testing.T) {
	cause := errors.New("cause")
	var err error = NotFound("target_not_found", cause)
	if !errors.Is(err, cause) {
		t.Fatalf("expected errors.Is to reach cause")
	}
	var ae *Error
	if !errors.As(err, &ae) {
		t.Fatalf("expected *apierr.Error")
	}
	if ae.Status != http.StatusNotFound || ae.Code != "target_not_found" {
		t.Fatalf("unexpected error: %+v", ae)
	}
}

func TestFromAndShorthands(t *testing.T) {
	if _, ok := From(nil); ok {
		t.Fatalf("nil error must not match")
	}
	if _, ok := From(errors.New("plain")); ok {
		t.Fatalf("plain error must not match")
	}
	ae, ok := From(fmt.Errorf("wrapped: %w", Validation("Title is required")))
	if !ok {
		t.Fatalf("expected wrapped *Error to match")
	}
	if ae.Status != http.StatusBadRequest || ae.Code != "validation" || ae.Error() != "Title is required" {
		t.Fatalf("unexpected validation error: %+v", ae)
	}
	if m := Missing("Task not found"); m.Status != http.StatusNotFound || m.Code != "not_found" {
		t.Fatalf("unexpected missing error: %+v", m)
	}
}
