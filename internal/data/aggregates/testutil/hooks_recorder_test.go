package testutil

import (
	"reflect"
	"testing"
	"time"
)

func TestHooksRecorder_CapturesSignals(t *testing.T) {
	h := &HooksRecorder{}
	h.ObserveOperation("Progress.Target.CompleteDay", "success", 10*time.Millisecond)
	h.ObserveOperation("Progress.Target.CompleteDay", "already_completed_today", time.Millisecond)
	h.ObserveOperation("Progress.Target.SkipDay", "success", time.Millisecond)
	h.IncConflict("Notification.Cancel")
	h.IncRetry("Progress.Target.CompleteDay")

	got := h.Statuses("Progress.Target.CompleteDay")
	if want := []string{"success", "already_completed_today"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("statuses: want=%v got=%v", want, got)
	}
	if len(h.Conflicts) != 1 || h.Conflicts[0] != "Notification.Cancel" {
		t.Fatalf("unexpected conflicts: %+v", h.Conflicts)
	}
	if len(h.Retries) != 1 {
		t.Fatalf("unexpected retries: %+v", h.Retries)
	}
}
