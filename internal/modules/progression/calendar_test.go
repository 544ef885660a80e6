package progression

import (
	"testing"
	"time"
)

func TestCalendarIsYesterdayAcrossMonthBoundary(t *testing.T) {
	cal := NewCalendar(time.UTC)
	now := time.Date(2024, 3, 1, 0, 5, 0, 0, time.UTC)
	if !cal.IsYesterday(time.Date(2024, 2, 29, 23, 59, 0, 0, time.UTC), now) {
		t.Fatalf("Feb 29 should be yesterday of Mar 1")
	}
	if cal.IsYesterday(time.Date(2024, 2, 28, 12, 0, 0, 0, time.UTC), now) {
		t.Fatalf("Feb 28 is not yesterday of Mar 1")
	}
	if got := cal.DateKey(now); got != "2024-03-01" {
		t.Fatalf("DateKey: want=2024-03-01 got=%s", got)
	}
}

func TestCalendarNilLocationIsUTC(t *testing.T) {
	if NewCalendar(nil).Location() != time.UTC {
		t.Fatalf("want UTC")
	}
	var zero Calendar
	if zero.Location() != time.UTC {
		t.Fatalf("zero calendar: want UTC")
	}
}
