package bus

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/kajkor/kajkor-backend/internal/platform/logger"
	"github.com/kajkor/kajkor-backend/internal/realtime"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return log
}

func TestNewWithoutAddrReturnsLogBus(t *testing.T) {
	b, err := New(testLogger(t), "", "")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, ok := b.(*logBus); !ok {
		t.Fatalf("expected *logBus got %T", b)
	}
}

func TestLogBusForwardsToListeners(t *testing.T) {
	b := NewLogBus(testLogger(t))
	var got []realtime.Event
	if err := b.StartForwarder(context.Background(), func(ev realtime.Event) { got = append(got, ev) }); err != nil {
		t.Fatalf("StartForwarder: %v", err)
	}
	ev := realtime.Event{NotificationID: uuid.New(), UserID: uuid.New(), Type: "streak"}
	if err := b.Publish(context.Background(), ev); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if len(got) != 1 || got[0].NotificationID != ev.NotificationID {
		t.Fatalf("want one forwarded event got %+v", got)
	}
	_ = b.Close()
	_ = b.Publish(context.Background(), ev)
	if len(got) != 1 {
		t.Fatalf("listener should be dropped after Close, got %d events", len(got))
	}
}

func TestNewRedisBusRequiresAddr(t *testing.T) {
	if _, err := NewRedisBus(testLogger(t), " ", ""); err == nil {
		t.Fatalf("expected error for blank addr")
	}
}

func TestDecodeEventRejectsGarbage(t *testing.T) {
	if _, err := decodeEvent("{not json"); err == nil {
		t.Fatalf("expected decode error")
	}
	ev := realtime.Event{NotificationID: uuid.New(), UserID: uuid.New(), Type: "reminder", Title: "Check in"}
	raw, err := encodeEvent(ev)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := decodeEvent(string(raw))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.NotificationID != ev.NotificationID || got.Title != "Check in" {
		t.Fatalf("want=%+v got=%+v", ev, got)
	}
}

func TestRedisClientNilForLogBus(t *testing.T) {
	if c := RedisClient(NewLogBus(testLogger(t))); c != nil {
		t.Fatalf("want nil client got %v", c)
	}
}
