package ctxutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

func TestRequestDataRoundTrip(t *testing.T) {
	id := uuid.New()
	ctx := WithRequestData(context.Background(), &RequestData{UserID: id, TokenString: "tok"})
	rd := GetRequestData(ctx)
	if rd == nil || rd.UserID != id {
		t.Fatalf("want user %s got %+v", id, rd)
	}
	if got := UserID(ctx); got != id {
		t.Fatalf("UserID: want=%s got=%s", id, got)
	}
	if got := UserID(context.Background()); got != uuid.Nil {
		t.Fatalf("UserID on empty ctx: want nil got=%s", got)
	}
}

func TestTraceDataAndDefault(t *testing.T) {
	ctx := WithTraceData(Default(nil), &TraceData{TraceID: "t1", RequestID: "r1"})
	td := GetTraceData(ctx)
	if td == nil || td.TraceID != "t1" || td.RequestID != "r1" {
		t.Fatalf("unexpected trace data: %+v", td)
	}
	if GetTraceData(context.Background()) != nil {
		t.Fatalf("expected nil trace data")
	}
}

func TestTraceDataLogFieldsSkipsBlanks(t *testing.T) {
	var nilTD *TraceData
	if got := nilTD.LogFields(); got != nil {
		t.Fatalf("nil trace data: want nil got=%v", got)
	}
	got := (&TraceData{TraceID: "t1"}).LogFields()
	if len(got) != 2 || got[0] != "trace_id" || got[1] != "t1" {
		t.Fatalf("want=[trace_id t1] got=%v", got)
	}
}
