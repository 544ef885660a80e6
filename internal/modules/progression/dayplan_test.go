package progression

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/kajkor/kajkor-backend/internal/domain/progress"
)

func TestNormalizeDayPlans_PadsShortArray(t *testing.T) {
	raw := []byte(`[
		{"day":1,"task":"t1","notes":"n1","completed":true},
		{"day":2,"task":"t2"},
		{"day":3,"task":"t3"},
		{"day":4,"task":"t4"},
		{"day":5,"task":"t5"}
	]`)
	got := NormalizeDayPlans(8, raw)
	if len(got) != 8 {
		t.Fatalf("len: want=8 got=%d", len(got))
	}
	if got[0] != (progress.DayPlan{Day: 1, Task: "t1", Notes: "n1", Completed: true}) {
		t.Fatalf("entry 0 not preserved: %+v", got[0])
	}
	if got[4].Task != "t5" {
		t.Fatalf("entry 4 not preserved: %+v", got[4])
	}
	for i := 5; i < 8; i++ {
		if want := (progress.DayPlan{Day: i + 1}); got[i] != want {
			t.Fatalf("entry %d: want=%+v got=%+v", i, want, got[i])
		}
	}
}

func TestNormalizeDayPlans_TruncatesLongArray(t *testing.T) {
	raw := []byte(`[{"task":"a"},{"task":"b"},{"task":"c"}]`)
	got := NormalizeDayPlans(2, raw)
	if len(got) != 2 || got[1].Task != "b" || got[1].Day != 2 {
		t.Fatalf("unexpected: %+v", got)
	}
}

func TestNormalizeDayPlans_ReplacesInvalidInput(t *testing.T) {
	for _, raw := range [][]byte{nil, []byte(`null`), []byte(`{"day":1}`), []byte(`"x"`), []byte(`[{`)} {
		got := NormalizeDayPlans(3, raw)
		want := []progress.DayPlan{{Day: 1}, {Day: 2}, {Day: 3}}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("raw %q: want=%+v got=%+v", raw, want, got)
		}
	}
}

func TestNormalizeDayPlans_MalformedElementBecomesEmpty(t *testing.T) {
	got := NormalizeDayPlans(3, []byte(`[{"task":"ok"}, 42, {"task":7}]`))
	if got[0].Task != "ok" || got[1] != (progress.DayPlan{Day: 2}) || got[2] != (progress.DayPlan{Day: 3}) {
		t.Fatalf("unexpected: %+v", got)
	}
}

func TestNormalizeDayPlans_RenumbersDays(t *testing.T) {
	got := NormalizeDayPlans(2, []byte(`[{"day":7,"task":"a"},{"day":7,"task":"b"}]`))
	if got[0].Day != 1 || got[1].Day != 2 {
		t.Fatalf("days not renumbered: %+v", got)
	}
}

func TestNormalizeDayPlans_Idempotent(t *testing.T) {
	inputs := [][]byte{
		nil,
		[]byte(`[]`),
		[]byte(`[{"task":"a","notes":"x","completed":true}]`),
		[]byte(`[1,2,3,4,5,6,7,8,9,10,11,12]`),
		[]byte(`{"not":"array"}`),
	}
	for _, raw := range inputs {
		for _, total := range []int{1, 4, 10} {
			once := NormalizeDayPlans(total, raw)
			enc, err := json.Marshal(once)
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			twice := NormalizeDayPlans(total, enc)
			if !reflect.DeepEqual(once, twice) {
				t.Fatalf("total=%d raw=%q: not idempotent\nonce=%+v\ntwice=%+v", total, raw, once, twice)
			}
			if len(once) != total {
				t.Fatalf("total=%d: len=%d", total, len(once))
			}
			if !reflect.DeepEqual(ResizeDayPlans(total, once), once) {
				t.Fatalf("ResizeDayPlans disagrees with normalized input")
			}
		}
	}
}

func TestNormalizeDayPlans_NonPositiveTotal(t *testing.T) {
	if got := NormalizeDayPlans(0, []byte(`[{"task":"a"}]`)); len(got) != 0 || got == nil {
		t.Fatalf("want empty non-nil slice got %#v", got)
	}
}
