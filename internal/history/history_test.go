package history_test

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/raysh454/webcheck/internal/history"
	"github.com/raysh454/webcheck/internal/model"
)

var base = time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

func rec(check string, minute int, match, isErr bool) model.Result {
	return model.Result{
		Check:     check,
		Match:     match,
		Error:     isErr,
		Completed: model.Timestamp{Time: base.Add(time.Duration(minute) * time.Minute)},
	}
}

// ─── Transitions ───────────────────────────────────────────────────────

func TestTransitions(t *testing.T) {
	t.Parallel()
	records := []model.Result{
		rec("a", 0, false, false),
		rec("b", 0, true, false),
		rec("a", 1, false, true), // error records are skipped
		rec("a", 2, true, false),
		rec("b", 2, true, false),
		rec("a", 3, true, false),
		rec("a", 4, false, false),
	}

	got := history.Transitions(records)
	want := []history.Transition{
		{Check: "a", From: false, To: true, Since: records[0].Completed, At: records[3].Completed},
		{Check: "a", From: true, To: false, Since: records[5].Completed, At: records[6].Completed},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Transitions mismatch (-want +got):\n%s", diff)
	}
	if !got[0].Met() || got[1].Met() {
		t.Error("Met() mismatch")
	}
}

func TestTransitions_NoneForStableHistory(t *testing.T) {
	t.Parallel()
	if got := history.Transitions([]model.Result{rec("a", 0, true, false), rec("a", 1, true, false)}); len(got) != 0 {
		t.Errorf("expected no transitions, got %+v", got)
	}
	if got := history.Transitions(nil); got != nil {
		t.Errorf("expected nil for empty history, got %+v", got)
	}
}

func TestLatestSuccessful(t *testing.T) {
	t.Parallel()
	records := []model.Result{
		rec("a", 0, false, false),
		rec("a", 1, true, false),
		rec("a", 2, false, true),
	}
	b, h, ok := history.LatestSuccessful(records)
	if !ok || b.Completed != records[0].Completed || h.Completed != records[1].Completed {
		t.Errorf("got base=%v head=%v ok=%v", b.Completed, h.Completed, ok)
	}
	if _, _, ok := history.LatestSuccessful(records[:1]); ok {
		t.Error("expected ok=false with a single record")
	}
}

// ─── TextDiff ──────────────────────────────────────────────────────────

func TestTextDiff_ReportsAddedAndRemoved(t *testing.T) {
	t.Parallel()
	older := rec("deals", 0, true, false)
	older.TaskResponses = &model.TaskResponses{
		StoreAssociatedText: []string{"price: 10 eur"},
		StoreAssociatedLink: []model.Link{{Href: "http://shop.test/a", Text: "deal a"}},
	}
	newer := rec("deals", 1, true, false)
	newer.TaskResponses = &model.TaskResponses{
		StoreAssociatedText: []string{"price: 12 eur"},
		StoreAssociatedLink: []model.Link{{Href: "http://shop.test/a", Text: "deal a"}},
	}

	d := history.TextDiff(older, newer)
	if !d.Changed || d.Check != "deals" {
		t.Fatalf("expected change, got %+v", d)
	}
	var added, removed string
	for _, c := range d.Chunks {
		switch c.Type {
		case "added":
			added += c.Content
		case "removed":
			removed += c.Content
		}
	}
	if added == "" || removed == "" {
		t.Errorf("expected both added and removed chunks, got %+v", d.Chunks)
	}
}

func TestTextDiff_Unchanged(t *testing.T) {
	t.Parallel()
	a := rec("x", 0, true, false)
	a.TaskResponses = &model.TaskResponses{StoreAssociatedText: []string{"same"}}
	b := rec("x", 1, true, false)
	b.TaskResponses = &model.TaskResponses{StoreAssociatedText: []string{"same"}}

	d := history.TextDiff(a, b)
	if d.Changed || len(d.Chunks) != 0 {
		t.Errorf("expected no change, got %+v", d)
	}
}

func TestRender(t *testing.T) {
	t.Parallel()
	got := history.Render(&model.TaskResponses{
		StoreAssociatedText: []string{" in stock "},
		StoreAssociatedLink: []model.Link{{Href: "http://a/1", Text: "one"}},
	})
	if want := "in stock\nhttp://a/1 one\n"; got != want {
		t.Errorf("Render = %q, want %q", got, want)
	}
	if history.Render(nil) != "" {
		t.Error("expected empty render for nil responses")
	}
}
