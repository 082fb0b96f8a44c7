package app_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/raysh454/webcheck/internal/app"
	"github.com/raysh454/webcheck/internal/evaluator"
	"github.com/raysh454/webcheck/internal/fetcher"
	"github.com/raysh454/webcheck/internal/model"
	"github.com/raysh454/webcheck/internal/store"
	"github.com/raysh454/webcheck/internal/testutil"
)

type harness struct {
	orch   *app.Orchestrator
	store  *store.JSONStore
	wc     *testutil.DummyWebClient
	logger *testutil.DummyLogger
	path   string
}

func newHarness(t *testing.T, checks ...model.Check) *harness {
	t.Helper()
	logger := &testutil.DummyLogger{}
	wc := &testutil.DummyWebClient{
		Pages: map[string]string{
			"http://shop.test/item":  `<div id="status">In Stock Now</div><a href="/checkout">Buy now</a>`,
			"http://shop.test/other": `<p>Out of stock</p>`,
		},
		FailURLs: map[string]bool{"http://down.test/": true},
	}
	f, err := fetcher.New(fetcher.Config{MaxConcurrency: 2}, wc, logger)
	if err != nil {
		t.Fatalf("fetcher.New: %v", err)
	}

	path := filepath.Join(t.TempDir(), "default.json")
	st, err := store.NewJSONStore(path, logger)
	if err != nil {
		t.Fatalf("NewJSONStore: %v", err)
	}

	cfg := app.DefaultConfig()
	cfg.Checks = checks
	if err := cfg.Prepare(logger); err != nil {
		t.Fatalf("Prepare: %v", err)
	}

	orch := app.NewOrchestrator(cfg, f, evaluator.New(logger), st, logger)
	t.Cleanup(orch.Close)
	return &harness{orch: orch, store: st, wc: wc, logger: logger, path: path}
}

func check(id, url, value string) model.Check {
	return model.Check{ID: id, URL: url, Operator: model.OperatorContains, Value: value}
}

func TestRun_DefaultsToAllChecksInOrder(t *testing.T) {
	t.Parallel()
	h := newHarness(t,
		check("in", "http://shop.test/item", "in stock"),
		check("down", "http://down.test/", "anything"),
		check("out", "http://shop.test/other", "in stock"),
	)

	run, err := h.orch.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if run.ID == "" || run.Status != app.RunDone || run.Failed != 1 {
		t.Errorf("unexpected run: %+v", run)
	}

	got := make([]string, len(run.Results))
	for i, r := range run.Results {
		got[i] = r.Check
	}
	if diff := cmp.Diff([]string{"in", "down", "out"}, got); diff != "" {
		t.Errorf("result order mismatch (-want +got):\n%s", diff)
	}
	if !run.Results[0].Match || !run.Results[1].Error || run.Results[2].Match {
		t.Errorf("unexpected outcomes: %+v", run.Results)
	}
	if n := len(h.store.All()); n != 3 {
		t.Errorf("expected 3 records in store, got %d", n)
	}
	if _, _, warns, _ := h.logger.Count(); warns == 0 {
		t.Error("expected failed check to be logged")
	}
}

func TestRun_DoesNotSave(t *testing.T) {
	t.Parallel()
	h := newHarness(t, check("in", "http://shop.test/item", "in stock"))

	if _, err := h.orch.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	reopened, err := store.NewJSONStore(h.path, nil)
	if err != nil {
		t.Fatal(err)
	}
	if n := len(reopened.All()); n != 0 {
		t.Fatalf("expected nothing on disk before Save, got %d", n)
	}

	if err := h.orch.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}
	reopened, _ = store.NewJSONStore(h.path, nil)
	if n := len(reopened.ByCheck("in")); n != 1 {
		t.Errorf("expected 1 saved record, got %d", n)
	}
}

func TestRun_ExplicitSubset(t *testing.T) {
	t.Parallel()
	h := newHarness(t,
		check("in", "http://shop.test/item", "in stock"),
		check("out", "http://shop.test/other", "in stock"),
	)

	run, err := h.orch.RunIDs(context.Background(), []string{"out"})
	if err != nil {
		t.Fatalf("RunIDs: %v", err)
	}
	if len(run.Results) != 1 || run.Results[0].Check != "out" {
		t.Errorf("unexpected results: %+v", run.Results)
	}
	if h.wc.RequestCount() != 1 {
		t.Errorf("expected 1 request, got %d", h.wc.RequestCount())
	}
}

func TestRunIDs_UnknownIDFailsBeforeFetch(t *testing.T) {
	t.Parallel()
	h := newHarness(t, check("in", "http://shop.test/item", "in stock"))

	_, err := h.orch.RunIDs(context.Background(), []string{"in", "ghost"})
	if !errors.Is(err, app.ErrUnknownCheck) {
		t.Fatalf("expected ErrUnknownCheck, got %v", err)
	}
	if h.wc.RequestCount() != 0 {
		t.Errorf("expected no fetches, got %d", h.wc.RequestCount())
	}
}

func TestRun_TaskResponsesDeduplicated(t *testing.T) {
	t.Parallel()
	c := check("buy", "http://shop.test/item", "Buy now")
	c.Tasks = []model.Task{model.TaskStoreAssociatedLink}
	h := newHarness(t, c)

	run, _ := h.orch.Run(context.Background())
	want := &model.TaskResponses{StoreAssociatedLink: []model.Link{{Href: "http://shop.test/checkout", Text: "buy now"}}}
	if diff := cmp.Diff(want, run.Results[0].TaskResponses); diff != "" {
		t.Errorf("task responses mismatch (-want +got):\n%s", diff)
	}
}

func TestRun_CanceledContext(t *testing.T) {
	t.Parallel()
	h := newHarness(t, check("in", "http://shop.test/item", "in stock"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	run, err := h.orch.Run(ctx)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if run.Status != app.RunCanceled || !run.Results[0].Error {
		t.Errorf("expected canceled run with error record, got %+v", run)
	}
}

// ─── Runs and subscriptions ────────────────────────────────────────────

func TestGetRun_And_ListRuns(t *testing.T) {
	t.Parallel()
	h := newHarness(t, check("in", "http://shop.test/item", "in stock"))

	if h.orch.GetRun("nope") != nil {
		t.Error("expected nil for unknown run")
	}
	first, _ := h.orch.Run(context.Background())
	second, _ := h.orch.Run(context.Background())

	if got := h.orch.GetRun(first.ID); got == nil || len(got.Results) != 1 {
		t.Errorf("GetRun = %+v", got)
	}
	runs := h.orch.ListRuns()
	if len(runs) != 2 || runs[0].ID != first.ID || runs[1].ID != second.ID {
		t.Errorf("ListRuns order unexpected: %+v", runs)
	}
}

func TestSubscribe_ReceivesAppendedRecords(t *testing.T) {
	t.Parallel()
	h := newHarness(t,
		check("in", "http://shop.test/item", "in stock"),
		check("out", "http://shop.test/other", "in stock"),
	)

	ch, cancel := h.orch.Subscribe(8)
	defer cancel()

	if _, err := h.orch.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	var got []string
	for i := 0; i < 2; i++ {
		got = append(got, (<-ch).Check)
	}
	if diff := cmp.Diff([]string{"in", "out"}, got); diff != "" {
		t.Errorf("published records mismatch (-want +got):\n%s", diff)
	}

	cancel()
	cancel()
	if _, ok := <-ch; ok {
		t.Error("expected channel closed after cancel")
	}
}

func TestChecks_Lookup(t *testing.T) {
	t.Parallel()
	h := newHarness(t, check("in", "http://shop.test/item", "in stock"))

	if _, ok := h.orch.Check("in"); !ok {
		t.Error("expected check to be found")
	}
	if _, ok := h.orch.Check("missing"); ok {
		t.Error("expected missing check not to be found")
	}
	if len(h.orch.Checks()) != 1 {
		t.Errorf("Checks() = %v", h.orch.Checks())
	}
}

func TestNewApplication_WiresComponents(t *testing.T) {
	t.Parallel()
	cfg := app.DefaultConfig()
	cfg.Store.Path = filepath.Join(t.TempDir(), "default.json")

	a, err := app.NewApplication(cfg, nil)
	if err != nil {
		t.Fatalf("NewApplication: %v", err)
	}
	if a.Orch == nil || a.Store == nil || a.WebClient == nil {
		t.Fatalf("components missing: %+v", a)
	}
	if err := a.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}
