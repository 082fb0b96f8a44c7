package app

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/raysh454/webcheck/internal/evaluator"
	"github.com/raysh454/webcheck/internal/fetcher"
	"github.com/raysh454/webcheck/internal/logging"
	"github.com/raysh454/webcheck/internal/model"
	"github.com/raysh454/webcheck/internal/store"
)

var ErrUnknownCheck = errors.New("unknown check")

type RunStatus string

const (
	RunRunning  RunStatus = "running"
	RunDone     RunStatus = "done"
	RunCanceled RunStatus = "canceled"
)

// Run describes one invocation of the orchestrator over a batch of checks.
type Run struct {
	ID        string         `json:"id"`
	Status    RunStatus      `json:"status"`
	Checks    []string       `json:"checks"`
	StartedAt time.Time      `json:"started_at"`
	EndedAt   time.Time      `json:"ended_at"`
	Failed    int            `json:"failed"`
	Results   []model.Result `json:"results"`
}

// Orchestrator runs batches of checks: fetch, evaluate, append to the store.
// Runs are serialized so the store only ever has one writer.
type Orchestrator struct {
	cfg       *Config
	fetcher   *fetcher.Fetcher
	evaluator *evaluator.Evaluator
	store     store.Store
	logger    logging.Logger

	runMu sync.Mutex

	runsMu sync.Mutex
	runs   map[string]*Run

	subsMu sync.Mutex
	subs   map[int]chan model.Result
	nextID int
}

// NewOrchestrator ties together config, the fetch phase, the evaluator and
// the store.
func NewOrchestrator(cfg *Config, f *fetcher.Fetcher, ev *evaluator.Evaluator, st store.Store, logger logging.Logger) *Orchestrator {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &Orchestrator{
		cfg:       cfg,
		fetcher:   f,
		evaluator: ev,
		store:     st,
		logger:    logger.With(logging.Field{Key: "component", Value: "orchestrator"}),
		runs:      make(map[string]*Run),
		subs:      make(map[int]chan model.Result),
	}
}

// Checks returns the configured checks.
func (o *Orchestrator) Checks() []model.Check {
	return append([]model.Check(nil), o.cfg.Checks...)
}

// Check looks up a configured check by id.
func (o *Orchestrator) Check(id string) (model.Check, bool) {
	for _, c := range o.cfg.Checks {
		if c.ID == id {
			return c, true
		}
	}
	return model.Check{}, false
}

// Store returns the result store the orchestrator appends to.
func (o *Orchestrator) Store() store.Store {
	return o.store
}

// Run evaluates checks, or every configured check when none are given, and
// appends one record per check to the store in the order given. Per-check
// failures become error records; nothing is saved to disk.
func (o *Orchestrator) Run(ctx context.Context, checks ...model.Check) (*Run, error) {
	if len(checks) == 0 {
		checks = o.cfg.Checks
	}

	o.runMu.Lock()
	defer o.runMu.Unlock()

	run := &Run{
		ID:        uuid.NewString(),
		Status:    RunRunning,
		Checks:    make([]string, len(checks)),
		StartedAt: time.Now(),
	}
	for i, c := range checks {
		run.Checks[i] = c.ID
	}
	o.setRun(run)

	logger := o.logger.With(logging.Field{Key: "run_id", Value: run.ID})
	logger.Info("run started", logging.Field{Key: "checks", Value: len(checks)})

	pages := o.fetcher.FetchAll(ctx, checks)

	failed := 0
	results := make([]model.Result, 0, len(pages))
	for _, page := range pages {
		res := o.evaluator.Evaluate(page.Check, page.Body, page.Err)
		if res.Error {
			failed++
			logger.Warn("check failed",
				logging.Field{Key: "check", Value: res.Check},
				logging.Field{Key: "error", Value: res.ErrorMessage})
		}
		results = append(results, res)
		o.store.Append(res)
		o.publish(res)
	}

	o.runsMu.Lock()
	run.Results = results
	run.Failed = failed
	run.EndedAt = time.Now()
	status := RunDone
	if ctx.Err() != nil {
		status = RunCanceled
	}
	run.Status = status
	o.runsMu.Unlock()

	logger.Info("run finished",
		logging.Field{Key: "status", Value: string(status)},
		logging.Field{Key: "failed", Value: failed},
		logging.Field{Key: "duration", Value: time.Since(run.StartedAt).String()})
	return o.snapshot(run), nil
}

// RunIDs runs the configured checks with the given ids, in the order given.
// An unknown id fails the call before anything is fetched.
func (o *Orchestrator) RunIDs(ctx context.Context, ids []string) (*Run, error) {
	checks := make([]model.Check, 0, len(ids))
	for _, id := range ids {
		c, ok := o.Check(id)
		if !ok {
			return nil, fmt.Errorf("%w %q", ErrUnknownCheck, id)
		}
		checks = append(checks, c)
	}
	if len(checks) == 0 {
		return o.Run(ctx)
	}
	return o.Run(ctx, checks...)
}

// Save persists the store. It waits for an in-progress run to finish.
func (o *Orchestrator) Save() error {
	o.runMu.Lock()
	defer o.runMu.Unlock()
	if err := o.store.Save(); err != nil {
		return fmt.Errorf("saving results: %w", err)
	}
	return nil
}

// GetRun returns a copy of the run with id, or nil.
func (o *Orchestrator) GetRun(id string) *Run {
	o.runsMu.Lock()
	run, ok := o.runs[id]
	o.runsMu.Unlock()
	if !ok {
		return nil
	}
	return o.snapshot(run)
}

// ListRuns returns copies of all runs started by this orchestrator.
func (o *Orchestrator) ListRuns() []*Run {
	o.runsMu.Lock()
	runs := make([]*Run, 0, len(o.runs))
	for _, r := range o.runs {
		runs = append(runs, r)
	}
	o.runsMu.Unlock()

	sort.Slice(runs, func(i, j int) bool { return runs[i].StartedAt.Before(runs[j].StartedAt) })
	out := make([]*Run, 0, len(runs))
	for _, r := range runs {
		out = append(out, o.snapshot(r))
	}
	return out
}

// Subscribe returns a channel receiving every record appended from now on,
// and a function that ends the subscription. Slow subscribers miss records
// rather than stalling runs.
func (o *Orchestrator) Subscribe(buffer int) (<-chan model.Result, func()) {
	if buffer < 1 {
		buffer = 16
	}
	ch := make(chan model.Result, buffer)

	o.subsMu.Lock()
	id := o.nextID
	o.nextID++
	o.subs[id] = ch
	o.subsMu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			o.subsMu.Lock()
			defer o.subsMu.Unlock()
			if _, ok := o.subs[id]; ok {
				delete(o.subs, id)
				close(ch)
			}
		})
	}
}

// Close ends every subscription.
func (o *Orchestrator) Close() {
	o.subsMu.Lock()
	defer o.subsMu.Unlock()
	for id, ch := range o.subs {
		close(ch)
		delete(o.subs, id)
	}
}

func (o *Orchestrator) publish(res model.Result) {
	o.subsMu.Lock()
	defer o.subsMu.Unlock()
	for _, ch := range o.subs {
		// Non-blocking send; drop if buffer is full.
		select {
		case ch <- res:
		default:
		}
	}
}

func (o *Orchestrator) setRun(run *Run) {
	o.runsMu.Lock()
	defer o.runsMu.Unlock()
	o.runs[run.ID] = run
}

func (o *Orchestrator) snapshot(run *Run) *Run {
	o.runsMu.Lock()
	defer o.runsMu.Unlock()
	cp := *run
	cp.Checks = append([]string(nil), run.Checks...)
	cp.Results = append([]model.Result(nil), run.Results...)
	return &cp
}
