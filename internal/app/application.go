package app

import (
	"errors"
	"fmt"

	"github.com/raysh454/webcheck/internal/evaluator"
	"github.com/raysh454/webcheck/internal/fetcher"
	"github.com/raysh454/webcheck/internal/logging"
	"github.com/raysh454/webcheck/internal/store"
	"github.com/raysh454/webcheck/internal/webclient"
)

// Application is the runtime state container. It owns the components built
// from a Config and releases them on Close. Pass it to the CLI and server
// rather than using package-level variables.
type Application struct {
	Config *Config
	Logger logging.Logger

	WebClient webclient.WebClient
	Store     store.Store
	Orch      *Orchestrator
}

// NewApplication builds the web client, fetcher, evaluator, store and
// orchestrator described by cfg.
func NewApplication(cfg *Config, logger logging.Logger) (*Application, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if logger == nil {
		logger = logging.Discard()
	}

	wc, err := webclient.NewWebClient(cfg.WebClient, logger)
	if err != nil {
		return nil, fmt.Errorf("creating webclient: %w", err)
	}

	f, err := fetcher.New(cfg.Fetcher, wc, logger)
	if err != nil {
		wc.Close()
		return nil, fmt.Errorf("creating fetcher: %w", err)
	}

	st, err := store.New(cfg.Store, logger)
	if err != nil {
		wc.Close()
		return nil, fmt.Errorf("opening store: %w", err)
	}

	orch := NewOrchestrator(cfg, f, evaluator.New(logger), st, logger)

	return &Application{
		Config:    cfg,
		Logger:    logger,
		WebClient: wc,
		Store:     st,
		Orch:      orch,
	}, nil
}

// Close ends subscriptions and releases the store and web client.
func (a *Application) Close() error {
	a.Orch.Close()
	return errors.Join(a.Store.Close(), a.WebClient.Close())
}
