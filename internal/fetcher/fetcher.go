package fetcher

import (
	"context"
	"fmt"
	"sync"

	"github.com/raysh454/webcheck/internal/logging"
	"github.com/raysh454/webcheck/internal/model"
	"github.com/raysh454/webcheck/internal/webclient"
)

// Page is the outcome of fetching one check's URL. Exactly one of Body or
// Err is meaningful; a non-2xx status is still a fetched page.
type Page struct {
	Check      model.Check
	Body       []byte
	StatusCode int
	Err        error
}

// Module: fetcher
// Fetches the pages of a run with bounded concurrency.
type Fetcher struct {
	MaxConcurrency int
	wc             webclient.WebClient
	logger         logging.Logger
}

// New creates a new Fetcher with the given webclient and logger
func New(cfg Config, wc webclient.WebClient, logger logging.Logger) (*Fetcher, error) {
	if wc == nil {
		return nil, fmt.Errorf("fetcher: webclient is nil")
	}
	if logger == nil {
		logger = logging.Discard()
	}
	maxConc := cfg.MaxConcurrency
	if maxConc < 1 {
		maxConc = 1
	}
	return &Fetcher{
		MaxConcurrency: maxConc,
		wc:             wc,
		logger:         logger.With(logging.Field{Key: "component", Value: "fetcher"}),
	}, nil
}

// FetchAll fetches every check's URL once and returns one Page per check in
// the order given, regardless of completion order. Checks not started before
// ctx is done get ctx's error.
func (f *Fetcher) FetchAll(ctx context.Context, checks []model.Check) []Page {
	pages := make([]Page, len(checks))
	var wg sync.WaitGroup
	sem := make(chan struct{}, f.MaxConcurrency)

	for i, check := range checks {
		pages[i].Check = check
		if err := ctx.Err(); err != nil {
			pages[i].Err = err
			continue
		}

		select {
		case <-ctx.Done():
			pages[i].Err = ctx.Err()
			continue
		case sem <- struct{}{}:
		}

		wg.Add(1)
		go func(i int, check model.Check) {
			defer wg.Done()
			defer func() { <-sem }()

			resp, err := f.HTTPGet(ctx, check.URL)
			if err != nil {
				f.logger.Warn("error while fetching page",
					logging.Field{Key: "check", Value: check.ID},
					logging.Field{Key: "url", Value: check.URL},
					logging.Field{Key: "error", Value: err})
				pages[i].Err = err
				return
			}
			pages[i].Body = resp.Body
			pages[i].StatusCode = resp.StatusCode
		}(i, check)
	}

	wg.Wait()
	return pages
}

// Makes an HTTP GET Request to the given URL
func (f *Fetcher) HTTPGet(ctx context.Context, pageURL string) (*webclient.Response, error) {
	resp, err := f.wc.Get(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		f.logger.Debug("page fetched with error status",
			logging.Field{Key: "url", Value: pageURL},
			logging.Field{Key: "status", Value: resp.StatusCode})
	}
	return resp, nil
}
