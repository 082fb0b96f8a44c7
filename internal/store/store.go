// Package store persists result records. Records live in memory in
// insertion order, are added only through Append and reach disk only
// through Save.
package store

import (
	"errors"
	"fmt"
	"strings"

	"github.com/raysh454/webcheck/internal/logging"
	"github.com/raysh454/webcheck/internal/model"
)

var ErrUnknownBackend = errors.New("unknown store backend")

// Store is an ordered, append-only log of result records.
type Store interface {
	// Append adds records to the in-memory log. Nothing is written to disk.
	Append(records ...model.Result)
	// Save persists the in-memory log.
	Save() error
	// ByCheck returns every record for checkID in storage order.
	ByCheck(checkID string) []model.Result
	// All returns a copy of every record in storage order.
	All() []model.Result
	Close() error
}

// New opens the backend named by cfg.Backend at cfg.Path.
func New(cfg Config, logger logging.Logger) (Store, error) {
	if logger == nil {
		logger = logging.Discard()
	}
	logger = logger.With(logging.Field{Key: "component", Value: "store"})

	switch strings.ToLower(cfg.Backend) {
	case "", BackendJSON:
		return NewJSONStore(cfg.Path, logger)
	case BackendSQLite:
		return NewSQLiteStore(cfg.Path, logger)
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownBackend, cfg.Backend)
}

func filterByCheck(records []model.Result, checkID string) []model.Result {
	var out []model.Result
	for _, r := range records {
		if r.Check == checkID {
			out = append(out, r)
		}
	}
	return out
}
