package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"github.com/raysh454/webcheck/internal/logging"
	"github.com/raysh454/webcheck/internal/model"
)

// JSONStore keeps records in a single JSON array file that is fully
// rewritten on every Save. The mutex gives single-writer discipline within
// one process.
type JSONStore struct {
	path   string
	logger logging.Logger

	mu      sync.Mutex
	records []model.Result
}

// NewJSONStore loads the array at path, creating the file with an empty
// array when it does not exist.
func NewJSONStore(path string, logger logging.Logger) (*JSONStore, error) {
	if path == "" {
		return nil, errors.New("json store: empty path")
	}
	if logger == nil {
		logger = logging.Discard()
	}

	s := &JSONStore{
		path:    path,
		logger:  logger.With(logging.Field{Key: "backend", Value: BackendJSON}),
		records: []model.Result{},
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		if err := atomicWriteFile(path, []byte("[]"), 0644); err != nil {
			return nil, fmt.Errorf("json store: init %s: %w", path, err)
		}
		s.logger.Info("initialized result file", logging.Field{Key: "path", Value: path})
		return s, nil
	case err != nil:
		return nil, fmt.Errorf("json store: read %s: %w", path, err)
	}

	if len(bytes.TrimSpace(data)) > 0 {
		if err := json.Unmarshal(data, &s.records); err != nil {
			return nil, fmt.Errorf("json store: parse %s: %w", path, err)
		}
	}
	if s.records == nil {
		s.records = []model.Result{}
	}

	s.logger.Debug("loaded result file",
		logging.Field{Key: "path", Value: path},
		logging.Field{Key: "records", Value: len(s.records)})
	return s, nil
}

func (s *JSONStore) Append(records ...model.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, records...)
}

// Save writes the whole log back to disk, indented by four spaces.
func (s *JSONStore) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(s.records, "", "    ")
	if err != nil {
		return fmt.Errorf("json store: encode: %w", err)
	}
	if err := atomicWriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("json store: save %s: %w", s.path, err)
	}

	s.logger.Debug("saved result file",
		logging.Field{Key: "path", Value: s.path},
		logging.Field{Key: "records", Value: len(s.records)})
	return nil
}

func (s *JSONStore) ByCheck(checkID string) []model.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return filterByCheck(s.records, checkID)
}

func (s *JSONStore) All() []model.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Result(nil), s.records...)
}

func (s *JSONStore) Close() error { return nil }
