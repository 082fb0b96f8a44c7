package evaluator

import (
	"errors"
	"fmt"
)

// ErrScopeNotFound is reported when a check's scope selector matches nothing.
var ErrScopeNotFound = errors.New("Scope not found")

// FetchError describes a page that could not be retrieved.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("fetch %s: unknown failure", e.URL)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }
