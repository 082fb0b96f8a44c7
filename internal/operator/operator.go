// Package operator maps check operators to the predicates that decide a
// check's match. Predicates are pure and work on an already scoped selection.
package operator

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/raysh454/webcheck/internal/model"
)

// Predicate decides whether scope satisfies value.
type Predicate func(value string, scope *goquery.Selection) bool

// Resolve returns the predicate for op, or an error wrapping
// model.ErrUnknownOperator.
func Resolve(op model.Operator) (Predicate, error) {
	switch op {
	case model.OperatorContains:
		return Contains, nil
	case model.OperatorNotContains:
		return NotContains, nil
	case model.OperatorMatches:
		return Matches, nil
	}
	return nil, fmt.Errorf("%w %q", model.ErrUnknownOperator, op)
}

// Contains reports whether value appears, case-insensitively, in the full
// rendered text of scope including every descendant.
func Contains(value string, scope *goquery.Selection) bool {
	return strings.Contains(strings.ToLower(scope.Text()), strings.ToLower(value))
}

func NotContains(value string, scope *goquery.Selection) bool {
	return !Contains(value, scope)
}

// Matches treats value as a CSS selector and reports whether at least one
// element below scope matches it. An invalid selector matches nothing.
func Matches(value string, scope *goquery.Selection) bool {
	return scope.Find(strings.ToLower(value)).Length() > 0
}
