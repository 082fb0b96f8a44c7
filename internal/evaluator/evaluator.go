// Package evaluator turns one fetched page into one result record for a
// check: it scopes the document, applies the operator, runs the check's
// tasks and captures every per-check failure as an error record.
package evaluator

import (
	"bytes"
	"errors"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/raysh454/webcheck/internal/extract"
	"github.com/raysh454/webcheck/internal/logging"
	"github.com/raysh454/webcheck/internal/model"
	"github.com/raysh454/webcheck/internal/operator"
)

type Evaluator struct {
	logger logging.Logger
	tasks  *extract.Runner
	now    func() time.Time
}

// New creates an Evaluator. A nil logger discards output.
func New(logger logging.Logger) *Evaluator {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Evaluator{
		logger: logger.With(logging.Field{Key: "component", Value: "evaluator"}),
		tasks:  extract.NewRunner(logger),
		now:    time.Now,
	}
}

// WithClock returns a copy of e that stamps results using now.
func (e *Evaluator) WithClock(now func() time.Time) *Evaluator {
	cp := *e
	cp.now = now
	return &cp
}

// Evaluate produces the result record for check given the fetched body, or
// the fetch failure when the page could not be retrieved. It never panics on
// malformed input and never returns a record with both a match and an error.
func (e *Evaluator) Evaluate(check model.Check, body []byte, fetchErr error) model.Result {
	if fetchErr != nil {
		var fe *FetchError
		if !errors.As(fetchErr, &fe) {
			fetchErr = &FetchError{URL: check.URL, Err: fetchErr}
		}
		return e.fail(check, fetchErr)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(bytes.ToLower(body)))
	if err != nil {
		return e.fail(check, err)
	}

	scope, err := Scope(doc, check.Scope)
	if err != nil {
		return e.fail(check, err)
	}

	predicate, err := operator.Resolve(check.Operator)
	if err != nil {
		return e.fail(check, err)
	}
	match := predicate(check.Value, scope)

	result := model.Result{
		Check:     check.ID,
		Match:     match,
		Completed: model.Timestamp{Time: e.now()},
	}

	if check.QueryType != model.QueryPlainText {
		if len(check.Tasks) > 0 {
			e.logger.Debug("query type has no tasks, skipping",
				logging.Field{Key: "check", Value: check.ID},
				logging.Field{Key: "query_type", Value: string(check.QueryType)})
		}
		return result
	}

	responses, err := e.tasks.Run(check, scope)
	if err != nil {
		return e.fail(check, err)
	}
	if responses != nil {
		responses.StoreAssociatedLink = extract.DedupeLinks(responses.StoreAssociatedLink)
		if len(responses.StoreAssociatedLink) == 0 {
			responses.StoreAssociatedLink = nil
		}
	}
	if !responses.Empty() {
		result.TaskResponses = responses
	}

	e.logger.Debug("evaluated check",
		logging.Field{Key: "check", Value: check.ID},
		logging.Field{Key: "match", Value: match})
	return result
}

// Scope narrows doc to the first element matching selector, or returns the
// whole document when selector is empty. The selector is lowercased to match
// the lowercased document.
func Scope(doc *goquery.Document, selector string) (*goquery.Selection, error) {
	selector = strings.TrimSpace(selector)
	if selector == "" {
		return doc.Selection, nil
	}
	scope := doc.Find(strings.ToLower(selector)).First()
	if scope.Length() == 0 {
		return nil, ErrScopeNotFound
	}
	return scope, nil
}

func (e *Evaluator) fail(check model.Check, err error) model.Result {
	e.logger.Debug("check failed",
		logging.Field{Key: "check", Value: check.ID},
		logging.Field{Key: "error", Value: err.Error()})
	return model.NewErrorResult(check.ID, err, e.now())
}
