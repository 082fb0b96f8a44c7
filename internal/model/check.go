package model

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/andybalholm/cascadia"
)

var (
	ErrInvalidCheck    = errors.New("invalid check")
	ErrUnknownOperator = errors.New("unknown operator")
	ErrUnknownTask     = errors.New("unknown task")
)

// Operator names the boolean predicate applied to a check's scoped content.
type Operator string

const (
	OperatorContains    Operator = "contains"
	OperatorNotContains Operator = "not_contains"
	OperatorMatches     Operator = "matches"
)

// Known reports whether o is one of the supported operators.
func (o Operator) Known() bool {
	switch o {
	case OperatorContains, OperatorNotContains, OperatorMatches:
		return true
	}
	return false
}

// QueryType selects how a check's value is interpreted. Tasks only run for
// plain_text; other values still get their predicate evaluated.
type QueryType string

const QueryPlainText QueryType = "plain_text"

// Task names an auxiliary extraction routine.
type Task string

const (
	TaskStoreAssociatedText Task = "store_associated_text"
	TaskStoreAssociatedLink Task = "store_associated_link"
)

// Known reports whether t is a task the evaluator knows how to run.
func (t Task) Known() bool {
	return t == TaskStoreAssociatedText || t == TaskStoreAssociatedLink
}

// Check is one configured monitoring rule against a single URL.
// ID must stay stable across runs; results reference it.
type Check struct {
	ID        string    `json:"id" yaml:"id"`
	Name      string    `json:"name,omitempty" yaml:"name,omitempty"`
	URL       string    `json:"url" yaml:"url"`
	QueryType QueryType `json:"query_type" yaml:"query_type"`
	Operator  Operator  `json:"operator" yaml:"operator"`
	Value     string    `json:"value" yaml:"value"`
	Scope     string    `json:"scope,omitempty" yaml:"scope,omitempty"`
	Tasks     []Task    `json:"tasks,omitempty" yaml:"tasks,omitempty"`
}

// Normalize fills derivable fields: an empty ID is derived from Name and an
// empty QueryType becomes plain_text.
func (c *Check) Normalize() {
	if strings.TrimSpace(c.ID) == "" && c.Name != "" {
		c.ID = IDFromName(c.Name)
	}
	if c.QueryType == "" {
		c.QueryType = QueryPlainText
	}
}

// Validate checks a normalized Check. With strictTasks, unknown task names
// fail with ErrUnknownTask; otherwise they are left for the evaluator to skip.
func (c Check) Validate(strictTasks bool) error {
	if strings.TrimSpace(c.ID) == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidCheck)
	}

	u, err := url.Parse(c.URL)
	if err != nil {
		return fmt.Errorf("%w %q: url: %v", ErrInvalidCheck, c.ID, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w %q: url %q must be absolute http(s)", ErrInvalidCheck, c.ID, c.URL)
	}

	if !c.Operator.Known() {
		return fmt.Errorf("check %q: %w %q", c.ID, ErrUnknownOperator, c.Operator)
	}

	if c.Scope != "" {
		if _, err := cascadia.Compile(strings.ToLower(c.Scope)); err != nil {
			return fmt.Errorf("%w %q: scope selector: %v", ErrInvalidCheck, c.ID, err)
		}
	}
	if c.Operator == OperatorMatches {
		if _, err := cascadia.Compile(strings.ToLower(c.Value)); err != nil {
			return fmt.Errorf("%w %q: matches selector: %v", ErrInvalidCheck, c.ID, err)
		}
	}

	if len(c.Tasks) > 0 && c.QueryType == QueryPlainText {
		if _, err := regexp.Compile(c.Value); err != nil {
			return fmt.Errorf("%w %q: task pattern: %v", ErrInvalidCheck, c.ID, err)
		}
	}

	if strictTasks {
		if unknown := c.UnknownTasks(); len(unknown) > 0 {
			return fmt.Errorf("check %q: %w: %v", c.ID, ErrUnknownTask, unknown)
		}
	}
	return nil
}

// UnknownTasks returns the configured task names the evaluator will skip.
func (c Check) UnknownTasks() []Task {
	var out []Task
	for _, t := range c.Tasks {
		if !t.Known() {
			out = append(out, t)
		}
	}
	return out
}

// IDFromName turns a human name into a check id: lowercased, ASCII
// punctuation removed, spaces replaced by dashes.
//
//	"Widget: In Stock?" -> "widget-in-stock"
func IDFromName(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if r < 0x80 && isPunct(byte(r)) {
			continue
		}
		if r == ' ' {
			b.WriteByte('-')
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func isPunct(c byte) bool {
	return strings.IndexByte("!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~", c) >= 0
}
