package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Link is one extracted hyperlink: an absolute href and the anchor's text.
type Link struct {
	Href string `json:"href"`
	Text string `json:"text"`
}

// TaskResponses holds the side-data extracted by a check's tasks, keyed in
// JSON by task name.
type TaskResponses struct {
	StoreAssociatedText []string `json:"store_associated_text,omitempty"`
	StoreAssociatedLink []Link   `json:"store_associated_link,omitempty"`
}

// Empty reports whether no task produced output.
func (tr *TaskResponses) Empty() bool {
	return tr == nil || (len(tr.StoreAssociatedText) == 0 && len(tr.StoreAssociatedLink) == 0)
}

// Result is one timestamped outcome of evaluating a check. Records are
// appended to a store and never mutated.
//
// An error record has Error=true, a non-empty ErrorMessage, Match=false and
// no TaskResponses.
type Result struct {
	Check         string         `json:"check"`
	Match         bool           `json:"match"`
	Error         bool           `json:"error"`
	ErrorMessage  string         `json:"error_message,omitempty"`
	Completed     Timestamp      `json:"completed"`
	TaskResponses *TaskResponses `json:"task_responses,omitempty"`
}

// NewErrorResult builds an error record for checkID.
func NewErrorResult(checkID string, err error, at time.Time) Result {
	msg := "unknown error"
	if err != nil && err.Error() != "" {
		msg = err.Error()
	}
	return Result{
		Check:        checkID,
		Error:        true,
		ErrorMessage: msg,
		Completed:    Timestamp{at},
	}
}

// Timestamp is an ISO-8601 instant. It encodes as RFC 3339 with nanoseconds
// and also decodes the zone-less form ("2024-05-01T10:00:00.123456") found
// in logs written by older tooling, interpreting it as local time.
type Timestamp struct {
	time.Time
}

var zonelessLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Time.Format(time.RFC3339Nano))
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("timestamp: %w", err)
	}

	if parsed, err := time.Parse(time.RFC3339Nano, s); err == nil {
		t.Time = parsed
		return nil
	}
	for _, layout := range zonelessLayouts {
		if parsed, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("timestamp: unrecognized format %q", s)
}
