// Package history derives change signals from stored result records: when a
// check started or stopped meeting its condition, and how the text its tasks
// extracted changed between two runs.
package history

import "github.com/raysh454/webcheck/internal/model"

// Transition marks a point where a check's match flipped between two
// consecutive successful evaluations.
type Transition struct {
	Check string          `json:"check"`
	From  bool            `json:"from"`
	To    bool            `json:"to"`
	Since model.Timestamp `json:"since"`
	At    model.Timestamp `json:"at"`
}

// Met reports whether the check started meeting its condition.
func (t Transition) Met() bool { return !t.From && t.To }

// Transitions scans records in storage order and returns every match flip,
// per check. Error records are ignored; they neither break nor create a
// transition.
func Transitions(records []model.Result) []Transition {
	last := make(map[string]model.Result)
	var out []Transition

	for _, r := range records {
		if r.Error {
			continue
		}
		prev, ok := last[r.Check]
		last[r.Check] = r
		if !ok || prev.Match == r.Match {
			continue
		}
		out = append(out, Transition{
			Check: r.Check,
			From:  prev.Match,
			To:    r.Match,
			Since: prev.Completed,
			At:    r.Completed,
		})
	}
	return out
}

// LatestSuccessful returns the two most recent non-error records of a
// check's history, newest last. ok is false when fewer than two exist.
func LatestSuccessful(records []model.Result) (base, head model.Result, ok bool) {
	found := 0
	for i := len(records) - 1; i >= 0 && found < 2; i-- {
		if records[i].Error {
			continue
		}
		if found == 0 {
			head = records[i]
		} else {
			base = records[i]
		}
		found++
	}
	return base, head, found == 2
}
