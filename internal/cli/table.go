package cli

import (
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/raysh454/webcheck/internal/model"
)

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(w)
	return t
}

// renderResults prints one row per record.
func renderResults(w io.Writer, results []model.Result) {
	t := newTable(w)
	t.AppendHeader(table.Row{"Check", "Match", "Completed", "Details"})
	for _, r := range results {
		match := "no"
		if r.Match {
			match = "yes"
		}
		if r.Error {
			match = "error"
		}
		t.AppendRow(table.Row{r.Check, match, r.Completed.Format("2006-01-02 15:04:05"), details(r)})
	}
	t.AppendFooter(table.Row{"", "", "Total", len(results)})
	t.Render()
}

func details(r model.Result) string {
	if r.Error {
		return r.ErrorMessage
	}
	if r.TaskResponses.Empty() {
		return ""
	}
	var lines []string
	for _, s := range r.TaskResponses.StoreAssociatedText {
		lines = append(lines, strings.TrimSpace(s))
	}
	for _, l := range r.TaskResponses.StoreAssociatedLink {
		lines = append(lines, strings.TrimSpace(l.Text)+" -> "+l.Href)
	}
	return strings.Join(lines, "\n")
}

func renderChecks(w io.Writer, checks []model.Check) {
	t := newTable(w)
	t.AppendHeader(table.Row{"ID", "URL", "Operator", "Value", "Scope", "Tasks"})
	for _, c := range checks {
		tasks := make([]string, len(c.Tasks))
		for i, task := range c.Tasks {
			tasks[i] = string(task)
		}
		t.AppendRow(table.Row{c.ID, c.URL, string(c.Operator), c.Value, c.Scope, strings.Join(tasks, ", ")})
	}
	t.Render()
}
