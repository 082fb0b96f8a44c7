package history

import (
	"strings"

	"github.com/raysh454/webcheck/internal/model"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// Chunk is one change in a TextDiff.
type Chunk struct {
	Type    string `json:"type"` // "added" or "removed"
	Content string `json:"content"`
}

// Diff compares the extracted task output of two records of the same check.
type Diff struct {
	Check   string          `json:"check"`
	Base    model.Timestamp `json:"base"`
	Head    model.Timestamp `json:"head"`
	Changed bool            `json:"changed"`
	Chunks  []Chunk         `json:"chunks"`
}

// TextDiff diffs the task output of base and head, rendered one entry per
// line: text snippets first, then links as "href text".
func TextDiff(base, head model.Result) Diff {
	dmp := diffmatchpatch.New()

	diffs := dmp.DiffMain(Render(base.TaskResponses), Render(head.TaskResponses), false)
	diffs = dmp.DiffCleanupSemantic(diffs)

	chunks := make([]Chunk, 0)
	for _, d := range diffs {
		var chunkType string
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			chunkType = "added"
		case diffmatchpatch.DiffDelete:
			chunkType = "removed"
		default:
			continue
		}
		if strings.TrimSpace(d.Text) == "" {
			continue
		}
		chunks = append(chunks, Chunk{Type: chunkType, Content: d.Text})
	}

	return Diff{
		Check:   head.Check,
		Base:    base.Completed,
		Head:    head.Completed,
		Changed: len(chunks) > 0,
		Chunks:  chunks,
	}
}

// Render flattens task responses into newline-separated text.
func Render(tr *model.TaskResponses) string {
	if tr.Empty() {
		return ""
	}
	var b strings.Builder
	for _, s := range tr.StoreAssociatedText {
		b.WriteString(strings.TrimSpace(s))
		b.WriteByte('\n')
	}
	for _, l := range tr.StoreAssociatedLink {
		b.WriteString(l.Href)
		b.WriteByte(' ')
		b.WriteString(strings.TrimSpace(l.Text))
		b.WriteByte('\n')
	}
	return b.String()
}
