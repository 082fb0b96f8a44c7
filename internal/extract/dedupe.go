package extract

import "github.com/raysh454/webcheck/internal/model"

// DedupeLinks keeps the first link seen for each href and drops links with
// empty text. Order is preserved and the operation is idempotent.
func DedupeLinks(links []model.Link) []model.Link {
	if links == nil {
		return nil
	}

	seen := make(map[string]struct{}, len(links))
	out := make([]model.Link, 0, len(links))
	for _, l := range links {
		if l.Text == "" {
			continue
		}
		if _, ok := seen[l.Href]; ok {
			continue
		}
		seen[l.Href] = struct{}{}
		out = append(out, l)
	}
	return out
}
