// Package extract runs a check's auxiliary tasks: it locates text nodes
// matching the check's value and derives text snippets or nearby links.
package extract

import (
	"fmt"
	"regexp"

	"github.com/PuerkitoBio/goquery"
	"github.com/raysh454/webcheck/internal/logging"
	"github.com/raysh454/webcheck/internal/model"
	"github.com/raysh454/webcheck/internal/utils"
	"golang.org/x/net/html"
)

// Runner executes the tasks configured on a check.
type Runner struct {
	logger logging.Logger
}

func NewRunner(logger logging.Logger) *Runner {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Runner{logger: logger.With(logging.Field{Key: "component", Value: "extract"})}
}

// Run executes every task of check against scope, in configured order.
// Unknown task names are skipped. The returned responses are nil when no
// task produced output; link lists are returned as found, not deduplicated.
func (r *Runner) Run(check model.Check, scope *goquery.Selection) (*model.TaskResponses, error) {
	if len(check.Tasks) == 0 {
		return nil, nil
	}

	re, err := CompilePattern(check.Value)
	if err != nil {
		return nil, fmt.Errorf("compile task pattern: %w", err)
	}
	page, err := utils.NewURLTools(check.URL)
	if err != nil {
		return nil, fmt.Errorf("check url: %w", err)
	}

	resp := &model.TaskResponses{}
	for _, task := range check.Tasks {
		switch task {
		case model.TaskStoreAssociatedText:
			resp.StoreAssociatedText = append(resp.StoreAssociatedText, StoreAssociatedText(scope, re)...)
		case model.TaskStoreAssociatedLink:
			resp.StoreAssociatedLink = append(resp.StoreAssociatedLink, r.StoreAssociatedLink(scope, re, page)...)
		default:
			r.logger.Debug("skipping unknown task",
				logging.Field{Key: "check", Value: check.ID},
				logging.Field{Key: "task", Value: string(task)})
		}
	}

	if resp.Empty() {
		return nil, nil
	}
	return resp, nil
}

// StoreAssociatedText returns the content of every text node below scope
// matching re. The batch is all-or-nothing: if nothing matched, or any
// matched node is empty, nil is returned.
func StoreAssociatedText(scope *goquery.Selection, re *regexp.Regexp) []string {
	nodes := FindTextNodes(scope, re)
	if len(nodes) == 0 {
		return nil
	}

	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		if n.Data == "" {
			return nil
		}
		out = append(out, n.Data)
	}
	return out
}

// StoreAssociatedLink returns one link per text node below scope matching
// re: the first hyperlink found by walking up from the node's container.
// Matches with no hyperlink anywhere up to the document root are skipped.
func (r *Runner) StoreAssociatedLink(scope *goquery.Selection, re *regexp.Regexp, page *utils.URLTools) []model.Link {
	var out []model.Link

	for _, n := range FindTextNodes(scope, re) {
		a, found := nearestLink(n)
		if !found {
			continue
		}

		href, err := page.Absolutize(a.AttrOr("href", ""))
		if err != nil {
			r.logger.Warn("skipping unparsable link",
				logging.Field{Key: "href", Value: a.AttrOr("href", "")},
				logging.Field{Key: "error", Value: err.Error()})
			continue
		}

		out = append(out, model.Link{Href: href, Text: a.Text()})
	}
	return out
}

// nearestLink walks the parent chain of text, starting at its container
// element, and returns the first a[href] found below the first ancestor
// that has one. The walk ends at the document root.
func nearestLink(text *html.Node) (*goquery.Selection, bool) {
	var (
		link  *goquery.Selection
		found bool
	)

	for el := text.Parent; el != nil && !found; el = el.Parent {
		candidate := goquery.NewDocumentFromNode(el).Find("a[href]").First()
		if candidate.Length() > 0 {
			link, found = candidate, true
		}
	}
	return link, found
}
