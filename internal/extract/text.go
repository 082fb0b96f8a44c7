package extract

import (
	"regexp"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// CompilePattern compiles a check value for text-node search. Pages are
// lowercased before parsing, so the pattern is matched case-insensitively.
func CompilePattern(value string) (*regexp.Regexp, error) {
	return regexp.Compile("(?i)" + value)
}

// FindTextNodes returns, in document order, every text node below scope
// whose content contains a match for re.
func FindTextNodes(scope *goquery.Selection, re *regexp.Regexp) []*html.Node {
	var out []*html.Node

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode && re.MatchString(n.Data) {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	for _, root := range scope.Nodes {
		for c := root.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	return out
}
