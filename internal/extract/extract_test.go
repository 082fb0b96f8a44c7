package extract_test

import (
	"regexp"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/go-cmp/cmp"
	"github.com/raysh454/webcheck/internal/extract"
	"github.com/raysh454/webcheck/internal/model"
	"github.com/raysh454/webcheck/internal/testutil"
	"github.com/raysh454/webcheck/internal/utils"
)

func lowerDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(strings.ToLower(html)))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return doc
}

func mustPattern(t *testing.T, v string) *regexp.Regexp {
	t.Helper()
	re, err := extract.CompilePattern(v)
	if err != nil {
		t.Fatalf("CompilePattern(%q): %v", v, err)
	}
	return re
}

func mustPage(t *testing.T, raw string) *utils.URLTools {
	t.Helper()
	u, err := utils.NewURLTools(raw)
	if err != nil {
		t.Fatalf("NewURLTools: %v", err)
	}
	return u
}

// ─── Text nodes ────────────────────────────────────────────────────────

func TestFindTextNodes_DocumentOrderAndScope(t *testing.T) {
	t.Parallel()
	doc := lowerDoc(t, `<p>Buy now</p><div id="s"><span>buy NOW cheap</span><i>nothing</i></div>`)

	all := extract.FindTextNodes(doc.Selection, mustPattern(t, "Buy now"))
	if len(all) != 2 {
		t.Fatalf("expected 2 nodes in document, got %d", len(all))
	}
	if all[0].Data != "buy now" || all[1].Data != "buy now cheap" {
		t.Errorf("unexpected order/content: %q, %q", all[0].Data, all[1].Data)
	}

	scoped := extract.FindTextNodes(doc.Find("#s"), mustPattern(t, "buy now"))
	if len(scoped) != 1 {
		t.Fatalf("expected 1 node in scope, got %d", len(scoped))
	}
}

func TestStoreAssociatedText(t *testing.T) {
	t.Parallel()
	doc := lowerDoc(t, `<ul><li>Price: 10 EUR</li><li>Shipping</li><li>Price: 12 EUR</li></ul>`)

	got := extract.StoreAssociatedText(doc.Selection, mustPattern(t, `price: \d+`))
	want := []string{"price: 10 eur", "price: 12 eur"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("StoreAssociatedText mismatch (-want +got):\n%s", diff)
	}

	if none := extract.StoreAssociatedText(doc.Selection, mustPattern(t, "discount")); none != nil {
		t.Errorf("expected nil for no matches, got %v", none)
	}
}

// ─── Links ─────────────────────────────────────────────────────────────

func TestStoreAssociatedLink_WalksUpToNearestAnchor(t *testing.T) {
	t.Parallel()
	doc := lowerDoc(t, `
		<div class="card">
			<h3>Blue Widget</h3>
			<p><span>In stock</span></p>
			<a href="/widgets/blue">View Blue</a>
		</div>
		<div class="card">
			<h3>Red Widget</h3>
			<a href="http://shop.test/widgets/red">View <b>Red</b></a>
			<p>In stock</p>
		</div>`)

	r := extract.NewRunner(&testutil.DummyLogger{})
	got := r.StoreAssociatedLink(doc.Selection, mustPattern(t, "in stock"), mustPage(t, "http://shop.test/catalog"))

	want := []model.Link{
		{Href: "http://shop.test/widgets/blue", Text: "view blue"},
		{Href: "http://shop.test/widgets/red", Text: "view red"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("links mismatch (-want +got):\n%s", diff)
	}
}

func TestStoreAssociatedLink_TextInsideAnchor(t *testing.T) {
	t.Parallel()
	doc := lowerDoc(t, `<nav><a href="/checkout">Buy now</a></nav>`)

	r := extract.NewRunner(nil)
	got := r.StoreAssociatedLink(doc.Selection, mustPattern(t, "buy now"), mustPage(t, "http://example.com/x"))
	want := []model.Link{{Href: "http://example.com/checkout", Text: "buy now"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("links mismatch (-want +got):\n%s", diff)
	}
}

func TestStoreAssociatedLink_NoAnchorAnywhere(t *testing.T) {
	t.Parallel()
	doc := lowerDoc(t, `<p>Buy now</p><a name="top">anchor without href</a>`)

	r := extract.NewRunner(nil)
	got := r.StoreAssociatedLink(doc.Selection, mustPattern(t, "buy now"), mustPage(t, "http://example.com/"))
	if len(got) != 0 {
		t.Errorf("expected no links, got %v", got)
	}
}

func TestStoreAssociatedLink_WalksAboveScope(t *testing.T) {
	t.Parallel()
	doc := lowerDoc(t, `<section><a href="/deal">Deal</a><div id="scope"><p>Buy now</p></div></section>`)

	r := extract.NewRunner(nil)
	got := r.StoreAssociatedLink(doc.Find("#scope").First(), mustPattern(t, "buy now"), mustPage(t, "http://example.com/"))
	want := []model.Link{{Href: "http://example.com/deal", Text: "deal"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("links mismatch (-want +got):\n%s", diff)
	}
}

func TestStoreAssociatedLink_ForeignHostRewritten(t *testing.T) {
	t.Parallel()
	doc := lowerDoc(t, `<p>Buy now <a href="https://tracker.example.net/go?id=7">here</a></p>`)

	r := extract.NewRunner(nil)
	got := r.StoreAssociatedLink(doc.Selection, mustPattern(t, "buy now"), mustPage(t, "https://www.shop.test/item"))
	want := []model.Link{{Href: "https://www.shop.test/go?id=7", Text: "here"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("links mismatch (-want +got):\n%s", diff)
	}
}

func TestStoreAssociatedLink_SchemeRelativeSameSite(t *testing.T) {
	t.Parallel()
	doc := lowerDoc(t, `<p>Checkout <a href="//shop.test/cart">cart</a></p>`)

	r := extract.NewRunner(nil)
	got := r.StoreAssociatedLink(doc.Selection, mustPattern(t, "checkout"), mustPage(t, "https://shop.test/item"))
	want := []model.Link{{Href: "https://shop.test/cart", Text: "cart"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("links mismatch (-want +got):\n%s", diff)
	}
}

// ─── Runner ────────────────────────────────────────────────────────────

func TestRunner_Run_SkipsUnknownTasks(t *testing.T) {
	t.Parallel()
	doc := lowerDoc(t, `<p>Buy now</p><a href="/checkout">Checkout</a>`)

	logger := &testutil.DummyLogger{}
	r := extract.NewRunner(logger)
	check := model.Check{
		ID:    "c",
		URL:   "http://example.com/x",
		Value: "buy now",
		Tasks: []model.Task{"store_everything", model.TaskStoreAssociatedText},
	}

	resp, err := r.Run(check, doc.Selection)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if resp == nil || len(resp.StoreAssociatedText) != 1 {
		t.Fatalf("expected one text response, got %+v", resp)
	}
	if len(logger.Debugs) == 0 {
		t.Error("expected skipped task to be logged")
	}
}

func TestRunner_Run_NilWhenNothingFound(t *testing.T) {
	t.Parallel()
	doc := lowerDoc(t, `<p>Nothing to see</p>`)

	r := extract.NewRunner(nil)
	check := model.Check{
		ID:    "c",
		URL:   "http://example.com/x",
		Value: "buy now",
		Tasks: []model.Task{model.TaskStoreAssociatedText, model.TaskStoreAssociatedLink},
	}

	resp, err := r.Run(check, doc.Selection)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if resp != nil {
		t.Errorf("expected nil responses, got %+v", resp)
	}
}

func TestRunner_Run_InvalidPattern(t *testing.T) {
	t.Parallel()
	doc := lowerDoc(t, `<p>x</p>`)

	r := extract.NewRunner(nil)
	check := model.Check{ID: "c", URL: "http://example.com", Value: "(", Tasks: []model.Task{model.TaskStoreAssociatedText}}
	if _, err := r.Run(check, doc.Selection); err == nil {
		t.Fatal("expected error for invalid pattern")
	}
}

// ─── Dedupe ────────────────────────────────────────────────────────────

func TestDedupeLinks(t *testing.T) {
	t.Parallel()
	in := []model.Link{
		{Href: "http://a/1", Text: ""},
		{Href: "http://a/1", Text: "one"},
		{Href: "http://a/2", Text: "two"},
		{Href: "http://a/1", Text: "one again"},
		{Href: "http://a/3", Text: ""},
		{Href: "http://a/2", Text: "two again"},
	}
	want := []model.Link{
		{Href: "http://a/1", Text: "one"},
		{Href: "http://a/2", Text: "two"},
	}

	got := extract.DedupeLinks(in)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("DedupeLinks mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(got, extract.DedupeLinks(got)); diff != "" {
		t.Errorf("DedupeLinks is not idempotent:\n%s", diff)
	}
	if extract.DedupeLinks(nil) != nil {
		t.Error("expected nil for nil input")
	}
}
