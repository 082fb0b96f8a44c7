package utils_test

import (
	"testing"

	"github.com/raysh454/webcheck/internal/utils"
)

func TestNewURLTools_RequiresHost(t *testing.T) {
	t.Parallel()
	if _, err := utils.NewURLTools("/just/a/path"); err == nil {
		t.Fatal("expected error for url without host")
	}
	if _, err := utils.NewURLTools("http://exa mple.com"); err == nil {
		t.Fatal("expected error for unparsable url")
	}
}

func TestSiteKey(t *testing.T) {
	t.Parallel()
	cases := map[string]string{
		"example.com":        "example.com",
		"WWW.Example.com":    "example.com",
		"www.example.com:81": "example.com:81",
		"shop.example.com":   "shop.example.com",
		"bücher.de":          "xn--bcher-kva.de",
		"[::1]:8080":         "[::1]:8080",
	}
	for in, want := range cases {
		if got := utils.SiteKey(in); got != want {
			t.Errorf("SiteKey(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestURLTools_Absolutize(t *testing.T) {
	t.Parallel()

	page, err := utils.NewURLTools("http://example.com/x/y")
	if err != nil {
		t.Fatalf("NewURLTools: %v", err)
	}

	tests := []struct {
		href string
		want string
	}{
		{"/page", "http://example.com/page"},
		{"page", "http://example.com/x/page"},
		{"?q=1", "http://example.com/x/y?q=1"},
		{"http://example.com/same", "http://example.com/same"},
		{"https://www.example.com/a", "https://www.example.com/a"},
		{"https://other.org/a?b=1#c", "http://example.com/a?b=1#c"},
		{"//cdn.other.org/lib.js", "http://example.com/lib.js"},
		{"//www.example.com/a", "http://www.example.com/a"},
		{"//example.com/b?x=1", "http://example.com/b?x=1"},
		{"mailto:shop@example.com", "mailto:shop@example.com"},
	}

	for _, tt := range tests {
		got, err := page.Absolutize(tt.href)
		if err != nil {
			t.Errorf("Absolutize(%q) error: %v", tt.href, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Absolutize(%q) = %q, want %q", tt.href, got, tt.want)
		}
	}
}

func TestURLTools_Absolutize_WWWPage(t *testing.T) {
	t.Parallel()

	page, _ := utils.NewURLTools("https://www.shop.test/item")
	got, err := page.Absolutize("https://shop.test/cart")
	if err != nil {
		t.Fatalf("Absolutize: %v", err)
	}
	if got != "https://shop.test/cart" {
		t.Errorf("expected link on bare host kept as-is, got %q", got)
	}
}
