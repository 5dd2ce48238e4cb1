package folio

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestBuildURL(t *testing.T) {
	tests := []struct {
		base string
		segs []string
		want string
	}{
		{"https://example.com", nil, "https://example.com/"},
		{"https://example.com", []string{"/blog/3"}, "https://example.com/blog/3"},
		{"https://example.com/site", []string{"uploads", "a.png"}, "https://example.com/site/uploads/a.png"},
	}
	for _, tt := range tests {
		if got := BuildURL(tt.base, tt.segs...); got != tt.want {
			t.Errorf("BuildURL(%q, %v) = %q, want %q", tt.base, tt.segs, got, tt.want)
		}
	}
}

func TestParseID(t *testing.T) {
	tests := []struct {
		raw    string
		want   int64
		wantOK bool
	}{
		{"1", 1, true},
		{"42", 42, true},
		{"0", 0, false},
		{"-3", 0, false},
		{"abc", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got, ok := parseID(tt.raw)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("parseID(%q) = %d, %v, want %d, %v", tt.raw, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestSummary(t *testing.T) {
	p := BlogPost{Content: "body", Excerpt: "short"}
	if got := p.Summary(); got != "short" {
		t.Errorf("Summary = %q, want excerpt", got)
	}

	p = BlogPost{Content: strings.Repeat("é", maxExcerptLen+10)}
	got := p.Summary()
	if n := len([]rune(got)); n != maxExcerptLen {
		t.Errorf("Summary has %d runes, want %d", n, maxExcerptLen)
	}
	if !strings.HasSuffix(got, "…") {
		t.Errorf("Summary = %q, want ellipsis", got)
	}
}

func TestImageURL(t *testing.T) {
	if got := (BlogPost{}).ImageURL(); got != "" {
		t.Errorf("ImageURL = %q, want empty", got)
	}
	if got := (BlogPost{ImageFilename: "a b.png"}).ImageURL(); got != "/uploads/a%20b.png" {
		t.Errorf("ImageURL = %q", got)
	}
}

func TestBlogPostingJsonLD(t *testing.T) {
	post := BlogPost{
		ID:            7,
		Title:         "Hello",
		Content:       "World",
		ImageFilename: "x_cat.png",
		CreatedAt:     time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC),
		UpdatedAt:     time.Date(2024, 2, 2, 10, 0, 0, 0, time.UTC),
	}
	cfg := SiteConfig{Name: "Site", URL: "https://example.com", Author: "Ada"}

	var got map[string]any
	if err := json.Unmarshal([]byte(BlogPostingJsonLD(post, cfg)), &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	checks := map[string]string{
		"@type":         "BlogPosting",
		"headline":      "Hello",
		"url":           "https://example.com/blog/7",
		"image":         "https://example.com/uploads/x_cat.png",
		"datePublished": "2024-02-01T10:00:00Z",
		"description":   "World",
	}
	for k, want := range checks {
		if got[k] != want {
			t.Errorf("%s = %v, want %q", k, got[k], want)
		}
	}
	author, _ := got["author"].(map[string]any)
	if author["name"] != "Ada" {
		t.Errorf("author = %v", got["author"])
	}
}

func TestWebsiteJsonLDWithoutAuthor(t *testing.T) {
	out := WebsiteJsonLD(SiteConfig{Name: "Site", URL: "https://example.com"})
	if strings.Contains(out, "author") {
		t.Errorf("author should be omitted: %s", out)
	}
	if !strings.Contains(out, `"url":"https://example.com/"`) {
		t.Errorf("url missing: %s", out)
	}
}
