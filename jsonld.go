package folio

import (
	"encoding/json"
	"time"
)

type ldThing struct {
	Type string `json:"@type"`
	Name string `json:"name,omitempty"`
	ID   string `json:"@id,omitempty"`
}

type ldWebSite struct {
	Context     string   `json:"@context"`
	Type        string   `json:"@type"`
	Name        string   `json:"name"`
	URL         string   `json:"url"`
	Description string   `json:"description,omitempty"`
	Author      *ldThing `json:"author,omitempty"`
}

type ldBlogPosting struct {
	Context          string   `json:"@context"`
	Type             string   `json:"@type"`
	Headline         string   `json:"headline"`
	Description      string   `json:"description,omitempty"`
	DatePublished    string   `json:"datePublished,omitempty"`
	DateModified     string   `json:"dateModified,omitempty"`
	URL              string   `json:"url"`
	MainEntityOfPage ldThing  `json:"mainEntityOfPage"`
	Image            string   `json:"image,omitempty"`
	Author           *ldThing `json:"author,omitempty"`
	Publisher        *ldThing `json:"publisher,omitempty"`
}

func ldPerson(name string) *ldThing {
	if name == "" {
		return nil
	}
	return &ldThing{Type: "Person", Name: name}
}

func ldDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

func marshalLD(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// WebsiteJsonLD returns schema.org WebSite markup for the landing page.
func WebsiteJsonLD(cfg SiteConfig) string {
	return marshalLD(ldWebSite{
		Context:     "https://schema.org",
		Type:        "WebSite",
		Name:        cfg.Name,
		URL:         BuildURL(cfg.URL),
		Description: cfg.Description,
		Author:      ldPerson(cfg.Author),
	})
}

// BlogPostingJsonLD returns schema.org BlogPosting markup for a post page.
func BlogPostingJsonLD(post BlogPost, cfg SiteConfig) string {
	postURL := BuildURL(cfg.URL, post.Link())
	ld := ldBlogPosting{
		Context:          "https://schema.org",
		Type:             "BlogPosting",
		Headline:         post.Title,
		Description:      post.Summary(),
		DatePublished:    ldDate(post.CreatedAt),
		DateModified:     ldDate(post.UpdatedAt),
		URL:              postURL,
		MainEntityOfPage: ldThing{Type: "WebPage", ID: postURL},
		Author:           ldPerson(cfg.Author),
	}
	if post.ImageFilename != "" {
		ld.Image = BuildURL(cfg.URL, "uploads", post.ImageFilename)
	}
	if cfg.Name != "" {
		ld.Publisher = &ldThing{Type: "Organization", Name: cfg.Name}
	}
	return marshalLD(ld)
}
