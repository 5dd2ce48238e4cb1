package folio

import (
	"encoding/xml"

	"github.com/labstack/echo/v4"
)

const sitemapNS = "http://www.sitemaps.org/schemas/sitemap/0.9"

type urlSet struct {
	XMLName xml.Name   `xml:"urlset"`
	NS      string     `xml:"xmlns,attr"`
	Entries []urlEntry `xml:"url"`
}

type urlEntry struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// staticPages are listed in the sitemap ahead of the posts.
var staticPages = []string{"/", "/home", "/projects", "/about", "/contact", "/blog"}

func (a *App) renderSitemap(c echo.Context, posts []BlogPost) error {
	set := urlSet{NS: sitemapNS, Entries: make([]urlEntry, 0, len(staticPages)+len(posts))}
	for _, page := range staticPages {
		set.Entries = append(set.Entries, urlEntry{Loc: BuildURL(a.Config.URL, page)})
	}
	for _, p := range posts {
		set.Entries = append(set.Entries, urlEntry{
			Loc:     BuildURL(a.Config.URL, p.Link()),
			LastMod: p.UpdatedAt.Format("2006-01-02"),
		})
	}
	return writeXML(c, "application/xml; charset=utf-8", set)
}
