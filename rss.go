package folio

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

type rssXML struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title         string    `xml:"title"`
	Link          string    `xml:"link"`
	Description   string    `xml:"description"`
	LastBuildDate string    `xml:"lastBuildDate,omitempty"`
	Items         []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string        `xml:"title"`
	Link        string        `xml:"link"`
	Description string        `xml:"description"`
	PubDate     string        `xml:"pubDate"`
	GUID        string        `xml:"guid"`
	Enclosure   *rssEnclosure `xml:"enclosure,omitempty"`
}

type rssEnclosure struct {
	URL  string `xml:"url,attr"`
	Type string `xml:"type,attr"`
}

// imageTypes maps allowed upload extensions to MIME types for feed enclosures.
var imageTypes = map[string]string{
	"png":  "image/png",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"gif":  "image/gif",
	"webp": "image/webp",
}

func (a *App) renderRSS(c echo.Context, posts []BlogPost) error {
	base := a.Config.URL
	items := make([]rssItem, 0, len(posts))
	var lastBuild time.Time
	for _, p := range posts {
		postURL := BuildURL(base, p.Link())
		item := rssItem{
			Title:       p.Title,
			Link:        postURL,
			Description: p.Summary(),
			PubDate:     p.CreatedAt.Format(time.RFC1123Z),
			GUID:        postURL,
		}
		if p.ImageFilename != "" {
			item.Enclosure = &rssEnclosure{
				URL:  BuildURL(base, "uploads", p.ImageFilename),
				Type: imageTypes[extension(p.ImageFilename)],
			}
		}
		if p.UpdatedAt.After(lastBuild) {
			lastBuild = p.UpdatedAt
		}
		items = append(items, item)
	}
	channel := rssChannel{
		Title:       a.Config.Name,
		Link:        base,
		Description: a.Config.Description,
		Items:       items,
	}
	if !lastBuild.IsZero() {
		channel.LastBuildDate = lastBuild.Format(time.RFC1123Z)
	}
	return writeXML(c, "application/rss+xml; charset=utf-8", rssXML{Version: "2.0", Channel: channel})
}

// writeXML encodes v as an XML document with a 200 status.
func writeXML(c echo.Context, contentType string, v any) error {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("folio: encode xml: %w", err)
	}
	return c.Blob(http.StatusOK, contentType, buf.Bytes())
}
