package views

import (
	"context"
	"strconv"
	"time"

	"github.com/a-h/templ"

	"github.com/eringen/folio"
)

var navLinks = []struct{ Path, Label string }{
	{"/home", "Home"},
	{"/projects", "Projects"},
	{"/about", "About"},
	{"/contact", "Contact"},
	{"/blog", "Blog"},
}

// layout wraps body in the shared page chrome. jsonLD may be empty.
func layout(site folio.Site, jsonLD string, body func(ctx context.Context, h *htmlWriter)) templ.Component {
	return component(func(ctx context.Context, h *htmlWriter) {
		title := site.Config.Name
		if site.Meta.Title != "" && site.Meta.Title != site.Config.Name {
			title = site.Meta.Title + " | " + site.Config.Name
		}
		h.raw("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n<meta charset=\"utf-8\">\n")
		h.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`, "\n")
		h.raw("<title>")
		h.text(title)
		h.raw("</title>\n")
		if site.Meta.Description != "" {
			h.raw(`<meta name="description"`)
			h.attr("content", site.Meta.Description)
			h.raw(">\n")
		}
		if site.Meta.URL != "" {
			h.raw(`<link rel="canonical"`)
			h.href(site.Meta.URL)
			h.raw(">\n")
		}
		h.raw(`<link rel="stylesheet" href="/static/site.css">`, "\n")
		h.raw(`<link rel="alternate" type="application/rss+xml" title="RSS" href="/feed.xml">`, "\n")
		if jsonLD != "" {
			h.jsonLD(jsonLD)
		}
		h.raw("</head>\n<body>\n<header><nav>")
		for _, l := range navLinks {
			h.raw("<a")
			h.href(l.Path)
			h.raw(">")
			h.text(l.Label)
			h.raw("</a>")
		}
		if site.Admin {
			h.raw(`<a href="/admin">Admin</a><a href="/logout">Logout</a>`)
		}
		h.raw("</nav></header>\n<main>\n")
		body(ctx, h)
		h.raw("</main>\n<footer>&copy; ", strconv.Itoa(time.Now().Year()), " ")
		if site.Config.Author != "" {
			h.text(site.Config.Author)
		} else {
			h.text(site.Config.Name)
		}
		h.raw("</footer>\n</body>\n</html>\n")
	})
}

func postCard(h *htmlWriter, p folio.BlogPost, admin bool) {
	h.raw(`<article class="post-card"><h2><a`)
	h.href(p.Link())
	h.raw(">")
	h.text(p.Title)
	h.raw("</a></h2>")
	h.raw(`<p class="meta">`)
	h.text(folio.FormatDate(p.CreatedAt))
	if admin && !p.Published {
		h.raw(` <span class="draft">Draft</span>`)
	}
	h.raw("</p>")
	if summary := p.Summary(); summary != "" {
		h.raw("<p>")
		h.text(summary)
		h.raw("</p>")
	}
	h.raw("</article>\n")
}

func flash(h *htmlWriter, msg string, isError bool) {
	if msg == "" {
		return
	}
	if isError {
		h.raw(`<p class="flash error" role="alert">`)
	} else {
		h.raw(`<p class="flash">`)
	}
	h.text(msg)
	h.raw("</p>\n")
}
