package views

import (
	"context"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/a-h/templ"
)

var (
	reOrdered = regexp.MustCompile(`^\d+\.\s+(.*)$`)
	// code span | [label](target) | **bold** | *italic*
	reInline = regexp.MustCompile("`([^`]+)`" +
		`|\[([^\]]+)\]\(([^)\s]+)\)` +
		`|\*\*(.+?)\*\*` +
		`|\*([^*\s](?:[^*]*[^*\s])?)\*`)
)

type blockKind int

const (
	blockNone blockKind = iota
	blockPara
	blockList
	blockOrdered
	blockQuote
)

// Content renders post text as a small Markdown subset: headings, bullet and
// numbered lists, block quotes, fenced code, rules, code spans, links, bold
// and italics. Plain text still comes out as paragraphs, with single newlines
// kept as line breaks. All text is escaped.
func Content(text string) templ.Component {
	return component(func(ctx context.Context, h *htmlWriter) {
		b := &blockWriter{h: h}
		inCode := false
		for _, line := range strings.Split(text, "\n") {
			line = strings.TrimRight(line, "\r")
			trimmed := strings.TrimSpace(line)

			if strings.HasPrefix(trimmed, "```") {
				if inCode {
					h.raw("</code></pre>\n")
				} else {
					b.close()
					h.raw("<pre><code>")
				}
				inCode = !inCode
				continue
			}
			if inCode {
				h.text(line)
				h.raw("\n")
				continue
			}

			level := headingLevel(trimmed)
			switch {
			case trimmed == "":
				b.close()
			case isRule(trimmed):
				b.close()
				h.raw("<hr>\n")
			case level > 0:
				b.close()
				// h1 belongs to the post title.
				tag := "h" + strconv.Itoa(min(level+1, 6))
				h.raw("<", tag, ">")
				h.inline(strings.TrimSpace(trimmed[level:]))
				h.raw("</", tag, ">\n")
			case strings.HasPrefix(trimmed, "- ") || strings.HasPrefix(trimmed, "* "):
				b.enter(blockList, "<ul>\n", "</ul>")
				b.item(trimmed[2:])
			case reOrdered.MatchString(trimmed):
				b.enter(blockOrdered, "<ol>\n", "</ol>")
				b.item(reOrdered.FindStringSubmatch(trimmed)[1])
			case strings.HasPrefix(trimmed, ">"):
				b.enter(blockQuote, "<blockquote>", "</blockquote>")
				b.line(strings.TrimPrefix(trimmed, ">"))
			default:
				b.enter(blockPara, "<p>", "</p>")
				b.line(trimmed)
			}
		}
		if inCode {
			h.raw("</code></pre>\n")
		}
		b.close()
	})
}

// blockWriter tracks the open block element while Content walks the lines.
type blockWriter struct {
	h     *htmlWriter
	kind  blockKind
	end   string
	lines int
}

func (b *blockWriter) enter(kind blockKind, start, end string) {
	if b.kind == kind {
		return
	}
	b.close()
	b.h.raw(start)
	b.kind, b.end = kind, end
}

func (b *blockWriter) close() {
	if b.kind == blockNone {
		return
	}
	b.h.raw(b.end, "\n")
	b.kind, b.end, b.lines = blockNone, "", 0
}

func (b *blockWriter) item(s string) {
	b.h.raw("<li>")
	b.h.inline(strings.TrimSpace(s))
	b.h.raw("</li>\n")
}

// line appends a line to a paragraph or quote, joined by <br>.
func (b *blockWriter) line(s string) {
	if b.lines > 0 {
		b.h.raw("<br>")
	}
	b.h.inline(strings.TrimSpace(s))
	b.lines++
}

func isRule(s string) bool {
	return len(s) >= 3 && strings.Trim(s, "-") == ""
}

// headingLevel returns 1-6 for "# " through "###### ", else 0.
func headingLevel(s string) int {
	n := 0
	for n < len(s) && n < 6 && s[n] == '#' {
		n++
	}
	if n == 0 || n >= len(s) || s[n] != ' ' {
		return 0
	}
	return n
}

// inline writes s with code spans, links, bold and italics.
func (h *htmlWriter) inline(s string) {
	for s != "" {
		m := reInline.FindStringSubmatchIndex(s)
		if m == nil {
			h.text(s)
			return
		}
		h.text(s[:m[0]])
		switch {
		case m[2] >= 0:
			h.raw("<code>")
			h.text(s[m[2]:m[3]])
			h.raw("</code>")
		case m[4] >= 0:
			label := s[m[4]:m[5]]
			if target := linkTarget(s[m[6]:m[7]]); target != "" {
				h.raw("<a")
				h.attr("href", target)
				if strings.Contains(target, "://") {
					h.raw(` rel="noopener noreferrer"`)
				}
				h.raw(">")
				h.inline(label)
				h.raw("</a>")
			} else {
				h.text(label)
			}
		case m[8] >= 0:
			h.raw("<strong>")
			h.inline(s[m[8]:m[9]])
			h.raw("</strong>")
		case m[10] >= 0:
			h.raw("<em>")
			h.text(s[m[10]:m[11]])
			h.raw("</em>")
		}
		s = s[m[1]:]
	}
}

// linkTarget returns raw if it is a site-relative path, a fragment or an
// http, https or mailto URL, and "" otherwise.
func linkTarget(raw string) string {
	if (strings.HasPrefix(raw, "/") && !strings.HasPrefix(raw, "//")) || strings.HasPrefix(raw, "#") {
		return raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https", "mailto":
		return raw
	}
	return ""
}
