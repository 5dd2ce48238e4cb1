package views

import (
	"context"
	"net/http"
	"strconv"

	"github.com/a-h/templ"

	"github.com/eringen/folio"
)

// Funcs returns the default views wired into folio.ViewFuncs.
func Funcs() folio.ViewFuncs {
	return folio.ViewFuncs{
		Index:          Index,
		Home:           Home,
		Projects:       Projects,
		About:          About,
		Contact:        Contact,
		Blog:           Blog,
		Post:           Post,
		Login:          Login,
		AdminDashboard: AdminDashboard,
		PostForm:       PostForm,
		NotFound:       NotFound,
		ClientError:    ClientError,
		ServerError:    ServerError,
	}
}

// Index is the landing page.
func Index(site folio.Site) templ.Component {
	return layout(site, folio.WebsiteJsonLD(site.Config), func(ctx context.Context, h *htmlWriter) {
		h.raw("<h1>")
		h.text(site.Config.Name)
		h.raw("</h1>\n")
		if site.Config.Description != "" {
			h.raw("<p>")
			h.text(site.Config.Description)
			h.raw("</p>\n")
		}
		h.raw(`<p><a href="/home">Enter</a></p>`, "\n")
	})
}

// Home lists the most recent published posts.
func Home(site folio.Site, recent []folio.BlogPost) templ.Component {
	return layout(site, "", func(ctx context.Context, h *htmlWriter) {
		h.raw("<h1>")
		h.text(site.Config.Name)
		h.raw("</h1>\n")
		if site.Config.Description != "" {
			h.raw("<p>")
			h.text(site.Config.Description)
			h.raw("</p>\n")
		}
		h.raw("<h2>Latest posts</h2>\n")
		if len(recent) == 0 {
			h.raw("<p>Nothing published yet.</p>\n")
			return
		}
		for _, p := range recent {
			postCard(h, p, false)
		}
		h.raw(`<p><a href="/blog">All posts</a></p>`, "\n")
	})
}

// Projects lists the projects from the site config.
func Projects(site folio.Site) templ.Component {
	return layout(site, "", func(ctx context.Context, h *htmlWriter) {
		h.raw("<h1>Projects</h1>\n")
		if len(site.Config.Projects) == 0 {
			h.raw("<p>No projects listed yet.</p>\n")
			return
		}
		for _, p := range site.Config.Projects {
			h.raw(`<article class="post-card"><h2>`)
			if p.URL != "" {
				h.raw("<a")
				h.href(p.URL)
				h.raw(">")
				h.text(p.Title)
				h.raw("</a>")
			} else {
				h.text(p.Title)
			}
			h.raw("</h2><p>")
			h.text(p.Description)
			h.raw("</p></article>\n")
		}
	})
}

// About shows the author and site description.
func About(site folio.Site) templ.Component {
	return layout(site, "", func(ctx context.Context, h *htmlWriter) {
		h.raw("<h1>About</h1>\n")
		if site.Config.Author != "" {
			h.raw("<p>Hi, I'm ")
			h.text(site.Config.Author)
			h.raw(".</p>\n")
		}
		if site.Config.Description != "" {
			h.raw("<p>")
			h.text(site.Config.Description)
			h.raw("</p>\n")
		}
	})
}

// Contact shows the contact address.
func Contact(site folio.Site) templ.Component {
	return layout(site, "", func(ctx context.Context, h *htmlWriter) {
		h.raw("<h1>Contact</h1>\n")
		if site.Config.ContactEmail == "" {
			h.raw("<p>No contact details yet.</p>\n")
			return
		}
		h.raw("<p>Email: <a")
		h.href("mailto:" + site.Config.ContactEmail)
		h.raw(">")
		h.text(site.Config.ContactEmail)
		h.raw("</a></p>\n")
	})
}

// Blog lists published posts.
func Blog(site folio.Site, posts []folio.BlogPost) templ.Component {
	return layout(site, "", func(ctx context.Context, h *htmlWriter) {
		h.raw("<h1>Blog</h1>\n")
		if len(posts) == 0 {
			h.raw("<p>No posts yet.</p>\n")
			return
		}
		for _, p := range posts {
			postCard(h, p, false)
		}
	})
}

// Post renders a single post.
func Post(site folio.Site, post folio.BlogPost) templ.Component {
	return layout(site, folio.BlogPostingJsonLD(post, site.Config), func(ctx context.Context, h *htmlWriter) {
		h.raw("<article>\n<h1>")
		h.text(post.Title)
		h.raw("</h1>\n")
		h.raw(`<p class="meta">`)
		h.text(folio.FormatDate(post.CreatedAt))
		if !post.UpdatedAt.Equal(post.CreatedAt) {
			h.raw(" &middot; updated ")
			h.text(folio.FormatDate(post.UpdatedAt))
		}
		if !post.Published {
			h.raw(` <span class="draft">Draft</span>`)
		}
		h.raw("</p>\n")
		if url := post.ImageURL(); url != "" {
			h.raw(`<img class="post-image"`)
			h.attr("src", url)
			h.attr("alt", post.Title)
			h.raw(">\n")
		}
		h.component(ctx, Content(post.Content))
		h.raw("</article>\n")
		if site.Admin {
			h.raw("<p><a")
			h.href("/admin/blog/" + strconv.FormatInt(post.ID, 10) + "/edit")
			h.raw(">Edit</a></p>\n")
		}
	})
}

// Login is the administrator login form.
func Login(site folio.Site, errMsg string) templ.Component {
	return layout(site, "", func(ctx context.Context, h *htmlWriter) {
		h.raw("<h1>Login</h1>\n")
		flash(h, errMsg, true)
		h.raw(`<form method="post" action="/login">`, "\n")
		h.raw(`<label for="username">Username</label><input type="text" id="username" name="username" required autofocus>`, "\n")
		h.raw(`<label for="password">Password</label><input type="password" id="password" name="password" required>`, "\n")
		h.raw(`<p><button type="submit">Log in</button></p>`, "\n</form>\n")
	})
}

// AdminDashboard lists every post with edit and delete actions.
func AdminDashboard(site folio.Site, posts []folio.BlogPost, message string) templ.Component {
	return layout(site, "", func(ctx context.Context, h *htmlWriter) {
		h.raw("<h1>Dashboard</h1>\n")
		flash(h, message, false)
		h.raw(`<p><a href="/admin/blog/new">New post</a></p>`, "\n")
		if len(posts) == 0 {
			h.raw("<p>No posts yet.</p>\n")
			return
		}
		h.raw("<table>\n<thead><tr><th>Title</th><th>Status</th><th>Created</th><th></th></tr></thead>\n<tbody>\n")
		for _, p := range posts {
			id := strconv.FormatInt(p.ID, 10)
			h.raw("<tr><td><a")
			h.href(p.Link())
			h.raw(">")
			h.text(p.Title)
			h.raw("</a></td><td>")
			if p.Published {
				h.raw("Published")
			} else {
				h.raw(`<span class="draft">Draft</span>`)
			}
			h.raw("</td><td>")
			h.text(folio.FormatDate(p.CreatedAt))
			h.raw("</td><td><a")
			h.href("/admin/blog/" + id + "/edit")
			h.raw(">Edit</a> <form method=\"post\"")
			h.attr("action", "/admin/blog/"+id+"/delete")
			h.raw(` class="inline"><button type="submit">Delete</button></form></td></tr>`, "\n")
		}
		h.raw("</tbody>\n</table>\n")
	})
}

// PostForm is the new/edit post form.
func PostForm(site folio.Site, post folio.BlogPost, isNew bool, errMsg string) templ.Component {
	return layout(site, "", func(ctx context.Context, h *htmlWriter) {
		action := "/admin/blog/new"
		if isNew {
			h.raw("<h1>New post</h1>\n")
		} else {
			action = "/admin/blog/" + strconv.FormatInt(post.ID, 10) + "/edit"
			h.raw("<h1>Edit post</h1>\n")
		}
		flash(h, errMsg, true)
		h.raw(`<form method="post" enctype="multipart/form-data"`)
		h.attr("action", action)
		h.raw(">\n")
		h.raw(`<label for="title">Title</label><input type="text" id="title" name="title" maxlength="200" required`)
		h.attr("value", post.Title)
		h.raw(">\n")
		h.raw(`<label for="excerpt">Excerpt</label><input type="text" id="excerpt" name="excerpt" maxlength="300"`)
		h.attr("value", post.Excerpt)
		h.raw(">\n")
		h.raw(`<label for="content">Content</label><textarea id="content" name="content" required>`)
		h.text(post.Content)
		h.raw("</textarea>\n")
		if url := post.ImageURL(); url != "" {
			h.raw(`<p>Current image:</p><img class="post-image"`)
			h.attr("src", url)
			h.raw(` alt="">`, "\n")
		}
		h.raw(`<label for="image">Image</label><input type="file" id="image" name="image" accept=".png,.jpg,.jpeg,.gif,.webp">`, "\n")
		h.raw(`<label><input type="checkbox" name="published" value="1"`)
		if post.Published {
			h.raw(" checked")
		}
		h.raw("> Published</label>\n")
		h.raw(`<p><button type="submit">Save</button> <a href="/admin">Cancel</a></p>`, "\n</form>\n")
	})
}

// NotFound is the 404 page.
func NotFound(site folio.Site) templ.Component {
	return layout(site, "", func(ctx context.Context, h *htmlWriter) {
		h.raw("<h1>Page not found</h1>\n<p>The page you are looking for does not exist.</p>\n")
		h.raw(`<p><a href="/home">Back home</a></p>`, "\n")
	})
}

// ClientError is the page for request errors other than 404.
func ClientError(site folio.Site, code int, message string) templ.Component {
	return layout(site, "", func(ctx context.Context, h *htmlWriter) {
		h.raw("<h1>")
		h.text(strconv.Itoa(code) + " " + http.StatusText(code))
		h.raw("</h1>\n<p>")
		h.text(message)
		h.raw("</p>\n")
		h.raw(`<p><a href="/home">Back home</a></p>`, "\n")
	})
}

// ServerError is the 500 page.
func ServerError(site folio.Site) templ.Component {
	return layout(site, "", func(ctx context.Context, h *htmlWriter) {
		h.raw("<h1>Something went wrong</h1>\n<p>Please try again later.</p>\n")
	})
}
