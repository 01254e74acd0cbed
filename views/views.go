// Package views provides a plain default implementation of
// folio.ViewFuncs so a site runs without any custom templates. Sites
// that want their own look supply their own ViewFuncs instead.
package views

import (
	"context"
	"fmt"
	"html"
	"io"
	"strings"
	"time"

	"github.com/a-h/templ"

	"github.com/eringen/folio"
	"github.com/eringen/folio/markdown"
)

// Default returns the built-in view set for the given site name.
func Default(siteName string) folio.ViewFuncs {
	return folio.ViewFuncs{
		Home:      func(p *folio.Profile, exps []folio.Experience, projects []folio.Project, siteURL string) templ.Component {
			return home(siteName, p, exps, projects)
		},
		BlogIndex: func(posts []folio.Post) templ.Component { return blogIndex(siteName, posts) },
		Post:      func(post folio.Post) templ.Component { return postPage(siteName, post) },

		AdminLogin:      func(errMsg, csrf string) templ.Component { return adminLogin(siteName, errMsg, csrf) },
		AdminProfile:    func(p *folio.Profile, msg, csrf string) templ.Component { return adminProfile(siteName, p, msg, csrf) },
		AdminExperience: func(entries []folio.Experience, editing *folio.Experience, msg, csrf string) templ.Component {
			return adminExperience(siteName, entries, editing, msg, csrf)
		},
		AdminProjects: func(projects []folio.Project, editing *folio.Project, msg, csrf string) templ.Component {
			return adminProjects(siteName, projects, editing, msg, csrf)
		},
		AdminPosts:    func(posts []folio.Post, msg, csrf string) templ.Component { return adminPosts(siteName, posts, msg, csrf) },
		AdminPostForm: func(post folio.Post, isNew, preview bool, msg, csrf string) templ.Component {
			return adminPostForm(siteName, post, isNew, preview, msg, csrf)
		},
		AdminImages: func(images []folio.Image, csrf string) templ.Component { return adminImages(siteName, images, csrf) },

		NotFound:    func() templ.Component { return errorPage(siteName, "404", "Page not found.") },
		ServerError: func() templ.Component { return errorPage(siteName, "500", "Something went wrong.") },
	}
}

func comp(fn func(w io.Writer) error) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return fn(w)
	})
}

func esc(s string) string { return html.EscapeString(s) }

func layout(w io.Writer, title string, body func(w io.Writer) error) error {
	fmt.Fprintf(w, `<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`+
		`<meta name="viewport" content="width=device-width, initial-scale=1">`+
		`<title>%s</title><link rel="stylesheet" href="/public/style.css"></head><body><main>`, esc(title))
	if err := body(w); err != nil {
		return err
	}
	_, err := io.WriteString(w, `</main></body></html>`)
	return err
}

func inlineMessage(w io.Writer, msg string) {
	if msg != "" {
		fmt.Fprintf(w, `<p class="message">%s</p>`, esc(msg))
	}
}

func tagList(tags []string) string {
	if len(tags) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(`<ul class="tags">`)
	for _, t := range tags {
		b.WriteString(`<li>` + esc(t) + `</li>`)
	}
	b.WriteString(`</ul>`)
	return b.String()
}

// --- public pages ---

func home(siteName string, p *folio.Profile, exps []folio.Experience, projects []folio.Project) templ.Component {
	return comp(func(w io.Writer) error {
		return layout(w, siteName, func(w io.Writer) error {
			if p != nil {
				fmt.Fprintf(w, `<section class="intro"><h1>%s</h1><p>%s</p>`, esc(p.Name), esc(p.Tagline))
				if p.AvatarURL != "" {
					fmt.Fprintf(w, `<img src="%s" alt="%s">`, esc(p.AvatarURL), esc(p.Name))
				}
				if err := markdown.Render(w, p.Bio); err != nil {
					return err
				}
				io.WriteString(w, `</section>`)
			}
			if len(exps) > 0 {
				io.WriteString(w, `<section class="experience"><h2>Experience</h2>`)
				for _, e := range exps {
					end := e.EndDate
					if end == "" {
						end = "present"
					}
					fmt.Fprintf(w, `<article><h3>%s · %s</h3><p class="dates">%s – %s</p>`,
						esc(e.Role), esc(e.Company), esc(e.StartDate), esc(end))
					if err := markdown.Render(w, e.Description); err != nil {
						return err
					}
					io.WriteString(w, tagList(e.Tags)+`</article>`)
				}
				io.WriteString(w, `</section>`)
			}
			if len(projects) > 0 {
				io.WriteString(w, `<section class="projects"><h2>Projects</h2>`)
				for _, pr := range projects {
					io.WriteString(w, `<article><h3>`)
					if pr.URL != "" {
						fmt.Fprintf(w, `<a href="%s">%s</a>`, esc(pr.URL), esc(pr.Title))
					} else {
						io.WriteString(w, esc(pr.Title))
					}
					io.WriteString(w, `</h3>`)
					if pr.ImageURL != "" {
						fmt.Fprintf(w, `<img src="%s" alt="%s">`, esc(pr.ImageURL), esc(pr.Title))
					}
					if err := markdown.Render(w, pr.Description); err != nil {
						return err
					}
					io.WriteString(w, tagList(pr.Tags)+`</article>`)
				}
				io.WriteString(w, `</section>`)
			}
			io.WriteString(w, `<nav><a href="/blog/">Blog</a></nav>`)
			return nil
		})
	})
}

func blogIndex(siteName string, posts []folio.Post) templ.Component {
	return comp(func(w io.Writer) error {
		return layout(w, siteName+" · Blog", func(w io.Writer) error {
			io.WriteString(w, `<h1>Blog</h1><ul class="posts">`)
			for _, p := range posts {
				date := ""
				if p.PublishedAt != nil {
					date = p.PublishedAt.Format("2006-01-02")
				}
				fmt.Fprintf(w, `<li><a href="/blog/%s/">%s</a> <time>%s</time><p>%s</p></li>`,
					esc(p.Slug), esc(p.Title), date, esc(p.Excerpt))
			}
			io.WriteString(w, `</ul><nav><a href="/">Home</a></nav>`)
			return nil
		})
	})
}

func postPage(siteName string, post folio.Post) templ.Component {
	return comp(func(w io.Writer) error {
		return layout(w, siteName+" · "+post.Title, func(w io.Writer) error {
			fmt.Fprintf(w, `<article><h1>%s</h1>`, esc(post.Title))
			if post.PublishedAt != nil {
				fmt.Fprintf(w, `<time>%s</time>`, post.PublishedAt.Format("January 2, 2006"))
			}
			if post.CoverImageURL != "" {
				fmt.Fprintf(w, `<img src="%s" alt="">`, esc(post.CoverImageURL))
			}
			if err := markdown.Render(w, post.Content); err != nil {
				return err
			}
			io.WriteString(w, tagList(post.Tags)+`</article><nav><a href="/blog/">Back</a></nav>`)
			return nil
		})
	})
}

func errorPage(siteName, code, text string) templ.Component {
	return comp(func(w io.Writer) error {
		return layout(w, siteName+" · "+code, func(w io.Writer) error {
			fmt.Fprintf(w, `<h1>%s</h1><p>%s</p><nav><a href="/">Home</a></nav>`, esc(code), esc(text))
			return nil
		})
	})
}

// --- admin pages ---

func csrfField(csrf string) string {
	return fmt.Sprintf(`<input type="hidden" name="_csrf" value="%s">`, esc(csrf))
}

func adminNav(w io.Writer) {
	io.WriteString(w, `<nav class="admin-nav">`+
		`<a href="/admin/profile/">Profile</a> `+
		`<a href="/admin/experience/">Experience</a> `+
		`<a href="/admin/projects/">Projects</a> `+
		`<a href="/admin/posts/">Posts</a> `+
		`<a href="/admin/images/">Images</a>`+
		`</nav>`)
}

func logoutForm(csrf string) string {
	return fmt.Sprintf(`<form method="post" action="/admin/logout/">%s<button>Sign out</button></form>`, csrfField(csrf))
}

func adminLogin(siteName, errMsg, csrf string) templ.Component {
	return comp(func(w io.Writer) error {
		return layout(w, siteName+" · Admin", func(w io.Writer) error {
			io.WriteString(w, `<h1>Sign in</h1>`)
			inlineMessage(w, errMsg)
			fmt.Fprintf(w, `<form method="post" action="/admin/login/">%s`+
				`<label>Email <input type="email" name="email" required></label>`+
				`<label>Password <input type="password" name="password" required></label>`+
				`<button>Sign in</button></form>`, csrfField(csrf))
			return nil
		})
	})
}

func adminProfile(siteName string, p *folio.Profile, msg, csrf string) templ.Component {
	return comp(func(w io.Writer) error {
		return layout(w, siteName+" · Profile", func(w io.Writer) error {
			adminNav(w)
			io.WriteString(w, `<h1>Profile</h1>`)
			inlineMessage(w, msg)
			var name, tagline, bio, avatar string
			if p != nil {
				name, tagline, bio, avatar = p.Name, p.Tagline, p.Bio, p.AvatarURL
			}
			fmt.Fprintf(w, `<form method="post" action="/admin/profile/">%s`+
				`<label>Name <input name="name" value="%s" required></label>`+
				`<label>Tagline <input name="tagline" value="%s"></label>`+
				`<label>Bio <textarea name="bio" rows="8">%s</textarea></label>`+
				`<label>Avatar URL <input name="avatar_url" value="%s"></label>`+
				`<button>Save</button></form>`,
				csrfField(csrf), esc(name), esc(tagline), esc(bio), esc(avatar))
			io.WriteString(w, logoutForm(csrf))
			return nil
		})
	})
}

func adminExperience(siteName string, entries []folio.Experience, editing *folio.Experience, msg, csrf string) templ.Component {
	return comp(func(w io.Writer) error {
		return layout(w, siteName+" · Experience", func(w io.Writer) error {
			adminNav(w)
			io.WriteString(w, `<h1>Experience</h1>`)
			inlineMessage(w, msg)
			io.WriteString(w, `<table><tr><th>Order</th><th>Company</th><th>Role</th><th></th></tr>`)
			for _, e := range entries {
				fmt.Fprintf(w, `<tr><td>%d</td><td>%s</td><td>%s</td>`+
					`<td><a href="/admin/experience/%s/">Edit</a>`+
					`<form method="post" action="/admin/experience/%s/delete/" onsubmit="return confirm('Delete this entry?')">%s`+
					`<input type="hidden" name="confirm" value="1"><button>Delete</button></form></td></tr>`,
					e.DisplayOrder, esc(e.Company), esc(e.Role), esc(e.ID), esc(e.ID), csrfField(csrf))
			}
			io.WriteString(w, `</table><p><a href="/admin/experience/?new=1">New entry</a></p>`)
			if editing != nil {
				e := editing
				fmt.Fprintf(w, `<form method="post" action="/admin/experience/save/">%s`+
					`<input type="hidden" name="id" value="%s">`+
					`<label>Company <input name="company" value="%s" required></label>`+
					`<label>Role <input name="role" value="%s" required></label>`+
					`<label>Start date <input name="start_date" value="%s" required placeholder="2024-01-01"></label>`+
					`<label>End date <input name="end_date" value="%s" placeholder="blank = ongoing"></label>`+
					`<label>Description <textarea name="description" rows="6">%s</textarea></label>`+
					`<label>Tags <input name="tags" value="%s"></label>`+
					`<label>Display order <input name="display_order" value="%d"></label>`+
					`<button>Save</button></form>`,
					csrfField(csrf), esc(e.ID), esc(e.Company), esc(e.Role), esc(e.StartDate), esc(e.EndDate),
					esc(e.Description), esc(strings.Join(e.Tags, ", ")), e.DisplayOrder)
			}
			io.WriteString(w, logoutForm(csrf))
			return nil
		})
	})
}

func adminProjects(siteName string, projects []folio.Project, editing *folio.Project, msg, csrf string) templ.Component {
	return comp(func(w io.Writer) error {
		return layout(w, siteName+" · Projects", func(w io.Writer) error {
			adminNav(w)
			io.WriteString(w, `<h1>Projects</h1>`)
			inlineMessage(w, msg)
			io.WriteString(w, `<table><tr><th>Order</th><th>Title</th><th>Status</th><th></th></tr>`)
			for _, p := range projects {
				fmt.Fprintf(w, `<tr><td>%d</td><td>%s</td><td>%s</td>`+
					`<td><a href="/admin/projects/%s/">Edit</a>`+
					`<form method="post" action="/admin/projects/%s/toggle/">%s<button>Toggle</button></form>`+
					`<form method="post" action="/admin/projects/%s/delete/" onsubmit="return confirm('Delete this project?')">%s`+
					`<input type="hidden" name="confirm" value="1"><button>Delete</button></form></td></tr>`,
					p.DisplayOrder, esc(p.Title), esc(string(p.Status)), esc(p.ID), esc(p.ID), csrfField(csrf), esc(p.ID), csrfField(csrf))
			}
			io.WriteString(w, `</table><p><a href="/admin/projects/?new=1">New project</a></p>`)
			if editing != nil {
				p := editing
				fmt.Fprintf(w, `<form method="post" action="/admin/projects/save/">%s`+
					`<input type="hidden" name="id" value="%s">`+
					`<label>Title <input name="title" value="%s" required></label>`+
					`<label>Description <textarea name="description" rows="6">%s</textarea></label>`+
					`<label>URL <input name="url" value="%s"></label>`+
					`<label>Image URL <input name="image_url" value="%s"></label>`+
					`<label>Tags <input name="tags" value="%s"></label>`+
					`<label>Display order <input name="display_order" value="%d"></label>`+
					`<label>Status <select name="status">%s</select></label>`+
					`<button>Save</button></form>`,
					csrfField(csrf), esc(p.ID), esc(p.Title), esc(p.Description), esc(p.URL), esc(p.ImageURL),
					esc(strings.Join(p.Tags, ", ")), p.DisplayOrder, statusOptions(p.Status))
			}
			io.WriteString(w, logoutForm(csrf))
			return nil
		})
	})
}

func statusOptions(current folio.Status) string {
	var b strings.Builder
	for _, s := range []folio.Status{folio.StatusDraft, folio.StatusPublished} {
		sel := ""
		if s == current {
			sel = ` selected`
		}
		fmt.Fprintf(&b, `<option value="%s"%s>%s</option>`, s, sel, s)
	}
	return b.String()
}

func adminPosts(siteName string, posts []folio.Post, msg, csrf string) templ.Component {
	return comp(func(w io.Writer) error {
		return layout(w, siteName+" · Posts", func(w io.Writer) error {
			adminNav(w)
			io.WriteString(w, `<h1>Posts</h1>`)
			inlineMessage(w, msg)
			io.WriteString(w, `<p><a href="/admin/posts/new/">New post</a></p>`)
			io.WriteString(w, `<table><tr><th>Title</th><th>Slug</th><th>Status</th><th>Published</th><th></th></tr>`)
			for _, p := range posts {
				published := ""
				if p.PublishedAt != nil {
					published = p.PublishedAt.Format("2006-01-02 15:04")
				}
				fmt.Fprintf(w, `<tr><td>%s</td><td>%s</td><td>%s</td><td>%s</td>`+
					`<td><a href="/admin/posts/%s/">Edit</a>`+
					`<form method="post" action="/admin/posts/%s/toggle/">%s<button>Toggle</button></form>`+
					`<form method="post" action="/admin/posts/%s/delete/" onsubmit="return confirm('Delete this post?')">%s`+
					`<input type="hidden" name="confirm" value="1"><button>Delete</button></form></td></tr>`,
					esc(p.Title), esc(p.Slug), esc(string(p.Status)), published,
					esc(p.ID), esc(p.ID), csrfField(csrf), esc(p.ID), csrfField(csrf))
			}
			io.WriteString(w, `</table>`)
			io.WriteString(w, logoutForm(csrf))
			return nil
		})
	})
}

func adminPostForm(siteName string, post folio.Post, isNew, preview bool, msg, csrf string) templ.Component {
	return comp(func(w io.Writer) error {
		title := "Edit Post"
		if isNew {
			title = "New Post"
		}
		return layout(w, siteName+" · "+title, func(w io.Writer) error {
			adminNav(w)
			fmt.Fprintf(w, `<h1>%s</h1>`, title)
			inlineMessage(w, msg)
			if preview {
				fmt.Fprintf(w, `<article class="preview"><h2>%s</h2>`, esc(post.Title))
				if post.CoverImageURL != "" {
					fmt.Fprintf(w, `<img src="%s" alt="">`, esc(post.CoverImageURL))
				}
				if err := markdown.Render(w, post.Content); err != nil {
					return err
				}
				io.WriteString(w, `</article>`)
			}
			publishedAt := ""
			if post.PublishedAt != nil {
				publishedAt = post.PublishedAt.Format(time.RFC3339Nano)
			}
			slugNote := ""
			if isNew {
				slugNote = ` <small>(auto-generated until edited)</small>`
			}
			fmt.Fprintf(w, `<form method="post" action="/admin/posts/save/">%s`+
				`<input type="hidden" name="id" value="%s">`+
				`<input type="hidden" name="published_at" value="%s">`+
				`<label>Title <input id="title" name="title" value="%s" required></label>`+
				`<label>Slug%s <input id="slug" name="slug" value="%s"></label>`+
				`<label>Excerpt <textarea name="excerpt" rows="2">%s</textarea></label>`+
				`<label>Cover image URL <input name="cover_image_url" value="%s"></label>`+
				`<label>Content <textarea name="content" rows="16">%s</textarea></label>`+
				`<label>Tags <input name="tags" value="%s"></label>`+
				`<label>Status <select name="status">%s</select></label>`+
				`<button>Save</button> <button name="preview" value="1">Preview</button></form>`,
				csrfField(csrf), esc(post.ID), esc(publishedAt), esc(post.Title), slugNote, esc(post.Slug),
				esc(post.Excerpt), esc(post.CoverImageURL), esc(post.Content),
				esc(strings.Join(post.Tags, ", ")), statusOptions(post.Status))
			// Mirror of the SlugField session rule: auto until the slug
			// input is touched, then manual for the rest of the session.
			if isNew {
				io.WriteString(w, `<script>
(function () {
  var title = document.getElementById("title");
  var slug = document.getElementById("slug");
  var manual = false;
  slug.addEventListener("input", function () { manual = true; });
  title.addEventListener("input", function () {
    if (manual) return;
    slug.value = title.value.toLowerCase().replace(/[^a-z0-9]+/g, "-").replace(/(^-|-$)/g, "");
  });
})();
</script>`)
			}
			return nil
		})
	})
}

func adminImages(siteName string, images []folio.Image, csrf string) templ.Component {
	return comp(func(w io.Writer) error {
		return layout(w, siteName+" · Images", func(w io.Writer) error {
			adminNav(w)
			io.WriteString(w, `<h1>Images</h1>`)
			fmt.Fprintf(w, `<form method="post" action="/admin/images/upload/" enctype="multipart/form-data">%s`+
				`<input type="file" name="image" accept="image/*" required><button>Upload</button></form>`, csrfField(csrf))
			io.WriteString(w, `<ul class="images">`)
			for _, img := range images {
				fmt.Fprintf(w, `<li><img src="%s" alt="%s" width="160"><code>%s</code> %dx%d`+
					`<form method="post" action="/admin/images/%s/delete/" onsubmit="return confirm('Delete this image?')">%s`+
					`<input type="hidden" name="confirm" value="1"><button>Delete</button></form></li>`,
					esc(img.PublicURL()), esc(img.OriginalName), esc(img.PublicURL()), img.Width, img.Height,
					esc(img.Filename), csrfField(csrf))
			}
			io.WriteString(w, `</ul>`)
			io.WriteString(w, logoutForm(csrf))
			return nil
		})
	})
}
