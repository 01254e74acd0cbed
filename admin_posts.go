package folio

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
)

func (a *App) handleAdminPosts(c echo.Context) error {
	posts, err := a.Store.ListAllPosts()
	if err != nil {
		return err
	}
	return Render(c, a.Views.AdminPosts(posts, c.QueryParam("msg"), CsrfToken(c)))
}

func (a *App) handleAdminPostNew(c echo.Context) error {
	return Render(c, a.Views.AdminPostForm(Post{Status: StatusDraft}, true, false, "", CsrfToken(c)))
}

func (a *App) handleAdminPostEdit(c echo.Context) error {
	post, err := a.Store.GetPost(c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.NoContent(http.StatusNotFound)
		}
		return err
	}
	preview := c.QueryParam("preview") != ""
	return Render(c, a.Views.AdminPostForm(post, false, preview, "", CsrfToken(c)))
}

func (a *App) handleAdminPostSave(c echo.Context) error {
	id := c.FormValue("id")
	draft := postFromForm(c)
	draft.ID = id

	// Preview submits render the draft without persisting anything.
	if c.FormValue("preview") != "" {
		return Render(c, a.Views.AdminPostForm(draft, id == "", true, "", CsrfToken(c)))
	}

	if draft.Slug == "" {
		draft.Slug = Slugify(draft.Title)
	}

	var err error
	if id == "" {
		_, err = a.Store.CreatePost(draft)
	} else {
		err = a.Store.UpdatePost(id, draft)
	}
	if err != nil {
		// A duplicate slug lands here as the store's constraint error;
		// the draft stays open for correction.
		return Render(c, a.Views.AdminPostForm(draft, id == "", false, err.Error(), CsrfToken(c)))
	}
	a.Cache.Invalidate()
	return c.Redirect(http.StatusSeeOther, "/admin/posts/?msg=saved")
}

func (a *App) handleAdminPostDelete(c echo.Context) error {
	if !confirmed(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/posts/")
	}
	if err := a.Store.DeletePost(c.Param("id")); err != nil {
		return err
	}
	a.Cache.Invalidate()
	return c.Redirect(http.StatusSeeOther, "/admin/posts/?msg=deleted")
}

func (a *App) handleAdminPostToggle(c echo.Context) error {
	if _, err := a.Store.TogglePostStatus(c.Param("id")); err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.NoContent(http.StatusNotFound)
		}
		return err
	}
	a.Cache.Invalidate()
	return c.Redirect(http.StatusSeeOther, "/admin/posts/")
}

// postFromForm rebuilds the full payload from the editor form. The
// form carries published_at as a hidden field so unchanged fields are
// merged back into the replace-style update.
func postFromForm(c echo.Context) Post {
	status := Status(c.FormValue("status"))
	if status == "" {
		status = StatusDraft
	}
	p := Post{
		Title:         strings.TrimSpace(c.FormValue("title")),
		Slug:          strings.TrimSpace(c.FormValue("slug")),
		Content:       c.FormValue("content"),
		Excerpt:       c.FormValue("excerpt"),
		CoverImageURL: strings.TrimSpace(c.FormValue("cover_image_url")),
		Tags:          splitTags(c.FormValue("tags")),
		Status:        status,
	}
	if raw := c.FormValue("published_at"); raw != "" {
		if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
			p.PublishedAt = &t
		}
	}
	return p
}
