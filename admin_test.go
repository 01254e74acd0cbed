package folio

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordedViews captures what the handlers asked the view layer to
// render, so tests can assert on workflow state without parsing HTML.
type recordedViews struct {
	msg        string
	editingExp *Experience
	editingPrj *Project
	formPost   *Post
	preview    bool
}

func blank() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error { return nil })
}

func stubViews(r *recordedViews) ViewFuncs {
	return ViewFuncs{
		Home: func(p *Profile, exps []Experience, projects []Project, siteURL string) templ.Component {
			return blank()
		},
		BlogIndex:  func(posts []Post) templ.Component { return blank() },
		Post:       func(post Post) templ.Component { return blank() },
		AdminLogin: func(errMsg, csrf string) templ.Component { r.msg = errMsg; return blank() },
		AdminProfile: func(p *Profile, msg, csrf string) templ.Component {
			r.msg = msg
			return blank()
		},
		AdminExperience: func(entries []Experience, editing *Experience, msg, csrf string) templ.Component {
			r.editingExp = editing
			r.msg = msg
			return blank()
		},
		AdminProjects: func(projects []Project, editing *Project, msg, csrf string) templ.Component {
			r.editingPrj = editing
			r.msg = msg
			return blank()
		},
		AdminPosts: func(posts []Post, msg, csrf string) templ.Component { r.msg = msg; return blank() },
		AdminPostForm: func(post Post, isNew, preview bool, msg, csrf string) templ.Component {
			r.formPost = &post
			r.preview = preview
			r.msg = msg
			return blank()
		},
		AdminImages: func(images []Image, csrf string) templ.Component { return blank() },
		NotFound:    func() templ.Component { return blank() },
		ServerError: func() templ.Component { return blank() },
	}
}

func testApp(t *testing.T) (*App, *recordedViews) {
	t.Helper()
	rec := &recordedViews{}
	a := &App{
		Config: SiteConfig{Name: "Test", URL: "http://localhost:3000"},
		Echo:   echo.New(),
		Store:  setupTestStore(t),
		Views:  stubViews(rec),
	}
	a.Cache = NewContentCache(a.Store, time.Minute)
	return a, rec
}

func adminCtx(a *App, req *http.Request, params map[string]string) (echo.Context, *httptest.ResponseRecorder) {
	rec := httptest.NewRecorder()
	c := a.Echo.NewContext(req, rec)
	for k, v := range params {
		c.SetParamNames(k)
		c.SetParamValues(v)
	}
	return c, rec
}

func TestAdminExperienceNewSeedsDisplayOrder(t *testing.T) {
	a, views := testApp(t)
	_, err := a.Store.CreateExperience(Experience{Company: "A", Role: "r", StartDate: "2020-01-01", DisplayOrder: 0})
	require.NoError(t, err)
	_, err = a.Store.CreateExperience(Experience{Company: "B", Role: "r", StartDate: "2021-01-01", DisplayOrder: 1})
	require.NoError(t, err)

	c, _ := adminCtx(a, httptest.NewRequest(http.MethodGet, "/admin/experience/?new=1", nil), nil)
	require.NoError(t, a.handleAdminExperience(c))
	require.NotNil(t, views.editingExp)
	assert.Equal(t, 2, views.editingExp.DisplayOrder, "new entry defaults to the current item count")
}

func TestAdminProjectNewSeedsDisplayOrderAndDraft(t *testing.T) {
	a, views := testApp(t)
	_, err := a.Store.CreateProject(Project{Title: "One", DisplayOrder: 0})
	require.NoError(t, err)

	c, _ := adminCtx(a, httptest.NewRequest(http.MethodGet, "/admin/projects/?new=1", nil), nil)
	require.NoError(t, a.handleAdminProjects(c))
	require.NotNil(t, views.editingPrj)
	assert.Equal(t, 1, views.editingPrj.DisplayOrder)
	assert.Equal(t, StatusDraft, views.editingPrj.Status)
}

func TestAdminExperienceSaveCreatesWithoutID(t *testing.T) {
	a, _ := testApp(t)
	form := url.Values{
		"company":    {"Acme"},
		"role":       {"Dev"},
		"start_date": {"2020-01-01"},
		"tags":       {"go, web"},
	}
	c, rec := adminCtx(a, formRequest("/admin/experience/save/", form), nil)
	require.NoError(t, a.handleAdminExperienceSave(c))
	assert.Equal(t, http.StatusSeeOther, rec.Code)

	list, err := a.Store.ListExperience()
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Acme", list[0].Company)
	assert.Equal(t, []string{"go", "web"}, list[0].Tags)
	assert.Equal(t, 0, list[0].DisplayOrder, "first entry defaults to count 0")
}

func TestAdminExperienceSaveRoutesToUpdate(t *testing.T) {
	a, _ := testApp(t)
	existing, err := a.Store.CreateExperience(Experience{Company: "Before", Role: "r", StartDate: "2020-01-01", DisplayOrder: 0})
	require.NoError(t, err)

	form := url.Values{
		"id":            {existing.ID},
		"company":       {"After"},
		"role":          {"r"},
		"start_date":    {"2020-01-01"},
		"display_order": {"0"},
	}
	c, rec := adminCtx(a, formRequest("/admin/experience/save/", form), nil)
	require.NoError(t, a.handleAdminExperienceSave(c))
	assert.Equal(t, http.StatusSeeOther, rec.Code)

	list, err := a.Store.ListExperience()
	require.NoError(t, err)
	require.Len(t, list, 1, "save with an id must update, not create")
	assert.Equal(t, "After", list[0].Company)
	assert.Equal(t, existing.ID, list[0].ID)
}

func TestAdminDeleteRequiresConfirmation(t *testing.T) {
	a, _ := testApp(t)
	e, err := a.Store.CreateExperience(Experience{Company: "Keep", Role: "r", StartDate: "2020-01-01"})
	require.NoError(t, err)

	c, rec := adminCtx(a, formRequest("/admin/experience/"+e.ID+"/delete/", url.Values{}), map[string]string{"id": e.ID})
	require.NoError(t, a.handleAdminExperienceDelete(c))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	list, err := a.Store.ListExperience()
	require.NoError(t, err)
	assert.Len(t, list, 1, "unconfirmed delete must be a no-op")

	c, _ = adminCtx(a, formRequest("/admin/experience/"+e.ID+"/delete/", url.Values{"confirm": {"1"}}), map[string]string{"id": e.ID})
	require.NoError(t, a.handleAdminExperienceDelete(c))
	list, err = a.Store.ListExperience()
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestAdminPostSaveAutoSlugsFromTitle(t *testing.T) {
	a, _ := testApp(t)
	form := url.Values{
		"title":   {"Hello, World! 2024"},
		"content": {"body"},
	}
	c, rec := adminCtx(a, formRequest("/admin/posts/save/", form), nil)
	require.NoError(t, a.handleAdminPostSave(c))
	assert.Equal(t, http.StatusSeeOther, rec.Code)

	posts, err := a.Store.ListAllPosts()
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "hello-world-2024", posts[0].Slug)
	assert.Equal(t, StatusDraft, posts[0].Status)
}

func TestAdminPostSaveDuplicateSlugLeavesDraftOpen(t *testing.T) {
	a, views := testApp(t)
	_, err := a.Store.CreatePost(Post{Title: "My Post", Slug: "my-post"})
	require.NoError(t, err)

	form := url.Values{"title": {"My Post"}, "content": {"second body"}}
	c, rec := adminCtx(a, formRequest("/admin/posts/save/", form), nil)
	require.NoError(t, a.handleAdminPostSave(c))

	assert.Equal(t, http.StatusOK, rec.Code, "failed save re-renders the form")
	assert.NotEmpty(t, views.msg, "the store error is surfaced inline")
	require.NotNil(t, views.formPost)
	assert.Equal(t, "second body", views.formPost.Content, "the draft stays open for correction")

	posts, err := a.Store.ListAllPosts()
	require.NoError(t, err)
	assert.Len(t, posts, 1, "the first post is unaffected")
}

func TestAdminPostSavePreviewDoesNotPersist(t *testing.T) {
	a, views := testApp(t)
	form := url.Values{
		"title":   {"Preview Me"},
		"content": {"# heading"},
		"preview": {"1"},
	}
	c, rec := adminCtx(a, formRequest("/admin/posts/save/", form), nil)
	require.NoError(t, a.handleAdminPostSave(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, views.preview)
	posts, err := a.Store.ListAllPosts()
	require.NoError(t, err)
	assert.Empty(t, posts, "preview must not save")
}

func TestAdminPostTogglePublishes(t *testing.T) {
	a, _ := testApp(t)
	p, err := a.Store.CreatePost(Post{Title: "T", Slug: "t"})
	require.NoError(t, err)

	c, rec := adminCtx(a, formRequest("/admin/posts/"+p.ID+"/toggle/", url.Values{}), map[string]string{"id": p.ID})
	require.NoError(t, a.handleAdminPostToggle(c))
	assert.Equal(t, http.StatusSeeOther, rec.Code)

	got, err := a.Store.GetPost(p.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusPublished, got.Status)
	require.NotNil(t, got.PublishedAt)
}

func TestAdminProfileSaveErrorKeepsDraft(t *testing.T) {
	a, views := testApp(t)
	form := url.Values{"name": {"   "}, "tagline": {"tag"}}
	c, rec := adminCtx(a, formRequest("/admin/profile/", form), nil)
	require.NoError(t, a.handleAdminProfileSave(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, views.msg)

	form = url.Values{"name": {"Ada"}}
	c, rec = adminCtx(a, formRequest("/admin/profile/", form), nil)
	require.NoError(t, a.handleAdminProfileSave(c))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
}
