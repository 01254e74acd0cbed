package folio

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

func (a *App) handleHome(c echo.Context) error {
	profile, err := a.Cache.Profile()
	if err != nil {
		return err
	}
	exps, err := a.Cache.Experience()
	if err != nil {
		return err
	}
	projects, err := a.Cache.Projects()
	if err != nil {
		return err
	}
	return Render(c, a.Views.Home(profile, exps, projects, a.Config.URL))
}

func (a *App) handleBlogIndex(c echo.Context) error {
	posts, err := a.Cache.Posts()
	if err != nil {
		return err
	}
	return Render(c, a.Views.BlogIndex(posts))
}

func (a *App) handlePost(c echo.Context) error {
	slug := c.Param("slug")
	post, err := a.Cache.Post(slug)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
		}
		return err
	}
	return Render(c, a.Views.Post(post))
}

func (a *App) handleFavicon(c echo.Context) error {
	return c.File(a.staticDir + "/favicon.svg")
}

func (a *App) handleRobots(c echo.Context) error {
	return c.File(a.staticDir + "/robots.txt")
}

// httpErrorHandler renders the generic panels on the public path: a
// not-found page for 404s and an opaque error page for 5xx. Admin
// handlers surface their own inline messages before errors reach here.
func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	he, ok := err.(*echo.HTTPError)
	if ok && he.Code == http.StatusNotFound {
		_ = RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		c.Logger().Errorf("server error: %v", err)
		_ = RenderStatus(c, code, a.Views.ServerError())
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
