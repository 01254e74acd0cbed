package folio

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

// handleAdmin is the admin landing page: the login form for anonymous
// visitors, a redirect into the panel for a signed-in admin.
func (a *App) handleAdmin(c echo.Context) error {
	if _, state := a.Gate.Resolve(c); state == SessionAuthenticated {
		return c.Redirect(http.StatusSeeOther, "/admin/posts/")
	}
	return Render(c, a.Views.AdminLogin("", CsrfToken(c)))
}

func (a *App) handleAdminLogin(c echo.Context) error {
	email := c.FormValue("email")
	password := c.FormValue("password")
	err := a.Gate.SignIn(c, email, password)
	switch {
	case err == nil:
		return c.Redirect(http.StatusSeeOther, "/admin/posts/")
	case errors.Is(err, ErrTooManyAttempts):
		return c.String(http.StatusTooManyRequests, err.Error())
	case errors.Is(err, ErrInvalidCredentials):
		return Render(c, a.Views.AdminLogin(err.Error(), CsrfToken(c)))
	default:
		return err
	}
}

func (a *App) handleAdminLogout(c echo.Context) error {
	if err := a.Gate.SignOut(c); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/admin/")
}

// confirmed reports whether a delete form carried its confirmation
// field. Deletes are permanent, so the panel always asks first.
func confirmed(c echo.Context) bool {
	return c.FormValue("confirm") == "1"
}
