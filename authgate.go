package folio

import (
	"crypto/subtle"
	"errors"
	"net/http"

	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
)

const sessionName = "folio_session"

// SessionState is the lifecycle of the per-request session check. A
// request starts in SessionLoading until the gate has resolved the
// cookie; consumers must treat loading as neither signed in nor out.
type SessionState int

const (
	SessionLoading SessionState = iota
	SessionAnonymous
	SessionAuthenticated
)

// User is the authenticated admin identity.
type User struct {
	Email string
}

// ErrInvalidCredentials is returned by SignIn when the email or
// password does not match the configured admin.
var ErrInvalidCredentials = errors.New("invalid email or password")

// ErrTooManyAttempts is returned by SignIn when the caller's IP has
// exceeded the login rate limit.
var ErrTooManyAttempts = errors.New("too many login attempts, try again later")

const sessionCtxKey = "folio.session"

type resolvedSession struct {
	user  User
	state SessionState
}

// Gate is the all-or-nothing authorization boundary between the
// anonymous public surface and the admin surface. It verifies the
// single admin's credentials and tracks the session in a cookie.
type Gate struct {
	adminEmail   string
	passwordHash []byte // bcrypt
	limiter      *LoginLimiter
}

// NewGate creates a Gate for the admin identified by email with the
// given bcrypt password hash.
func NewGate(email string, passwordHash string, limiter *LoginLimiter) *Gate {
	return &Gate{adminEmail: email, passwordHash: []byte(passwordHash), limiter: limiter}
}

// Resolve reads the session cookie and records the outcome on the
// request context. After Resolve, Current no longer reports loading.
func (g *Gate) Resolve(c echo.Context) (User, SessionState) {
	sess, err := session.Get(sessionName, c)
	if err != nil {
		c.Set(sessionCtxKey, resolvedSession{state: SessionAnonymous})
		return User{}, SessionAnonymous
	}
	auth, _ := sess.Values["authenticated"].(bool)
	email, _ := sess.Values["email"].(string)
	if !auth {
		c.Set(sessionCtxKey, resolvedSession{state: SessionAnonymous})
		return User{}, SessionAnonymous
	}
	u := User{Email: email}
	c.Set(sessionCtxKey, resolvedSession{user: u, state: SessionAuthenticated})
	return u, SessionAuthenticated
}

// Current returns the session as last resolved for this request, or
// SessionLoading if the check has not run yet.
func (g *Gate) Current(c echo.Context) (User, SessionState) {
	rs, ok := c.Get(sessionCtxKey).(resolvedSession)
	if !ok {
		return User{}, SessionLoading
	}
	return rs.user, rs.state
}

// SignIn verifies the credentials and, on success, establishes the
// cookie session so that Current reports authenticated. Failures are
// rate-limited per IP and recorded.
func (g *Gate) SignIn(c echo.Context, email, password string) error {
	ip := c.RealIP()
	if !g.limiter.Check(ip) {
		return ErrTooManyAttempts
	}
	emailOK := subtle.ConstantTimeCompare([]byte(email), []byte(g.adminEmail)) == 1
	passOK := bcrypt.CompareHashAndPassword(g.passwordHash, []byte(password)) == nil
	if !emailOK || !passOK {
		g.limiter.Record(ip)
		return ErrInvalidCredentials
	}
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return err
	}
	sess.Values["authenticated"] = true
	sess.Values["email"] = email
	if err := sess.Save(c.Request(), c.Response()); err != nil {
		return err
	}
	c.Set(sessionCtxKey, resolvedSession{user: User{Email: email}, state: SessionAuthenticated})
	return nil
}

// SignOut clears the session. Subsequent resolution reports anonymous.
func (g *Gate) SignOut(c echo.Context) error {
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return err
	}
	sess.Options.MaxAge = -1
	if err := sess.Save(c.Request(), c.Response()); err != nil {
		return err
	}
	c.Set(sessionCtxKey, resolvedSession{state: SessionAnonymous})
	return nil
}

// RequireAdmin wraps admin-only handlers: it resolves the session
// first, redirects anonymous visitors to the login page, and only then
// lets the handler render protected content.
func (g *Gate) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, state := g.Resolve(c); state != SessionAuthenticated {
			return c.Redirect(http.StatusSeeOther, "/admin/")
		}
		return next(c)
	}
}
