package folio

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testAdminEmail = "admin@example.com"
const testAdminPassword = "correct-horse"

func testGate(t *testing.T, maxAttempts int) *Gate {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(testAdminPassword), bcrypt.MinCost)
	require.NoError(t, err)
	return NewGate(testAdminEmail, string(hash), NewLoginLimiter(maxAttempts, time.Minute))
}

// runWithSession invokes fn as a handler behind the session middleware
// so session.Get works, and returns the response recorder.
func runWithSession(t *testing.T, store *sessions.CookieStore, req *http.Request, fn echo.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	h := session.Middleware(store)(fn)
	require.NoError(t, h(c))
	return rec
}

func formRequest(target string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	return req
}

func TestGateLoadingBeforeResolve(t *testing.T) {
	g := testGate(t, 5)
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/admin/", nil), httptest.NewRecorder())

	_, state := g.Current(c)
	assert.Equal(t, SessionLoading, state,
		"an unresolved session must be loading, never authenticated or anonymous")
	assert.NotEqual(t, SessionAuthenticated, state)
	assert.NotEqual(t, SessionAnonymous, state)
}

func TestGateResolveWithoutCookieIsAnonymous(t *testing.T) {
	g := testGate(t, 5)
	store := sessions.NewCookieStore([]byte("test-secret"))
	runWithSession(t, store, httptest.NewRequest(http.MethodGet, "/admin/", nil), func(c echo.Context) error {
		_, state := g.Resolve(c)
		assert.Equal(t, SessionAnonymous, state)
		_, state = g.Current(c)
		assert.Equal(t, SessionAnonymous, state)
		return nil
	})
}

func TestGateSignInWrongCredentials(t *testing.T) {
	g := testGate(t, 5)
	store := sessions.NewCookieStore([]byte("test-secret"))
	runWithSession(t, store, formRequest("/admin/login/", nil), func(c echo.Context) error {
		err := g.SignIn(c, testAdminEmail, "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
		err = g.SignIn(c, "nobody@example.com", testAdminPassword)
		assert.ErrorIs(t, err, ErrInvalidCredentials)
		return nil
	})
}

func TestGateSignInSignOut(t *testing.T) {
	g := testGate(t, 5)
	store := sessions.NewCookieStore([]byte("test-secret"))
	runWithSession(t, store, formRequest("/admin/login/", nil), func(c echo.Context) error {
		require.NoError(t, g.SignIn(c, testAdminEmail, testAdminPassword))
		u, state := g.Current(c)
		assert.Equal(t, SessionAuthenticated, state)
		assert.Equal(t, testAdminEmail, u.Email)

		require.NoError(t, g.SignOut(c))
		_, state = g.Current(c)
		assert.Equal(t, SessionAnonymous, state)
		return nil
	})
}

func TestGateSessionSurvivesCookieRoundTrip(t *testing.T) {
	g := testGate(t, 5)
	store := sessions.NewCookieStore([]byte("test-secret"))

	rec := runWithSession(t, store, formRequest("/admin/login/", nil), func(c echo.Context) error {
		return g.SignIn(c, testAdminEmail, testAdminPassword)
	})
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies, "sign-in should set a session cookie")

	req := httptest.NewRequest(http.MethodGet, "/admin/posts/", nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	runWithSession(t, store, req, func(c echo.Context) error {
		u, state := g.Resolve(c)
		assert.Equal(t, SessionAuthenticated, state)
		assert.Equal(t, testAdminEmail, u.Email)
		return nil
	})
}

func TestGateRateLimitsFailedSignIns(t *testing.T) {
	g := testGate(t, 2)
	store := sessions.NewCookieStore([]byte("test-secret"))
	runWithSession(t, store, formRequest("/admin/login/", nil), func(c echo.Context) error {
		assert.ErrorIs(t, g.SignIn(c, testAdminEmail, "wrong"), ErrInvalidCredentials)
		assert.ErrorIs(t, g.SignIn(c, testAdminEmail, "wrong"), ErrInvalidCredentials)
		// Limit reached: even the right password is refused now.
		assert.ErrorIs(t, g.SignIn(c, testAdminEmail, testAdminPassword), ErrTooManyAttempts)
		return nil
	})
}

func TestRequireAdminRedirectsAnonymous(t *testing.T) {
	g := testGate(t, 5)
	store := sessions.NewCookieStore([]byte("test-secret"))
	protected := g.RequireAdmin(func(c echo.Context) error {
		t.Fatal("protected handler must not run for anonymous visitors")
		return nil
	})
	rec := runWithSession(t, store, httptest.NewRequest(http.MethodGet, "/admin/posts/", nil), protected)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin/", rec.Header().Get(echo.HeaderLocation))
}
