// Package folio is a personal portfolio and blog engine built with Go,
// Echo, and templ. It manages four content kinds (profile, experience,
// projects, blog posts) through a cookie-authenticated admin panel and
// serves the published subset on the public site, with RSS and sitemap
// out of the box.
//
// Views are templ components supplied through the ViewFuncs struct;
// the views package provides a working default set.
package folio

import (
	"fmt"
	"net/http"
	"time"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
)

// ViewFuncs holds the templ components the engine calls when rendering
// pages. Supplying your own struct is how a site customizes its look.
type ViewFuncs struct {
	Home      func(profile *Profile, exps []Experience, projects []Project, siteURL string) templ.Component
	BlogIndex func(posts []Post) templ.Component
	Post      func(post Post) templ.Component

	AdminLogin      func(errMsg, csrfToken string) templ.Component
	AdminProfile    func(profile *Profile, msg, csrfToken string) templ.Component
	AdminExperience func(entries []Experience, editing *Experience, msg, csrfToken string) templ.Component
	AdminProjects   func(projects []Project, editing *Project, msg, csrfToken string) templ.Component
	AdminPosts      func(posts []Post, msg, csrfToken string) templ.Component
	AdminPostForm   func(post Post, isNew, preview bool, msg, csrfToken string) templ.Component
	AdminImages     func(images []Image, csrfToken string) templ.Component

	NotFound    func() templ.Component
	ServerError func() templ.Component
}

// App wires together the store, cache, auth gate, asset store,
// handlers, middleware, and user-provided templates.
type App struct {
	Config SiteConfig
	Echo   *echo.Echo
	Store  *Store
	Cache  *ContentCache
	Gate   *Gate
	Assets *AssetStore
	Views  ViewFuncs

	customRoutes []func(*App)
	staticDir    string
}

// New creates a folio App with the given configuration and views.
func New(cfg SiteConfig, views ViewFuncs, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config:    cfg,
		Echo:      echo.New(),
		Views:     views,
		staticDir: "public",
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Start initializes the database, cache, auth gate, middleware, and
// routes, then starts the server. It blocks until the server stops.
func (a *App) Start() error {
	if err := a.init(); err != nil {
		return err
	}
	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (a *App) init() error {
	if a.Config.AdminEmail == "" {
		return fmt.Errorf("folio: AdminEmail is required")
	}
	if a.Config.AdminPasswordHash == "" {
		return fmt.Errorf("folio: AdminPasswordHash is required")
	}
	if a.Config.SessionSecret == "" {
		return fmt.Errorf("folio: SessionSecret is required")
	}

	store, err := NewStore(a.Config.DatabasePath)
	if err != nil {
		return fmt.Errorf("folio: init store: %w", err)
	}
	a.Store = store

	a.Cache = NewContentCache(a.Store, a.Config.CacheTTL)
	a.Gate = NewGate(a.Config.AdminEmail, a.Config.AdminPasswordHash, NewLoginLimiter(5, time.Minute))
	a.Assets = NewAssetStore(a.staticDir)

	a.setupMiddleware()
	a.setupRoutes()

	for _, fn := range a.customRoutes {
		fn(a)
	}
	return nil
}

func (a *App) setupRoutes() {
	e := a.Echo

	e.Static("/public", a.staticDir)
	e.GET("/favicon.svg", a.handleFavicon)
	e.GET("/robots.txt", a.handleRobots)

	// Public routes
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)
	e.GET("/", a.handleHome)
	e.GET("/blog/", a.handleBlogIndex)
	e.GET("/blog/:slug/", a.handlePost)

	// Admin: login page and auth commands are open, everything else
	// goes through the gate.
	e.GET("/admin/", a.handleAdmin)
	e.POST("/admin/login/", a.handleAdminLogin)
	e.POST("/admin/logout/", a.handleAdminLogout)

	admin := e.Group("/admin", a.Gate.RequireAdmin)
	admin.GET("/profile/", a.handleAdminProfile)
	admin.POST("/profile/", a.handleAdminProfileSave)

	admin.GET("/experience/", a.handleAdminExperience)
	admin.GET("/experience/:id/", a.handleAdminExperienceEdit)
	admin.POST("/experience/save/", a.handleAdminExperienceSave)
	admin.POST("/experience/:id/delete/", a.handleAdminExperienceDelete)

	admin.GET("/projects/", a.handleAdminProjects)
	admin.GET("/projects/:id/", a.handleAdminProjectEdit)
	admin.POST("/projects/save/", a.handleAdminProjectSave)
	admin.POST("/projects/:id/delete/", a.handleAdminProjectDelete)
	admin.POST("/projects/:id/toggle/", a.handleAdminProjectToggle)

	admin.GET("/posts/", a.handleAdminPosts)
	admin.GET("/posts/new/", a.handleAdminPostNew)
	admin.GET("/posts/:id/", a.handleAdminPostEdit)
	admin.POST("/posts/save/", a.handleAdminPostSave)
	admin.POST("/posts/:id/delete/", a.handleAdminPostDelete)
	admin.POST("/posts/:id/toggle/", a.handleAdminPostToggle)

	admin.GET("/images/", a.handleImageList)
	admin.POST("/images/upload/", a.handleImageUpload)
	admin.POST("/images/:filename/delete/", a.handleImageDelete)
}

// Close cleans up resources. Call when the app is shutting down.
func (a *App) Close() error {
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}
