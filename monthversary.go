// Package monthversary is a single-tenant slideshow CMS built with Go,
// Echo, and SQLite. One editor curates an ordered deck of slides through a
// browser console; viewers watch the published deck as a full-screen
// animated presentation with optional background music.
package monthversary

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// App is the central application. It wires together the store, cache,
// handlers, and middleware.
type App struct {
	Config Config
	Echo   *echo.Echo
	Store  *Store
	Cache  *DeckCache

	loginLimiter *LoginLimiter
	customRoutes []func(*App)
}

// New creates a new App with the given configuration.
func New(cfg Config, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config: cfg,
		Echo:   echo.New(),
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Start initializes the database, cache, middleware, and routes, then
// starts the server. It blocks until the server stops.
func (a *App) Start() error {
	if err := a.Init(); err != nil {
		return err
	}
	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Init validates the configuration and wires everything up without
// starting the listener. Tests call this directly.
func (a *App) Init() error {
	if a.Config.Admin.Username == "" || a.Config.Admin.Password == "" {
		return fmt.Errorf("monthversary: admin credentials are required")
	}
	if a.Config.Viewer.Username == "" || a.Config.Viewer.Password == "" {
		return fmt.Errorf("monthversary: viewer credentials are required")
	}
	if a.Config.SessionSecret == "" {
		return fmt.Errorf("monthversary: SessionSecret is required")
	}

	store, err := NewStore(a.Config.DatabasePath)
	if err != nil {
		return fmt.Errorf("monthversary: init store: %w", err)
	}
	a.Store = store

	a.Cache = NewDeckCache(a.Store, a.Config.DeckCacheTTL)
	a.loginLimiter = NewLoginLimiter(5, time.Minute)

	a.setupMiddleware()
	a.setupRoutes()

	for _, fn := range a.customRoutes {
		fn(a)
	}
	return nil
}

func (a *App) setupRoutes() {
	e := a.Echo

	// Embedded browser assets (console, presentation engine, styles)
	e.GET("/static/*", echo.WrapHandler(http.FileServer(http.FS(StaticAssets))))

	// Authentication
	e.POST("/login", a.handleLogin)
	e.POST("/viewer-login", a.handleViewerLogin)
	e.POST("/logout", handleLogout)
	e.GET("/check-auth", handleCheckAuth)

	// Public API
	e.GET("/api/slides", a.handlePublicSlides)
	e.GET("/api/settings", a.handlePublicSettings)

	// Editor API
	admin := e.Group("/api/admin", requireEditorAPI)
	admin.GET("/slides", a.handleAdminSlides)
	admin.POST("/slides", a.handleCreateSlide)
	admin.PUT("/slides/:id", a.handleUpdateSlide)
	admin.DELETE("/slides/:id", a.handleDeleteSlide)
	admin.PUT("/reorder", a.handleReorder)
	admin.PUT("/publish-all", a.handlePublishAll)
	admin.POST("/upload", a.handleUploadImage)
	admin.POST("/upload-audio", a.handleUploadAudio)
	admin.GET("/settings", a.handleAdminSettings)
	admin.PUT("/settings", a.handleUpdateSettings)

	// Pages
	e.GET("/", handleIndex)
	e.GET("/login", a.handleLoginPage)
	e.GET("/view-login", a.handleViewLoginPage)
	e.GET("/admin", a.handleAdminPage, requireEditorPage)
	e.GET("/preview", a.handlePresentationPage, requireEditorPage)
	e.GET("/wrapped", a.handlePresentationPage, requireViewerPage)
	e.GET("/experience", a.handlePresentationPage, requireViewerPage)
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}
