// Package newscards serves a page of news cards built from a small set of
// markdown posts. Posts come from a JSON manifest or, when the manifest is
// unusable, from a fixed list of markdown files. Each card opens a modal
// with the full rendered post.
package newscards

import (
	"context"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"

	"github.com/a-h/templ"
	"github.com/cockroachdb/errors"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/eringen/newscards/loader"
	"github.com/eringen/newscards/markdown"
	"github.com/eringen/newscards/views"
)

// ViewFuncs holds the page components the handlers render. Zero fields
// fall back to the components in package views.
type ViewFuncs struct {
	Home        func(page views.HomePage) templ.Component
	NotFound    func() templ.Component
	ServerError func() templ.Component
}

// App is the central newscards application. It wires together the loader,
// renderer, handlers, middleware and templates.
type App struct {
	Config   SiteConfig
	Echo     *echo.Echo
	Loader   *loader.Loader
	Renderer *markdown.Renderer
	Views    ViewFuncs
	Log      zerolog.Logger

	fetcher      loader.Fetcher
	limiter      *RateLimiter
	customRoutes []func(*App)
	staticDir    string
	ready        bool
}

// New creates a new newscards App with the given configuration.
func New(cfg SiteConfig, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config:    cfg,
		Echo:      echo.New(),
		Renderer:  markdown.NewRenderer(),
		Log:       zerolog.Nop(),
		staticDir: filepath.Join(cfg.SiteDir, "public"),
	}
	a.Echo.HideBanner = true
	a.Echo.HidePort = true

	for _, opt := range opts {
		opt(a)
	}

	site := cfg.viewConfig()
	if a.Views.Home == nil {
		a.Views.Home = views.Home
	}
	if a.Views.NotFound == nil {
		a.Views.NotFound = func() templ.Component { return views.NotFound(site) }
	}
	if a.Views.ServerError == nil {
		a.Views.ServerError = func() templ.Component { return views.ServerError(site) }
	}

	return a
}

// Init builds the post loader, middleware and routes. Start calls it;
// tests and the CLI call it directly. Calling Init twice is a no-op.
func (a *App) Init() error {
	if a.ready {
		return nil
	}

	if a.fetcher == nil {
		f, err := a.newFetcher()
		if err != nil {
			return errors.Wrap(err, "newscards: init fetcher")
		}
		a.fetcher = f
	}
	a.Loader = loader.New(a.fetcher,
		loader.WithDir(a.Config.PostsDir),
		loader.WithManifest(a.Config.Manifest),
		loader.WithFallbackFiles(a.Config.FallbackFiles),
		loader.WithLogger(a.Log.With().Str("component", "loader").Logger()),
	)

	if a.Config.RateLimit > 0 {
		a.limiter = NewRateLimiter(a.Config.RateLimit, a.Config.RateWindow)
	}

	a.setupMiddleware()
	a.setupRoutes()
	for _, fn := range a.customRoutes {
		fn(a)
	}

	a.ready = true
	return nil
}

func (a *App) newFetcher() (loader.Fetcher, error) {
	if a.Config.PostsURL != "" {
		return loader.NewHTTPFetcher(a.Config.PostsURL, nil, a.Config.FetchTimeout)
	}
	return loader.NewFSFetcher(os.DirFS(a.Config.SiteDir)), nil
}

// Start initializes the app and serves until the server is shut down.
func (a *App) Start() error {
	if err := a.Init(); err != nil {
		return err
	}
	a.Log.Info().Str("addr", a.Config.Addr).Msg("starting server")
	if err := a.Echo.Start(a.Config.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "newscards: serve")
	}
	return nil
}

// Shutdown gracefully stops the server and releases background resources.
func (a *App) Shutdown(ctx context.Context) error {
	if a.limiter != nil {
		a.limiter.Stop()
	}
	return a.Echo.Shutdown(ctx)
}

func (a *App) setupRoutes() {
	e := a.Echo

	// Framework assets first; anything else under /public/ comes from the
	// user's static dir.
	embeddedFS, _ := fs.Sub(EmbeddedAssets, "embedded")
	embeddedHandler := echo.WrapHandler(http.StripPrefix("/public/", http.FileServer(http.FS(embeddedFS))))
	e.GET("/public/newscards.js", embeddedHandler)
	e.GET("/public/newscards.css", embeddedHandler)
	e.GET("/public/favicon.svg", embeddedHandler)
	e.Static("/public", a.staticDir)
	e.GET("/favicon.svg", a.handleFavicon)
	e.GET("/robots.txt", a.handleRobots)
	e.GET("/sitemap.xml", a.handleSitemap)

	// Raw posts stay reachable the way a static host would serve them.
	if a.Config.PostsURL == "" {
		e.Static("/"+a.Config.PostsDir, filepath.Join(a.Config.SiteDir, a.Config.PostsDir))
	}

	// Every page load fetches posts again, so these are rate limited.
	e.GET("/", a.handleHome, a.rateLimitMiddleware)
	e.GET("/api/posts/", a.handlePostsAPI, a.rateLimitMiddleware)
	e.GET("/feed.xml", a.handleFeed, a.rateLimitMiddleware)
}

// EnvOr returns the value of the environment variable key, or fallback if empty.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
