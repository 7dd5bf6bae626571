package newscards

import (
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/eringen/newscards/loader"
	"github.com/eringen/newscards/views"
)

// SiteConfig holds all configuration for a newscards site.
type SiteConfig struct {
	Name        string `yaml:"name"`        // Site name (default "News")
	URL         string `yaml:"url"`         // Canonical URL (default "http://localhost:3000")
	Description string `yaml:"description"` // Site description for RSS and meta tags
	Author      string `yaml:"author"`      // Author name for JSON-LD

	Addr string `yaml:"addr"` // Listen address (default ":3000")

	SiteDir       string        `yaml:"site_dir"`       // Root holding the posts directory (default ".")
	PostsDir      string        `yaml:"posts_dir"`      // Posts directory under SiteDir (default "posts")
	Manifest      string        `yaml:"manifest"`       // Manifest name inside PostsDir (default "post.json")
	FallbackFiles []string      `yaml:"fallback_files"` // Markdown files used without a manifest
	PostsURL      string        `yaml:"posts_url"`      // Fetch posts over HTTP from this base instead of SiteDir
	FetchTimeout  time.Duration `yaml:"fetch_timeout"`  // HTTP fetch timeout (default 10s)

	ExcerptLength int `yaml:"excerpt_length"` // Card excerpt budget in characters (default 100)

	RateLimit  int           `yaml:"rate_limit"`  // Page loads per IP per window (default 60, -1 disables)
	RateWindow time.Duration `yaml:"rate_window"` // Rate limit window (default 1m)

	LogLevel  string `yaml:"log_level"`  // debug, info, warn, error (default "info")
	LogFormat string `yaml:"log_format"` // json or console (default "console")
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "News"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	c.URL = strings.TrimRight(c.URL, "/")
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.SiteDir == "" {
		c.SiteDir = "."
	}
	c.PostsDir = strings.Trim(path.Clean("/"+c.PostsDir), "/")
	if c.PostsDir == "" {
		c.PostsDir = loader.DefaultDir
	}
	if c.Manifest == "" {
		c.Manifest = loader.DefaultManifest
	}
	if len(c.FallbackFiles) == 0 {
		c.FallbackFiles = append([]string(nil), loader.DefaultFallbackFiles...)
	}
	if c.FetchTimeout == 0 {
		c.FetchTimeout = 10 * time.Second
	}
	if c.ExcerptLength == 0 {
		c.ExcerptLength = 100
	}
	if c.RateLimit == 0 {
		c.RateLimit = 60
	}
	if c.RateWindow == 0 {
		c.RateWindow = time.Minute
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogFormat == "" {
		c.LogFormat = "console"
	}
}

// applyEnv overrides fields from NEWSCARDS_* environment variables.
func (c *SiteConfig) applyEnv() error {
	strs := map[string]*string{
		"NEWSCARDS_SITE_NAME":        &c.Name,
		"NEWSCARDS_SITE_URL":         &c.URL,
		"NEWSCARDS_SITE_DESCRIPTION": &c.Description,
		"NEWSCARDS_SITE_AUTHOR":      &c.Author,
		"NEWSCARDS_ADDR":             &c.Addr,
		"NEWSCARDS_SITE_DIR":         &c.SiteDir,
		"NEWSCARDS_POSTS_DIR":        &c.PostsDir,
		"NEWSCARDS_POSTS_URL":        &c.PostsURL,
		"NEWSCARDS_LOG_LEVEL":        &c.LogLevel,
		"NEWSCARDS_LOG_FORMAT":       &c.LogFormat,
	}
	for key, dst := range strs {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	if v := os.Getenv("NEWSCARDS_FALLBACK_FILES"); v != "" {
		c.FallbackFiles = splitList(v)
	}
	if v := os.Getenv("NEWSCARDS_FETCH_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return errors.Wrap(err, "NEWSCARDS_FETCH_TIMEOUT")
		}
		c.FetchTimeout = d
	}
	if v := os.Getenv("NEWSCARDS_RATE_LIMIT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrap(err, "NEWSCARDS_RATE_LIMIT")
		}
		c.RateLimit = n
	}
	return nil
}

// LoadConfig reads a YAML config file, then applies environment overrides.
// An empty path skips the file.
func LoadConfig(path string) (SiteConfig, error) {
	var cfg SiteConfig
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return SiteConfig{}, errors.Wrap(err, "read config")
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return SiteConfig{}, errors.Wrapf(err, "parse config %s", path)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return SiteConfig{}, err
	}
	return cfg, nil
}

// LoadDotEnv loads .env files from dir with priority .env.local > .env.
// Variables already set in the environment are never overwritten. It
// returns the files actually loaded.
func LoadDotEnv(dir string) []string {
	var loaded []string
	for _, name := range []string{".env.local", ".env"} {
		f := filepath.Join(dir, name)
		if _, err := os.Stat(f); err == nil {
			loaded = append(loaded, f)
		}
	}
	if len(loaded) > 0 {
		_ = godotenv.Load(loaded...)
	}
	return loaded
}

func (c SiteConfig) viewConfig() views.SiteConfig {
	return views.SiteConfig{
		Name:        c.Name,
		URL:         c.URL,
		Description: c.Description,
		Author:      c.Author,
	}
}

func splitList(s string) []string {
	var out []string
	for _, v := range strings.Split(s, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App before the server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithStaticDir sets the directory for user-owned static assets served
// under /public/ (default "public" inside SiteDir).
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.staticDir = dir
	}
}

// WithFetcher replaces the fetcher derived from SiteDir/PostsURL.
func WithFetcher(f loader.Fetcher) Option {
	return func(a *App) {
		a.fetcher = f
	}
}

// WithLogger sets the application logger.
func WithLogger(log zerolog.Logger) Option {
	return func(a *App) {
		a.Log = log
	}
}

// WithViews replaces the default page components.
func WithViews(v ViewFuncs) Option {
	return func(a *App) {
		a.Views = v
	}
}
