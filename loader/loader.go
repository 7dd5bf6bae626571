// Package loader builds the list of posts shown on the page. It reads a JSON
// manifest when one is available and otherwise falls back to a fixed list
// of markdown files.
package loader

import (
	"bytes"
	"context"
	"encoding/json"
	"path"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"

	"github.com/eringen/newscards/frontmatter"
)

const (
	// DefaultDir is the directory, relative to the fetcher root, holding posts.
	DefaultDir = "posts"
	// DefaultManifest is the manifest file name inside DefaultDir.
	DefaultManifest = "post.json"
	// DefaultTitle is used when a post has no title.
	DefaultTitle = "Untitled"
)

var utf8BOM = []byte("\ufeff")

// DefaultFallbackFiles are fetched when the manifest cannot be used.
var DefaultFallbackFiles = []string{"example-post.md"}

var (
	// ErrNotArray marks a manifest whose top-level value is not a JSON array.
	ErrNotArray = errors.New("manifest is not a JSON array")
	// ErrSourcePath marks a manifest entry whose source leaves the posts directory.
	ErrSourcePath = errors.New("source outside posts directory")
)

// Post is a single entry rendered as a card.
type Post struct {
	Title        string `json:"title"`
	Image        string `json:"image"`
	BodyMarkdown string `json:"body_markdown"`
}

// Source tells where the posts of a Result came from.
type Source string

const (
	SourceManifest Source = "manifest"
	SourceFallback Source = "fallback"
)

// Result is the outcome of one load cycle.
type Result struct {
	Posts   []Post
	Source  Source
	Skipped []string // fallback files that could not be fetched
}

// descriptor is one manifest entry. Content takes precedence over Source.
type descriptor struct {
	Title   string `json:"title"`
	Image   string `json:"image"`
	Content string `json:"content"`
	Source  string `json:"source"`
}

// Loader loads posts through a Fetcher.
type Loader struct {
	fetcher  Fetcher
	dir      string
	manifest string
	fallback []string
	log      zerolog.Logger
}

// Option configures a Loader.
type Option func(*Loader)

// WithDir sets the posts directory (default "posts").
func WithDir(dir string) Option {
	return func(l *Loader) {
		if dir = strings.Trim(path.Clean("/"+dir), "/"); dir != "" {
			l.dir = dir
		}
	}
}

// WithManifest sets the manifest file name (default "post.json").
func WithManifest(name string) Option {
	return func(l *Loader) {
		if name != "" {
			l.manifest = name
		}
	}
}

// WithFallbackFiles replaces the fallback file list.
func WithFallbackFiles(files []string) Option {
	return func(l *Loader) {
		if len(files) > 0 {
			l.fallback = append([]string(nil), files...)
		}
	}
}

// WithLogger sets the logger used for manifest warnings and skipped files.
func WithLogger(log zerolog.Logger) Option {
	return func(l *Loader) {
		l.log = log
	}
}

// New creates a Loader reading through f.
func New(f Fetcher, opts ...Option) *Loader {
	l := &Loader{
		fetcher:  f,
		dir:      DefaultDir,
		manifest: DefaultManifest,
		fallback: DefaultFallbackFiles,
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load returns the manifest posts, or the fallback posts when the manifest
// fails for any reason. Load only returns an error when ctx is done.
func (l *Loader) Load(ctx context.Context) (Result, error) {
	posts, err := l.LoadManifest(ctx)
	if err == nil {
		return Result{Posts: posts, Source: SourceManifest}, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return Result{}, ctxErr
	}

	l.log.Warn().Err(err).Str("manifest", l.manifestPath()).Msg("manifest unavailable, using fallback posts")

	res := l.LoadFallback(ctx)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return Result{}, ctxErr
	}
	return res, nil
}

// LoadManifest fetches and decodes the manifest. Entries that are not JSON
// objects, or whose fields have the wrong type, are skipped. Any other
// failure, including a referenced source that cannot be fetched, fails the
// whole manifest.
func (l *Loader) LoadManifest(ctx context.Context) ([]Post, error) {
	name := l.manifestPath()
	raw, err := l.fetcher.Fetch(ctx, name)
	if err != nil {
		return nil, errors.Wrap(err, "fetch manifest")
	}

	trimmed := bytes.TrimSpace(bytes.TrimPrefix(raw, utf8BOM))
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, errors.Wrapf(ErrNotArray, "decode %s", name)
	}
	var entries []json.RawMessage
	if err := json.Unmarshal(trimmed, &entries); err != nil {
		return nil, errors.Wrapf(err, "decode %s", name)
	}

	posts := make([]Post, 0, len(entries))
	for i, entry := range entries {
		entry = bytes.TrimSpace(entry)
		if len(entry) == 0 || entry[0] != '{' {
			l.log.Warn().Int("entry", i).Msg("manifest entry is not an object, skipping")
			continue
		}
		var d descriptor
		if err := json.Unmarshal(entry, &d); err != nil {
			l.log.Warn().Err(err).Int("entry", i).Msg("invalid manifest entry, skipping")
			continue
		}
		post, err := l.fromDescriptor(ctx, d)
		if err != nil {
			return nil, errors.Wrapf(err, "manifest entry %d", i)
		}
		posts = append(posts, post)
	}
	return posts, nil
}

// LoadFallback fetches each fallback file in order. Files that cannot be
// fetched are skipped and listed in Result.Skipped.
func (l *Loader) LoadFallback(ctx context.Context) Result {
	res := Result{Posts: []Post{}, Source: SourceFallback}
	for _, file := range l.fallback {
		name := path.Join(l.dir, file)
		raw, err := l.fetcher.Fetch(ctx, name)
		if err != nil {
			l.log.Debug().Err(err).Str("file", name).Msg("skipping fallback post")
			res.Skipped = append(res.Skipped, file)
			continue
		}
		fm, body := frontmatter.Extract(string(raw))
		res.Posts = append(res.Posts, Post{
			Title:        fm.Get("title", DefaultTitle),
			Image:        fm.Get("image", ""),
			BodyMarkdown: body,
		})
	}
	return res
}

func (l *Loader) fromDescriptor(ctx context.Context, d descriptor) (Post, error) {
	post := Post{
		Title: firstNonBlank(d.Title, DefaultTitle),
		Image: strings.TrimSpace(d.Image),
	}
	switch {
	case d.Content != "":
		post.BodyMarkdown = d.Content
	case strings.TrimSpace(d.Source) != "":
		name, err := l.sourcePath(d.Source)
		if err != nil {
			return Post{}, err
		}
		raw, err := l.fetcher.Fetch(ctx, name)
		if err != nil {
			return Post{}, errors.Wrap(err, "fetch source")
		}
		fm, body := frontmatter.Extract(string(raw))
		post.Title = firstNonBlank(d.Title, fm.Get("title", ""), DefaultTitle)
		post.Image = firstNonBlank(d.Image, fm.Get("image", ""))
		post.BodyMarkdown = body
	}
	return post, nil
}

// sourcePath resolves a manifest source against the posts directory.
func (l *Loader) sourcePath(source string) (string, error) {
	source = strings.TrimSpace(source)
	if strings.Contains(source, "://") || strings.HasPrefix(source, "/") || strings.Contains(source, `\`) {
		return "", errors.Wrapf(ErrSourcePath, "source %q", source)
	}
	name := path.Join(l.dir, source)
	if !strings.HasPrefix(name, l.dir+"/") {
		return "", errors.Wrapf(ErrSourcePath, "source %q", source)
	}
	return name, nil
}

func (l *Loader) manifestPath() string {
	return path.Join(l.dir, l.manifest)
}

func firstNonBlank(vals ...string) string {
	for _, v := range vals {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
