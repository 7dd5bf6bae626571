package loader

import (
	"context"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
)

// maxBodySize caps how much of a single response is read.
const maxBodySize = 5 << 20 // 5MB

var (
	// ErrStatus marks fetch errors caused by a non-2xx response.
	ErrStatus = errors.New("unexpected response status")
	// ErrTooLarge marks files larger than the fetch size limit.
	ErrTooLarge = errors.New("file too large")
)

// Fetcher retrieves a file by its slash-separated name, e.g. "posts/post.json".
type Fetcher interface {
	Fetch(ctx context.Context, name string) ([]byte, error)
}

// HTTPFetcher fetches files relative to a base URL.
type HTTPFetcher struct {
	base   *url.URL
	client *http.Client
}

// NewHTTPFetcher creates an HTTPFetcher rooted at baseURL. A nil client
// gets a default one with the given timeout.
func NewHTTPFetcher(baseURL string, client *http.Client, timeout time.Duration) (*HTTPFetcher, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, errors.Wrapf(err, "parse base url %q", baseURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, errors.Newf("base url %q must be http or https", baseURL)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	return &HTTPFetcher{base: u, client: client}, nil
}

// Fetch issues a GET for name below the base URL. Every path segment of
// name is escaped, so "#", "?" and "%" name files rather than URL parts.
func (f *HTTPFetcher) Fetch(ctx context.Context, name string) ([]byte, error) {
	segments := strings.Split(strings.TrimPrefix(name, "/"), "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	target := f.base.JoinPath(segments...).String()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "build request for %s", target)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "get %s", target)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodySize))
		return nil, errors.Mark(errors.Newf("get %s: status %d", target, resp.StatusCode), ErrStatus)
	}

	return readLimited(resp.Body, target)
}

// readLimited reads all of r, failing with ErrTooLarge past maxBodySize.
func readLimited(r io.Reader, name string) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r, maxBodySize+1))
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", name)
	}
	if len(body) > maxBodySize {
		return nil, errors.Mark(errors.Newf("read %s: larger than %d bytes", name, maxBodySize), ErrTooLarge)
	}
	return body, nil
}

// FSFetcher reads files from a file system, typically os.DirFS of the site root.
type FSFetcher struct {
	fsys fs.FS
}

// NewFSFetcher creates an FSFetcher over fsys.
func NewFSFetcher(fsys fs.FS) *FSFetcher {
	return &FSFetcher{fsys: fsys}
}

// Fetch reads name from the file system.
func (f *FSFetcher) Fetch(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	file, err := f.fsys.Open(strings.TrimPrefix(name, "/"))
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", name)
	}
	defer file.Close()
	return readLimited(file, name)
}
