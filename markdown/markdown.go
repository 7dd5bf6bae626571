// Package markdown renders post bodies to sanitized HTML and derives
// plain-text excerpts from the result.
package markdown

import (
	"bytes"
	"html"
	"net/url"
	"regexp"
	"strings"
	"unicode"

	"github.com/cockroachdb/errors"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	goldhtml "github.com/yuin/goldmark/renderer/html"
)

// ExcerptLength is the rune budget of a card excerpt, before the ellipsis.
const ExcerptLength = 100

const ellipsis = "..."

var (
	reCodeLang = regexp.MustCompile(`^language-[\w+#-]+$`)

	// stripPolicy removes every tag, keeping text only.
	stripPolicy = bluemonday.StrictPolicy()
)

// Renderer converts markdown to HTML. Raw HTML in the source is passed
// through goldmark and then sanitized, so the output is safe to inject into
// a page.
type Renderer struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

// NewRenderer creates a Renderer with GitHub flavored markdown enabled.
func NewRenderer() *Renderer {
	policy := bluemonday.UGCPolicy()
	policy.AllowAttrs("class").Matching(reCodeLang).OnElements("code")

	return &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(goldhtml.WithUnsafe()),
		),
		policy: policy,
	}
}

// Render returns the sanitized HTML for md.
func (r *Renderer) Render(md string) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(md), &buf); err != nil {
		return "", errors.Wrap(err, "convert markdown")
	}
	return r.policy.Sanitize(buf.String()), nil
}

// Excerpt strips all tags from htmlText, collapses whitespace and truncates
// the text to limit runes. A truncated excerpt ends in "...". A limit of
// zero or less disables truncation.
func Excerpt(htmlText string, limit int) string {
	text := html.UnescapeString(stripPolicy.Sanitize(htmlText))
	text = strings.Join(strings.Fields(text), " ")

	runes := []rune(text)
	if limit <= 0 || len(runes) <= limit {
		return text
	}
	return strings.TrimRightFunc(string(runes[:limit]), unicode.IsSpace) + ellipsis
}

// SafeURL validates and sanitizes a URL for use in HTML attributes built by
// string concatenation. It returns "" for rejected URLs.
func SafeURL(raw string) string {
	val, ok := ValidURL(raw)
	if !ok {
		return ""
	}
	return html.EscapeString(val)
}

// ValidURL reports whether raw is a relative, http(s), mailto or tel URL and
// returns it trimmed and unescaped. Callers must escape the value themselves.
func ValidURL(raw string) (string, bool) {
	val := strings.TrimSpace(html.UnescapeString(raw))
	if val == "" {
		return "", false
	}
	if strings.HasPrefix(val, "/") || strings.HasPrefix(val, "#") {
		return val, true
	}
	parsed, err := url.Parse(val)
	if err != nil {
		return "", false
	}
	if parsed.Scheme == "" {
		// relative to the page, e.g. "images/a.png"
		return val, !strings.Contains(val, ":")
	}
	switch strings.ToLower(parsed.Scheme) {
	case "http", "https", "mailto", "tel":
		return val, true
	default:
		return "", false
	}
}
