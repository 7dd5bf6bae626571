// Package frontmatter splits a markdown document into its leading
// "---" delimited metadata block and the remaining body.
package frontmatter

import "strings"

const delimiter = "---"

// Frontmatter holds the key/value pairs of a metadata block.
// Duplicate keys resolve to the last value seen.
type Frontmatter map[string]string

// Get returns the value for key, or fallback if the key is missing or blank.
func (f Frontmatter) Get(key, fallback string) string {
	if v := strings.TrimSpace(f[key]); v != "" {
		return v
	}
	return fallback
}

// Extract detects a frontmatter block at the very start of raw and returns
// its parsed pairs together with the text that follows the closing
// delimiter line. When raw has no complete block, the returned map is empty
// and the body is raw unchanged.
func Extract(raw string) (Frontmatter, string) {
	text := strings.TrimPrefix(raw, "\ufeff")

	first, rest, ok := cutLine(text)
	if !ok || !isDelimiter(first) {
		return Frontmatter{}, raw
	}

	var lines []string
	for {
		line, next, found := cutLine(rest)
		if isDelimiter(line) {
			return parse(lines), next
		}
		if !found {
			// unterminated block
			return Frontmatter{}, raw
		}
		lines = append(lines, line)
		rest = next
	}
}

func parse(lines []string) Frontmatter {
	fm := make(Frontmatter, len(lines))
	for _, line := range lines {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		fm[key] = unquote(strings.TrimSpace(value))
	}
	return fm
}

func unquote(v string) string {
	if len(v) >= 2 {
		q := v[0]
		if (q == '"' || q == '\'') && v[len(v)-1] == q {
			return v[1 : len(v)-1]
		}
	}
	return v
}

func isDelimiter(line string) bool {
	return strings.TrimRight(line, " \t") == delimiter
}

// cutLine splits s at the first newline, dropping a trailing carriage return
// from the line. found reports whether a newline was present.
func cutLine(s string) (line, rest string, found bool) {
	i := strings.IndexByte(s, '\n')
	if i < 0 {
		return strings.TrimSuffix(s, "\r"), "", false
	}
	return strings.TrimSuffix(s[:i], "\r"), s[i+1:], true
}
