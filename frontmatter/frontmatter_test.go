package frontmatter

import "testing"

func TestExtractParsesPairs(t *testing.T) {
	raw := "---\ntitle: Hello World\nimage: https://example.com/a.png\n---\n# Body\n\ntext"
	fm, body := Extract(raw)
	if got := fm["title"]; got != "Hello World" {
		t.Errorf("title = %q, want %q", got, "Hello World")
	}
	if got := fm["image"]; got != "https://example.com/a.png" {
		t.Errorf("image = %q, want %q", got, "https://example.com/a.png")
	}
	if body != "# Body\n\ntext" {
		t.Errorf("body = %q, want %q", body, "# Body\n\ntext")
	}
}

func TestExtractValues(t *testing.T) {
	tests := []struct {
		line string
		key  string
		want string
	}{
		{`title: "Quoted"`, "title", "Quoted"},
		{`title: 'Single'`, "title", "Single"},
		{`title: "unbalanced'`, "title", `"unbalanced'`},
		{`time: 10:30`, "time", "10:30"},
		{`  spaced  :   value  `, "spaced", "value"},
		{`empty:`, "empty", ""},
		{`title: ""`, "title", ""},
	}
	for _, tt := range tests {
		fm, _ := Extract("---\n" + tt.line + "\n---\n")
		if got := fm[tt.key]; got != tt.want {
			t.Errorf("Extract(%q)[%q] = %q, want %q", tt.line, tt.key, got, tt.want)
		}
	}
}

func TestExtractLastKeyWins(t *testing.T) {
	fm, _ := Extract("---\ntitle: first\ntitle: second\n---\nbody")
	if got := fm["title"]; got != "second" {
		t.Errorf("title = %q, want %q", got, "second")
	}
}

func TestExtractSkipsMalformedLines(t *testing.T) {
	fm, _ := Extract("---\nno colon here\n: novalue\n\ntitle: ok\n---\n")
	if len(fm) != 1 {
		t.Errorf("len(fm) = %d, want 1 (%v)", len(fm), fm)
	}
}

func TestExtractWithoutFrontmatter(t *testing.T) {
	tests := []string{
		"# Just a heading",
		"",
		"text\n---\ntitle: x\n---\n",
		"---\ntitle: unterminated\nbody",
		"---",
		"----\ntitle: x\n----\n",
	}
	for _, raw := range tests {
		fm, body := Extract(raw)
		if len(fm) != 0 {
			t.Errorf("Extract(%q) fm = %v, want empty", raw, fm)
		}
		if body != raw {
			t.Errorf("Extract(%q) body = %q, want input unchanged", raw, body)
		}
	}
}

func TestExtractCRLFAndBOM(t *testing.T) {
	raw := "\ufeff---\r\ntitle: Windows\r\n---\r\nbody\r\n"
	fm, body := Extract(raw)
	if got := fm["title"]; got != "Windows" {
		t.Errorf("title = %q, want %q", got, "Windows")
	}
	if body != "body\r\n" {
		t.Errorf("body = %q, want %q", body, "body\r\n")
	}
}

func TestExtractClosingDelimiterAtEOF(t *testing.T) {
	fm, body := Extract("---\ntitle: x\n---")
	if fm["title"] != "x" || body != "" {
		t.Errorf("Extract = (%v, %q), want (title=x, \"\")", fm, body)
	}
}

func TestExtractIsIdempotent(t *testing.T) {
	inputs := []string{
		"---\ntitle: a\n---\n# Heading\n\n---\n\nafter rule",
		"---\ntitle: a\n---\n\n---\nnot: frontmatter\n---\n",
		"plain body",
		"---\n---\nempty block",
	}
	for _, raw := range inputs {
		_, once := Extract(raw)
		_, twice := Extract(once)
		if once != twice {
			t.Errorf("Extract not idempotent for %q: %q then %q", raw, once, twice)
		}
	}
}

func TestGet(t *testing.T) {
	fm := Frontmatter{"title": "Hi", "image": "  "}
	if got := fm.Get("title", "Untitled"); got != "Hi" {
		t.Errorf("Get(title) = %q, want %q", got, "Hi")
	}
	if got := fm.Get("image", "none"); got != "none" {
		t.Errorf("Get(image) = %q, want %q", got, "none")
	}
	if got := fm.Get("missing", "Untitled"); got != "Untitled" {
		t.Errorf("Get(missing) = %q, want %q", got, "Untitled")
	}
}

// A body that itself opens with a complete block is not a fixed point:
// the second Extract consumes that block too.
func TestExtractBodyStartingWithBlock(t *testing.T) {
	raw := "---\ntitle: a\n---\n---\nb: c\n---\nbody"

	fm, once := Extract(raw)
	if fm.Get("title", "") != "a" {
		t.Errorf("first Extract title = %q, want %q", fm.Get("title", ""), "a")
	}
	if want := "---\nb: c\n---\nbody"; once != want {
		t.Errorf("first Extract body = %q, want %q", once, want)
	}

	fm, twice := Extract(once)
	if fm.Get("b", "") != "c" {
		t.Errorf("second Extract b = %q, want %q", fm.Get("b", ""), "c")
	}
	if twice != "body" {
		t.Errorf("second Extract body = %q, want %q", twice, "body")
	}
}
