package newscards

import (
	"context"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/eringen/newscards/loader"
	"github.com/eringen/newscards/markdown"
)

func TestNewCard(t *testing.T) {
	r := markdown.NewRenderer()
	card, err := NewCard(0, loader.Post{Title: "Hi There", Image: "https://example.com/a.png", BodyMarkdown: "# Hi"}, r, 100)
	if err != nil {
		t.Fatalf("NewCard: %v", err)
	}
	if card.ID != "post-1-hi-there" {
		t.Errorf("ID = %q, want post-1-hi-there", card.ID)
	}
	if card.Excerpt != "Hi" {
		t.Errorf("Excerpt = %q, want Hi", card.Excerpt)
	}
	if string(card.HTML) != "<h1>Hi</h1>\n" {
		t.Errorf("HTML = %q", card.HTML)
	}
	if card.Image != "https://example.com/a.png" {
		t.Errorf("Image = %q", card.Image)
	}
}

func TestNewCardDropsUnsafeImage(t *testing.T) {
	r := markdown.NewRenderer()
	for _, img := range []string{"javascript:alert(1)", "data:image/png;base64,AAAA", "vbscript:x"} {
		card, err := NewCard(0, loader.Post{Title: "X", Image: img}, r, 100)
		if err != nil {
			t.Fatalf("NewCard: %v", err)
		}
		if card.Image != "" {
			t.Errorf("NewCard(image %q).Image = %q, want empty", img, card.Image)
		}
	}
}

func TestNewCardEmptyBody(t *testing.T) {
	card, err := NewCard(2, loader.Post{Title: "!!!"}, markdown.NewRenderer(), 100)
	if err != nil {
		t.Fatalf("NewCard: %v", err)
	}
	if card.ID != "post-3" {
		t.Errorf("ID = %q, want post-3", card.ID)
	}
	if card.Excerpt != "" || card.HTML != "" {
		t.Errorf("card = %+v, want empty excerpt and HTML", card)
	}
}

func TestNewCardExcerptBudget(t *testing.T) {
	body := strings.Repeat("lorem ipsum ", 40)
	card, err := NewCard(0, loader.Post{Title: "Long", BodyMarkdown: body}, markdown.NewRenderer(), 100)
	if err != nil {
		t.Fatalf("NewCard: %v", err)
	}
	if n := len([]rune(card.Excerpt)); n > 103 {
		t.Errorf("excerpt is %d runes, want at most 103", n)
	}
	if !strings.HasSuffix(card.Excerpt, "...") {
		t.Errorf("Excerpt = %q, want trailing ...", card.Excerpt)
	}
}

func TestLoadCardsKeepsOrder(t *testing.T) {
	fsys := fstest.MapFS{
		"posts/post.json": {Data: []byte(`[{"title":"A","content":"a"},{"title":"B","content":"b"},{"title":"C","content":"c"}]`)},
	}
	a := New(SiteConfig{RateLimit: -1}, WithFetcher(loader.NewFSFetcher(fsys)))
	cards, err := a.LoadCards(context.Background())
	if err != nil {
		t.Fatalf("LoadCards: %v", err)
	}
	var titles []string
	for i, c := range cards {
		if c.Index != i {
			t.Errorf("cards[%d].Index = %d", i, c.Index)
		}
		titles = append(titles, c.Title)
	}
	if got := strings.Join(titles, ","); got != "A,B,C" {
		t.Errorf("titles = %s, want A,B,C", got)
	}
}

func TestLoadPostsReportsSource(t *testing.T) {
	fsys := fstest.MapFS{
		"posts/example-post.md": {Data: []byte("---\ntitle: Fallback\n---\nbody")},
	}
	a := New(SiteConfig{RateLimit: -1}, WithFetcher(loader.NewFSFetcher(fsys)))
	res, err := a.LoadPosts(context.Background())
	if err != nil {
		t.Fatalf("LoadPosts: %v", err)
	}
	if res.Source != loader.SourceFallback {
		t.Errorf("Source = %q, want %q", res.Source, loader.SourceFallback)
	}
	if len(res.Posts) != 1 || res.Posts[0].Title != "Fallback" {
		t.Errorf("Posts = %+v", res.Posts)
	}
}
