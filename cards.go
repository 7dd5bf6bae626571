package newscards

import (
	"context"
	"strconv"

	"github.com/eringen/newscards/loader"
	"github.com/eringen/newscards/markdown"
	"github.com/eringen/newscards/views"
)

// LoadPosts runs one load cycle. The returned error is only ever a context
// error; fetch failures degrade to fewer posts.
func (a *App) LoadPosts(ctx context.Context) (loader.Result, error) {
	if err := a.Init(); err != nil {
		return loader.Result{}, err
	}
	res, err := a.Loader.Load(ctx)
	if err != nil {
		return loader.Result{}, err
	}
	a.Log.Debug().
		Str("source", string(res.Source)).
		Int("posts", len(res.Posts)).
		Strs("skipped", res.Skipped).
		Msg("posts loaded")
	return res, nil
}

// LoadCards loads posts and renders them into cards.
func (a *App) LoadCards(ctx context.Context) ([]views.Card, error) {
	res, err := a.LoadPosts(ctx)
	if err != nil {
		return nil, err
	}
	return a.BuildCards(res.Posts), nil
}

// BuildCards renders posts into cards, one per post, in order. A post whose
// body cannot be rendered is logged and left out.
func (a *App) BuildCards(posts []loader.Post) []views.Card {
	cards := make([]views.Card, 0, len(posts))
	for i, p := range posts {
		card, err := NewCard(i, p, a.Renderer, a.Config.ExcerptLength)
		if err != nil {
			a.Log.Warn().Err(err).Str("title", p.Title).Msg("skipping post")
			continue
		}
		cards = append(cards, card)
	}
	return cards
}

// NewCard renders post into the card at position index.
func NewCard(index int, post loader.Post, r *markdown.Renderer, excerptLength int) (views.Card, error) {
	body, err := r.Render(post.BodyMarkdown)
	if err != nil {
		return views.Card{}, err
	}
	image, ok := markdown.ValidURL(post.Image)
	if !ok {
		image = ""
	}
	return views.Card{
		Index:   index,
		ID:      cardID(index, post.Title),
		Title:   post.Title,
		Image:   image,
		Excerpt: markdown.Excerpt(body, excerptLength),
		HTML:    body,
	}, nil
}

// cardID returns a DOM id unique within one page.
func cardID(index int, title string) string {
	id := "post-" + strconv.Itoa(index+1)
	if slug := Slugify(title); slug != "" {
		id += "-" + slug
	}
	return id
}
