package views

import (
	"context"
	"io"
	"net/http"
	"strconv"

	"github.com/a-h/templ"

	"github.com/eringen/newscards/markdown"
)

// printer writes HTML fragments and keeps the first write error.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) raw(parts ...string) {
	for _, s := range parts {
		if p.err != nil {
			return
		}
		_, p.err = io.WriteString(p.w, s)
	}
}

// text writes s HTML-escaped. Safe in element content and quoted attributes.
func (p *printer) text(s string) {
	p.raw(templ.EscapeString(s))
}

// layout wraps content in the shared page shell.
func layout(site SiteConfig, meta PageMeta, content templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p := &printer{w: w}
		p.raw("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n",
			"<meta charset=\"utf-8\">\n",
			"<meta name=\"viewport\" content=\"width=device-width, initial-scale=1\">\n",
			"<title>")
		p.text(meta.Title)
		p.raw("</title>\n")
		if meta.Description != "" {
			p.raw(`<meta name="description" content="`)
			p.text(meta.Description)
			p.raw("\">\n")
		}
		p.raw(`<link rel="canonical" href="`)
		p.text(meta.URL)
		p.raw("\">\n", `<meta property="og:title" content="`)
		p.text(meta.Title)
		p.raw("\">\n", `<meta property="og:type" content="`)
		p.text(meta.OGType)
		p.raw("\">\n", `<meta property="og:url" content="`)
		p.text(meta.URL)
		p.raw("\">\n", `<link rel="alternate" type="application/rss+xml" title="`)
		p.text(site.Name)
		p.raw("\" href=\"/feed.xml\">\n",
			"<link rel=\"icon\" href=\"/public/favicon.svg\" type=\"image/svg+xml\">\n",
			"<link rel=\"stylesheet\" href=\"/public/newscards.css\">\n",
			"</head>\n<body>\n<header class=\"site-header\">\n<a href=\"/\" class=\"site-name\">")
		p.text(site.Name)
		p.raw("</a>\n</header>\n<main>\n")
		if p.err != nil {
			return p.err
		}
		if err := content.Render(ctx, w); err != nil {
			return err
		}
		p.raw("</main>\n</body>\n</html>\n")
		return p.err
	})
}

// Home renders the card listing with its modal.
func Home(page HomePage) templ.Component {
	if page.Meta.Title == "" {
		page.Meta.Title = page.Site.Name
	}
	if page.Meta.Description == "" {
		page.Meta.Description = page.Site.Description
	}
	if page.Meta.URL == "" {
		page.Meta.URL = buildURL(page.Site.URL)
	}
	if page.Meta.OGType == "" {
		page.Meta.OGType = "website"
	}
	return layout(page.Site, page.Meta, homeContent(page))
}

func homeContent(page HomePage) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p := &printer{w: w}
		if page.Site.Description != "" {
			p.raw(`<p class="site-description">`)
			p.text(page.Site.Description)
			p.raw("</p>\n")
		}
		p.raw("<div id=\"posts-container\" class=\"posts\">\n")
		for _, c := range page.Cards {
			writeCard(p, c)
		}
		p.raw("</div>\n",
			"<div id=\"newsModal\" class=\"modal\" style=\"display: none\" role=\"dialog\" aria-modal=\"true\" aria-labelledby=\"modalTitle\">\n",
			"<div class=\"modal-content\">\n",
			"<button type=\"button\" class=\"modal-close\" aria-label=\"Close\">&times;</button>\n",
			"<h2 id=\"modalTitle\"></h2>\n",
			"<div id=\"modalBody\"></div>\n",
			"</div>\n</div>\n")
		if page.JSONLD != "" {
			p.raw(`<script type="application/ld+json">`, page.JSONLD, "</script>\n")
		}
		p.raw("<script src=\"/public/newscards.js\" defer></script>\n")
		return p.err
	})
}

// writeCard writes one card. The full body goes into a <template> that the
// modal script copies into #modalBody.
func writeCard(p *printer, c Card) {
	bodyID := c.ID + "-body"
	p.raw(`<div class="card" id="`)
	p.text(c.ID)
	p.raw(`" role="button" tabindex="0" data-title="`)
	p.text(c.Title)
	p.raw(`" data-body="`)
	p.text(bodyID)
	p.raw("\">\n")
	if src := markdown.SafeURL(c.Image); src != "" {
		p.raw(`<img src="`, src, `" alt="`)
		p.text(c.Title)
		p.raw("\" loading=\"lazy\">\n")
	}
	p.raw("<div class=\"card-content\">\n<h3>")
	p.text(c.Title)
	p.raw("</h3>\n<p>")
	p.text(c.Excerpt)
	p.raw("</p>\n</div>\n", `<template id="`)
	p.text(bodyID)
	// HTML is sanitized by markdown.Renderer
	p.raw(`">`, c.HTML, "</template>\n</div>\n")
}

// NotFound renders the 404 page.
func NotFound(site SiteConfig) templ.Component {
	return errorPage(site, http.StatusNotFound, "Page not found", "The page you are looking for does not exist.")
}

// ServerError renders the 500 page.
func ServerError(site SiteConfig) templ.Component {
	return errorPage(site, http.StatusInternalServerError, "Something went wrong", "Please try again in a moment.")
}

func errorPage(site SiteConfig, code int, heading, message string) templ.Component {
	meta := PageMeta{
		Title:  heading + " | " + site.Name,
		URL:    buildURL(site.URL),
		OGType: "website",
	}
	return layout(site, meta, templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p := &printer{w: w}
		p.raw("<section class=\"error-page\">\n<p class=\"error-code\">", strconv.Itoa(code), "</p>\n<h1>")
		p.text(heading)
		p.raw("</h1>\n<p>")
		p.text(message)
		p.raw("</p>\n<p><a href=\"/\">Back to all posts</a></p>\n</section>\n")
		return p.err
	}))
}
