package views

// SiteConfig holds the site-wide settings templates need.
type SiteConfig struct {
	Name        string // NEWSCARDS_SITE_NAME (default "News")
	URL         string // NEWSCARDS_SITE_URL  (default "http://localhost:3000")
	Description string // NEWSCARDS_SITE_DESCRIPTION
	Author      string
}

// PageMeta carries per-page OpenGraph and SEO metadata into the page <head>.
type PageMeta struct {
	Title       string
	Description string
	URL         string // canonical + og:url
	OGType      string // "website" or "article"
}

// Card is one post as shown on the home page. HTML is the full sanitized
// body copied into the modal when the card is clicked.
type Card struct {
	Index   int    `json:"index"`
	ID      string `json:"id"`
	Title   string `json:"title"`
	Image   string `json:"image,omitempty"`
	Excerpt string `json:"excerpt"`
	HTML    string `json:"html"` // sanitized, written unescaped
}

// HomePage is the data for the card listing.
type HomePage struct {
	Site   SiteConfig
	Meta   PageMeta
	Cards  []Card
	JSONLD string
}
