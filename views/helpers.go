package views

import (
	"encoding/json"
	"net/url"
	"path"
	"strings"
)

// buildURL joins path segments onto a base URL, ensuring a trailing slash.
func buildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join(u.Path, path.Join(pathSegments...))
	if len(pathSegments) > 0 && !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u.String()
}

// WebsiteJsonLD produces a Schema.org WebSite JSON-LD block listing the
// cards as an ItemList.
func WebsiteJsonLD(cfg SiteConfig, cards []Card) string {
	data := map[string]interface{}{
		"@context": "https://schema.org",
		"@type":    "WebSite",
		"name":     cfg.Name,
		"url":      buildURL(cfg.URL),
	}
	if cfg.Description != "" {
		data["description"] = cfg.Description
	}
	if cfg.Author != "" {
		data["author"] = map[string]string{
			"@type": "Person",
			"name":  cfg.Author,
		}
	}
	if len(cards) > 0 {
		items := make([]map[string]interface{}, 0, len(cards))
		for _, c := range cards {
			items = append(items, map[string]interface{}{
				"@type":    "ListItem",
				"position": c.Index + 1,
				"name":     c.Title,
				"url":      buildURL(cfg.URL) + "#" + c.ID,
			})
		}
		data["hasPart"] = map[string]interface{}{
			"@type":           "ItemList",
			"itemListElement": items,
		}
	}
	// json.Marshal escapes <, > and &, so the output is safe inside <script>.
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}
