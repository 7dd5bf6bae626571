package newscards

import "embed"

// EmbeddedAssets contains static assets shipped with the app:
// newscards.js (card modal), newscards.css, favicon.svg
//
//go:embed embedded/*
var EmbeddedAssets embed.FS
