package ui

import "embed"

// Assets holds the page templates, stylesheets and markdown panels
//
//go:embed templates/*.html static content/*.md
var Assets embed.FS
