// Package web provides embedded static assets. The only asset is the
// fallback stylesheet written when the PicoCSS CDN cannot be reached.
package web

import "embed"

// FallbackCSS is the path of the bundled fallback stylesheet inside StaticFS.
const FallbackCSS = "static/fallback.css"

// StaticFS embeds the web/static/ directory tree.
//
//go:embed all:static
var StaticFS embed.FS
