// Package templates embeds the server-rendered views.
package templates

import "embed"

//go:embed layouts/*.html partials/*.html *.html
var FS embed.FS
