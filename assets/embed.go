// Package assets embeds the static files served under /assets.
package assets

import "embed"

//go:embed *.css
var FS embed.FS
