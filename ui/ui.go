// Package ui embeds the templates and static assets into the binary so the
// server runs from any working directory.
package ui

import "embed"

//go:embed templates static
var Files embed.FS
