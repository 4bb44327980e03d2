// Package mmksso provides embedded assets for production builds.
package mmksso

import "embed"

// Embedded assets for production builds.
// In dev mode (IsDev=true), assets are loaded from disk so template edits show up on reload.

//go:embed all:web/static
var StaticFS embed.FS

//go:embed all:web/templates
var TemplateFS embed.FS
