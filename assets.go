// Package salonadmin provides embedded assets for production builds.
package salonadmin

import "embed"

// In dev mode templates and static files are read from disk so edits show up
// without a rebuild; otherwise they are served from these filesystems.

//go:embed all:frontend/static
var StaticFS embed.FS

//go:embed all:frontend/templates
var TemplateFS embed.FS
