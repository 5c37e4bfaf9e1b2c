package core

import (
	"bytes"
	"html/template"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"
)

// Raw HTML in the source is escaped by goldmark (WithUnsafe is not set) and
// the output is sanitized again with the UGC policy.
var (
	mdRenderer = goldmark.New(goldmark.WithRendererOptions(goldmarkHTML.WithHardWraps()))
	mdPolicy   = bluemonday.UGCPolicy()
)

// Markdown renders owner-authored markdown to sanitized HTML.
func Markdown(src string) template.HTML {
	var buf bytes.Buffer
	if err := mdRenderer.Convert([]byte(src), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(src)) // #nosec G203 -- escaped above
	}
	// #nosec G203 -- sanitized by bluemonday
	return template.HTML(mdPolicy.SanitizeBytes(buf.Bytes()))
}
