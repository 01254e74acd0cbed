// Package markdown renders Markdown to HTML as a templ component. It
// uses goldmark with the GFM extensions, so tables, strikethrough,
// autolinks, and task lists work. Raw HTML in the source is dropped by
// goldmark's default policy, keeping the output safe to embed.
package markdown

import (
	"context"
	"io"

	"github.com/a-h/templ"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
)

var md = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithParserOptions(
		parser.WithAutoHeadingID(),
	),
)

// Render writes the HTML representation of source to w.
func Render(w io.Writer, source string) error {
	return md.Convert([]byte(source), w)
}

// Markdown returns a templ.Component that renders content as HTML.
func Markdown(content string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return Render(w, content)
	})
}
