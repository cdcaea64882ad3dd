// Package markdown renders post and page bodies to sanitized HTML.
package markdown

import (
	"bytes"
	"html/template"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// WordsPerMinute is the reading speed used for ReadingTime.
const WordsPerMinute = 200

var (
	engine = goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Linkify, extension.Table),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(html.WithHardWraps(), html.WithXHTML(), html.WithUnsafe()),
	)
	sanitizer = embedPolicy()
)

// Render converts markdown to HTML and strips anything the UGC policy does not allow.
// Raw HTML passes through goldmark and is left to the sanitizer.
func Render(content string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := engine.Convert([]byte(expandVideoEmbeds(content)), &buf); err != nil {
		return "", err
	}
	safe := sanitizer.SanitizeBytes(buf.Bytes())
	return template.HTML(safe), nil
}

// ReadingTime estimates minutes needed to read content; non-empty content is at least one minute.
func ReadingTime(content string) int {
	words := len(strings.Fields(content))
	if words == 0 {
		return 0
	}
	minutes := (words + WordsPerMinute - 1) / WordsPerMinute
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}
