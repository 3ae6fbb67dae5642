package skin

import (
	"bytes"
	"html/template"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var (
	markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))
	// Page text is written by tenants; everything goldmark emits passes
	// through the user-generated-content policy before it is trusted.
	sanitizer = bluemonday.UGCPolicy()
)

// Markdown renders page text to sanitised HTML. Raw HTML in the source is
// dropped, links keep only safe schemes.
func Markdown(src string) template.HTML {
	src = strings.ReplaceAll(src, "\r\n", "\n")
	if strings.TrimSpace(src) == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		return template.HTML("<p>" + template.HTMLEscapeString(src) + "</p>")
	}
	return template.HTML(sanitizer.SanitizeBytes(buf.Bytes()))
}
