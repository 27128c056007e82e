package export

import (
	"regexp"
	"strings"

	"basegraph.app/storyforge/internal/model"
)

var (
	headingMarks = regexp.MustCompile(`#{1,6}\s+`)
	boldMarks    = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	italicMarks  = regexp.MustCompile(`__([^_]+)__`)
	fenceOpen    = regexp.MustCompile("```[^\n]*\n")
)

var textSeparator = "\n\n" + strings.Repeat("=", 80) + "\n\n"

// Text writes each body with Markdown markup removed, followed by a separator line.
type Text struct{}

func (Text) Encode(docs []model.Document) ([]byte, error) {
	var b strings.Builder
	for _, doc := range docs {
		b.WriteString(StripMarkdown(doc.Body))
		b.WriteString(textSeparator)
	}
	return []byte(b.String()), nil
}

func (Text) Filename(base, timestamp string) string { return filename(base, timestamp, FormatText) }
func (Text) MIMEType() string                       { return "text/plain" }

// StripMarkdown removes heading marks, bold and underscore emphasis, and code fences.
func StripMarkdown(s string) string {
	s = headingMarks.ReplaceAllString(s, "")
	s = boldMarks.ReplaceAllString(s, "$1")
	s = italicMarks.ReplaceAllString(s, "$1")
	s = fenceOpen.ReplaceAllString(s, "")
	return strings.ReplaceAll(s, "```", "")
}
