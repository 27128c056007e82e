package export

import (
	"bytes"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"basegraph.app/storyforge/internal/model"
)

const markdownSeparator = "\n\n---\n\n"

type frontmatter struct {
	ID           string `yaml:"id"`
	Titulo       string `yaml:"titulo"`
	CreatedAt    string `yaml:"created_at"`
	Complexidade int    `yaml:"complexidade"`
}

// Markdown writes each body behind a YAML frontmatter block.
type Markdown struct{}

func (Markdown) Encode(docs []model.Document) ([]byte, error) {
	var buf bytes.Buffer
	for _, doc := range docs {
		meta, err := yaml.Marshal(frontmatter{
			ID:           strconv.FormatInt(doc.ID, 10),
			Titulo:       doc.Title,
			CreatedAt:    doc.CreatedAt.Format(time.RFC3339),
			Complexidade: doc.Complexity,
		})
		if err != nil {
			return nil, err
		}
		buf.WriteString("---\n")
		buf.Write(meta)
		buf.WriteString("---\n\n")
		buf.WriteString(doc.Body)
		buf.WriteString(markdownSeparator)
	}
	return buf.Bytes(), nil
}

func (Markdown) Filename(base, timestamp string) string {
	return filename(base, timestamp, FormatMarkdown)
}

func (Markdown) MIMEType() string { return "text/markdown" }
