package export

import (
	"archive/zip"
	"bytes"
	"fmt"

	"basegraph.app/storyforge/common"
	"basegraph.app/storyforge/internal/model"
)

// Zip bundles one Markdown file per document under historias/.
type Zip struct{}

func (Zip) Encode(docs []model.Document) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	for i, doc := range docs {
		content, err := Markdown{}.Encode([]model.Document{doc})
		if err != nil {
			return nil, err
		}
		w, err := zw.Create(EntryName(i+1, doc.Title))
		if err != nil {
			return nil, err
		}
		if _, err := w.Write(content); err != nil {
			return nil, err
		}
	}

	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Filename ignores base; archives are always named after their timestamp.
func (Zip) Filename(_, timestamp string) string {
	return fmt.Sprintf("historias-%s.zip", timestamp)
}

func (Zip) MIMEType() string { return "application/zip" }

// EntryName is the archive path of the i-th document, counting from 1.
func EntryName(i int, title string) string {
	return fmt.Sprintf("historias/historia-%d-%s.md", i, common.SanitizeFilename(title))
}
