package export

import (
	"bytes"
	"encoding/json"

	"basegraph.app/storyforge/internal/model"
)

// JSON writes a single document as an object and several as an array.
type JSON struct{}

func (JSON) Encode(docs []model.Document) ([]byte, error) {
	var v any = docs
	if len(docs) == 1 {
		v = docs[0]
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func (JSON) Filename(base, timestamp string) string { return filename(base, timestamp, FormatJSON) }
func (JSON) MIMEType() string                       { return "application/json" }
