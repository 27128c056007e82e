// Package export encodes story documents for download.
package export

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"basegraph.app/storyforge/common"
	"basegraph.app/storyforge/internal/model"
)

// TimestampLayout formats the timestamp part of export filenames.
const TimestampLayout = "20060102-150405"

type Format string

const (
	FormatText     Format = "txt"
	FormatMarkdown Format = "md"
	FormatJSON     Format = "json"
	FormatExcel    Format = "xlsx"
	FormatZip      Format = "zip"
)

var (
	ErrUnknownFormat = errors.New("unknown export format")
	ErrNoDocuments   = errors.New("no documents to export")
)

// Encoder turns one or more documents into a downloadable file.
type Encoder interface {
	Encode(docs []model.Document) ([]byte, error)
	Filename(base, timestamp string) string
	MIMEType() string
}

var encoders = map[Format]Encoder{
	FormatText:     Text{},
	FormatMarkdown: Markdown{},
	FormatJSON:     JSON{},
	FormatExcel:    Excel{},
	FormatZip:      Zip{},
}

// For returns the encoder registered for format. Format names are case-insensitive.
func For(format string) (Encoder, error) {
	enc, ok := encoders[Format(strings.ToLower(strings.TrimSpace(format)))]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	return enc, nil
}

// Formats lists the registered formats in a stable order.
func Formats() []Format {
	out := make([]Format, 0, len(encoders))
	for f := range encoders {
		out = append(out, f)
	}
	slices.Sort(out)
	return out
}

// File is an encoded export ready to be served.
type File struct {
	Name     string
	MIMEType string
	Data     []byte
}

// Export encodes docs with the encoder for format. The filename base is the
// sanitized title of the first document.
func Export(format string, docs []model.Document, at time.Time) (*File, error) {
	if len(docs) == 0 {
		return nil, ErrNoDocuments
	}
	enc, err := For(format)
	if err != nil {
		return nil, err
	}
	data, err := enc.Encode(docs)
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", format, err)
	}
	return &File{
		Name:     enc.Filename(common.SanitizeFilename(docs[0].Title), Timestamp(at)),
		MIMEType: enc.MIMEType(),
		Data:     data,
	}, nil
}

func Timestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}

func filename(base, timestamp string, ext Format) string {
	return fmt.Sprintf("%s-%s.%s", base, timestamp, ext)
}
