package service

import (
	"context"
	"log/slog"
	"time"

	"basegraph.app/storyforge/internal/export"
	"basegraph.app/storyforge/internal/model"
	"basegraph.app/storyforge/internal/session"
)

type ExportService interface {
	Export(ctx context.Context, sess *session.Session, format string, ids []int64) (*export.File, error)
}

type exportService struct {
	now func() time.Time
}

func NewExportService() ExportService {
	return &exportService{now: time.Now}
}

// Export encodes the selected documents, or every document when ids is empty.
func (s *exportService) Export(ctx context.Context, sess *session.Session, format string, ids []int64) (*export.File, error) {
	var docs []model.Document
	if len(ids) == 0 {
		docs = sess.List()
	} else {
		docs = make([]model.Document, 0, len(ids))
		for _, docID := range ids {
			doc, err := sess.Get(docID)
			if err != nil {
				return nil, err
			}
			docs = append(docs, doc)
		}
	}

	file, err := export.Export(format, docs, s.now())
	if err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "documents exported",
		"format", format,
		"documents", len(docs),
		"filename", file.Name,
		"bytes", len(file.Data))
	return file, nil
}
