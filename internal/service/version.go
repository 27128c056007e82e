package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"basegraph.app/storyforge/common/logger"
	"basegraph.app/storyforge/internal/model"
	"basegraph.app/storyforge/internal/session"
	"basegraph.app/storyforge/internal/version"
)

// History is the version list of the current document, most recent first.
type History struct {
	DocumentID int64
	Versions   []model.Version
	Stats      version.Stats
}

type VersionService interface {
	History(sess *session.Session) (*History, error)
	Get(sess *session.Session, number int) (model.Version, error)
	Restore(ctx context.Context, sess *session.Session, number int, note string) (model.Version, error)
	Compare(sess *session.Session, a, b int) (version.Comparison, error)
	AddNote(ctx context.Context, sess *session.Session, number int, note string) error
	Export(sess *session.Session) ([]byte, error)
}

type versionService struct{}

func NewVersionService() VersionService {
	return &versionService{}
}

func (s *versionService) History(sess *session.Session) (*History, error) {
	doc, history, err := sess.Current()
	if err != nil {
		return nil, err
	}
	return &History{DocumentID: doc.ID, Versions: history.List(), Stats: history.Stats()}, nil
}

func (s *versionService) Get(sess *session.Session, number int) (model.Version, error) {
	_, history, err := sess.Current()
	if err != nil {
		return model.Version{}, err
	}
	return history.Get(number)
}

// Restore appends the content of version number as a new version and makes
// it the document's content again.
func (s *versionService) Restore(ctx context.Context, sess *session.Session, number int, note string) (model.Version, error) {
	_, history, err := sess.Current()
	if err != nil {
		return model.Version{}, err
	}

	v, err := history.Restore(number, strings.TrimSpace(note))
	if err != nil {
		return model.Version{}, err
	}
	if _, err := sess.Update(v.Content); err != nil {
		return model.Version{}, fmt.Errorf("updating document: %w", err)
	}
	sess.ClearScore()

	ctx = logger.WithLogFields(ctx, logger.LogFields{
		DocumentID:    logger.Ptr(v.Content.ID),
		VersionNumber: logger.Ptr(v.Number),
		Operation:     logger.Ptr("restore"),
	})
	slog.InfoContext(ctx, "version restored", "from_version", number)
	return v, nil
}

func (s *versionService) Compare(sess *session.Session, a, b int) (version.Comparison, error) {
	_, history, err := sess.Current()
	if err != nil {
		return version.Comparison{}, err
	}
	return history.Compare(a, b)
}

func (s *versionService) AddNote(ctx context.Context, sess *session.Session, number int, note string) error {
	_, history, err := sess.Current()
	if err != nil {
		return err
	}
	if !history.AddNote(number, strings.TrimSpace(note)) {
		return fmt.Errorf("%w: %d", version.ErrNotFound, number)
	}
	slog.DebugContext(ctx, "version note updated", "version", number)
	return nil
}

func (s *versionService) Export(sess *session.Session) ([]byte, error) {
	_, history, err := sess.Current()
	if err != nil {
		return nil, err
	}
	return history.ExportJSON()
}
