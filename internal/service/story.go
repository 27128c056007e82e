package service

import (
	"context"
	"fmt"
	"log/slog"

	"basegraph.app/storyforge/common/llm"
	"basegraph.app/storyforge/common/logger"
	"basegraph.app/storyforge/internal/form"
	"basegraph.app/storyforge/internal/model"
	"basegraph.app/storyforge/internal/prompt"
	"basegraph.app/storyforge/internal/section"
	"basegraph.app/storyforge/internal/session"
)

const (
	generatedSummary = "Versão inicial gerada pela IA"
	openedSummary    = "Versão inicial"
)

// GeneratedStory is a freshly generated document with its first version.
type GeneratedStory struct {
	Document model.Document
	Version  model.Version
	Warnings []string
}

type StoryService interface {
	Validate(in model.StoryInput) form.Result
	Generate(ctx context.Context, sess *session.Session, in model.StoryInput) (*GeneratedStory, error)
	List(sess *session.Session) ([]model.Document, session.Stats)
	Get(sess *session.Session, docID int64) (model.Document, error)
	Open(ctx context.Context, sess *session.Session, docID int64) (model.Document, model.Version, error)
	Delete(ctx context.Context, sess *session.Session, docID int64) error
	Clear(ctx context.Context, sess *session.Session) int
}

type storyService struct {
	gen       llm.Generator
	maxTokens int
}

func NewStoryService(gen llm.Generator, maxTokens int) StoryService {
	return &storyService{gen: gen, maxTokens: maxTokens}
}

func (s *storyService) Validate(in model.StoryInput) form.Result {
	return form.Validate(in)
}

func (s *storyService) Generate(ctx context.Context, sess *session.Session, in model.StoryInput) (*GeneratedStory, error) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		Operation: logger.Ptr("generate"),
		Component: "storyforge.service.story",
	})

	result := form.Validate(in)
	if !result.Valid() {
		return nil, result.Err()
	}
	in = result.Input

	resp, err := s.gen.Generate(ctx, llm.Request{
		SystemPrompt: prompt.StorySystem,
		Prompt:       prompt.Story(in),
		MaxTokens:    s.maxTokens,
		Temperature:  llm.Temp(0.7),
	})
	if err != nil {
		return nil, err
	}

	doc, err := sess.Add(model.Document{
		Title:              in.Title,
		Body:               section.Sanitize(resp.Text),
		BusinessRules:      in.BusinessRules,
		APIs:               in.APIs,
		Objectives:         in.Objectives,
		Complexity:         in.Complexity,
		AcceptanceCriteria: in.AcceptanceCriteria,
		APISpec:            in.APISpec,
	})
	if err != nil {
		return nil, fmt.Errorf("storing document: %w", err)
	}

	_, history, err := sess.Open(doc.ID)
	if err != nil {
		return nil, fmt.Errorf("opening document: %w", err)
	}
	v := history.Create(doc, generatedSummary, "")

	ctx = logger.WithLogFields(ctx, logger.LogFields{DocumentID: logger.Ptr(doc.ID)})
	slog.InfoContext(ctx, "story generated",
		"title", logger.Truncate(doc.Title, 80),
		"complexity", doc.Complexity,
		"body_bytes", len(doc.Body),
		"warnings", len(result.Warnings))

	return &GeneratedStory{Document: doc, Version: v, Warnings: result.Warnings}, nil
}

func (s *storyService) List(sess *session.Session) ([]model.Document, session.Stats) {
	return sess.List(), sess.Stats()
}

func (s *storyService) Get(sess *session.Session, docID int64) (model.Document, error) {
	return sess.Get(docID)
}

// Open makes a document current. A document opened for the first time gets
// its first version; later opens keep the existing history.
func (s *storyService) Open(ctx context.Context, sess *session.Session, docID int64) (model.Document, model.Version, error) {
	doc, history, err := sess.Open(docID)
	if err != nil {
		return model.Document{}, model.Version{}, err
	}
	if history.Count() == 0 {
		history.Create(doc, openedSummary, "")
	}
	current, _ := history.Current()

	slog.DebugContext(ctx, "document opened", "document_id", docID, "versions", history.Count())
	return doc, current, nil
}

func (s *storyService) Delete(ctx context.Context, sess *session.Session, docID int64) error {
	if err := sess.Delete(docID); err != nil {
		return err
	}
	slog.InfoContext(ctx, "document deleted", "document_id", docID)
	return nil
}

func (s *storyService) Clear(ctx context.Context, sess *session.Session) int {
	n := sess.Clear()
	slog.InfoContext(ctx, "session cleared", "documents", n)
	return n
}
