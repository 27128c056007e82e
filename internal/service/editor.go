package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"basegraph.app/storyforge/common/llm"
	"basegraph.app/storyforge/common/logger"
	"basegraph.app/storyforge/internal/form"
	"basegraph.app/storyforge/internal/model"
	"basegraph.app/storyforge/internal/prompt"
	"basegraph.app/storyforge/internal/section"
	"basegraph.app/storyforge/internal/session"
)

const noSignificantChanges = "Sem alterações significativas"

var ErrUnknownSection = errors.New("unknown section key")

var titleHeading = regexp.MustCompile(`(?m)^##[ \t]+\S`)

// EditInput is a user edit of the current document.
type EditInput struct {
	Title string
	Body  string
	Note  string
}

// Sections is the parsed view of the current document used by the editor.
type Sections struct {
	DocumentID int64
	Title      string
	Labels     []string
	Sections   map[string]string
}

type EditorService interface {
	Sections(sess *session.Session) (*Sections, error)
	Save(ctx context.Context, sess *session.Session, in EditInput) (model.Version, error)
	Regenerate(ctx context.Context, sess *session.Session, key string) (session.Regeneration, error)
	ApplyRegeneration(ctx context.Context, sess *session.Session, note string) (model.Version, error)
	RejectRegeneration(ctx context.Context, sess *session.Session)
}

type editorService struct {
	gen       llm.Generator
	maxTokens int
}

func NewEditorService(gen llm.Generator, maxTokens int) EditorService {
	return &editorService{gen: gen, maxTokens: maxTokens}
}

func (s *editorService) Sections(sess *session.Session) (*Sections, error) {
	doc, _, err := sess.Current()
	if err != nil {
		return nil, err
	}
	return &Sections{
		DocumentID: doc.ID,
		Title:      section.ExtractTitle(doc.Body),
		Labels:     section.Default.Labels(doc.Body),
		Sections:   section.ExtractSections(doc.Body),
	}, nil
}

// Save validates the edit, stores it on the current document and appends a
// version summarizing what changed.
func (s *editorService) Save(ctx context.Context, sess *session.Session, in EditInput) (model.Version, error) {
	if errs := ValidateEdit(in); len(errs) > 0 {
		return model.Version{}, errs
	}

	current, history, err := sess.Current()
	if err != nil {
		return model.Version{}, err
	}

	edited := current.Clone()
	edited.Title = strings.TrimSpace(in.Title)
	edited.Body = section.Sanitize(in.Body)
	summary := ChangeSummary(current, edited)

	updated, err := sess.Update(edited)
	if err != nil {
		return model.Version{}, err
	}
	sess.ClearScore()
	v := history.Create(updated, summary, strings.TrimSpace(in.Note))

	ctx = logger.WithLogFields(ctx, logger.LogFields{
		DocumentID:    logger.Ptr(updated.ID),
		VersionNumber: logger.Ptr(v.Number),
		Operation:     logger.Ptr("edit"),
	})
	slog.InfoContext(ctx, "document edited", "summary", summary)
	return v, nil
}

// Regenerate asks the model for a new version of one section. The result is
// kept as a pending preview; nothing changes until it is applied.
func (s *editorService) Regenerate(ctx context.Context, sess *session.Session, key string) (session.Regeneration, error) {
	label, ok := section.LabelForKey(key)
	if !ok {
		return session.Regeneration{}, fmt.Errorf("%w: %q (expected one of %s)",
			ErrUnknownSection, key, strings.Join(section.RegenerableKeys(), ", "))
	}

	doc, _, err := sess.Current()
	if err != nil {
		return session.Regeneration{}, err
	}

	ctx = logger.WithLogFields(ctx, logger.LogFields{
		DocumentID: logger.Ptr(doc.ID),
		Operation:  logger.Ptr("regenerate_section"),
	})

	resp, err := s.gen.Generate(ctx, llm.Request{
		SystemPrompt: prompt.StorySystem,
		Prompt:       prompt.Regeneration(label, doc),
		MaxTokens:    s.maxTokens,
		Temperature:  llm.Temp(0.7),
	})
	if err != nil {
		return session.Regeneration{}, err
	}

	preview := session.Regeneration{
		DocumentID: doc.ID,
		Key:        strings.ToLower(strings.TrimSpace(key)),
		Label:      label,
		Content:    section.Sanitize(resp.Text),
		CreatedAt:  time.Now(),
	}
	sess.SetPending(preview)

	slog.InfoContext(ctx, "section regenerated", "section", preview.Key, "bytes", len(preview.Content))
	return preview, nil
}

// ApplyRegeneration writes the pending preview into the current document and
// records a version. A section missing from the body is not inserted: the
// body stays as it was.
func (s *editorService) ApplyRegeneration(ctx context.Context, sess *session.Session, note string) (model.Version, error) {
	pending, err := sess.Pending()
	if err != nil {
		return model.Version{}, err
	}
	current, history, err := sess.Current()
	if err != nil {
		return model.Version{}, err
	}

	edited := current.Clone()
	edited.Body = section.Lenient.ReplaceSection(current.Body, pending.Label, pending.Content)
	if edited.Body == current.Body {
		slog.WarnContext(ctx, "regenerated section not found in document, body unchanged",
			"section", pending.Key, "label", pending.Label)
	}
	updated, err := sess.Update(edited)
	if err != nil {
		return model.Version{}, err
	}
	sess.ClearPending()
	sess.ClearScore()

	if strings.TrimSpace(note) == "" {
		note = "Regeneração de " + pending.Key
	}
	v := history.Create(updated, "Regenerada seção: "+pending.Key, note)

	ctx = logger.WithLogFields(ctx, logger.LogFields{
		DocumentID:    logger.Ptr(updated.ID),
		VersionNumber: logger.Ptr(v.Number),
		Operation:     logger.Ptr("apply_regeneration"),
	})
	slog.InfoContext(ctx, "regenerated section applied", "section", pending.Key)
	return v, nil
}

func (s *editorService) RejectRegeneration(ctx context.Context, sess *session.Session) {
	if _, err := sess.Pending(); err == nil {
		slog.DebugContext(ctx, "regenerated section rejected")
	}
	sess.ClearPending()
}

// FieldBody keys edit errors on the Markdown body.
const FieldBody = "body"

// ValidateEdit requires a title and a body that carries a "##" title heading.
func ValidateEdit(in EditInput) form.ValidationErrors {
	errs := form.ValidationErrors{}
	if strings.TrimSpace(in.Title) == "" {
		errs[form.FieldTitle] = "Título não pode estar vazio"
	}
	switch {
	case strings.TrimSpace(in.Body) == "":
		errs[FieldBody] = "História não pode estar vazia"
	case !titleHeading.MatchString(in.Body):
		errs[FieldBody] = "Estrutura Markdown inválida: a história precisa de um título \"##\""
	}
	return errs
}

var summaryFields = []struct {
	label   string
	section string
}{
	{"Contexto", section.Context},
	{"Objetivo", section.Objective},
	{"Regras de Negócio", section.BusinessRules},
	{"APIs/Serviços", section.APIs},
	{"Critérios de Aceitação", section.AcceptanceCriteria},
}

// ChangeSummary names the fields that differ between two documents, e.g.
// "Modificou Título, Modificou Contexto".
func ChangeSummary(before, after model.Document) string {
	var changes []string
	if strings.TrimSpace(before.Title) != strings.TrimSpace(after.Title) {
		changes = append(changes, "Modificou Título")
	}

	old := section.ExtractSections(before.Body)
	cur := section.ExtractSections(after.Body)
	for _, f := range summaryFields {
		a, _ := section.Default.Lookup(old, f.section)
		b, _ := section.Default.Lookup(cur, f.section)
		if a != b {
			changes = append(changes, "Modificou "+f.label)
		}
	}

	if len(changes) == 0 {
		return noSignificantChanges
	}
	return strings.Join(changes, ", ")
}
