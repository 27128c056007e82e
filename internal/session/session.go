// Package session holds the in-process state of one user: generated
// documents, per-document version history, the current document, the last
// INVEST score and any regeneration preview awaiting a decision.
package session

import (
	"errors"
	"slices"
	"sync"
	"time"

	"basegraph.app/storyforge/common/id"
	"basegraph.app/storyforge/internal/model"
	"basegraph.app/storyforge/internal/version"
)

const DefaultMaxDocuments = 100

var (
	ErrDocumentNotFound  = errors.New("document not found")
	ErrSessionFull       = errors.New("session document limit reached")
	ErrNoCurrentDocument = errors.New("no current document")
	ErrNoPending         = errors.New("no pending regeneration")
)

// Regeneration is a regenerated section shown to the user before it is applied.
type Regeneration struct {
	DocumentID int64     `json:"document_id,string"`
	Key        string    `json:"key"`
	Label      string    `json:"label"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
}

// Session is not safe for concurrent use on its own. Callers serialize
// access with Lock and Unlock; the HTTP layer holds the lock for the
// duration of a request.
type Session struct {
	ID string

	mu        sync.Mutex
	docs      []model.Document
	histories map[int64]*version.Store
	currentID int64
	score     *model.InvestScore
	pending   *Regeneration

	maxDocs    int
	versionCap int
	now        func() time.Time
}

type Option func(*Session)

func WithMaxDocuments(n int) Option {
	return func(s *Session) {
		if n > 0 {
			s.maxDocs = n
		}
	}
}

func WithVersionCapacity(n int) Option {
	return func(s *Session) {
		if n > 0 {
			s.versionCap = n
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		s.now = now
	}
}

func New(sessionID string, opts ...Option) *Session {
	s := &Session{
		ID:         sessionID,
		histories:  make(map[int64]*version.Store),
		maxDocs:    DefaultMaxDocuments,
		versionCap: version.DefaultCapacity,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Session) Lock()   { s.mu.Lock() }
func (s *Session) Unlock() { s.mu.Unlock() }

// Add stores a new document, assigning an ID and timestamps.
func (s *Session) Add(doc model.Document) (model.Document, error) {
	if len(s.docs) >= s.maxDocs {
		return model.Document{}, ErrSessionFull
	}
	if doc.ID == 0 {
		doc.ID = id.New()
	}
	now := s.now()
	doc.CreatedAt = now
	doc.UpdatedAt = now

	s.docs = append(s.docs, doc.Clone())
	return doc, nil
}

func (s *Session) Get(docID int64) (model.Document, error) {
	i := s.index(docID)
	if i < 0 {
		return model.Document{}, ErrDocumentNotFound
	}
	return s.docs[i].Clone(), nil
}

// Update replaces the stored document with the same ID and touches UpdatedAt.
// CreatedAt is preserved.
func (s *Session) Update(doc model.Document) (model.Document, error) {
	i := s.index(doc.ID)
	if i < 0 {
		return model.Document{}, ErrDocumentNotFound
	}
	doc.CreatedAt = s.docs[i].CreatedAt
	doc.UpdatedAt = s.now()
	s.docs[i] = doc.Clone()
	return doc, nil
}

// Delete removes a document and its history. Deleting the current document
// leaves the session without one.
func (s *Session) Delete(docID int64) error {
	i := s.index(docID)
	if i < 0 {
		return ErrDocumentNotFound
	}
	s.docs = slices.Delete(s.docs, i, i+1)
	s.dropHistory(docID)
	if s.currentID == docID {
		s.resetCurrent()
	}
	return nil
}

// Clear removes every document and returns how many there were.
func (s *Session) Clear() int {
	n := len(s.docs)
	s.docs = nil
	for docID := range s.histories {
		s.dropHistory(docID)
	}
	s.resetCurrent()
	return n
}

// List returns the documents in creation order.
func (s *Session) List() []model.Document {
	out := make([]model.Document, len(s.docs))
	for i, d := range s.docs {
		out[i] = d.Clone()
	}
	return out
}

func (s *Session) Count() int {
	return len(s.docs)
}

// Open makes a document current and returns its version history, creating
// an empty one on first open. The last score and pending preview are dropped.
func (s *Session) Open(docID int64) (model.Document, *version.Store, error) {
	doc, err := s.Get(docID)
	if err != nil {
		return model.Document{}, nil, err
	}
	history, ok := s.histories[docID]
	if !ok {
		history = version.NewStore(version.WithCapacity(s.versionCap), version.WithClock(s.now))
		s.histories[docID] = history
	}
	if s.currentID != docID {
		s.score = nil
		s.pending = nil
	}
	s.currentID = docID
	return doc, history, nil
}

// Current returns the current document and its history.
func (s *Session) Current() (model.Document, *version.Store, error) {
	if s.currentID == 0 {
		return model.Document{}, nil, ErrNoCurrentDocument
	}
	doc, err := s.Get(s.currentID)
	if err != nil {
		return model.Document{}, nil, ErrNoCurrentDocument
	}
	return doc, s.histories[s.currentID], nil
}

// History returns the version store of a document, if it was ever opened.
func (s *Session) History(docID int64) (*version.Store, bool) {
	h, ok := s.histories[docID]
	return h, ok
}

func (s *Session) SetScore(score *model.InvestScore) {
	s.score = score
}

// Score is the last INVEST score computed for the current document.
func (s *Session) Score() (*model.InvestScore, bool) {
	return s.score, s.score != nil
}

// ClearScore drops the last score. Any edit of the current document calls it.
func (s *Session) ClearScore() {
	s.score = nil
}

func (s *Session) SetPending(r Regeneration) {
	s.pending = &r
}

func (s *Session) Pending() (Regeneration, error) {
	if s.pending == nil || s.pending.DocumentID != s.currentID {
		return Regeneration{}, ErrNoPending
	}
	return *s.pending, nil
}

func (s *Session) ClearPending() {
	s.pending = nil
}

// Stats summarizes the document list.
type Stats struct {
	Total             int     `json:"total"`
	CreatedToday      int     `json:"created_today"`
	AverageComplexity float64 `json:"average_complexity"`
	WithVersions      int     `json:"with_versions"`
}

// Stats counts documents created on the current calendar day and documents
// edited past their initial version.
func (s *Session) Stats() Stats {
	stats := Stats{Total: len(s.docs)}
	if stats.Total == 0 {
		return stats
	}

	now := s.now()
	y, m, d := now.Date()
	sum := 0
	for _, doc := range s.docs {
		sum += doc.Complexity
		cy, cm, cd := doc.CreatedAt.In(now.Location()).Date()
		if cy == y && cm == m && cd == d {
			stats.CreatedToday++
		}
		if h, ok := s.histories[doc.ID]; ok && h.Count() > 1 {
			stats.WithVersions++
		}
	}
	stats.AverageComplexity = float64(sum) / float64(stats.Total)
	return stats
}

// dropHistory empties a document's store before forgetting it, so a caller
// still holding the store sees no stale versions.
func (s *Session) dropHistory(docID int64) {
	if h, ok := s.histories[docID]; ok {
		h.Clear()
		delete(s.histories, docID)
	}
}

func (s *Session) resetCurrent() {
	s.currentID = 0
	s.score = nil
	s.pending = nil
}

func (s *Session) index(docID int64) int {
	return slices.IndexFunc(s.docs, func(d model.Document) bool { return d.ID == docID })
}
