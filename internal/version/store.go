// Package version keeps a bounded, append-only history of document snapshots.
package version

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"basegraph.app/storyforge/internal/model"
)

// DefaultCapacity is the number of versions kept per document.
const DefaultCapacity = 10

const initialSummary = "Versão inicial"

var ErrNotFound = errors.New("version not found")

// Store holds at most capacity versions numbered 1..k without gaps. When a
// new version would exceed the bound, the oldest is evicted and the rest are
// renumbered from 1. The current version is always the last one appended.
type Store struct {
	mu       sync.RWMutex
	versions []model.Version
	current  int
	capacity int
	now      func() time.Time
}

type Option func(*Store)

func WithCapacity(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.capacity = n
		}
	}
}

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

func NewStore(opts ...Option) *Store {
	s := &Store{capacity: DefaultCapacity, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create appends a snapshot of content. An empty summary becomes "Versão inicial".
func (s *Store) Create(content model.Document, summary, note string) model.Version {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.appendLocked(content, summary, note)
}

func (s *Store) appendLocked(content model.Document, summary, note string) model.Version {
	if summary == "" {
		summary = initialSummary
	}

	v := model.Version{
		Number:         len(s.versions) + 1,
		CreatedAt:      s.now(),
		Content:        content.Clone(),
		ChangesSummary: summary,
		UserNote:       note,
	}
	s.versions = append(s.versions, v)

	if len(s.versions) > s.capacity {
		s.versions = append([]model.Version(nil), s.versions[len(s.versions)-s.capacity:]...)
		for i := range s.versions {
			s.versions[i].Number = i + 1
		}
	}

	last := s.versions[len(s.versions)-1]
	s.current = last.Number
	return cloneVersion(last)
}

// List returns every version, most recent first.
func (s *Store) List() []model.Version {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Version, len(s.versions))
	for i, v := range s.versions {
		out[len(s.versions)-1-i] = cloneVersion(v)
	}
	return out
}

func (s *Store) Get(number int) (model.Version, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.getLocked(number)
	if !ok {
		return model.Version{}, fmt.Errorf("%w: %d", ErrNotFound, number)
	}
	return cloneVersion(v), nil
}

func (s *Store) getLocked(number int) (model.Version, bool) {
	if number < 1 || number > len(s.versions) {
		return model.Version{}, false
	}
	return s.versions[number-1], true
}

// Current returns the most recently appended version.
func (s *Store) Current() (model.Version, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.getLocked(s.current)
	if !ok {
		return model.Version{}, false
	}
	return cloneVersion(v), true
}

// Restore appends a copy of version number as a new version. History is never
// rewritten, and restoring the current version still appends.
func (s *Store) Restore(number int, note string) (model.Version, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.getLocked(number)
	if !ok {
		return model.Version{}, fmt.Errorf("%w: %d", ErrNotFound, number)
	}
	if note == "" {
		note = fmt.Sprintf("Restauração da versão %d", number)
	}
	return s.appendLocked(v.Content, fmt.Sprintf("Restaurado da versão %d", number), note), nil
}

// Compare diffs the bodies of two versions.
func (s *Store) Compare(a, b int) (Comparison, error) {
	s.mu.RLock()
	va, okA := s.getLocked(a)
	vb, okB := s.getLocked(b)
	s.mu.RUnlock()

	if !okA || !okB {
		return Comparison{}, fmt.Errorf("%w: %d or %d", ErrNotFound, a, b)
	}
	return NewComparison(cloneVersion(va), cloneVersion(vb)), nil
}

// AddNote replaces the note of a version. It is the only in-place mutation.
func (s *Store) AddNote(number int, note string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if number < 1 || number > len(s.versions) {
		return false
	}
	s.versions[number-1].UserNote = note
	return true
}

// IsLimitReached reports whether the next Create will evict the oldest version.
func (s *Store) IsLimitReached() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.versions) >= s.capacity
}

func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.versions = nil
	s.current = 0
}

func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.versions)
}

func (s *Store) Capacity() int {
	return s.capacity
}

// Stats summarises the store for display, e.g. "3/10".
type Stats struct {
	Count          int  `json:"count"`
	Capacity       int  `json:"capacity"`
	CurrentVersion int  `json:"current_version"`
	LimitReached   bool `json:"limit_reached"`
}

func (s Stats) String() string {
	return fmt.Sprintf("%d/%d", s.Count, s.Capacity)
}

func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Stats{
		Count:          len(s.versions),
		Capacity:       s.capacity,
		CurrentVersion: s.current,
		LimitReached:   len(s.versions) >= s.capacity,
	}
}

// ExportJSON serialises the history, most recent first.
func (s *Store) ExportJSON() ([]byte, error) {
	data, err := json.MarshalIndent(s.List(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding version history: %w", err)
	}
	return data, nil
}

func cloneVersion(v model.Version) model.Version {
	v.Content = v.Content.Clone()
	return v
}
