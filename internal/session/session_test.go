package session

import (
	"time"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"basegraph.app/storyforge/core/config"
	"basegraph.app/storyforge/internal/model"
)

var _ = Describe("Session", func() {
	var (
		s   *Session
		now time.Time
	)

	BeforeEach(func() {
		now = time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)
		s = New("sid", WithMaxDocuments(3), WithClock(func() time.Time { return now }))
	})

	add := func(title string, complexity int) model.Document {
		doc, err := s.Add(model.Document{Title: title, Body: "## " + title, Complexity: complexity})
		Expect(err).NotTo(HaveOccurred())
		return doc
	}

	Describe("document list", func() {
		It("assigns ids and timestamps on add", func() {
			doc := add("A", 3)
			Expect(doc.ID).NotTo(BeZero())
			Expect(doc.CreatedAt).To(Equal(now))
			Expect(doc.UpdatedAt).To(Equal(now))
			Expect(s.Count()).To(Equal(1))
		})

		It("enforces the document limit", func() {
			add("A", 1)
			add("B", 2)
			add("C", 3)
			_, err := s.Add(model.Document{Title: "D"})
			Expect(err).To(MatchError(ErrSessionFull))
		})

		It("touches updated_at on update and keeps created_at", func() {
			doc := add("A", 3)
			now = now.Add(time.Hour)
			doc.Title = "A2"

			updated, err := s.Update(doc)
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.UpdatedAt).To(Equal(now))
			Expect(updated.CreatedAt).To(Equal(now.Add(-time.Hour)))

			stored, _ := s.Get(doc.ID)
			Expect(stored.Title).To(Equal("A2"))
		})

		It("reports unknown documents", func() {
			_, err := s.Get(42)
			Expect(err).To(MatchError(ErrDocumentNotFound))
			_, err = s.Update(model.Document{ID: 42})
			Expect(err).To(MatchError(ErrDocumentNotFound))
			Expect(s.Delete(42)).To(MatchError(ErrDocumentNotFound))
		})

		It("returns copies from List", func() {
			add("A", 3)
			list := s.List()
			list[0].Title = "mutated"
			Expect(s.List()[0].Title).To(Equal("A"))
		})

		It("clears all documents and reports the count", func() {
			a := add("A", 1)
			add("B", 2)
			_, history, err := s.Open(a.ID)
			Expect(err).NotTo(HaveOccurred())
			history.Create(a, "", "")

			Expect(s.Clear()).To(Equal(2))
			Expect(s.Count()).To(BeZero())
			Expect(history.Count()).To(BeZero())
			_, _, err = s.Current()
			Expect(err).To(MatchError(ErrNoCurrentDocument))
		})
	})

	Describe("current document", func() {
		It("has none until a document is opened", func() {
			_, _, err := s.Current()
			Expect(err).To(MatchError(ErrNoCurrentDocument))
		})

		It("keeps one history per document across opens", func() {
			a := add("A", 1)
			b := add("B", 2)

			_, history, err := s.Open(a.ID)
			Expect(err).NotTo(HaveOccurred())
			history.Create(a, "", "")
			history.Create(a, "Modificou Titulo", "")

			_, other, _ := s.Open(b.ID)
			Expect(other.Count()).To(BeZero())

			_, again, _ := s.Open(a.ID)
			Expect(again.Count()).To(Equal(2))

			current, _, err := s.Current()
			Expect(err).NotTo(HaveOccurred())
			Expect(current.ID).To(Equal(a.ID))
		})

		It("drops score and pending preview when switching documents", func() {
			a := add("A", 1)
			b := add("B", 2)
			s.Open(a.ID)
			s.SetScore(model.NewInvestScore(model.SourceLocal))
			s.SetPending(Regeneration{DocumentID: a.ID, Key: "criterios"})

			_, err := s.Pending()
			Expect(err).NotTo(HaveOccurred())

			s.Open(b.ID)
			_, ok := s.Score()
			Expect(ok).To(BeFalse())
			_, err = s.Pending()
			Expect(err).To(MatchError(ErrNoPending))
		})

		It("forgets the current document when it is deleted", func() {
			a := add("A", 1)
			_, history, _ := s.Open(a.ID)
			history.Create(a, "", "")
			Expect(s.Delete(a.ID)).To(Succeed())

			Expect(history.Count()).To(BeZero())
			_, _, err := s.Current()
			Expect(err).To(MatchError(ErrNoCurrentDocument))
			_, ok := s.History(a.ID)
			Expect(ok).To(BeFalse())
		})
	})

	Describe("Stats", func() {
		It("is zero for an empty session", func() {
			Expect(s.Stats()).To(Equal(Stats{}))
		})

		It("counts today's documents, average complexity and edited documents", func() {
			now = now.Add(-24 * time.Hour)
			old := add("old", 8)
			now = now.Add(24 * time.Hour)
			add("new", 3)

			_, history, _ := s.Open(old.ID)
			history.Create(old, "", "")
			history.Create(old, "Modificou Corpo", "")

			stats := s.Stats()
			Expect(stats.Total).To(Equal(2))
			Expect(stats.CreatedToday).To(Equal(1))
			Expect(stats.AverageComplexity).To(BeNumerically("~", 5.5))
			Expect(stats.WithVersions).To(Equal(1))
		})
	})
})

var _ = Describe("Manager", func() {
	var (
		m   *Manager
		now time.Time
	)

	BeforeEach(func() {
		now = time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)
		m = NewManager(config.SessionConfig{MaxDocuments: 2, IdleTTL: time.Hour})
		m.now = func() time.Time { return now }
	})

	It("creates a session for an unknown id and reuses it afterwards", func() {
		id := uuid.NewString()
		s, created := m.Resolve(id)
		Expect(created).To(BeTrue())
		Expect(s.ID).To(Equal(id))

		again, created := m.Resolve(id)
		Expect(created).To(BeFalse())
		Expect(again).To(BeIdenticalTo(s))
	})

	It("replaces ids that are not uuids", func() {
		s, created := m.Resolve("not-a-uuid")
		Expect(created).To(BeTrue())
		_, err := uuid.Parse(s.ID)
		Expect(err).NotTo(HaveOccurred())
	})

	It("applies the configured document limit", func() {
		s, _ := m.Resolve("")
		_, err := s.Add(model.Document{Title: "A"})
		Expect(err).NotTo(HaveOccurred())
		_, err = s.Add(model.Document{Title: "B"})
		Expect(err).NotTo(HaveOccurred())
		_, err = s.Add(model.Document{Title: "C"})
		Expect(err).To(MatchError(ErrSessionFull))
	})

	It("evicts idle sessions", func() {
		idle, _ := m.Resolve("")
		now = now.Add(30 * time.Minute)
		active, _ := m.Resolve("")

		now = now.Add(45 * time.Minute)
		m.Resolve(active.ID)

		_, ok := m.Get(idle.ID)
		Expect(ok).To(BeFalse())
		_, ok = m.Get(active.ID)
		Expect(ok).To(BeTrue())
		Expect(m.Len()).To(Equal(1))
	})
})
