package version_test

import (
	"encoding/json"
	"fmt"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"basegraph.app/storyforge/internal/model"
	"basegraph.app/storyforge/internal/version"
)

func doc(body string) model.Document {
	return model.Document{ID: 1, Title: "T", Body: body, BusinessRules: []string{"R1"}}
}

func numbers(vs []model.Version) []int {
	out := make([]int, len(vs))
	for i, v := range vs {
		out[i] = v.Number
	}
	return out
}

var _ = Describe("Store", func() {
	var (
		store *version.Store
		now   time.Time
	)

	BeforeEach(func() {
		now = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
		store = version.NewStore(version.WithClock(func() time.Time {
			now = now.Add(time.Minute)
			return now
		}))
	})

	Describe("Create", func() {
		It("numbers versions 1..k without gaps", func() {
			for i := 1; i <= 4; i++ {
				v := store.Create(doc(fmt.Sprintf("body %d", i)), "", "")
				Expect(v.Number).To(Equal(i))
			}
			Expect(numbers(store.List())).To(Equal([]int{4, 3, 2, 1}))
		})

		It("defaults the summary of a version", func() {
			v := store.Create(doc("a"), "", "")
			Expect(v.ChangesSummary).To(Equal("Versão inicial"))
		})

		It("makes the new version current", func() {
			store.Create(doc("a"), "", "")
			v := store.Create(doc("b"), "Modificou Contexto", "nota")

			current, ok := store.Current()
			Expect(ok).To(BeTrue())
			Expect(current.Number).To(Equal(v.Number))
			Expect(current.Content.Body).To(Equal("b"))
			Expect(current.UserNote).To(Equal("nota"))
		})

		It("snapshots the document", func() {
			d := doc("a")
			store.Create(d, "", "")
			d.BusinessRules[0] = "mutated"
			d.Body = "mutated"

			v, err := store.Get(1)
			Expect(err).NotTo(HaveOccurred())
			Expect(v.Content.Body).To(Equal("a"))
			Expect(v.Content.BusinessRules).To(Equal([]string{"R1"}))
		})

		It("evicts the oldest and renumbers after 11 inserts", func() {
			for i := 1; i <= 11; i++ {
				store.Create(doc(fmt.Sprintf("body %d", i)), "", "")
			}

			Expect(store.Count()).To(Equal(10))
			Expect(numbers(store.List())).To(Equal([]int{10, 9, 8, 7, 6, 5, 4, 3, 2, 1}))

			first, err := store.Get(1)
			Expect(err).NotTo(HaveOccurred())
			Expect(first.Content.Body).To(Equal("body 2"))

			for _, v := range store.List() {
				Expect(v.Content.Body).NotTo(Equal("body 1"))
			}

			current, _ := store.Current()
			Expect(current.Number).To(Equal(10))
			Expect(current.Content.Body).To(Equal("body 11"))
		})

		It("honours a custom capacity", func() {
			store = version.NewStore(version.WithCapacity(2))
			store.Create(doc("a"), "", "")
			store.Create(doc("b"), "", "")
			store.Create(doc("c"), "", "")

			Expect(store.Count()).To(Equal(2))
			v, _ := store.Get(1)
			Expect(v.Content.Body).To(Equal("b"))
		})
	})

	Describe("Get", func() {
		It("returns ErrNotFound for unknown numbers", func() {
			store.Create(doc("a"), "", "")

			for _, n := range []int{0, -1, 2} {
				_, err := store.Get(n)
				Expect(err).To(MatchError(version.ErrNotFound))
			}
		})
	})

	Describe("Current", func() {
		It("is empty for a new store", func() {
			_, ok := store.Current()
			Expect(ok).To(BeFalse())
		})
	})

	Describe("Restore", func() {
		BeforeEach(func() {
			store.Create(doc("v1"), "", "")
			store.Create(doc("v2"), "Modificou Contexto", "")
		})

		It("appends a copy as a new version", func() {
			restored, err := store.Restore(1, "")
			Expect(err).NotTo(HaveOccurred())

			Expect(restored.Number).To(Equal(3))
			Expect(restored.Content.Body).To(Equal("v1"))
			Expect(restored.ChangesSummary).To(Equal("Restaurado da versão 1"))
			Expect(restored.UserNote).To(Equal("Restauração da versão 1"))
			Expect(store.Count()).To(Equal(3))
		})

		It("never mutates the restored version", func() {
			before, _ := store.Get(1)
			_, err := store.Restore(1, "voltar")
			Expect(err).NotTo(HaveOccurred())

			after, _ := store.Get(1)
			Expect(after).To(Equal(before))
		})

		It("keeps a caller supplied note", func() {
			restored, err := store.Restore(2, "voltar ao texto revisado")
			Expect(err).NotTo(HaveOccurred())
			Expect(restored.UserNote).To(Equal("voltar ao texto revisado"))
		})

		It("still creates a version when restoring the current one", func() {
			restored, err := store.Restore(2, "")
			Expect(err).NotTo(HaveOccurred())
			Expect(restored.Number).To(Equal(3))

			current, _ := store.Current()
			Expect(current.Number).To(Equal(3))
		})

		It("reports unknown versions", func() {
			_, err := store.Restore(9, "")
			Expect(err).To(MatchError(version.ErrNotFound))
			Expect(store.Count()).To(Equal(2))
		})

		It("evicts when restoring into a full store", func() {
			for i := 3; i <= 10; i++ {
				store.Create(doc(fmt.Sprintf("v%d", i)), "", "")
			}
			Expect(store.IsLimitReached()).To(BeTrue())

			restored, err := store.Restore(1, "")
			Expect(err).NotTo(HaveOccurred())
			Expect(restored.Number).To(Equal(10))
			Expect(restored.Content.Body).To(Equal("v1"))

			first, _ := store.Get(1)
			Expect(first.Content.Body).To(Equal("v2"))
		})
	})

	Describe("Compare", func() {
		BeforeEach(func() {
			store.Create(doc("## T\n\n### Contexto\n\nantigo\n"), "", "")
			store.Create(doc("## T\n\n### Contexto\n\nnovo\n\nextra\n"), "", "")
		})

		It("has no changes when comparing a version with itself", func() {
			cmp, err := store.Compare(2, 2)
			Expect(err).NotTo(HaveOccurred())
			Expect(cmp.HasChanges()).To(BeFalse())
			Expect(cmp.Unified).To(BeEmpty())
			Expect(cmp.HTML).To(ContainSubstring("Nenhuma diferença encontrada"))
		})

		It("returns both contents and renderings", func() {
			cmp, err := store.Compare(1, 2)
			Expect(err).NotTo(HaveOccurred())
			Expect(cmp.ContentA).To(ContainSubstring("antigo"))
			Expect(cmp.ContentB).To(ContainSubstring("novo"))
			Expect(cmp.Unified).To(ContainSubstring("-antigo"))
			Expect(cmp.Unified).To(ContainSubstring("+novo"))
			Expect(cmp.HTML).To(ContainSubstring("diff_chg"))
		})

		It("changes the same lines in both directions", func() {
			ab, err := store.Compare(1, 2)
			Expect(err).NotTo(HaveOccurred())
			ba, err := store.Compare(2, 1)
			Expect(err).NotTo(HaveOccurred())

			removedAB, addedAB := version.ChangedLines(ab.Opcodes)
			removedBA, addedBA := version.ChangedLines(ba.Opcodes)
			Expect(removedAB).To(Equal(addedBA))
			Expect(addedAB).To(Equal(removedBA))
		})

		It("reports unknown versions", func() {
			_, err := store.Compare(1, 7)
			Expect(err).To(MatchError(version.ErrNotFound))
		})
	})

	Describe("AddNote", func() {
		It("updates only the note", func() {
			store.Create(doc("a"), "", "")
			before, _ := store.Get(1)

			Expect(store.AddNote(1, "revisado com o time")).To(BeTrue())
			after, _ := store.Get(1)
			Expect(after.UserNote).To(Equal("revisado com o time"))
			Expect(after.Content).To(Equal(before.Content))
			Expect(after.ChangesSummary).To(Equal(before.ChangesSummary))
		})

		It("returns false for unknown versions", func() {
			Expect(store.AddNote(3, "x")).To(BeFalse())
		})
	})

	Describe("IsLimitReached", func() {
		It("is true at exactly ten versions", func() {
			for i := 1; i <= 9; i++ {
				store.Create(doc("x"), "", "")
			}
			Expect(store.IsLimitReached()).To(BeFalse())
			store.Create(doc("x"), "", "")
			Expect(store.IsLimitReached()).To(BeTrue())
			Expect(store.Stats().String()).To(Equal("10/10"))
		})
	})

	Describe("Clear", func() {
		It("empties the store and resets the current pointer", func() {
			store.Create(doc("a"), "", "")
			store.Create(doc("b"), "", "")
			store.Clear()

			Expect(store.Count()).To(BeZero())
			_, ok := store.Current()
			Expect(ok).To(BeFalse())
			Expect(store.Stats().CurrentVersion).To(BeZero())

			v := store.Create(doc("c"), "", "")
			Expect(v.Number).To(Equal(1))
		})
	})

	Describe("ExportJSON", func() {
		It("serialises the history most recent first", func() {
			store.Create(doc("a"), "", "")
			store.Create(doc("b"), "Modificou Título", "")

			data, err := store.ExportJSON()
			Expect(err).NotTo(HaveOccurred())

			var out []model.Version
			Expect(json.Unmarshal(data, &out)).To(Succeed())
			Expect(numbers(out)).To(Equal([]int{2, 1}))
			Expect(out[0].ChangesSummary).To(Equal("Modificou Título"))
		})
	})
})
