package service_test

import (
	"context"
	"errors"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"basegraph.app/storyforge/common/llm"
	"basegraph.app/storyforge/internal/form"
	"basegraph.app/storyforge/internal/model"
	"basegraph.app/storyforge/internal/section"
	"basegraph.app/storyforge/internal/service"
	"basegraph.app/storyforge/internal/session"
)

var _ = Describe("EditorService", func() {
	var (
		svc  service.EditorService
		gen  *mockGenerator
		sess *session.Session
		doc  model.Document
		ctx  context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		gen = &mockGenerator{generateFn: replyWith(generatedBody)}
		sess = session.New("sid")

		out, err := service.NewStoryService(gen, 4000).Generate(ctx, sess, validInput())
		Expect(err).NotTo(HaveOccurred())
		doc = out.Document

		gen.calls = nil
		svc = service.NewEditorService(gen, 2000)
	})

	Describe("Sections", func() {
		It("parses the current document", func() {
			view, err := svc.Sections(sess)
			Expect(err).NotTo(HaveOccurred())
			Expect(view.DocumentID).To(Equal(doc.ID))
			Expect(view.Title).To(Equal("Agendamento de Consultas"))
			Expect(view.Labels).To(Equal([]string{
				section.Context, section.Objective, section.BusinessRules,
				section.AcceptanceCriteria, section.Complexity,
			}))
			Expect(view.Sections[section.Objective]).To(Equal("Permitir agendamento online."))
		})

		It("requires a current document", func() {
			_, err := svc.Sections(session.New("empty"))
			Expect(err).To(MatchError(session.ErrNoCurrentDocument))
		})
	})

	Describe("Save", func() {
		It("stores the edit as a new version with a change summary", func() {
			body := strings.Replace(doc.Body, "Pacientes ligam para agendar.", "Pacientes usam o app.", 1)

			v, err := svc.Save(ctx, sess, service.EditInput{Title: "Novo título", Body: body + "\n\n\n", Note: " revisão "})

			Expect(err).NotTo(HaveOccurred())
			Expect(v.Number).To(Equal(2))
			Expect(v.ChangesSummary).To(Equal("Modificou Título, Modificou Contexto"))
			Expect(v.UserNote).To(Equal("revisão"))
			Expect(v.Content.Body).To(Equal(strings.TrimSpace(body)))

			current, _, _ := sess.Current()
			Expect(current.Title).To(Equal("Novo título"))
			Expect(current.Body).To(ContainSubstring("Pacientes usam o app."))
		})

		It("records edits without section changes", func() {
			v, err := svc.Save(ctx, sess, service.EditInput{Title: doc.Title, Body: doc.Body})
			Expect(err).NotTo(HaveOccurred())
			Expect(v.ChangesSummary).To(Equal("Sem alterações significativas"))
		})

		It("drops the last INVEST score", func() {
			sess.SetScore(model.NewInvestScore(model.SourceLocal))
			_, err := svc.Save(ctx, sess, service.EditInput{Title: doc.Title, Body: doc.Body})
			Expect(err).NotTo(HaveOccurred())
			_, ok := sess.Score()
			Expect(ok).To(BeFalse())
		})

		It("rejects invalid edits without creating a version", func() {
			_, err := svc.Save(ctx, sess, service.EditInput{Title: " ", Body: "### Sem título"})

			var verrs form.ValidationErrors
			Expect(errors.As(err, &verrs)).To(BeTrue())
			Expect(verrs).To(HaveKey(form.FieldTitle))
			Expect(verrs).To(HaveKey(service.FieldBody))

			_, history, _ := sess.Current()
			Expect(history.Count()).To(Equal(1))
		})
	})

	Describe("ValidateEdit", func() {
		DescribeTable("body rules",
			func(body string, valid bool) {
				errs := service.ValidateEdit(service.EditInput{Title: "T", Body: body})
				if valid {
					Expect(errs).To(BeEmpty())
				} else {
					Expect(errs).To(HaveKey(service.FieldBody))
				}
			},
			Entry("title heading", "## Título\n\ntexto", true),
			Entry("title heading after text", "intro\n## Título", true),
			Entry("empty", "  ", false),
			Entry("only section headings", "### Contexto\n\nx", false),
			Entry("heading without text", "## \n", false),
		)
	})

	Describe("ChangeSummary", func() {
		It("lists every changed field in order", func() {
			before := model.Document{Title: "A", Body: "## A\n\n### Regras de Negocio\n\n- R1\n\n### APIs e Servicos Necessarios\n\n- X"}
			after := model.Document{Title: "A", Body: "## A\n\n### Regras de Negocio\n\n- R2\n\n### APIs e Servicos Necessarios\n\n- Y"}

			Expect(service.ChangeSummary(before, after)).To(Equal("Modificou Regras de Negócio, Modificou APIs/Serviços"))
		})
	})

	Describe("partial regeneration", func() {
		const regenerated = "### Criterios de Aceitacao\n\n- CA1 novo   \n\n\n- CA2 novo"

		BeforeEach(func() {
			gen.generateFn = replyWith(regenerated)
		})

		It("returns a sanitized preview without changing the document", func() {
			preview, err := svc.Regenerate(ctx, sess, "criterios")

			Expect(err).NotTo(HaveOccurred())
			Expect(preview.Label).To(Equal(section.AcceptanceCriteria))
			Expect(preview.Content).To(Equal("### Criterios de Aceitacao\n\n- CA1 novo\n\n- CA2 novo"))
			Expect(gen.calls).To(HaveLen(1))
			Expect(gen.calls[0].MaxTokens).To(Equal(2000))
			Expect(gen.calls[0].Prompt).To(ContainSubstring(section.AcceptanceCriteria))

			current, history, _ := sess.Current()
			Expect(current.Body).To(Equal(doc.Body))
			Expect(history.Count()).To(Equal(1))
		})

		It("applies the preview as a new version", func() {
			_, err := svc.Regenerate(ctx, sess, "criterios")
			Expect(err).NotTo(HaveOccurred())

			v, err := svc.ApplyRegeneration(ctx, sess, "")

			Expect(err).NotTo(HaveOccurred())
			Expect(v.Number).To(Equal(2))
			Expect(v.ChangesSummary).To(Equal("Regenerada seção: criterios"))
			Expect(v.UserNote).To(Equal("Regeneração de criterios"))
			Expect(v.Content.Body).To(ContainSubstring("- CA1 novo"))
			Expect(v.Content.Body).To(ContainSubstring("### Complexidade"))
			Expect(v.Content.Body).NotTo(ContainSubstring("- CA3"))

			_, err = sess.Pending()
			Expect(err).To(MatchError(session.ErrNoPending))
		})

		It("replaces a section whose heading carries a suffix", func() {
			current, _, _ := sess.Current()
			current.Body = strings.Replace(current.Body, "### Criterios de Aceitacao", "### Criterios de Aceitacao (Gherkin)", 1)
			_, err := sess.Update(current)
			Expect(err).NotTo(HaveOccurred())

			_, err = svc.Regenerate(ctx, sess, "criterios")
			Expect(err).NotTo(HaveOccurred())
			v, err := svc.ApplyRegeneration(ctx, sess, "")

			Expect(err).NotTo(HaveOccurred())
			Expect(v.Content.Body).To(ContainSubstring("- CA1 novo"))
			Expect(v.Content.Body).NotTo(ContainSubstring("(Gherkin)"))
			Expect(v.Content.Body).NotTo(ContainSubstring("- CA3"))
			Expect(v.Content.Body).To(ContainSubstring("### Complexidade"))
		})

		It("leaves the body unchanged when the section is absent", func() {
			before, _, _ := sess.Current()
			gen.generateFn = replyWith("- Menos ligações")
			_, err := svc.Regenerate(ctx, sess, "beneficios")
			Expect(err).NotTo(HaveOccurred())

			v, err := svc.ApplyRegeneration(ctx, sess, "nota")
			Expect(err).NotTo(HaveOccurred())
			Expect(v.Content.Body).To(Equal(before.Body))
			Expect(v.Content.Body).NotTo(ContainSubstring("Menos ligações"))
			Expect(v.ChangesSummary).To(Equal("Regenerada seção: beneficios"))
			Expect(v.UserNote).To(Equal("nota"))
		})

		It("discards a rejected preview", func() {
			_, err := svc.Regenerate(ctx, sess, "testes")
			Expect(err).NotTo(HaveOccurred())

			svc.RejectRegeneration(ctx, sess)

			_, err = svc.ApplyRegeneration(ctx, sess, "")
			Expect(err).To(MatchError(session.ErrNoPending))
			_, history, _ := sess.Current()
			Expect(history.Count()).To(Equal(1))
		})

		It("rejects unknown section keys", func() {
			_, err := svc.Regenerate(ctx, sess, "contexto")
			Expect(err).To(MatchError(service.ErrUnknownSection))
			Expect(gen.calls).To(BeEmpty())
		})

		It("keeps no preview when generation fails", func() {
			gen.generateFn = failWith(llm.KindRateLimited)

			_, err := svc.Regenerate(ctx, sess, "criterios")
			Expect(llm.KindOf(err)).To(Equal(llm.KindRateLimited))
			_, err = sess.Pending()
			Expect(err).To(MatchError(session.ErrNoPending))
		})
	})
})
