package handler_test

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"basegraph.app/storyforge/internal/http/handler"
	"basegraph.app/storyforge/internal/model"
	"basegraph.app/storyforge/internal/service"
	"basegraph.app/storyforge/internal/session"
	"basegraph.app/storyforge/internal/version"
)

var _ = Describe("VersionHandler", func() {
	var (
		router *gin.Engine
		svc    *mockVersionService
	)

	BeforeEach(func() {
		var api *gin.RouterGroup
		router, api = newTestRouter()
		svc = &mockVersionService{}
		h := handler.NewVersionHandler(svc)

		versions := api.Group("/versions")
		versions.GET("", h.History)
		versions.GET("/compare", h.Compare)
		versions.GET("/export", h.Export)
		versions.GET("/:number", h.Get)
		versions.POST("/:number/restore", h.Restore)
		versions.PUT("/:number/note", h.AddNote)
	})

	It("returns the history with its usage display", func() {
		svc.historyFn = func(_ *session.Session) (*service.History, error) {
			return &service.History{
				DocumentID: 9,
				Versions:   []model.Version{{Number: 2}, {Number: 1}},
				Stats:      version.Stats{Count: 2, Capacity: 10, CurrentVersion: 2},
			}, nil
		}

		w := perform(router, http.MethodGet, "/api/v1/versions", nil)

		Expect(w.Code).To(Equal(http.StatusOK))
		resp := decode(w)
		Expect(resp["usage"]).To(Equal("2/10"))
		Expect(resp["versions"]).To(HaveLen(2))
	})

	It("rejects a non-positive version number", func() {
		w := perform(router, http.MethodGet, "/api/v1/versions/0", nil)

		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("returns 404 for a missing version", func() {
		svc.getFn = func(_ *session.Session, n int) (model.Version, error) {
			return model.Version{}, fmt.Errorf("%w: %d", version.ErrNotFound, n)
		}

		w := perform(router, http.MethodGet, "/api/v1/versions/5", nil)

		Expect(w.Code).To(Equal(http.StatusNotFound))
		Expect(decode(w)["code"]).To(Equal("version_not_found"))
	})

	It("restores with an optional note", func() {
		svc.restoreFn = func(_ context.Context, _ *session.Session, n int, note string) (model.Version, error) {
			Expect(n).To(Equal(1))
			Expect(note).To(Equal("voltar"))
			return model.Version{Number: 4, ChangesSummary: "Restaurado da versão 1"}, nil
		}

		w := perform(router, http.MethodPost, "/api/v1/versions/1/restore", map[string]string{"note": "voltar"})

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(decode(w)["number"]).To(BeEquivalentTo(4))
	})

	Describe("Compare", func() {
		var cmp version.Comparison

		BeforeEach(func() {
			a := model.Version{Number: 1, Content: model.Document{Body: "linha\n"}}
			b := model.Version{Number: 2, Content: model.Document{Body: "linha alterada\n"}}
			cmp = version.NewComparison(a, b)
			svc.compareFn = func(_ *session.Session, _, _ int) (version.Comparison, error) {
				return cmp, nil
			}
		})

		It("defaults to the HTML rendering", func() {
			w := perform(router, http.MethodGet, "/api/v1/versions/compare?a=1&b=2", nil)

			Expect(w.Code).To(Equal(http.StatusOK))
			resp := decode(w)
			Expect(resp["format"]).To(Equal("html"))
			Expect(resp["has_changes"]).To(BeTrue())
			Expect(resp["diff"]).To(Equal(cmp.HTML))
		})

		It("returns the unified diff on request", func() {
			w := perform(router, http.MethodGet, "/api/v1/versions/compare?a=1&b=2&format=unified", nil)

			Expect(decode(w)["diff"]).To(Equal(cmp.Unified))
		})

		It("rejects missing or unknown parameters", func() {
			Expect(perform(router, http.MethodGet, "/api/v1/versions/compare?a=1", nil).Code).To(Equal(http.StatusBadRequest))
			Expect(perform(router, http.MethodGet, "/api/v1/versions/compare?a=1&b=2&format=pdf", nil).Code).To(Equal(http.StatusBadRequest))
		})
	})

	It("adds a note", func() {
		var got string
		svc.addNoteFn = func(_ context.Context, _ *session.Session, _ int, note string) error {
			got = note
			return nil
		}

		w := perform(router, http.MethodPut, "/api/v1/versions/2/note", map[string]string{"note": "revisado"})

		Expect(w.Code).To(Equal(http.StatusNoContent))
		Expect(got).To(Equal("revisado"))
	})

	It("downloads the history as a JSON attachment", func() {
		svc.exportFn = func(_ *session.Session) ([]byte, error) {
			return []byte(`[{"number":1}]`), nil
		}

		w := perform(router, http.MethodGet, "/api/v1/versions/export", nil)

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Header().Get("Content-Type")).To(Equal("application/json"))
		Expect(w.Header().Get("Content-Disposition")).To(MatchRegexp(`attachment; filename=historico-versoes-\d{8}-\d{6}\.json`))
		Expect(w.Body.String()).To(Equal(`[{"number":1}]`))
	})
})
