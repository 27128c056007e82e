package handler_test

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"basegraph.app/storyforge/internal/advisor"
	"basegraph.app/storyforge/internal/export"
	"basegraph.app/storyforge/internal/http/handler"
	"basegraph.app/storyforge/internal/invest"
	"basegraph.app/storyforge/internal/model"
	"basegraph.app/storyforge/internal/service"
	"basegraph.app/storyforge/internal/session"
)

var _ = Describe("Analysis handlers", func() {
	var router *gin.Engine

	Describe("InvestHandler", func() {
		var svc *mockInvestService

		BeforeEach(func() {
			var api *gin.RouterGroup
			router, api = newTestRouter()
			svc = &mockInvestService{}
			h := handler.NewInvestHandler(svc)
			api.POST("/invest/local", h.Local)
			api.POST("/invest/ai", h.AI)
			api.GET("/invest/report", h.Report)
		})

		It("returns every criterion with its status", func() {
			svc.localFn = func(_ context.Context, _ *session.Session) (*service.Evaluation, error) {
				score := model.NewInvestScore(model.SourceLocal)
				for _, c := range model.Criteria {
					score.Set(c, 90)
				}
				score.Set(model.Small, 40)
				return &service.Evaluation{Score: score, Status: invest.StatusFor(score.Overall())}, nil
			}

			w := perform(router, http.MethodPost, "/api/v1/invest/local", nil)

			Expect(w.Code).To(Equal(http.StatusOK))
			resp := decode(w)
			Expect(resp["overall"]).To(BeEquivalentTo(81))
			Expect(resp["source"]).To(Equal("local"))
			Expect(resp["criteria"]).To(HaveLen(6))
			small := resp["criteria"].([]any)[4].(map[string]any)
			Expect(small["status"]).To(Equal("Fraco"))
			Expect(resp).NotTo(HaveKey("warning"))
		})

		It("carries the fallback warning from the AI assessment", func() {
			svc.aiFn = func(_ context.Context, _ *session.Session) (*service.Evaluation, error) {
				score := model.NewInvestScore(model.SourceLocal)
				return &service.Evaluation{Score: score, Status: invest.StatusFor(0), Warning: "Exibindo avaliação local."}, nil
			}

			w := perform(router, http.MethodPost, "/api/v1/invest/ai", nil)

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(decode(w)["warning"]).To(Equal("Exibindo avaliação local."))
		})

		It("returns 403 when AI validation is disabled", func() {
			svc.aiFn = func(_ context.Context, _ *session.Session) (*service.Evaluation, error) {
				return nil, service.ErrFeatureDisabled
			}

			w := perform(router, http.MethodPost, "/api/v1/invest/ai", nil)

			Expect(w.Code).To(Equal(http.StatusForbidden))
		})

		It("serves the report as plain text", func() {
			svc.reportFn = func(_ context.Context, _ *session.Session) (string, error) {
				return "RELATORIO", nil
			}

			w := perform(router, http.MethodGet, "/api/v1/invest/report", nil)

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Header().Get("Content-Type")).To(HavePrefix("text/plain"))
			Expect(w.Body.String()).To(Equal("RELATORIO"))
		})
	})

	Describe("SuggestionHandler", func() {
		var svc *mockSuggestionService

		BeforeEach(func() {
			var api *gin.RouterGroup
			router, api = newTestRouter()
			svc = &mockSuggestionService{}
			api.POST("/suggestions", handler.NewSuggestionHandler(svc).Suggest)
		})

		It("passes the filter and colours each suggestion", func() {
			svc.suggestFn = func(_ context.Context, _ *session.Session, f advisor.Filter) ([]model.Suggestion, error) {
				Expect(f.Severity).To(Equal(model.SeverityHigh))
				return []model.Suggestion{{
					Type:       model.SuggestionClarity,
					Severity:   model.SeverityHigh,
					Problem:    "Critério vago",
					Suggestion: "Defina o tempo de resposta",
					Applicable: true,
				}}, nil
			}

			w := perform(router, http.MethodPost, "/api/v1/suggestions", map[string]string{"severity": "alta"})

			Expect(w.Code).To(Equal(http.StatusOK))
			items := decode(w)["suggestions"].([]any)
			Expect(items).To(HaveLen(1))
			Expect(items[0]).To(HaveKeyWithValue("color", "red"))
		})

		It("rejects an unknown severity", func() {
			w := perform(router, http.MethodPost, "/api/v1/suggestions", map[string]string{"severity": "urgente"})

			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		It("returns 502 when the reply cannot be parsed", func() {
			svc.suggestFn = func(_ context.Context, _ *session.Session, _ advisor.Filter) ([]model.Suggestion, error) {
				return nil, advisor.ErrMalformedResponse
			}

			w := perform(router, http.MethodPost, "/api/v1/suggestions", nil)

			Expect(w.Code).To(Equal(http.StatusBadGateway))
		})
	})

	Describe("ExportHandler", func() {
		var svc *mockExportService

		BeforeEach(func() {
			var api *gin.RouterGroup
			router, api = newTestRouter()
			svc = &mockExportService{}
			api.GET("/export/:format", handler.NewExportHandler(svc).Export)
		})

		It("parses ids and serves the file as an attachment", func() {
			svc.exportFn = func(_ context.Context, _ *session.Session, format string, ids []int64) (*export.File, error) {
				Expect(format).To(Equal("md"))
				Expect(ids).To(Equal([]int64{11, 12}))
				return &export.File{Name: "agendamento-20250314-100000.md", MIMEType: "text/markdown", Data: []byte("# A")}, nil
			}

			w := perform(router, http.MethodGet, "/api/v1/export/md?ids=11,12", nil)

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Header().Get("Content-Type")).To(Equal("text/markdown"))
			Expect(w.Header().Get("Content-Disposition")).To(Equal("attachment; filename=agendamento-20250314-100000.md"))
			Expect(w.Body.String()).To(Equal("# A"))
		})

		It("rejects a malformed id list", func() {
			w := perform(router, http.MethodGet, "/api/v1/export/md?ids=11,x", nil)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		It("lists the supported formats for an unknown one", func() {
			svc.exportFn = func(_ context.Context, _ *session.Session, format string, _ []int64) (*export.File, error) {
				return export.Export(format, []model.Document{{Title: "x"}}, testTime)
			}

			w := perform(router, http.MethodGet, "/api/v1/export/pdf", nil)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
			Expect(decode(w)["formats"]).To(ContainElements("md", "json", "zip"))
		})

		It("returns 409 for an empty session", func() {
			svc.exportFn = func(_ context.Context, _ *session.Session, format string, _ []int64) (*export.File, error) {
				return export.Export(format, nil, testTime)
			}

			w := perform(router, http.MethodGet, "/api/v1/export/md", nil)

			Expect(w.Code).To(Equal(http.StatusConflict))
		})
	})
})
