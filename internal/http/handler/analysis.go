package handler

import (
	"net/http"

	"basegraph.app/storyforge/internal/http/dto"
	"basegraph.app/storyforge/internal/http/middleware"
	"basegraph.app/storyforge/internal/service"
	"github.com/gin-gonic/gin"
)

type InvestHandler struct {
	invest service.InvestService
}

func NewInvestHandler(invest service.InvestService) *InvestHandler {
	return &InvestHandler{invest: invest}
}

func (h *InvestHandler) Local(c *gin.Context) {
	eval, err := h.invest.Local(c.Request.Context(), middleware.SessionFrom(c))
	if err != nil {
		respondError(c, err, "score story")
		return
	}
	c.JSON(http.StatusOK, dto.ToInvestResponse(eval.Score, eval.Status, eval.Warning))
}

// AI asks the model for an assessment. A reply that cannot be read falls back
// to the local score and carries a warning instead of failing.
func (h *InvestHandler) AI(c *gin.Context) {
	eval, err := h.invest.AI(c.Request.Context(), middleware.SessionFrom(c))
	if err != nil {
		respondError(c, err, "score story")
		return
	}
	c.JSON(http.StatusOK, dto.ToInvestResponse(eval.Score, eval.Status, eval.Warning))
}

func (h *InvestHandler) Report(c *gin.Context) {
	report, err := h.invest.Report(c.Request.Context(), middleware.SessionFrom(c))
	if err != nil {
		respondError(c, err, "build report")
		return
	}
	c.Header("Content-Disposition", contentDisposition("relatorio-invest.txt"))
	c.String(http.StatusOK, report)
}

type SuggestionHandler struct {
	suggestions service.SuggestionService
}

func NewSuggestionHandler(suggestions service.SuggestionService) *SuggestionHandler {
	return &SuggestionHandler{suggestions: suggestions}
}

func (h *SuggestionHandler) Suggest(c *gin.Context) {
	var req dto.SuggestionsRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		badRequest(c, "severity must be baixa, media or alta and type one of ambiguidade, tamanho, criterio, clareza")
		return
	}

	out, err := h.suggestions.Suggest(c.Request.Context(), middleware.SessionFrom(c), req.Filter())
	if err != nil {
		respondError(c, err, "suggest improvements")
		return
	}
	c.JSON(http.StatusOK, dto.ToSuggestionsResponse(out))
}
