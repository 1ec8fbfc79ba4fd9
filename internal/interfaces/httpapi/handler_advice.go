package httpapi

import (
	"net/http"
	"strings"

	"github.com/riskibarqy/fantasy-roster/internal/usecase"
)

func (h *Handler) GetAdvice(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetAdvice")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	regenerate, err := parseBoolQuery(r, "regenerate")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	leagueID := strings.TrimSpace(r.PathValue("leagueID"))
	result, err := h.adviceService.Get(ctx, usecase.GetAdviceInput{
		UserID:     principal.UserID,
		LeagueID:   leagueID,
		Regenerate: regenerate,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "get advice failed", "user_id", principal.UserID, "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, adviceToDTO(result))
}

func (h *Handler) ApplyAdvice(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ApplyAdvice")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	leagueID := strings.TrimSpace(r.PathValue("leagueID"))
	result, err := h.adviceService.Apply(ctx, usecase.GetAdviceInput{
		UserID:   principal.UserID,
		LeagueID: leagueID,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "apply advice failed",
			"user_id", principal.UserID,
			"league_id", leagueID,
			"applied", result.Applied,
			"failed", result.Failed,
			"error", err,
		)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, applyAdviceDTO{
		Applied: result.Applied,
		Failed:  result.Failed,
		League:  leagueToDTO(result.League),
	})
}
