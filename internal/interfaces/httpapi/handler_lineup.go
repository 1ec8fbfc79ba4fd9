package httpapi

import (
	"net/http"
	"strings"

	"github.com/riskibarqy/fantasy-roster/internal/usecase"
)

func (h *Handler) ToggleLineup(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ToggleLineup")
	defer span.End()

	leagueID := strings.TrimSpace(r.PathValue("leagueID"))
	var req toggleLineupRequest
	if err := h.decodeRequest(ctx, r.Body, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.startSitService.Toggle(ctx, leagueID, req.Member.toDomain())
	if err != nil {
		h.logger.WarnContext(ctx, "toggle lineup failed", "league_id", leagueID, "member_id", req.Member.ID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, toggleResultToDTO(result))
}

func (h *Handler) SwapLineup(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SwapLineup")
	defer span.End()

	leagueID := strings.TrimSpace(r.PathValue("leagueID"))
	var req swapLineupRequest
	if err := h.decodeRequest(ctx, r.Body, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	league, err := h.startSitService.Swap(ctx, usecase.SwapStartInput{
		LeagueID: leagueID,
		Target:   req.Target.toDomain(),
		Bench:    req.Bench.toDomain(),
	})
	if err != nil {
		h.logger.WarnContext(ctx, "swap lineup failed",
			"league_id", leagueID,
			"target_member_id", req.Target.ID,
			"bench_member_id", req.Bench.ID,
			"error", err,
		)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, leagueToDTO(league))
}
