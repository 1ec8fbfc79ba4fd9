package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/riskibarqy/fantasy-roster/internal/usecase"
)

func (h *Handler) ListCatalog(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListCatalog")
	defer span.End()

	position := r.PathValue("position")
	listing, err := h.catalogService.ListByPosition(ctx, position, r.URL.Query().Get("q"))
	if err != nil {
		h.logger.WarnContext(ctx, "list catalog failed", "position", position, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, catalogToDTO(listing))
}

func (h *Handler) ListPerformanceWeeks(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListPerformanceWeeks")
	defer span.End()

	leagueID := strings.TrimSpace(r.PathValue("leagueID"))
	weeks, err := h.performanceService.AvailableWeeks(ctx, leagueID)
	if err != nil {
		h.logger.WarnContext(ctx, "list performance weeks failed", "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, availableWeeksDTO{LeagueID: leagueID, Weeks: weeks})
}

func (h *Handler) GetWeeklyPerformance(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetWeeklyPerformance")
	defer span.End()

	leagueID := strings.TrimSpace(r.PathValue("leagueID"))
	rawWeek := strings.TrimSpace(r.PathValue("week"))
	week, err := strconv.Atoi(rawWeek)
	if err != nil {
		writeError(ctx, w, invalidQueryError("week", rawWeek))
		return
	}

	report, err := h.performanceService.Week(ctx, leagueID, week)
	if err != nil {
		h.logger.WarnContext(ctx, "get weekly performance failed", "league_id", leagueID, "week", week, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, weeklyPerformanceToDTO(report))
}

func invalidQueryError(key, raw string) error {
	return fmt.Errorf("%w: invalid %s=%q", usecase.ErrInvalidInput, key, raw)
}
