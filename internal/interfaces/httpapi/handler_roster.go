package httpapi

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/riskibarqy/fantasy-roster/internal/domain/roster"
	"github.com/riskibarqy/fantasy-roster/internal/usecase"
)

func (h *Handler) ListLeagues(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListLeagues")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	profile, err := h.rosterService.Profile(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "list leagues failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, profileToDTO(profile))
}

func (h *Handler) CreateLeague(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateLeague")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req createLeagueRequest
	if err := h.decodeRequest(ctx, r.Body, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	profile, err := h.rosterService.CreateLeague(ctx, usecase.CreateLeagueInput{
		Name:     req.Name,
		Settings: req.Settings.toDomain(),
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create league failed", "user_id", principal.UserID, "league_name", req.Name, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, profileToDTO(profile))
}

func (h *Handler) GetRoster(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetRoster")
	defer span.End()

	leagueID := strings.TrimSpace(r.PathValue("leagueID"))
	league, err := h.rosterService.GetLeague(ctx, leagueID)
	if err != nil {
		h.logger.WarnContext(ctx, "get roster failed", "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, rosterViewToDTO(league))
}

func (h *Handler) GetEligibility(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetEligibility")
	defer span.End()

	leagueID := strings.TrimSpace(r.PathValue("leagueID"))
	position := r.PathValue("position")
	decision, err := h.rosterService.Eligibility(ctx, leagueID, position)
	if err != nil {
		h.logger.WarnContext(ctx, "eligibility check failed", "league_id", leagueID, "position", position, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, decisionToDTO(decision))
}

// AddMember answers 200 with outcome swap_required when the roster is full;
// the caller then chooses a candidate and calls SwapMember.
func (h *Handler) AddMember(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AddMember")
	defer span.End()

	leagueID := strings.TrimSpace(r.PathValue("leagueID"))
	var req addMemberRequest
	if err := h.decodeRequest(ctx, r.Body, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.rosterService.AddMember(ctx, usecase.AddMemberInput{
		LeagueID:  leagueID,
		MemberID:  req.MemberID,
		IsDefense: req.IsDefense,
		Position:  req.Position,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "add member failed", "league_id", leagueID, "member_id", req.MemberID, "error", err)
		writeError(ctx, w, err)
		return
	}

	status := http.StatusCreated
	if result.Outcome == usecase.AddOutcomeSwapRequired {
		status = http.StatusOK
	}
	writeSuccess(ctx, w, status, addResultToDTO(result))
}

func (h *Handler) SwapMember(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SwapMember")
	defer span.End()

	leagueID := strings.TrimSpace(r.PathValue("leagueID"))
	var req swapMemberRequest
	if err := h.decodeRequest(ctx, r.Body, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	league, err := h.rosterService.SwapMember(ctx, usecase.SwapMemberInput{
		LeagueID: leagueID,
		Outgoing: req.Outgoing.toDomain(),
		Incoming: req.Incoming.toDomain(),
	})
	if err != nil {
		h.logger.WarnContext(ctx, "swap member failed",
			"league_id", leagueID,
			"outgoing_member_id", req.Outgoing.ID,
			"incoming_member_id", req.Incoming.ID,
			"error", err,
		)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, leagueToDTO(league))
}

func (h *Handler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RemoveMember")
	defer span.End()

	leagueID := strings.TrimSpace(r.PathValue("leagueID"))
	memberID := strings.TrimSpace(r.PathValue("memberID"))
	isDefense, err := parseBoolQuery(r, "isDefense")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	league, err := h.rosterService.RemoveMember(ctx, leagueID, roster.Ref{ID: memberID, IsDefense: isDefense})
	if err != nil {
		h.logger.WarnContext(ctx, "remove member failed", "league_id", leagueID, "member_id", memberID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, leagueToDTO(league))
}

func parseBoolQuery(r *http.Request, key string) (bool, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return false, nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return false, invalidQueryError(key, raw)
	}
	return value, nil
}
