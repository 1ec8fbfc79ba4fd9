package rosterapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/riskibarqy/fantasy-roster/internal/domain/account"
	"github.com/riskibarqy/fantasy-roster/internal/domain/advice"
	"github.com/riskibarqy/fantasy-roster/internal/domain/catalog"
	"github.com/riskibarqy/fantasy-roster/internal/domain/performance"
	"github.com/riskibarqy/fantasy-roster/internal/domain/roster"
)

const (
	pathUserData      = "/api/GetUserData"
	pathMember        = "/api/UpdateUserLeague/member"
	pathPickedStatus  = "/api/UpdateUserLeague/pickedStatus"
	pathCreateLeague  = "/api/CreateLeague"
	pathPrediction    = "/api/RosterPrediction"
	pathByPosition    = "/api/GetPlayersByPosition/"
	pathPerformance   = "/api/LeaguePerformance/"
	pathPlayersBasics = "/api/Players/basic"
)

var (
	_ account.Repository     = (*Client)(nil)
	_ roster.Repository      = (*Client)(nil)
	_ catalog.Repository     = (*Client)(nil)
	_ performance.Repository = (*Client)(nil)
	_ advice.Generator       = (*Client)(nil)
)

func (c *Client) GetProfile(ctx context.Context) (account.Profile, error) {
	var payload userDataResponse
	if err := c.getJSON(ctx, pathUserData, nil, &payload); err != nil {
		return account.Profile{}, fmt.Errorf("get user data: %w", err)
	}
	return payload.toProfile(), nil
}

func (c *Client) AddMember(ctx context.Context, leagueID string, ref roster.Ref) error {
	req := memberRequest{LeagueID: leagueID, MemberID: ref.ID, IsDefense: ref.IsDefense}
	if err := c.mutate(ctx, http.MethodPost, pathMember, req); err != nil {
		return fmt.Errorf("add league member: %w", err)
	}
	return nil
}

func (c *Client) RemoveMember(ctx context.Context, leagueID string, ref roster.Ref) error {
	req := memberRequest{LeagueID: leagueID, MemberID: ref.ID, IsDefense: ref.IsDefense}
	if err := c.mutate(ctx, http.MethodDelete, pathMember, req); err != nil {
		return fmt.Errorf("remove league member: %w", err)
	}
	return nil
}

func (c *Client) SetPickedStatus(ctx context.Context, leagueID string, ref roster.Ref, picked bool) error {
	req := pickedStatusRequest{LeagueID: leagueID, MemberID: ref.ID, Picked: picked, IsDefense: ref.IsDefense}
	if err := c.mutate(ctx, http.MethodPut, pathPickedStatus, req); err != nil {
		return fmt.Errorf("update picked status: %w", err)
	}
	return nil
}

func (c *Client) SwapMember(ctx context.Context, leagueID string, outgoing, incoming roster.Ref) error {
	req := swapMemberRequest{
		LeagueID:     leagueID,
		OldMemberID:  outgoing.ID,
		OldIsDefense: outgoing.IsDefense,
		NewMemberID:  incoming.ID,
		NewIsDefense: incoming.IsDefense,
	}
	if err := c.mutate(ctx, http.MethodPut, pathMember, req); err != nil {
		return fmt.Errorf("swap league member: %w", err)
	}
	return nil
}

func (c *Client) CreateLeague(ctx context.Context, input roster.NewLeague) error {
	req := createLeagueRequest{LeagueName: input.Name, RosterSettings: settingsPayload(input.Settings)}
	if err := c.mutate(ctx, http.MethodPost, pathCreateLeague, req); err != nil {
		return fmt.Errorf("create league: %w", err)
	}
	return nil
}

func (c *Client) Generate(ctx context.Context, leagueID string) ([]advice.Recommendation, error) {
	var payload predictionResponse
	query := url.Values{"leagueId": []string{leagueID}}
	if err := c.getOnce(ctx, pathPrediction, query, &payload); err != nil {
		return nil, fmt.Errorf("get roster prediction: %w", err)
	}
	return payload.Recommendations, nil
}

func (c *Client) ListByPosition(ctx context.Context, pos roster.Position) (catalog.Listing, error) {
	path := pathByPosition + url.PathEscape(strings.ToUpper(pos.String()))
	listing := catalog.Listing{Kind: catalog.KindFor(pos), Position: pos}

	if listing.Kind == catalog.KindDefenses {
		var payload []defensePayload
		if err := c.getJSON(ctx, path, nil, &payload); err != nil {
			return catalog.Listing{}, fmt.Errorf("get defenses: %w", err)
		}
		listing.Defenses = make([]catalog.Defense, 0, len(payload))
		for _, item := range payload {
			listing.Defenses = append(listing.Defenses, catalog.Defense{ID: item.Team.ID, Name: item.Team.Name})
		}
		return listing, nil
	}

	var payload []playerDataPayload
	if err := c.getJSON(ctx, path, nil, &payload); err != nil {
		return catalog.Listing{}, fmt.Errorf("get players by position: %w", err)
	}
	listing.Players = make([]catalog.Player, 0, len(payload))
	for _, item := range payload {
		listing.Players = append(listing.Players, item.toCatalog())
	}
	return listing, nil
}

func (c *Client) GetWeek(ctx context.Context, leagueID string, week int) (performance.Report, error) {
	path := pathPerformance + url.PathEscape(leagueID) + "/week/" + strconv.Itoa(week)
	var payload leaguePerformanceResponse
	if err := c.getJSON(ctx, path, nil, &payload); err != nil {
		return performance.Report{}, fmt.Errorf("get league performance: %w", err)
	}
	return payload.toReport(), nil
}

func (c *Client) GetPlayerInfo(ctx context.Context, playerIDs []string) ([]performance.PlayerInfo, error) {
	if len(playerIDs) == 0 {
		return nil, nil
	}
	var payload []basicInfoPayload
	if err := c.sendJSON(ctx, http.MethodPost, pathPlayersBasics, basicInfoRequest{IDs: playerIDs}, &payload); err != nil {
		return nil, fmt.Errorf("get player basic info: %w", err)
	}
	out := make([]performance.PlayerInfo, 0, len(payload))
	for _, item := range payload {
		out = append(out, performance.PlayerInfo{
			ID:          item.ID,
			Name:        item.Name,
			Position:    item.Position,
			HeadshotURL: item.HeadshotURL,
		})
	}
	return out, nil
}
