package rosterapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/google/go-cmp/cmp"
	"github.com/riskibarqy/fantasy-roster/internal/domain/catalog"
	"github.com/riskibarqy/fantasy-roster/internal/domain/roster"
	"github.com/riskibarqy/fantasy-roster/internal/platform/logging"
	"github.com/riskibarqy/fantasy-roster/internal/platform/resilience"
	"github.com/riskibarqy/fantasy-roster/internal/usecase"
)

const userDataFixture = `{
  "userInfo": {"id": "u-1", "email": "coach@example.com", "tokens_left": 3},
  "leagues": [{
    "leagueId": "l-1",
    "leagueName": "Sunday Crew",
    "rosterSettings": {"qb_count": 1, "rb_count": 2, "wr_count": 2, "te_count": 1, "k_count": 1, "def_count": 1, "flex_count": 1, "bench_count": 4},
    "players": [{
      "picked": true,
      "player": {"id": "p-1", "name": "Josh Allen", "position": "qb", "team": "BUF", "headshot_url": "https://img/1.png"},
      "seasonStats": {"fantasy_points": 312.5},
      "weeklyStats": [{"week": 1}, {"week": 2}]
    }],
    "defenses": [{"picked": false, "team": {"id": "d-1", "name": "Denver"}}]
  }]
}`

func newTestClient(t *testing.T, handler http.HandlerFunc, mutate func(*ClientConfig)) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := ClientConfig{
		HTTPClient: server.Client(),
		BaseURL:    server.URL + "/",
		Logger:     logging.NewNop(),
	}
	if mutate != nil {
		mutate(&cfg)
	}
	return NewClient(cfg)
}

func authed(ctx context.Context) context.Context {
	return WithAccessToken(ctx, "secret-token")
}

func TestClient_GetProfileDecodesUserData(t *testing.T) {
	t.Parallel()

	var gotAuth string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != pathUserData {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		_, _ = io.WriteString(w, userDataFixture)
	}, nil)

	profile, err := client.GetProfile(authed(t.Context()))
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if gotAuth != "Bearer secret-token" {
		t.Fatalf("authorization header mismatch: %q", gotAuth)
	}

	want := roster.League{
		ID:   "l-1",
		Name: "Sunday Crew",
		Settings: roster.Settings{
			QB: 1, RB: 2, WR: 2, TE: 1, K: 1, DEF: 1, Flex: 1, Bench: 4,
		},
		Players: []roster.Entry{{
			ID:           "p-1",
			Name:         "Josh Allen",
			Position:     roster.PositionQB,
			Team:         "BUF",
			HeadshotURL:  "https://img/1.png",
			Picked:       true,
			SeasonPoints: 312.5,
			Weeks:        []int{1, 2},
		}},
		Defenses: []roster.Entry{{
			ID:        "d-1",
			Name:      "Denver",
			Position:  roster.PositionDEF,
			Team:      "Denver",
			IsDefense: true,
		}},
	}
	if profile.UserID != "u-1" || profile.TokensLeft != 3 || len(profile.Leagues) != 1 {
		t.Fatalf("unexpected profile header: %+v", profile)
	}
	if diff := cmp.Diff(want, profile.Leagues[0]); diff != "" {
		t.Fatalf("league mismatch (-want +got):\n%s", diff)
	}
}

func TestClient_MissingTokenIsUnauthorized(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}, nil)

	_, err := client.GetProfile(t.Context())
	if !errors.Is(err, usecase.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if calls.Load() != 0 {
		t.Fatalf("expected no request without a token, got %d", calls.Load())
	}
}

func TestClient_StaticTokenSource(t *testing.T) {
	t.Parallel()

	var gotAuth string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = io.WriteString(w, userDataFixture)
	}, func(cfg *ClientConfig) {
		cfg.Tokens = StaticTokenSource("cli-token")
	})

	if _, err := client.GetProfile(t.Context()); err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if gotAuth != "Bearer cli-token" {
		t.Fatalf("authorization header mismatch: %q", gotAuth)
	}
}

func TestClient_RetriesTransientReads(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = io.WriteString(w, userDataFixture)
	}, func(cfg *ClientConfig) {
		cfg.MaxRetries = 2
	})

	if _, err := client.GetProfile(authed(t.Context())); err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if calls.Load() != 2 {
		t.Fatalf("expected 2 attempts, got %d", calls.Load())
	}
}

func TestClient_DoesNotRetryMutations(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}, func(cfg *ClientConfig) {
		cfg.MaxRetries = 3
	})

	err := client.AddMember(authed(t.Context()), "l-1", roster.Ref{ID: "p-9"})
	if !errors.Is(err, usecase.ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable, got %v", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("expected a single attempt, got %d", calls.Load())
	}
}

func TestClient_GenerateIsNotRetried(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = io.WriteString(w, `{"recommendations":[]}`)
	}, func(cfg *ClientConfig) {
		cfg.MaxRetries = 2
	})

	_, err := client.Generate(authed(t.Context()), "l-1")
	if !errors.Is(err, usecase.ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable, got %v", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("expected a single billed attempt, got %d", calls.Load())
	}
}

func TestClient_ReadAfterMutationSkipsInFlightSnapshot(t *testing.T) {
	t.Parallel()

	var (
		picked    atomic.Bool
		userCalls atomic.Int32
		held      = make(chan struct{})
		release   = make(chan struct{})
	)
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case pathPickedStatus:
			picked.Store(true)
		case pathUserData:
			snapshot := picked.Load()
			if userCalls.Add(1) == 1 {
				close(held)
				<-release
			}
			_, _ = fmt.Fprintf(w, `{"userInfo":{"id":"u-1"},"leagues":[{"leagueId":"l-1","players":[{"picked":%t,"player":{"id":"p-1","position":"QB"}}]}]}`, snapshot)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}, nil)
	t.Cleanup(func() {
		select {
		case <-release:
		default:
			close(release)
		}
	})

	ctx := authed(t.Context())
	staleDone := make(chan error, 1)
	go func() {
		_, err := client.GetProfile(ctx)
		staleDone <- err
	}()
	<-held

	if err := client.SetPickedStatus(ctx, "l-1", roster.Ref{ID: "p-1"}, true); err != nil {
		t.Fatalf("SetPickedStatus: %v", err)
	}

	refreshCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	profile, err := client.GetProfile(refreshCtx)
	if err != nil {
		t.Fatalf("refresh after mutation: %v", err)
	}
	if !profile.Leagues[0].Players[0].Picked {
		t.Fatalf("refresh returned the snapshot taken before the mutation")
	}

	close(release)
	if err := <-staleDone; err != nil {
		t.Fatalf("in-flight read: %v", err)
	}
}

func TestClient_ClassifiesStatusCodes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status int
		want   error
	}{
		{name: "unauthorized", status: http.StatusUnauthorized, want: usecase.ErrUnauthorized},
		{name: "forbidden", status: http.StatusForbidden, want: usecase.ErrUnauthorized},
		{name: "not found", status: http.StatusNotFound, want: usecase.ErrNotFound},
		{name: "conflict", status: http.StatusConflict, want: usecase.ErrAlreadyRostered},
		{name: "bad request", status: http.StatusBadRequest, want: usecase.ErrInvalidInput},
		{name: "server error", status: http.StatusInternalServerError, want: usecase.ErrDependencyUnavailable},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = io.WriteString(w, `{"error":"nope"}`)
			}, nil)

			err := client.SetPickedStatus(authed(t.Context()), "l-1", roster.Ref{ID: "p-1"}, true)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestClient_SetPickedStatusPayload(t *testing.T) {
	t.Parallel()

	var got pickedStatusRequest
	var method string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("missing json content type")
		}
		raw, _ := io.ReadAll(r.Body)
		if err := sonic.Unmarshal(raw, &got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusNoContent)
	}, nil)

	if err := client.SetPickedStatus(authed(t.Context()), "l-1", roster.Ref{ID: "d-1", IsDefense: true}, false); err != nil {
		t.Fatalf("SetPickedStatus: %v", err)
	}

	want := pickedStatusRequest{LeagueID: "l-1", MemberID: "d-1", Picked: false, IsDefense: true}
	if method != http.MethodPut {
		t.Fatalf("expected PUT, got %s", method)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("payload mismatch (-want +got):\n%s", diff)
	}
}

func TestClient_SwapMemberPayload(t *testing.T) {
	t.Parallel()

	var got swapMemberRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != pathMember {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		raw, _ := io.ReadAll(r.Body)
		_ = sonic.Unmarshal(raw, &got)
	}, nil)

	err := client.SwapMember(authed(t.Context()), "l-1", roster.Ref{ID: "p-1"}, roster.Ref{ID: "p-2"})
	if err != nil {
		t.Fatalf("SwapMember: %v", err)
	}
	want := swapMemberRequest{LeagueID: "l-1", OldMemberID: "p-1", NewMemberID: "p-2"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("payload mismatch (-want +got):\n%s", diff)
	}
}

func TestClient_ListByPositionReturnsDefenses(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != pathByPosition+"DEF" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_, _ = io.WriteString(w, `[{"picked":false,"team":{"id":"d-1","name":"Denver"}},{"picked":false,"team":{"id":"d-2","name":"Dallas"}}]`)
	}, nil)

	listing, err := client.ListByPosition(authed(t.Context()), roster.PositionDEF)
	if err != nil {
		t.Fatalf("ListByPosition: %v", err)
	}
	want := catalog.Listing{
		Kind:     catalog.KindDefenses,
		Position: roster.PositionDEF,
		Defenses: []catalog.Defense{{ID: "d-1", Name: "Denver"}, {ID: "d-2", Name: "Dallas"}},
	}
	if diff := cmp.Diff(want, listing); diff != "" {
		t.Fatalf("listing mismatch (-want +got):\n%s", diff)
	}
}

func TestClient_GeneratePassesLeagueID(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("leagueId"); got != "l-1" {
			t.Errorf("leagueId mismatch: %q", got)
		}
		_, _ = io.WriteString(w, `{"recommendations":[{"playerId":"p-1","position":"QB","picked":true,"reasoning":"volume"}]}`)
	}, nil)

	recs, err := client.Generate(authed(t.Context()), "l-1")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(recs) != 1 || recs[0].PlayerID != "p-1" || !recs[0].Picked {
		t.Fatalf("unexpected recommendations: %+v", recs)
	}
}

func TestClient_GetWeekDecodesReport(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/LeaguePerformance/l-1/week/3" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_, _ = io.WriteString(w, `{
		  "playerPerformance": [{"playerId":"p-1","actualFpts":21.4,"picked":true,"positionRank":2,"overallRank":5}],
		  "leaguePerformance": [{"week":3,"actualFpts":101,"maxFpts":120,"accuracy":0.84}]
		}`)
	}, nil)

	report, err := client.GetWeek(authed(t.Context()), "l-1", 3)
	if err != nil {
		t.Fatalf("GetWeek: %v", err)
	}
	if len(report.Players) != 1 || report.Players[0].OverallRank != 5 || report.Players[0].ActualPoints != 21.4 {
		t.Fatalf("unexpected players: %+v", report.Players)
	}
	if len(report.History) != 1 || report.History[0].MaxPoints != 120 {
		t.Fatalf("unexpected history: %+v", report.History)
	}
}

func TestClient_CircuitBreakerRejectsAfterFailures(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}, func(cfg *ClientConfig) {
		cfg.CircuitBreaker = resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 1,
			OpenTimeout:      time.Minute,
			HalfOpenMaxReq:   1,
		}
	})

	ctx := authed(t.Context())
	if _, err := client.GetProfile(ctx); !errors.Is(err, usecase.ErrDependencyUnavailable) {
		t.Fatalf("expected first call to fail with ErrDependencyUnavailable, got %v", err)
	}
	if _, err := client.GetProfile(ctx); !errors.Is(err, usecase.ErrDependencyUnavailable) {
		t.Fatalf("expected breaker rejection, got %v", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("expected breaker to short-circuit the second call, got %d requests", calls.Load())
	}
}

func TestBuildCurlPreview_RedactsToken(t *testing.T) {
	t.Parallel()

	got := buildCurlPreview(http.MethodPost, "https://backend/api/x", `{"name":"it's"}`)
	want := `curl -X POST 'https://backend/api/x' -H 'Authorization: Bearer REDACTED' -H 'Content-Type: application/json' --data '{"name":"it'"'"'s"}'`
	if got != want {
		t.Fatalf("preview mismatch:\n got=%s\nwant=%s", got, want)
	}
}
