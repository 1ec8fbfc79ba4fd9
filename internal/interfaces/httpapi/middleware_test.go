package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/riskibarqy/fantasy-roster/external/rosterapi"
	"github.com/riskibarqy/fantasy-roster/internal/domain/account"
	"github.com/riskibarqy/fantasy-roster/internal/usecase"
)

type stubVerifier struct {
	principal account.Principal
	err       error
	seen      string
}

func (v *stubVerifier) VerifyAccessToken(_ context.Context, token string) (account.Principal, error) {
	v.seen = token
	if v.err != nil {
		return account.Principal{}, v.err
	}
	return v.principal, nil
}

func TestRequireAuth_RejectsMissingOrMalformedHeader(t *testing.T) {
	headers := []string{"", "Bearer", "Bearer   ", "Basic abc", "token-only"}
	for _, header := range headers {
		verifier := &stubVerifier{principal: account.Principal{UserID: "u1"}}
		called := false
		handler := RequireAuth(verifier, http.HandlerFunc(func(http.ResponseWriter, *http.Request) { called = true }))

		req := httptest.NewRequest(http.MethodGet, "/v1/leagues", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("header %q: expected 401, got %d", header, rec.Code)
		}
		if called {
			t.Fatalf("header %q: next handler must not run", header)
		}
	}
}

func TestRequireAuth_AttachesPrincipalAndToken(t *testing.T) {
	verifier := &stubVerifier{principal: account.Principal{UserID: "u1", Email: "u1@example.com"}}
	var (
		gotPrincipal account.Principal
		gotToken     string
	)
	handler := RequireAuth(verifier, http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		gotPrincipal, _ = principalFromContext(r.Context())
		gotToken, _ = rosterapi.AccessTokenFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/v1/leagues", nil)
	req.Header.Set("Authorization", "bearer  tok-123 ")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if verifier.seen != "tok-123" {
		t.Fatalf("expected verifier to see trimmed token, got %q", verifier.seen)
	}
	if gotPrincipal.UserID != "u1" || gotPrincipal.AccessToken != "tok-123" {
		t.Fatalf("unexpected principal: %+v", gotPrincipal)
	}
	if gotToken != "tok-123" {
		t.Fatalf("expected forwarded token tok-123, got %q", gotToken)
	}
}

func TestRequireAuth_VerifierFailureIsMapped(t *testing.T) {
	verifier := &stubVerifier{err: fmt.Errorf("%w: anubis down", usecase.ErrDependencyUnavailable)}
	handler := RequireAuth(verifier, http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/v1/leagues", nil)
	req.Header.Set("Authorization", "Bearer tok")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

func TestShouldTraceRequest(t *testing.T) {
	for _, path := range []string{"/healthz", "/health", "/livez", "/readyz", " /healthz "} {
		if shouldTraceRequest(path) {
			t.Fatalf("expected no tracing for path %q", path)
		}
	}
	for _, path := range []string{"/v1/leagues", "/v1/catalog/QB", "/"} {
		if !shouldTraceRequest(path) {
			t.Fatalf("expected tracing for path %q", path)
		}
	}
}

func TestShouldCreateHTTPAPISpan(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{in: "httpapi.Handler.ToggleLineup", want: true},
		{in: "httpapi.RequireAuth", want: false},
		{in: "httpapi.writeError", want: false},
	}
	for _, tt := range tests {
		if got := shouldCreateHTTPAPISpan(tt.in); got != tt.want {
			t.Fatalf("shouldCreateHTTPAPISpan(%q)=%v want=%v", tt.in, got, tt.want)
		}
	}
}

func TestCORS(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name       string
		allowed    []string
		method     string
		origin     string
		wantOrigin string
		wantStatus int
	}{
		{name: "configured origin", allowed: []string{"https://roster.example.com"}, method: http.MethodGet, origin: "https://roster.example.com", wantOrigin: "https://roster.example.com", wantStatus: http.StatusOK},
		{name: "wildcard preflight", allowed: []string{"*"}, method: http.MethodOptions, origin: "https://roster.example.com", wantOrigin: "*", wantStatus: http.StatusNoContent},
		{name: "unlisted origin", allowed: []string{"https://roster.example.com"}, method: http.MethodGet, origin: "https://evil.example.com", wantOrigin: "", wantStatus: http.StatusOK},
		{name: "no origin", allowed: []string{"*"}, method: http.MethodGet, origin: "", wantOrigin: "", wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/v1/leagues", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			rec := httptest.NewRecorder()
			CORS(tt.allowed, next).ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d", tt.wantStatus, rec.Code)
			}
			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tt.wantOrigin {
				t.Fatalf("unexpected Access-Control-Allow-Origin: %q", got)
			}
		})
	}
}
