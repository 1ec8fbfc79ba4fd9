package rosterapi

import (
	"context"
	"fmt"
	"strings"

	"github.com/riskibarqy/fantasy-roster/internal/usecase"
)

type accessTokenKey struct{}

// WithAccessToken attaches the caller's bearer token to ctx.
func WithAccessToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, accessTokenKey{}, strings.TrimSpace(token))
}

func AccessTokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(accessTokenKey{}).(string)
	return token, ok && token != ""
}

// TokenSource resolves the bearer token used for a backend call.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// ContextTokenSource reads the token placed on the request context by the
// HTTP middleware.
type ContextTokenSource struct{}

func (ContextTokenSource) Token(ctx context.Context) (string, error) {
	if token, ok := AccessTokenFromContext(ctx); ok {
		return token, nil
	}
	return "", fmt.Errorf("%w: user not authenticated", usecase.ErrUnauthorized)
}

// StaticTokenSource is used by the CLI where one token is configured for the
// whole process. A token on the context still wins.
type StaticTokenSource string

func (s StaticTokenSource) Token(ctx context.Context) (string, error) {
	if token, ok := AccessTokenFromContext(ctx); ok {
		return token, nil
	}
	if token := strings.TrimSpace(string(s)); token != "" {
		return token, nil
	}
	return "", fmt.Errorf("%w: user not authenticated", usecase.ErrUnauthorized)
}
