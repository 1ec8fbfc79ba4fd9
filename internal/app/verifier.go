package app

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"

	"github.com/riskibarqy/fantasy-roster/internal/config"
	"github.com/riskibarqy/fantasy-roster/internal/domain/account"
	"github.com/riskibarqy/fantasy-roster/internal/infrastructure/account/anubis"
	"github.com/riskibarqy/fantasy-roster/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/fantasy-roster/internal/interfaces/httpapi"
	"github.com/riskibarqy/fantasy-roster/internal/platform/logging"
)

func newTokenVerifier(cfg config.Config, logger *logging.Logger) httpapi.TokenVerifier {
	if !cfg.AuthEnabled() {
		logger.Warn("token introspection disabled", "reason", "ANUBIS_BASE_URL empty")
		return devVerifier{demo: !cfg.UsesRemoteBackend()}
	}

	return anubis.NewClient(anubis.ClientConfig{
		HTTPClient:     &http.Client{Timeout: cfg.AnubisTimeout},
		BaseURL:        cfg.AnubisBaseURL,
		IntrospectPath: cfg.AnubisIntrospectPath,
		AdminKey:       cfg.AnubisAdminKey,
		CacheTTL:       cfg.AnubisCacheTTL,
		CircuitBreaker: cfg.AnubisCircuit,
		Logger:         logger,
	})
}

// devVerifier accepts any bearer token. With the demo backend every token
// maps to the seeded user; otherwise the user id is derived from the token
// so advice cache entries stay per caller.
type devVerifier struct {
	demo bool
}

func (v devVerifier) VerifyAccessToken(_ context.Context, token string) (account.Principal, error) {
	token = strings.TrimSpace(token)
	userID := memory.SeedUserID
	if !v.demo {
		sum := sha256.Sum256([]byte(token))
		userID = "dev-" + hex.EncodeToString(sum[:6])
	}
	return account.Principal{UserID: userID, AccessToken: token}, nil
}
