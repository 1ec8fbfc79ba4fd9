package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/riskibarqy/fantasy-roster/internal/config"
	"github.com/riskibarqy/fantasy-roster/internal/interfaces/httpapi"
	"github.com/riskibarqy/fantasy-roster/internal/platform/logging"
)

// NewHTTPServer builds the API server. The returned close func releases
// resources held by the service layer and must run after shutdown.
func NewHTTPServer(ctx context.Context, cfg config.Config, logger *logging.Logger) (*http.Server, func() error, error) {
	if cfg.HTTPAddr == "" {
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}
	if logger == nil {
		logger = logging.Default()
	}

	services, closeServices, err := NewServices(ctx, cfg, Options{}, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("build services: %w", err)
	}

	handler := httpapi.NewHandler(
		services.Roster,
		services.StartSit,
		services.Advice,
		services.Catalog,
		services.Performance,
		logger,
	)
	router := httpapi.NewRouter(handler, newTokenVerifier(cfg, logger), logger, cfg.CORSAllowedOrigins)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return server, closeServices, nil
}
