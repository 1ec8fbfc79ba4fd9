package observability

import (
	"context"

	"github.com/riskibarqy/fantasy-roster/internal/config"
	"github.com/riskibarqy/fantasy-roster/internal/platform/logging"
	"github.com/uptrace/uptrace-go/uptrace"
)

func startTracing(cfg config.Config, logger *logging.Logger) (func(context.Context) error, error) {
	if reason := tracingDisabledReason(cfg); reason != "" {
		logger.Info("tracing disabled", "reason", reason)
		return nil, nil
	}

	uptrace.ConfigureOpentelemetry(
		uptrace.WithDSN(cfg.UptraceDSN),
		uptrace.WithServiceName(cfg.ServiceName),
		uptrace.WithServiceVersion(cfg.ServiceVersion),
		uptrace.WithDeploymentEnvironment(cfg.AppEnv),
		uptrace.WithLoggingEnabled(cfg.UptraceLogsEnabled),
	)
	logger.Info("tracing enabled", "exporter", "uptrace", "logs_enabled", cfg.UptraceLogsEnabled)

	return uptrace.Shutdown, nil
}

func tracingDisabledReason(cfg config.Config) string {
	switch {
	case !cfg.UptraceEnabled:
		return "UPTRACE_ENABLED=false"
	case cfg.UptraceDSN == "":
		return "UPTRACE_DSN empty"
	default:
		return ""
	}
}
