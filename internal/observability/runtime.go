package observability

import (
	"context"
	"errors"
	"net/http"

	"github.com/riskibarqy/fantasy-roster/internal/config"
	"github.com/riskibarqy/fantasy-roster/internal/platform/logging"
)

// Runtime owns the process-wide tracing, profiling and pprof listeners.
type Runtime struct {
	logger       *logging.Logger
	stopTracing  func(context.Context) error
	stopProfiler func() error
	pprof        *http.Server
}

// Start brings up every enabled component. Components already started are
// stopped again if a later one fails.
func Start(cfg config.Config, logger *logging.Logger) (*Runtime, error) {
	if logger == nil {
		logger = logging.Default()
	}
	rt := &Runtime{logger: logger}

	var err error
	if rt.stopTracing, err = startTracing(cfg, logger); err != nil {
		return nil, errors.Join(err, rt.Shutdown(context.Background()))
	}
	if rt.stopProfiler, err = startProfiling(cfg, logger); err != nil {
		return nil, errors.Join(err, rt.Shutdown(context.Background()))
	}
	if rt.pprof, err = startPprof(cfg, logger); err != nil {
		return nil, errors.Join(err, rt.Shutdown(context.Background()))
	}
	return rt, nil
}

// Shutdown stops components in reverse start order. Tracing goes last so
// spans from the other shutdowns are still exported.
func (r *Runtime) Shutdown(ctx context.Context) error {
	if r == nil {
		return nil
	}

	var errs []error
	if r.pprof != nil {
		if err := r.pprof.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		} else {
			r.logger.Info("pprof server stopped")
		}
		r.pprof = nil
	}
	if r.stopProfiler != nil {
		errs = append(errs, r.stopProfiler())
		r.stopProfiler = nil
	}
	if r.stopTracing != nil {
		errs = append(errs, r.stopTracing(ctx))
		r.stopTracing = nil
	}
	return errors.Join(errs...)
}
