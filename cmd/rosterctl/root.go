package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/riskibarqy/fantasy-roster/external/rosterapi"
	"github.com/riskibarqy/fantasy-roster/internal/app"
	"github.com/riskibarqy/fantasy-roster/internal/config"
	"github.com/riskibarqy/fantasy-roster/internal/platform/logging"
	"github.com/spf13/cobra"
)

const tokenEnv = "ROSTER_TOKEN"

// serviceFactory builds the use case layer once flags are parsed.
type serviceFactory func(ctx context.Context, cfg config.Config, opts app.Options, logger *logging.Logger) (app.Services, func() error, error)

func defaultServiceFactory(ctx context.Context, cfg config.Config, opts app.Options, logger *logging.Logger) (app.Services, func() error, error) {
	return app.NewServices(ctx, cfg, opts, logger)
}

type globalFlags struct {
	backendURL string
	token      string
	cachePath  string
	verbose    bool
}

// session is the state shared by every subcommand for one invocation.
type session struct {
	services app.Services
	userID   string
	close    func() error
}

func newRootCmd(factory serviceFactory) *cobra.Command {
	flags := &globalFlags{}
	sess := &session{}

	root := &cobra.Command{
		Use:           "rosterctl",
		Short:         "Manage fantasy football rosters from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return sess.open(cmd.Context(), flags, factory, cmd.ErrOrStderr())
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return sess.shutdown()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.backendURL, "backend-url", "", "roster backend base url (env BACKEND_BASE_URL; empty uses demo data)")
	pf.StringVar(&flags.token, "token", "", "bearer token for the roster backend (env "+tokenEnv+")")
	pf.StringVar(&flags.cachePath, "cache-path", defaultCachePath(), "sqlite file for the advice cache (empty keeps it in memory)")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "log at debug level to stderr")

	root.AddCommand(
		newLeaguesCmd(sess),
		newRosterCmd(sess),
		newAddCmd(sess),
		newRemoveCmd(sess),
		newToggleCmd(sess),
		newAdviceCmd(sess),
		newCatalogCmd(sess),
		newWeeksCmd(sess),
	)
	return root
}

func (s *session) open(ctx context.Context, flags *globalFlags, factory serviceFactory, stderr io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if v := strings.TrimRight(strings.TrimSpace(flags.backendURL), "/"); v != "" {
		cfg.BackendBaseURL = v
	}
	token := strings.TrimSpace(flags.token)
	if token == "" {
		token = strings.TrimSpace(os.Getenv(tokenEnv))
	}
	if cfg.UsesRemoteBackend() && token == "" {
		return fmt.Errorf("a token is required for %s (use --token or %s)", cfg.BackendBaseURL, tokenEnv)
	}

	cfg.AdviceCacheDriver = config.AdviceCacheMemory
	if path := strings.TrimSpace(flags.cachePath); path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("create cache dir: %w", err)
		}
		cfg.AdviceCacheDriver = config.AdviceCacheSQLite
		cfg.AdviceCacheSQLitePath = path
	}

	level := logging.LevelWarn
	if flags.verbose {
		level = logging.LevelDebug
	}
	logger := logging.New(logging.Options{Level: level, Format: logging.FormatConsole, Output: stderr})

	services, closeFn, err := factory(ctx, cfg, app.Options{Tokens: rosterapi.StaticTokenSource(token)}, logger)
	if err != nil {
		return err
	}
	s.services = services
	s.close = closeFn
	return nil
}

func (s *session) shutdown() error {
	if s.close == nil {
		return nil
	}
	err := s.close()
	s.close = nil
	return err
}

// user resolves the caller id from the backend profile. The advice cache is
// keyed by it.
func (s *session) user(ctx context.Context) (string, error) {
	if s.userID != "" {
		return s.userID, nil
	}
	profile, err := s.services.Roster.Profile(ctx)
	if err != nil {
		return "", err
	}
	if profile.UserID == "" {
		return "", errors.New("backend returned a profile without a user id")
	}
	s.userID = profile.UserID
	return s.userID, nil
}

func defaultCachePath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "rosterctl", "advice.db")
}
