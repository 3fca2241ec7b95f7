// Package cli implements the offroute operator command.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/offroutechronicles/offroute-server/internal/backend"
	// Registers every driver scheme with backend.Open.
	_ "github.com/offroutechronicles/offroute-server/internal/backend/drivers"
	"github.com/offroutechronicles/offroute-server/internal/config"
	"github.com/offroutechronicles/offroute-server/internal/facade"
	"github.com/offroutechronicles/offroute-server/internal/logger"
	"github.com/offroutechronicles/offroute-server/internal/mock"
	"github.com/offroutechronicles/offroute-server/internal/service"
)

// App holds what the subcommands share. It is filled in by the root
// command's PersistentPreRunE.
type App struct {
	cfg    *config.Config
	logger *logger.Logger
	conn   *backend.Connector
	data   *facade.Client

	backendURL string
	backendKey string
	logLevel   string
}

// Option configures the root command.
type Option func(*App)

// WithConfig skips flag and environment loading.
func WithConfig(cfg *config.Config) Option {
	return func(a *App) { a.cfg = cfg }
}

// NewRootCommand builds the offroute command tree.
func NewRootCommand(opts ...Option) *cobra.Command {
	app := &App{}
	for _, opt := range opts {
		opt(app)
	}

	root := &cobra.Command{
		Use:           "offroute",
		Short:         "Operate the offRoute Chronicles data backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return app.init(cmd)
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return app.close()
		},
	}

	root.PersistentFlags().StringVar(&app.backendURL, "backend-url", "", "Remote backend URL (env BACKEND_URL)")
	root.PersistentFlags().StringVar(&app.backendKey, "backend-key", "", "Remote backend access key (env BACKEND_KEY)")
	root.PersistentFlags().StringVar(&app.logLevel, "log-level", "", "Log level (env LOG_LEVEL)")

	root.AddCommand(
		app.statusCommand(),
		app.postsCommand(),
		app.destinationsCommand(),
		app.seedCommand(),
	)
	return root
}

func (a *App) init(cmd *cobra.Command) error {
	if a.cfg == nil {
		var args []string
		for _, f := range []struct{ name, value string }{
			{"backend-url", a.backendURL},
			{"backend-key", a.backendKey},
			{"log-level", a.logLevel},
		} {
			if f.value != "" {
				args = append(args, "--"+f.name, f.value)
			}
		}
		cfg, err := config.Load(args)
		if err != nil {
			return err
		}
		a.cfg = cfg
	}

	a.logger = logger.New(logger.Config{
		Writer:      cmd.ErrOrStderr(),
		Level:       logger.ParseLevel(a.cfg.Logger.Level),
		Environment: a.cfg.App.Environment,
	})
	a.conn = backend.NewConnector(backend.Config{
		URL:            a.cfg.Backend.URL,
		Key:            a.cfg.Backend.Key,
		ConnectTimeout: a.cfg.Backend.ConnectTimeout,
		RequestRate:    a.cfg.Backend.RequestRate,
	}, a.logger.Logger)
	a.data = facade.New(a.conn, mock.Default(), facade.WithLogger(a.logger.Logger))
	return nil
}

func (a *App) close() error {
	if a.conn == nil {
		return nil
	}
	if err := a.conn.Close(); err != nil {
		return fmt.Errorf("close backend: %w", err)
	}
	return nil
}

// stories serves reads without a query cache; every command is a single
// pass.
func (a *App) stories() *service.StoryService {
	return service.NewStoryService(a.data, nil, a.logger.Logger)
}
