package cli

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	app "github.com/rocketscienceinc/tictactoe-history/internal"
	"github.com/rocketscienceinc/tictactoe-history/internal/config"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve games over HTTP and WebSocket",
		Long: heredoc.Doc(`
			serve starts the REST API (games, moves, jumps, /ping, /metrics) on
			http-port and the WebSocket endpoint /ws on socket-port. It stops on
			SIGINT or SIGTERM.
		`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			configFlag, _ := cmd.Flags().GetString("config")

			conf, err := config.Load(resolveConfigPath(configFlag))
			if err != nil {
				return fmt.Errorf("unable to load config: %w", err)
			}

			logger := initLogger(conf.LogLevel)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if err = app.RunApp(ctx, logger, conf); err != nil {
				return fmt.Errorf("app run failed: %w", err)
			}

			return nil
		},
	}
}
