package cli

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/adrg/xdg"
	"github.com/spf13/cobra"
)

const (
	appName           = "tictactoe"
	defaultConfigFile = "config.yml"
)

// version is set at build time with -ldflags "-X .../internal/cli.version=...".
var version = "dev"

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   appName,
		Short: "Tic-tac-toe with a browsable move history",
		Long: heredoc.Doc(`
			tictactoe plays tic-tac-toe and keeps every board of the game, so
			any earlier move can be revisited and the game continued from there.

			Run "tictactoe play" for a terminal game or "tictactoe serve" to
			expose games over HTTP and WebSocket.
		`),
		SilenceUsage: true,
	}

	cmd.PersistentFlags().String("config", "", "path to config.yml (default ./config.yml, then $XDG_CONFIG_HOME/tictactoe/config.yml)")

	cmd.AddCommand(newServeCmd(), newPlayCmd(), newVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().ExecuteContext(context.Background())
}

// resolveConfigPath prefers the flag, then the working directory, then the xdg config dir.
func resolveConfigPath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}

	if _, err := os.Stat(defaultConfigFile); err == nil || !errors.Is(err, fs.ErrNotExist) {
		return defaultConfigFile
	}

	if path, err := xdg.SearchConfigFile(filepath.Join(appName, defaultConfigFile)); err == nil {
		return path
	}

	return defaultConfigFile
}

func initLogger(logLevel string) *slog.Logger {
	var level slog.Level

	switch logLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}
