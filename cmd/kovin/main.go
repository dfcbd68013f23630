package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/kovin-ide/kovin/internal/backend"
	"github.com/kovin-ide/kovin/internal/config"
	"github.com/kovin-ide/kovin/internal/logger"
	"github.com/kovin-ide/kovin/internal/server"
	"github.com/kovin-ide/kovin/internal/storage"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var cfgFile string

func main() {
	rootCmd := &cobra.Command{
		Use:     "kovin",
		Short:   "Kovin IDE - smart-contract workspace daemon",
		Long:    `Kovin keeps AI-generated smart-contract projects, their files and chat history, and serves them to the dashboard over HTTP and to agents over MCP.`,
		Version: server.Version,
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $KOVIN_CONFIG or ./config.toml)")

	rootCmd.AddCommand(initCmd())
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(mcpCmd())
	rootCmd.AddCommand(generateCmd())
	rootCmd.AddCommand(projectsCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func configPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	if env := os.Getenv("KOVIN_CONFIG"); env != "" {
		return env
	}
	return "config.toml"
}

// loadConfig reads the config file, falling back to defaults when it is missing
func loadConfig(logOut io.Writer) (*config.Config, zerolog.Logger, error) {
	path := configPath()

	cfg, err := config.Load(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, zerolog.Nop(), err
		}
		cfg = config.DefaultConfig()
		log := logger.NewWithWriter(logOut, cfg.Log.Level, cfg.Log.Format)
		log.Warn().Str("path", path).Msg("config file not found, using defaults")
		return cfg, log, nil
	}

	return cfg, logger.NewWithWriter(logOut, cfg.Log.Level, cfg.Log.Format), nil
}

// runtime is the wiring shared by every command that touches the stores
type runtime struct {
	cfg  *config.Config
	log  zerolog.Logger
	snap storage.Snapshotter
	app  *server.App
}

func setup(ctx context.Context, logOut io.Writer) (*runtime, error) {
	cfg, log, err := loadConfig(logOut)
	if err != nil {
		return nil, err
	}

	snap, err := storage.Open(ctx, &cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}
	log.Debug().Str("driver", cfg.Storage.Driver).Msg("storage opened")

	client := backend.NewClient(&cfg.Backend)
	return &runtime{
		cfg:  cfg,
		log:  log,
		snap: snap,
		app:  server.NewApp(cfg, client, snap, log),
	}, nil
}

func (r *runtime) Close() {
	if err := r.snap.Close(); err != nil {
		r.log.Error().Err(err).Msg("failed to close storage")
	}
}
