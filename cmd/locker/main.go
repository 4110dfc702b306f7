package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/mmcdole/locker/internal/config"
	"github.com/mmcdole/locker/internal/launch"
	"github.com/mmcdole/locker/internal/log"
	"github.com/mmcdole/locker/internal/tui"
)

// Version is set at build time via -ldflags
var Version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCmd creates the root command. Without a subcommand it runs the TUI.
func newRootCmd() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:           "locker",
		Short:         "Search Kakao images and videos and keep the ones you like",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context(), configPath)
		},
	}

	rootCmd.SetVersionTemplate("locker {{.Version}}\n")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default "+config.DefaultConfigFile()+")")

	rootCmd.AddCommand(newSearchCmd(&configPath))
	rootCmd.AddCommand(newSavedCmd(&configPath))
	rootCmd.AddCommand(newSetupCmd(&configPath))

	return rootCmd
}

// loadConfig loads configuration and the file logger
func loadConfig(path string) (*config.Config, *slog.Logger, func(), error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger, closer, err := log.Setup(cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = log.Null()
		closer = nil
	}
	slog.SetDefault(logger)

	cleanup := func() {
		if closer != nil {
			closer.Close()
		}
	}
	return cfg, logger, cleanup, nil
}

func runTUI(ctx context.Context, configPath string) error {
	cfg, logger, cleanup, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	defer cleanup()

	if !cfg.IsConfigured() {
		return fmt.Errorf("no Kakao API key configured: run 'locker setup' or set LOCKER_KAKAO_API_KEY")
	}

	logger.Info("starting locker", "version", Version)

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	watch, err := a.store.Watch(ctx)
	if err != nil {
		return fmt.Errorf("failed to watch locker: %w", err)
	}

	bridge := tui.NewBridge(a.ctrl)
	defer bridge.Close()

	model := tui.NewModel(ctx, tui.Options{
		Controller: a.ctrl,
		Bridge:     bridge,
		Opener:     launch.NewOpener(cfg.Player.Command, cfg.Player.Args, logger),
		Watch:      watch,
		Logger:     logger,
	})

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	logger.Info("starting TUI")
	if _, err := p.Run(); err != nil {
		logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	logger.Info("shutting down")
	return nil
}
