package main

import (
	"fmt"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"docs-chat/internal/tui"
)

func runChat(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logFile, err := openLogFile(cfg.LogFile)
	if err != nil {
		return err
	}
	defer logFile.Close()
	logger := slog.New(slog.NewTextHandler(logFile, &slog.HandlerOptions{Level: logLevel(cmd)}))
	slog.SetDefault(logger)

	a, err := buildApp(ctx, cfg, logger)
	if err != nil {
		logger.Error("startup failed", "err", err)
		return err
	}

	plain, _ := cmd.Flags().GetBool("plain")
	model, err := tui.New(a.client, a.prefs,
		tui.WithContext(ctx),
		tui.WithLogger(logger),
		tui.WithWordWrap(cfg.UI.WordWrap),
		tui.WithMarkdown(!plain),
	)
	if err != nil {
		return fmt.Errorf("failed to create shell: %w", err)
	}

	logger.Info("session started", "log_file", cfg.LogFile, "preference_backend", cfg.Preferences.Backend)
	if _, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion()).Run(); err != nil {
		logger.Error("shell exited with error", "err", err)
		return err
	}
	return nil
}
