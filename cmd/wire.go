package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awsssm "github.com/aws/aws-sdk-go-v2/service/ssm"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"docs-chat/internal/config"
	"docs-chat/internal/integrations/paramstore"
	"docs-chat/internal/integrations/retrieve"
	"docs-chat/internal/repository"
	"docs-chat/internal/usecase"
)

// app holds the wired dependencies shared by every command.
type app struct {
	client *retrieve.Client
	prefs  *usecase.PreferenceService
}

// loadConfig reads the config file and env, then applies flags on top.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if endpoint, _ := cmd.Flags().GetString("endpoint"); endpoint != "" {
		cfg.API.URL = endpoint
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func logLevel(cmd *cobra.Command) slog.Level {
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

// openLogFile routes logging to a file; the terminal belongs to the UI.
func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("log: create dir: %w", err)
	}
	f, err := tea.LogToFile(path, "docs-chat")
	if err != nil {
		return nil, fmt.Errorf("log: open %s: %w", path, err)
	}
	return f, nil
}

func buildApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*app, error) {
	// ---- AWS SDK config (only when a source needs it) ----
	var awsCfg aws.Config
	if cfg.NeedsAWS() {
		var err error
		awsCfg, err = awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS config: %w", err)
		}
	}

	// ---- Endpoint ----
	endpoint := cfg.API.URL
	if endpoint == "" {
		ssmClient, err := paramstore.New(awsssm.NewFromConfig(awsCfg))
		if err != nil {
			return nil, fmt.Errorf("failed to create SSM client: %w", err)
		}
		endpoint, err = paramstore.FetchEndpoint(ctx, ssmClient, cfg.API.URLParam)
		if err != nil {
			return nil, err
		}
		logger.DebugContext(ctx, "endpoint resolved from parameter store", "param", cfg.API.URLParam)
	}

	client, err := retrieve.NewClient(endpoint, retrieve.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("failed to create retrieve client: %w", err)
	}

	// ---- Preferences ----
	store, err := newPreferenceStore(cfg, awsCfg)
	if err != nil {
		return nil, err
	}
	prefs, err := usecase.NewPreferenceService(store, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create preference service: %w", err)
	}

	return &app{client: client, prefs: prefs}, nil
}

func newPreferenceStore(cfg *config.Config, awsCfg aws.Config) (usecase.KeyValueStore, error) {
	switch cfg.Preferences.Backend {
	case config.BackendDynamoDB:
		store, err := repository.New(awsdynamodb.NewFromConfig(awsCfg), cfg.Preferences.Table, cfg.Preferences.Profile)
		if err != nil {
			return nil, fmt.Errorf("failed to create preference table client: %w", err)
		}
		return store, nil
	default:
		store, err := repository.NewFileStore(cfg.Preferences.File)
		if err != nil {
			return nil, fmt.Errorf("failed to create preference file store: %w", err)
		}
		return store, nil
	}
}
