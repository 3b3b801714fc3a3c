// Package config loads docs-chat settings.
//
// Sources, lowest precedence first: built-in defaults, the YAML config file,
// a .env file in the working directory, process environment. Command-line
// flags are applied by the caller on top.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"
)

const (
	BackendFile     = "file"
	BackendDynamoDB = "dynamodb"

	defaultWordWrap = 80
	stateDirName    = ".docs-chat"
)

type Config struct {
	API         APIConfig         `yaml:"api"`
	Preferences PreferencesConfig `yaml:"preferences"`
	UI          UIConfig          `yaml:"ui"`
	LogFile     string            `yaml:"log_file"`
}

type APIConfig struct {
	// URL is the retrieval API base; requests go to URL + "/retrieve".
	URL string `yaml:"url"`
	// URLParam names an SSM parameter holding the base URL. Used when URL is empty.
	URLParam string `yaml:"url_param"`
}

type PreferencesConfig struct {
	Backend string `yaml:"backend"`
	File    string `yaml:"file"`
	Table   string `yaml:"table"`
	Profile string `yaml:"profile"`
}

type UIConfig struct {
	WordWrap int `yaml:"word_wrap"`
}

// Default returns the built-in configuration.
func Default() *Config {
	dir := StateDir()
	return &Config{
		Preferences: PreferencesConfig{
			Backend: BackendFile,
			File:    filepath.Join(dir, "preferences.json"),
		},
		UI:      UIConfig{WordWrap: defaultWordWrap},
		LogFile: filepath.Join(dir, "docs-chat.log"),
	}
}

// StateDir is where local state lives by default.
func StateDir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return stateDirName
	}
	return filepath.Join(home, stateDirName)
}

// Load builds the configuration. path may be empty, in which case no config
// file is read.
func Load(path string) (*Config, error) {
	cfg := Default()

	if strings.TrimSpace(path) != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}

	_ = godotenv.Load(".env")
	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	setString(&c.API.URL, "QUERY_API_URL")
	setString(&c.API.URLParam, "QUERY_API_URL_PARAM")
	setString(&c.Preferences.Backend, "PREFERENCE_BACKEND")
	setString(&c.Preferences.File, "PREFERENCE_FILE")
	setString(&c.Preferences.Table, "PREFERENCE_TABLE")
	setString(&c.Preferences.Profile, "PREFERENCE_PROFILE")
	setString(&c.LogFile, "LOG_FILE")
	c.UI.WordWrap = envInt("GLAMOUR_WORD_WRAP", c.UI.WordWrap)
}

// Validate checks that the configuration can start a session.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.API.URL) == "" && strings.TrimSpace(c.API.URLParam) == "" {
		errs = append(errs, errors.New("config: QUERY_API_URL or QUERY_API_URL_PARAM is required"))
	}
	switch c.Preferences.Backend {
	case BackendFile:
		if strings.TrimSpace(c.Preferences.File) == "" {
			errs = append(errs, errors.New("config: preference file path is empty"))
		}
	case BackendDynamoDB:
		if strings.TrimSpace(c.Preferences.Table) == "" {
			errs = append(errs, errors.New("config: PREFERENCE_TABLE is required for the dynamodb backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("config: unknown preference backend %q", c.Preferences.Backend))
	}
	if c.UI.WordWrap <= 0 {
		c.UI.WordWrap = defaultWordWrap
	}
	return errors.Join(errs...)
}

// NeedsAWS reports whether any configured source talks to AWS.
func (c *Config) NeedsAWS() bool {
	return (strings.TrimSpace(c.API.URL) == "" && strings.TrimSpace(c.API.URLParam) != "") ||
		c.Preferences.Backend == BackendDynamoDB
}

func setString(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
