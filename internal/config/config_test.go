package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"QUERY_API_URL", "QUERY_API_URL_PARAM", "PREFERENCE_BACKEND", "PREFERENCE_FILE",
	"PREFERENCE_TABLE", "PREFERENCE_PROFILE", "LOG_FILE", "GLAMOUR_WORD_WRAP",
}

// isolate runs the test in an empty directory with a clean environment so
// neither a stray .env nor the caller's variables leak in.
func isolate(t *testing.T) string {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, BackendFile, cfg.Preferences.Backend)
	require.Equal(t, "preferences.json", filepath.Base(cfg.Preferences.File))
	require.Equal(t, 80, cfg.UI.WordWrap)
	require.Error(t, cfg.Validate(), "an endpoint is required")
}

func TestLoad_YAMLFile(t *testing.T) {
	dir := isolate(t)
	path := writeFile(t, dir, "docs-chat.yaml", `
api:
  url: https://kb.example.com
preferences:
  backend: dynamodb
  table: prefs
  profile: alice
ui:
  word_wrap: 100
log_file: /tmp/chat.log
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "https://kb.example.com", cfg.API.URL)
	require.Equal(t, BackendDynamoDB, cfg.Preferences.Backend)
	require.Equal(t, "prefs", cfg.Preferences.Table)
	require.Equal(t, "alice", cfg.Preferences.Profile)
	require.Equal(t, 100, cfg.UI.WordWrap)
	require.Equal(t, "/tmp/chat.log", cfg.LogFile)
	require.NoError(t, cfg.Validate())
	require.True(t, cfg.NeedsAWS())
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := isolate(t)
	path := writeFile(t, dir, "docs-chat.yaml", "api:\n  url: https://from-file\n")
	t.Setenv("QUERY_API_URL", "https://from-env")
	t.Setenv("GLAMOUR_WORD_WRAP", "60")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "https://from-env", cfg.API.URL)
	require.Equal(t, 60, cfg.UI.WordWrap)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := isolate(t)
	writeFile(t, dir, ".env", "QUERY_API_URL_PARAM=/docs-chat/query-api-url\n")
	// godotenv does not override variables that are already set, so clear the
	// empty placeholder set by isolate.
	require.NoError(t, os.Unsetenv("QUERY_API_URL_PARAM"))

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "/docs-chat/query-api-url", cfg.API.URLParam)
	require.NoError(t, cfg.Validate())
	require.True(t, cfg.NeedsAWS())
	require.NoError(t, os.Unsetenv("QUERY_API_URL_PARAM"))
}

func TestLoad_MissingFile(t *testing.T) {
	isolate(t)
	_, err := Load("does-not-exist.yaml")
	require.Error(t, err)
	require.Contains(t, err.Error(), "config: read")
}

func TestLoad_MalformedFile(t *testing.T) {
	dir := isolate(t)
	path := writeFile(t, dir, "bad.yaml", "api: [unclosed\n")
	_, err := Load(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "config: parse")
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "url only", mutate: func(c *Config) { c.API.URL = "https://x" }},
		{name: "param only", mutate: func(c *Config) { c.API.URLParam = "/p" }},
		{name: "no endpoint", mutate: func(c *Config) {}, wantErr: "QUERY_API_URL"},
		{name: "dynamodb without table", mutate: func(c *Config) {
			c.API.URL = "https://x"
			c.Preferences.Backend = BackendDynamoDB
		}, wantErr: "PREFERENCE_TABLE"},
		{name: "unknown backend", mutate: func(c *Config) {
			c.API.URL = "https://x"
			c.Preferences.Backend = "redis"
		}, wantErr: "unknown preference backend"},
		{name: "empty file path", mutate: func(c *Config) {
			c.API.URL = "https://x"
			c.Preferences.File = ""
		}, wantErr: "preference file path"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			err := cfg.Validate()
			if tc.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			require.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestNeedsAWS(t *testing.T) {
	cfg := Default()
	cfg.API.URL = "https://x"
	require.False(t, cfg.NeedsAWS())

	cfg.API.URLParam = "/p"
	require.False(t, cfg.NeedsAWS(), "a direct URL wins over the parameter")

	cfg.Preferences.Backend = BackendDynamoDB
	require.True(t, cfg.NeedsAWS())
}
