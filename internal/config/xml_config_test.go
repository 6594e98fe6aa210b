package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_CreatesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<StudyAssist>")
	assert.Contains(t, string(data), "<TickIntervalMs>200</TickIntervalMs>")

	again, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Upload, again.Upload)
	assert.Equal(t, cfg.Server, again.Server)
}

func TestLoadConfig_PartialFileKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	xml := `<StudyAssist>
  <Server><Port>9000</Port></Server>
  <Tools><SeedDirectory>seed</SeedDirectory></Tools>
</StudyAssist>`
	require.NoError(t, os.WriteFile(path, []byte(xml), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, 200, cfg.Upload.TickIntervalMs)
	assert.Equal(t, filepath.Join(dir, "seed"), cfg.Tools.SeedDirectory)
}

func TestLoadConfig_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("<StudyAssist><Server>"), 0o644))

	_, err := LoadConfig(path)
	assert.ErrorContains(t, err, "failed to parse config file")
}

func TestApplyOverrides_Environment(t *testing.T) {
	t.Setenv("STUDYASSIST_SERVER_PORT", "9191")
	t.Setenv("STUDYASSIST_UPLOAD_ENFORCE_POLICY", "true")
	t.Setenv("STUDYASSIST_UPLOAD_MAX_INCREMENT", "7.5")
	t.Setenv("STUDYASSIST_PROGRESS_ENGINE", "duckdb")

	cfg := DefaultConfig()
	cfg.ApplyOverrides(NewViper())

	assert.Equal(t, 9191, cfg.Server.Port)
	assert.True(t, cfg.Upload.EnforcePolicy)
	assert.Equal(t, 7.5, cfg.Upload.MaxIncrement)
	assert.Equal(t, "duckdb", cfg.Progress.Engine)
	assert.Equal(t, "0.0.0.0", cfg.Server.BindAddress, "unset keys keep file values")
}

func TestApplyOverrides_ExplicitSet(t *testing.T) {
	v := NewViper()
	v.Set("redis.enabled", true)
	v.Set("redis.addr", "cache:6380")

	cfg := DefaultConfig()
	cfg.ApplyOverrides(v)

	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "cache:6380", cfg.Redis.Addr)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*AppConfig)
		wantErr string
	}{
		{name: "defaults", mutate: func(*AppConfig) {}},
		{name: "bad port", mutate: func(c *AppConfig) { c.Server.Port = 0 }, wantErr: "invalid port"},
		{name: "zero tick", mutate: func(c *AppConfig) { c.Upload.TickIntervalMs = 0 }, wantErr: "tick interval"},
		{name: "negative delay", mutate: func(c *AppConfig) { c.Upload.ProcessingDelayMs = -1 }, wantErr: "processing delay"},
		{name: "zero increment", mutate: func(c *AppConfig) { c.Upload.MaxIncrement = 0 }, wantErr: "max increment"},
		{name: "log format", mutate: func(c *AppConfig) { c.Advanced.LogFormat = "xml" }, wantErr: "log format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestCategories(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Upload.Categories = " Maths, ,Art "
	assert.Equal(t, []string{"Maths", "Art"}, cfg.Categories())
}
