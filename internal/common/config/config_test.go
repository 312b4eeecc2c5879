package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iknowcss/htmlshell/internal/common/configtypes"
	"github.com/iknowcss/htmlshell/pkg/types"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "shell-server.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const minimalConfig = `
server:
  listen: ":8080"
`

func TestLoadMinimalConfigAppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Listen)
	assert.Equal(t, 30*time.Second, time.Duration(cfg.Server.Timeout))
	assert.True(t, cfg.Log.Console.Enabled)
	assert.Equal(t, configtypes.LogFormatConsole, cfg.Log.Console.Format)
	assert.Equal(t, configtypes.LogLevelInfo, cfg.Log.Level)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.False(t, cfg.Cache.Enabled)
	assert.Equal(t, types.CompressionNone, cfg.Cache.Compression)
}

func TestLoadFullConfig(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
server:
  listen: ":8080"
  timeout: 15s
log:
  level: warn
  console:
    enabled: true
    format: json
metrics:
  enabled: true
  listen: ":9090"
  path: /metrics
  namespace: htmlshell
cache:
  enabled: true
  redis:
    addr: "127.0.0.1:6379"
    db: 2
  ttl: 5m
  compression: lz4
documents:
  defaults:
    title: Fallback Title
    visual_website_optimizer:
      account_id: 111222
    env:
      NODE_ENV: production
`))
	require.NoError(t, err)

	assert.Equal(t, 15*time.Second, time.Duration(cfg.Server.Timeout))
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, "htmlshell", cfg.Metrics.Namespace)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, 2, cfg.Cache.Redis.DB)
	assert.Equal(t, 5*time.Minute, time.Duration(cfg.Cache.TTL))
	assert.Equal(t, types.CompressionLZ4, cfg.Cache.Compression)
	assert.Equal(t, "Fallback Title", cfg.Documents.Defaults.Title)
	assert.Equal(t, 111222, cfg.Documents.Defaults.VisualWebsiteOptimizer.ResolvedAccountID())
	assert.Equal(t, map[string]interface{}{"NODE_ENV": "production"}, cfg.Documents.Defaults.Env)
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	_, err := Load(writeConfig(t, `
server:
  listen: ":8080"
  lisen_typo: ":8081"
`))
	assert.Error(t, err)
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "missing listen",
			content: `log: {level: info}`,
		},
		{
			name: "bad log level",
			content: `
server:
  listen: ":8080"
log:
  level: verbose
`,
		},
		{
			name: "metrics without listen",
			content: `
server:
  listen: ":8080"
metrics:
  enabled: true
`,
		},
		{
			name: "metrics port collides with server",
			content: `
server:
  listen: ":8080"
metrics:
  enabled: true
  listen: ":8080"
`,
		},
		{
			name: "cache without redis addr",
			content: `
server:
  listen: ":8080"
cache:
  enabled: true
`,
		},
		{
			name: "bad cache compression",
			content: `
server:
  listen: ":8080"
cache:
  enabled: true
  redis:
    addr: "127.0.0.1:6379"
  compression: zstd
`,
		},
		{
			name: "bad metrics namespace",
			content: `
server:
  listen: ":8080"
metrics:
  enabled: true
  listen: ":9090"
  namespace: "1bad"
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestGetConfigPath(t *testing.T) {
	path := writeConfig(t, minimalConfig)

	abs, err := GetConfigPath(path)
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(abs))

	_, err = GetConfigPath("")
	assert.Error(t, err)

	_, err = GetConfigPath(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestMergeDocumentDefaults(t *testing.T) {
	defaults := types.DocumentOptions{
		Title:                  "Default Title",
		Description:            "Default description",
		VisualWebsiteOptimizer: types.Optimizer{Mode: types.OptimizerDefaultAccount},
		Env:                    map[string]interface{}{"NODE_ENV": "production"},
	}

	t.Run("zero options take all defaults", func(t *testing.T) {
		merged := MergeDocumentDefaults(types.DocumentOptions{}, defaults)
		assert.Equal(t, defaults, merged)
	})

	t.Run("request fields win", func(t *testing.T) {
		merged := MergeDocumentDefaults(types.DocumentOptions{
			Title:                  "Page",
			VisualWebsiteOptimizer: types.Optimizer{Mode: types.OptimizerCustomAccount, AccountID: 9},
			Env:                    map[string]interface{}{},
		}, defaults)

		assert.Equal(t, "Page", merged.Title)
		assert.Equal(t, "Default description", merged.Description)
		assert.Equal(t, 9, merged.VisualWebsiteOptimizer.ResolvedAccountID())
		// Explicit empty env is kept, not replaced by the default
		assert.Empty(t, merged.Env)
	})
}
