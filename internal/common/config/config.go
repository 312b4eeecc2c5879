package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/iknowcss/htmlshell/internal/common/configtypes"
	"github.com/iknowcss/htmlshell/internal/common/yamlutil"
	"github.com/iknowcss/htmlshell/pkg/types"
)

const (
	defaultServerTimeout = 30 * time.Second
	defaultCacheTTL      = 10 * time.Minute
	defaultMetricsPath   = "/metrics"
)

var namespacePattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// ShellConfig is the shell-server configuration file.
type ShellConfig struct {
	Server    configtypes.ServerConfig    `yaml:"server"`
	Log       configtypes.LogConfig       `yaml:"log"`
	Metrics   configtypes.MetricsConfig   `yaml:"metrics"`
	Cache     configtypes.CacheConfig     `yaml:"cache"`
	Documents configtypes.DocumentsConfig `yaml:"documents"`
}

// Load reads, defaults, and validates a configuration file.
func Load(configPath string) (*ShellConfig, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg ShellConfig
	if err := yamlutil.UnmarshalStrict(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// GetConfigPath resolves the config file path to an absolute path and
// verifies the file exists.
func GetConfigPath(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("config path cannot be empty")
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve config path: %w", err)
	}

	if _, err := os.Stat(absPath); os.IsNotExist(err) {
		return "", fmt.Errorf("config file does not exist: %s", absPath)
	}

	return absPath, nil
}

func (cfg *ShellConfig) applyDefaults() {
	if cfg.Server.Timeout == 0 {
		cfg.Server.Timeout = types.Duration(defaultServerTimeout)
	}

	// If both log outputs are disabled (zero values), enable console
	if !cfg.Log.Console.Enabled && !cfg.Log.File.Enabled {
		cfg.Log.Console.Enabled = true
	}
	if cfg.Log.Console.Format == "" {
		cfg.Log.Console.Format = configtypes.LogFormatConsole
	}
	if cfg.Log.File.Format == "" {
		cfg.Log.File.Format = configtypes.LogFormatText
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = configtypes.LogLevelInfo
	}

	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = defaultMetricsPath
	}

	if cfg.Cache.TTL == 0 {
		cfg.Cache.TTL = types.Duration(defaultCacheTTL)
	}
	if cfg.Cache.Compression == "" {
		cfg.Cache.Compression = types.CompressionNone
	}
}

// Validate checks configuration validity.
func (cfg *ShellConfig) Validate() error {
	if cfg.Server.Listen == "" {
		return fmt.Errorf("server.listen is required")
	}
	if err := configtypes.ValidateListenAddress(cfg.Server.Listen); err != nil {
		return fmt.Errorf("invalid server.listen: %w", err)
	}
	if cfg.Server.Timeout <= 0 {
		return fmt.Errorf("server.timeout must be positive")
	}

	validLogLevels := map[string]bool{
		configtypes.LogLevelDebug:  true,
		configtypes.LogLevelInfo:   true,
		configtypes.LogLevelWarn:   true,
		configtypes.LogLevelError:  true,
		configtypes.LogLevelDPanic: true,
		configtypes.LogLevelPanic:  true,
		configtypes.LogLevelFatal:  true,
	}
	if !validLogLevels[cfg.Log.Level] {
		return fmt.Errorf("invalid log.level: %s (must be debug, info, warn, error, dpanic, panic, or fatal)", cfg.Log.Level)
	}

	if cfg.Log.File.Enabled && cfg.Log.File.Path == "" {
		return fmt.Errorf("log.file.path must be specified when file logging is enabled")
	}

	if cfg.Metrics.Enabled {
		if cfg.Metrics.Listen == "" {
			return fmt.Errorf("metrics.listen is required when metrics enabled")
		}
		if err := configtypes.ValidateListenAddress(cfg.Metrics.Listen); err != nil {
			return fmt.Errorf("invalid metrics.listen: %w", err)
		}

		// Metrics must run on a separate port from the render server
		metricsPort, err1 := configtypes.GetPortFromListen(cfg.Metrics.Listen)
		serverPort, err2 := configtypes.GetPortFromListen(cfg.Server.Listen)
		if err1 == nil && err2 == nil && metricsPort == serverPort {
			return fmt.Errorf("metrics.listen port (%d) must differ from server.listen port (%d)", metricsPort, serverPort)
		}
	}

	if cfg.Metrics.Namespace != "" && !namespacePattern.MatchString(cfg.Metrics.Namespace) {
		return fmt.Errorf("invalid metrics.namespace: %s (must match [a-zA-Z_][a-zA-Z0-9_]*)", cfg.Metrics.Namespace)
	}

	if cfg.Cache.Enabled {
		if cfg.Cache.Redis.Addr == "" {
			return fmt.Errorf("cache.redis.addr is required when cache enabled")
		}
		if cfg.Cache.TTL <= 0 {
			return fmt.Errorf("cache.ttl must be positive")
		}

		switch cfg.Cache.Compression {
		case types.CompressionNone, types.CompressionGzip, types.CompressionLZ4:
		default:
			return fmt.Errorf("invalid cache.compression: %s (must be none, gzip, or lz4)", cfg.Cache.Compression)
		}
	}

	return nil
}

// MergeDocumentDefaults fills zero-valued request options from the
// configured defaults. A disabled optimizer in the request is treated the
// same as an absent one, so the configured default applies to both.
func MergeDocumentDefaults(opts types.DocumentOptions, defaults types.DocumentOptions) types.DocumentOptions {
	if opts.Title == "" {
		opts.Title = defaults.Title
	}
	if opts.Description == "" {
		opts.Description = defaults.Description
	}
	if opts.Canonical == "" {
		opts.Canonical = defaults.Canonical
	}
	if !opts.VisualWebsiteOptimizer.Enabled() {
		opts.VisualWebsiteOptimizer = defaults.VisualWebsiteOptimizer
	}
	if opts.Env == nil {
		opts.Env = defaults.Env
	}
	return opts
}
