// Package config loads server configuration from command-line flags, environment variables, and .env files.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	App       AppConfig
	Logger    LoggerConfig
	Server    ServerConfig
	Backend   BackendConfig
	Cache     CacheConfig
	Search    SearchConfig
	Reactions ReactionConfig
	Identity  IdentityConfig
	RateLimit RateLimitConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
	DataPath    string // identity key and on-disk indexes
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	AllowedOrigins []string
}

// BackendConfig holds the remote data store settings.
// An empty URL means mock mode.
type BackendConfig struct {
	URL            string
	Key            string
	ConnectTimeout time.Duration
	RequestRate    float64 // outbound requests per second for the REST driver
}

// Enabled reports whether a remote backend is configured.
func (b BackendConfig) Enabled() bool {
	return b.URL != ""
}

// Cache store kinds.
const (
	CacheBadger = "badger"
	CacheRedis  = "redis"
	CacheNone   = "none"
)

// CacheConfig holds query cache configuration.
type CacheConfig struct {
	Backend   string
	Path      string // on-disk badger directory; in-memory when empty
	RedisURL  string
	StaleTime time.Duration
}

// SearchConfig holds search index settings.
type SearchConfig struct {
	ReindexInterval time.Duration // 0 disables periodic reindexing
}

// Reaction modes.
const (
	ReactionModeToggle = "toggle"
	ReactionModeAtomic = "atomic"
)

// ReactionConfig controls how a reaction switch is applied.
type ReactionConfig struct {
	Mode        string
	SwitchDelay time.Duration
}

// IdentityConfig holds guest identity token settings.
type IdentityConfig struct {
	TokenDuration time.Duration
	Key           []byte // set by auth.LoadOrGenerateKey at startup
}

// RateLimitConfig holds inbound write limits.
type RateLimitConfig struct {
	WritesPerMinute int
	Burst           int
}

// LoadConfig loads configuration from the process arguments and environment.
func LoadConfig() (*Config, error) {
	return Load(os.Args[1:])
}

// Load loads configuration with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. Default values (lowest priority).
func Load(args []string) (*Config, error) {
	fs := flag.NewFlagSet("offroute-server", flag.ContinueOnError)

	env := fs.String("env", "", "Environment (development, staging, production)")
	logLevel := fs.String("log-level", "", "Log level (debug, info, warn, error)")
	dataPath := fs.String("data-path", "", "Directory for server data (default: ~/offroute)")

	serverPort := fs.String("port", "", "Server port (default: 8080)")
	readTimeout := fs.String("read-timeout", "", "HTTP read timeout (default: 15s)")
	writeTimeout := fs.String("write-timeout", "", "HTTP write timeout (default: 15s)")
	idleTimeout := fs.String("idle-timeout", "", "HTTP idle timeout (default: 60s)")
	origins := fs.String("cors-origins", "", "Comma-separated allowed CORS origins (default: *)")

	backendURL := fs.String("backend-url", "", "Remote backend URL; empty runs on mock data")
	backendKey := fs.String("backend-key", "", "Remote backend access key")
	connectTimeout := fs.String("backend-connect-timeout", "", "Backend connection timeout (default: 10s)")

	cacheBackend := fs.String("cache-backend", "", "Query cache store: badger, redis, none (default: badger)")
	cachePath := fs.String("cache-path", "", "On-disk cache directory (default: in-memory)")
	staleTime := fs.String("cache-stale-time", "", "Query cache stale time (default: 5m)")

	reactionMode := fs.String("reaction-mode", "", "Reaction switch mode: toggle, atomic (default: toggle)")

	envFile := fs.String("env-file", ".env", "Path to .env file")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	// A missing .env file is fine; existing env vars win over it.
	_ = godotenv.Load(*envFile)

	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(*env, "ENV", "development"),
			DataPath:    getConfigValue(*dataPath, "DATA_PATH", ""),
		},
		Logger: LoggerConfig{
			Level: getConfigValue(*logLevel, "LOG_LEVEL", "info"),
		},
		Server: ServerConfig{
			Port:           getConfigValue(*serverPort, "SERVER_PORT", "8080"),
			AllowedOrigins: splitList(getConfigValue(*origins, "CORS_ALLOWED_ORIGINS", "*")),
		},
		Backend: BackendConfig{
			URL:         getConfigValue(*backendURL, "BACKEND_URL", firstEnv("SUPABASE_URL", "REACT_APP_SUPABASE_URL")),
			Key:         getConfigValue(*backendKey, "BACKEND_KEY", firstEnv("SUPABASE_ANON_KEY", "REACT_APP_SUPABASE_ANON_KEY")),
			RequestRate: float64(getIntConfigValue("", "BACKEND_REQUEST_RATE", 20)),
		},
		Cache: CacheConfig{
			Backend:  strings.ToLower(getConfigValue(*cacheBackend, "CACHE_BACKEND", CacheBadger)),
			Path:     getConfigValue(*cachePath, "CACHE_PATH", ""),
			RedisURL: getConfigValue("", "REDIS_URL", "redis://localhost:6379/0"),
		},
		Reactions: ReactionConfig{
			Mode: strings.ToLower(getConfigValue(*reactionMode, "REACTION_MODE", ReactionModeToggle)),
		},
		RateLimit: RateLimitConfig{
			WritesPerMinute: getIntConfigValue("", "WRITE_RATE_LIMIT", 30),
			Burst:           getIntConfigValue("", "WRITE_RATE_BURST", 10),
		},
	}

	durations := []struct {
		flagValue, envKey, def, name string
		dest                         *time.Duration
	}{
		{*readTimeout, "SERVER_READ_TIMEOUT", "15s", "read timeout", &cfg.Server.ReadTimeout},
		{*writeTimeout, "SERVER_WRITE_TIMEOUT", "15s", "write timeout", &cfg.Server.WriteTimeout},
		{*idleTimeout, "SERVER_IDLE_TIMEOUT", "60s", "idle timeout", &cfg.Server.IdleTimeout},
		{*connectTimeout, "BACKEND_CONNECT_TIMEOUT", "10s", "backend connect timeout", &cfg.Backend.ConnectTimeout},
		{*staleTime, "CACHE_STALE_TIME", "5m", "cache stale time", &cfg.Cache.StaleTime},
		{"", "SEARCH_REINDEX_INTERVAL", "15m", "search reindex interval", &cfg.Search.ReindexInterval},
		{"", "REACTION_SWITCH_DELAY", "100ms", "reaction switch delay", &cfg.Reactions.SwitchDelay},
		{"", "GUEST_TOKEN_DURATION", "8760h", "guest token duration", &cfg.Identity.TokenDuration},
	}
	for _, d := range durations {
		raw := getConfigValue(d.flagValue, d.envKey, d.def)
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", d.name, raw, err)
		}
		*d.dest = parsed
	}

	if err := cfg.expandDataPath(); err != nil {
		return nil, fmt.Errorf("invalid data path: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that all config values are present and within range.
func (c *Config) Validate() error {
	if c.App.Environment == "" {
		return errors.New("ENV is required")
	}

	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
	}
	if !validEnvs[c.App.Environment] {
		return fmt.Errorf("invalid environment: %s (must be development, staging, or production)", c.App.Environment)
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[strings.ToLower(c.Logger.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	switch c.Cache.Backend {
	case CacheBadger, CacheRedis, CacheNone:
	default:
		return fmt.Errorf("invalid cache backend: %s (must be badger, redis, or none)", c.Cache.Backend)
	}

	switch c.Reactions.Mode {
	case ReactionModeToggle, ReactionModeAtomic:
	default:
		return fmt.Errorf("invalid reaction mode: %s (must be toggle or atomic)", c.Reactions.Mode)
	}

	if c.Backend.URL == "" && c.Backend.Key != "" {
		return errors.New("BACKEND_KEY is set but BACKEND_URL is empty")
	}

	if c.RateLimit.WritesPerMinute <= 0 {
		return errors.New("WRITE_RATE_LIMIT must be positive")
	}

	return nil
}

// expandPath expands ~ and makes the path absolute.
// If path is empty, defaultPath is returned as is.
func expandPath(path, defaultPath string) (string, error) {
	if path == "" {
		return defaultPath, nil
	}

	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	}

	if !filepath.IsAbs(path) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("failed to get absolute path: %w", err)
		}
		path = absPath
	}

	return filepath.Clean(path), nil
}

func (c *Config) expandDataPath() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}

	expanded, err := expandPath(c.App.DataPath, filepath.Join(homeDir, "offroute"))
	if err != nil {
		return err
	}
	c.App.DataPath = expanded

	if c.Cache.Path != "" {
		if c.Cache.Path, err = expandPath(c.Cache.Path, ""); err != nil {
			return err
		}
	}
	return nil
}

// getConfigValue returns the first non-empty value from flag, env var, or default.
func getConfigValue(flagValue, envKey, defaultValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}
	return defaultValue
}

// getIntConfigValue returns an int from flag, env var, or default.
func getIntConfigValue(flagValue, envKey string, defaultValue int) int {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	var result int
	if _, err := fmt.Sscanf(strValue, "%d", &result); err != nil {
		return defaultValue
	}
	return result
}

// firstEnv returns the first non-empty environment variable among keys.
// The legacy Supabase names from the web client are accepted this way.
func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
