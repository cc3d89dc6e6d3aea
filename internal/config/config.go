package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Store backends
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// ConfigFileEnv names the environment variable holding the YAML config path.
const ConfigFileEnv = "TWEETVAULT_CONFIG"

type Config struct {
	ListenAddr      string        `yaml:"listen_addr" validate:"required"`  // ex: "127.0.0.1:8080"
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" validate:"gt=0"` // ex: 5s
	WriteTimeout    time.Duration `yaml:"write_timeout" validate:"gte=0"`   // archive downloads can be long (0 = none)

	LogLevel  string `yaml:"log_level" validate:"oneof=debug info warn error"` // "debug" | "info" | "warn" | "error"
	PrettyLog bool   `yaml:"pretty_log"`                                       // true => zap dev (color), false => zap prod (JSON)

	StoreBackend string `yaml:"store_backend" validate:"oneof=sqlite redis memory"`
	SQLitePath   string `yaml:"sqlite_path" validate:"required_if=StoreBackend sqlite"` // database file

	// Redis
	RedisAddr           string        `yaml:"redis_addr" validate:"required_if=StoreBackend redis"` // ex: "localhost:6379"
	RedisUser           string        `yaml:"redis_username"`                                       // optional
	RedisPassword       string        `yaml:"redis_password"`                                       // optional
	RedisDB             int           `yaml:"redis_db" validate:"gte=0"`                            // Redis DB number
	RedisDT             time.Duration `yaml:"redis_dial_timeout"`                                   // dial timeout (ex: 5s)
	RedisRT             time.Duration `yaml:"redis_read_timeout"`                                   // read timeout (ex: 3s)
	RedisWT             time.Duration `yaml:"redis_write_timeout"`                                  // write timeout (ex: 3s)
	RedisPoolSize       int           `yaml:"redis_pool_size" validate:"gte=0"`                     // connection pool size
	RedisConnectTimeout time.Duration `yaml:"redis_connect_timeout"`                                // total time to retry connecting (ex: 30s)
	RedisRetryInterval  time.Duration `yaml:"redis_retry_interval"`                                 // initial wait between retries, grows exponentially
	RedisMaxWait        time.Duration `yaml:"redis_max_wait"`                                       // max wait between retries
	RedisPingTimeout    time.Duration `yaml:"redis_ping_timeout"`                                   // timeout for each ping attempt
	RedisWarnThreshold  int           `yaml:"redis_warn_threshold" validate:"gte=0"`                // warn after this many attempts

	// Import watcher
	ImportFile     string        `yaml:"import_file"`                     // export file re-imported by serve (empty = disabled)
	ReloadInterval time.Duration `yaml:"reload_interval" validate:"gt=0"` // periodic re-import (ex: 1h)
	MaxUploadBytes int64         `yaml:"max_upload_bytes" validate:"gt=0"`

	// Media archive
	ArchiveBatchSize int           `yaml:"archive_batch_size" validate:"min=1,max=64"` // records fetched concurrently
	FetchTimeout     time.Duration `yaml:"fetch_timeout" validate:"gt=0"`              // per media request
	FetchAttempts    int           `yaml:"fetch_attempts" validate:"min=1,max=10"`     // tries per media file
	FetchRPS         float64       `yaml:"fetch_rps" validate:"gte=0"`                 // 0 = unlimited
	FetchMaxBytes    int64         `yaml:"fetch_max_bytes" validate:"gt=0"`            // cap per media file

	// HTTP API
	AllowedOrigins []string `yaml:"allowed_origins"`                 // CORS origins (empty = same-origin only)
	RateLimitRPS   float64  `yaml:"rate_limit_rps" validate:"gte=0"` // import/archive/purge per client (0 = off)
	RateLimitBurst int      `yaml:"rate_limit_burst" validate:"gte=0"`
	TrustProxy     bool     `yaml:"trust_proxy"` // resolve client IPs from X-Forwarded-For / X-Real-IP
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		ListenAddr:      "127.0.0.1:8080",
		ShutdownTimeout: 5 * time.Second,
		WriteTimeout:    10 * time.Minute,

		LogLevel:  "info",
		PrettyLog: true,

		StoreBackend: BackendSQLite,
		SQLitePath:   defaultSQLitePath(),

		RedisAddr:           "localhost:6379",
		RedisUser:           "default",
		RedisDT:             5 * time.Second,
		RedisRT:             3 * time.Second,
		RedisWT:             3 * time.Second,
		RedisPoolSize:       10,
		RedisConnectTimeout: 30 * time.Second,
		RedisRetryInterval:  2 * time.Second,
		RedisMaxWait:        10 * time.Second,
		RedisPingTimeout:    5 * time.Second,
		RedisWarnThreshold:  3,

		ReloadInterval: time.Hour,
		MaxUploadBytes: 256 << 20,

		ArchiveBatchSize: 5,
		FetchTimeout:     30 * time.Second,
		FetchAttempts:    2,
		FetchMaxBytes:    512 << 20,

		RateLimitRPS:   1,
		RateLimitBurst: 5,
	}
}

// Load builds the configuration from defaults, then the YAML file at path
// (or $TWEETVAULT_CONFIG when path is empty), then TWEETVAULT_* variables.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv(ConfigFileEnv)
	}
	if path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config yaml: %w", err)
	}
	return nil
}

func (c *Config) applyEnv() {
	// Server settings
	c.ListenAddr = getenv("TWEETVAULT_LISTEN_ADDR", c.ListenAddr)
	c.ShutdownTimeout = mustDuration("TWEETVAULT_SHUTDOWN_TIMEOUT", c.ShutdownTimeout)
	c.WriteTimeout = mustDuration("TWEETVAULT_WRITE_TIMEOUT", c.WriteTimeout)

	// Logging
	c.LogLevel = getenv("TWEETVAULT_LOG_LEVEL", c.LogLevel)
	c.PrettyLog = mustBool("TWEETVAULT_PRETTY_LOG", c.PrettyLog)

	// Storage
	c.StoreBackend = getenv("TWEETVAULT_STORE_BACKEND", c.StoreBackend)
	c.SQLitePath = getenv("TWEETVAULT_SQLITE_PATH", c.SQLitePath)

	// Redis settings
	c.RedisAddr = getenv("TWEETVAULT_REDIS_ADDR", c.RedisAddr)
	c.RedisUser = getenv("TWEETVAULT_REDIS_USERNAME", c.RedisUser)
	c.RedisPassword = getenv("TWEETVAULT_REDIS_PASSWORD", c.RedisPassword)
	c.RedisDB = getenvInt("TWEETVAULT_REDIS_DB", c.RedisDB)
	c.RedisDT = mustDuration("REDIS_DIAL_TIMEOUT", c.RedisDT)
	c.RedisRT = mustDuration("REDIS_READ_TIMEOUT", c.RedisRT)
	c.RedisWT = mustDuration("REDIS_WRITE_TIMEOUT", c.RedisWT)
	c.RedisPoolSize = getenvInt("REDIS_POOL_SIZE", c.RedisPoolSize)
	c.RedisConnectTimeout = mustDuration("REDIS_CONNECT_TIMEOUT", c.RedisConnectTimeout)
	c.RedisRetryInterval = mustDuration("REDIS_RETRY_INTERVAL", c.RedisRetryInterval)
	c.RedisMaxWait = mustDuration("REDIS_MAX_WAIT", c.RedisMaxWait)
	c.RedisPingTimeout = mustDuration("REDIS_PING_TIMEOUT", c.RedisPingTimeout)
	c.RedisWarnThreshold = getenvInt("REDIS_WARN_THRESHOLD", c.RedisWarnThreshold)

	// Import watcher
	c.ImportFile = getenv("TWEETVAULT_IMPORT_FILE", c.ImportFile)
	c.ReloadInterval = mustDuration("TWEETVAULT_RELOAD_INTERVAL", c.ReloadInterval)
	c.MaxUploadBytes = getenvInt64("TWEETVAULT_MAX_UPLOAD_BYTES", c.MaxUploadBytes)

	// Media archive
	c.ArchiveBatchSize = getenvInt("TWEETVAULT_ARCHIVE_BATCH_SIZE", c.ArchiveBatchSize)
	c.FetchTimeout = mustDuration("TWEETVAULT_FETCH_TIMEOUT", c.FetchTimeout)
	c.FetchAttempts = getenvInt("TWEETVAULT_FETCH_ATTEMPTS", c.FetchAttempts)
	c.FetchRPS = getenvFloat("TWEETVAULT_FETCH_RPS", c.FetchRPS)
	c.FetchMaxBytes = getenvInt64("TWEETVAULT_FETCH_MAX_BYTES", c.FetchMaxBytes)

	// HTTP API
	if v := splitAndTrim(os.Getenv("TWEETVAULT_ALLOWED_ORIGINS")); v != nil {
		c.AllowedOrigins = v
	}
	c.RateLimitRPS = getenvFloat("TWEETVAULT_RATE_LIMIT_RPS", c.RateLimitRPS)
	c.RateLimitBurst = getenvInt("TWEETVAULT_RATE_LIMIT_BURST", c.RateLimitBurst)
	c.TrustProxy = mustBool("TWEETVAULT_TRUST_PROXY", c.TrustProxy)
}

// Validate checks the struct constraints.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Field(), fe.Tag()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, ", "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Redacted returns a copy safe to log.
func (c *Config) Redacted() Config {
	cp := *c
	if cp.RedisPassword != "" {
		cp.RedisPassword = "***REDACTED***"
	}
	return cp
}

func defaultSQLitePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "tweetvault.db"
	}
	return filepath.Join(dir, "tweetvault", "tweetvault.db")
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getenvInt64(key string, def int64) int64 {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.ParseInt(v, 10, 64); err == nil {
			return i
		}
	}
	return def
}

func getenvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
