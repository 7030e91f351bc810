package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix prefixes every environment variable read by Load, e.g.
// MAGICLETTERS_SERVER_BASE_URL.
const EnvPrefix = "MAGICLETTERS"

// Config holds runtime settings for the Magic Letters field client.
//
// Fields:
//   - ServerBaseURL: scheme://host[:port] of the letters backend.
//   - PullPath / PushPath: endpoint paths relative to ServerBaseURL.
//   - DataDir / DBFile: where the local SQLite store lives.
//   - RequestTimeout: per-request budget for remote calls.
//   - APISecret: optional HMAC secret; when set, requests carry a bearer token.
//   - StrictMigrations: abort startup instead of repairing dangling rows.
//   - LogLevel: debug, info, warn or error.
type Config struct {
	ServerBaseURL    string        `envconfig:"SERVER_BASE_URL"`
	PullPath         string        `envconfig:"PULL_PATH"`
	PushPath         string        `envconfig:"PUSH_PATH"`
	DataDir          string        `envconfig:"DATA_DIR"`
	DBFile           string        `envconfig:"DB_FILE"`
	RequestTimeout   time.Duration `envconfig:"REQUEST_TIMEOUT"`
	APISecret        string        `envconfig:"API_SECRET"`
	StrictMigrations bool          `envconfig:"STRICT_MIGRATIONS"`
	LogLevel         string        `envconfig:"LOG_LEVEL"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "http://127.0.0.1:8080"
	c.PullPath = "/get_assigned_letters.php"
	c.PushPath = "/upload_letter_data.php"
	c.DataDir = "data"
	c.DBFile = "magic_letters.db"
	c.RequestTimeout = 30 * time.Second
	c.APISecret = ""
	c.StrictMigrations = false
	c.LogLevel = "info"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// a config file (if given), the environment and command-line flags. Later
// sources take precedence over earlier ones.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseFile(cfg); err != nil {
		return nil, fmt.Errorf("config file: %w", err)
	}
	if err := parseEnv(cfg); err != nil {
		return nil, fmt.Errorf("environment: %w", err)
	}
	if err := parseFlags(cfg); err != nil {
		return nil, fmt.Errorf("flags: %w", err)
	}
	return cfg, nil
}

// parseEnv overlays variables that are set; unset ones keep earlier values.
func parseEnv(cfg *Config) error {
	return envconfig.Process(EnvPrefix, cfg)
}
