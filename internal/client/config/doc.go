// Package config loads runtime configuration for the Magic Letters client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional config file selected via flags: -c or -config. Files with a
//     .yaml or .yml extension are read as YAML, others as JSON.
//  3. Environment variables prefixed with MAGICLETTERS_.
//  4. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the letters server
//	-d string   data directory
//	-t int      request timeout (seconds)
//
// # File format
//
// Durations use timex.Duration, so values can be either strings like "30s"
// or integer nanoseconds:
//
//	server_base_url: https://cartas.example.org
//	request_timeout: 45s
//	strict_migrations: true
//
// Environment variables
//
//	MAGICLETTERS_SERVER_BASE_URL, MAGICLETTERS_PULL_PATH, MAGICLETTERS_PUSH_PATH,
//	MAGICLETTERS_DATA_DIR, MAGICLETTERS_DB_FILE, MAGICLETTERS_REQUEST_TIMEOUT,
//	MAGICLETTERS_API_SECRET, MAGICLETTERS_STRICT_MIGRATIONS, MAGICLETTERS_LOG_LEVEL
package config
