package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseFile_SourcesAndFormats(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	dir := t.TempDir()

	t.Run("json with string duration", func(t *testing.T) {
		path := writeTempJSON(t, dir, "cfg.json", map[string]any{
			"server_base_url": "https://cartas.example",
			"request_timeout": "45s",
			"api_secret":      "s3cret",
		})
		os.Args = []string{"testbin", "-config", path}

		cfg := defaults()
		require.NoError(t, parseFile(&cfg))

		assert.Equal(t, "https://cartas.example", cfg.ServerBaseURL)
		assert.Equal(t, 45*time.Second, cfg.RequestTimeout)
		assert.Equal(t, "s3cret", cfg.APISecret)
		assert.Equal(t, "/get_assigned_letters.php", cfg.PullPath, "absent keys keep defaults")
	})

	t.Run("json with nanosecond duration and explicit false", func(t *testing.T) {
		path := writeTempJSON(t, dir, "ns.json", map[string]any{
			"request_timeout":   2000000000,
			"strict_migrations": false,
		})
		os.Args = []string{"testbin", "-c", path}

		cfg := defaults()
		cfg.StrictMigrations = true
		require.NoError(t, parseFile(&cfg))

		assert.Equal(t, 2*time.Second, cfg.RequestTimeout)
		assert.False(t, cfg.StrictMigrations)
	})

	t.Run("yml extension", func(t *testing.T) {
		path := filepath.Join(dir, "cfg.yml")
		require.NoError(t, os.WriteFile(path, []byte("pull_path: /v2/assigned\ndb_file: other.db\n"), 0o600))
		os.Args = []string{"testbin", "-c", path}

		cfg := defaults()
		require.NoError(t, parseFile(&cfg))

		assert.Equal(t, "/v2/assigned", cfg.PullPath)
		assert.Equal(t, "other.db", cfg.DBFile)
	})

	t.Run("no flag, no changes", func(t *testing.T) {
		os.Args = []string{"testbin"}

		cfg := Config{ServerBaseURL: "defaults:1234", RequestTimeout: 42 * time.Second}
		require.NoError(t, parseFile(&cfg))

		assert.Equal(t, "defaults:1234", cfg.ServerBaseURL)
		assert.Equal(t, 42*time.Second, cfg.RequestTimeout)
	})

	t.Run("invalid JSON", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))
		os.Args = []string{"testbin", "-config", bad}

		cfg := Config{}
		require.Error(t, parseFile(&cfg))
	})
}
