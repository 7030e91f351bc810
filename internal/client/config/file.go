package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/magicletters/internal/flagx"
	"github.com/dmitrijs2005/magicletters/internal/timex"
	"gopkg.in/yaml.v3"
)

// FileConfig is a DTO used exclusively for file unmarshalling. Absent keys
// leave the corresponding Config field unchanged.
type FileConfig struct {
	ServerBaseURL    string          `json:"server_base_url" yaml:"server_base_url"`
	PullPath         string          `json:"pull_path" yaml:"pull_path"`
	PushPath         string          `json:"push_path" yaml:"push_path"`
	DataDir          string          `json:"data_dir" yaml:"data_dir"`
	DBFile           string          `json:"db_file" yaml:"db_file"`
	RequestTimeout   *timex.Duration `json:"request_timeout" yaml:"request_timeout"`
	APISecret        string          `json:"api_secret" yaml:"api_secret"`
	StrictMigrations *bool           `json:"strict_migrations" yaml:"strict_migrations"`
	LogLevel         string          `json:"log_level" yaml:"log_level"`
}

// parseFile overlays Config with values loaded from the file named by -c or
// -config, decoded as YAML or JSON according to flagx.FormatOf. Without the
// flag nothing is loaded.
func parseFile(cfg *Config) error {
	f := flagx.ConfigFileFlag()
	if f.Path == "" {
		return nil
	}

	data, err := os.ReadFile(f.Path)
	if err != nil {
		return err
	}

	var fc FileConfig
	if f.Format == flagx.FormatYAML {
		err = yaml.Unmarshal(data, &fc)
	} else {
		err = json.Unmarshal(data, &fc)
	}
	if err != nil {
		return fmt.Errorf("parse %s: %w", f.Path, err)
	}

	fc.apply(cfg)
	return nil
}

func (fc *FileConfig) apply(cfg *Config) {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&cfg.ServerBaseURL, fc.ServerBaseURL)
	set(&cfg.PullPath, fc.PullPath)
	set(&cfg.PushPath, fc.PushPath)
	set(&cfg.DataDir, fc.DataDir)
	set(&cfg.DBFile, fc.DBFile)
	set(&cfg.APISecret, fc.APISecret)
	set(&cfg.LogLevel, fc.LogLevel)
	if fc.RequestTimeout != nil {
		cfg.RequestTimeout = fc.RequestTimeout.Duration
	}
	if fc.StrictMigrations != nil {
		cfg.StrictMigrations = *fc.StrictMigrations
	}
}
