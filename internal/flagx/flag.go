// Package flagx picks individual flags out of os.Args so that each
// configuration layer can parse only the flags it owns.
package flagx

import (
	"flag"
	"os"
	"path/filepath"
	"strings"
)

// FilterArgs keeps the arguments of args that belong to allowedFlags, in
// order. A flag is recognised either as "-name=value" or as "-name" followed
// by a value that does not itself start with a dash.
func FilterArgs(args []string, allowedFlags []string) []string {
	allowed := make(map[string]struct{}, len(allowedFlags))
	for _, f := range allowedFlags {
		allowed[f] = struct{}{}
	}

	filtered := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]

		if name, _, ok := strings.Cut(arg, "="); ok && strings.HasPrefix(arg, "-") {
			if _, ok := allowed[name]; ok {
				filtered = append(filtered, arg)
			}
			continue
		}

		if _, ok := allowed[arg]; !ok {
			continue
		}
		filtered = append(filtered, arg)
		if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			filtered = append(filtered, args[i+1])
			i++
		}
	}
	return filtered
}

// Format is the encoding of a config file.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatOf derives the encoding from the file extension: .yaml and .yml
// (in any case) are YAML, everything else is JSON.
func FormatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// ConfigFile names the file passed with -c or -config.
type ConfigFile struct {
	Path   string
	Format Format
}

// ConfigFileFlag returns the config file given by -c or -config, ignoring
// every other argument. When both appear the last one wins. Without either
// flag the result has an empty Path.
func ConfigFileFlag() ConfigFile {
	var path string

	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	fs.StringVar(&path, "config", "", "Path to config file (JSON or YAML)")
	fs.StringVar(&path, "c", "", "Path to config file (short)")
	_ = fs.Parse(FilterArgs(os.Args[1:], []string{"-c", "-config"}))

	if path == "" {
		return ConfigFile{}
	}
	return ConfigFile{Path: path, Format: FormatOf(path)}
}
