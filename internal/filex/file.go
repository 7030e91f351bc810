// Package filex holds small filesystem helpers for the client's data
// directory and attachment files.
package filex

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// EnsureDir creates dir if needed and returns its absolute path. Relative
// paths resolve against the working directory.
func EnsureDir(dir string) (string, error) {
	if !filepath.IsAbs(dir) {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("getwd: %w", err)
		}
		dir = filepath.Join(cwd, dir)
	}

	if err := os.MkdirAll(dir, 0o770); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}

	return dir, nil
}

// LocalPath turns a stored attachment reference into a filesystem path,
// stripping a file:// scheme when present.
func LocalPath(uri string) string {
	return strings.TrimPrefix(uri, "file://")
}

// Exists reports whether path names an existing regular file.
func Exists(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.Mode().IsRegular()
}
