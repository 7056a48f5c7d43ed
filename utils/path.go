package utils

import (
	"os"
	"path/filepath"
	"strings"
)

// EvalPath expands a leading "~" to the user's home directory.
func EvalPath(path string) string {
	if strings.HasPrefix(path, "~") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}
