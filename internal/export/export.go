// Package export materializes report downloads on disk.
package export

import (
	"fmt"
	"os"
	"path/filepath"
)

// WriteBlob saves an exported report body under dir with the computed
// filename and returns the full path.
func WriteBlob(dir, filename string, data []byte) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating download dir: %w", err)
	}
	path := filepath.Join(dir, filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing export: %w", err)
	}
	return path, nil
}
