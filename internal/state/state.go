// Package state persists the connection settings saved at runtime through
// the settings API, so a restart does not lose them.
package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/lilachbitton/newcalander/internal/calendar"
)

// SaveConnection writes the connection settings atomically.
func SaveConnection(path string, cfg calendar.Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}

	payload, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal connection settings: %w", err)
	}

	return writeFileAtomically(path, append(payload, '\n'))
}

// LoadConnection reads previously saved settings. A missing file is not an
// error; the second return reports whether anything was loaded.
func LoadConnection(path string) (calendar.Config, bool, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return calendar.Config{}, false, nil
		}
		return calendar.Config{}, false, fmt.Errorf("read connection file: %w", err)
	}

	var cfg calendar.Config
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return calendar.Config{}, false, fmt.Errorf("decode connection file: %w", err)
	}
	return cfg, true, nil
}

func writeFileAtomically(path string, content []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(content); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0o600); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
