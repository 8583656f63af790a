package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Load reads a JSON config file and overlays it onto base. Fields absent
// from the file keep their base values. The returned config is not yet
// validated; callers apply flag overrides first and then call Validate.
func Load(path string, base Config) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return base, fmt.Errorf("read config file %s: %w", path, err)
	}

	cfg := base
	if err := json.Unmarshal(data, &cfg); err != nil {
		return base, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return cfg, nil
}

// WriteTemplate writes a JSON document enumerating every option with its
// default value to path, creating parent directories as needed. This is the
// config-template mode: it produces the file and performs no rendering.
func WriteTemplate(path string) error {
	cfg := DefaultConfig()
	cfg.InputDir = "slides"

	data, err := json.MarshalIndent(&cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config template: %w", err)
	}
	data = append(data, '\n')

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config template %s: %w", path, err)
	}
	return nil
}
