package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Set encrypts value and writes it at secrets.<group>.<key> in the
// configuration file, preserving every other entry. The file is replaced
// atomically: the new rendering goes to a temporary file in the same
// directory which is then renamed over the original.
func Set(path, group, key, value string) error {
	raw, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("config: read %s: %w", path, err)
	}

	var doc map[string]any
	if len(raw) > 0 {
		if err := yaml.Unmarshal(raw, &doc); err != nil {
			return fmt.Errorf("config: parse %s: %w", path, err)
		}
	}
	if doc == nil {
		doc = make(map[string]any)
	}

	token, err := encrypt(value)
	if err != nil {
		return err
	}

	secrets, ok := doc[secretsSection].(map[string]any)
	if !ok {
		secrets = make(map[string]any)
		doc[secretsSection] = secrets
	}
	entries, ok := secrets[group].(map[string]any)
	if !ok {
		entries = make(map[string]any)
		secrets[group] = entries
	}
	entries[key] = token

	rendered, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("config: render %s: %w", path, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("config: temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(rendered); err != nil {
		tmp.Close()
		return fmt.Errorf("config: write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("config: close %s: %w", tmp.Name(), err)
	}

	return os.Rename(tmp.Name(), path)
}
