// Package config loads the coldstore configuration file: cleartext groups
// decoded into typed models, plus a "secrets" section whose values are
// Fernet tokens decrypted on access with the process-local key.
package config

import (
	"fmt"
	"os"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/coldstore/pkg/shell"
)

// DefaultPath is where machine entry points look for the configuration.
const DefaultPath = "/etc/coldstore/config.yaml"

// secretsSection is the reserved top-level group holding encrypted values.
const secretsSection = "secrets"

// KeyError reports a group or key the configuration does not contain.
type KeyError struct {
	Group string
	Key   string
}

func (e *KeyError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("config: no such group %q", e.Group)
	}
	return fmt.Sprintf("config: no such key %s.%s", e.Group, e.Key)
}

// DecryptError reports an encrypted value the key could not open.
type DecryptError struct {
	Group string
	Key   string
}

func (e *DecryptError) Error() string {
	return fmt.Sprintf("config: cannot decrypt %s.%s", e.Group, e.Key)
}

// Config is an immutable snapshot of the configuration file. Secret values
// stay encrypted in memory and are decrypted per access.
type Config struct {
	path    string
	groups  map[string]map[string]any
	secrets map[string]map[string]string
}

// Load reads and parses the configuration file.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	var doc map[string]map[string]any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	c := &Config{
		path:    path,
		groups:  make(map[string]map[string]any),
		secrets: make(map[string]map[string]string),
	}
	for group, values := range doc {
		if group == secretsSection {
			for name, entries := range values {
				tokens, ok := entries.(map[string]any)
				if !ok {
					return nil, fmt.Errorf("config: secrets group %q is not a mapping", name)
				}
				c.secrets[name] = make(map[string]string, len(tokens))
				for key, token := range tokens {
					c.secrets[name][key] = fmt.Sprint(token)
				}
			}
			continue
		}
		c.groups[group] = values
	}

	return c, nil
}

// Path returns the file the configuration was loaded from.
func (c *Config) Path() string { return c.path }

// Secret decrypts secrets.<group>.<key> and returns it wrapped in a masking
// secret.
func (c *Config) Secret(group, key string) (shell.Secret, error) {
	entries, ok := c.secrets[group]
	if !ok {
		return shell.Secret{}, &KeyError{Group: secretsSection + "." + group}
	}
	token, ok := entries[key]
	if !ok {
		return shell.Secret{}, &KeyError{Group: secretsSection + "." + group, Key: key}
	}

	value, err := decrypt(token)
	if err != nil {
		return shell.Secret{}, &DecryptError{Group: group, Key: key}
	}
	return shell.NewSecret(value), nil
}

// SecretGroups returns the names of the encrypted groups, in no particular
// order.
func (c *Config) SecretGroups() []string {
	names := make([]string, 0, len(c.secrets))
	for name := range c.secrets {
		names = append(names, name)
	}
	return names
}

// Decode maps a cleartext group onto a typed model.
func (c *Config) Decode(group string, out any) error {
	values, ok := c.groups[group]
	if !ok {
		return &KeyError{Group: group}
	}
	if err := mapstructure.Decode(values, out); err != nil {
		return fmt.Errorf("config: decode group %q: %w", group, err)
	}
	return nil
}
