package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/fernet/fernet-go"
)

// DefaultKeyfile is where the symmetric key is installed on hosts.
const DefaultKeyfile = "/etc/fernet.key"

// KeyfileEnv overrides the keyfile path, used by tests and the secret CLI.
const KeyfileEnv = "COLDSTORE_KEYFILE"

func keyfilePath() string {
	if path := os.Getenv(KeyfileEnv); path != "" {
		return path
	}
	return DefaultKeyfile
}

func loadKey() (*fernet.Key, error) {
	raw, err := os.ReadFile(keyfilePath())
	if err != nil {
		return nil, fmt.Errorf("config: read keyfile: %w", err)
	}
	keys, err := fernet.DecodeKeys(strings.TrimSpace(string(raw)))
	if err != nil {
		return nil, fmt.Errorf("config: decode keyfile: %w", err)
	}
	return keys[0], nil
}

func encrypt(value string) (string, error) {
	key, err := loadKey()
	if err != nil {
		return "", err
	}
	token, err := fernet.EncryptAndSign([]byte(value), key)
	if err != nil {
		return "", fmt.Errorf("config: encrypt: %w", err)
	}
	return string(token), nil
}

func decrypt(token string) (string, error) {
	key, err := loadKey()
	if err != nil {
		return "", err
	}
	msg := fernet.VerifyAndDecrypt([]byte(token), 0, []*fernet.Key{key})
	if msg == nil {
		return "", errors.New("config: token did not verify")
	}
	return string(msg), nil
}

// GenerateKey writes a fresh symmetric key to path. It refuses to overwrite
// an existing file.
func GenerateKey(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config: %s already exists", path)
	}
	var key fernet.Key
	if err := key.Generate(); err != nil {
		return fmt.Errorf("config: generate key: %w", err)
	}
	return os.WriteFile(path, []byte(key.Encode()), 0o600)
}
