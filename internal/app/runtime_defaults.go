package app

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

// runtimeSecret names a config field that is filled with random bytes when left empty.
type runtimeSecret struct {
	key   string
	bytes int
	field func(*Config) *string
}

var runtimeSecrets = []runtimeSecret{
	{key: "auth.jwt.secret", bytes: 48, field: func(c *Config) *string { return &c.Auth.JWT.Secret }},
}

// ApplyRuntimeDefaults fills empty secrets with random values so a bare binary can start.
// It returns the config keys it generated, never their values.
func ApplyRuntimeDefaults(cfg *Config) ([]string, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	var generated []string
	for _, secret := range runtimeSecrets {
		target := secret.field(cfg)
		if strings.TrimSpace(*target) != "" {
			continue
		}
		value, err := generateSecret(secret.bytes)
		if err != nil {
			return nil, fmt.Errorf("generate %s: %w", secret.key, err)
		}
		*target = value
		generated = append(generated, secret.key)
	}
	return generated, nil
}

func generateSecret(length int) (string, error) {
	if length <= 0 {
		return "", errors.New("secret length must be positive")
	}
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
