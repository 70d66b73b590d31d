package token

import (
	"fmt"
	"os"
	"strings"
	"time"
)

const minSecretBytes = 32

// ClassConfig is the per-class secret and lifetime.
type ClassConfig struct {
	Secret   []byte
	Duration time.Duration
}

// Config carries one ClassConfig per token class.
type Config struct {
	Access               ClassConfig
	Refresh              ClassConfig
	PasswordConfirmation ClassConfig
}

// DefaultConfig returns the default lifetimes with empty secrets.
// Secrets have no default; they must come from the environment.
func DefaultConfig() Config {
	return Config{
		Access:               ClassConfig{Duration: 15 * time.Minute},
		Refresh:              ClassConfig{Duration: 7 * 24 * time.Hour},
		PasswordConfirmation: ClassConfig{Duration: 5 * time.Minute},
	}
}

// LoadConfigFromEnv loads token configuration from environment variables.
//
// Required (each >= 32 bytes):
//   - TASKDECK_JWT_ACCESS_TOKEN_SECRET
//   - TASKDECK_JWT_REFRESH_TOKEN_SECRET
//   - TASKDECK_JWT_PASSWORD_CONFIRMATION_TOKEN_SECRET
//
// Optional (verbose duration strings, see ParseDuration):
//   - TASKDECK_JWT_ACCESS_TOKEN_DURATION (default "15 minutes")
//   - TASKDECK_JWT_REFRESH_TOKEN_DURATION (default "1 week")
//   - TASKDECK_JWT_PASSWORD_CONFIRMATION_TOKEN_DURATION (default "5 minutes")
func LoadConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()

	load := func(cc *ClassConfig, secretKey, durationKey string) error {
		secret := strings.TrimSpace(os.Getenv(secretKey))
		if secret == "" {
			return fmt.Errorf("%w: %s is required", ErrConfig, secretKey)
		}
		cc.Secret = []byte(secret)

		if v := strings.TrimSpace(os.Getenv(durationKey)); v != "" {
			d, err := ParseDuration(v)
			if err != nil {
				return fmt.Errorf("%w: %s: %v", ErrConfig, durationKey, err)
			}
			cc.Duration = d
		}
		return nil
	}

	if err := load(&cfg.Access, "TASKDECK_JWT_ACCESS_TOKEN_SECRET", "TASKDECK_JWT_ACCESS_TOKEN_DURATION"); err != nil {
		return Config{}, err
	}
	if err := load(&cfg.Refresh, "TASKDECK_JWT_REFRESH_TOKEN_SECRET", "TASKDECK_JWT_REFRESH_TOKEN_DURATION"); err != nil {
		return Config{}, err
	}
	if err := load(&cfg.PasswordConfirmation, "TASKDECK_JWT_PASSWORD_CONFIRMATION_TOKEN_SECRET", "TASKDECK_JWT_PASSWORD_CONFIRMATION_TOKEN_DURATION"); err != nil {
		return Config{}, err
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	for _, cc := range []struct {
		name string
		cfg  ClassConfig
	}{
		{"access", c.Access},
		{"refresh", c.Refresh},
		{"password_confirmation", c.PasswordConfirmation},
	} {
		if len(cc.cfg.Secret) < minSecretBytes {
			return fmt.Errorf("%w: %s secret shorter than %d bytes", ErrConfig, cc.name, minSecretBytes)
		}
		if cc.cfg.Duration <= 0 {
			return fmt.Errorf("%w: %s duration must be positive", ErrConfig, cc.name)
		}
	}
	return nil
}

func (c Config) class(class Class) ClassConfig {
	switch class {
	case ClassRefresh:
		return c.Refresh
	case ClassPasswordConfirmation:
		return c.PasswordConfirmation
	default:
		return c.Access
	}
}
