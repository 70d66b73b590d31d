package app

import (
	"fmt"

	"taskdeck/cmd/internal/auth/token"
	"taskdeck/cmd/security/cookiesign"
)

// ValidateSecurityConfig fails startup when any signing secret is missing
// or too short. Silently running with weak or absent secrets is worse than
// not starting.
func ValidateSecurityConfig() error {
	if _, err := token.LoadConfigFromEnv(); err != nil {
		return fmt.Errorf("security policy: %w", err)
	}
	if _, err := cookiesign.KeyFromEnv(); err != nil {
		return fmt.Errorf("security policy: %s: %w", cookiesign.SecretEnvKey, err)
	}
	return nil
}
