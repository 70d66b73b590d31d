package authapi

import (
	"os"
	"strconv"
)

// RotationEnvKey toggles whether rotating the refresh token invalidates the
// record it was validated against. Default false: rotation is additive and
// the old token stays valid until its own expiry or an explicit logout.
const RotationEnvKey = "TASKDECK_AUTH_ROTATION_INVALIDATES_OLD"

// Config carries the handler's tunables.
type Config struct {
	MaxBodyBytes           int64
	RotationInvalidatesOld bool
}

// DefaultConfig returns sane defaults.
func DefaultConfig() Config {
	return Config{MaxBodyBytes: 16 * 1024}
}

// LoadConfigFromEnv overlays environment settings on the defaults.
func LoadConfigFromEnv() Config {
	cfg := DefaultConfig()
	if v, ok := os.LookupEnv(RotationEnvKey); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.RotationInvalidatesOld = b
		}
	}
	return cfg
}
