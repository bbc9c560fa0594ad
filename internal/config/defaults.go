package config

import (
	"time"

	"github.com/spf13/viper"

	"github.com/mrz1836/gitid/internal/constants"
)

// Default values for configuration settings.
const (
	// DefaultVerifyTimeout bounds a single provider API query.
	DefaultVerifyTimeout = 30 * time.Second
)

// setDefaults registers built-in defaults on a viper instance. These are the
// lowest-precedence configuration layer.
func setDefaults(v *viper.Viper) {
	v.SetDefault("signing.test_timeout", constants.DefaultSignTestTimeout)
	v.SetDefault("verify.timeout", DefaultVerifyTimeout)
}

// Default returns a Config populated with built-in defaults only.
func Default() *Config {
	return &Config{
		Identities: map[string]IdentityEntry{},
		Signing: SigningSettings{
			TestTimeout: constants.DefaultSignTestTimeout,
		},
		Verify: VerifySettings{
			Timeout: DefaultVerifyTimeout,
		},
	}
}
