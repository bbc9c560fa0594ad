package config

import (
	"context"
	stderrors "errors"
	"os"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"github.com/mrz1836/gitid/internal/constants"
	"github.com/mrz1836/gitid/internal/errors"
)

// newViperInstance creates a Viper instance with standard gitid
// configuration: environment variable prefix (GITID_), key replacer, and
// built-in defaults.
func newViperInstance() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// isConfigNotFoundError returns true if the error is a viper config file
// not found error. Missing config files are expected for fresh installs.
func isConfigNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	var notFound viper.ConfigFileNotFoundError
	return stderrors.As(err, &notFound)
}

// viperDecoderOption returns the decode hooks needed to unmarshal durations
// and string slices from yaml/env values.
func viperDecoderOption() viper.DecoderConfigOption {
	return viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
}

// Load reads configuration from all available sources with proper
// precedence: environment variables over the global config file over
// built-in defaults.
//
// The function returns an error only for actual configuration problems, not
// for a missing config file (expected before `gitid` is first configured).
//
// The context parameter is accepted for API consistency; config reads are
// fast local I/O and are not cancellation points.
func Load(_ context.Context) (*Config, error) {
	v := newViperInstance()

	path, err := GlobalConfigPath()
	if err != nil {
		return nil, err
	}
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		if !isConfigNotFoundError(err) && !os.IsNotExist(err) {
			return nil, errors.Wrap(err, "failed to read config file")
		}
	}

	return unmarshalAndValidate(v)
}

// LoadFromFile reads configuration from an explicit file path, used by
// tests and the GITID_CONFIG override.
func LoadFromFile(path string) (*Config, error) {
	v := newViperInstance()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "failed to read config file %s", path)
	}
	return unmarshalAndValidate(v)
}

// unmarshalAndValidate unmarshals viper state into a Config and validates it.
func unmarshalAndValidate(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg, viperDecoderOption()); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	if cfg.Identities == nil {
		cfg.Identities = map[string]IdentityEntry{}
	}
	if err := Validate(&cfg); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	return &cfg, nil
}
