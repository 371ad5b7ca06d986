package config

import (
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/tuneinsight/hecalc/params"
)

const (
	defaultLogLevel     = "info"
	defaultProfile      = params.PresetN4096
	defaultDisplayBlobs = true
	defaultCompression  = "zlib"
)

func NewConfig(v *viper.Viper) (Config, error) {
	cfg, err := BuildConfig(v)
	if err != nil {
		return cfg, err
	}
	if err = cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("failed to validate configuration: %w", err)
	}
	return cfg, nil
}

// Build the viper instance. The config file is optional and may be provided
// via the command line flag or environment variable. All config keys may be
// provided via config file or environment variable.
func BuildViper(fs *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	// Map flag names to env var names. Flags are capitalized, and hyphens are replaced with underscores.
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	if err := v.BindPFlags(fs); err != nil {
		return nil, err
	}

	if filename := v.GetString(ConfigFileKey); filename != "" {
		v.SetConfigFile(filename)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", filename, err)
		}
	}

	return v, nil
}

func SetDefaultConfigValues(v *viper.Viper) {
	v.SetDefault(LogLevelKey, defaultLogLevel)
	v.SetDefault(ProfileKey, defaultProfile)
	v.SetDefault(DisplayBlobsKey, defaultDisplayBlobs)
	v.SetDefault(CompressionKey, defaultCompression)
}

// decodeHook decodes the enumerations of a profile from their names.
func decodeHook() viper.DecoderConfigOption {
	return viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.TextUnmarshallerHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
}

// BuildConfig constructs the calculator config using Viper.
// The following precedence order is used. Each item takes precedence over the item below it:
//  1. Flags
//  2. Environment variables
//  3. Config file
//  4. Defaults
//
// Returns the Config
func BuildConfig(v *viper.Viper) (Config, error) {
	// Set default values
	SetDefaultConfigValues(v)

	// Build the config from Viper
	var cfg Config

	if err := v.Unmarshal(&cfg, decodeHook()); err != nil {
		return cfg, fmt.Errorf("failed to unmarshal viper config: %w", err)
	}

	// Omitted parameters keep the values of the preset.
	profile, err := params.Preset(cfg.ProfileName)
	if err != nil {
		return cfg, err
	}

	if v.IsSet(ParametersKey) {
		// mapstructure never shrinks a non-nil slice
		if v.IsSet(ParametersKey + ".coeff-modulus-bit-sizes") {
			profile.CoeffModulusBitSizes = nil
		}
		if err := v.UnmarshalKey(ParametersKey, &profile, decodeHook()); err != nil {
			return cfg, fmt.Errorf("failed to unmarshal %s: %w", ParametersKey, err)
		}
	}

	cfg.Profile = profile

	return cfg, nil
}
