// Package config builds the calculator configuration from flags,
// environment variables and an optional configuration file.
package config

import (
	"fmt"

	"go.uber.org/zap/zapcore"

	"github.com/tuneinsight/hecalc/cli"
	"github.com/tuneinsight/hecalc/helib"
	"github.com/tuneinsight/hecalc/params"
)

type Config struct {
	LogLevel     string `mapstructure:"log-level"`
	ProfileName  string `mapstructure:"profile"`
	DisplayBlobs bool   `mapstructure:"display-blobs"`
	Compression  string `mapstructure:"compression"`
	Plain        bool   `mapstructure:"plain"`
	PrintMetrics bool   `mapstructure:"print-metrics"`

	// Profile is the preset named by ProfileName, overridden by the
	// parameters key.
	Profile params.Profile `mapstructure:"-"`
}

func (c *Config) Validate() error {
	if _, err := c.Level(); err != nil {
		return err
	}
	if _, err := params.Preset(c.ProfileName); err != nil {
		return err
	}
	if err := c.Profile.Validate(); err != nil {
		return err
	}
	return nil
}

// Level returns the parsed log level.
func (c *Config) Level() (zapcore.Level, error) {
	lvl, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return lvl, fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	return lvl, nil
}

// RunConfig returns the configuration of the interaction loop.
func (c *Config) RunConfig() cli.RunConfig {
	return cli.RunConfig{
		DisplayEncryptedBlobs: c.DisplayBlobs,
		Profile:               c.Profile.Clone(),
		Compression:           helib.ParseCompression(c.Compression),
	}
}
