package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/tuneinsight/hecalc/helib"
	"github.com/tuneinsight/hecalc/params"
)

func newConfig(t *testing.T, args ...string) (Config, error) {
	fs := BuildFlagSet()
	require.NoError(t, fs.Parse(args))
	v, err := BuildViper(fs)
	if err != nil {
		return Config{}, err
	}
	return NewConfig(v)
}

func writeFile(t *testing.T, name, content string) string {
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefaults(t *testing.T) {

	cfg, err := newConfig(t)
	require.NoError(t, err)

	lvl, err := cfg.Level()
	require.NoError(t, err)
	require.Equal(t, zapcore.InfoLevel, lvl)

	run := cfg.RunConfig()
	require.True(t, run.DisplayEncryptedBlobs)
	require.Equal(t, helib.CompressionZlib, run.Compression)
	require.True(t, run.Profile.Equal(params.Default()), cmp.Diff(params.Default(), run.Profile))
	require.False(t, cfg.Plain)
	require.False(t, cfg.PrintMetrics)
}

func TestFlags(t *testing.T) {

	cfg, err := newConfig(t,
		"--profile", params.PresetN2048Insecure,
		"--display-blobs=false",
		"--compression", "zstd",
		"--log-level", "debug",
		"--plain",
		"--print-metrics",
	)
	require.NoError(t, err)

	want, err := params.Preset(params.PresetN2048Insecure)
	require.NoError(t, err)

	run := cfg.RunConfig()
	require.False(t, run.DisplayEncryptedBlobs)
	require.Equal(t, helib.CompressionZstd, run.Compression)
	require.Empty(t, cmp.Diff(want, run.Profile))
	require.True(t, cfg.Plain)
	require.True(t, cfg.PrintMetrics)
}

func TestUnknownCompressionFallsBack(t *testing.T) {
	cfg, err := newConfig(t, "--compression", "brotli")
	require.NoError(t, err)
	require.Equal(t, helib.CompressionZstd, cfg.RunConfig().Compression)
}

func TestEnvironment(t *testing.T) {

	t.Setenv("HECALC_PROFILE", params.PresetN8192)
	t.Setenv("HECALC_DISPLAY_BLOBS", "false")

	cfg, err := newConfig(t)
	require.NoError(t, err)
	require.Equal(t, uint32(8192), cfg.Profile.PolyModulusDegree)
	require.False(t, cfg.DisplayBlobs)

	// flags take precedence
	cfg, err = newConfig(t, "--profile", params.PresetN4096)
	require.NoError(t, err)
	require.Equal(t, uint32(4096), cfg.Profile.PolyModulusDegree)
}

func TestConfigFile(t *testing.T) {

	t.Run("YAML", func(t *testing.T) {
		path := writeFile(t, "hecalc.yaml", `
log-level: warn
compression: none
parameters:
  security-level: none
  poly-modulus-degree: 2048
  coeff-modulus-bit-sizes: [40, 40]
  plain-modulus-bit-size: 17
`)
		cfg, err := newConfig(t, "--config-file", path)
		require.NoError(t, err)

		want, err := params.Preset(params.PresetN2048Insecure)
		require.NoError(t, err)
		require.Empty(t, cmp.Diff(want, cfg.Profile))
		require.Equal(t, helib.CompressionNone, cfg.RunConfig().Compression)

		lvl, err := cfg.Level()
		require.NoError(t, err)
		require.Equal(t, zapcore.WarnLevel, lvl)
	})

	t.Run("JSON/PartialParameters", func(t *testing.T) {
		path := writeFile(t, "hecalc.json", `{"profile": "n8192", "parameters": {"plain-modulus-bit-size": 18}}`)
		cfg, err := newConfig(t, "--config-file", path)
		require.NoError(t, err)

		want, err := params.Preset(params.PresetN8192)
		require.NoError(t, err)
		want.PlainModulusBitSize = 18
		require.Empty(t, cmp.Diff(want, cfg.Profile))
	})

	t.Run("Missing", func(t *testing.T) {
		_, err := newConfig(t, "--config-file", filepath.Join(t.TempDir(), "missing.yaml"))
		require.Error(t, err)
	})
}

func TestValidate(t *testing.T) {

	_, err := newConfig(t, "--log-level", "loud")
	require.Error(t, err)

	_, err = newConfig(t, "--profile", "n1")
	require.Error(t, err)

	path := writeFile(t, "hecalc.yaml", `
parameters:
  coeff-modulus-bit-sizes: [60, 60, 60]
`)
	_, err = newConfig(t, "--config-file", path)
	var cfgErr *params.ConfigError
	require.True(t, errors.As(err, &cfgErr))
	require.Equal(t, params.FieldCoeffModulusBitSizes, cfgErr.Field)
}
