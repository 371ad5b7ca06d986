package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"github.com/tuneinsight/hecalc/params"
)

// BuildFlagSet returns a flag set with the configuration flags.
func BuildFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("hecalc", pflag.ContinueOnError)
	AddFlags(fs)
	return fs
}

// AddFlags adds the configuration flags to fs.
func AddFlags(fs *pflag.FlagSet) {
	fs.String(ConfigFileKey, "", "Path to an optional JSON or YAML configuration file")
	fs.String(LogLevelKey, defaultLogLevel, "Log level: debug, info, warn or error")
	fs.String(ProfileKey, defaultProfile, fmt.Sprintf("Parameter preset: %s", strings.Join(params.PresetNames(), ", ")))
	fs.Bool(DisplayBlobsKey, defaultDisplayBlobs, "Display the exported ciphertext of every result")
	fs.String(CompressionKey, defaultCompression, "Compression of the displayed ciphertexts: none, zlib or zstd")
	fs.Bool(PlainKey, false, "Use line-oriented prompts even on a terminal")
	fs.Bool(PrintMetricsKey, false, "Log the collected metrics on exit")
}
