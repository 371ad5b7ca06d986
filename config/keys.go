package config

const (
	// Command line option keys
	ConfigFileKey = "config-file"

	// Environment variables are the upper case keys with this prefix and
	// hyphens replaced by underscores, e.g. HECALC_LOG_LEVEL.
	EnvPrefix = "HECALC"

	// Top-level configuration keys
	LogLevelKey     = "log-level"
	ProfileKey      = "profile"
	ParametersKey   = "parameters"
	DisplayBlobsKey = "display-blobs"
	CompressionKey  = "compression"
	PlainKey        = "plain"
	PrintMetricsKey = "print-metrics"
)
