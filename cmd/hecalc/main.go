package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"

	"github.com/tuneinsight/hecalc/cli"
	"github.com/tuneinsight/hecalc/config"
	"github.com/tuneinsight/hecalc/helib"
	"github.com/tuneinsight/hecalc/metrics"
	"github.com/tuneinsight/hecalc/params"
)

var version = "v0.0.0-dev"

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "hecalc",
	Short: "Interactive calculator over BFV-encrypted integers",
	Long: `hecalc encrypts every input independently, folds the ciphertexts under the
chosen operation (add, sub or multiply) without decrypting any intermediate
value, then decrypts and displays the result.

Every flag may also be set in the configuration file or with an environment
variable HECALC_<FLAG>, hyphens replaced by underscores. A custom parameter
set can be given under the "parameters" key of the configuration file.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	Args:          cobra.NoArgs,
	RunE:          run,
}

func init() {
	config.AddFlags(rootCmd.Flags())
}

func run(cmd *cobra.Command, _ []string) error {

	v, err := config.BuildViper(cmd.Flags())
	if err != nil {
		return fmt.Errorf("couldn't configure flags: %w", err)
	}

	cfg, err := config.NewConfig(v)
	if err != nil {
		return fmt.Errorf("couldn't build config: %w", err)
	}

	lvl, err := cfg.Level()
	if err != nil {
		return err
	}

	logger := newLogger(lvl)
	defer logger.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	lib, err := helib.Initialize(ctx, logger)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()

	var prompter cli.Prompter
	if cfg.Plain || !term.IsTerminal(int(os.Stdin.Fd())) {
		prompter = cli.NewLinePrompter(os.Stdin, os.Stdout)
	} else {
		prompter = cli.NewTerminalPrompter()
	}

	runCfg := cfg.RunConfig()

	logger.Info("starting calculator", append(lib.CPU().Fields(),
		zap.Stringer("profile", runCfg.Profile),
		zap.Bool("displayBlobs", runCfg.DisplayEncryptedBlobs),
		zap.Stringer("compression", runCfg.Compression),
	)...)

	err = cli.NewLoop(lib, runCfg, prompter, os.Stdout, logger, metrics.New(reg)).Run(ctx)

	if cfg.PrintMetrics {
		if merr := metrics.LogSummary(reg, logger); merr != nil {
			logger.Warn("cannot print metrics", zap.Error(merr))
		}
	}

	var cfgErr *params.ConfigError
	if errors.As(err, &cfgErr) {
		logger.Error("invalid encryption parameters",
			zap.String("field", cfgErr.Field),
			zap.String("reason", cfgErr.Reason),
		)
	}

	return err
}

// newLogger logs to stderr so that the prompts on stdout stay readable.
func newLogger(lvl zapcore.Level) *zap.Logger {
	encoderCfg := zap.NewDevelopmentEncoderConfig()
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderCfg),
		zapcore.Lock(os.Stderr),
		lvl,
	)
	return zap.New(core)
}
