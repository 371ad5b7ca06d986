// Package cli drives the interactive calculator: it prompts for an
// operation and its inputs, computes the result under encryption and
// reports it, until the user stops.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/tuneinsight/lattigo/v6/core/rlwe"
	"go.uber.org/zap"

	"github.com/tuneinsight/hecalc/helib"
	"github.com/tuneinsight/hecalc/metrics"
	"github.com/tuneinsight/hecalc/params"
	"github.com/tuneinsight/hecalc/reduce"
	"github.com/tuneinsight/hecalc/report"
	"github.com/tuneinsight/hecalc/session"
)

// RunConfig is the configuration of a [Loop].
type RunConfig struct {
	DisplayEncryptedBlobs bool
	Profile               params.Profile
	Compression           helib.Compression
}

// DefaultRunConfig returns the configuration used when nothing is set:
// default profile, blob display on with zlib compression.
func DefaultRunConfig() RunConfig {
	return RunConfig{
		DisplayEncryptedBlobs: true,
		Profile:               params.Default(),
		Compression:           helib.CompressionZlib,
	}
}

// MaxInputs is the largest number of inputs of one iteration.
const MaxInputs = 1 << 12

// State is a state of the [Loop].
type State int

const (
	Prompting State = iota
	Computing
	Reporting
	AskContinue
	Terminated
)

func (s State) String() string {
	switch s {
	case Prompting:
		return "prompting"
	case Computing:
		return "computing"
	case Reporting:
		return "reporting"
	case AskContinue:
		return "ask-continue"
	case Terminated:
		return "terminated"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

var labels = map[reduce.Operation]string{
	reduce.Add:      "Add",
	reduce.Sub:      "Subtraction",
	reduce.Multiply: "Multiply",
}

// Loop is the interaction loop of the calculator.
type Loop struct {
	lib      *helib.Library
	cfg      RunConfig
	prompter Prompter
	out      io.Writer
	logger   *zap.Logger
	metrics  *metrics.Metrics
	reporter *report.Reporter

	state State
}

// NewLoop creates a new Loop printing its results to out. logger and m may
// be nil.
func NewLoop(lib *helib.Library, cfg RunConfig, prompter Prompter, out io.Writer, logger *zap.Logger, m *metrics.Metrics) *Loop {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loop{
		lib:      lib,
		cfg:      cfg,
		prompter: prompter,
		out:      out,
		logger:   logger,
		metrics:  m,
		reporter: report.NewReporter(lib, cfg.DisplayEncryptedBlobs, cfg.Compression, logger),
	}
}

// State returns the current state of the loop.
func (l *Loop) State() State {
	return l.state
}

// Run executes iterations until the user stops, the input ends or ctx is
// cancelled, in which cases it returns nil. It returns an error only on a
// fatal failure, such as a *[params.ConfigError].
func (l *Loop) Run(ctx context.Context) error {

	defer func() { l.state = Terminated }()

	for {

		if ctx.Err() != nil {
			l.logger.Debug("loop cancelled", zap.Error(ctx.Err()))
			return nil
		}

		l.state = Prompting

		op, values, err := l.prompt()
		if err != nil {
			if errors.Is(err, ErrCancelled) {
				l.logger.Debug("prompt cancelled", zap.Error(err))
				return nil
			}
			return err
		}

		if ctx.Err() != nil {
			return nil
		}

		if err = l.iterate(op, values); err != nil {
			return err
		}

		l.state = AskContinue

		again, err := l.prompter.Confirm("Run another computation")
		if err != nil {
			if errors.Is(err, ErrCancelled) {
				return nil
			}
			return err
		}

		if !again {
			return nil
		}
	}
}

func (l *Loop) prompt() (op reduce.Operation, values []int64, err error) {

	if op, err = l.prompter.SelectOperation(reduce.Operations()); err != nil {
		return
	}

	n, err := l.prompter.ReadInt("Enter the number of inputs", func(v int64) error {
		if v < 1 {
			return fmt.Errorf("at least one input is required")
		}
		if v > MaxInputs {
			return fmt.Errorf("at most %d inputs are supported", MaxInputs)
		}
		return nil
	})
	if err != nil {
		return
	}

	values = make([]int64, n)
	for i := range values {
		if values[i], err = l.prompter.ReadInt(fmt.Sprintf("Enter input %d", i+1), nil); err != nil {
			return
		}
	}

	return
}

// iterate runs one computation on a freshly derived session. Only fatal
// errors are returned; iteration-level errors are printed.
func (l *Loop) iterate(op reduce.Operation, values []int64) error {

	l.state = Computing

	hctx, err := l.lib.BuildContext(l.cfg.Profile)
	if err != nil {
		return err
	}

	sess, err := session.Derive(hctx, session.WithLogger(l.logger))
	if err != nil {
		return fmt.Errorf("cannot derive session: %w", err)
	}

	logger := l.logger.With(zap.String("session", sess.Fingerprint), zap.Stringer("op", op))
	logger.Debug("computing", zap.Int64s("inputs", values))

	start := time.Now()
	ct, err := reduce.Reduce(sess, values, op)
	l.observeReduce(op, time.Since(start))

	if err != nil {
		var opErr *reduce.OpError
		if !errors.As(err, &opErr) {
			return err
		}
		logger.Info("operation failed", zap.Error(err))
		fmt.Fprintf(l.out, "Error: %v\n", opErr)
		l.observeIteration(op, outcome(opErr))
		return nil
	}

	l.state = Reporting

	return l.report(logger, sess, op, values, ct)
}

func (l *Loop) report(logger *zap.Logger, sess *session.Session, op reduce.Operation, values []int64, ct *rlwe.Ciphertext) error {

	res, err := l.reporter.Report(sess, ct)
	if err != nil {
		logger.Info("cannot report result", zap.Error(err))
		fmt.Fprintf(l.out, "Error: %v\n", err)
		l.observeIteration(op, metrics.OutcomeEvalError)
		return nil
	}

	for i, v := range values {
		fmt.Fprintf(l.out, "Plaintext %d: %d\n", i+1, v)
	}

	if res.Blob != nil {
		fmt.Fprintf(l.out, "Encrypted (Homomorphic %s): %s\n", labels[op], res.Blob)
	}

	fmt.Fprintf(l.out, "Decrypted (Homomorphic %s): %d\n", labels[op], res.Value)

	if want, err := reduce.Plain(values, op, sess.Context.PlaintextModulus()); err == nil {
		fmt.Fprintf(l.out, "Expected (plaintext mod %d): %d\n", sess.Context.PlaintextModulus(), want)
	}

	if noise := res.Noise; noise != nil {
		fmt.Fprintf(l.out, "Noise budget: %.1f bits (error: log2 max %.1f, log2 std %.1f)\n", noise.BudgetBits, noise.Log2Max, noise.Log2Std)
		logger.Debug("result reported",
			zap.Float64("noiseBudgetBits", noise.BudgetBits),
			zap.Float64("noiseLog2Max", noise.Log2Max),
			zap.Float64("noiseLog2Std", noise.Log2Std),
		)
		if l.metrics != nil {
			l.metrics.SetNoiseBudget(noise.BudgetBits)
		}
	} else {
		logger.Debug("result reported")
	}

	l.observeIteration(op, metrics.OutcomeSuccess)

	return nil
}

func outcome(err *reduce.OpError) string {
	if err.Kind == reduce.EvaluationFailed {
		return metrics.OutcomeEvalError
	}
	return metrics.OutcomeInputError
}

func (l *Loop) observeIteration(op reduce.Operation, outcome string) {
	if l.metrics != nil {
		l.metrics.ObserveIteration(op.String(), outcome)
	}
}

func (l *Loop) observeReduce(op reduce.Operation, d time.Duration) {
	if l.metrics != nil {
		l.metrics.ObserveReduce(op.String(), d)
	}
}
