// Package helib binds the calculator to the lattigo homomorphic encryption
// library. It owns the one-time runtime initialization, the construction of
// parameter contexts from a [params.Profile] and the ciphertext export codecs.
package helib

import (
	"context"
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
	"go.uber.org/zap"
)

// Library is the initialized HE runtime. All contexts are built from it.
type Library struct {
	logger *zap.Logger
	cpu    CPUInfo

	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
}

var (
	initOnce sync.Once
	library  *Library
	initErr  error
)

// Initialize initializes the HE runtime. The work is done once per process:
// subsequent calls return the same [Library] (or the same error) and ignore
// their logger argument. No other function of this package may be used
// before Initialize has returned.
func Initialize(ctx context.Context, logger *zap.Logger) (*Library, error) {

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("cannot initialize HE runtime: %w", err)
	}

	initOnce.Do(func() {
		library, initErr = newLibrary(logger)
	})

	return library, initErr
}

func newLibrary(logger *zap.Logger) (lib *Library, err error) {

	if logger == nil {
		logger = zap.NewNop()
	}

	lib = &Library{
		logger: logger,
		cpu:    ProbeCPU(),
	}

	// The zstd coders allocate their tables once and are reused by every export.
	if lib.zstdEncoder, err = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault)); err != nil {
		return nil, fmt.Errorf("cannot initialize HE runtime: zstd encoder: %w", err)
	}

	if lib.zstdDecoder, err = zstd.NewReader(nil); err != nil {
		return nil, fmt.Errorf("cannot initialize HE runtime: zstd decoder: %w", err)
	}

	logger.Debug("HE runtime initialized", lib.cpu.Fields()...)

	return lib, nil
}

// CPU returns the processor features detected at initialization.
func (l *Library) CPU() CPUInfo {
	return l.cpu
}

// Logger returns the logger the library was initialized with.
func (l *Library) Logger() *zap.Logger {
	return l.logger
}
