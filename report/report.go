// Package report turns the encrypted result of a reduction into the values
// displayed to the user.
package report

import (
	"encoding/base64"
	"fmt"

	"github.com/tuneinsight/lattigo/v6/core/rlwe"
	"github.com/zeebo/blake3"
	"go.uber.org/zap"

	"github.com/tuneinsight/hecalc/helib"
	"github.com/tuneinsight/hecalc/session"
)

// PreviewSize is the number of leading blob bytes shown by [Blob.Preview].
const PreviewSize = 48

// Result is the decrypted outcome of a reduction.
type Result struct {
	Value int64
	// Noise describes the error of the result, or is nil if it could not be
	// measured.
	Noise *session.NoiseReport
	// Blob is the exported ciphertext, or nil if blob display is disabled or
	// the export failed.
	Blob *Blob
}

// Blob is a serialized and compressed ciphertext.
type Blob struct {
	Compression helib.Compression
	RawSize     int
	Size        int
	// Digest is the BLAKE3-256 digest of Data.
	Digest [32]byte
	Data   []byte
}

// Preview returns the base64 encoding of the first [PreviewSize] bytes of the
// blob, followed by an ellipsis if the blob is longer.
func (b Blob) Preview() string {
	if len(b.Data) <= PreviewSize {
		return base64.StdEncoding.EncodeToString(b.Data)
	}
	return base64.StdEncoding.EncodeToString(b.Data[:PreviewSize]) + "..."
}

func (b Blob) String() string {
	return fmt.Sprintf("%s %d/%d bytes blake3:%x %s", b.Compression, b.Size, b.RawSize, b.Digest[:8], b.Preview())
}

// DecodeError is a failure to export a ciphertext for display. It never
// affects the decrypted value.
type DecodeError struct {
	Compression helib.Compression
	Err         error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("cannot export ciphertext (%s): %v", e.Compression, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Reporter decrypts results and optionally exports them.
type Reporter struct {
	lib         *helib.Library
	display     bool
	compression helib.Compression
	logger      *zap.Logger
}

// NewReporter creates a new Reporter. If display is true, every result
// carries a [Blob] compressed with the given mode.
func NewReporter(lib *helib.Library, display bool, compression helib.Compression, logger *zap.Logger) *Reporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reporter{lib: lib, display: display, compression: compression, logger: logger}
}

// Report decrypts ct with the session keys and returns the first slot.
func (r *Reporter) Report(sess *session.Session, ct *rlwe.Ciphertext) (res Result, err error) {

	if res.Value, err = sess.DecryptScalar(ct); err != nil {
		return Result{}, fmt.Errorf("cannot Report: %w", err)
	}

	if noise, err := sess.Noise(ct); err != nil {
		r.logger.Warn("noise measurement skipped",
			zap.String("session", sess.Fingerprint),
			zap.Error(err),
		)
	} else {
		res.Noise = &noise
	}

	if !r.display {
		return res, nil
	}

	blob, err := r.Export(ct)
	if err != nil {
		r.logger.Warn("blob display skipped",
			zap.String("session", sess.Fingerprint),
			zap.Error(err),
		)
		return res, nil
	}

	res.Blob = blob

	return res, nil
}

// Export serializes and compresses ct. It returns a *[DecodeError] on failure.
func (r *Reporter) Export(ct *rlwe.Ciphertext) (*Blob, error) {

	if r.lib == nil {
		return nil, &DecodeError{Compression: r.compression, Err: fmt.Errorf("uninitialized HE runtime")}
	}

	data, err := r.lib.Save(ct, r.compression)
	if err != nil {
		return nil, &DecodeError{Compression: r.compression, Err: err}
	}

	rawSize := ct.BinarySize()

	r.logger.Debug("ciphertext exported",
		zap.Stringer("compression", r.compression),
		zap.Int("rawSize", rawSize),
		zap.Int("size", len(data)),
	)

	return &Blob{
		Compression: r.compression,
		RawSize:     rawSize,
		Size:        len(data),
		Digest:      blake3.Sum256(data),
		Data:        data,
	}, nil
}
