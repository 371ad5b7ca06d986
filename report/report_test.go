package report

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zeebo/blake3"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/tuneinsight/hecalc/helib"
	"github.com/tuneinsight/hecalc/params"
	"github.com/tuneinsight/hecalc/reduce"
	"github.com/tuneinsight/hecalc/session"
)

func TestReport(t *testing.T) {

	lib, err := helib.Initialize(context.Background(), nil)
	require.NoError(t, err)

	sess := session.NewTestSession(t, params.Default())

	ct, err := reduce.Reduce(sess, []int64{50, 100}, reduce.Sub)
	require.NoError(t, err)

	t.Run("NoDisplay", func(t *testing.T) {
		res, err := NewReporter(lib, false, helib.CompressionZlib, nil).Report(sess, ct)
		require.NoError(t, err)
		require.Equal(t, int64(-50), res.Value)
		require.Nil(t, res.Blob)
		require.NotNil(t, res.Noise)
		require.Greater(t, res.Noise.BudgetBits, 1.0)
		require.False(t, math.IsInf(res.Noise.Log2Std, 0) || math.IsNaN(res.Noise.Log2Std))
		require.Less(t, res.Noise.Log2Std, res.Noise.Log2Max)
	})

	t.Run("NoiseUnavailable", func(t *testing.T) {
		// A session holding only a decryptor cannot measure the noise, the
		// value is still reported.
		bare := &session.Session{
			Context:     sess.Context,
			Encoder:     sess.Encoder,
			Decryptor:   sess.Decryptor,
			Fingerprint: sess.Fingerprint,
		}

		core, logs := observer.New(zap.WarnLevel)
		res, err := NewReporter(lib, false, helib.CompressionZlib, zap.New(core)).Report(bare, ct)
		require.NoError(t, err)
		require.Equal(t, int64(-50), res.Value)
		require.Nil(t, res.Noise)
		require.Equal(t, 1, logs.FilterMessage("noise measurement skipped").Len())
	})

	for _, mode := range []helib.Compression{helib.CompressionNone, helib.CompressionZlib, helib.CompressionZstd} {
		t.Run("Display/"+mode.String(), func(t *testing.T) {
			res, err := NewReporter(lib, true, mode, nil).Report(sess, ct)
			require.NoError(t, err)
			require.Equal(t, int64(-50), res.Value)
			require.NotNil(t, res.Blob)

			blob := res.Blob
			require.Equal(t, mode, blob.Compression)
			require.Equal(t, ct.BinarySize(), blob.RawSize)
			require.Equal(t, len(blob.Data), blob.Size)
			require.Equal(t, blake3.Sum256(blob.Data), blob.Digest)
			if mode == helib.CompressionNone {
				require.Equal(t, blob.RawSize, blob.Size)
			}

			have, err := lib.Load(blob.Data, mode)
			require.NoError(t, err)
			session.VerifyScalar(t, sess, have, -50)
		})
	}

	t.Run("ExportFailure", func(t *testing.T) {
		core, logs := observer.New(zap.WarnLevel)
		res, err := NewReporter(lib, true, helib.Compression(42), zap.New(core)).Report(sess, ct)
		require.NoError(t, err)
		require.Equal(t, int64(-50), res.Value)
		require.Nil(t, res.Blob)
		require.Equal(t, 1, logs.FilterMessage("blob display skipped").Len())

		_, err = NewReporter(lib, true, helib.Compression(42), nil).Export(ct)
		var decErr *DecodeError
		require.True(t, errors.As(err, &decErr))
		require.Equal(t, helib.Compression(42), decErr.Compression)
	})

	t.Run("NilCiphertext", func(t *testing.T) {
		_, err := NewReporter(lib, false, helib.CompressionZstd, nil).Report(sess, nil)
		require.Error(t, err)
	})
}

func TestBlobPreview(t *testing.T) {

	short := Blob{Data: []byte("abc")}
	require.Equal(t, "YWJj", short.Preview())

	long := Blob{Data: make([]byte, 3*PreviewSize)}
	require.True(t, strings.HasSuffix(long.Preview(), "..."))
	require.Len(t, long.Preview(), 4*PreviewSize/3+3)
}
