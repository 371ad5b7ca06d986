package session

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tuneinsight/lattigo/v6/core/rlwe"

	"github.com/tuneinsight/hecalc/helib"
	"github.com/tuneinsight/hecalc/params"
)

// TestProfiles returns the profiles exercised by the tests. If paramString
// is not empty, it is read as the JSON representation of a single profile
// and replaces the defaults.
func TestProfiles(t testing.TB, paramString string) []params.Profile {

	if paramString != "" {
		var p params.Profile
		require.NoError(t, json.Unmarshal([]byte(paramString), &p))
		return []params.Profile{p}
	}

	return []params.Profile{params.Default()}
}

// NewTestSession initializes the runtime and derives a session for the
// profile, failing the test on any error.
func NewTestSession(t testing.TB, profile params.Profile, opts ...Option) *Session {

	lib, err := helib.Initialize(context.Background(), nil)
	require.NoError(t, err)

	ctx, err := lib.BuildContext(profile)
	require.NoError(t, err)

	sess, err := Derive(ctx, opts...)
	require.NoError(t, err)

	return sess
}

// VerifyScalar checks that ct decrypts to want.
func VerifyScalar(t testing.TB, sess *Session, ct *rlwe.Ciphertext, want int64) {
	have, err := sess.DecryptScalar(ct)
	require.NoError(t, err)
	require.Equal(t, want, have)
}
