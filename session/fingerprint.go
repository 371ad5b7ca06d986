package session

import (
	"encoding/hex"
	"fmt"

	"github.com/tuneinsight/lattigo/v6/core/rlwe"
	"golang.org/x/crypto/blake2b"
)

// FingerprintSize is the number of bytes of the public-key digest kept in a
// fingerprint.
const FingerprintSize = 8

// Fingerprint returns the hex encoding of the first [FingerprintSize] bytes of
// the BLAKE2b-256 digest of the serialized public key.
func Fingerprint(pk *rlwe.PublicKey) (string, error) {

	if pk == nil {
		return "", fmt.Errorf("cannot fingerprint: nil public key")
	}

	data, err := pk.MarshalBinary()
	if err != nil {
		return "", fmt.Errorf("cannot fingerprint: %w", err)
	}

	sum := blake2b.Sum256(data)

	return hex.EncodeToString(sum[:FingerprintSize]), nil
}
