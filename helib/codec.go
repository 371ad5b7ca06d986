package helib

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/zlib"
	"github.com/tuneinsight/lattigo/v6/core/rlwe"
)

// Compression is the compression mode of an exported ciphertext.
type Compression int

const (
	CompressionNone Compression = iota
	CompressionZlib
	CompressionZstd
)

// ParseCompression returns the compression mode with the given name.
// Unknown names select [CompressionZstd].
func ParseCompression(s string) Compression {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none":
		return CompressionNone
	case "zlib":
		return CompressionZlib
	default:
		return CompressionZstd
	}
}

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionZlib:
		return "zlib"
	case CompressionZstd:
		return "zstd"
	default:
		return fmt.Sprintf("Compression(%d)", int(c))
	}
}

// Save serializes the ciphertext and compresses it with the given mode.
func (l *Library) Save(ct *rlwe.Ciphertext, mode Compression) ([]byte, error) {

	if ct == nil {
		return nil, fmt.Errorf("cannot save: nil ciphertext")
	}

	raw, err := ct.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("cannot save: %w", err)
	}

	return l.Compress(raw, mode)
}

// Load decompresses and deserializes a ciphertext written by [Library.Save].
func (l *Library) Load(data []byte, mode Compression) (*rlwe.Ciphertext, error) {

	raw, err := l.Decompress(data, mode)
	if err != nil {
		return nil, fmt.Errorf("cannot load: %w", err)
	}

	ct := new(rlwe.Ciphertext)
	if err = ct.UnmarshalBinary(raw); err != nil {
		return nil, fmt.Errorf("cannot load: %w", err)
	}

	return ct, nil
}

// Compress compresses data with the given mode.
func (l *Library) Compress(data []byte, mode Compression) ([]byte, error) {
	switch mode {
	case CompressionNone:
		return append([]byte(nil), data...), nil
	case CompressionZlib:
		var buf bytes.Buffer
		w := zlib.NewWriter(&buf)
		if _, err := w.Write(data); err != nil {
			return nil, fmt.Errorf("cannot compress (zlib): %w", err)
		}
		if err := w.Close(); err != nil {
			return nil, fmt.Errorf("cannot compress (zlib): %w", err)
		}
		return buf.Bytes(), nil
	case CompressionZstd:
		return l.zstdEncoder.EncodeAll(data, make([]byte, 0, len(data)/2)), nil
	default:
		return nil, fmt.Errorf("cannot compress: unsupported mode %s", mode)
	}
}

// Decompress reverses [Library.Compress].
func (l *Library) Decompress(data []byte, mode Compression) ([]byte, error) {
	switch mode {
	case CompressionNone:
		return append([]byte(nil), data...), nil
	case CompressionZlib:
		r, err := zlib.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("cannot decompress (zlib): %w", err)
		}
		defer r.Close()
		out, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("cannot decompress (zlib): %w", err)
		}
		return out, nil
	case CompressionZstd:
		out, err := l.zstdDecoder.DecodeAll(data, nil)
		if err != nil {
			return nil, fmt.Errorf("cannot decompress (zstd): %w", err)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("cannot decompress: unsupported mode %s", mode)
	}
}
