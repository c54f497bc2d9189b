package blobstore

import (
	"context"
	"fmt"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// CompressedSuffix is appended to artifact names written by CompressingStore.
const CompressedSuffix = ".zst"

// CompressingStore zstd-compresses artifacts on Put and transparently
// decompresses them on Get. Names are stored with CompressedSuffix.
type CompressingStore struct {
	inner Store
	enc   *zstd.Encoder
	dec   *zstd.Decoder
}

// NewCompressingStore wraps inner.
func NewCompressingStore(inner Store, level zstd.EncoderLevel) (*CompressingStore, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(level))
	if err != nil {
		return nil, fmt.Errorf("blobstore: zstd encoder: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		_ = enc.Close()
		return nil, fmt.Errorf("blobstore: zstd decoder: %w", err)
	}
	return &CompressingStore{inner: inner, enc: enc, dec: dec}, nil
}

// Put compresses data and writes it as name+CompressedSuffix.
func (s *CompressingStore) Put(ctx context.Context, name string, data []byte) error {
	return s.inner.Put(ctx, name+CompressedSuffix, s.enc.EncodeAll(data, nil))
}

// Get reads and decompresses name+CompressedSuffix.
func (s *CompressingStore) Get(ctx context.Context, name string) ([]byte, error) {
	raw, err := s.inner.Get(ctx, name+CompressedSuffix)
	if err != nil {
		return nil, err
	}
	out, err := s.dec.DecodeAll(raw, nil)
	if err != nil {
		return nil, fmt.Errorf("blobstore: decompress %s: %w", name, err)
	}
	return out, nil
}

// Delete removes name+CompressedSuffix.
func (s *CompressingStore) Delete(ctx context.Context, name string) error {
	return s.inner.Delete(ctx, name+CompressedSuffix)
}

// List returns the logical (suffix-stripped) names of compressed artifacts.
func (s *CompressingStore) List(ctx context.Context, prefix string) ([]string, error) {
	names, err := s.inner.List(ctx, prefix)
	if err != nil {
		return nil, err
	}
	out := names[:0]
	for _, n := range names {
		if strings.HasSuffix(n, CompressedSuffix) {
			out = append(out, strings.TrimSuffix(n, CompressedSuffix))
		}
	}
	return out, nil
}

// Close releases the encoder and decoder.
func (s *CompressingStore) Close() error {
	s.dec.Close()
	return s.enc.Close()
}
