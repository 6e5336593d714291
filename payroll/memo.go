/*
memo.go - External memoization of computations

PURPOSE:
  The engine is referentially transparent, so a computation is fully
  identified by its input. Memo wraps Compute with a cache keyed by a
  fingerprint of the input. The engine itself stays cache-free: memoization
  is something callers opt into.

FINGERPRINT:
  hex(SHA-256(version || canonical JSON of Input))
  The version prefix changes whenever rule tables change, so stale entries
  are never served.

CACHE ERRORS:
  A failing cache never fails a computation. Read and write errors are
  reported in MemoResult.CacheErr for the caller to log.

IMPLEMENTATIONS:
  - store/memory: bounded in-process cache
  - store/sqlite: persistent cache with hit counters
*/
package payroll

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/goccy/go-json"
)

// FingerprintVersion salts fingerprints. Bump it when a rule table changes.
const FingerprintVersion = "netpay/v1"

// Cache stores outputs by fingerprint.
type Cache interface {
	// Get returns ErrCacheMiss for an unknown fingerprint.
	Get(ctx context.Context, fingerprint string) (Output, error)
	Put(ctx context.Context, fingerprint string, out Output) error
}

// CacheStats summarises a cache backend.
type CacheStats struct {
	Entries int64 `json:"entries"`
	Hits    int64 `json:"hits"`
	Misses  int64 `json:"misses"`
}

// Fingerprint returns the cache key of in.
func Fingerprint(in Input) (string, error) {
	return fingerprint("", in)
}

func fingerprint(salt string, in Input) (string, error) {
	b, err := json.Marshal(in)
	if err != nil {
		return "", fmt.Errorf("fingerprint: %w", err)
	}
	h := sha256.New()
	h.Write([]byte(FingerprintVersion))
	h.Write([]byte(salt))
	h.Write(b)
	return hex.EncodeToString(h.Sum(nil)), nil
}

// MemoResult is a computation plus its cache metadata.
type MemoResult struct {
	Output      Output
	Fingerprint string
	Cached      bool
	CacheErr    error
}

// Memo is a cache-backed front for Compute.
type Memo struct {
	cache   Cache
	salt    string
	compute func(Input) (Output, error)
}

// MemoOption customises a Memo.
type MemoOption func(*Memo)

// WithFingerprintSalt mixes salt into every fingerprint. Use it when the
// registered rule tables differ from the compiled-in ones, e.g. after
// loading an external municipal table.
func WithFingerprintSalt(salt string) MemoOption {
	return func(m *Memo) { m.salt = salt }
}

// NewMemo wraps the registry's Compute with cache.
func NewMemo(cache Cache, opts ...MemoOption) *Memo {
	m := &Memo{cache: cache, compute: Compute}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Fingerprint returns the key Compute would use for in.
func (m *Memo) Fingerprint(in Input) (string, error) {
	return fingerprint(m.salt, in)
}

// Compute returns the cached output for in, computing and storing it on a
// miss. Engine errors are never cached.
func (m *Memo) Compute(ctx context.Context, in Input) (MemoResult, error) {
	fp, err := m.Fingerprint(in)
	if err != nil {
		return MemoResult{}, err
	}
	res := MemoResult{Fingerprint: fp}

	out, err := m.cache.Get(ctx, fp)
	switch {
	case err == nil:
		res.Output = out
		res.Cached = true
		return res, nil
	case !errors.Is(err, ErrCacheMiss):
		res.CacheErr = err
	}

	out, err = m.compute(in)
	if err != nil {
		return MemoResult{}, err
	}
	res.Output = out
	if err := m.cache.Put(ctx, fp, out); err != nil && res.CacheErr == nil {
		res.CacheErr = err
	}
	return res, nil
}
