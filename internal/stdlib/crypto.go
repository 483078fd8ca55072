// Crypto module: spec.md §6.5's WFLHASH contract. The hash primitive is
// domain-limited — suitable for checksums, cache keys, and low-risk
// integrity tags, not password storage, key derivation, or any
// FIPS-constrained use. Callers of wflhash/wflmac should read that
// warning before reaching for this module.
package stdlib

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"hash"
	"io"

	"golang.org/x/crypto/hkdf"

	"github.com/wflang/wfl/internal/runtime"
)

// hkdfInfo distinguishes wflmac256's key-stretch from any other HKDF use
// in this process; it is not a secret.
var hkdfInfo = []byte("wfl-wflmac256")

// zero overwrites b's contents before it is released back to the
// allocator. Go's crypto/sha256 and crypto/sha512 keep their own
// internal block buffers that this cannot reach without vendoring the
// package, so this only scrubs the copies this module made itself
// (the plaintext/key/salt byte slices converted from WFL Text values).
// Documented here rather than silently skipped, per spec.md §6.5's
// zeroization requirement.
func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

func checkHashSize(r *Registry, inputs ...[]byte) error {
	limit := r.maxHashInput()
	total := 0
	for _, b := range inputs {
		total += len(b)
	}
	if total > limit {
		return fmt.Errorf("input exceeds the configured hash size limit of %d bytes", limit)
	}
	return nil
}

func sumHex(h hash.Hash, data []byte) string {
	h.Write(data)
	sum := h.Sum(nil)
	defer zero(sum)
	return hex.EncodeToString(sum)
}

func registerCrypto(r *Registry) {
	r.Register(FunctionInfo{
		Name: "wflhash256", Category: CategoryCrypto, MinArg: 1, MaxArg: 1,
		Description: "WFLHASH-256 digest, hex-encoded. Domain-limited: not for password storage or key derivation.",
		Function: func(args []runtime.Value) (runtime.Value, error) {
			data := []byte(args[0].String())
			defer zero(data)
			if err := checkHashSize(r, data); err != nil {
				return runtime.Nothing, err
			}
			h := sha256.New()
			defer h.Reset()
			return runtime.Text(sumHex(h, data)), nil
		},
	})
	r.Register(FunctionInfo{
		Name: "wflhash512", Category: CategoryCrypto, MinArg: 1, MaxArg: 1,
		Description: "WFLHASH-512 digest, hex-encoded.",
		Function: func(args []runtime.Value) (runtime.Value, error) {
			data := []byte(args[0].String())
			defer zero(data)
			if err := checkHashSize(r, data); err != nil {
				return runtime.Nothing, err
			}
			h := sha512.New()
			defer h.Reset()
			return runtime.Text(sumHex(h, data)), nil
		},
	})
	r.Register(FunctionInfo{
		Name: "wflhash256_with_salt", Category: CategoryCrypto, MinArg: 2, MaxArg: 2,
		Description: "WFLHASH-256 of salt||data, hex-encoded.",
		Function: func(args []runtime.Value) (runtime.Value, error) {
			salt := []byte(args[0].String())
			data := []byte(args[1].String())
			defer zero(salt)
			defer zero(data)
			if err := checkHashSize(r, salt, data); err != nil {
				return runtime.Nothing, err
			}
			h := sha256.New()
			defer h.Reset()
			h.Write(salt)
			h.Write(data)
			sum := h.Sum(nil)
			defer zero(sum)
			return runtime.Text(hex.EncodeToString(sum)), nil
		},
	})
	r.Register(FunctionInfo{
		Name: "wflmac256", Category: CategoryCrypto, MinArg: 2, MaxArg: 2,
		Description: "keyed message authentication code over sha256, hex-encoded. Keys of any length are stretched via HKDF before use, so no key is silently truncated or zero-padded.",
		Function: func(args []runtime.Value) (runtime.Value, error) {
			data := []byte(args[0].String())
			key := []byte(args[1].String())
			defer zero(data)
			defer zero(key)
			if err := checkHashSize(r, data, key); err != nil {
				return runtime.Nothing, err
			}
			stretched, err := stretchKey(key)
			if err != nil {
				return runtime.Nothing, err
			}
			defer zero(stretched)
			mac := hmac.New(sha256.New, stretched)
			return runtime.Text(sumHex(mac, data)), nil
		},
	})
}

// stretchKey maps a key of any length to a fixed 32-byte key via
// HKDF-Expand, so wflmac256's behavior does not depend on HMAC's own
// short-key zero-pad / long-key pre-hash steps (RFC 2104 handles those
// safely already, but making the stretch explicit keeps the contract
// independent of the underlying hash's block size).
func stretchKey(key []byte) ([]byte, error) {
	out := make([]byte, sha256.Size)
	kdf := hkdf.New(sha256.New, key, nil, hkdfInfo)
	if _, err := io.ReadFull(kdf, out); err != nil {
		return nil, fmt.Errorf("key stretch: %v", err)
	}
	return out, nil
}
