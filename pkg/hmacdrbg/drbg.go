// Package hmacdrbg implements the HMAC_DRBG deterministic random bit
// generator of NIST SP 800-90A. ECDSA uses it to derive RFC 6979 nonces.
package hmacdrbg

import (
	"crypto/hmac"
	"errors"
	"fmt"
	"hash"
)

var (
	ErrNotEnoughEntropy = errors.New("not enough entropy")
	ErrReseedRequired   = errors.New("reseed is required")
	ErrNoHash           = errors.New("hash function is required")
)

const (
	// DefaultMinEntropy is the minimum entropy, in bits, when Config leaves
	// MinEntropy unset.
	DefaultMinEntropy = 192

	// ReseedInterval is the number of Generate calls allowed between
	// reseeds.
	ReseedInterval uint64 = 1 << 48
)

// Config seeds a DRBG. Entropy must carry at least MinEntropy bits.
type Config struct {
	Hash       func() hash.Hash
	Entropy    []byte
	Nonce      []byte
	Pers       []byte
	MinEntropy int
}

// DRBG is an HMAC_DRBG instance. It is not safe for concurrent use.
type DRBG struct {
	hash       func() hash.Hash
	minEntropy int
	k, v       []byte
	reseed     uint64
}

// New instantiates a DRBG from entropy || nonce || pers.
func New(conf Config) (*DRBG, error) {
	if conf.Hash == nil {
		return nil, ErrNoHash
	}
	d := &DRBG{hash: conf.Hash, minEntropy: conf.MinEntropy}
	if d.minEntropy == 0 {
		d.minEntropy = DefaultMinEntropy
	}
	if err := d.checkEntropy(conf.Entropy); err != nil {
		return nil, fmt.Errorf("failed to instantiate DRBG: %w", err)
	}

	size := conf.Hash().Size()
	d.k = make([]byte, size)
	d.v = make([]byte, size)
	for i := range d.v {
		d.v[i] = 0x01
	}
	d.update(concat(conf.Entropy, conf.Nonce, conf.Pers))
	d.reseed = 1
	return d, nil
}

func (d *DRBG) checkEntropy(entropy []byte) error {
	if len(entropy)*8 < d.minEntropy {
		return fmt.Errorf("got %d bits, need %d: %w", len(entropy)*8, d.minEntropy, ErrNotEnoughEntropy)
	}
	return nil
}

func (d *DRBG) mac(parts ...[]byte) []byte {
	m := hmac.New(d.hash, d.k)
	for _, p := range parts {
		m.Write(p)
	}
	return m.Sum(nil)
}

// update is the HMAC_DRBG_Update function. The second pass only runs when
// seed is non-empty.
func (d *DRBG) update(seed []byte) {
	d.k = d.mac(d.v, []byte{0x00}, seed)
	d.v = d.mac(d.v)
	if len(seed) == 0 {
		return
	}
	d.k = d.mac(d.v, []byte{0x01}, seed)
	d.v = d.mac(d.v)
}

// Reseed mixes fresh entropy and optional additional input into the state.
func (d *DRBG) Reseed(entropy, add []byte) error {
	if err := d.checkEntropy(entropy); err != nil {
		return fmt.Errorf("failed to reseed DRBG: %w", err)
	}
	d.update(concat(entropy, add))
	d.reseed = 1
	return nil
}

// Generate returns n pseudo-random bytes, mixing add into the state
// before and after generation.
func (d *DRBG) Generate(n int, add []byte) ([]byte, error) {
	if d.reseed > ReseedInterval {
		return nil, ErrReseedRequired
	}
	if len(add) > 0 {
		d.update(add)
	}
	out := make([]byte, 0, n+len(d.v))
	for len(out) < n {
		d.v = d.mac(d.v)
		out = append(out, d.v...)
	}
	d.update(add)
	d.reseed++
	return out[:n], nil
}

func concat(parts ...[]byte) []byte {
	n := 0
	for _, p := range parts {
		n += len(p)
	}
	out := make([]byte, 0, n)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}
