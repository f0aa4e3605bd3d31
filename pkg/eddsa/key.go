package eddsa

import (
	"errors"
	"fmt"

	"github.com/mahdiidarabi/ecbn/pkg/bn"
	"github.com/mahdiidarabi/ecbn/pkg/curve"
)

// ErrNoSecret is returned when signing with a verification-only key.
var ErrNoSecret = errors.New("key pair has no secret")

// KeyPair is an Ed25519 key. Keys built from a public point can only
// verify.
type KeyPair struct {
	ed *EdDSA

	secret []byte
	scalar *bn.Int // clamped private scalar
	prefix []byte  // upper half of H(secret), the nonce prefix

	pub    *curve.EdwardsPoint
	pubEnc []byte
}

// KeyFromSecret derives a key pair from a 32-byte secret.
func (ed *EdDSA) KeyFromSecret(secret []byte) (*KeyPair, error) {
	if len(secret) != ed.encLen {
		return nil, fmt.Errorf("want %d bytes, got %d: %w", ed.encLen, len(secret), ErrInvalidSecretLength)
	}
	h := ed.hash()
	h.Write(secret)
	digest := h.Sum(nil)

	a := append([]byte(nil), digest[:ed.encLen]...)
	last := ed.encLen - 1
	a[0] &= 248
	a[last] &= 127
	a[last] |= 64

	k := &KeyPair{
		ed:     ed,
		secret: append([]byte(nil), secret...),
		scalar: bn.FromBytes(a, bn.LittleEndian),
		prefix: digest[ed.encLen:],
	}
	k.pub = ed.g.Mul(k.scalar)
	k.pubEnc = ed.EncodePoint(k.pub)
	return k, nil
}

// KeyFromPublic builds a verification key from an encoded point.
func (ed *EdDSA) KeyFromPublic(pub []byte) (*KeyPair, error) {
	p, err := ed.DecodePoint(pub)
	if err != nil {
		return nil, fmt.Errorf("failed to decode public key: %w: %w", ErrInvalidPublicKey, err)
	}
	return &KeyPair{ed: ed, pub: p, pubEnc: append([]byte(nil), pub...)}, nil
}

// Secret returns a copy of the secret, or nil for verification keys.
func (k *KeyPair) Secret() []byte {
	if k.secret == nil {
		return nil
	}
	return append([]byte(nil), k.secret...)
}

// Scalar returns the clamped private scalar.
func (k *KeyPair) Scalar() *bn.Int {
	if k.scalar == nil {
		return nil
	}
	return k.scalar.Clone()
}

func (k *KeyPair) Public() *curve.EdwardsPoint { return k.pub }

// PublicBytes returns the encoded public point.
func (k *KeyPair) PublicBytes() []byte { return append([]byte(nil), k.pubEnc...) }

// Sign signs msg.
func (k *KeyPair) Sign(msg []byte) (*Signature, error) {
	return k.ed.Sign(msg, k)
}

// Verify checks an encoded signature over msg.
func (k *KeyPair) Verify(msg, sig []byte) bool {
	return k.ed.Verify(msg, sig, k)
}
