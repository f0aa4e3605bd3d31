// Package eddsa implements Ed25519 signatures (RFC 8032) on the Edwards
// curves of package curve, plus batch verification of signature records.
package eddsa

import (
	"crypto/sha512"
	"errors"
	"fmt"
	"hash"

	"github.com/mahdiidarabi/ecbn/pkg/bn"
	"github.com/mahdiidarabi/ecbn/pkg/curve"
)

var (
	ErrNotEdwardsCurve         = errors.New("EdDSA needs a twisted Edwards curve")
	ErrInvalidSignatureLength  = errors.New("invalid signature length")
	ErrInvalidSecretLength     = errors.New("invalid secret length")
	ErrInvalidPublicKey        = errors.New("invalid public key")
	ErrInvalidIntegerEncoding  = errors.New("invalid integer encoding")
	ErrSignatureScalarTooLarge = errors.New("signature scalar S is not below the group order")
)

// EdDSA is a signing context for one Edwards curve.
type EdDSA struct {
	curve  *curve.Curve
	g      *curve.EdwardsPoint
	n      *bn.Int
	encLen int
	hash   func() hash.Hash
}

// New returns a context for a registry curve. Only ed25519 is supported.
func New(name string) (*EdDSA, error) {
	c, err := curve.ByName(name)
	if err != nil {
		return nil, err
	}
	if c.Shape() != curve.Edwards || c.EdwardsG() == nil {
		return nil, fmt.Errorf("failed to create EdDSA context for %s: %w", name, ErrNotEdwardsCurve)
	}
	return &EdDSA{
		curve:  c,
		g:      c.EdwardsG(),
		n:      c.N(),
		encLen: c.EdwardsEncodingLen(),
		hash:   sha512.New,
	}, nil
}

// Curve returns the underlying Edwards curve.
func (ed *EdDSA) Curve() *curve.Curve { return ed.curve }

// N returns a copy of the group order L.
func (ed *EdDSA) N() *bn.Int { return ed.n.Clone() }

// EncodingLength is the byte length of an encoded point or scalar.
func (ed *EdDSA) EncodingLength() int { return ed.encLen }

// EncodePoint returns the RFC 8032 encoding of p.
func (ed *EdDSA) EncodePoint(p *curve.EdwardsPoint) []byte {
	return p.Encode()
}

// DecodePoint parses an encoded point.
func (ed *EdDSA) DecodePoint(b []byte) (*curve.EdwardsPoint, error) {
	return ed.curve.DecodeEdwardsPoint(b)
}

// EncodeInt encodes x as a fixed-length little-endian value.
func (ed *EdDSA) EncodeInt(x *bn.Int) ([]byte, error) {
	return x.FillBytes(bn.LittleEndian, ed.encLen)
}

// DecodeInt reads a little-endian value of exactly EncodingLength bytes.
func (ed *EdDSA) DecodeInt(b []byte) (*bn.Int, error) {
	if len(b) != ed.encLen {
		return nil, fmt.Errorf("want %d bytes, got %d: %w", ed.encLen, len(b), ErrInvalidIntegerEncoding)
	}
	return bn.FromBytes(b, bn.LittleEndian), nil
}

// hashInt hashes the concatenation of parts and reads the digest as a
// little-endian integer mod n.
func (ed *EdDSA) hashInt(parts ...[]byte) *bn.Int {
	h := ed.hash()
	for _, part := range parts {
		h.Write(part)
	}
	return bn.FromBytes(h.Sum(nil), bn.LittleEndian).Umod(ed.n)
}

// Sign signs msg with key.
func (ed *EdDSA) Sign(msg []byte, key *KeyPair) (*Signature, error) {
	if key.secret == nil {
		return nil, ErrNoSecret
	}
	r := ed.hashInt(key.prefix, msg)
	rp := ed.g.Mul(r)
	rEnc := ed.EncodePoint(rp)
	s := ed.hashInt(rEnc, key.PublicBytes(), msg).Mul(key.scalar)
	s = r.Add(s).Umod(ed.n)
	return &Signature{R: rp, S: s, rEnc: rEnc}, nil
}

// Verify reports whether sig, in its 64-byte encoding, signs msg under pub.
// Malformed signatures are rejected.
func (ed *EdDSA) Verify(msg, sig []byte, pub *KeyPair) bool {
	parsed, err := ed.ParseSignature(sig)
	if err != nil {
		return false
	}
	return ed.VerifySignature(msg, parsed, pub)
}

// VerifySignature checks R + H(R, A, msg)·A == S·G.
func (ed *EdDSA) VerifySignature(msg []byte, sig *Signature, pub *KeyPair) bool {
	if sig == nil || sig.R == nil || sig.S == nil || pub == nil || pub.pub == nil {
		return false
	}
	if sig.S.IsNeg() || sig.S.Cmp(ed.n) >= 0 {
		return false
	}
	h := ed.hashInt(sig.encodedR(), pub.PublicBytes(), msg)
	sg := ed.g.Mul(sig.S)
	rh := sig.R.Add(pub.pub.Mul(h))
	return rh.Eq(sg)
}
