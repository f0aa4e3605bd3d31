package ecdsa

import (
	"fmt"
	"sync"

	"github.com/mahdiidarabi/ecbn/pkg/bn"
	"github.com/mahdiidarabi/ecbn/pkg/curve"
)

// KeyPair holds a private scalar, a public point, or both. The public
// point of a private key is derived on first use.
type KeyPair struct {
	ec   *EC
	priv *bn.Int

	pubOnce sync.Once
	pub     *curve.ShortPoint
}

// Result is the outcome of a key validation.
type Result struct {
	OK     bool
	Reason string
}

// KeyFromPrivate builds a key pair from a big-endian private scalar. The
// scalar is reduced mod n.
func (ec *EC) KeyFromPrivate(priv []byte) *KeyPair {
	return ec.KeyFromPrivateInt(bn.FromBytes(priv, bn.BigEndian))
}

// KeyFromPrivateInt is KeyFromPrivate for an integer scalar.
func (ec *EC) KeyFromPrivateInt(priv *bn.Int) *KeyPair {
	return &KeyPair{ec: ec, priv: priv.Umod(ec.n)}
}

// KeyFromPublic builds a verification-only key from a SEC1 encoded point.
func (ec *EC) KeyFromPublic(pub []byte) (*KeyPair, error) {
	p, err := ec.curve.DecodeShortPoint(pub)
	if err != nil {
		return nil, fmt.Errorf("failed to decode public key: %w", err)
	}
	return ec.KeyFromPublicPoint(p), nil
}

// KeyFromPublicPoint wraps an already decoded public point.
func (ec *EC) KeyFromPublicPoint(p *curve.ShortPoint) *KeyPair {
	k := &KeyPair{ec: ec, pub: p}
	k.pubOnce.Do(func() {})
	return k
}

// Private returns a copy of the private scalar, or nil for public keys.
func (k *KeyPair) Private() *bn.Int {
	if k.priv == nil {
		return nil
	}
	return k.priv.Clone()
}

// Public returns the public point, deriving it from the private key when
// needed.
func (k *KeyPair) Public() *curve.ShortPoint {
	k.pubOnce.Do(func() {
		if k.priv != nil {
			k.pub = k.ec.g.Mul(k.priv)
		}
	})
	return k.pub
}

// PublicBytes returns the SEC1 encoding of the public point.
func (k *KeyPair) PublicBytes(compact bool) []byte {
	return k.Public().Encode(compact)
}

// PrivateBytes returns the private scalar padded to the byte length of n.
func (k *KeyPair) PrivateBytes() ([]byte, error) {
	if k.priv == nil {
		return nil, ErrNoPrivateKey
	}
	return k.priv.FillBytes(bn.BigEndian, k.ec.n.ByteLen())
}

// Validate checks that the public point is a non-identity curve point of
// order n.
func (k *KeyPair) Validate() Result {
	pub := k.Public()
	if pub == nil || pub.IsInfinity() {
		return Result{Reason: "invalid public key"}
	}
	if !k.ec.curve.Validate(pub) {
		return Result{Reason: "public key is not a point"}
	}
	if !pub.Mul(k.ec.n).IsInfinity() {
		return Result{Reason: "public key * N != O"}
	}
	return Result{OK: true}
}

// Derive computes the ECDH shared secret: the x coordinate of priv*pub.
func (k *KeyPair) Derive(pub *curve.ShortPoint) (*bn.Int, error) {
	if k.priv == nil {
		return nil, ErrNoPrivateKey
	}
	if pub == nil || pub.Curve() != k.ec.curve || !k.ec.curve.Validate(pub) || pub.IsInfinity() {
		return nil, fmt.Errorf("failed to derive shared secret: %w", ErrInvalidPublicKey)
	}
	return pub.Mul(k.priv).X(), nil
}

// Sign signs a digest.
func (k *KeyPair) Sign(digest []byte, opts *SignOptions) (*Signature, error) {
	return k.ec.Sign(digest, k, opts)
}

// Verify checks a signature over a digest.
func (k *KeyPair) Verify(digest []byte, sig *Signature) bool {
	return k.ec.Verify(digest, sig, k)
}

func (k *KeyPair) String() string {
	pub := "<nil>"
	if p := k.Public(); p != nil {
		pub = p.String()
	}
	if k.priv == nil {
		return fmt.Sprintf("<Key priv: <nil> pub: %s>", pub)
	}
	return fmt.Sprintf("<Key priv: %s pub: %s>", k.priv.Text(16), pub)
}
