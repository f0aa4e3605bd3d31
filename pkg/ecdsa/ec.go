package ecdsa

import (
	"crypto/rand"
	"fmt"
	"hash"
	"io"

	"github.com/mahdiidarabi/ecbn/pkg/bn"
	"github.com/mahdiidarabi/ecbn/pkg/curve"
	"github.com/mahdiidarabi/ecbn/pkg/hmacdrbg"
)

// EC is an ECDSA context bound to one curve and hash.
type EC struct {
	curve    *curve.Curve
	g        *curve.ShortPoint
	n        *bn.Int
	nh       *bn.Int // n / 2, the low-S bound
	hash     func() hash.Hash
	hashName string
}

// New returns a context for a registry curve with its conventional hash.
func New(name string) (*EC, error) {
	c, err := curve.ByName(name)
	if err != nil {
		return nil, err
	}
	return NewWithCurve(c, c.HashName())
}

// NewWithCurve returns a context for an arbitrary short Weierstrass curve.
func NewWithCurve(c *curve.Curve, hashName string) (*EC, error) {
	if c.Shape() != curve.Short || c.ShortG() == nil || c.N() == nil {
		return nil, fmt.Errorf("failed to create ECDSA context: %w", ErrNotShortCurve)
	}
	h, err := HashByName(hashName)
	if err != nil {
		return nil, err
	}
	n := c.N()
	g := c.ShortG()
	// Registry generators carry their tables already.
	g = g.Precompute(n.BitLen() + 1)
	return &EC{
		curve:    c,
		g:        g,
		n:        n,
		nh:       n.Shr(1),
		hash:     h,
		hashName: hashName,
	}, nil
}

func (ec *EC) Curve() *curve.Curve    { return ec.curve }
func (ec *EC) N() *bn.Int             { return ec.n.Clone() }
func (ec *EC) Hash() func() hash.Hash { return ec.hash }
func (ec *EC) HashName() string       { return ec.hashName }
func (ec *EC) G() *curve.ShortPoint   { return ec.g }

// Digest hashes msg with the context's hash function.
func (ec *EC) Digest(msg []byte) []byte {
	h := ec.hash()
	h.Write(msg)
	return h.Sum(nil)
}

// truncateToN turns a digest into an integer of at most n's bit length.
// bitLen overrides the digest length when non-zero. Unless truncOnly is
// set, the result is also reduced below n.
func (ec *EC) truncateToN(msg *bn.Int, bitLen int, truncOnly bool) *bn.Int {
	if delta := bitLen - ec.n.BitLen(); delta > 0 {
		msg = msg.Shr(delta)
	}
	if !truncOnly && msg.Cmp(ec.n) >= 0 {
		return msg.Sub(ec.n)
	}
	return msg
}

func (ec *EC) hashToInt(digest []byte, bitLen int) *bn.Int {
	if bitLen == 0 {
		bitLen = len(digest) * 8
	}
	return ec.truncateToN(bn.FromBytes(digest, bn.BigEndian), bitLen, false)
}

// SignOptions tune signing. The zero value signs deterministically.
type SignOptions struct {
	// Pers is mixed into the DRBG as personalization.
	Pers []byte
	// Canonical forces s <= n/2.
	Canonical bool
	// MsgBitLength overrides the bit length of the digest used for
	// truncation.
	MsgBitLength int
	// K supplies the nonce candidate for each iteration instead of the
	// DRBG. Candidates outside (1, n-1) are skipped.
	K func(iter int) *bn.Int
}

// Sign signs a digest with key.
func (ec *EC) Sign(digest []byte, key *KeyPair, opts *SignOptions) (*Signature, error) {
	if key.priv == nil {
		return nil, ErrNoPrivateKey
	}
	if opts == nil {
		opts = &SignOptions{}
	}
	msg := ec.hashToInt(digest, opts.MsgBitLength)

	size := ec.n.ByteLen()
	bkey, err := key.priv.FillBytes(bn.BigEndian, size)
	if err != nil {
		return nil, fmt.Errorf("failed to encode private key: %w", err)
	}
	nonce, err := msg.FillBytes(bn.BigEndian, size)
	if err != nil {
		return nil, fmt.Errorf("failed to encode digest: %w", err)
	}
	drbg, err := hmacdrbg.New(hmacdrbg.Config{
		Hash:    ec.hash,
		Entropy: bkey,
		Nonce:   nonce,
		Pers:    opts.Pers,
		// The private key is the entropy input; short curves such as p192
		// supply fewer bits than the default floor.
		MinEntropy: min(hmacdrbg.DefaultMinEntropy, size*8),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to seed nonce generator: %w", err)
	}

	ns1 := ec.n.SubN(1)
	for iter := 0; ; iter++ {
		var k *bn.Int
		if opts.K != nil {
			k = ec.truncateToN(opts.K(iter), ec.n.ByteLen()*8, true)
		} else {
			b, err := drbg.Generate(size, nil)
			if err != nil {
				return nil, fmt.Errorf("failed to generate nonce: %w", err)
			}
			k = ec.truncateToN(bn.FromBytes(b, bn.BigEndian), size*8, true)
		}
		if k.CmpN(1) <= 0 || k.Cmp(ns1) >= 0 {
			continue
		}

		kp := ec.g.Mul(k)
		if kp.IsInfinity() {
			continue
		}
		kpx := kp.X()
		r := kpx.Umod(ec.n)
		if r.IsZero() {
			continue
		}
		s := k.Invm(ec.n).Mul(r.Mul(key.priv).Add(msg)).Umod(ec.n)
		if s.IsZero() {
			continue
		}

		recovery := 0
		if kp.Y().IsOdd() {
			recovery |= 1
		}
		if !kpx.Eq(r) {
			recovery |= 2
		}
		if opts.Canonical && s.Cmp(ec.nh) > 0 {
			s = ec.n.Sub(s)
			recovery ^= 1
		}
		return &Signature{R: r, S: s, RecoveryParam: &recovery}, nil
	}
}

// SignMessage hashes msg and signs the digest.
func (ec *EC) SignMessage(msg []byte, key *KeyPair, opts *SignOptions) (*Signature, error) {
	return ec.Sign(ec.Digest(msg), key, opts)
}

// Verify reports whether sig is a valid signature of digest under pub.
func (ec *EC) Verify(digest []byte, sig *Signature, pub *KeyPair) bool {
	return ec.verify(digest, 0, sig, pub)
}

// VerifyWithBitLength is Verify for a digest truncated to msgBitLength
// bits when signing.
func (ec *EC) VerifyWithBitLength(digest []byte, msgBitLength int, sig *Signature, pub *KeyPair) bool {
	return ec.verify(digest, msgBitLength, sig, pub)
}

// VerifyMessage hashes msg and verifies the digest.
func (ec *EC) VerifyMessage(msg []byte, sig *Signature, pub *KeyPair) bool {
	return ec.Verify(ec.Digest(msg), sig, pub)
}

func (ec *EC) verify(digest []byte, bitLen int, sig *Signature, pub *KeyPair) bool {
	if sig == nil || sig.R == nil || sig.S == nil || pub == nil {
		return false
	}
	q := pub.Public()
	if q == nil || q.IsInfinity() || q.Curve() != ec.curve {
		return false
	}
	msg := ec.hashToInt(digest, bitLen)
	r, s := sig.R, sig.S
	if r.CmpN(1) < 0 || r.Cmp(ec.n) >= 0 {
		return false
	}
	if s.CmpN(1) < 0 || s.Cmp(ec.n) >= 0 {
		return false
	}

	sinv := s.Invm(ec.n)
	u1 := sinv.Mul(msg).Umod(ec.n)
	u2 := sinv.Mul(r).Umod(ec.n)

	if !ec.curve.MaxwellTrick() {
		p := ec.g.MulAdd(u1, q, u2)
		if p.IsInfinity() {
			return false
		}
		return p.X().Umod(ec.n).Eq(r)
	}
	j := ec.g.JMulAdd(u1, q, u2)
	if j.IsInfinity() {
		return false
	}
	return j.EqXToP(r)
}

// RecoverPubKey returns the public key that produced sig over digest,
// selected by the recovery parameter j in [0, 3].
func (ec *EC) RecoverPubKey(digest []byte, sig *Signature, j int) (*curve.ShortPoint, error) {
	if j&3 != j {
		return nil, fmt.Errorf("failed to recover public key: j = %d: %w", j, ErrInvalidRecoveryParam)
	}
	if sig == nil || sig.R == nil || sig.S == nil {
		return nil, ErrInvalidSignature
	}
	r, s := sig.R, sig.S
	if r.CmpN(1) < 0 || r.Cmp(ec.n) >= 0 || s.CmpN(1) < 0 || s.Cmp(ec.n) >= 0 {
		return nil, fmt.Errorf("failed to recover public key: %w", ErrInvalidSignature)
	}
	e := ec.hashToInt(digest, 0)
	odd := j&1 == 1
	second := j>>1 == 1

	x := r
	if second {
		if r.Cmp(ec.curve.P().Umod(ec.n)) >= 0 {
			return nil, ErrNoSecondKey
		}
		x = r.Add(ec.n)
	}
	rp, err := ec.curve.PointFromX(x, odd)
	if err != nil {
		return nil, fmt.Errorf("failed to recover R: %w", err)
	}

	rinv := r.Invm(ec.n)
	s1 := ec.n.Sub(e).Mul(rinv).Umod(ec.n)
	s2 := s.Mul(rinv).Umod(ec.n)
	return ec.g.MulAdd(s1, rp.(*curve.ShortPoint), s2), nil
}

// GetKeyRecoveryParam finds the j for which RecoverPubKey yields pub.
func (ec *EC) GetKeyRecoveryParam(digest []byte, sig *Signature, pub *curve.ShortPoint) (int, error) {
	for j := 0; j < 4; j++ {
		q, err := ec.RecoverPubKey(digest, sig, j)
		if err != nil {
			continue
		}
		if q.Eq(pub) {
			return j, nil
		}
	}
	return 0, ErrNoRecoveryParam
}

// GenKeyPair draws a private key in [1, n-1] from a DRBG seeded with
// entropy read from r (crypto/rand when nil).
func (ec *EC) GenKeyPair(r io.Reader, pers []byte) (*KeyPair, error) {
	if r == nil {
		r = rand.Reader
	}
	entropy := make([]byte, max(32, ec.hash().Size()))
	if _, err := io.ReadFull(r, entropy); err != nil {
		return nil, fmt.Errorf("failed to read entropy: %w", err)
	}
	nonce, _ := ec.n.FillBytes(bn.BigEndian, ec.n.ByteLen())
	drbg, err := hmacdrbg.New(hmacdrbg.Config{
		Hash:    ec.hash,
		Entropy: entropy,
		Nonce:   nonce,
		Pers:    pers,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to seed key generator: %w", err)
	}

	size := ec.n.ByteLen()
	ns2 := ec.n.SubN(2)
	for {
		b, err := drbg.Generate(size, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to generate key: %w", err)
		}
		priv := bn.FromBytes(b, bn.BigEndian)
		if priv.Cmp(ns2) > 0 {
			continue
		}
		return ec.KeyFromPrivateInt(priv.AddN(1)), nil
	}
}
