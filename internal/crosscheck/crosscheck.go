// Package crosscheck compares the curve, ECDSA, EdDSA and X25519 code of
// this module against independent implementations.
package crosscheck

import (
	"bytes"
	stdecdsa "crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha512"
	"errors"
	"fmt"
	"math/big"

	"filippo.io/edwards25519"
	"github.com/btcsuite/btcd/btcec/v2"
	btcecdsa "github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	decdsa "github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"golang.org/x/crypto/curve25519"

	"github.com/mahdiidarabi/ecbn/pkg/bn"
	"github.com/mahdiidarabi/ecbn/pkg/curve"
	"github.com/mahdiidarabi/ecbn/pkg/ecdsa"
	"github.com/mahdiidarabi/ecbn/pkg/eddsa"
)

// ErrMismatch reports a disagreement with a reference implementation.
var ErrMismatch = errors.New("crosscheck mismatch")

func mismatch(what string, got, want []byte) error {
	return fmt.Errorf("%s: got %x, want %x: %w", what, got, want, ErrMismatch)
}

// secp256k1Key reduces priv into a usable scalar; zero is rejected.
func secp256k1Key(ec *ecdsa.EC, priv []byte) (*ecdsa.KeyPair, []byte, error) {
	key := ec.KeyFromPrivate(priv)
	if key.Private().IsZero() {
		return nil, nil, fmt.Errorf("private key is zero mod n")
	}
	b, err := key.PrivateBytes()
	if err != nil {
		return nil, nil, err
	}
	return key, b, nil
}

// Decred checks secp256k1 public keys, RFC 6979 signatures and compact
// recovery against dcrd's secp256k1 package. digest must be 32 bytes.
func Decred(priv, digest []byte) error {
	ec, err := ecdsa.New("secp256k1")
	if err != nil {
		return err
	}
	key, privBytes, err := secp256k1Key(ec, priv)
	if err != nil {
		return err
	}
	dpriv := secp256k1.PrivKeyFromBytes(privBytes)
	dpub := dpriv.PubKey()

	if got, want := key.PublicBytes(true), dpub.SerializeCompressed(); !bytes.Equal(got, want) {
		return mismatch("compressed public key", got, want)
	}
	if got, want := key.PublicBytes(false), dpub.SerializeUncompressed(); !bytes.Equal(got, want) {
		return mismatch("uncompressed public key", got, want)
	}

	sig, err := ec.Sign(digest, key, &ecdsa.SignOptions{Canonical: true})
	if err != nil {
		return fmt.Errorf("failed to sign: %w", err)
	}
	if got, want := sig.ToDER(), decdsa.Sign(dpriv, digest).Serialize(); !bytes.Equal(got, want) {
		return mismatch("DER signature", got, want)
	}

	parsed, err := decdsa.ParseDERSignature(sig.ToDER())
	if err != nil {
		return fmt.Errorf("reference rejected DER signature: %w", err)
	}
	if !parsed.Verify(digest, dpub) {
		return fmt.Errorf("reference failed to verify signature: %w", ErrMismatch)
	}

	compact, err := sig.Compact(32, true)
	if err != nil {
		return err
	}
	if want := decdsa.SignCompact(dpriv, digest, true); !bytes.Equal(compact, want) {
		return mismatch("compact signature", compact, want)
	}
	rpub, compressed, err := decdsa.RecoverCompact(compact, digest)
	if err != nil {
		return fmt.Errorf("reference failed to recover key: %w", err)
	}
	if !compressed || !rpub.IsEqual(dpub) {
		return fmt.Errorf("recovered key differs: %w", ErrMismatch)
	}
	return nil
}

// Btcec checks uncompressed compact signatures and recovery codes against
// btcec, in both directions.
func Btcec(priv, digest []byte) error {
	ec, err := ecdsa.New("secp256k1")
	if err != nil {
		return err
	}
	key, privBytes, err := secp256k1Key(ec, priv)
	if err != nil {
		return err
	}
	bpriv, bpub := btcec.PrivKeyFromBytes(privBytes)

	want := btcecdsa.SignCompact(bpriv, digest, false)
	sig, err := ec.Sign(digest, key, &ecdsa.SignOptions{Canonical: true})
	if err != nil {
		return fmt.Errorf("failed to sign: %w", err)
	}
	got, err := sig.Compact(32, false)
	if err != nil {
		return err
	}
	if !bytes.Equal(got, want) {
		return mismatch("compact signature", got, want)
	}

	theirs, compressed, err := ecdsa.ParseCompact(want)
	if err != nil {
		return err
	}
	if compressed {
		return fmt.Errorf("header marks a compressed key: %w", ErrMismatch)
	}
	q, err := ec.RecoverPubKey(digest, theirs, *theirs.RecoveryParam)
	if err != nil {
		return fmt.Errorf("failed to recover key: %w", err)
	}
	if got, want := q.Encode(false), bpub.SerializeUncompressed(); !bytes.Equal(got, want) {
		return mismatch("recovered public key", got, want)
	}
	return nil
}

var stdCurves = map[string]elliptic.Curve{
	"p224": elliptic.P224(),
	"p256": elliptic.P256(),
	"p384": elliptic.P384(),
	"p521": elliptic.P521(),
}

// StdlibCurves lists the curves StdlibECDSA accepts.
func StdlibCurves() []string {
	return []string{"p224", "p256", "p384", "p521"}
}

// StdlibECDSA checks that crypto/ecdsa and this module accept each
// other's signatures on a NIST curve.
func StdlibECDSA(name string, priv, digest []byte) error {
	sc, ok := stdCurves[name]
	if !ok {
		return fmt.Errorf("no standard library curve %q: %w", name, curve.ErrUnknownCurve)
	}
	ec, err := ecdsa.New(name)
	if err != nil {
		return err
	}
	key := ec.KeyFromPrivate(priv)
	if key.Private().IsZero() {
		return fmt.Errorf("private key is zero mod n")
	}
	pub := key.Public()
	spriv := &stdecdsa.PrivateKey{
		PublicKey: stdecdsa.PublicKey{
			Curve: sc,
			X:     toBig(pub.X()),
			Y:     toBig(pub.Y()),
		},
		D: toBig(key.Private()),
	}

	sig, err := ec.Sign(digest, key, nil)
	if err != nil {
		return fmt.Errorf("failed to sign: %w", err)
	}
	if !stdecdsa.VerifyASN1(&spriv.PublicKey, digest, sig.ToDER()) {
		return fmt.Errorf("standard library rejected signature on %s: %w", name, ErrMismatch)
	}

	der, err := stdecdsa.SignASN1(rand.Reader, spriv, digest)
	if err != nil {
		return fmt.Errorf("standard library failed to sign: %w", err)
	}
	theirs, err := ecdsa.ParseDER(der)
	if err != nil {
		return fmt.Errorf("failed to parse reference signature: %w", err)
	}
	if !ec.Verify(digest, theirs, key) {
		return fmt.Errorf("rejected standard library signature on %s: %w", name, ErrMismatch)
	}
	return nil
}

func toBig(x *bn.Int) *big.Int {
	return new(big.Int).SetBytes(x.Bytes())
}

// Ed25519 checks public keys against filippo.io/edwards25519 and
// signatures against crypto/ed25519. secret must be 32 bytes.
func Ed25519(secret, msg []byte) error {
	ed, err := eddsa.New("ed25519")
	if err != nil {
		return err
	}
	key, err := ed.KeyFromSecret(secret)
	if err != nil {
		return err
	}

	h := sha512.Sum512(secret)
	s, err := edwards25519.NewScalar().SetBytesWithClamping(h[:32])
	if err != nil {
		return fmt.Errorf("reference rejected scalar: %w", err)
	}
	a := edwards25519.NewIdentityPoint().ScalarBaseMult(s)
	if got, want := key.PublicBytes(), a.Bytes(); !bytes.Equal(got, want) {
		return mismatch("public point", got, want)
	}

	sig, err := key.Sign(msg)
	if err != nil {
		return fmt.Errorf("failed to sign: %w", err)
	}
	std := ed25519.NewKeyFromSeed(secret)
	if got, want := sig.Bytes(), ed25519.Sign(std, msg); !bytes.Equal(got, want) {
		return mismatch("signature", got, want)
	}
	if !ed25519.Verify(std.Public().(ed25519.PublicKey), msg, sig.Bytes()) {
		return fmt.Errorf("standard library rejected signature: %w", ErrMismatch)
	}

	r, err := edwards25519.NewIdentityPoint().SetBytes(sig.Bytes()[:32])
	if err != nil {
		return fmt.Errorf("reference rejected R: %w", err)
	}
	if got, want := sig.R.Encode(), r.Bytes(); !bytes.Equal(got, want) {
		return mismatch("R", got, want)
	}
	return nil
}

// X25519 checks the Montgomery ladder against x/crypto/curve25519 for the
// base point and for a shared secret between two scalars.
func X25519(scalarA, scalarB []byte) error {
	c, err := curve.ByName("curve25519")
	if err != nil {
		return err
	}
	pubA, err := c.X25519(scalarA, curve25519.Basepoint)
	if err != nil {
		return err
	}
	want, err := curve25519.X25519(scalarA, curve25519.Basepoint)
	if err != nil {
		return fmt.Errorf("reference failed: %w", err)
	}
	if !bytes.Equal(pubA, want) {
		return mismatch("public value", pubA, want)
	}

	pubB, err := curve25519.X25519(scalarB, curve25519.Basepoint)
	if err != nil {
		return fmt.Errorf("reference failed: %w", err)
	}
	shared, err := c.X25519(scalarA, pubB)
	if err != nil {
		return err
	}
	want, err = curve25519.X25519(scalarB, pubA)
	if err != nil {
		return fmt.Errorf("reference failed: %w", err)
	}
	if !bytes.Equal(shared, want) {
		return mismatch("shared secret", shared, want)
	}
	return nil
}
