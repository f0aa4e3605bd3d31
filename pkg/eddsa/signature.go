package eddsa

import (
	"encoding/hex"
	"fmt"

	"github.com/mahdiidarabi/ecbn/pkg/bn"
	"github.com/mahdiidarabi/ecbn/pkg/curve"
)

// Signature is an (R, S) pair: R is a curve point, S a scalar below the
// group order.
type Signature struct {
	R *curve.EdwardsPoint
	S *bn.Int

	rEnc []byte
}

func (sig *Signature) encodedR() []byte {
	if sig.rEnc != nil {
		return sig.rEnc
	}
	return sig.R.Encode()
}

// Bytes returns the encoding R || S. S must be below the group order, as
// it is for every signature from Sign or ParseSignature; a hand-built
// signature with a wider S panics.
func (sig *Signature) Bytes() []byte {
	r := sig.encodedR()
	s, err := sig.S.FillBytes(bn.LittleEndian, len(r))
	if err != nil {
		panic("eddsa: signature scalar does not fit the encoding: " + err.Error())
	}
	return append(append([]byte(nil), r...), s...)
}

func (sig *Signature) String() string {
	return hex.EncodeToString(sig.Bytes())
}

// ParseSignature decodes the R || S form. S must be below the group order
// and R must decode to a point.
func (ed *EdDSA) ParseSignature(b []byte) (*Signature, error) {
	if len(b) != 2*ed.encLen {
		return nil, fmt.Errorf("want %d bytes, got %d: %w", 2*ed.encLen, len(b), ErrInvalidSignatureLength)
	}
	rEnc := append([]byte(nil), b[:ed.encLen]...)
	r, err := ed.DecodePoint(rEnc)
	if err != nil {
		return nil, fmt.Errorf("failed to decode R: %w", err)
	}
	s, err := ed.DecodeInt(b[ed.encLen:])
	if err != nil {
		return nil, err
	}
	if s.Cmp(ed.n) >= 0 {
		return nil, ErrSignatureScalarTooLarge
	}
	return &Signature{R: r, S: s, rEnc: rEnc}, nil
}
