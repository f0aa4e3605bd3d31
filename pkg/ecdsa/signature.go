package ecdsa

import (
	"fmt"

	"github.com/mahdiidarabi/ecbn/pkg/bn"
)

// Signature is an ECDSA (r, s) pair. RecoveryParam is set by Sign and by
// ParseCompact.
type Signature struct {
	R, S          *bn.Int
	RecoveryParam *int
}

// NewSignature returns a signature without a recovery parameter.
func NewSignature(r, s *bn.Int) *Signature {
	return &Signature{R: r, S: s}
}

// WithRecoveryParam returns a copy of sig carrying j.
func (sig *Signature) WithRecoveryParam(j int) *Signature {
	return &Signature{R: sig.R, S: sig.S, RecoveryParam: &j}
}

func (sig *Signature) String() string {
	rp := "<nil>"
	if sig.RecoveryParam != nil {
		rp = fmt.Sprint(*sig.RecoveryParam)
	}
	return fmt.Sprintf("<Signature r: %s s: %s recovery: %s>", sig.R.Text(16), sig.S.Text(16), rp)
}

const (
	derSequence = 0x30
	derInteger  = 0x02
)

// ToDER encodes the signature as SEQUENCE { INTEGER r, INTEGER s }.
func (sig *Signature) ToDER() []byte {
	r := derInt(sig.R.Bytes())
	s := derInt(sig.S.Bytes())

	body := []byte{derInteger}
	body = appendDERLength(body, len(r))
	body = append(body, r...)
	body = append(body, derInteger)
	body = appendDERLength(body, len(s))
	body = append(body, s...)

	out := []byte{derSequence}
	out = appendDERLength(out, len(body))
	return append(out, body...)
}

// derInt strips redundant leading zeros and adds one when the top bit
// would make the integer negative.
func derInt(b []byte) []byte {
	i := 0
	for i < len(b)-1 && b[i] == 0 && b[i+1] < 0x80 {
		i++
	}
	b = b[i:]
	if len(b) == 0 {
		return []byte{0}
	}
	if b[0]&0x80 != 0 {
		return append([]byte{0}, b...)
	}
	return b
}

func appendDERLength(out []byte, n int) []byte {
	if n < 0x80 {
		return append(out, byte(n))
	}
	octets := 0
	for v := n; v > 0; v >>= 8 {
		octets++
	}
	out = append(out, byte(0x80|octets))
	for i := octets - 1; i >= 0; i-- {
		out = append(out, byte(n>>(8*i)))
	}
	return out
}

// derReader walks a DER buffer.
type derReader struct {
	buf []byte
	pos int
}

func (r *derReader) next() (byte, bool) {
	if r.pos >= len(r.buf) {
		return 0, false
	}
	b := r.buf[r.pos]
	r.pos++
	return b, true
}

// length reads a definite length. Long forms must be minimal: at most four
// octets, no leading zero and a value above 0x7f.
func (r *derReader) length() (int, bool) {
	initial, ok := r.next()
	if !ok {
		return 0, false
	}
	if initial&0x80 == 0 {
		return int(initial), true
	}
	octets := int(initial & 0x0f)
	if octets == 0 || octets > 4 {
		return 0, false
	}
	if r.pos >= len(r.buf) || r.buf[r.pos] == 0 {
		return 0, false
	}
	val := 0
	for i := 0; i < octets; i++ {
		b, ok := r.next()
		if !ok {
			return 0, false
		}
		val = val<<8 | int(b)
	}
	if val <= 0x7f {
		return 0, false
	}
	return val, true
}

func (r *derReader) integer() ([]byte, error) {
	if tag, ok := r.next(); !ok || tag != derInteger {
		return nil, fmt.Errorf("expected INTEGER: %w", ErrInvalidDER)
	}
	n, ok := r.length()
	if !ok {
		return nil, fmt.Errorf("bad INTEGER length: %w", ErrInvalidDER)
	}
	if n == 0 || r.pos+n > len(r.buf) {
		return nil, fmt.Errorf("INTEGER out of bounds: %w", ErrInvalidDER)
	}
	v := r.buf[r.pos : r.pos+n]
	r.pos += n
	if v[0]&0x80 != 0 {
		return nil, fmt.Errorf("negative INTEGER: %w", ErrInvalidDER)
	}
	if v[0] == 0 {
		if len(v) < 2 || v[1]&0x80 == 0 {
			return nil, fmt.Errorf("INTEGER has redundant padding: %w", ErrInvalidDER)
		}
		v = v[1:]
	}
	return v, nil
}

// ParseDER decodes a strict DER signature.
func ParseDER(b []byte) (*Signature, error) {
	r := &derReader{buf: b}
	if tag, ok := r.next(); !ok || tag != derSequence {
		return nil, fmt.Errorf("expected SEQUENCE: %w", ErrInvalidDER)
	}
	n, ok := r.length()
	if !ok {
		return nil, fmt.Errorf("bad SEQUENCE length: %w", ErrInvalidDER)
	}
	if r.pos+n != len(b) {
		return nil, fmt.Errorf("SEQUENCE length %d does not match input: %w", n, ErrInvalidDER)
	}
	rb, err := r.integer()
	if err != nil {
		return nil, err
	}
	sb, err := r.integer()
	if err != nil {
		return nil, err
	}
	if r.pos != len(b) {
		return nil, fmt.Errorf("trailing bytes after s: %w", ErrInvalidDER)
	}
	return &Signature{R: bn.FromBytes(rb, bn.BigEndian), S: bn.FromBytes(sb, bn.BigEndian)}, nil
}

const compactHeaderBase = 27

// Compact returns header || r || s where header = 27 + recovery (+4 for
// a compressed public key). size is the byte length of each scalar.
func (sig *Signature) Compact(size int, compressed bool) ([]byte, error) {
	if sig.RecoveryParam == nil {
		return nil, fmt.Errorf("failed to encode compact signature: %w", ErrInvalidRecoveryParam)
	}
	j := *sig.RecoveryParam
	if j&3 != j {
		return nil, fmt.Errorf("failed to encode compact signature: j = %d: %w", j, ErrInvalidRecoveryParam)
	}
	header := byte(compactHeaderBase + j)
	if compressed {
		header += 4
	}
	r, err := sig.R.FillBytes(bn.BigEndian, size)
	if err != nil {
		return nil, fmt.Errorf("failed to encode r: %w", err)
	}
	s, err := sig.S.FillBytes(bn.BigEndian, size)
	if err != nil {
		return nil, fmt.Errorf("failed to encode s: %w", err)
	}
	out := make([]byte, 0, 1+2*size)
	out = append(out, header)
	out = append(out, r...)
	return append(out, s...), nil
}

// ParseCompact decodes the Compact form. It reports whether the header
// marks a compressed public key.
func ParseCompact(b []byte) (*Signature, bool, error) {
	if len(b) < 3 || len(b)%2 != 1 {
		return nil, false, fmt.Errorf("bad length %d: %w", len(b), ErrInvalidCompact)
	}
	h := int(b[0]) - compactHeaderBase
	if h < 0 || h > 7 {
		return nil, false, fmt.Errorf("bad header %#x: %w", b[0], ErrInvalidCompact)
	}
	compressed := h >= 4
	j := h & 3
	size := (len(b) - 1) / 2
	return &Signature{
		R:             bn.FromBytes(b[1:1+size], bn.BigEndian),
		S:             bn.FromBytes(b[1+size:], bn.BigEndian),
		RecoveryParam: &j,
	}, compressed, nil
}
