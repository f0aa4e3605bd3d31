package curve

import (
	"fmt"

	"github.com/mahdiidarabi/ecbn/pkg/bn"
)

func (c *Curve) initMont(conf Config) error {
	var err error
	if c.a, err = c.field("a", conf.A); err != nil {
		return err
	}
	if c.b, err = c.field("b", conf.B); err != nil {
		return err
	}
	if c.b.IsZero() {
		return fmt.Errorf("failed to build curve: b must be non-zero: %w", ErrInvalidConfig)
	}
	// a24 = (a + 2) / 4
	i4 := bn.New(4).ToRed(c.red).RedInvm()
	c.a24 = i4.RedMul(c.a.RedAdd(c.two))

	g, err := c.generator(conf, 1)
	if err != nil {
		return err
	}
	if g != nil {
		c.gMont = c.mont(g[0], c.one)
	}
	return nil
}

func (c *Curve) validateMont(p *MontPoint) bool {
	if p.IsInfinity() {
		return true
	}
	x := p.normalize().x
	x2 := x.RedSqr()
	rhs := x2.RedMul(x).RedAdd(x2.RedMul(c.a)).RedAdd(x)
	_, ok := rhs.RedMul(c.b.RedInvm()).RedSqrt()
	return ok
}

// MontPoint is an x-only point (X : Z) on a Montgomery curve. Only
// doubling, differential addition and scalar multiplication are defined.
type MontPoint struct {
	curve *Curve
	x, z  *bn.Int
}

func (c *Curve) mont(x, z *bn.Int) *MontPoint {
	return &MontPoint{curve: c, x: x, z: z}
}

func (c *Curve) montInf() *MontPoint {
	return c.mont(c.one, c.zero)
}

// NewMontPoint returns the point with affine x. Whether x belongs to the
// curve or its twist is checked by Validate.
func (c *Curve) NewMontPoint(x *bn.Int) (*MontPoint, error) {
	if c.shape != Mont {
		return nil, fmt.Errorf("failed to create point on %s curve: %w", c.shape, ErrUnsupported)
	}
	rx, err := c.toField(x)
	if err != nil {
		return nil, err
	}
	return c.mont(rx, c.one), nil
}

// MontG returns the generator of a Montgomery curve.
func (c *Curve) MontG() *MontPoint { return c.gMont }

func (p *MontPoint) Curve() *Curve    { return p.curve }
func (p *MontPoint) IsInfinity() bool { return p.z.IsZero() }

// X returns the affine x coordinate; zero at infinity.
func (p *MontPoint) X() *bn.Int { return p.normalize().x.FromRed() }

func (p *MontPoint) String() string {
	if p.IsInfinity() {
		return "<EC Point Infinity>"
	}
	return fmt.Sprintf("<EC Point x: %s z: %s>", p.x.FromRed().Text(16), p.z.FromRed().Text(16))
}

func (p *MontPoint) normalize() *MontPoint {
	if p.z.Eq(p.curve.one) {
		return p
	}
	return p.curve.mont(p.x.RedMul(p.z.RedInvm()), p.curve.one)
}

// Dbl returns 2p (dbl-1987-m-3).
func (p *MontPoint) Dbl() *MontPoint {
	// 2M + 2S + 4A
	a := p.x.RedAdd(p.z)
	aa := a.RedSqr()
	b := p.x.RedSub(p.z)
	bb := b.RedSqr()
	c := aa.RedSub(bb)
	nx := aa.RedMul(bb)
	nz := c.RedMul(bb.RedAdd(p.curve.a24.RedMul(c)))
	return p.curve.mont(nx, nz)
}

// DiffAdd returns p + q given diff == p - q (dadd-1987-m-3).
func (p *MontPoint) DiffAdd(q, diff *MontPoint) *MontPoint {
	// 4M + 2S + 6A
	a := p.x.RedAdd(p.z)
	b := p.x.RedSub(p.z)
	c := q.x.RedAdd(q.z)
	d := q.x.RedSub(q.z)
	da := d.RedMul(a)
	cb := c.RedMul(b)
	nx := diff.z.RedMul(da.RedAdd(cb).RedSqr())
	nz := diff.x.RedMul(da.RedSub(cb).RedSqr())
	return p.curve.mont(nx, nz)
}

// Mul returns k*p with the Montgomery ladder over the bits of |k|.
func (p *MontPoint) Mul(k *bn.Int) *MontPoint {
	a := p                 // (m + 1) * p
	b := p.curve.montInf() // m * p
	for i := k.BitLen() - 1; i >= 0; i-- {
		if k.TestBit(i) {
			b = a.DiffAdd(b, p)
			a = a.Dbl()
		} else {
			a = a.DiffAdd(b, p)
			b = b.Dbl()
		}
	}
	return b
}

// Eq compares affine x coordinates.
func (p *MontPoint) Eq(q *MontPoint) bool {
	return p.X().Eq(q.X())
}

// Encode returns the big-endian affine x, padded to the field length.
func (p *MontPoint) Encode() []byte {
	b, _ := p.X().FillBytes(bn.BigEndian, p.curve.ByteLen())
	return b
}

// DecodeMontPoint parses a big-endian x coordinate.
func (c *Curve) DecodeMontPoint(b []byte) (*MontPoint, error) {
	if len(b) != c.ByteLen() {
		return nil, fmt.Errorf("failed to decode point: want %d bytes, got %d: %w", c.ByteLen(), len(b), ErrUnknownPointFormat)
	}
	return c.NewMontPoint(bn.FromBytes(b, bn.BigEndian))
}

// X25519 computes the RFC 7748 function on curve25519: scalar is clamped,
// u has its top bit masked, and both are little-endian. The all-zero
// output of a small-order u is returned as is; callers decide whether to
// reject it.
func (c *Curve) X25519(scalar, u []byte) ([]byte, error) {
	if c.shape != Mont {
		return nil, fmt.Errorf("failed to compute X25519 on %s curve: %w", c.shape, ErrUnsupported)
	}
	if len(scalar) != 32 || len(u) != 32 {
		return nil, fmt.Errorf("failed to compute X25519: want 32-byte inputs: %w", ErrInvalidPoint)
	}
	k := make([]byte, 32)
	copy(k, scalar)
	k[0] &= 248
	k[31] &= 127
	k[31] |= 64

	ub := make([]byte, 32)
	copy(ub, u)
	ub[31] &= 127
	x := bn.FromBytes(ub, bn.LittleEndian).Umod(c.p)

	q := c.mont(x.ToRed(c.red), c.one).Mul(bn.FromBytes(k, bn.LittleEndian))
	return q.X().FillBytes(bn.LittleEndian, 32)
}
