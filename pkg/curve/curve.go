package curve

import (
	"errors"
	"fmt"

	"github.com/mahdiidarabi/ecbn/pkg/bn"
)

var (
	// ErrUnsupported is returned when an operation does not exist for the
	// curve's shape, such as adding two points on a Montgomery curve.
	ErrUnsupported = errors.New("operation not supported for this curve shape")

	ErrInvalidPoint       = errors.New("invalid point")
	ErrUnknownPointFormat = errors.New("unknown point format")
	ErrUnknownCurve       = errors.New("unknown curve")
	ErrInvalidConfig      = errors.New("invalid curve parameters")
)

// Shape is the closed set of curve equations the package understands.
type Shape int

const (
	// Short is y^2 = x^3 + ax + b.
	Short Shape = iota
	// Mont is by^2 = x^3 + ax^2 + x, used x-only.
	Mont
	// Edwards is ax^2 + y^2 = c^2(1 + dx^2y^2).
	Edwards
)

func (s Shape) String() string {
	switch s {
	case Short:
		return "short"
	case Mont:
		return "mont"
	case Edwards:
		return "edwards"
	}
	return fmt.Sprintf("Shape(%d)", int(s))
}

// BasisConfig is one hex-encoded lattice vector of a GLV basis.
type BasisConfig struct {
	A, B string
}

// Config describes a curve with hex-encoded parameters. Negative values
// such as an Edwards a of "-1" are accepted and reduced modulo P.
type Config struct {
	Shape Shape
	P     string
	// Prime optionally names a pseudo-Mersenne reducer for P (see
	// bn.PrimeNames). Montgomery reduction is used otherwise.
	Prime string

	A, B string // short and mont
	C, D string // edwards

	N string
	// G is the generator as affine coordinates. Montgomery curves only
	// take x.
	G []string

	// Endomorphism constants for a = 0 curves. Anything left empty is
	// derived when the curve qualifies.
	Beta   string
	Lambda string
	Basis  []BasisConfig
}

// Curve is an elliptic curve over a prime field. The shape decides which
// parameters are set and which point type belongs to it. Curves are
// immutable once built and safe for concurrent use.
type Curve struct {
	name, hash string

	shape Shape
	p     *bn.Int
	red   *bn.Red
	n     *bn.Int
	// redN is n in the field; set only when p/n is small enough for the
	// x-coordinate comparison in EqXToP to iterate a handful of times.
	redN   *bn.Int
	bitLen int

	zero, one, two *bn.Int

	a, b *bn.Int

	// short-Weierstrass
	tinv          *bn.Int
	zeroA, threeA bool
	endo          *endomorphism

	// montgomery
	a24 *bn.Int

	// edwards
	twisted, mOneA, extended, oneC bool
	c, c2, d, dd                   *bn.Int

	gShort *ShortPoint
	gMont  *MontPoint
	gEd    *EdwardsPoint
}

func parseHex(name, s string) (*bn.Int, error) {
	v, err := bn.Parse(s, 16)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return v, nil
}

// New builds a curve from conf.
func New(conf Config) (*Curve, error) {
	p, err := parseHex("p", conf.P)
	if err != nil {
		return nil, err
	}
	if p.CmpN(3) < 0 || p.IsEven() {
		return nil, fmt.Errorf("failed to build curve: p must be an odd prime: %w", ErrInvalidConfig)
	}
	c := &Curve{shape: conf.Shape, p: p}
	if conf.Prime != "" {
		red, err := bn.NewRedPrime(conf.Prime)
		if err != nil {
			return nil, fmt.Errorf("failed to build curve: %w", err)
		}
		if !red.M().Eq(p) {
			return nil, fmt.Errorf("failed to build curve: reducer %s does not match p: %w", conf.Prime, ErrInvalidConfig)
		}
		c.red = red
	} else {
		c.red = bn.NewMont(p)
	}
	c.zero = bn.New(0).ToRed(c.red)
	c.one = bn.New(1).ToRed(c.red)
	c.two = bn.New(2).ToRed(c.red)

	if conf.N != "" {
		if c.n, err = parseHex("n", conf.N); err != nil {
			return nil, err
		}
		c.bitLen = c.n.BitLen()
		if adjust := p.Div(c.n); adjust.CmpN(100) <= 0 {
			c.redN = c.n.Umod(p).ToRed(c.red)
		}
	}

	switch conf.Shape {
	case Short:
		err = c.initShort(conf)
	case Mont:
		err = c.initMont(conf)
	case Edwards:
		err = c.initEdwards(conf)
	default:
		err = fmt.Errorf("failed to build curve: shape %s: %w", conf.Shape, ErrInvalidConfig)
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// field parses a hex field constant, accepting negative values.
func (c *Curve) field(name, s string) (*bn.Int, error) {
	v, err := parseHex(name, s)
	if err != nil {
		return nil, err
	}
	return v.Umod(c.p).ToRed(c.red), nil
}

func (c *Curve) generator(conf Config, want int) ([]*bn.Int, error) {
	if len(conf.G) == 0 {
		return nil, nil
	}
	if len(conf.G) != want {
		return nil, fmt.Errorf("failed to parse generator: want %d coordinates, got %d: %w", want, len(conf.G), ErrInvalidConfig)
	}
	out := make([]*bn.Int, want)
	for i, s := range conf.G {
		v, err := parseHex("generator", s)
		if err != nil {
			return nil, err
		}
		if v.IsNeg() || v.Cmp(c.p) >= 0 {
			return nil, fmt.Errorf("failed to parse generator: coordinate out of range: %w", ErrInvalidConfig)
		}
		out[i] = v.ToRed(c.red)
	}
	return out, nil
}

// Shape returns the curve's shape.
func (c *Curve) Shape() Shape { return c.shape }

// P returns a copy of the field prime.
func (c *Curve) P() *bn.Int { return c.p.Clone() }

// N returns a copy of the group order, or nil when unknown.
func (c *Curve) N() *bn.Int {
	if c.n == nil {
		return nil
	}
	return c.n.Clone()
}

// Red returns the field's reduction context.
func (c *Curve) Red() *bn.Red { return c.red }

// ByteLen is the length of an encoded field element.
func (c *Curve) ByteLen() int { return c.p.ByteLen() }

// MaxwellTrick reports whether EqXToP can compare x coordinates without
// normalizing the point.
func (c *Curve) MaxwellTrick() bool { return c.redN != nil }

// G returns the generator, or nil when the curve has none.
func (c *Curve) G() Point {
	switch {
	case c.gShort != nil:
		return c.gShort
	case c.gMont != nil:
		return c.gMont
	case c.gEd != nil:
		return c.gEd
	}
	return nil
}

// Point is a point on one of the three curve shapes. The concrete types
// are *ShortPoint, *MontPoint and *EdwardsPoint.
type Point interface {
	Curve() *Curve
	IsInfinity() bool
	// X returns the affine x coordinate; it must not be called on infinity.
	X() *bn.Int
}

// Infinity returns the identity element of the curve's group.
func (c *Curve) Infinity() Point {
	switch c.shape {
	case Short:
		return c.shortInf()
	case Mont:
		return c.montInf()
	default:
		return c.edInf()
	}
}

func (c *Curve) own(p Point) error {
	if p == nil || p.Curve() != c {
		return fmt.Errorf("point belongs to another curve: %w", ErrInvalidPoint)
	}
	return nil
}

// Add returns p + q.
func (c *Curve) Add(p, q Point) (Point, error) {
	if err := c.own(p); err != nil {
		return nil, err
	}
	if err := c.own(q); err != nil {
		return nil, err
	}
	switch a := p.(type) {
	case *ShortPoint:
		return a.Add(q.(*ShortPoint)), nil
	case *EdwardsPoint:
		return a.Add(q.(*EdwardsPoint)), nil
	}
	return nil, fmt.Errorf("failed to add points on %s curve: %w", c.shape, ErrUnsupported)
}

// Dbl returns 2p.
func (c *Curve) Dbl(p Point) (Point, error) {
	if err := c.own(p); err != nil {
		return nil, err
	}
	switch a := p.(type) {
	case *ShortPoint:
		return a.Dbl(), nil
	case *MontPoint:
		return a.Dbl(), nil
	case *EdwardsPoint:
		return a.Dbl(), nil
	}
	return nil, ErrUnsupported
}

// Neg returns -p.
func (c *Curve) Neg(p Point) (Point, error) {
	if err := c.own(p); err != nil {
		return nil, err
	}
	switch a := p.(type) {
	case *ShortPoint:
		return a.Neg(), nil
	case *EdwardsPoint:
		return a.Neg(), nil
	}
	return nil, fmt.Errorf("failed to negate point on %s curve: %w", c.shape, ErrUnsupported)
}

// Mul returns k*p.
func (c *Curve) Mul(p Point, k *bn.Int) (Point, error) {
	if err := c.own(p); err != nil {
		return nil, err
	}
	switch a := p.(type) {
	case *ShortPoint:
		return a.Mul(k), nil
	case *MontPoint:
		return a.Mul(k), nil
	case *EdwardsPoint:
		return a.Mul(k), nil
	}
	return nil, ErrUnsupported
}

// MulAdd returns k1*p1 + k2*p2.
func (c *Curve) MulAdd(p1 Point, k1 *bn.Int, p2 Point, k2 *bn.Int) (Point, error) {
	if err := c.own(p1); err != nil {
		return nil, err
	}
	if err := c.own(p2); err != nil {
		return nil, err
	}
	switch a := p1.(type) {
	case *ShortPoint:
		return a.MulAdd(k1, p2.(*ShortPoint), k2), nil
	case *EdwardsPoint:
		return a.MulAdd(k1, p2.(*EdwardsPoint), k2), nil
	}
	return nil, fmt.Errorf("failed to compute joint multiple on %s curve: %w", c.shape, ErrUnsupported)
}

// Validate reports whether p satisfies the curve equation.
func (c *Curve) Validate(p Point) bool {
	if c.own(p) != nil {
		return false
	}
	switch a := p.(type) {
	case *ShortPoint:
		return c.validateShort(a)
	case *MontPoint:
		return c.validateMont(a)
	case *EdwardsPoint:
		return c.validateEdwards(a)
	}
	return false
}

// PointFromX recovers the point with affine x and the requested parity of
// y. Montgomery curves have no use for it.
func (c *Curve) PointFromX(x *bn.Int, odd bool) (Point, error) {
	switch c.shape {
	case Short:
		p, err := c.shortFromX(x, odd)
		if err != nil {
			return nil, err
		}
		return p, nil
	case Edwards:
		p, err := c.edwardsFromX(x, odd)
		if err != nil {
			return nil, err
		}
		return p, nil
	}
	return nil, fmt.Errorf("failed to recover point from x on %s curve: %w", c.shape, ErrUnsupported)
}

// toField converts a plain coordinate into the field, rejecting values
// outside [0, p).
func (c *Curve) toField(v *bn.Int) (*bn.Int, error) {
	if v.IsNeg() || v.Cmp(c.p) >= 0 {
		return nil, fmt.Errorf("coordinate out of range: %w", ErrInvalidPoint)
	}
	return v.ToRed(c.red), nil
}
