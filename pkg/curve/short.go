package curve

import (
	"fmt"
	"sync"

	"github.com/mahdiidarabi/ecbn/pkg/bn"
)

// Endomorphism holds the GLV constants of an a = 0 curve: beta is a cube
// root of unity mod p, lambda the matching one mod n, so that
// (beta*x, y) == lambda*(x, y). Both basis vectors (a, b) satisfy
// a + b*lambda == 0 mod n.
type Endomorphism struct {
	Beta   *bn.Int
	Lambda *bn.Int
	Basis  [2][2]*bn.Int
}

type basisVector struct {
	a, b *bn.Int
}

type endomorphism struct {
	beta   *bn.Int // in the field
	lambda *bn.Int
	basis  [2]basisVector
}

func (c *Curve) initShort(conf Config) error {
	var err error
	if c.a, err = c.field("a", conf.A); err != nil {
		return err
	}
	if c.b, err = c.field("b", conf.B); err != nil {
		return err
	}
	c.tinv = c.two.RedInvm()
	c.zeroA = c.a.IsZero()
	c.threeA = c.a.FromRed().Eq(c.p.SubN(3))

	g, err := c.generator(conf, 2)
	if err != nil {
		return err
	}
	if g != nil {
		c.gShort = c.short(g[0], g[1])
	}
	endo, err := c.endomorphism(conf)
	if err != nil {
		return err
	}
	c.endo = endo
	return nil
}

// Endomorphism returns the curve's GLV constants, or nil when the curve
// does not have them.
func (c *Curve) Endomorphism() *Endomorphism {
	if c.endo == nil {
		return nil
	}
	e := c.endo
	return &Endomorphism{
		Beta:   e.beta.FromRed(),
		Lambda: e.lambda.Clone(),
		Basis: [2][2]*bn.Int{
			{e.basis[0].a.Clone(), e.basis[0].b.Clone()},
			{e.basis[1].a.Clone(), e.basis[1].b.Clone()},
		},
	}
}

func (c *Curve) endomorphism(conf Config) (*endomorphism, error) {
	if !c.zeroA || c.gShort == nil || c.n == nil || c.p.ModN(3) != 1 {
		return nil, nil
	}
	e := &endomorphism{}
	var err error

	if conf.Beta != "" {
		if e.beta, err = c.field("beta", conf.Beta); err != nil {
			return nil, err
		}
	} else {
		b1, b2, err := cubeRoots(c.red)
		if err != nil {
			return nil, err
		}
		e.beta = bn.Min(b1, b2).ToRed(c.red)
	}

	if conf.Lambda != "" {
		if e.lambda, err = parseHex("lambda", conf.Lambda); err != nil {
			return nil, err
		}
	} else {
		l1, l2, err := cubeRoots(bn.NewMont(c.n))
		if err != nil {
			return nil, err
		}
		want := c.gShort.x.RedMul(e.beta)
		switch {
		case c.gShort.Mul(l1).x.Eq(want):
			e.lambda = l1
		case c.gShort.Mul(l2).x.Eq(want):
			e.lambda = l2
		default:
			return nil, fmt.Errorf("failed to match lambda to beta: %w", ErrInvalidConfig)
		}
	}

	if len(conf.Basis) == 2 {
		for i, v := range conf.Basis {
			a, err := parseHex("basis", v.A)
			if err != nil {
				return nil, err
			}
			b, err := parseHex("basis", v.B)
			if err != nil {
				return nil, err
			}
			e.basis[i] = basisVector{a: a, b: b}
		}
	} else {
		e.basis = c.endoBasis(e.lambda)
	}
	return e, nil
}

// cubeRoots returns the two non-trivial cube roots of unity modulo the
// context's modulus: (-1 +- sqrt(-3)) / 2.
func cubeRoots(red *bn.Red) (*bn.Int, *bn.Int, error) {
	tinv := bn.New(2).ToRed(red).RedInvm()
	ntinv := tinv.RedNeg()
	s, ok := bn.New(3).ToRed(red).RedNeg().RedSqrt()
	if !ok {
		return nil, nil, fmt.Errorf("failed to find cube roots of unity: %w", ErrInvalidConfig)
	}
	s = s.RedMul(tinv)
	return ntinv.RedAdd(s).FromRed(), ntinv.RedSub(s).FromRed(), nil
}

// endoBasis runs the extended Euclidean algorithm on (n, lambda) and keeps
// the two shortest vectors found around sqrt(n).
func (c *Curve) endoBasis(lambda *bn.Int) [2]basisVector {
	aprxSqrt := c.n.Shr(c.n.BitLen() / 2)

	u, v := lambda.Clone(), c.n.Clone()
	x1, y1 := bn.New(1), bn.New(0)
	x2, y2 := bn.New(0), bn.New(1)

	var a0, b0, a1, b1 *bn.Int
	var prevR, r, x *bn.Int
	i := 0
	for !u.IsZero() {
		q := v.Div(u)
		r = v.Sub(q.Mul(u))
		x = x2.Sub(q.Mul(x1))
		y := y2.Sub(q.Mul(y1))

		if a1 == nil && r.Cmp(aprxSqrt) < 0 {
			a0, b0 = prevR.Neg(), x1
			a1, b1 = r.Neg(), x
		} else if a1 != nil {
			i++
			if i == 2 {
				break
			}
		}
		prevR = r
		v, u = u, r
		x2, x1 = x1, x
		y2, y1 = y1, y
	}
	a2, b2 := r.Neg(), x

	len1 := a1.Sqr().Add(b1.Sqr())
	len2 := a2.Sqr().Add(b2.Sqr())
	if len2.Cmp(len1) >= 0 {
		a2, b2 = a0, b0
	}
	if a1.IsNeg() {
		a1, b1 = a1.Neg(), b1.Neg()
	}
	if a2.IsNeg() {
		a2, b2 = a2.Neg(), b2.Neg()
	}
	return [2]basisVector{{a: a1, b: b1}, {a: a2, b: b2}}
}

// endoSplit decomposes k into k1 + k2*lambda (mod n) with both halves
// about half the size of n.
func (c *Curve) endoSplit(k *bn.Int) (k1, k2 *bn.Int) {
	v1, v2 := c.endo.basis[0], c.endo.basis[1]
	c1 := v2.b.Mul(k).DivRound(c.n)
	c2 := v1.b.Neg().Mul(k).DivRound(c.n)

	p1 := c1.Mul(v1.a)
	p2 := c2.Mul(v2.a)
	q1 := c1.Mul(v1.b)
	q2 := c2.Mul(v2.b)

	k1 = k.Sub(p1).Sub(p2)
	k2 = q1.Add(q2).Neg()
	return k1, k2
}

// endoWnafMulAdd splits every coefficient with the endomorphism and runs a
// joint multiplication over twice as many half-size scalars.
func (c *Curve) endoWnafMulAdd(points []*ShortPoint, coeffs []*bn.Int) *JacobianPoint {
	np := make([]*ShortPoint, 0, 2*len(points))
	nc := make([]*bn.Int, 0, 2*len(points))
	for i, p := range points {
		k1, k2 := c.endoSplit(coeffs[i])
		beta := p.betaPoint()
		if k1.IsNeg() {
			k1 = k1.Neg()
			p = p.negPre()
		}
		if k2.IsNeg() {
			k2 = k2.Neg()
			beta = beta.negPre()
		}
		np = append(np, p, beta)
		nc = append(nc, k1, k2)
	}
	return wnafMulAdd[*ShortPoint, *JacobianPoint](c, 1, np, nc, c.jinf())
}

func (c *Curve) validateShort(p *ShortPoint) bool {
	if p.inf {
		return true
	}
	rhs := p.x.RedSqr().RedMul(p.x).RedAdd(c.a.RedMul(p.x)).RedAdd(c.b)
	return p.y.RedSqr().Eq(rhs)
}

func (c *Curve) shortFromX(x *bn.Int, odd bool) (*ShortPoint, error) {
	rx, err := c.toField(x)
	if err != nil {
		return nil, err
	}
	y2 := rx.RedSqr().RedMul(rx).RedAdd(rx.RedMul(c.a)).RedAdd(c.b)
	y, ok := y2.RedSqrt()
	if !ok {
		return nil, fmt.Errorf("failed to recover y from x: %w", ErrInvalidPoint)
	}
	if y.FromRed().IsOdd() != odd {
		y = y.RedNeg()
	}
	return c.short(rx, y), nil
}

// ShortPoint is an affine point on a short Weierstrass curve.
type ShortPoint struct {
	curve *Curve
	x, y  *bn.Int // field elements; unused at infinity
	inf   bool
	pre   *shortPre
}

type shortPre struct {
	t        *tables[*ShortPoint]
	betaOnce sync.Once
	beta     *ShortPoint
}

func (c *Curve) short(x, y *bn.Int) *ShortPoint {
	return &ShortPoint{curve: c, x: x, y: y}
}

func (c *Curve) shortInf() *ShortPoint {
	return &ShortPoint{curve: c, x: c.zero, y: c.zero, inf: true}
}

// NewShortPoint returns the affine point (x, y). The coordinates must lie
// in [0, p); whether the point is on the curve is checked by Validate.
func (c *Curve) NewShortPoint(x, y *bn.Int) (*ShortPoint, error) {
	if c.shape != Short {
		return nil, fmt.Errorf("failed to create point on %s curve: %w", c.shape, ErrUnsupported)
	}
	rx, err := c.toField(x)
	if err != nil {
		return nil, err
	}
	ry, err := c.toField(y)
	if err != nil {
		return nil, err
	}
	return c.short(rx, ry), nil
}

// ShortG returns the generator of a short Weierstrass curve.
func (c *Curve) ShortG() *ShortPoint { return c.gShort }

func (p *ShortPoint) Curve() *Curve    { return p.curve }
func (p *ShortPoint) IsInfinity() bool { return p.inf }
func (p *ShortPoint) X() *bn.Int       { return p.x.FromRed() }
func (p *ShortPoint) Y() *bn.Int       { return p.y.FromRed() }

func (p *ShortPoint) String() string {
	if p.inf {
		return "<EC Point Infinity>"
	}
	return fmt.Sprintf("<EC Point x: %s y: %s>", p.X().Text(16), p.Y().Text(16))
}

func (p *ShortPoint) isInf() bool { return p.inf }

func (p *ShortPoint) precomputed() *tables[*ShortPoint] {
	if p.pre == nil {
		return nil
	}
	return p.pre.t
}

func (p *ShortPoint) neg() *ShortPoint {
	if p.inf {
		return p
	}
	return p.curve.short(p.x, p.y.RedNeg())
}

// negPre negates p together with its precomputed tables.
func (p *ShortPoint) negPre() *ShortPoint {
	q := p.neg()
	if p.pre != nil && !p.inf {
		q.pre = &shortPre{t: mapTables(p.pre.t, (*ShortPoint).neg)}
	}
	return q
}

// betaPoint returns (beta*x, y) == lambda*p, carrying mapped tables when p
// has them.
func (p *ShortPoint) betaPoint() *ShortPoint {
	c := p.curve
	endoMul := func(q *ShortPoint) *ShortPoint {
		if q.inf {
			return q
		}
		return c.short(q.x.RedMul(c.endo.beta), q.y)
	}
	if p.pre == nil {
		return endoMul(p)
	}
	p.pre.betaOnce.Do(func() {
		b := endoMul(p)
		b.pre = &shortPre{t: mapTables(p.pre.t, endoMul)}
		p.pre.beta = b
	})
	return p.pre.beta
}

func (p *ShortPoint) toJ() *JacobianPoint {
	if p.inf {
		return p.curve.jinf()
	}
	return &JacobianPoint{curve: p.curve, x: p.x, y: p.y, z: p.curve.one, zOne: true}
}

func (p *ShortPoint) add(q *ShortPoint) *ShortPoint {
	switch {
	case p.inf:
		return q
	case q.inf:
		return p
	case p.Eq(q):
		return p.dbl()
	case p.x.Eq(q.x):
		// q == -p
		return p.curve.shortInf()
	}
	c := p.y.RedSub(q.y)
	if !c.IsZero() {
		c = c.RedMul(p.x.RedSub(q.x).RedInvm())
	}
	nx := c.RedSqr().RedSub(p.x).RedSub(q.x)
	ny := c.RedMul(p.x.RedSub(nx)).RedSub(p.y)
	return p.curve.short(nx, ny)
}

func (p *ShortPoint) dbl() *ShortPoint {
	if p.inf {
		return p
	}
	ys1 := p.y.RedAdd(p.y)
	if ys1.IsZero() {
		return p.curve.shortInf()
	}
	x2 := p.x.RedSqr()
	c := x2.RedAdd(x2).RedAdd(x2).RedAdd(p.curve.a).RedMul(ys1.RedInvm())
	nx := c.RedSqr().RedSub(p.x.RedAdd(p.x))
	ny := c.RedMul(p.x.RedSub(nx)).RedSub(p.y)
	return p.curve.short(nx, ny)
}

// Add returns p + q.
func (p *ShortPoint) Add(q *ShortPoint) *ShortPoint { return p.add(q) }

// Dbl returns 2p.
func (p *ShortPoint) Dbl() *ShortPoint { return p.dbl() }

// Neg returns -p.
func (p *ShortPoint) Neg() *ShortPoint { return p.neg() }

// ToJ converts p to Jacobian coordinates.
func (p *ShortPoint) ToJ() *JacobianPoint { return p.toJ() }

// Eq reports whether p and q are the same point.
func (p *ShortPoint) Eq(q *ShortPoint) bool {
	if p == q {
		return true
	}
	if p.inf || q.inf {
		return p.inf == q.inf
	}
	return p.x.Eq(q.x) && p.y.Eq(q.y)
}

// Precompute returns a copy of p carrying doubling and window tables large
// enough for scalars of up to power bits. Multiplying the result uses the
// fixed-base comb.
func (p *ShortPoint) Precompute(power int) *ShortPoint {
	if p.pre != nil || p.inf {
		return p
	}
	q := p.curve.short(p.x, p.y)
	q.pre = &shortPre{t: buildTables[*ShortPoint, *JacobianPoint](p, power)}
	return q
}

// Mul returns k*p.
func (p *ShortPoint) Mul(k *bn.Int) *ShortPoint {
	if p.inf {
		return p
	}
	if k.IsNeg() {
		return p.negPre().Mul(k.Neg())
	}
	c := p.curve
	switch {
	case hasDoubles[*ShortPoint, *JacobianPoint](p, k):
		return fixedNafMul[*ShortPoint, *JacobianPoint](c, p, k, c.jinf())
	case c.endo != nil:
		return c.endoWnafMulAdd([]*ShortPoint{p}, []*bn.Int{k}).toP()
	}
	return wnafMul[*ShortPoint, *JacobianPoint](c, p, k, c.jinf())
}

// MulAdd returns k1*p + k2*q.
func (p *ShortPoint) MulAdd(k1 *bn.Int, q *ShortPoint, k2 *bn.Int) *ShortPoint {
	return p.JMulAdd(k1, q, k2).toP()
}

// JMulAdd returns k1*p + k2*q in Jacobian coordinates, skipping the final
// inversion.
func (p *ShortPoint) JMulAdd(k1 *bn.Int, q *ShortPoint, k2 *bn.Int) *JacobianPoint {
	pts := []*ShortPoint{p, q}
	ks := []*bn.Int{k1, k2}
	for i := range ks {
		if ks[i].IsNeg() {
			ks[i] = ks[i].Neg()
			pts[i] = pts[i].negPre()
		}
	}
	c := p.curve
	if c.endo != nil {
		return c.endoWnafMulAdd(pts, ks)
	}
	return wnafMulAdd[*ShortPoint, *JacobianPoint](c, 1, pts, ks, c.jinf())
}
