package curve

import (
	"fmt"

	"github.com/mahdiidarabi/ecbn/pkg/bn"
)

func (c *Curve) initEdwards(conf Config) error {
	var err error
	if c.a, err = c.field("a", conf.A); err != nil {
		return err
	}
	if c.c, err = c.field("c", conf.C); err != nil {
		return err
	}
	if c.d, err = c.field("d", conf.D); err != nil {
		return err
	}
	c.twisted = !c.a.Eq(c.one)
	c.mOneA = c.a.Eq(c.one.RedNeg())
	c.extended = c.mOneA
	c.oneC = c.c.Eq(c.one)
	if c.twisted && !c.oneC {
		return fmt.Errorf("failed to build curve: twisted curves need c = 1: %w", ErrInvalidConfig)
	}
	c.c2 = c.c.RedSqr()
	c.dd = c.d.RedAdd(c.d)

	g, err := c.generator(conf, 2)
	if err != nil {
		return err
	}
	if g != nil {
		c.gEd = c.edwards(g[0], g[1], c.one, nil)
	}
	return nil
}

func (c *Curve) mulA(v *bn.Int) *bn.Int {
	if c.mOneA {
		return v.RedNeg()
	}
	return c.a.RedMul(v)
}

func (c *Curve) mulC(v *bn.Int) *bn.Int {
	if c.oneC {
		return v
	}
	return c.c.RedMul(v)
}

func (c *Curve) validateEdwards(p *EdwardsPoint) bool {
	if p.IsInfinity() {
		return true
	}
	q := p.normalize()
	x2 := q.x.RedSqr()
	y2 := q.y.RedSqr()
	lhs := x2.RedMul(c.a).RedAdd(y2)
	rhs := c.c2.RedMul(c.one.RedAdd(c.d.RedMul(x2).RedMul(y2)))
	return lhs.Eq(rhs)
}

func (c *Curve) edwardsFromX(x *bn.Int, odd bool) (*EdwardsPoint, error) {
	rx, err := c.toField(x)
	if err != nil {
		return nil, err
	}
	x2 := rx.RedSqr()
	rhs := c.c2.RedSub(c.a.RedMul(x2))
	lhs := c.one.RedSub(c.c2.RedMul(c.d).RedMul(x2))
	y2 := rhs.RedMul(lhs.RedInvm())
	y, ok := y2.RedSqrt()
	if !ok {
		return nil, fmt.Errorf("failed to recover y from x: %w", ErrInvalidPoint)
	}
	if y.FromRed().IsOdd() != odd {
		y = y.RedNeg()
	}
	return c.edwards(rx, y, c.one, nil), nil
}

// PointFromY recovers an Edwards point from y and the parity of x:
// x^2 = (y^2 - c^2) / (c^2 d y^2 - a).
func (c *Curve) PointFromY(y *bn.Int, odd bool) (*EdwardsPoint, error) {
	if c.shape != Edwards {
		return nil, fmt.Errorf("failed to recover point from y on %s curve: %w", c.shape, ErrUnsupported)
	}
	ry, err := c.toField(y)
	if err != nil {
		return nil, err
	}
	y2 := ry.RedSqr()
	lhs := y2.RedSub(c.c2)
	rhs := y2.RedMul(c.d).RedMul(c.c2).RedSub(c.a)
	x2 := lhs.RedMul(rhs.RedInvm())

	if x2.IsZero() {
		if odd {
			return nil, fmt.Errorf("failed to recover x from y: no odd root of zero: %w", ErrInvalidPoint)
		}
		return c.edwards(c.zero, ry, c.one, nil), nil
	}
	x, ok := x2.RedSqrt()
	if !ok {
		return nil, fmt.Errorf("failed to recover x from y: %w", ErrInvalidPoint)
	}
	if x.FromRed().IsOdd() != odd {
		x = x.RedNeg()
	}
	return c.edwards(x, ry, c.one, nil), nil
}

// EdwardsPoint is a projective point (X : Y : Z) on a twisted Edwards
// curve, extended with T = XY/Z when a = -1.
type EdwardsPoint struct {
	curve      *Curve
	x, y, z, t *bn.Int
	zOne       bool
	pre        *edPre
}

type edPre struct {
	t *tables[*EdwardsPoint]
}

// edwards builds a point; t is derived when the curve uses extended
// coordinates and none is given.
func (c *Curve) edwards(x, y, z, t *bn.Int) *EdwardsPoint {
	p := &EdwardsPoint{curve: c, x: x, y: y, z: z, t: t, zOne: z.Eq(c.one)}
	if c.extended && p.t == nil {
		p.t = x.RedMul(y)
		if !p.zOne {
			p.t = p.t.RedMul(z.RedInvm())
		}
	}
	return p
}

func (c *Curve) edInf() *EdwardsPoint {
	return c.edwards(c.zero, c.c, c.one, c.zero)
}

// NewEdwardsPoint returns the affine point (x, y) without checking the
// curve equation.
func (c *Curve) NewEdwardsPoint(x, y *bn.Int) (*EdwardsPoint, error) {
	if c.shape != Edwards {
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
	return c.edwards(rx, ry, c.one, nil), nil
}

// EdwardsG returns the generator of an Edwards curve.
func (c *Curve) EdwardsG() *EdwardsPoint { return c.gEd }

func (p *EdwardsPoint) Curve() *Curve { return p.curve }

// IsInfinity reports whether p is the neutral element (0, c).
func (p *EdwardsPoint) IsInfinity() bool {
	if !p.x.IsZero() {
		return false
	}
	return p.y.Eq(p.curve.mulC(p.z))
}

func (p *EdwardsPoint) X() *bn.Int { return p.normalize().x.FromRed() }
func (p *EdwardsPoint) Y() *bn.Int { return p.normalize().y.FromRed() }

func (p *EdwardsPoint) String() string {
	if p.IsInfinity() {
		return "<EC Point Infinity>"
	}
	return fmt.Sprintf("<EC Point x: %s y: %s z: %s>",
		p.x.FromRed().Text(16), p.y.FromRed().Text(16), p.z.FromRed().Text(16))
}

func (p *EdwardsPoint) normalize() *EdwardsPoint {
	if p.zOne {
		return p
	}
	zi := p.z.RedInvm()
	var t *bn.Int
	if p.t != nil {
		t = p.t.RedMul(zi)
	}
	return &EdwardsPoint{
		curve: p.curve,
		x:     p.x.RedMul(zi),
		y:     p.y.RedMul(zi),
		z:     p.curve.one,
		t:     t,
		zOne:  true,
	}
}

// Normalize returns p scaled to Z = 1.
func (p *EdwardsPoint) Normalize() *EdwardsPoint { return p.normalize() }

func (p *EdwardsPoint) isInf() bool { return p.IsInfinity() }

func (p *EdwardsPoint) precomputed() *tables[*EdwardsPoint] {
	if p.pre == nil {
		return nil
	}
	return p.pre.t
}

func (p *EdwardsPoint) neg() *EdwardsPoint {
	var t *bn.Int
	if p.t != nil {
		t = p.t.RedNeg()
	}
	return &EdwardsPoint{curve: p.curve, x: p.x.RedNeg(), y: p.y, z: p.z, t: t, zOne: p.zOne}
}

// The Edwards group law is complete, so the affine and accumulator roles
// of the shared algorithms collapse onto the one projective type.
func (p *EdwardsPoint) toJ() *EdwardsPoint                     { return p }
func (p *EdwardsPoint) toP() *EdwardsPoint                     { return p.normalize() }
func (p *EdwardsPoint) mixedAdd(q *EdwardsPoint) *EdwardsPoint { return p.add(q) }

func (p *EdwardsPoint) dblp(k int) *EdwardsPoint {
	r := p
	for i := 0; i < k; i++ {
		r = r.dbl()
	}
	return r
}

// extDbl is dbl-2008-hwcd. 4M + 4S.
func (p *EdwardsPoint) extDbl() *EdwardsPoint {
	c := p.curve
	a := p.x.RedSqr()
	b := p.y.RedSqr()
	// C = 2 * Z1^2
	cc := p.z.RedSqr()
	cc = cc.RedAdd(cc)
	d := c.mulA(a)
	// E = (X1 + Y1)^2 - A - B
	e := p.x.RedAdd(p.y).RedSqr().RedSub(a).RedSub(b)
	g := d.RedAdd(b)
	f := g.RedSub(cc)
	h := d.RedSub(b)

	nx := e.RedMul(f)
	ny := g.RedMul(h)
	nt := e.RedMul(h)
	nz := f.RedMul(g)
	return c.edwards(nx, ny, nz, nt)
}

// projDbl is dbl-2008-bbjlp for twisted curves and dbl-2007-bl
// otherwise.
func (p *EdwardsPoint) projDbl() *EdwardsPoint {
	c := p.curve
	// B = (X1 + Y1)^2
	b := p.x.RedAdd(p.y).RedSqr()
	cc := p.x.RedSqr()
	d := p.y.RedSqr()

	var nx, ny, nz *bn.Int
	if c.twisted {
		e := c.mulA(cc)
		f := e.RedAdd(d)
		if p.zOne {
			nx = b.RedSub(cc).RedSub(d).RedMul(f.RedSub(c.two))
			ny = f.RedMul(e.RedSub(d))
			nz = f.RedSqr().RedSub(f).RedSub(f)
		} else {
			h := p.z.RedSqr()
			// J = F - 2 * H
			j := f.RedSub(h).RedSub(h)
			nx = b.RedSub(cc).RedSub(d).RedMul(j)
			ny = f.RedMul(e.RedSub(d))
			nz = f.RedMul(j)
		}
	} else {
		e := cc.RedAdd(d)
		// H = (c * Z1)^2
		h := c.mulC(p.z).RedSqr()
		j := e.RedSub(h).RedSub(h)
		nx = c.mulC(b.RedSub(e)).RedMul(j)
		ny = c.mulC(e).RedMul(cc.RedSub(d))
		nz = e.RedMul(j)
	}
	return c.edwards(nx, ny, nz, nil)
}

func (p *EdwardsPoint) dbl() *EdwardsPoint {
	if p.IsInfinity() {
		return p
	}
	if p.curve.extended {
		return p.extDbl()
	}
	return p.projDbl()
}

// extAdd is add-2008-hwcd-3. 8M.
func (p *EdwardsPoint) extAdd(q *EdwardsPoint) *EdwardsPoint {
	c := p.curve
	// A = (Y1 - X1) * (Y2 - X2)
	a := p.y.RedSub(p.x).RedMul(q.y.RedSub(q.x))
	// B = (Y1 + X1) * (Y2 + X2)
	b := p.y.RedAdd(p.x).RedMul(q.y.RedAdd(q.x))
	// C = T1 * 2d * T2
	cc := p.t.RedMul(c.dd).RedMul(q.t)
	// D = Z1 * 2 * Z2
	d := p.z.RedMul(q.z.RedAdd(q.z))
	e := b.RedSub(a)
	f := d.RedSub(cc)
	g := d.RedAdd(cc)
	h := b.RedAdd(a)

	nx := e.RedMul(f)
	ny := g.RedMul(h)
	nt := e.RedMul(h)
	nz := f.RedMul(g)
	return c.edwards(nx, ny, nz, nt)
}

// projAdd is add-2008-bbjlp / add-2007-bl. 10M + 1S.
func (p *EdwardsPoint) projAdd(q *EdwardsPoint) *EdwardsPoint {
	c := p.curve
	a := p.z.RedMul(q.z)
	b := a.RedSqr()
	cc := p.x.RedMul(q.x)
	d := p.y.RedMul(q.y)
	e := c.d.RedMul(cc).RedMul(d)
	f := b.RedSub(e)
	g := b.RedAdd(e)
	// X3 = A * F * ((X1 + Y1) * (X2 + Y2) - C - D)
	tmp := p.x.RedAdd(p.y).RedMul(q.x.RedAdd(q.y)).RedSub(cc).RedSub(d)
	nx := a.RedMul(f).RedMul(tmp)

	var ny, nz *bn.Int
	if c.twisted {
		// Y3 = A * G * (D - a * C)
		ny = a.RedMul(g).RedMul(d.RedSub(c.mulA(cc)))
		nz = f.RedMul(g)
	} else {
		// Y3 = A * G * (D - C)
		ny = a.RedMul(g).RedMul(d.RedSub(cc))
		nz = c.mulC(f).RedMul(g)
	}
	return c.edwards(nx, ny, nz, nil)
}

func (p *EdwardsPoint) add(q *EdwardsPoint) *EdwardsPoint {
	if p.IsInfinity() {
		return q
	}
	if q.IsInfinity() {
		return p
	}
	if p.curve.extended {
		return p.extAdd(q)
	}
	return p.projAdd(q)
}

// Add returns p + q.
func (p *EdwardsPoint) Add(q *EdwardsPoint) *EdwardsPoint { return p.add(q) }

// Dbl returns 2p.
func (p *EdwardsPoint) Dbl() *EdwardsPoint { return p.dbl() }

// Neg returns -p.
func (p *EdwardsPoint) Neg() *EdwardsPoint { return p.neg() }

// Eq compares the affine coordinates of p and q.
func (p *EdwardsPoint) Eq(q *EdwardsPoint) bool {
	if p == q {
		return true
	}
	a, b := p.normalize(), q.normalize()
	return a.x.Eq(b.x) && a.y.Eq(b.y)
}

// EqXToP reports whether the affine x of p, reduced mod n, equals x.
func (p *EdwardsPoint) EqXToP(x *bn.Int) bool {
	c := p.curve
	if x.IsNeg() || x.Cmp(c.p) >= 0 {
		return false
	}
	rx := x.ToRed(c.red).RedMul(p.z)
	if p.x.Eq(rx) {
		return true
	}
	if c.redN == nil {
		return p.X().Umod(c.n).Eq(x)
	}
	xc := x.Clone()
	t := c.redN.RedMul(p.z)
	for {
		xc = xc.Add(c.n)
		if xc.Cmp(c.p) >= 0 {
			return false
		}
		rx = rx.RedAdd(t)
		if p.x.Eq(rx) {
			return true
		}
	}
}

// Precompute returns a copy of p carrying doubling and window tables for
// scalars of up to power bits.
func (p *EdwardsPoint) Precompute(power int) *EdwardsPoint {
	if p.pre != nil {
		return p
	}
	n := p.normalize()
	q := &EdwardsPoint{curve: n.curve, x: n.x, y: n.y, z: n.z, t: n.t, zOne: true}
	q.pre = &edPre{t: buildTables[*EdwardsPoint, *EdwardsPoint](p, power)}
	return q
}

// Mul returns k*p.
func (p *EdwardsPoint) Mul(k *bn.Int) *EdwardsPoint {
	if k.IsNeg() {
		return p.negPre().Mul(k.Neg())
	}
	c := p.curve
	if hasDoubles[*EdwardsPoint, *EdwardsPoint](p, k) {
		return fixedNafMul[*EdwardsPoint, *EdwardsPoint](c, p, k, c.edInf())
	}
	return wnafMul[*EdwardsPoint, *EdwardsPoint](c, p, k, c.edInf())
}

func (p *EdwardsPoint) negPre() *EdwardsPoint {
	q := p.neg()
	if p.pre != nil {
		q.pre = &edPre{t: mapTables(p.pre.t, (*EdwardsPoint).neg)}
	}
	return q
}

// MulAdd returns k1*p + k2*q.
func (p *EdwardsPoint) MulAdd(k1 *bn.Int, q *EdwardsPoint, k2 *bn.Int) *EdwardsPoint {
	return p.JMulAdd(k1, q, k2).normalize()
}

// JMulAdd is MulAdd without the final normalization.
func (p *EdwardsPoint) JMulAdd(k1 *bn.Int, q *EdwardsPoint, k2 *bn.Int) *EdwardsPoint {
	pts := []*EdwardsPoint{p, q}
	ks := []*bn.Int{k1, k2}
	for i := range ks {
		if ks[i].IsNeg() {
			ks[i] = ks[i].Neg()
			pts[i] = pts[i].negPre()
		}
	}
	return wnafMulAdd[*EdwardsPoint, *EdwardsPoint](p.curve, 1, pts, ks, p.curve.edInf())
}
