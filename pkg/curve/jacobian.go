package curve

import (
	"fmt"

	"github.com/mahdiidarabi/ecbn/pkg/bn"
)

// JacobianPoint represents the affine point (X/Z^2, Y/Z^3). Z == 0 is the
// point at infinity.
type JacobianPoint struct {
	curve   *Curve
	x, y, z *bn.Int
	zOne    bool
}

func (c *Curve) jpoint(x, y, z *bn.Int) *JacobianPoint {
	return &JacobianPoint{curve: c, x: x, y: y, z: z}
}

func (c *Curve) jinf() *JacobianPoint {
	return c.jpoint(c.one, c.one, c.zero)
}

func (p *JacobianPoint) isInf() bool { return p.z.IsZero() }

// IsInfinity reports whether p is the identity.
func (p *JacobianPoint) IsInfinity() bool { return p.isInf() }

func (p *JacobianPoint) String() string {
	if p.isInf() {
		return "<EC JPoint Infinity>"
	}
	return fmt.Sprintf("<EC JPoint x: %s y: %s z: %s>",
		p.x.FromRed().Text(16), p.y.FromRed().Text(16), p.z.FromRed().Text(16))
}

func (p *JacobianPoint) toP() *ShortPoint {
	if p.isInf() {
		return p.curve.shortInf()
	}
	zinv := p.z.RedInvm()
	zinv2 := zinv.RedSqr()
	ax := p.x.RedMul(zinv2)
	ay := p.y.RedMul(zinv2).RedMul(zinv)
	return p.curve.short(ax, ay)
}

// ToP converts p to affine coordinates.
func (p *JacobianPoint) ToP() *ShortPoint { return p.toP() }

// Neg returns -p.
func (p *JacobianPoint) Neg() *JacobianPoint {
	q := p.curve.jpoint(p.x, p.y.RedNeg(), p.z)
	q.zOne = p.zOne
	return q
}

func (p *JacobianPoint) add(q *JacobianPoint) *JacobianPoint {
	if p.isInf() {
		return q
	}
	if q.isInf() {
		return p
	}
	// 12M + 4S + 7A
	pz2 := q.z.RedSqr()
	z2 := p.z.RedSqr()
	u1 := p.x.RedMul(pz2)
	u2 := q.x.RedMul(z2)
	s1 := p.y.RedMul(pz2.RedMul(q.z))
	s2 := q.y.RedMul(z2.RedMul(p.z))

	h := u1.RedSub(u2)
	r := s1.RedSub(s2)
	if h.IsZero() {
		if !r.IsZero() {
			return p.curve.jinf()
		}
		return p.dbl()
	}

	h2 := h.RedSqr()
	h3 := h2.RedMul(h)
	v := u1.RedMul(h2)

	nx := r.RedSqr().RedAdd(h3).RedSub(v).RedSub(v)
	ny := r.RedMul(v.RedSub(nx)).RedSub(s1.RedMul(h3))
	nz := p.z.RedMul(q.z).RedMul(h)
	return p.curve.jpoint(nx, ny, nz)
}

func (p *JacobianPoint) mixedAdd(q *ShortPoint) *JacobianPoint {
	if p.isInf() {
		return q.toJ()
	}
	if q.inf {
		return p
	}
	// 8M + 3S + 7A
	z2 := p.z.RedSqr()
	u1 := p.x
	u2 := q.x.RedMul(z2)
	s1 := p.y
	s2 := q.y.RedMul(z2).RedMul(p.z)

	h := u1.RedSub(u2)
	r := s1.RedSub(s2)
	if h.IsZero() {
		if !r.IsZero() {
			return p.curve.jinf()
		}
		return p.dbl()
	}

	h2 := h.RedSqr()
	h3 := h2.RedMul(h)
	v := u1.RedMul(h2)

	nx := r.RedSqr().RedAdd(h3).RedSub(v).RedSub(v)
	ny := r.RedMul(v.RedSub(nx)).RedSub(s1.RedMul(h3))
	nz := p.z.RedMul(h)
	return p.curve.jpoint(nx, ny, nz)
}

// Add returns p + q.
func (p *JacobianPoint) Add(q *JacobianPoint) *JacobianPoint { return p.add(q) }

// MixedAdd returns p + q for an affine q.
func (p *JacobianPoint) MixedAdd(q *ShortPoint) *JacobianPoint { return p.mixedAdd(q) }

func (p *JacobianPoint) dblp(pow int) *JacobianPoint {
	if pow == 0 || p.isInf() {
		return p
	}
	c := p.curve
	if c.zeroA || c.threeA {
		r := p
		for i := 0; i < pow; i++ {
			r = r.dbl()
		}
		return r
	}

	// 1M + 2S + 1A + N * (4S + 5M + 8A), tracking 2Y across iterations
	jx, jz := p.x, p.z
	jz4 := jz.RedSqr().RedSqr()
	jyd := p.y.RedAdd(p.y)
	for i := 0; i < pow; i++ {
		jx2 := jx.RedSqr()
		jyd2 := jyd.RedSqr()
		jyd4 := jyd2.RedSqr()
		cc := jx2.RedAdd(jx2).RedAdd(jx2).RedAdd(c.a.RedMul(jz4))

		t1 := jx.RedMul(jyd2)
		nx := cc.RedSqr().RedSub(t1.RedAdd(t1))
		t2 := t1.RedSub(nx)
		dny := cc.RedMul(t2)
		dny = dny.RedAdd(dny).RedSub(jyd4)
		nz := jyd.RedMul(jz)
		if i+1 < pow {
			jz4 = jz4.RedMul(jyd4)
		}
		jx, jz, jyd = nx, nz, dny
	}
	return c.jpoint(jx, jyd.RedMul(c.tinv), jz)
}

// Dblp returns 2^pow * p.
func (p *JacobianPoint) Dblp(pow int) *JacobianPoint { return p.dblp(pow) }

func (p *JacobianPoint) dbl() *JacobianPoint {
	switch {
	case p.isInf():
		return p
	case p.curve.zeroA:
		return p.zeroDbl()
	case p.curve.threeA:
		return p.threeDbl()
	}
	return p.genericDbl()
}

// Dbl returns 2p.
func (p *JacobianPoint) Dbl() *JacobianPoint { return p.dbl() }

// zeroDbl doubles on a = 0 curves: mdbl-2007-bl when Z == 1, dbl-2009-l
// otherwise.
func (p *JacobianPoint) zeroDbl() *JacobianPoint {
	var nx, ny, nz *bn.Int
	if p.zOne {
		// 1M + 5S + 14A
		xx := p.x.RedSqr()
		yy := p.y.RedSqr()
		yyyy := yy.RedSqr()
		// S = 2 * ((X1 + YY)^2 - XX - YYYY)
		s := p.x.RedAdd(yy).RedSqr().RedSub(xx).RedSub(yyyy)
		s = s.RedAdd(s)
		// M = 3 * XX
		m := xx.RedAdd(xx).RedAdd(xx)
		// T = M^2 - 2 * S
		t := m.RedSqr().RedSub(s).RedSub(s)
		yyyy8 := yyyy.RedShl(3)

		nx = t
		ny = m.RedMul(s.RedSub(t)).RedSub(yyyy8)
		nz = p.y.RedAdd(p.y)
	} else {
		// 2M + 5S + 13A
		a := p.x.RedSqr()
		b := p.y.RedSqr()
		c := b.RedSqr()
		// D = 2 * ((X1 + B)^2 - A - C)
		d := p.x.RedAdd(b).RedSqr().RedSub(a).RedSub(c)
		d = d.RedAdd(d)
		e := a.RedAdd(a).RedAdd(a)
		f := e.RedSqr()
		c8 := c.RedShl(3)

		nx = f.RedSub(d).RedSub(d)
		ny = e.RedMul(d.RedSub(nx)).RedSub(c8)
		nz = p.y.RedMul(p.z)
		nz = nz.RedAdd(nz)
	}
	return p.curve.jpoint(nx, ny, nz)
}

// threeDbl doubles on a = -3 curves: mdbl-2007-bl when Z == 1, dbl-2001-b
// otherwise.
func (p *JacobianPoint) threeDbl() *JacobianPoint {
	var nx, ny, nz *bn.Int
	if p.zOne {
		// 1M + 5S + 15A
		xx := p.x.RedSqr()
		yy := p.y.RedSqr()
		yyyy := yy.RedSqr()
		s := p.x.RedAdd(yy).RedSqr().RedSub(xx).RedSub(yyyy)
		s = s.RedAdd(s)
		// M = 3 * XX + a
		m := xx.RedAdd(xx).RedAdd(xx).RedAdd(p.curve.a)
		t := m.RedSqr().RedSub(s).RedSub(s)

		nx = t
		ny = m.RedMul(s.RedSub(t)).RedSub(yyyy.RedShl(3))
		nz = p.y.RedAdd(p.y)
	} else {
		// 3M + 5S
		delta := p.z.RedSqr()
		gamma := p.y.RedSqr()
		beta := p.x.RedMul(gamma)
		// alpha = 3 * (X1 - delta) * (X1 + delta)
		alpha := p.x.RedSub(delta).RedMul(p.x.RedAdd(delta))
		alpha = alpha.RedAdd(alpha).RedAdd(alpha)
		beta4 := beta.RedShl(2)
		beta8 := beta4.RedAdd(beta4)

		nx = alpha.RedSqr().RedSub(beta8)
		nz = p.y.RedAdd(p.z).RedSqr().RedSub(gamma).RedSub(delta)
		ny = alpha.RedMul(beta4.RedSub(nx)).RedSub(gamma.RedSqr().RedShl(3))
	}
	return p.curve.jpoint(nx, ny, nz)
}

// genericDbl doubles for any a. 4M + 6S + 10A.
func (p *JacobianPoint) genericDbl() *JacobianPoint {
	a := p.curve.a
	jx, jy, jz := p.x, p.y, p.z
	jz4 := jz.RedSqr().RedSqr()

	jx2 := jx.RedSqr()
	jy2 := jy.RedSqr()
	c := jx2.RedAdd(jx2).RedAdd(jx2).RedAdd(a.RedMul(jz4))

	jxd4 := jx.RedShl(2)
	t1 := jxd4.RedMul(jy2)
	nx := c.RedSqr().RedSub(t1.RedAdd(t1))
	t2 := t1.RedSub(nx)

	jyd8 := jy2.RedSqr().RedShl(3)
	ny := c.RedMul(t2).RedSub(jyd8)
	nz := jy.RedAdd(jy).RedMul(jz)
	return p.curve.jpoint(nx, ny, nz)
}

// Trpl returns 3p. a = 0 curves use tpl-2007-bl.
func (p *JacobianPoint) Trpl() *JacobianPoint {
	if !p.curve.zeroA {
		return p.dbl().add(p)
	}
	if p.isInf() {
		return p
	}
	// 5M + 10S
	xx := p.x.RedSqr()
	yy := p.y.RedSqr()
	zz := p.z.RedSqr()
	yyyy := yy.RedSqr()
	m := xx.RedAdd(xx).RedAdd(xx)
	mm := m.RedSqr()
	// E = 6 * ((X1 + YY)^2 - XX - YYYY) - MM
	e := p.x.RedAdd(yy).RedSqr().RedSub(xx).RedSub(yyyy)
	e = e.RedAdd(e)
	e = e.RedAdd(e).RedAdd(e)
	e = e.RedSub(mm)
	ee := e.RedSqr()
	t := yyyy.RedShl(4)
	// U = (M + E)^2 - MM - EE - T
	u := m.RedAdd(e).RedSqr().RedSub(mm).RedSub(ee).RedSub(t)
	yyu4 := yy.RedMul(u).RedShl(2)

	nx := p.x.RedMul(ee).RedSub(yyu4).RedShl(2)
	ny := p.y.RedMul(u.RedMul(t.RedSub(u)).RedSub(e.RedMul(ee))).RedShl(3)
	nz := p.z.RedAdd(e).RedSqr().RedSub(zz).RedSub(ee)
	return p.curve.jpoint(nx, ny, nz)
}

// Eq reports whether p and q represent the same point.
func (p *JacobianPoint) Eq(q *JacobianPoint) bool {
	if p == q {
		return true
	}
	if p.isInf() || q.isInf() {
		return p.isInf() == q.isInf()
	}
	// x1 * z2^2 == x2 * z1^2
	z2 := p.z.RedSqr()
	pz2 := q.z.RedSqr()
	if !p.x.RedMul(pz2).Eq(q.x.RedMul(z2)) {
		return false
	}
	// y1 * z2^3 == y2 * z1^3
	z3 := z2.RedMul(p.z)
	pz3 := pz2.RedMul(q.z)
	return p.y.RedMul(pz3).Eq(q.y.RedMul(z3))
}

// EqXToP reports whether the affine x of p, reduced mod n, equals x. It
// avoids the inversion by comparing X against x*Z^2 and, when the curve
// allows it, against (x + j*n)*Z^2 for every x + j*n < p.
func (p *JacobianPoint) EqXToP(x *bn.Int) bool {
	c := p.curve
	if p.isInf() || x.IsNeg() || x.Cmp(c.p) >= 0 {
		return false
	}
	zs := p.z.RedSqr()
	rx := x.ToRed(c.red).RedMul(zs)
	if p.x.Eq(rx) {
		return true
	}
	if c.redN == nil {
		return p.toP().X().Umod(c.n).Eq(x)
	}
	xc := x.Clone()
	t := c.redN.RedMul(zs)
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
