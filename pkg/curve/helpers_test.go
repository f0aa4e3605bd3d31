package curve

import (
	"math/big"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mahdiidarabi/ecbn/pkg/bn"
)

func toBig(t *testing.T, x *bn.Int) *big.Int {
	t.Helper()
	v, ok := new(big.Int).SetString(x.Text(16), 16)
	require.True(t, ok, "failed to convert %s", x.Text(16))
	return v
}

func fromBig(t *testing.T, v *big.Int) *bn.Int {
	t.Helper()
	x, err := bn.Parse(v.Text(16), 16)
	require.NoError(t, err)
	return x
}

func hexBig(s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 16)
	if !ok {
		panic("bad hex " + s)
	}
	return v
}

func mustCurve(t *testing.T, name string) *Curve {
	t.Helper()
	c, err := ByName(name)
	require.NoError(t, err)
	return c
}

// randScalar returns a random value below 2^bits.
func randScalar(rng *rand.Rand, bits int) *big.Int {
	buf := make([]byte, (bits+7)/8)
	rng.Read(buf)
	v := new(big.Int).SetBytes(buf)
	return v.Rsh(v, uint(len(buf)*8-bits))
}

// refPoint is an affine point for the math/big reference arithmetic; nil
// means infinity.
type refPoint struct {
	x, y *big.Int
}

// shortRef is a textbook short Weierstrass group law over math/big.
type shortRef struct {
	p, a, b *big.Int
}

func newShortRef(t *testing.T, c *Curve) *shortRef {
	t.Helper()
	return &shortRef{
		p: toBig(t, c.p),
		a: toBig(t, c.a.FromRed()),
		b: toBig(t, c.b.FromRed()),
	}
}

func (r *shortRef) mod(v *big.Int) *big.Int { return v.Mod(v, r.p) }

func (r *shortRef) inv(v *big.Int) *big.Int { return new(big.Int).ModInverse(v, r.p) }

func (r *shortRef) add(p, q *refPoint) *refPoint {
	if p == nil {
		return q
	}
	if q == nil {
		return p
	}
	var l *big.Int
	if p.x.Cmp(q.x) == 0 {
		if new(big.Int).Add(p.y, q.y).Cmp(r.p) == 0 || p.y.Sign() == 0 && q.y.Sign() == 0 {
			return nil
		}
		// 3x^2 + a / 2y
		num := new(big.Int).Mul(p.x, p.x)
		num.Mul(num, big.NewInt(3)).Add(num, r.a)
		den := new(big.Int).Lsh(p.y, 1)
		l = r.mod(num.Mul(num, r.inv(r.mod(den))))
	} else {
		num := new(big.Int).Sub(q.y, p.y)
		den := r.mod(new(big.Int).Sub(q.x, p.x))
		l = r.mod(num.Mul(num, r.inv(den)))
	}
	x := new(big.Int).Mul(l, l)
	x = r.mod(x.Sub(x, p.x).Sub(x, q.x))
	y := new(big.Int).Sub(p.x, x)
	y = r.mod(y.Mul(y, l).Sub(y, p.y))
	return &refPoint{x: x, y: y}
}

func (r *shortRef) mul(p *refPoint, k *big.Int) *refPoint {
	var acc *refPoint
	for i := k.BitLen() - 1; i >= 0; i-- {
		acc = r.add(acc, acc)
		if k.Bit(i) == 1 {
			acc = r.add(acc, p)
		}
	}
	return acc
}

func shortToRef(t *testing.T, p *ShortPoint) *refPoint {
	t.Helper()
	if p.IsInfinity() {
		return nil
	}
	return &refPoint{x: toBig(t, p.X()), y: toBig(t, p.Y())}
}

func requireShortEqual(t *testing.T, want *refPoint, got *ShortPoint, msgAndArgs ...interface{}) {
	t.Helper()
	if want == nil {
		require.True(t, got.IsInfinity(), msgAndArgs...)
		return
	}
	require.False(t, got.IsInfinity(), msgAndArgs...)
	require.Equal(t, want.x.Text(16), got.X().Text(16), msgAndArgs...)
	require.Equal(t, want.y.Text(16), got.Y().Text(16), msgAndArgs...)
}

// edwardsRef is the affine Edwards addition law
// x3 = (x1y2 + y1x2) / (c(1 + dx1x2y1y2)), y3 = (y1y2 - ax1x2) / (c(1 - dx1x2y1y2)).
type edwardsRef struct {
	p, a, c, d *big.Int
}

func newEdwardsRef(t *testing.T, c *Curve) *edwardsRef {
	t.Helper()
	return &edwardsRef{
		p: toBig(t, c.p),
		a: toBig(t, c.a.FromRed()),
		c: toBig(t, c.c.FromRed()),
		d: toBig(t, c.d.FromRed()),
	}
}

func (r *edwardsRef) identity() *refPoint {
	return &refPoint{x: big.NewInt(0), y: new(big.Int).Set(r.c)}
}

func (r *edwardsRef) add(p, q *refPoint) *refPoint {
	m := func(v *big.Int) *big.Int { return v.Mod(v, r.p) }
	x1x2 := m(new(big.Int).Mul(p.x, q.x))
	y1y2 := m(new(big.Int).Mul(p.y, q.y))
	dxy := m(new(big.Int).Mul(r.d, new(big.Int).Mul(x1x2, y1y2)))

	xn := m(new(big.Int).Add(new(big.Int).Mul(p.x, q.y), new(big.Int).Mul(p.y, q.x)))
	xd := m(new(big.Int).Mul(r.c, new(big.Int).Add(big.NewInt(1), dxy)))
	yn := m(new(big.Int).Sub(y1y2, new(big.Int).Mul(r.a, x1x2)))
	yd := m(new(big.Int).Mul(r.c, new(big.Int).Sub(big.NewInt(1), dxy)))

	x := m(xn.Mul(xn, new(big.Int).ModInverse(xd, r.p)))
	y := m(yn.Mul(yn, new(big.Int).ModInverse(yd, r.p)))
	return &refPoint{x: x, y: y}
}

func (r *edwardsRef) mul(p *refPoint, k *big.Int) *refPoint {
	acc := r.identity()
	for i := k.BitLen() - 1; i >= 0; i-- {
		acc = r.add(acc, acc)
		if k.Bit(i) == 1 {
			acc = r.add(acc, p)
		}
	}
	return acc
}

func requireEdwardsEqual(t *testing.T, want *refPoint, got *EdwardsPoint, msgAndArgs ...interface{}) {
	t.Helper()
	require.Equal(t, want.x.Text(16), got.X().Text(16), msgAndArgs...)
	require.Equal(t, want.y.Text(16), got.Y().Text(16), msgAndArgs...)
}
