package curve

import (
	"encoding/hex"
	"math/big"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mahdiidarabi/ecbn/pkg/bn"
)

func TestEd25519Generator(t *testing.T) {
	c := mustCurve(t, "ed25519")
	g := c.EdwardsG()
	assert.Equal(t,
		"5866666666666666666666666666666666666666666666666666666666666666",
		hex.EncodeToString(g.Encode()))
	assert.Equal(t, 32, c.EdwardsEncodingLen())
	assert.True(t, g.Mul(c.N()).IsInfinity())
	assert.True(t, g.Mul(bn.New(0)).IsInfinity())
}

func TestEd25519MulMatchesReference(t *testing.T) {
	c := mustCurve(t, "ed25519")
	ref := newEdwardsRef(t, c)
	g := c.EdwardsG()
	rg := &refPoint{x: toBig(t, g.X()), y: toBig(t, g.Y())}
	rng := rand.New(rand.NewSource(10))

	seed := big.NewInt(rng.Int63())
	plain := g.Mul(fromBig(t, seed))
	rp := ref.mul(rg, seed)
	requireEdwardsEqual(t, rp, plain)

	for i := 0; i < 4; i++ {
		k := randScalar(rng, 253)
		requireEdwardsEqual(t, ref.mul(rg, k), g.Mul(fromBig(t, k)), "G*%s", k.Text(16))
		requireEdwardsEqual(t, ref.mul(rp, k), plain.Mul(fromBig(t, k)), "P*%s", k.Text(16))

		k2 := randScalar(rng, 253)
		want := ref.add(ref.mul(rg, k), ref.mul(rp, k2))
		requireEdwardsEqual(t, want, g.MulAdd(fromBig(t, k), plain, fromBig(t, k2)))
		requireEdwardsEqual(t, want, plain.MulAdd(fromBig(t, k2), g, fromBig(t, k)))
	}

	k := fromBig(t, randScalar(rng, 200))
	assert.True(t, g.Mul(k.Neg()).Eq(g.Mul(k).Neg()))
	assert.True(t, g.Mul(k.Add(c.N())).Eq(g.Mul(k)))
}

func TestEdwardsGroupLaw(t *testing.T) {
	c := mustCurve(t, "ed25519")
	rng := rand.New(rand.NewSource(11))
	g := c.EdwardsG()
	p := g.Mul(fromBig(t, randScalar(rng, 64)))
	q := g.Mul(fromBig(t, randScalar(rng, 64)))
	r := g.Mul(fromBig(t, randScalar(rng, 64)))
	inf := c.edInf()

	assert.True(t, inf.IsInfinity())
	assert.True(t, p.Add(inf).Eq(p))
	assert.True(t, p.Add(p.Neg()).IsInfinity())
	assert.True(t, p.Add(p).Eq(p.Dbl()))
	assert.True(t, p.Add(q).Eq(q.Add(p)))
	assert.True(t, p.Add(q).Add(r).Eq(p.Add(q.Add(r))))
	assert.True(t, c.Validate(p.Add(q)))
	assert.True(t, p.Dbl().Normalize().Eq(p.Dbl()))

	x := p.X().Umod(c.N())
	assert.True(t, p.Dbl().Add(p.Neg()).EqXToP(x))
	assert.False(t, p.EqXToP(x.AddN(1)))
}

// smallEdwards builds an Edwards curve over 2^61 - 1 with a non-square d.
func smallEdwards(t *testing.T, a, cc string) *Curve {
	t.Helper()
	p := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 61), big.NewInt(1))
	d := big.NewInt(2)
	for big.Jacobi(d, p) != -1 {
		d.Add(d, big.NewInt(1))
	}
	c, err := New(Config{Shape: Edwards, P: p.Text(16), A: a, C: cc, D: d.Text(16)})
	require.NoError(t, err)
	return c
}

func TestEdwardsShapes(t *testing.T) {
	tests := []struct {
		name string
		a, c string
	}{
		{name: "untwisted", a: "1", c: "1"},
		{name: "untwisted c=3", a: "1", c: "3"},
		{name: "twisted a=2", a: "2", c: "1"},
		{name: "extended a=-1", a: "-1", c: "1"},
	}
	rng := rand.New(rand.NewSource(12))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := smallEdwards(t, tt.a, tt.c)
			ref := newEdwardsRef(t, c)

			var pts []*EdwardsPoint
			for y := int64(2); len(pts) < 3; y++ {
				p, err := c.PointFromY(bn.New(y), y%2 == 0)
				if err != nil {
					continue
				}
				require.True(t, c.Validate(p))
				pts = append(pts, p)
			}
			for _, p := range pts {
				rp := &refPoint{x: toBig(t, p.X()), y: toBig(t, p.Y())}
				requireEdwardsEqual(t, ref.add(rp, rp), p.Dbl())
				for i := 0; i < 3; i++ {
					k := randScalar(rng, 64)
					got := p.Mul(fromBig(t, k))
					requireEdwardsEqual(t, ref.mul(rp, k), got, "k=%s", k.Text(16))
					assert.True(t, c.Validate(got))
				}
			}
			sum := pts[0].Add(pts[1])
			r0 := &refPoint{x: toBig(t, pts[0].X()), y: toBig(t, pts[0].Y())}
			r1 := &refPoint{x: toBig(t, pts[1].X()), y: toBig(t, pts[1].Y())}
			requireEdwardsEqual(t, ref.add(r0, r1), sum)
			assert.True(t, pts[0].Add(pts[0].Neg()).IsInfinity())
			assert.True(t, c.edInf().Add(pts[2]).Eq(pts[2]))
		})
	}
}

func TestEdwardsRejectsTwistedWithC(t *testing.T) {
	_, err := New(Config{Shape: Edwards, P: "1fffffffffffffff", A: "2", C: "3", D: "5"})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestPointFromY(t *testing.T) {
	c := mustCurve(t, "ed25519")
	g := c.EdwardsG()
	odd := g.X().IsOdd()

	p, err := c.PointFromY(g.Y(), odd)
	require.NoError(t, err)
	assert.True(t, p.Eq(g))

	p, err = c.PointFromY(g.Y(), !odd)
	require.NoError(t, err)
	assert.True(t, p.Eq(g.Neg()))

	// y = 1 gives x = 0, which has no odd root.
	p, err = c.PointFromY(bn.New(1), false)
	require.NoError(t, err)
	assert.True(t, p.IsInfinity())
	_, err = c.PointFromY(bn.New(1), true)
	assert.ErrorIs(t, err, ErrInvalidPoint)

	_, err = c.PointFromY(c.P(), false)
	assert.ErrorIs(t, err, ErrInvalidPoint)

	q, err := c.PointFromX(g.X(), g.Y().IsOdd())
	require.NoError(t, err)
	assert.True(t, q.(*EdwardsPoint).Eq(g))
}

func TestEdwardsEncoding(t *testing.T) {
	c := mustCurve(t, "ed25519")
	rng := rand.New(rand.NewSource(13))
	for i := 0; i < 10; i++ {
		p := c.EdwardsG().Mul(fromBig(t, randScalar(rng, 252)))
		enc := p.Encode()
		dec, err := c.DecodeEdwardsPoint(enc)
		require.NoError(t, err)
		assert.True(t, dec.Eq(p))
		assert.Equal(t, enc, dec.Encode())
	}

	_, err := c.DecodeEdwardsPoint(make([]byte, 31))
	assert.ErrorIs(t, err, ErrUnknownPointFormat)

	// y = p is not canonical
	nonCanonical, _ := c.P().FillBytes(bn.LittleEndian, 32)
	_, err = c.DecodeEdwardsPoint(nonCanonical)
	assert.ErrorIs(t, err, ErrInvalidPoint)
}
