package bn

import (
	"math/big"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDivModTruncating(t *testing.T) {
	rng := rand.New(rand.NewSource(10))
	for i := 0; i < 1000; i++ {
		a, ab := randPair(rng, 1+rng.Intn(90), true)
		b, bb := randPair(rng, 1+rng.Intn(50), true)
		if bb.Sign() == 0 {
			continue
		}
		wq, wr := new(big.Int).QuoRem(ab, bb, new(big.Int))

		q, r := a.DivMod(b, false)
		requireEqualBig(t, wq, q, "%s / %s", a, b)
		requireEqualBig(t, wr, r, "%s %% %s", a, b)
		requireEqualBig(t, wq, a.Div(b))
		requireEqualBig(t, wr, a.Mod(b))

		u := a.Umod(b)
		requireEqualBig(t, new(big.Int).Mod(ab, bb), u)
		require.False(t, u.IsNeg())
		require.True(t, u.Ucmp(b) < 0)

		_, pr := a.DivMod(b, true)
		assert.True(t, pr.Eq(u))
	}
}

func TestDivSmallDivisor(t *testing.T) {
	x := MustParse("123456789abcdef0123456789abcdef", 16)
	xb := toBig(t, x)
	for _, n := range []int64{1, 3, 10, 97, wordMask, -7} {
		q := x.DivN(n)
		requireEqualBig(t, new(big.Int).Quo(xb, big.NewInt(n)), q, "divisor %d", n)

		abs := n
		if abs < 0 {
			abs = -abs
		}
		r := new(big.Int).Rem(xb, big.NewInt(abs)).Int64()
		if n < 0 {
			r = -r
		}
		assert.Equal(t, r, x.ModN(n), "divisor %d", n)
	}
}

func TestDivEdgeCases(t *testing.T) {
	assert.Panics(t, func() { New(1).Div(New(0)) })
	q, r := New(0).DivMod(New(-5), true)
	assert.True(t, q.IsZero())
	assert.True(t, r.IsZero())

	// quotient digit estimation with a normalized divisor close to a word boundary
	a := MustParse("3ffffff3ffffff3ffffff3ffffff3ffffff", 16)
	b := MustParse("2000000000001", 16)
	wq, wr := new(big.Int).QuoRem(toBig(t, a), toBig(t, b), new(big.Int))
	q, r = a.DivMod(b, false)
	requireEqualBig(t, wq, q)
	requireEqualBig(t, wr, r)

	assert.Equal(t, "-3", New(-7).Div(New(2)).String())
	assert.Equal(t, "-1", New(-7).Mod(New(2)).String())
	assert.Equal(t, "1", New(-7).Umod(New(2)).String())
	assert.Equal(t, "1", New(-7).Umod(New(-2)).String())
	assert.Equal(t, "1", New(7).Mod(New(-2)).String())
}

func TestDivRound(t *testing.T) {
	cases := []struct{ a, b, want int64 }{
		{7, 2, 4},
		{5, 3, 2},
		{4, 3, 1},
		{9, 3, 3},
		{-7, 2, -4},
		{-5, 3, -2},
		{-4, 3, -1},
		{10, 4, 3},
	}
	for _, tc := range cases {
		got := New(tc.a).DivRound(New(tc.b))
		assert.Equal(t, tc.want, mustInt64(t, got), "%d/%d", tc.a, tc.b)
	}
}

func TestGcdEgcdInvm(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	p := MustParse("ffffffff00000001000000000000000000000000ffffffffffffffffffffffff", 16)
	pb := toBig(t, p)
	for i := 0; i < 200; i++ {
		a, ab := randPair(rng, 1+rng.Intn(40), true)
		b, bb := randPair(rng, 1+rng.Intn(40), false)
		if bb.Sign() == 0 {
			continue
		}
		requireEqualBig(t, new(big.Int).GCD(nil, nil, new(big.Int).Abs(ab), bb), a.Gcd(b))

		x, y, g := a.Egcd(b)
		lhs := new(big.Int).Mul(toBig(t, x), new(big.Int).Mod(ab, bb))
		lhs.Add(lhs, new(big.Int).Mul(toBig(t, y), bb))
		requireEqualBig(t, lhs, g)
		requireEqualBig(t, new(big.Int).GCD(nil, nil, new(big.Int).Mod(ab, bb), bb), g)

		if new(big.Int).Mod(ab, pb).Sign() == 0 {
			continue
		}
		want := new(big.Int).ModInverse(new(big.Int).Mod(ab, pb), pb)
		requireEqualBig(t, want, a.Invm(p))
		requireEqualBig(t, want, invmp(a, p))
	}
	assert.Equal(t, "6", New(0).Gcd(New(-6)).String())
	assert.Equal(t, "4", New(12).Gcd(New(8)).String())
}
