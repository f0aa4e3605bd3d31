package bn

import (
	"math/big"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	p256Hex = "ffffffff00000001000000000000000000000000ffffffffffffffffffffffff"
	k256Hex = "fffffffffffffffffffffffffffffffffffffffffffffffffffffffefffffc2f"
)

// contexts returns one context of every kind over primes of interest.
func contexts(t *testing.T) map[string]*Red {
	t.Helper()
	out := map[string]*Red{
		"generic-p256": NewRed(MustParse(p256Hex, 16)),
		"mont-p256":    NewMont(MustParse(p256Hex, 16)),
		"mont-k256":    NewMont(MustParse(k256Hex, 16)),
		"mont-small":   NewMont(New(1000003)),
	}
	for _, name := range PrimeNames() {
		r, err := NewRedPrime(name)
		require.NoError(t, err)
		out["prime-"+name] = r
	}
	return out
}

func TestPrimeReducersMatchUmod(t *testing.T) {
	rng := rand.New(rand.NewSource(20))
	for _, name := range PrimeNames() {
		pr, err := PrimeByName(name)
		require.NoError(t, err)
		p := pr.P()
		for i := 0; i < 300; i++ {
			x, _ := randPair(rng, 1+rng.Intn(2*pr.Bits()/8+2), false)
			want := x.Umod(p)
			got := pr.ireduce(x.Clone())
			require.True(t, want.Eq(got), "%s: reduce %s got %s want %s", name, x.Text(16), got.Text(16), want.Text(16))
		}
		// boundary values around p
		for _, x := range []*Int{p, p.AddN(1), p.SubN(1), p.Shl(1), p.Mul(p).SubN(1)} {
			require.True(t, x.Umod(p).Eq(pr.ireduce(x.Clone())), "%s boundary %s", name, x.Text(16))
		}
	}
}

func TestUnknownPrime(t *testing.T) {
	_, err := NewRedPrime("p999")
	assert.ErrorIs(t, err, ErrUnknownPrime)
}

func TestRedArithmeticMatchesPlain(t *testing.T) {
	rng := rand.New(rand.NewSource(21))
	for name, ctx := range contexts(t) {
		m := ctx.M()
		mb := toBig(t, m)
		for i := 0; i < 100; i++ {
			a, ab := randPair(rng, m.ByteLen()+1, false)
			b, bb := randPair(rng, m.ByteLen()+1, false)
			ra, rb := a.ToRed(ctx), b.ToRed(ctx)

			assert.True(t, ra.FromRed().Eq(a.Umod(m)), "%s roundtrip", name)

			mul := new(big.Int).Mul(ab, bb)
			requireEqualBig(t, mul.Mod(mul, mb), ra.RedMul(rb).FromRed(), "%s mul", name)

			add := new(big.Int).Add(ab, bb)
			requireEqualBig(t, add.Mod(add, mb), ra.RedAdd(rb).FromRed(), "%s add", name)

			sub := new(big.Int).Sub(ab, bb)
			requireEqualBig(t, sub.Mod(sub, mb), ra.RedSub(rb).FromRed(), "%s sub", name)

			neg := new(big.Int).Neg(ab)
			requireEqualBig(t, neg.Mod(neg, mb), ra.RedNeg().FromRed(), "%s neg", name)

			sqr := new(big.Int).Mul(ab, ab)
			requireEqualBig(t, sqr.Mod(sqr, mb), ra.RedSqr().FromRed(), "%s sqr", name)

			shl := new(big.Int).Lsh(ab, 5)
			requireEqualBig(t, shl.Mod(shl, mb), ra.RedShl(5).FromRed(), "%s shl", name)

			if new(big.Int).Mod(ab, mb).Sign() != 0 {
				inv := new(big.Int).ModInverse(ab, mb)
				requireEqualBig(t, inv, ra.RedInvm().FromRed(), "%s invm", name)
			}
		}
	}
}

func TestMontMatchesPlainMulUmod(t *testing.T) {
	rng := rand.New(rand.NewSource(22))
	for i := 0; i < 50; i++ {
		m, _ := randPair(rng, 1+rng.Intn(64), false)
		m = m.SetBit(0, true)
		if m.CmpN(1) <= 0 {
			continue
		}
		mont := NewMont(m)
		a, _ := randPair(rng, m.ByteLen(), false)
		b, _ := randPair(rng, m.ByteLen(), false)
		a, b = a.Umod(m), b.Umod(m)
		got := a.ToRed(mont).RedMul(b.ToRed(mont)).FromRed()
		require.True(t, got.Eq(a.Mul(b).Umod(m)), "modulus %s", m.Text(16))
	}
}

func TestRedPowFermat(t *testing.T) {
	rng := rand.New(rand.NewSource(23))
	for name, ctx := range contexts(t) {
		m := ctx.M()
		pm1 := m.SubN(1)
		for i := 0; i < 10; i++ {
			a, _ := randPair(rng, m.ByteLen(), false)
			a = a.Umod(m)
			if a.IsZero() {
				continue
			}
			ra := a.ToRed(ctx)
			assert.True(t, ra.RedPow(pm1).FromRed().Eq(New(1)), "%s fermat", name)

			// small exponents against repeated multiplication
			acc := New(1).ToRed(ctx)
			for e := int64(0); e < 40; e++ {
				require.True(t, ra.RedPow(New(e)).Eq(acc), "%s pow %d", name, e)
				acc = acc.RedMul(ra)
			}
		}
	}
}

func TestRedSqrt(t *testing.T) {
	rng := rand.New(rand.NewSource(24))
	for name, ctx := range contexts(t) {
		for i := 0; i < 20; i++ {
			a, _ := randPair(rng, ctx.M().ByteLen(), false)
			sq := a.ToRed(ctx).RedSqr()
			root, ok := sq.RedSqrt()
			require.True(t, ok, "%s", name)
			require.True(t, root.RedSqr().Eq(sq), "%s sqrt", name)
		}
	}

	// 2 is a non-residue modulo p25519 (p = 5 mod 8) and -1 modulo k256 (p = 3 mod 4)
	p25519, err := NewRedPrime("p25519")
	require.NoError(t, err)
	_, ok := New(2).ToRed(p25519).RedSqrt()
	assert.False(t, ok)

	k256, err := NewRedPrime("k256")
	require.NoError(t, err)
	_, ok = New(1).ToRed(k256).RedNeg().RedSqrt()
	assert.False(t, ok)

	zero, ok := New(0).ToRed(k256).RedSqrt()
	assert.True(t, ok)
	assert.True(t, zero.IsZero())
}

func TestRedMisuse(t *testing.T) {
	a, err := NewRedPrime("k256")
	require.NoError(t, err)
	b := NewRed(New(101))

	x := New(5).ToRed(a)
	y := New(5).ToRed(b)
	assert.Panics(t, func() { x.Add(New(1)) }, "plain op on red value")
	assert.Panics(t, func() { New(1).RedAdd(x) }, "red op on plain value")
	assert.Panics(t, func() { x.RedMul(y) }, "mixed contexts")
	assert.Panics(t, func() { x.ToRed(a) }, "double conversion")
	assert.Panics(t, func() { New(-1).ToRed(a) }, "negative operand")
	assert.Panics(t, func() { NewMont(New(100)) }, "even montgomery modulus")
	assert.Panics(t, func() { NewRed(New(1)) })

	assert.Equal(t, "pseudo-mersenne", a.Kind())
	assert.Same(t, a, x.Red())
	assert.Equal(t, 3, x.BitLen(), "read-only queries are allowed on red values")
}
