package curve

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mahdiidarabi/ecbn/pkg/bn"
)

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	return b
}

func TestX25519Vectors(t *testing.T) {
	c := mustCurve(t, "curve25519")
	tests := []struct {
		name          string
		scalar, u, out string
	}{
		{
			name:   "rfc7748 5.2",
			scalar: "4b66e9d4d1b4673c5ad22691957d6af5c11b6421e0ea01d42ca4169e7918ba0d",
			u:      "e5210f12786811d3f4b7959d0538ae2c31dbe7106fc03c3efc4cd549c715a493",
			out:    "95cbde9476e8907d7aade45cb4b873f88b595a68799fa152e6f8f7647aac7957",
		},
		{
			name:   "alice public",
			scalar: "77076d0a7318a57d3c16c17251b26645df4c2f87ebc0992ab177fba51db92c2a",
			u:      "0900000000000000000000000000000000000000000000000000000000000000",
			out:    "8520f0098930a754748b7ddcb43ef75a0dbf3a0d26381af4eba4a98eaa9b4e6a",
		},
		{
			name:   "bob public",
			scalar: "5dab087e624a8a4b79e17f8b83800ee66f3bb1292618b6fd1c2f8b27ff88e0eb",
			u:      "0900000000000000000000000000000000000000000000000000000000000000",
			out:    "de9edb7d7b7dc1b4d35b61c2ece435373f8343c85b78674dadfc7e146f882b4f",
		},
		{
			name:   "shared secret",
			scalar: "77076d0a7318a57d3c16c17251b26645df4c2f87ebc0992ab177fba51db92c2a",
			u:      "de9edb7d7b7dc1b4d35b61c2ece435373f8343c85b78674dadfc7e146f882b4f",
			out:    "4a5d9d5ba4ce2de1728e3bf480350f25e07e21c947d19e3376f09b3c1e161742",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.X25519(mustHex(t, tt.scalar), mustHex(t, tt.u))
			require.NoError(t, err)
			assert.Equal(t, tt.out, hex.EncodeToString(got))
		})
	}

	_, err := c.X25519(make([]byte, 31), make([]byte, 32))
	assert.ErrorIs(t, err, ErrInvalidPoint)
	_, err = mustCurve(t, "p256").X25519(make([]byte, 32), make([]byte, 32))
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestMontLadder(t *testing.T) {
	c := mustCurve(t, "curve25519")
	g := c.MontG()
	require.NotNil(t, g)

	k1 := bn.MustParse("1234567890abcdef", 16)
	k2 := bn.MustParse("fedcba0987654321", 16)
	// k1*(k2*G) == k2*(k1*G)
	assert.True(t, g.Mul(k1).Mul(k2).Eq(g.Mul(k2).Mul(k1)))
	assert.True(t, g.Mul(bn.New(2)).Eq(g.Dbl()))
	assert.True(t, g.Mul(bn.New(1)).Eq(g))
	assert.True(t, g.Mul(bn.New(0)).IsInfinity())

	// 3G from a differential addition of 2G and G with difference G
	three := g.Dbl().DiffAdd(g, g)
	assert.True(t, three.Eq(g.Mul(bn.New(3))))
	assert.True(t, c.Validate(three))
}

func TestMontUnsupported(t *testing.T) {
	c := mustCurve(t, "curve25519")
	g := c.G()

	_, err := c.Add(g, g)
	assert.ErrorIs(t, err, ErrUnsupported)
	_, err = c.Neg(g)
	assert.ErrorIs(t, err, ErrUnsupported)
	_, err = c.MulAdd(g, bn.New(1), g, bn.New(2))
	assert.ErrorIs(t, err, ErrUnsupported)
	_, err = c.PointFromX(bn.New(9), false)
	assert.ErrorIs(t, err, ErrUnsupported)
	_, err = c.NewShortPoint(bn.New(1), bn.New(2))
	assert.ErrorIs(t, err, ErrUnsupported)
	_, err = c.DecodeShortPoint([]byte{0x00})
	assert.ErrorIs(t, err, ErrUnsupported)

	dbl, err := c.Dbl(g)
	require.NoError(t, err)
	assert.True(t, c.Validate(dbl))
}

func TestMontEncoding(t *testing.T) {
	c := mustCurve(t, "curve25519")
	p := c.MontG().Mul(bn.New(12345))
	enc, err := c.Encode(p, false)
	require.NoError(t, err)
	require.Len(t, enc, 32)

	dec, err := c.DecodePoint(enc)
	require.NoError(t, err)
	assert.True(t, dec.(*MontPoint).Eq(p))

	_, err = c.DecodePoint(enc[1:])
	assert.ErrorIs(t, err, ErrUnknownPointFormat)
	_, err = c.NewMontPoint(c.P())
	assert.ErrorIs(t, err, ErrInvalidPoint)
}
