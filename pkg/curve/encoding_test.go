package curve

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mahdiidarabi/ecbn/pkg/bn"
)

func TestSEC1RoundTrip(t *testing.T) {
	for _, name := range shortCurves {
		t.Run(name, func(t *testing.T) {
			c := mustCurve(t, name)
			for _, k := range []int64{1, 2, 3, 1000, 123456789} {
				p := c.ShortG().Mul(bn.New(k))
				n := c.ByteLen()

				full := p.Encode(false)
				require.Len(t, full, 2*n+1)
				assert.Equal(t, byte(0x04), full[0])

				compact := p.Encode(true)
				require.Len(t, compact, n+1)

				for _, enc := range [][]byte{full, compact} {
					dec, err := c.DecodeShortPoint(enc)
					require.NoError(t, err)
					assert.True(t, dec.Eq(p))
				}

				hybrid := append([]byte{}, full...)
				hybrid[0] = 0x06
				if p.Y().IsOdd() {
					hybrid[0] = 0x07
				}
				dec, err := c.DecodeShortPoint(hybrid)
				require.NoError(t, err)
				assert.True(t, dec.Eq(p))

				hybrid[0] ^= 1
				_, err = c.DecodeShortPoint(hybrid)
				assert.ErrorIs(t, err, ErrInvalidPoint)
			}
		})
	}
}

func TestSEC1KnownEncoding(t *testing.T) {
	c := mustCurve(t, "secp256k1")
	assert.Equal(t,
		"0279be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798",
		hex.EncodeToString(c.ShortG().Encode(true)))
	assert.Equal(t,
		"0479be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798"+
			"483ada7726a3c4655da4fbfc0e1108a8fd17b448a68554199c47d08ffb10d4b8",
		hex.EncodeToString(c.ShortG().Encode(false)))
}

func TestSEC1Rejects(t *testing.T) {
	c := mustCurve(t, "p256")
	full := c.ShortG().Encode(false)

	_, err := c.DecodeShortPoint(nil)
	assert.ErrorIs(t, err, ErrUnknownPointFormat)
	_, err = c.DecodeShortPoint(full[:len(full)-1])
	assert.ErrorIs(t, err, ErrUnknownPointFormat)

	bad := append([]byte{}, full...)
	bad[0] = 0x05
	_, err = c.DecodeShortPoint(bad)
	assert.ErrorIs(t, err, ErrUnknownPointFormat)

	offCurve := append([]byte{}, full...)
	offCurve[len(offCurve)-1] ^= 0x02
	_, err = c.DecodeShortPoint(offCurve)
	assert.ErrorIs(t, err, ErrInvalidPoint)

	tooBig := append([]byte{0x02}, make([]byte, 32)...)
	for i := 1; i < len(tooBig); i++ {
		tooBig[i] = 0xff
	}
	_, err = c.DecodeShortPoint(tooBig)
	assert.ErrorIs(t, err, ErrInvalidPoint)
}

func TestSEC1Infinity(t *testing.T) {
	c := mustCurve(t, "p256")
	inf := c.Infinity().(*ShortPoint)
	enc := inf.Encode(true)
	assert.Equal(t, []byte{0x00}, enc)

	dec, err := c.DecodePoint(enc)
	require.NoError(t, err)
	assert.True(t, dec.IsInfinity())
}

func TestCurveEncodeDispatch(t *testing.T) {
	ed := mustCurve(t, "ed25519")
	enc, err := ed.Encode(ed.G(), true)
	require.NoError(t, err)
	p, err := ed.DecodePoint(enc)
	require.NoError(t, err)
	assert.True(t, p.(*EdwardsPoint).Eq(ed.EdwardsG()))

	k1 := mustCurve(t, "secp256k1")
	_, err = ed.Encode(k1.G(), true)
	assert.ErrorIs(t, err, ErrInvalidPoint)
	_, err = k1.DecodeEdwardsPoint(enc)
	assert.ErrorIs(t, err, ErrUnsupported)
}
