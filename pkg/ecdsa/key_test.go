package ecdsa

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mahdiidarabi/ecbn/pkg/bn"
	"github.com/mahdiidarabi/ecbn/pkg/curve"
)

func TestKeyFromPrivateReduces(t *testing.T) {
	ec := mustEC(t, "secp256k1")
	k := ec.KeyFromPrivateInt(ec.N().AddN(5))
	assert.Equal(t, 0, k.Private().CmpN(5))
	assert.True(t, k.Public().Eq(ec.KeyFromPrivateInt(bn.New(5)).Public()))

	b, err := k.PrivateBytes()
	require.NoError(t, err)
	assert.Len(t, b, 32)
	assert.Equal(t, byte(5), b[31])
}

func TestPublicKeyEncodings(t *testing.T) {
	ec := mustEC(t, "p256")
	key := ec.KeyFromPrivate(mustBytes(t, rfcPriv))
	full := key.PublicBytes(false)
	assert.Equal(t, "04"+rfcQx+rfcQy, bytesHex(full))
	assert.Equal(t, "03"+rfcQx, bytesHex(key.PublicBytes(true)))

	for _, enc := range [][]byte{full, key.PublicBytes(true)} {
		pub, err := ec.KeyFromPublic(enc)
		require.NoError(t, err)
		assert.True(t, pub.Public().Eq(key.Public()))
		assert.Nil(t, pub.Private())
		_, err = pub.PrivateBytes()
		assert.ErrorIs(t, err, ErrNoPrivateKey)
	}

	_, err := ec.KeyFromPublic([]byte{0x05, 1, 2})
	assert.ErrorIs(t, err, curve.ErrUnknownPointFormat)
}

func TestValidate(t *testing.T) {
	ec := mustEC(t, "secp256k1")
	assert.True(t, ec.KeyFromPrivateInt(bn.New(77)).Validate().OK)

	res := ec.KeyFromPrivateInt(ec.N()).Validate()
	assert.False(t, res.OK)
	assert.Equal(t, "invalid public key", res.Reason)

	inf := ec.KeyFromPublicPoint(ec.Curve().ShortG().Mul(bn.New(0)))
	assert.Equal(t, "invalid public key", inf.Validate().Reason)
}

func TestValidateOffCurve(t *testing.T) {
	ec := mustEC(t, "p256")
	// NewShortPoint does not check the curve equation.
	pt, err := ec.Curve().NewShortPoint(bn.New(1), bn.New(1))
	require.NoError(t, err)

	res := ec.KeyFromPublicPoint(pt).Validate()
	assert.False(t, res.OK)
	assert.Equal(t, "public key is not a point", res.Reason)
}

func TestDeriveIsSymmetric(t *testing.T) {
	for _, name := range []string{"p256", "secp256k1", "p521"} {
		t.Run(name, func(t *testing.T) {
			ec := mustEC(t, name)
			a := ec.KeyFromPrivateInt(bn.New(0xdeadbeef))
			b := ec.KeyFromPrivateInt(bn.New(0xfeedface))

			s1, err := a.Derive(b.Public())
			require.NoError(t, err)
			s2, err := b.Derive(a.Public())
			require.NoError(t, err)
			assert.True(t, s1.Eq(s2))

			pub := ec.KeyFromPublicPoint(b.Public())
			_, err = pub.Derive(a.Public())
			assert.ErrorIs(t, err, ErrNoPrivateKey)
		})
	}

	k1 := mustEC(t, "secp256k1").KeyFromPrivateInt(bn.New(3))
	p256 := mustEC(t, "p256").KeyFromPrivateInt(bn.New(3))
	_, err := k1.Derive(p256.Public())
	assert.ErrorIs(t, err, ErrInvalidPublicKey)
}

func TestKeyString(t *testing.T) {
	ec := mustEC(t, "secp256k1")
	k := ec.KeyFromPrivateInt(bn.New(1))
	assert.Contains(t, k.String(), "priv: 1 ")
	assert.Contains(t, ec.KeyFromPublicPoint(k.Public()).String(), "priv: <nil>")
}
