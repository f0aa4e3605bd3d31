package eddsa

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mahdiidarabi/ecbn/pkg/bn"
)

func testSecret() []byte {
	secret := make([]byte, 32)
	for i := range secret {
		secret[i] = byte(i)
	}
	return secret
}

// signWithNonce signs msg with nonce r instead of H(prefix || msg).
func signWithNonce(ed *EdDSA, key *KeyPair, msg string, r *bn.Int) *Record {
	rp := ed.g.Mul(r)
	rEnc := ed.EncodePoint(rp)
	s := r.Add(ed.hashInt(rEnc, key.pubEnc, []byte(msg)).Mul(key.scalar)).Umod(ed.n)
	sig := &Signature{R: rp, S: s, rEnc: rEnc}
	return &Record{Message: []byte(msg), Sig: sig.Bytes(), PubKey: key.PublicBytes()}
}

func TestAuditNonces(t *testing.T) {
	ed := mustEd(t)
	key, err := ed.KeyFromSecret(testSecret())
	require.NoError(t, err)
	want := key.Scalar().Umod(ed.N())
	r := bn.MustParse("5a5a5a5a5a5a5a5a5a5a5a5a5a5a5a5a5a5a5a5a5a5a5a5a5a5a5a5a5a5a5a5", 16).Umod(ed.N())

	t.Run("counter", func(t *testing.T) {
		records := []*Record{
			signWithNonce(ed, key, "one", r),
			{Message: []byte("broken"), Sig: []byte{1, 2, 3}},
			signWithNonce(ed, key, "two", r.AddN(1)),
		}
		assert.True(t, key.Verify(records[0].Message, records[0].Sig))

		res, err := ed.AuditNonces(context.Background(), DefaultAuditConfig(), records, key.PublicBytes())
		require.NoError(t, err)
		assert.Equal(t, "counter_+1", res.Relation.String())
		assert.Equal(t, [2]int{0, 2}, res.Pair)
		assert.True(t, res.Scalar.Eq(want))
	})

	t.Run("range", func(t *testing.T) {
		records := []*Record{
			signWithNonce(ed, key, "one", r),
			signWithNonce(ed, key, "two", r.MulN(5).AddN(3).Umod(ed.N())),
		}
		cfg := AuditConfig{ARange: [2]int64{4, 6}, BRange: [2]int64{-4, 4}}
		res, err := ed.AuditNonces(context.Background(), cfg, records, key.PublicBytes())
		require.NoError(t, err)
		assert.Equal(t, int64(5), res.Relation.A)
		assert.Equal(t, int64(3), res.Relation.B)
		assert.True(t, res.Scalar.Eq(want))
	})

	t.Run("deterministic nonces", func(t *testing.T) {
		var records []*Record
		for _, msg := range []string{"one", "two"} {
			sig, err := key.Sign([]byte(msg))
			require.NoError(t, err)
			records = append(records, &Record{Message: []byte(msg), Sig: sig.Bytes()})
		}
		cfg := AuditConfig{Relations: firstRelations(3), ARange: [2]int64{1, 1}, BRange: [2]int64{-2, 2}}
		_, err := ed.AuditNonces(context.Background(), cfg, records, key.PublicBytes())
		assert.ErrorIs(t, err, ErrNoRelation)
	})

	_, err = ed.AuditNonces(context.Background(), DefaultAuditConfig(), nil, []byte{1})
	assert.ErrorIs(t, err, ErrInvalidPublicKey)
}

func firstRelations(n int) []Relation {
	return DefaultAuditConfig().Relations[:n]
}

func TestClient_AuditFile(t *testing.T) {
	ed := mustEd(t)
	key, err := ed.KeyFromSecret(testSecret())
	require.NoError(t, err)

	res, err := NewClient(ed).AuditFile(context.Background(), testdataPath(t, "nonces.json"), key.PublicBytes(), DefaultAuditConfig())
	require.NoError(t, err)
	assert.Equal(t, "step_1000", res.Relation.String())
	assert.Equal(t, [2]int{0, 1}, res.Pair)
	assert.Equal(t, "f8eff1f84f125a1e612dede40146d9cd81004f3a467bc7bde9c05fe772b9caa", res.Scalar.Text(16))
}
