package crosscheck

import (
	"bytes"
	"context"
	"crypto/sha256"
	"errors"
	"math/rand"
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	btcecdsa "github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mahdiidarabi/ecbn/pkg/ecdsa"
)

func seeded(seed int64, n int) []byte {
	buf := make([]byte, n)
	rand.New(rand.NewSource(seed)).Read(buf)
	return buf
}

func TestDecred(t *testing.T) {
	for seed := int64(1); seed <= 4; seed++ {
		in := seeded(seed, 64)
		d := sha256.Sum256(in[32:])
		require.NoError(t, Decred(in[:32], d[:]), "seed %d", seed)
	}
	assert.Error(t, Decred(make([]byte, 32), make([]byte, 32)), "zero key")
}

func TestBtcec(t *testing.T) {
	for seed := int64(1); seed <= 4; seed++ {
		in := seeded(seed, 64)
		d := sha256.Sum256(in[32:])
		require.NoError(t, Btcec(in[:32], d[:]), "seed %d", seed)
	}

	one := make([]byte, 32)
	one[31] = 1
	d := sha256.Sum256([]byte("hello world"))
	require.NoError(t, Btcec(one, d[:]))
}

func TestBtcecCompactVerifies(t *testing.T) {
	ec, err := ecdsa.New("secp256k1")
	require.NoError(t, err)
	priv := seeded(7, 32)
	bpriv, bpub := btcec.PrivKeyFromBytes(priv)
	d := sha256.Sum256([]byte("compact"))

	for _, compressed := range []bool{false, true} {
		sigBytes := btcecdsa.SignCompact(bpriv, d[:], compressed)
		require.Len(t, sigBytes, 65)
		sig, gotCompressed, err := ecdsa.ParseCompact(sigBytes)
		require.NoError(t, err)
		assert.Equal(t, compressed, gotCompressed)

		pub, err := ec.KeyFromPublic(bpub.SerializeCompressed())
		require.NoError(t, err)
		assert.True(t, ec.Verify(d[:], sig, pub))

		q, err := ec.RecoverPubKey(d[:], sig, *sig.RecoveryParam)
		require.NoError(t, err)
		assert.Equal(t, bpub.SerializeUncompressed(), q.Encode(false))
	}
}

func TestStdlibECDSA(t *testing.T) {
	for _, name := range StdlibCurves() {
		t.Run(name, func(t *testing.T) {
			in := seeded(7, 96)
			d := sha256.Sum256(in[66:])
			require.NoError(t, StdlibECDSA(name, in[:66], d[:]))
		})
	}
	assert.Error(t, StdlibECDSA("secp256k1", seeded(1, 32), make([]byte, 32)))
}

func TestEd25519(t *testing.T) {
	require.NoError(t, Ed25519(bytes.Repeat([]byte{9}, 32), nil))
	require.NoError(t, Ed25519(seeded(3, 32), []byte("cross-checked message")))
	assert.Error(t, Ed25519(make([]byte, 16), nil))
}

func TestX25519(t *testing.T) {
	require.NoError(t, X25519(seeded(5, 32), seeded(6, 32)))
	assert.Error(t, X25519(make([]byte, 31), seeded(6, 32)))
}

func TestRunSuite(t *testing.T) {
	results, err := Run(context.Background(), rand.New(rand.NewSource(42)), Checks(), 2, 4)
	require.NoError(t, err)
	require.Len(t, results, len(Checks()))
	for _, r := range results {
		assert.NoError(t, r.Err, r.Name)
		assert.Equal(t, 2, r.Rounds, r.Name)
	}
}

func TestRunReportsFailures(t *testing.T) {
	boom := errors.New("boom")
	checks := []Check{
		{Name: "ok", Input: 1, Run: func([]byte) error { return nil }},
		{Name: "bad", Input: 1, Run: func([]byte) error { return boom }},
	}
	results, err := Run(context.Background(), bytes.NewReader(make([]byte, 10)), checks, 3, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, results[0].Rounds)
	assert.ErrorIs(t, results[1].Err, boom)
	assert.Equal(t, 0, results[1].Rounds)

	_, err = Run(context.Background(), bytes.NewReader(nil), checks, 1, 1)
	assert.Error(t, err, "short input")
}
