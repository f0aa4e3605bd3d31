package hmacdrbg

import (
	"bytes"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	return b
}

// The first two blocks drawn when deriving the RFC 6979 A.2.5 nonce for
// P-256, SHA-256 and the message "sample".
func TestRFC6979Nonce(t *testing.T) {
	d, err := New(Config{
		Hash:    sha256.New,
		Entropy: mustHex(t, "c9afa9d845ba75166b5c215767b1d6934e50c3db36e89b127b8a622b120f6721"),
		Nonce:   mustHex(t, "af2bdbe1aa9b6ec1e2ade1d694f41fc71a831d0268e9891562113d8a62add1bf"),
	})
	require.NoError(t, err)

	k, err := d.Generate(32, nil)
	require.NoError(t, err)
	assert.Equal(t, "a6e3c57dd01abe90086538398355dd4c3b17aa873382b0f24d6129493d8aad60", hex.EncodeToString(k))

	k, err = d.Generate(32, nil)
	require.NoError(t, err)
	assert.Equal(t, "8e83dc490bc5fc4d5992bd63cd87f254adffcb930f8a8011702a88870f638fdb", hex.EncodeToString(k))
}

func newTestDRBG(t *testing.T) *DRBG {
	t.Helper()
	d, err := New(Config{
		Hash:    sha512.New,
		Entropy: bytes.Repeat([]byte{0x42}, 32),
		Nonce:   []byte("nonce"),
		Pers:    []byte("pers"),
	})
	require.NoError(t, err)
	return d
}

func TestDeterministic(t *testing.T) {
	a, b := newTestDRBG(t), newTestDRBG(t)
	for _, n := range []int{1, 64, 65, 200} {
		x, err := a.Generate(n, nil)
		require.NoError(t, err)
		y, err := b.Generate(n, nil)
		require.NoError(t, err)
		assert.Len(t, x, n)
		assert.Equal(t, x, y)
	}
}

func TestAdditionalInputAndReseed(t *testing.T) {
	a, b := newTestDRBG(t), newTestDRBG(t)
	x, err := a.Generate(32, []byte("add"))
	require.NoError(t, err)
	y, err := b.Generate(32, nil)
	require.NoError(t, err)
	assert.NotEqual(t, x, y)

	a, b = newTestDRBG(t), newTestDRBG(t)
	require.NoError(t, a.Reseed(bytes.Repeat([]byte{0x07}, 24), nil))
	x, _ = a.Generate(32, nil)
	y, _ = b.Generate(32, nil)
	assert.NotEqual(t, x, y)

	err = a.Reseed([]byte{1, 2, 3}, nil)
	assert.ErrorIs(t, err, ErrNotEnoughEntropy)
}

func TestEntropyRequirements(t *testing.T) {
	_, err := New(Config{Hash: sha256.New, Entropy: make([]byte, 23)})
	assert.ErrorIs(t, err, ErrNotEnoughEntropy)

	_, err = New(Config{Hash: sha256.New, Entropy: make([]byte, 16), MinEntropy: 128})
	assert.NoError(t, err)

	_, err = New(Config{Entropy: make([]byte, 32)})
	assert.ErrorIs(t, err, ErrNoHash)
}

func TestReseedRequired(t *testing.T) {
	d := newTestDRBG(t)
	d.reseed = ReseedInterval + 1
	_, err := d.Generate(16, nil)
	assert.ErrorIs(t, err, ErrReseedRequired)

	require.NoError(t, d.Reseed(make([]byte, 32), nil))
	_, err = d.Generate(16, nil)
	assert.NoError(t, err)
}
