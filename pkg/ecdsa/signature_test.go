package ecdsa

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mahdiidarabi/ecbn/pkg/bn"
)

func TestDERRoundTrip(t *testing.T) {
	sig := NewSignature(mustHex(t, rfcR), mustHex(t, rfcS))
	der := sig.ToDER()
	// Both integers have the top bit set and need a zero pad.
	assert.Equal(t, "3046022100"+rfcR+"022100"+rfcS, bytesHex(der))

	got, err := ParseDER(der)
	require.NoError(t, err)
	assert.True(t, got.R.Eq(sig.R))
	assert.True(t, got.S.Eq(sig.S))
	assert.Nil(t, got.RecoveryParam)
}

func TestDERSmallValues(t *testing.T) {
	tests := []struct {
		r, s int64
		der  string
	}{
		{1, 1, "3006020101020101"},
		{0x80, 1, "300702020080020101"},
		{0x7f, 0x100, "30070201 7f 02020100"},
	}
	for _, tt := range tests {
		sig := NewSignature(bn.New(tt.r), bn.New(tt.s))
		want := stripSpaces(tt.der)
		assert.Equal(t, want, bytesHex(sig.ToDER()))

		got, err := ParseDER(mustBytes(t, want))
		require.NoError(t, err)
		assert.Equal(t, 0, got.R.CmpN(tt.r))
		assert.Equal(t, 0, got.S.CmpN(tt.s))
	}
}

func TestDERLongLength(t *testing.T) {
	// p521 signatures need the 0x81 long-form sequence length.
	r := bn.New(1).Shl(520).SubN(1)
	sig := NewSignature(r, r)
	der := sig.ToDER()
	assert.Equal(t, byte(0x81), der[1])

	got, err := ParseDER(der)
	require.NoError(t, err)
	assert.True(t, got.R.Eq(r))
}

func TestParseDERRejects(t *testing.T) {
	tests := []struct {
		name string
		der  string
	}{
		{"empty", ""},
		{"wrong tag", "3106020101020101"},
		{"short sequence length", "3005020101020101"},
		{"long sequence length", "3007020101020101"},
		{"trailing byte", "300602010102010100"},
		{"missing s", "3003020101"},
		{"wrong integer tag", "3006030101020101"},
		{"empty integer", "30050200020101"},
		{"negative r", "3006020180020101"},
		{"redundant padding", "300702020001020101"},
		{"padded zero", "30070202000002 0101"},
		{"non minimal length", "308106020101020101"},
		{"length with leading zero", "30820006020101020101"},
		{"indefinite length", "3080020101020101"},
		{"integer past end", "3006020501020101"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDER(mustBytes(t, stripSpaces(tt.der)))
			assert.ErrorIs(t, err, ErrInvalidDER)
		})
	}
}

func TestCompactRoundTrip(t *testing.T) {
	ec := mustEC(t, "secp256k1")
	key := ec.KeyFromPrivateInt(bn.New(1234567))
	digest := sha256Sum("compact")
	sig, err := ec.Sign(digest, key, &SignOptions{Canonical: true})
	require.NoError(t, err)

	for _, compressed := range []bool{false, true} {
		b, err := sig.Compact(32, compressed)
		require.NoError(t, err)
		require.Len(t, b, 65)
		want := byte(27 + *sig.RecoveryParam)
		if compressed {
			want += 4
		}
		assert.Equal(t, want, b[0])

		got, gotCompressed, err := ParseCompact(b)
		require.NoError(t, err)
		assert.Equal(t, compressed, gotCompressed)
		assert.True(t, got.R.Eq(sig.R))
		assert.True(t, got.S.Eq(sig.S))
		assert.Equal(t, *sig.RecoveryParam, *got.RecoveryParam)

		q, err := ec.RecoverPubKey(digest, got, *got.RecoveryParam)
		require.NoError(t, err)
		assert.True(t, q.Eq(key.Public()))
	}
}

func TestCompactErrors(t *testing.T) {
	_, err := NewSignature(bn.New(1), bn.New(1)).Compact(32, false)
	assert.ErrorIs(t, err, ErrInvalidRecoveryParam)

	_, err = NewSignature(bn.New(1), bn.New(1)).WithRecoveryParam(5).Compact(32, false)
	assert.ErrorIs(t, err, ErrInvalidRecoveryParam)

	big := bn.New(1).Shl(300)
	_, err = NewSignature(big, bn.New(1)).WithRecoveryParam(0).Compact(32, false)
	assert.ErrorIs(t, err, bn.ErrBufferTooSmall)

	for _, b := range [][]byte{
		nil,
		make([]byte, 64),
		append([]byte{26}, make([]byte, 64)...),
		append([]byte{35}, make([]byte, 64)...),
	} {
		_, _, err := ParseCompact(b)
		assert.ErrorIs(t, err, ErrInvalidCompact)
	}
}

func stripSpaces(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != ' ' {
			out = append(out, s[i])
		}
	}
	return string(out)
}
