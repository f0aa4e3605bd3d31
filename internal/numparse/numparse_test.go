package numparse

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInt(t *testing.T) {
	tests := []struct {
		in   interface{}
		want string // hex
	}{
		{in: "0xff", want: "ff"},
		{in: "0XFF", want: "ff"},
		{in: "ff", want: "ff"},
		{in: "255", want: "ff"},
		{in: " 16 ", want: "10"},
		{in: json.Number("340282366920938463463374607431768211456"), want: "100000000000000000000000000000000"},
		{in: float64(4096), want: "1000"},
		{in: int64(-5), want: "-5"},
		{in: 7, want: "7"},
		{in: "0x79be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798", want: "79be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798"},
	}
	for _, tt := range tests {
		got, err := Int(tt.in)
		require.NoError(t, err, "%v", tt.in)
		assert.Equal(t, tt.want, got.Text(16), "%v", tt.in)
	}
}

func TestIntRejects(t *testing.T) {
	for _, in := range []interface{}{"", "0x", "12z", float64(1.5), []byte{1}, nil} {
		_, err := Int(in)
		assert.ErrorIs(t, err, ErrInvalidNumber, "%v", in)
	}
}

func TestHexAndBytes(t *testing.T) {
	x, err := Hex("0x0100")
	require.NoError(t, err)
	assert.Equal(t, "256", x.Text(10))

	x, err = Hex("10")
	require.NoError(t, err)
	assert.Equal(t, "16", x.Text(10))

	b, err := Bytes("0x00ff")
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00, 0xff}, b)

	_, err = Bytes("abc")
	assert.ErrorIs(t, err, ErrInvalidNumber)
}
