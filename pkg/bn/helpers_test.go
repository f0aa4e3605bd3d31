package bn

import (
	"math/big"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func toBig(t *testing.T, x *Int) *big.Int {
	t.Helper()
	v, ok := new(big.Int).SetString(x.Text(16), 16)
	require.True(t, ok, "failed to convert %s", x.Text(16))
	return v
}

func fromBig(t *testing.T, v *big.Int) *Int {
	t.Helper()
	x, err := Parse(v.Text(16), 16)
	require.NoError(t, err)
	return x
}

// randPair returns the same random value as an Int and a big.Int. Roughly a
// quarter of the values are negative when signed is set.
func randPair(rng *rand.Rand, nbytes int, signed bool) (*Int, *big.Int) {
	buf := make([]byte, nbytes)
	rng.Read(buf)
	x := FromBytes(buf, BigEndian)
	b := new(big.Int).SetBytes(buf)
	if signed && rng.Intn(4) == 0 {
		x = x.Neg()
		b.Neg(b)
	}
	return x, b
}

func requireEqualBig(t *testing.T, want *big.Int, got *Int, msgAndArgs ...interface{}) {
	t.Helper()
	require.Equal(t, want.Text(16), got.Text(16), msgAndArgs...)
}
