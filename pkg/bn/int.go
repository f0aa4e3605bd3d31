package bn

import "math/bits"

const (
	wordBits = 26
	wordMask = 1<<wordBits - 1
	wordBase = 1 << wordBits
)

// Endian selects the byte order used by FromBytes and FillBytes.
type Endian int

const (
	BigEndian Endian = iota
	LittleEndian
)

// Int is a sign-magnitude arbitrary-precision integer stored as
// little-endian 26-bit words.
//
// Exported methods never modify their receiver or arguments; in-place
// mutation is only available through Builder. An Int may carry a reduction
// context tag (see ToRed), in which case only the Red* methods and read-only
// queries may be used on it.
//
// Use New, Parse or FromBytes to create values; the zero Int is not valid.
type Int struct {
	neg   bool
	words []uint32
	red   *Red
}

// New returns x as an Int.
func New(x int64) *Int {
	z := &Int{}
	if x < 0 {
		z.neg = true
		// uint64(-x) is also correct for math.MinInt64.
		z.setUint64(uint64(-x))
		return z
	}
	z.setUint64(uint64(x))
	return z
}

// NewUint64 returns x as an Int.
func NewUint64(x uint64) *Int {
	z := &Int{}
	z.setUint64(x)
	return z
}

func zero() *Int {
	return &Int{words: []uint32{0}}
}

func one() *Int {
	return &Int{words: []uint32{1}}
}

func (z *Int) setUint64(x uint64) {
	z.words = z.words[:0]
	for {
		z.words = append(z.words, uint32(x&wordMask))
		x >>= wordBits
		if x == 0 {
			break
		}
	}
}

// Clone returns a deep copy of x, keeping its reduction context tag.
func (x *Int) Clone() *Int {
	z := &Int{neg: x.neg, red: x.red}
	z.words = make([]uint32, len(x.words), len(x.words)+2)
	copy(z.words, x.words)
	return z
}

// plain returns a copy with the reduction tag removed.
func (x *Int) plain() *Int {
	z := x.Clone()
	z.red = nil
	return z
}

// set copies y into z.
func (z *Int) set(y *Int) *Int {
	z.neg = y.neg
	z.red = y.red
	z.words = append(z.words[:0], y.words...)
	return z
}

// expand grows the word slice to at least n words, zero filling.
func (z *Int) expand(n int) {
	for len(z.words) < n {
		z.words = append(z.words, 0)
	}
}

// strip removes leading zero words and normalizes the sign of zero.
func (z *Int) strip() *Int {
	n := len(z.words)
	for n > 1 && z.words[n-1] == 0 {
		n--
	}
	if n == 0 {
		z.words = append(z.words[:0], 0)
		n = 1
	}
	z.words = z.words[:n]
	if n == 1 && z.words[0] == 0 {
		z.neg = false
	}
	return z
}

func (x *Int) checkPlain(op string) {
	invariantf(x.red == nil, "%s on reduction-context value", op)
}

// Sign returns -1, 0 or 1.
func (x *Int) Sign() int {
	if x.IsZero() {
		return 0
	}
	if x.neg {
		return -1
	}
	return 1
}

// IsZero reports whether x == 0.
func (x *Int) IsZero() bool {
	return len(x.words) == 1 && x.words[0] == 0
}

// IsNeg reports whether x < 0.
func (x *Int) IsNeg() bool {
	return x.neg
}

// IsOdd reports whether the magnitude of x is odd.
func (x *Int) IsOdd() bool {
	return x.words[0]&1 == 1
}

// IsEven reports whether the magnitude of x is even.
func (x *Int) IsEven() bool {
	return x.words[0]&1 == 0
}

// Len returns the number of 26-bit words in x.
func (x *Int) Len() int {
	return len(x.words)
}

// BitLen returns the length of the magnitude of x in bits. BitLen(0) == 0.
func (x *Int) BitLen() int {
	top := x.words[len(x.words)-1]
	return (len(x.words)-1)*wordBits + bits.Len32(top)
}

// ByteLen returns the number of bytes needed to hold the magnitude of x.
func (x *Int) ByteLen() int {
	return (x.BitLen() + 7) / 8
}

// ZeroBits returns the number of trailing zero bits of x. ZeroBits(0) == 0.
func (x *Int) ZeroBits() int {
	if x.IsZero() {
		return 0
	}
	r := 0
	for _, w := range x.words {
		if w != 0 {
			return r + bits.TrailingZeros32(w)
		}
		r += wordBits
	}
	return r
}

// TestBit reports whether bit i of the magnitude of x is set.
func (x *Int) TestBit(i int) bool {
	invariant(i >= 0, "negative bit index")
	q, r := i/wordBits, i%wordBits
	if q >= len(x.words) {
		return false
	}
	return x.words[q]&(1<<uint(r)) != 0
}

// AndLn returns the lowest word of the magnitude of x masked with mask.
// mask must fit in 26 bits.
func (x *Int) AndLn(mask uint32) uint32 {
	return x.words[0] & mask
}

// Int64 returns x as an int64. ok is false when x does not fit.
func (x *Int) Int64() (int64, bool) {
	if x.BitLen() > 63 {
		return 0, false
	}
	var v int64
	for i := len(x.words) - 1; i >= 0; i-- {
		v = v<<wordBits | int64(x.words[i])
	}
	if x.neg {
		v = -v
	}
	return v, true
}

// Ucmp compares the magnitudes of x and y.
func (x *Int) Ucmp(y *Int) int {
	if len(x.words) != len(y.words) {
		if len(x.words) > len(y.words) {
			return 1
		}
		return -1
	}
	for i := len(x.words) - 1; i >= 0; i-- {
		a, b := x.words[i], y.words[i]
		if a == b {
			continue
		}
		if a < b {
			return -1
		}
		return 1
	}
	return 0
}

// Cmp compares x and y and returns -1, 0 or 1.
func (x *Int) Cmp(y *Int) int {
	if x.neg && !y.neg {
		return -1
	}
	if !x.neg && y.neg {
		return 1
	}
	r := x.Ucmp(y)
	if x.neg {
		return -r
	}
	return r
}

// CmpN compares x with the small integer n, |n| < 2^26.
func (x *Int) CmpN(n int64) int {
	neg := n < 0
	if x.neg && !neg {
		return -1
	}
	if !x.neg && neg {
		return 1
	}
	if neg {
		n = -n
	}
	invariant(n <= wordMask, "number is too big")
	var r int
	if len(x.words) > 1 {
		r = 1
	} else {
		w := int64(x.words[0])
		switch {
		case w == n:
			r = 0
		case w < n:
			r = -1
		default:
			r = 1
		}
	}
	if x.neg {
		return -r
	}
	return r
}

// Eq reports whether x == y.
func (x *Int) Eq(y *Int) bool {
	return x.Cmp(y) == 0
}

// Lt, Lte, Gt and Gte are the usual signed comparisons.
func (x *Int) Lt(y *Int) bool  { return x.Cmp(y) < 0 }
func (x *Int) Lte(y *Int) bool { return x.Cmp(y) <= 0 }
func (x *Int) Gt(y *Int) bool  { return x.Cmp(y) > 0 }
func (x *Int) Gte(y *Int) bool { return x.Cmp(y) >= 0 }

// Min returns the smaller of x and y.
func Min(x, y *Int) *Int {
	if x.Cmp(y) < 0 {
		return x
	}
	return y
}

// Max returns the larger of x and y.
func Max(x, y *Int) *Int {
	if x.Cmp(y) > 0 {
		return x
	}
	return y
}
