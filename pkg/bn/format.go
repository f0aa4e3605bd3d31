package bn

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// chunkFor returns the largest k with base^k < 2^26 and base^k itself.
func chunkFor(base int) (k int, pow uint32) {
	pow = 1
	for uint64(pow)*uint64(base) <= wordMask {
		pow *= uint32(base)
		k++
	}
	return k, pow
}

func digitVal(c rune) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'z':
		return int(c-'a') + 10
	case c >= 'A' && c <= 'Z':
		return int(c-'A') + 10
	}
	return 99
}

// Parse converts s in the given base (2 to 36) to an Int. Whitespace is
// ignored anywhere in the string and a leading '-' negates the value.
func Parse(s string, base int) (*Int, error) {
	if base < 2 || base > 36 {
		return nil, fmt.Errorf("failed to parse %q: %w", s, ErrInvalidBase)
	}
	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	if s == "" {
		return nil, ErrEmptyString
	}

	k, pow := chunkFor(base)
	z := zero()
	for start := 0; start < len(s); start += k {
		end := start + k
		if end > len(s) {
			end = len(s)
		}
		var chunk uint32
		mul := uint32(1)
		for _, c := range s[start:end] {
			d := digitVal(c)
			if d >= base {
				return nil, fmt.Errorf("failed to parse %q at %q: %w", s, c, ErrInvalidDigit)
			}
			chunk = chunk*uint32(base) + uint32(d)
			mul *= uint32(base)
		}
		if end-start < k {
			pow = mul
		}
		z.imuln(int64(pow))
		z.iaddn(int64(chunk))
	}
	if neg {
		z.ineg()
	}
	return z, nil
}

// MustParse is like Parse but panics on malformed input. It is intended for
// constants.
func MustParse(s string, base int) *Int {
	z, err := Parse(s, base)
	if err != nil {
		panic(err)
	}
	return z
}

// FromBytes interprets b as an unsigned integer in the given byte order.
func FromBytes(b []byte, endian Endian) *Int {
	z := &Int{words: make([]uint32, (len(b)*8+wordBits-1)/wordBits+1)}
	var acc uint64
	accBits := 0
	w := 0
	push := func(v byte) {
		acc |= uint64(v) << uint(accBits)
		accBits += 8
		if accBits >= wordBits {
			z.words[w] = uint32(acc & wordMask)
			w++
			acc >>= wordBits
			accBits -= wordBits
		}
	}
	if endian == LittleEndian {
		for _, v := range b {
			push(v)
		}
	} else {
		for i := len(b) - 1; i >= 0; i-- {
			push(b[i])
		}
	}
	if accBits > 0 {
		z.words[w] = uint32(acc)
	}
	return z.strip()
}

// Text returns the magnitude of x in the given base, prefixed with '-' when
// x is negative. Digits above 9 are lower-case letters.
func (x *Int) Text(base int) string {
	return x.TextPad(base, 1)
}

// TextPad is like Text but left-pads the digits with zeros to a multiple of
// padding characters.
func (x *Int) TextPad(base, padding int) string {
	invariantf(base >= 2 && base <= 36, "base %d out of range", base)
	if padding < 1 {
		padding = 1
	}
	var out string
	if x.IsZero() {
		out = "0"
	} else {
		k, pow := chunkFor(base)
		t := x.plain().iabs()
		var chunks []string
		for !t.IsZero() {
			r := t.idivn(pow)
			s := strconv.FormatUint(uint64(r), base)
			if !t.IsZero() {
				s = strings.Repeat("0", k-len(s)) + s
			}
			chunks = append(chunks, s)
		}
		var sb strings.Builder
		for i := len(chunks) - 1; i >= 0; i-- {
			sb.WriteString(chunks[i])
		}
		out = sb.String()
	}
	if n := len(out) % padding; n != 0 {
		out = strings.Repeat("0", padding-n) + out
	}
	if x.neg {
		out = "-" + out
	}
	return out
}

// String returns the decimal representation of x.
func (x *Int) String() string {
	return x.Text(10)
}

// Bytes returns the big-endian magnitude of x with no leading zeros. Zero
// encodes as a single zero byte.
func (x *Int) Bytes() []byte {
	b, _ := x.FillBytes(BigEndian, 0)
	return b
}

// FillBytes encodes the magnitude of x into size bytes in the given byte
// order, zero padding as needed. A size of zero selects the minimal length.
func (x *Int) FillBytes(endian Endian, size int) ([]byte, error) {
	n := x.ByteLen()
	if n == 0 {
		n = 1
	}
	if size <= 0 {
		size = n
	}
	if n > size {
		return nil, fmt.Errorf("failed to encode %d bytes into %d: %w", n, size, ErrBufferTooSmall)
	}
	out := make([]byte, size)
	var acc uint64
	accBits := 0
	pos := 0
	emit := func(v byte) {
		if endian == LittleEndian {
			out[pos] = v
		} else {
			out[size-1-pos] = v
		}
		pos++
	}
	for _, w := range x.words {
		acc |= uint64(w) << uint(accBits)
		accBits += wordBits
		for accBits >= 8 && pos < size {
			emit(byte(acc))
			acc >>= 8
			accBits -= 8
		}
	}
	for accBits > 0 && pos < size {
		emit(byte(acc))
		acc >>= 8
		accBits -= 8
	}
	return out, nil
}
