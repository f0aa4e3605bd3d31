package curve

import "github.com/mahdiidarabi/ecbn/pkg/bn"

// nafDigits returns the width-(w+1) non-adjacent form of the non-negative
// k, least significant digit first. Every non-zero digit is odd with
// absolute value below 2^w. The result has at least bits+1 digits.
func nafDigits(k *bn.Int, w, bits int) []int {
	if k.IsNeg() {
		panic("curve: NAF of a negative scalar")
	}
	n := k.BitLen()
	if bits > n {
		n = bits
	}
	naf := make([]int, n+1)
	ws := 1 << (w + 1)
	b := bn.NewBuilder(k)
	for i := range naf {
		if b.IsOdd() {
			z := int(b.AndLn(uint32(ws - 1)))
			if z > ws>>1-1 {
				z -= ws
			}
			naf[i] = z
			b.ISubN(int64(z))
		}
		b.IShr(1)
	}
	return naf
}

// jsf returns the joint sparse form of the non-negative pair (k1, k2).
// Digits are in {-1, 0, 1}, least significant first.
func jsf(k1, k2 *bn.Int) [2][]int {
	var out [2][]int
	b1, b2 := bn.NewBuilder(k1), bn.NewBuilder(k2)
	d1, d2 := 0, 0
	for b1.CmpN(int64(-d1)) > 0 || b2.CmpN(int64(-d2)) > 0 {
		m14 := (int(b1.AndLn(3)) + d1) & 3
		m24 := (int(b2.AndLn(3)) + d2) & 3
		if m14 == 3 {
			m14 = -1
		}
		if m24 == 3 {
			m24 = -1
		}

		var u1 int
		if m14&1 != 0 {
			m8 := (int(b1.AndLn(7)) + d1) & 7
			if (m8 == 3 || m8 == 5) && m24 == 2 {
				u1 = -m14
			} else {
				u1 = m14
			}
		}
		out[0] = append(out[0], u1)

		var u2 int
		if m24&1 != 0 {
			m8 := (int(b2.AndLn(7)) + d2) & 7
			if (m8 == 3 || m8 == 5) && m14 == 2 {
				u2 = -m24
			} else {
				u2 = m24
			}
		}
		out[1] = append(out[1], u2)

		if 2*d1 == u1+1 {
			d1 = 1 - d1
		}
		if 2*d2 == u2+1 {
			d2 = 1 - d2
		}
		b1.IShr(1)
		b2.IShr(1)
	}
	return out
}

func digitAt(digits []int, i int) int {
	if i < 0 || i >= len(digits) {
		return 0
	}
	return digits[i]
}
