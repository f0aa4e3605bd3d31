package bn

import "math/bits"

// divMode selects which results of a division are computed.
type divMode int

const (
	divBoth divMode = iota
	divOnlyQuo
	divOnlyRem
)

func (x *Int) wordAt(i int) int64 {
	if i < 0 || i >= len(x.words) {
		return 0
	}
	return int64(x.words[i])
}

// ishlnsubmul subtracts (y*mul) << (26*shift) from z. When the subtraction
// overflows, z holds the magnitude of the negative result and z.neg is set.
func (z *Int) ishlnsubmul(y *Int, mul int64, shift int) *Int {
	z.expand(len(y.words) + shift)
	var carry int64
	i := 0
	for ; i < len(y.words); i++ {
		w := int64(z.words[i+shift]) + carry
		right := int64(y.words[i]) * mul
		w -= right & wordMask
		carry = (w >> wordBits) - (right >> wordBits)
		z.words[i+shift] = uint32(w & wordMask)
	}
	for ; i < len(z.words)-shift; i++ {
		w := int64(z.words[i+shift]) + carry
		carry = w >> wordBits
		z.words[i+shift] = uint32(w & wordMask)
	}
	if carry == 0 {
		return z.strip()
	}
	invariant(carry == -1, "ishlnsubmul carry out of range")
	carry = 0
	for i := range z.words {
		w := -int64(z.words[i]) + carry
		carry = w >> wordBits
		z.words[i] = uint32(w & wordMask)
	}
	z.neg = true
	return z.strip()
}

// wordDiv divides the positive a by the positive b (len(b) >= 2) with
// schoolbook long division over normalized operands.
func wordDiv(x, y *Int, mode divMode) (q, r *Int) {
	a := x.plain()
	b := y.plain()
	bhi := b.words[len(b.words)-1]
	shift := wordBits - bits.Len32(bhi)
	if shift != 0 {
		b.ishln(shift)
		a.ishln(shift)
		bhi = b.words[len(b.words)-1]
	}
	m := len(a.words) - len(b.words)
	if mode != divOnlyRem {
		q = &Int{words: make([]uint32, m+1)}
	}

	diff := a.Clone().ishlnsubmul(b, 1, m)
	if !diff.neg {
		a = diff
		if q != nil {
			q.words[m] = 1
		}
	}

	bl := len(b.words)
	for j := m - 1; j >= 0; j-- {
		qj := a.wordAt(bl+j)*wordBase + a.wordAt(bl+j-1)
		qj /= int64(bhi)
		if qj > wordMask {
			qj = wordMask
		}
		a.ishlnsubmul(b, qj, j)
		for a.neg {
			qj--
			a.neg = false
			a.ishlnsubmul(b, 1, j)
			if !a.IsZero() {
				a.neg = !a.neg
			}
		}
		if q != nil {
			q.words[j] = uint32(qj)
		}
	}
	if q != nil {
		q.strip()
	}
	a.strip()
	if mode != divOnlyQuo && shift != 0 {
		a.ishrn(shift)
	}
	return q, a
}

// idivn divides the magnitude of z by n in place and returns the remainder.
func (z *Int) idivn(n uint32) uint32 {
	invariant(n != 0 && n <= wordMask, "small divisor out of range")
	var carry uint64
	for i := len(z.words) - 1; i >= 0; i-- {
		w := uint64(z.words[i]) + carry<<wordBits
		z.words[i] = uint32(w / uint64(n))
		carry = w % uint64(n)
	}
	z.strip()
	return uint32(carry)
}

// modrn returns the magnitude of x modulo n.
func (x *Int) modrn(n uint32) uint32 {
	invariant(n != 0 && n <= wordMask, "small divisor out of range")
	var acc uint64
	for i := len(x.words) - 1; i >= 0; i-- {
		acc = (acc<<wordBits + uint64(x.words[i])) % uint64(n)
	}
	return uint32(acc)
}

// divmod implements truncating division. When positive is set, the
// remainder is made non-negative.
func divmod(x, y *Int, mode divMode, positive bool) (q, r *Int) {
	invariant(!y.IsZero(), "division by zero")
	if x.IsZero() {
		return zero(), zero()
	}

	switch {
	case x.neg && !y.neg:
		q, r = divmod(x.plain().ineg(), y, mode, false)
		if q != nil {
			q.ineg()
		}
		if r != nil {
			r.ineg()
			if positive && r.neg {
				r.iadd(y)
			}
		}
		return q, r
	case !x.neg && y.neg:
		q, r = divmod(x, y.plain().ineg(), mode, false)
		if q != nil {
			q.ineg()
		}
		return q, r
	case x.neg && y.neg:
		q, r = divmod(x.plain().ineg(), y.plain().ineg(), mode, false)
		if r != nil {
			r.ineg()
			if positive && r.neg {
				r.isub(y)
			}
		}
		return q, r
	}

	// both operands are positive here
	if len(y.words) > len(x.words) || x.Cmp(y) < 0 {
		return zero(), x.plain()
	}
	if len(y.words) == 1 {
		d := y.words[0]
		if mode != divOnlyRem {
			q = x.plain()
			rem := q.idivn(d)
			return q, NewUint64(uint64(rem))
		}
		return nil, NewUint64(uint64(x.modrn(d)))
	}
	return wordDiv(x, y, mode)
}

// DivMod returns the truncated quotient and remainder of x / y. When
// positive is true the remainder is reduced into [0, |y|).
func (x *Int) DivMod(y *Int, positive bool) (q, r *Int) {
	x.checkPlain("DivMod")
	y.checkPlain("DivMod")
	return divmod(x, y, divBoth, positive)
}

// Div returns x / y truncated toward zero.
func (x *Int) Div(y *Int) *Int {
	x.checkPlain("Div")
	y.checkPlain("Div")
	q, _ := divmod(x, y, divOnlyQuo, false)
	return q
}

// Mod returns the remainder of truncated division; its sign follows x.
func (x *Int) Mod(y *Int) *Int {
	x.checkPlain("Mod")
	y.checkPlain("Mod")
	_, r := divmod(x, y, divOnlyRem, false)
	return r
}

// Umod returns x mod |y| in [0, |y|) regardless of the operand signs.
func (x *Int) Umod(y *Int) *Int {
	x.checkPlain("Umod")
	y.checkPlain("Umod")
	_, r := divmod(x, y, divOnlyRem, true)
	return r
}

// DivRound returns x / y rounded to the nearest integer, halves away from zero.
func (x *Int) DivRound(y *Int) *Int {
	q, r := x.DivMod(y, false)
	if r.IsZero() {
		return q
	}
	half := y.Abs().ishrn(1)
	cmp := r.Ucmp(half)
	if cmp < 0 || (y.IsOdd() && cmp == 0) {
		return q
	}
	if x.neg != y.neg {
		return q.isubn(1)
	}
	return q.iaddn(1)
}

// ModN returns the remainder of |x| divided by n, carrying the sign of n.
func (x *Int) ModN(n int64) int64 {
	x.checkPlain("ModN")
	neg := n < 0
	if neg {
		n = -n
	}
	r := int64(x.modrn(uint32(n)))
	if neg {
		return -r
	}
	return r
}

// DivN returns x / n truncated toward zero for 0 < |n| < 2^26.
func (x *Int) DivN(n int64) *Int {
	x.checkPlain("DivN")
	neg := n < 0
	if neg {
		n = -n
	}
	z := x.Clone()
	z.idivn(uint32(n))
	if neg {
		z.ineg()
	}
	return z
}
