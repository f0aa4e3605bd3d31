package bn

// resize returns s with length n, reusing capacity and zero filling new words.
func resize(s []uint32, n int) []uint32 {
	if cap(s) >= n {
		old := len(s)
		s = s[:n]
		for i := old; i < n; i++ {
			s[i] = 0
		}
		return s
	}
	t := make([]uint32, n, n+2)
	copy(t, s)
	return t
}

// uadd sets z = |a| + |b|. z may alias a or b.
func (z *Int) uadd(a, b *Int) {
	if len(a.words) < len(b.words) {
		a, b = b, a
	}
	na, nb := len(a.words), len(b.words)
	z.words = resize(z.words, na)
	var carry uint32
	for i := 0; i < nb; i++ {
		r := a.words[i] + b.words[i] + carry
		z.words[i] = r & wordMask
		carry = r >> wordBits
	}
	for i := nb; i < na; i++ {
		r := a.words[i] + carry
		z.words[i] = r & wordMask
		carry = r >> wordBits
	}
	if carry != 0 {
		z.words = append(z.words, carry)
	}
}

// usub sets z = |a| - |b| where |a| >= |b|. z may alias a or b.
func (z *Int) usub(a, b *Int) {
	na, nb := len(a.words), len(b.words)
	z.words = resize(z.words, na)
	var borrow int32
	for i := 0; i < na; i++ {
		r := int32(a.words[i]) - borrow
		if i < nb {
			r -= int32(b.words[i])
		}
		if r < 0 {
			r += wordBase
			borrow = 1
		} else {
			borrow = 0
		}
		z.words[i] = uint32(r)
	}
	invariant(borrow == 0, "usub magnitude underflow")
	z.strip()
}

// iadd sets z = z + y, respecting signs.
func (z *Int) iadd(y *Int) *Int {
	if z.neg == y.neg {
		z.uadd(z, y)
		return z
	}
	switch z.Ucmp(y) {
	case 0:
		z.words = append(z.words[:0], 0)
		z.neg = false
	case 1:
		z.usub(z, y)
	default:
		neg := y.neg
		z.usub(y, z)
		z.neg = neg
	}
	return z.strip()
}

// isub sets z = z - y, respecting signs.
func (z *Int) isub(y *Int) *Int {
	if z.neg != y.neg {
		z.uadd(z, y)
		return z.strip()
	}
	switch z.Ucmp(y) {
	case 0:
		z.words = append(z.words[:0], 0)
		z.neg = false
	case 1:
		z.usub(z, y)
	default:
		neg := !z.neg
		z.usub(y, z)
		z.neg = neg
	}
	return z.strip()
}

func smallInt(n int64) *Int {
	invariant(n > -wordBase && n < wordBase, "small operand must be below 2^26")
	if n < 0 {
		return &Int{neg: true, words: []uint32{uint32(-n)}}
	}
	return &Int{words: []uint32{uint32(n)}}
}

// iaddn sets z = z + n for |n| < 2^26.
func (z *Int) iaddn(n int64) *Int {
	invariant(n > -wordBase && n < wordBase, "small operand must be below 2^26")
	if n >= 0 && !z.neg {
		// fast carry propagation
		carry := uint32(n)
		for i := 0; carry != 0; i++ {
			if i == len(z.words) {
				z.words = append(z.words, carry)
				break
			}
			r := z.words[i] + carry
			z.words[i] = r & wordMask
			carry = r >> wordBits
		}
		return z
	}
	return z.iadd(smallInt(n))
}

// isubn sets z = z - n for |n| < 2^26.
func (z *Int) isubn(n int64) *Int {
	return z.iaddn(-n)
}

// imuln sets z = z * n for |n| < 2^26.
func (z *Int) imuln(n int64) *Int {
	neg := n < 0
	if neg {
		n = -n
	}
	invariant(n < wordBase, "small operand must be below 2^26")
	var carry uint64
	for i, w := range z.words {
		r := uint64(w)*uint64(n) + carry
		z.words[i] = uint32(r & wordMask)
		carry = r >> wordBits
	}
	if carry != 0 {
		z.words = append(z.words, uint32(carry))
	}
	if neg {
		z.neg = !z.neg
	}
	return z.strip()
}

func (z *Int) ineg() *Int {
	if !z.IsZero() {
		z.neg = !z.neg
	}
	return z
}

func (z *Int) iabs() *Int {
	z.neg = false
	return z
}

// ishln shifts the magnitude of z left by n bits, keeping the sign.
func (z *Int) ishln(n int) *Int {
	invariant(n >= 0, "negative shift")
	r := uint(n % wordBits)
	s := n / wordBits
	if r != 0 {
		var carry uint32
		for i, w := range z.words {
			next := w >> (wordBits - r)
			z.words[i] = (w<<r)&wordMask | carry
			carry = next
		}
		if carry != 0 {
			z.words = append(z.words, carry)
		}
	}
	if s != 0 && !z.IsZero() {
		l := len(z.words)
		z.words = resize(z.words, l+s)
		copy(z.words[s:], z.words[:l])
		for i := 0; i < s; i++ {
			z.words[i] = 0
		}
	}
	return z.strip()
}

// ishrn shifts the magnitude of z right by n bits, keeping the sign.
func (z *Int) ishrn(n int) *Int {
	invariant(n >= 0, "negative shift")
	r := uint(n % wordBits)
	s := n / wordBits
	if s >= len(z.words) {
		z.words = append(z.words[:0], 0)
		return z.strip()
	}
	if s != 0 {
		copy(z.words, z.words[s:])
		z.words = z.words[:len(z.words)-s]
	}
	if r != 0 {
		var carry uint32
		mask := uint32(1)<<r - 1
		for i := len(z.words) - 1; i >= 0; i-- {
			w := z.words[i]
			z.words[i] = carry<<(wordBits-r) | w>>r
			carry = w & mask
		}
	}
	return z.strip()
}

// splitLow moves the low n bits of the magnitude of z into out and shifts
// z right by n bits. z must be non-negative.
func (z *Int) splitLow(n int, out *Int) {
	out.set(z)
	out.red = nil
	out.imaskn(n)
	z.ishrn(n)
}

// imaskn keeps only the low n bits of z. z must be non-negative.
func (z *Int) imaskn(n int) *Int {
	invariant(!z.neg, "imaskn works only with positive numbers")
	r := uint(n % wordBits)
	s := n / wordBits
	if len(z.words) <= s {
		return z
	}
	if r != 0 {
		s++
	}
	z.words = z.words[:s]
	if r != 0 {
		z.words[s-1] &= uint32(1)<<r - 1
	}
	return z.strip()
}

func (z *Int) ior(y *Int) *Int {
	if len(z.words) < len(y.words) {
		z.words = resize(z.words, len(y.words))
	}
	for i, w := range y.words {
		z.words[i] |= w
	}
	return z.strip()
}

func (z *Int) iand(y *Int) *Int {
	if len(z.words) > len(y.words) {
		z.words = z.words[:len(y.words)]
	}
	for i := range z.words {
		z.words[i] &= y.words[i]
	}
	return z.strip()
}

func (z *Int) ixor(y *Int) *Int {
	if len(z.words) < len(y.words) {
		z.words = resize(z.words, len(y.words))
	}
	for i, w := range y.words {
		z.words[i] ^= w
	}
	return z.strip()
}

// inotn flips the low width bits of z.
func (z *Int) inotn(width int) *Int {
	invariant(width >= 0, "negative width")
	full := width / wordBits
	rem := uint(width % wordBits)
	need := full
	if rem > 0 {
		need++
	}
	if len(z.words) < need {
		z.words = resize(z.words, need)
	}
	for i := 0; i < full; i++ {
		z.words[i] = ^z.words[i] & wordMask
	}
	if rem > 0 {
		z.words[full] = ^z.words[full] & (uint32(1)<<rem - 1)
	}
	return z.strip()
}

func (z *Int) isetn(bit int, v bool) *Int {
	invariant(bit >= 0, "negative bit index")
	q, r := bit/wordBits, uint(bit%wordBits)
	if len(z.words) <= q {
		z.words = resize(z.words, q+1)
	}
	if v {
		z.words[q] |= 1 << r
	} else {
		z.words[q] &^= 1 << r
	}
	return z.strip()
}

// Add returns x + y.
func (x *Int) Add(y *Int) *Int {
	x.checkPlain("Add")
	y.checkPlain("Add")
	return x.Clone().iadd(y)
}

// Sub returns x - y.
func (x *Int) Sub(y *Int) *Int {
	x.checkPlain("Sub")
	y.checkPlain("Sub")
	return x.Clone().isub(y)
}

// AddN returns x + n for |n| < 2^26.
func (x *Int) AddN(n int64) *Int {
	x.checkPlain("AddN")
	return x.Clone().iaddn(n)
}

// SubN returns x - n for |n| < 2^26.
func (x *Int) SubN(n int64) *Int {
	x.checkPlain("SubN")
	return x.Clone().isubn(n)
}

// MulN returns x * n for |n| < 2^26.
func (x *Int) MulN(n int64) *Int {
	x.checkPlain("MulN")
	return x.Clone().imuln(n)
}

// Neg returns -x.
func (x *Int) Neg() *Int {
	x.checkPlain("Neg")
	return x.Clone().ineg()
}

// Abs returns |x|.
func (x *Int) Abs() *Int {
	x.checkPlain("Abs")
	return x.Clone().iabs()
}

// Shl returns x shifted left by n bits; the sign is kept.
func (x *Int) Shl(n int) *Int {
	x.checkPlain("Shl")
	return x.Clone().ishln(n)
}

// Shr returns the magnitude of x shifted right by n bits; the sign is kept.
func (x *Int) Shr(n int) *Int {
	x.checkPlain("Shr")
	return x.Clone().ishrn(n)
}

// MaskN returns the low n bits of x. x must be non-negative.
func (x *Int) MaskN(n int) *Int {
	x.checkPlain("MaskN")
	return x.Clone().imaskn(n)
}

func (x *Int) checkBitwise(y *Int, op string) {
	x.checkPlain(op)
	y.checkPlain(op)
	invariantf(!x.neg && !y.neg, "%s requires non-negative operands", op)
}

// Or returns x | y for non-negative x and y.
func (x *Int) Or(y *Int) *Int {
	x.checkBitwise(y, "Or")
	return x.Clone().ior(y)
}

// And returns x & y for non-negative x and y.
func (x *Int) And(y *Int) *Int {
	x.checkBitwise(y, "And")
	return x.Clone().iand(y)
}

// Xor returns x ^ y for non-negative x and y.
func (x *Int) Xor(y *Int) *Int {
	x.checkBitwise(y, "Xor")
	return x.Clone().ixor(y)
}

// Not returns x with its low width bits flipped. x must be non-negative.
func (x *Int) Not(width int) *Int {
	x.checkPlain("Not")
	invariant(!x.neg, "Not requires a non-negative operand")
	return x.Clone().inotn(width)
}

// SetBit returns x with bit i set to v. x must be non-negative.
func (x *Int) SetBit(i int, v bool) *Int {
	x.checkPlain("SetBit")
	invariant(!x.neg, "SetBit requires a non-negative operand")
	return x.Clone().isetn(i, v)
}

// ToTwos returns the width-bit two's complement encoding of x.
func (x *Int) ToTwos(width int) *Int {
	x.checkPlain("ToTwos")
	if x.neg {
		return x.Abs().inotn(width).iaddn(1)
	}
	return x.Clone()
}

// FromTwos interprets the non-negative x as a width-bit two's complement value.
func (x *Int) FromTwos(width int) *Int {
	x.checkPlain("FromTwos")
	invariant(!x.neg, "FromTwos requires a non-negative operand")
	if x.TestBit(width - 1) {
		return x.Clone().inotn(width).iaddn(1).ineg()
	}
	return x.Clone()
}
