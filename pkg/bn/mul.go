package bn

// mulAlgo names the multiplication strategy chosen for a pair of operands.
type mulAlgo int

const (
	mulComb10 mulAlgo = iota
	mulSchoolbook
	mulColumns
	mulFFT
)

const (
	// comb10Words is the exact operand size of the half-limb comb path.
	comb10Words = 10
	// smallMulLimit is the combined word count below which the row
	// schoolbook path is used.
	smallMulLimit = 63
	// bigMulLimit is the combined word count at which FFT takes over.
	bigMulLimit = 1024
)

func (a mulAlgo) String() string {
	switch a {
	case mulComb10:
		return "comb10"
	case mulSchoolbook:
		return "schoolbook"
	case mulColumns:
		return "columns"
	case mulFFT:
		return "fft"
	}
	return "unknown"
}

func pickMul(la, lb int) mulAlgo {
	switch l := la + lb; {
	case la == comb10Words && lb == comb10Words:
		return mulComb10
	case l < smallMulLimit:
		return mulSchoolbook
	case l < bigMulLimit:
		return mulColumns
	default:
		return mulFFT
	}
}

// mulWith multiplies x and y with the given algorithm into a fresh Int.
func mulWith(algo mulAlgo, x, y *Int) *Int {
	out := &Int{words: make([]uint32, len(x.words)+len(y.words))}
	switch algo {
	case mulComb10:
		comb10MulTo(x.words, y.words, out.words)
	case mulSchoolbook:
		schoolbookMulTo(x.words, y.words, out.words)
	case mulColumns:
		columnMulTo(x.words, y.words, out.words)
	case mulFFT:
		fftMulTo(x.words, y.words, out.words)
	default:
		panic("bn: unknown multiplication algorithm")
	}
	out.neg = x.neg != y.neg
	return out.strip()
}

func mulTo(x, y *Int) *Int {
	return mulWith(pickMul(len(x.words), len(y.words)), x, y)
}

// schoolbookMulTo computes out = a*b row by row.
func schoolbookMulTo(a, b, out []uint32) {
	for i := range out {
		out[i] = 0
	}
	for i, ai := range a {
		if ai == 0 {
			continue
		}
		var carry uint64
		for j, bj := range b {
			t := uint64(out[i+j]) + uint64(ai)*uint64(bj) + carry
			out[i+j] = uint32(t & wordMask)
			carry = t >> wordBits
		}
		out[i+len(b)] = uint32(carry)
	}
}

// columnMulTo computes out = a*b one output column at a time, chaining the
// column carry into the next column.
func columnMulTo(a, b, out []uint32) {
	var carry uint64
	n := len(a) + len(b)
	for k := 0; k < n-1; k++ {
		acc := carry
		lo := k - len(a) + 1
		if lo < 0 {
			lo = 0
		}
		hi := k
		if hi > len(b)-1 {
			hi = len(b) - 1
		}
		for j := lo; j <= hi; j++ {
			acc += uint64(a[k-j]) * uint64(b[j])
		}
		out[k] = uint32(acc & wordMask)
		carry = acc >> wordBits
	}
	out[n-1] = uint32(carry)
}

// comb10MulTo multiplies two 10-word operands by splitting every word into
// 13-bit halves and summing the low, middle and high partial products of each
// column separately. Both inputs must have exactly 10 words and out 20.
func comb10MulTo(a, b, out []uint32) {
	var al, ah, bl, bh [comb10Words]uint64
	for i := 0; i < comb10Words; i++ {
		al[i] = uint64(a[i] & 0x1fff)
		ah[i] = uint64(a[i] >> 13)
		bl[i] = uint64(b[i] & 0x1fff)
		bh[i] = uint64(b[i] >> 13)
	}
	var c uint64
	for k := 0; k < 2*comb10Words-1; k++ {
		var lo, mid, hi uint64
		j0 := 0
		if k >= comb10Words {
			j0 = k - comb10Words + 1
		}
		j1 := k
		if j1 >= comb10Words {
			j1 = comb10Words - 1
		}
		for j := j0; j <= j1; j++ {
			i := k - j
			lo += al[j] * bl[i]
			mid += al[j]*bh[i] + ah[j]*bl[i]
			hi += ah[j] * bh[i]
		}
		w := c + lo + (mid&0x1fff)<<13
		c = hi + mid>>13 + w>>wordBits
		out[k] = uint32(w & wordMask)
	}
	out[2*comb10Words-1] = uint32(c)
}

// Mul returns x * y.
func (x *Int) Mul(y *Int) *Int {
	x.checkPlain("Mul")
	y.checkPlain("Mul")
	return mulTo(x, y)
}

// Sqr returns x * x.
func (x *Int) Sqr() *Int {
	return x.Mul(x)
}

// Pow returns x**y for a non-negative exponent y.
func (x *Int) Pow(y *Int) *Int {
	x.checkPlain("Pow")
	y.checkPlain("Pow")
	invariant(!y.neg, "Pow requires a non-negative exponent")
	res := one()
	base := x.Clone()
	n := y.BitLen()
	for i := 0; i < n; i++ {
		if y.TestBit(i) {
			res = mulTo(res, base)
		}
		if i+1 < n {
			base = mulTo(base, base)
		}
	}
	return res
}
