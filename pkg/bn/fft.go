package bn

import (
	"math"
	"math/bits"
)

// fftMulTo multiplies a and b by convolving their 13-bit digit sequences
// with a radix-2 complex FFT, then rounding and carrying the coefficients.
func fftMulTo(a, b, out []uint32) {
	digits := 2 * (len(a) + len(b))
	n := 1
	for n < digits {
		n <<= 1
	}
	rbt := bitReversalTable(n)

	ar, ai := make([]float64, n), make([]float64, n)
	br, bi := make([]float64, n), make([]float64, n)
	splitDigits13(a, ar)
	splitDigits13(b, br)

	fftTransform(ar, ai, rbt, false)
	fftTransform(br, bi, rbt, false)
	for i := 0; i < n; i++ {
		re := ar[i]*br[i] - ai[i]*bi[i]
		im := ar[i]*bi[i] + ai[i]*br[i]
		ar[i], ai[i] = re, im
	}
	fftTransform(ar, ai, rbt, true)

	// round, carry in base 2^13 and pack pairs of digits into words
	var carry int64
	for i := range out {
		out[i] = 0
	}
	for k := 0; k < digits; k++ {
		v := int64(math.Round(ar[k]/float64(n))) + carry
		d := uint32(v & 0x1fff)
		carry = v >> 13
		if k&1 == 0 {
			out[k/2] = d
		} else {
			out[k/2] |= d << 13
		}
	}
	invariant(carry == 0, "fft carry overflow")
}

func splitDigits13(words []uint32, dst []float64) {
	for i, w := range words {
		dst[2*i] = float64(w & 0x1fff)
		dst[2*i+1] = float64(w >> 13)
	}
}

// bitReversalTable returns the bit-reversal permutation of 0..n-1.
func bitReversalTable(n int) []int {
	l := bits.Len(uint(n)) - 1
	t := make([]int, n)
	for i := range t {
		t[i] = int(bits.Reverse(uint(i)) >> (bits.UintSize - l))
	}
	return t
}

// fftTransform runs an in-place iterative Cooley-Tukey transform on (re, im).
// The inverse transform is not scaled by 1/n.
func fftTransform(re, im []float64, rbt []int, inverse bool) {
	n := len(re)
	for i, j := range rbt {
		if i < j {
			re[i], re[j] = re[j], re[i]
			im[i], im[j] = im[j], im[i]
		}
	}
	sign := -1.0
	if inverse {
		sign = 1.0
	}
	for size := 2; size <= n; size <<= 1 {
		half := size >> 1
		theta := sign * 2 * math.Pi / float64(size)
		for k := 0; k < half; k++ {
			wr, wi := math.Cos(theta*float64(k)), math.Sin(theta*float64(k))
			for start := 0; start < n; start += size {
				p, q := start+k, start+k+half
				tr := wr*re[q] - wi*im[q]
				ti := wr*im[q] + wi*re[q]
				re[q], im[q] = re[p]-tr, im[p]-ti
				re[p], im[p] = re[p]+tr, im[p]+ti
			}
		}
	}
}
