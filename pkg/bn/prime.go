package bn

import "fmt"

// primeKind enumerates the pseudo-Mersenne primes with a fast reducer.
type primeKind int

const (
	primeK256 primeKind = iota
	primeP224
	primeP192
	primeP25519
)

// Prime reduces modulo p = 2^n - k for a small k by folding the bits above
// n back in multiplied by k.
type Prime struct {
	kind primeKind
	name string
	n    int
	p    *Int
	k    *Int
}

func newPrime(kind primeKind, name, hexP string) *Prime {
	p := MustParse(hexP, 16)
	n := p.BitLen()
	k := one().ishln(n).isub(p)
	return &Prime{kind: kind, name: name, n: n, p: p, k: k}
}

// primes is built eagerly; the reducers are immutable after construction.
var primes = map[string]*Prime{
	"k256": newPrime(primeK256, "k256",
		"ffffffff ffffffff ffffffff ffffffff ffffffff ffffffff fffffffe fffffc2f"),
	"p224": newPrime(primeP224, "p224",
		"ffffffff ffffffff ffffffff ffffffff 00000000 00000000 00000001"),
	"p192": newPrime(primeP192, "p192",
		"ffffffff ffffffff ffffffff fffffffe ffffffff ffffffff"),
	"p25519": newPrime(primeP25519, "p25519",
		"7fffffffffffffff ffffffffffffffff ffffffffffffffff ffffffffffffffed"),
}

// PrimeNames lists the names accepted by NewRedPrime.
func PrimeNames() []string {
	return []string{"k256", "p224", "p192", "p25519"}
}

// PrimeByName returns the reducer for a named prime.
func PrimeByName(name string) (*Prime, error) {
	p, ok := primes[name]
	if !ok {
		return nil, fmt.Errorf("failed to find prime %q: %w", name, ErrUnknownPrime)
	}
	return p, nil
}

// P returns a copy of the prime.
func (pr *Prime) P() *Int {
	return pr.p.Clone()
}

// Name returns the registry name of the prime.
func (pr *Prime) Name() string { return pr.name }

// Bits returns n for p = 2^n - k.
func (pr *Prime) Bits() int { return pr.n }

// split moves the low n bits of input into out and leaves the high part in
// input.
func (pr *Prime) split(input, out *Int) {
	if pr.kind == primeK256 {
		k256Split(input, out)
		return
	}
	input.splitLow(pr.n, out)
}

// imulK multiplies num by k in place.
func (pr *Prime) imulK(num *Int) *Int {
	switch pr.kind {
	case primeK256:
		return k256MulK(num)
	case primeP25519:
		return num.imuln(0x13)
	default:
		r := mulTo(num, pr.k)
		num.neg, num.words = r.neg, r.words
		return num
	}
}

// ireduce reduces the non-negative num modulo p, reusing its storage.
func (pr *Prime) ireduce(num *Int) *Int {
	invariant(!num.neg, "prime reduction of a negative number")
	r := num
	tmp := &Int{words: make([]uint32, 0, (pr.n+wordBits-1)/wordBits+1)}
	var rlen int
	for {
		pr.split(r, tmp)
		r = pr.imulK(r)
		r.uadd(r, tmp)
		rlen = r.BitLen()
		if rlen <= pr.n {
			break
		}
	}
	cmp := -1
	if rlen >= pr.n {
		cmp = r.Ucmp(pr.p)
	}
	switch {
	case cmp == 0:
		r.words = append(r.words[:0], 0)
		r.neg = false
	case cmp > 0:
		r.usub(r, pr.p)
	default:
		r.strip()
	}
	return r
}

// k256Split splits at bit 256 = 9 words + 22 bits.
func k256Split(input, out *Int) {
	const mask = 0x3fffff
	outLen := len(input.words)
	if outLen > 9 {
		outLen = 9
	}
	out.neg = false
	out.words = append(out.words[:0], input.words[:outLen]...)
	if len(input.words) <= 9 {
		input.words = append(input.words[:0], 0)
		out.strip()
		return
	}

	prev := input.words[9]
	out.words = append(out.words, prev&mask)
	out.strip()

	i := 10
	for ; i < len(input.words); i++ {
		next := input.words[i]
		input.words[i-10] = (next&mask)<<4 | prev>>22
		prev = next
	}
	prev >>= 22
	input.words[i-10] = prev
	if prev == 0 && len(input.words) > 10 {
		input.words = input.words[:len(input.words)-10]
	} else {
		input.words = input.words[:len(input.words)-9]
	}
	input.strip()
}

// k256MulK multiplies by k = 0x1000003d1 = 0x40 * 2^26 + 0x3d1.
func k256MulK(num *Int) *Int {
	num.words = append(num.words, 0, 0)
	var lo uint64
	for i, w := range num.words {
		lo += uint64(w) * 0x3d1
		num.words[i] = uint32(lo & wordMask)
		lo = uint64(w)*0x40 + lo>>wordBits
	}
	return num.strip()
}
