package bn

// redKind is the closed set of reduction strategies a Red may use.
type redKind int

const (
	redGeneric redKind = iota
	redPrime
	redMont
)

func (k redKind) String() string {
	switch k {
	case redGeneric:
		return "generic"
	case redPrime:
		return "pseudo-mersenne"
	case redMont:
		return "montgomery"
	}
	return "unknown"
}

// Red is a reduction context: arithmetic modulo m. Values enter a context
// through ToRed and leave through FromRed; tagged values may only be combined
// with values of the same context.
type Red struct {
	kind  redKind
	m     *Int
	prime *Prime

	// Montgomery parameters, set when kind == redMont.
	shift int
	r     *Int
	r2    *Int
	rinv  *Int
	minv  *Int
}

// NewRed returns a generic reduction context for the modulus m > 1.
func NewRed(m *Int) *Red {
	m.checkPlain("NewRed")
	invariant(m.CmpN(1) > 0, "modulus must be greater than 1")
	return &Red{kind: redGeneric, m: m.Clone()}
}

// NewRedPrime returns a context backed by the named pseudo-Mersenne reducer:
// "k256", "p224", "p192" or "p25519".
func NewRedPrime(name string) (*Red, error) {
	p, err := PrimeByName(name)
	if err != nil {
		return nil, err
	}
	return &Red{kind: redPrime, m: p.p, prime: p}, nil
}

// M returns a copy of the modulus.
func (ctx *Red) M() *Int {
	return ctx.m.Clone()
}

// Kind returns the name of the reduction strategy.
func (ctx *Red) Kind() string {
	return ctx.kind.String()
}

// Red returns the reduction context x is tagged with, or nil.
func (x *Int) Red() *Red {
	return x.red
}

// imod reduces a non-negative plain value into [0, m).
func (ctx *Red) imod(a *Int) *Int {
	if ctx.prime != nil {
		return ctx.prime.ireduce(a)
	}
	_, rem := divmod(a, ctx.m, divOnlyRem, true)
	return rem
}

func (ctx *Red) tag(a *Int) *Int {
	a.red = ctx
	return a
}

func (ctx *Red) verify1(a *Int) {
	invariant(!a.neg, "red works only with positives")
	invariant(a.red != nil, "red works only with red numbers")
	invariant(a.red == ctx, "red works only with numbers of the same context")
}

func (ctx *Red) verify2(a, b *Int) {
	invariant(!a.neg && !b.neg, "red works only with positives")
	invariant(a.red != nil && a.red == b.red, "red works only with red numbers of the same context")
	invariant(a.red == ctx, "red works only with numbers of the same context")
}

// ToRed converts the non-negative plain value x into the context ctx.
func (x *Int) ToRed(ctx *Red) *Int {
	invariant(x.red == nil, "already a number in reduction context")
	invariant(!x.neg, "red works only with positives")
	if ctx.kind == redMont {
		return ctx.tag(ctx.imod(x.plain().ishln(ctx.shift)))
	}
	return ctx.tag(ctx.imod(x.plain()))
}

// FromRed converts x out of its reduction context.
func (x *Int) FromRed() *Int {
	invariant(x.red != nil, "fromRed works only with numbers in reduction context")
	ctx := x.red
	if ctx.kind == redMont {
		return ctx.imod(mulTo(x.plain(), ctx.rinv))
	}
	return x.plain()
}

func (ctx *Red) add(a, b *Int) *Int {
	res := a.plain().iadd(b)
	if res.Cmp(ctx.m) >= 0 {
		res.isub(ctx.m)
	}
	return ctx.tag(res)
}

func (ctx *Red) sub(a, b *Int) *Int {
	res := a.plain().isub(b)
	if res.neg {
		res.iadd(ctx.m)
	}
	return ctx.tag(res)
}

func (ctx *Red) negate(a *Int) *Int {
	if a.IsZero() {
		return a.Clone()
	}
	return ctx.tag(ctx.m.plain().isub(a))
}

func (ctx *Red) mul(a, b *Int) *Int {
	if ctx.kind == redMont {
		return ctx.tag(ctx.redc(mulTo(a, b)))
	}
	return ctx.tag(ctx.imod(mulTo(a, b)))
}

func (ctx *Red) one() *Int {
	return one().ToRed(ctx)
}

// RedAdd returns x + y mod m.
func (x *Int) RedAdd(y *Int) *Int {
	invariant(x.red != nil, "redAdd works only with red numbers")
	x.red.verify2(x, y)
	return x.red.add(x, y)
}

// RedSub returns x - y mod m.
func (x *Int) RedSub(y *Int) *Int {
	invariant(x.red != nil, "redSub works only with red numbers")
	x.red.verify2(x, y)
	return x.red.sub(x, y)
}

// RedNeg returns -x mod m.
func (x *Int) RedNeg() *Int {
	invariant(x.red != nil, "redNeg works only with red numbers")
	x.red.verify1(x)
	return x.red.negate(x)
}

// RedShl returns x * 2^n mod m.
func (x *Int) RedShl(n int) *Int {
	invariant(x.red != nil, "redShl works only with red numbers")
	x.red.verify1(x)
	return x.red.tag(x.red.imod(x.plain().ishln(n)))
}

// RedMul returns x * y mod m.
func (x *Int) RedMul(y *Int) *Int {
	invariant(x.red != nil, "redMul works only with red numbers")
	x.red.verify2(x, y)
	return x.red.mul(x, y)
}

// RedSqr returns x^2 mod m.
func (x *Int) RedSqr() *Int {
	invariant(x.red != nil, "redSqr works only with red numbers")
	x.red.verify1(x)
	return x.red.mul(x, x)
}

// RedInvm returns x^-1 mod m. The modulus must be odd.
func (x *Int) RedInvm() *Int {
	invariant(x.red != nil, "redInvm works only with red numbers")
	ctx := x.red
	ctx.verify1(x)
	inv := invmp(x.plain(), ctx.m)
	if ctx.kind == redMont {
		return ctx.tag(ctx.imod(mulTo(inv, ctx.r2)))
	}
	return ctx.tag(inv)
}

// RedPow returns x^e mod m for a plain non-negative exponent e. The exponent
// is consumed from the top in 4-bit windows over a table of x^0..x^15.
func (x *Int) RedPow(e *Int) *Int {
	invariant(x.red != nil, "redPow works only with red numbers")
	e.checkPlain("RedPow exponent")
	invariant(!e.neg, "redPow exponent must be non-negative")
	ctx := x.red
	ctx.verify1(x)
	if e.IsZero() {
		return ctx.one()
	}
	if e.CmpN(1) == 0 {
		return x.Clone()
	}

	const windowSize = 4
	var wnd [1 << windowSize]*Int
	wnd[0] = ctx.one()
	wnd[1] = x
	for i := 2; i < len(wnd); i++ {
		wnd[i] = ctx.mul(wnd[i-1], x)
	}

	res := wnd[0]
	started := false
	current, currentLen := 0, 0
	start := e.BitLen() % wordBits
	if start == 0 {
		start = wordBits
	}
	for i := len(e.words) - 1; i >= 0; i-- {
		word := e.words[i]
		for j := start - 1; j >= 0; j-- {
			bit := int(word>>uint(j)) & 1
			if started {
				res = ctx.mul(res, res)
			}
			if bit == 0 && current == 0 {
				currentLen = 0
				continue
			}
			current = current<<1 | bit
			currentLen++
			if currentLen != windowSize && (i != 0 || j != 0) {
				continue
			}
			res = ctx.mul(res, wnd[current])
			started = true
			currentLen = 0
			current = 0
		}
		start = wordBits
	}
	return res
}

// RedSqrt returns a square root of x mod m for a prime m. ok is false when x
// is not a quadratic residue.
func (x *Int) RedSqrt() (root *Int, ok bool) {
	invariant(x.red != nil, "redSqrt works only with red numbers")
	ctx := x.red
	ctx.verify1(x)
	if x.IsZero() {
		return x.Clone(), true
	}
	mod4 := ctx.m.AndLn(3)
	invariant(mod4%2 == 1, "sqrt requires an odd modulus")

	if mod4 == 3 {
		root = x.RedPow(ctx.m.plain().iaddn(1).ishrn(2))
		return root, root.RedSqr().Eq(x)
	}

	oneR := ctx.one()
	nOne := oneR.RedNeg()
	lpow := ctx.m.plain().isubn(1).ishrn(1)
	if !x.RedPow(lpow).Eq(oneR) {
		return nil, false
	}

	// Tonelli-Shanks
	q := ctx.m.plain().isubn(1)
	s := 0
	for !q.IsZero() && q.IsEven() {
		s++
		q.ishrn(1)
	}
	invariant(!q.IsZero(), "sqrt modulus too small")

	z := New(2).ToRed(ctx)
	for !z.RedPow(lpow).Eq(nOne) {
		z = z.RedAdd(oneR)
	}

	c := z.RedPow(q)
	r := x.RedPow(q.plain().iaddn(1).ishrn(1))
	t := x.RedPow(q)
	m := s
	for !t.Eq(oneR) {
		tmp := t
		i := 0
		for ; !tmp.Eq(oneR); i++ {
			tmp = tmp.RedSqr()
		}
		invariant(i < m, "sqrt order did not decrease")
		b := c.RedPow(one().ishln(m - i - 1))
		r = r.RedMul(b)
		c = b.RedSqr()
		t = t.RedMul(c)
		m = i
	}
	return r, true
}
