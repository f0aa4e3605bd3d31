package bn

// Gcd returns the greatest common divisor of |x| and |y|.
func (x *Int) Gcd(y *Int) *Int {
	x.checkPlain("Gcd")
	y.checkPlain("Gcd")
	if x.IsZero() {
		return y.Abs()
	}
	if y.IsZero() {
		return x.Abs()
	}
	a, b := x.Abs(), y.Abs()
	shift := 0
	for a.IsEven() && b.IsEven() {
		a.ishrn(1)
		b.ishrn(1)
		shift++
	}
	for {
		for a.IsEven() {
			a.ishrn(1)
		}
		for b.IsEven() {
			b.ishrn(1)
		}
		r := a.Cmp(b)
		if r < 0 {
			a, b = b, a
		} else if r == 0 || b.CmpN(1) == 0 {
			break
		}
		a.isub(b)
	}
	return b.ishln(shift)
}

// Egcd runs the binary extended Euclidean algorithm against the positive p
// and returns a, b and g with a*(x mod p) + b*p == g == gcd(x, p).
func (x *Int) Egcd(p *Int) (a, b, g *Int) {
	x.checkPlain("Egcd")
	p.checkPlain("Egcd")
	invariant(!p.neg, "Egcd modulus must be non-negative")
	invariant(!p.IsZero(), "Egcd modulus must be non-zero")

	u := x.Umod(p)
	v := p.Clone()

	A, B := one(), zero()
	C, D := zero(), one()

	shift := 0
	for u.IsEven() && v.IsEven() {
		u.ishrn(1)
		v.ishrn(1)
		shift++
	}
	yp, xp := v.Clone(), u.Clone()

	for !u.IsZero() {
		for i := u.ZeroBits(); i > 0; i-- {
			u.ishrn(1)
			if A.IsOdd() || B.IsOdd() {
				A.iadd(yp)
				B.isub(xp)
			}
			A.ishrn(1)
			B.ishrn(1)
		}
		for i := v.ZeroBits(); i > 0; i-- {
			v.ishrn(1)
			if C.IsOdd() || D.IsOdd() {
				C.iadd(yp)
				D.isub(xp)
			}
			C.ishrn(1)
			D.ishrn(1)
		}
		if u.Cmp(v) >= 0 {
			u.isub(v)
			A.isub(C)
			B.isub(D)
		} else {
			v.isub(u)
			C.isub(A)
			D.isub(B)
		}
	}
	return C, D, v.ishln(shift)
}

// Invm returns the inverse of x modulo the positive m in [0, m).
// The result is meaningless when gcd(x, m) != 1.
func (x *Int) Invm(m *Int) *Int {
	a, _, _ := x.Egcd(m)
	return a.Umod(m)
}

// invmp computes x^-1 mod p for an odd positive p using only shifts and
// subtractions. The result lies in [0, p).
func invmp(x, p *Int) *Int {
	invariant(!p.neg, "invmp modulus must be non-negative")
	invariant(!p.IsZero(), "invmp modulus must be non-zero")

	a := x.plain()
	if a.neg || a.Cmp(p) >= 0 {
		a = a.Umod(p)
	}
	b := p.plain()
	x1, x2 := one(), zero()
	delta := p.plain()

	for a.CmpN(1) > 0 && b.CmpN(1) > 0 {
		for i := a.ZeroBits(); i > 0; i-- {
			a.ishrn(1)
			if x1.IsOdd() {
				x1.iadd(delta)
			}
			x1.ishrn(1)
		}
		for i := b.ZeroBits(); i > 0; i-- {
			b.ishrn(1)
			if x2.IsOdd() {
				x2.iadd(delta)
			}
			x2.ishrn(1)
		}
		if a.Cmp(b) >= 0 {
			a.isub(b)
			x1.isub(x2)
		} else {
			b.isub(a)
			x2.isub(x1)
		}
	}

	res := x2
	if a.CmpN(1) == 0 {
		res = x1
	}
	if res.neg {
		res.iadd(p)
	}
	if res.neg || res.Cmp(p) >= 0 {
		res = res.Umod(p)
	}
	return res
}
