package bn

// NewMont returns a Montgomery reduction context for the odd modulus m > 1.
// Values are kept as x*r mod m with r = 2^shift, shift being the bit length
// of m rounded up to whole words.
func NewMont(m *Int) *Red {
	m.checkPlain("NewMont")
	invariant(m.CmpN(1) > 0, "modulus must be greater than 1")
	invariant(m.IsOdd(), "montgomery modulus must be odd")

	ctx := &Red{kind: redMont, m: m.Clone()}
	ctx.shift = m.BitLen()
	if rem := ctx.shift % wordBits; rem != 0 {
		ctx.shift += wordBits - rem
	}
	ctx.r = one().ishln(ctx.shift)
	ctx.r2 = ctx.imod(mulTo(ctx.r, ctx.r))
	ctx.rinv = invmp(ctx.r, ctx.m)

	// r*rinv - 1 = k*m, so k = -m^-1 mod r.
	k := mulTo(ctx.rinv, ctx.r).isubn(1)
	k, _ = divmod(k, ctx.m, divOnlyQuo, false)
	ctx.minv = k.imaskn(ctx.shift)
	return ctx
}

// redc returns t / r mod m for 0 <= t < m*r.
func (ctx *Red) redc(t *Int) *Int {
	if t.IsZero() {
		return zero()
	}
	u := mulTo(t.plain().imaskn(ctx.shift), ctx.minv).imaskn(ctx.shift)
	u = mulTo(u, ctx.m)
	u.iadd(t.plain())
	u.ishrn(ctx.shift)
	if u.Cmp(ctx.m) >= 0 {
		u.isub(ctx.m)
	}
	return u
}
