package bn

// Builder mutates a private Int in place. It exists for hot loops that would
// otherwise allocate a fresh Int per step; every method returns the builder
// so calls can be chained.
//
//	v := bn.NewBuilder(x).IShl(3).IAddN(1).IUmod(m).Int()
type Builder struct {
	z *Int
}

// NewBuilder starts a builder from a copy of x.
func NewBuilder(x *Int) *Builder {
	x.checkPlain("NewBuilder")
	return &Builder{z: x.Clone()}
}

func (b *Builder) cur() *Int {
	invariant(b.z != nil, "builder used after Int()")
	return b.z
}

func (b *Builder) IAdd(y *Int) *Builder   { y.checkPlain("IAdd"); b.cur().iadd(y); return b }
func (b *Builder) ISub(y *Int) *Builder   { y.checkPlain("ISub"); b.cur().isub(y); return b }
func (b *Builder) IAddN(n int64) *Builder { b.cur().iaddn(n); return b }
func (b *Builder) ISubN(n int64) *Builder { b.cur().isubn(n); return b }
func (b *Builder) IMulN(n int64) *Builder { b.cur().imuln(n); return b }
func (b *Builder) IShl(n int) *Builder    { b.cur().ishln(n); return b }
func (b *Builder) IShr(n int) *Builder    { b.cur().ishrn(n); return b }
func (b *Builder) IMaskN(n int) *Builder  { b.cur().imaskn(n); return b }
func (b *Builder) INeg() *Builder         { b.cur().ineg(); return b }
func (b *Builder) IAbs() *Builder         { b.cur().iabs(); return b }

// IMul sets the value to value*y.
func (b *Builder) IMul(y *Int) *Builder {
	y.checkPlain("IMul")
	b.z = mulTo(b.cur(), y)
	return b
}

// ISqr squares the value.
func (b *Builder) ISqr() *Builder {
	b.z = mulTo(b.cur(), b.z)
	return b
}

// IUmod reduces the value into [0, |m|).
func (b *Builder) IUmod(m *Int) *Builder {
	b.z = b.cur().Umod(m)
	return b
}

// IsOdd, AndLn and CmpN inspect the current value without copying it.
func (b *Builder) IsOdd() bool              { return b.cur().IsOdd() }
func (b *Builder) AndLn(mask uint32) uint32 { return b.cur().AndLn(mask) }
func (b *Builder) CmpN(n int64) int         { return b.cur().CmpN(n) }

// Peek returns a copy of the current value without detaching the builder.
func (b *Builder) Peek() *Int {
	return b.cur().Clone()
}

// Int returns the built value. The builder must not be used afterwards.
func (b *Builder) Int() *Int {
	z := b.cur()
	b.z = nil
	return z
}
