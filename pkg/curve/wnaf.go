package curve

import "github.com/mahdiidarabi/ecbn/pkg/bn"

// The scalar multiplication algorithms below are shared by the short
// Weierstrass and Edwards point types. A is the point type callers hold;
// J is the representation accumulators are kept in. Edwards points use
// the same type for both.

type affineOps[A, J any] interface {
	isInf() bool
	neg() A
	toJ() J
	add(A) A
	dbl() A
	precomputed() *tables[A]
}

type projOps[A, J any] interface {
	isInf() bool
	add(J) J
	mixedAdd(A) J
	dblp(int) J
	toP() A
}

// tables holds the precomputed multiples attached to a point.
type tables[A any] struct {
	step    int
	doubles []A // P, 2^step P, 2^(2 step) P, ...
	wnd     int
	naf     []A // P, 3P, 5P, ..., (2^wnd - 1)P
}

const (
	defaultWnd     = 4
	precomputeWnd  = 8
	precomputeStep = 4
)

func nafPoints[A affineOps[A, J], J projOps[A, J]](p A, wnd int) (int, []A) {
	if t := p.precomputed(); t != nil && t.naf != nil {
		return t.wnd, t.naf
	}
	count := 1 << (wnd - 1)
	res := make([]A, count)
	res[0] = p
	if count > 1 {
		dbl := p.dbl()
		for i := 1; i < count; i++ {
			res[i] = res[i-1].add(dbl)
		}
	}
	return wnd, res
}

func doublings[A affineOps[A, J], J projOps[A, J]](p A, step, power int) (int, []A) {
	if t := p.precomputed(); t != nil && t.doubles != nil {
		return t.step, t.doubles
	}
	res := []A{p}
	acc := p
	for i := 0; i < power; i += step {
		for j := 0; j < step; j++ {
			acc = acc.dbl()
		}
		res = append(res, acc)
	}
	return step, res
}

func buildTables[A affineOps[A, J], J projOps[A, J]](p A, power int) *tables[A] {
	t := &tables[A]{}
	t.wnd, t.naf = nafPoints[A, J](p, precomputeWnd)
	t.step, t.doubles = doublings[A, J](p, precomputeStep, power)
	return t
}

// mapTables applies f to every precomputed point.
func mapTables[A any](t *tables[A], f func(A) A) *tables[A] {
	if t == nil {
		return nil
	}
	out := &tables[A]{step: t.step, wnd: t.wnd}
	if t.doubles != nil {
		out.doubles = make([]A, len(t.doubles))
		for i, q := range t.doubles {
			out.doubles[i] = f(q)
		}
	}
	if t.naf != nil {
		out.naf = make([]A, len(t.naf))
		for i, q := range t.naf {
			out.naf[i] = f(q)
		}
	}
	return out
}

func hasDoubles[A affineOps[A, J], J projOps[A, J]](p A, k *bn.Int) bool {
	t := p.precomputed()
	if t == nil || t.doubles == nil {
		return false
	}
	need := (k.BitLen() + 1 + t.step - 1) / t.step
	return len(t.doubles) >= need
}

// fixedNafMul multiplies a point carrying doubling tables by the
// non-negative k.
func fixedNafMul[A affineOps[A, J], J projOps[A, J]](c *Curve, p A, k *bn.Int, inf J) A {
	step, doubles := doublings[A, J](p, precomputeStep, 0)
	naf := nafDigits(k, 1, c.bitLen)

	top := (1 << (step + 1)) - 1
	if step%2 == 0 {
		top--
	}
	top /= 3

	repr := make([]int, 0, (len(naf)+step-1)/step)
	for j := 0; j < len(naf); j += step {
		w := 0
		for l := j + step - 1; l >= j; l-- {
			w = w<<1 + digitAt(naf, l)
		}
		repr = append(repr, w)
	}

	a, b := inf, inf
	for i := top; i > 0; i-- {
		for j, w := range repr {
			switch w {
			case i:
				b = b.mixedAdd(doubles[j])
			case -i:
				b = b.mixedAdd(doubles[j].neg())
			}
		}
		a = a.add(b)
	}
	return a.toP()
}

// wnafMul multiplies p by the non-negative k with a sliding window NAF.
func wnafMul[A affineOps[A, J], J projOps[A, J]](c *Curve, p A, k *bn.Int, inf J) A {
	wnd, pts := nafPoints[A, J](p, defaultWnd)
	naf := nafDigits(k, wnd, c.bitLen)

	acc := inf
	for i := len(naf) - 1; i >= 0; i-- {
		l := 0
		for ; i >= 0 && naf[i] == 0; i-- {
			l++
		}
		if i >= 0 {
			l++
		}
		acc = acc.dblp(l)
		if i < 0 {
			break
		}
		z := naf[i]
		if z > 0 {
			acc = acc.mixedAdd(pts[(z-1)>>1])
		} else {
			acc = acc.mixedAdd(pts[(-z-1)>>1].neg())
		}
	}
	return acc.toP()
}

// combIndex maps a pair of JSF digits (d1+1)*3 + (d2+1) to a signed odd
// index into the table [P1, P1+P2, P1-P2, P2].
var combIndex = [9]int{-3, -1, -5, -7, 0, 7, 5, 1, 3}

// wnafMulAdd computes sum(coeffs[i] * points[i]) for non-negative
// coefficients. Pairs of points without precomputed tables are combined
// through their joint sparse form.
func wnafMulAdd[A affineOps[A, J], J projOps[A, J]](c *Curve, defW int, points []A, coeffs []*bn.Int, inf J) J {
	n := len(points)
	wndWidth := make([]int, n)
	wnd := make([][]A, n)
	naf := make([][]int, n)
	for i, p := range points {
		wndWidth[i], wnd[i] = nafPoints[A, J](p, defW)
	}

	longest := 0
	for i := n - 1; i >= 1; i -= 2 {
		a, b := i-1, i
		if wndWidth[a] != 1 || wndWidth[b] != 1 {
			naf[a] = nafDigits(coeffs[a], wndWidth[a], c.bitLen)
			naf[b] = nafDigits(coeffs[b], wndWidth[b], c.bitLen)
			if len(naf[a]) > longest {
				longest = len(naf[a])
			}
			if len(naf[b]) > longest {
				longest = len(naf[b])
			}
			continue
		}

		pa, pb := points[a], points[b]
		wnd[a] = []A{
			pa,
			pa.toJ().mixedAdd(pb).toP(),
			pa.toJ().mixedAdd(pb.neg()).toP(),
			pb,
		}
		wnd[b] = nil

		j := jsf(coeffs[a], coeffs[b])
		if len(j[0]) > longest {
			longest = len(j[0])
		}
		naf[a] = make([]int, longest)
		naf[b] = make([]int, longest)
		for d := 0; d < longest; d++ {
			ja, jb := digitAt(j[0], d), digitAt(j[1], d)
			naf[a][d] = combIndex[(ja+1)*3+(jb+1)]
		}
	}
	if n%2 == 1 && naf[0] == nil {
		naf[0] = nafDigits(coeffs[0], wndWidth[0], c.bitLen)
		if len(naf[0]) > longest {
			longest = len(naf[0])
		}
	}

	acc := inf
	tmp := make([]int, n)
	for i := longest; i >= 0; i-- {
		k := 0
		for i >= 0 {
			zero := true
			for j := 0; j < n; j++ {
				tmp[j] = digitAt(naf[j], i)
				if tmp[j] != 0 {
					zero = false
				}
			}
			if !zero {
				break
			}
			k++
			i--
		}
		if i >= 0 {
			k++
		}
		acc = acc.dblp(k)
		if i < 0 {
			break
		}
		for j := 0; j < n; j++ {
			z := tmp[j]
			switch {
			case z > 0:
				acc = acc.mixedAdd(wnd[j][(z-1)>>1])
			case z < 0:
				acc = acc.mixedAdd(wnd[j][(-z-1)>>1].neg())
			}
		}
	}
	return acc
}
