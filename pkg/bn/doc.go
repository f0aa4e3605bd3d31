// Package bn implements sign-magnitude arbitrary-precision integers stored as
// little-endian 26-bit words, together with modular reduction contexts used
// by the curve and signature packages.
//
// # Quick Start
//
//	import "github.com/mahdiidarabi/ecbn/pkg/bn"
//
//	x := bn.MustParse("ff", 16)
//	fmt.Println(x.Text(10)) // 255
//
//	y := x.Mul(x).AddN(1).Umod(bn.New(97))
//
// # Reduction contexts
//
// A Red performs arithmetic modulo m. Values are moved into a context with
// ToRed and out with FromRed; while tagged they support only the Red*
// methods and read-only queries:
//
//	red, _ := bn.NewRedPrime("k256")
//	a := bn.New(7).ToRed(red)
//	root, ok := a.RedSqrt()
//
// NewRed uses plain division, NewRedPrime one of the pseudo-Mersenne
// reducers ("k256", "p224", "p192", "p25519") and NewMont Montgomery form.
//
// # Mutation
//
// Exported Int methods never modify their operands. Loops that need to
// avoid allocations use a Builder:
//
//	acc := bn.NewBuilder(x).IShl(8).IAddN(3).Int()
package bn
