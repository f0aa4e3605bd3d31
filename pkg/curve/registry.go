package curve

import (
	"fmt"
	"sort"
	"sync"
)

// Preset is a named curve definition together with the hash its
// signatures conventionally use.
type Preset struct {
	Name   string
	Hash   string
	Config Config
}

// Presets returns the built-in curve definitions.
func Presets() []Preset {
	return []Preset{
		{
			Name: "p192",
			Hash: "sha256",
			Config: Config{
				Shape: Short,
				Prime: "p192",
				P:     "ffffffff ffffffff ffffffff fffffffe ffffffff ffffffff",
				A:     "ffffffff ffffffff ffffffff fffffffe ffffffff fffffffc",
				B:     "64210519 e59c80e7 0fa7e9ab 72243049 feb8deec c146b9b1",
				N:     "ffffffff ffffffff ffffffff 99def836 146bc9b1 b4d22831",
				G: []string{
					"188da80e b03090f6 7cbf20eb 43a18800 f4ff0afd 82ff1012",
					"07192b95 ffc8da78 631011ed 6b24cdd5 73f977a1 1e794811",
				},
			},
		},
		{
			Name: "p224",
			Hash: "sha256",
			Config: Config{
				Shape: Short,
				Prime: "p224",
				P:     "ffffffff ffffffff ffffffff ffffffff 00000000 00000000 00000001",
				A:     "ffffffff ffffffff ffffffff fffffffe ffffffff ffffffff fffffffe",
				B:     "b4050a85 0c04b3ab f5413256 5044b0b7 d7bfd8ba 270b3943 2355ffb4",
				N:     "ffffffff ffffffff ffffffff ffff16a2 e0b8f03e 13dd2945 5c5c2a3d",
				G: []string{
					"b70e0cbd 6bb4bf7f 321390b9 4a03c1d3 56c21122 343280d6 115c1d21",
					"bd376388 b5f723fb 4c22dfe6 cd4375a0 5a074764 44d58199 85007e34",
				},
			},
		},
		{
			Name: "p256",
			Hash: "sha256",
			Config: Config{
				Shape: Short,
				P:     "ffffffff 00000001 00000000 00000000 00000000 ffffffff ffffffff ffffffff",
				A:     "ffffffff 00000001 00000000 00000000 00000000 ffffffff ffffffff fffffffc",
				B:     "5ac635d8 aa3a93e7 b3ebbd55 769886bc 651d06b0 cc53b0f6 3bce3c3e 27d2604b",
				N:     "ffffffff 00000000 ffffffff ffffffff bce6faad a7179e84 f3b9cac2 fc632551",
				G: []string{
					"6b17d1f2 e12c4247 f8bce6e5 63a440f2 77037d81 2deb33a0 f4a13945 d898c296",
					"4fe342e2 fe1a7f9b 8ee7eb4a 7c0f9e16 2bce3357 6b315ece cbb64068 37bf51f5",
				},
			},
		},
		{
			Name: "p384",
			Hash: "sha384",
			Config: Config{
				Shape: Short,
				P: "ffffffff ffffffff ffffffff ffffffff ffffffff ffffffff ffffffff " +
					"fffffffe ffffffff 00000000 00000000 ffffffff",
				A: "ffffffff ffffffff ffffffff ffffffff ffffffff ffffffff ffffffff " +
					"fffffffe ffffffff 00000000 00000000 fffffffc",
				B: "b3312fa7 e23ee7e4 988e056b e3f82d19 181d9c6e fe814112 0314088f " +
					"5013875a c656398d 8a2ed19d 2a85c8ed d3ec2aef",
				N: "ffffffff ffffffff ffffffff ffffffff ffffffff ffffffff c7634d81 " +
					"f4372ddf 581a0db2 48b0a77a ecec196a ccc52973",
				G: []string{
					"aa87ca22 be8b0537 8eb1c71e f320ad74 6e1d3b62 8ba79b98 59f741e0 " +
						"82542a38 5502f25d bf55296c 3a545e38 72760ab7",
					"3617de4a 96262c6f 5d9e98bf 9292dc29 f8f41dbd 289a147c e9da3113 " +
						"b5f0b8c0 0a60b1ce 1d7e819d 7a431d7c 90ea0e5f",
				},
			},
		},
		{
			Name: "p521",
			Hash: "sha512",
			Config: Config{
				Shape: Short,
				P: "000001ff ffffffff ffffffff ffffffff ffffffff ffffffff " +
					"ffffffff ffffffff ffffffff ffffffff ffffffff " +
					"ffffffff ffffffff ffffffff ffffffff ffffffff ffffffff",
				A: "000001ff ffffffff ffffffff ffffffff ffffffff ffffffff " +
					"ffffffff ffffffff ffffffff ffffffff ffffffff " +
					"ffffffff ffffffff ffffffff ffffffff ffffffff fffffffc",
				B: "00000051 953eb961 8e1c9a1f 929a21a0 b68540ee a2da725b " +
					"99b315f3 b8b48991 8ef109e1 56193951 ec7e937b 1652c0bd " +
					"3bb1bf07 3573df88 3d2c34f1 ef451fd4 6b503f00",
				N: "000001ff ffffffff ffffffff ffffffff ffffffff ffffffff " +
					"ffffffff ffffffff fffffffa 51868783 bf2f966b 7fcc0148 " +
					"f709a5d0 3bb5c9b8 899c47ae bb6fb71e 91386409",
				G: []string{
					"000000c6 858e06b7 0404e9cd 9e3ecb66 2395b442 9c648139 " +
						"053fb521 f828af60 6b4d3dba a14b5e77 efe75928 fe1dc127 " +
						"a2ffa8de 3348b3c1 856a429b f97e7e31 c2e5bd66",
					"00000118 39296a78 9a3bc004 5c8a5fb4 2c7d1bd9 98f54449 " +
						"579b4468 17afbd17 273e662c 97ee7299 5ef42640 c550b901 " +
						"3fad0761 353c7086 a272c240 88be9476 9fd16650",
				},
			},
		},
		{
			Name: "secp256k1",
			Hash: "sha256",
			Config: Config{
				Shape: Short,
				Prime: "k256",
				P:     "ffffffff ffffffff ffffffff ffffffff ffffffff ffffffff fffffffe fffffc2f",
				A:     "0",
				B:     "7",
				N:     "ffffffff ffffffff ffffffff fffffffe baaedce6 af48a03b bfd25e8c d0364141",
				G: []string{
					"79be667e f9dcbbac 55a06295 ce870b07 029bfcdb 2dce28d9 59f2815b 16f81798",
					"483ada77 26a3c465 5da4fbfc 0e1108a8 fd17b448 a6855419 9c47d08f fb10d4b8",
				},
				Beta:   "7ae96a2b657c07106e64479eac3434e99cf0497512f58995c1396c28719501ee",
				Lambda: "5363ad4cc05c30e0a5261c028812645a122e22ea20816678df02967c1b23bd72",
				Basis: []BasisConfig{
					{A: "3086d221a7d46bcde86c90e49284eb15", B: "-e4437ed6010e88286f547fa90abfe4c3"},
					{A: "114ca50f7a8e2f3f657c1108d9d44cfd8", B: "3086d221a7d46bcde86c90e49284eb15"},
				},
			},
		},
		{
			Name: "curve25519",
			Hash: "sha256",
			Config: Config{
				Shape: Mont,
				Prime: "p25519",
				P:     "7fffffff ffffffff ffffffff ffffffff ffffffff ffffffff ffffffff ffffffed",
				A:     "76d06",
				B:     "1",
				N:     "10000000 00000000 00000000 00000000 14def9de a2f79cd6 5812631a 5cf5d3ed",
				G:     []string{"9"},
			},
		},
		{
			Name: "ed25519",
			Hash: "sha512",
			Config: Config{
				Shape: Edwards,
				Prime: "p25519",
				P:     "7fffffff ffffffff ffffffff ffffffff ffffffff ffffffff ffffffff ffffffed",
				A:     "-1",
				C:     "1",
				D:     "52036cee2b6ffe738cc740797779e89800700a4d4141d8ab75eb4dca135978a3",
				N:     "10000000 00000000 00000000 00000000 14def9de a2f79cd6 5812631a 5cf5d3ed",
				G: []string{
					"216936d3cd6e53fec0a4e231fdd6dc5c692cc7609525a7b2c9562d608f25d51a",
					"6666666666666666666666666666666666666666666666666666666666666658",
				},
			},
		},
	}
}

// Registry builds named curves on first use. Each entry is built and
// validated exactly once; a Registry is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*registryEntry
}

type registryEntry struct {
	preset Preset
	once   sync.Once
	curve  *Curve
	err    error
}

// NewRegistry returns a registry holding presets. Later duplicates
// replace earlier ones.
func NewRegistry(presets ...Preset) *Registry {
	r := &Registry{entries: make(map[string]*registryEntry, len(presets))}
	for _, p := range presets {
		r.entries[p.Name] = &registryEntry{preset: p}
	}
	return r
}

// DefaultRegistry holds the built-in presets.
var DefaultRegistry = NewRegistry(Presets()...)

// ByName returns a curve from DefaultRegistry.
func ByName(name string) (*Curve, error) {
	return DefaultRegistry.Get(name)
}

// Register adds a preset. It fails when the name is taken.
func (r *Registry) Register(p Preset) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[p.Name]; ok {
		return fmt.Errorf("failed to register curve %q: name already registered", p.Name)
	}
	r.entries[p.Name] = &registryEntry{preset: p}
	return nil
}

// Names returns the registered curve names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Get returns the named curve, building it on first use.
func (r *Registry) Get(name string) (*Curve, error) {
	r.mu.RLock()
	e, ok := r.entries[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("failed to find curve %q: %w", name, ErrUnknownCurve)
	}
	e.once.Do(func() {
		e.curve, e.err = buildPreset(e.preset)
	})
	return e.curve, e.err
}

// buildPreset constructs the curve, checks that G lies on it with order n
// and attaches the generator's precomputed tables.
func buildPreset(p Preset) (*Curve, error) {
	c, err := New(p.Config)
	if err != nil {
		return nil, fmt.Errorf("failed to build curve %s: %w", p.Name, err)
	}
	c.name = p.Name
	c.hash = p.Hash

	g := c.G()
	if g == nil || c.n == nil {
		return c, nil
	}
	if !c.Validate(g) {
		return nil, fmt.Errorf("failed to build curve %s: generator is not on the curve: %w", p.Name, ErrInvalidConfig)
	}
	ng, err := c.Mul(g, c.n)
	if err != nil {
		return nil, err
	}
	if !ng.IsInfinity() {
		return nil, fmt.Errorf("failed to build curve %s: G*N != O: %w", p.Name, ErrInvalidConfig)
	}

	power := c.n.BitLen() + 1
	switch {
	case c.gShort != nil:
		c.gShort = c.gShort.Precompute(power)
	case c.gEd != nil:
		c.gEd = c.gEd.Precompute(power)
	}
	return c, nil
}

// Name returns the registry name of the curve, empty for curves built
// directly with New.
func (c *Curve) Name() string { return c.name }

// HashName returns the conventional signature hash of a preset curve.
func (c *Curve) HashName() string { return c.hash }
