// Package bruteforce searches pairs of signatures for nonces related by
// k2 = a*k1 + b. Named relations are tried first, in order, then every
// (a, b) in a rectangular range on a worker pool.
package bruteforce

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/mahdiidarabi/ecbn/internal/workpool"
)

// ErrNotFound is returned when no pair satisfies any tested relation.
var ErrNotFound = errors.New("no affine nonce relation found")

// Relation is one candidate k2 = A*k1 + B.
type Relation struct {
	A, B int64
	Name string
}

func (r Relation) String() string {
	if r.Name != "" {
		return r.Name
	}
	return fmt.Sprintf("brute_force_a%d_b%d", r.A, r.B)
}

// CommonRelations returns the patterns seen in broken nonce generators,
// cheapest first.
func CommonRelations() []Relation {
	return []Relation{
		{1, 0, "same_nonce"},
		{1, 1, "counter_+1"},
		{1, -1, "counter_-1"},
		{1, 2, "counter_+2"},
		{1, -2, "counter_-2"},
		{1, 3, "counter_+3"},
		{1, -3, "counter_-3"},
		{1, 4, "counter_+4"},
		{1, -4, "counter_-4"},
		{1, 5, "counter_+5"},
		{1, -5, "counter_-5"},
		{1, 8, "step_8"},
		{1, 10, "step_10"},
		{1, 16, "step_16"},
		{1, 32, "step_32"},
		{1, 64, "step_64"},
		{1, 100, "step_100"},
		{1, 128, "step_128"},
		{1, 256, "step_256"},
		{1, 512, "step_512"},
		{1, 1000, "step_1000"},
		{1, 1024, "step_1024"},
		{1, 10000, "step_10000"},
		{2, 0, "multiply_2"},
		{2, 1, "multiply_2_+1"},
		{3, 0, "multiply_3"},
		{4, 0, "multiply_4"},
		{-1, 0, "negate"},
	}
}

// Config bounds a search.
type Config struct {
	// Relations are tried before the range search.
	Relations []Relation

	// ARange and BRange are inclusive [min, max] bounds. a = 0 is skipped.
	ARange [2]int64
	BRange [2]int64

	// MaxPairs limits the number of signature pairs (0 = all).
	MaxPairs int

	// NumWorkers controls parallelization (0 = auto-detect)
	NumWorkers int
}

// DefaultConfig tries the common relations, then a = 1 with |b| <= 100.
func DefaultConfig() Config {
	return Config{
		Relations: CommonRelations(),
		ARange:    [2]int64{1, 1},
		BRange:    [2]int64{-100, 100},
		MaxPairs:  100,
	}
}

// Match is a relation that produced the expected key.
type Match struct {
	Relation Relation
	Pair     [2]int
}

// TryFunc reports whether items i and j yield the expected key under rel.
// It is called concurrently.
type TryFunc func(i, j int, rel Relation) bool

// Pairs lists the index pairs i < j over n items, at most limit of them
// when limit > 0.
func Pairs(n, limit int) [][2]int {
	var pairs [][2]int
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if limit > 0 && len(pairs) == limit {
				return pairs
			}
			pairs = append(pairs, [2]int{i, j})
		}
	}
	return pairs
}

// Search runs cfg over n items.
func Search(ctx context.Context, cfg Config, n int, try TryFunc) (*Match, error) {
	if n < 2 {
		return nil, fmt.Errorf("need at least two signatures, got %d: %w", n, ErrNotFound)
	}
	if cfg.ARange[0] > cfg.ARange[1] || cfg.BRange[0] > cfg.BRange[1] {
		return nil, fmt.Errorf("empty search range a%v b%v", cfg.ARange, cfg.BRange)
	}
	pairs := Pairs(n, cfg.MaxPairs)

	for _, rel := range cfg.Relations {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for _, p := range pairs {
			if try(p[0], p[1], rel) {
				return &Match{Relation: rel, Pair: p}, nil
			}
		}
	}

	var (
		once  sync.Once
		found *Match
	)
	err := workpool.New(cfg.NumWorkers).Run(ctx, len(pairs), func(ctx context.Context, k int) error {
		p := pairs[k]
		for a := cfg.ARange[0]; a <= cfg.ARange[1]; a++ {
			if a == 0 {
				continue
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			for b := cfg.BRange[0]; b <= cfg.BRange[1]; b++ {
				rel := Relation{A: a, B: b}
				if try(p[0], p[1], rel) {
					once.Do(func() { found = &Match{Relation: rel, Pair: p} })
					return workpool.ErrStop
				}
			}
		}
		return nil
	})
	if found != nil {
		return found, nil
	}
	if err != nil && !errors.Is(err, workpool.ErrStop) {
		return nil, err
	}
	return nil, ErrNotFound
}
