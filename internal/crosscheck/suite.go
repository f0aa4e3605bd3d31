package crosscheck

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"
	"sync"

	"github.com/mahdiidarabi/ecbn/internal/workpool"
)

// Check is one named comparison fed with random input.
type Check struct {
	Name string
	// Input is the number of random bytes Run reads per round.
	Input int
	Run   func(input []byte) error
}

// Result records how a check fared.
type Result struct {
	Name   string
	Rounds int
	Err    error
}

// Checks returns every comparison the package knows about.
func Checks() []Check {
	checks := []Check{
		{Name: "secp256k1/decred", Input: 64, Run: func(in []byte) error {
			d := sha256.Sum256(in[32:])
			return Decred(in[:32], d[:])
		}},
		{Name: "secp256k1/btcec", Input: 64, Run: func(in []byte) error {
			d := sha256.Sum256(in[32:])
			return Btcec(in[:32], d[:])
		}},
		{Name: "ed25519", Input: 64, Run: func(in []byte) error {
			return Ed25519(in[:32], in[32:])
		}},
		{Name: "x25519", Input: 64, Run: func(in []byte) error {
			return X25519(in[:32], in[32:])
		}},
	}
	for _, name := range StdlibCurves() {
		checks = append(checks, Check{Name: name + "/stdlib", Input: 96, Run: func(in []byte) error {
			d := sha256.Sum256(in[66:])
			return StdlibECDSA(name, in[:66], d[:])
		}})
	}
	return checks
}

// Run executes every check for the given number of rounds, drawing input
// from r (crypto/rand when nil). Checks run concurrently; each stops at
// its first failure.
func Run(ctx context.Context, r io.Reader, checks []Check, rounds, workers int) ([]Result, error) {
	if r == nil {
		r = rand.Reader
	}
	inputs := make([][][]byte, len(checks))
	for i, c := range checks {
		inputs[i] = make([][]byte, rounds)
		for j := range inputs[i] {
			buf := make([]byte, c.Input)
			if _, err := io.ReadFull(r, buf); err != nil {
				return nil, fmt.Errorf("failed to read input: %w", err)
			}
			inputs[i][j] = buf
		}
	}

	results := make([]Result, len(checks))
	for i, c := range checks {
		results[i].Name = c.Name
	}
	var mu sync.Mutex
	err := workpool.New(workers).Run(ctx, len(checks)*rounds, func(ctx context.Context, job int) error {
		i, j := job/rounds, job%rounds
		mu.Lock()
		failed := results[i].Err != nil
		mu.Unlock()
		if failed {
			return nil
		}

		err := checks[i].Run(inputs[i][j])

		mu.Lock()
		defer mu.Unlock()
		if err != nil && results[i].Err == nil {
			results[i].Err = fmt.Errorf("round %d: %w", j, err)
		}
		if err == nil {
			results[i].Rounds++
		}
		return nil
	})
	return results, err
}
