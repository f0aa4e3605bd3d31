package ecdsa

import (
	"crypto/sha256"
	"crypto/sha512"
	"fmt"
	"hash"
	"sort"

	"golang.org/x/crypto/sha3"
)

var hashes = map[string]func() hash.Hash{
	"sha256":   sha256.New,
	"sha384":   sha512.New384,
	"sha512":   sha512.New,
	"sha3-256": sha3.New256,
	"sha3-512": sha3.New512,
}

// HashByName returns the constructor of a supported hash function.
func HashByName(name string) (func() hash.Hash, error) {
	h, ok := hashes[name]
	if !ok {
		return nil, fmt.Errorf("failed to find hash %q: %w", name, ErrUnknownHash)
	}
	return h, nil
}

// HashNames lists the names HashByName accepts.
func HashNames() []string {
	names := make([]string, 0, len(hashes))
	for name := range hashes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
