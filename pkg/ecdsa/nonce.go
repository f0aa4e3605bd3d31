package ecdsa

import (
	"context"
	"fmt"

	"github.com/mahdiidarabi/ecbn/internal/bruteforce"
	"github.com/mahdiidarabi/ecbn/pkg/bn"
)

// Relation is a candidate nonce relation k2 = A*k1 + B.
type Relation = bruteforce.Relation

// AuditConfig bounds a nonce audit.
type AuditConfig = bruteforce.Config

// ErrNoRelation is returned when an audit finds no related nonces.
var ErrNoRelation = bruteforce.ErrNotFound

// CommonRelations lists the relations tried before the range search.
func CommonRelations() []Relation { return bruteforce.CommonRelations() }

// DefaultAuditConfig tries the common relations, then a = 1 with |b| <= 100.
func DefaultAuditConfig() AuditConfig { return bruteforce.DefaultConfig() }

// AuditResult is a private key recovered from two records.
type AuditResult struct {
	Key      *KeyPair
	Relation Relation
	// Pair holds the indices of the two records.
	Pair [2]int
}

// RecoverFromRelation returns the private key that produced sig1 and sig2
// if their nonces satisfy k2 = a*k1 + b:
//
//	d = (a*s2*z1 - s1*z2 + b*s1*s2) / (r2*s1 - a*r1*s2) mod n
//
// The result is only a candidate; compare its public key to the expected
// one.
func (ec *EC) RecoverFromRelation(digest1 []byte, sig1 *Signature, digest2 []byte, sig2 *Signature, a, b *bn.Int) (*KeyPair, error) {
	n := ec.n
	z1 := ec.hashToInt(digest1, 0)
	z2 := ec.hashToInt(digest2, 0)
	s1s2 := sig1.S.Mul(sig2.S)

	num := a.Mul(sig2.S).Mul(z1).
		Sub(sig1.S.Mul(z2)).
		Add(b.Mul(s1s2)).
		Umod(n)
	den := sig2.R.Mul(sig1.S).
		Sub(a.Mul(sig1.R).Mul(sig2.S)).
		Umod(n)
	if den.IsZero() {
		return nil, fmt.Errorf("failed to recover private key: denominator is zero")
	}
	priv := num.Mul(den.Invm(n)).Umod(n)
	if priv.IsZero() {
		return nil, fmt.Errorf("failed to recover private key: key is zero")
	}
	return ec.KeyFromPrivateInt(priv), nil
}

// AuditNonces searches records for pairs signed with related nonces and
// returns the private key behind pub. Records without a signature or with
// an unusable digest are skipped.
func (ec *EC) AuditNonces(ctx context.Context, cfg AuditConfig, records []*Record, pub []byte) (*AuditResult, error) {
	target, err := ec.KeyFromPublic(pub)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPublicKey, err)
	}

	var (
		index   []int
		digests [][]byte
	)
	for i, rec := range records {
		if rec == nil || rec.Sig == nil {
			continue
		}
		d, err := ec.recordDigest(rec)
		if err != nil {
			continue
		}
		index = append(index, i)
		digests = append(digests, d)
	}

	try := func(i, j int, rel Relation) bool {
		key, err := ec.RecoverFromRelation(
			digests[i], records[index[i]].Sig,
			digests[j], records[index[j]].Sig,
			bn.New(rel.A), bn.New(rel.B))
		return err == nil && key.Public().Eq(target.Public())
	}
	m, err := bruteforce.Search(ctx, cfg, len(index), try)
	if err != nil {
		return nil, err
	}
	i, j := m.Pair[0], m.Pair[1]
	key, err := ec.RecoverFromRelation(
		digests[i], records[index[i]].Sig,
		digests[j], records[index[j]].Sig,
		bn.New(m.Relation.A), bn.New(m.Relation.B))
	if err != nil {
		return nil, err
	}
	return &AuditResult{
		Key:      key,
		Relation: m.Relation,
		Pair:     [2]int{index[i], index[j]},
	}, nil
}
