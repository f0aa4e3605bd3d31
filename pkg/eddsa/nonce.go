package eddsa

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mahdiidarabi/ecbn/internal/bruteforce"
	"github.com/mahdiidarabi/ecbn/pkg/bn"
)

// Relation is a candidate nonce relation r2 = A*r1 + B.
type Relation = bruteforce.Relation

// AuditConfig bounds a nonce audit.
type AuditConfig = bruteforce.Config

// ErrNoRelation is returned when an audit finds no related nonces.
var ErrNoRelation = bruteforce.ErrNotFound

var errDegenerate = errors.New("relation does not determine the key")

// DefaultAuditConfig tries the common relations, then a = 1 with |b| <= 100.
func DefaultAuditConfig() AuditConfig { return bruteforce.DefaultConfig() }

// AuditResult holds the private scalar recovered from two records. The
// secret it was derived from cannot be recovered, so the scalar is
// returned reduced mod n.
type AuditResult struct {
	Scalar   *bn.Int
	Relation Relation
	Pair     [2]int
}

// RecoverFromRelation solves s = r + h*a for the private scalar a given two
// signatures under pub whose nonces satisfy r2 = ca*r1 + cb:
//
//	a = (s2 - ca*s1 - cb) / (h2 - ca*h1) mod n
func (ed *EdDSA) RecoverFromRelation(msg1 []byte, sig1 *Signature, msg2 []byte, sig2 *Signature, pub *KeyPair, ca, cb *bn.Int) (*bn.Int, error) {
	h1 := ed.hashInt(sig1.encodedR(), pub.pubEnc, msg1)
	h2 := ed.hashInt(sig2.encodedR(), pub.pubEnc, msg2)

	num := sig2.S.Sub(ca.Mul(sig1.S)).Sub(cb).Umod(ed.n)
	den := h2.Sub(ca.Mul(h1)).Umod(ed.n)
	if den.IsZero() {
		return nil, fmt.Errorf("failed to recover private scalar: %w", errDegenerate)
	}
	a := num.Mul(den.Invm(ed.n)).Umod(ed.n)
	if a.IsZero() {
		return nil, fmt.Errorf("failed to recover private scalar: %w", errDegenerate)
	}
	return a, nil
}

// AuditNonces searches records signed under pub for related nonces.
// Records that do not parse are skipped.
func (ed *EdDSA) AuditNonces(ctx context.Context, cfg AuditConfig, records []*Record, pub []byte) (*AuditResult, error) {
	key, err := ed.KeyFromPublic(pub)
	if err != nil {
		return nil, err
	}

	var (
		index []int
		sigs  []*Signature
	)
	for i, rec := range records {
		if rec == nil {
			continue
		}
		sig, err := ed.ParseSignature(rec.Sig)
		if err != nil {
			continue
		}
		index = append(index, i)
		sigs = append(sigs, sig)
	}

	solve := func(i, j int, rel Relation) (*bn.Int, error) {
		return ed.RecoverFromRelation(
			records[index[i]].Message, sigs[i],
			records[index[j]].Message, sigs[j],
			key, bn.New(rel.A), bn.New(rel.B))
	}
	m, err := bruteforce.Search(ctx, cfg, len(index), func(i, j int, rel Relation) bool {
		a, err := solve(i, j, rel)
		return err == nil && ed.g.Mul(a).Eq(key.pub)
	})
	if err != nil {
		return nil, err
	}
	a, err := solve(m.Pair[0], m.Pair[1], m.Relation)
	if err != nil {
		return nil, err
	}
	return &AuditResult{
		Scalar:   a,
		Relation: m.Relation,
		Pair:     [2]int{index[m.Pair[0]], index[m.Pair[1]]},
	}, nil
}

// AuditFile parses the records in path and audits their nonces.
func (c *Client) AuditFile(ctx context.Context, path string, pub []byte, cfg AuditConfig) (*AuditResult, error) {
	records, err := c.parseFile(path)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	c.logger.Debug("auditing nonces", "count", len(records), "relations", len(cfg.Relations))
	result, err := c.ed.AuditNonces(ctx, cfg, records, pub)
	if err != nil {
		return nil, fmt.Errorf("failed to audit nonces: %w", err)
	}
	c.logger.Warn("recovered private scalar",
		"relation", result.Relation.String(),
		"pair", result.Pair,
		"elapsed", time.Since(start))
	return result, nil
}
