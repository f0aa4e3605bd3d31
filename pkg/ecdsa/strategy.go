package ecdsa

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/mahdiidarabi/ecbn/internal/workpool"
)

// VerifyStrategy defines how a batch of records is checked.
// Implement this interface to plug a custom scheduling policy into Client.
type VerifyStrategy interface {
	// Verify checks every record and reports which ones failed.
	// The context can be used for cancellation.
	Verify(ctx context.Context, ec *EC, records []*Record) (*Report, error)

	// Name returns a human-readable name for this strategy.
	Name() string
}

// Report summarises a batch run. Failures holds the indices of invalid
// records in ascending order.
type Report struct {
	Total    int
	Valid    int
	Invalid  int
	Failures []int
	Reasons  map[int]string
}

func (r *Report) fail(i int, reason string) {
	r.Invalid++
	r.Failures = append(r.Failures, i)
	if r.Reasons == nil {
		r.Reasons = make(map[int]string)
	}
	r.Reasons[i] = reason
}

// recordDigest returns the digest a record was signed over. z is the
// digest read as a big-endian integer.
func (ec *EC) recordDigest(rec *Record) ([]byte, error) {
	if rec.Z == nil {
		return ec.Digest(rec.Message), nil
	}
	if rec.Z.IsNeg() {
		return nil, ErrNegativeMessage
	}
	return rec.Z.Bytes(), nil
}

// CheckRecord verifies a single record. The reason is empty on success.
func (ec *EC) CheckRecord(rec *Record) (bool, string) {
	if rec == nil || rec.Sig == nil {
		return false, "missing signature"
	}
	if len(rec.PubKey) == 0 {
		return false, "missing public key"
	}
	key, err := ec.KeyFromPublic(rec.PubKey)
	if err != nil {
		return false, "invalid public key"
	}

	digest, err := ec.recordDigest(rec)
	if err != nil {
		return false, err.Error()
	}

	if !ec.Verify(digest, rec.Sig, key) {
		return false, "signature mismatch"
	}
	if rec.Recovery != nil {
		q, err := ec.RecoverPubKey(digest, rec.Sig, *rec.Recovery)
		if err != nil || !q.Eq(key.Public()) {
			return false, "recovery parameter mismatch"
		}
	}
	return true, ""
}

// SequentialStrategy checks records one after another.
type SequentialStrategy struct {
	// StopOnFailure ends the run at the first invalid record.
	StopOnFailure bool
}

// NewSequentialStrategy creates a sequential strategy that checks every record.
func NewSequentialStrategy() *SequentialStrategy {
	return &SequentialStrategy{}
}

// Name returns the strategy name.
func (s *SequentialStrategy) Name() string {
	return "SequentialStrategy"
}

// Verify checks the records in order.
func (s *SequentialStrategy) Verify(ctx context.Context, ec *EC, records []*Record) (*Report, error) {
	report := &Report{Total: len(records)}
	for i, rec := range records {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		ok, reason := ec.CheckRecord(rec)
		if ok {
			report.Valid++
			continue
		}
		report.fail(i, reason)
		if s.StopOnFailure {
			break
		}
	}
	return report, nil
}

// ParallelConfig configures ParallelStrategy.
type ParallelConfig struct {
	// NumWorkers controls parallelization (0 = auto-detect)
	NumWorkers int

	// StopOnFailure cancels outstanding work at the first invalid record
	StopOnFailure bool
}

// DefaultParallelConfig returns a sensible default configuration.
func DefaultParallelConfig() ParallelConfig {
	return ParallelConfig{
		NumWorkers:    0, // Auto-detect
		StopOnFailure: false,
	}
}

// ParallelStrategy spreads records over a worker pool.
type ParallelStrategy struct {
	config ParallelConfig
}

// NewParallelStrategy creates a parallel strategy with default configuration.
func NewParallelStrategy() *ParallelStrategy {
	return &ParallelStrategy{config: DefaultParallelConfig()}
}

// WithConfig sets the worker configuration.
func (s *ParallelStrategy) WithConfig(config ParallelConfig) *ParallelStrategy {
	s.config = config
	return s
}

// Name returns the strategy name.
func (s *ParallelStrategy) Name() string {
	return "ParallelStrategy"
}

// Verify checks the records concurrently. With StopOnFailure the report
// only covers the records checked before the run was cancelled.
func (s *ParallelStrategy) Verify(ctx context.Context, ec *EC, records []*Record) (*Report, error) {
	report := &Report{Total: len(records)}
	var mu sync.Mutex

	pool := workpool.New(s.config.NumWorkers)
	err := pool.Run(ctx, len(records), func(_ context.Context, i int) error {
		ok, reason := ec.CheckRecord(records[i])
		mu.Lock()
		defer mu.Unlock()
		if ok {
			report.Valid++
			return nil
		}
		report.fail(i, reason)
		if s.config.StopOnFailure {
			return workpool.ErrStop
		}
		return nil
	})
	sort.Ints(report.Failures)
	if err != nil && !errors.Is(err, workpool.ErrStop) {
		return report, err
	}
	return report, nil
}
