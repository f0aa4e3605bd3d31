package eddsa

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/mahdiidarabi/ecbn/internal/workpool"
)

// Report summarises a batch run. Failures holds the indices of invalid
// records in ascending order.
type Report struct {
	Total    int
	Valid    int
	Invalid  int
	Failures []int
	Reasons  map[int]string
}

// Client provides a high-level API for batch Ed25519 verification.
type Client struct {
	ed      *EdDSA
	parser  SignatureParser
	workers int
	logger  *slog.Logger
}

// NewClient creates a new client with default settings.
func NewClient(ed *EdDSA) *Client {
	return &Client{
		ed:     ed,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// WithParser sets a custom record parser.
func (c *Client) WithParser(parser SignatureParser) *Client {
	c.parser = parser
	return c
}

// WithWorkers sets the worker count (0 = auto-detect).
func (c *Client) WithWorkers(n int) *Client {
	c.workers = n
	return c
}

// WithLogger sets the logger used for progress messages.
func (c *Client) WithLogger(logger *slog.Logger) *Client {
	if logger != nil {
		c.logger = logger
	}
	return c
}

// CheckRecord verifies a single record. The reason is empty on success.
func (ed *EdDSA) CheckRecord(rec *Record) (bool, string) {
	if rec == nil {
		return false, "missing record"
	}
	pub, err := ed.KeyFromPublic(rec.PubKey)
	if err != nil {
		return false, "invalid public key"
	}
	sig, err := ed.ParseSignature(rec.Sig)
	if err != nil {
		return false, "malformed signature"
	}
	if !ed.VerifySignature(rec.Message, sig, pub) {
		return false, "signature mismatch"
	}
	return true, ""
}

// VerifyFile parses the records in path and verifies them. Without an
// explicit parser the file extension selects CSV or JSON.
func (c *Client) VerifyFile(ctx context.Context, path string) (*Report, error) {
	records, err := c.parseFile(path)
	if err != nil {
		return nil, err
	}
	return c.VerifyRecords(ctx, records)
}

func (c *Client) parseFile(path string) ([]*Record, error) {
	parser := c.parser
	if parser == nil {
		if strings.EqualFold(filepath.Ext(path), ".csv") {
			parser = &CSVParser{}
		} else {
			parser = &JSONParser{}
		}
	}
	records, err := parser.ParseRecords(path)
	if err != nil {
		return nil, fmt.Errorf("failed to parse records: %w", err)
	}
	c.logger.Info("parsed records", "path", path, "count", len(records))
	return records, nil
}

// VerifyRecords verifies in-memory records on the worker pool.
func (c *Client) VerifyRecords(ctx context.Context, records []*Record) (*Report, error) {
	start := time.Now()
	report := &Report{Total: len(records), Reasons: make(map[int]string)}
	var mu sync.Mutex

	pool := workpool.New(c.workers)
	c.logger.Debug("verifying records", "workers", pool.Workers(), "count", len(records))
	err := pool.Run(ctx, len(records), func(_ context.Context, i int) error {
		ok, reason := c.ed.CheckRecord(records[i])
		mu.Lock()
		defer mu.Unlock()
		if ok {
			report.Valid++
			return nil
		}
		report.Invalid++
		report.Failures = append(report.Failures, i)
		report.Reasons[i] = reason
		return nil
	})
	sort.Ints(report.Failures)
	if err != nil {
		return report, fmt.Errorf("failed to verify records: %w", err)
	}
	for _, i := range report.Failures {
		c.logger.Warn("invalid record", "index", i, "reason", report.Reasons[i])
	}
	c.logger.Info("verification finished",
		"total", report.Total,
		"valid", report.Valid,
		"invalid", report.Invalid,
		"elapsed", time.Since(start))
	return report, nil
}
