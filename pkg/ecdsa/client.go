package ecdsa

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"
)

// Client provides a high-level API for batch signature verification.
type Client struct {
	ec       *EC
	strategy VerifyStrategy
	parser   SignatureParser
	logger   *slog.Logger
}

// NewClient creates a new client with default settings. The parser is
// chosen from the file extension unless WithParser sets one.
func NewClient(ec *EC) *Client {
	return &Client{
		ec:       ec,
		strategy: NewParallelStrategy(),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// WithStrategy sets a custom verification strategy.
func (c *Client) WithStrategy(strategy VerifyStrategy) *Client {
	c.strategy = strategy
	return c
}

// WithParser sets a custom record parser.
func (c *Client) WithParser(parser SignatureParser) *Client {
	c.parser = parser
	return c
}

// WithLogger sets the logger used for progress messages.
func (c *Client) WithLogger(logger *slog.Logger) *Client {
	if logger != nil {
		c.logger = logger
	}
	return c
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

// VerifyFile parses the records in path and verifies them.
func (c *Client) VerifyFile(ctx context.Context, path string) (*Report, error) {
	records, err := c.parseFile(path)
	if err != nil {
		return nil, err
	}
	return c.VerifyRecords(ctx, records)
}

// AuditFile parses the records in path and searches them for related
// nonces that reveal the private key of pub.
func (c *Client) AuditFile(ctx context.Context, path string, pub []byte, cfg AuditConfig) (*AuditResult, error) {
	records, err := c.parseFile(path)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	c.logger.Debug("auditing nonces",
		"relations", len(cfg.Relations),
		"a_range", cfg.ARange,
		"b_range", cfg.BRange,
		"max_pairs", cfg.MaxPairs)
	result, err := c.ec.AuditNonces(ctx, cfg, records, pub)
	if err != nil {
		return nil, fmt.Errorf("failed to audit nonces: %w", err)
	}
	c.logger.Warn("recovered private key",
		"relation", result.Relation.String(),
		"pair", result.Pair,
		"elapsed", time.Since(start))
	return result, nil
}

// VerifyRecords verifies in-memory records.
// Use this when you have already parsed records (e.g. from your own parser or API).
func (c *Client) VerifyRecords(ctx context.Context, records []*Record) (*Report, error) {
	start := time.Now()
	c.logger.Debug("verifying records",
		"curve", c.ec.Curve().Name(),
		"hash", c.ec.HashName(),
		"strategy", c.strategy.Name(),
		"count", len(records))

	report, err := c.strategy.Verify(ctx, c.ec, records)
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
