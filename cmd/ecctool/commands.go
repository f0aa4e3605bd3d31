package main

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mahdiidarabi/ecbn/internal/crosscheck"
	"github.com/mahdiidarabi/ecbn/pkg/curve"
	"github.com/mahdiidarabi/ecbn/pkg/ecdsa"
	"github.com/mahdiidarabi/ecbn/pkg/eddsa"
)

// decodeHex accepts an optional 0x prefix.
func decodeHex(what, s string) ([]byte, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(strings.TrimSpace(s), "0x"), "0X")
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", what, err)
	}
	return b, nil
}

func required(name, v string) error {
	if v == "" {
		return fmt.Errorf("-%s is required", name)
	}
	return nil
}

func ecdsaContext(cfg *Config) (*ecdsa.EC, error) {
	c, err := curve.ByName(cfg.Curve)
	if err != nil {
		return nil, err
	}
	hashName := cfg.Hash
	if hashName == "" {
		hashName = c.HashName()
	}
	return ecdsa.NewWithCurve(c, hashName)
}

func shapeOf(cfg *Config) curve.Shape {
	c, err := curve.ByName(cfg.Curve)
	if err != nil {
		return curve.Short
	}
	return c.Shape()
}

// digestOf returns the digest given in hex, or the hash of message.
func digestOf(ec *ecdsa.EC, message, digest string) ([]byte, error) {
	if digest != "" {
		return decodeHex("digest", digest)
	}
	return ec.Digest([]byte(message)), nil
}

// parseECDSASignature accepts DER or the compact form.
func parseECDSASignature(b []byte) (*ecdsa.Signature, error) {
	sig, derErr := ecdsa.ParseDER(b)
	if derErr == nil {
		return sig, nil
	}
	sig, _, err := ecdsa.ParseCompact(b)
	if err != nil {
		return nil, fmt.Errorf("signature is neither DER (%v) nor compact (%w)", derErr, err)
	}
	return sig, nil
}

func runKeygen(_ context.Context, args []string, stdout, stderr io.Writer) error {
	fs, common := newFlagSet("keygen", stderr)
	entropy := fs.String("entropy", "", "Hex entropy to use instead of crypto/rand")
	pers := fs.String("pers", "", "Personalization string for the ECDSA key generator")
	cfg, logger, err := parseCommand(fs, common, args, stderr)
	if err != nil {
		return err
	}

	var src io.Reader = rand.Reader
	if *entropy != "" {
		b, err := decodeHex("entropy", *entropy)
		if err != nil {
			return err
		}
		src = bytes.NewReader(b)
	}

	switch shapeOf(cfg) {
	case curve.Edwards:
		ed, err := eddsa.New(cfg.Curve)
		if err != nil {
			return err
		}
		secret := make([]byte, 32)
		if _, err := io.ReadFull(src, secret); err != nil {
			return fmt.Errorf("failed to read entropy: %w", err)
		}
		key, err := ed.KeyFromSecret(secret)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "secret: %x\n", key.Secret())
		fmt.Fprintf(stdout, "public: %x\n", key.PublicBytes())
	case curve.Mont:
		c, err := curve.ByName(cfg.Curve)
		if err != nil {
			return err
		}
		scalar := make([]byte, 32)
		if _, err := io.ReadFull(src, scalar); err != nil {
			return fmt.Errorf("failed to read entropy: %w", err)
		}
		pub, err := c.X25519(scalar, basePoint())
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "private: %x\n", scalar)
		fmt.Fprintf(stdout, "public: %x\n", pub)
	default:
		ec, err := ecdsaContext(cfg)
		if err != nil {
			return err
		}
		key, err := ec.GenKeyPair(src, []byte(*pers))
		if err != nil {
			return err
		}
		priv, err := key.PrivateBytes()
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "private: %x\n", priv)
		fmt.Fprintf(stdout, "public: %x\n", key.PublicBytes(true))
		fmt.Fprintf(stdout, "uncompressed: %x\n", key.PublicBytes(false))
	}
	logger.Info("generated key", "curve", cfg.Curve)
	return nil
}

func runSign(_ context.Context, args []string, stdout, stderr io.Writer) error {
	fs, common := newFlagSet("sign", stderr)
	keyHex := fs.String("key", "", "Private key (ECDSA) or secret (EdDSA) in hex")
	message := fs.String("message", "", "Message to sign")
	digest := fs.String("digest", "", "Pre-hashed digest in hex (ECDSA only)")
	pers := fs.String("pers", "", "Personalization string for the nonce generator")
	cfg, logger, err := parseCommand(fs, common, args, stderr)
	if err != nil {
		return err
	}
	if err := required("key", *keyHex); err != nil {
		return err
	}
	priv, err := decodeHex("key", *keyHex)
	if err != nil {
		return err
	}

	if shapeOf(cfg) == curve.Edwards {
		ed, err := eddsa.New(cfg.Curve)
		if err != nil {
			return err
		}
		key, err := ed.KeyFromSecret(priv)
		if err != nil {
			return err
		}
		sig, err := key.Sign([]byte(*message))
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "signature: %s\n", sig)
		return nil
	}

	ec, err := ecdsaContext(cfg)
	if err != nil {
		return err
	}
	d, err := digestOf(ec, *message, *digest)
	if err != nil {
		return err
	}
	key := ec.KeyFromPrivate(priv)
	sig, err := ec.Sign(d, key, &ecdsa.SignOptions{Canonical: cfg.Canonical, Pers: []byte(*pers)})
	if err != nil {
		return err
	}
	compact, err := sig.Compact(ec.N().ByteLen(), true)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "r: %s\n", sig.R.Text(16))
	fmt.Fprintf(stdout, "s: %s\n", sig.S.Text(16))
	fmt.Fprintf(stdout, "recovery: %d\n", *sig.RecoveryParam)
	fmt.Fprintf(stdout, "der: %x\n", sig.ToDER())
	fmt.Fprintf(stdout, "compact: %x\n", compact)
	logger.Debug("signed digest", "curve", cfg.Curve, "hash", ec.HashName(), "digest", hex.EncodeToString(d))
	return nil
}

func runVerify(_ context.Context, args []string, stdout, stderr io.Writer) error {
	fs, common := newFlagSet("verify", stderr)
	pubHex := fs.String("pub", "", "Public key in hex")
	sigHex := fs.String("sig", "", "Signature in hex (DER or compact for ECDSA)")
	message := fs.String("message", "", "Signed message")
	digest := fs.String("digest", "", "Pre-hashed digest in hex (ECDSA only)")
	cfg, _, err := parseCommand(fs, common, args, stderr)
	if err != nil {
		return err
	}
	if err := required("pub", *pubHex); err != nil {
		return err
	}
	if err := required("sig", *sigHex); err != nil {
		return err
	}
	pubBytes, err := decodeHex("public key", *pubHex)
	if err != nil {
		return err
	}
	sigBytes, err := decodeHex("signature", *sigHex)
	if err != nil {
		return err
	}

	var ok bool
	if shapeOf(cfg) == curve.Edwards {
		ed, err := eddsa.New(cfg.Curve)
		if err != nil {
			return err
		}
		pub, err := ed.KeyFromPublic(pubBytes)
		if err != nil {
			return err
		}
		ok = ed.Verify([]byte(*message), sigBytes, pub)
	} else {
		ec, err := ecdsaContext(cfg)
		if err != nil {
			return err
		}
		pub, err := ec.KeyFromPublic(pubBytes)
		if err != nil {
			return err
		}
		sig, err := parseECDSASignature(sigBytes)
		if err != nil {
			return err
		}
		d, err := digestOf(ec, *message, *digest)
		if err != nil {
			return err
		}
		ok = ec.Verify(d, sig, pub)
	}
	if !ok {
		fmt.Fprintln(stdout, "invalid")
		return errInvalidSignature
	}
	fmt.Fprintln(stdout, "valid")
	return nil
}

func runRecover(_ context.Context, args []string, stdout, stderr io.Writer) error {
	fs, common := newFlagSet("recover", stderr)
	sigHex := fs.String("sig", "", "Compact signature, or DER with -recovery")
	recovery := fs.Int("recovery", -1, "Recovery parameter for a DER signature (0-3)")
	message := fs.String("message", "", "Signed message")
	digest := fs.String("digest", "", "Pre-hashed digest in hex")
	cfg, logger, err := parseCommand(fs, common, args, stderr)
	if err != nil {
		return err
	}
	if err := required("sig", *sigHex); err != nil {
		return err
	}
	ec, err := ecdsaContext(cfg)
	if err != nil {
		return err
	}
	sigBytes, err := decodeHex("signature", *sigHex)
	if err != nil {
		return err
	}
	sig, err := parseECDSASignature(sigBytes)
	if err != nil {
		return err
	}
	j := *recovery
	if j < 0 {
		if sig.RecoveryParam == nil {
			return fmt.Errorf("-recovery is required for a DER signature: %w", ecdsa.ErrInvalidRecoveryParam)
		}
		j = *sig.RecoveryParam
	}
	d, err := digestOf(ec, *message, *digest)
	if err != nil {
		return err
	}
	q, err := ec.RecoverPubKey(d, sig, j)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "public: %x\n", q.Encode(true))
	fmt.Fprintf(stdout, "uncompressed: %x\n", q.Encode(false))
	logger.Debug("recovered key", "curve", cfg.Curve, "recovery", j)
	return nil
}

func runBatch(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs, common := newFlagSet("batch", stderr)
	file := fs.String("file", "", "Path to records file (JSON or CSV)")
	stopOnFailure := fs.Bool("stop-on-failure", false, "Stop at the first invalid record (ECDSA only)")
	sequential := fs.Bool("sequential", false, "Verify records one at a time (ECDSA only)")
	cfg, logger, err := parseCommand(fs, common, args, stderr)
	if err != nil {
		return err
	}
	if err := required("file", *file); err != nil {
		return err
	}

	var total, valid int
	var failures []int
	var reasons map[int]string
	if shapeOf(cfg) == curve.Edwards {
		ed, err := eddsa.New(cfg.Curve)
		if err != nil {
			return err
		}
		client := eddsa.NewClient(ed).WithWorkers(cfg.Workers).WithLogger(logger)
		switch cfg.Format {
		case "json":
			client = client.WithParser(&eddsa.JSONParser{})
		case "csv":
			client = client.WithParser(&eddsa.CSVParser{})
		}
		report, err := client.VerifyFile(ctx, *file)
		if err != nil {
			return err
		}
		total, valid, failures, reasons = report.Total, report.Valid, report.Failures, report.Reasons
	} else {
		ec, err := ecdsaContext(cfg)
		if err != nil {
			return err
		}
		var strategy ecdsa.VerifyStrategy = ecdsa.NewParallelStrategy().WithConfig(ecdsa.ParallelConfig{
			NumWorkers:    cfg.Workers,
			StopOnFailure: *stopOnFailure,
		})
		if *sequential {
			s := ecdsa.NewSequentialStrategy()
			s.StopOnFailure = *stopOnFailure
			strategy = s
		}
		client := ecdsa.NewClient(ec).WithStrategy(strategy).WithLogger(logger)
		switch cfg.Format {
		case "json":
			client = client.WithParser(&ecdsa.JSONParser{})
		case "csv":
			client = client.WithParser(&ecdsa.CSVParser{})
		}
		report, err := client.VerifyFile(ctx, *file)
		if err != nil {
			return err
		}
		total, valid, failures, reasons = report.Total, report.Valid, report.Failures, report.Reasons
	}

	fmt.Fprintf(stdout, "total: %d\nvalid: %d\ninvalid: %d\n", total, valid, len(failures))
	for _, i := range failures {
		fmt.Fprintf(stdout, "  record %d: %s\n", i, reasons[i])
	}
	if len(failures) > 0 {
		return errInvalidRecords
	}
	return nil
}

// basePoint is the u-coordinate 9 in little-endian form.
func basePoint() []byte {
	u := make([]byte, 32)
	u[0] = 9
	return u
}

func runX25519(_ context.Context, args []string, stdout, stderr io.Writer) error {
	fs, common := newFlagSet("x25519", stderr)
	scalarHex := fs.String("scalar", "", "32-byte scalar in hex")
	uHex := fs.String("u", "", "32-byte u-coordinate in hex (default: base point)")
	if _, _, err := parseCommand(fs, common, args, stderr); err != nil {
		return err
	}
	if err := required("scalar", *scalarHex); err != nil {
		return err
	}
	scalar, err := decodeHex("scalar", *scalarHex)
	if err != nil {
		return err
	}
	u := basePoint()
	if *uHex != "" {
		if u, err = decodeHex("u", *uHex); err != nil {
			return err
		}
	}
	c, err := curve.ByName("curve25519")
	if err != nil {
		return err
	}
	out, err := c.X25519(scalar, u)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "%x\n", out)
	return nil
}

func runSelftest(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs, common := newFlagSet("selftest", stderr)
	rounds := fs.Int("rounds", 16, "Random inputs per check")
	only := fs.String("only", "", "Run only checks whose name contains this string")
	cfg, logger, err := parseCommand(fs, common, args, stderr)
	if err != nil {
		return err
	}
	if *rounds < 1 {
		return fmt.Errorf("-rounds must be positive, got %d", *rounds)
	}

	var checks []crosscheck.Check
	for _, c := range crosscheck.Checks() {
		if strings.Contains(c.Name, *only) {
			checks = append(checks, c)
		}
	}
	if len(checks) == 0 {
		return fmt.Errorf("no check matches %q", *only)
	}

	logger.Info("running self test", "checks", len(checks), "rounds", *rounds, "workers", cfg.Workers)
	results, err := crosscheck.Run(ctx, nil, checks, *rounds, cfg.Workers)
	if err != nil {
		return err
	}
	var failed []error
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(stdout, "FAIL %-20s %v\n", r.Name, r.Err)
			failed = append(failed, fmt.Errorf("%s: %w", r.Name, r.Err))
			continue
		}
		fmt.Fprintf(stdout, "ok   %-20s %d rounds\n", r.Name, r.Rounds)
	}
	return errors.Join(failed...)
}

// parseRange reads "min,max".
func parseRange(s string) ([2]int64, error) {
	lo, hi, ok := strings.Cut(s, ",")
	if !ok {
		return [2]int64{}, fmt.Errorf("invalid range format: %s", s)
	}
	from, err := strconv.ParseInt(strings.TrimSpace(lo), 10, 64)
	if err != nil {
		return [2]int64{}, err
	}
	to, err := strconv.ParseInt(strings.TrimSpace(hi), 10, 64)
	if err != nil {
		return [2]int64{}, err
	}
	if from > to {
		return [2]int64{}, fmt.Errorf("invalid range %s: min exceeds max", s)
	}
	return [2]int64{from, to}, nil
}

func runAudit(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs, common := newFlagSet("audit", stderr)
	file := fs.String("file", "", "Path to records file (JSON or CSV)")
	pubHex := fs.String("pub", "", "Public key of the signer in hex")
	aRange := fs.String("a-range", "1,1", "Range for a values (format: min,max)")
	bRange := fs.String("b-range", "-100,100", "Range for b values (format: min,max)")
	maxPairs := fs.Int("max-pairs", 100, "Maximum signature pairs to test")
	skipCommon := fs.Bool("skip-common", false, "Skip the common relations and search the ranges only")
	cfg, logger, err := parseCommand(fs, common, args, stderr)
	if err != nil {
		return err
	}
	if err := required("file", *file); err != nil {
		return err
	}
	if err := required("pub", *pubHex); err != nil {
		return err
	}
	pub, err := decodeHex("public key", *pubHex)
	if err != nil {
		return err
	}

	audit := ecdsa.DefaultAuditConfig()
	if audit.ARange, err = parseRange(*aRange); err != nil {
		return fmt.Errorf("a-range: %w", err)
	}
	if audit.BRange, err = parseRange(*bRange); err != nil {
		return fmt.Errorf("b-range: %w", err)
	}
	audit.MaxPairs = *maxPairs
	audit.NumWorkers = cfg.Workers
	if *skipCommon {
		audit.Relations = nil
	}

	if shapeOf(cfg) == curve.Edwards {
		ed, err := eddsa.New(cfg.Curve)
		if err != nil {
			return err
		}
		client := eddsa.NewClient(ed).WithLogger(logger)
		switch cfg.Format {
		case "json":
			client = client.WithParser(&eddsa.JSONParser{})
		case "csv":
			client = client.WithParser(&eddsa.CSVParser{})
		}
		res, err := client.AuditFile(ctx, *file, pub, audit)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "relation: %s\npair: %d,%d\nscalar: %s\n",
			res.Relation, res.Pair[0], res.Pair[1], res.Scalar.TextPad(16, 2*ed.EncodingLength()))
		return nil
	}

	ec, err := ecdsaContext(cfg)
	if err != nil {
		return err
	}
	client := ecdsa.NewClient(ec).WithLogger(logger)
	switch cfg.Format {
	case "json":
		client = client.WithParser(&ecdsa.JSONParser{})
	case "csv":
		client = client.WithParser(&ecdsa.CSVParser{})
	}
	res, err := client.AuditFile(ctx, *file, pub, audit)
	if err != nil {
		return err
	}
	priv, err := res.Key.PrivateBytes()
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "relation: %s\npair: %d,%d\nprivate: %x\n", res.Relation, res.Pair[0], res.Pair[1], priv)
	return nil
}
