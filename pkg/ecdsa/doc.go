// Package ecdsa implements ECDSA over the short Weierstrass curves of
// package curve: deterministic RFC 6979 signing, verification, public key
// recovery and batch verification of signature records.
//
// # Quick Start
//
//	ec, err := ecdsa.New("secp256k1")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	key, _ := ec.GenKeyPair(nil, nil)
//	sig, _ := ec.SignMessage([]byte("hello"), key, &ecdsa.SignOptions{Canonical: true})
//	fmt.Println(ec.VerifyMessage([]byte("hello"), sig, key))
//
// # Batch Verification
//
// Records are read from JSON or CSV files and checked by a strategy:
//
//	client := ecdsa.NewClient(ec).
//	    WithStrategy(ecdsa.NewParallelStrategy().WithConfig(ecdsa.ParallelConfig{
//	        NumWorkers:    8,
//	        StopOnFailure: true,
//	    })).
//	    WithLogger(slog.Default())
//
//	report, err := client.VerifyFile(ctx, "signatures.json")
//
// # Custom Strategies
//
// Implement the VerifyStrategy interface to control scheduling:
//
//	type MyStrategy struct{}
//
//	func (s *MyStrategy) Verify(ctx context.Context, ec *ecdsa.EC, records []*ecdsa.Record) (*ecdsa.Report, error) {
//	    // call ec.CheckRecord for each record
//	}
//
//	func (s *MyStrategy) Name() string {
//	    return "MyStrategy"
//	}
package ecdsa
