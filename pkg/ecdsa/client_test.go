package ecdsa

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mahdiidarabi/ecbn/pkg/bn"
)

func TestClient_VerifyFile(t *testing.T) {
	ec := mustEC(t, "secp256k1")
	strategies := []VerifyStrategy{
		NewSequentialStrategy(),
		NewParallelStrategy(),
		NewParallelStrategy().WithConfig(ParallelConfig{NumWorkers: 1}),
	}
	for _, strategy := range strategies {
		t.Run(strategy.Name(), func(t *testing.T) {
			client := NewClient(ec).WithStrategy(strategy)

			report, err := client.VerifyFile(context.Background(), testdataPath(t, "records.json"))
			require.NoError(t, err)
			assert.Equal(t, 4, report.Total)
			assert.Equal(t, 2, report.Valid)
			assert.Equal(t, 2, report.Invalid)
			assert.Equal(t, []int{2, 3}, report.Failures)
			assert.Equal(t, "signature mismatch", report.Reasons[2])
			assert.Equal(t, "recovery parameter mismatch", report.Reasons[3])

			report, err = client.VerifyFile(context.Background(), testdataPath(t, "records.csv"))
			require.NoError(t, err)
			assert.Equal(t, 3, report.Total)
			assert.Equal(t, []int{2}, report.Failures)
		})
	}
}

func TestClient_WithParserAndLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	client := NewClient(mustEC(t, "secp256k1")).
		WithParser(&CSVParser{}).
		WithLogger(logger)
	report, err := client.VerifyFile(context.Background(), testdataPath(t, "records.csv"))
	require.NoError(t, err)
	assert.Equal(t, 2, report.Valid)

	out := buf.String()
	assert.Contains(t, out, "parsed records")
	assert.Contains(t, out, "invalid record")
	assert.Contains(t, out, "verification finished")
	assert.Contains(t, out, "strategy=ParallelStrategy")

	_, err = client.VerifyFile(context.Background(), testdataPath(t, "records.json"))
	assert.Error(t, err, "CSV parser cannot read JSON")
}

func TestStopOnFailure(t *testing.T) {
	ec := mustEC(t, "p256")
	key := ec.KeyFromPrivateInt(bn.New(2024))
	pub := key.PublicBytes(true)

	records := make([]*Record, 0, 40)
	for i := 0; i < 40; i++ {
		msg := []byte{byte(i)}
		sig, err := ec.SignMessage(msg, key, nil)
		require.NoError(t, err)
		if i == 0 {
			msg = []byte("forged")
		}
		records = append(records, &Record{Message: msg, Sig: sig, PubKey: pub})
	}

	report, err := (&SequentialStrategy{StopOnFailure: true}).Verify(context.Background(), ec, records)
	require.NoError(t, err)
	assert.Equal(t, []int{0}, report.Failures)
	assert.Equal(t, 0, report.Valid)

	parallel := NewParallelStrategy().WithConfig(ParallelConfig{NumWorkers: 2, StopOnFailure: true})
	report, err = parallel.Verify(context.Background(), ec, records)
	require.NoError(t, err)
	assert.Equal(t, []int{0}, report.Failures)
	assert.Less(t, report.Valid, 39)

	report, err = NewSequentialStrategy().Verify(context.Background(), ec, records)
	require.NoError(t, err)
	assert.Equal(t, 39, report.Valid)
}

func TestVerifyRecordsCancelled(t *testing.T) {
	ec := mustEC(t, "secp256k1")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	records := []*Record{{Message: []byte("m"), Sig: NewSignature(bn.New(1), bn.New(1))}}
	_, err := NewClient(ec).WithStrategy(NewSequentialStrategy()).VerifyRecords(ctx, records)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCheckRecordReasons(t *testing.T) {
	ec := mustEC(t, "secp256k1")
	key := ec.KeyFromPrivateInt(bn.New(9))
	sig, err := ec.SignMessage([]byte("m"), key, nil)
	require.NoError(t, err)

	tests := []struct {
		rec    *Record
		reason string
	}{
		{nil, "missing signature"},
		{&Record{Message: []byte("m"), Sig: sig}, "missing public key"},
		{&Record{Message: []byte("m"), Sig: sig, PubKey: []byte{0x02, 0x01}}, "invalid public key"},
		{&Record{Z: bn.New(-1), Sig: sig, PubKey: key.PublicBytes(true)}, ErrNegativeMessage.Error()},
		{&Record{Message: []byte("n"), Sig: sig, PubKey: key.PublicBytes(true)}, "signature mismatch"},
	}
	for _, tt := range tests {
		ok, reason := ec.CheckRecord(tt.rec)
		assert.False(t, ok)
		assert.Equal(t, tt.reason, reason)
	}

	ok, reason := ec.CheckRecord(&Record{
		Z:      bn.FromBytes(ec.Digest([]byte("m")), bn.BigEndian),
		Sig:    sig,
		PubKey: key.PublicBytes(false),
	})
	assert.True(t, ok)
	assert.Empty(t, reason)
}
