package ecdsa

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mahdiidarabi/ecbn/pkg/bn"
)

var shortCurves = []string{"p192", "p224", "p256", "p384", "p521", "secp256k1"}

// testdataPath resolves a fixture relative to this source file so tests
// work from any working directory.
func testdataPath(t *testing.T, name string) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	require.True(t, ok)
	return filepath.Join(filepath.Dir(file), "testdata", name)
}

type keyInfo struct {
	Curve        string `json:"curve"`
	PrivateKey   string `json:"private_key"`
	PublicKeyHex string `json:"public_key_hex"`
}

// loadTestKeyInfo reads the key that signed the record fixtures.
func loadTestKeyInfo(t *testing.T) keyInfo {
	t.Helper()
	data, err := os.ReadFile(testdataPath(t, "key_info.json"))
	require.NoError(t, err)
	var info keyInfo
	require.NoError(t, json.Unmarshal(data, &info))
	return info
}

func mustEC(t *testing.T, name string) *EC {
	t.Helper()
	ec, err := New(name)
	require.NoError(t, err)
	return ec
}

func mustHex(t *testing.T, s string) *bn.Int {
	t.Helper()
	x, err := bn.Parse(s, 16)
	require.NoError(t, err)
	return x
}

func mustBytes(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	return b
}

func sha256Sum(msg string) []byte {
	h := sha256.Sum256([]byte(msg))
	return h[:]
}

func bytesHex(b []byte) string { return hex.EncodeToString(b) }
