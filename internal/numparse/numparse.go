// Package numparse reads the loosely typed numbers found in signature
// dumps: hex with or without 0x, decimal strings and JSON numbers.
package numparse

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mahdiidarabi/ecbn/pkg/bn"
)

var ErrInvalidNumber = errors.New("invalid number format")

// Int parses val into an integer.
//
// Strings with a 0x prefix or any hex letter are hex; other strings are
// decimal. JSON numbers are always decimal.
func Int(val interface{}) (*bn.Int, error) {
	switch v := val.(type) {
	case string:
		s := strings.TrimSpace(v)
		if h, ok := trimHexPrefix(s); ok {
			return parse(h, 16, v)
		}
		if strings.ContainsAny(s, "abcdefABCDEF") {
			return parse(s, 16, v)
		}
		return parse(s, 10, v)

	case json.Number:
		return parse(string(v), 10, v)

	case float64:
		if v != float64(int64(v)) {
			return nil, fmt.Errorf("%v is not an integer: %w", v, ErrInvalidNumber)
		}
		return bn.New(int64(v)), nil

	case int64:
		return bn.New(v), nil

	case int:
		return bn.New(int64(v)), nil
	}
	return nil, fmt.Errorf("unsupported type %T: %w", val, ErrInvalidNumber)
}

// Hex parses s as hex, with or without a 0x prefix.
func Hex(s string) (*bn.Int, error) {
	s = strings.TrimSpace(s)
	if h, ok := trimHexPrefix(s); ok {
		s = h
	}
	return parse(s, 16, s)
}

// Bytes decodes a hex string, with or without a 0x prefix.
func Bytes(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if h, ok := trimHexPrefix(s); ok {
		s = h
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("failed to decode hex %q: %w", s, ErrInvalidNumber)
	}
	return b, nil
}

func trimHexPrefix(s string) (string, bool) {
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		return s[2:], true
	}
	return s, false
}

func parse(s string, base int, orig interface{}) (*bn.Int, error) {
	if s == "" {
		return nil, fmt.Errorf("empty number: %w", ErrInvalidNumber)
	}
	x, err := bn.Parse(s, base)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %v: %w", orig, ErrInvalidNumber)
	}
	return x, nil
}
