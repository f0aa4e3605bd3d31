package ecdsa

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/mahdiidarabi/ecbn/internal/numparse"
	"github.com/mahdiidarabi/ecbn/pkg/bn"
)

// Record is one signature to verify. Either Z (the digest as an integer)
// or Message is set; PubKey is a SEC1 point.
type Record struct {
	Message  []byte
	Z        *bn.Int
	Sig      *Signature
	PubKey   []byte
	Recovery *int
}

// SignatureParser reads signature records from a source.
type SignatureParser interface {
	// ParseRecords parses records from a file path.
	ParseRecords(source string) ([]*Record, error)
}

// Fields names the record fields. Empty names take the defaults.
type Fields struct {
	Message  string // default "message"
	Z        string // default "z"
	R        string // default "r"
	S        string // default "s"
	PubKey   string // default "pub"
	Recovery string // default "recovery"
}

func (f Fields) withDefaults() Fields {
	def := func(v *string, d string) {
		if *v == "" {
			*v = d
		}
	}
	def(&f.Message, "message")
	def(&f.Z, "z")
	def(&f.R, "r")
	def(&f.S, "s")
	def(&f.PubKey, "pub")
	def(&f.Recovery, "recovery")
	return f
}

// JSONParser parses a JSON array of objects.
//
// Expected format:
//
//	[
//	  {"message": "...", "r": "...", "s": "...", "pub": "02..."},
//	  {"z": "0x...", "r": "0x...", "s": "0x...", "pub": "04...", "recovery": 1}
//	]
type JSONParser struct {
	Fields Fields
}

// ParseRecords parses records from a JSON file.
func (p *JSONParser) ParseRecords(jsonFile string) ([]*Record, error) {
	file, err := os.Open(jsonFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	defer file.Close()
	return p.Parse(file)
}

// Parse reads records from r.
func (p *JSONParser) Parse(r io.Reader) ([]*Record, error) {
	decoder := json.NewDecoder(r)
	// keep large integers exact
	decoder.UseNumber()

	var items []map[string]interface{}
	if err := decoder.Decode(&items); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}

	f := p.Fields.withDefaults()
	records := make([]*Record, 0, len(items))
	for i, item := range items {
		get := func(name string) (string, bool, error) {
			v, ok := item[name]
			if !ok || v == nil {
				return "", false, nil
			}
			switch t := v.(type) {
			case string:
				return t, true, nil
			case json.Number:
				return t.String(), true, nil
			}
			return "", false, fmt.Errorf("record %d: field %s has type %T", i, name, v)
		}
		rec, err := buildRecord(f, get)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// CSVParser parses a CSV file with a header row.
type CSVParser struct {
	Fields Fields
}

// ParseRecords parses records from a CSV file.
func (p *CSVParser) ParseRecords(csvFile string) ([]*Record, error) {
	file, err := os.Open(csvFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()
	return p.Parse(file)
}

// Parse reads records from r.
func (p *CSVParser) Parse(r io.Reader) ([]*Record, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, col := range header {
		cols[col] = i
	}

	f := p.Fields.withDefaults()
	if _, ok := cols[f.R]; !ok {
		return nil, fmt.Errorf("missing required column %q", f.R)
	}
	if _, ok := cols[f.S]; !ok {
		return nil, fmt.Errorf("missing required column %q", f.S)
	}

	var records []*Record
	for line := 1; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read record: %w", err)
		}
		get := func(name string) (string, bool, error) {
			idx, ok := cols[name]
			if !ok || idx >= len(row) || row[idx] == "" {
				return "", false, nil
			}
			return row[idx], true, nil
		}
		rec, err := buildRecord(f, get)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// buildRecord assembles a record from named string fields.
func buildRecord(f Fields, get func(string) (string, bool, error)) (*Record, error) {
	rec := &Record{}

	z, ok, err := get(f.Z)
	if err != nil {
		return nil, err
	}
	if ok {
		if rec.Z, err = numparse.Int(z); err != nil {
			return nil, fmt.Errorf("failed to parse z: %w", err)
		}
	} else {
		msg, ok, err := get(f.Message)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("missing %s or %s field", f.Message, f.Z)
		}
		rec.Message = []byte(msg)
	}

	var r, s *bn.Int
	for _, part := range []struct {
		name string
		dst  **bn.Int
	}{{f.R, &r}, {f.S, &s}} {
		v, ok, err := get(part.name)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("missing %s field", part.name)
		}
		if *part.dst, err = numparse.Int(v); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", part.name, err)
		}
	}
	rec.Sig = NewSignature(r, s)

	pub, ok, err := get(f.PubKey)
	if err != nil {
		return nil, err
	}
	if ok {
		if rec.PubKey, err = numparse.Bytes(pub); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", f.PubKey, err)
		}
	}

	rp, ok, err := get(f.Recovery)
	if err != nil {
		return nil, err
	}
	if ok {
		j, err := numparse.Int(rp)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", f.Recovery, err)
		}
		v, fits := j.Int64()
		if !fits || v < 0 || v > 3 {
			return nil, fmt.Errorf("recovery %s: %w", rp, ErrInvalidRecoveryParam)
		}
		jv := int(v)
		rec.Recovery = &jv
		rec.Sig = rec.Sig.WithRecoveryParam(jv)
	}
	return rec, nil
}
