package eddsa

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mahdiidarabi/ecbn/internal/numparse"
)

// Record is one signature to verify.
type Record struct {
	Message []byte
	Sig     []byte // R || S
	PubKey  []byte
}

// SignatureParser reads signature records from a source.
type SignatureParser interface {
	// ParseRecords parses records from a file path.
	ParseRecords(source string) ([]*Record, error)
}

// Fields names the record fields. Empty names take the defaults.
type Fields struct {
	Message string // default "message"
	Sig     string // default "sig"
	PubKey  string // default "pub"
}

func (f Fields) withDefaults() Fields {
	if f.Message == "" {
		f.Message = "message"
	}
	if f.Sig == "" {
		f.Sig = "sig"
	}
	if f.PubKey == "" {
		f.PubKey = "pub"
	}
	return f
}

// JSONParser parses a JSON array of objects.
//
// Expected format:
//
//	[
//	  {"message": "text or 0x-prefixed hex", "sig": "hex", "pub": "hex"},
//	  ...
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
	var items []map[string]string
	if err := json.NewDecoder(r).Decode(&items); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	f := p.Fields.withDefaults()
	records := make([]*Record, 0, len(items))
	for i, item := range items {
		rec, err := buildRecord(f, func(name string) (string, bool) {
			v, ok := item[name]
			return v, ok
		})
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
	var records []*Record
	for line := 1; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read record: %w", err)
		}
		rec, err := buildRecord(f, func(name string) (string, bool) {
			idx, ok := cols[name]
			if !ok || idx >= len(row) {
				return "", false
			}
			return row[idx], true
		})
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// buildRecord assembles a record. Messages with a 0x prefix are hex; any
// other message is taken as text.
func buildRecord(f Fields, get func(string) (string, bool)) (*Record, error) {
	msg, ok := get(f.Message)
	if !ok {
		return nil, fmt.Errorf("missing %s field", f.Message)
	}
	rec := &Record{Message: []byte(msg)}
	if strings.HasPrefix(msg, "0x") || strings.HasPrefix(msg, "0X") {
		b, err := numparse.Bytes(msg)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", f.Message, err)
		}
		rec.Message = b
	}

	sig, ok := get(f.Sig)
	if !ok || sig == "" {
		return nil, fmt.Errorf("missing %s field", f.Sig)
	}
	b, err := numparse.Bytes(sig)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", f.Sig, err)
	}
	rec.Sig = b

	pub, ok := get(f.PubKey)
	if !ok || pub == "" {
		return nil, fmt.Errorf("missing %s field", f.PubKey)
	}
	if rec.PubKey, err = numparse.Bytes(pub); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", f.PubKey, err)
	}
	return rec, nil
}
