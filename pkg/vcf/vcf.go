// Package vcf is a minimal reader for the Variant Call Format, covering the
// header and record fields needed to drive windowed genome scans: contig
// names and lengths, sample names, and typed access to INFO and FORMAT
// values. It reads plain, gzip/bgzip and zstd compressed files.
package vcf

import (
	"fmt"
	"strconv"
	"strings"
)

// Contig is one reference sequence declared in the header.
type Contig struct {
	Name   string
	Length int // 0 if the header does not state a length
}

// FieldInfo describes an INFO or FORMAT field declared in the header.
type FieldInfo struct {
	ID          string
	Number      string
	Type        string
	Description string
}

// Header holds the parsed VCF header.
type Header struct {
	FileFormat string
	Contigs    []Contig
	Info       map[string]FieldInfo
	Format     map[string]FieldInfo
	Samples    []string
}

// ContigLength returns the declared length of a contig, or 0 if the contig
// is unknown or has no length.
func (h *Header) ContigLength(name string) int {
	for _, c := range h.Contigs {
		if c.Name == name {
			return c.Length
		}
	}
	return 0
}

// Record is one VCF data line.
type Record struct {
	Chromosome string
	Position   int // 1-based
	ID         string
	Ref        string
	Alt        []string
	Qual       float64 // negative if missing
	Filter     []string

	info    map[string]string
	format  []string
	samples [][]string
	header  *Header
}

// At returns the record's location as "chromosome:position", for error
// messages.
func (r *Record) At() string {
	return fmt.Sprintf("%s:%d", r.Chromosome, r.Position)
}

// HasInfo reports whether the INFO column contains the given key, including
// flag keys without a value.
func (r *Record) HasInfo(key string) bool {
	_, ok := r.info[key]
	return ok
}

// InfoString returns the raw INFO value for a key. Flags yield an empty
// string. The second return reports whether the key is present.
func (r *Record) InfoString(key string) (string, bool) {
	v, ok := r.info[key]
	return v, ok
}

// InfoInts returns the INFO value for a key parsed as a comma-separated
// list of integers.
func (r *Record) InfoInts(key string) ([]int, error) {
	raw, ok := r.info[key]
	if !ok {
		return nil, fmt.Errorf("record %s has no INFO field %q", r.At(), key)
	}
	parts := strings.Split(raw, ",")
	values := make([]int, 0, len(parts))
	for _, p := range parts {
		if p == "." {
			continue
		}
		v, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("record %s INFO field %q: %w", r.At(), key, err)
		}
		values = append(values, v)
	}
	return values, nil
}

// InfoFloats returns the INFO value for a key parsed as a comma-separated
// list of floats.
func (r *Record) InfoFloats(key string) ([]float64, error) {
	raw, ok := r.info[key]
	if !ok {
		return nil, fmt.Errorf("record %s has no INFO field %q", r.At(), key)
	}
	parts := strings.Split(raw, ",")
	values := make([]float64, 0, len(parts))
	for _, p := range parts {
		if p == "." {
			continue
		}
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, fmt.Errorf("record %s INFO field %q: %w", r.At(), key, err)
		}
		values = append(values, v)
	}
	return values, nil
}

// HasFormat reports whether the record's FORMAT column contains the key.
func (r *Record) HasFormat(key string) bool {
	return r.formatIndex(key) >= 0
}

// FormatStrings returns the raw per-sample values of a FORMAT key, in
// header sample order.
func (r *Record) FormatStrings(key string) ([]string, error) {
	idx := r.formatIndex(key)
	if idx < 0 {
		return nil, fmt.Errorf("record %s has no FORMAT field %q", r.At(), key)
	}
	values := make([]string, len(r.samples))
	for i, sample := range r.samples {
		if idx < len(sample) {
			values[i] = sample[idx]
		} else {
			// Trailing fields may be dropped per sample.
			values[i] = "."
		}
	}
	return values, nil
}

// FormatInts returns the per-sample values of a FORMAT key, each parsed as
// a comma-separated list of integers. Missing values yield empty lists.
func (r *Record) FormatInts(key string) ([][]int, error) {
	raw, err := r.FormatStrings(key)
	if err != nil {
		return nil, err
	}
	values := make([][]int, len(raw))
	for i, field := range raw {
		if field == "." || field == "" {
			continue
		}
		for _, p := range strings.Split(field, ",") {
			if p == "." {
				continue
			}
			v, err := strconv.Atoi(p)
			if err != nil {
				return nil, fmt.Errorf("record %s FORMAT field %q: %w", r.At(), key, err)
			}
			values[i] = append(values[i], v)
		}
	}
	return values, nil
}

func (r *Record) formatIndex(key string) int {
	for i, f := range r.format {
		if f == key {
			return i
		}
	}
	return -1
}
