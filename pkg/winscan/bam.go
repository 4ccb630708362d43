package winscan

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/biogo/hts/bam"
	"github.com/biogo/hts/sam"

	"github.com/lczech/genoscan/pkg/window"
)

// BAMSource adapts a coordinate-sorted BAM file into a Source. Unmapped
// records are skipped; mapped records yield their reference name and
// 1-based leftmost position. Chromosome lengths come from the reference
// dictionary in the BAM header.
type BAMSource[D any] struct {
	file    *os.File
	reader  *bam.Reader
	conv    func(*sam.Record) (D, error)
	lengths map[string]int
}

// OpenBAM opens a BAM file as a Source.
func OpenBAM[D any](path string, conv func(*sam.Record) (D, error)) (*BAMSource[D], error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open BAM file: %w", err)
	}
	reader, err := bam.NewReader(f, 1)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create BAM reader: %w", err)
	}

	lengths := make(map[string]int)
	for _, ref := range reader.Header().Refs() {
		lengths[ref.Name()] = ref.Len()
	}

	return &BAMSource[D]{
		file:    f,
		reader:  reader,
		conv:    conv,
		lengths: lengths,
	}, nil
}

// Next reads the next mapped record and applies the transform.
func (s *BAMSource[D]) Next() (string, int, D, error) {
	var zero D
	for {
		rec, err := s.reader.Read()
		if errors.Is(err, io.EOF) {
			return "", 0, zero, io.EOF
		}
		if err != nil {
			return "", 0, zero, fmt.Errorf("failed to read BAM record: %w", err)
		}
		if rec.Ref == nil || rec.Pos < 0 {
			continue
		}

		chromosome := rec.Ref.Name()
		position := rec.Pos + 1
		data, err := s.conv(rec)
		if err != nil {
			return "", 0, zero, errRecord(chromosome, position, err)
		}
		return chromosome, position, data, nil
	}
}

// ChromosomeLength returns the reference length from the BAM header, or 0.
func (s *BAMSource[D]) ChromosomeLength(chromosome string) int {
	return s.lengths[chromosome]
}

// Close closes the BAM reader and the underlying file.
func (s *BAMSource[D]) Close() error {
	err := s.reader.Close()
	if cerr := s.file.Close(); err == nil {
		err = cerr
	}
	return err
}

// RunBAM scans a coordinate-sorted BAM file through the generator, the same
// way RunVCF does for VCF input.
func RunBAM[D, A any](gen *window.Generator[D, A], path string, conv func(*sam.Record) (D, error)) error {
	src, err := OpenBAM(path, conv)
	if err != nil {
		return err
	}
	defer src.Close()
	return Run(gen, src)
}
