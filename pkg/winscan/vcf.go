package winscan

import (
	"github.com/lczech/genoscan/pkg/vcf"
	"github.com/lczech/genoscan/pkg/window"
)

// VCFSource adapts a VCF reader into a Source, using a caller-supplied
// transform from record to payload. Chromosome lengths come from the contig
// lines of the VCF header.
type VCFSource[D any] struct {
	reader *vcf.Reader
	conv   func(*vcf.Record) (D, error)
}

// NewVCFSource wraps an open VCF reader.
func NewVCFSource[D any](reader *vcf.Reader, conv func(*vcf.Record) (D, error)) *VCFSource[D] {
	return &VCFSource[D]{reader: reader, conv: conv}
}

// OpenVCF opens a VCF file as a Source.
func OpenVCF[D any](path string, conv func(*vcf.Record) (D, error)) (*VCFSource[D], error) {
	reader, err := vcf.Open(path)
	if err != nil {
		return nil, err
	}
	return NewVCFSource(reader, conv), nil
}

// Header returns the header of the underlying VCF.
func (s *VCFSource[D]) Header() *vcf.Header {
	return s.reader.Header()
}

// Next reads the next record and applies the transform.
func (s *VCFSource[D]) Next() (string, int, D, error) {
	var zero D
	rec, err := s.reader.Read()
	if err != nil {
		return "", 0, zero, err
	}
	data, err := s.conv(rec)
	if err != nil {
		return "", 0, zero, errRecord(rec.Chromosome, rec.Position, err)
	}
	return rec.Chromosome, rec.Position, data, nil
}

// ChromosomeLength returns the contig length from the VCF header, or 0.
func (s *VCFSource[D]) ChromosomeLength(chromosome string) int {
	return s.reader.Header().ContigLength(chromosome)
}

// Close closes the underlying reader.
func (s *VCFSource[D]) Close() error {
	return s.reader.Close()
}

// RunVCF scans a VCF file through the generator: each record is transformed
// into a payload and enqueued, and every chromosome is finished against its
// header contig length.
func RunVCF[D, A any](gen *window.Generator[D, A], path string, conv func(*vcf.Record) (D, error)) error {
	src, err := OpenVCF(path, conv)
	if err != nil {
		return err
	}
	defer src.Close()
	return Run(gen, src)
}
