// Package winscan drives a window generator over genomic record sources.
// It bridges record streams such as VCF or coordinate-sorted BAM files into
// generator enqueue calls, and flushes chromosomes against the contig
// lengths declared in the file headers. Any source that can produce
// ascending (chromosome, position) triples can take the place of the
// built-in ones.
package winscan

import (
	"errors"
	"fmt"
	"io"

	"github.com/lczech/genoscan/pkg/window"
)

// Source yields position-tagged payloads in file order, which must be
// ascending per chromosome with no chromosome repeated. Next returns io.EOF
// at the end of input.
type Source[D any] interface {
	Next() (chromosome string, position int, data D, err error)

	// ChromosomeLength returns the total length of a chromosome as
	// declared by the source, or 0 if unknown.
	ChromosomeLength(chromosome string) int

	Close() error
}

// Run feeds every record of the source into the generator and finishes each
// chromosome against the source's declared length, so that trailing empty
// windows up to the chromosome end are emitted. Errors from the source, the
// transform, or the generator abort the scan unchanged; the caller decides
// whether and how to continue.
func Run[D, A any](gen *window.Generator[D, A], src Source[D]) error {
	current := ""
	for {
		chromosome, position, data, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}
		if chromosome != current {
			if current != "" {
				if err := gen.FinishChromosome(src.ChromosomeLength(current)); err != nil {
					return err
				}
			}
			current = chromosome
		}
		if err := gen.Enqueue(chromosome, position, data); err != nil {
			return err
		}
	}
	if current == "" {
		return nil
	}
	return gen.FinishChromosome(src.ChromosomeLength(current))
}

// errRecord wraps a transform error with the record's location.
func errRecord(chromosome string, position int, err error) error {
	return fmt.Errorf("record %s:%d: %w", chromosome, position, err)
}
