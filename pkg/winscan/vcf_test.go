package winscan

import (
	"errors"
	"strings"
	"testing"

	"github.com/lczech/genoscan/pkg/vcf"
	"github.com/lczech/genoscan/pkg/window"
)

const testVCF = `##fileformat=VCFv4.2
##contig=<ID=chr1,length=95>
##contig=<ID=chr2,length=40>
##INFO=<ID=DP,Number=1,Type=Integer,Description="Total read depth">
#CHROM	POS	ID	REF	ALT	QUAL	FILTER	INFO
chr1	5	.	A	G	.	PASS	DP=10
chr1	12	.	C	T	.	PASS	DP=20
chr1	28	.	G	A	.	PASS	DP=5
chr2	3	.	T	C	.	PASS	DP=8
`

func depthSource(t *testing.T, input string) *VCFSource[float64] {
	t.Helper()
	reader, err := vcf.NewReader(strings.NewReader(input))
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	return NewVCFSource(reader, func(rec *vcf.Record) (float64, error) {
		values, err := rec.InfoFloats("DP")
		if err != nil {
			return 0, err
		}
		return values[0], nil
	})
}

type depthSum struct {
	sum float64
}

// A full scan over two chromosomes. The header contig lengths drive the
// chromosome flushes, so trailing empty windows up to each contig end are
// emitted even though no record falls near it.
func TestRunVCFWindows(t *testing.T) {
	gen, err := window.NewIntervalGenerator[float64, depthSum](10, 0)
	if err != nil {
		t.Fatal(err)
	}
	gen.OnEnqueue(func(e *window.Entry[float64], acc *depthSum) {
		acc.sum += e.Data
	})

	type result struct {
		chrom       string
		first, last int
		entries     int
		sum         float64
	}
	var got []result
	gen.OnEmission(func(w *window.Window[float64, depthSum]) {
		got = append(got, result{
			chrom:   w.Chromosome(),
			first:   w.FirstPosition(),
			last:    w.LastPosition(),
			entries: w.Len(),
			sum:     w.Accumulator().sum,
		})
	})

	src := depthSource(t, testVCF)
	if err := Run(gen, src); err != nil {
		t.Fatalf("Run: %v", err)
	}

	// chr1 is 95 long: windows [1,10]..[81,90] are complete, and the
	// trailing [91,100] is incomplete and discarded. chr2 is 40 long.
	want := []result{
		{"chr1", 1, 10, 1, 10},
		{"chr1", 11, 20, 1, 20},
		{"chr1", 21, 30, 1, 5},
		{"chr1", 31, 40, 0, 0},
		{"chr1", 41, 50, 0, 0},
		{"chr1", 51, 60, 0, 0},
		{"chr1", 61, 70, 0, 0},
		{"chr1", 71, 80, 0, 0},
		{"chr1", 81, 90, 0, 0},
		{"chr2", 1, 10, 1, 8},
		{"chr2", 11, 20, 0, 0},
		{"chr2", 21, 30, 0, 0},
		{"chr2", 31, 40, 0, 0},
	}
	if len(got) != len(want) {
		t.Fatalf("emitted %d windows, want %d: %+v", len(got), len(want), got)
	}
	for i, w := range want {
		if got[i] != w {
			t.Errorf("window %d = %+v, want %+v", i, got[i], w)
		}
	}
}

// A transform error aborts the scan and carries the record location.
func TestRunVCFTransformError(t *testing.T) {
	const input = `##fileformat=VCFv4.2
##contig=<ID=chr1,length=100>
#CHROM	POS	ID	REF	ALT	QUAL	FILTER	INFO
chr1	5	.	A	G	.	PASS	DP=10
chr1	12	.	C	T	.	PASS	MQ=60
`
	gen, err := window.NewIntervalGenerator[float64, depthSum](10, 0)
	if err != nil {
		t.Fatal(err)
	}
	src := depthSource(t, input)
	err = Run(gen, src)
	if err == nil {
		t.Fatal("Run did not report the transform error")
	}
	if !strings.Contains(err.Error(), "chr1:12") {
		t.Errorf("error %q does not name the failing record", err)
	}
}

// Unsorted input surfaces as an ordering violation from the generator.
func TestRunVCFUnsorted(t *testing.T) {
	const input = `##fileformat=VCFv4.2
##contig=<ID=chr1,length=100>
#CHROM	POS	ID	REF	ALT	QUAL	FILTER	INFO
chr1	12	.	A	G	.	PASS	DP=10
chr1	5	.	C	T	.	PASS	DP=20
`
	gen, err := window.NewIntervalGenerator[float64, depthSum](10, 0)
	if err != nil {
		t.Fatal(err)
	}
	src := depthSource(t, input)
	if err := Run(gen, src); !errors.Is(err, window.ErrOrderingViolation) {
		t.Fatalf("err = %v, want ErrOrderingViolation", err)
	}
}

// A contig without a declared length falls back to a plain finish, so the
// last window keeps its nominal bounds.
func TestRunVCFUnknownLength(t *testing.T) {
	const input = `##fileformat=VCFv4.2
#CHROM	POS	ID	REF	ALT	QUAL	FILTER	INFO
chr1	25	.	A	G	.	PASS	DP=10
`
	gen, err := window.NewIntervalGenerator[float64, depthSum](10, 0)
	if err != nil {
		t.Fatal(err)
	}
	count := 0
	var last [2]int
	gen.OnEmission(func(w *window.Window[float64, depthSum]) {
		count++
		last = [2]int{w.FirstPosition(), w.LastPosition()}
	})

	src := depthSource(t, input)
	if err := Run(gen, src); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if count != 3 {
		t.Fatalf("emitted %d windows, want 3", count)
	}
	if last != [2]int{21, 30} {
		t.Errorf("last window bounds = %v, want [21 30]", last)
	}
}

func TestVCFSourceHeader(t *testing.T) {
	src := depthSource(t, testVCF)
	h := src.Header()
	if got := h.ContigLength("chr1"); got != 95 {
		t.Errorf("ContigLength(chr1) = %d, want 95", got)
	}
	if got := src.ChromosomeLength("chr2"); got != 40 {
		t.Errorf("ChromosomeLength(chr2) = %d, want 40", got)
	}
	if got := src.ChromosomeLength("chrX"); got != 0 {
		t.Errorf("ChromosomeLength(chrX) = %d, want 0", got)
	}
}
