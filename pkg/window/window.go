package window

// Entry is one observation at a genomic position.
//
// The Data payload is opaque to this package; it is whatever the record
// source transform produced for the position, e.g. a read depth value or a
// genotype summary.
type Entry[D any] struct {
	Index    int // running number of the entry on its chromosome
	Position int // 1-based position on the chromosome
	Data     D
}

// Window is an interval of genomic positions on one chromosome, together
// with the entries that fall into it and a caller-defined accumulator.
//
// For interval windows, FirstPosition and LastPosition describe the nominal
// interval given by width and stride, not just the observed entries, so that
// width and midpoint are well defined even for empty windows. Both bounds
// are inclusive.
type Window[D, A any] struct {
	chromosome string
	first      int
	last       int
	entries    []Entry[D]
	acc        A
}

func newWindow[D, A any](chromosome string, first, last int) *Window[D, A] {
	return &Window[D, A]{
		chromosome: chromosome,
		first:      first,
		last:       last,
	}
}

// Chromosome returns the name of the chromosome this window lies on.
func (w *Window[D, A]) Chromosome() string {
	return w.chromosome
}

// FirstPosition returns the inclusive lower bound of the window interval.
func (w *Window[D, A]) FirstPosition() int {
	return w.first
}

// LastPosition returns the inclusive upper bound of the window interval.
func (w *Window[D, A]) LastPosition() int {
	return w.last
}

// Width returns the number of positions the window interval covers.
func (w *Window[D, A]) Width() int {
	return w.last - w.first + 1
}

// Midpoint returns the middle position of the window interval, which is a
// common anchor when plotting per-window values along a chromosome.
func (w *Window[D, A]) Midpoint() int {
	return w.first + (w.last-w.first)/2
}

// Len returns the number of entries in the window.
func (w *Window[D, A]) Len() int {
	return len(w.entries)
}

// Entries returns the entries of the window in position order. The returned
// slice is owned by the window and must not be retained past an emission
// callback.
func (w *Window[D, A]) Entries() []Entry[D] {
	return w.entries
}

// Accumulator returns a pointer to the window's accumulator. It starts out
// as the zero value of A when the window is opened and is meant to be
// updated by the enqueue and dequeue callbacks.
func (w *Window[D, A]) Accumulator() *A {
	return &w.acc
}

// Region is a closed interval on a chromosome, used to configure the
// regions policy. Start and End are 1-based and inclusive.
type Region struct {
	Chromosome string
	Start      int
	End        int
}

// Locus is a single position on a chromosome, used to configure the
// positions policy.
type Locus struct {
	Chromosome string
	Position   int
}
