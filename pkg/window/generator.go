package window

import "fmt"

// Policy selects how window boundaries are derived from the incoming
// position stream.
type Policy int

const (
	// PolicyInterval tiles each chromosome with fixed-width windows placed
	// every stride positions. Window k covers [k*stride+1, k*stride+width].
	PolicyInterval Policy = iota

	// PolicyPositions produces one single-position window per configured
	// locus. Positions between loci are dropped.
	PolicyPositions

	// PolicyRegions produces one window per configured region. Positions
	// between regions are dropped.
	PolicyRegions

	// PolicyGenome produces exactly one window per chromosome, spanning all
	// entries seen on it.
	PolicyGenome
)

// String returns the policy name.
func (p Policy) String() string {
	switch p {
	case PolicyInterval:
		return "interval"
	case PolicyPositions:
		return "positions"
	case PolicyRegions:
		return "regions"
	case PolicyGenome:
		return "genome"
	}
	return fmt.Sprintf("policy(%d)", int(p))
}

// Generator turns a stream of (chromosome, position, data) triples, sorted
// by chromosome and strictly ascending position, into a stream of completed
// windows according to its policy.
//
// Data is fed in via Enqueue. Completed windows are handed to the emission
// callbacks, in ascending position order per chromosome, and never out of
// order across chromosomes. Callbacks may maintain running accumulators via
// the enqueue and dequeue hooks without touching the buffering logic.
//
// The generator cannot know when the input ends, so Finish (or
// FinishChromosome, if the chromosome length is known) has to be called
// after the last Enqueue to flush the remaining windows.
//
// A Generator is a plain sequential state machine. It is not safe for
// concurrent use; scans of independent inputs need independent instances.
type Generator[D, A any] struct {
	policy Policy
	width  int
	stride int

	emitIncomplete   bool
	skipEmptyRegions bool

	regions map[string][]Region

	chrom     string
	seen      map[string]struct{}
	open      []*Window[D, A]
	nextStart int
	regionIdx int
	lastPos   int
	count     int
	chromAcc  A

	chromosomeStartHooks  []func(chromosome string, acc *A)
	chromosomeFinishHooks []func(chromosome string, acc *A)
	enqueueHooks          []func(entry *Entry[D], acc *A)
	dequeueHooks          []func(entry *Entry[D], acc *A)
	emissionHooks         []func(w *Window[D, A])
}

// NewIntervalGenerator creates a generator that tiles each chromosome with
// windows of the given width, one window every stride positions. A stride
// of 0 defaults to the width, producing non-overlapping tiling windows. A
// stride smaller than the width produces overlapping windows; a stride
// larger than the width leaves gaps, and positions in a gap belong to no
// window. Empty windows are emitted, so that the emitted sequence covers
// the chromosome without holes.
func NewIntervalGenerator[D, A any](width, stride int) (*Generator[D, A], error) {
	if width < 1 {
		return nil, fmt.Errorf("window width must be positive, got %d: %w", width, ErrInvalidPolicy)
	}
	if stride == 0 {
		stride = width
	}
	if stride < 1 {
		return nil, fmt.Errorf("window stride must be positive, got %d: %w", stride, ErrInvalidPolicy)
	}
	return &Generator[D, A]{
		policy: PolicyInterval,
		width:  width,
		stride: stride,
		seen:   make(map[string]struct{}),
	}, nil
}

// NewRegionsGenerator creates a generator that produces one window per
// given region. Regions must have valid bounds and, per chromosome, must be
// ascending and non-overlapping.
func NewRegionsGenerator[D, A any](regions []Region) (*Generator[D, A], error) {
	byChrom := make(map[string][]Region)
	for _, r := range regions {
		if r.Chromosome == "" || r.Start < 1 || r.End < r.Start {
			return nil, fmt.Errorf("invalid region %s:%d-%d: %w", r.Chromosome, r.Start, r.End, ErrInvalidPolicy)
		}
		regs := byChrom[r.Chromosome]
		if n := len(regs); n > 0 && r.Start <= regs[n-1].End {
			return nil, fmt.Errorf("regions on %q must be ascending and non-overlapping near %d-%d: %w",
				r.Chromosome, r.Start, r.End, ErrInvalidPolicy)
		}
		byChrom[r.Chromosome] = append(regs, r)
	}
	return &Generator[D, A]{
		policy:  PolicyRegions,
		regions: byChrom,
		seen:    make(map[string]struct{}),
	}, nil
}

// NewPositionsGenerator creates a generator that produces one window per
// given locus, each spanning exactly that position. Loci must be ascending
// per chromosome.
func NewPositionsGenerator[D, A any](loci []Locus) (*Generator[D, A], error) {
	regions := make([]Region, len(loci))
	for i, l := range loci {
		regions[i] = Region{Chromosome: l.Chromosome, Start: l.Position, End: l.Position}
	}
	g, err := NewRegionsGenerator[D, A](regions)
	if err != nil {
		return nil, err
	}
	g.policy = PolicyPositions
	return g, nil
}

// NewGenomeGenerator creates a generator that produces one window per
// chromosome, containing every entry seen on it.
func NewGenomeGenerator[D, A any]() *Generator[D, A] {
	return &Generator[D, A]{
		policy: PolicyGenome,
		seen:   make(map[string]struct{}),
	}
}

// Policy returns the windowing policy. It is fixed at construction.
func (g *Generator[D, A]) Policy() Policy {
	return g.policy
}

// Width returns the window width of an interval generator, and 0 for other
// policies.
func (g *Generator[D, A]) Width() int {
	return g.width
}

// Stride returns the window stride of an interval generator, and 0 for
// other policies.
func (g *Generator[D, A]) Stride() int {
	return g.stride
}

// Chromosome returns the name of the chromosome currently being processed,
// or the empty string before the first entry and after a finish.
func (g *Generator[D, A]) Chromosome() string {
	return g.chrom
}

// EmitIncompleteWindows sets whether FinishChromosome with a known
// chromosome length also emits the trailing window whose nominal interval
// extends past that length. If emitted, the window is clipped to the
// chromosome end. If not (the default), its entries are still dequeued, but
// no emission fires. Plain Finish always emits all open windows with their
// nominal bounds, as there is no length to clip against.
func (g *Generator[D, A]) EmitIncompleteWindows(value bool) *Generator[D, A] {
	g.emitIncomplete = value
	return g
}

// SkipEmptyRegions sets whether region windows without any entries are
// dropped instead of being emitted empty. The default is to emit them.
func (g *Generator[D, A]) SkipEmptyRegions(value bool) *Generator[D, A] {
	g.skipEmptyRegions = value
	return g
}

// OnChromosomeStart registers a hook that runs when the first entry of a
// chromosome is enqueued, before that entry is processed. The accumulator
// is a per-chromosome aggregate independent of the per-window ones, reset
// for each chromosome.
func (g *Generator[D, A]) OnChromosomeStart(fn func(chromosome string, acc *A)) *Generator[D, A] {
	g.chromosomeStartHooks = append(g.chromosomeStartHooks, fn)
	return g
}

// OnChromosomeFinish registers a hook that runs after the last window of a
// chromosome has been closed, either on a chromosome change during Enqueue
// or through Finish.
func (g *Generator[D, A]) OnChromosomeFinish(fn func(chromosome string, acc *A)) *Generator[D, A] {
	g.chromosomeFinishHooks = append(g.chromosomeFinishHooks, fn)
	return g
}

// OnEnqueue registers a hook that runs once for every window an entry is
// added to, with that window's accumulator.
func (g *Generator[D, A]) OnEnqueue(fn func(entry *Entry[D], acc *A)) *Generator[D, A] {
	g.enqueueHooks = append(g.enqueueHooks, fn)
	return g
}

// OnDequeue registers a hook that runs once per (entry, window) pair when
// the window is closed, in position order, before the window's emission.
func (g *Generator[D, A]) OnDequeue(fn func(entry *Entry[D], acc *A)) *Generator[D, A] {
	g.dequeueHooks = append(g.dequeueHooks, fn)
	return g
}

// OnEmission registers a hook that receives every completed window. The
// window and its entries must not be retained past the call.
func (g *Generator[D, A]) OnEmission(fn func(w *Window[D, A])) *Generator[D, A] {
	g.emissionHooks = append(g.emissionHooks, fn)
	return g
}

// Enqueue feeds one entry into the generator. Entries must arrive sorted:
// strictly ascending positions within a chromosome, and each chromosome as
// one contiguous block. A change of chromosome name finishes the previous
// chromosome first, flushing all of its windows. Note that an ordering
// error here is typically caused by an input file that is not sorted by
// chromosome and position.
func (g *Generator[D, A]) Enqueue(chromosome string, position int, data D) error {
	if chromosome == "" {
		return fmt.Errorf("cannot enqueue entry without a chromosome name: %w", ErrOrderingViolation)
	}
	if position < 1 {
		return fmt.Errorf("cannot enqueue %s:%d, positions are 1-based: %w",
			chromosome, position, ErrOrderingViolation)
	}
	if chromosome != g.chrom {
		if _, ok := g.seen[chromosome]; ok {
			return fmt.Errorf("chromosome %q reappears after it was already finished: %w",
				chromosome, ErrOrderingViolation)
		}
		if err := g.Finish(); err != nil {
			return err
		}
		g.startChromosome(chromosome)
	}
	if position <= g.lastPos {
		return fmt.Errorf("cannot enqueue %s:%d, the chromosome is already advanced up to position %d: %w",
			chromosome, position, g.lastPos, ErrOrderingViolation)
	}
	g.lastPos = position

	switch g.policy {
	case PolicyInterval:
		g.enqueueInterval(position, data)
	case PolicyRegions, PolicyPositions:
		g.enqueueRegions(position, data)
	case PolicyGenome:
		g.enqueueGenome(position, data)
	}
	return nil
}

// Finish flushes all windows still open on the current chromosome, in
// position order, and fires the chromosome-finish hooks. Calling it again
// without new data is a no-op.
func (g *Generator[D, A]) Finish() error {
	return g.FinishChromosome(0)
}

// FinishChromosome is Finish for callers that know the total length of the
// chromosome, typically from a VCF or BAM header. Windows are then
// synthesized up to that length, so that the emitted sequence covers the
// whole chromosome even when no entries fall near its end.
// A lastPosition of 0 means the length is unknown and behaves like Finish.
func (g *Generator[D, A]) FinishChromosome(lastPosition int) error {
	if g.chrom == "" {
		return nil
	}
	if lastPosition > 0 && lastPosition < g.lastPos {
		return fmt.Errorf("cannot finish chromosome %q at position %d, it is already advanced up to position %d: %w",
			g.chrom, lastPosition, g.lastPos, ErrOrderingViolation)
	}

	switch g.policy {
	case PolicyInterval:
		g.finishInterval(lastPosition)
	case PolicyRegions, PolicyPositions:
		g.finishRegions()
	case PolicyGenome:
		g.finishGenome(lastPosition)
	}

	g.fireChromosomeFinish(g.chrom, &g.chromAcc)
	g.chrom = ""
	g.open = nil
	g.lastPos = 0
	g.count = 0
	return nil
}

func (g *Generator[D, A]) startChromosome(chromosome string) {
	g.chrom = chromosome
	g.seen[chromosome] = struct{}{}
	g.lastPos = 0
	g.count = 0
	g.nextStart = 1
	g.regionIdx = 0
	var zero A
	g.chromAcc = zero
	g.fireChromosomeStart(chromosome, &g.chromAcc)
	if g.policy == PolicyGenome {
		g.open = append(g.open, newWindow[D, A](chromosome, 1, 0))
	}
}

func (g *Generator[D, A]) enqueueInterval(position int, data D) {
	// Open every window whose nominal interval starts at or before this
	// position. Windows the position has already moved past are closed
	// again right away, oldest first, so that empty windows are still
	// emitted in order and the emitted sequence has no holes. Closing as
	// we go keeps the deque at the size of the overlapping set, even when
	// a position gap spans many windows.
	for g.nextStart <= position {
		w := newWindow[D, A](g.chrom, g.nextStart, g.nextStart+g.width-1)
		g.nextStart += g.stride
		if w.last < position {
			// Already past this window. All older open windows end even
			// earlier, so flush them first to keep the emission order.
			g.closeOpenBefore(position)
			g.closeWindow(w, true)
			continue
		}
		g.open = append(g.open, w)
	}
	g.closeOpenBefore(position)

	// All remaining open windows cover the position. With a stride larger
	// than the width, the position can lie in a gap, leaving no open
	// windows; the entry is then dropped.
	entry := Entry[D]{Index: g.count, Position: position, Data: data}
	g.count++
	for _, w := range g.open {
		w.entries = append(w.entries, entry)
		g.fireEnqueue(&w.entries[len(w.entries)-1], &w.acc)
	}
}

func (g *Generator[D, A]) finishInterval(lastPosition int) {
	if lastPosition > 0 {
		// Close the buffered windows first, then synthesize the remaining
		// empty ones up to the chromosome end, so the emission sequence
		// stays in start order and covers the whole chromosome.
		for _, w := range g.open {
			g.closeClipped(w, lastPosition)
		}
		g.open = nil
		for g.nextStart <= lastPosition {
			w := newWindow[D, A](g.chrom, g.nextStart, g.nextStart+g.width-1)
			g.nextStart += g.stride
			g.closeClipped(w, lastPosition)
		}
		return
	}
	for _, w := range g.open {
		g.closeWindow(w, true)
	}
}

// closeClipped closes a window against a known chromosome end. Windows
// whose nominal interval extends past the end are incomplete: they are
// either clipped and emitted, or discarded, depending on the
// EmitIncompleteWindows setting.
func (g *Generator[D, A]) closeClipped(w *Window[D, A], lastPosition int) {
	switch {
	case w.last <= lastPosition:
		g.closeWindow(w, true)
	case g.emitIncomplete:
		w.last = lastPosition
		g.closeWindow(w, true)
	default:
		g.closeWindow(w, false)
	}
}

// closeOpenBefore closes and emits all open windows that end before the
// given position, oldest first.
func (g *Generator[D, A]) closeOpenBefore(position int) {
	for len(g.open) > 0 && g.open[0].last < position {
		w := g.open[0]
		g.open = g.open[1:]
		g.closeWindow(w, true)
	}
}

func (g *Generator[D, A]) enqueueRegions(position int, data D) {
	regs := g.regions[g.chrom]
	for g.regionIdx < len(regs) && regs[g.regionIdx].Start <= position {
		r := regs[g.regionIdx]
		g.open = append(g.open, newWindow[D, A](g.chrom, r.Start, r.End))
		g.regionIdx++
	}
	for len(g.open) > 0 && g.open[0].last < position {
		w := g.open[0]
		g.open = g.open[1:]
		g.closeWindow(w, len(w.entries) > 0 || !g.skipEmptyRegions)
	}

	// Regions are non-overlapping, so at most one window remains open, and
	// it contains the position. If none does, the position lies between
	// regions and is dropped.
	entry := Entry[D]{Index: g.count, Position: position, Data: data}
	g.count++
	for _, w := range g.open {
		w.entries = append(w.entries, entry)
		g.fireEnqueue(&w.entries[len(w.entries)-1], &w.acc)
	}
}

func (g *Generator[D, A]) finishRegions() {
	regs := g.regions[g.chrom]
	for g.regionIdx < len(regs) {
		r := regs[g.regionIdx]
		g.open = append(g.open, newWindow[D, A](g.chrom, r.Start, r.End))
		g.regionIdx++
	}
	for _, w := range g.open {
		g.closeWindow(w, len(w.entries) > 0 || !g.skipEmptyRegions)
	}
}

func (g *Generator[D, A]) enqueueGenome(position int, data D) {
	w := g.open[0]
	w.last = position
	w.entries = append(w.entries, Entry[D]{Index: g.count, Position: position, Data: data})
	g.count++
	g.fireEnqueue(&w.entries[len(w.entries)-1], &w.acc)
}

func (g *Generator[D, A]) finishGenome(lastPosition int) {
	for _, w := range g.open {
		if lastPosition > 0 {
			w.last = lastPosition
		} else if w.last < w.first {
			w.last = w.first
		}
		g.closeWindow(w, true)
	}
}

// closeWindow dequeues all entries of a window, in position order, and then
// emits it. Emission is skipped for discarded windows, but dequeues still
// fire, so that accumulator accounting stays exact.
func (g *Generator[D, A]) closeWindow(w *Window[D, A], emit bool) {
	for i := range w.entries {
		g.fireDequeue(&w.entries[i], &w.acc)
	}
	if emit {
		g.fireEmission(w)
	}
}

func (g *Generator[D, A]) fireChromosomeStart(chromosome string, acc *A) {
	for _, fn := range g.chromosomeStartHooks {
		fn(chromosome, acc)
	}
}

func (g *Generator[D, A]) fireChromosomeFinish(chromosome string, acc *A) {
	for _, fn := range g.chromosomeFinishHooks {
		fn(chromosome, acc)
	}
}

func (g *Generator[D, A]) fireEnqueue(entry *Entry[D], acc *A) {
	for _, fn := range g.enqueueHooks {
		fn(entry, acc)
	}
}

func (g *Generator[D, A]) fireDequeue(entry *Entry[D], acc *A) {
	for _, fn := range g.dequeueHooks {
		fn(entry, acc)
	}
}

func (g *Generator[D, A]) fireEmission(w *Window[D, A]) {
	for _, fn := range g.emissionHooks {
		fn(w)
	}
}
