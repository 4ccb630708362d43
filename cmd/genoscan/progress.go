package main

import (
	"fmt"
	"os"
	"sync"
	"time"
)

// progress tracks scan throughput and reports it to stderr while a scan is
// running. The scan itself is single-threaded; the mutex only guards against
// the reporter goroutine reading while the counters are updated.
type progress struct {
	mu        sync.Mutex
	records   int64
	windows   int64
	startTime time.Time
}

func newProgress() *progress {
	return &progress{startTime: time.Now()}
}

func (p *progress) addRecord() {
	p.mu.Lock()
	p.records++
	p.mu.Unlock()
}

func (p *progress) addWindow() {
	p.mu.Lock()
	p.windows++
	p.mu.Unlock()
}

// report prints progress updates until done is closed.
func (p *progress) report(done chan struct{}) {
	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			p.print()
		}
	}
}

func (p *progress) print() {
	p.mu.Lock()
	records, windows := p.records, p.windows
	p.mu.Unlock()

	elapsed := time.Since(p.startTime)
	recordsPerSec := float64(records) / elapsed.Seconds()

	fmt.Fprintf(os.Stderr, "\rProgress: %d records, %d windows (%.1f K records/s) | Elapsed: %s",
		records,
		windows,
		recordsPerSec/1000,
		formatDuration(elapsed),
	)
}

func (p *progress) printFinal() {
	p.mu.Lock()
	records, windows := p.records, p.windows
	p.mu.Unlock()

	elapsed := time.Since(p.startTime)

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "Scan complete!\n")
	fmt.Fprintf(os.Stderr, "  Total records: %d\n", records)
	fmt.Fprintf(os.Stderr, "  Total windows: %d\n", windows)
	fmt.Fprintf(os.Stderr, "  Elapsed time: %s\n", formatDuration(elapsed))
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh %dm %ds", h, m, s)
	}
	if m > 0 {
		return fmt.Sprintf("%dm %ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}
