package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/biogo/hts/sam"
	"github.com/montanaflynn/stats"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/lczech/genoscan/pkg/bed"
	"github.com/lczech/genoscan/pkg/vcf"
	"github.com/lczech/genoscan/pkg/window"
	"github.com/lczech/genoscan/pkg/winscan"
)

var (
	scanWidth      int
	scanStride     int
	scanPolicy     string
	scanRegions    string
	scanField      string
	scanBAM        bool
	scanOutput     string
	scanSkipEmpty  bool
	scanIncomplete bool
	scanProgress   bool
	scanVerbose    bool
)

// fieldSum is the rolling per-window accumulator of the scanned values.
type fieldSum struct {
	Sum   float64
	Count int
}

var scanCmd = &cobra.Command{
	Use:   "scan <input.vcf|input.bam>",
	Short: "Scan an input file into genomic windows",
	Long: `Scan a position-sorted input file into genomic windows and write one
summary line per window.

For VCF input, each record contributes the value of an INFO field
(--field, DP by default; missing fields count as 0). For BAM input
(--bam), each mapped read contributes its mapping quality.

Policies:
  interval  - fixed-width windows every --stride positions (default)
  regions   - one window per interval of a BED file (--regions)
  positions - one window per single-position BED interval (--regions)
  genome    - one window per chromosome

With the interval policy, empty windows are emitted too, so that the
output tiles each chromosome without holes up to the contig length
declared in the input header.

Output columns: chromosome, first position, last position, number of
entries, value sum, value mean.

Examples:
  genoscan scan --width 10000 sample.vcf.gz
  genoscan scan --width 10000 --stride 2000 --field AF sample.vcf
  genoscan scan --policy regions --regions loci.bed sample.vcf
  genoscan scan --bam --policy genome sample.bam`,
	Args: cobra.ExactArgs(1),
	RunE: runScan,
}

func init() {
	scanCmd.Flags().IntVar(&scanWidth, "width", 1000, "Window width in base pairs (interval policy)")
	scanCmd.Flags().IntVar(&scanStride, "stride", 0, "Distance between window starts (0 = width, no overlap)")
	scanCmd.Flags().StringVar(&scanPolicy, "policy", "interval", "Windowing policy: interval, regions, positions, genome")
	scanCmd.Flags().StringVar(&scanRegions, "regions", "", "BED file with windows for the regions/positions policies")
	scanCmd.Flags().StringVar(&scanField, "field", "DP", "INFO field scanned from VCF records")
	scanCmd.Flags().BoolVar(&scanBAM, "bam", false, "Read BAM instead of VCF input")
	scanCmd.Flags().StringVar(&scanOutput, "output", "-", "Output file (- for stdout)")
	scanCmd.Flags().BoolVar(&scanSkipEmpty, "skip-empty", false, "Drop region windows without any entries")
	scanCmd.Flags().BoolVar(&scanIncomplete, "emit-incomplete", false, "Emit the clipped window at a chromosome end")
	scanCmd.Flags().BoolVar(&scanProgress, "show-progress", false, "Report scan progress on stderr")
	scanCmd.Flags().BoolVar(&scanVerbose, "verbose", false, "Log per-chromosome details")
}

func runScan(cmd *cobra.Command, args []string) error {
	if scanVerbose {
		log.SetLevel(log.DebugLevel)
	}

	gen, err := buildGenerator()
	if err != nil {
		return err
	}

	out := os.Stdout
	if scanOutput != "-" {
		f, err := os.Create(scanOutput)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		out = f
	}
	w := bufio.NewWriter(out)
	defer w.Flush()
	fmt.Fprintln(w, "#chrom\tstart\tend\tentries\tsum\tmean")

	prog := newProgress()
	var windowCounts []float64
	chromEntries := 0

	gen.OnChromosomeStart(func(chromosome string, acc *fieldSum) {
		chromEntries = 0
		log.Debugf("starting chromosome %s", chromosome)
	})
	gen.OnChromosomeFinish(func(chromosome string, acc *fieldSum) {
		log.Debugf("finished chromosome %s with %d entries", chromosome, chromEntries)
	})
	gen.OnEnqueue(func(entry *window.Entry[float64], acc *fieldSum) {
		acc.Sum += entry.Data
		acc.Count++
	})
	gen.OnDequeue(func(entry *window.Entry[float64], acc *fieldSum) {
		acc.Sum -= entry.Data
		acc.Count--
	})
	gen.OnEmission(func(win *window.Window[float64, fieldSum]) {
		prog.addWindow()
		windowCounts = append(windowCounts, float64(win.Len()))

		sum := 0.0
		values := make([]float64, 0, win.Len())
		for _, entry := range win.Entries() {
			sum += entry.Data
			values = append(values, entry.Data)
		}
		mean := "NA"
		if len(values) > 0 {
			m, err := stats.Mean(values)
			if err == nil {
				mean = fmt.Sprintf("%g", m)
			}
		}
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%g\t%s\n",
			win.Chromosome(), win.FirstPosition(), win.LastPosition(), win.Len(), sum, mean)
	})

	progressDone := make(chan struct{})
	if scanProgress {
		go prog.report(progressDone)
	}

	input := args[0]
	if scanBAM {
		err = winscan.RunBAM(gen, input, func(rec *sam.Record) (float64, error) {
			prog.addRecord()
			chromEntries++
			return float64(rec.MapQ), nil
		})
	} else {
		err = winscan.RunVCF(gen, input, func(rec *vcf.Record) (float64, error) {
			prog.addRecord()
			chromEntries++
			if !rec.HasInfo(scanField) {
				return 0, nil
			}
			vals, verr := rec.InfoFloats(scanField)
			if verr != nil {
				return 0, verr
			}
			sum := 0.0
			for _, v := range vals {
				sum += v
			}
			return sum, nil
		})
	}
	if scanProgress {
		close(progressDone)
		prog.printFinal()
	}
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	if len(windowCounts) > 0 {
		meanCount, _ := stats.Mean(windowCounts)
		medianCount, _ := stats.Median(windowCounts)
		log.Infof("emitted %d windows, entries per window: mean %.2f, median %.1f",
			len(windowCounts), meanCount, medianCount)
	}
	return nil
}

// buildGenerator creates the window generator for the configured policy.
func buildGenerator() (*window.Generator[float64, fieldSum], error) {
	var gen *window.Generator[float64, fieldSum]

	switch scanPolicy {
	case "interval":
		g, err := window.NewIntervalGenerator[float64, fieldSum](scanWidth, scanStride)
		if err != nil {
			return nil, err
		}
		gen = g

	case "regions", "positions":
		if scanRegions == "" {
			return nil, fmt.Errorf("the %s policy requires --regions", scanPolicy)
		}
		regions, err := bed.ReadFile(scanRegions)
		if err != nil {
			return nil, err
		}
		if scanPolicy == "regions" {
			g, err := window.NewRegionsGenerator[float64, fieldSum](regions)
			if err != nil {
				return nil, err
			}
			gen = g
			break
		}
		loci := make([]window.Locus, len(regions))
		for i, r := range regions {
			if r.Start != r.End {
				return nil, fmt.Errorf("the positions policy requires single-position intervals, got %s:%d-%d",
					r.Chromosome, r.Start, r.End)
			}
			loci[i] = window.Locus{Chromosome: r.Chromosome, Position: r.Start}
		}
		g, err := window.NewPositionsGenerator[float64, fieldSum](loci)
		if err != nil {
			return nil, err
		}
		gen = g

	case "genome":
		gen = window.NewGenomeGenerator[float64, fieldSum]()

	default:
		return nil, fmt.Errorf("unknown policy %q", scanPolicy)
	}

	gen.EmitIncompleteWindows(scanIncomplete)
	gen.SkipEmptyRegions(scanSkipEmpty)
	return gen, nil
}
