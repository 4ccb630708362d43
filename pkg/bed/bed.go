// Package bed parses BED interval files into window regions. Only the
// first three columns are used; further columns are ignored.
package bed

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/lczech/genoscan/pkg/window"
)

// ParseRegions reads BED lines and converts the 0-based half-open intervals
// into the 1-based closed regions used by the window policies.
func ParseRegions(r io.Reader) ([]window.Region, error) {
	var regions []window.Region
	scanner := bufio.NewScanner(r)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") ||
			strings.HasPrefix(line, "track") || strings.HasPrefix(line, "browser") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 3 {
			return nil, fmt.Errorf("line %d: BED record has %d fields, expected at least 3", lineNum, len(fields))
		}
		start, err := strconv.Atoi(fields[1])
		if err != nil || start < 0 {
			return nil, fmt.Errorf("line %d: invalid start %q", lineNum, fields[1])
		}
		end, err := strconv.Atoi(fields[2])
		if err != nil || end <= start {
			return nil, fmt.Errorf("line %d: invalid end %q", lineNum, fields[2])
		}

		regions = append(regions, window.Region{
			Chromosome: fields[0],
			Start:      start + 1,
			End:        end,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read BED input: %w", err)
	}
	return regions, nil
}

// ReadFile parses a BED file from disk.
func ReadFile(path string) ([]window.Region, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open BED file: %w", err)
	}
	defer f.Close()
	return ParseRegions(f)
}
