package bed

import (
	"strings"
	"testing"

	"github.com/lczech/genoscan/pkg/window"
)

func TestParseRegions(t *testing.T) {
	const input = `# a comment
track name=test description="test intervals"
browser position chr1:1-1000
chr1	0	100
chr1	199	300	name	42	+

chr2	9	10
`
	regions, err := ParseRegions(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseRegions: %v", err)
	}

	// BED is 0-based half-open; regions are 1-based closed.
	want := []window.Region{
		{Chromosome: "chr1", Start: 1, End: 100},
		{Chromosome: "chr1", Start: 200, End: 300},
		{Chromosome: "chr2", Start: 10, End: 10},
	}
	if len(regions) != len(want) {
		t.Fatalf("parsed %d regions, want %d: %v", len(regions), len(want), regions)
	}
	for i, r := range want {
		if regions[i] != r {
			t.Errorf("region %d = %+v, want %+v", i, regions[i], r)
		}
	}
}

func TestParseRegionsErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"too few fields", "chr1\t100\n"},
		{"non-numeric start", "chr1\tx\t100\n"},
		{"negative start", "chr1\t-5\t100\n"},
		{"end before start", "chr1\t100\t100\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseRegions(strings.NewReader(tt.input)); err == nil {
				t.Fatal("ParseRegions accepted invalid input")
			}
		})
	}
}
