// Package analysis computes summary statistics over rendered basin maps.
package analysis

import (
	"fmt"

	"github.com/san-kum/basinmap/internal/basin"
	"github.com/san-kum/basinmap/internal/integrators"
)

// Summary aggregates per-map statistics.
type Summary struct {
	Cells        int       `json:"cells"`
	Shares       []float64 `json:"shares"`   // fraction of cells per attractor
	Escaped      float64   `json:"escaped"`  // fraction of escaped cells
	Boundary     float64   `json:"boundary"` // fraction of cells touching another basin
	LargestBasin int       `json:"largest_basin"`
}

// Summarize counts basin membership and boundary cells. A cell is a boundary
// cell when any 4-neighbour carries a different outcome.
func Summarize(m *basin.Map, attractors int) Summary {
	n := m.Size
	s := Summary{
		Cells:        n * n,
		Shares:       make([]float64, attractors),
		LargestBasin: integrators.Escaped,
	}

	counts := make([]int, attractors)
	escaped := 0
	boundary := 0

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			out := m.Outcome(i, j)
			if out >= 0 && out < attractors {
				counts[out]++
			} else {
				escaped++
			}

			if (i > 0 && m.Outcome(i-1, j) != out) ||
				(i < n-1 && m.Outcome(i+1, j) != out) ||
				(j > 0 && m.Outcome(i, j-1) != out) ||
				(j < n-1 && m.Outcome(i, j+1) != out) {
				boundary++
			}
		}
	}

	total := float64(s.Cells)
	best := 0
	for i, c := range counts {
		s.Shares[i] = float64(c) / total
		if c > best {
			best = c
			s.LargestBasin = i
		}
	}
	s.Escaped = float64(escaped) / total
	s.Boundary = float64(boundary) / total
	return s
}

// Agreement is the fraction of cells on which two maps of equal size produce
// the same outcome. Deep basin interiors agree across integrators; the
// disagreement concentrates on fractal boundaries.
func Agreement(a, b *basin.Map) (float64, error) {
	if a.Size != b.Size {
		return 0, fmt.Errorf("map sizes differ: %d vs %d", a.Size, b.Size)
	}
	same := 0
	for i := range a.Outcomes {
		if a.Outcomes[i] == b.Outcomes[i] {
			same++
		}
	}
	return float64(same) / float64(len(a.Outcomes)), nil
}
