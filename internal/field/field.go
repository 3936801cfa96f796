package field

import (
	"fmt"
	"math"

	"github.com/san-kum/basinmap/internal/geom"
)

// singularityEps guards the force sum against a sample sitting exactly on an
// attractor; contributions inside this radius are dropped.
const singularityEps = 1e-9

// Attractor is a fixed pole exerting inverse-square attraction.
type Attractor struct {
	K     float64    // strength, > 0
	Pos   geom.Vec2  // fixed position in the plane
	Color [3]float64 // display color, channels in [0,1]
}

// Field is a read-only set of attractors. It is safe for concurrent use once
// built.
type Field struct {
	Attractors []Attractor
}

func New(attractors []Attractor) *Field {
	return &Field{Attractors: attractors}
}

func (f *Field) Len() int { return len(f.Attractors) }

// Validate checks the invariants the renderer relies on. The count upper
// bound is the scenario generator's business, not enforced here.
func (f *Field) Validate() error {
	if len(f.Attractors) < 2 {
		return fmt.Errorf("field needs at least 2 attractors, got %d", len(f.Attractors))
	}
	for i, a := range f.Attractors {
		if a.K <= 0 {
			return fmt.Errorf("attractor %d: strength must be positive, got %f", i, a.K)
		}
		for c, v := range a.Color {
			if v < 0 || v > 1 {
				return fmt.Errorf("attractor %d: color channel %d out of [0,1]: %f", i, c, v)
			}
		}
	}
	return nil
}

// Accel returns the net acceleration at pos: the sum of -k/r^3 * (pos - p)
// over all attractors, skipping poles the sample coincides with.
func (f *Field) Accel(pos geom.Vec2) geom.Vec2 {
	var acc geom.Vec2
	for i := range f.Attractors {
		a := &f.Attractors[i]
		r := pos.Sub(a.Pos)
		d := r.Norm()
		if d < singularityEps {
			continue
		}
		acc = acc.Add(r.Scale(-a.K / (d * d * d)))
	}
	return acc
}

// Capture returns the index of the first attractor (slice order) within
// radius of pos, or -1 when none qualifies.
func (f *Field) Capture(pos geom.Vec2, radius float64) int {
	for i := range f.Attractors {
		if pos.Dist(f.Attractors[i].Pos) < radius {
			return i
		}
	}
	return -1
}

// Nearest returns the index of the closest attractor and the distance to it.
func (f *Field) Nearest(pos geom.Vec2) (int, float64) {
	idx, min := -1, math.MaxFloat64
	for i := range f.Attractors {
		if d := pos.Dist(f.Attractors[i].Pos); d < min {
			idx, min = i, d
		}
	}
	return idx, min
}

// Energy is the total mechanical energy of a unit-mass particle: kinetic plus
// the -k/r potential of every attractor. Useful for drift diagnostics when
// comparing integrators.
func (f *Field) Energy(pos, vel geom.Vec2) float64 {
	e := 0.5 * vel.Norm2()
	for i := range f.Attractors {
		a := &f.Attractors[i]
		if d := pos.Dist(a.Pos); d > singularityEps {
			e -= a.K / d
		}
	}
	return e
}
