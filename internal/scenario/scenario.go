// Package scenario generates and persists attractor layouts. All randomness
// in the program lives here; the rendering core is deterministic given a
// scenario.
package scenario

import (
	"fmt"
	"math/rand"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/basinmap/internal/field"
	"github.com/san-kum/basinmap/internal/geom"
)

const (
	MinAttractors = 2
	MaxAttractors = 10

	minStrength = 0.5
	maxStrength = 2.0
	minCoord    = -1.0
	maxCoord    = 1.0
	minChannel  = 0.2
	maxChannel  = 1.0
)

// AttractorSpec is the serialized form of one attractor.
type AttractorSpec struct {
	K     float64    `yaml:"k"`
	X     float64    `yaml:"x"`
	Y     float64    `yaml:"y"`
	Color [3]float64 `yaml:"color"`
}

// Scenario is a named attractor layout.
type Scenario struct {
	Name       string          `yaml:"name"`
	Seed       int64           `yaml:"seed,omitempty"`
	Attractors []AttractorSpec `yaml:"attractors"`
}

// Random draws a scenario with n attractors from the given source, or a
// random count in [MinAttractors, MaxAttractors] when n is zero.
func Random(rng *rand.Rand, n int) (*Scenario, error) {
	if n == 0 {
		n = MinAttractors + rng.Intn(MaxAttractors-MinAttractors+1)
	}
	if n < MinAttractors || n > MaxAttractors {
		return nil, fmt.Errorf("attractor count %d outside [%d,%d]", n, MinAttractors, MaxAttractors)
	}

	s := &Scenario{Name: "random", Attractors: make([]AttractorSpec, n)}
	for i := range s.Attractors {
		s.Attractors[i] = AttractorSpec{
			K: uniform(rng, minStrength, maxStrength),
			X: uniform(rng, minCoord, maxCoord),
			Y: uniform(rng, minCoord, maxCoord),
			Color: [3]float64{
				uniform(rng, minChannel, maxChannel),
				uniform(rng, minChannel, maxChannel),
				uniform(rng, minChannel, maxChannel),
			},
		}
	}
	return s, nil
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + (hi-lo)*rng.Float64()
}

// Field builds the immutable field the renderer consumes.
func (s *Scenario) Field() (*field.Field, error) {
	attractors := make([]field.Attractor, len(s.Attractors))
	for i, a := range s.Attractors {
		attractors[i] = field.Attractor{
			K:     a.K,
			Pos:   geom.Vec2{X: a.X, Y: a.Y},
			Color: a.Color,
		}
	}
	f := field.New(attractors)
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return f, nil
}

func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}
	return &s, nil
}

func Save(path string, s *Scenario) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
