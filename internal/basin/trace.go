package basin

import (
	"fmt"

	"github.com/san-kum/basinmap/internal/field"
	"github.com/san-kum/basinmap/internal/geom"
	"github.com/san-kum/basinmap/internal/integrators"
)

// Trajectory records a single particle's path for inspection. The first entry
// is the start state; one entry follows per integrator step.
type Trajectory struct {
	Positions []geom.Vec2
	Speeds    []float64
	NearDist  []float64 // distance to the nearest attractor
	Energies  []float64
	Outcome   int
	Steps     int
}

// Trace integrates one trajectory from rest under the named scheme, recording
// state after every step until capture, escape, or budget exhaustion. Same
// termination rules as classification.
func Trace(f *field.Field, name string, start geom.Vec2, p integrators.Params) (*Trajectory, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	integ, err := integrators.New(name)
	if err != nil {
		return nil, err
	}
	stepper, ok := integ.(integrators.Stepper)
	if !ok {
		return nil, fmt.Errorf("integrator %s does not expose single steps", name)
	}

	tr := &Trajectory{Outcome: integrators.Escaped}
	pos, vel := start, geom.Vec2{}
	tr.record(f, pos, vel)

	for i := 0; i < p.MaxSteps; i++ {
		pos, vel = stepper.Step(f, pos, vel, p.Dt)
		tr.record(f, pos, vel)
		tr.Steps++

		if idx := f.Capture(pos, p.CaptureRadius); idx >= 0 {
			tr.Outcome = idx
			return tr, nil
		}
		if pos.Norm() > p.EscapeRadius {
			return tr, nil
		}
	}
	return tr, nil
}

func (tr *Trajectory) record(f *field.Field, pos, vel geom.Vec2) {
	_, d := f.Nearest(pos)
	tr.Positions = append(tr.Positions, pos)
	tr.Speeds = append(tr.Speeds, vel.Norm())
	tr.NearDist = append(tr.NearDist, d)
	tr.Energies = append(tr.Energies, f.Energy(pos, vel))
}

// EnergyDrift is the relative drift between the first and last recorded
// energies, the usual figure of merit when comparing rk4 against the
// symplectic scheme.
func (tr *Trajectory) EnergyDrift() float64 {
	if len(tr.Energies) < 2 || tr.Energies[0] == 0 {
		return 0
	}
	e0 := tr.Energies[0]
	e1 := tr.Energies[len(tr.Energies)-1]
	drift := (e1 - e0) / e0
	if drift < 0 {
		drift = -drift
	}
	return drift
}
