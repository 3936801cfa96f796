package integrators

import (
	"fmt"

	"github.com/san-kum/basinmap/internal/field"
	"github.com/san-kum/basinmap/internal/geom"
)

// Escaped is the outcome of a trajectory that leaves the escape radius or
// exhausts its step budget without reaching an attractor.
const Escaped = -1

// Params bounds a single trajectory integration.
type Params struct {
	Dt            float64
	MaxSteps      int
	CaptureRadius float64
	EscapeRadius  float64
}

func DefaultParams() Params {
	return Params{
		Dt:            0.004,
		MaxSteps:      5000,
		CaptureRadius: 0.03,
		EscapeRadius:  2.0,
	}
}

func (p Params) Validate() error {
	if p.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", p.Dt)
	}
	if p.MaxSteps <= 0 {
		return fmt.Errorf("max steps must be positive, got %d", p.MaxSteps)
	}
	if p.CaptureRadius <= 0 {
		return fmt.Errorf("capture radius must be positive, got %f", p.CaptureRadius)
	}
	if p.EscapeRadius <= 0 {
		return fmt.Errorf("escape radius must be positive, got %f", p.EscapeRadius)
	}
	return nil
}

// Integrator advances a particle from (pos, vel) under the field's pull and
// classifies the trajectory: the index of the capturing attractor, or
// Escaped. Implementations are stateless and safe for concurrent use.
type Integrator interface {
	Integrate(f *field.Field, pos, vel geom.Vec2, p Params) int
}

// Stepper exposes a scheme's single-step update without termination checks,
// for callers that need to observe intermediate states.
type Stepper interface {
	Step(f *field.Field, pos, vel geom.Vec2, dt float64) (geom.Vec2, geom.Vec2)
}

var registry = map[string]func() Integrator{
	"rk4":        func() Integrator { return NewRK4() },
	"symplectic": func() Integrator { return NewLeapfrog() },
}

// New returns the integrator registered under name. Unknown names are a
// configuration error, never a silent default.
func New(name string) (Integrator, error) {
	fn, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s", name)
	}
	return fn(), nil
}

// Names lists the registered integrator names.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	return names
}

// classify applies the shared termination rules after a step: capture by the
// first attractor within radius, then escape past the outer bound.
func classify(f *field.Field, pos geom.Vec2, p Params) (int, bool) {
	if idx := f.Capture(pos, p.CaptureRadius); idx >= 0 {
		return idx, true
	}
	if pos.Norm() > p.EscapeRadius {
		return Escaped, true
	}
	return Escaped, false
}
