package integrators

import (
	"github.com/san-kum/basinmap/internal/field"
	"github.com/san-kum/basinmap/internal/geom"
)

// Leapfrog is a velocity-Verlet splitting: half kick, drift, half kick. It is
// symplectic, so it conserves energy over long trajectories far better than
// RK4 at the same step size, at the cost of local accuracy. Basin boundaries
// rendered with it differ visibly from the RK4 result.
type Leapfrog struct{}

func NewLeapfrog() *Leapfrog {
	return &Leapfrog{}
}

func (l *Leapfrog) Step(f *field.Field, pos, vel geom.Vec2, dt float64) (geom.Vec2, geom.Vec2) {
	halfDt := 0.5 * dt
	vel = vel.Add(f.Accel(pos).Scale(halfDt))
	pos = pos.Add(vel.Scale(dt))
	vel = vel.Add(f.Accel(pos).Scale(halfDt))
	return pos, vel
}

func (l *Leapfrog) Integrate(f *field.Field, pos, vel geom.Vec2, p Params) int {
	for step := 0; step < p.MaxSteps; step++ {
		pos, vel = l.Step(f, pos, vel, p.Dt)
		if outcome, done := classify(f, pos, p); done {
			return outcome
		}
	}
	return Escaped
}
