package integrators

import (
	"github.com/san-kum/basinmap/internal/field"
	"github.com/san-kum/basinmap/internal/geom"
)

// RK4 is the classic fourth-order Runge-Kutta scheme applied to the coupled
// system pos' = vel, vel' = accel(pos).
type RK4 struct{}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) Step(f *field.Field, pos, vel geom.Vec2, dt float64) (geom.Vec2, geom.Vec2) {
	k1v := f.Accel(pos).Scale(dt)
	k1p := vel.Scale(dt)

	k2v := f.Accel(pos.Add(k1p.Scale(0.5))).Scale(dt)
	k2p := vel.Add(k1v.Scale(0.5)).Scale(dt)

	k3v := f.Accel(pos.Add(k2p.Scale(0.5))).Scale(dt)
	k3p := vel.Add(k2v.Scale(0.5)).Scale(dt)

	k4v := f.Accel(pos.Add(k3p)).Scale(dt)
	k4p := vel.Add(k3v).Scale(dt)

	vel = vel.Add(k1v.Add(k2v.Scale(2)).Add(k3v.Scale(2)).Add(k4v).Scale(1.0 / 6.0))
	pos = pos.Add(k1p.Add(k2p.Scale(2)).Add(k3p.Scale(2)).Add(k4p).Scale(1.0 / 6.0))
	return pos, vel
}

func (r *RK4) Integrate(f *field.Field, pos, vel geom.Vec2, p Params) int {
	for step := 0; step < p.MaxSteps; step++ {
		pos, vel = r.Step(f, pos, vel, p.Dt)
		if outcome, done := classify(f, pos, p); done {
			return outcome
		}
	}
	return Escaped
}
