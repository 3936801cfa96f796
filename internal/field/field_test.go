package field

import (
	"math"
	"testing"

	"github.com/san-kum/basinmap/internal/geom"
)

func twoPoles() *Field {
	return New([]Attractor{
		{K: 1.0, Pos: geom.Vec2{X: -0.5}, Color: [3]float64{1, 0, 0}},
		{K: 1.0, Pos: geom.Vec2{X: 0.5}, Color: [3]float64{0, 0, 1}},
	})
}

func TestAccelPointsTowardAttractor(t *testing.T) {
	f := New([]Attractor{{K: 1.0, Pos: geom.Vec2{}, Color: [3]float64{1, 1, 1}}})

	acc := f.Accel(geom.Vec2{X: 1, Y: 0})
	if acc.X >= 0 {
		t.Errorf("acceleration should point toward the origin, got x-component %f", acc.X)
	}
	if math.Abs(acc.Y) > 1e-12 {
		t.Errorf("expected zero y-component on the axis, got %f", acc.Y)
	}
	// inverse-square: |a| = k/r^2 = 1 at r=1
	if math.Abs(acc.Norm()-1.0) > 1e-12 {
		t.Errorf("expected magnitude 1 at r=1, got %f", acc.Norm())
	}
}

func TestAccelSkipsCoincidentPole(t *testing.T) {
	f := twoPoles()
	// Sitting exactly on the first pole: only the second contributes.
	acc := f.Accel(geom.Vec2{X: -0.5})
	if math.IsNaN(acc.X) || math.IsInf(acc.X, 0) {
		t.Fatalf("coincident pole produced non-finite force: %v", acc)
	}
	if acc.X <= 0 {
		t.Errorf("remaining pole at x=0.5 should pull right, got %f", acc.X)
	}
}

func TestAccelCancelsAtMidpoint(t *testing.T) {
	f := twoPoles()
	acc := f.Accel(geom.Vec2{})
	if acc.Norm() > 1e-12 {
		t.Errorf("symmetric poles should cancel at the midpoint, got %v", acc)
	}
}

func TestCaptureFirstMatchWins(t *testing.T) {
	f := New([]Attractor{
		{K: 1, Pos: geom.Vec2{}, Color: [3]float64{1, 0, 0}},
		{K: 1, Pos: geom.Vec2{X: 0.01}, Color: [3]float64{0, 1, 0}},
	})
	// Both within radius; slice order breaks the tie.
	if got := f.Capture(geom.Vec2{X: 0.005}, 0.1); got != 0 {
		t.Errorf("expected first attractor to win, got %d", got)
	}
}

func TestCaptureNone(t *testing.T) {
	f := twoPoles()
	if got := f.Capture(geom.Vec2{Y: 1.5}, 0.03); got != -1 {
		t.Errorf("expected no capture, got %d", got)
	}
}

func TestNearest(t *testing.T) {
	f := twoPoles()
	idx, d := f.Nearest(geom.Vec2{X: 0.4})
	if idx != 1 {
		t.Errorf("expected nearest index 1, got %d", idx)
	}
	if math.Abs(d-0.1) > 1e-12 {
		t.Errorf("expected distance 0.1, got %f", d)
	}
}

func TestValidate(t *testing.T) {
	if err := twoPoles().Validate(); err != nil {
		t.Errorf("valid field rejected: %v", err)
	}

	one := New([]Attractor{{K: 1, Color: [3]float64{1, 1, 1}}})
	if err := one.Validate(); err == nil {
		t.Error("expected error for fewer than 2 attractors")
	}

	bad := twoPoles()
	bad.Attractors[0].K = -1
	if err := bad.Validate(); err == nil {
		t.Error("expected error for non-positive strength")
	}

	tint := twoPoles()
	tint.Attractors[1].Color[2] = 1.5
	if err := tint.Validate(); err == nil {
		t.Error("expected error for out-of-range color")
	}
}

func TestEnergy(t *testing.T) {
	f := New([]Attractor{{K: 2.0, Pos: geom.Vec2{}, Color: [3]float64{1, 1, 1}}})

	// At r=1 with speed 1: E = 0.5*1 - 2/1 = -1.5
	e := f.Energy(geom.Vec2{X: 1}, geom.Vec2{Y: 1})
	if math.Abs(e-(-1.5)) > 1e-12 {
		t.Errorf("expected energy -1.5, got %f", e)
	}
}
