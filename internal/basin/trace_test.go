package basin

import (
	"testing"

	"github.com/san-kum/basinmap/internal/geom"
	"github.com/san-kum/basinmap/internal/integrators"
)

func TestTraceCapturesNearPole(t *testing.T) {
	f := testField()
	p := integrators.DefaultParams()

	tr, err := Trace(f, "symplectic", geom.Vec2{X: -0.45}, p)
	if err != nil {
		t.Fatal(err)
	}
	if tr.Outcome != 0 {
		t.Errorf("expected capture by attractor 0, got %d", tr.Outcome)
	}
	if tr.Steps == 0 || len(tr.Positions) != tr.Steps+1 {
		t.Errorf("recording inconsistent: %d steps, %d positions", tr.Steps, len(tr.Positions))
	}
	if len(tr.Speeds) != len(tr.Positions) || len(tr.NearDist) != len(tr.Positions) || len(tr.Energies) != len(tr.Positions) {
		t.Error("trajectory series lengths disagree")
	}
}

func TestTraceStartsAtRest(t *testing.T) {
	tr, err := Trace(testField(), "rk4", geom.Vec2{Y: 0.9}, integrators.DefaultParams())
	if err != nil {
		t.Fatal(err)
	}
	if tr.Speeds[0] != 0 {
		t.Errorf("expected zero initial speed, got %f", tr.Speeds[0])
	}
}

func TestTraceUnknownIntegrator(t *testing.T) {
	if _, err := Trace(testField(), "rk45", geom.Vec2{}, integrators.DefaultParams()); err == nil {
		t.Error("expected error for unknown integrator name")
	}
}

func TestTraceMatchesClassification(t *testing.T) {
	f := testField()
	p := integrators.DefaultParams()
	starts := []geom.Vec2{{X: -0.45}, {X: 0.45}, {X: 0.2, Y: 0.6}}

	for _, name := range integrators.Names() {
		integ, err := integrators.New(name)
		if err != nil {
			t.Fatal(err)
		}
		for _, s := range starts {
			tr, err := Trace(f, name, s, p)
			if err != nil {
				t.Fatal(err)
			}
			if got := integ.Integrate(f, s, geom.Vec2{}, p); got != tr.Outcome {
				t.Errorf("%s from %v: trace outcome %d, classification %d", name, s, tr.Outcome, got)
			}
		}
	}
}

func TestTraceEnergyDriftSymplecticBounded(t *testing.T) {
	// From rest on the symmetry axis the particle oscillates along it and
	// never approaches a pole closer than 0.5, so drift stays well behaved.
	f := testField()
	p := integrators.DefaultParams()
	p.MaxSteps = 200
	p.CaptureRadius = 1e-6 // keep the trajectory alive

	tr, err := Trace(f, "symplectic", geom.Vec2{Y: 0.8}, p)
	if err != nil {
		t.Fatal(err)
	}
	if tr.EnergyDrift() > 0.05 {
		t.Errorf("symplectic drift unexpectedly large: %f", tr.EnergyDrift())
	}
}
