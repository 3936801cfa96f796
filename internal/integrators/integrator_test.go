package integrators

import (
	"testing"

	"github.com/san-kum/basinmap/internal/field"
	"github.com/san-kum/basinmap/internal/geom"
)

func symmetricPair() *field.Field {
	return field.New([]field.Attractor{
		{K: 1.0, Pos: geom.Vec2{X: -0.5}, Color: [3]float64{1, 0, 0}},
		{K: 1.0, Pos: geom.Vec2{X: 0.5}, Color: [3]float64{0, 0, 1}},
	})
}

func allIntegrators(t *testing.T) map[string]Integrator {
	t.Helper()
	out := make(map[string]Integrator)
	for _, name := range Names() {
		integ, err := New(name)
		if err != nil {
			t.Fatalf("registry returned unknown name %s: %v", name, err)
		}
		out[name] = integ
	}
	return out
}

func TestNewUnknownName(t *testing.T) {
	if _, err := New("euler"); err == nil {
		t.Error("expected error for unregistered integrator")
	}
	if _, err := New(""); err == nil {
		t.Error("expected error for empty integrator name")
	}
}

func TestNames(t *testing.T) {
	names := Names()
	if len(names) != 2 {
		t.Fatalf("expected 2 integrators, got %d: %v", len(names), names)
	}
}

func TestImmediateCapture(t *testing.T) {
	f := symmetricPair()
	p := DefaultParams()

	// Start well inside the capture radius of the second attractor. The first
	// step check must resolve it regardless of scheme.
	start := geom.Vec2{X: 0.5 + p.CaptureRadius/10}
	for name, integ := range allIntegrators(t) {
		if got := integ.Integrate(f, start, geom.Vec2{}, p); got != 1 {
			t.Errorf("%s: expected capture by attractor 1, got %d", name, got)
		}
	}
}

func TestEscapeOutsideBound(t *testing.T) {
	// A weak pole and a fast outbound particle: must escape, not hang.
	f := field.New([]field.Attractor{
		{K: 0.5, Pos: geom.Vec2{}, Color: [3]float64{1, 1, 1}},
		{K: 0.5, Pos: geom.Vec2{X: 0.1}, Color: [3]float64{1, 1, 1}},
	})
	p := DefaultParams()

	start := geom.Vec2{X: 1.9}
	vel := geom.Vec2{X: 5.0}
	for name, integ := range allIntegrators(t) {
		if got := integ.Integrate(f, start, vel, p); got != Escaped {
			t.Errorf("%s: expected escape, got %d", name, got)
		}
	}
}

func TestStepBudgetExhaustionIsEscape(t *testing.T) {
	f := symmetricPair()
	p := DefaultParams()
	p.MaxSteps = 1

	// One step from rest at the midpoint resolves nothing; the budget runs
	// out and the outcome folds into escape.
	for name, integ := range allIntegrators(t) {
		if got := integ.Integrate(f, geom.Vec2{Y: 0.8}, geom.Vec2{}, p); got != Escaped {
			t.Errorf("%s: expected escape on budget exhaustion, got %d", name, got)
		}
	}
}

func TestDeterminism(t *testing.T) {
	f := symmetricPair()
	p := DefaultParams()
	start := geom.Vec2{X: 0.1, Y: 0.7}

	for name, integ := range allIntegrators(t) {
		first := integ.Integrate(f, start, geom.Vec2{}, p)
		for i := 0; i < 5; i++ {
			if got := integ.Integrate(f, start, geom.Vec2{}, p); got != first {
				t.Fatalf("%s: outcome changed between runs: %d then %d", name, first, got)
			}
		}
	}
}

func TestDeepInteriorAgreement(t *testing.T) {
	f := symmetricPair()
	p := DefaultParams()
	p.Dt = 0.001

	rk4, _ := New("rk4")
	leap, _ := New("symplectic")

	// Points well inside a basin, far from the boundary between the pair.
	starts := []geom.Vec2{
		{X: -0.45, Y: 0.05},
		{X: 0.45, Y: -0.05},
		{X: -0.55},
		{X: 0.55},
	}
	for _, s := range starts {
		a := rk4.Integrate(f, s, geom.Vec2{}, p)
		b := leap.Integrate(f, s, geom.Vec2{}, p)
		if a != b {
			t.Errorf("start %v: rk4 got %d, symplectic got %d", s, a, b)
		}
		if a == Escaped {
			t.Errorf("start %v: deep interior point escaped", s)
		}
	}
}

func TestSingleAttractorCaptures(t *testing.T) {
	// Validate() demands two poles, but the integrators accept any field.
	f := field.New([]field.Attractor{{K: 1.0, Pos: geom.Vec2{}, Color: [3]float64{1, 1, 1}}})
	p := DefaultParams()

	for name, integ := range allIntegrators(t) {
		if got := integ.Integrate(f, geom.Vec2{X: 0.3}, geom.Vec2{}, p); got != 0 {
			t.Errorf("%s: free fall onto a lone pole should capture, got %d", name, got)
		}
	}
}

func TestParamsValidate(t *testing.T) {
	good := DefaultParams()
	if err := good.Validate(); err != nil {
		t.Errorf("default params rejected: %v", err)
	}

	cases := []Params{
		{Dt: 0, MaxSteps: 10, CaptureRadius: 0.03, EscapeRadius: 2},
		{Dt: 0.004, MaxSteps: 0, CaptureRadius: 0.03, EscapeRadius: 2},
		{Dt: 0.004, MaxSteps: 10, CaptureRadius: 0, EscapeRadius: 2},
		{Dt: 0.004, MaxSteps: 10, CaptureRadius: 0.03, EscapeRadius: -1},
	}
	for i, p := range cases {
		if err := p.Validate(); err == nil {
			t.Errorf("case %d: expected validation error", i)
		}
	}
}
