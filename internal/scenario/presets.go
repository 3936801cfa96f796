package scenario

// Presets are fixed layouts for reproducible renders and comparisons.
var Presets = map[string]*Scenario{
	"dipole": {
		Name: "dipole",
		Attractors: []AttractorSpec{
			{K: 1.0, X: -0.5, Y: 0, Color: [3]float64{0.9, 0.25, 0.2}},
			{K: 1.0, X: 0.5, Y: 0, Color: [3]float64{0.2, 0.4, 0.9}},
		},
	},
	"binary": {
		Name: "binary",
		Attractors: []AttractorSpec{
			{K: 1.8, X: -0.3, Y: 0, Color: [3]float64{0.95, 0.8, 0.25}},
			{K: 0.6, X: 0.6, Y: 0, Color: [3]float64{0.45, 0.85, 0.9}},
		},
	},
	"triangle": {
		Name: "triangle",
		Attractors: []AttractorSpec{
			{K: 1.0, X: 0, Y: 0.6, Color: [3]float64{0.9, 0.3, 0.3}},
			{K: 1.0, X: -0.52, Y: -0.3, Color: [3]float64{0.3, 0.8, 0.35}},
			{K: 1.0, X: 0.52, Y: -0.3, Color: [3]float64{0.3, 0.4, 0.9}},
		},
	},
	"ring": {
		Name: "ring",
		Attractors: []AttractorSpec{
			{K: 0.8, X: 0.7, Y: 0, Color: [3]float64{0.9, 0.35, 0.3}},
			{K: 0.8, X: 0, Y: 0.7, Color: [3]float64{0.85, 0.75, 0.3}},
			{K: 0.8, X: -0.7, Y: 0, Color: [3]float64{0.35, 0.8, 0.45}},
			{K: 0.8, X: 0, Y: -0.7, Color: [3]float64{0.4, 0.45, 0.9}},
		},
	},
}

func GetPreset(name string) *Scenario {
	return Presets[name]
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	return names
}
