package config

import (
	"sort"

	"github.com/san-kum/combustlab/internal/units"
)

// Presets are named matrices grouped by fuel.
var Presets = map[string]map[string]*Config{
	"C3H8": {
		"lean-sweep": {
			Replicates: 3, Fuel: "C3H8", Oxidizer: "O2", Diluent: "N2",
			Equivalence:         []float64{0.6, 0.7, 0.8, 0.9, 1.0},
			DiluentMoleFraction: []float64{0},
		},
		"dilution": {
			Replicates: 3, Fuel: "C3H8", Oxidizer: "O2", Diluent: "N2",
			Equivalence:         []float64{1.0},
			DiluentMoleFraction: []float64{0, 0.1, 0.2, 0.3, 0.4},
		},
		"grid": {
			Replicates: 4, Fuel: "C3H8", Oxidizer: "O2", Diluent: "CO2",
			Equivalence:         []float64{0.8, 1.0, 1.2},
			DiluentMoleFraction: []float64{0, 0.1, 0.2},
		},
	},
	"CH4": {
		"stoich": {
			Replicates: 5, Fuel: "CH4", Oxidizer: "O2", Diluent: "N2",
			Equivalence:         []float64{1.0},
			DiluentMoleFraction: []float64{0},
		},
		"rich-sweep": {
			Replicates: 3, Fuel: "CH4", Oxidizer: "O2", Diluent: "N2",
			Equivalence:         []float64{1.0, 1.2, 1.4, 1.6},
			DiluentMoleFraction: []float64{0, 0.2},
		},
	},
	"H2": {
		"argon": {
			Replicates: 3, Fuel: "H2", Oxidizer: "O2", Diluent: "Ar",
			Equivalence:         []float64{0.5, 1.0, 1.5},
			DiluentMoleFraction: []float64{0, 0.2, 0.4, 0.6},
		},
		"elevated": {
			Replicates: 2, Fuel: "H2", Oxidizer: "O2", Diluent: "He",
			Equivalence:         []float64{1.0},
			DiluentMoleFraction: []float64{0, 0.5},
			InitialPressure:     units.Q(5, "atm"),
			InitialTemperature:  units.Q(400, "K"),
		},
	},
}

// GetPreset returns a copy of the named preset filled in over the
// defaults, or nil.
func GetPreset(fuel, preset string) *Config {
	fuelPresets, ok := Presets[fuel]
	if !ok {
		return nil
	}
	p, ok := fuelPresets[preset]
	if !ok {
		return nil
	}

	cfg := DefaultConfig()
	cfg.Replicates = p.Replicates
	cfg.Fuel = p.Fuel
	cfg.Oxidizer = p.Oxidizer
	cfg.Diluent = p.Diluent
	cfg.Equivalence = copyList(p.Equivalence)
	cfg.DiluentMoleFraction = copyList(p.DiluentMoleFraction)
	if !p.InitialPressure.IsZero() {
		cfg.InitialPressure = p.InitialPressure
	}
	if !p.InitialTemperature.IsZero() {
		cfg.InitialTemperature = p.InitialTemperature
	}
	return cfg
}

func copyList(v any) any {
	if fs, ok := v.([]float64); ok {
		return append([]float64(nil), fs...)
	}
	return v
}

// ListPresets returns the preset names for fuel, sorted.
func ListPresets(fuel string) []string {
	fuelPresets, ok := Presets[fuel]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(fuelPresets))
	for name := range fuelPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// PresetFuels returns the fuels that have presets, sorted.
func PresetFuels() []string {
	fuels := make([]string, 0, len(Presets))
	for fuel := range Presets {
		fuels = append(fuels, fuel)
	}
	sort.Strings(fuels)
	return fuels
}
