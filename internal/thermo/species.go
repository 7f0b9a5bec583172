package thermo

// Species is one entry of the provider's species table.
type Species struct {
	Name    string
	Formula string
	// Cp is the ideal-gas heat capacity at 298 K in J/(mol·K).
	Cp float64
	// Oxidizer marks species that can act as the oxygen source.
	Oxidizer bool
	// Flame holds flame-speed coefficients; nil for species that are not
	// correlated as fuels.
	Flame *FlameCoefficients
}

// FlameCoefficients parameterize S0(φ) = Bm + Bphi·(φ-PhiM)² in m/s at
// 298 K and 1 atm.
type FlameCoefficients struct {
	PhiM float64
	Bm   float64
	Bphi float64
}

var defaultSpecies = []Species{
	{Name: "H2", Formula: "H2", Cp: 28.84, Flame: &FlameCoefficients{PhiM: 1.8, Bm: 2.85, Bphi: -1.20}},
	{Name: "CH4", Formula: "CH4", Cp: 35.69, Flame: &FlameCoefficients{PhiM: 1.06, Bm: 0.370, Bphi: -1.45}},
	{Name: "C2H2", Formula: "C2H2", Cp: 44.04, Flame: &FlameCoefficients{PhiM: 1.25, Bm: 1.55, Bphi: -1.90}},
	{Name: "C2H4", Formula: "C2H4", Cp: 42.90, Flame: &FlameCoefficients{PhiM: 1.13, Bm: 0.680, Bphi: -1.70}},
	{Name: "C2H6", Formula: "C2H6", Cp: 52.49, Flame: &FlameCoefficients{PhiM: 1.10, Bm: 0.410, Bphi: -1.50}},
	{Name: "C3H8", Formula: "C3H8", Cp: 73.60, Flame: &FlameCoefficients{PhiM: 1.08, Bm: 0.3422, Bphi: -1.3865}},
	{Name: "C4H10", Formula: "C4H10", Cp: 97.45, Flame: &FlameCoefficients{PhiM: 1.08, Bm: 0.340, Bphi: -1.40}},
	{Name: "CH3OH", Formula: "CH3OH", Cp: 44.06, Flame: &FlameCoefficients{PhiM: 1.11, Bm: 0.3692, Bphi: -1.4051}},
	{Name: "CO", Formula: "CO", Cp: 29.14},
	{Name: "NH3", Formula: "NH3", Cp: 35.06},

	{Name: "O2", Formula: "O2", Cp: 29.38, Oxidizer: true},
	{Name: "N2O", Formula: "N2O", Cp: 38.62, Oxidizer: true},

	{Name: "N2", Formula: "N2", Cp: 29.12},
	{Name: "CO2", Formula: "CO2", Cp: 37.12},
	{Name: "H2O", Formula: "H2O", Cp: 33.58},
	{Name: "Ar", Formula: "Ar", Cp: 20.786},
	{Name: "He", Formula: "He", Cp: 20.786},
	{Name: "Ne", Formula: "Ne", Cp: 20.786},
	{Name: "Kr", Formula: "Kr", Cp: 20.786},
	{Name: "Xe", Formula: "Xe", Cp: 20.786},
}

// DefaultSpecies returns a copy of the built-in species table.
func DefaultSpecies() []Species {
	out := make([]Species, len(defaultSpecies))
	copy(out, defaultSpecies)
	return out
}
