package chem

import (
	"context"
	"math"
	"sort"
)

// Composition maps species to mole fractions.
type Composition map[string]float64

// Clone returns an independent copy.
func (c Composition) Clone() Composition {
	out := make(Composition, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// Sum returns the total of all fractions.
func (c Composition) Sum() float64 {
	sum := 0.0
	for _, v := range c {
		sum += v
	}
	return sum
}

// Species returns the species names in sorted order.
func (c Composition) Species() []string {
	names := make([]string, 0, len(c))
	for k := range c {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// IsValid reports whether every fraction is finite and within [0, 1].
func (c Composition) IsValid() bool {
	for _, v := range c {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 || v > 1 {
			return false
		}
	}
	return true
}

// State is a mixture at a thermodynamic state point. Temperature is in K,
// pressure in Pa.
type State struct {
	Composition Composition
	Temperature float64
	Pressure    float64
}

// Provider is the thermochemical property source. Implementations treat
// species identifiers as case-sensitive formulas.
type Provider interface {
	Valid(species string) bool
	// MolarMass returns kg/mol.
	MolarMass(species string) (float64, error)
	// Stoichiometry returns moles of oxidizer per mole of fuel at an
	// equivalence ratio of one.
	Stoichiometry(fuel, oxidizer string) (float64, error)
	// SoundSpeed returns the equilibrium speed of sound in m/s.
	SoundSpeed(ctx context.Context, s State) (float64, error)
	// FlameSpeed returns the laminar burning velocity in m/s.
	FlameSpeed(ctx context.Context, s State) (float64, error)
}

// GasConstant is the universal gas constant in J/(mol·K).
const GasConstant = 8.314462618
