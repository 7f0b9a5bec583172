// Package mixture models a fuel/oxidizer/diluent gas mixture.
//
// Mole fractions follow the equivalence-ratio definition: with s moles of
// oxidizer per mole of fuel at stoichiometric conditions and a diluent mole
// fraction d,
//
//	x_fuel     = (1-d)·φ/(φ+s)
//	x_oxidizer = (1-d)·s/(φ+s)
//	x_diluent  = d
//
// Mass fractions and partial pressures are derived from the current mole
// fractions on every call.
package mixture

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/combustlab/internal/chem"
	"github.com/san-kum/combustlab/internal/thermo"
)

// Dilution records the diluent species and its mole fraction.
type Dilution struct {
	Species      string
	MoleFraction float64
}

// Mixture owns one composition. It is not safe for concurrent mutation.
type Mixture struct {
	registry    *chem.Registry
	fuel        string
	oxidizer    string
	stoich      float64
	equivalence float64
	diluted     *Dilution
	composition chem.Composition
}

type options struct {
	registry    *chem.Registry
	diluent     string
	fraction    float64
	equivalence float64
}

// Option configures New.
type Option func(*options)

// WithRegistry selects the registry. Without it thermo.DefaultRegistry() is used.
func WithRegistry(r *chem.Registry) Option {
	return func(o *options) { o.registry = r }
}

// WithDiluent adds a diluent at construction. A zero fraction validates the
// species but leaves the mixture undiluted.
func WithDiluent(species string, moleFraction float64) Option {
	return func(o *options) {
		o.diluent = species
		o.fraction = moleFraction
	}
}

// WithEquivalence sets the initial equivalence ratio (default 1).
func WithEquivalence(phi float64) Option {
	return func(o *options) { o.equivalence = phi }
}

// New validates the species and builds a stoichiometric (or WithEquivalence)
// mixture.
func New(fuel, oxidizer string, opts ...Option) (*Mixture, error) {
	o := options{equivalence: 1}
	for _, opt := range opts {
		opt(&o)
	}
	if o.registry == nil {
		o.registry = thermo.DefaultRegistry()
	}
	p := o.registry.Provider

	if fuel == "" || !p.Valid(fuel) {
		return nil, chem.Errorf(chem.ErrInvalidSpecies, "Bad fuel")
	}
	if oxidizer == "" || !p.Valid(oxidizer) {
		return nil, chem.Errorf(chem.ErrInvalidSpecies, "Bad oxidizer")
	}
	if o.diluent != "" && !p.Valid(o.diluent) {
		return nil, chem.Errorf(chem.ErrInvalidSpecies, "Bad diluent")
	}
	if fuel == oxidizer {
		return nil, chem.Errorf(chem.ErrInvalidComposition, "fuel and oxidizer must differ")
	}
	if o.diluent == fuel || o.diluent == oxidizer {
		return nil, chem.Errorf(chem.ErrInvalidComposition, "You can't dilute with fuel or oxidizer!")
	}
	if err := checkFraction(o.fraction); err != nil {
		return nil, err
	}
	if err := checkEquivalence(o.equivalence); err != nil {
		return nil, err
	}

	stoich, err := p.Stoichiometry(fuel, oxidizer)
	if err != nil {
		return nil, err
	}

	m := &Mixture{
		registry:    o.registry,
		fuel:        fuel,
		oxidizer:    oxidizer,
		stoich:      stoich,
		equivalence: o.equivalence,
	}
	if o.diluent != "" && o.fraction > 0 {
		m.diluted = &Dilution{Species: o.diluent, MoleFraction: o.fraction}
	}
	m.composition = m.balance(m.equivalence, m.diluted)
	return m, nil
}

func checkFraction(x float64) error {
	if math.IsNaN(x) || x < 0 || x > 1 {
		return chem.Errorf(chem.ErrInvalidComposition, "Bro, do you even mole fraction?")
	}
	return nil
}

func checkEquivalence(phi float64) error {
	if math.IsNaN(phi) || math.IsInf(phi, 0) || phi <= 0 {
		return chem.Errorf(chem.ErrInvalidComposition, "equivalence ratio must be positive")
	}
	return nil
}

// balance computes mole fractions without touching m.
func (m *Mixture) balance(phi float64, d *Dilution) chem.Composition {
	c := make(chem.Composition, 3)
	remaining := 1.0
	if d != nil {
		c[d.Species] = d.MoleFraction
		remaining -= d.MoleFraction
	}
	c[m.fuel] = remaining * phi / (phi + m.stoich)
	c[m.oxidizer] = remaining * m.stoich / (phi + m.stoich)
	return c
}

// SetEquivalence rebalances fuel and oxidizer for ratio phi, keeping the
// diluent fraction.
func (m *Mixture) SetEquivalence(phi float64) error {
	if err := checkEquivalence(phi); err != nil {
		return err
	}
	m.composition = m.balance(phi, m.diluted)
	m.equivalence = phi
	return nil
}

// AddDiluent replaces any current diluent with species at moleFraction and
// rescales fuel and oxidizer into the remaining fraction. On error the
// mixture is unchanged.
func (m *Mixture) AddDiluent(species string, moleFraction float64) error {
	if species == "" || !m.registry.Provider.Valid(species) {
		return chem.Errorf(chem.ErrInvalidSpecies, "Bad diluent: %s", species)
	}
	if species == m.fuel || species == m.oxidizer {
		return chem.Errorf(chem.ErrInvalidComposition, "You can't dilute with fuel or oxidizer!")
	}
	if err := checkFraction(moleFraction); err != nil {
		return err
	}

	var d *Dilution
	if moleFraction > 0 {
		d = &Dilution{Species: species, MoleFraction: moleFraction}
	}
	m.composition = m.balance(m.equivalence, d)
	m.diluted = d
	return nil
}

func (m *Mixture) Fuel() string { return m.fuel }
func (m *Mixture) Oxidizer() string { return m.oxidizer }
func (m *Mixture) Equivalence() float64 { return m.equivalence }
func (m *Mixture) Registry() *chem.Registry { return m.registry }
func (m *Mixture) MoleFractions() chem.Composition { return m.composition.Clone() }

// Stoichiometry returns moles of oxidizer per mole of fuel at φ = 1.
func (m *Mixture) Stoichiometry() float64 { return m.stoich }

// Diluted returns a copy of the dilution, or nil for an undiluted mixture.
func (m *Mixture) Diluted() *Dilution {
	if m.diluted == nil {
		return nil
	}
	d := *m.diluted
	return &d
}

func (m *Mixture) String() string {
	parts := make([]string, 0, len(m.composition))
	for _, name := range m.composition.Species() {
		parts = append(parts, fmt.Sprintf("%s:%.6g", name, m.composition[name]))
	}
	return strings.Join(parts, " ")
}
