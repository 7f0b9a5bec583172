package thermo

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/combustlab/internal/chem"
)

const (
	refTemperature = 298.0
	refPressure    = 101325.0
)

type entry struct {
	Species
	formula   Formula
	molarMass float64 // kg/mol
}

// Ideal is the built-in ideal-gas provider.
type Ideal struct {
	species map[string]entry
}

var _ chem.Provider = (*Ideal)(nil)

// NewIdeal returns a provider over the built-in species table.
func NewIdeal() *Ideal {
	p, err := NewIdealWith(defaultSpecies)
	if err != nil {
		panic(fmt.Sprintf("thermo: built-in species table: %v", err))
	}
	return p
}

// NewIdealWith returns a provider over a caller-supplied species table.
func NewIdealWith(table []Species) (*Ideal, error) {
	p := &Ideal{species: make(map[string]entry, len(table))}
	for _, s := range table {
		if s.Name == "" {
			return nil, fmt.Errorf("species with empty name")
		}
		f, err := ParseFormula(s.Formula)
		if err != nil {
			return nil, fmt.Errorf("species %s: %w", s.Name, err)
		}
		if s.Cp <= chem.GasConstant {
			return nil, fmt.Errorf("species %s: cp %.3f must exceed R", s.Name, s.Cp)
		}
		p.species[s.Name] = entry{Species: s, formula: f, molarMass: f.MolarMass() / 1000}
	}
	return p, nil
}

func (p *Ideal) Valid(species string) bool {
	_, ok := p.species[species]
	return ok
}

func (p *Ideal) lookup(species string) (entry, error) {
	e, ok := p.species[species]
	if !ok {
		return entry{}, chem.Errorf(chem.ErrInvalidSpecies, "unknown species %q", species)
	}
	return e, nil
}

func (p *Ideal) MolarMass(species string) (float64, error) {
	e, err := p.lookup(species)
	if err != nil {
		return 0, err
	}
	return e.molarMass, nil
}

func (p *Ideal) Stoichiometry(fuel, oxidizer string) (float64, error) {
	f, err := p.lookup(fuel)
	if err != nil {
		return 0, err
	}
	o, err := p.lookup(oxidizer)
	if err != nil {
		return 0, err
	}
	carried := float64(o.formula["O"])
	if !o.Oxidizer || carried == 0 {
		return 0, chem.Errorf(chem.ErrInvalidComposition, "%s is not an oxidizer", oxidizer)
	}
	demand := f.formula.oxygenDemand()
	if demand <= 0 {
		return 0, chem.Errorf(chem.ErrInvalidComposition, "%s cannot be burned with %s", fuel, oxidizer)
	}
	return demand / carried, nil
}

// mixtureProps returns the mean molar mass (kg/mol) and mean cp of a
// normalized composition.
func (p *Ideal) mixtureProps(c chem.Composition) (w, cp float64, err error) {
	total := c.Sum()
	if total <= 0 || !c.IsValid() {
		return 0, 0, chem.Errorf(chem.ErrInvalidComposition, "composition must have positive fractions in [0, 1]")
	}
	for _, name := range c.Species() {
		e, err := p.lookup(name)
		if err != nil {
			return 0, 0, err
		}
		x := c[name] / total
		w += x * e.molarMass
		cp += x * e.Cp
	}
	return w, cp, nil
}

func checkState(s chem.State) error {
	if !(s.Temperature > 0) || math.IsInf(s.Temperature, 0) {
		return chem.Errorf(chem.ErrInvalidParameter, "temperature <= 0")
	}
	if !(s.Pressure > 0) || math.IsInf(s.Pressure, 0) {
		return chem.Errorf(chem.ErrInvalidParameter, "pressure <= 0")
	}
	return nil
}

// SoundSpeed evaluates the frozen-composition speed of sound.
func (p *Ideal) SoundSpeed(ctx context.Context, s chem.State) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if err := checkState(s); err != nil {
		return 0, err
	}
	w, cp, err := p.mixtureProps(s.Composition)
	if err != nil {
		return 0, err
	}
	gamma := cp / (cp - chem.GasConstant)
	return math.Sqrt(gamma * chem.GasConstant * s.Temperature / w), nil
}

// FlameSpeed evaluates the laminar burning velocity correlation. The
// composition must hold exactly one correlated fuel and one oxidizer; every
// other species counts as diluent.
func (p *Ideal) FlameSpeed(ctx context.Context, s chem.State) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if err := checkState(s); err != nil {
		return 0, err
	}
	if _, _, err := p.mixtureProps(s.Composition); err != nil {
		return 0, err
	}

	var fuel, oxidizer string
	for _, name := range s.Composition.Species() {
		if s.Composition[name] <= 0 {
			continue
		}
		e := p.species[name]
		switch {
		case e.Oxidizer:
			if oxidizer != "" {
				return 0, chem.Errorf(chem.ErrInvalidComposition, "more than one oxidizer")
			}
			oxidizer = name
		case e.formula.oxygenDemand() > 0:
			if fuel != "" {
				return 0, chem.Errorf(chem.ErrInvalidComposition, "more than one fuel")
			}
			fuel = name
		}
	}
	if fuel == "" || oxidizer == "" {
		return 0, chem.Errorf(chem.ErrInvalidComposition, "flame speed needs a fuel and an oxidizer")
	}
	coeff := p.species[fuel].Flame
	if coeff == nil {
		return 0, chem.Errorf(chem.ErrInvalidComposition, "no flame speed correlation for %s", fuel)
	}
	stoich, err := p.Stoichiometry(fuel, oxidizer)
	if err != nil {
		return 0, err
	}

	total := s.Composition.Sum()
	xf := s.Composition[fuel] / total
	xo := s.Composition[oxidizer] / total
	xd := 1 - xf - xo
	phi := xf / xo * stoich

	s0 := coeff.Bm + coeff.Bphi*(phi-coeff.PhiM)*(phi-coeff.PhiM)
	if s0 <= 0 {
		return 0, nil
	}
	alpha := 2.18 - 0.8*(phi-1)
	beta := -0.16 + 0.22*(phi-1)
	sl := s0 *
		math.Pow(s.Temperature/refTemperature, alpha) *
		math.Pow(s.Pressure/refPressure, beta) *
		(1 - 2.1*xd)
	return math.Max(sl, 0), nil
}

// Species returns the names known to the provider.
func (p *Ideal) Species() []string {
	names := make([]string, 0, len(p.species))
	for name := range p.species {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
