package testmatrix

import (
	"github.com/san-kum/combustlab/internal/mixture"
	"github.com/san-kum/combustlab/internal/units"
)

// Condition is one cell of the test matrix. Pressures are in Pa and the
// temperature in K. Diluent fields are zero for undiluted conditions.
type Condition struct {
	Equivalence         float64 `json:"equivalence"`
	DiluentMoleFraction float64 `json:"diluent_mole_fraction"`

	Fuel     string `json:"fuel"`
	Oxidizer string `json:"oxidizer"`
	Diluent  string `json:"diluent,omitempty"`

	InitialPressure    float64 `json:"initial_pressure"`
	InitialTemperature float64 `json:"initial_temperature"`

	FuelMoleFraction     float64 `json:"fuel_mole_fraction"`
	OxidizerMoleFraction float64 `json:"oxidizer_mole_fraction"`

	FuelMassFraction     float64 `json:"fuel_mass_fraction"`
	OxidizerMassFraction float64 `json:"oxidizer_mass_fraction"`
	DiluentMassFraction  float64 `json:"diluent_mass_fraction"`

	FuelPartialPressure     float64 `json:"fuel_partial_pressure"`
	OxidizerPartialPressure float64 `json:"oxidizer_partial_pressure"`
	DiluentPartialPressure  float64 `json:"diluent_partial_pressure"`
}

// condition evaluates one (phi, d) pair. A zero fraction takes the
// undiluted path and never touches the diluent species.
func (tm *TestMatrix) condition(phi, d float64) (Condition, error) {
	mix, err := mixture.New(tm.fuel, tm.oxidizer,
		mixture.WithRegistry(tm.registry),
		mixture.WithEquivalence(phi),
	)
	if err != nil {
		return Condition{}, err
	}
	if d > 0 {
		if err := mix.AddDiluent(tm.diluent, d); err != nil {
			return Condition{}, err
		}
	}

	x := mix.MoleFractions()
	y, err := mix.GetMass()
	if err != nil {
		return Condition{}, err
	}
	pp, err := mix.GetPressures(units.Q(tm.pressure, "Pa"))
	if err != nil {
		return Condition{}, err
	}

	c := Condition{
		Equivalence:          phi,
		Fuel:                 tm.fuel,
		Oxidizer:             tm.oxidizer,
		InitialPressure:      tm.pressure,
		InitialTemperature:   tm.temperature,
		FuelMoleFraction:     x[tm.fuel],
		OxidizerMoleFraction: x[tm.oxidizer],
		FuelMassFraction:     y[tm.fuel],
		OxidizerMassFraction: y[tm.oxidizer],

		FuelPartialPressure:     pp[tm.fuel],
		OxidizerPartialPressure: pp[tm.oxidizer],
	}
	if d > 0 {
		c.Diluent = tm.diluent
		c.DiluentMoleFraction = d
		c.DiluentMassFraction = y[tm.diluent]
		c.DiluentPartialPressure = pp[tm.diluent]
	}
	return c, nil
}
