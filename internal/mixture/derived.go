package mixture

import (
	"github.com/san-kum/combustlab/internal/chem"
	"github.com/san-kum/combustlab/internal/units"
)

// GetMass returns mass fractions consistent with the current mole fractions.
func (m *Mixture) GetMass() (map[string]float64, error) {
	weights, mean, err := m.weights()
	if err != nil {
		return nil, err
	}
	out := make(map[string]float64, len(m.composition))
	for name, x := range m.composition {
		out[name] = x * weights[name] / mean
	}
	return out, nil
}

// GetMasses returns the mass in kg of each species filling volume at the
// given pressure and temperature, treating the mixture as an ideal gas.
func (m *Mixture) GetMasses(pressure, temperature, volume units.Quantity) (map[string]float64, error) {
	p, err := m.registry.Pressure(pressure)
	if err != nil {
		return nil, err
	}
	t, err := m.registry.Temperature(temperature)
	if err != nil {
		return nil, err
	}
	v, err := m.registry.Volume(volume)
	if err != nil {
		return nil, err
	}
	weights, _, err := m.weights()
	if err != nil {
		return nil, err
	}

	moles := p * v / (chem.GasConstant * t)
	out := make(map[string]float64, len(m.composition))
	for name, x := range m.composition {
		out[name] = x * moles * weights[name]
	}
	return out, nil
}

// GetPressures returns the partial pressure in Pa of each constituent.
func (m *Mixture) GetPressures(total units.Quantity) (map[string]float64, error) {
	p, err := m.registry.Pressure(total)
	if err != nil {
		return nil, err
	}
	out := make(map[string]float64, len(m.composition))
	for name, x := range m.composition {
		out[name] = x * p
	}
	return out, nil
}

// State assembles the provider input for the current composition.
func (m *Mixture) State(temperature, pressure units.Quantity) (chem.State, error) {
	t, err := m.registry.Temperature(temperature)
	if err != nil {
		return chem.State{}, err
	}
	p, err := m.registry.Pressure(pressure)
	if err != nil {
		return chem.State{}, err
	}
	return chem.State{Composition: m.composition.Clone(), Temperature: t, Pressure: p}, nil
}

// weights returns per-species molar masses and the mean molar mass,
// summed in sorted species order so results are reproducible.
func (m *Mixture) weights() (map[string]float64, float64, error) {
	weights := make(map[string]float64, len(m.composition))
	mean := 0.0
	for _, name := range m.composition.Species() {
		w, err := m.registry.Provider.MolarMass(name)
		if err != nil {
			return nil, 0, err
		}
		weights[name] = w
		mean += m.composition[name] * w
	}
	return weights, mean, nil
}
