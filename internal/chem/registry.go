package chem

import "github.com/san-kum/combustlab/internal/units"

// Registry bundles the property provider with the unit registry used to
// interpret temperatures and pressures.
type Registry struct {
	Provider Provider
	Units    *units.Registry
}

// NewRegistry returns a registry for p. A nil unit registry selects
// units.Default().
func NewRegistry(p Provider, u *units.Registry) *Registry {
	if u == nil {
		u = units.Default()
	}
	return &Registry{Provider: p, Units: u}
}

// Temperature converts q to kelvin. Zero and negative absolute
// temperatures are rejected.
func (r *Registry) Temperature(q units.Quantity) (float64, error) {
	return r.positiveSI("temperature", q, units.Temperature)
}

// Pressure converts q to pascal.
func (r *Registry) Pressure(q units.Quantity) (float64, error) {
	return r.positiveSI("pressure", q, units.Pressure)
}

// Volume converts q to cubic metres.
func (r *Registry) Volume(q units.Quantity) (float64, error) {
	return r.positiveSI("volume", q, units.Volume)
}

func (r *Registry) positiveSI(name string, q units.Quantity, dim units.Dimension) (float64, error) {
	if err := r.Units.Check(q, dim, true); err != nil {
		return 0, Errorf(ErrInvalidParameter, "%s: %v", name, err)
	}
	v, err := r.Units.ToSI(q)
	if err != nil {
		return 0, Errorf(ErrInvalidParameter, "%s: %v", name, err)
	}
	if v <= 0 {
		return 0, Errorf(ErrInvalidParameter, "%s <= 0", name)
	}
	return v, nil
}
