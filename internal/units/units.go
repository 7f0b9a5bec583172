// Package units provides unit-carrying quantities and dimension checks for
// the state variables a mixture is evaluated at.
//
// A [Quantity] is a magnitude plus a unit symbol. A [Registry] maps unit
// symbols to their dimension and their affine conversion into SI:
//
//	si = value*Scale + Offset
//
// Offsets only appear for temperature scales (degC, degF).
//
// # Example
//
//	p := units.Q(1, "atm")
//	if err := units.Check(p, units.Pressure, true); err != nil {
//	    return err
//	}
//	pa, _ := units.ToSI(p) // 101325
package units

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// Dimension names a physical dimension.
type Dimension string

const (
	Length      Dimension = "length"
	Area        Dimension = "area"
	Volume      Dimension = "volume"
	Mass        Dimension = "mass"
	Temperature Dimension = "temperature"
	Pressure    Dimension = "pressure"
	Velocity    Dimension = "velocity"
)

var dimensions = map[Dimension]bool{
	Length:      true,
	Area:        true,
	Volume:      true,
	Mass:        true,
	Temperature: true,
	Pressure:    true,
	Velocity:    true,
}

// ErrInvalidQuantity is wrapped by every error returned from Check and ToSI.
var ErrInvalidQuantity = errors.New("units: invalid quantity")

type quantityError struct {
	msg string
}

func (e *quantityError) Error() string { return e.msg }
func (e *quantityError) Unwrap() error { return ErrInvalidQuantity }

func invalid(format string, args ...any) error {
	return &quantityError{msg: fmt.Sprintf(format, args...)}
}

// Quantity is a magnitude in a named unit.
type Quantity struct {
	Value float64 `json:"value" yaml:"value" mapstructure:"value"`
	Unit  string  `json:"unit" yaml:"unit" mapstructure:"unit"`
}

// Q is shorthand for Quantity{Value: v, Unit: unit}.
func Q(v float64, unit string) Quantity {
	return Quantity{Value: v, Unit: unit}
}

func (q Quantity) String() string {
	return fmt.Sprintf("%g %s", q.Value, q.Unit)
}

// IsZero reports whether q is the zero Quantity (no unit set).
func (q Quantity) IsZero() bool {
	return q.Unit == "" && q.Value == 0
}

// Def describes one unit symbol.
type Def struct {
	Symbol    string
	Dimension Dimension
	Scale     float64
	Offset    float64
}

// Registry is an immutable unit table.
type Registry struct {
	defs map[string]Def
}

// NewRegistry returns a registry holding the standard units plus any extra
// definitions. Extra definitions override standard ones with the same symbol.
func NewRegistry(extra ...Def) *Registry {
	r := &Registry{defs: make(map[string]Def, len(standard)+len(extra))}
	for _, d := range standard {
		r.defs[d.Symbol] = d
	}
	for _, d := range extra {
		r.defs[d.Symbol] = d
	}
	return r
}

var defaultRegistry = NewRegistry()

// Default returns the shared standard registry.
func Default() *Registry {
	return defaultRegistry
}

// Lookup returns the definition for a unit symbol.
func (r *Registry) Lookup(symbol string) (Def, bool) {
	d, ok := r.defs[symbol]
	return d, ok
}

// Symbols lists the units of one dimension, sorted.
func (r *Registry) Symbols(dim Dimension) []string {
	out := make([]string, 0)
	for s, d := range r.defs {
		if d.Dimension == dim {
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out
}

// ToSI converts q into the SI unit of its dimension.
func (r *Registry) ToSI(q Quantity) (float64, error) {
	d, ok := r.defs[q.Unit]
	if !ok {
		return 0, invalid("unknown unit %q", q.Unit)
	}
	if math.IsNaN(q.Value) || math.IsInf(q.Value, 0) {
		return 0, invalid("Non-numeric quantity")
	}
	return q.Value*d.Scale + d.Offset, nil
}

// Convert expresses q in another unit of the same dimension.
func (r *Registry) Convert(q Quantity, unit string) (Quantity, error) {
	from, ok := r.defs[q.Unit]
	if !ok {
		return Quantity{}, invalid("unknown unit %q", q.Unit)
	}
	to, ok := r.defs[unit]
	if !ok {
		return Quantity{}, invalid("unknown unit %q", unit)
	}
	if from.Dimension != to.Dimension {
		return Quantity{}, invalid("%s is not %s", from.Dimension, to.Dimension)
	}
	si, err := r.ToSI(q)
	if err != nil {
		return Quantity{}, err
	}
	return Quantity{Value: (si - to.Offset) / to.Scale, Unit: unit}, nil
}

// Check verifies that q is a finite quantity of dimension dim. With
// ensurePositive it also rejects quantities below zero in SI, so -8 degC
// passes (265.15 K) while -8 inch does not.
func (r *Registry) Check(q Quantity, dim Dimension, ensurePositive bool) error {
	if !dimensions[dim] {
		return invalid("%s not a supported dimension type", dim)
	}
	d, ok := r.defs[q.Unit]
	if !ok {
		return invalid("unknown unit %q", q.Unit)
	}
	si, err := r.ToSI(q)
	if err != nil {
		return err
	}
	if ensurePositive && si < 0 {
		return invalid("Input value < 0")
	}
	if d.Dimension != dim {
		return invalid("%s is not %s", d.Dimension, dim)
	}
	return nil
}

// ToSI converts q using the default registry.
func ToSI(q Quantity) (float64, error) {
	return defaultRegistry.ToSI(q)
}

// Check validates q using the default registry.
func Check(q Quantity, dim Dimension, ensurePositive bool) error {
	return defaultRegistry.Check(q, dim, ensurePositive)
}
