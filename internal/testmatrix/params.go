package testmatrix

import (
	"math"
	"reflect"

	"github.com/san-kum/combustlab/internal/chem"
	"github.com/san-kum/combustlab/internal/units"
)

// Params are the inputs of New. Equivalence and DiluentMoleFraction take a
// single number or any slice or array of numbers, including the []any that
// config decoding produces.
type Params struct {
	NumReplicates       int
	Equivalence         any
	DiluentMoleFraction any

	Fuel     string
	Oxidizer string
	Diluent  string

	// Zero values select 1 atm and 25 degC.
	InitialPressure    units.Quantity
	InitialTemperature units.Quantity

	Seed int64

	// Nil selects thermo.DefaultRegistry().
	Registry *chem.Registry
}

var (
	defaultPressure    = units.Q(1, "atm")
	defaultTemperature = units.Q(25, "degC")
)

// coerce normalizes a scalar-or-collection into an ordered set. ok is false
// when any item is not a finite number.
func coerce(v any) (values []float64, ok bool) {
	if v == nil {
		return nil, true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		values = make([]float64, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			f, ok := toFloat(rv.Index(i))
			if !ok {
				return nil, false
			}
			values = append(values, f)
		}
	default:
		f, ok := toFloat(rv)
		if !ok {
			return nil, false
		}
		values = []float64{f}
	}
	return dedupe(values), true
}

func toFloat(rv reflect.Value) (float64, bool) {
	for rv.Kind() == reflect.Interface || rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return 0, false
		}
		rv = rv.Elem()
	}
	var f float64
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		f = float64(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		f = float64(rv.Uint())
	case reflect.Float32, reflect.Float64:
		f = rv.Float()
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func dedupe(values []float64) []float64 {
	seen := make(map[float64]bool, len(values))
	out := values[:0]
	for _, v := range values {
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
