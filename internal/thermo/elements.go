package thermo

import (
	"fmt"
	"unicode"
)

// atomic weights in g/mol
var atomicWeight = map[string]float64{
	"H":  1.008,
	"He": 4.002602,
	"C":  12.011,
	"N":  14.007,
	"O":  15.999,
	"F":  18.998403,
	"Ne": 20.1797,
	"S":  32.06,
	"Cl": 35.45,
	"Ar": 39.948,
	"Kr": 83.798,
	"Xe": 131.293,
}

// Formula is an element count map.
type Formula map[string]int

// ParseFormula parses a condensed formula such as "C3H8" or "CH3OH".
// Repeated elements are summed.
func ParseFormula(s string) (Formula, error) {
	if s == "" {
		return nil, fmt.Errorf("empty formula")
	}
	out := make(Formula)
	runes := []rune(s)
	for i := 0; i < len(runes); {
		if !unicode.IsUpper(runes[i]) {
			return nil, fmt.Errorf("formula %q: unexpected %q at %d", s, runes[i], i)
		}
		sym := string(runes[i])
		i++
		if i < len(runes) && unicode.IsLower(runes[i]) {
			sym += string(runes[i])
			i++
		}
		if _, ok := atomicWeight[sym]; !ok {
			return nil, fmt.Errorf("formula %q: unknown element %s", s, sym)
		}
		n := 0
		for i < len(runes) && unicode.IsDigit(runes[i]) {
			n = n*10 + int(runes[i]-'0')
			i++
		}
		if n == 0 {
			n = 1
		}
		out[sym] += n
	}
	return out, nil
}

// MolarMass returns g/mol.
func (f Formula) MolarMass() float64 {
	m := 0.0
	for el, n := range f {
		m += atomicWeight[el] * float64(n)
	}
	return m
}

// oxygenDemand is the number of O atoms one molecule needs to burn fully to
// CO2, H2O and N2, net of the oxygen it carries.
func (f Formula) oxygenDemand() float64 {
	return 2*float64(f["C"]) + 0.5*float64(f["H"]) - float64(f["O"])
}
