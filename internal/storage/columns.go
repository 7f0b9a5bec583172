package storage

import (
	"fmt"
	"strconv"

	"github.com/san-kum/combustlab/internal/testmatrix"
)

// columns is the on-disk column order shared by the csv and sqlite
// backends. position is the zero-based index within a replicate.
var columns = []string{
	"position",
	"equivalence",
	"diluent_mole_fraction",
	"fuel",
	"oxidizer",
	"diluent",
	"initial_pressure",
	"initial_temperature",
	"fuel_mole_fraction",
	"oxidizer_mole_fraction",
	"fuel_mass_fraction",
	"oxidizer_mass_fraction",
	"diluent_mass_fraction",
	"fuel_partial_pressure",
	"oxidizer_partial_pressure",
	"diluent_partial_pressure",
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func conditionRow(pos int, c testmatrix.Condition) []string {
	return []string{
		strconv.Itoa(pos),
		formatFloat(c.Equivalence),
		formatFloat(c.DiluentMoleFraction),
		c.Fuel,
		c.Oxidizer,
		c.Diluent,
		formatFloat(c.InitialPressure),
		formatFloat(c.InitialTemperature),
		formatFloat(c.FuelMoleFraction),
		formatFloat(c.OxidizerMoleFraction),
		formatFloat(c.FuelMassFraction),
		formatFloat(c.OxidizerMassFraction),
		formatFloat(c.DiluentMassFraction),
		formatFloat(c.FuelPartialPressure),
		formatFloat(c.OxidizerPartialPressure),
		formatFloat(c.DiluentPartialPressure),
	}
}

func parseCondition(record []string) (int, testmatrix.Condition, error) {
	if len(record) != len(columns) {
		return 0, testmatrix.Condition{}, fmt.Errorf("expected %d fields, got %d", len(columns), len(record))
	}
	pos, err := strconv.Atoi(record[0])
	if err != nil {
		return 0, testmatrix.Condition{}, fmt.Errorf("position: %w", err)
	}

	c := testmatrix.Condition{
		Fuel:     record[3],
		Oxidizer: record[4],
		Diluent:  record[5],
	}
	floats := []struct {
		col int
		dst *float64
	}{
		{1, &c.Equivalence},
		{2, &c.DiluentMoleFraction},
		{6, &c.InitialPressure},
		{7, &c.InitialTemperature},
		{8, &c.FuelMoleFraction},
		{9, &c.OxidizerMoleFraction},
		{10, &c.FuelMassFraction},
		{11, &c.OxidizerMassFraction},
		{12, &c.DiluentMassFraction},
		{13, &c.FuelPartialPressure},
		{14, &c.OxidizerPartialPressure},
		{15, &c.DiluentPartialPressure},
	}
	for _, f := range floats {
		v, err := strconv.ParseFloat(record[f.col], 64)
		if err != nil {
			return 0, testmatrix.Condition{}, fmt.Errorf("%s: %w", columns[f.col], err)
		}
		*f.dst = v
	}
	return pos, c, nil
}
