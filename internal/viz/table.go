package viz

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/san-kum/combustlab/internal/testmatrix"
)

var conditionHeaders = []string{
	"#", "φ", "x_dil", "X_fuel", "X_ox", "Y_fuel", "Y_ox", "Y_dil", "p_fuel kPa", "p_ox kPa", "p_dil kPa",
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}

func kPa(v float64) string {
	return strconv.FormatFloat(v/1e3, 'f', 3, 64)
}

func conditionRows(conds []testmatrix.Condition, offset int) [][]string {
	rows := make([][]string, len(conds))
	for i, c := range conds {
		rows[i] = []string{
			strconv.Itoa(offset + i + 1),
			num(c.Equivalence),
			num(c.DiluentMoleFraction),
			num(c.FuelMoleFraction),
			num(c.OxidizerMoleFraction),
			num(c.FuelMassFraction),
			num(c.OxidizerMassFraction),
			num(c.DiluentMassFraction),
			kPa(c.FuelPartialPressure),
			kPa(c.OxidizerPartialPressure),
			kPa(c.DiluentPartialPressure),
		}
	}
	return rows
}

func newTable(st styles, headers []string, rows [][]string, highlight int) *table.Table {
	selected := st.cell.Bold(true).Reverse(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(st.border).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return st.header
			case row == highlight:
				return selected
			default:
				return st.cell
			}
		})
}

// ConditionTable renders one replicate, one row per condition in order.
func ConditionTable(conds []testmatrix.Condition, theme Theme) string {
	st := stylesFor(theme)
	return newTable(st, conditionHeaders, conditionRows(conds, 0), -2).String()
}

// SummaryLine describes a matrix in one line.
func SummaryLine(s testmatrix.Summary) string {
	diluent := s.Diluent
	if diluent == "" {
		diluent = "none"
	}
	return fmt.Sprintf("%s  %s/%s dil %s  %d×%d conditions  %d replicates  seed %d",
		s.ID, s.Fuel, s.Oxidizer, diluent,
		len(s.Equivalence), len(s.DiluentMoleFraction),
		s.NumReplicates, s.Seed)
}

// MixtureSummary is the evaluated state of one mixture.
type MixtureSummary struct {
	Fuel        string
	Oxidizer    string
	Diluent     string
	Equivalence float64
	Temperature float64 // K
	Pressure    float64 // Pa

	MoleFractions    map[string]float64
	MassFractions    map[string]float64
	PartialPressures map[string]float64 // Pa

	FlameSpeed float64 // m/s
	SoundSpeed float64 // m/s
}

// MixtureReport renders a per-species composition table followed by the
// flame and sound speeds.
func MixtureReport(m MixtureSummary, theme Theme) string {
	st := stylesFor(theme)

	species := make([]string, 0, len(m.MoleFractions))
	for name := range m.MoleFractions {
		species = append(species, name)
	}
	sort.Strings(species)

	rows := make([][]string, len(species))
	for i, name := range species {
		rows[i] = []string{
			name,
			num(m.MoleFractions[name]),
			num(m.MassFractions[name]),
			kPa(m.PartialPressures[name]),
		}
	}

	var b strings.Builder
	title := fmt.Sprintf("%s + %s", m.Fuel, m.Oxidizer)
	if m.Diluent != "" {
		title += " + " + m.Diluent
	}
	b.WriteString(st.title.Render(title))
	b.WriteString("\n")
	b.WriteString(st.label.Render(fmt.Sprintf("φ = %s   T = %.2f K   P = %.3f kPa", num(m.Equivalence), m.Temperature, m.Pressure/1e3)))
	b.WriteString("\n")
	b.WriteString(newTable(st, []string{"species", "X", "Y", "p kPa"}, rows, -2).String())
	b.WriteString("\n")
	b.WriteString(st.label.Render("laminar flame speed "))
	b.WriteString(st.value.Render(fmt.Sprintf("%.4f m/s", m.FlameSpeed)))
	b.WriteString("\n")
	b.WriteString(st.label.Render("sound speed         "))
	b.WriteString(st.value.Render(fmt.Sprintf("%.2f m/s", m.SoundSpeed)))
	b.WriteString("\n")
	return b.String()
}
