package testmatrix_test

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/combustlab/internal/chem"
	"github.com/san-kum/combustlab/internal/testmatrix"
	"github.com/san-kum/combustlab/internal/thermo"
	"github.com/san-kum/combustlab/internal/units"
)

func validParams() testmatrix.Params {
	return testmatrix.Params{
		NumReplicates:       2,
		Equivalence:         []float64{0.5, 1.0},
		DiluentMoleFraction: []float64{0.0, 0.3},
		Fuel:                "C3H8",
		Oxidizer:            "O2",
		Diluent:             "N2",
		Seed:                42,
	}
}

type cell struct{ phi, d float64 }

func cells(rep []testmatrix.Condition) []cell {
	out := make([]cell, len(rep))
	for i, c := range rep {
		out[i] = cell{c.Equivalence, c.DiluentMoleFraction}
	}
	return out
}

func sorted(rep []testmatrix.Condition) []testmatrix.Condition {
	out := append([]testmatrix.Condition(nil), rep...)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Equivalence != out[j].Equivalence {
			return out[i].Equivalence < out[j].Equivalence
		}
		return out[i].DiluentMoleFraction < out[j].DiluentMoleFraction
	})
	return out
}

type recordingWriter struct {
	snaps []testmatrix.Snapshot
	err   error
}

func (w *recordingWriter) WriteMatrix(_ context.Context, s testmatrix.Snapshot) error {
	if w.err != nil {
		return w.err
	}
	w.snaps = append(w.snaps, s)
	return nil
}

// flakyProvider fails molar mass lookups on demand. Construction never
// needs them, generation always does.
type flakyProvider struct {
	chem.Provider
	fail bool
}

func (p *flakyProvider) MolarMass(species string) (float64, error) {
	if p.fail {
		return 0, errors.New("molar mass table unavailable")
	}
	return p.Provider.MolarMass(species)
}

var _ = Describe("New", func() {
	DescribeTable("rejects bad parameters",
		func(mutate func(*testmatrix.Params), kind error, msg string) {
			p := validParams()
			mutate(&p)
			tm, err := testmatrix.New(p)
			Expect(tm).To(BeNil())
			Expect(err).To(MatchError(kind))
			Expect(err).To(MatchError(msg))
		},
		Entry("zero replicates", func(p *testmatrix.Params) { p.NumReplicates = 0 },
			chem.ErrInvalidParameter, "bad number of replicates"),
		Entry("negative replicates", func(p *testmatrix.Params) { p.NumReplicates = -3 },
			chem.ErrInvalidParameter, "bad number of replicates"),
		Entry("string equivalence", func(p *testmatrix.Params) { p.Equivalence = []any{1.0, "rich"} },
			chem.ErrInvalidParameter, "equivalence has non-numeric items"),
		Entry("NaN equivalence", func(p *testmatrix.Params) { p.Equivalence = math.NaN() },
			chem.ErrInvalidParameter, "equivalence has non-numeric items"),
		Entry("bool diluent", func(p *testmatrix.Params) { p.DiluentMoleFraction = []any{true} },
			chem.ErrInvalidParameter, "diluent_mole_fraction has non-numeric items"),
		Entry("nil diluent item", func(p *testmatrix.Params) { p.DiluentMoleFraction = []any{0.1, nil} },
			chem.ErrInvalidParameter, "diluent_mole_fraction has non-numeric items"),
		Entry("zero equivalence", func(p *testmatrix.Params) { p.Equivalence = []float64{1, 0} },
			chem.ErrInvalidParameter, "equivalence <= 0"),
		Entry("negative equivalence", func(p *testmatrix.Params) { p.Equivalence = -0.5 },
			chem.ErrInvalidParameter, "equivalence <= 0"),
		Entry("diluent fraction of one", func(p *testmatrix.Params) { p.DiluentMoleFraction = 1.0 },
			chem.ErrInvalidParameter, "diluent mole fraction outside of [0, 1)"),
		Entry("negative diluent fraction", func(p *testmatrix.Params) { p.DiluentMoleFraction = []float64{-0.1} },
			chem.ErrInvalidParameter, "diluent mole fraction outside of [0, 1)"),
		Entry("empty equivalence", func(p *testmatrix.Params) { p.Equivalence = []float64{} },
			chem.ErrInvalidParameter, "equivalence is empty"),
		Entry("missing diluent fractions", func(p *testmatrix.Params) { p.DiluentMoleFraction = nil },
			chem.ErrInvalidParameter, "diluent_mole_fraction is empty"),
		Entry("unknown fuel", func(p *testmatrix.Params) { p.Fuel = "unobtainium" },
			chem.ErrInvalidSpecies, "Bad fuel"),
		Entry("unknown oxidizer", func(p *testmatrix.Params) { p.Oxidizer = "kryptonite" },
			chem.ErrInvalidSpecies, "Bad oxidizer"),
		Entry("unknown diluent", func(p *testmatrix.Params) { p.Diluent = "aether" },
			chem.ErrInvalidSpecies, "Bad diluent"),
		Entry("diluting with fuel", func(p *testmatrix.Params) { p.Diluent = "C3H8" },
			chem.ErrInvalidComposition, "You can't dilute with fuel or oxidizer!"),
		Entry("fraction without diluent", func(p *testmatrix.Params) { p.Diluent = "" },
			chem.ErrInvalidParameter, "diluent fraction given without diluent"),
		Entry("pressure in kelvin", func(p *testmatrix.Params) { p.InitialPressure = units.Q(300, "K") },
			chem.ErrInvalidParameter, "pressure: temperature is not pressure"),
		Entry("absolute zero", func(p *testmatrix.Params) { p.InitialTemperature = units.Q(0, "K") },
			chem.ErrInvalidParameter, "temperature <= 0"),
	)

	It("checks replicates before anything else", func() {
		p := validParams()
		p.NumReplicates = 0
		p.Equivalence = "lean"
		p.Fuel = "unobtainium"
		_, err := testmatrix.New(p)
		Expect(err).To(MatchError("bad number of replicates"))
	})

	It("accepts scalars as singleton sets", func() {
		p := validParams()
		p.Equivalence = 1
		p.DiluentMoleFraction = float32(0)
		p.Diluent = ""
		tm, err := testmatrix.New(p)
		Expect(err).NotTo(HaveOccurred())
		Expect(tm.Equivalence()).To(Equal([]float64{1}))
		Expect(tm.DiluentMoleFraction()).To(Equal([]float64{0}))
	})

	It("accepts config-style mixed numeric lists and drops duplicates", func() {
		p := validParams()
		p.Equivalence = []any{1, 0.8, 1.0, int64(2)}
		p.DiluentMoleFraction = [2]float64{0.1, 0.1}
		tm, err := testmatrix.New(p)
		Expect(err).NotTo(HaveOccurred())
		Expect(tm.Equivalence()).To(Equal([]float64{1, 0.8, 2}))
		Expect(tm.DiluentMoleFraction()).To(Equal([]float64{0.1}))
	})

	It("allows a missing diluent when every fraction is zero", func() {
		p := validParams()
		p.Diluent = ""
		p.DiluentMoleFraction = []float64{0}
		_, err := testmatrix.New(p)
		Expect(err).NotTo(HaveOccurred())
	})

	It("does not generate anything up front", func() {
		tm, err := testmatrix.New(validParams())
		Expect(err).NotTo(HaveOccurred())
		Expect(tm.Replicates()).To(BeNil())
		Expect(tm.ID()).NotTo(BeEmpty())
	})
})

var _ = Describe("GenerateTestMatrices", func() {
	var tm *testmatrix.TestMatrix

	BeforeEach(func() {
		var err error
		tm, err = testmatrix.New(validParams())
		Expect(err).NotTo(HaveOccurred())
	})

	It("returns one replicate per request, each with the full cross product", func() {
		reps, err := tm.GenerateTestMatrices()
		Expect(err).NotTo(HaveOccurred())
		Expect(reps).To(HaveLen(2))
		for _, rep := range reps {
			Expect(rep).NotTo(BeNil())
			Expect(cells(rep)).To(ConsistOf(
				cell{0.5, 0.0}, cell{0.5, 0.3}, cell{1.0, 0.0}, cell{1.0, 0.3},
			))
		}
		Expect(sorted(reps[0])).To(Equal(sorted(reps[1])))
	})

	It("handles a single-condition matrix", func() {
		p := validParams()
		p.NumReplicates = 3
		p.Equivalence = 1.0
		p.DiluentMoleFraction = 0.0
		single, err := testmatrix.New(p)
		Expect(err).NotTo(HaveOccurred())

		reps, err := single.GenerateTestMatrices()
		Expect(err).NotTo(HaveOccurred())
		Expect(reps).To(HaveLen(3))
		for _, rep := range reps {
			Expect(rep).To(HaveLen(1))
			Expect(rep[0]).To(Equal(reps[0][0]))
			Expect(rep[0].Equivalence).To(Equal(1.0))
			Expect(rep[0].DiluentMoleFraction).To(Equal(0.0))
		}
	})

	It("attaches hand-checkable mixture quantities", func() {
		reps, err := tm.GenerateTestMatrices()
		Expect(err).NotTo(HaveOccurred())

		wf, err := thermo.NewIdeal().MolarMass("C3H8")
		Expect(err).NotTo(HaveOccurred())
		wo, _ := thermo.NewIdeal().MolarMass("O2")
		wd, _ := thermo.NewIdeal().MolarMass("N2")

		const s = 5.0 // O2 per C3H8
		for _, c := range reps[0] {
			phi, d := c.Equivalence, c.DiluentMoleFraction
			xf := (1 - d) * phi / (phi + s)
			xo := (1 - d) * s / (phi + s)
			mean := xf*wf + xo*wo + d*wd

			Expect(c.Fuel).To(Equal("C3H8"))
			Expect(c.Oxidizer).To(Equal("O2"))
			Expect(c.InitialPressure).To(BeNumerically("~", 101325, 1e-9))
			Expect(c.InitialTemperature).To(BeNumerically("~", 298.15, 1e-9))
			Expect(c.FuelMoleFraction).To(BeNumerically("~", xf, 1e-12))
			Expect(c.OxidizerMoleFraction).To(BeNumerically("~", xo, 1e-12))
			Expect(c.FuelMassFraction).To(BeNumerically("~", xf*wf/mean, 1e-12))
			Expect(c.OxidizerMassFraction).To(BeNumerically("~", xo*wo/mean, 1e-12))
			Expect(c.FuelPartialPressure).To(BeNumerically("~", xf*101325, 1e-6))
			Expect(c.OxidizerPartialPressure).To(BeNumerically("~", xo*101325, 1e-6))

			if d == 0 {
				Expect(c.Diluent).To(BeEmpty())
				Expect(c.DiluentMassFraction).To(BeZero())
				Expect(c.DiluentPartialPressure).To(BeZero())
			} else {
				Expect(c.Diluent).To(Equal("N2"))
				Expect(c.DiluentMassFraction).To(BeNumerically("~", d*wd/mean, 1e-12))
				Expect(c.DiluentPartialPressure).To(BeNumerically("~", d*101325, 1e-6))
			}
		}
	})

	It("converts initial conditions to SI", func() {
		p := validParams()
		p.InitialPressure = units.Q(2, "bar")
		p.InitialTemperature = units.Q(77, "degF")
		m, err := testmatrix.New(p)
		Expect(err).NotTo(HaveOccurred())
		reps, err := m.GenerateTestMatrices()
		Expect(err).NotTo(HaveOccurred())
		Expect(reps[0][0].InitialPressure).To(BeNumerically("~", 2e5, 1e-9))
		Expect(reps[0][0].InitialTemperature).To(BeNumerically("~", 298.15, 1e-9))
	})

	It("is reproducible for a fixed seed", func() {
		first, err := tm.GenerateTestMatrices()
		Expect(err).NotTo(HaveOccurred())
		again, err := tm.GenerateTestMatrices()
		Expect(err).NotTo(HaveOccurred())
		Expect(again).To(Equal(first))

		twin, err := testmatrix.New(validParams())
		Expect(err).NotTo(HaveOccurred())
		other, err := twin.GenerateTestMatrices()
		Expect(err).NotTo(HaveOccurred())
		Expect(other).To(Equal(first))
	})

	It("shuffles replicates independently", func() {
		p := validParams()
		p.NumReplicates = 5
		p.Equivalence = []float64{0.6, 0.8, 1.0, 1.2}
		p.DiluentMoleFraction = []float64{0, 0.1, 0.2}
		big, err := testmatrix.New(p)
		Expect(err).NotTo(HaveOccurred())

		reps, err := big.GenerateTestMatrices()
		Expect(err).NotTo(HaveOccurred())
		distinct := map[string]bool{}
		for _, rep := range reps {
			Expect(sorted(rep)).To(Equal(sorted(reps[0])))
			distinct[fmt.Sprint(cells(rep))] = true
		}
		Expect(len(distinct)).To(BeNumerically(">", 1))
	})

	It("orders a 2x2 matrix differently for some seed", func() {
		differs := false
		for seed := int64(1); seed <= 32 && !differs; seed++ {
			p := validParams()
			p.Seed = seed
			m, err := testmatrix.New(p)
			Expect(err).NotTo(HaveOccurred())
			reps, err := m.GenerateTestMatrices()
			Expect(err).NotTo(HaveOccurred())
			differs = !equalOrder(reps[0], reps[1])
		}
		Expect(differs).To(BeTrue())
	})

	It("hands out copies", func() {
		reps, err := tm.GenerateTestMatrices()
		Expect(err).NotTo(HaveOccurred())
		reps[0][0].Equivalence = 99
		reps[1] = nil
		kept := tm.Replicates()
		Expect(kept[0][0].Equivalence).NotTo(Equal(99.0))
		Expect(kept[1]).To(HaveLen(4))
	})

	It("keeps the previous replicates when generation fails", func() {
		provider := &flakyProvider{Provider: thermo.NewIdeal()}
		p := validParams()
		p.Registry = chem.NewRegistry(provider, nil)
		m, err := testmatrix.New(p)
		Expect(err).NotTo(HaveOccurred())

		first, err := m.GenerateTestMatrices()
		Expect(err).NotTo(HaveOccurred())

		provider.fail = true
		reps, err := m.GenerateTestMatrices()
		Expect(err).To(MatchError(ContainSubstring("molar mass table unavailable")))
		Expect(reps).To(BeNil())
		Expect(m.Replicates()).To(Equal(first))
	})
})

var _ = Describe("Save", func() {
	It("refuses to save before generation", func() {
		tm, err := testmatrix.New(validParams())
		Expect(err).NotTo(HaveOccurred())
		w := &recordingWriter{}
		err = tm.Save(context.Background(), w)
		Expect(err).To(MatchError(chem.ErrInvalidParameter))
		Expect(err).To(MatchError("test matrix has not been generated"))
		Expect(w.snaps).To(BeEmpty())
	})

	It("hands a snapshot to the writer", func() {
		tm, err := testmatrix.New(validParams(), testmatrix.WithID("run-7"))
		Expect(err).NotTo(HaveOccurred())
		reps, err := tm.GenerateTestMatrices()
		Expect(err).NotTo(HaveOccurred())

		w := &recordingWriter{}
		Expect(tm.Save(context.Background(), w)).To(Succeed())
		Expect(w.snaps).To(HaveLen(1))

		snap := w.snaps[0]
		Expect(snap.ID).To(Equal("run-7"))
		Expect(snap.CreatedAt.IsZero()).To(BeFalse())
		Expect(snap.Replicates).To(Equal(reps))
		Expect(snap.Summary).To(Equal(tm.Summary()))
		Expect(snap.Summary.NumConditions).To(Equal(4))
		Expect(snap.Summary.NumReplicates).To(Equal(2))
		Expect(snap.Summary.Seed).To(Equal(int64(42)))
	})

	It("wraps writer failures", func() {
		tm, err := testmatrix.New(validParams())
		Expect(err).NotTo(HaveOccurred())
		_, err = tm.GenerateTestMatrices()
		Expect(err).NotTo(HaveOccurred())

		boom := errors.New("disk full")
		err = tm.Save(context.Background(), &recordingWriter{err: boom})
		Expect(err).To(MatchError(boom))
	})
})

func equalOrder(a, b []testmatrix.Condition) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
