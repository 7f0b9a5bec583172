// Package testmatrix builds randomized, replicate-balanced test matrices.
//
// A [TestMatrix] crosses a set of equivalence ratios with a set of diluent
// mole fractions. Each pair becomes a [Condition] carrying the mole, mass and
// partial-pressure bookkeeping of the corresponding mixture. Every replicate
// holds the same conditions in an independently shuffled order:
//
//	tm, err := testmatrix.New(testmatrix.Params{
//	    NumReplicates:       3,
//	    Equivalence:         []float64{0.8, 1.0, 1.2},
//	    DiluentMoleFraction: []float64{0, 0.1},
//	    Fuel:                "C3H8",
//	    Oxidizer:            "O2",
//	    Diluent:             "N2",
//	})
//	reps, err := tm.GenerateTestMatrices()
//
// # Ordering
//
// The canonical condition order is equivalence-major: for each equivalence
// ratio (input order) every diluent fraction (input order). Only the set of
// conditions is meaningful; replicates are permutations of it.
//
// # Reproducibility
//
// A single master source seeded with Params.Seed draws one seed per
// replicate, and each replicate is shuffled with its own source. The same
// seed always yields the same replicates.
package testmatrix
