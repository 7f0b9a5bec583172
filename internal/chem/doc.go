// Package chem provides the core primitives shared by mixtures and test
// matrices.
//
// The package defines the boundary to the thermochemical property provider
// and the error kinds every other package reports:
//
//   - [Provider]: species validity, molar masses, stoichiometry, and the
//     flame-speed and sound-speed evaluations
//   - [State]: composition plus temperature and pressure, in SI
//   - [Registry]: a provider bundled with a unit registry
//   - [ErrInvalidParameter], [ErrInvalidSpecies], [ErrInvalidComposition]
//
// # Example
//
//	reg := chem.NewRegistry(thermo.NewIdeal(), nil)
//	if !reg.Provider.Valid("C3H8") {
//	    return chem.Errorf(chem.ErrInvalidSpecies, "Bad fuel")
//	}
//
// # Thread Safety
//
// A Registry is read-only once built and may be shared. Providers must be
// safe for concurrent reads.
package chem
