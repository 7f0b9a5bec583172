// Package thermo provides the built-in ideal-gas property provider.
//
// [Ideal] implements [chem.Provider] over a fixed species table:
//
//   - molar masses from parsed formulas and standard atomic weights
//   - stoichiometry by oxygen-atom balance (fuel CxHyOz burned to CO2 and H2O)
//   - speed of sound of the frozen mixture, sqrt(γRT/W), with constant cp
//   - laminar flame speed from a Metghalchi–Keck style power law
//
// The correlations are referenced to air-like oxidizer streams and are meant
// for planning, not for reporting measured burning velocities. Swap in a
// different [chem.Provider] when a detailed equilibrium library is available.
//
// [DefaultRegistry] returns the process-wide registry built on [Ideal].
package thermo
