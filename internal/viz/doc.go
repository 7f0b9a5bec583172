// Package viz renders test matrices and mixtures in the terminal.
//
//   - [ConditionTable] and [MixtureReport]: lipgloss tables
//   - [SweepPlot]: asciigraph line plot of a laminar flame speed sweep
//   - [Browser]: Bubble Tea replicate browser
//
// # Browser Key Bindings
//
//	←/→ h/l tab - Previous/next replicate
//	↑/↓ k/j     - Scroll conditions
//	g/G         - First/last condition
//	t           - Cycle color themes
//	q           - Quit
package viz
