package mixture

import (
	"context"
	"fmt"

	"github.com/san-kum/combustlab/internal/units"
)

// CalculateLaminarFlameSpeed returns the laminar burning velocity in m/s of
// m at the given state, as reported by the mixture's provider.
func CalculateLaminarFlameSpeed(ctx context.Context, m *Mixture, temperature, pressure units.Quantity) (float64, error) {
	st, err := m.State(temperature, pressure)
	if err != nil {
		return 0, err
	}
	sl, err := m.registry.Provider.FlameSpeed(ctx, st)
	if err != nil {
		return 0, fmt.Errorf("laminar flame speed of %s: %w", m, err)
	}
	return sl, nil
}

// CalculateEqSoundSpeed returns the equilibrium speed of sound in m/s of m
// at the given state, as reported by the mixture's provider.
func CalculateEqSoundSpeed(ctx context.Context, m *Mixture, temperature, pressure units.Quantity) (float64, error) {
	st, err := m.State(temperature, pressure)
	if err != nil {
		return 0, err
	}
	a, err := m.registry.Provider.SoundSpeed(ctx, st)
	if err != nil {
		return 0, fmt.Errorf("sound speed of %s: %w", m, err)
	}
	return a, nil
}
