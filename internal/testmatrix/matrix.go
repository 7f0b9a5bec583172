package testmatrix

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/combustlab/internal/chem"
	"github.com/san-kum/combustlab/internal/logging"
	"github.com/san-kum/combustlab/internal/mixture"
	"github.com/san-kum/combustlab/internal/thermo"
)

// TestMatrix holds validated experiment-design parameters and the most
// recently generated replicates. It is not safe for concurrent use.
type TestMatrix struct {
	id       string
	registry *chem.Registry
	logger   logging.Logger

	numReplicates int
	equivalence   []float64
	diluentFrac   []float64

	fuel        string
	oxidizer    string
	diluent     string
	pressure    float64
	temperature float64
	seed        int64

	replicates [][]Condition
}

// Option configures a TestMatrix.
type Option func(*TestMatrix)

// WithLogger attaches a logger. Generation is logged at debug level.
func WithLogger(l logging.Logger) Option {
	return func(tm *TestMatrix) {
		if l != nil {
			tm.logger = l
		}
	}
}

// WithID overrides the generated matrix identifier.
func WithID(id string) Option {
	return func(tm *TestMatrix) {
		if id != "" {
			tm.id = id
		}
	}
}

// New validates p and returns a matrix ready for generation. No conditions
// are computed until GenerateTestMatrices is called.
func New(p Params, opts ...Option) (*TestMatrix, error) {
	if p.NumReplicates <= 0 {
		return nil, chem.Errorf(chem.ErrInvalidParameter, "bad number of replicates")
	}

	equivalence, ok := coerce(p.Equivalence)
	if !ok {
		return nil, chem.Errorf(chem.ErrInvalidParameter, "equivalence has non-numeric items")
	}
	diluentFrac, ok := coerce(p.DiluentMoleFraction)
	if !ok {
		return nil, chem.Errorf(chem.ErrInvalidParameter, "diluent_mole_fraction has non-numeric items")
	}
	for _, phi := range equivalence {
		if phi <= 0 {
			return nil, chem.Errorf(chem.ErrInvalidParameter, "equivalence <= 0")
		}
	}
	diluted := false
	for _, d := range diluentFrac {
		if d < 0 || d >= 1 {
			return nil, chem.Errorf(chem.ErrInvalidParameter, "diluent mole fraction outside of [0, 1)")
		}
		diluted = diluted || d > 0
	}
	if len(equivalence) == 0 {
		return nil, chem.Errorf(chem.ErrInvalidParameter, "equivalence is empty")
	}
	if len(diluentFrac) == 0 {
		return nil, chem.Errorf(chem.ErrInvalidParameter, "diluent_mole_fraction is empty")
	}

	registry := p.Registry
	if registry == nil {
		registry = thermo.DefaultRegistry()
	}

	// The mixture constructor owns species validation.
	speciesOpts := []mixture.Option{mixture.WithRegistry(registry)}
	if p.Diluent != "" {
		speciesOpts = append(speciesOpts, mixture.WithDiluent(p.Diluent, 0))
	}
	if _, err := mixture.New(p.Fuel, p.Oxidizer, speciesOpts...); err != nil {
		return nil, err
	}
	if diluted && p.Diluent == "" {
		return nil, chem.Errorf(chem.ErrInvalidParameter, "diluent fraction given without diluent")
	}

	pressureQ := p.InitialPressure
	if pressureQ.IsZero() {
		pressureQ = defaultPressure
	}
	temperatureQ := p.InitialTemperature
	if temperatureQ.IsZero() {
		temperatureQ = defaultTemperature
	}
	pressure, err := registry.Pressure(pressureQ)
	if err != nil {
		return nil, err
	}
	temperature, err := registry.Temperature(temperatureQ)
	if err != nil {
		return nil, err
	}

	tm := &TestMatrix{
		id:            uuid.NewString(),
		registry:      registry,
		logger:        logging.NewNop(),
		numReplicates: p.NumReplicates,
		equivalence:   equivalence,
		diluentFrac:   diluentFrac,
		fuel:          p.Fuel,
		oxidizer:      p.Oxidizer,
		diluent:       p.Diluent,
		pressure:      pressure,
		temperature:   temperature,
		seed:          p.Seed,
	}
	for _, opt := range opts {
		opt(tm)
	}
	return tm, nil
}

// ID returns the matrix identifier used by persistence backends.
func (tm *TestMatrix) ID() string { return tm.id }

// NumReplicates returns the configured replicate count.
func (tm *TestMatrix) NumReplicates() int { return tm.numReplicates }

// Equivalence returns the normalized equivalence-ratio set.
func (tm *TestMatrix) Equivalence() []float64 {
	return append([]float64(nil), tm.equivalence...)
}

// DiluentMoleFraction returns the normalized diluent-fraction set.
func (tm *TestMatrix) DiluentMoleFraction() []float64 {
	return append([]float64(nil), tm.diluentFrac...)
}

// buildReplicate returns the canonical, unshuffled condition list.
func (tm *TestMatrix) buildReplicate() ([]Condition, error) {
	out := make([]Condition, 0, len(tm.equivalence)*len(tm.diluentFrac))
	for _, phi := range tm.equivalence {
		for _, d := range tm.diluentFrac {
			c, err := tm.condition(phi, d)
			if err != nil {
				return nil, fmt.Errorf("condition phi=%g d=%g: %w", phi, d, err)
			}
			out = append(out, c)
		}
	}
	return out, nil
}

// GenerateTestMatrices builds NumReplicates independently shuffled copies
// of the canonical condition list. The matrix keeps the result only when
// every replicate was built; calling it again regenerates.
func (tm *TestMatrix) GenerateTestMatrices() ([][]Condition, error) {
	start := time.Now()

	canonical, err := tm.buildReplicate()
	if err != nil {
		return nil, err
	}

	master := rand.New(rand.NewSource(tm.seed))
	replicates := make([][]Condition, tm.numReplicates)
	for i := range replicates {
		rng := rand.New(rand.NewSource(master.Int63()))
		rep := append([]Condition(nil), canonical...)
		shuffle(rep, rng)
		replicates[i] = rep
	}

	tm.replicates = replicates
	tm.logger.Debug("generated test matrices",
		logging.String("matrix_id", tm.id),
		logging.Int("replicates", tm.numReplicates),
		logging.Int("conditions", len(canonical)),
		logging.Int64("seed", tm.seed),
		logging.Duration("elapsed", time.Since(start)),
	)
	return tm.Replicates(), nil
}

// shuffle is an in-place Fisher-Yates permutation driven by rng.
func shuffle(cs []Condition, rng *rand.Rand) {
	for i := len(cs) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		cs[i], cs[j] = cs[j], cs[i]
	}
}

// Replicates returns a copy of the last generated replicates, or nil.
func (tm *TestMatrix) Replicates() [][]Condition {
	if tm.replicates == nil {
		return nil
	}
	out := make([][]Condition, len(tm.replicates))
	for i, rep := range tm.replicates {
		out[i] = append([]Condition(nil), rep...)
	}
	return out
}

// Summary describes the matrix parameters.
func (tm *TestMatrix) Summary() Summary {
	return Summary{
		ID:                  tm.id,
		Fuel:                tm.fuel,
		Oxidizer:            tm.oxidizer,
		Diluent:             tm.diluent,
		Equivalence:         tm.Equivalence(),
		DiluentMoleFraction: tm.DiluentMoleFraction(),
		InitialPressure:     tm.pressure,
		InitialTemperature:  tm.temperature,
		NumReplicates:       tm.numReplicates,
		NumConditions:       len(tm.equivalence) * len(tm.diluentFrac),
		Seed:                tm.seed,
	}
}

// Save hands the generated replicates to w.
func (tm *TestMatrix) Save(ctx context.Context, w Writer) error {
	if tm.replicates == nil {
		return chem.Errorf(chem.ErrInvalidParameter, "test matrix has not been generated")
	}
	snap := Snapshot{
		ID:         tm.id,
		CreatedAt:  time.Now().UTC(),
		Summary:    tm.Summary(),
		Replicates: tm.Replicates(),
	}
	if err := w.WriteMatrix(ctx, snap); err != nil {
		return fmt.Errorf("save matrix %s: %w", tm.id, err)
	}
	tm.logger.Debug("saved test matrix", logging.String("matrix_id", tm.id))
	return nil
}
