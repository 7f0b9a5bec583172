package testmatrix

import (
	"context"
	"time"
)

// Writer persists generated test matrices.
type Writer interface {
	WriteMatrix(ctx context.Context, s Snapshot) error
}

// Snapshot is everything a Writer needs to store one generated matrix.
type Snapshot struct {
	ID         string        `json:"id"`
	CreatedAt  time.Time     `json:"created_at"`
	Summary    Summary       `json:"summary"`
	Replicates [][]Condition `json:"replicates"`
}

// Summary describes a matrix without its conditions.
type Summary struct {
	ID                  string    `json:"id"`
	Fuel                string    `json:"fuel"`
	Oxidizer            string    `json:"oxidizer"`
	Diluent             string    `json:"diluent,omitempty"`
	Equivalence         []float64 `json:"equivalence"`
	DiluentMoleFraction []float64 `json:"diluent_mole_fraction"`
	InitialPressure     float64   `json:"initial_pressure"`
	InitialTemperature  float64   `json:"initial_temperature"`
	NumReplicates       int       `json:"num_replicates"`
	NumConditions       int       `json:"num_conditions"`
	Seed                int64     `json:"seed"`
}
