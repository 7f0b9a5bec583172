// Package storage persists generated test matrices.
//
// Three backends implement testmatrix.Writer:
//
//   - csv: one directory per matrix holding metadata.json and one
//     replicate_<n>.csv per replicate
//   - json: a single indented document, to a file or stdout
//   - sqlite: matrices and conditions tables (build with -tags sqlite)
//
// The csv and sqlite backends also implement Catalog for reading back.
package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/san-kum/combustlab/internal/logging"
	"github.com/san-kum/combustlab/internal/testmatrix"
)

// ErrNotFound is returned when a matrix or replicate does not exist.
var ErrNotFound = errors.New("storage: not found")

// Store is a persistence backend for generated matrices.
type Store interface {
	testmatrix.Writer
	Init(ctx context.Context) error
}

// Catalog is implemented by stores that can read matrices back.
type Catalog interface {
	List(ctx context.Context) ([]Metadata, error)
	Load(ctx context.Context, id string) (*Metadata, error)
	// LoadReplicate returns replicate n, counting from 1.
	LoadReplicate(ctx context.Context, id string, n int) ([]testmatrix.Condition, error)
}

// Metadata describes one stored matrix.
type Metadata struct {
	testmatrix.Summary
	CreatedAt time.Time `json:"created_at"`
}

func metadataOf(s testmatrix.Snapshot) Metadata {
	return Metadata{Summary: s.Summary, CreatedAt: s.CreatedAt}
}

type options struct {
	logger logging.Logger
}

// Option configures a store.
type Option func(*options)

// WithLogger attaches a logger to the store.
func WithLogger(l logging.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{logger: logging.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// NewStore returns the backend named by kind. path is the base directory
// for csv, the output file for json ("" or "-" for stdout) and the database
// file for sqlite.
func NewStore(kind, path string, opts ...Option) (Store, error) {
	switch kind {
	case "", "csv":
		if path == "" {
			path = "matrices"
		}
		return NewCSVStore(path, opts...), nil
	case "json":
		return NewJSONStore(path, opts...), nil
	case "sqlite":
		return newSQLiteStore(path, opts...)
	default:
		return nil, fmt.Errorf("unsupported store backend: %s", kind)
	}
}

// CloseIfSupported closes stores that hold resources.
func CloseIfSupported(s Store) error {
	closer, ok := s.(interface{ Close() error })
	if !ok {
		return nil
	}
	return closer.Close()
}
