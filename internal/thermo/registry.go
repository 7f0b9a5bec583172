package thermo

import (
	"sync"

	"github.com/san-kum/combustlab/internal/chem"
	"github.com/san-kum/combustlab/internal/units"
)

var (
	defaultOnce     sync.Once
	defaultRegistry *chem.Registry
)

// DefaultRegistry returns the process-wide registry: the built-in Ideal
// provider with the standard unit table. It is built on first use and never
// modified afterwards.
func DefaultRegistry() *chem.Registry {
	defaultOnce.Do(func() {
		defaultRegistry = chem.NewRegistry(NewIdeal(), units.Default())
	})
	return defaultRegistry
}
