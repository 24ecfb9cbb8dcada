package material

import (
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"
)

// Prm is a named material parameter.
type Prm struct {
	N string  // name
	V float64 // value
}

// Params holds the parameters handed to an allocator.
type Params []*Prm

// Find returns the value of the first parameter called name.
func (o Params) Find(name string) (float64, bool) {
	for _, p := range o {
		if p != nil && p.N == name {
			return p.V, true
		}
	}
	return 0, false
}

// Need is Find that reports a missing parameter as an error.
func (o Params) Need(name string) (float64, error) {
	v, ok := o.Find(name)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrMissingParameter, name)
	}
	return v, nil
}

// Allocator creates a material of the given dimension from parameters.
type Allocator func(dim int, prms Params) (Material, error)

var (
	allocatorsMu sync.RWMutex
	allocators   = map[string]Allocator{}
)

// Register makes a material model available to New under name. Registering
// the same name twice replaces the earlier allocator.
func Register(name string, allocator Allocator) {
	allocatorsMu.Lock()
	defer allocatorsMu.Unlock()
	allocators[name] = allocator
}

// Models returns the registered model names in sorted order.
func Models() (names []string) {
	allocatorsMu.RLock()
	defer allocatorsMu.RUnlock()
	for name := range allocators {
		names = append(names, name)
	}
	sort.Strings(names)
	return
}

// asMaterial keeps a failed constructor from yielding a non-nil interface
// holding a nil pointer.
func asMaterial[T Material](m T, err error) (Material, error) {
	if err != nil {
		return nil, err
	}
	return m, nil
}

// New creates a material using the allocator registered under name.
func New(name string, dim int, prms Params) (Material, error) {
	allocatorsMu.RLock()
	allocator, ok := allocators[name]
	allocatorsMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownModel, name)
	}
	m, err := allocator(dim, prms)
	if err != nil {
		Logger().Debug("material allocation failed",
			zap.String("model", name),
			zap.Int("dim", dim),
			zap.Error(err))
		return nil, fmt.Errorf("model %q: %w", name, err)
	}
	Logger().Debug("material allocated",
		zap.String("model", name),
		zap.Int("dim", dim))
	return m, nil
}
