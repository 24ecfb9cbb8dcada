package material

import (
	"errors"

	"github.com/notargets/DGElastic/voigt"
)

var (
	// ErrInvalidShape is returned when a compressed matrix is not square or its
	// size is not dim(dim+1)/2 for any positive dim.
	ErrInvalidShape = errors.New("material: invalid compressed matrix shape")

	// ErrAsymmetric is returned when a compressed matrix is not symmetric.
	ErrAsymmetric = errors.New("material: compressed matrix is not symmetric")

	// ErrShapeMismatch is returned when a strain matrix is not dim×dim.
	ErrShapeMismatch = errors.New("material: strain shape does not match material dimension")

	// ErrIndexOutOfRange is carried by the panics raised for spatial indices
	// outside [0, dim).
	ErrIndexOutOfRange = voigt.ErrIndexOutOfRange

	// ErrInvalidParameter is returned for elastic constants outside their
	// admissible range.
	ErrInvalidParameter = errors.New("material: invalid parameter")

	// ErrUnknownModel is returned by New for names with no registered allocator.
	ErrUnknownModel = errors.New("material: unknown model")

	// ErrMissingParameter is returned by allocators when a required parameter
	// is absent.
	ErrMissingParameter = errors.New("material: missing parameter")
)
