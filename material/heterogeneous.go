package material

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// TensorField returns the compressed matrix at a position.
type TensorField func(position mat.Vector) mat.Symmetric

// DensityField returns the density at a position.
type DensityField func(position mat.Vector) float64

// Heterogeneous is a material whose compressed matrix and density vary in
// space. The fields are evaluated on every call and must not mutate shared
// state if the material is used concurrently.
type Heterogeneous struct {
	dim     int
	tensor  TensorField
	density DensityField
}

// NewHeterogeneous wraps the given fields into a material of dimension dim.
func NewHeterogeneous(dim int, tensor TensorField, density DensityField) (*Heterogeneous, error) {
	if dim < 1 {
		return nil, fmt.Errorf("%w: dim=%d", ErrInvalidParameter, dim)
	}
	if tensor == nil || density == nil {
		return nil, fmt.Errorf("%w: nil field", ErrInvalidParameter)
	}
	return &Heterogeneous{dim: dim, tensor: tensor, density: density}, nil
}

// Dim returns the spatial dimension.
func (h *Heterogeneous) Dim() int { return h.dim }

// Density evaluates the density field.
func (h *Heterogeneous) Density(position mat.Vector) float64 { return h.density(position) }

// At returns the homogeneous material that coincides with h at position.
func (h *Heterogeneous) At(position mat.Vector) (*Symmetric, error) {
	s, err := NewSymmetric(h.density(position), h.tensor(position))
	if err != nil {
		return nil, err
	}
	if s.Dim() != h.dim {
		return nil, fmt.Errorf("%w: field produced dim=%d, want %d", ErrInvalidShape, s.Dim(), h.dim)
	}
	return s, nil
}

// Tensor returns C_ijkl at position. A field producing an invalid matrix is a
// programming error and panics.
func (h *Heterogeneous) Tensor(i, j, k, l int, position mat.Vector) float64 {
	s, err := h.At(position)
	if err != nil {
		panic(err)
	}
	return s.Tensor(i, j, k, l, position)
}

// StrainToStress converts strain to stress with the tensor at position.
func (h *Heterogeneous) StrainToStress(strain mat.Matrix, position mat.Vector) (*mat.SymDense, error) {
	if err := checkStrain(h.dim, strain); err != nil {
		return nil, err
	}
	s, err := h.At(position)
	if err != nil {
		return nil, err
	}
	return s.StrainToStress(strain, position)
}
