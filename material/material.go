// Package material implements linear elastic materials whose fourth-order
// elasticity tensor C_ijkl is stored in compressed (Voigt) form.
//
// Compressed indices follow the ordering of the voigt package: the diagonal
// pairs (i,i) first, then the off-diagonal pairs with j descending and, for
// each j, i descending. In 3D this is xx, yy, zz, yz, xz, xy. A compressed
// matrix maps engineering strain (shear components doubled) to stress, so a
// matrix meant to reproduce the strain must carry 0.5 on its shear diagonal.
package material

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Material is a linear elastic constitutive law evaluated at a position.
// Homogeneous variants ignore the position, which may be nil for them.
// Implementations are immutable after construction and safe for concurrent
// use.
type Material interface {
	Dim() int                            // spatial dimension
	Density(position mat.Vector) float64 // mass density
	// Tensor returns C_ijkl. Indices outside [0, Dim()) panic with an error
	// wrapping ErrIndexOutOfRange.
	Tensor(i, j, k, l int, position mat.Vector) float64
	// StrainToStress returns stress_ij = Σ_kl C_ijkl·strain_kl.
	StrainToStress(strain mat.Matrix, position mat.Vector) (*mat.SymDense, error)
}

func checkStrain(dim int, strain mat.Matrix) error {
	r, c := strain.Dims()
	if r != dim || c != dim {
		return fmt.Errorf("%w: got %d×%d, want %d×%d", ErrShapeMismatch, r, c, dim, dim)
	}
	return nil
}

// Contract computes stress_ij = Σ_k Σ_l C_ijkl·strain_kl with the unrestricted
// double sum over every ordered (k,l). It works for any Material and is the
// reference the compressed contraction is checked against.
func Contract(m Material, strain mat.Matrix, position mat.Vector) (stress *mat.SymDense, err error) {
	dim := m.Dim()
	if err = checkStrain(dim, strain); err != nil {
		return
	}
	stress = mat.NewSymDense(dim, nil)
	for i := 0; i < dim; i++ {
		for j := i; j < dim; j++ {
			var sum float64
			for k := 0; k < dim; k++ {
				for l := 0; l < dim; l++ {
					sum += m.Tensor(i, j, k, l, position) * strain.At(k, l)
				}
			}
			stress.SetSym(i, j, sum)
		}
	}
	return
}

// StrainEnergy returns Σ_ijkl C_ijkl·strain_ij·strain_kl, twice the stored
// elastic energy density.
func StrainEnergy(m Material, strain mat.Matrix, position mat.Vector) (energy float64, err error) {
	dim := m.Dim()
	if err = checkStrain(dim, strain); err != nil {
		return
	}
	for i := 0; i < dim; i++ {
		for j := 0; j < dim; j++ {
			for k := 0; k < dim; k++ {
				for l := 0; l < dim; l++ {
					energy += m.Tensor(i, j, k, l, position) * strain.At(i, j) * strain.At(k, l)
				}
			}
		}
	}
	return
}

// Work returns the double contraction Σ_ij strain_ij·stress_ij.
func Work(strain, stress mat.Matrix) float64 {
	r, c := strain.Dims()
	sr, sc := stress.Dims()
	if r != sr || c != sc {
		panic(fmt.Sprintf("material: work of %d×%d strain with %d×%d stress", r, c, sr, sc))
	}
	var w mat.Dense
	w.MulElem(strain, stress)
	return mat.Sum(&w)
}
