package material

import (
	"fmt"

	"github.com/notargets/DGElastic/voigt"
	"gonum.org/v1/gonum/mat"
)

// symmetryTol is the element-wise absolute-or-relative tolerance used to
// accept a compressed matrix as symmetric.
const symmetryTol = 1e-12

// Symmetric is a homogeneous material defined directly by its symmetric
// compressed matrix.
type Symmetric struct {
	density float64
	c       *mat.SymDense // [N × N], N = dim(dim+1)/2
	vm      *voigt.Map
}

func init() {
	Register("symmetric", newSymmetricFromParams)
}

// NewSymmetric validates and copies tensor into a new material. tensor must be
// square with size dim(dim+1)/2 for some positive dim, and symmetric.
func NewSymmetric(density float64, tensor mat.Matrix) (s *Symmetric, err error) {
	r, c := tensor.Dims()
	if r != c {
		return nil, fmt.Errorf("%w: compressed matrix is %d×%d", ErrInvalidShape, r, c)
	}
	dim, ok := voigt.DimFromSize(r)
	if !ok {
		return nil, fmt.Errorf("%w: size %d is not dim(dim+1)/2", ErrInvalidShape, r)
	}
	if !mat.EqualApprox(tensor, tensor.T(), symmetryTol) {
		return nil, ErrAsymmetric
	}
	cs := mat.NewSymDense(r, nil)
	for a := 0; a < r; a++ {
		for b := a; b < r; b++ {
			cs.SetSym(a, b, tensor.At(a, b))
		}
	}
	s = &Symmetric{
		density: density,
		c:       cs,
		vm:      voigt.NewMap(dim),
	}
	return
}

// Dim returns the spatial dimension.
func (s *Symmetric) Dim() int { return s.vm.Dim() }

// Map returns the index map used by the compressed matrix.
func (s *Symmetric) Map() *voigt.Map { return s.vm }

// Density returns the mass density; position is ignored.
func (s *Symmetric) Density(position mat.Vector) float64 { return s.density }

// Compressed returns a copy of the compressed matrix.
func (s *Symmetric) Compressed() *mat.SymDense {
	n := s.c.SymmetricDim()
	cp := mat.NewSymDense(n, nil)
	cp.CopySym(s.c)
	return cp
}

// Tensor returns C_ijkl = C[Index(i,j), Index(k,l)]; position is ignored.
func (s *Symmetric) Tensor(i, j, k, l int, position mat.Vector) float64 {
	return s.c.At(s.vm.Index(i, j), s.vm.Index(k, l))
}

// StrainToStress flattens strain with doubled shear components, multiplies by
// the compressed matrix and expands the result; position is ignored.
func (s *Symmetric) StrainToStress(strain mat.Matrix, position mat.Vector) (*mat.SymDense, error) {
	if err := checkStrain(s.Dim(), strain); err != nil {
		return nil, err
	}
	e := voigt.Flatten(s.vm, strain, 2)
	var w mat.VecDense
	w.MulVec(s.c, e)
	return voigt.Unflatten(s.vm, &w), nil
}

// newSymmetricFromParams reads rho and the upper triangle entries C<a>_<b>,
// a <= b, of the compressed matrix. Missing entries are zero.
func newSymmetricFromParams(dim int, prms Params) (Material, error) {
	if dim < 1 {
		return nil, fmt.Errorf("%w: dim=%d", ErrInvalidParameter, dim)
	}
	rho, err := prms.Need("rho")
	if err != nil {
		return nil, err
	}
	n := voigt.Size(dim)
	c := mat.NewSymDense(n, nil)
	for a := 0; a < n; a++ {
		for b := a; b < n; b++ {
			if v, ok := prms.Find(fmt.Sprintf("C%d_%d", a, b)); ok {
				c.SetSym(a, b, v)
			}
		}
	}
	return asMaterial(NewSymmetric(rho, c))
}
