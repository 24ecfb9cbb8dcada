package material

import (
	"fmt"

	"github.com/notargets/DGElastic/voigt"
	"gonum.org/v1/gonum/mat"
)

// Isotropic is a homogeneous isotropic material given by Young's modulus and
// Poisson's ratio. In 2D it describes plane strain unless built with
// NewPlaneStress.
type Isotropic struct {
	*Symmetric
	E      float64 // Young's modulus
	Nu     float64 // Poisson's ratio
	Lambda float64 // first Lamé constant used in the tensor
	Mu     float64 // shear modulus
}

func init() {
	Register("isotropic", newIsotropicFromParams)
	Register("isotropic-pstress", newPlaneStressFromParams)
}

// LameFromEnu returns the Lamé constants λ and μ.
func LameFromEnu(E, nu float64) (lambda, mu float64) {
	lambda = E * nu / ((1 + nu) * (1 - 2*nu))
	mu = E / (2 * (1 + nu))
	return
}

// BulkFromEnu returns the bulk modulus K = E/(3(1-2ν)).
func BulkFromEnu(E, nu float64) float64 {
	return E / (3 * (1 - 2*nu))
}

// ShearFromEnu returns the shear modulus G = E/(2(1+ν)).
func ShearFromEnu(E, nu float64) float64 {
	return E / (2 * (1 + nu))
}

func checkEnu(E, nu float64) error {
	if E <= 0 {
		return fmt.Errorf("%w: E=%g must be positive", ErrInvalidParameter, E)
	}
	if nu <= -1 || nu >= 0.5 {
		return fmt.Errorf("%w: nu=%g must lie in (-1, 0.5)", ErrInvalidParameter, nu)
	}
	return nil
}

// NewIsotropic builds an isotropic material of dimension dim.
func NewIsotropic(dim int, density, E, nu float64) (*Isotropic, error) {
	if dim < 1 {
		return nil, fmt.Errorf("%w: dim=%d", ErrInvalidParameter, dim)
	}
	if err := checkEnu(E, nu); err != nil {
		return nil, err
	}
	lambda, mu := LameFromEnu(E, nu)
	return newIsotropic(dim, density, E, nu, lambda, mu)
}

// NewPlaneStress builds a 2D isotropic material under plane stress, where the
// first Lamé constant is replaced by 2λμ/(λ+2μ).
func NewPlaneStress(density, E, nu float64) (*Isotropic, error) {
	if err := checkEnu(E, nu); err != nil {
		return nil, err
	}
	lambda, mu := LameFromEnu(E, nu)
	return newIsotropic(2, density, E, nu, 2*lambda*mu/(lambda+2*mu), mu)
}

func newIsotropic(dim int, density, E, nu, lambda, mu float64) (o *Isotropic, err error) {
	n := voigt.Size(dim)
	c := mat.NewSymDense(n, nil)
	for a := 0; a < dim; a++ {
		for b := a; b < dim; b++ {
			c.SetSym(a, b, lambda)
		}
		c.SetSym(a, a, lambda+2*mu)
	}
	// σ_ij = 2μ·ε_ij and the shear slot carries 2·ε_ij
	for a := dim; a < n; a++ {
		c.SetSym(a, a, mu)
	}
	o = &Isotropic{E: E, Nu: nu, Lambda: lambda, Mu: mu}
	if o.Symmetric, err = NewSymmetric(density, c); err != nil {
		return nil, err
	}
	return
}

func isotropicParams(prms Params) (rho, E, nu float64, err error) {
	if rho, err = prms.Need("rho"); err != nil {
		return
	}
	if E, err = prms.Need("E"); err != nil {
		return
	}
	nu, err = prms.Need("nu")
	return
}

func newIsotropicFromParams(dim int, prms Params) (Material, error) {
	rho, E, nu, err := isotropicParams(prms)
	if err != nil {
		return nil, err
	}
	return asMaterial(NewIsotropic(dim, rho, E, nu))
}

func newPlaneStressFromParams(dim int, prms Params) (Material, error) {
	if dim != 2 {
		return nil, fmt.Errorf("%w: plane stress requires dim=2, got %d", ErrInvalidParameter, dim)
	}
	rho, E, nu, err := isotropicParams(prms)
	if err != nil {
		return nil, err
	}
	return asMaterial(NewPlaneStress(rho, E, nu))
}
