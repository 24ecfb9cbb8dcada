package material

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// layered stiffens linearly along x.
func layered(t *testing.T) *Heterogeneous {
	base, err := NewIsotropic(2, 1.0, 100, 0.3)
	require.NoError(t, err)
	tensor := func(p mat.Vector) mat.Symmetric {
		c := base.Compressed()
		c.ScaleSym(1+p.AtVec(0), c)
		return c
	}
	density := func(p mat.Vector) float64 { return 1 + 0.5*p.AtVec(0) }
	h, err := NewHeterogeneous(2, tensor, density)
	require.NoError(t, err)
	return h
}

func TestHeterogeneousVariesWithPosition(t *testing.T) {
	h := layered(t)
	p0 := mat.NewVecDense(2, []float64{0, 0})
	p1 := mat.NewVecDense(2, []float64{1, 7})

	assert.Equal(t, 1.0, h.Density(p0))
	assert.Equal(t, 1.5, h.Density(p1))
	assertTensorSymmetry(t, h, p1)

	strain := mat.NewSymDense(2, []float64{
		1.0, 0.2,
		0.2, 2.0,
	})
	s0, err := h.StrainToStress(strain, p0)
	require.NoError(t, err)
	s1, err := h.StrainToStress(strain, p1)
	require.NoError(t, err)
	var twice mat.SymDense
	twice.ScaleSym(2, s0)
	assert.True(t, mat.EqualApprox(&twice, s1, 1e-12))

	slow, err := Contract(h, strain, p1)
	require.NoError(t, err)
	assert.True(t, mat.EqualApprox(slow, s1, 1e-12))
}

func TestHeterogeneousBadField(t *testing.T) {
	wrong := func(p mat.Vector) mat.Symmetric { return mat.NewSymDense(6, nil) }
	h, err := NewHeterogeneous(2, wrong, func(mat.Vector) float64 { return 1 })
	require.NoError(t, err)

	_, err = h.StrainToStress(mat.NewDense(2, 2, nil), nil)
	assert.True(t, errors.Is(err, ErrInvalidShape))
	assert.Panics(t, func() { h.Tensor(0, 0, 0, 0, nil) })

	_, err = h.StrainToStress(mat.NewDense(3, 3, nil), nil)
	assert.True(t, errors.Is(err, ErrShapeMismatch))

	_, err = NewHeterogeneous(2, nil, nil)
	assert.True(t, errors.Is(err, ErrInvalidParameter))
}
