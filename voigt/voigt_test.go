package voigt

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestSizeAndDimFromSize(t *testing.T) {
	for dim := 1; dim <= 8; dim++ {
		n := Size(dim)
		d, ok := DimFromSize(n)
		assert.True(t, ok, "n=%d", n)
		assert.Equal(t, dim, d)
	}
	assert.Equal(t, 3, Size(2))
	assert.Equal(t, 6, Size(3))

	for _, n := range []int{-1, 0, 2, 4, 5, 7, 8, 9, 11} {
		_, ok := DimFromSize(n)
		assert.False(t, ok, "n=%d should not map to a dimension", n)
	}
}

func TestMapOrdering(t *testing.T) {
	m2 := NewMap(2)
	assert.Equal(t, 0, m2.Index(0, 0))
	assert.Equal(t, 1, m2.Index(1, 1))
	assert.Equal(t, 2, m2.Index(0, 1))

	m3 := NewMap(3)
	expected := [3][3]int{
		{0, 5, 4},
		{5, 1, 3},
		{4, 3, 2},
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			assert.Equal(t, expected[i][j], m3.Index(i, j), "(%d,%d)", i, j)
		}
	}
}

func TestMapBijection(t *testing.T) {
	for dim := 1; dim <= 5; dim++ {
		t.Run(fmt.Sprintf("dim=%d", dim), func(t *testing.T) {
			m := NewMap(dim)
			require.Equal(t, Size(dim), m.Size())
			seen := make(map[int][2]int)
			for i := 0; i < dim; i++ {
				for j := i; j < dim; j++ {
					a := m.Index(i, j)
					assert.Equal(t, a, m.Index(j, i))
					prev, dup := seen[a]
					assert.False(t, dup, "(%d,%d) collides with %v", i, j, prev)
					seen[a] = [2]int{i, j}

					pi, pj := m.Pair(a)
					assert.Equal(t, i, pi)
					assert.Equal(t, j, pj)
					assert.Equal(t, i != j, m.IsShear(a))
				}
			}
			for a := 0; a < m.Size(); a++ {
				_, ok := seen[a]
				assert.True(t, ok, "compressed index %d never produced", a)
			}
			for a := 0; a < dim; a++ {
				assert.False(t, m.IsShear(a))
			}
		})
	}
}

func TestMapOutOfRange(t *testing.T) {
	m := NewMap(3)
	checkPanic := func(f func()) {
		defer func() {
			r := recover()
			require.NotNil(t, r)
			err, ok := r.(error)
			require.True(t, ok)
			assert.True(t, errors.Is(err, ErrIndexOutOfRange))
		}()
		f()
	}
	checkPanic(func() { m.Index(3, 0) })
	checkPanic(func() { m.Index(0, -1) })
	checkPanic(func() { m.Pair(6) })
	checkPanic(func() { m.Pair(-1) })
	assert.Panics(t, func() { NewMap(0) })
}

func TestFlattenUnflatten(t *testing.T) {
	m := NewMap(3)
	strain := mat.NewSymDense(3, []float64{
		1, 4, 5,
		4, 2, 6,
		5, 6, 3,
	})

	v := Flatten(m, strain, 2)
	assert.Equal(t, []float64{1, 2, 3, 12, 10, 8}, v.RawVector().Data)

	s := Flatten(m, strain, 1)
	assert.Equal(t, []float64{1, 2, 3, 6, 5, 4}, s.RawVector().Data)
	assert.True(t, mat.Equal(strain, Unflatten(m, s)))

	assert.Panics(t, func() { Flatten(m, mat.NewDense(2, 2, nil), 1) })
	assert.Panics(t, func() { Unflatten(m, mat.NewVecDense(3, nil)) })
}
