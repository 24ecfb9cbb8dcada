package voigt

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// ErrIndexOutOfRange is carried by the panics raised for spatial or compressed
// indices outside the map's range.
var ErrIndexOutOfRange = errors.New("voigt: index out of range")

// Size returns the number of independent components of a symmetric dim×dim
// matrix, dim(dim+1)/2.
func Size(dim int) int {
	return dim * (dim + 1) / 2
}

// DimFromSize solves n = dim(dim+1)/2 for a positive integer dim.
func DimFromSize(n int) (dim int, ok bool) {
	if n < 1 {
		return 0, false
	}
	// dim = (sqrt(8n+1)-1)/2
	dim = int(math.Round((math.Sqrt(float64(8*n+1)) - 1) / 2))
	if Size(dim) != n {
		return 0, false
	}
	return dim, true
}

// Map converts between symmetric index pairs (i,j) and compressed indices.
//
// Ordering:
//
//	a = i                for the diagonal pairs (i,i), i = 0..dim-1
//	a = dim, dim+1, ...  for the off-diagonal pairs, j descending from dim-1
//	                     to 1 and, for each j, i descending from j-1 to 0
//
// For dim=2 this gives (0,1)→2, for dim=3 (1,2)→3, (0,2)→4, (0,1)→5.
// A Map is immutable and safe for concurrent use.
type Map struct {
	dim   int
	index [][]int  // [dim][dim] -> a
	pairs [][2]int // [N] -> (i,j), i <= j
}

// NewMap builds the index table for dim; dim must be positive.
func NewMap(dim int) (m *Map) {
	if dim < 1 {
		panic(fmt.Sprintf("voigt: invalid dimension %d", dim))
	}
	m = &Map{
		dim:   dim,
		index: make([][]int, dim),
		pairs: make([][2]int, 0, Size(dim)),
	}
	for i := 0; i < dim; i++ {
		m.index[i] = make([]int, dim)
		m.index[i][i] = i
		m.pairs = append(m.pairs, [2]int{i, i})
	}
	for j := dim - 1; j > 0; j-- {
		for i := j - 1; i >= 0; i-- {
			a := len(m.pairs)
			m.index[i][j] = a
			m.index[j][i] = a
			m.pairs = append(m.pairs, [2]int{i, j})
		}
	}
	return
}

// Dim returns the spatial dimension.
func (m *Map) Dim() int { return m.dim }

// Size returns the number of compressed components.
func (m *Map) Size() int { return len(m.pairs) }

// Index returns the compressed index of the pair (i,j); Index(i,j) == Index(j,i).
func (m *Map) Index(i, j int) int {
	if i < 0 || i >= m.dim || j < 0 || j >= m.dim {
		panic(fmt.Errorf("%w: (%d,%d) with dim=%d", ErrIndexOutOfRange, i, j, m.dim))
	}
	return m.index[i][j]
}

// Pair returns the spatial pair (i,j), i <= j, stored at compressed index a.
func (m *Map) Pair(a int) (i, j int) {
	if a < 0 || a >= len(m.pairs) {
		panic(fmt.Errorf("%w: %d with size=%d", ErrIndexOutOfRange, a, len(m.pairs)))
	}
	p := m.pairs[a]
	return p[0], p[1]
}

// IsShear reports whether compressed index a holds an off-diagonal pair.
func (m *Map) IsShear(a int) bool {
	i, j := m.Pair(a)
	return i != j
}

// Flatten packs a dim×dim matrix into a compressed vector. Off-diagonal
// slots hold the symmetric part (x_ij+x_ji)/2 multiplied by shearScale: 2 for
// engineering strain, 1 for stress.
func Flatten(m *Map, x mat.Matrix, shearScale float64) (v *mat.VecDense) {
	r, c := x.Dims()
	if r != m.dim || c != m.dim {
		panic(fmt.Sprintf("voigt: cannot flatten %d×%d matrix with dim=%d", r, c, m.dim))
	}
	v = mat.NewVecDense(m.Size(), nil)
	for a, p := range m.pairs {
		i, j := p[0], p[1]
		val := x.At(i, j)
		if i != j {
			val = 0.5 * (val + x.At(j, i)) * shearScale
		}
		v.SetVec(a, val)
	}
	return
}

// Unflatten expands a compressed vector into a symmetric dim×dim matrix with
// no scaling of the off-diagonal entries.
func Unflatten(m *Map, v mat.Vector) (x *mat.SymDense) {
	if v.Len() != m.Size() {
		panic(fmt.Sprintf("voigt: cannot unflatten vector of length %d with size=%d", v.Len(), m.Size()))
	}
	x = mat.NewSymDense(m.dim, nil)
	for a, p := range m.pairs {
		x.SetSym(p[0], p[1], v.AtVec(a))
	}
	return
}
