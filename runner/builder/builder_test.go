package builder

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestNewBuilderPartitions(t *testing.T) {
	kb, err := NewBuilder(10, 6, Config{PartitionSize: 4})
	require.NoError(t, err)
	assert.Equal(t, []int{4, 4, 2}, kb.K)
	assert.Equal(t, 3, kb.NumPartitions)
	assert.Equal(t, 4, kb.KpartMax)
	assert.Equal(t, 10, kb.GetTotalPoints())
	assert.Equal(t, Float64, kb.FloatType)
	assert.Equal(t, INT64, kb.IntType)

	part, local := kb.Locate(9)
	assert.Equal(t, 2, part)
	assert.Equal(t, 1, local)
	part, local = kb.Locate(4)
	assert.Equal(t, 1, part)
	assert.Equal(t, 0, local)
	assert.Panics(t, func() { kb.Locate(10) })

	kb, err = NewBuilder(3, 3, Config{})
	require.NoError(t, err)
	assert.Equal(t, []int{3}, kb.K)

	_, err = NewBuilder(0, 6, Config{})
	assert.Error(t, err)
	_, err = NewBuilder(10, 6, Config{PartitionSize: MaxPartitionSize + 1})
	assert.Error(t, err)
}

func TestCalculateAlignedOffsets(t *testing.T) {
	kb, err := NewBuilder(10, 3, Config{PartitionSize: 4})
	require.NoError(t, err)

	spec, offsets := kb.AddArray("Strain")
	assert.Equal(t, []int64{0, 12, 24, 30}, offsets)
	assert.Equal(t, int64(30*8), spec.Size)

	// 4 points × 3 values × 4 bytes = 48 bytes, padded to 64
	kb, err = NewBuilder(10, 3, Config{PartitionSize: 4, FloatType: Float32, Alignment: CacheLineAlign})
	require.NoError(t, err)
	spec, offsets = kb.AddArray("Strain")
	assert.Equal(t, []int64{0, 16, 32, 48}, offsets)
	assert.Equal(t, int64(48*4), spec.Size)
}

func TestGeneratePreamble(t *testing.T) {
	kb, err := NewBuilder(5, 3, Config{PartitionSize: 2, FloatType: Float32, IntType: INT32})
	require.NoError(t, err)
	kb.AddStaticMatrix("C", mat.NewDense(3, 3, []float64{
		1, 2, 3,
		4, 5, 6,
		7, 8, 9,
	}))
	kb.AddArray("Strain")

	src := kb.GeneratePreamble()
	for _, want := range []string{
		"typedef float real_t;",
		"typedef int int_t;",
		"#define NPART 3",
		"#define KpartMax 2",
		"#define NVOIGT 3",
		"const float C[3][3] = {",
		"{1.0000000e+00f, 4.0000000e+00f, 7.0000000e+00f}",
		"#define Strain_PART(part) (Strain_global + Strain_offsets[part])",
	} {
		assert.True(t, strings.Contains(src, want), "missing %q in\n%s", want, src)
	}
	assert.Equal(t, src, kb.KernelPreamble)
}
