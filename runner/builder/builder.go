package builder

import (
	"fmt"
	"sort"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// DataType represents the precision of numerical data
type DataType int

const (
	Float32 DataType = iota + 1
	Float64
	INT32
	INT64
)

// AlignmentType specifies memory alignment requirements
type AlignmentType int

const (
	NoAlignment    AlignmentType = 1
	CacheLineAlign AlignmentType = 64
	WarpAlign      AlignmentType = 128
	PageAlign      AlignmentType = 4096
)

// MaxPartitionSize bounds the @inner loop over integration points.
const MaxPartitionSize = 1024

// DefaultPartitionSize is used when Config.PartitionSize is zero.
const DefaultPartitionSize = 256

// ArraySpec defines user requirements for array allocation
type ArraySpec struct {
	Name      string
	Size      int64 // bytes
	Alignment AlignmentType
	DataType  DataType
}

// Builder lays out integration points in partitions and generates the
// kernel preamble for point-wise constitutive kernels
type Builder struct {
	// Partition configuration
	NumPartitions int
	K             []int // points per partition
	KpartMax      int   // Maximum K value across all partitions

	// Components per point (Voigt size)
	NVoigt int

	// Type configuration
	FloatType DataType
	IntType   DataType
	Alignment AlignmentType

	// Static data to embed
	StaticMatrices map[string]mat.Matrix

	// Array tracking for macro generation
	AllocatedArrays []string

	// Generated code
	KernelPreamble string
}

// Config holds configuration for creating a Builder
type Config struct {
	PartitionSize int // points per partition, DefaultPartitionSize when zero
	FloatType     DataType
	IntType       DataType
	Alignment     AlignmentType
}

// NewBuilder partitions nPoints integration points carrying nVoigt
// components each
func NewBuilder(nPoints, nVoigt int, cfg Config) (kb *Builder, err error) {
	if nPoints < 1 {
		return nil, fmt.Errorf("number of points must be positive, got %d", nPoints)
	}
	if nVoigt < 1 {
		return nil, fmt.Errorf("number of components must be positive, got %d", nVoigt)
	}
	partSize := cfg.PartitionSize
	if partSize == 0 {
		partSize = DefaultPartitionSize
	}
	if partSize < 0 || partSize > MaxPartitionSize {
		return nil, fmt.Errorf("partition size %d outside [1, %d]", partSize, MaxPartitionSize)
	}
	// Set defaults
	floatType := cfg.FloatType
	if floatType == 0 {
		floatType = Float64
	}
	intType := cfg.IntType
	if intType == 0 {
		intType = INT64
	}
	alignment := cfg.Alignment
	if alignment == 0 {
		alignment = NoAlignment
	}
	kb = &Builder{
		NVoigt:          nVoigt,
		FloatType:       floatType,
		IntType:         intType,
		Alignment:       alignment,
		StaticMatrices:  make(map[string]mat.Matrix),
		AllocatedArrays: []string{},
	}
	for remaining := nPoints; remaining > 0; remaining -= partSize {
		k := partSize
		if remaining < k {
			k = remaining
		}
		kb.K = append(kb.K, k)
		if k > kb.KpartMax {
			kb.KpartMax = k
		}
	}
	kb.NumPartitions = len(kb.K)
	return
}

// AddStaticMatrix adds a matrix to be embedded as static const in Kernels
func (kb *Builder) AddStaticMatrix(name string, m mat.Matrix) {
	kb.StaticMatrices[name] = m
}

// AddArray registers an array for partition access macros and returns its
// aligned per-partition offsets (in values) and total size in bytes
func (kb *Builder) AddArray(name string) (spec ArraySpec, offsets []int64) {
	spec = ArraySpec{
		Name:      name,
		Alignment: kb.Alignment,
		DataType:  kb.FloatType,
	}
	offsets, spec.Size = kb.CalculateAlignedOffsetsAndSize(spec)
	kb.AllocatedArrays = append(kb.AllocatedArrays, name)
	return
}

// CalculateAlignedOffsetsAndSize computes partition offsets with alignment
func (kb *Builder) CalculateAlignedOffsetsAndSize(spec ArraySpec) (
	[]int64, int64) {
	offsets := make([]int64, kb.NumPartitions+1)
	valueSize := SizeOfType(spec.DataType)

	alignment := int64(spec.Alignment)
	if alignment == 0 {
		alignment = int64(NoAlignment) // Default to no alignment (1)
	}
	currentByteOffset := int64(0)

	for i := 0; i < kb.NumPartitions; i++ {
		// Align current offset
		if currentByteOffset%alignment != 0 {
			currentByteOffset = ((currentByteOffset + alignment - 1) / alignment) * alignment
		}

		// Store offset in units of VALUES, not points
		offsets[i] = currentByteOffset / valueSize

		// Advance by partition data size
		partitionValues := int64(kb.K[i]) * int64(kb.NVoigt)
		currentByteOffset += partitionValues * valueSize
	}

	// Final offset for bounds checking
	if currentByteOffset%alignment != 0 {
		currentByteOffset = ((currentByteOffset + alignment - 1) / alignment) * alignment
	}
	offsets[kb.NumPartitions] = currentByteOffset / valueSize

	return offsets, offsets[kb.NumPartitions] * valueSize
}

// GetTotalPoints returns sum of all K values
func (kb *Builder) GetTotalPoints() int {
	total := 0
	for _, k := range kb.K {
		total += k
	}
	return total
}

// Locate returns the partition and local index of global point p
func (kb *Builder) Locate(p int) (part, local int) {
	for part = 0; part < kb.NumPartitions; part++ {
		if p < kb.K[part] {
			return part, p
		}
		p -= kb.K[part]
	}
	panic(fmt.Sprintf("point index out of range, total points %d", kb.GetTotalPoints()))
}

// GeneratePreamble generates the kernel preamble with static data and utilities
func (kb *Builder) GeneratePreamble() string {
	var sb strings.Builder

	// 1. Type definitions and constants
	sb.WriteString(kb.generateTypeDefinitions())

	// 2. Static matrix declarations
	sb.WriteString(kb.generateStaticMatrices())

	// 3. Partition access macros
	sb.WriteString(kb.generatePartitionMacros())

	kb.KernelPreamble = sb.String()
	return kb.KernelPreamble
}

// generateTypeDefinitions creates type definitions based on precision settings
func (kb *Builder) generateTypeDefinitions() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("typedef %s real_t;\n", TypeName(kb.FloatType, true)))
	sb.WriteString(fmt.Sprintf("typedef %s int_t;\n", TypeName(kb.IntType, false)))
	sb.WriteString(fmt.Sprintf("#define REAL_ZERO 0.0%s\n", TypeSuffix(kb.FloatType)))
	sb.WriteString(fmt.Sprintf("#define REAL_ONE 1.0%s\n", TypeSuffix(kb.FloatType)))
	sb.WriteString("\n")

	// Constants
	sb.WriteString(fmt.Sprintf("#define NPART %d\n", kb.NumPartitions))
	sb.WriteString(fmt.Sprintf("#define KpartMax %d\n", kb.KpartMax))
	sb.WriteString(fmt.Sprintf("#define NVOIGT %d\n", kb.NVoigt))
	sb.WriteString("\n")

	return sb.String()
}

// generateStaticMatrices converts matrices to static array initializations
func (kb *Builder) generateStaticMatrices() string {
	var sb strings.Builder

	if len(kb.StaticMatrices) > 0 {
		names := make([]string, 0, len(kb.StaticMatrices))
		for name := range kb.StaticMatrices {
			names = append(names, name)
		}
		sort.Strings(names)
		sb.WriteString("// Static matrices\n")
		for _, name := range names {
			sb.WriteString(kb.formatStaticMatrix(name, kb.StaticMatrices[name]))
		}
	}

	return sb.String()
}

// formatStaticMatrix formats a single matrix as a static C array.
// The array is declared [cols][rows] so that name[b][a] holds m(a,b).
func (kb *Builder) formatStaticMatrix(name string, m mat.Matrix) string {
	rows, cols := m.Dims()
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("// Matrix %s stored in column-major format\n", name))
	sb.WriteString(fmt.Sprintf("const %s %s[%d][%d] = {\n", TypeName(kb.FloatType, true), name, cols, rows))

	for j := 0; j < cols; j++ {
		sb.WriteString("    {")
		for i := 0; i < rows; i++ {
			if i > 0 {
				sb.WriteString(", ")
			}
			val := m.At(i, j)
			if kb.FloatType == Float32 {
				sb.WriteString(fmt.Sprintf("%.7ef", val))
			} else {
				sb.WriteString(fmt.Sprintf("%.15e", val))
			}
		}
		sb.WriteString("}")
		if j < cols-1 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("};\n\n")

	return sb.String()
}

// generatePartitionMacros creates macros for partition data access
func (kb *Builder) generatePartitionMacros() string {
	var sb strings.Builder

	sb.WriteString("// Partition access macros\n")

	for _, arrayName := range kb.AllocatedArrays {
		sb.WriteString(fmt.Sprintf("#define %s_PART(part) (%s_global + %s_offsets[part])\n",
			arrayName, arrayName, arrayName))
	}

	if len(kb.AllocatedArrays) > 0 {
		sb.WriteString("\n")
	}

	return sb.String()
}
