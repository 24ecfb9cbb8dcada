package runner

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/notargets/DGElastic/material"
	"github.com/notargets/DGElastic/runner/builder"
	"github.com/notargets/DGElastic/voigt"
	"github.com/notargets/gocca"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"
)

// ErrFreed is returned by Run after Free.
var ErrFreed = errors.New("runner: resources already freed")

// StressRunner evaluates strain to stress for a fixed number of integration
// points of one material on an OCCA device. It is not safe for concurrent
// Run calls.
type StressRunner struct {
	*builder.Builder
	Device       *gocca.OCCADevice
	Kernels      map[string]*gocca.OCCAKernel
	PooledMemory map[string]*gocca.OCCAMemory
	material     *material.Symmetric
	offsets      map[string][]int64 // host copy of array offsets, in values
	freed        bool
}

// NewStressRunner partitions nPoints integration points, allocates device
// memory and builds the stress kernel with m's compressed matrix embedded
// as a static array.
func NewStressRunner(device *gocca.OCCADevice, m *material.Symmetric, nPoints int,
	cfg builder.Config) (kr *StressRunner, err error) {
	if device == nil {
		return nil, fmt.Errorf("nil device")
	}
	if m == nil {
		return nil, fmt.Errorf("nil material")
	}
	bld, err := builder.NewBuilder(nPoints, voigt.Size(m.Dim()), cfg)
	if err != nil {
		return nil, err
	}
	bld.AddStaticMatrix("C", m.Compressed())

	kr = &StressRunner{
		Builder:      bld,
		Device:       device,
		Kernels:      make(map[string]*gocca.OCCAKernel),
		PooledMemory: make(map[string]*gocca.OCCAMemory),
		material:     m,
		offsets:      make(map[string][]int64),
	}

	kr.PooledMemory["K"] = kr.mallocInts(toInt64(bld.K))
	for _, name := range []string{"Strain", "Stress"} {
		spec, offsets := bld.AddArray(name)
		kr.PooledMemory[name+"_global"] = device.Malloc(spec.Size, nil, nil)
		kr.PooledMemory[name+"_offsets"] = kr.mallocInts(offsets)
		kr.offsets[name] = offsets
	}

	if _, err = kr.BuildKernel(stressKernelSource(StressKernelName), StressKernelName); err != nil {
		kr.Free()
		return nil, err
	}
	Logger().Debug("stress runner ready",
		zap.String("mode", device.Mode()),
		zap.Int("points", nPoints),
		zap.Int("partitions", bld.NumPartitions),
		zap.Int("kpartMax", bld.KpartMax),
		zap.Int("nvoigt", bld.NVoigt))
	return
}

// BuildKernel compiles and registers a kernel against the generated preamble
func (kr *StressRunner) BuildKernel(kernelSource, kernelName string) (*gocca.OCCAKernel, error) {
	kr.GeneratePreamble()

	fullSource := kr.KernelPreamble + "\n" + kernelSource

	var kernel *gocca.OCCAKernel
	var err error

	if kr.Device.Mode() == "OpenMP" {
		// OpenMP does not get the default -O3 flag
		props := gocca.JsonParse(`{"compiler_flags": "-O3"}`)
		defer props.Free()
		kernel, err = kr.Device.BuildKernelFromString(fullSource, kernelName, props)
	} else {
		kernel, err = kr.Device.BuildKernelFromString(fullSource, kernelName, nil)
	}

	if err != nil {
		Logger().Error("kernel build failed",
			zap.String("kernel", kernelName),
			zap.Error(err))
		return nil, fmt.Errorf("failed to build kernel %s: %w", kernelName, err)
	}
	if kernel == nil {
		return nil, fmt.Errorf("kernel build returned nil for %s", kernelName)
	}

	kr.Kernels[kernelName] = kernel
	return kernel, nil
}

// Run converts one strain per integration point to stress. len(strains)
// must equal the number of points the runner was built for.
func (kr *StressRunner) Run(strains []mat.Matrix) (stresses []*mat.SymDense, err error) {
	if kr.freed {
		return nil, ErrFreed
	}
	total := kr.GetTotalPoints()
	if len(strains) != total {
		return nil, fmt.Errorf("got %d strains for %d points", len(strains), total)
	}
	kernel, ok := kr.Kernels[StressKernelName]
	if !ok {
		return nil, fmt.Errorf("kernel %s not compiled", StressKernelName)
	}

	vm := kr.material.Map()
	offsets := kr.offsets["Strain"]
	host := make([]float64, offsets[kr.NumPartitions])
	for p, strain := range strains {
		if err = checkShape(vm.Dim(), strain); err != nil {
			return nil, fmt.Errorf("point %d: %w", p, err)
		}
		e := voigt.Flatten(vm, strain, 2)
		copy(host[kr.slot("Strain", p):], e.RawVector().Data)
	}

	if err = kr.copyToDevice(host, kr.PooledMemory["Strain_global"]); err != nil {
		return nil, fmt.Errorf("strain copy failed: %w", err)
	}

	if err = kernel.RunWithArgs(
		kr.PooledMemory["K"],
		kr.PooledMemory["Strain_global"],
		kr.PooledMemory["Strain_offsets"],
		kr.PooledMemory["Stress_global"],
		kr.PooledMemory["Stress_offsets"],
	); err != nil {
		return nil, fmt.Errorf("kernel execution failed: %w", err)
	}
	kr.Device.Finish()

	out, err := kr.copyFromDevice(kr.PooledMemory["Stress_global"], kr.offsets["Stress"][kr.NumPartitions])
	if err != nil {
		return nil, fmt.Errorf("stress copy failed: %w", err)
	}
	stresses = make([]*mat.SymDense, total)
	for p := range stresses {
		start := kr.slot("Stress", p)
		w := mat.NewVecDense(kr.NVoigt, out[start:start+kr.NVoigt])
		stresses[p] = voigt.Unflatten(vm, w)
	}
	return
}

// slot returns the first value index of point p within array name
func (kr *StressRunner) slot(name string, p int) int {
	part, local := kr.Locate(p)
	return int(kr.offsets[name][part]) + local*kr.NVoigt
}

// Free releases all resources
func (kr *StressRunner) Free() {
	if kr.freed {
		return
	}
	for _, kernel := range kr.Kernels {
		kernel.Free()
	}
	for _, mem := range kr.PooledMemory {
		mem.Free()
	}
	kr.freed = true
}

func checkShape(dim int, strain mat.Matrix) error {
	r, c := strain.Dims()
	if r != dim || c != dim {
		return fmt.Errorf("%w: got %d×%d, want %d×%d", material.ErrShapeMismatch, r, c, dim, dim)
	}
	return nil
}

func toInt64(v []int) []int64 {
	out := make([]int64, len(v))
	for i, x := range v {
		out[i] = int64(x)
	}
	return out
}

// mallocInts allocates and fills an int_t array on the device
func (kr *StressRunner) mallocInts(data []int64) *gocca.OCCAMemory {
	if kr.IntType == builder.INT32 {
		data32 := make([]int32, len(data))
		for i, v := range data {
			data32[i] = int32(v)
		}
		return kr.Device.Malloc(int64(len(data32)*4), unsafe.Pointer(&data32[0]), nil)
	}
	return kr.Device.Malloc(int64(len(data)*8), unsafe.Pointer(&data[0]), nil)
}
