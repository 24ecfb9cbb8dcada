package runner

import (
	"fmt"
	"unsafe"

	"github.com/notargets/DGElastic/runner/builder"
	"github.com/notargets/gocca"
)

// copyToDevice copies host values into device memory, converting to the
// device float type
func (kr *StressRunner) copyToDevice(data []float64, mem *gocca.OCCAMemory) error {
	if len(data) == 0 {
		return nil
	}
	switch kr.FloatType {
	case builder.Float32:
		converted := make([]float32, len(data))
		for i, v := range data {
			converted[i] = float32(v)
		}
		mem.CopyFrom(unsafe.Pointer(&converted[0]), int64(len(converted)*4))
	case builder.Float64:
		mem.CopyFrom(unsafe.Pointer(&data[0]), int64(len(data)*8))
	default:
		return fmt.Errorf("unsupported device float type %v", kr.FloatType)
	}
	return nil
}

// copyFromDevice reads n values from device memory as float64
func (kr *StressRunner) copyFromDevice(mem *gocca.OCCAMemory, n int64) ([]float64, error) {
	out := make([]float64, n)
	if n == 0 {
		return out, nil
	}
	switch kr.FloatType {
	case builder.Float32:
		deviceData := make([]float32, n)
		mem.CopyTo(unsafe.Pointer(&deviceData[0]), n*4)
		for i, v := range deviceData {
			out[i] = float64(v)
		}
	case builder.Float64:
		mem.CopyTo(unsafe.Pointer(&out[0]), n*8)
	default:
		return nil, fmt.Errorf("unsupported device float type %v", kr.FloatType)
	}
	return out, nil
}
