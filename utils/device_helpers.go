package utils

import (
	"fmt"

	"github.com/notargets/gocca"
)

// DefaultBackends lists the device properties tried by CreateDevice, parallel
// backends first
var DefaultBackends = []string{
	`{"mode": "OpenMP"}`,
	`{"mode": "CUDA", "device_id": 0}`,
	`{"mode": "Serial"}`,
}

// CreateDevice returns the first device that can be created from backends,
// or from DefaultBackends when none are given
func CreateDevice(backends ...string) (*gocca.OCCADevice, error) {
	if len(backends) == 0 {
		backends = DefaultBackends
	}
	var lastErr error
	for _, props := range backends {
		device, err := gocca.NewDevice(props)
		if err == nil {
			return device, nil
		}
		lastErr = err
	}
	return nil, fmt.Errorf("failed to create any device from %d backends: %w", len(backends), lastErr)
}
