// Copyright 2026 go-forest Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package forest

import (
	"errors"
	"fmt"
	"sync"

	"golang.org/x/exp/constraints"
)

// Device selects where an inference call executes.
type Device int

const (
	// DeviceCPU runs the built-in kernel in-process. No registration needed.
	DeviceCPU Device = iota
	// DeviceGPU routes the call to a registered accelerator backend.
	DeviceGPU
)

// String implements fmt.Stringer.
func (d Device) String() string {
	switch d {
	case DeviceCPU:
		return "cpu"
	case DeviceGPU:
		return "gpu"
	}
	return fmt.Sprintf("device(%d)", int(d))
}

// Stream is an opaque execution-stream handle forwarded untouched to
// accelerator backends. The CPU path ignores it.
type Stream any

var (
	// ErrNoBackend is returned when no backend is registered for the
	// requested device.
	ErrNoBackend = errors.New("no backend registered for device")
	// ErrBackendType is returned when backends exist for the device but
	// none handles the call's element and index types.
	ErrBackendType = errors.New("backend does not support element type")
)

// Backend executes inference for one device. Implementations receive exactly
// the arguments the caller passed to Infer and must honor the same output
// layout and postprocessing contract, so callers can switch devices without
// touching anything else.
type Backend[T constraints.Float, I constraints.Unsigned] interface {
	Name() string
	Device() Device
	Infer(ens *Ensemble[T, I], post Postprocessor[T], output, input []T, rows, cols, outputs int, opts Options[T, I]) error
}

var (
	backendMu sync.RWMutex
	backends  = map[Device][]any{}
)

// RegisterBackend makes b available to Infer calls naming its device.
// Typically called from a backend package's init. Later registrations for the
// same device and types win.
func RegisterBackend[T constraints.Float, I constraints.Unsigned](b Backend[T, I]) {
	backendMu.Lock()
	defer backendMu.Unlock()
	backends[b.Device()] = append([]any{b}, backends[b.Device()]...)
}

func backendFor[T constraints.Float, I constraints.Unsigned](d Device) (Backend[T, I], error) {
	backendMu.RLock()
	defer backendMu.RUnlock()
	regs := backends[d]
	if len(regs) == 0 {
		return nil, fmt.Errorf("forest: %v: %w", d, ErrNoBackend)
	}
	for _, r := range regs {
		if b, ok := r.(Backend[T, I]); ok {
			return b, nil
		}
	}
	var zero T
	return nil, fmt.Errorf("forest: %v has no backend for %T: %w", d, zero, ErrBackendType)
}

// kernelVariant identifies one of the five specialized kernel instantiations.
// Resolution happens once per Infer call; the hot loops never re-test
// capability flags that the variant already encodes.
type kernelVariant uint8

const (
	variantNumericScalar kernelVariant = iota
	variantInlineCatScalar
	variantStoredCatScalar
	variantNumericVector
	variantStoredCatVector
)

// String implements fmt.Stringer.
func (v kernelVariant) String() string {
	switch v {
	case variantNumericScalar:
		return "numeric/scalar"
	case variantInlineCatScalar:
		return "inline-categorical/scalar"
	case variantStoredCatScalar:
		return "stored-categorical/scalar"
	case variantNumericVector:
		return "numeric/vector"
	case variantStoredCatVector:
		return "stored-categorical/vector"
	}
	return fmt.Sprintf("variant(%d)", int(v))
}

// resolveVariant folds the capability flags onto a variant. Stored sets
// subsume inline masks, and the vector-leaf kernels keep only the
// categorical-capable form, which is why eight flag combinations collapse to
// five variants.
func resolveVariant(categorical, stored, vector bool) kernelVariant {
	switch {
	case !vector && stored:
		return variantStoredCatScalar
	case !vector && categorical:
		return variantInlineCatScalar
	case !vector:
		return variantNumericScalar
	case stored || categorical:
		return variantStoredCatVector
	}
	return variantNumericVector
}
