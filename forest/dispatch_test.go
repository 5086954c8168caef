// Copyright 2026 The go-forest Authors
// SPDX-License-Identifier: Apache-2.0

package forest

import (
	"errors"
	"testing"
)

func TestResolveVariant(t *testing.T) {
	cases := []struct {
		categorical, stored, vector bool
		want                        kernelVariant
	}{
		{false, false, false, variantNumericScalar},
		{true, false, false, variantInlineCatScalar},
		{false, true, false, variantStoredCatScalar},
		{true, true, false, variantStoredCatScalar},
		{false, false, true, variantNumericVector},
		{true, false, true, variantStoredCatVector},
		{false, true, true, variantStoredCatVector},
		{true, true, true, variantStoredCatVector},
	}
	for _, c := range cases {
		got := resolveVariant(c.categorical, c.stored, c.vector)
		if got != c.want {
			t.Errorf("resolveVariant(%v, %v, %v): got %v want %v",
				c.categorical, c.stored, c.vector, got, c.want)
		}
	}
}

func TestVariantCount(t *testing.T) {
	// Eight flag combinations must collapse onto exactly five variants.
	seen := map[kernelVariant]bool{}
	for _, categorical := range []bool{false, true} {
		for _, stored := range []bool{false, true} {
			for _, vector := range []bool{false, true} {
				seen[resolveVariant(categorical, stored, vector)] = true
			}
		}
	}
	if len(seen) != 5 {
		t.Errorf("distinct variants: got %d want 5", len(seen))
	}
}

func TestDeviceString(t *testing.T) {
	if DeviceCPU.String() != "cpu" {
		t.Errorf("DeviceCPU: got %q", DeviceCPU.String())
	}
	if DeviceGPU.String() != "gpu" {
		t.Errorf("DeviceGPU: got %q", DeviceGPU.String())
	}
	if Device(42).String() != "device(42)" {
		t.Errorf("Device(42): got %q", Device(42).String())
	}
}

func TestVariantString(t *testing.T) {
	names := map[kernelVariant]string{
		variantNumericScalar:   "numeric/scalar",
		variantInlineCatScalar: "inline-categorical/scalar",
		variantStoredCatScalar: "stored-categorical/scalar",
		variantNumericVector:   "numeric/vector",
		variantStoredCatVector: "stored-categorical/vector",
	}
	for v, want := range names {
		if v.String() != want {
			t.Errorf("%d: got %q want %q", v, v.String(), want)
		}
	}
}

// recordingBackend captures the arguments of its last Infer call and
// delegates to the CPU path, standing in for an accelerator.
type recordingBackend struct {
	device Device
	calls  int
	rows   int
	stream Stream
}

func (b *recordingBackend) Name() string   { return "recording" }
func (b *recordingBackend) Device() Device { return b.device }

func (b *recordingBackend) Infer(ens *Ensemble[float32, uint32], post Postprocessor[float32],
	output, input []float32, rows, cols, outputs int, opts Options[float32, uint32]) error {
	b.calls++
	b.rows = rows
	b.stream = opts.Stream
	opts.Device = DeviceCPU
	return Infer(ens, post, output, input, rows, cols, outputs, opts)
}

func TestBackendRouting(t *testing.T) {
	const dev = Device(100)
	backend := &recordingBackend{device: dev}
	RegisterBackend[float32, uint32](backend)

	ens := NewEnsemble([][]Node[float32, uint32]{
		{Leaf[float32, uint32](3)},
		{Leaf[float32, uint32](4)},
	})
	in := []float32{0}
	viaBackend := make([]float32, 1)
	direct := make([]float32, 1)

	err := Infer(ens, Identity[float32]{}, viaBackend, in, 1, 1, 1,
		Options[float32, uint32]{Device: dev, Stream: "s0"})
	if err != nil {
		t.Fatalf("Infer via backend: %v", err)
	}
	if backend.calls != 1 || backend.rows != 1 {
		t.Errorf("backend saw calls=%d rows=%d", backend.calls, backend.rows)
	}
	if backend.stream != Stream("s0") {
		t.Errorf("stream not forwarded: got %v", backend.stream)
	}

	if err := Infer(ens, Identity[float32]{}, direct, in, 1, 1, 1,
		Options[float32, uint32]{}); err != nil {
		t.Fatalf("Infer direct: %v", err)
	}
	// Devices are interchangeable: same call, same answer.
	if viaBackend[0] != direct[0] {
		t.Errorf("backend %f != cpu %f", viaBackend[0], direct[0])
	}
}

func TestBackendMissing(t *testing.T) {
	ens := NewEnsemble([][]Node[float32, uint32]{{Leaf[float32, uint32](1)}})
	out := make([]float32, 1)
	err := Infer(ens, Identity[float32]{}, out, []float32{0}, 1, 1, 1,
		Options[float32, uint32]{Device: Device(101)})
	if !errors.Is(err, ErrNoBackend) {
		t.Fatalf("got %v want ErrNoBackend", err)
	}
}

func TestBackendTypeMismatch(t *testing.T) {
	const dev = Device(102)
	RegisterBackend[float32, uint32](&recordingBackend{device: dev})

	ens := NewEnsemble([][]Node[float64, uint32]{{Leaf[float64, uint32](1)}})
	out := make([]float64, 1)
	err := InferFloat64(ens, Identity[float64]{}, out, []float64{0}, 1, 1, 1,
		Options[float64, uint32]{Device: dev})
	if !errors.Is(err, ErrBackendType) {
		t.Fatalf("got %v want ErrBackendType", err)
	}
}
