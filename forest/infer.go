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
	"golang.org/x/exp/constraints"

	"github.com/mohankrishna12/go-forest/forest/workerpool"
)

// Options carries the per-call capability flags and tuning knobs. The zero
// value runs a numeric, scalar-leaf forest on the CPU with default tiling.
type Options[T constraints.Float, I constraints.Unsigned] struct {
	// Categorical declares that the ensemble contains categorical splits
	// with inline masks. Leave false for purely numeric forests so the
	// kernel skips membership handling entirely.
	Categorical bool

	// Categories backs splits built with StoredCategorySplit. Setting it
	// implies categorical handling regardless of Categorical.
	Categories *CategoryStore

	// VectorLeaves is the leaf output table for forests built with
	// VectorLeaf, laid out LeafCount rows by outputs columns. Non-nil
	// selects the vector-leaf kernels.
	VectorLeaves []T

	// ChunkSize is the number of rows per parallel task. Zero picks the
	// cache-line default; tune with the forestbench sweep for unusual
	// row widths.
	ChunkSize int

	// Device selects the execution backend. DeviceCPU needs no
	// registration.
	Device Device

	// Stream is forwarded to accelerator backends untouched.
	Stream Stream

	// Pool, when non-nil, runs the call on a persistent worker pool
	// instead of spawning goroutines per call.
	Pool *workerpool.Pool
}

// Infer evaluates ens over rows input rows of cols features each and writes
// rows * outputs values to output, one outputs-wide block per row. input is
// row-major; row r occupies input[r*cols : (r+1)*cols].
//
// Scalar-leaf forests accumulate tree t's leaf into output slot t % outputs;
// vector-leaf forests accumulate a full table row per tree. Sums are reduced
// per row and handed to post. Results are deterministic for fixed inputs
// regardless of ChunkSize, Pool and worker count, since partial sums occupy
// disjoint workspace cells and the reduction order is fixed.
//
// The caller guarantees outputs >= 1, len(input) >= rows*cols,
// len(output) >= rows*outputs, every split's Feature < cols, and that
// VectorLeaves and Categories cover the ensemble's leaf rows and set handles.
// These are programming errors, not runtime conditions, and are not
// validated here. The returned error is always nil on the CPU path; for
// other devices it reports backend resolution or backend execution failures.
func Infer[T constraints.Float, I constraints.Unsigned](
	ens *Ensemble[T, I], post Postprocessor[T],
	output, input []T, rows, cols, outputs int, opts Options[T, I],
) error {
	if opts.Device != DeviceCPU {
		b, err := backendFor[T, I](opts.Device)
		if err != nil {
			return err
		}
		return b.Infer(ens, post, output, input, rows, cols, outputs, opts)
	}
	chunk := opts.ChunkSize
	if chunk <= 0 {
		chunk = defaultChunkSize
	}
	switch resolveVariant(opts.Categorical, opts.Categories != nil, opts.VectorLeaves != nil) {
	case variantNumericScalar:
		inferKernel(numericOnly[T, I]{}, scalarLeaves[T, I]{},
			ens, post, output, input, rows, cols, outputs, chunk, groveSize, opts.Pool)
	case variantInlineCatScalar:
		inferKernel(inlineCategories[T, I]{}, scalarLeaves[T, I]{},
			ens, post, output, input, rows, cols, outputs, chunk, groveSize, opts.Pool)
	case variantStoredCatScalar:
		inferKernel(storedCategories[T, I]{store: opts.Categories}, scalarLeaves[T, I]{},
			ens, post, output, input, rows, cols, outputs, chunk, groveSize, opts.Pool)
	case variantNumericVector:
		inferKernel(numericOnly[T, I]{}, vectorLeaves[T, I]{table: opts.VectorLeaves},
			ens, post, output, input, rows, cols, outputs, chunk, groveSize, opts.Pool)
	case variantStoredCatVector:
		inferKernel(storedCategories[T, I]{store: opts.Categories}, vectorLeaves[T, I]{table: opts.VectorLeaves},
			ens, post, output, input, rows, cols, outputs, chunk, groveSize, opts.Pool)
	}
	return nil
}

// InferFloat32 is Infer fixed to the common float32 element, uint32 index
// instantiation.
func InferFloat32(
	ens *Ensemble[float32, uint32], post Postprocessor[float32],
	output, input []float32, rows, cols, outputs int, opts Options[float32, uint32],
) error {
	return Infer(ens, post, output, input, rows, cols, outputs, opts)
}

// InferFloat64 is Infer fixed to float64 elements with uint32 indices.
func InferFloat64(
	ens *Ensemble[float64, uint32], post Postprocessor[float64],
	output, input []float64, rows, cols, outputs int, opts Options[float64, uint32],
) error {
	return Infer(ens, post, output, input, rows, cols, outputs, opts)
}
