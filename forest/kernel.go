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
	"unsafe"

	"golang.org/x/exp/constraints"
	"golang.org/x/sys/cpu"

	"github.com/mohankrishna12/go-forest/forest/workerpool"
)

// groveSize is the number of trees summed into one workspace stripe. Sized to
// the hardware cache line so adjacent groves of a row never share a line of
// float32 accumulators. Infer always passes this value; only kernel tests
// vary the grove width.
const groveSize = int(unsafe.Sizeof(cpu.CacheLinePad{}))

// defaultChunkSize is the rows-per-task tile when Options.ChunkSize is zero.
// Tuned on Ryzen 9 5950X / 100k rows x 28 cols x 500 trees: 64 edged out 32
// and 128; revisit with `forestbench -sweep`.
const defaultChunkSize = int(unsafe.Sizeof(cpu.CacheLinePad{}))

// accumulator folds a leaf into the grove-striped workspace. Like evaluator,
// the concrete type is a kernel type parameter, so vector-leaf handling costs
// nothing in scalar forests.
type accumulator[T constraints.Float, I constraints.Unsigned] interface {
	accumulate(ws []T, rowBase, grove, groves, outputs, tree int, leaf *Node[T, I])
}

// scalarLeaves adds the leaf value to the output slot tree % outputs. With
// one output every tree lands in slot zero; with k outputs trees contribute
// round-robin, the grove-per-class layout for boosted multiclass forests.
type scalarLeaves[T constraints.Float, I constraints.Unsigned] struct{}

func (scalarLeaves[T, I]) accumulate(ws []T, rowBase, grove, groves, outputs, tree int, leaf *Node[T, I]) {
	ws[rowBase+(tree%outputs)*groves+grove] += leaf.Threshold
}

// vectorLeaves adds a full output row from the leaf table, so every tree
// votes on every class.
type vectorLeaves[T constraints.Float, I constraints.Unsigned] struct {
	table []T
}

func (a vectorLeaves[T, I]) accumulate(ws []T, rowBase, grove, groves, outputs, tree int, leaf *Node[T, I]) {
	vec := a.table[int(leaf.Index)*outputs:]
	for c := 0; c < outputs; c++ {
		ws[rowBase+c*groves+grove] += vec[c]
	}
}

// inferKernel is the shared two-phase kernel behind every specialization.
//
// Phase one tiles (row, tree) space: grove g by chunk c becomes task
// g*chunks+c, and each task accumulates its rows against its trees into
// workspace column g. Distinct tasks touching the same row land in distinct
// grove cells, so phase one is write-disjoint without atomics. Phase two
// folds each row's grove cells into the first and postprocesses it into the
// caller's output buffer.
func inferKernel[T constraints.Float, I constraints.Unsigned, E evaluator[T, I], L accumulator[T, I]](
	e E, acc L, ens *Ensemble[T, I], post Postprocessor[T],
	output, input []T, rows, cols, outputs, chunk, grove int, pool *workerpool.Pool,
) {
	if rows <= 0 {
		return
	}
	trees := ens.TreeCount()
	nodes := ens.Nodes()
	groves := (trees + grove - 1) / grove
	if groves < 1 {
		// Empty ensembles still post-process a zeroed workspace, so the
		// output is defined rather than left stale.
		groves = 1
	}
	chunks := (rows + chunk - 1) / chunk
	stripe := outputs * groves
	ws := make([]T, rows*stripe)

	parallelFor(pool, groves*chunks, func(start, end int) {
		for task := start; task < end; task++ {
			g := task / chunks
			rowStart := (task % chunks) * chunk
			rowEnd := min(rowStart+chunk, rows)
			treeStart := g * grove
			treeEnd := min(treeStart+grove, trees)
			for r := rowStart; r < rowEnd; r++ {
				row := input[r*cols : (r+1)*cols]
				rowBase := r * stripe
				for t := treeStart; t < treeEnd; t++ {
					leaf := descend(e, nodes, ens.Root(t), row)
					acc.accumulate(ws, rowBase, g, groves, outputs, t, leaf)
				}
			}
		}
	})

	parallelFor(pool, rows, func(start, end int) {
		for r := start; r < end; r++ {
			rowBase := r * stripe
			for cls := 0; cls < outputs; cls++ {
				base := rowBase + cls*groves
				for g := 1; g < groves; g++ {
					ws[base] += ws[base+g]
				}
			}
			post.Postprocess(ws[rowBase:rowBase+stripe], outputs, output[r*outputs:(r+1)*outputs], groves)
		}
	})
}
