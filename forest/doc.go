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

// Package forest performs batched inference over ensembles of decision trees
// (random forests, gradient-boosted trees).
//
// The package evaluates R input rows against T trees by tiling the (row, tree)
// space: trees are grouped into groves and rows into chunks, and every
// (grove, chunk) pair becomes an independent task. Tasks accumulate partial
// sums into disjoint regions of a grove-striped workspace, so the inner loop
// runs without locks or atomics. A second parallel phase reduces the grove
// stripes and hands each row to a postprocessor.
//
// Capability combinations (categorical splits, vector-valued leaves, external
// category storage) are resolved once per call onto one of five specialized
// kernel instantiations, keeping the per-row/per-tree loop free of capability
// branches.
//
// Basic usage:
//
//	import "github.com/mohankrishna12/go-forest/forest"
//
//	ens := forest.NewEnsemble([][]forest.Node[float32, uint32]{
//	    {forest.Split[float32, uint32](0, 0.5, 2), forest.Leaf[float32, uint32](1), forest.Leaf[float32, uint32](2)},
//	})
//	out := make([]float32, rows)
//	err := forest.Infer(ens, forest.Identity[float32]{}, out, in, rows, cols, 1,
//	    forest.Options[float32, uint32]{})
//
// Accelerator backends register through RegisterBackend and are selected by
// the Device field alone; the CPU path needs no registration.
package forest
