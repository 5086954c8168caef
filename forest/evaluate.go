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
	"math"
	"unsafe"

	"golang.org/x/exp/constraints"
)

// evaluator decides the branch taken at a split node. The kernel is generic
// over the concrete evaluator, so the capability checks below are resolved
// per specialization instead of per node visit.
type evaluator[T constraints.Float, I constraints.Unsigned] interface {
	eval(n *Node[T, I], v T) bool
}

// numericOnly handles forests without categorical splits. Node capability
// flags beyond FlagDefaultHot are never consulted.
type numericOnly[T constraints.Float, I constraints.Unsigned] struct{}

func (numericOnly[T, I]) eval(n *Node[T, I], v T) bool {
	return numericEval(n, v)
}

// inlineCategories handles categorical splits whose membership masks fit the
// node's Index field.
type inlineCategories[T constraints.Float, I constraints.Unsigned] struct{}

func (inlineCategories[T, I]) eval(n *Node[T, I], v T) bool {
	if n.Flags&FlagCategorical != 0 {
		return inlineEval(n, v)
	}
	return numericEval(n, v)
}

// storedCategories handles categorical splits backed by a CategoryStore.
// Nodes without FlagStoredSet still fall back to their inline mask, so mixed
// ensembles need only this one evaluator.
type storedCategories[T constraints.Float, I constraints.Unsigned] struct {
	store *CategoryStore
}

func (e storedCategories[T, I]) eval(n *Node[T, I], v T) bool {
	if n.Flags&FlagCategorical != 0 {
		if n.Flags&FlagStoredSet != 0 {
			return storedEval(e.store, n, v)
		}
		return inlineEval(n, v)
	}
	return numericEval(n, v)
}

// numericEval routes v >= Threshold to the hot child. NaN follows
// FlagDefaultHot.
func numericEval[T constraints.Float, I constraints.Unsigned](n *Node[T, I], v T) bool {
	if math.IsNaN(float64(v)) {
		return n.Flags&FlagDefaultHot != 0
	}
	return v >= n.Threshold
}

// inlineEval tests membership in the node's inline mask. The feature value is
// truncated to a category; NaN, negatives and categories beyond the mask
// width are non-members.
func inlineEval[T constraints.Float, I constraints.Unsigned](n *Node[T, I], v T) bool {
	width := T(unsafe.Sizeof(n.Index) * 8)
	if v >= 0 && v < width {
		return n.Index>>uint64(v)&1 == 1
	}
	return false
}

// maxStoredCategory bounds the float-to-category conversion for stored sets.
const maxStoredCategory = 1 << 32

func storedEval[T constraints.Float, I constraints.Unsigned](store *CategoryStore, n *Node[T, I], v T) bool {
	if v >= 0 && v < T(maxStoredCategory) {
		return store.Contains(uint32(n.Index), uint32(v))
	}
	return false
}

// descend walks one tree for one row and returns its leaf.
func descend[T constraints.Float, I constraints.Unsigned, E evaluator[T, I]](e E, nodes []Node[T, I], root I, row []T) *Node[T, I] {
	i := root
	n := &nodes[i]
	for !n.IsLeaf() {
		if e.eval(n, row[n.Feature]) {
			i += n.Offset
		} else {
			i++
		}
		n = &nodes[i]
	}
	return n
}
