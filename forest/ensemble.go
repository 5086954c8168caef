// Copyright 2026 The go-forest Authors
// SPDX-License-Identifier: Apache-2.0

package forest

import (
	"golang.org/x/exp/constraints"
)

// Ensemble holds a forest as a single flat node arena plus per-tree root
// offsets. Nodes within a tree address their children relative to themselves,
// so trees concatenate without fixups.
type Ensemble[T constraints.Float, I constraints.Unsigned] struct {
	nodes  []Node[T, I]
	roots  []I
	leaves int
}

// NewEnsemble flattens trees into one arena. Each tree is a slice of nodes
// with relative child offsets, root first; trees must be non-empty (a lone
// leaf is the smallest tree). Nodes are copied into the arena, so the input
// slices are not retained.
func NewEnsemble[T constraints.Float, I constraints.Unsigned](trees [][]Node[T, I]) *Ensemble[T, I] {
	total := 0
	for _, tree := range trees {
		total += len(tree)
	}
	ens := &Ensemble[T, I]{
		nodes: make([]Node[T, I], 0, total),
		roots: make([]I, 0, len(trees)),
	}
	for _, tree := range trees {
		ens.roots = append(ens.roots, I(len(ens.nodes)))
		ens.nodes = append(ens.nodes, tree...)
		for _, n := range tree {
			if n.IsLeaf() {
				ens.leaves++
			}
		}
	}
	return ens
}

// TreeCount returns the number of trees in the ensemble.
func (e *Ensemble[T, I]) TreeCount() int { return len(e.roots) }

// NodeCount returns the total number of nodes across all trees.
func (e *Ensemble[T, I]) NodeCount() int { return len(e.nodes) }

// LeafCount returns the number of leaf nodes across all trees. Vector-leaf
// forests size their output table as LeafCount rows when rows are assigned
// densely.
func (e *Ensemble[T, I]) LeafCount() int { return e.leaves }

// Root returns the arena offset of tree i's root node.
func (e *Ensemble[T, I]) Root(i int) I { return e.roots[i] }

// Nodes exposes the arena for kernel descent. Callers must treat it as
// read-only.
func (e *Ensemble[T, I]) Nodes() []Node[T, I] { return e.nodes }
