// Copyright 2026 The go-forest Authors
// SPDX-License-Identifier: Apache-2.0

package forest

import (
	"golang.org/x/exp/constraints"
)

// NodeFlags packs the per-node capability bits.
type NodeFlags uint8

const (
	// FlagLeaf marks a terminal node. Threshold holds the scalar output
	// for scalar-leaf forests; Index holds the vector-output row for
	// vector-leaf forests.
	FlagLeaf NodeFlags = 1 << iota
	// FlagCategorical marks a categorical split. Index holds an inline
	// bitmask over categories, or a CategoryStore bit base when
	// FlagStoredSet is also set.
	FlagCategorical
	// FlagStoredSet routes categorical lookups through the ensemble's
	// CategoryStore instead of the inline mask.
	FlagStoredSet
	// FlagDefaultHot sends NaN feature values down the hot branch of a
	// numeric split. Without it NaN rows take the adjacent child.
	FlagDefaultHot
)

// Node is one slot in the flattened tree arena. Children are addressed
// relative to their parent: the cold child sits at the next slot, the hot
// child Offset slots ahead. Index is multiplexed by flag: categorical mask
// or store base on splits, vector-output row on vector leaves.
type Node[T constraints.Float, I constraints.Unsigned] struct {
	Threshold T
	Feature   I
	Offset    I
	Index     I
	Flags     NodeFlags
}

// IsLeaf reports whether the node terminates descent.
func (n Node[T, I]) IsLeaf() bool { return n.Flags&FlagLeaf != 0 }

// Split returns a numeric split. Rows whose value at feature is >= threshold
// take the hot child at +offset; smaller values and NaN take the adjacent
// child. OR FlagDefaultHot into Flags to flip the NaN direction.
func Split[T constraints.Float, I constraints.Unsigned](feature I, threshold T, offset I) Node[T, I] {
	return Node[T, I]{Threshold: threshold, Feature: feature, Offset: offset}
}

// CategorySplit returns a categorical split with an inline membership mask.
// Bit c of mask grants category c the hot child at +offset; everything else,
// including NaN and categories beyond the mask width, takes the adjacent
// child.
func CategorySplit[T constraints.Float, I constraints.Unsigned](feature I, mask I, offset I) Node[T, I] {
	return Node[T, I]{Feature: feature, Offset: offset, Index: mask, Flags: FlagCategorical}
}

// StoredCategorySplit returns a categorical split whose membership set lives
// in the ensemble's CategoryStore at bit base, as returned by
// CategoryStore.Add.
func StoredCategorySplit[T constraints.Float, I constraints.Unsigned](feature I, base I, offset I) Node[T, I] {
	return Node[T, I]{Feature: feature, Offset: offset, Index: base, Flags: FlagCategorical | FlagStoredSet}
}

// Leaf returns a terminal node carrying a scalar output value.
func Leaf[T constraints.Float, I constraints.Unsigned](value T) Node[T, I] {
	return Node[T, I]{Threshold: value, Flags: FlagLeaf}
}

// VectorLeaf returns a terminal node referencing row of the ensemble's
// vector-output table.
func VectorLeaf[T constraints.Float, I constraints.Unsigned](row I) Node[T, I] {
	return Node[T, I]{Index: row, Flags: FlagLeaf}
}
