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

// Package forestgen builds synthetic random forests for benchmarks and
// examples. Generation is deterministic in the Config: every tree derives its
// own seed from Config.Seed and its index, so parallel generation yields the
// same forest as sequential.
package forestgen

import (
	"math/rand"

	"github.com/unixpickle/essentials"

	"github.com/mohankrishna12/go-forest/forest"
)

// FeatureRange is the half-open value range of generated features and numeric
// thresholds. Categorical masks draw their members from the same range, so
// generated inputs exercise both member and non-member branches.
const FeatureRange = 32

// Config describes the forest to generate.
type Config struct {
	// Trees is the ensemble size.
	Trees int
	// Depth bounds tree height; subtrees also terminate early at random,
	// so trees are ragged rather than complete.
	Depth int
	// Cols is the number of input features splits may reference.
	Cols int
	// Seed fixes the generated forest.
	Seed int64
	// Categorical is the fraction of splits that test category membership
	// instead of a threshold, in [0, 1].
	Categorical float64
	// StoredSets, when positive, builds that many wide membership sets in
	// a CategoryStore and makes roughly half the categorical splits use
	// them.
	StoredSets int
	// VectorOutputs, when positive, replaces scalar leaves with rows of a
	// vector-output table this many columns wide.
	VectorOutputs int
}

// Forest bundles a generated ensemble with the side tables it needs at
// inference time. Options arrives pre-filled with the matching capability
// flags; callers typically only add a Pool or ChunkSize.
type Forest struct {
	Ensemble *forest.Ensemble[float32, uint32]
	Store    *forest.CategoryStore
	Table    []float32
	Options  forest.Options[float32, uint32]
}

// Generate builds the forest described by cfg.
func Generate(cfg Config) *Forest {
	store, handles := buildStore(cfg)

	trees := make([][]forest.Node[float32, uint32], cfg.Trees)
	essentials.StatefulConcurrentMap(0, cfg.Trees, func() func(int) {
		return func(i int) {
			rng := rand.New(rand.NewSource(cfg.Seed + int64(i)))
			trees[i] = genTree(rng, cfg.Depth, cfg, handles)
		}
	})

	var table []float32
	if cfg.VectorOutputs > 0 {
		table = vectorize(trees, cfg)
	}

	f := &Forest{
		Ensemble: forest.NewEnsemble(trees),
		Store:    store,
		Table:    table,
	}
	f.Options = forest.Options[float32, uint32]{
		Categorical:  cfg.Categorical > 0,
		Categories:   store,
		VectorLeaves: table,
	}
	return f
}

// Inputs returns a row-major rows by cols feature matrix with values uniform
// in [0, FeatureRange), deterministic in seed.
func Inputs(seed int64, rows, cols int) []float32 {
	rng := rand.New(rand.NewSource(seed))
	in := make([]float32, rows*cols)
	for i := range in {
		in[i] = rng.Float32() * FeatureRange
	}
	return in
}

func buildStore(cfg Config) (*forest.CategoryStore, []uint32) {
	if cfg.StoredSets <= 0 {
		return nil, nil
	}
	rng := rand.New(rand.NewSource(cfg.Seed ^ 0x5ca1ab1e))
	store := &forest.CategoryStore{}
	handles := make([]uint32, cfg.StoredSets)
	for s := range handles {
		width := uint32(FeatureRange + rng.Intn(4*FeatureRange))
		members := make([]uint32, 0, 8)
		for k := 0; k < 8; k++ {
			members = append(members, uint32(rng.Intn(int(width))))
		}
		handles[s] = store.Add(members, width)
	}
	return store, handles
}

func genTree(rng *rand.Rand, depth int, cfg Config, handles []uint32) []forest.Node[float32, uint32] {
	if depth == 0 || rng.Intn(5) == 0 {
		return []forest.Node[float32, uint32]{
			forest.Leaf[float32, uint32](rng.Float32()*2 - 1),
		}
	}
	cold := genTree(rng, depth-1, cfg, handles)
	hot := genTree(rng, depth-1, cfg, handles)
	offset := uint32(1 + len(cold))
	feature := uint32(rng.Intn(cfg.Cols))

	categorical := rng.Float64() < cfg.Categorical
	stored := categorical && len(handles) > 0 && rng.Intn(2) == 0

	var root forest.Node[float32, uint32]
	switch {
	case stored:
		root = forest.StoredCategorySplit[float32, uint32](feature, handles[rng.Intn(len(handles))], offset)
	case categorical:
		var mask uint32
		for k := 0; k < 6; k++ {
			mask |= 1 << rng.Intn(FeatureRange)
		}
		root = forest.CategorySplit[float32, uint32](feature, mask, offset)
	default:
		root = forest.Split[float32, uint32](feature, rng.Float32()*FeatureRange, offset)
		if rng.Intn(8) == 0 {
			root.Flags |= forest.FlagDefaultHot
		}
	}

	tree := make([]forest.Node[float32, uint32], 0, 1+len(cold)+len(hot))
	tree = append(tree, root)
	tree = append(tree, cold...)
	return append(tree, hot...)
}

// vectorize rewrites scalar leaves as vector leaves with densely assigned
// table rows and fills the table, sequentially so row order is stable.
func vectorize(trees [][]forest.Node[float32, uint32], cfg Config) []float32 {
	rng := rand.New(rand.NewSource(cfg.Seed ^ 0x7ab1e))
	var table []float32
	row := uint32(0)
	for _, tree := range trees {
		for i := range tree {
			if !tree[i].IsLeaf() {
				continue
			}
			tree[i] = forest.VectorLeaf[float32, uint32](row)
			row++
			for c := 0; c < cfg.VectorOutputs; c++ {
				table = append(table, rng.Float32()*2-1)
			}
		}
	}
	return table
}
