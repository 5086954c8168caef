// Copyright 2026 The go-forest Authors
// SPDX-License-Identifier: Apache-2.0

package forestgen

import (
	"math"
	"reflect"
	"testing"

	"github.com/mohankrishna12/go-forest/forest"
)

func TestGenerateDeterministic(t *testing.T) {
	cfg := Config{Trees: 20, Depth: 5, Cols: 8, Seed: 7, Categorical: 0.3, StoredSets: 4}
	a := Generate(cfg)
	b := Generate(cfg)
	if !reflect.DeepEqual(a.Ensemble.Nodes(), b.Ensemble.Nodes()) {
		t.Errorf("same config produced different forests")
	}
	if !reflect.DeepEqual(Inputs(1, 10, 8), Inputs(1, 10, 8)) {
		t.Errorf("same seed produced different inputs")
	}
}

func TestGenerateShape(t *testing.T) {
	cfg := Config{Trees: 15, Depth: 4, Cols: 6, Seed: 2}
	f := Generate(cfg)
	if got := f.Ensemble.TreeCount(); got != 15 {
		t.Fatalf("TreeCount: got %d want 15", got)
	}
	// A depth-4 binary tree holds at most 2^5-1 nodes.
	if n := f.Ensemble.NodeCount(); n > 15*31 {
		t.Errorf("NodeCount %d exceeds depth bound", n)
	}
	for _, n := range f.Ensemble.Nodes() {
		if !n.IsLeaf() && int(n.Feature) >= cfg.Cols {
			t.Fatalf("split references feature %d of %d", n.Feature, cfg.Cols)
		}
	}
	if f.Store != nil || f.Table != nil {
		t.Errorf("plain config built side tables")
	}
}

func TestGenerateVector(t *testing.T) {
	cfg := Config{Trees: 10, Depth: 3, Cols: 4, Seed: 3, VectorOutputs: 5}
	f := Generate(cfg)
	leaves := f.Ensemble.LeafCount()
	if len(f.Table) != leaves*5 {
		t.Fatalf("table: got %d values want %d", len(f.Table), leaves*5)
	}
	for _, n := range f.Ensemble.Nodes() {
		if n.IsLeaf() && int(n.Index) >= leaves {
			t.Fatalf("leaf row %d out of %d", n.Index, leaves)
		}
	}
	if f.Options.VectorLeaves == nil {
		t.Errorf("Options missing vector table")
	}
}

func TestGenerateOptions(t *testing.T) {
	f := Generate(Config{Trees: 5, Depth: 3, Cols: 4, Seed: 4, Categorical: 0.5, StoredSets: 2})
	if !f.Options.Categorical {
		t.Errorf("Options.Categorical not set")
	}
	if f.Options.Categories != f.Store || f.Store == nil {
		t.Errorf("Options.Categories not wired to the store")
	}
	if f.Store.Len() != 2 {
		t.Errorf("Store.Len: got %d want 2", f.Store.Len())
	}
}

func TestGeneratedForestInfers(t *testing.T) {
	const rows = 64
	for _, cfg := range []Config{
		{Trees: 40, Depth: 5, Cols: 8, Seed: 11},
		{Trees: 40, Depth: 5, Cols: 8, Seed: 11, Categorical: 0.4, StoredSets: 3},
		{Trees: 40, Depth: 5, Cols: 8, Seed: 11, Categorical: 0.4, VectorOutputs: 3},
	} {
		f := Generate(cfg)
		outputs := cfg.VectorOutputs
		if outputs == 0 {
			outputs = 1
		}
		in := Inputs(9, rows, cfg.Cols)
		a := make([]float32, rows*outputs)
		b := make([]float32, rows*outputs)
		for _, out := range [][]float32{a, b} {
			err := forest.Infer(f.Ensemble, forest.Identity[float32]{}, out, in, rows, cfg.Cols, outputs, f.Options)
			if err != nil {
				t.Fatalf("Infer: %v", err)
			}
		}
		for i := range a {
			if a[i] != b[i] {
				t.Fatalf("nondeterministic output at %d: %f vs %f", i, a[i], b[i])
			}
			if math.IsNaN(float64(a[i])) {
				t.Fatalf("NaN output at %d", i)
			}
		}
	}
}
