// Copyright 2026 The go-forest Authors
// SPDX-License-Identifier: Apache-2.0

// Command forestbench times batched forest inference over synthetic
// ensembles. It drives the same Infer entry point as library callers, so its
// numbers track what applications see.
//
// A single run:
//
//	forestbench -rows 100000 -trees 500 -depth 8 -workers 8
//
// Sweeping the chunk size to tune Options.ChunkSize for a workload:
//
//	forestbench -sweep -rows 100000 -trees 500
//
// Runs are also describable as YAML, in which case command-line flags are
// ignored:
//
//	forestbench -config bench.yaml
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"time"
	"unsafe"

	"github.com/unixpickle/essentials"
	"golang.org/x/sys/cpu"

	"github.com/mohankrishna12/go-forest/forest"
	"github.com/mohankrishna12/go-forest/forest/forestgen"
	"github.com/mohankrishna12/go-forest/forest/workerpool"
)

func main() {
	var configPath string
	var sweep, cpuInfo bool
	cfg := DefaultConfig()
	flag.StringVar(&configPath, "config", "", "YAML run description; other flags are ignored when set")
	flag.IntVar(&cfg.Rows, "rows", cfg.Rows, "input rows per iteration")
	flag.IntVar(&cfg.Cols, "cols", cfg.Cols, "features per row")
	flag.IntVar(&cfg.Trees, "trees", cfg.Trees, "trees in the generated ensemble")
	flag.IntVar(&cfg.Depth, "depth", cfg.Depth, "maximum tree depth")
	flag.IntVar(&cfg.Outputs, "outputs", cfg.Outputs, "outputs per row")
	flag.Float64Var(&cfg.Categorical, "categorical", cfg.Categorical, "fraction of categorical splits")
	flag.IntVar(&cfg.StoredSets, "stored-sets", cfg.StoredSets, "wide category sets to generate")
	flag.BoolVar(&cfg.Vector, "vector", cfg.Vector, "use vector-output leaves")
	flag.StringVar(&cfg.Post, "post", cfg.Post, "postprocessor: identity, average, sigmoid, softmax, maxindex")
	flag.IntVar(&cfg.Iters, "iters", cfg.Iters, "timed iterations")
	flag.IntVar(&cfg.Workers, "workers", cfg.Workers, "worker goroutines (0 = GOMAXPROCS)")
	flag.IntVar(&cfg.Chunk, "chunk", cfg.Chunk, "rows per task (0 = library default)")
	flag.Int64Var(&cfg.Seed, "seed", cfg.Seed, "generation seed")
	flag.BoolVar(&sweep, "sweep", false, "time every chunk size in the sweep list")
	flag.BoolVar(&cpuInfo, "cpuinfo", false, "print execution environment and exit")
	flag.Parse()

	if flag.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "Usage: forestbench [flags]")
		fmt.Fprintln(os.Stderr)
		flag.PrintDefaults()
		os.Exit(1)
	}
	if cpuInfo {
		fmt.Printf("arch:        %s\n", runtime.GOARCH)
		fmt.Printf("cpus:        %d logical, GOMAXPROCS %d\n", runtime.NumCPU(), runtime.GOMAXPROCS(0))
		fmt.Printf("cache line:  %d bytes\n", unsafe.Sizeof(cpu.CacheLinePad{}))
		return
	}
	if configPath != "" {
		loaded, err := LoadConfig(configPath)
		essentials.Must(err)
		cfg = *loaded
	}
	run(cfg, sweep)
}

func run(cfg Config, sweep bool) {
	post, err := postprocessor(cfg.Post, cfg.Trees)
	essentials.Must(err)

	gen := forestgen.Config{
		Trees:       cfg.Trees,
		Depth:       cfg.Depth,
		Cols:        cfg.Cols,
		Seed:        cfg.Seed,
		Categorical: cfg.Categorical,
		StoredSets:  cfg.StoredSets,
	}
	if cfg.Vector {
		gen.VectorOutputs = cfg.Outputs
	}
	log.Printf("generating forest: trees=%d depth=%d cols=%d categorical=%.2f stored=%d vector=%v",
		cfg.Trees, cfg.Depth, cfg.Cols, cfg.Categorical, cfg.StoredSets, cfg.Vector)
	f := forestgen.Generate(gen)
	log.Printf("forest ready: %d nodes, %d leaves", f.Ensemble.NodeCount(), f.Ensemble.LeafCount())

	in := forestgen.Inputs(cfg.Seed+1, cfg.Rows, cfg.Cols)
	out := make([]float32, cfg.Rows*cfg.Outputs)
	pool := workerpool.New(cfg.Workers)
	defer pool.Close()
	opts := f.Options
	opts.Pool = pool

	chunks := []int{cfg.Chunk}
	if sweep {
		chunks = cfg.Chunks
	}
	for _, chunk := range chunks {
		opts.ChunkSize = chunk
		// One untimed pass warms the scheduler and page cache.
		essentials.Must(forest.Infer(f.Ensemble, post, out, in, cfg.Rows, cfg.Cols, cfg.Outputs, opts))

		start := time.Now()
		for i := 0; i < cfg.Iters; i++ {
			essentials.Must(forest.Infer(f.Ensemble, post, out, in, cfg.Rows, cfg.Cols, cfg.Outputs, opts))
		}
		elapsed := time.Since(start)
		perIter := elapsed / time.Duration(cfg.Iters)
		rate := float64(cfg.Rows) * float64(cfg.Iters) / elapsed.Seconds()
		log.Printf("chunk=%-5d %12s/iter %14.0f rows/s",
			chunk, perIter.Round(time.Microsecond), rate)
	}
}
