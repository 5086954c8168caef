// Copyright 2026 The go-forest Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mohankrishna12/go-forest/forest"
)

// Config describes one benchmark run. Fields left out of a YAML file keep
// their defaults.
type Config struct {
	Rows        int     `yaml:"rows"`
	Cols        int     `yaml:"cols"`
	Trees       int     `yaml:"trees"`
	Depth       int     `yaml:"depth"`
	Outputs     int     `yaml:"outputs"`
	Categorical float64 `yaml:"categorical"`
	StoredSets  int     `yaml:"stored_sets"`
	Vector      bool    `yaml:"vector_leaves"`
	Post        string  `yaml:"post"`
	Iters       int     `yaml:"iters"`
	Workers     int     `yaml:"workers"`
	Chunk       int     `yaml:"chunk"`
	Chunks      []int   `yaml:"chunks"`
	Seed        int64   `yaml:"seed"`
}

func DefaultConfig() Config {
	return Config{
		Rows:    10000,
		Cols:    16,
		Trees:   200,
		Depth:   8,
		Outputs: 1,
		Post:    "identity",
		Iters:   20,
		Chunks:  []int{1, 4, 16, 32, 64, 128, 256},
		Seed:    1,
	}
}

// LoadConfig reads a YAML benchmark description, filling unset fields from
// DefaultConfig.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}

// postprocessor maps a config name onto a stock postprocessor. trees feeds
// the averaging divisor.
func postprocessor(name string, trees int) (forest.Postprocessor[float32], error) {
	switch name {
	case "", "identity":
		return forest.Identity[float32]{}, nil
	case "average":
		return forest.Average[float32]{Trees: trees}, nil
	case "sigmoid":
		return forest.Sigmoid[float32]{}, nil
	case "softmax":
		return forest.Softmax[float32]{}, nil
	case "maxindex":
		return forest.MaxIndex[float32]{}, nil
	}
	return nil, fmt.Errorf("unknown postprocessor %q", name)
}
