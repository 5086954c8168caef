// Copyright 2026 The go-forest Authors
// SPDX-License-Identifier: Apache-2.0

package forest

import (
	"math"

	"golang.org/x/exp/constraints"
)

// Postprocessor transforms one row's accumulated tree outputs into its final
// values. raw is the row's slice of the grove-striped workspace after
// reduction: the sum for output class c sits at raw[c*stride]. dst is the
// row's slice of the caller's output buffer, outputs wide.
//
// Implementations must only read raw and only write dst; the same value is
// invoked from many goroutines at once.
type Postprocessor[T constraints.Float] interface {
	Postprocess(raw []T, outputs int, dst []T, stride int)
}

// PostprocessFunc adapts a plain function to the Postprocessor interface.
type PostprocessFunc[T constraints.Float] func(raw []T, outputs int, dst []T, stride int)

// Postprocess calls f.
func (f PostprocessFunc[T]) Postprocess(raw []T, outputs int, dst []T, stride int) {
	f(raw, outputs, dst, stride)
}

// Identity copies the accumulated sums through unchanged. It suits regression
// forests and gradient-boosted margins consumed downstream.
type Identity[T constraints.Float] struct{}

func (Identity[T]) Postprocess(raw []T, outputs int, dst []T, stride int) {
	for c := 0; c < outputs; c++ {
		dst[c] = raw[c*stride]
	}
}

// Average divides each sum by Trees, turning bagged totals into means. For
// forests that assign scalar leaves round-robin across outputs, set Trees to
// the per-output contribution count.
type Average[T constraints.Float] struct {
	Trees int
}

func (a Average[T]) Postprocess(raw []T, outputs int, dst []T, stride int) {
	inv := 1 / T(a.Trees)
	for c := 0; c < outputs; c++ {
		dst[c] = raw[c*stride] * inv
	}
}

// Sigmoid maps each sum through the logistic function, with Bias added first.
// Gradient-boosted binary classifiers set Bias to their base score.
type Sigmoid[T constraints.Float] struct {
	Bias T
}

func (s Sigmoid[T]) Postprocess(raw []T, outputs int, dst []T, stride int) {
	for c := 0; c < outputs; c++ {
		x := float64(raw[c*stride] + s.Bias)
		dst[c] = T(1 / (1 + math.Exp(-x)))
	}
}

// Softmax normalizes the sums into a probability distribution. The maximum is
// subtracted before exponentiation to keep the exponentials bounded.
type Softmax[T constraints.Float] struct{}

func (Softmax[T]) Postprocess(raw []T, outputs int, dst []T, stride int) {
	maxv := raw[0]
	for c := 1; c < outputs; c++ {
		if v := raw[c*stride]; v > maxv {
			maxv = v
		}
	}
	var sum T
	for c := 0; c < outputs; c++ {
		e := T(math.Exp(float64(raw[c*stride] - maxv)))
		dst[c] = e
		sum += e
	}
	for c := 0; c < outputs; c++ {
		dst[c] /= sum
	}
}

// MaxIndex writes the index of the largest sum to dst[0]. Ties resolve to the
// lowest index. Remaining dst elements are left untouched.
type MaxIndex[T constraints.Float] struct{}

func (MaxIndex[T]) Postprocess(raw []T, outputs int, dst []T, stride int) {
	best := 0
	bestv := raw[0]
	for c := 1; c < outputs; c++ {
		if v := raw[c*stride]; v > bestv {
			best, bestv = c, v
		}
	}
	dst[0] = T(best)
}
