// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package fractal

import (
	"context"
	"fmt"
	"math"
	"time"
)

// Time runs fn and returns the wall-clock time it took. The clock is
// monotonic: it starts immediately before fn is called and stops as soon as
// fn returns, so for a generation call it includes the artifact write.
//
// The duration is returned even when fn fails.
func Time(fn func() error) (time.Duration, error) {
	start := time.Now()
	err := fn()
	return time.Since(start), err
}

// Millis converts d to fractional milliseconds.
func Millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

// Comparison is the outcome of running two strategies back to back.
type Comparison struct {
	First  Result
	Second Result

	// Ratio is the elapsed time of the slower run divided by that of the
	// faster one. It is at least 1.
	Ratio float64
}

// Faster returns the result that took less time. Ties go to First.
func (c Comparison) Faster() Result {
	if c.Second.Elapsed < c.First.Elapsed {
		return c.Second
	}
	return c.First
}

// Slower returns the result that took more time.
func (c Comparison) Slower() Result {
	if c.Second.Elapsed < c.First.Elapsed {
		return c.First
	}
	return c.Second
}

// NewComparison pairs two finished runs and computes their speed ratio.
func NewComparison(first, second Result) Comparison {
	c := Comparison{First: first, Second: second}
	c.Ratio = speedRatio(c.Slower().Elapsed, c.Faster().Elapsed)
	return c
}

// Compare generates cfg with a and then with b, writing both artifacts to
// dir, and reports how much faster one was than the other.
//
// Comparing a strategy with itself returns ErrSameStrategy and generates
// nothing. The runs are sequential so they do not compete for CPU time.
func Compare(ctx context.Context, a, b Strategy, cfg Config, dir string) (Comparison, error) {
	if a == b {
		return Comparison{}, fmt.Errorf("%w: %s", ErrSameStrategy, a)
	}

	first, err := Generate(ctx, a, cfg, dir)
	if err != nil {
		return Comparison{}, err
	}
	second, err := Generate(ctx, b, cfg, dir)
	if err != nil {
		return Comparison{}, err
	}

	c := NewComparison(first, second)
	Logger().Info("comparison finished",
		"faster", c.Faster().Strategy.String(),
		"slower", c.Slower().Strategy.String(),
		"ratio", c.Ratio)
	return c, nil
}

// speedRatio divides slow by fast. A zero fast time yields +Inf unless both
// are zero.
func speedRatio(slow, fast time.Duration) float64 {
	if fast <= 0 {
		if slow <= 0 {
			return 1
		}
		return math.Inf(1)
	}
	return float64(slow) / float64(fast)
}
