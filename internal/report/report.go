// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package report formats generation results for people and for machines.
//
// Text output is always en-US so timings read the same on every system:
// milliseconds with three decimals, ratios with two, no digit grouping.
package report

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/bytedance/sonic"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/gogpu/fractal"
)

// Printer writes human-readable reports.
type Printer struct {
	w io.Writer
	p *message.Printer
}

// NewPrinter returns a Printer writing en-US formatted text to w.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w, p: message.NewPrinter(language.AmericanEnglish)}
}

// Millis formats a duration as "1234.567 ms".
func (r *Printer) Millis(ms float64) string {
	return r.p.Sprintf("%v ms", number.Decimal(ms,
		number.NoSeparator(), number.MinFractionDigits(3), number.MaxFractionDigits(3)))
}

// Ratio formats a speed ratio as "3.21x".
func (r *Printer) Ratio(ratio float64) string {
	if math.IsInf(ratio, 1) {
		return "∞x"
	}
	return r.p.Sprintf("%vx", number.Decimal(ratio,
		number.NoSeparator(), number.MinFractionDigits(2), number.MaxFractionDigits(2)))
}

// Header describes the run that is about to start.
func (r *Printer) Header(s fractal.Strategy, cfg fractal.Config) {
	fmt.Fprintf(r.w, "------------ %s ------------\n\n", s.Label())
	fmt.Fprintf(r.w, "Generating %s of %dx%d pixels with %d iterations...\n\n",
		subject(s), cfg.Grid.Width, cfg.Grid.Height, cfg.MaxIterations)
	fmt.Fprintf(r.w, "Visible Coordinates\n    x: (%g; %g)\n    y: (%g; %g)\n\n",
		cfg.Viewport.X0, cfg.Viewport.X1, cfg.Viewport.Y0, cfg.Viewport.Y1)
}

// subject names what a header announces, e.g. "PARALLEL fractal".
func subject(s fractal.Strategy) string {
	switch s {
	case fractal.Sequential:
		return "SERIAL fractal"
	case fractal.Accelerated:
		return "fractal with GPU"
	default:
		return strings.ToUpper(s.String()) + " fractal"
	}
}

// Result reports a finished run.
func (r *Printer) Result(res fractal.Result) {
	fmt.Fprintf(r.w, "Fractal generated in %s\n", r.Millis(res.Millis()))
	fmt.Fprintf(r.w, "Saved to %s\n\n", res.Artifact)
}

// Comparison reports which strategy won and by how much.
func (r *Printer) Comparison(c fractal.Comparison) {
	fmt.Fprintf(r.w, "%s was %s faster than %s!\n",
		c.Faster().Strategy.Label(), r.Ratio(c.Ratio), c.Slower().Strategy.Label())
}

// SameStrategy reports a rejected self-comparison.
func (r *Printer) SameStrategy() {
	fmt.Fprintln(r.w, "Selected fractals are the same! Please choose different ones.")
}

// ResultJSON is the machine-readable form of a fractal.Result.
type ResultJSON struct {
	Strategy  string  `json:"strategy"`
	Label     string  `json:"label"`
	ElapsedMS float64 `json:"elapsed_ms"`
	Artifact  string  `json:"artifact"`
}

// ComparisonJSON is the machine-readable form of a fractal.Comparison.
type ComparisonJSON struct {
	First  ResultJSON `json:"first"`
	Second ResultJSON `json:"second"`
	Faster string     `json:"faster"`

	// Ratio is omitted when the faster run took no measurable time.
	Ratio *float64 `json:"ratio,omitempty"`
}

// NewResultJSON converts a result.
func NewResultJSON(res fractal.Result) ResultJSON {
	return ResultJSON{
		Strategy:  res.Strategy.String(),
		Label:     res.Strategy.Label(),
		ElapsedMS: res.Millis(),
		Artifact:  res.Artifact,
	}
}

// NewComparisonJSON converts a comparison.
func NewComparisonJSON(c fractal.Comparison) ComparisonJSON {
	out := ComparisonJSON{
		First:  NewResultJSON(c.First),
		Second: NewResultJSON(c.Second),
		Faster: c.Faster().Strategy.String(),
	}
	if !math.IsInf(c.Ratio, 0) && !math.IsNaN(c.Ratio) {
		ratio := c.Ratio
		out.Ratio = &ratio
	}
	return out
}

// WriteJSON encodes v as indented JSON followed by a newline.
func WriteJSON(w io.Writer, v any) error {
	b, err := sonic.ConfigStd.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("report: encode: %w", err)
	}
	b = append(b, '\n')
	if _, err := w.Write(b); err != nil {
		return fmt.Errorf("report: write: %w", err)
	}
	return nil
}
