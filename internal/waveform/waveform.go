// Package waveform holds the pure shape evaluators used to derive and
// render reference curves. All evaluators map (progress, cycles) to an
// amplitude in [-1, 1] and are safe to call once per sample point.
package waveform

import (
	"math"

	"github.com/pitchlab/wavemark/internal/model"
)

// Evaluate returns the amplitude of shape at progress ∈ [0,1) with the
// given cycle count. Negative cycle counts clamp to 0, which degenerates
// to the start-of-cycle value. Unknown shapes evaluate as sine.
func Evaluate(shape model.WaveformShape, progress, cycles float64) float64 {
	if cycles < 0 {
		cycles = 0
	}
	switch shape {
	case model.ShapeSquare:
		return square(progress, cycles)
	case model.ShapeSaw:
		return saw(progress, cycles)
	case model.ShapeTriangle:
		return triangle(progress, cycles)
	default:
		return sine(progress, cycles)
	}
}

func sine(progress, cycles float64) float64 {
	return math.Sin(progress * cycles * 2 * math.Pi)
}

// square starts high: sin == 0 evaluates to +1 so every sample stays in
// {-1, +1}.
func square(progress, cycles float64) float64 {
	if sine(progress, cycles) < 0 {
		return -1
	}
	return 1
}

func saw(progress, cycles float64) float64 {
	return 2*frac(progress*cycles) - 1
}

func triangle(progress, cycles float64) float64 {
	return 4*math.Abs(frac(progress*cycles)-0.5) - 1
}

// frac returns the fractional part of x for x >= 0.
func frac(x float64) float64 {
	return x - math.Floor(x)
}

// Sample returns n evenly spaced samples of shape over one window,
// progress = i/n so the final point stays inside [0,1).
func Sample(shape model.WaveformShape, cycles float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = Evaluate(shape, float64(i)/float64(n), cycles)
	}
	return out
}
