// Package grading computes the objectively correct answer for a challenge
// and turns grading feedback into binary marks. Everything here is pure;
// the vision call and persistence live in their own packages.
package grading

import (
	"math"

	"github.com/pitchlab/wavemark/internal/catalog"
	"github.com/pitchlab/wavemark/internal/model"
)

// ExpectedCycles derives the correct cycle count for an octave challenge.
// Catalog values win for known ids; the remaining arguments are fallbacks
// taken from the submission record. Doubling per octave up, halving per
// octave down; results may be fractional and are never rounded.
func ExpectedCycles(cat *catalog.Catalog, challengeID, originalCycles, octaves int, direction model.Direction) float64 {
	ch := cat.ResolveOctaveOrDefault(challengeID, model.OctaveChallenge{
		OriginalCycles: originalCycles,
		Octaves:        octaves,
		Direction:      direction,
	})
	factor := math.Pow(2, float64(ch.Octaves))
	if ch.Direction == model.DirectionHigher {
		return float64(ch.OriginalCycles) * factor
	}
	return float64(ch.OriginalCycles) / factor
}

// DerivedAnswer is the ground truth a drawing is graded against.
type DerivedAnswer struct {
	TargetShape      model.WaveformShape
	ExpectedCycles   float64
	TransitionPoints []float64
	EQ               *model.EQChallenge
}

// DeriveAnswer computes the expected answer for a submission, using the
// assessment's challenge kind to pick the right catalog table.
func DeriveAnswer(cat *catalog.Catalog, a model.Assessment, sub model.Submission) DerivedAnswer {
	switch a.ChallengeKind {
	case model.ChallengePeriod:
		ch := cat.ResolvePeriodOrDefault(sub.ChallengeNumber, sub.TargetShape, sub.PeriodMs)
		return DerivedAnswer{
			TargetShape:      ch.Shape,
			ExpectedCycles:   ch.ExpectedCycles,
			TransitionPoints: ch.TransitionPoints,
		}
	case model.ChallengeEQ:
		da := DerivedAnswer{TargetShape: sub.TargetShape}
		if ch, ok := cat.EQChallenge(sub.ChallengeNumber); ok {
			da.EQ = &ch
		}
		return da
	default:
		// The submission carries no cycle count of its own; the catalog
		// default applies when the challenge id is unknown.
		ch := cat.ResolveOctaveOrDefault(sub.ChallengeNumber, model.OctaveChallenge{
			Octaves:       sub.Octaves,
			Direction:     sub.Direction,
			OriginalShape: sub.OriginalShape,
		})
		shape := sub.TargetShape
		if shape == "" {
			// Octave transposition keeps the shape, only the period changes.
			shape = ch.OriginalShape
		}
		return DerivedAnswer{
			TargetShape:    shape,
			ExpectedCycles: ExpectedCycles(cat, sub.ChallengeNumber, ch.OriginalCycles, ch.Octaves, ch.Direction),
		}
	}
}
