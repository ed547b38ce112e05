package grading

import "github.com/pitchlab/wavemark/internal/model"

// NormalizeFeedback is the legacy-compatibility adapter: older graders
// reported a fractional suggestedMark instead of the binary mark field.
// When mark is absent, a suggestedMark >= 1 becomes mark 1 and anything
// lower becomes 0. The original suggestedMark is preserved for display.
func NormalizeFeedback(fb *model.FeedbackObject) {
	if fb.Mark != nil || fb.SuggestedMark == nil {
		return
	}
	mark := 0
	if *fb.SuggestedMark >= 1 {
		mark = 1
	}
	fb.Mark = &mark
}

// EnforceBinaryMark applies the binary marking rule: mark is 1 iff every
// present sub-criterion is correct. The model's own mark is overridden
// whenever at least one sub-criterion is present, so a reply that claims
// mark 1 with a failed criterion is still scored 0. With no criteria at
// all, the normalized mark (or 0) stands.
func EnforceBinaryMark(fb *model.FeedbackObject) int {
	NormalizeFeedback(fb)

	present := false
	allCorrect := true
	if fb.CycleCount != nil {
		present = true
		allCorrect = allCorrect && fb.CycleCount.Correct
	}
	if fb.ShapeAccuracy != nil {
		present = true
		allCorrect = allCorrect && fb.ShapeAccuracy.Correct
	}
	if fb.TransitionTiming != nil {
		present = true
		allCorrect = allCorrect && fb.TransitionTiming.Correct
	}

	if !present {
		if fb.Mark != nil {
			return *fb.Mark
		}
		return 0
	}

	mark := 0
	if allCorrect {
		mark = 1
	}
	fb.Mark = &mark
	return mark
}
