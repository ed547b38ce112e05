package catalog

import (
	"math"
	"testing"

	"github.com/pitchlab/wavemark/internal/model"
)

func TestOctaveChallengeLookup(t *testing.T) {
	c := New()

	ch, ok := c.OctaveChallenge(1)
	if !ok {
		t.Fatal("challenge 1 should exist")
	}
	if ch.OriginalCycles != 4 || ch.Octaves != 1 || ch.Direction != model.DirectionLower {
		t.Errorf("challenge 1 = %+v, want {4, 1, lower}", ch)
	}

	ch, ok = c.OctaveChallenge(6)
	if !ok {
		t.Fatal("challenge 6 should exist")
	}
	if ch.OriginalCycles != 8 || ch.Octaves != 2 || ch.Direction != model.DirectionLower {
		t.Errorf("challenge 6 = %+v, want {8, 2, lower}", ch)
	}

	if _, ok := c.OctaveChallenge(11); ok {
		t.Error("challenge 11 should not exist")
	}
}

func TestPeriodChallengeInvariant(t *testing.T) {
	c := New()
	for id := 1; id <= 10; id++ {
		ch, ok := c.PeriodChallenge(id)
		if !ok {
			t.Fatalf("period challenge %d missing", id)
		}
		want := WindowMs / ch.PeriodMs
		if math.Abs(ch.ExpectedCycles-want) > 1e-9 {
			t.Errorf("challenge %d: expectedCycles = %v, want %v/%v = %v",
				id, ch.ExpectedCycles, WindowMs, ch.PeriodMs, want)
		}

		hasTransitions := len(ch.TransitionPoints) > 0
		wantTransitions := ch.Shape == model.ShapeSquare || ch.Shape == model.ShapeSaw
		if hasTransitions != wantTransitions {
			t.Errorf("challenge %d (%s): transitions present = %v, want %v",
				id, ch.Shape, hasTransitions, wantTransitions)
		}
		for i := 1; i < len(ch.TransitionPoints); i++ {
			if ch.TransitionPoints[i] <= ch.TransitionPoints[i-1] {
				t.Errorf("challenge %d: transition points not strictly increasing", id)
			}
		}
		for _, p := range ch.TransitionPoints {
			if p <= 0 || p >= WindowMs {
				t.Errorf("challenge %d: transition point %v outside (0, %v)", id, p, WindowMs)
			}
		}
	}
}

func TestResolveOctaveOrDefault(t *testing.T) {
	c := New()

	// Known id wins over fallback values.
	got := c.ResolveOctaveOrDefault(1, model.OctaveChallenge{OriginalCycles: 99, Octaves: 99, Direction: model.DirectionHigher})
	if got.OriginalCycles != 4 || got.Octaves != 1 || got.Direction != model.DirectionLower {
		t.Errorf("known id should use catalog entry, got %+v", got)
	}

	// Unknown id falls back to the submission's values.
	got = c.ResolveOctaveOrDefault(42, model.OctaveChallenge{OriginalCycles: 6, Octaves: 2, Direction: model.DirectionLower})
	if got.ID != 42 || got.OriginalCycles != 6 || got.Octaves != 2 || got.Direction != model.DirectionLower {
		t.Errorf("unknown id fallback = %+v", got)
	}

	// Unknown id with empty fallback uses the documented defaults.
	got = c.ResolveOctaveOrDefault(42, model.OctaveChallenge{})
	if got.OriginalCycles != DefaultOriginalCycles || got.Octaves != 1 || got.Direction != model.DirectionHigher {
		t.Errorf("empty fallback defaults = %+v", got)
	}
}

func TestResolvePeriodOrDefault(t *testing.T) {
	c := New()

	got := c.ResolvePeriodOrDefault(99, model.ShapeSine, 2)
	if got.ExpectedCycles != 2.5 {
		t.Errorf("expectedCycles = %v, want 2.5", got.ExpectedCycles)
	}
	if got.TransitionPoints != nil {
		t.Error("derived entries must not carry transition points")
	}

	// Known id ignores the caller-supplied period.
	got = c.ResolvePeriodOrDefault(3, model.ShapeSine, 99)
	if got.PeriodMs != 2.5 || got.Shape != model.ShapeSquare {
		t.Errorf("known id should use catalog entry, got %+v", got)
	}

	// Zero period cannot derive a cycle count.
	got = c.ResolvePeriodOrDefault(99, model.ShapeSine, 0)
	if got.ExpectedCycles != 0 {
		t.Errorf("zero period expectedCycles = %v, want 0", got.ExpectedCycles)
	}
}

func TestQuestionBanks(t *testing.T) {
	c := New()

	for _, id := range []string{"synthesis-quiz", "listening"} {
		qs := c.Questions(id)
		if len(qs) == 0 {
			t.Fatalf("no questions for %s", id)
		}
		for _, q := range qs {
			if q.CorrectAnswer == nil {
				if q.Type != model.QuestionShortAnswer {
					t.Errorf("%s question %d: only short answers may omit correctAnswer", id, q.ID)
				}
				continue
			}
			if *q.CorrectAnswer < 0 || *q.CorrectAnswer >= len(q.Options) {
				t.Errorf("%s question %d: correctAnswer %d out of range", id, q.ID, *q.CorrectAnswer)
			}
		}
	}

	if qs := c.Questions("octave-drawing"); qs != nil {
		t.Error("drawing assessments have no question bank")
	}
}

func TestAssessments(t *testing.T) {
	c := New()
	all := c.Assessments()
	if len(all) != 5 {
		t.Fatalf("expected 5 assessments, got %d", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i-1].ID >= all[i].ID {
			t.Fatal("assessments not sorted by id")
		}
	}

	a, ok := c.Assessment("synthesis-quiz")
	if !ok || a.MarkingMethod != model.MarkAuto {
		t.Errorf("synthesis-quiz = %+v, ok=%v", a, ok)
	}
	a, ok = c.Assessment("octave-drawing")
	if !ok || a.MarkingMethod != model.MarkVision {
		t.Errorf("octave-drawing = %+v, ok=%v", a, ok)
	}
}
