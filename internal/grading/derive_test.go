package grading

import (
	"testing"

	"github.com/pitchlab/wavemark/internal/catalog"
	"github.com/pitchlab/wavemark/internal/model"
)

func TestExpectedCycles(t *testing.T) {
	cat := catalog.New()

	tests := []struct {
		name        string
		challengeID int
		cycles      int
		octaves     int
		direction   model.Direction
		want        float64
	}{
		{"one octave up doubles", 0, 4, 1, model.DirectionHigher, 8},
		{"two octaves down quarters", 0, 8, 2, model.DirectionLower, 2},
		{"three octaves up", 0, 1, 3, model.DirectionHigher, 8},
		{"fractional result", 0, 5, 1, model.DirectionLower, 2.5},
		{"catalog id 6", 6, 0, 0, "", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExpectedCycles(cat, tt.challengeID, tt.cycles, tt.octaves, tt.direction)
			if got != tt.want {
				t.Errorf("ExpectedCycles() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExpectedCyclesCatalogWins(t *testing.T) {
	cat := catalog.New()
	// Challenge 1 is {4, 1, lower}; the bogus fallback args must be ignored.
	got := ExpectedCycles(cat, 1, 99, 99, model.DirectionHigher)
	if got != 2 {
		t.Errorf("ExpectedCycles(1, ...) = %v, want 2 from catalog entry", got)
	}
}

func TestDeriveAnswerOctave(t *testing.T) {
	cat := catalog.New()
	a, _ := cat.Assessment("octave-drawing")

	da := DeriveAnswer(cat, a, model.Submission{ChallengeNumber: 1})
	if da.ExpectedCycles != 2 {
		t.Errorf("expectedCycles = %v, want 2", da.ExpectedCycles)
	}
	if da.TargetShape != model.ShapeSine {
		t.Errorf("targetShape = %q, want sine from catalog entry", da.TargetShape)
	}
	if da.TransitionPoints != nil {
		t.Error("octave challenges carry no transition points")
	}

	// Unknown id: submission values drive the answer.
	da = DeriveAnswer(cat, a, model.Submission{
		ChallengeNumber: 77,
		TargetShape:     model.ShapeSaw,
		Octaves:         1,
		Direction:       model.DirectionHigher,
	})
	if da.ExpectedCycles != 8 { // default 4 cycles, one octave up
		t.Errorf("fallback expectedCycles = %v, want 8", da.ExpectedCycles)
	}
	if da.TargetShape != model.ShapeSaw {
		t.Errorf("fallback targetShape = %q, want saw", da.TargetShape)
	}
}

func TestDeriveAnswerPeriod(t *testing.T) {
	cat := catalog.New()
	a, _ := cat.Assessment("period-drawing")

	da := DeriveAnswer(cat, a, model.Submission{ChallengeNumber: 6})
	if da.ExpectedCycles != 2.5 {
		t.Errorf("expectedCycles = %v, want 2.5", da.ExpectedCycles)
	}
	if da.TargetShape != model.ShapeSquare {
		t.Errorf("targetShape = %q, want square", da.TargetShape)
	}
	want := []float64{1, 2, 3, 4}
	if len(da.TransitionPoints) != len(want) {
		t.Fatalf("transition points = %v, want %v", da.TransitionPoints, want)
	}
	for i := range want {
		if da.TransitionPoints[i] != want[i] {
			t.Fatalf("transition points = %v, want %v", da.TransitionPoints, want)
		}
	}

	// Unknown id: expected cycles derived from the submission's period.
	da = DeriveAnswer(cat, a, model.Submission{
		ChallengeNumber: 50,
		TargetShape:     model.ShapeSine,
		PeriodMs:        2,
	})
	if da.ExpectedCycles != 2.5 {
		t.Errorf("derived expectedCycles = %v, want 2.5", da.ExpectedCycles)
	}
	if da.TransitionPoints != nil {
		t.Error("derived period entries carry no transition points")
	}
}

func TestDeriveAnswerEQ(t *testing.T) {
	cat := catalog.New()
	a, _ := cat.Assessment("eq-drawing")

	da := DeriveAnswer(cat, a, model.Submission{ChallengeNumber: 1})
	if da.EQ == nil {
		t.Fatal("expected EQ parameters for challenge 1")
	}
	if da.EQ.Filter != model.FilterLowpass || da.EQ.CutoffHz != 1000 {
		t.Errorf("EQ = %+v", da.EQ)
	}

	da = DeriveAnswer(cat, a, model.Submission{ChallengeNumber: 99})
	if da.EQ != nil {
		t.Error("unknown EQ challenge should derive no parameters")
	}
}
