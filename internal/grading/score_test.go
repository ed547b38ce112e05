package grading

import (
	"testing"

	"github.com/pitchlab/wavemark/internal/catalog"
	"github.com/pitchlab/wavemark/internal/model"
)

func intp(i int) *int { return &i }

func TestScoreQuiz(t *testing.T) {
	questions := []model.QuizQuestion{
		{ID: 1, Type: model.QuestionMultipleChoice, CorrectAnswer: intp(1)},
		{ID: 2, Type: model.QuestionIdentification, CorrectAnswer: intp(0)},
		{ID: 3, Type: model.QuestionMultipleChoice, CorrectAnswer: intp(2)},
		{ID: 4, Type: model.QuestionShortAnswer}, // never auto-graded
	}

	tests := []struct {
		name    string
		answers map[int]int
		want    model.QuizScore
	}{
		{"all correct", map[int]int{1: 1, 2: 0, 3: 2}, model.QuizScore{Correct: 3, Total: 3, Percentage: 100}},
		{"one wrong", map[int]int{1: 1, 2: 3, 3: 2}, model.QuizScore{Correct: 2, Total: 3, Percentage: 67}},
		{"unanswered count against total", map[int]int{1: 1}, model.QuizScore{Correct: 1, Total: 3, Percentage: 33}},
		{"no answers", map[int]int{}, model.QuizScore{Correct: 0, Total: 3, Percentage: 0}},
		{"nil answers", nil, model.QuizScore{Correct: 0, Total: 3, Percentage: 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ScoreQuiz(questions, tt.answers)
			if got != tt.want {
				t.Errorf("ScoreQuiz() = %+v, want %+v", got, tt.want)
			}
			// Idempotence: scoring again yields the identical triple.
			if again := ScoreQuiz(questions, tt.answers); again != got {
				t.Errorf("second ScoreQuiz() = %+v, want %+v", again, got)
			}
		})
	}
}

func TestScoreQuizNoGradableQuestions(t *testing.T) {
	questions := []model.QuizQuestion{
		{ID: 1, Type: model.QuestionShortAnswer},
		{ID: 2, Type: model.QuestionMultipleChoice}, // no correct answer defined
	}
	got := ScoreQuiz(questions, map[int]int{1: 0, 2: 1})
	if got.Total != 0 || got.Correct != 0 || got.Percentage != 0 {
		t.Errorf("ScoreQuiz() = %+v, want all zeros without dividing by zero", got)
	}
}

func TestScoreQuizCatalogBank(t *testing.T) {
	cat := catalog.New()
	questions := cat.Questions("listening")

	answers := make(map[int]int)
	for _, q := range questions {
		if q.CorrectAnswer != nil {
			answers[q.ID] = *q.CorrectAnswer
		}
	}
	got := ScoreQuiz(questions, answers)
	if got.Correct != got.Total || got.Percentage != 100 {
		t.Errorf("perfect attempt scored %+v", got)
	}
}

func TestPercentage(t *testing.T) {
	tests := []struct {
		part, total, want int
	}{
		{0, 0, 0},
		{1, 3, 33},
		{2, 3, 67},
		{3, 3, 100},
		{1, 2, 50},
	}
	for _, tt := range tests {
		if got := Percentage(tt.part, tt.total); got != tt.want {
			t.Errorf("Percentage(%d, %d) = %d, want %d", tt.part, tt.total, got, tt.want)
		}
	}
}
