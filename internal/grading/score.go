package grading

import (
	"math"

	"github.com/pitchlab/wavemark/internal/model"
)

// ScoreQuiz auto-grades a quiz attempt. Only multiple-choice and
// identification questions with a defined correct answer count toward the
// total; an answer is correct iff the selected option index equals the
// expected index. Pure and idempotent: the same inputs always produce the
// same score.
func ScoreQuiz(questions []model.QuizQuestion, answers map[int]int) model.QuizScore {
	var score model.QuizScore
	for _, q := range questions {
		if q.Type != model.QuestionMultipleChoice && q.Type != model.QuestionIdentification {
			continue
		}
		if q.CorrectAnswer == nil {
			continue
		}
		score.Total++
		if picked, ok := answers[q.ID]; ok && picked == *q.CorrectAnswer {
			score.Correct++
		}
	}
	score.Percentage = Percentage(score.Correct, score.Total)
	return score
}

// Percentage returns round(100*part/total), or 0 when total is 0.
func Percentage(part, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(part) / float64(total)))
}
