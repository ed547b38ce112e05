package vision

import (
	"encoding/json"
	"fmt"

	"github.com/pitchlab/wavemark/internal/grading"
	"github.com/pitchlab/wavemark/internal/model"
)

// ExtractJSON returns the first top-level JSON object in text, found by a
// greedy brace scan: everything from the first '{' through the last '}'.
// Vision models often wrap the object in prose; anything without a brace
// span is a parse failure, never a silent default.
func ExtractJSON(text string) (string, error) {
	start := -1
	end := -1
	for i, r := range text {
		if r == '{' {
			start = i
			break
		}
	}
	for i := len(text) - 1; i >= 0; i-- {
		if text[i] == '}' {
			end = i
			break
		}
	}
	if start < 0 || end < start {
		return "", fmt.Errorf("%w: no JSON object in response", grading.ErrParse)
	}
	return text[start : end+1], nil
}

// ParseFeedback extracts and decodes the grading feedback object from a
// raw vision reply.
func ParseFeedback(text string) (*model.FeedbackObject, error) {
	raw, err := ExtractJSON(text)
	if err != nil {
		return nil, err
	}
	var fb model.FeedbackObject
	if err := json.Unmarshal([]byte(raw), &fb); err != nil {
		return nil, fmt.Errorf("%w: decode feedback: %v", grading.ErrParse, err)
	}
	return &fb, nil
}
