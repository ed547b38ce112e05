package vision

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pitchlab/wavemark/internal/grading"
)

// PromptVariant selects how the reference waveform is presented to the
// grader. Both variants grade against the same criteria.
type PromptVariant string

const (
	// VariantOverlay: the correct waveform is baked into the student's
	// image as a dashed overlay.
	VariantOverlay PromptVariant = "overlay"
	// VariantSideBySide: the correct waveform is a separately supplied
	// second image.
	VariantSideBySide PromptVariant = "side-by-side"
)

var validVariants = map[PromptVariant]bool{
	VariantOverlay:    true,
	VariantSideBySide: true,
}

// IsValidVariant checks if a prompt variant name is valid.
func IsValidVariant(v string) bool {
	return validVariants[PromptVariant(v)]
}

// BuildDrawingPrompt builds the grading specification sent with the
// images: the rubric text, the binary pass/fail rule, and the required
// JSON response schema.
func BuildDrawingPrompt(variant PromptVariant, answer grading.DerivedAnswer) string {
	var sb strings.Builder
	sb.WriteString("You are grading a student's hand-drawn waveform for a music technology class.\n\n")

	switch variant {
	case VariantSideBySide:
		sb.WriteString("IMAGE 1 is the student's drawing. IMAGE 2 is the correct answer waveform. Compare the student's drawing against the correct answer.\n\n")
	default:
		sb.WriteString("The image shows the student's drawing with the correct answer overlaid as a dashed curve. Compare the student's solid line against the dashed overlay.\n\n")
	}

	if answer.EQ != nil {
		eq := answer.EQ
		sb.WriteString("EXPECTED FILTER CURVE:\n")
		sb.WriteString(fmt.Sprintf("- Filter type: %s\n", eq.Filter))
		sb.WriteString(fmt.Sprintf("- Cutoff frequency: %s Hz\n", formatNumber(eq.CutoffHz)))
		sb.WriteString(fmt.Sprintf("- Slope: %s dB per octave\n", formatNumber(eq.SlopeDbPerOct)))
		if eq.BandwidthOct > 0 {
			sb.WriteString(fmt.Sprintf("- Bandwidth: %s octaves\n", formatNumber(eq.BandwidthOct)))
		}
		sb.WriteString("\n")
	} else {
		sb.WriteString("EXPECTED ANSWER:\n")
		sb.WriteString(fmt.Sprintf("- Waveform shape: %s\n", answer.TargetShape))
		sb.WriteString(fmt.Sprintf("- Number of cycles across the drawing area: %s", formatNumber(answer.ExpectedCycles)))
		if answer.ExpectedCycles != float64(int(answer.ExpectedCycles)) {
			sb.WriteString(" (a partial final cycle is expected, not a mistake)")
		}
		sb.WriteString("\n")
	}

	if len(answer.TransitionPoints) > 0 {
		sb.WriteString(fmt.Sprintf("- The wave must jump at exactly these times (ms): %s\n", formatNumbers(answer.TransitionPoints)))
	}
	sb.WriteString("\n")

	sb.WriteString("GRADING RULE (binary, no partial credit):\n")
	sb.WriteString("- mark = 1 only if the cycle count matches AND the shape matches")
	if len(answer.TransitionPoints) > 0 {
		sb.WriteString(" AND every transition time matches")
	}
	sb.WriteString(".\n")
	sb.WriteString("- If any single criterion fails, mark = 0.\n")
	sb.WriteString("- Judge the drawing as a sketch: wobbly lines are fine, wrong structure is not.\n\n")

	sb.WriteString("Respond ONLY with a JSON object with these fields:\n")
	sb.WriteString(`{"cycleCount": {"detected": <number>, "expected": <number>, "correct": <true/false>}, `)
	sb.WriteString(`"shapeAccuracy": {"detected": "<shape>", "expected": "<shape>", "correct": <true/false>}, `)
	if len(answer.TransitionPoints) > 0 {
		sb.WriteString(`"transitionTiming": {"expectedPositions": [<ms>...], "assessment": "<brief>", "correct": <true/false>}, `)
	}
	sb.WriteString(`"mark": <0 or 1>, "feedback": "<one or two encouraging sentences for the student>"}`)
	sb.WriteString("\n")

	return sb.String()
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatNumbers(vs []float64) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = formatNumber(v)
	}
	return strings.Join(parts, ", ")
}
