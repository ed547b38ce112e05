// Package catalog holds the static challenge tables and question banks.
// A Catalog is built once at process start and passed by reference; entries
// are never mutated after construction.
package catalog

import (
	"sort"

	"github.com/pitchlab/wavemark/internal/model"
)

// WindowMs is the fixed drawing window for period challenges.
// expectedCycles == WindowMs / periodMs for every period challenge.
const WindowMs = 5.0

// DefaultOriginalCycles is the fallback cycle count when an octave
// challenge id is unknown and the submission carries no value.
const DefaultOriginalCycles = 4

// Catalog is the immutable set of assessments, challenges and question
// banks. Returned entries are shared; treat them as read-only.
type Catalog struct {
	octave      map[int]model.OctaveChallenge
	period      map[int]model.PeriodChallenge
	eq          map[int]model.EQChallenge
	questions   map[string][]model.QuizQuestion
	assessments map[string]model.Assessment
}

// New builds the catalog.
func New() *Catalog {
	c := &Catalog{
		octave:      make(map[int]model.OctaveChallenge),
		period:      make(map[int]model.PeriodChallenge),
		eq:          make(map[int]model.EQChallenge),
		questions:   make(map[string][]model.QuizQuestion),
		assessments: make(map[string]model.Assessment),
	}
	for _, ch := range octaveChallenges {
		c.octave[ch.ID] = ch
	}
	for _, ch := range periodChallenges {
		c.period[ch.ID] = ch
	}
	for _, ch := range eqChallenges {
		c.eq[ch.ID] = ch
	}
	c.questions["synthesis-quiz"] = synthesisQuiz
	c.questions["listening"] = listeningQuiz
	for _, a := range assessments {
		c.assessments[a.ID] = a
	}
	return c
}

var octaveChallenges = []model.OctaveChallenge{
	{ID: 1, OriginalCycles: 4, Octaves: 1, Direction: model.DirectionLower, OriginalShape: model.ShapeSine},
	{ID: 2, OriginalCycles: 2, Octaves: 1, Direction: model.DirectionHigher, OriginalShape: model.ShapeSine},
	{ID: 3, OriginalCycles: 3, Octaves: 1, Direction: model.DirectionHigher, OriginalShape: model.ShapeTriangle},
	{ID: 4, OriginalCycles: 8, Octaves: 1, Direction: model.DirectionLower, OriginalShape: model.ShapeSquare},
	{ID: 5, OriginalCycles: 2, Octaves: 2, Direction: model.DirectionHigher, OriginalShape: model.ShapeSaw},
	{ID: 6, OriginalCycles: 8, Octaves: 2, Direction: model.DirectionLower, OriginalShape: model.ShapeSine},
	{ID: 7, OriginalCycles: 1, Octaves: 3, Direction: model.DirectionHigher, OriginalShape: model.ShapeSquare},
	{ID: 8, OriginalCycles: 6, Octaves: 1, Direction: model.DirectionLower, OriginalShape: model.ShapeTriangle},
	{ID: 9, OriginalCycles: 4, Octaves: 2, Direction: model.DirectionHigher, OriginalShape: model.ShapeSine},
	{ID: 10, OriginalCycles: 12, Octaves: 2, Direction: model.DirectionLower, OriginalShape: model.ShapeSaw},
}

// Transition points are enumerated per entry rather than recomputed from
// the period so the timestamps shown to the external grader never drift.
var periodChallenges = []model.PeriodChallenge{
	{ID: 1, Shape: model.ShapeSine, PeriodMs: 5, ExpectedCycles: 1},
	{ID: 2, Shape: model.ShapeSine, PeriodMs: 2.5, ExpectedCycles: 2},
	{ID: 3, Shape: model.ShapeSquare, PeriodMs: 2.5, ExpectedCycles: 2,
		TransitionPoints: []float64{1.25, 2.5, 3.75}},
	{ID: 4, Shape: model.ShapeTriangle, PeriodMs: 1, ExpectedCycles: 5},
	{ID: 5, Shape: model.ShapeSaw, PeriodMs: 2.5, ExpectedCycles: 2,
		TransitionPoints: []float64{2.5}},
	{ID: 6, Shape: model.ShapeSquare, PeriodMs: 2, ExpectedCycles: 2.5,
		TransitionPoints: []float64{1, 2, 3, 4}},
	{ID: 7, Shape: model.ShapeSaw, PeriodMs: 1, ExpectedCycles: 5,
		TransitionPoints: []float64{1, 2, 3, 4}},
	{ID: 8, Shape: model.ShapeSine, PeriodMs: 0.5, ExpectedCycles: 10},
	{ID: 9, Shape: model.ShapeSquare, PeriodMs: 1, ExpectedCycles: 5,
		TransitionPoints: []float64{0.5, 1, 1.5, 2, 2.5, 3, 3.5, 4, 4.5}},
	{ID: 10, Shape: model.ShapeTriangle, PeriodMs: 2, ExpectedCycles: 2.5},
}

var eqChallenges = []model.EQChallenge{
	{ID: 1, Filter: model.FilterLowpass, CutoffHz: 1000, SlopeDbPerOct: 12},
	{ID: 2, Filter: model.FilterHighpass, CutoffHz: 500, SlopeDbPerOct: 12},
	{ID: 3, Filter: model.FilterLowpass, CutoffHz: 8000, SlopeDbPerOct: 24},
	{ID: 4, Filter: model.FilterBandpass, CutoffHz: 2000, SlopeDbPerOct: 12, BandwidthOct: 1},
	{ID: 5, Filter: model.FilterNotch, CutoffHz: 60, SlopeDbPerOct: 24, BandwidthOct: 0.5},
	{ID: 6, Filter: model.FilterHighpass, CutoffHz: 4000, SlopeDbPerOct: 6},
}

func intp(i int) *int { return &i }

var synthesisQuiz = []model.QuizQuestion{
	{
		ID: 1, Type: model.QuestionMultipleChoice,
		Question: "Raising a note by one octave does what to its frequency?",
		Options:  []string{"Halves it", "Doubles it", "Adds 100 Hz", "Leaves it unchanged"},
		CorrectAnswer: intp(1),
		Explanation:   "Each octave up doubles the frequency, so the wave fits twice as many cycles in the same window.",
	},
	{
		ID: 2, Type: model.QuestionMultipleChoice,
		Question: "A waveform with a period of 2 ms completes how many cycles in 5 ms?",
		Options:  []string{"2", "2.5", "4", "10"},
		CorrectAnswer: intp(1),
		Explanation:   "5 / 2 = 2.5; a partial final cycle is still a valid cycle count.",
	},
	{
		ID: 3, Type: model.QuestionIdentification,
		Question: "Which waveform jumps instantly between only two amplitude values?",
		Options:  []string{"Sine", "Triangle", "Square", "Saw"},
		CorrectAnswer: intp(2),
		Explanation:   "A square wave alternates between +1 and -1 with instant transitions.",
	},
	{
		ID: 4, Type: model.QuestionIdentification,
		Question: "Which waveform ramps up gradually and then drops instantly once per cycle?",
		Options:  []string{"Saw", "Sine", "Square", "Triangle"},
		CorrectAnswer: intp(0),
		Explanation:   "The sawtooth rises linearly and resets at the end of each cycle.",
	},
	{
		ID: 5, Type: model.QuestionMultipleChoice,
		Question: "Shifting a 4-cycle wave two octaves lower leaves how many cycles in the window?",
		Options:  []string{"1", "2", "8", "16"},
		CorrectAnswer: intp(0),
		Explanation:   "Two octaves down halves the cycle count twice: 4 -> 2 -> 1.",
	},
	{
		ID: 6, Type: model.QuestionShortAnswer,
		Question: "In your own words, explain why a square wave sounds brighter than a sine wave at the same pitch.",
	},
}

var listeningQuiz = []model.QuizQuestion{
	{
		ID: 1, Type: model.QuestionIdentification,
		Question: "Listen to clip A. Which waveform is playing?",
		Options:  []string{"Sine", "Square", "Saw", "Triangle"},
		CorrectAnswer: intp(1),
	},
	{
		ID: 2, Type: model.QuestionIdentification,
		Question: "Listen to clip B. Which waveform is playing?",
		Options:  []string{"Sine", "Square", "Saw", "Triangle"},
		CorrectAnswer: intp(2),
	},
	{
		ID: 3, Type: model.QuestionMultipleChoice,
		Question: "Clip C plays the same note twice. The second playback is:",
		Options:  []string{"One octave higher", "One octave lower", "The same pitch", "A fifth higher"},
		CorrectAnswer: intp(0),
	},
	{
		ID: 4, Type: model.QuestionMultipleChoice,
		Question: "Clip D has a filter applied. Which filter best matches what you hear?",
		Options:  []string{"Lowpass", "Highpass", "Bandpass", "No filter"},
		CorrectAnswer: intp(0),
	},
}

var assessments = []model.Assessment{
	{ID: "octave-drawing", Title: "Octave Transposition Drawing", Kind: model.KindDrawing, MarkingMethod: model.MarkVision, ChallengeKind: model.ChallengeOctave},
	{ID: "period-drawing", Title: "Period Drawing", Kind: model.KindDrawing, MarkingMethod: model.MarkVision, ChallengeKind: model.ChallengePeriod},
	{ID: "eq-drawing", Title: "EQ Filter Curve Drawing", Kind: model.KindDrawing, MarkingMethod: model.MarkVision, ChallengeKind: model.ChallengeEQ},
	{ID: "synthesis-quiz", Title: "Synthesis Basics Quiz", Kind: model.KindQuiz, MarkingMethod: model.MarkAuto},
	{ID: "listening", Title: "Listening Comprehension", Kind: model.KindListening, MarkingMethod: model.MarkAuto},
}

// OctaveChallenge looks up an octave challenge by id.
func (c *Catalog) OctaveChallenge(id int) (model.OctaveChallenge, bool) {
	ch, ok := c.octave[id]
	return ch, ok
}

// PeriodChallenge looks up a period challenge by id.
func (c *Catalog) PeriodChallenge(id int) (model.PeriodChallenge, bool) {
	ch, ok := c.period[id]
	return ch, ok
}

// EQChallenge looks up an EQ challenge by id.
func (c *Catalog) EQChallenge(id int) (model.EQChallenge, bool) {
	ch, ok := c.eq[id]
	return ch, ok
}

// Questions returns the question bank for an assessment, or nil.
func (c *Catalog) Questions(assessmentID string) []model.QuizQuestion {
	return c.questions[assessmentID]
}

// Assessment looks up an assessment by id.
func (c *Catalog) Assessment(id string) (model.Assessment, bool) {
	a, ok := c.assessments[id]
	return a, ok
}

// Assessments returns all assessments ordered by id.
func (c *Catalog) Assessments() []model.Assessment {
	out := make([]model.Assessment, 0, len(c.assessments))
	for _, a := range c.assessments {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ResolveOctaveOrDefault returns the catalog entry for id when known,
// otherwise a challenge built from the caller-supplied fallback values.
// Unknown ids never fail: the catalog is open to new challenge numbers.
func (c *Catalog) ResolveOctaveOrDefault(id int, fallback model.OctaveChallenge) model.OctaveChallenge {
	if ch, ok := c.octave[id]; ok {
		return ch
	}
	fallback.ID = id
	if fallback.OriginalCycles <= 0 {
		fallback.OriginalCycles = DefaultOriginalCycles
	}
	if fallback.Octaves <= 0 {
		fallback.Octaves = 1
	}
	if fallback.Direction == "" {
		fallback.Direction = model.DirectionHigher
	}
	return fallback
}

// ResolvePeriodOrDefault returns the catalog entry for id when known,
// otherwise an entry derived from the submission's period. Derived entries
// carry no transition points; only pre-enumerated lists are graded.
func (c *Catalog) ResolvePeriodOrDefault(id int, shape model.WaveformShape, periodMs float64) model.PeriodChallenge {
	if ch, ok := c.period[id]; ok {
		return ch
	}
	ch := model.PeriodChallenge{ID: id, Shape: shape, PeriodMs: periodMs}
	if periodMs > 0 {
		ch.ExpectedCycles = WindowMs / periodMs
	}
	return ch
}
