package model

import (
	"context"
	"time"
)

// UserRole represents a user's access level.
type UserRole string

const (
	// UserRoleStudent is a student user role.
	UserRoleStudent UserRole = "student"
	// UserRoleTeacher is a teacher user role.
	UserRoleTeacher UserRole = "teacher"
	// UserRoleAdmin is an admin user role.
	UserRoleAdmin UserRole = "admin"
)

// User represents a system user.
type User struct {
	ID           int64
	Username     string
	DisplayName  string
	PasswordHash string
	Role         UserRole
	Active       bool
	CreatedAt    time.Time
}

// AuthSession represents an authentication session.
type AuthSession struct {
	ID        string
	UserID    int64
	CreatedAt time.Time
	ExpiresAt time.Time
}

type userCtxKey struct{}

// ContextWithUser stores a user in the request context.
func ContextWithUser(ctx context.Context, u *User) context.Context {
	return context.WithValue(ctx, userCtxKey{}, u)
}

// UserFromContext retrieves the authenticated user from context, or nil.
func UserFromContext(ctx context.Context) *User {
	u, _ := ctx.Value(userCtxKey{}).(*User)
	return u
}

// WaveformShape identifies one of the four drawable waveform shapes.
type WaveformShape string

const (
	ShapeSine     WaveformShape = "sine"
	ShapeSquare   WaveformShape = "square"
	ShapeSaw      WaveformShape = "saw"
	ShapeTriangle WaveformShape = "triangle"
)

// Valid reports whether s is one of the known shapes.
func (s WaveformShape) Valid() bool {
	switch s {
	case ShapeSine, ShapeSquare, ShapeSaw, ShapeTriangle:
		return true
	}
	return false
}

// Direction is an octave transposition direction.
type Direction string

const (
	DirectionHigher Direction = "higher"
	DirectionLower  Direction = "lower"
)

// MarkingMethod selects how an assessment's submissions are graded.
type MarkingMethod string

const (
	// MarkAuto grades locally by comparing selected option indices.
	MarkAuto MarkingMethod = "auto"
	// MarkVision grades drawings through the external vision service.
	MarkVision MarkingMethod = "vision"
)

// AssessmentKind is the kind of task presented to the student.
type AssessmentKind string

const (
	KindDrawing   AssessmentKind = "drawing"
	KindQuiz      AssessmentKind = "quiz"
	KindListening AssessmentKind = "listening"
)

// ChallengeKind is the challenge table a drawing assessment grades against.
type ChallengeKind string

const (
	ChallengeOctave ChallengeKind = "octave"
	ChallengePeriod ChallengeKind = "period"
	ChallengeEQ     ChallengeKind = "eq"
)

// Assessment describes one assessment in the catalog.
type Assessment struct {
	ID            string         `json:"id"`
	Title         string         `json:"title"`
	Kind          AssessmentKind `json:"kind"`
	MarkingMethod MarkingMethod  `json:"marking_method"`
	ChallengeKind ChallengeKind  `json:"challenge_kind,omitempty"`
}

// OctaveChallenge asks the student to redraw a waveform transposed by a
// number of octaves. Entries are immutable catalog data.
type OctaveChallenge struct {
	ID             int           `json:"id"`
	OriginalCycles int           `json:"original_cycles"`
	Octaves        int           `json:"octaves"`
	Direction      Direction     `json:"direction"`
	OriginalShape  WaveformShape `json:"original_shape"`
}

// PeriodChallenge asks the student to draw a waveform with a given period
// inside the fixed 5 ms window. TransitionPoints is non-nil only for square
// and saw shapes, where the exact jump timestamps are graded.
type PeriodChallenge struct {
	ID               int           `json:"id"`
	Shape            WaveformShape `json:"shape"`
	PeriodMs         float64       `json:"period_ms"`
	ExpectedCycles   float64       `json:"expected_cycles"`
	TransitionPoints []float64     `json:"transition_points,omitempty"`
}

// FilterType identifies an EQ filter curve shape.
type FilterType string

const (
	FilterLowpass  FilterType = "lowpass"
	FilterHighpass FilterType = "highpass"
	FilterBandpass FilterType = "bandpass"
	FilterNotch    FilterType = "notch"
)

// EQChallenge asks the student to draw an EQ filter response curve.
type EQChallenge struct {
	ID            int        `json:"id"`
	Filter        FilterType `json:"filter"`
	CutoffHz      float64    `json:"cutoff_hz"`
	SlopeDbPerOct float64    `json:"slope_db_per_oct"`
	BandwidthOct  float64    `json:"bandwidth_oct,omitempty"`
}

// QuestionType is the kind of a quiz question.
type QuestionType string

const (
	QuestionMultipleChoice QuestionType = "multiple-choice"
	QuestionShortAnswer    QuestionType = "short-answer"
	QuestionIdentification QuestionType = "identification"
)

// QuizQuestion is one question in an auto-graded question bank.
// CorrectAnswer is an index into Options; nil means the question is not
// auto-gradable (short answers are reviewed by the teacher).
type QuizQuestion struct {
	ID            int          `json:"id"`
	Type          QuestionType `json:"type"`
	Question      string       `json:"question"`
	Options       []string     `json:"options,omitempty"`
	CorrectAnswer *int         `json:"correctAnswer,omitempty"`
	Explanation   string       `json:"explanation,omitempty"`
}

// Submission is one student attempt. Records are append-only; the marking
// step mutates a record exactly once by attaching ai_feedback, ai_mark and
// ai_marked_at, guarded by the revision counter.
type Submission struct {
	ID              string          `json:"id"`
	AssessmentID    string          `json:"assessment_id"`
	StudentName     string          `json:"student_name"`
	ChallengeNumber int             `json:"challenge_number"`
	DrawingImage    string          `json:"drawing_image,omitempty"`
	OriginalShape   WaveformShape   `json:"original_shape,omitempty"`
	TargetShape     WaveformShape   `json:"target_shape,omitempty"`
	Octaves         int             `json:"octaves,omitempty"`
	Direction       Direction       `json:"direction,omitempty"`
	PeriodMs        float64         `json:"period_ms,omitempty"`
	Answers         map[int]int     `json:"answers,omitempty"`
	AIFeedback      *FeedbackObject `json:"ai_feedback,omitempty"`
	AIMark          *float64        `json:"ai_mark,omitempty"`
	AIMarkedAt      *time.Time      `json:"ai_marked_at,omitempty"`
	Revision        int64           `json:"revision"`
	CreatedAt       time.Time       `json:"created_at"`
}

// CycleCriterion reports the detected vs expected cycle count.
type CycleCriterion struct {
	Detected float64 `json:"detected"`
	Expected float64 `json:"expected"`
	Correct  bool    `json:"correct"`
}

// ShapeCriterion reports the detected vs expected waveform shape.
type ShapeCriterion struct {
	Detected string `json:"detected"`
	Expected string `json:"expected"`
	Correct  bool   `json:"correct"`
}

// TransitionCriterion reports whether square/saw jump timestamps line up
// with the pre-enumerated expected positions.
type TransitionCriterion struct {
	ExpectedPositions []float64 `json:"expectedPositions"`
	Assessment        string    `json:"assessment"`
	Correct           bool      `json:"correct"`
}

// FeedbackObject is the structured grading feedback attached to a
// submission. Mark is the current binary rubric; SuggestedMark and the
// fields after it belong to the legacy partial-credit rubric and are
// optional everywhere.
type FeedbackObject struct {
	CycleCount       *CycleCriterion      `json:"cycleCount,omitempty"`
	ShapeAccuracy    *ShapeCriterion      `json:"shapeAccuracy,omitempty"`
	TransitionTiming *TransitionCriterion `json:"transitionTiming,omitempty"`
	Mark             *int                 `json:"mark,omitempty"`
	Feedback         string               `json:"feedback"`

	SuggestedMark  *float64 `json:"suggestedMark,omitempty"`
	DrawingQuality string   `json:"drawingQuality,omitempty"`
	Strengths      []string `json:"strengths,omitempty"`
	Improvements   []string `json:"improvements,omitempty"`
}

// GradingResult is the outcome of grading one submission.
type GradingResult struct {
	SubmissionID    string         `json:"submissionId"`
	ChallengeNumber int            `json:"challengeNumber"`
	Feedback        FeedbackObject `json:"feedback"`
	Mark            int            `json:"mark"`
}

// BatchError records one failed item inside a batch run.
type BatchError struct {
	SubmissionID    string `json:"submissionId"`
	ChallengeNumber int    `json:"challengeNumber"`
	Error           string `json:"error"`
}

// BatchSummary aggregates a batch run. MaxMark counts every requested
// submission, so failed items still lower the percentage.
type BatchSummary struct {
	TotalMark   int `json:"totalMark"`
	MaxMark     int `json:"maxMark"`
	Percentage  int `json:"percentage"`
	MarkedCount int `json:"markedCount"`
	ErrorCount  int `json:"errorCount"`
}

// BatchOutcome is the full result of a batch marking run.
type BatchOutcome struct {
	Results []GradingResult `json:"results"`
	Errors  []BatchError    `json:"errors"`
	Summary BatchSummary    `json:"summary"`
}

// QuizScore is the result of auto-scoring a quiz attempt.
type QuizScore struct {
	Correct    int `json:"correct"`
	Total      int `json:"total"`
	Percentage int `json:"percentage"`
}

// ServiceConfig holds runtime parameters set via CLI flags.
type ServiceConfig struct {
	VisionModel   string // vision-capable model name
	SecureCookies bool   // Set Secure flag on cookies (disable for local dev)
	PromptVariant string // Grading prompt variant (overlay, side-by-side)
}
