package model

import "time"

// ResultsExport is the top-level JSON structure for marked-results export.
type ResultsExport struct {
	ExportedAt  time.Time          `json:"exported_at"`
	Assessments []AssessmentExport `json:"assessments"`
}

// AssessmentExport groups one assessment's submissions for export.
type AssessmentExport struct {
	AssessmentID string             `json:"assessment_id"`
	Submissions  []SubmissionExport `json:"submissions"`
}

// SubmissionExport holds one submission's grading data for export.
// The drawing payload is omitted to keep exports reviewable.
type SubmissionExport struct {
	ID              string          `json:"id"`
	StudentName     string          `json:"student_name"`
	ChallengeNumber int             `json:"challenge_number"`
	TargetShape     WaveformShape   `json:"target_shape,omitempty"`
	AIMark          *float64        `json:"ai_mark,omitempty"`
	AIFeedback      *FeedbackObject `json:"ai_feedback,omitempty"`
	AIMarkedAt      *time.Time      `json:"ai_marked_at,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}
