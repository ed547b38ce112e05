// Package batch drives grading across submissions. Batches run strictly
// sequentially: the vision service is rate limited, so item N+1 is not
// dispatched until item N's round trip resolves or rejects.
package batch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pitchlab/wavemark/internal/catalog"
	"github.com/pitchlab/wavemark/internal/grading"
	"github.com/pitchlab/wavemark/internal/model"
	"github.com/pitchlab/wavemark/internal/vision"
)

// Grader is the vision-marking call consumed by the orchestrator.
type Grader interface {
	Grade(ctx context.Context, prompt string, images ...vision.Image) (*model.FeedbackObject, error)
}

// SubmissionStore is the slice of the store the orchestrator needs.
type SubmissionStore interface {
	GetSubmission(id string) (model.Submission, error)
	GetSubmissionsByIDs(ids []string) ([]model.Submission, error)
	AttachMarking(id string, fb *model.FeedbackObject, mark float64, markedAt time.Time, revision int64) error
}

// Orchestrator grades single submissions and batches.
type Orchestrator struct {
	store   SubmissionStore
	catalog *catalog.Catalog
	grader  Grader
	variant vision.PromptVariant
}

// New creates an orchestrator. A nil grader means the vision credential is
// unconfigured; grading calls then fail with ErrConfiguration before any
// work happens.
func New(s SubmissionStore, cat *catalog.Catalog, g Grader, variant vision.PromptVariant) *Orchestrator {
	return &Orchestrator{store: s, catalog: cat, grader: g, variant: variant}
}

// MarkOne grades a single submission. Unlike a batch, the first
// unrecoverable error fails the whole call.
func (o *Orchestrator) MarkOne(ctx context.Context, submissionID, referenceImage string) (*model.GradingResult, error) {
	if o.grader == nil {
		return nil, fmt.Errorf("%w: vision service is not configured", grading.ErrConfiguration)
	}
	if submissionID == "" {
		return nil, fmt.Errorf("%w: submissionId is required", grading.ErrValidation)
	}
	sub, err := o.store.GetSubmission(submissionID)
	if err != nil {
		return nil, fmt.Errorf("%w: submission %s", grading.ErrNotFound, submissionID)
	}
	return o.markSubmission(ctx, sub, referenceImage)
}

// MarkBatch grades the requested submissions one at a time. Per-item
// failures are collected, never propagated: a single bad item cannot abort
// the batch. maxMark counts every requested id, so failed or missing items
// still weigh against the percentage.
func (o *Orchestrator) MarkBatch(ctx context.Context, submissionIDs []string, referenceImages map[int]string) (*model.BatchOutcome, error) {
	if o.grader == nil {
		return nil, fmt.Errorf("%w: vision service is not configured", grading.ErrConfiguration)
	}
	if len(submissionIDs) == 0 {
		return nil, fmt.Errorf("%w: submissionIds must be a non-empty list", grading.ErrValidation)
	}

	subs, err := o.store.GetSubmissionsByIDs(submissionIDs)
	if err != nil {
		return nil, fmt.Errorf("fetch submissions: %w", err)
	}
	if len(subs) == 0 {
		return nil, fmt.Errorf("%w: no matching submissions", grading.ErrNotFound)
	}
	byID := make(map[string]model.Submission, len(subs))
	for _, sub := range subs {
		byID[sub.ID] = sub
	}

	outcome := &model.BatchOutcome{
		Results: []model.GradingResult{},
		Errors:  []model.BatchError{},
	}
	totalMark := 0

	for _, id := range submissionIDs {
		sub, ok := byID[id]
		if !ok {
			outcome.Errors = append(outcome.Errors, model.BatchError{
				SubmissionID: id,
				Error:        "submission not found",
			})
			continue
		}

		result, err := o.markSubmission(ctx, sub, referenceImages[sub.ChallengeNumber])
		if err != nil {
			slog.Error("batch item failed", "submission_id", id, "error", err)
			outcome.Errors = append(outcome.Errors, model.BatchError{
				SubmissionID:    id,
				ChallengeNumber: sub.ChallengeNumber,
				Error:           err.Error(),
			})
			continue
		}
		outcome.Results = append(outcome.Results, *result)
		totalMark += result.Mark
	}

	maxMark := len(submissionIDs)
	outcome.Summary = model.BatchSummary{
		TotalMark:   totalMark,
		MaxMark:     maxMark,
		Percentage:  grading.Percentage(totalMark, maxMark),
		MarkedCount: len(outcome.Results),
		ErrorCount:  len(outcome.Errors),
	}
	return outcome, nil
}

func (o *Orchestrator) markSubmission(ctx context.Context, sub model.Submission, referenceImage string) (*model.GradingResult, error) {
	assessment, ok := o.catalog.Assessment(sub.AssessmentID)
	if !ok {
		// Unknown assessments grade as octave drawings, matching the
		// open-catalog policy for challenge ids.
		assessment = model.Assessment{ID: sub.AssessmentID, Kind: model.KindDrawing,
			MarkingMethod: model.MarkVision, ChallengeKind: model.ChallengeOctave}
	}
	if assessment.MarkingMethod != model.MarkVision {
		return nil, fmt.Errorf("%w: assessment %s is auto-marked, not vision-marked", grading.ErrValidation, sub.AssessmentID)
	}

	answer := grading.DeriveAnswer(o.catalog, assessment, sub)

	variant := vision.VariantOverlay
	images := []vision.Image{vision.NormalizeImage(sub.DrawingImage)}
	if referenceImage != "" && o.variant != vision.VariantOverlay {
		variant = vision.VariantSideBySide
		images = append(images, vision.NormalizeImage(referenceImage))
	}
	prompt := vision.BuildDrawingPrompt(variant, answer)

	fb, err := o.grader.Grade(ctx, prompt, images...)
	if err != nil {
		return nil, err
	}
	mark := grading.EnforceBinaryMark(fb)

	// Best-effort persistence: the computed feedback is still useful to
	// the caller even when the write fails or loses the revision race.
	if err := o.store.AttachMarking(sub.ID, fb, float64(mark), time.Now(), sub.Revision); err != nil {
		slog.Error("persist marking failed", "submission_id", sub.ID, "error", err)
	}

	return &model.GradingResult{
		SubmissionID:    sub.ID,
		ChallengeNumber: sub.ChallengeNumber,
		Feedback:        *fb,
		Mark:            mark,
	}, nil
}
