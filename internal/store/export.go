package store

import (
	"sort"
	"time"

	"github.com/pitchlab/wavemark/internal/model"
)

// ExportResults builds the full results export: every submission grouped
// by assessment, ordered oldest first within each group. Drawing payloads
// are dropped from the export.
func (s *Store) ExportResults() (*model.ResultsExport, error) {
	rows, err := s.db.Query(
		`SELECT ` + submissionColumns + ` FROM submissions ORDER BY assessment_id, created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	subs, err := collectSubmissions(rows)
	if err != nil {
		return nil, err
	}

	grouped := make(map[string][]model.SubmissionExport)
	for _, sub := range subs {
		grouped[sub.AssessmentID] = append(grouped[sub.AssessmentID], model.SubmissionExport{
			ID:              sub.ID,
			StudentName:     sub.StudentName,
			ChallengeNumber: sub.ChallengeNumber,
			TargetShape:     sub.TargetShape,
			AIMark:          sub.AIMark,
			AIFeedback:      sub.AIFeedback,
			AIMarkedAt:      sub.AIMarkedAt,
			CreatedAt:       sub.CreatedAt,
		})
	}

	ids := make([]string, 0, len(grouped))
	for id := range grouped {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	export := &model.ResultsExport{ExportedAt: time.Now()}
	for _, id := range ids {
		export.Assessments = append(export.Assessments, model.AssessmentExport{
			AssessmentID: id,
			Submissions:  grouped[id],
		})
	}
	return export, nil
}
