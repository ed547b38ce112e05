package store

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/pitchlab/wavemark/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(":memory:")
	if err != nil {
		t.Fatalf("newTestStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func insertTestSubmission(t *testing.T, s *Store, assessment, student string, challenge int) string {
	t.Helper()
	id, err := s.InsertSubmission(model.Submission{
		AssessmentID:    assessment,
		StudentName:     student,
		ChallengeNumber: challenge,
		DrawingImage:    "data:image/png;base64,QUJD",
		TargetShape:     model.ShapeSine,
		Octaves:         1,
		Direction:       model.DirectionLower,
	})
	if err != nil {
		t.Fatalf("insertTestSubmission: %v", err)
	}
	return id
}

func TestSubmissionInsertAndGet(t *testing.T) {
	s := newTestStore(t)

	id := insertTestSubmission(t, s, "octave-drawing", "Ada", 1)
	if id == "" {
		t.Fatal("expected a generated id")
	}

	sub, err := s.GetSubmission(id)
	if err != nil {
		t.Fatalf("GetSubmission: %v", err)
	}
	if sub.StudentName != "Ada" || sub.ChallengeNumber != 1 {
		t.Errorf("submission = %+v", sub)
	}
	if sub.AIMark != nil || sub.AIFeedback != nil || sub.AIMarkedAt != nil {
		t.Error("new submission should carry no marking")
	}
	if sub.Revision != 0 {
		t.Errorf("revision = %d, want 0", sub.Revision)
	}
	if sub.CreatedAt.IsZero() {
		t.Error("created_at not set")
	}

	_, err = s.GetSubmission("missing")
	if err != sql.ErrNoRows {
		t.Errorf("expected ErrNoRows, got %v", err)
	}
}

func TestSubmissionAnswersRoundTrip(t *testing.T) {
	s := newTestStore(t)

	id, err := s.InsertSubmission(model.Submission{
		AssessmentID: "synthesis-quiz",
		StudentName:  "Grace",
		Answers:      map[int]int{1: 1, 2: 0, 3: 2},
	})
	if err != nil {
		t.Fatalf("InsertSubmission: %v", err)
	}
	sub, err := s.GetSubmission(id)
	if err != nil {
		t.Fatalf("GetSubmission: %v", err)
	}
	if len(sub.Answers) != 3 || sub.Answers[1] != 1 || sub.Answers[3] != 2 {
		t.Errorf("answers = %v", sub.Answers)
	}
}

func TestGetSubmissionsByIDs(t *testing.T) {
	s := newTestStore(t)
	a := insertTestSubmission(t, s, "octave-drawing", "Ada", 1)
	b := insertTestSubmission(t, s, "octave-drawing", "Grace", 2)

	subs, err := s.GetSubmissionsByIDs([]string{a, b, "missing"})
	if err != nil {
		t.Fatalf("GetSubmissionsByIDs: %v", err)
	}
	if len(subs) != 2 {
		t.Fatalf("expected 2 submissions, got %d", len(subs))
	}

	subs, err = s.GetSubmissionsByIDs(nil)
	if err != nil || subs != nil {
		t.Errorf("empty id list: subs=%v err=%v", subs, err)
	}
}

func TestListSubmissionsByAssessment(t *testing.T) {
	s := newTestStore(t)
	insertTestSubmission(t, s, "octave-drawing", "Ada", 1)
	insertTestSubmission(t, s, "octave-drawing", "Grace", 2)
	insertTestSubmission(t, s, "period-drawing", "Ada", 1)

	subs, err := s.ListSubmissionsByAssessment("octave-drawing")
	if err != nil {
		t.Fatalf("ListSubmissionsByAssessment: %v", err)
	}
	if len(subs) != 2 {
		t.Fatalf("expected 2 submissions, got %d", len(subs))
	}
}

func TestAttachMarking(t *testing.T) {
	s := newTestStore(t)
	id := insertTestSubmission(t, s, "octave-drawing", "Ada", 1)

	mark := 1
	fb := &model.FeedbackObject{
		CycleCount:    &model.CycleCriterion{Detected: 2, Expected: 2, Correct: true},
		ShapeAccuracy: &model.ShapeCriterion{Detected: "sine", Expected: "sine", Correct: true},
		Mark:          &mark,
		Feedback:      "Well done",
	}
	markedAt := time.Now()

	if err := s.AttachMarking(id, fb, 1, markedAt, 0); err != nil {
		t.Fatalf("AttachMarking: %v", err)
	}

	sub, err := s.GetSubmission(id)
	if err != nil {
		t.Fatalf("GetSubmission: %v", err)
	}
	if sub.AIMark == nil || *sub.AIMark != 1 {
		t.Errorf("ai_mark = %v", sub.AIMark)
	}
	if sub.AIFeedback == nil || sub.AIFeedback.Feedback != "Well done" {
		t.Errorf("ai_feedback = %+v", sub.AIFeedback)
	}
	if sub.AIFeedback.CycleCount == nil || !sub.AIFeedback.CycleCount.Correct {
		t.Errorf("cycleCount = %+v", sub.AIFeedback.CycleCount)
	}
	if sub.AIMarkedAt == nil {
		t.Error("ai_marked_at not set")
	}
	if sub.Revision != 1 {
		t.Errorf("revision = %d, want 1", sub.Revision)
	}
}

func TestAttachMarkingStaleRevision(t *testing.T) {
	s := newTestStore(t)
	id := insertTestSubmission(t, s, "octave-drawing", "Ada", 1)

	if err := s.AttachMarking(id, nil, 1, time.Now(), 0); err != nil {
		t.Fatalf("first AttachMarking: %v", err)
	}
	// A second write against the already-consumed revision must lose.
	err := s.AttachMarking(id, nil, 0, time.Now(), 0)
	if !errors.Is(err, ErrStaleRevision) {
		t.Errorf("err = %v, want ErrStaleRevision", err)
	}
}

func TestExportResults(t *testing.T) {
	s := newTestStore(t)
	a := insertTestSubmission(t, s, "period-drawing", "Ada", 3)
	insertTestSubmission(t, s, "octave-drawing", "Grace", 1)
	if err := s.AttachMarking(a, &model.FeedbackObject{Feedback: "ok"}, 1, time.Now(), 0); err != nil {
		t.Fatalf("AttachMarking: %v", err)
	}

	export, err := s.ExportResults()
	if err != nil {
		t.Fatalf("ExportResults: %v", err)
	}
	if len(export.Assessments) != 2 {
		t.Fatalf("expected 2 assessment groups, got %d", len(export.Assessments))
	}
	// Groups sorted by assessment id.
	if export.Assessments[0].AssessmentID != "octave-drawing" {
		t.Errorf("first group = %s", export.Assessments[0].AssessmentID)
	}
	marked := export.Assessments[1].Submissions[0]
	if marked.AIMark == nil || *marked.AIMark != 1 || marked.AIFeedback == nil {
		t.Errorf("marked export = %+v", marked)
	}
}

func TestUserAndAuthSession(t *testing.T) {
	s := newTestStore(t)

	id, err := s.CreateUser(model.User{
		Username: "teacher", DisplayName: "Ms. Teacher",
		PasswordHash: "hash", Role: model.UserRoleTeacher, Active: true,
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	u, err := s.GetUserByUsername("teacher")
	if err != nil || u == nil || u.ID != id {
		t.Fatalf("GetUserByUsername: u=%+v err=%v", u, err)
	}
	if u.Role != model.UserRoleTeacher {
		t.Errorf("role = %q", u.Role)
	}

	missing, err := s.GetUserByUsername("nobody")
	if err != nil || missing != nil {
		t.Errorf("missing user: u=%+v err=%v", missing, err)
	}

	token, err := s.CreateAuthSession(id)
	if err != nil {
		t.Fatalf("CreateAuthSession: %v", err)
	}
	sess, err := s.GetAuthSession(token)
	if err != nil || sess == nil || sess.UserID != id {
		t.Fatalf("GetAuthSession: sess=%+v err=%v", sess, err)
	}

	if err := s.DeleteAuthSession(token); err != nil {
		t.Fatalf("DeleteAuthSession: %v", err)
	}
	sess, err = s.GetAuthSession(token)
	if err != nil || sess != nil {
		t.Errorf("deleted session: sess=%+v err=%v", sess, err)
	}
}

func TestMetadata(t *testing.T) {
	s := newTestStore(t)

	v, err := s.GetMetadata("missing")
	if err != nil || v != "" {
		t.Errorf("missing key: v=%q err=%v", v, err)
	}
	if err := s.SetMetadata("schema_version", "1"); err != nil {
		t.Fatalf("SetMetadata: %v", err)
	}
	if err := s.SetMetadata("schema_version", "2"); err != nil {
		t.Fatalf("SetMetadata upsert: %v", err)
	}
	v, err = s.GetMetadata("schema_version")
	if err != nil || v != "2" {
		t.Errorf("v=%q err=%v", v, err)
	}
}
