package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/pitchlab/wavemark/internal/model"
)

// ErrStaleRevision is returned by AttachMarking when another grading call
// updated the submission first. Callers should re-read and decide whether
// to retry.
var ErrStaleRevision = errors.New("submission revision changed")

type Store struct {
	db *sql.DB
}

func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS submissions (
		id TEXT PRIMARY KEY,
		assessment_id TEXT NOT NULL,
		student_name TEXT NOT NULL,
		challenge_number INTEGER NOT NULL DEFAULT 0,
		drawing_image TEXT NOT NULL DEFAULT '',
		original_shape TEXT NOT NULL DEFAULT '',
		target_shape TEXT NOT NULL DEFAULT '',
		octaves INTEGER NOT NULL DEFAULT 0,
		direction TEXT NOT NULL DEFAULT '',
		period_ms REAL NOT NULL DEFAULT 0,
		answers TEXT NOT NULL DEFAULT '',
		ai_feedback TEXT,
		ai_mark REAL,
		ai_marked_at DATETIME,
		revision INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_submissions_assessment
		ON submissions(assessment_id, created_at);

	CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT NOT NULL UNIQUE,
		display_name TEXT NOT NULL DEFAULT '',
		password_hash TEXT NOT NULL,
		role TEXT NOT NULL DEFAULT 'student',
		active BOOLEAN NOT NULL DEFAULT 1,
		created_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS auth_sessions (
		id TEXT PRIMARY KEY,
		user_id INTEGER NOT NULL,
		created_at DATETIME NOT NULL,
		expires_at DATETIME NOT NULL,
		FOREIGN KEY (user_id) REFERENCES users(id)
	);

	CREATE TABLE IF NOT EXISTS service_metadata (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

const submissionColumns = `id, assessment_id, student_name, challenge_number, drawing_image,
	original_shape, target_shape, octaves, direction, period_ms, answers,
	ai_feedback, ai_mark, ai_marked_at, revision, created_at`

// InsertSubmission stores a new submission and returns its id. A missing
// id gets a fresh UUID. Submissions are append-only; nothing deletes them.
func (s *Store) InsertSubmission(sub model.Submission) (string, error) {
	if sub.ID == "" {
		sub.ID = uuid.NewString()
	}
	if sub.CreatedAt.IsZero() {
		sub.CreatedAt = time.Now()
	}

	answers := ""
	if sub.Answers != nil {
		data, err := json.Marshal(sub.Answers)
		if err != nil {
			return "", fmt.Errorf("encode answers: %w", err)
		}
		answers = string(data)
	}

	_, err := s.db.Exec(
		`INSERT INTO submissions (id, assessment_id, student_name, challenge_number, drawing_image,
			original_shape, target_shape, octaves, direction, period_ms, answers, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sub.ID, sub.AssessmentID, sub.StudentName, sub.ChallengeNumber, sub.DrawingImage,
		sub.OriginalShape, sub.TargetShape, sub.Octaves, sub.Direction, sub.PeriodMs,
		answers, sub.CreatedAt,
	)
	if err != nil {
		return "", err
	}
	return sub.ID, nil
}

// GetSubmission returns a submission by id.
func (s *Store) GetSubmission(id string) (model.Submission, error) {
	row := s.db.QueryRow(`SELECT `+submissionColumns+` FROM submissions WHERE id = ?`, id)
	return scanSubmission(row)
}

// GetSubmissionsByIDs fetches all requested submissions in one query.
// Missing ids are simply absent from the result.
func (s *Store) GetSubmissionsByIDs(ids []string) ([]model.Submission, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	placeholders := strings.Repeat("?,", len(ids))
	placeholders = placeholders[:len(placeholders)-1]
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	rows, err := s.db.Query(
		`SELECT `+submissionColumns+` FROM submissions WHERE id IN (`+placeholders+`)`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectSubmissions(rows)
}

// ListSubmissionsByAssessment returns all submissions for an assessment,
// newest first.
func (s *Store) ListSubmissionsByAssessment(assessmentID string) ([]model.Submission, error) {
	rows, err := s.db.Query(
		`SELECT `+submissionColumns+` FROM submissions
		 WHERE assessment_id = ? ORDER BY created_at DESC, id`, assessmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectSubmissions(rows)
}

// AttachMarking writes the grading outcome onto a submission. The update
// is guarded by the revision read before grading: if another grading call
// got there first the update is rejected with ErrStaleRevision instead of
// silently overwriting.
func (s *Store) AttachMarking(id string, fb *model.FeedbackObject, mark float64, markedAt time.Time, revision int64) error {
	var feedback any
	if fb != nil {
		data, err := json.Marshal(fb)
		if err != nil {
			return fmt.Errorf("encode feedback: %w", err)
		}
		feedback = string(data)
	}

	res, err := s.db.Exec(
		`UPDATE submissions
		 SET ai_feedback = ?, ai_mark = ?, ai_marked_at = ?, revision = revision + 1
		 WHERE id = ? AND revision = ?`,
		feedback, mark, markedAt, id, revision,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrStaleRevision
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSubmission(row rowScanner) (model.Submission, error) {
	var (
		sub      model.Submission
		answers  string
		feedback sql.NullString
		mark     sql.NullFloat64
		markedAt sql.NullTime
	)
	err := row.Scan(
		&sub.ID, &sub.AssessmentID, &sub.StudentName, &sub.ChallengeNumber, &sub.DrawingImage,
		&sub.OriginalShape, &sub.TargetShape, &sub.Octaves, &sub.Direction, &sub.PeriodMs,
		&answers, &feedback, &mark, &markedAt, &sub.Revision, &sub.CreatedAt,
	)
	if err != nil {
		return sub, err
	}
	if answers != "" {
		if err := json.Unmarshal([]byte(answers), &sub.Answers); err != nil {
			return sub, fmt.Errorf("decode answers for %s: %w", sub.ID, err)
		}
	}
	if feedback.Valid && feedback.String != "" {
		var fb model.FeedbackObject
		if err := json.Unmarshal([]byte(feedback.String), &fb); err != nil {
			return sub, fmt.Errorf("decode feedback for %s: %w", sub.ID, err)
		}
		sub.AIFeedback = &fb
	}
	if mark.Valid {
		sub.AIMark = &mark.Float64
	}
	if markedAt.Valid {
		sub.AIMarkedAt = &markedAt.Time
	}
	return sub, nil
}

func collectSubmissions(rows *sql.Rows) ([]model.Submission, error) {
	var subs []model.Submission
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}
