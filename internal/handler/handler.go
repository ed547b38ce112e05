package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pitchlab/wavemark/internal/batch"
	"github.com/pitchlab/wavemark/internal/catalog"
	"github.com/pitchlab/wavemark/internal/grading"
	appI18n "github.com/pitchlab/wavemark/internal/i18n"
	"github.com/pitchlab/wavemark/internal/model"
	"github.com/pitchlab/wavemark/internal/store"
	"github.com/pitchlab/wavemark/internal/waveform"
)

// Handler holds shared dependencies for HTTP handlers.
type Handler struct {
	store   *store.Store
	catalog *catalog.Catalog
	marker  *batch.Orchestrator
	config  model.ServiceConfig
}

// New creates a new Handler.
func New(s *store.Store, cat *catalog.Catalog, marker *batch.Orchestrator, cfg model.ServiceConfig) *Handler {
	return &Handler{store: s, catalog: cat, marker: marker, config: cfg}
}

// Routes registers all HTTP routes.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/api/login", h.handleLogin)
	r.Post("/api/logout", h.handleLogout)

	r.Get("/api/assessments", h.handleListAssessments)
	r.Get("/api/assessments/{assessmentID}/questions", h.handleQuestions)
	r.Post("/api/assessments/{assessmentID}/score", h.handleScoreQuiz)
	r.Post("/api/submissions", h.handleCreateSubmission)
	r.Get("/api/challenges/period/{challengeID}/samples", h.handlePeriodSamples)

	// Teacher dashboard and marking.
	r.Group(func(r chi.Router) {
		r.Use(h.requireAuth)
		r.Use(requireRole(model.UserRoleTeacher, model.UserRoleAdmin))
		r.Get("/api/assessments/{assessmentID}/submissions", h.handleListSubmissions)
		r.Post("/api/mark", h.handleMark)
		r.Post("/api/mark/batch", h.handleMarkBatch)
	})

	r.Group(func(r chi.Router) {
		r.Use(h.requireAuth)
		r.Use(requireRole(model.UserRoleAdmin))
		r.Get("/api/users", h.handleListUsers)
		r.Post("/api/users", h.handleCreateUser)
		r.Post("/api/users/{userID}/toggle", h.handleToggleUser)
	})
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}

// statusForError maps the grading error taxonomy onto HTTP status codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, grading.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, grading.ErrNotFound):
		return http.StatusNotFound
	default:
		// Configuration, parse, external service and unknown errors are
		// all server-side failures.
		return http.StatusInternalServerError
	}
}

func (h *Handler) handleListAssessments(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{"assessments": h.catalog.Assessments()})
}

// handleQuestions returns an assessment's question bank with the correct
// answers and explanations stripped.
func (h *Handler) handleQuestions(w http.ResponseWriter, r *http.Request) {
	assessmentID := chi.URLParam(r, "assessmentID")
	if _, ok := h.catalog.Assessment(assessmentID); !ok {
		respondError(w, http.StatusNotFound, appI18n.T(r.Context(), "AssessmentNotFound"))
		return
	}
	questions := h.catalog.Questions(assessmentID)
	public := make([]model.QuizQuestion, len(questions))
	for i, q := range questions {
		q.CorrectAnswer = nil
		q.Explanation = ""
		public[i] = q
	}
	respondJSON(w, http.StatusOK, map[string]any{"questions": public})
}

type scoreRequest struct {
	StudentName string      `json:"student_name"`
	Answers     map[int]int `json:"answers"`
}

// handleScoreQuiz auto-grades a quiz attempt and records it as a marked
// submission.
func (h *Handler) handleScoreQuiz(w http.ResponseWriter, r *http.Request) {
	assessmentID := chi.URLParam(r, "assessmentID")
	assessment, ok := h.catalog.Assessment(assessmentID)
	if !ok {
		respondError(w, http.StatusNotFound, appI18n.T(r.Context(), "AssessmentNotFound"))
		return
	}
	if assessment.MarkingMethod != model.MarkAuto {
		respondError(w, http.StatusBadRequest, "assessment is not auto-marked")
		return
	}

	var req scoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.StudentName == "" {
		respondError(w, http.StatusBadRequest, "student_name is required")
		return
	}

	score := grading.ScoreQuiz(h.catalog.Questions(assessmentID), req.Answers)
	message := appI18n.Td(r.Context(), "QuizScored", map[string]any{
		"Correct": score.Correct, "Total": score.Total, "Percentage": score.Percentage,
	})

	id, err := h.store.InsertSubmission(model.Submission{
		AssessmentID: assessmentID,
		StudentName:  req.StudentName,
		Answers:      req.Answers,
	})
	if err != nil {
		slog.Error("store quiz submission", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to store submission")
		return
	}
	fb := &model.FeedbackObject{Feedback: message}
	if err := h.store.AttachMarking(id, fb, float64(score.Percentage), time.Now(), 0); err != nil {
		// Best effort: the score was computed and is returned regardless.
		slog.Error("persist quiz score", "submission_id", id, "error", err)
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"submissionId": id,
		"score":        score,
		"message":      message,
	})
}

type createSubmissionRequest struct {
	AssessmentID    string              `json:"assessment_id"`
	StudentName     string              `json:"student_name"`
	ChallengeNumber int                 `json:"challenge_number"`
	DrawingImage    string              `json:"drawing_image"`
	OriginalShape   model.WaveformShape `json:"original_shape"`
	TargetShape     model.WaveformShape `json:"target_shape"`
	Octaves         int                 `json:"octaves"`
	Direction       model.Direction     `json:"direction"`
	PeriodMs        float64             `json:"period_ms"`
}

func (h *Handler) handleCreateSubmission(w http.ResponseWriter, r *http.Request) {
	var req createSubmissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.AssessmentID == "" || req.StudentName == "" {
		respondError(w, http.StatusBadRequest, "assessment_id and student_name are required")
		return
	}

	id, err := h.store.InsertSubmission(model.Submission{
		AssessmentID:    req.AssessmentID,
		StudentName:     req.StudentName,
		ChallengeNumber: req.ChallengeNumber,
		DrawingImage:    req.DrawingImage,
		OriginalShape:   req.OriginalShape,
		TargetShape:     req.TargetShape,
		Octaves:         req.Octaves,
		Direction:       req.Direction,
		PeriodMs:        req.PeriodMs,
	})
	if err != nil {
		slog.Error("store submission", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to store submission")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]string{
		"id":      id,
		"message": appI18n.T(r.Context(), "SubmissionReceived"),
	})
}

func (h *Handler) handleListSubmissions(w http.ResponseWriter, r *http.Request) {
	assessmentID := chi.URLParam(r, "assessmentID")
	subs, err := h.store.ListSubmissionsByAssessment(assessmentID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if subs == nil {
		subs = []model.Submission{}
	}
	respondJSON(w, http.StatusOK, map[string]any{"submissions": subs})
}

// handlePeriodSamples returns evenly spaced reference-curve samples for a
// period challenge, for rendering the expected waveform.
func (h *Handler) handlePeriodSamples(w http.ResponseWriter, r *http.Request) {
	challengeID, err := strconv.Atoi(chi.URLParam(r, "challengeID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid challenge id")
		return
	}
	ch, ok := h.catalog.PeriodChallenge(challengeID)
	if !ok {
		respondError(w, http.StatusNotFound, "unknown period challenge")
		return
	}

	count := 200
	if v := r.URL.Query().Get("count"); v != "" {
		count, err = strconv.Atoi(v)
		if err != nil || count < 2 || count > 4000 {
			respondError(w, http.StatusBadRequest, "count must be between 2 and 4000")
			return
		}
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"challenge": ch,
		"samples":   waveform.Sample(ch.Shape, ch.ExpectedCycles, count),
	})
}

type markRequest struct {
	SubmissionID   string `json:"submissionId"`
	ReferenceImage string `json:"referenceImage,omitempty"`
}

func (h *Handler) handleMark(w http.ResponseWriter, r *http.Request) {
	var req markRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.SubmissionID == "" {
		respondError(w, http.StatusBadRequest, "submissionId is required")
		return
	}

	result, err := h.marker.MarkOne(r.Context(), req.SubmissionID, req.ReferenceImage)
	if err != nil {
		slog.Error("mark submission", "submission_id", req.SubmissionID, "error", err)
		respondError(w, statusForError(err), err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"feedback": result.Feedback,
		"mark":     result.Mark,
		"markedAt": time.Now(),
	})
}

type markBatchRequest struct {
	SubmissionIDs   []string          `json:"submissionIds"`
	ReferenceImages map[string]string `json:"referenceImages,omitempty"`
}

func (h *Handler) handleMarkBatch(w http.ResponseWriter, r *http.Request) {
	var req markBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.SubmissionIDs) == 0 {
		respondError(w, http.StatusBadRequest, "submissionIds must be a non-empty list")
		return
	}

	// JSON object keys arrive as strings; reference images are keyed by
	// challenge number.
	refs := make(map[int]string, len(req.ReferenceImages))
	for k, v := range req.ReferenceImages {
		n, err := strconv.Atoi(k)
		if err != nil {
			respondError(w, http.StatusBadRequest, "referenceImages keys must be challenge numbers")
			return
		}
		refs[n] = v
	}

	outcome, err := h.marker.MarkBatch(r.Context(), req.SubmissionIDs, refs)
	if err != nil {
		slog.Error("mark batch", "error", err)
		respondError(w, statusForError(err), err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"results":  outcome.Results,
		"errors":   outcome.Errors,
		"summary":  outcome.Summary,
		"markedAt": time.Now(),
	})
}
