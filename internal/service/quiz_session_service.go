package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/scoorly/scoorly-backend/internal/model"
	"github.com/scoorly/scoorly-backend/internal/store"
)

// Domain Errors
var (
	ErrInvalidQuizType = errors.New("quiz type must be practice or mock")
	ErrExamRequired    = errors.New("exam id is required")
)

// QuizSessionService owns the quiz session lifecycle: start, answer capture,
// completion, and score-page access validation. Each client has a single
// in-progress slot; starting a new session silently overwrites an abandoned
// one, and concurrent writers (multiple tabs) resolve last-writer-wins.
type QuizSessionService struct {
	store  store.SessionStore
	queue  SyncQueue
	window time.Duration // Score-access freshness window.
	log    zerolog.Logger

	now func() time.Time
}

// NewQuizSessionService creates a new QuizSessionService. window bounds how
// long completed results stay valid for score-page access.
func NewQuizSessionService(st store.SessionStore, queue SyncQueue, window time.Duration, log zerolog.Logger) *QuizSessionService {
	return &QuizSessionService{
		store:  st,
		queue:  queue,
		window: window,
		log:    log.With().Str("component", "quiz_session_service").Logger(),
		now:    time.Now,
	}
}

// Start creates a new in-progress session for the client, overwriting any
// previous one. No merge and no error on overwrite: an abandoned session is
// simply replaced.
func (s *QuizSessionService) Start(ctx context.Context, clientID string, quizType model.QuizType, examID string) (*model.Session, error) {
	if !quizType.Valid() {
		return nil, ErrInvalidQuizType
	}
	if examID == "" {
		return nil, ErrExamRequired
	}

	session := &model.Session{
		ID:        uuid.New().String(),
		QuizType:  quizType,
		ExamID:    examID,
		StartTime: s.now(),
		Answers:   []model.Answer{},
		Completed: false,
	}

	if err := s.store.SetSession(ctx, clientID, session); err != nil {
		return nil, err
	}

	s.log.Debug().
		Str("session_id", session.ID).
		Str("quiz_type", string(quizType)).
		Str("exam_id", examID).
		Msg("Session started")

	return session, nil
}

// Current returns the client's in-progress session, or nil if none exists.
func (s *QuizSessionService) Current(ctx context.Context, clientID string) (*model.Session, error) {
	return s.store.GetSession(ctx, clientID)
}

// RecordAnswer appends an answer to the in-progress session and writes the
// session through to the store. With no session in progress it is a silent
// no-op returning (nil, nil). Answers are append-only and keep call order;
// a repeated question id is retained alongside the earlier answer.
//
// When userID is set, the answer is also mirrored to the remote history
// best-effort: enqueue failures are logged and swallowed.
func (s *QuizSessionService) RecordAnswer(ctx context.Context, clientID string, userID *uuid.UUID, req model.RecordAnswerRequest) (*model.Session, error) {
	session, err := s.store.GetSession(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, nil
	}

	answer := model.Answer{
		QuestionID:     req.QuestionID,
		SelectedAnswer: req.SelectedAnswer,
		IsCorrect:      req.IsCorrect,
		TimeSpent:      req.TimeSpent,
		Timestamp:      s.now(),
	}
	session.Answers = append(session.Answers, answer)

	// Write-through after every answer, not batched: a reload must never
	// lose a recorded answer.
	if err := s.store.SetSession(ctx, clientID, session); err != nil {
		return nil, err
	}

	if userID != nil {
		payload := &model.AnswerSyncPayload{
			UserID:         *userID,
			SessionID:      session.ID,
			ExamID:         session.ExamID,
			QuestionID:     answer.QuestionID,
			SelectedAnswer: answer.SelectedAnswer,
			IsCorrect:      answer.IsCorrect,
			TimeSpent:      answer.TimeSpent,
			AnsweredAt:     answer.Timestamp,
		}
		if err := s.queue.EnqueueAnswer(ctx, payload); err != nil {
			s.log.Warn().Err(err).
				Str("session_id", session.ID).
				Str("question_id", answer.QuestionID).
				Msg("Answer mirror enqueue failed")
		}
	}

	return session, nil
}

// Complete finalizes the in-progress session with the supplied metrics.
// With no session in progress it returns (nil, nil) and leaves the
// last-results slot untouched. Side effects run in order: best-effort remote
// mirror, persist last-results, clear the in-progress slot. A mirror failure
// never rolls back the local completion.
func (s *QuizSessionService) Complete(ctx context.Context, clientID string, userID *uuid.UUID, finalScore, timeSpent, totalQuestions int) (*model.Session, error) {
	session, err := s.store.GetSession(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, nil
	}

	endTime := s.now()
	session.Completed = true
	session.EndTime = &endTime
	session.FinalScore = &finalScore
	session.TimeSpent = &timeSpent
	session.TotalQuestions = &totalQuestions

	// Unauthenticated completion skips the mirror silently: the remote
	// history only exists for signed-in users.
	if userID != nil {
		payload := &model.ResultSyncPayload{
			UserID:         *userID,
			SessionID:      session.ID,
			ExamID:         session.ExamID,
			QuizType:       session.QuizType,
			Score:          finalScore,
			TotalQuestions: totalQuestions,
			TimeSpent:      timeSpent,
			CorrectCount:   session.CorrectCount(),
			// Attempts count answer rows, duplicates included, so the
			// progress aggregate keeps correct_count <= total_attempts.
			AnswerCount: len(session.Answers),
			CompletedAt: endTime,
		}
		if err := s.queue.EnqueueResult(ctx, payload); err != nil {
			s.log.Warn().Err(err).
				Str("session_id", session.ID).
				Msg("Result mirror enqueue failed")
		}
	}

	if err := s.store.SetResults(ctx, clientID, session); err != nil {
		return nil, err
	}
	if err := s.store.ClearSession(ctx, clientID); err != nil {
		// The results slot already holds the completion; a stale current
		// slot only lingers until the next Start overwrites it.
		s.log.Warn().Err(err).Str("session_id", session.ID).Msg("Clear session slot failed")
	}

	s.log.Info().
		Str("session_id", session.ID).
		Str("exam_id", session.ExamID).
		Int("score", finalScore).
		Int("total_questions", totalQuestions).
		Msg("Session completed")

	return session, nil
}

// LastResults returns the client's most recently completed results, or nil.
func (s *QuizSessionService) LastResults(ctx context.Context, clientID string) (*model.Session, error) {
	return s.store.GetResults(ctx, clientID)
}

// ValidateScoreAccess gates navigation to a score page. It is a pure read:
// true iff the client's last results exist, are completed, match the
// requested quiz type, and completed within the freshness window. Direct or
// replayed score URLs fail one of those checks and get redirected.
func (s *QuizSessionService) ValidateScoreAccess(ctx context.Context, clientID string, quizType model.QuizType) bool {
	results, err := s.store.GetResults(ctx, clientID)
	if err != nil || results == nil {
		return false
	}
	if !results.Completed || results.QuizType != quizType || results.EndTime == nil {
		return false
	}
	return s.now().Sub(*results.EndTime) < s.window
}
