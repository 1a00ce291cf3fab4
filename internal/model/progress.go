package model

import (
	"time"

	"github.com/google/uuid"
)

// QuizResult is the remote mirror of a completed session: one row per
// completion, written asynchronously by the result worker.
type QuizResult struct {
	ID             uuid.UUID `json:"id"`
	UserID         uuid.UUID `json:"user_id"`
	SessionID      string    `json:"session_id"`
	ExamID         string    `json:"exam_id"`
	QuizType       QuizType  `json:"quiz_type"`
	Score          int       `json:"score"`
	TotalQuestions int       `json:"total_questions"`
	TimeSpent      int       `json:"time_spent"`
	CompletedAt    time.Time `json:"completed_at"`
}

// ExamProgress is the per-user, per-exam aggregate maintained alongside the
// result mirror. CorrectCount/TotalAttempts accumulate across sessions.
type ExamProgress struct {
	UserID        uuid.UUID `json:"user_id"`
	ExamID        string    `json:"exam_id"`
	CorrectCount  int       `json:"correct_count"`
	TotalAttempts int       `json:"total_attempts"`
	LastAttempt   time.Time `json:"last_attempt"`
}
