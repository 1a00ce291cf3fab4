package model

import (
	"time"

	"github.com/google/uuid"
)

// ResultSyncPayload is queued when an authenticated user completes a session
// and consumed by the result worker, which writes the quiz_results row and
// the exam_progress aggregate.
type ResultSyncPayload struct {
	UserID         uuid.UUID `json:"user_id"`
	SessionID      string    `json:"session_id"`
	ExamID         string    `json:"exam_id"`
	QuizType       QuizType  `json:"quiz_type"`
	Score          int       `json:"score"`
	TotalQuestions int       `json:"total_questions"`
	TimeSpent      int       `json:"time_spent"`
	CorrectCount   int       `json:"correct_count"`
	AnswerCount    int       `json:"answer_count"` // Recorded answers, duplicates included.
	CompletedAt    time.Time `json:"completed_at"`
}

// AnswerSyncPayload is queued per recorded answer for authenticated users and
// consumed by the answer worker, which upserts the user_answers history row.
type AnswerSyncPayload struct {
	UserID         uuid.UUID `json:"user_id"`
	SessionID      string    `json:"session_id"`
	ExamID         string    `json:"exam_id"`
	QuestionID     string    `json:"question_id"`
	SelectedAnswer string    `json:"selected_answer"`
	IsCorrect      bool      `json:"is_correct"`
	TimeSpent      int       `json:"time_spent"`
	AnsweredAt     time.Time `json:"answered_at"`
}
