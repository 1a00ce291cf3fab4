package model

import (
	"time"
)

// QuizType distinguishes practice quizzes from full mock exams.
type QuizType string

const (
	QuizTypePractice QuizType = "practice"
	QuizTypeMock     QuizType = "mock"
)

// Valid reports whether t is a known quiz type.
func (t QuizType) Valid() bool {
	return t == QuizTypePractice || t == QuizTypeMock
}

// Answer is a single recorded answer within a quiz session. Answers are
// append-only: once recorded they are never edited or removed, and a second
// answer for the same question is simply retained after the first.
type Answer struct {
	QuestionID     string    `json:"question_id"`
	SelectedAnswer string    `json:"selected_answer"`
	IsCorrect      bool      `json:"is_correct"`
	TimeSpent      int       `json:"time_spent"` // Seconds spent on this question.
	Timestamp      time.Time `json:"timestamp"`
}

// Session is one quiz attempt, from start through completion. While in
// progress it lives in the client's current-session slot; on completion it is
// finalized and moved to the last-results slot.
type Session struct {
	ID        string     `json:"id"`
	QuizType  QuizType   `json:"quiz_type"`
	ExamID    string     `json:"exam_id"`
	StartTime time.Time  `json:"start_time"`
	EndTime   *time.Time `json:"end_time,omitempty"`
	Answers   []Answer   `json:"answers"`
	Completed bool       `json:"completed"`

	// Populated only at completion.
	FinalScore     *int `json:"final_score,omitempty"`
	TimeSpent      *int `json:"time_spent,omitempty"` // Total seconds.
	TotalQuestions *int `json:"total_questions,omitempty"`
}

// CorrectCount returns how many recorded answers were correct.
func (s *Session) CorrectCount() int {
	n := 0
	for _, a := range s.Answers {
		if a.IsCorrect {
			n++
		}
	}
	return n
}

// StartSessionRequest is the payload for starting a new quiz session.
type StartSessionRequest struct {
	QuizType QuizType `json:"quiz_type" binding:"required,oneof=practice mock"`
	ExamID   string   `json:"exam_id" binding:"required,min=1"`
}

// RecordAnswerRequest is the payload for recording a single answer.
type RecordAnswerRequest struct {
	QuestionID     string `json:"question_id" binding:"required,min=1"`
	SelectedAnswer string `json:"selected_answer" binding:"required"`
	IsCorrect      bool   `json:"is_correct"`
	TimeSpent      int    `json:"time_spent" binding:"min=0"`
}

// CompleteSessionRequest is the payload for finalizing a session.
type CompleteSessionRequest struct {
	FinalScore     int `json:"final_score" binding:"min=0"`
	TimeSpent      int `json:"time_spent" binding:"min=0"`
	TotalQuestions int `json:"total_questions" binding:"required,min=1"`
}
