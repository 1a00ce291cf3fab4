package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Question is a multiple-choice question belonging to an exam.
type Question struct {
	ID            uuid.UUID       `json:"id"`
	ExamID        string          `json:"exam_id"`
	SubjectID     *uuid.UUID      `json:"subject_id,omitempty"`
	QuestionText  string          `json:"question_text"`
	Choices       json.RawMessage `json:"choices"` // [{"id":"a","text":"..."}, ...]
	CorrectAnswer string          `json:"correct_answer"`
	Explanation   string          `json:"explanation,omitempty"`
	OrderNum      int             `json:"order_num"`
}

// Flashcard is a two-sided study card belonging to an exam.
type Flashcard struct {
	ID       uuid.UUID `json:"id"`
	ExamID   string    `json:"exam_id"`
	Front    string    `json:"front"`
	Back     string    `json:"back"`
	OrderNum int       `json:"order_num"`
}

// Bookmark marks a question a user wants to revisit.
type Bookmark struct {
	ID         uuid.UUID `json:"id"`
	UserID     uuid.UUID `json:"user_id"`
	QuestionID uuid.UUID `json:"question_id"`
	ExamID     string    `json:"exam_id"`
	CreatedAt  time.Time `json:"created_at"`
}
