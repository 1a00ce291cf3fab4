package model

import (
	"time"

	"github.com/google/uuid"
)

// Exam is a certification exam in the catalog (e.g. NREMT, CCNA).
type Exam struct {
	ID            string    `json:"id"` // Short slug, e.g. "NREMT".
	Name          string    `json:"name"`
	Description   string    `json:"description,omitempty"`
	QuestionCount int       `json:"question_count"`
	Published     bool      `json:"published"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// AccessType enumerates how a user obtained access to an exam.
type AccessType string

const (
	AccessTypeFree AccessType = "free"
	AccessTypePaid AccessType = "paid"
)

// ExamAccess records that a user has been granted access to an exam.
type ExamAccess struct {
	ID        uuid.UUID  `json:"id"`
	UserID    uuid.UUID  `json:"user_id"`
	ExamID    string     `json:"exam_id"`
	Type      AccessType `json:"access_type"`
	GrantedAt time.Time  `json:"granted_at"`
}

// GrantAccessRequest is the payload for granting exam access.
type GrantAccessRequest struct {
	PurchaseType AccessType `json:"purchase_type" binding:"omitempty,oneof=free paid"`
}

// ExamPayload is the Redis-cached question set served to the quiz player.
// Correct answers are included: scoring happens on the client, which is why
// recorded answers carry an is_correct flag instead of being graded here.
type ExamPayload struct {
	ExamID    string     `json:"exam_id"`
	Name      string     `json:"name"`
	Questions []Question `json:"questions"`
}

// FlashcardDeck is the Redis-cached flashcard set for an exam.
type FlashcardDeck struct {
	ExamID string      `json:"exam_id"`
	Cards  []Flashcard `json:"cards"`
}
