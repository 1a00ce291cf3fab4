package websocket

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionAnswer   Action = "answer"
	ActionComplete Action = "complete"
	ActionPing     Action = "ping"
)

// RequestEnvelope is used to peek at the action before full parsing.
type RequestEnvelope struct {
	Action Action `json:"action"`
}

// AnswerRequest is sent by the client to record a single answer.
type AnswerRequest struct {
	Action         Action `json:"action"`
	QuestionID     string `json:"question_id"`
	SelectedAnswer string `json:"selected_answer"`
	IsCorrect      bool   `json:"is_correct"`
	TimeSpent      int    `json:"time_spent"`
}

// CompleteRequest is sent by the client to finish the active session.
type CompleteRequest struct {
	Action         Action `json:"action"`
	FinalScore     int    `json:"final_score"`
	TimeSpent      int    `json:"time_spent"`
	TotalQuestions int    `json:"total_questions"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventError     Event = "error"
	EventSaved     Event = "saved"
	EventCompleted Event = "completed"
	EventPong      Event = "pong"
)

type SavedResponse struct {
	Event       Event `json:"event"`
	AnswerCount int   `json:"answer_count"`
}

type CompletedResponse struct {
	Event Event `json:"event"`
	Score int   `json:"score"`
	Total int   `json:"total"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
