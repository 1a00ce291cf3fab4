package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrEmailTaken         ErrCode = "EMAIL_TAKEN"
	ErrTokenRequired      ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid       ErrCode = "TOKEN_INVALID"

	// ─── Client identity ───────────────────────────────────────────────
	ErrClientIDRequired ErrCode = "CLIENT_ID_REQUIRED"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation ErrCode = "VALIDATION_ERROR"
	ErrInvalidID  ErrCode = "INVALID_ID"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound ErrCode = "NOT_FOUND"

	// ─── Quiz sessions ─────────────────────────────────────────────────
	ErrInvalidQuizType ErrCode = "INVALID_QUIZ_TYPE"

	// ─── Exams ─────────────────────────────────────────────────────────
	ErrExamNotFound     ErrCode = "EXAM_NOT_FOUND"
	ErrExamNotPublished ErrCode = "EXAM_NOT_PUBLISHED"
	ErrAccessExists     ErrCode = "EXAM_ACCESS_EXISTS"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Authentication ────────────────────────────────────────────────
	case ErrInvalidCredentials:
		return "Email or password is incorrect."
	case ErrEmailTaken:
		return "An account with this email already exists."
	case ErrTokenRequired:
		return "An authentication token is required."
	case ErrTokenInvalid:
		return "The authentication token is invalid or expired."

	// ─── Client identity ───────────────────────────────────────────────
	case ErrClientIDRequired:
		return "An X-Client-ID header or authentication token is required."

	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidID:
		return "The ID format is invalid."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "The requested resource was not found."

	// ─── Quiz sessions ─────────────────────────────────────────────────
	case ErrInvalidQuizType:
		return "Quiz type must be practice or mock."

	// ─── Exams ─────────────────────────────────────────────────────────
	case ErrExamNotFound:
		return "The exam was not found."
	case ErrExamNotPublished:
		return "This exam is not published yet."
	case ErrAccessExists:
		return "You already have access to this exam."

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "Too many requests. Please try again later."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "An internal server error occurred."
	default:
		return "An unexpected error occurred."
	}
}
