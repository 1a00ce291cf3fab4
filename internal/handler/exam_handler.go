package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/scoorly/scoorly-backend/internal/middleware"
	"github.com/scoorly/scoorly-backend/internal/model"
	"github.com/scoorly/scoorly-backend/internal/response"
	"github.com/scoorly/scoorly-backend/internal/service"
	"github.com/scoorly/scoorly-backend/internal/validator"
)

// ExamHandler handles the exam catalog, access grants, and question
// payload delivery.
type ExamHandler struct {
	examService *service.ExamService
}

// NewExamHandler creates a new ExamHandler.
func NewExamHandler(examService *service.ExamService) *ExamHandler {
	return &ExamHandler{examService: examService}
}

// ListExams godoc
// GET /api/v1/exams
// Returns the published exam catalog.
func (h *ExamHandler) ListExams(c *gin.Context) {
	exams, err := h.examService.ListPublished(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"exams": exams})
}

// GetExam godoc
// GET /api/v1/exams/:exam_id
func (h *ExamHandler) GetExam(c *gin.Context) {
	exam, err := h.examService.GetByID(c.Request.Context(), c.Param("exam_id"))
	if err != nil {
		if errors.Is(err, service.ErrExamNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrExamNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"exam": exam})
}

// GrantAccess godoc
// POST /api/v1/exams/:exam_id/access
// Grants the authenticated user access to an exam. Granting twice is
// rejected with a conflict.
func (h *ExamHandler) GrantAccess(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var req model.GrantAccessRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	purchaseType := req.PurchaseType
	if purchaseType == "" {
		purchaseType = model.AccessTypeFree
	}

	access, err := h.examService.GrantAccess(c.Request.Context(), claims.UserID, c.Param("exam_id"), purchaseType)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrExamNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrExamNotFound)
		case errors.Is(err, service.ErrAccessExists):
			response.Fail(c, http.StatusBadRequest, response.ErrAccessExists)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"access": access})
}

// GetExamPayload godoc
// GET /api/v1/exams/:exam_id/questions
// Returns the full question set for the quiz player, cache-first.
func (h *ExamHandler) GetExamPayload(c *gin.Context) {
	payload, err := h.examService.GetExamPayload(c.Request.Context(), c.Param("exam_id"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrExamNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrExamNotFound)
		case errors.Is(err, service.ErrExamNotPublished):
			response.Fail(c, http.StatusForbidden, response.ErrExamNotPublished)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, payload)
}

// GetFlashcards godoc
// GET /api/v1/exams/:exam_id/flashcards
func (h *ExamHandler) GetFlashcards(c *gin.Context) {
	deck, err := h.examService.GetFlashcards(c.Request.Context(), c.Param("exam_id"))
	if err != nil {
		if errors.Is(err, service.ErrExamNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrExamNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, deck)
}
