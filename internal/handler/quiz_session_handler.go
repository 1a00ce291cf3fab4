package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/scoorly/scoorly-backend/internal/middleware"
	"github.com/scoorly/scoorly-backend/internal/model"
	"github.com/scoorly/scoorly-backend/internal/response"
	"github.com/scoorly/scoorly-backend/internal/service"
	"github.com/scoorly/scoorly-backend/internal/validator"
)

// QuizSessionHandler exposes the quiz session lifecycle over HTTP.
type QuizSessionHandler struct {
	sessionService *service.QuizSessionService
}

// NewQuizSessionHandler creates a new QuizSessionHandler.
func NewQuizSessionHandler(sessionService *service.QuizSessionService) *QuizSessionHandler {
	return &QuizSessionHandler{sessionService: sessionService}
}

// userIDFromContext returns the authenticated user's ID, or nil for
// anonymous requests.
func userIDFromContext(c *gin.Context) *uuid.UUID {
	claims := middleware.GetClaims(c)
	if claims == nil {
		return nil
	}
	id := claims.UserID
	return &id
}

// Start godoc
// POST /api/v1/sessions/start
// Begins a fresh session for the client, replacing any session in progress.
func (h *QuizSessionHandler) Start(c *gin.Context) {
	var req model.StartSessionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	session, err := h.sessionService.Start(c.Request.Context(), middleware.GetClientID(c), req.QuizType, req.ExamID)
	if err != nil {
		if errors.Is(err, service.ErrInvalidQuizType) {
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidQuizType)
			return
		}
		if errors.Is(err, service.ErrExamRequired) {
			response.Fail(c, http.StatusBadRequest, response.ErrValidation)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"session": session})
}

// Current godoc
// GET /api/v1/sessions/current
// Returns the session in progress, or null when there is none.
func (h *QuizSessionHandler) Current(c *gin.Context) {
	session, err := h.sessionService.Current(c.Request.Context(), middleware.GetClientID(c))
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"session": session})
}

// RecordAnswer godoc
// POST /api/v1/sessions/answers
// Appends one answer to the session in progress. A missing session is
// not an error; the answer is simply dropped.
func (h *QuizSessionHandler) RecordAnswer(c *gin.Context) {
	var req model.RecordAnswerRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	session, err := h.sessionService.RecordAnswer(c.Request.Context(), middleware.GetClientID(c), userIDFromContext(c), req)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	if session == nil {
		response.Success(c, http.StatusOK, gin.H{"session": nil, "recorded": false})
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"session":  session,
		"recorded": true,
	})
}

// Complete godoc
// POST /api/v1/sessions/complete
// Finalizes the session in progress and publishes it as the latest
// results. A missing session is a no-op.
func (h *QuizSessionHandler) Complete(c *gin.Context) {
	var req model.CompleteSessionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	results, err := h.sessionService.Complete(
		c.Request.Context(),
		middleware.GetClientID(c),
		userIDFromContext(c),
		req.FinalScore,
		req.TimeSpent,
		req.TotalQuestions,
	)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	if results == nil {
		response.Success(c, http.StatusOK, gin.H{"results": nil, "completed": false})
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"results":   results,
		"completed": true,
	})
}
