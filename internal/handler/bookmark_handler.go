package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/scoorly/scoorly-backend/internal/middleware"
	"github.com/scoorly/scoorly-backend/internal/repository"
	"github.com/scoorly/scoorly-backend/internal/response"
)

// BookmarkHandler handles per-user question bookmarks.
type BookmarkHandler struct {
	bookmarkRepo *repository.BookmarkRepository
}

// NewBookmarkHandler creates a new BookmarkHandler.
func NewBookmarkHandler(bookmarkRepo *repository.BookmarkRepository) *BookmarkHandler {
	return &BookmarkHandler{bookmarkRepo: bookmarkRepo}
}

// Toggle godoc
// PUT /api/v1/questions/:question_id/bookmark?exam_id=...
// Flips the bookmark state for a question and reports the new state.
func (h *BookmarkHandler) Toggle(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	questionID, err := uuid.Parse(c.Param("question_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	examID := c.Query("exam_id")
	if examID == "" {
		response.Fail(c, http.StatusBadRequest, response.ErrValidation)
		return
	}

	bookmarked, err := h.bookmarkRepo.Toggle(c.Request.Context(), claims.UserID, questionID, examID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"question_id": questionID,
		"bookmarked":  bookmarked,
	})
}

// List godoc
// GET /api/v1/bookmarks?exam_id=...
// Returns the user's bookmarks, optionally filtered by exam.
func (h *BookmarkHandler) List(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	bookmarks, err := h.bookmarkRepo.ListByUser(c.Request.Context(), claims.UserID, c.Query("exam_id"))
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"bookmarks": bookmarks})
}
