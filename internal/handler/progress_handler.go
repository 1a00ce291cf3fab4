package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/scoorly/scoorly-backend/internal/middleware"
	"github.com/scoorly/scoorly-backend/internal/model"
	"github.com/scoorly/scoorly-backend/internal/repository"
	"github.com/scoorly/scoorly-backend/internal/response"
)

// ProgressHandler serves the per-exam progress aggregates and the
// quiz result history written by the background workers.
type ProgressHandler struct {
	progressRepo *repository.ProgressRepository
	resultRepo   *repository.ResultRepository
}

// NewProgressHandler creates a new ProgressHandler.
func NewProgressHandler(progressRepo *repository.ProgressRepository, resultRepo *repository.ResultRepository) *ProgressHandler {
	return &ProgressHandler{
		progressRepo: progressRepo,
		resultRepo:   resultRepo,
	}
}

// GetProgress godoc
// GET /api/v1/progress?exam_id=...
// Returns accuracy aggregates, either for one exam or all of them.
func (h *ProgressHandler) GetProgress(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	examID := c.Query("exam_id")
	if examID != "" {
		progress, err := h.progressRepo.GetByUserAndExam(c.Request.Context(), claims.UserID, examID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				// No attempts yet reads as zeroed progress, not an error.
				response.Success(c, http.StatusOK, gin.H{"progress": model.ExamProgress{
					UserID: claims.UserID,
					ExamID: examID,
				}})
				return
			}
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
			return
		}
		response.Success(c, http.StatusOK, gin.H{"progress": progress})
		return
	}

	progress, err := h.progressRepo.ListByUser(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"progress": progress})
}

// ListResults godoc
// GET /api/v1/results?exam_id=...&limit=20
// Returns the user's completed quiz history, newest first.
func (h *ProgressHandler) ListResults(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 || limit > 100 {
		limit = 20
	}

	results, err := h.resultRepo.ListByUser(c.Request.Context(), claims.UserID, c.Query("exam_id"), limit)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"results": results})
}
