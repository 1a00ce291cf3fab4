package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/scoorly/scoorly-backend/internal/model"
)

// ResultRepository reads the mirrored quiz results history. Writes happen in
// the result worker, which batches directly against the pool.
type ResultRepository struct {
	pool *pgxpool.Pool
}

// NewResultRepository creates a new ResultRepository.
func NewResultRepository(pool *pgxpool.Pool) *ResultRepository {
	return &ResultRepository{pool: pool}
}

// ListByUser returns a user's completed results, most recent first, with
// optional exam filtering.
func (r *ResultRepository) ListByUser(ctx context.Context, userID uuid.UUID, examID string, limit int) ([]model.QuizResult, error) {
	if limit < 1 || limit > 100 {
		limit = 50
	}

	query := `
		SELECT id, user_id, session_id, exam_id, quiz_type, score, total_questions, time_spent, completed_at
		FROM quiz_results
		WHERE user_id = $1`
	args := []any{userID}

	if examID != "" {
		args = append(args, examID)
		query += " AND exam_id = $2"
	}
	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY completed_at DESC LIMIT $%d", len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []model.QuizResult
	for rows.Next() {
		var q model.QuizResult
		if err := rows.Scan(&q.ID, &q.UserID, &q.SessionID, &q.ExamID, &q.QuizType, &q.Score, &q.TotalQuestions, &q.TimeSpent, &q.CompletedAt); err != nil {
			return nil, err
		}
		results = append(results, q)
	}
	return results, rows.Err()
}
