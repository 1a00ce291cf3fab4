package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/scoorly/scoorly-backend/internal/model"
)

// ProgressRepository reads the per-exam aggregates maintained by the sync
// workers.
type ProgressRepository struct {
	pool *pgxpool.Pool
}

// NewProgressRepository creates a new ProgressRepository.
func NewProgressRepository(pool *pgxpool.Pool) *ProgressRepository {
	return &ProgressRepository{pool: pool}
}

// GetByUserAndExam returns a user's progress for one exam. Returns
// pgx.ErrNoRows when the user has no recorded attempts.
func (r *ProgressRepository) GetByUserAndExam(ctx context.Context, userID uuid.UUID, examID string) (*model.ExamProgress, error) {
	p := &model.ExamProgress{}
	err := r.pool.QueryRow(ctx,
		`SELECT user_id, exam_id, correct_count, total_attempts, last_attempt
		 FROM exam_progress
		 WHERE user_id = $1 AND exam_id = $2`, userID, examID,
	).Scan(&p.UserID, &p.ExamID, &p.CorrectCount, &p.TotalAttempts, &p.LastAttempt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// ListByUser returns all of a user's per-exam aggregates.
func (r *ProgressRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.ExamProgress, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT user_id, exam_id, correct_count, total_attempts, last_attempt
		 FROM exam_progress
		 WHERE user_id = $1
		 ORDER BY last_attempt DESC`, userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var progress []model.ExamProgress
	for rows.Next() {
		var p model.ExamProgress
		if err := rows.Scan(&p.UserID, &p.ExamID, &p.CorrectCount, &p.TotalAttempts, &p.LastAttempt); err != nil {
			return nil, err
		}
		progress = append(progress, p)
	}
	return progress, rows.Err()
}
