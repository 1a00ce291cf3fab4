package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/scoorly/scoorly-backend/internal/model"
)

// BookmarkRepository handles question bookmark data access.
type BookmarkRepository struct {
	pool *pgxpool.Pool
}

// NewBookmarkRepository creates a new BookmarkRepository.
func NewBookmarkRepository(pool *pgxpool.Pool) *BookmarkRepository {
	return &BookmarkRepository{pool: pool}
}

// Toggle flips a bookmark: inserts it when absent, deletes it when present.
// Returns whether the question is bookmarked after the call.
func (r *BookmarkRepository) Toggle(ctx context.Context, userID, questionID uuid.UUID, examID string) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM bookmarks WHERE user_id = $1 AND question_id = $2`,
		userID, questionID,
	)
	if err != nil {
		return false, err
	}
	if tag.RowsAffected() > 0 {
		return false, nil
	}

	_, err = r.pool.Exec(ctx,
		`INSERT INTO bookmarks (user_id, question_id, exam_id)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (user_id, question_id) DO NOTHING`,
		userID, questionID, examID,
	)
	if err != nil {
		return false, err
	}
	return true, nil
}

// ListByUser returns a user's bookmarks, optionally filtered by exam.
func (r *BookmarkRepository) ListByUser(ctx context.Context, userID uuid.UUID, examID string) ([]model.Bookmark, error) {
	query := `
		SELECT id, user_id, question_id, exam_id, created_at
		FROM bookmarks
		WHERE user_id = $1`
	args := []any{userID}

	if examID != "" {
		args = append(args, examID)
		query += " AND exam_id = $2"
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookmarks []model.Bookmark
	for rows.Next() {
		var b model.Bookmark
		if err := rows.Scan(&b.ID, &b.UserID, &b.QuestionID, &b.ExamID, &b.CreatedAt); err != nil {
			return nil, err
		}
		bookmarks = append(bookmarks, b)
	}
	return bookmarks, rows.Err()
}
