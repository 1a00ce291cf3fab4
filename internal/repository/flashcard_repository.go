package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/scoorly/scoorly-backend/internal/model"
)

// FlashcardRepository handles flashcard data access.
type FlashcardRepository struct {
	pool *pgxpool.Pool
}

// NewFlashcardRepository creates a new FlashcardRepository.
func NewFlashcardRepository(pool *pgxpool.Pool) *FlashcardRepository {
	return &FlashcardRepository{pool: pool}
}

// ListByExam returns an exam's flashcards in order.
func (r *FlashcardRepository) ListByExam(ctx context.Context, examID string) ([]model.Flashcard, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, exam_id, front, back, order_num
		 FROM flashcards
		 WHERE exam_id = $1
		 ORDER BY order_num ASC`, examID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cards []model.Flashcard
	for rows.Next() {
		var f model.Flashcard
		if err := rows.Scan(&f.ID, &f.ExamID, &f.Front, &f.Back, &f.OrderNum); err != nil {
			return nil, err
		}
		cards = append(cards, f)
	}
	return cards, rows.Err()
}
