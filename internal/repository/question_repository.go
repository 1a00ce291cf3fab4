package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/scoorly/scoorly-backend/internal/model"
)

// QuestionRepository handles question data access.
type QuestionRepository struct {
	pool *pgxpool.Pool
}

// NewQuestionRepository creates a new QuestionRepository.
func NewQuestionRepository(pool *pgxpool.Pool) *QuestionRepository {
	return &QuestionRepository{pool: pool}
}

// ListByExam returns an exam's questions in order.
func (r *QuestionRepository) ListByExam(ctx context.Context, examID string) ([]model.Question, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, exam_id, subject_id, question_text, choices, correct_answer, explanation, order_num
		 FROM questions
		 WHERE exam_id = $1
		 ORDER BY order_num ASC`, examID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []model.Question
	for rows.Next() {
		var q model.Question
		if err := rows.Scan(&q.ID, &q.ExamID, &q.SubjectID, &q.QuestionText, &q.Choices, &q.CorrectAnswer, &q.Explanation, &q.OrderNum); err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

// GetByID retrieves a single question.
func (r *QuestionRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Question, error) {
	q := &model.Question{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, exam_id, subject_id, question_text, choices, correct_answer, explanation, order_num
		 FROM questions
		 WHERE id = $1`, id,
	).Scan(&q.ID, &q.ExamID, &q.SubjectID, &q.QuestionText, &q.Choices, &q.CorrectAnswer, &q.Explanation, &q.OrderNum)
	if err != nil {
		return nil, err
	}
	return q, nil
}
