package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/scoorly/scoorly-backend/internal/model"
)

// ExamRepository handles exam catalog and access-grant data access.
type ExamRepository struct {
	pool *pgxpool.Pool
}

// NewExamRepository creates a new ExamRepository.
func NewExamRepository(pool *pgxpool.Pool) *ExamRepository {
	return &ExamRepository{pool: pool}
}

// ListPublished returns all published exams ordered by name.
func (r *ExamRepository) ListPublished(ctx context.Context) ([]model.Exam, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, description, question_count, published, created_at, updated_at
		 FROM exams
		 WHERE published = TRUE
		 ORDER BY name ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var exams []model.Exam
	for rows.Next() {
		var e model.Exam
		if err := rows.Scan(&e.ID, &e.Name, &e.Description, &e.QuestionCount, &e.Published, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		exams = append(exams, e)
	}
	return exams, rows.Err()
}

// GetByID retrieves an exam by slug. Returns pgx.ErrNoRows when absent.
func (r *ExamRepository) GetByID(ctx context.Context, examID string) (*model.Exam, error) {
	e := &model.Exam{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, description, question_count, published, created_at, updated_at
		 FROM exams
		 WHERE id = $1`, examID,
	).Scan(&e.ID, &e.Name, &e.Description, &e.QuestionCount, &e.Published, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// GetAccess retrieves a user's access grant for an exam.
func (r *ExamRepository) GetAccess(ctx context.Context, userID uuid.UUID, examID string) (*model.ExamAccess, error) {
	a := &model.ExamAccess{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, user_id, exam_id, access_type, granted_at
		 FROM user_exam_access
		 WHERE user_id = $1 AND exam_id = $2`, userID, examID,
	).Scan(&a.ID, &a.UserID, &a.ExamID, &a.Type, &a.GrantedAt)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// CreateAccess inserts an access grant.
func (r *ExamRepository) CreateAccess(ctx context.Context, a *model.ExamAccess) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO user_exam_access (user_id, exam_id, access_type)
		 VALUES ($1, $2, $3)
		 RETURNING id, granted_at`,
		a.UserID, a.ExamID, a.Type,
	).Scan(&a.ID, &a.GrantedAt)
}
