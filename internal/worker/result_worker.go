package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/scoorly/scoorly-backend/internal/config"
	"github.com/scoorly/scoorly-backend/internal/model"
)

const (
	ResultBatchSize    = 50
	ResultBatchTimeout = 2 * time.Second
	ResultPollTimeout  = 1 * time.Second
)

// ResultWorker consumes persist_results_queue and mirrors completed sessions
// to PostgreSQL: one quiz_results row per completion plus the exam_progress
// aggregate upsert.
type ResultWorker struct {
	pool *pgxpool.Pool
	rdb  *redis.Client
	log  zerolog.Logger
}

// NewResultWorker creates a new ResultWorker.
func NewResultWorker(pool *pgxpool.Pool, rdb *redis.Client, log zerolog.Logger) *ResultWorker {
	return &ResultWorker{
		pool: pool,
		rdb:  rdb,
		log:  log.With().Str("component", "result_worker").Logger(),
	}
}

// ----------------------------------------------------------------
// Worker loop with batching
// ----------------------------------------------------------------

func (w *ResultWorker) Start(ctx context.Context) {
	w.log.Info().Msg("ResultWorker started")

	batch := make([]*model.ResultSyncPayload, 0, ResultBatchSize)
	lastFlush := time.Now()

	for {
		// Should flush?
		if len(batch) > 0 &&
			(len(batch) >= ResultBatchSize || time.Since(lastFlush) >= ResultBatchTimeout) {

			w.flushSafe(ctx, batch)
			batch = batch[:0]
			lastFlush = time.Now()
		}

		select {
		case <-ctx.Done():
			w.log.Info().Msg("Shutdown requested. Flushing remaining batch...")
			w.flushSafe(context.Background(), batch)
			return

		default:
			item, err := w.rdb.BLPop(ctx, ResultPollTimeout, config.WorkerKey.PersistResultsQueue).Result()
			if err != nil {
				if err != redis.Nil && ctx.Err() == nil {
					w.log.Error().Err(err).Msg("BLPop error")
				}
				continue
			}

			if len(item) < 2 {
				continue
			}

			var p model.ResultSyncPayload
			if err := json.Unmarshal([]byte(item[1]), &p); err != nil {
				w.log.Error().Err(err).Msg("Invalid JSON payload")
				continue
			}

			batch = append(batch, &p)
		}
	}
}

// ----------------------------------------------------------------
// Batch insert/upsert wrapper
// ----------------------------------------------------------------

func (w *ResultWorker) flushSafe(ctx context.Context, batch []*model.ResultSyncPayload) {
	if len(batch) == 0 {
		return
	}

	if err := w.bulkPersist(ctx, batch); err != nil {
		w.log.Warn().Err(err).Msg("bulk result persist failed, using fallback")

		for _, p := range batch {
			if err := w.persistSingle(ctx, p); err != nil {
				w.log.Error().Err(err).Msg("persistSingle failed — requeueing")
				raw, _ := json.Marshal(p)
				w.rdb.RPush(ctx, config.WorkerKey.PersistResultsQueue, raw)
			}
		}
	}
}

// ----------------------------------------------------------------
// BULK PostgreSQL write using UNNEST
// ----------------------------------------------------------------

func (w *ResultWorker) bulkPersist(ctx context.Context, batch []*model.ResultSyncPayload) error {
	n := len(batch)

	userIDs := make([]string, 0, n)
	sessionIDs := make([]string, 0, n)
	examIDs := make([]string, 0, n)
	quizTypes := make([]string, 0, n)
	scores := make([]int, 0, n)
	totals := make([]int, 0, n)
	timeSpents := make([]int, 0, n)
	completedAts := make([]time.Time, 0, n)

	for _, p := range batch {
		userIDs = append(userIDs, p.UserID.String())
		sessionIDs = append(sessionIDs, p.SessionID)
		examIDs = append(examIDs, p.ExamID)
		quizTypes = append(quizTypes, string(p.QuizType))
		scores = append(scores, p.Score)
		totals = append(totals, p.TotalQuestions)
		timeSpents = append(timeSpents, p.TimeSpent)
		completedAts = append(completedAts, p.CompletedAt)
	}

	tx, err := w.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	// One row per completion. Re-delivered payloads (requeue after a partial
	// failure) dedupe on session_id.
	_, err = tx.Exec(ctx, `
		INSERT INTO quiz_results (user_id, session_id, exam_id, quiz_type, score, total_questions, time_spent, completed_at)
		SELECT u.user_id::uuid, u.session_id, u.exam_id, u.quiz_type, u.score, u.total_questions, u.time_spent, u.completed_at
		FROM UNNEST(
			$1::text[],
			$2::text[],
			$3::text[],
			$4::text[],
			$5::int[],
			$6::int[],
			$7::int[],
			$8::timestamptz[]
		) AS u (user_id, session_id, exam_id, quiz_type, score, total_questions, time_spent, completed_at)
		ON CONFLICT (session_id) DO NOTHING
	`, userIDs, sessionIDs, examIDs, quizTypes, scores, totals, timeSpents, completedAts)
	if err != nil {
		return err
	}

	// Pre-aggregate per (user, exam): ON CONFLICT DO UPDATE cannot touch the
	// same row twice within one statement.
	type progressKey struct {
		userID string
		examID string
	}
	agg := make(map[progressKey]*model.ResultSyncPayload, n)
	order := make([]progressKey, 0, n)
	for _, p := range batch {
		key := progressKey{p.UserID.String(), p.ExamID}
		if existing, ok := agg[key]; ok {
			existing.CorrectCount += p.CorrectCount
			existing.AnswerCount += p.AnswerCount
			if p.CompletedAt.After(existing.CompletedAt) {
				existing.CompletedAt = p.CompletedAt
			}
			continue
		}
		cp := *p
		agg[key] = &cp
		order = append(order, key)
	}

	pUserIDs := make([]string, 0, len(order))
	pExamIDs := make([]string, 0, len(order))
	pCorrects := make([]int, 0, len(order))
	pTotals := make([]int, 0, len(order))
	pLastAttempts := make([]time.Time, 0, len(order))
	// total_attempts advances by answers recorded, not quiz length, so a
	// re-answered question counts in both columns and the aggregate keeps
	// correct_count <= total_attempts.
	for _, key := range order {
		p := agg[key]
		pUserIDs = append(pUserIDs, key.userID)
		pExamIDs = append(pExamIDs, key.examID)
		pCorrects = append(pCorrects, p.CorrectCount)
		pTotals = append(pTotals, p.AnswerCount)
		pLastAttempts = append(pLastAttempts, p.CompletedAt)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO exam_progress (user_id, exam_id, correct_count, total_attempts, last_attempt)
		SELECT u.user_id::uuid, u.exam_id, u.correct_count, u.total_attempts, u.last_attempt
		FROM UNNEST(
			$1::text[],
			$2::text[],
			$3::int[],
			$4::int[],
			$5::timestamptz[]
		) AS u (user_id, exam_id, correct_count, total_attempts, last_attempt)
		ON CONFLICT (user_id, exam_id) DO UPDATE
		SET correct_count = exam_progress.correct_count + EXCLUDED.correct_count,
		    total_attempts = exam_progress.total_attempts + EXCLUDED.total_attempts,
		    last_attempt = EXCLUDED.last_attempt
	`, pUserIDs, pExamIDs, pCorrects, pTotals, pLastAttempts)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// ----------------------------------------------------------------
// FALLBACK single persist
// ----------------------------------------------------------------

func (w *ResultWorker) persistSingle(ctx context.Context, p *model.ResultSyncPayload) error {
	tx, err := w.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO quiz_results (user_id, session_id, exam_id, quiz_type, score, total_questions, time_spent, completed_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (session_id) DO NOTHING`,
		p.UserID, p.SessionID, p.ExamID, p.QuizType, p.Score, p.TotalQuestions, p.TimeSpent, p.CompletedAt,
	)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO exam_progress (user_id, exam_id, correct_count, total_attempts, last_attempt)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (user_id, exam_id) DO UPDATE
		 SET correct_count = exam_progress.correct_count + EXCLUDED.correct_count,
		     total_attempts = exam_progress.total_attempts + EXCLUDED.total_attempts,
		     last_attempt = EXCLUDED.last_attempt`,
		p.UserID, p.ExamID, p.CorrectCount, p.AnswerCount, p.CompletedAt,
	)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}
