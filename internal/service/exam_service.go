package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/scoorly/scoorly-backend/internal/config"
	"github.com/scoorly/scoorly-backend/internal/model"
	"github.com/scoorly/scoorly-backend/internal/repository"
)

// Domain Errors
var (
	ErrExamNotFound     = errors.New("exam not found")
	ErrAccessExists     = errors.New("user already has access to this exam")
	ErrExamNotPublished = errors.New("exam is not published")
)

// ExamService handles the exam catalog, access grants, and the Redis-cached
// question/flashcard payloads served to the quiz player.
type ExamService struct {
	examRepo      *repository.ExamRepository
	questionRepo  *repository.QuestionRepository
	flashcardRepo *repository.FlashcardRepository
	rdb           *redis.Client
	log           zerolog.Logger
}

// NewExamService creates a new ExamService.
func NewExamService(
	examRepo *repository.ExamRepository,
	questionRepo *repository.QuestionRepository,
	flashcardRepo *repository.FlashcardRepository,
	rdb *redis.Client,
	log zerolog.Logger,
) *ExamService {
	return &ExamService{
		examRepo:      examRepo,
		questionRepo:  questionRepo,
		flashcardRepo: flashcardRepo,
		rdb:           rdb,
		log:           log.With().Str("component", "exam_service").Logger(),
	}
}

// ListPublished returns the published exam catalog, cache-first.
func (s *ExamService) ListPublished(ctx context.Context) ([]model.Exam, error) {
	key := config.StoreKey.ExamCatalogKey()

	raw, err := s.rdb.Get(ctx, key).Bytes()
	if err == nil {
		var exams []model.Exam
		if jsonErr := json.Unmarshal(raw, &exams); jsonErr == nil {
			return exams, nil
		}
		// Corrupt cache entry falls through to the database.
	} else if !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("get catalog cache: %w", err)
	}

	exams, err := s.examRepo.ListPublished(ctx)
	if err != nil {
		return nil, fmt.Errorf("list exams: %w", err)
	}
	if exams == nil {
		exams = []model.Exam{}
	}

	// Self-heal the cache so the next request is fast.
	if raw, err := json.Marshal(exams); err == nil {
		_ = s.rdb.Set(ctx, key, raw, 0)
	}

	return exams, nil
}

// GetByID retrieves an exam by its slug.
func (s *ExamService) GetByID(ctx context.Context, examID string) (*model.Exam, error) {
	exam, err := s.examRepo.GetByID(ctx, examID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrExamNotFound
		}
		return nil, fmt.Errorf("get exam: %w", err)
	}
	return exam, nil
}

// GrantAccess gives a user access to an exam. Granting twice is an error the
// handler reports as a conflict.
func (s *ExamService) GrantAccess(ctx context.Context, userID uuid.UUID, examID string, accessType model.AccessType) (*model.ExamAccess, error) {
	if _, err := s.GetByID(ctx, examID); err != nil {
		return nil, err
	}

	existing, err := s.examRepo.GetAccess(ctx, userID, examID)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("check access: %w", err)
	}
	if existing != nil {
		return nil, ErrAccessExists
	}

	if accessType == "" {
		accessType = model.AccessTypeFree
	}

	access := &model.ExamAccess{
		UserID: userID,
		ExamID: examID,
		Type:   accessType,
	}
	if err := s.examRepo.CreateAccess(ctx, access); err != nil {
		return nil, fmt.Errorf("create access: %w", err)
	}
	return access, nil
}

// GetExamPayload returns the exam's question set from Redis, falling back to
// PostgreSQL on a cache miss and re-warming the key.
func (s *ExamService) GetExamPayload(ctx context.Context, examID string) (*model.ExamPayload, error) {
	key := config.StoreKey.ExamPayloadKey(examID)

	raw, err := s.rdb.Get(ctx, key).Bytes()
	if err == nil {
		var payload model.ExamPayload
		if jsonErr := json.Unmarshal(raw, &payload); jsonErr == nil {
			return &payload, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("get payload cache: %w", err)
	}

	return s.warmExamPayload(ctx, examID)
}

// GetFlashcards returns the exam's flashcard deck, cache-first.
func (s *ExamService) GetFlashcards(ctx context.Context, examID string) (*model.FlashcardDeck, error) {
	key := config.StoreKey.ExamFlashcardsKey(examID)

	raw, err := s.rdb.Get(ctx, key).Bytes()
	if err == nil {
		var deck model.FlashcardDeck
		if jsonErr := json.Unmarshal(raw, &deck); jsonErr == nil {
			return &deck, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("get flashcards cache: %w", err)
	}

	exam, err := s.GetByID(ctx, examID)
	if err != nil {
		return nil, err
	}
	if !exam.Published {
		return nil, ErrExamNotPublished
	}

	cards, err := s.flashcardRepo.ListByExam(ctx, examID)
	if err != nil {
		return nil, fmt.Errorf("list flashcards: %w", err)
	}
	if cards == nil {
		cards = []model.Flashcard{}
	}

	deck := &model.FlashcardDeck{ExamID: examID, Cards: cards}
	if raw, err := json.Marshal(deck); err == nil {
		_ = s.rdb.Set(ctx, key, raw, 0)
	}
	return deck, nil
}

// PrewarmAllCaches loads every published exam's payload and flashcards into
// Redis. Called on startup before accepting traffic so lazy loading never
// races under a thundering herd.
func (s *ExamService) PrewarmAllCaches(ctx context.Context) error {
	exams, err := s.examRepo.ListPublished(ctx)
	if err != nil {
		return fmt.Errorf("list exams: %w", err)
	}

	for _, exam := range exams {
		if _, err := s.warmExamPayload(ctx, exam.ID); err != nil {
			s.log.Warn().Err(err).Str("exam_id", exam.ID).Msg("Payload prewarm failed")
		}
		if _, err := s.GetFlashcards(ctx, exam.ID); err != nil {
			s.log.Warn().Err(err).Str("exam_id", exam.ID).Msg("Flashcard prewarm failed")
		}
	}

	if raw, err := json.Marshal(exams); err == nil {
		_ = s.rdb.Set(ctx, config.StoreKey.ExamCatalogKey(), raw, 0)
	}

	s.log.Info().Int("exams", len(exams)).Msg("Exam caches prewarmed")
	return nil
}

func (s *ExamService) warmExamPayload(ctx context.Context, examID string) (*model.ExamPayload, error) {
	exam, err := s.GetByID(ctx, examID)
	if err != nil {
		return nil, err
	}
	if !exam.Published {
		return nil, ErrExamNotPublished
	}

	questions, err := s.questionRepo.ListByExam(ctx, examID)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	if questions == nil {
		questions = []model.Question{}
	}

	payload := &model.ExamPayload{
		ExamID:    exam.ID,
		Name:      exam.Name,
		Questions: questions,
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	if err := s.rdb.Set(ctx, config.StoreKey.ExamPayloadKey(examID), raw, 0).Err(); err != nil {
		return nil, fmt.Errorf("cache payload: %w", err)
	}

	return payload, nil
}
