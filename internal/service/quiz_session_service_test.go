package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/scoorly/scoorly-backend/internal/logger"
	"github.com/scoorly/scoorly-backend/internal/model"
	"github.com/scoorly/scoorly-backend/internal/store"
)

// fakeQueue records enqueued payloads in memory.
type fakeQueue struct {
	results []*model.ResultSyncPayload
	answers []*model.AnswerSyncPayload
}

func (q *fakeQueue) EnqueueResult(_ context.Context, p *model.ResultSyncPayload) error {
	q.results = append(q.results, p)
	return nil
}

func (q *fakeQueue) EnqueueAnswer(_ context.Context, p *model.AnswerSyncPayload) error {
	q.answers = append(q.answers, p)
	return nil
}

// newTestService returns a service over an in-memory store with a
// controllable clock starting at a fixed instant.
func newTestService(t *testing.T) (*QuizSessionService, *fakeQueue, *time.Time) {
	t.Helper()
	queue := &fakeQueue{}
	svc := NewQuizSessionService(store.NewMemoryStore(), queue, 5*time.Minute, logger.Discard())

	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	clock := &now
	svc.now = func() time.Time { return *clock }
	return svc, queue, clock
}

func recordReq(qid, answer string, correct bool) model.RecordAnswerRequest {
	return model.RecordAnswerRequest{
		QuestionID:     qid,
		SelectedAnswer: answer,
		IsCorrect:      correct,
		TimeSpent:      30,
	}
}

func TestStartSession(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	t.Run("FreshSession", func(t *testing.T) {
		session, err := svc.Start(ctx, "client-1", model.QuizTypePractice, "NREMT")
		if err != nil {
			t.Fatalf("start: %v", err)
		}
		if session.ID == "" {
			t.Error("expected generated session ID")
		}
		if session.Completed {
			t.Error("new session must not be completed")
		}
		if len(session.Answers) != 0 {
			t.Errorf("new session has %d answers, want 0", len(session.Answers))
		}
		if session.EndTime != nil {
			t.Error("new session must have no end time")
		}
	})

	t.Run("OverwritesPrevious", func(t *testing.T) {
		first, err := svc.Start(ctx, "client-2", model.QuizTypePractice, "NREMT")
		if err != nil {
			t.Fatalf("first start: %v", err)
		}
		if _, err := svc.RecordAnswer(ctx, "client-2", nil, recordReq("q1", "a", true)); err != nil {
			t.Fatalf("answer: %v", err)
		}

		second, err := svc.Start(ctx, "client-2", model.QuizTypeMock, "CDL")
		if err != nil {
			t.Fatalf("second start: %v", err)
		}
		if second.ID == first.ID {
			t.Error("restart must mint a new session ID")
		}

		current, err := svc.Current(ctx, "client-2")
		if err != nil {
			t.Fatalf("current: %v", err)
		}
		if current.ID != second.ID || current.ExamID != "CDL" || len(current.Answers) != 0 {
			t.Errorf("current slot not overwritten: %+v", current)
		}
	})

	t.Run("InvalidQuizType", func(t *testing.T) {
		if _, err := svc.Start(ctx, "client-3", model.QuizType("exam"), "NREMT"); err != ErrInvalidQuizType {
			t.Errorf("got %v, want ErrInvalidQuizType", err)
		}
	})

	t.Run("MissingExamID", func(t *testing.T) {
		if _, err := svc.Start(ctx, "client-3", model.QuizTypePractice, ""); err != ErrExamRequired {
			t.Errorf("got %v, want ErrExamRequired", err)
		}
	})
}

func TestRecordAnswer(t *testing.T) {
	ctx := context.Background()

	t.Run("AppendOnlyPreservesOrder", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		if _, err := svc.Start(ctx, "c", model.QuizTypePractice, "NREMT"); err != nil {
			t.Fatalf("start: %v", err)
		}

		ids := []string{"q1", "q2", "q3", "q2"} // q2 answered twice
		for _, id := range ids {
			if _, err := svc.RecordAnswer(ctx, "c", nil, recordReq(id, "b", true)); err != nil {
				t.Fatalf("record %s: %v", id, err)
			}
		}

		session, err := svc.Current(ctx, "c")
		if err != nil {
			t.Fatalf("current: %v", err)
		}
		if len(session.Answers) != len(ids) {
			t.Fatalf("got %d answers, want %d", len(session.Answers), len(ids))
		}
		for i, id := range ids {
			if session.Answers[i].QuestionID != id {
				t.Errorf("answer %d: got question %s, want %s", i, session.Answers[i].QuestionID, id)
			}
		}
	})

	t.Run("NoSessionIsNoOp", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		session, err := svc.RecordAnswer(ctx, "missing", nil, recordReq("q1", "a", false))
		if err != nil {
			t.Fatalf("record: %v", err)
		}
		if session != nil {
			t.Errorf("expected nil session, got %+v", session)
		}
	})

	t.Run("AnonymousSkipsMirror", func(t *testing.T) {
		svc, queue, _ := newTestService(t)
		if _, err := svc.Start(ctx, "c", model.QuizTypePractice, "NREMT"); err != nil {
			t.Fatalf("start: %v", err)
		}
		if _, err := svc.RecordAnswer(ctx, "c", nil, recordReq("q1", "a", true)); err != nil {
			t.Fatalf("record: %v", err)
		}
		if len(queue.answers) != 0 {
			t.Errorf("anonymous answer mirrored %d times, want 0", len(queue.answers))
		}
	})

	t.Run("AuthenticatedMirrorsAnswer", func(t *testing.T) {
		svc, queue, _ := newTestService(t)
		userID := uuid.New()
		if _, err := svc.Start(ctx, "c", model.QuizTypePractice, "NREMT"); err != nil {
			t.Fatalf("start: %v", err)
		}
		if _, err := svc.RecordAnswer(ctx, "c", &userID, recordReq("q1", "a", true)); err != nil {
			t.Fatalf("record: %v", err)
		}
		if len(queue.answers) != 1 {
			t.Fatalf("mirrored %d answers, want 1", len(queue.answers))
		}
		if queue.answers[0].UserID != userID || queue.answers[0].QuestionID != "q1" {
			t.Errorf("mirror payload mismatch: %+v", queue.answers[0])
		}
	})
}

func TestCompleteSession(t *testing.T) {
	ctx := context.Background()

	t.Run("FullLifecycle", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		if _, err := svc.Start(ctx, "c", model.QuizTypePractice, "NREMT"); err != nil {
			t.Fatalf("start: %v", err)
		}
		answers := []struct {
			qid     string
			correct bool
		}{
			{"q1", true},
			{"q2", false},
			{"q3", true},
		}
		for _, a := range answers {
			if _, err := svc.RecordAnswer(ctx, "c", nil, recordReq(a.qid, "b", a.correct)); err != nil {
				t.Fatalf("record: %v", err)
			}
		}

		results, err := svc.Complete(ctx, "c", nil, 2, 600, 3)
		if err != nil {
			t.Fatalf("complete: %v", err)
		}
		if !results.Completed {
			t.Error("results not marked completed")
		}
		if results.EndTime == nil {
			t.Fatal("results missing end time")
		}
		if *results.FinalScore != 2 || *results.TimeSpent != 600 || *results.TotalQuestions != 3 {
			t.Errorf("metrics mismatch: score=%d time=%d total=%d",
				*results.FinalScore, *results.TimeSpent, *results.TotalQuestions)
		}
		if got := results.CorrectCount(); got != 2 {
			t.Errorf("correct count = %d, want 2", got)
		}

		// Current slot cleared; results slot populated.
		current, err := svc.Current(ctx, "c")
		if err != nil {
			t.Fatalf("current: %v", err)
		}
		if current != nil {
			t.Errorf("current slot not cleared: %+v", current)
		}
		last, err := svc.LastResults(ctx, "c")
		if err != nil {
			t.Fatalf("last results: %v", err)
		}
		if last == nil || last.ID != results.ID {
			t.Errorf("last results mismatch: %+v", last)
		}
	})

	t.Run("NoSessionLeavesResultsUntouched", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		if _, err := svc.Start(ctx, "c", model.QuizTypeMock, "CDL"); err != nil {
			t.Fatalf("start: %v", err)
		}
		first, err := svc.Complete(ctx, "c", nil, 5, 300, 10)
		if err != nil {
			t.Fatalf("first complete: %v", err)
		}

		// Second complete has no session in progress.
		second, err := svc.Complete(ctx, "c", nil, 9, 100, 10)
		if err != nil {
			t.Fatalf("second complete: %v", err)
		}
		if second != nil {
			t.Errorf("expected nil, got %+v", second)
		}

		last, err := svc.LastResults(ctx, "c")
		if err != nil {
			t.Fatalf("last results: %v", err)
		}
		if last.ID != first.ID || *last.FinalScore != 5 {
			t.Errorf("earlier results clobbered: %+v", last)
		}
	})

	t.Run("AuthenticatedMirrorsResult", func(t *testing.T) {
		svc, queue, _ := newTestService(t)
		userID := uuid.New()
		if _, err := svc.Start(ctx, "c", model.QuizTypeMock, "CDL"); err != nil {
			t.Fatalf("start: %v", err)
		}
		if _, err := svc.RecordAnswer(ctx, "c", &userID, recordReq("q1", "b", true)); err != nil {
			t.Fatalf("record: %v", err)
		}
		if _, err := svc.Complete(ctx, "c", &userID, 1, 45, 1); err != nil {
			t.Fatalf("complete: %v", err)
		}
		if len(queue.results) != 1 {
			t.Fatalf("mirrored %d results, want 1", len(queue.results))
		}
		p := queue.results[0]
		if p.UserID != userID || p.ExamID != "CDL" || p.Score != 1 || p.CorrectCount != 1 {
			t.Errorf("result payload mismatch: %+v", p)
		}
		if p.AnswerCount != 1 {
			t.Errorf("AnswerCount = %d, want 1", p.AnswerCount)
		}
	})

	t.Run("DuplicateAnswersCountAsAttempts", func(t *testing.T) {
		svc, queue, _ := newTestService(t)
		userID := uuid.New()
		if _, err := svc.Start(ctx, "c", model.QuizTypePractice, "NREMT"); err != nil {
			t.Fatalf("start: %v", err)
		}
		// Same question answered correctly twice: both rows count toward
		// the progress attempts, so correct can never exceed attempts.
		if _, err := svc.RecordAnswer(ctx, "c", &userID, recordReq("q1", "b", true)); err != nil {
			t.Fatalf("record: %v", err)
		}
		if _, err := svc.RecordAnswer(ctx, "c", &userID, recordReq("q1", "b", true)); err != nil {
			t.Fatalf("record: %v", err)
		}
		if _, err := svc.Complete(ctx, "c", &userID, 1, 30, 1); err != nil {
			t.Fatalf("complete: %v", err)
		}
		if len(queue.results) != 1 {
			t.Fatalf("mirrored %d results, want 1", len(queue.results))
		}
		p := queue.results[0]
		if p.CorrectCount != 2 || p.AnswerCount != 2 {
			t.Errorf("CorrectCount = %d, AnswerCount = %d, want 2 and 2", p.CorrectCount, p.AnswerCount)
		}
		if p.CorrectCount > p.AnswerCount {
			t.Errorf("correct %d exceeds attempts %d", p.CorrectCount, p.AnswerCount)
		}
	})

	t.Run("AnonymousSkipsMirror", func(t *testing.T) {
		svc, queue, _ := newTestService(t)
		if _, err := svc.Start(ctx, "c", model.QuizTypePractice, "NREMT"); err != nil {
			t.Fatalf("start: %v", err)
		}
		if _, err := svc.Complete(ctx, "c", nil, 0, 10, 1); err != nil {
			t.Fatalf("complete: %v", err)
		}
		if len(queue.results) != 0 {
			t.Errorf("anonymous result mirrored %d times, want 0", len(queue.results))
		}
	})
}

func TestValidateScoreAccess(t *testing.T) {
	ctx := context.Background()

	complete := func(t *testing.T, svc *QuizSessionService, quizType model.QuizType) {
		t.Helper()
		if _, err := svc.Start(ctx, "c", quizType, "NREMT"); err != nil {
			t.Fatalf("start: %v", err)
		}
		if _, err := svc.Complete(ctx, "c", nil, 8, 600, 10); err != nil {
			t.Fatalf("complete: %v", err)
		}
	}

	t.Run("FreshMatchingResults", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		complete(t, svc, model.QuizTypePractice)
		if !svc.ValidateScoreAccess(ctx, "c", model.QuizTypePractice) {
			t.Error("fresh matching results must pass")
		}
	})

	t.Run("TypeMismatch", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		complete(t, svc, model.QuizTypeMock)
		if svc.ValidateScoreAccess(ctx, "c", model.QuizTypePractice) {
			t.Error("mock results must not open the practice score page")
		}
	})

	t.Run("NoResults", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		if svc.ValidateScoreAccess(ctx, "nobody", model.QuizTypePractice) {
			t.Error("absent results must fail")
		}
	})

	t.Run("IncompleteSession", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		if _, err := svc.Start(ctx, "c", model.QuizTypePractice, "NREMT"); err != nil {
			t.Fatalf("start: %v", err)
		}
		if svc.ValidateScoreAccess(ctx, "c", model.QuizTypePractice) {
			t.Error("in-progress session must not open the score page")
		}
	})

	t.Run("FreshnessWindow", func(t *testing.T) {
		svc, _, clock := newTestService(t)
		complete(t, svc, model.QuizTypePractice)

		*clock = clock.Add(4*time.Minute + 59*time.Second)
		if !svc.ValidateScoreAccess(ctx, "c", model.QuizTypePractice) {
			t.Error("results inside the window must pass")
		}

		*clock = clock.Add(2 * time.Second) // Now past 5 minutes.
		if svc.ValidateScoreAccess(ctx, "c", model.QuizTypePractice) {
			t.Error("results past the window must fail")
		}
	})

	t.Run("PureReadIsRepeatable", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		complete(t, svc, model.QuizTypePractice)
		for i := 0; i < 3; i++ {
			if !svc.ValidateScoreAccess(ctx, "c", model.QuizTypePractice) {
				t.Fatalf("validation %d failed; access check must not consume results", i)
			}
		}
	})
}
