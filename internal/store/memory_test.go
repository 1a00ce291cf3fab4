package store

import (
	"context"
	"testing"
	"time"

	"github.com/scoorly/scoorly-backend/internal/model"
)

func sampleSession() *model.Session {
	return &model.Session{
		ID:        "s1",
		QuizType:  model.QuizTypePractice,
		ExamID:    "NREMT",
		StartTime: time.Now(),
		Answers: []model.Answer{
			{QuestionID: "q1", SelectedAnswer: "a", IsCorrect: true},
		},
	}
}

func TestMemoryStoreSlots(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	t.Run("AbsentSlotsReturnNil", func(t *testing.T) {
		sess, err := s.GetSession(ctx, "nobody")
		if err != nil || sess != nil {
			t.Errorf("GetSession = (%v, %v), want (nil, nil)", sess, err)
		}
		res, err := s.GetResults(ctx, "nobody")
		if err != nil || res != nil {
			t.Errorf("GetResults = (%v, %v), want (nil, nil)", res, err)
		}
	})

	t.Run("SlotsAreIndependent", func(t *testing.T) {
		if err := s.SetSession(ctx, "c", sampleSession()); err != nil {
			t.Fatalf("set session: %v", err)
		}
		res, err := s.GetResults(ctx, "c")
		if err != nil || res != nil {
			t.Errorf("results slot leaked from session slot: (%v, %v)", res, err)
		}
	})

	t.Run("ClientsAreIsolated", func(t *testing.T) {
		if err := s.SetSession(ctx, "a", sampleSession()); err != nil {
			t.Fatalf("set: %v", err)
		}
		sess, err := s.GetSession(ctx, "b")
		if err != nil || sess != nil {
			t.Errorf("client b sees client a's session: (%v, %v)", sess, err)
		}
	})

	t.Run("ClearSession", func(t *testing.T) {
		if err := s.SetSession(ctx, "c", sampleSession()); err != nil {
			t.Fatalf("set: %v", err)
		}
		if err := s.ClearSession(ctx, "c"); err != nil {
			t.Fatalf("clear: %v", err)
		}
		sess, err := s.GetSession(ctx, "c")
		if err != nil || sess != nil {
			t.Errorf("session survives clear: (%v, %v)", sess, err)
		}
	})
}

func TestMemoryStoreCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	original := sampleSession()
	if err := s.SetSession(ctx, "c", original); err != nil {
		t.Fatalf("set: %v", err)
	}

	// Mutating the caller's value must not affect the stored one.
	original.Answers[0].SelectedAnswer = "z"
	original.Completed = true

	stored, err := s.GetSession(ctx, "c")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.Answers[0].SelectedAnswer != "a" || stored.Completed {
		t.Errorf("store shares memory with caller: %+v", stored)
	}

	// Mutating a read value must not affect subsequent reads.
	stored.Answers[0].QuestionID = "mutated"
	again, err := s.GetSession(ctx, "c")
	if err != nil {
		t.Fatalf("get again: %v", err)
	}
	if again.Answers[0].QuestionID != "q1" {
		t.Errorf("read value shares memory with store: %+v", again)
	}
}
