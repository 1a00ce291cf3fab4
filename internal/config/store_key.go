package config

import (
	"fmt"
)

type StoreKeyStruct struct{}

func NewStoreKeyStruct() *StoreKeyStruct {
	return &StoreKeyStruct{}
}

// CurrentSessionKey returns the key holding a client's in-progress quiz session.
func (r *StoreKeyStruct) CurrentSessionKey(clientID string) string {
	return fmt.Sprintf("client:%s:quiz_session", clientID)
}

// LastResultsKey returns the key holding a client's most recently completed results.
func (r *StoreKeyStruct) LastResultsKey(clientID string) string {
	return fmt.Sprintf("client:%s:last_results", clientID)
}

// ExamPayloadKey returns the cache key for an exam's question payload.
func (r *StoreKeyStruct) ExamPayloadKey(examID string) string {
	return fmt.Sprintf("exam:%s:payload", examID)
}

// ExamFlashcardsKey returns the cache key for an exam's flashcard deck.
func (r *StoreKeyStruct) ExamFlashcardsKey(examID string) string {
	return fmt.Sprintf("exam:%s:flashcards", examID)
}

// ExamCatalogKey returns the cache key for the published exam catalog.
func (r *StoreKeyStruct) ExamCatalogKey() string {
	return "exams:catalog"
}

var StoreKey = NewStoreKeyStruct()
