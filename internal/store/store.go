// Package store provides the durable two-slot session storage used by the
// quiz session lifecycle: a "current session" slot for the in-progress quiz
// and a "last results" slot for the most recently completed one. Slots are
// scoped per client and independently readable/writable; there are no
// cross-slot transactional guarantees.
package store

import (
	"context"

	"github.com/scoorly/scoorly-backend/internal/model"
)

// SessionStore is the narrow persistence contract the lifecycle manager and
// score-access validator depend on. Absent slots are reported as (nil, nil),
// never as an error.
type SessionStore interface {
	// GetSession reads the in-progress session slot for a client.
	GetSession(ctx context.Context, clientID string) (*model.Session, error)
	// SetSession writes the in-progress session slot, overwriting any
	// previous value.
	SetSession(ctx context.Context, clientID string, s *model.Session) error
	// ClearSession removes the in-progress session slot. Clearing an
	// already-empty slot is not an error.
	ClearSession(ctx context.Context, clientID string) error

	// GetResults reads the last-results slot for a client.
	GetResults(ctx context.Context, clientID string) (*model.Session, error)
	// SetResults writes the last-results slot, overwriting any previous value.
	SetResults(ctx context.Context, clientID string, s *model.Session) error
}
