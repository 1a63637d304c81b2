// Package session holds the single currently-authenticated identity.
//
// The store has exactly one slot: logging in overwrites it, logging out
// clears it. This is a deliberate single-tenant simplification for a local
// mock. Every method takes the caller's context so a future multi-session
// implementation can key the slot per caller without touching call sites.
package session

import (
	"context"

	"github.com/owenwexler/mockabase/internal/domain"
)

// Store is a single-slot session holder.
type Store interface {
	// Create overwrites the slot and returns the stored session.
	Create(ctx context.Context, s domain.Session) domain.Session
	// Current returns the slot contents; ok is false when logged out.
	// Absence is an ordinary outcome, never an error.
	Current(ctx context.Context) (domain.Session, bool)
	// Destroy clears the slot. Idempotent.
	Destroy(ctx context.Context)
}
