package repository

import (
	"context"
	"errors"

	"github.com/owenwexler/mockabase/internal/domain"
)

var (
	// ErrDuplicateEmail is returned by Create when the unique email
	// constraint rejects the insert. The constraint, not any pre-check, is
	// the source of truth for duplicates.
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrNotFound is returned by lookups that match no row.
	ErrNotFound = errors.New("user not found")
)

// UserRepository defines persistence operations for credential records.
type UserRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, user *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdatePassword(ctx context.Context, email, passwordHash string) error
	// DeleteByID removes one record; deleting an absent id is not an error.
	DeleteByID(ctx context.Context, id string) error
	// DeleteByIDs removes the given ids inside one transaction, batching as
	// needed to stay under the driver's bound-parameter limit, and returns
	// the number of rows actually removed.
	DeleteByIDs(ctx context.Context, ids []string) (int64, error)
	DeleteAll(ctx context.Context) error
}
