package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/owenwexler/mockabase/internal/domain"
	"github.com/owenwexler/mockabase/internal/password"
	"github.com/owenwexler/mockabase/internal/repository"
	"github.com/owenwexler/mockabase/internal/session"
)

// SeedUser is one entry of a seed request: a fixed id and login pair to
// register before a test run.
type SeedUser struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AccountService describes the credential lifecycle. Every failure is one of
// the domain.Error values; storage and hashing causes are logged here and
// never leak past this boundary.
type AccountService interface {
	Signup(ctx context.Context, id, email, pw string) (domain.PublicUser, error)
	Login(ctx context.Context, email, pw string) (domain.PublicUser, error)
	// ChangePassword requires the active session to belong to email.
	ChangePassword(ctx context.Context, email, newPassword string) error
	DeleteUser(ctx context.Context, id string) error
	DeleteUsers(ctx context.Context, ids []string) (int64, error)
	DeleteAll(ctx context.Context) error
	// Seed signs up each entry, skipping ones that fail (typically because
	// they already exist), and returns the identities that were created.
	Seed(ctx context.Context, entries []SeedUser) ([]domain.PublicUser, error)
}

type accountService struct {
	users       repository.UserRepository
	sessions    session.Store
	minPassword int
	logger      *logrus.Logger
}

// NewAccountService builds the service. minPassword is the shortest password
// Signup accepts before reporting weak_password; zero or negative disables
// the check (empty passwords are always rejected as missing_password).
func NewAccountService(users repository.UserRepository, sessions session.Store, minPassword int, logger *logrus.Logger) AccountService {
	return &accountService{
		users:       users,
		sessions:    sessions,
		minPassword: minPassword,
		logger:      logger,
	}
}

func (s *accountService) Signup(ctx context.Context, id, email, pw string) (domain.PublicUser, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return domain.PublicUser{}, domain.ErrMissingInputs
	}
	if pw == "" {
		return domain.PublicUser{}, domain.ErrMissingPassword
	}
	if s.minPassword > 0 && len(pw) < s.minPassword {
		return domain.PublicUser{}, domain.ErrWeakPassword
	}
	if id == "" {
		id = uuid.NewString()
	}

	hash, err := password.Hash(pw)
	if err != nil {
		s.logger.Errorf("signup %s: %v", email, err)
		return domain.PublicUser{}, domain.ErrInternalServer
	}

	now := time.Now().UTC().Truncate(time.Second)
	user := &domain.User{
		ID:               id,
		Email:            email,
		PasswordHash:     hash,
		EmailConfirmedAt: now,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	// The unique email index decides duplicates, so two racing signups for
	// the same address resolve at the storage boundary: one insert lands,
	// the other surfaces here.
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return domain.PublicUser{}, domain.ErrUserAlreadyExists
		}
		s.logger.Errorf("signup %s: %v", email, err)
		return domain.PublicUser{}, domain.ErrInternalServer
	}

	return user.Public(), nil
}

func (s *accountService) Login(ctx context.Context, email, pw string) (domain.PublicUser, error) {
	email = strings.TrimSpace(email)

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.PublicUser{}, domain.ErrUserNotFound
		}
		s.logger.Errorf("login %s: %v", email, err)
		return domain.PublicUser{}, domain.ErrInternalServer
	}

	if !password.Verify(pw, user.PasswordHash) {
		return domain.PublicUser{}, domain.ErrInvalidCredentials
	}

	return user.Public(), nil
}

func (s *accountService) ChangePassword(ctx context.Context, email, newPassword string) error {
	email = strings.TrimSpace(email)
	if email == "" || newPassword == "" {
		return domain.ErrMissingInputs
	}

	current, ok := s.sessions.Current(ctx)
	if !ok || current.Email != email {
		return domain.ErrInvalidCredentials
	}

	hash, err := password.Hash(newPassword)
	if err != nil {
		s.logger.Errorf("change password %s: %v", email, err)
		return domain.ErrInternalServer
	}

	if err := s.users.UpdatePassword(ctx, email, hash); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// session references a user deleted out from under it
			return domain.ErrUserNotFound
		}
		s.logger.Errorf("change password %s: %v", email, err)
		return domain.ErrInternalServer
	}
	return nil
}

func (s *accountService) DeleteUser(ctx context.Context, id string) error {
	if err := s.users.DeleteByID(ctx, id); err != nil {
		s.logger.Errorf("delete user %s: %v", id, err)
		return domain.ErrInternalServer
	}
	return nil
}

func (s *accountService) DeleteUsers(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, domain.ErrMissingInputs
	}

	deleted, err := s.users.DeleteByIDs(ctx, ids)
	if err != nil {
		s.logger.Errorf("delete %d users: %v", len(ids), err)
		return 0, domain.ErrInternalServer
	}
	return deleted, nil
}

func (s *accountService) DeleteAll(ctx context.Context) error {
	if err := s.users.DeleteAll(ctx); err != nil {
		s.logger.Errorf("delete all users: %v", err)
		return domain.ErrInternalServer
	}
	return nil
}

func (s *accountService) Seed(ctx context.Context, entries []SeedUser) ([]domain.PublicUser, error) {
	seeded := make([]domain.PublicUser, 0, len(entries))
	for _, entry := range entries {
		user, err := s.Signup(ctx, entry.ID, entry.Email, entry.Password)
		if err != nil {
			s.logger.Warnf("seed %s: %v", entry.Email, err)
			continue
		}
		seeded = append(seeded, user)
	}
	return seeded, nil
}
