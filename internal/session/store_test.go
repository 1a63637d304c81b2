package session

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/owenwexler/mockabase/internal/domain"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestMemoryStoreSingleSlot(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	_, ok := s.Current(ctx)
	assert.False(t, ok)

	s.Create(ctx, domain.Session{ID: "u1", Email: "a@x.com"})
	s.Create(ctx, domain.Session{ID: "u2", Email: "b@x.com"})

	current, ok := s.Current(ctx)
	require.True(t, ok)
	assert.Equal(t, "u2", current.ID, "a new login overwrites the slot")

	s.Destroy(ctx)
	s.Destroy(ctx) // idempotent
	_, ok = s.Current(ctx)
	assert.False(t, ok)
}

func TestFileStorePersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.json")

	s, err := NewFileStore(path, testLogger())
	require.NoError(t, err)
	s.Create(ctx, domain.Session{ID: "u1", Email: "a@x.com"})

	reopened, err := NewFileStore(path, testLogger())
	require.NoError(t, err)
	current, ok := reopened.Current(ctx)
	require.True(t, ok)
	assert.Equal(t, domain.Session{ID: "u1", Email: "a@x.com"}, current)
}

func TestFileStoreDestroyWritesNull(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.json")

	s, err := NewFileStore(path, testLogger())
	require.NoError(t, err)
	s.Create(ctx, domain.Session{ID: "u1", Email: "a@x.com"})
	s.Destroy(ctx)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "null", string(raw))

	reopened, err := NewFileStore(path, testLogger())
	require.NoError(t, err)
	_, ok := reopened.Current(ctx)
	assert.False(t, ok)
}

func TestFileStoreToleratesCorruption(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{{{"), 0o600))

	s, err := NewFileStore(path, testLogger())
	require.NoError(t, err, "a corrupted session file must not fail startup")
	_, ok := s.Current(context.Background())
	assert.False(t, ok)
}
