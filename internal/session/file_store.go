package session

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/owenwexler/mockabase/internal/domain"
)

// fileEnvelope is the on-disk shape: {"user":{...}} while logged in, a bare
// JSON null while logged out.
type fileEnvelope struct {
	User domain.Session `json:"user"`
}

// FileStore persists the session slot as a JSON file so the session survives
// server restarts. Reads and writes go through an in-process copy of the
// slot; the file is only read once at startup.
type FileStore struct {
	mu      sync.Mutex
	path    string
	current *domain.Session
	logger  *logrus.Logger
}

// NewFileStore loads (or creates) the session file at path. A missing,
// empty, or null file means no session; a corrupted file is treated the same
// way and logged rather than failing startup.
func NewFileStore(path string, logger *logrus.Logger) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	s := &FileStore{path: path, logger: logger}

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, err
	}

	var env *fileEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		logger.Warnf("discarding unreadable session file %s: %v", path, err)
		return s, nil
	}
	if env != nil && env.User.Email != "" {
		s.current = &env.User
	}
	return s, nil
}

func (s *FileStore) Create(_ context.Context, sess domain.Session) domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = &sess
	s.persist(&fileEnvelope{User: sess})
	return sess
}

func (s *FileStore) Current(_ context.Context) (domain.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return domain.Session{}, false
	}
	return *s.current, true
}

func (s *FileStore) Destroy(_ context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = nil
	s.persist(nil)
}

// persist writes the envelope (or null) to disk. Failures are logged and
// otherwise swallowed: the in-process slot is authoritative for the lifetime
// of the server, the file only matters across restarts.
func (s *FileStore) persist(env *fileEnvelope) {
	raw, err := json.Marshal(env)
	if err != nil {
		s.logger.Warnf("marshal session: %v", err)
		return
	}
	if err := os.WriteFile(s.path, raw, 0o600); err != nil {
		s.logger.Warnf("write session file %s: %v", s.path, err)
	}
}
