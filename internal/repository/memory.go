package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/oceangrid/battleship-backend/internal/apperror"
	"github.com/oceangrid/battleship-backend/internal/entity"
)

// memorySession is an in-memory SessionRepository with the same contract as
// the redis-backed one. Used for tests and single-binary development runs.
type memorySession struct {
	mu       sync.RWMutex
	sessions map[string][]byte
}

func NewMemorySessionRepository() SessionRepository {
	return &memorySession{
		sessions: make(map[string][]byte),
	}
}

func (that *memorySession) CreateOrUpdate(_ context.Context, session *entity.Session) error {
	sessionJSON, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("could not marshal session: %w", err)
	}

	that.mu.Lock()
	defer that.mu.Unlock()
	that.sessions[session.ID] = sessionJSON

	return nil
}

func (that *memorySession) GetByID(_ context.Context, id string) (*entity.Session, error) {
	that.mu.RLock()
	sessionJSON, ok := that.sessions[id]
	that.mu.RUnlock()

	if !ok {
		return nil, apperror.ErrSessionNotFound
	}

	var existingSession entity.Session
	if err := json.Unmarshal(sessionJSON, &existingSession); err != nil {
		return nil, fmt.Errorf("%w: failed to unmarshal session: %w", apperror.ErrStoreFailure, err)
	}

	if err := existingSession.Normalize(); err != nil {
		return nil, fmt.Errorf("%w: corrupt session record: %w", apperror.ErrStoreFailure, err)
	}

	return &existingSession, nil
}
