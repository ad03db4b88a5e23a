package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/oceangrid/battleship-backend/internal/apperror"
	"github.com/oceangrid/battleship-backend/internal/entity"
)

type SessionRepository interface {
	CreateOrUpdate(ctx context.Context, session *entity.Session) error
	GetByID(ctx context.Context, id string) (*entity.Session, error)
}

type dbSession struct {
	client *redis.Client
}

func NewSessionRepository(client *redis.Client) SessionRepository {
	return &dbSession{
		client: client,
	}
}

func (that *dbSession) CreateOrUpdate(ctx context.Context, session *entity.Session) error {
	sessionJSON, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("could not marshal session: %w", err)
	}

	sessionKey := "session:" + session.ID
	if err = that.client.Set(ctx, sessionKey, sessionJSON, 0).Err(); err != nil {
		return fmt.Errorf("%w: failed to set session: %w", apperror.ErrStoreFailure, err)
	}

	return nil
}

func (that *dbSession) GetByID(ctx context.Context, id string) (*entity.Session, error) {
	sessionKey := "session:" + id

	response, err := that.client.Get(ctx, sessionKey).Result()

	if errors.Is(err, redis.Nil) {
		return nil, apperror.ErrSessionNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("%w: failed to get session by id: %w", apperror.ErrStoreFailure, err)
	}

	var existingSession entity.Session
	if err = json.Unmarshal([]byte(response), &existingSession); err != nil {
		return nil, fmt.Errorf("%w: failed to unmarshal session: %w", apperror.ErrStoreFailure, err)
	}

	// A stored record is never trusted blindly; unexpected shapes are a
	// store failure, not a crash.
	if err = existingSession.Normalize(); err != nil {
		return nil, fmt.Errorf("%w: corrupt session record: %w", apperror.ErrStoreFailure, err)
	}

	return &existingSession, nil
}
