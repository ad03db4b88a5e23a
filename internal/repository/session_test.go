package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oceangrid/battleship-backend/internal/apperror"
	"github.com/oceangrid/battleship-backend/internal/entity"
	"github.com/oceangrid/battleship-backend/testing/suite"
)

func TestSessionRepository_CreateOrUpdate(t *testing.T) {
	ctx, st := suite.New(t)

	sessionRepo := NewSessionRepository(st.Sessions)

	// Given: a fresh session
	session := entity.NewSession("123",
		&entity.Player{ID: "p1", Username: "alice"},
		&entity.Player{ID: "p2", Username: "bob"},
	)

	// When: CreateOrUpdate is called
	err := sessionRepo.CreateOrUpdate(ctx, session)

	// Then: no error should be returned
	require.NoError(t, err)
}

func TestSessionRepository_GetByID(t *testing.T) {
	t.Run("GetByID_Success", func(t *testing.T) {
		ctx, st := suite.New(t)

		sessionRepo := NewSessionRepository(st.Sessions)

		// Given: a persisted session with one recorded turn
		session := entity.NewSession("123",
			&entity.Player{ID: "p1", Username: "alice"},
			&entity.Player{ID: "p2", Username: "bob"},
		)
		session.Phase = entity.PhasePlayer2Turn
		require.NoError(t, session.RecordTurn("p1", entity.Turn{
			ID:       "t1",
			FiredBy:  "p1",
			Position: entity.Position{Row: 4, Col: 2},
			Result:   entity.ResultMiss,
		}))

		err := sessionRepo.CreateOrUpdate(ctx, session)
		require.NoError(t, err)

		// When: GetByID is called with the existing ID
		retrieved, err := sessionRepo.GetByID(ctx, session.ID)

		// Then: the retrieved session should match the saved one
		require.NoError(t, err)
		require.Equal(t, session.ID, retrieved.ID)
		require.Equal(t, session.Phase, retrieved.Phase)
		require.Equal(t, "p1", retrieved.Player1.ID)
		require.Equal(t, "bob", retrieved.Player2.Username)

		index := entity.PositionToIndex(entity.Position{Row: 4, Col: 2})
		turn, ok := retrieved.Player1Turns[index]
		require.True(t, ok)
		assert.Equal(t, entity.ResultMiss, turn.Result)
	})

	t.Run("GetByID_NotFound", func(t *testing.T) {
		ctx, st := suite.New(t)

		sessionRepo := NewSessionRepository(st.Sessions)

		// When: GetByID is called with a non-existent ID
		_, err := sessionRepo.GetByID(ctx, "9999999")

		// Then: ErrSessionNotFound should be returned
		require.ErrorIs(t, err, apperror.ErrSessionNotFound)
	})

	t.Run("GetByID_CorruptRecord", func(t *testing.T) {
		ctx, st := suite.New(t)

		sessionRepo := NewSessionRepository(st.Sessions)

		// Given: a stored record with a phase the engine does not know
		err := st.Sessions.Set(ctx, "session:rotten", `{"id":"rotten","phase":"upside_down"}`, 0).Err()
		require.NoError(t, err)

		// When: loading it
		_, err = sessionRepo.GetByID(ctx, "rotten")

		// Then: the record surfaces as a store failure, not a crash
		require.ErrorIs(t, err, apperror.ErrStoreFailure)
	})
}
