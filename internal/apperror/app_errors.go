package apperror

import "errors"

var (
	ErrSessionNotFound     = errors.New("session not found")
	ErrPlayerNotFound      = errors.New("player not found")
	ErrNotInSession        = errors.New("player is not part of this session")
	ErrOutOfBounds         = errors.New("shot position is outside the board")
	ErrOpponentUnavailable = errors.New("opponent has no live connection")
	ErrDuplicateIdentity   = errors.New("player id is already connected")
	ErrStoreFailure        = errors.New("session store failure")

	ErrGameFinished   = errors.New("game is already finished")
	ErrGameNotStarted = errors.New("both boards are not set yet")
	ErrNotYourTurn    = errors.New("it's not your turn")
)
