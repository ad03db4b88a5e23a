// Package lobby tracks connected players that are not currently inside a
// session. Players leave the registry the instant they are paired into a
// session; session players reconnect directly into the session and never
// pass through here.
package lobby

import (
	"sort"
	"sync"

	"github.com/oceangrid/battleship-backend/internal/apperror"
	"github.com/oceangrid/battleship-backend/internal/entity"
)

type Registry struct {
	mu      sync.RWMutex
	players map[string]*entity.Player
}

func NewRegistry() *Registry {
	return &Registry{
		players: make(map[string]*entity.Player),
	}
}

// Register adds a player to the lobby. A second registration for the same id
// is rejected; the existing connection wins.
func (that *Registry) Register(player *entity.Player) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if _, ok := that.players[player.ID]; ok {
		return apperror.ErrDuplicateIdentity
	}

	that.players[player.ID] = player

	return nil
}

func (that *Registry) Unregister(playerID string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	delete(that.players, playerID)
}

func (that *Registry) Find(playerID string) (*entity.Player, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	player, ok := that.players[playerID]
	if !ok {
		return nil, apperror.ErrPlayerNotFound
	}

	copied := *player

	return &copied, nil
}

func (that *Registry) Contains(playerID string) bool {
	that.mu.RLock()
	defer that.mu.RUnlock()

	_, ok := that.players[playerID]

	return ok
}

func (that *Registry) SetUsername(playerID, username string) (*entity.Player, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	player, ok := that.players[playerID]
	if !ok {
		return nil, apperror.ErrPlayerNotFound
	}

	player.Username = username
	copied := *player

	return &copied, nil
}

// Roster - a copied, deterministically ordered snapshot of the lobby.
func (that *Registry) Roster() []entity.Player {
	that.mu.RLock()
	defer that.mu.RUnlock()

	roster := make([]entity.Player, 0, len(that.players))
	for _, player := range that.players {
		roster = append(roster, *player)
	}

	sort.Slice(roster, func(i, j int) bool { return roster[i].ID < roster[j].ID })

	return roster
}
