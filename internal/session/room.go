package session

import (
	"sync"

	"github.com/rocketscienceinc/connectfour-backend/internal/entity"
)

// Room owns one game and serializes every access to it.
type Room struct {
	mu   sync.Mutex
	game *entity.Game
}

func NewRoom(game *entity.Game) *Room {
	return &Room{game: game}
}

// Do runs fn with exclusive access to the game. Calls on the same room are applied one at a time
// in the order they acquire the lock.
func (that *Room) Do(fn func(game *entity.Game) error) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	return fn(that.game)
}

// Snapshot returns a copy of the current game.
func (that *Room) Snapshot() *entity.Game {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.game.Clone()
}
