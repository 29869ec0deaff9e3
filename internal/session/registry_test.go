package session

import (
	"fmt"
	"sync"
	"testing"

	"github.com/rocketscienceinc/connectfour-backend/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	t.Run("Get returns the stored room", func(t *testing.T) {
		registry := NewRegistry()
		room := NewRoom(entity.NewGame("G1"))

		registry.Put("G1", room)

		got, ok := registry.Get("G1")
		require.True(t, ok)
		assert.Same(t, room, got)
	})

	t.Run("Get reports missing rooms", func(t *testing.T) {
		registry := NewRegistry()

		_, ok := registry.Get("missing")

		assert.False(t, ok)
	})

	t.Run("Put replaces an existing room", func(t *testing.T) {
		registry := NewRegistry()
		first := NewRoom(entity.NewGame("G1"))
		second := NewRoom(entity.NewGame("G1"))

		registry.Put("G1", first)
		registry.Put("G1", second)

		got, ok := registry.Get("G1")
		require.True(t, ok)
		assert.Same(t, second, got)
		assert.Equal(t, 1, registry.Len())
	})

	t.Run("Delete removes the room", func(t *testing.T) {
		registry := NewRegistry()
		registry.Put("G1", NewRoom(entity.NewGame("G1")))

		registry.Delete("G1")

		_, ok := registry.Get("G1")
		assert.False(t, ok)
		assert.Equal(t, 0, registry.Len())
	})

	t.Run("IDs are sorted across shards", func(t *testing.T) {
		registry := NewRegistryWithShards(4)
		for _, id := range []string{"c", "a", "d", "b"} {
			registry.Put(id, NewRoom(entity.NewGame(id)))
		}

		assert.Equal(t, []string{"a", "b", "c", "d"}, registry.IDs())
	})

	t.Run("Invalid shard count falls back to one shard", func(t *testing.T) {
		registry := NewRegistryWithShards(0)
		registry.Put("G1", NewRoom(entity.NewGame("G1")))

		assert.Len(t, registry.shards, 1)
		assert.Equal(t, 1, registry.Len())
	})
}

func TestRegistry_Concurrent(t *testing.T) {
	// Given: many goroutines creating and reading distinct rooms
	registry := NewRegistry()
	const rooms = 200

	var wg sync.WaitGroup
	for i := range rooms {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			id := fmt.Sprintf("room-%d", i)
			registry.Put(id, NewRoom(entity.NewGame(id)))

			room, ok := registry.Get(id)
			assert.True(t, ok)
			assert.Equal(t, id, room.Snapshot().ID)
		}(i)
	}
	wg.Wait()

	// Then: every room is present exactly once
	assert.Equal(t, rooms, registry.Len())
	assert.Len(t, registry.IDs(), rooms)
}

func TestRoom_Do(t *testing.T) {
	// Given: a room whose game counts mutations through the board
	room := NewRoom(entity.NewGame("G1"))
	const workers = 50

	// When: many goroutines run a read-modify-write through Do
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()

			_ = room.Do(func(game *entity.Game) error {
				count := game.Board[0][0]
				game.Board[0][0] = count + 1
				return nil
			})
		}()
	}
	wg.Wait()

	// Then: no update was lost
	assert.Equal(t, entity.Mark(workers), room.Snapshot().Board[0][0])
}

func TestRoom_Snapshot(t *testing.T) {
	game := entity.NewGame("G1")
	game.Players[entity.Player1] = &entity.Player{ID: "p1"}
	room := NewRoom(game)

	snapshot := room.Snapshot()
	snapshot.Players[entity.Player1].ID = "changed"
	snapshot.Board[5][0] = entity.Player1

	_ = room.Do(func(game *entity.Game) error {
		assert.Equal(t, "p1", game.Players[entity.Player1].ID)
		assert.Equal(t, entity.None, game.Board[5][0])
		return nil
	})
}
