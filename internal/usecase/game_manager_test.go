package usecase

import (
	"context"
	"sync"
	"testing"

	"github.com/rocketscienceinc/connectfour-backend/internal/apperror"
	"github.com/rocketscienceinc/connectfour-backend/internal/entity"
	"github.com/rocketscienceinc/connectfour-backend/internal/session"
	"github.com/rocketscienceinc/connectfour-backend/testing/suite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockBroadcaster struct {
	mock.Mock
}

func (that *mockBroadcaster) JoinRoom(roomID, connID string) {
	that.Called(roomID, connID)
}

func (that *mockBroadcaster) BroadcastToRoom(roomID string, event *entity.Event, exceptConnID string) {
	that.Called(roomID, event, exceptConnID)
}

func (that *mockBroadcaster) SendTo(connID string, event *entity.Event) {
	that.Called(connID, event)
}

type mockSnapshotWriter struct {
	mock.Mock
}

func (that *mockSnapshotWriter) Enqueue(game *entity.Game) {
	that.Called(game)
}

// recordingBroadcaster keeps every room broadcast in delivery order.
type recordingBroadcaster struct {
	mu     sync.Mutex
	events []*entity.Event
}

func (that *recordingBroadcaster) JoinRoom(string, string) {}

func (that *recordingBroadcaster) BroadcastToRoom(_ string, event *entity.Event, _ string) {
	that.mu.Lock()
	that.events = append(that.events, event)
	that.mu.Unlock()
}

func (that *recordingBroadcaster) SendTo(string, *entity.Event) {}

func eventNamed(name string) interface{} {
	return mock.MatchedBy(func(event *entity.Event) bool { return event.Name == name })
}

func player(id, name, connID string) *entity.Player {
	return &entity.Player{ID: id, Name: name, ConnID: connID}
}

// newStartedManager returns a manager holding game G1 with Alice in slot 1 and Bob in slot 2.
func newStartedManager(t *testing.T, b broadcaster) *GameManager {
	t.Helper()

	ctx := context.Background()
	manager := NewGameManager(suite.NewLogger(), session.NewRegistry(), b, nil)

	_, err := manager.CreateGame(ctx, "G1", player("p1", "Alice", "c1"))
	require.NoError(t, err)
	_, err = manager.JoinGame(ctx, "G1", player("p2", "Bob", "c2"))
	require.NoError(t, err)

	return manager
}

func TestGameManager_CreateGame(t *testing.T) {
	ctx := context.Background()

	t.Run("Creator joins the room and receives game_created", func(t *testing.T) {
		// Given: a broadcaster expecting the creator to join and be notified
		b := &mockBroadcaster{}
		snapshots := &mockSnapshotWriter{}
		manager := NewGameManager(suite.NewLogger(), session.NewRegistry(), b, snapshots)

		b.On("JoinRoom", "G1", "c1").Once()
		b.On("SendTo", "c1", mock.MatchedBy(func(event *entity.Event) bool {
			payload, ok := event.Payload.(entity.GameEnteredPayload)
			return ok && event.Name == entity.EventGameCreated &&
				payload.PlayerNumber == entity.Player1 &&
				payload.GameState.CurrentPlayer == entity.Player1 &&
				payload.GameState.Board == entity.Board{}
		})).Once()
		snapshots.On("Enqueue", mock.AnythingOfType("*entity.Game")).Once()

		// When: Alice creates G1
		game, err := manager.CreateGame(ctx, "G1", player("p1", "Alice", "c1"))

		// Then: the game exists with Alice in slot 1
		require.NoError(t, err)
		assert.Equal(t, "p1", game.Player(entity.Player1).ID)
		assert.Equal(t, []string{"G1"}, manager.ActiveGames())
		b.AssertExpectations(t)
		snapshots.AssertExpectations(t)
	})

	t.Run("Creating an existing id replaces the game", func(t *testing.T) {
		b := &mockBroadcaster{}
		b.On("JoinRoom", mock.Anything, mock.Anything)
		b.On("SendTo", mock.Anything, mock.Anything)
		b.On("BroadcastToRoom", mock.Anything, mock.Anything, mock.Anything)
		manager := newStartedManager(t, b)

		_, err := manager.CreateGame(ctx, "G1", player("p9", "Eve", "c9"))
		require.NoError(t, err)

		game, err := manager.GetGame(ctx, "G1")
		require.NoError(t, err)
		assert.Equal(t, "p9", game.Player(entity.Player1).ID)
		assert.Equal(t, 1, game.PlayerCount())
		assert.Len(t, manager.ActiveGames(), 1)
	})
}

func TestGameManager_JoinGame(t *testing.T) {
	ctx := context.Background()

	t.Run("Joiner gets game_joined and the room gets player_joined", func(t *testing.T) {
		b := &mockBroadcaster{}
		b.On("JoinRoom", "G1", "c1").Once()
		b.On("SendTo", "c1", eventNamed(entity.EventGameCreated)).Once()
		manager := NewGameManager(suite.NewLogger(), session.NewRegistry(), b, nil)
		_, err := manager.CreateGame(ctx, "G1", player("p1", "Alice", "c1"))
		require.NoError(t, err)

		b.On("JoinRoom", "G1", "c2").Once()
		b.On("SendTo", "c2", mock.MatchedBy(func(event *entity.Event) bool {
			payload, ok := event.Payload.(entity.GameEnteredPayload)
			return ok && event.Name == entity.EventGameJoined && payload.PlayerNumber == entity.Player2
		})).Once()
		b.On("BroadcastToRoom", "G1", eventNamed(entity.EventPlayerJoined), "c2").Once()

		game, err := manager.JoinGame(ctx, "G1", player("p2", "Bob", "c2"))

		require.NoError(t, err)
		assert.Equal(t, "Bob", game.Player(entity.Player2).Name)
		b.AssertExpectations(t)
	})

	t.Run("Error on unknown game", func(t *testing.T) {
		b := &mockBroadcaster{}
		manager := NewGameManager(suite.NewLogger(), session.NewRegistry(), b, nil)

		game, err := manager.JoinGame(ctx, "nope", player("p2", "Bob", "c2"))

		require.ErrorIs(t, err, apperror.ErrRoomNotFound)
		assert.Nil(t, game)
		b.AssertNotCalled(t, "BroadcastToRoom", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Error on full game is not broadcast", func(t *testing.T) {
		b := &mockBroadcaster{}
		b.On("JoinRoom", mock.Anything, mock.Anything).Twice()
		b.On("SendTo", mock.Anything, mock.Anything).Twice()
		b.On("BroadcastToRoom", mock.Anything, mock.Anything, mock.Anything).Once()
		manager := newStartedManager(t, b)

		game, err := manager.JoinGame(ctx, "G1", player("p3", "Carol", "c3"))

		require.ErrorIs(t, err, apperror.ErrRoomFull)
		assert.Nil(t, game)
		b.AssertExpectations(t)
	})
}

func TestGameManager_MakeMove(t *testing.T) {
	ctx := context.Background()

	t.Run("Successful move is broadcast to the whole room", func(t *testing.T) {
		b := &recordingBroadcaster{}
		manager := newStartedManager(t, b)

		game, err := manager.MakeMove(ctx, "G1", "p1", 3)

		require.NoError(t, err)
		assert.Equal(t, entity.Player1, game.Board[5][3])
		require.Len(t, b.events, 2)

		moveMade := b.events[1]
		assert.Equal(t, entity.EventMoveMade, moveMade.Name)
		payload, ok := moveMade.Payload.(entity.MoveMadePayload)
		require.True(t, ok)
		assert.Equal(t, entity.Player2, payload.CurrentPlayer)
		assert.Equal(t, entity.None, payload.Winner)
		assert.Equal(t, entity.Move{Row: 5, Col: 3}, payload.LastMove)
	})

	t.Run("Four in a column wins and keeps the turn", func(t *testing.T) {
		b := &recordingBroadcaster{}
		manager := newStartedManager(t, b)

		for range 3 {
			_, err := manager.MakeMove(ctx, "G1", "p1", 0)
			require.NoError(t, err)
			_, err = manager.MakeMove(ctx, "G1", "p2", 6)
			require.NoError(t, err)
		}

		game, err := manager.MakeMove(ctx, "G1", "p1", 0)

		require.NoError(t, err)
		assert.Equal(t, entity.Player1, game.Winner)
		assert.Equal(t, entity.Player1, game.CurrentPlayer)
		assert.Equal(t, &entity.Move{Row: 2, Col: 0}, game.LastMove)
	})

	t.Run("Error on wrong turn leaves the board unchanged", func(t *testing.T) {
		b := &recordingBroadcaster{}
		manager := newStartedManager(t, b)

		game, err := manager.MakeMove(ctx, "G1", "p2", 3)

		require.ErrorIs(t, err, apperror.ErrNotYourTurn)
		assert.Nil(t, game)

		stored, err := manager.GetGame(ctx, "G1")
		require.NoError(t, err)
		assert.Equal(t, entity.Board{}, stored.Board)
		assert.Len(t, b.events, 1)
	})

	t.Run("Error on invalid column", func(t *testing.T) {
		manager := newStartedManager(t, &recordingBroadcaster{})

		_, err := manager.MakeMove(ctx, "G1", "p1", 7)

		require.ErrorIs(t, err, apperror.ErrInvalidColumn)
	})

	t.Run("Error on unknown game", func(t *testing.T) {
		manager := newStartedManager(t, &recordingBroadcaster{})

		_, err := manager.MakeMove(ctx, "G2", "p1", 0)

		require.ErrorIs(t, err, apperror.ErrRoomNotFound)
	})

	t.Run("Error before the second player joins", func(t *testing.T) {
		b := &recordingBroadcaster{}
		manager := NewGameManager(suite.NewLogger(), session.NewRegistry(), b, nil)
		_, err := manager.CreateGame(ctx, "G1", player("p1", "Alice", "c1"))
		require.NoError(t, err)

		_, err = manager.MakeMove(ctx, "G1", "p1", 0)

		require.ErrorIs(t, err, apperror.ErrNotEnoughPlayers)
	})
}

func TestGameManager_MakeMove_Concurrent(t *testing.T) {
	// Given: a started game and a burst of moves from both players into one column
	ctx := context.Background()
	b := &recordingBroadcaster{}
	manager := newStartedManager(t, b)

	var wg sync.WaitGroup
	for i := range 40 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			playerID := "p1"
			if i%2 == 1 {
				playerID = "p2"
			}
			_, _ = manager.MakeMove(ctx, "G1", playerID, 2)
		}(i)
	}
	wg.Wait()

	// Then: the column holds at most six pieces, each broadcast in a distinct row, bottom to top
	game, err := manager.GetGame(ctx, "G1")
	require.NoError(t, err)

	var rows []int
	var turns []entity.Mark
	for _, event := range b.events {
		if payload, ok := event.Payload.(entity.MoveMadePayload); ok {
			rows = append(rows, payload.LastMove.Row)
			turns = append(turns, payload.CurrentPlayer)
		}
	}

	require.Equal(t, game.Board.Height(2), len(rows))
	for i, row := range rows {
		assert.Equal(t, entity.Rows-1-i, row)
	}
	for i, turn := range turns {
		if i%2 == 0 {
			assert.Equal(t, entity.Player2, turn)
		} else {
			assert.Equal(t, entity.Player1, turn)
		}
	}
}

func TestGameManager_ResetGame(t *testing.T) {
	ctx := context.Background()

	t.Run("Reset clears the board and keeps players", func(t *testing.T) {
		b := &recordingBroadcaster{}
		manager := newStartedManager(t, b)
		_, err := manager.MakeMove(ctx, "G1", "p1", 0)
		require.NoError(t, err)

		_, err = manager.ResetGame(ctx, "G1")
		require.NoError(t, err)
		game, err := manager.ResetGame(ctx, "G1")
		require.NoError(t, err)

		assert.Equal(t, entity.Board{}, game.Board)
		assert.Equal(t, entity.Player1, game.CurrentPlayer)
		assert.Equal(t, entity.None, game.Winner)
		assert.Equal(t, 2, game.PlayerCount())

		last := b.events[len(b.events)-1]
		assert.Equal(t, entity.EventGameReset, last.Name)
	})

	t.Run("Error on unknown game", func(t *testing.T) {
		manager := newStartedManager(t, &recordingBroadcaster{})

		_, err := manager.ResetGame(ctx, "G2")

		require.ErrorIs(t, err, apperror.ErrRoomNotFound)
	})
}
