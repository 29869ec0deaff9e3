package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/connectfour-backend/internal/apperror"
	"github.com/rocketscienceinc/connectfour-backend/internal/connectfour"
	"github.com/rocketscienceinc/connectfour-backend/internal/entity"
	"github.com/rocketscienceinc/connectfour-backend/internal/session"
)

type broadcaster interface {
	JoinRoom(roomID, connID string)
	BroadcastToRoom(roomID string, event *entity.Event, exceptConnID string)
	SendTo(connID string, event *entity.Event)
}

type snapshotWriter interface {
	Enqueue(game *entity.Game)
}

type GameManager struct {
	logger      *slog.Logger
	registry    *session.Registry
	broadcaster broadcaster
	snapshots   snapshotWriter
}

// NewGameManager wires the registry and the broadcaster. snapshots may be nil.
func NewGameManager(logger *slog.Logger, registry *session.Registry, broadcaster broadcaster, snapshots snapshotWriter) *GameManager {
	return &GameManager{
		logger:      logger.With("component", "game_manager"),
		registry:    registry,
		broadcaster: broadcaster,
		snapshots:   snapshots,
	}
}

// CreateGame installs a new game with player in slot 1. An existing game with the same id is replaced.
func (that *GameManager) CreateGame(_ context.Context, gameID string, player *entity.Player) (*entity.Game, error) {
	log := that.logger.With("method", "CreateGame", "gameID", gameID)

	room := session.NewRoom(connectfour.Create(gameID, player))

	var created *entity.Game
	_ = room.Do(func(game *entity.Game) error {
		if _, exists := that.registry.Get(gameID); exists {
			log.Warn("game id already in use, replacing it")
		}
		that.registry.Put(gameID, room)

		that.broadcaster.JoinRoom(gameID, player.ConnID)
		that.broadcaster.SendTo(player.ConnID, entity.NewGameCreated(game))

		created = game.Clone()
		that.saveSnapshot(created)

		return nil
	})

	log.Info("game created", "playerID", player.ID)

	return created, nil
}

// JoinGame seats player in slot 2 of an existing game.
func (that *GameManager) JoinGame(_ context.Context, gameID string, player *entity.Player) (*entity.Game, error) {
	log := that.logger.With("method", "JoinGame", "gameID", gameID)

	room, err := that.getRoom(gameID)
	if err != nil {
		return nil, err
	}

	var joined *entity.Game
	err = room.Do(func(game *entity.Game) error {
		if err = connectfour.Join(game, player); err != nil {
			return err
		}

		that.broadcaster.JoinRoom(gameID, player.ConnID)
		that.broadcaster.SendTo(player.ConnID, entity.NewGameJoined(game))
		that.broadcaster.BroadcastToRoom(gameID, entity.NewPlayerJoined(game), player.ConnID)

		joined = game.Clone()
		that.saveSnapshot(joined)

		return nil
	})
	if err != nil {
		log.Info("failed to join game", "playerID", player.ID, "error", err)
		return nil, fmt.Errorf("failed to join game: %w", err)
	}

	log.Info("player joined", "playerID", player.ID)

	return joined, nil
}

// MakeMove applies a drop by playerID and broadcasts the result to the whole room.
func (that *GameManager) MakeMove(_ context.Context, gameID, playerID string, col int) (*entity.Game, error) {
	log := that.logger.With("method", "MakeMove", "gameID", gameID, "playerID", playerID)

	if !entity.ValidColumn(col) {
		return nil, fmt.Errorf("%w: column %d", apperror.ErrInvalidColumn, col)
	}

	room, err := that.getRoom(gameID)
	if err != nil {
		return nil, err
	}

	var moved *entity.Game
	err = room.Do(func(game *entity.Game) error {
		if _, err = connectfour.MakeMove(game, playerID, col); err != nil {
			return err
		}

		that.broadcaster.BroadcastToRoom(gameID, entity.NewMoveMade(game), "")

		moved = game.Clone()
		that.saveSnapshot(moved)

		return nil
	})
	if err != nil {
		log.Debug("move rejected", "col", col, "error", err)
		return nil, fmt.Errorf("failed make move: %w", err)
	}

	log.Info("move made", "row", moved.LastMove.Row, "col", col, "winner", int(moved.Winner))

	return moved, nil
}

// ResetGame clears the board of an existing game, players keep their slots.
func (that *GameManager) ResetGame(_ context.Context, gameID string) (*entity.Game, error) {
	log := that.logger.With("method", "ResetGame", "gameID", gameID)

	room, err := that.getRoom(gameID)
	if err != nil {
		return nil, err
	}

	var reset *entity.Game
	_ = room.Do(func(game *entity.Game) error {
		connectfour.Reset(game)
		that.broadcaster.BroadcastToRoom(gameID, entity.NewGameReset(game), "")

		reset = game.Clone()
		that.saveSnapshot(reset)

		return nil
	})

	log.Info("game reset")

	return reset, nil
}

// GetGame returns a copy of the game stored under gameID.
func (that *GameManager) GetGame(_ context.Context, gameID string) (*entity.Game, error) {
	room, err := that.getRoom(gameID)
	if err != nil {
		return nil, err
	}

	return room.Snapshot(), nil
}

// ActiveGames lists the ids of every game held in memory.
func (that *GameManager) ActiveGames() []string {
	return that.registry.IDs()
}

func (that *GameManager) getRoom(gameID string) (*session.Room, error) {
	room, ok := that.registry.Get(gameID)
	if !ok {
		return nil, fmt.Errorf("%w: game id %s", apperror.ErrRoomNotFound, gameID)
	}

	return room, nil
}

func (that *GameManager) saveSnapshot(game *entity.Game) {
	if that.snapshots == nil || game == nil {
		return
	}

	that.snapshots.Enqueue(game)
}
