package connectfour

import (
	"fmt"

	"github.com/rocketscienceinc/connectfour-backend/internal/apperror"
	"github.com/rocketscienceinc/connectfour-backend/internal/entity"
)

// Create starts a new game with the creator in slot 1.
func Create(gameID string, creator *entity.Player) *entity.Game {
	game := entity.NewGame(gameID)
	game.Players[entity.Player1] = creator

	return game
}

// Join seats player in slot 2.
func Join(game *entity.Game, player *entity.Player) error {
	if _, ok := game.Players[entity.Player2]; ok {
		return fmt.Errorf("%w: game id %s", apperror.ErrRoomFull, game.ID)
	}

	game.Players[entity.Player2] = player

	return nil
}

// MakeMove drops the piece of playerID into col and returns the row it landed in.
// The game is left unchanged on error.
func MakeMove(game *entity.Game, playerID string, col int) (int, error) {
	slot, err := validateMove(game, playerID)
	if err != nil {
		return -1, fmt.Errorf("invalid move: %w", err)
	}

	board, row, err := game.Board.Drop(col, slot)
	if err != nil {
		return -1, fmt.Errorf("invalid move: %w", err)
	}

	game.Board = board
	game.LastMove = &entity.Move{Row: row, Col: col}
	updateGameStatus(game, slot, row, col)

	return row, nil
}

// Reset clears the board and the winner, slots are kept.
func Reset(game *entity.Game) {
	game.Board = entity.Board{}
	game.CurrentPlayer = entity.Player1
	game.Winner = entity.None
	game.LastMove = nil
}

// validateMove - resolves the slot of the mover and checks it may play now.
func validateMove(game *entity.Game, playerID string) (entity.Mark, error) {
	if game.PlayerCount() < 2 {
		return entity.None, apperror.ErrNotEnoughPlayers
	}

	slot := game.SlotOf(playerID)
	if slot == entity.None {
		return entity.None, apperror.ErrPlayerNotInSession
	}

	if game.IsFinished() {
		return entity.None, apperror.ErrGameFinished
	}

	if game.CurrentPlayer != slot {
		return entity.None, apperror.ErrNotYourTurn
	}

	return slot, nil
}

// updateGameStatus - records a winner or passes the turn.
func updateGameStatus(game *entity.Game, slot entity.Mark, row, col int) {
	if winner := game.Board.WinnerAt(row, col); winner != entity.None {
		game.Winner = winner
		return
	}

	game.CurrentPlayer = slot.Opponent()
}
