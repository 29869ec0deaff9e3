package apperror

import "errors"

var (
	ErrRoomNotFound       = errors.New("game not found")
	ErrRoomFull           = errors.New("game is full")
	ErrNotEnoughPlayers   = errors.New("game has not enough players")
	ErrPlayerNotInSession = errors.New("player is not in this game")
	ErrNotYourTurn        = errors.New("it's not your turn")
	ErrColumnFull         = errors.New("column is full")
	ErrInvalidColumn      = errors.New("invalid column index")
	ErrGameFinished       = errors.New("game is already finished")
)
