package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/connectfour-backend/internal/apperror"
	"github.com/rocketscienceinc/connectfour-backend/internal/entity"
)

func (that *Server) handleCreateGame(ctx context.Context, msg *Message, client *Client) error {
	log := that.logger.With("method", "handleCreateGame", "connID", client.id)

	payloadReq, err := that.parsePayload(msg, client)
	if err != nil {
		return err
	}

	player := &entity.Player{ID: payloadReq.PlayerID, Name: payloadReq.PlayerName, ConnID: client.id}

	if _, err = that.uGame.CreateGame(ctx, payloadReq.GameID, player); err != nil {
		that.sendError(client, errorMessage(err, payloadReq.GameID))
		return fmt.Errorf("failed to create game: %w", err)
	}

	log.Info("game created", "gameID", payloadReq.GameID, "playerID", player.ID)

	return nil
}

func (that *Server) handleJoinGame(ctx context.Context, msg *Message, client *Client) error {
	log := that.logger.With("method", "handleJoinGame", "connID", client.id)

	payloadReq, err := that.parsePayload(msg, client)
	if err != nil {
		return err
	}

	log = log.With("gameID", payloadReq.GameID, "playerID", payloadReq.PlayerID)

	player := &entity.Player{ID: payloadReq.PlayerID, Name: payloadReq.PlayerName, ConnID: client.id}

	if _, err = that.uGame.JoinGame(ctx, payloadReq.GameID, player); err != nil {
		log.Info("join rejected", "error", err)
		that.sendError(client, errorMessage(err, payloadReq.GameID))
		return nil
	}

	log.Info("player joined game")

	return nil
}

func (that *Server) handleMakeMove(ctx context.Context, msg *Message, client *Client) error {
	log := that.logger.With("method", "handleMakeMove", "connID", client.id)

	payloadReq, err := that.parsePayload(msg, client)
	if err != nil {
		return err
	}

	log = log.With("gameID", payloadReq.GameID, "playerID", payloadReq.PlayerID)

	if payloadReq.Col == nil || !entity.ValidColumn(*payloadReq.Col) {
		log.Info("move with invalid column")
		that.sendError(client, errorMessage(apperror.ErrInvalidColumn, payloadReq.GameID))
		return nil
	}

	if _, err = that.uGame.MakeMove(ctx, payloadReq.GameID, payloadReq.PlayerID, *payloadReq.Col); err != nil {
		log.Info("move rejected", "col", *payloadReq.Col, "error", err)
		that.sendError(client, errorMessage(err, payloadReq.GameID))
		return nil
	}

	return nil
}

func (that *Server) handleResetGame(ctx context.Context, msg *Message, client *Client) error {
	log := that.logger.With("method", "handleResetGame", "connID", client.id)

	var payloadReq GamePayload
	if err := json.Unmarshal(msg.Payload, &payloadReq); err != nil {
		that.sendError(client, "Invalid request")
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	if _, err := that.uGame.ResetGame(ctx, payloadReq.GameID); err != nil {
		if errors.Is(err, apperror.ErrRoomNotFound) {
			log.Debug("reset for unknown game ignored", "gameID", payloadReq.GameID)
			return nil
		}
		return fmt.Errorf("failed to reset game: %w", err)
	}

	log.Info("game reset", "gameID", payloadReq.GameID)

	return nil
}

// parsePayload decodes a game payload and rejects it when the ids are missing.
func (that *Server) parsePayload(msg *Message, client *Client) (*GamePayload, error) {
	var payloadReq GamePayload

	if err := json.Unmarshal(msg.Payload, &payloadReq); err != nil {
		that.sendError(client, "Invalid request")
		return nil, fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	if payloadReq.GameID == "" {
		that.sendError(client, "Game ID is required")
		return nil, fmt.Errorf("%s: game id is missing", msg.Action)
	}

	if payloadReq.PlayerID == "" {
		that.sendError(client, "Player ID is required")
		return nil, fmt.Errorf("%s: player id is missing", msg.Action)
	}

	return &payloadReq, nil
}

func (that *Server) sendError(client *Client, message string) {
	that.hub.SendTo(client.id, entity.NewError(message))
}

// errorMessage maps a game error to the text shown to the player.
func errorMessage(err error, gameID string) string {
	switch {
	case errors.Is(err, apperror.ErrRoomNotFound):
		return fmt.Sprintf("Game %s not found. Please check the Game ID.", gameID)
	case errors.Is(err, apperror.ErrRoomFull):
		return "Game is full. Maximum 2 players allowed."
	case errors.Is(err, apperror.ErrNotEnoughPlayers):
		return "Waiting for the second player"
	case errors.Is(err, apperror.ErrPlayerNotInSession):
		return "You are not in this game"
	case errors.Is(err, apperror.ErrNotYourTurn):
		return "Not your turn"
	case errors.Is(err, apperror.ErrColumnFull):
		return "Column is full"
	case errors.Is(err, apperror.ErrGameFinished):
		return "Game is over"
	case errors.Is(err, apperror.ErrInvalidColumn):
		return "Invalid move"
	default:
		return "Something went wrong"
	}
}
