package websocket

import (
	"encoding/json"
	"fmt"

	"github.com/rocketscienceinc/connectfour-backend/internal/entity"
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// GamePayload is the body of every inbound game action.
type GamePayload struct {
	GameID     string `json:"gameId"`
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName,omitempty"`
	Col        *int   `json:"col,omitempty"`
}

func encodeEvent(event *entity.Event) ([]byte, error) {
	payload, err := json.Marshal(event.Payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	data, err := json.Marshal(Message{Action: event.Name, Payload: payload})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal message: %w", err)
	}

	return data, nil
}
