package entity

// Inbound actions.
const (
	ActionCreateGame = "create_game"
	ActionJoinGame   = "join_game"
	ActionMakeMove   = "make_move"
	ActionResetGame  = "reset_game"
)

// Outbound events.
const (
	EventConnected    = "connected"
	EventGameCreated  = "game_created"
	EventGameJoined   = "game_joined"
	EventPlayerJoined = "player_joined"
	EventMoveMade     = "move_made"
	EventGameReset    = "game_reset"
	EventError        = "error"
)

// Event is an outbound message addressed to a room or a single connection.
type Event struct {
	Name    string
	Payload any
}

type GameEnteredPayload struct {
	GameID       string `json:"gameId"`
	PlayerNumber Mark   `json:"playerNumber"`
	GameState    State  `json:"gameState"`
}

type PlayerJoinedPayload struct {
	PlayerNumber Mark   `json:"playerNumber"`
	PlayerName   string `json:"playerName,omitempty"`
}

type MoveMadePayload struct {
	Board         Board `json:"board"`
	CurrentPlayer Mark  `json:"currentPlayer"`
	Winner        Mark  `json:"winner"`
	LastMove      Move  `json:"lastMove"`
	Draw          bool  `json:"draw,omitempty"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

type ConnectedPayload struct {
	Message string `json:"message"`
	SID     string `json:"sid"`
}

func NewGameCreated(game *Game) *Event {
	return &Event{
		Name: EventGameCreated,
		Payload: GameEnteredPayload{
			GameID:       game.ID,
			PlayerNumber: Player1,
			GameState:    game.State(),
		},
	}
}

func NewGameJoined(game *Game) *Event {
	return &Event{
		Name: EventGameJoined,
		Payload: GameEnteredPayload{
			GameID:       game.ID,
			PlayerNumber: Player2,
			GameState:    game.State(),
		},
	}
}

func NewPlayerJoined(game *Game) *Event {
	payload := PlayerJoinedPayload{PlayerNumber: Player2}
	if player := game.Player(Player2); player != nil {
		payload.PlayerName = player.Name
	}

	return &Event{Name: EventPlayerJoined, Payload: payload}
}

func NewMoveMade(game *Game) *Event {
	payload := MoveMadePayload{
		Board:         game.Board,
		CurrentPlayer: game.CurrentPlayer,
		Winner:        game.Winner,
		Draw:          game.IsDraw(),
	}
	if game.LastMove != nil {
		payload.LastMove = *game.LastMove
	}

	return &Event{Name: EventMoveMade, Payload: payload}
}

func NewGameReset(game *Game) *Event {
	return &Event{Name: EventGameReset, Payload: game.State()}
}

func NewError(message string) *Event {
	return &Event{Name: EventError, Payload: ErrorPayload{Message: message}}
}

func NewConnected(connID string) *Event {
	return &Event{
		Name:    EventConnected,
		Payload: ConnectedPayload{Message: "Connected to server", SID: connID},
	}
}
