package entity

const (
	StatusFinished = "finished"
	StatusOngoing  = "ongoing"
	StatusWaiting  = "waiting"
)

// Move is the cell filled by the last applied drop.
type Move struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Game is the state of one room. It carries no locking of its own,
// callers serialize access through the room that owns it.
type Game struct {
	ID            string           `json:"gameId"`
	Board         Board            `json:"board"`
	Players       map[Mark]*Player `json:"players"`
	CurrentPlayer Mark             `json:"currentPlayer"`
	Winner        Mark             `json:"winner"`
	LastMove      *Move            `json:"lastMove,omitempty"`
}

// State is the public view of a game sent to clients.
type State struct {
	Board         Board `json:"board"`
	CurrentPlayer Mark  `json:"currentPlayer"`
	Winner        Mark  `json:"winner"`
}

func NewGame(id string) *Game {
	return &Game{
		ID:            id,
		Players:       make(map[Mark]*Player, 2),
		CurrentPlayer: Player1,
		Winner:        None,
	}
}

func (that *Game) State() State {
	return State{
		Board:         that.Board,
		CurrentPlayer: that.CurrentPlayer,
		Winner:        that.Winner,
	}
}

// SlotOf returns the slot taken by playerID or None.
func (that *Game) SlotOf(playerID string) Mark {
	for _, slot := range []Mark{Player1, Player2} {
		if player, ok := that.Players[slot]; ok && player.ID == playerID {
			return slot
		}
	}
	return None
}

func (that *Game) Player(slot Mark) *Player {
	return that.Players[slot]
}

func (that *Game) PlayerCount() int {
	return len(that.Players)
}

func (that *Game) Status() string {
	switch {
	case that.Winner != None:
		return StatusFinished
	case that.PlayerCount() < 2:
		return StatusWaiting
	default:
		return StatusOngoing
	}
}

func (that *Game) IsFinished() bool {
	return that.Status() == StatusFinished
}

func (that *Game) IsOngoing() bool {
	return that.Status() == StatusOngoing
}

func (that *Game) IsWaiting() bool {
	return that.Status() == StatusWaiting
}

// IsDraw reports a full board without a winner.
func (that *Game) IsDraw() bool {
	return that.Winner == None && that.Board.IsFull()
}

// Clone returns a deep copy safe to hand out after the room lock is released.
func (that *Game) Clone() *Game {
	clone := *that

	clone.Players = make(map[Mark]*Player, len(that.Players))
	for slot, player := range that.Players {
		p := *player
		clone.Players[slot] = &p
	}

	if that.LastMove != nil {
		move := *that.LastMove
		clone.LastMove = &move
	}

	return &clone
}
