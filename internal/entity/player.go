package entity

// Player occupies one slot of a game. ConnID references the transport connection
// that created or joined the slot and is never persisted.
type Player struct {
	ID     string `json:"id"`
	Name   string `json:"name,omitempty"`
	ConnID string `json:"-"`
}
