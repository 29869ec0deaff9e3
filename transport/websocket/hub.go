package websocket

import (
	"log/slog"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rocketscienceinc/connectfour-backend/internal/entity"
)

// Client is one websocket connection with its outbound queue.
type Client struct {
	id   string
	conn *websocket.Conn
	send chan []byte
}

func NewClient(id string, conn *websocket.Conn, buffer int) *Client {
	return &Client{
		id:   id,
		conn: conn,
		send: make(chan []byte, buffer),
	}
}

func (that *Client) ID() string {
	return that.id
}

// Hub tracks connections and the rooms they belong to. It delivers events without blocking:
// a client whose queue is full is disconnected.
type Hub struct {
	logger *slog.Logger

	mu      sync.RWMutex
	clients map[string]*Client
	rooms   map[string]map[string]struct{}
	members map[string]map[string]struct{}
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		logger:  logger.With("component", "hub"),
		clients: make(map[string]*Client),
		rooms:   make(map[string]map[string]struct{}),
		members: make(map[string]map[string]struct{}),
	}
}

func (that *Hub) Register(client *Client) {
	that.mu.Lock()
	that.clients[client.id] = client
	that.mu.Unlock()
}

// Unregister removes the connection from every room and closes its queue.
func (that *Hub) Unregister(connID string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.unregisterLocked(connID)
}

func (that *Hub) unregisterLocked(connID string) {
	client, ok := that.clients[connID]
	if !ok {
		return
	}

	for roomID := range that.members[connID] {
		delete(that.rooms[roomID], connID)
		if len(that.rooms[roomID]) == 0 {
			delete(that.rooms, roomID)
		}
	}

	delete(that.members, connID)
	delete(that.clients, connID)
	close(client.send)
}

// JoinRoom adds the connection to the room's broadcast group. Unknown connections are ignored.
func (that *Hub) JoinRoom(roomID, connID string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if _, ok := that.clients[connID]; !ok {
		return
	}

	if that.rooms[roomID] == nil {
		that.rooms[roomID] = make(map[string]struct{})
	}
	that.rooms[roomID][connID] = struct{}{}

	if that.members[connID] == nil {
		that.members[connID] = make(map[string]struct{})
	}
	that.members[connID][roomID] = struct{}{}
}

// BroadcastToRoom delivers event to every connection of the room except exceptConnID.
func (that *Hub) BroadcastToRoom(roomID string, event *entity.Event, exceptConnID string) {
	data, err := encodeEvent(event)
	if err != nil {
		that.logger.Error("failed to encode event", "event", event.Name, "error", err)
		return
	}

	that.mu.RLock()
	var slow []string
	for connID := range that.rooms[roomID] {
		if connID == exceptConnID {
			continue
		}
		if !that.deliver(that.clients[connID], data) {
			slow = append(slow, connID)
		}
	}
	that.mu.RUnlock()

	that.dropSlow(slow)
}

// SendTo delivers event to a single connection.
func (that *Hub) SendTo(connID string, event *entity.Event) {
	data, err := encodeEvent(event)
	if err != nil {
		that.logger.Error("failed to encode event", "event", event.Name, "error", err)
		return
	}

	that.mu.RLock()
	client, ok := that.clients[connID]
	delivered := !ok || that.deliver(client, data)
	that.mu.RUnlock()

	if !delivered {
		that.dropSlow([]string{connID})
	}
}

// RoomSize returns the number of connections in the room.
func (that *Hub) RoomSize(roomID string) int {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return len(that.rooms[roomID])
}

func (that *Hub) deliver(client *Client, data []byte) bool {
	if client == nil {
		return true
	}

	select {
	case client.send <- data:
		return true
	default:
		return false
	}
}

func (that *Hub) dropSlow(connIDs []string) {
	if len(connIDs) == 0 {
		return
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	for _, connID := range connIDs {
		that.logger.Warn("client send queue is full, dropping connection", "connID", connID)
		that.unregisterLocked(connID)
	}
}
