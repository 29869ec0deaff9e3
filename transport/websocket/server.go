package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rocketscienceinc/connectfour-backend/internal/config"
	"github.com/rocketscienceinc/connectfour-backend/internal/entity"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	maxMessageSize = 4096
)

type uGame interface {
	CreateGame(ctx context.Context, gameID string, player *entity.Player) (*entity.Game, error)
	JoinGame(ctx context.Context, gameID string, player *entity.Player) (*entity.Game, error)
	MakeMove(ctx context.Context, gameID, playerID string, col int) (*entity.Game, error)
	ResetGame(ctx context.Context, gameID string) (*entity.Game, error)
}

type Server struct {
	logger   *slog.Logger
	uGame    uGame
	hub      *Hub
	upgrader websocket.Upgrader
	conf     config.WebSocket

	handlers map[string]func(ctx context.Context, message *Message, client *Client) error
}

func New(logger *slog.Logger, uGame uGame, hub *Hub, conf config.WebSocket) *Server {
	server := &Server{
		logger: logger.With("component", "websocket"),
		uGame:  uGame,
		hub:    hub,
		conf:   conf,

		handlers: make(map[string]func(context.Context, *Message, *Client) error),
	}

	server.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || server.conf.OriginAllowed(origin)
		},
	}

	server.handlers[entity.ActionCreateGame] = server.handleCreateGame
	server.handlers[entity.ActionJoinGame] = server.handleJoinGame
	server.handlers[entity.ActionMakeMove] = server.handleMakeMove
	server.handlers[entity.ActionResetGame] = server.handleResetGame

	return server
}

// Start - starts WebSocket server and stops it when ctx is canceled.
func (that *Server) Start(ctx context.Context, port string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		that.upgradeToWebSocket(ctx, w, r)
	})

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shutdown server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// upgradeToWebSocket - upgrades the connection to WebSocket.
func (that *Server) upgradeToWebSocket(ctx context.Context, writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "upgradeConnection")

	conn, err := that.upgrader.Upgrade(writer, req, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	client := NewClient(uuid.NewString(), conn, that.conf.SendBuffer)
	that.hub.Register(client)
	that.hub.SendTo(client.id, entity.NewConnected(client.id))

	log.Info("client connected", "connID", client.id)

	go that.writePump(client)
	that.handleMessages(ctx, client)
}

// handleMessages - processes messages from the client until the connection closes.
func (that *Server) handleMessages(ctx context.Context, client *Client) {
	log := that.logger.With("method", "handleMessages", "connID", client.id)

	defer func() {
		that.hub.Unregister(client.id)
		_ = client.conn.Close()
		log.Info("client disconnected")
	}()

	client.conn.SetReadLimit(maxMessageSize)
	_ = client.conn.SetReadDeadline(time.Now().Add(pongWait))
	client.conn.SetPongHandler(func(string) error {
		return client.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, reqBody, err := client.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Error("error reading message", "error", err)
			}
			return
		}

		var message Message
		if err = json.Unmarshal(reqBody, &message); err != nil {
			log.Error("failed to unmarshal message", "error", err)
			that.sendError(client, "Invalid request")
			continue
		}

		that.dispatch(ctx, &message, client)
	}
}

// dispatch runs the handler registered for the message action. A failing handler never takes the server down.
func (that *Server) dispatch(ctx context.Context, message *Message, client *Client) {
	log := that.logger.With("method", "dispatch", "action", message.Action, "connID", client.id)

	defer func() {
		if r := recover(); r != nil {
			log.Error("recovered from panic in handler", "panic", r)
			that.sendError(client, "Internal server error")
		}
	}()

	handler, ok := that.handlers[message.Action]
	if !ok {
		log.Warn("unknown action")
		that.sendError(client, "Unknown action")
		return
	}

	if err := handler(ctx, message, client); err != nil {
		log.Error("error processing message", "error", err)
	}
}

// writePump pumps messages from the hub to the WebSocket connection.
func (that *Server) writePump(client *Client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = client.conn.Close()
	}()

	for {
		select {
		case message, ok := <-client.send:
			_ = client.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = client.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := client.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				that.logger.Debug("failed to write message", "connID", client.id, "error", err)
				return
			}

		case <-ticker.C:
			_ = client.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := client.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
