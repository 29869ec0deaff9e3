package rest

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

type gameLister interface {
	ActiveGames() []string
}

type StatusResponse struct {
	Status      string   `json:"status"`
	Games       int      `json:"games"`
	ActiveGames []string `json:"active_games"`
}

type Handlers interface {
	PingHandler(w http.ResponseWriter, _ *http.Request)
	HealthHandler(w http.ResponseWriter, _ *http.Request)
	StatusHandler(w http.ResponseWriter, _ *http.Request)
}

type handlers struct {
	logger *slog.Logger
	games  gameLister
}

func NewHandlers(logger *slog.Logger, games gameLister) Handlers {
	return &handlers{
		logger: logger.With("component", "rest"),
		games:  games,
	}
}

func (that *handlers) PingHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("pong")); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
}

func (that *handlers) HealthHandler(w http.ResponseWriter, _ *http.Request) {
	that.writeJSON(w, map[string]string{"status": "healthy"})
}

// StatusHandler reports the games currently held in memory.
func (that *handlers) StatusHandler(w http.ResponseWriter, _ *http.Request) {
	ids := that.games.ActiveGames()

	that.writeJSON(w, StatusResponse{
		Status:      "Connect Four Server Running",
		Games:       len(ids),
		ActiveGames: ids,
	})
}

func (that *handlers) writeJSON(w http.ResponseWriter, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Error("failed to write response", "error", err)
	}
}
