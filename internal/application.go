package application

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/rocketscienceinc/connectfour-backend/internal/config"
	"github.com/rocketscienceinc/connectfour-backend/internal/repository"
	"github.com/rocketscienceinc/connectfour-backend/internal/repository/storage"
	"github.com/rocketscienceinc/connectfour-backend/internal/session"
	"github.com/rocketscienceinc/connectfour-backend/internal/usecase"
	"github.com/rocketscienceinc/connectfour-backend/transport/rest"
	"github.com/rocketscienceinc/connectfour-backend/transport/websocket"
)

// RunApp - runs the application.
func RunApp(ctx context.Context, logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case sig := <-sigs:
			log.Info("Received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	var snapshots *repository.SnapshotWriter
	if conf.Redis.Enabled {
		redisStorage, err := storage.NewRedisStorage(ctx, conf.Redis.GetRedisAddr())
		if err != nil {
			return fmt.Errorf("could not connect to redis storage: %w", err)
		}

		defer func() {
			if err = redisStorage.Close(); err != nil {
				log.Error("could not close redis storage", "error", err)
			}
		}()

		gameRepo := repository.NewGameRepository(redisStorage.Connection, conf.Redis.SnapshotTTL)
		snapshots = repository.NewSnapshotWriter(logger, gameRepo, conf.Redis.QueueSize)

		done := make(chan struct{})
		go func() {
			defer close(done)
			snapshots.Run(ctx)
		}()
		defer func() {
			cancel()
			<-done
		}()

		log.Info("Mirroring game snapshots to redis", "addr", conf.Redis.GetRedisAddr())
	}

	hub := websocket.NewHub(logger)
	registry := session.NewRegistry()

	var gameManager *usecase.GameManager
	if snapshots != nil {
		gameManager = usecase.NewGameManager(logger, registry, hub, snapshots)
	} else {
		gameManager = usecase.NewGameManager(logger, registry, hub, nil)
	}

	// run HTTP server
	httpErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		if httpErr := rest.Start(ctx, conf.HTTPPort, rest.NewHandlers(logger, gameManager)); httpErr != nil {
			log.Error("HTTP server error", "error", httpErr)
			httpErrCh <- httpErr
		}
	}()

	// run Websocket server
	wsErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting WebSocket server", "port", conf.SocketPort)
		wsServer := websocket.New(logger, gameManager, hub, conf.WebSocket)
		if wsErr := wsServer.Start(ctx, conf.SocketPort); wsErr != nil {
			log.Error("WebSocket server error", "error", wsErr)
			wsErrCh <- wsErr
		}
	}()

	select {
	case err := <-httpErrCh:
		return fmt.Errorf("HTTP server error: %w", err)
	case err := <-wsErrCh:
		return fmt.Errorf("WebSocket server error: %w", err)
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
		return nil
	}
}
