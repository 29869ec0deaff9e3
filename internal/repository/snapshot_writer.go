package repository

import (
	"context"
	"log/slog"
	"time"

	"github.com/rocketscienceinc/connectfour-backend/internal/entity"
)

const writeTimeout = 2 * time.Second

type gameSaver interface {
	CreateOrUpdate(ctx context.Context, game *entity.Game) error
}

// SnapshotWriter mirrors game copies to the repository from a single goroutine,
// so writes land in the order they were queued and callers never wait on storage.
type SnapshotWriter struct {
	logger *slog.Logger
	repo   gameSaver
	queue  chan *entity.Game
}

func NewSnapshotWriter(logger *slog.Logger, repo gameSaver, size int) *SnapshotWriter {
	return &SnapshotWriter{
		logger: logger.With("component", "snapshot_writer"),
		repo:   repo,
		queue:  make(chan *entity.Game, size),
	}
}

// Enqueue schedules game for writing. The snapshot is dropped when the queue is full.
func (that *SnapshotWriter) Enqueue(game *entity.Game) {
	select {
	case that.queue <- game:
	default:
		that.logger.Warn("snapshot queue is full, dropping snapshot", "gameID", game.ID)
	}
}

// Run writes queued snapshots until ctx is canceled, then flushes what is left.
func (that *SnapshotWriter) Run(ctx context.Context) {
	for {
		select {
		case game := <-that.queue:
			that.write(ctx, game)
		case <-ctx.Done():
			that.drain()
			return
		}
	}
}

func (that *SnapshotWriter) drain() {
	for {
		select {
		case game := <-that.queue:
			that.write(context.Background(), game)
		default:
			return
		}
	}
}

func (that *SnapshotWriter) write(ctx context.Context, game *entity.Game) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), writeTimeout)
	defer cancel()

	if err := that.repo.CreateOrUpdate(ctx, game); err != nil {
		that.logger.Error("failed to save snapshot", "gameID", game.ID, "error", err)
	}
}
