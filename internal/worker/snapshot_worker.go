package worker

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/pathway-planner/internal/config"
	"github.com/stemsi/pathway-planner/internal/model"
	"github.com/stemsi/pathway-planner/internal/repository"
)

// SnapshotWorker consumes persist_plan_snapshots_queue and archives each plan
// snapshot in PostgreSQL.
type SnapshotWorker struct {
	rdb        *redis.Client
	snapshots  repository.SnapshotRepository
	queue      string
	retryDelay time.Duration
	log        zerolog.Logger
}

// NewSnapshotWorker creates a new SnapshotWorker.
func NewSnapshotWorker(rdb *redis.Client, snapshots repository.SnapshotRepository, log zerolog.Logger) *SnapshotWorker {
	return &SnapshotWorker{
		rdb:        rdb,
		snapshots:  snapshots,
		queue:      config.WorkerKey.PersistPlanSnapshotsQueue,
		retryDelay: 5 * time.Second,
		log:        log.With().Str("component", "snapshot_worker").Logger(),
	}
}

// Start begins the infinite worker loop. Call in a goroutine.
func (w *SnapshotWorker) Start(ctx context.Context) {
	w.log.Info().Msg("Worker started")

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Worker stopping...")
			// Drain remaining items before exit.
			w.drain(context.Background())
			w.log.Info().Msg("Worker stopped")
			return
		default:
			w.processNext(ctx)
		}
	}
}

func (w *SnapshotWorker) processNext(ctx context.Context) {
	// BLPop blocks until an item is available or timeout (1 second).
	result, err := w.rdb.BLPop(ctx, time.Second, w.queue).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) && ctx.Err() == nil {
			w.log.Error().Err(err).Msg("BLPop error")
		}
		return
	}

	if len(result) < 2 {
		return
	}

	var snap model.PlanSnapshot
	if err := json.Unmarshal([]byte(result[1]), &snap); err != nil {
		w.log.Error().Err(err).Msg("Dropping unreadable snapshot")
		return
	}

	if err := w.snapshots.Insert(ctx, &snap); err != nil {
		w.log.Error().Err(err).
			Str("plan_id", snap.PlanID).
			Dur("retry_in", w.retryDelay).
			Msg("Persist error, retrying")
		w.requeue(result[1])

		select {
		case <-ctx.Done():
		case <-time.After(w.retryDelay):
		}
		return
	}

	w.log.Debug().Str("plan_id", snap.PlanID).Int64("snapshot_id", snap.ID).Msg("Snapshot archived")
}

// requeue pushes a payload back for retry. It ignores the caller's context
// so a snapshot that failed during shutdown is not lost.
func (w *SnapshotWorker) requeue(payload string) {
	if err := w.rdb.RPush(context.Background(), w.queue, payload).Err(); err != nil {
		w.log.Error().Err(err).Msg("Failed to requeue snapshot, dropping it")
	}
}

// drain processes all remaining items in the queue before shutdown.
func (w *SnapshotWorker) drain(ctx context.Context) {
	drained := 0
	for {
		result, err := w.rdb.LPop(ctx, w.queue).Result()
		if err != nil {
			break
		}

		var snap model.PlanSnapshot
		if err := json.Unmarshal([]byte(result), &snap); err != nil {
			w.log.Error().Err(err).Msg("Drain unmarshal error")
			continue
		}

		if err := w.snapshots.Insert(ctx, &snap); err != nil {
			w.log.Error().Err(err).Msg("Drain persist error")
			w.requeue(result)
			break
		}
		drained++
	}

	if drained > 0 {
		w.log.Info().Int("count", drained).Msg("Drained remaining items")
	}
}
