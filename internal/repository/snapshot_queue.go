package repository

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"github.com/stemsi/pathway-planner/internal/config"
	"github.com/stemsi/pathway-planner/internal/model"
)

// SnapshotQueue hands plan snapshots to the snapshot worker through Redis.
type SnapshotQueue interface {
	Enqueue(ctx context.Context, snap *model.PlanSnapshot) error
	Len(ctx context.Context) (int64, error)
}

type snapshotQueue struct {
	rdb *redis.Client
}

func NewSnapshotQueue(rdb *redis.Client) SnapshotQueue {
	return &snapshotQueue{rdb: rdb}
}

func (q *snapshotQueue) Enqueue(ctx context.Context, snap *model.PlanSnapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return q.rdb.RPush(ctx, config.WorkerKey.PersistPlanSnapshotsQueue, data).Err()
}

func (q *snapshotQueue) Len(ctx context.Context) (int64, error) {
	return q.rdb.LLen(ctx, config.WorkerKey.PersistPlanSnapshotsQueue).Result()
}
