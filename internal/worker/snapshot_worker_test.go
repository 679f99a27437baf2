package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/pathway-planner/internal/config"
	"github.com/stemsi/pathway-planner/internal/model"
	"github.com/stemsi/pathway-planner/internal/repository"
)

type recordingSnapshots struct {
	mu       sync.Mutex
	inserted []model.PlanSnapshot
	failures int
}

func (r *recordingSnapshots) Insert(_ context.Context, snap *model.PlanSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failures > 0 {
		r.failures--
		return errors.New("connection refused")
	}
	snap.ID = int64(len(r.inserted) + 1)
	r.inserted = append(r.inserted, *snap)
	return nil
}

func (r *recordingSnapshots) ListByPlan(context.Context, string, int, int) ([]model.PlanSnapshot, int, error) {
	return nil, 0, nil
}

func (r *recordingSnapshots) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.inserted)
}

func setup(t *testing.T) (*miniredis.Miniredis, repository.SnapshotQueue, *recordingSnapshots, *SnapshotWorker) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	repo := &recordingSnapshots{}
	w := NewSnapshotWorker(rdb, repo, zerolog.Nop())
	w.retryDelay = time.Millisecond
	return mr, repository.NewSnapshotQueue(rdb), repo, w
}

func snapshot(planID string, credits float64) *model.PlanSnapshot {
	state := model.NewPlanState()
	state.Cohort = "philadelphia"
	return &model.PlanSnapshot{
		PlanID:       planID,
		State:        state,
		TotalCredits: credits,
		CreatedAt:    time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC),
	}
}

func TestSnapshotWorker_ProcessNext(t *testing.T) {
	ctx := context.Background()
	_, queue, repo, w := setup(t)

	if err := queue.Enqueue(ctx, snapshot("c0ffee00-0000-4000-8000-000000000001", 9.5)); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	w.processNext(ctx)

	if repo.count() != 1 {
		t.Fatalf("inserted = %d", repo.count())
	}
	got := repo.inserted[0]
	if got.TotalCredits != 9.5 || got.State.Cohort != "philadelphia" || !got.CreatedAt.Equal(time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)) {
		t.Errorf("inserted = %+v", got)
	}
	if n, _ := queue.Len(ctx); n != 0 {
		t.Errorf("queue length = %d", n)
	}
}

func TestSnapshotWorker_RetriesFailedInsert(t *testing.T) {
	ctx := context.Background()
	_, queue, repo, w := setup(t)
	repo.failures = 1

	_ = queue.Enqueue(ctx, snapshot("c0ffee00-0000-4000-8000-000000000002", 10))
	w.processNext(ctx)
	if n, _ := queue.Len(ctx); n != 1 || repo.count() != 0 {
		t.Fatalf("after failure: queue %d, inserted %d", n, repo.count())
	}

	w.processNext(ctx)
	if n, _ := queue.Len(ctx); n != 0 || repo.count() != 1 {
		t.Errorf("after retry: queue %d, inserted %d", n, repo.count())
	}
}

// cancellingSnapshots simulates shutdown arriving while an insert is in flight.
type cancellingSnapshots struct {
	recordingSnapshots
	cancel context.CancelFunc
}

func (c *cancellingSnapshots) Insert(ctx context.Context, _ *model.PlanSnapshot) error {
	c.cancel()
	return ctx.Err()
}

func TestSnapshotWorker_RequeuesWhenShutdownInterruptsInsert(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	w := NewSnapshotWorker(rdb, &cancellingSnapshots{cancel: cancel}, zerolog.Nop())
	w.retryDelay = time.Millisecond
	queue := repository.NewSnapshotQueue(rdb)

	_ = queue.Enqueue(context.Background(), snapshot("c0ffee00-0000-4000-8000-000000000005", 3))
	w.processNext(ctx)

	if ctx.Err() == nil {
		t.Fatal("insert did not run")
	}
	if n, _ := queue.Len(context.Background()); n != 1 {
		t.Errorf("queue length = %d, want the snapshot back for retry", n)
	}
}

func TestSnapshotWorker_DropsUnreadablePayload(t *testing.T) {
	ctx := context.Background()
	mr, queue, repo, w := setup(t)

	if _, err := mr.Push(config.WorkerKey.PersistPlanSnapshotsQueue, "{not json"); err != nil {
		t.Fatal(err)
	}
	w.processNext(ctx)
	if n, _ := queue.Len(ctx); n != 0 || repo.count() != 0 {
		t.Errorf("queue %d, inserted %d", n, repo.count())
	}
}

func TestSnapshotWorker_DrainsOnShutdown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	_, queue, repo, w := setup(t)

	for i := 0; i < 3; i++ {
		_ = queue.Enqueue(context.Background(), snapshot("c0ffee00-0000-4000-8000-000000000003", float64(i)))
	}
	cancel()

	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("worker did not stop")
	}

	if repo.count() != 3 {
		t.Errorf("drained %d snapshots, want 3", repo.count())
	}
}

func TestSnapshotWorker_DrainStopsOnFailure(t *testing.T) {
	ctx := context.Background()
	_, queue, repo, w := setup(t)
	repo.failures = 1

	_ = queue.Enqueue(ctx, snapshot("c0ffee00-0000-4000-8000-000000000004", 1))
	_ = queue.Enqueue(ctx, snapshot("c0ffee00-0000-4000-8000-000000000004", 2))
	w.drain(ctx)

	if n, _ := queue.Len(ctx); n != 2 || repo.count() != 0 {
		t.Errorf("queue %d, inserted %d", n, repo.count())
	}
}
