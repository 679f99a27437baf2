package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/pathway-planner/internal/config"
	"github.com/stemsi/pathway-planner/internal/model"
)

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return mr, rdb
}

func TestPlanRepository_SaveAndGet(t *testing.T) {
	ctx := context.Background()
	_, rdb := newRedis(t)
	repo := NewPlanRepository(rdb, 0, nil, zerolog.Nop())

	plan := model.NewPlanState().SelectCohort("philadelphia", "FNCE-6110").AddCourse("FNCE-7050")
	if err := repo.Save(ctx, "p1", plan); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := repo.Get(ctx, "p1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Cohort != "philadelphia" || got.FinanceChoice != "FNCE-6110" || !got.IsPlanned("FNCE-7050") {
		t.Errorf("got %+v", got)
	}

	ok, err := repo.Exists(ctx, "p1")
	if err != nil || !ok {
		t.Errorf("Exists = %v, %v", ok, err)
	}
}

func TestPlanRepository_GetMissing(t *testing.T) {
	_, rdb := newRedis(t)
	repo := NewPlanRepository(rdb, 0, nil, zerolog.Nop())

	if _, err := repo.Get(context.Background(), "nope"); !errors.Is(err, ErrPlanNotFound) {
		t.Errorf("err = %v, want ErrPlanNotFound", err)
	}
}

func TestPlanRepository_CorruptRecordFallsBackToDefault(t *testing.T) {
	mr, rdb := newRedis(t)
	repo := NewPlanRepository(rdb, 0, nil, zerolog.Nop())
	mr.Set(config.CacheKey.PlanStateKey("bad"), "{not json")

	got, err := repo.Get(context.Background(), "bad")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.HasCohort() || len(got.PlannedCourses) != 0 || got.CurrentView != model.DefaultView {
		t.Errorf("got %+v, want default plan", got)
	}
}

// failGetHook fails every GET with err and passes other commands through.
type failGetHook struct{ err error }

func (h failGetHook) DialHook(next redis.DialHook) redis.DialHook { return next }

func (h failGetHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		if cmd.Name() == "get" {
			cmd.SetErr(h.err)
			return h.err
		}
		return next(ctx, cmd)
	}
}

func (h failGetHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return next
}

func TestPlanRepository_ReadErrorIsReturned(t *testing.T) {
	ctx := context.Background()
	_, rdb := newRedis(t)
	repo := NewPlanRepository(rdb, 0, nil, zerolog.Nop())

	stored := model.NewPlanState().SelectCohort("philadelphia", "FNCE-6110").AddCourse("FNCE-7050")
	if err := repo.Save(ctx, "p1", stored); err != nil {
		t.Fatalf("Save: %v", err)
	}

	timeout := errors.New("i/o timeout")
	rdb.AddHook(failGetHook{err: timeout})

	if _, err := repo.Get(ctx, "p1"); !errors.Is(err, timeout) {
		t.Errorf("err = %v, want read error", err)
	}
}

func TestPlanRepository_RewritesAliasesOnLoad(t *testing.T) {
	mr, rdb := newRedis(t)
	repo := NewPlanRepository(rdb, 0, map[string]string{"LGST-7820": "LGST-XXXX"}, zerolog.Nop())
	mr.Set(config.CacheKey.PlanStateKey("old"),
		`{"selected_cohort":"san_francisco","planned_courses":["lgst 7820","fnce-7050","FNCE-7050"]}`)

	got, err := repo.Get(context.Background(), "old")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	want := []string{"LGST-XXXX", "FNCE-7050"}
	if len(got.PlannedCourses) != len(want) {
		t.Fatalf("planned = %v, want %v", got.PlannedCourses, want)
	}
	for i := range want {
		if got.PlannedCourses[i] != want[i] {
			t.Errorf("planned = %v, want %v", got.PlannedCourses, want)
		}
	}
	if got.TargetMajors == nil || got.CompletedBlockCourses == nil {
		t.Error("nil slices not filled")
	}
}

func TestPlanRepository_TTL(t *testing.T) {
	ctx := context.Background()
	mr, rdb := newRedis(t)
	repo := NewPlanRepository(rdb, time.Hour, nil, zerolog.Nop())

	if err := repo.Save(ctx, "p1", model.NewPlanState()); err != nil {
		t.Fatalf("Save: %v", err)
	}
	key := config.CacheKey.PlanStateKey("p1")
	if ttl := mr.TTL(key); ttl != time.Hour {
		t.Errorf("ttl = %v, want 1h", ttl)
	}

	mr.FastForward(30 * time.Minute)
	if _, err := repo.Get(ctx, "p1"); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ttl := mr.TTL(key); ttl != time.Hour {
		t.Errorf("ttl after read = %v, want refreshed to 1h", ttl)
	}

	mr.FastForward(2 * time.Hour)
	if _, err := repo.Get(ctx, "p1"); !errors.Is(err, ErrPlanNotFound) {
		t.Errorf("err = %v, want expired plan", err)
	}
}

func TestPlanRepository_Count(t *testing.T) {
	ctx := context.Background()
	mr, rdb := newRedis(t)
	repo := NewPlanRepository(rdb, 0, nil, zerolog.Nop())

	for _, id := range []string{"a", "b", "c"} {
		if err := repo.Save(ctx, id, model.NewPlanState()); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}
	mr.Set("unrelated", "x")

	n, err := repo.Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 3 {
		t.Errorf("Count = %d, want 3", n)
	}
}

func TestSnapshotQueue(t *testing.T) {
	ctx := context.Background()
	mr, rdb := newRedis(t)
	q := NewSnapshotQueue(rdb)

	snap := &model.PlanSnapshot{PlanID: "p1", State: model.NewPlanState(), TotalCredits: 9.5}
	if err := q.Enqueue(ctx, snap); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	if err := q.Enqueue(ctx, snap); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}

	n, err := q.Len(ctx)
	if err != nil || n != 2 {
		t.Errorf("Len = %d, %v; want 2", n, err)
	}
	items, _ := mr.List(config.WorkerKey.PersistPlanSnapshotsQueue)
	if len(items) != 2 {
		t.Errorf("queue items = %d", len(items))
	}
}
