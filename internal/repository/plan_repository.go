package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/pathway-planner/internal/config"
	"github.com/stemsi/pathway-planner/internal/model"
)

// ErrPlanNotFound is returned when no plan is stored under an id.
var ErrPlanNotFound = errors.New("plan not found")

// PlanRepository stores one JSON plan record per plan id in Redis.
type PlanRepository interface {
	Get(ctx context.Context, id string) (model.PlanState, error)
	Save(ctx context.Context, id string, plan model.PlanState) error
	Exists(ctx context.Context, id string) (bool, error)
	Count(ctx context.Context) (int64, error)
}

type planRepository struct {
	rdb     *redis.Client
	ttl     time.Duration
	aliases map[string]string
	log     zerolog.Logger
}

// NewPlanRepository creates a PlanRepository. A zero ttl keeps plans forever.
// aliases are rewritten on every load.
func NewPlanRepository(rdb *redis.Client, ttl time.Duration, aliases map[string]string, log zerolog.Logger) PlanRepository {
	return &planRepository{
		rdb:     rdb,
		ttl:     ttl,
		aliases: aliases,
		log:     log.With().Str("component", "plan_repository").Logger(),
	}
}

// Get loads a plan. A record that cannot be decoded degrades to the default
// plan; a failed read is returned so callers never save over the stored one.
func (r *planRepository) Get(ctx context.Context, id string) (model.PlanState, error) {
	key := config.CacheKey.PlanStateKey(id)

	raw, err := r.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return model.PlanState{}, ErrPlanNotFound
	}
	if err != nil {
		return model.PlanState{}, fmt.Errorf("read plan %s: %w", id, err)
	}

	plan := model.NewPlanState()
	if err := json.Unmarshal(raw, &plan); err != nil {
		r.log.Warn().Err(err).Str("plan_id", id).Msg("Corrupt plan record, using default plan")
		return model.NewPlanState(), nil
	}

	if r.ttl > 0 {
		r.rdb.Expire(ctx, key, r.ttl)
	}
	return plan.Normalize(r.aliases), nil
}

func (r *planRepository) Save(ctx context.Context, id string, plan model.PlanState) error {
	data, err := json.Marshal(plan)
	if err != nil {
		return fmt.Errorf("encode plan: %w", err)
	}
	return r.rdb.Set(ctx, config.CacheKey.PlanStateKey(id), data, r.ttl).Err()
}

func (r *planRepository) Exists(ctx context.Context, id string) (bool, error) {
	n, err := r.rdb.Exists(ctx, config.CacheKey.PlanStateKey(id)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Count scans the plan key space. Used for operational stats only.
func (r *planRepository) Count(ctx context.Context) (int64, error) {
	var (
		cursor uint64
		total  int64
	)
	for {
		keys, next, err := r.rdb.Scan(ctx, cursor, config.CacheKey.PlanStatePattern(), 500).Result()
		if err != nil {
			return 0, err
		}
		total += int64(len(keys))
		cursor = next
		if cursor == 0 {
			return total, nil
		}
	}
}
