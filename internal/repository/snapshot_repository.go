package repository

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/pathway-planner/internal/model"
)

// SnapshotRepository archives plan snapshots in PostgreSQL.
type SnapshotRepository interface {
	Insert(ctx context.Context, snap *model.PlanSnapshot) error
	ListByPlan(ctx context.Context, planID string, limit, offset int) ([]model.PlanSnapshot, int, error)
}

type snapshotRepository struct {
	db *pgxpool.Pool
}

func NewSnapshotRepository(db *pgxpool.Pool) SnapshotRepository {
	return &snapshotRepository{db: db}
}

func (r *snapshotRepository) Insert(ctx context.Context, snap *model.PlanSnapshot) error {
	planID, err := uuid.Parse(snap.PlanID)
	if err != nil {
		return err
	}
	state, err := json.Marshal(snap.State)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO plan_snapshots (plan_id, state, total_credits, graduation_ready, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	return r.db.QueryRow(ctx, query, planID, state, snap.TotalCredits, snap.GraduationReady, snap.CreatedAt).
		Scan(&snap.ID)
}

// ListByPlan returns one page of a plan's snapshots, newest first, and the
// plan's total snapshot count.
func (r *snapshotRepository) ListByPlan(ctx context.Context, planID string, limit, offset int) ([]model.PlanSnapshot, int, error) {
	id, err := uuid.Parse(planID)
	if err != nil {
		return nil, 0, err
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM plan_snapshots WHERE plan_id = $1`, id).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT id, plan_id, state, total_credits, graduation_ready, created_at
		FROM plan_snapshots
		WHERE plan_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, id, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	snapshots := []model.PlanSnapshot{}
	for rows.Next() {
		var (
			s     model.PlanSnapshot
			pid   uuid.UUID
			state []byte
		)
		if err := rows.Scan(&s.ID, &pid, &state, &s.TotalCredits, &s.GraduationReady, &s.CreatedAt); err != nil {
			return nil, 0, err
		}
		if err := json.Unmarshal(state, &s.State); err != nil {
			return nil, 0, err
		}
		s.PlanID = pid.String()
		snapshots = append(snapshots, s)
	}
	return snapshots, total, rows.Err()
}
