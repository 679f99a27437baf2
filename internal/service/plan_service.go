package service

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stemsi/pathway-planner/internal/catalog"
	"github.com/stemsi/pathway-planner/internal/model"
	"github.com/stemsi/pathway-planner/internal/planner"
	"github.com/stemsi/pathway-planner/internal/repository"
)

// Plan service errors.
var (
	ErrPlanNotFound         = repository.ErrPlanNotFound
	ErrCohortRequired       = errors.New("select a cohort first")
	ErrInvalidFinanceChoice = errors.New("finance choice must be the short or the long corporate finance course")
	ErrFinanceChoiceLocked  = errors.New("cohort has no corporate finance choice")
	ErrSnapshotsDisabled    = errors.New("plan snapshots are disabled")
)

// Snapshot listing page sizes.
const (
	DefaultSnapshotPageSize = 20
	MaxSnapshotPageSize     = 100
)

// PlanService owns plan state: every mutation loads the stored plan, applies
// one change, saves it and returns the recomputed summary.
type PlanService interface {
	Create(ctx context.Context, initial *model.PlanState) (string, model.PlanSummary, error)
	Get(ctx context.Context, id string) (model.PlanState, error)
	Replace(ctx context.Context, id string, plan model.PlanState) (model.PlanSummary, error)
	SelectCohort(ctx context.Context, id, cohort, financeChoice string) (model.PlanSummary, error)
	SetFinanceChoice(ctx context.Context, id, code string) (model.PlanSummary, error)
	AddCourse(ctx context.Context, id, code string) (model.PlanSummary, error)
	RemoveCourse(ctx context.Context, id, code string) (model.PlanSummary, error)
	ClearElectives(ctx context.Context, id string) (model.PlanSummary, error)
	ToggleMajor(ctx context.Context, id, majorID string) (model.PlanSummary, error)
	ClearMajors(ctx context.Context, id string) (model.PlanSummary, error)
	ToggleBlockCourse(ctx context.Context, id, code string) (model.PlanSummary, error)
	SetView(ctx context.Context, id, view, explorerMode string) (model.PlanSummary, error)
	Summary(ctx context.Context, id string) (model.PlanSummary, error)
	Alerts(ctx context.Context, id string) ([]model.Alert, error)
	PrerequisiteInfo(ctx context.Context, id, code string) (model.PrerequisiteInfo, error)
	Export(ctx context.Context, id string) (filename, text string, err error)
	Snapshots(ctx context.Context, id string, page, perPage int) ([]model.PlanSnapshot, int, error)
}

type planService struct {
	engine    *planner.Engine
	plans     repository.PlanRepository
	queue     repository.SnapshotQueue
	snapshots repository.SnapshotRepository
	log       zerolog.Logger
	locks     [64]sync.Mutex
	now       func() time.Time
}

// NewPlanService creates a PlanService. queue and snapshots may be nil when
// the snapshot archive is disabled.
func NewPlanService(
	engine *planner.Engine,
	plans repository.PlanRepository,
	queue repository.SnapshotQueue,
	snapshots repository.SnapshotRepository,
	log zerolog.Logger,
) PlanService {
	return &planService{
		engine:    engine,
		plans:     plans,
		queue:     queue,
		snapshots: snapshots,
		log:       log.With().Str("component", "plan_service").Logger(),
		now:       time.Now,
	}
}

func (s *planService) cat() *catalog.Catalog {
	return s.engine.Catalog()
}

// lock serializes mutations of one plan within this process.
func (s *planService) lock(id string) func() {
	h := fnv.New32a()
	h.Write([]byte(id))
	m := &s.locks[h.Sum32()%uint32(len(s.locks))]
	m.Lock()
	return m.Unlock
}

func (s *planService) Create(ctx context.Context, initial *model.PlanState) (string, model.PlanSummary, error) {
	plan := model.NewPlanState()
	if initial != nil {
		checked, err := s.checkImported(*initial)
		if err != nil {
			return "", model.PlanSummary{}, err
		}
		plan = checked
	}

	id := uuid.NewString()
	if err := s.persist(ctx, id, plan); err != nil {
		return "", model.PlanSummary{}, err
	}
	s.log.Info().Str("plan_id", id).Str("cohort", plan.Cohort).Msg("Plan created")
	return id, s.engine.Summary(plan), nil
}

func (s *planService) Get(ctx context.Context, id string) (model.PlanState, error) {
	return s.plans.Get(ctx, id)
}

// Replace stores an imported plan under id, creating it when absent. A new
// plan that could not be saved is an error, as in Create.
func (s *planService) Replace(ctx context.Context, id string, plan model.PlanState) (model.PlanSummary, error) {
	checked, err := s.checkImported(plan)
	if err != nil {
		return model.PlanSummary{}, err
	}

	unlock := s.lock(id)
	defer unlock()

	existed, err := s.plans.Exists(ctx, id)
	if err != nil {
		return model.PlanSummary{}, fmt.Errorf("check plan %s: %w", id, err)
	}
	if err := s.persist(ctx, id, checked); err != nil && !existed {
		return model.PlanSummary{}, err
	}
	return s.engine.Summary(checked), nil
}

// checkImported normalizes a client-supplied plan and rejects cohort or
// finance values the catalog does not know. Unknown course codes are kept.
func (s *planService) checkImported(plan model.PlanState) (model.PlanState, error) {
	plan = plan.Normalize(s.cat().Aliases())
	if !plan.HasCohort() {
		plan.FinanceChoice = ""
		return plan, nil
	}
	if _, err := s.cat().Cohort(plan.Cohort); err != nil {
		return model.PlanState{}, err
	}
	choice, err := s.resolveFinanceChoice(plan.Cohort, plan.FinanceChoice)
	if err != nil {
		return model.PlanState{}, err
	}
	plan.FinanceChoice = choice
	return plan, nil
}

// resolveFinanceChoice validates a finance choice for a cohort. A cohort
// without a choice always resolves to its fixed finance course.
func (s *planService) resolveFinanceChoice(cohort, choice string) (string, error) {
	choice = model.NormalizeCode(choice)
	if !s.cat().OffersFinanceChoice(cohort) {
		fixed := s.engine.FinanceCode(model.PlanState{Cohort: cohort})
		if choice != "" && choice != fixed {
			return "", ErrFinanceChoiceLocked
		}
		return fixed, nil
	}
	if choice != "" && !s.cat().IsFinanceCode(choice) {
		return "", ErrInvalidFinanceChoice
	}
	return choice, nil
}

func (s *planService) SelectCohort(ctx context.Context, id, cohort, financeChoice string) (model.PlanSummary, error) {
	if _, err := s.cat().Cohort(cohort); err != nil {
		return model.PlanSummary{}, err
	}
	choice, err := s.resolveFinanceChoice(cohort, financeChoice)
	if err != nil {
		return model.PlanSummary{}, err
	}
	return s.mutate(ctx, id, func(p model.PlanState) (model.PlanState, error) {
		return p.SelectCohort(cohort, choice), nil
	})
}

func (s *planService) SetFinanceChoice(ctx context.Context, id, code string) (model.PlanSummary, error) {
	return s.mutate(ctx, id, func(p model.PlanState) (model.PlanState, error) {
		if !p.HasCohort() {
			return p, ErrCohortRequired
		}
		if !s.cat().OffersFinanceChoice(p.Cohort) {
			return p, ErrFinanceChoiceLocked
		}
		code = model.NormalizeCode(code)
		if !s.cat().IsFinanceCode(code) {
			return p, ErrInvalidFinanceChoice
		}
		return p.SetFinanceChoice(code), nil
	})
}

func (s *planService) AddCourse(ctx context.Context, id, code string) (model.PlanSummary, error) {
	course, err := s.cat().LookupCourse(model.NormalizeCode(code))
	if err != nil {
		return model.PlanSummary{}, err
	}
	return s.mutate(ctx, id, func(p model.PlanState) (model.PlanState, error) {
		if !p.HasCohort() {
			return p, ErrCohortRequired
		}
		return p.AddCourse(course.Code), nil
	})
}

func (s *planService) RemoveCourse(ctx context.Context, id, code string) (model.PlanSummary, error) {
	return s.mutate(ctx, id, func(p model.PlanState) (model.PlanState, error) {
		return p.RemoveCourse(code), nil
	})
}

func (s *planService) ClearElectives(ctx context.Context, id string) (model.PlanSummary, error) {
	return s.mutate(ctx, id, func(p model.PlanState) (model.PlanState, error) {
		return p.ClearElectives(), nil
	})
}

func (s *planService) ToggleMajor(ctx context.Context, id, majorID string) (model.PlanSummary, error) {
	if _, err := s.cat().LookupMajor(majorID); err != nil {
		return model.PlanSummary{}, err
	}
	return s.mutate(ctx, id, func(p model.PlanState) (model.PlanState, error) {
		return p.ToggleMajor(majorID), nil
	})
}

func (s *planService) ClearMajors(ctx context.Context, id string) (model.PlanSummary, error) {
	return s.mutate(ctx, id, func(p model.PlanState) (model.PlanState, error) {
		return p.ClearMajors(), nil
	})
}

func (s *planService) ToggleBlockCourse(ctx context.Context, id, code string) (model.PlanSummary, error) {
	block, err := s.cat().LookupBlockCourse(model.NormalizeCode(code))
	if err != nil {
		return model.PlanSummary{}, err
	}
	return s.mutate(ctx, id, func(p model.PlanState) (model.PlanState, error) {
		return p.ToggleBlockCourse(block.Code), nil
	})
}

func (s *planService) SetView(ctx context.Context, id, view, explorerMode string) (model.PlanSummary, error) {
	return s.mutate(ctx, id, func(p model.PlanState) (model.PlanState, error) {
		return p.SetView(view, explorerMode), nil
	})
}

func (s *planService) Summary(ctx context.Context, id string) (model.PlanSummary, error) {
	plan, err := s.plans.Get(ctx, id)
	if err != nil {
		return model.PlanSummary{}, err
	}
	return s.engine.Summary(plan), nil
}

func (s *planService) Alerts(ctx context.Context, id string) ([]model.Alert, error) {
	plan, err := s.plans.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.engine.Alerts(plan), nil
}

func (s *planService) PrerequisiteInfo(ctx context.Context, id, code string) (model.PrerequisiteInfo, error) {
	plan, err := s.plans.Get(ctx, id)
	if err != nil {
		return model.PrerequisiteInfo{}, err
	}
	course, err := s.cat().LookupCourse(model.NormalizeCode(code))
	if err != nil {
		return model.PrerequisiteInfo{}, err
	}
	return s.engine.PrerequisiteInfo(plan, course.Code), nil
}

func (s *planService) Export(ctx context.Context, id string) (string, string, error) {
	plan, err := s.plans.Get(ctx, id)
	if err != nil {
		return "", "", err
	}
	return s.engine.ExportFilename(plan), s.engine.ExportText(plan), nil
}

// Snapshots pages through a plan's archived states, newest first. page is
// one-based.
func (s *planService) Snapshots(ctx context.Context, id string, page, perPage int) ([]model.PlanSnapshot, int, error) {
	if s.snapshots == nil {
		return nil, 0, ErrSnapshotsDisabled
	}
	if _, err := s.plans.Get(ctx, id); err != nil {
		return nil, 0, err
	}
	if page < 1 {
		page = 1
	}
	if perPage <= 0 {
		perPage = DefaultSnapshotPageSize
	}
	if perPage > MaxSnapshotPageSize {
		perPage = MaxSnapshotPageSize
	}
	return s.snapshots.ListByPlan(ctx, id, perPage, (page-1)*perPage)
}

// mutate runs one load, change, save cycle under the plan's lock.
func (s *planService) mutate(ctx context.Context, id string, fn func(model.PlanState) (model.PlanState, error)) (model.PlanSummary, error) {
	unlock := s.lock(id)
	defer unlock()

	plan, err := s.plans.Get(ctx, id)
	if err != nil {
		return model.PlanSummary{}, err
	}

	next, err := fn(plan)
	if err != nil {
		return model.PlanSummary{}, err
	}

	_ = s.persist(ctx, id, next)
	return s.engine.Summary(next), nil
}

// persist saves the plan and queues a snapshot. Mutations treat both as
// best effort and still return the recomputed state when storage fails.
func (s *planService) persist(ctx context.Context, id string, plan model.PlanState) error {
	if err := s.plans.Save(ctx, id, plan); err != nil {
		s.log.Error().Err(err).Str("plan_id", id).Msg("Failed to save plan")
		return err
	}
	if s.queue == nil {
		return nil
	}

	snap := &model.PlanSnapshot{
		PlanID:          id,
		State:           plan,
		TotalCredits:    s.engine.TotalCredits(plan),
		GraduationReady: s.engine.GraduationReady(plan),
		CreatedAt:       s.now().UTC(),
	}
	if err := s.queue.Enqueue(ctx, snap); err != nil {
		s.log.Warn().Err(err).Str("plan_id", id).Msg("Failed to queue plan snapshot")
	}
	return nil
}
