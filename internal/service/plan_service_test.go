package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stemsi/pathway-planner/internal/catalog"
	"github.com/stemsi/pathway-planner/internal/model"
	"github.com/stemsi/pathway-planner/internal/planner"
	"github.com/stemsi/pathway-planner/internal/repository"
)

type memPlans struct {
	mu      sync.Mutex
	plans   map[string]model.PlanState
	getErr  error
	saveErr error
}

func newMemPlans() *memPlans {
	return &memPlans{plans: map[string]model.PlanState{}}
}

func (m *memPlans) Get(_ context.Context, id string) (model.PlanState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return model.PlanState{}, m.getErr
	}
	p, ok := m.plans[id]
	if !ok {
		return model.PlanState{}, repository.ErrPlanNotFound
	}
	return p.Clone(), nil
}

func (m *memPlans) Save(_ context.Context, id string, plan model.PlanState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.plans[id] = plan.Clone()
	return nil
}

func (m *memPlans) Exists(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.plans[id]
	return ok, nil
}

func (m *memPlans) Count(context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.plans)), nil
}

type memQueue struct {
	mu    sync.Mutex
	items []model.PlanSnapshot
}

func (q *memQueue) Enqueue(_ context.Context, snap *model.PlanSnapshot) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = append(q.items, *snap)
	return nil
}

func (q *memQueue) Len(context.Context) (int64, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return int64(len(q.items)), nil
}

type memSnapshots struct {
	byPlan map[string][]model.PlanSnapshot
}

func (m *memSnapshots) Insert(_ context.Context, snap *model.PlanSnapshot) error {
	m.byPlan[snap.PlanID] = append(m.byPlan[snap.PlanID], *snap)
	return nil
}

func (m *memSnapshots) ListByPlan(_ context.Context, planID string, limit, offset int) ([]model.PlanSnapshot, int, error) {
	all := m.byPlan[planID]
	total := len(all)
	if offset >= total {
		return []model.PlanSnapshot{}, total, nil
	}
	all = all[offset:]
	if len(all) > limit {
		all = all[:limit]
	}
	return all, total, nil
}

type fixture struct {
	svc   PlanService
	plans *memPlans
	queue *memQueue
	snaps *memSnapshots
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	cat, err := catalog.LoadEmbedded()
	if err != nil {
		t.Fatalf("LoadEmbedded: %v", err)
	}
	plans := newMemPlans()
	queue := &memQueue{}
	snaps := &memSnapshots{byPlan: map[string][]model.PlanSnapshot{}}
	return fixture{
		svc:   NewPlanService(planner.New(cat), plans, queue, snaps, zerolog.Nop()),
		plans: plans,
		queue: queue,
		snaps: snaps,
	}
}

func (f fixture) create(t *testing.T, cohort, finance string) string {
	t.Helper()
	ctx := context.Background()
	id, _, err := f.svc.Create(ctx, nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if cohort != "" {
		if _, err := f.svc.SelectCohort(ctx, id, cohort, finance); err != nil {
			t.Fatalf("SelectCohort: %v", err)
		}
	}
	return id
}

func TestPlanService_Create(t *testing.T) {
	f := newFixture(t)

	id, sum, err := f.svc.Create(context.Background(), nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if id == "" {
		t.Fatal("empty id")
	}
	if sum.Plan.HasCohort() || sum.Credits.Total != 0 {
		t.Errorf("summary = %+v", sum)
	}
	if _, ok := f.plans.plans[id]; !ok {
		t.Error("plan not saved")
	}
}

func TestPlanService_CreateFailsWhenSaveFails(t *testing.T) {
	f := newFixture(t)
	f.plans.saveErr = errors.New("redis down")

	if _, _, err := f.svc.Create(context.Background(), nil); err == nil {
		t.Error("Create succeeded without storage")
	}
}

func TestPlanService_SelectCohort(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	id := f.create(t, "", "")

	sum, err := f.svc.SelectCohort(ctx, id, "global", "")
	if err != nil {
		t.Fatalf("SelectCohort(global): %v", err)
	}
	if sum.Plan.FinanceChoice != "FNCE-6110" || sum.Credits.Total != 9.5 {
		t.Errorf("global plan = %+v, total %v", sum.Plan, sum.Credits.Total)
	}

	sum, err = f.svc.SelectCohort(ctx, id, "philadelphia", "fnce 6210")
	if err != nil {
		t.Fatalf("SelectCohort(philadelphia): %v", err)
	}
	if sum.Plan.FinanceChoice != "FNCE-6210" || sum.Credits.Total != 9.0 {
		t.Errorf("philadelphia plan = %+v, total %v", sum.Plan, sum.Credits.Total)
	}

	tests := []struct {
		name    string
		cohort  string
		finance string
		want    error
	}{
		{"unknown cohort", "tokyo", "", catalog.ErrUnknownCohort},
		{"bad finance code", "philadelphia", "FNCE-7050", ErrInvalidFinanceChoice},
		{"finance fixed for global", "global", "FNCE-6210", ErrFinanceChoiceLocked},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := f.svc.SelectCohort(ctx, id, tt.cohort, tt.finance); !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestPlanService_SetFinanceChoice(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	noCohort := f.create(t, "", "")
	if _, err := f.svc.SetFinanceChoice(ctx, noCohort, "FNCE-6110"); !errors.Is(err, ErrCohortRequired) {
		t.Errorf("no cohort: err = %v", err)
	}

	global := f.create(t, "global", "")
	if _, err := f.svc.SetFinanceChoice(ctx, global, "FNCE-6110"); !errors.Is(err, ErrFinanceChoiceLocked) {
		t.Errorf("global: err = %v", err)
	}

	sf := f.create(t, "san_francisco", "")
	if _, err := f.svc.SetFinanceChoice(ctx, sf, "MKTG-6110"); !errors.Is(err, ErrInvalidFinanceChoice) {
		t.Errorf("bad code: err = %v", err)
	}
	sum, err := f.svc.SetFinanceChoice(ctx, sf, "fnce-6110")
	if err != nil {
		t.Fatalf("SetFinanceChoice: %v", err)
	}
	if sum.FinanceCode != "FNCE-6110" || sum.Credits.Total != 9.5 {
		t.Errorf("finance %q, total %v", sum.FinanceCode, sum.Credits.Total)
	}
}

func TestPlanService_Courses(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	noCohort := f.create(t, "", "")
	if _, err := f.svc.AddCourse(ctx, noCohort, "FNCE-7050"); !errors.Is(err, ErrCohortRequired) {
		t.Errorf("no cohort: err = %v", err)
	}

	id := f.create(t, "philadelphia", "FNCE-6110")
	if _, err := f.svc.AddCourse(ctx, id, "ZZZZ-0000"); !errors.Is(err, catalog.ErrUnknownCourse) {
		t.Errorf("unknown course: err = %v", err)
	}

	sum, err := f.svc.AddCourse(ctx, id, "fnce 7050")
	if err != nil {
		t.Fatalf("AddCourse: %v", err)
	}
	sum, err = f.svc.AddCourse(ctx, id, "FNCE-7050")
	if err != nil {
		t.Fatalf("AddCourse again: %v", err)
	}
	if len(sum.Plan.PlannedCourses) != 1 || sum.Credits.Total != 10.5 {
		t.Errorf("planned %v, total %v", sum.Plan.PlannedCourses, sum.Credits.Total)
	}

	if _, err := f.svc.AddCourse(ctx, id, "MKTG-7780"); err != nil {
		t.Fatalf("AddCourse: %v", err)
	}
	sum, err = f.svc.RemoveCourse(ctx, id, "fnce 7050")
	if err != nil {
		t.Fatalf("RemoveCourse: %v", err)
	}
	if len(sum.Plan.PlannedCourses) != 1 || sum.Plan.PlannedCourses[0] != "MKTG-7780" {
		t.Errorf("planned = %v", sum.Plan.PlannedCourses)
	}

	sum, err = f.svc.ClearElectives(ctx, id)
	if err != nil {
		t.Fatalf("ClearElectives: %v", err)
	}
	if len(sum.Plan.PlannedCourses) != 0 || sum.Credits.Total != 9.5 {
		t.Errorf("after clear: %v, total %v", sum.Plan.PlannedCourses, sum.Credits.Total)
	}
}

func TestPlanService_MajorsAndBlocks(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	id := f.create(t, "philadelphia", "FNCE-6110")

	if _, err := f.svc.ToggleMajor(ctx, id, "astrology"); !errors.Is(err, catalog.ErrUnknownMajor) {
		t.Errorf("unknown major: err = %v", err)
	}
	sum, err := f.svc.ToggleMajor(ctx, id, "finance")
	if err != nil {
		t.Fatalf("ToggleMajor: %v", err)
	}
	if !sum.Plan.TargetsMajor("finance") {
		t.Error("finance not targeted")
	}
	sum, err = f.svc.ClearMajors(ctx, id)
	if err != nil {
		t.Fatalf("ClearMajors: %v", err)
	}
	if len(sum.Plan.TargetMajors) != 0 {
		t.Errorf("majors = %v", sum.Plan.TargetMajors)
	}

	if _, err := f.svc.ToggleBlockCourse(ctx, id, "NOPE-1"); !errors.Is(err, catalog.ErrUnknownBlockCourse) {
		t.Errorf("unknown block: err = %v", err)
	}
	sum, err = f.svc.ToggleBlockCourse(ctx, id, "lgst 8090")
	if err != nil {
		t.Fatalf("ToggleBlockCourse: %v", err)
	}
	if !sum.Plan.HasCompletedBlock("LGST-8090") || sum.Credits.Block != 0.5 {
		t.Errorf("block = %v, credits %v", sum.Plan.CompletedBlockCourses, sum.Credits.Block)
	}
	sum, err = f.svc.ToggleBlockCourse(ctx, id, "LGST-8090")
	if err != nil {
		t.Fatalf("ToggleBlockCourse: %v", err)
	}
	if sum.Plan.HasCompletedBlock("LGST-8090") {
		t.Error("block course not toggled off")
	}
}

func TestPlanService_ReplaceRewritesAliases(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	imported := model.PlanState{
		Cohort:         "philadelphia",
		PlannedCourses: []string{"lgst 7820", "FNCE 7050"},
		FinanceChoice:  "fnce 6110",
	}
	sum, err := f.svc.Replace(ctx, "11111111-1111-1111-1111-111111111111", imported)
	if err != nil {
		t.Fatalf("Replace: %v", err)
	}
	if sum.Plan.PlannedCourses[0] != "LGST-XXXX" || sum.Plan.FinanceChoice != "FNCE-6110" {
		t.Errorf("plan = %+v", sum.Plan)
	}

	bad := model.PlanState{Cohort: "mars"}
	if _, err := f.svc.Replace(ctx, "x", bad); !errors.Is(err, catalog.ErrUnknownCohort) {
		t.Errorf("unknown cohort: err = %v", err)
	}
}

func TestPlanService_ReplaceNewPlanFailsWhenSaveFails(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.plans.saveErr = errors.New("redis down")

	imported := model.PlanState{Cohort: "philadelphia", FinanceChoice: "FNCE-6110"}
	if _, err := f.svc.Replace(ctx, "22222222-2222-2222-2222-222222222222", imported); err == nil {
		t.Error("Replace reported success without storing a new plan")
	}
}

func TestPlanService_ReplaceExistingSurvivesSaveFailure(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	id := f.create(t, "philadelphia", "FNCE-6110")
	f.plans.saveErr = errors.New("redis down")

	imported := model.PlanState{Cohort: "philadelphia", FinanceChoice: "FNCE-6110", PlannedCourses: []string{"FNCE-7050"}}
	sum, err := f.svc.Replace(ctx, id, imported)
	if err != nil {
		t.Fatalf("Replace: %v", err)
	}
	if !sum.Plan.IsPlanned("FNCE-7050") {
		t.Error("summary does not reflect the import")
	}
}

func TestPlanService_ReadErrorKeepsStoredPlan(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	id := f.create(t, "philadelphia", "FNCE-6110")
	if _, err := f.svc.AddCourse(ctx, id, "FNCE-7050"); err != nil {
		t.Fatalf("AddCourse: %v", err)
	}

	timeout := errors.New("i/o timeout")
	f.plans.getErr = timeout
	if _, err := f.svc.ToggleMajor(ctx, id, "finance"); !errors.Is(err, timeout) {
		t.Errorf("ToggleMajor: err = %v, want read error", err)
	}
	if _, err := f.svc.ClearElectives(ctx, id); !errors.Is(err, timeout) {
		t.Errorf("ClearElectives: err = %v, want read error", err)
	}
	f.plans.getErr = nil

	stored := f.plans.plans[id]
	if stored.Cohort != "philadelphia" || stored.FinanceChoice != "FNCE-6110" || !stored.IsPlanned("FNCE-7050") {
		t.Errorf("stored plan changed: %+v", stored)
	}
	if len(stored.TargetMajors) != 0 {
		t.Errorf("majors = %v, want untouched", stored.TargetMajors)
	}
}

func TestPlanService_MutationsQueueSnapshots(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	id := f.create(t, "philadelphia", "FNCE-6110")
	before := len(f.queue.items)

	if _, err := f.svc.AddCourse(ctx, id, "FNCE-7050"); err != nil {
		t.Fatalf("AddCourse: %v", err)
	}
	if len(f.queue.items) != before+1 {
		t.Fatalf("queue = %d items, want %d", len(f.queue.items), before+1)
	}
	last := f.queue.items[len(f.queue.items)-1]
	if last.PlanID != id || last.TotalCredits != 10.5 || !last.State.IsPlanned("FNCE-7050") {
		t.Errorf("snapshot = %+v", last)
	}
}

func TestPlanService_MutationSurvivesSaveFailure(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	id := f.create(t, "philadelphia", "FNCE-6110")
	f.plans.saveErr = errors.New("redis down")

	sum, err := f.svc.AddCourse(ctx, id, "FNCE-7050")
	if err != nil {
		t.Fatalf("AddCourse: %v", err)
	}
	if !sum.Plan.IsPlanned("FNCE-7050") {
		t.Error("summary does not reflect the mutation")
	}
}

func TestPlanService_NotFound(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	if _, err := f.svc.AddCourse(ctx, "missing", "FNCE-7050"); !errors.Is(err, ErrPlanNotFound) {
		t.Errorf("AddCourse: err = %v", err)
	}
	if _, err := f.svc.Summary(ctx, "missing"); !errors.Is(err, ErrPlanNotFound) {
		t.Errorf("Summary: err = %v", err)
	}
}

func TestPlanService_ReadViews(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	id := f.create(t, "san_francisco", "FNCE-6210")
	if _, err := f.svc.AddCourse(ctx, id, "FNCE-7070"); err != nil {
		t.Fatalf("AddCourse: %v", err)
	}

	alerts, err := f.svc.Alerts(ctx, id)
	if err != nil || len(alerts) == 0 {
		t.Fatalf("Alerts = %v, %v", alerts, err)
	}

	info, err := f.svc.PrerequisiteInfo(ctx, id, "fnce 7070")
	if err != nil {
		t.Fatalf("PrerequisiteInfo: %v", err)
	}
	if info.Code != "FNCE-7070" || len(info.MissingPrereqs) == 0 {
		t.Errorf("info = %+v", info)
	}

	name, text, err := f.svc.Export(ctx, id)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if name != "wemba51-pathway-sf.txt" || !strings.Contains(text, "FNCE 7070") {
		t.Errorf("export %q:\n%s", name, text)
	}
}

func TestPlanService_Snapshots(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	id := f.create(t, "", "")
	for i := 0; i < 5; i++ {
		f.snaps.byPlan[id] = append(f.snaps.byPlan[id], model.PlanSnapshot{ID: int64(i + 1), PlanID: id})
	}

	items, total, err := f.svc.Snapshots(ctx, id, 2, 2)
	if err != nil {
		t.Fatalf("Snapshots: %v", err)
	}
	if total != 5 || len(items) != 2 || items[0].ID != 3 {
		t.Errorf("page 2 = %+v (total %d)", items, total)
	}

	if _, _, err := f.svc.Snapshots(ctx, "missing", 1, 10); !errors.Is(err, ErrPlanNotFound) {
		t.Errorf("missing plan: err = %v", err)
	}

	cat, _ := catalog.LoadEmbedded()
	disabled := NewPlanService(planner.New(cat), f.plans, nil, nil, zerolog.Nop())
	if _, _, err := disabled.Snapshots(ctx, id, 1, 10); !errors.Is(err, ErrSnapshotsDisabled) {
		t.Errorf("err = %v, want ErrSnapshotsDisabled", err)
	}
}
