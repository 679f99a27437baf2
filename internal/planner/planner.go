// Package planner derives credits, major progress, schedule conflicts,
// prerequisite gaps and advisory alerts from a plan and the catalog.
//
// Every function is a pure read: the plan and catalog are never mutated and
// unknown codes contribute nothing instead of failing.
package planner

import (
	"github.com/stemsi/pathway-planner/internal/catalog"
	"github.com/stemsi/pathway-planner/internal/model"
)

// Engine evaluates plans against one catalog.
type Engine struct {
	cat *catalog.Catalog
}

// New creates an Engine over cat.
func New(cat *catalog.Catalog) *Engine {
	return &Engine{cat: cat}
}

// Catalog returns the catalog the engine reads.
func (e *Engine) Catalog() *catalog.Catalog {
	return e.cat
}

// coreSet is the cohort's core curriculum after the finance substitution.
type coreSet struct {
	credits map[string]float64
	order   []string
	finance string
}

func (s coreSet) has(code string) bool {
	_, ok := s.credits[code]
	return ok
}

func (s coreSet) total() float64 {
	var sum float64
	for _, code := range s.order {
		sum += s.credits[code]
	}
	return sum
}

// FinanceCode resolves which corporate finance course the plan takes. For a
// cohort with a choice, the long course applies only when explicitly chosen.
func (e *Engine) FinanceCode(plan model.PlanState) string {
	return e.core(plan).finance
}

func (e *Engine) core(plan model.PlanState) coreSet {
	set := coreSet{credits: make(map[string]float64)}
	cc, ok := e.cat.CoreCurriculum(plan.Cohort)
	if !ok {
		return set
	}

	add := func(code string, credits float64) {
		if _, dup := set.credits[code]; dup {
			return
		}
		set.credits[code] = credits
		set.order = append(set.order, code)
	}
	for _, cr := range cc.Courses() {
		add(cr.Code, cr.Credits)
	}

	fin := e.cat.Rules().Finance
	if e.cat.OffersFinanceChoice(plan.Cohort) {
		set.finance = fin.ShortCode
		if plan.FinanceChoice == fin.LongCode {
			alt, _ := cc.Alternative(fin.LongCode)
			delete(set.credits, fin.ShortCode)
			set.order = removeCode(set.order, fin.ShortCode)
			add(alt.Code, alt.Credits)
			set.finance = fin.LongCode
		}
		return set
	}

	switch {
	case set.has(fin.LongCode):
		set.finance = fin.LongCode
	case set.has(fin.ShortCode):
		set.finance = fin.ShortCode
	}
	return set
}

// takenCredits returns a code's credit value when the plan covers it, looking
// at planned electives, then completed block courses, then the core.
func (e *Engine) takenCredits(plan model.PlanState, core coreSet, code string) (float64, bool) {
	if plan.IsPlanned(code) {
		if course := e.cat.Course(code); course != nil {
			return course.Credits, true
		}
	}
	if plan.HasCompletedBlock(code) {
		if b := e.cat.BlockCourse(code); b != nil {
			return b.Credits, true
		}
	}
	if c, ok := core.credits[code]; ok {
		return c, true
	}
	return 0, false
}

// PlannedCoursesForTerm resolves the plan's electives that run in term for
// the plan's cohort, in planned order.
func (e *Engine) PlannedCoursesForTerm(plan model.PlanState, term string) []model.PlannedCourse {
	out := make([]model.PlannedCourse, 0)
	for _, code := range plan.PlannedCourses {
		course := e.cat.Course(code)
		if course == nil {
			continue
		}
		off, ok := course.OfferingFor(plan.Cohort)
		if !ok || off.Term != term {
			continue
		}
		out = append(out, model.PlannedCourse{
			Code:     course.Code,
			Label:    course.Label,
			Title:    course.Title,
			Credits:  course.Credits,
			Offering: off,
		})
	}
	return out
}

// PlannedByTerm groups the plan's electives by offering term.
func (e *Engine) PlannedByTerm(plan model.PlanState) map[string][]model.PlannedCourse {
	out := make(map[string][]model.PlannedCourse)
	for _, code := range plan.PlannedCourses {
		course := e.cat.Course(code)
		if course == nil {
			continue
		}
		off, ok := course.OfferingFor(plan.Cohort)
		if !ok {
			continue
		}
		out[off.Term] = append(out[off.Term], model.PlannedCourse{
			Code:     course.Code,
			Label:    course.Label,
			Title:    course.Title,
			Credits:  course.Credits,
			Offering: off,
		})
	}
	return out
}

// Summary computes every derived view of the plan in one pass.
func (e *Engine) Summary(plan model.PlanState) model.PlanSummary {
	rules := e.cat.Rules()
	credits := e.CreditBreakdown(plan)

	summary := model.PlanSummary{
		Plan:                 plan,
		Credits:              credits,
		GraduationMinimum:    rules.GraduationMinimum,
		GraduationReady:      credits.Total >= rules.GraduationMinimum,
		FinanceCode:          e.FinanceCode(plan),
		Majors:               e.AllMajorProgress(plan),
		Conflicts:            e.ScheduleConflicts(plan),
		MissingPrerequisites: e.MissingPrerequisites(plan),
		Alerts:               e.Alerts(plan),
		Validation:           e.ValidationMessages(plan),
		PlannedByTerm:        e.PlannedByTerm(plan),
	}
	if !summary.GraduationReady {
		summary.CreditsNeeded = rules.GraduationMinimum - credits.Total
	}
	if credits.Total > rules.MaximumWithoutExtraTuition {
		summary.ExtraTuitionCredits = credits.Total - rules.MaximumWithoutExtraTuition
	}
	return summary
}

// label is the reader-facing code for a catalog course, falling back to the
// display form for codes the catalog does not know.
func (e *Engine) label(code string) string {
	if course := e.cat.Course(code); course != nil && course.Label != "" {
		return course.Label
	}
	return model.DisplayCode(code)
}

func (e *Engine) labels(codes []string) []string {
	out := make([]string, 0, len(codes))
	for _, c := range codes {
		out = append(out, e.label(c))
	}
	return out
}

func removeCode(list []string, code string) []string {
	out := list[:0:0]
	for _, c := range list {
		if c != code {
			out = append(out, c)
		}
	}
	return out
}

func containsCode(list []string, code string) bool {
	for _, c := range list {
		if c == code {
			return true
		}
	}
	return false
}
