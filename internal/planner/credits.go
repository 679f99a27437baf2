package planner

import "github.com/stemsi/pathway-planner/internal/model"

// TotalCredits returns the plan's earned credits: the cohort's core
// curriculum after the finance substitution, completed block courses, and
// planned electives. Each code is counted once, core first.
func (e *Engine) TotalCredits(plan model.PlanState) float64 {
	return e.CreditBreakdown(plan).Total
}

// CreditBreakdown returns TotalCredits split by source.
func (e *Engine) CreditBreakdown(plan model.PlanState) model.CreditBreakdown {
	core := e.core(plan)
	b := model.CreditBreakdown{Core: core.total()}
	if core.finance != "" {
		b.Finance = core.credits[core.finance]
	}

	for _, code := range plan.CompletedBlockCourses {
		if core.has(code) {
			continue
		}
		if bc := e.cat.BlockCourse(code); bc != nil {
			b.Block += bc.Credits
		}
	}

	for _, code := range plan.PlannedCourses {
		if core.has(code) {
			continue
		}
		if plan.HasCompletedBlock(code) && e.cat.BlockCourse(code) != nil {
			continue
		}
		if course := e.cat.Course(code); course != nil {
			b.Electives += course.Credits
		}
	}

	b.Total = b.Core + b.Block + b.Electives
	return b
}

// CourseCredits returns the credits a single code contributes to the plan,
// or zero when the plan does not include it.
func (e *Engine) CourseCredits(plan model.PlanState, code string) float64 {
	code = model.NormalizeCode(code)
	core := e.core(plan)
	if c, ok := core.credits[code]; ok {
		return c
	}
	if plan.HasCompletedBlock(code) {
		if bc := e.cat.BlockCourse(code); bc != nil {
			return bc.Credits
		}
	}
	if plan.IsPlanned(code) {
		if course := e.cat.Course(code); course != nil {
			return course.Credits
		}
	}
	return 0
}

// GraduationReady reports whether the plan reaches the graduation minimum.
func (e *Engine) GraduationReady(plan model.PlanState) bool {
	return e.TotalCredits(plan) >= e.cat.Rules().GraduationMinimum
}
