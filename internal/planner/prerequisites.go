package planner

import "github.com/stemsi/pathway-planner/internal/model"

// completedSet is every code the plan treats as done for prerequisite
// purposes: planned electives plus the core curriculum with its finance
// course resolved.
func (e *Engine) completedSet(plan model.PlanState) map[string]struct{} {
	core := e.core(plan)
	set := make(map[string]struct{}, len(plan.PlannedCourses)+len(core.order)+1)
	for _, code := range plan.PlannedCourses {
		set[code] = struct{}{}
	}
	for _, code := range core.order {
		set[code] = struct{}{}
	}
	if core.finance != "" {
		set[core.finance] = struct{}{}
	}
	return set
}

func missingFrom(prereqs []string, done map[string]struct{}) []string {
	missing := make([]string, 0)
	for _, p := range prereqs {
		if _, ok := done[p]; !ok {
			missing = append(missing, p)
		}
	}
	return missing
}

// MissingPrerequisites lists each planned course whose prerequisites the
// plan does not fully cover. Courses with nothing missing are omitted.
func (e *Engine) MissingPrerequisites(plan model.PlanState) []model.MissingPrerequisite {
	done := e.completedSet(plan)
	out := make([]model.MissingPrerequisite, 0)
	for _, code := range plan.PlannedCourses {
		course := e.cat.Course(code)
		if course == nil || len(course.Prerequisites) == 0 {
			continue
		}
		missing := missingFrom(course.Prerequisites, done)
		if len(missing) == 0 {
			continue
		}
		out = append(out, model.MissingPrerequisite{
			Code:         course.Code,
			Course:       e.label(course.Code),
			MissingCodes: missing,
			Missing:      e.labels(missing),
		})
	}
	return out
}

// PrerequisiteInfo reports a course's full prerequisite list alongside the
// ones the plan is missing, both as display codes. The course need not be
// planned.
func (e *Engine) PrerequisiteInfo(plan model.PlanState, code string) model.PrerequisiteInfo {
	code = model.NormalizeCode(code)
	info := model.PrerequisiteInfo{
		Code:           code,
		Prerequisites:  []string{},
		MissingPrereqs: []string{},
	}
	course := e.cat.Course(code)
	if course == nil || len(course.Prerequisites) == 0 {
		return info
	}
	info.Prerequisites = e.labels(course.Prerequisites)
	info.MissingPrereqs = e.labels(missingFrom(course.Prerequisites, e.completedSet(plan)))
	return info
}

// DownstreamPlanned lists the planned courses that name code as a direct
// prerequisite.
func (e *Engine) DownstreamPlanned(plan model.PlanState, code string) []string {
	code = model.NormalizeCode(code)
	out := make([]string, 0)
	for _, planned := range plan.PlannedCourses {
		course := e.cat.Course(planned)
		if course != nil && course.HasPrerequisite(code) {
			out = append(out, planned)
		}
	}
	return out
}
