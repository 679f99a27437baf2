package planner

import (
	"math"

	"github.com/stemsi/pathway-planner/internal/model"
)

// MajorProgress computes one major's completion. Unknown majors report zero
// of zero.
func (e *Engine) MajorProgress(plan model.PlanState, majorID string) model.MajorProgress {
	m := e.cat.Major(majorID)
	if m == nil {
		return model.MajorProgress{MajorID: majorID}
	}

	p := model.MajorProgress{
		MajorID:         m.ID,
		Name:            m.Name,
		Kind:            m.Kind,
		RequiredCredits: m.RequiredCredits,
	}

	core := e.core(plan)
	switch req := m.Requirements.(type) {
	case model.StructuredRequirements:
		details := e.structuredProgress(plan, core, req)
		completed := details.CoreA.Credits + details.CoreB.Credits + details.Research.Credits +
			math.Min(details.Electives.Credits, details.Electives.Required)
		p.CompletedCredits = math.Min(completed, m.RequiredCredits)
		p.Details = &details
	case model.GenericRequirements:
		p.CompletedCredits = math.Min(e.genericProgress(plan, core, req), m.RequiredCredits)
	}

	p.Complete = p.CompletedCredits >= p.RequiredCredits
	return p
}

// AllMajorProgress computes progress for every target major, skipping ids
// the catalog does not know.
func (e *Engine) AllMajorProgress(plan model.PlanState) []model.MajorProgress {
	out := make([]model.MajorProgress, 0, len(plan.TargetMajors))
	for _, id := range plan.TargetMajors {
		if e.cat.Major(id) == nil {
			continue
		}
		out = append(out, e.MajorProgress(plan, id))
	}
	return out
}

// genericProgress sums each distinct code the major lists that the plan
// covers through a planned elective, a completed block course, or a core
// requirement already in the core curriculum.
func (e *Engine) genericProgress(plan model.PlanState, core coreSet, req model.GenericRequirements) float64 {
	var total float64
	for _, code := range req.Codes() {
		switch {
		case plan.IsPlanned(code) && e.cat.Course(code) != nil,
			plan.HasCompletedBlock(code) && e.cat.BlockCourse(code) != nil,
			core.has(code) && containsCode(req.Core, code):
			c, _ := e.takenCredits(plan, core, code)
			total += c
		}
	}
	return total
}

// structuredProgress evaluates the four buckets in order. Core-B is topped
// up from planned electives before the electives are tallied, and the same
// amount is taken back out of the electives.
func (e *Engine) structuredProgress(plan model.PlanState, core coreSet, req model.StructuredRequirements) model.StructuredProgress {
	var d model.StructuredProgress

	// Core A: two independent half-credit gates.
	d.CoreA.Required = req.CoreA.RequiredCredits
	d.CoreA.HasRequiredCourse = len(req.CoreA.RequiredCourses) > 0
	for _, code := range req.CoreA.RequiredCourses {
		if _, ok := e.takenCredits(plan, core, code); !ok {
			d.CoreA.HasRequiredCourse = false
			break
		}
	}
	for _, code := range req.CoreA.OneOfCourses {
		if _, ok := e.takenCredits(plan, core, code); ok {
			d.CoreA.HasOneOfCourse = true
			break
		}
	}
	half := req.CoreA.RequiredCredits / 2
	if d.CoreA.HasRequiredCourse {
		d.CoreA.Credits += half
	}
	if d.CoreA.HasOneOfCourse {
		d.CoreA.Credits += half
	}
	d.CoreA.Credits = math.Min(d.CoreA.Credits, d.CoreA.Required)

	// Core B: core curriculum only.
	d.CoreB.Required = req.CoreB.RequiredCredits
	for _, code := range req.CoreB.Courses {
		d.CoreB.Credits += core.credits[code]
	}
	d.CoreB.Credits = math.Min(d.CoreB.Credits, d.CoreB.Required)

	// Research: a complete pair meets the bucket outright.
	d.Research.Required = req.Research.RequiredCredits
	for _, pair := range req.Research.PairedCourses {
		complete := true
		for _, code := range pair {
			if _, ok := e.takenCredits(plan, core, code); !ok {
				complete = false
				break
			}
		}
		if complete {
			d.Research.Credits = d.Research.Required
			d.Research.ViaPair = true
			break
		}
	}
	if d.Research.Credits < d.Research.Required {
		for _, code := range req.Research.OneOfCourses {
			if c, ok := e.takenCredits(plan, core, code); ok {
				d.Research.Credits += c
			}
		}
	}
	d.Research.Credits = math.Min(d.Research.Credits, d.Research.Required)
	d.Research.Met = d.Research.Required <= 0 || d.Research.Credits >= d.Research.Required

	// Electives.
	bucket := req.Electives
	d.Electives.Required = bucket.RequiredCredits
	d.Electives.DepartmentCredits = make(map[string]float64)
	for _, f := range bucket.MinDepartmentCredits {
		d.Electives.DepartmentCredits[f.Department] = 0
	}
	for _, dept := range bucket.EligibleDepartments {
		d.Electives.DepartmentCredits[dept] = 0
	}

	research := make(map[string]bool)
	for _, code := range req.Research.Codes() {
		research[code] = true
	}

	var plannedCoreB float64
	tally := func(code, dept string, credits float64, planned bool) {
		if !containsCode(bucket.EligibleDepartments, dept) && !containsCode(bucket.EligibleOutside, code) {
			return
		}
		if research[code] {
			return
		}
		if override, ok := bucket.DepartmentOverrides[code]; ok {
			dept = override
		}
		if planned && containsCode(req.CoreB.Courses, code) && dept == req.CoreB.Department {
			plannedCoreB += credits
		}
		d.Electives.Credits += credits
		d.Electives.DepartmentCredits[dept] += credits
	}

	for _, code := range plan.PlannedCourses {
		if core.has(code) {
			continue
		}
		if course := e.cat.Course(code); course != nil {
			tally(code, course.Department, course.Credits, true)
		}
	}
	for _, code := range plan.CompletedBlockCourses {
		if core.has(code) || plan.IsPlanned(code) {
			continue
		}
		if b := e.cat.BlockCourse(code); b != nil {
			tally(code, b.Department, b.Credits, false)
		}
	}

	fromPlanned := math.Min(math.Max(0, d.CoreB.Required-d.CoreB.Credits), plannedCoreB)
	if fromPlanned > 0 {
		d.CoreB.Credits += fromPlanned
		d.CoreB.FromPlanned = fromPlanned
		d.Electives.Credits -= fromPlanned
		d.Electives.DepartmentCredits[req.CoreB.Department] -= fromPlanned
	}

	return d
}
