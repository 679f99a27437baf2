package planner

import (
	"sort"

	"github.com/stemsi/pathway-planner/internal/model"
)

type scheduled struct {
	course   *model.Course
	offering model.Offering
}

// ScheduleConflicts compares every unordered pair of planned courses that
// run in the same term for the plan's cohort. Travel courses only collide
// with travel courses on identical dates. When both sides carry a slot label
// the slot letters decide; otherwise shared weekend indexes do. Pairs with
// neither slots nor weekends collide only on identical fixed dates.
func (e *Engine) ScheduleConflicts(plan model.PlanState) []model.Conflict {
	var terms []string
	byTerm := make(map[string][]scheduled)
	for _, code := range plan.PlannedCourses {
		course := e.cat.Course(code)
		if course == nil {
			continue
		}
		off, ok := course.OfferingFor(plan.Cohort)
		if !ok {
			continue
		}
		if _, seen := byTerm[off.Term]; !seen {
			terms = append(terms, off.Term)
		}
		byTerm[off.Term] = append(byTerm[off.Term], scheduled{course: course, offering: off})
	}

	conflicts := make([]model.Conflict, 0)
	for _, term := range terms {
		list := byTerm[term]
		for i := 0; i < len(list); i++ {
			for j := i + 1; j < len(list); j++ {
				if c, ok := e.pairConflict(plan.Cohort, term, list[i], list[j]); ok {
					conflicts = append(conflicts, c)
				}
			}
		}
	}
	return conflicts
}

// CourseConflicts returns the conflicts that involve one planned course.
func (e *Engine) CourseConflicts(plan model.PlanState, code string) []model.Conflict {
	code = model.NormalizeCode(code)
	out := make([]model.Conflict, 0)
	for _, c := range e.ScheduleConflicts(plan) {
		if c.Code1 == code || c.Code2 == code {
			out = append(out, c)
		}
	}
	return out
}

func (e *Engine) pairConflict(cohort, term string, a, b scheduled) (model.Conflict, bool) {
	oa, ob := a.offering, b.offering
	c := model.Conflict{
		Course1:  e.label(a.course.Code),
		Course2:  e.label(b.course.Code),
		Code1:    a.course.Code,
		Code2:    b.course.Code,
		Term:     term,
		TermName: e.cat.TermName(cohort, term),
	}

	if oa.IsTravel() || ob.IsTravel() {
		if oa.IsTravel() && ob.IsTravel() && oa.Dates != "" && oa.Dates == ob.Dates {
			c.Travel = true
			c.Dates = oa.Dates
			return c, true
		}
		return model.Conflict{}, false
	}

	la, lb := oa.SlotLetters(), ob.SlotLetters()
	if len(la) > 0 && len(lb) > 0 {
		shared := intersectStrings(la, lb)
		if len(shared) == 0 {
			return model.Conflict{}, false
		}
		c.Slot = shared[0]
		if w, ok := firstSharedWeekend(oa.Weekends, ob.Weekends); ok {
			e.setWeekend(&c, cohort, term, w)
		}
		return c, true
	}

	if len(oa.Weekends) > 0 && len(ob.Weekends) > 0 {
		w, ok := firstSharedWeekend(oa.Weekends, ob.Weekends)
		if !ok {
			return model.Conflict{}, false
		}
		e.setWeekend(&c, cohort, term, w)
		return c, true
	}

	if len(oa.Weekends) == 0 && len(ob.Weekends) == 0 && oa.Dates != "" && oa.Dates == ob.Dates {
		c.Dates = oa.Dates
		return c, true
	}
	return model.Conflict{}, false
}

func (e *Engine) setWeekend(c *model.Conflict, cohort, term string, w int) {
	c.Weekend = &w
	c.WeekendLabel = e.cat.WeekendLabel(cohort, term, w)
}

// firstSharedWeekend returns the lowest weekend index present in both lists.
func firstSharedWeekend(a, b []int) (int, bool) {
	inB := make(map[int]bool, len(b))
	for _, w := range b {
		inB[w] = true
	}
	found := false
	lowest := 0
	for _, w := range a {
		if inB[w] && (!found || w < lowest) {
			lowest = w
			found = true
		}
	}
	return lowest, found
}

func intersectStrings(a, b []string) []string {
	var out []string
	for _, x := range a {
		if containsCode(b, x) {
			out = append(out, x)
		}
	}
	sort.Strings(out)
	return out
}
