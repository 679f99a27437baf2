package catalog

import (
	"strings"

	"github.com/stemsi/pathway-planner/internal/model"
)

// CourseFilter narrows a cohort's course listing. Empty fields match everything.
type CourseFilter struct {
	Department string
	MajorID    string
	Term       string
	Query      string
}

// CoursesForCohort lists the electives offered to a cohort that match f.
// With a major filter the major's own ordering is kept; otherwise catalog
// order is used.
func (c *Catalog) CoursesForCohort(cohort string, f CourseFilter) []*model.Course {
	candidates := c.courses
	if f.MajorID != "" {
		m := c.majorByID[f.MajorID]
		if m == nil {
			return []*model.Course{}
		}
		candidates = make([]*model.Course, 0)
		for _, code := range m.ElectiveCourses() {
			if course := c.courseByCode[code]; course != nil {
				candidates = append(candidates, course)
			}
		}
	}

	query := strings.ToLower(strings.TrimSpace(f.Query))
	dept := strings.ToUpper(f.Department)

	out := make([]*model.Course, 0)
	for _, course := range candidates {
		offering, ok := course.OfferingFor(cohort)
		if !ok {
			continue
		}
		if dept != "" && course.Department != dept {
			continue
		}
		if f.Term != "" && offering.Term != f.Term {
			continue
		}
		if query != "" && !matchesQuery(course, query) {
			continue
		}
		out = append(out, course)
	}
	return out
}

func matchesQuery(course *model.Course, query string) bool {
	return strings.Contains(strings.ToLower(course.Code), query) ||
		strings.Contains(strings.ToLower(model.DisplayCode(course.Code)), query) ||
		strings.Contains(strings.ToLower(course.Title), query)
}

// BlockCoursesForCohort lists block courses open to a cohort, optionally
// restricted to one term.
func (c *Catalog) BlockCoursesForCohort(cohort, term string) []*model.BlockCourse {
	out := make([]*model.BlockCourse, 0)
	for _, b := range c.blockCourses {
		if !b.OfferedTo(cohort) {
			continue
		}
		if term != "" && b.Term != term {
			continue
		}
		out = append(out, b)
	}
	return out
}

// CoursesUnlockedBy lists the codes of electives offered to the cohort that
// name code as a direct prerequisite.
func (c *Catalog) CoursesUnlockedBy(cohort, code string) []string {
	out := make([]string, 0)
	for _, course := range c.courses {
		if _, ok := course.OfferingFor(cohort); !ok {
			continue
		}
		if course.HasPrerequisite(code) {
			out = append(out, course.Code)
		}
	}
	return out
}

// UpstreamPrerequisites walks the prerequisite graph from code and returns
// every course it transitively depends on, in depth-first discovery order.
func (c *Catalog) UpstreamPrerequisites(code string) []string {
	visited := make(map[string]bool)
	added := make(map[string]bool)
	out := make([]string, 0)

	var walk func(string)
	walk = func(cur string) {
		if visited[cur] {
			return
		}
		visited[cur] = true
		course := c.courseByCode[cur]
		if course == nil {
			return
		}
		for _, p := range course.Prerequisites {
			if !added[p] {
				added[p] = true
				out = append(out, p)
			}
			walk(p)
		}
	}
	walk(code)
	return out
}
