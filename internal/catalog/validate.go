package catalog

import (
	"fmt"
	"sort"
)

// Validate lists dangling references in the catalog. Lookups treat unknown
// codes as contributing nothing, so these are reported, never fatal.
func (c *Catalog) Validate() []string {
	var issues []string

	known := make(map[string]struct{}, len(c.courseByCode)+len(c.blockByCode))
	for code := range c.courseByCode {
		known[code] = struct{}{}
	}
	for code := range c.blockByCode {
		known[code] = struct{}{}
	}
	for _, cc := range c.core {
		for _, cr := range cc.Courses() {
			known[cr.Code] = struct{}{}
		}
		for _, alt := range cc.Alternatives {
			known[alt.Code] = struct{}{}
		}
	}

	for _, course := range c.courses {
		for _, p := range course.Prerequisites {
			if _, ok := known[p]; !ok {
				issues = append(issues, fmt.Sprintf("course %s: prerequisite %s is not in the catalog", course.Code, p))
			}
		}
		for cohort := range course.Offerings {
			if !c.HasCohort(cohort) {
				issues = append(issues, fmt.Sprintf("course %s: offering for unknown cohort %q", course.Code, cohort))
			}
		}
	}

	for _, b := range c.blockCourses {
		for _, cohort := range b.Cohorts {
			if !c.HasCohort(cohort) {
				issues = append(issues, fmt.Sprintf("block course %s: unknown cohort %q", b.Code, cohort))
			}
		}
	}

	for _, m := range c.majors {
		for _, code := range m.Requirements.Codes() {
			if _, ok := known[code]; !ok {
				issues = append(issues, fmt.Sprintf("major %s: course %s is not in the catalog", m.ID, code))
			}
		}
	}

	for _, co := range c.cohorts {
		if _, ok := c.core[co.ID]; !ok {
			issues = append(issues, fmt.Sprintf("cohort %s: no core curriculum", co.ID))
		}
	}

	sort.Strings(issues)
	return issues
}
