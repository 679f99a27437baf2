package planner

import (
	"fmt"
	"strings"

	"github.com/stemsi/pathway-planner/internal/model"
)

// ExportTerms is the order electives are listed in the exported plan.
var ExportTerms = []string{"T4", "T5", "T6", "BW"}

// ExportText renders the plan as a plain-text summary suitable for download.
func (e *Engine) ExportText(plan model.PlanState) string {
	rules := e.cat.Rules()
	total := e.TotalCredits(plan)

	cohortName := "Not selected"
	if co, err := e.cat.Cohort(plan.Cohort); err == nil {
		cohortName = co.Name
	}

	status := "In Progress"
	if total >= rules.GraduationMinimum {
		status = "Graduation Ready"
	}

	var b strings.Builder
	title := strings.TrimSpace(rules.ProgramName + " Pathway Plan")
	fmt.Fprintf(&b, "%s\n", title)
	fmt.Fprintf(&b, "========================\n\n")
	fmt.Fprintf(&b, "Cohort: %s\n", cohortName)
	fmt.Fprintf(&b, "Total CU: %s / %s\n", formatCU(total), formatCU(rules.GraduationMinimum))
	fmt.Fprintf(&b, "Status: %s\n", status)

	var majors []string
	for _, id := range plan.TargetMajors {
		if m := e.cat.Major(id); m != nil {
			majors = append(majors, m.Name)
		}
	}
	if len(majors) > 0 {
		fmt.Fprintf(&b, "Target Major(s): %s\n", strings.Join(majors, ", "))
	}

	if len(plan.CompletedBlockCourses) > 0 {
		fmt.Fprintf(&b, "\n--- Completed Block Courses (Terms 1-3) ---\n\n")
		fmt.Fprintf(&b, "Total: %s CU\n\n", formatCU(e.CreditBreakdown(plan).Block))
		for _, code := range plan.CompletedBlockCourses {
			bc := e.cat.BlockCourse(code)
			if bc == nil {
				continue
			}
			fmt.Fprintf(&b, "  - %s: %s (%s CU)\n", bc.Label, bc.Title, formatCredits(bc.Credits))
			fmt.Fprintf(&b, "    Professor: %s | %s\n", bc.Professor, bc.Dates)
		}
		fmt.Fprintf(&b, "\n")
	}

	fmt.Fprintf(&b, "\n--- Elective Courses ---\n\n")
	for _, term := range ExportTerms {
		courses := e.PlannedCoursesForTerm(plan, term)
		if len(courses) == 0 {
			continue
		}
		fmt.Fprintf(&b, "%s:\n", termLabel(term))
		for _, c := range courses {
			fmt.Fprintf(&b, "  - %s: %s (%s CU)\n", c.Label, c.Title, formatCredits(c.Credits))
			fmt.Fprintf(&b, "    Professor: %s\n", c.Offering.Professor)
		}
		fmt.Fprintf(&b, "\n")
	}

	return b.String()
}

// ExportFilename names the downloadable export for the plan's cohort.
func (e *Engine) ExportFilename(plan model.PlanState) string {
	prefix := strings.ToLower(strings.ReplaceAll(e.cat.Rules().ProgramName, " ", ""))
	if prefix == "" {
		prefix = "plan"
	}
	short := "plan"
	if co, err := e.cat.Cohort(plan.Cohort); err == nil && co.ShortName != "" {
		short = strings.ToLower(co.ShortName)
	}
	return fmt.Sprintf("%s-pathway-%s.txt", prefix, short)
}
