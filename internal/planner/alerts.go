package planner

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/stemsi/pathway-planner/internal/model"
)

// Alerts composes the advisory messages for a plan in display order:
// graduation shortfall, finance decision, finance-major mismatch, per-major
// shortfalls, tuition overage, schedule conflicts, missing prerequisites.
// Nothing is deduplicated or suppressed.
func (e *Engine) Alerts(plan model.PlanState) []model.Alert {
	rules := e.cat.Rules()
	total := e.TotalCredits(plan)
	alerts := make([]model.Alert, 0)

	if total < rules.GraduationMinimum {
		alerts = append(alerts, warning("You need %s more CU to reach the graduation minimum of %s CU",
			formatCU(rules.GraduationMinimum-total), formatCU(rules.GraduationMinimum)))
	}

	if e.cat.OffersFinanceChoice(plan.Cohort) && plan.FinanceChoice == "" {
		alerts = append(alerts, warning("Make your %s Corporate Finance decision above", termLabel(rules.Finance.Term)))
	}

	for _, id := range plan.TargetMajors {
		m := e.cat.Major(id)
		if m == nil || !m.RequiresLongFinance {
			continue
		}
		if plan.FinanceChoice == rules.Finance.ShortCode {
			alerts = append(alerts, model.Alert{
				Severity: model.SeverityError,
				Message: fmt.Sprintf("%s major requires %s. Change your %s decision or remove %s major.",
					m.Name, model.DisplayCode(rules.Finance.LongCode), termLabel(rules.Finance.Term), m.Name),
			})
		}
	}

	for _, id := range plan.TargetMajors {
		m := e.cat.Major(id)
		if m == nil {
			continue
		}
		progress := e.MajorProgress(plan, id)
		if progress.CompletedCredits < progress.RequiredCredits {
			alerts = append(alerts, info("%s major: Need %s more CU to complete", m.Name, formatCU(progress.Remaining())))
		}
		if req, ok := m.Requirements.(model.StructuredRequirements); ok && progress.Details != nil {
			alerts = append(alerts, structuredAlerts(m.DisplayName(), req, *progress.Details)...)
		}
	}

	if total > rules.MaximumWithoutExtraTuition {
		alerts = append(alerts, warning("Your plan exceeds %s CU by %s. Additional tuition may apply.",
			formatCU(rules.MaximumWithoutExtraTuition), formatCU(total-rules.MaximumWithoutExtraTuition)))
	}

	for _, c := range e.ScheduleConflicts(plan) {
		alerts = append(alerts, model.Alert{Severity: model.SeverityWarning, Message: conflictMessage(c)})
	}

	for _, mp := range e.MissingPrerequisites(plan) {
		verb := "is"
		if len(mp.Missing) > 1 {
			verb = "are"
		}
		alerts = append(alerts, warning("%s requires %s which %s not in your plan",
			mp.Course, strings.Join(mp.Missing, ", "), verb))
	}

	return alerts
}

func structuredAlerts(name string, req model.StructuredRequirements, d model.StructuredProgress) []model.Alert {
	var out []model.Alert

	if !d.CoreA.HasRequiredCourse {
		out = append(out, warning("%s major: %s requires %s",
			name, req.CoreA.Label, strings.Join(model.DisplayCodes(req.CoreA.RequiredCourses), " and ")))
	}
	if !d.CoreA.HasOneOfCourse {
		out = append(out, warning("%s major: Complete %s for the %s",
			name, strings.Join(model.DisplayCodes(req.CoreA.OneOfCourses), " or "), strings.ToLower(req.CoreA.Label)))
	}
	if d.CoreB.Credits < d.CoreB.Required {
		out = append(out, warning("%s major: Need %s more CU from %s (flex-core list)",
			name, formatCU(d.CoreB.Required-d.CoreB.Credits), req.CoreB.Label))
	}
	if !d.Research.Met {
		examples := req.Research.Examples
		if len(examples) == 0 {
			examples = req.Research.OneOfCourses
		}
		if len(examples) > 2 {
			examples = examples[:2]
		}
		out = append(out, warning("%s major: Add a %s course (e.g., %s)",
			name, req.Research.Label, strings.Join(model.DisplayCodes(examples), " or ")))
	}
	if d.Electives.Credits < d.Electives.Required {
		out = append(out, info("%s major: Need %s more elective CU from %s",
			name, formatCU(d.Electives.Required-d.Electives.Credits), strings.Join(req.Electives.EligibleDepartments, "/")))
	}
	for _, floor := range req.Electives.MinDepartmentCredits {
		needed := math.Max(0, floor.Credits-d.Electives.DepartmentCredits[floor.Department])
		if needed > 0 {
			out = append(out, info("%s major: Need %s more %s elective CU", name, formatCU(needed), floor.Department))
		}
	}
	return out
}

func conflictMessage(c model.Conflict) string {
	var where string
	switch {
	case c.Travel:
		where = fmt.Sprintf("overlap on %s (%s)", c.Dates, model.CategoryTravel)
	case c.Weekend != nil:
		where = fmt.Sprintf("overlap on weekend %d", *c.Weekend+1)
	case c.Slot != "":
		where = fmt.Sprintf("share slot %s", c.Slot)
	default:
		where = fmt.Sprintf("overlap on %s", c.Dates)
	}
	return fmt.Sprintf("Schedule conflict: %s and %s %s in %s", c.Course1, c.Course2, where, c.TermName)
}

// ValidationMessages is the pass/fail checklist shown beside the plan:
// graduation status, each target major's status, and the finance-major check.
func (e *Engine) ValidationMessages(plan model.PlanState) []model.Alert {
	rules := e.cat.Rules()
	total := e.TotalCredits(plan)
	msgs := make([]model.Alert, 0)

	if total >= rules.GraduationMinimum {
		msgs = append(msgs, model.Alert{
			Severity: model.SeveritySuccess,
			Message:  fmt.Sprintf("Your plan totals %s CU - meets graduation requirement!", formatCU(total)),
		})
	} else {
		msgs = append(msgs, warning("Your plan needs %s more CU to meet the %s CU graduation requirement",
			formatCU(rules.GraduationMinimum-total), formatCU(rules.GraduationMinimum)))
	}

	for _, progress := range e.AllMajorProgress(plan) {
		if progress.Complete {
			msgs = append(msgs, model.Alert{
				Severity: model.SeveritySuccess,
				Message:  fmt.Sprintf("%s major requirements complete!", progress.Name),
			})
			continue
		}
		msgs = append(msgs, warning("%s major: %s CU remaining", progress.Name, formatCU(progress.Remaining())))
	}

	for _, id := range plan.TargetMajors {
		m := e.cat.Major(id)
		if m == nil || !m.RequiresLongFinance || plan.FinanceChoice != rules.Finance.ShortCode {
			continue
		}
		msgs = append(msgs, model.Alert{
			Severity: model.SeverityError,
			Message: fmt.Sprintf("Cannot complete %s major with %s. Change to %s in %s.", m.Name,
				model.DisplayCode(rules.Finance.ShortCode), model.DisplayCode(rules.Finance.LongCode), termLabel(rules.Finance.Term)),
		})
	}
	return msgs
}

func warning(format string, args ...any) model.Alert {
	return model.Alert{Severity: model.SeverityWarning, Message: fmt.Sprintf(format, args...)}
}

func info(format string, args ...any) model.Alert {
	return model.Alert{Severity: model.SeverityInfo, Message: fmt.Sprintf(format, args...)}
}

// formatCU renders a credit amount with one decimal, rounding halves up.
func formatCU(v float64) string {
	r := math.Round(v*10) / 10
	if r == 0 {
		r = 0 // drop negative zero
	}
	return strconv.FormatFloat(r, 'f', 1, 64)
}

// formatCredits renders a credit value the way the catalog lists it ("1", "0.5").
func formatCredits(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// termLabel turns a term id into its reader-facing name.
func termLabel(term string) string {
	switch {
	case term == "BW":
		return "Block Weeks"
	case len(term) > 1 && term[0] == 'T':
		return "Term " + term[1:]
	default:
		return term
	}
}
