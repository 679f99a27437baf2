package model

import "slices"

// View and browse-mode defaults carried for front-ends; the engine ignores them.
const (
	DefaultView         = "dashboard"
	DefaultExplorerMode = "majors"
)

// PlanState is one student's selections. Values are treated as immutable:
// every mutation returns a fresh copy and leaves the receiver untouched.
type PlanState struct {
	Cohort                string   `json:"selected_cohort"`
	PlannedCourses        []string `json:"planned_courses"`
	TargetMajors          []string `json:"target_majors"`
	WaivedCourses         []string `json:"waived_courses"`
	CompletedBlockCourses []string `json:"completed_block_courses"`
	FinanceChoice         string   `json:"finance_choice,omitempty"`
	CurrentView           string   `json:"current_view,omitempty"`
	ExplorerMode          string   `json:"explorer_mode,omitempty"`
}

// NewPlanState returns the empty default plan.
func NewPlanState() PlanState {
	return PlanState{
		PlannedCourses:        []string{},
		TargetMajors:          []string{},
		WaivedCourses:         []string{},
		CompletedBlockCourses: []string{},
		CurrentView:           DefaultView,
		ExplorerMode:          DefaultExplorerMode,
	}
}

// Clone returns a deep copy.
func (p PlanState) Clone() PlanState {
	p.PlannedCourses = cloneOrEmpty(p.PlannedCourses)
	p.TargetMajors = cloneOrEmpty(p.TargetMajors)
	p.WaivedCourses = cloneOrEmpty(p.WaivedCourses)
	p.CompletedBlockCourses = cloneOrEmpty(p.CompletedBlockCourses)
	return p
}

// Normalize canonicalizes every stored code after rewriting aliases, and
// fills in nil slices. Loaders call it before anything else reads the plan.
func (p PlanState) Normalize(aliases map[string]string) PlanState {
	p = p.Clone()
	p.PlannedCourses = NormalizeCodes(RewriteAliases(p.PlannedCourses, aliases))
	p.WaivedCourses = NormalizeCodes(RewriteAliases(p.WaivedCourses, aliases))
	p.CompletedBlockCourses = NormalizeCodes(p.CompletedBlockCourses)
	p.TargetMajors = dedupe(p.TargetMajors)
	if p.FinanceChoice != "" {
		p.FinanceChoice = NormalizeCode(p.FinanceChoice)
	}
	if p.CurrentView == "" {
		p.CurrentView = DefaultView
	}
	if p.ExplorerMode == "" {
		p.ExplorerMode = DefaultExplorerMode
	}
	return p
}

// HasCohort reports whether a cohort has been chosen.
func (p PlanState) HasCohort() bool {
	return p.Cohort != ""
}

// IsPlanned reports whether a canonical code is in the planned set.
func (p PlanState) IsPlanned(code string) bool {
	return slices.Contains(p.PlannedCourses, code)
}

// HasCompletedBlock reports whether a block course is marked completed.
func (p PlanState) HasCompletedBlock(code string) bool {
	return slices.Contains(p.CompletedBlockCourses, code)
}

// TargetsMajor reports whether a major is among the targets.
func (p PlanState) TargetsMajor(id string) bool {
	return slices.Contains(p.TargetMajors, id)
}

// SelectCohort switches the plan to a cohort with the given finance choice.
func (p PlanState) SelectCohort(cohort, financeChoice string) PlanState {
	next := p.Clone()
	next.Cohort = cohort
	next.FinanceChoice = financeChoice
	return next
}

// SetFinanceChoice records the corporate finance decision.
func (p PlanState) SetFinanceChoice(code string) PlanState {
	next := p.Clone()
	next.FinanceChoice = code
	return next
}

// AddCourse plans a course. Adding a code that is already planned is a no-op.
func (p PlanState) AddCourse(code string) PlanState {
	next := p.Clone()
	code = NormalizeCode(code)
	if code == "" || next.IsPlanned(code) {
		return next
	}
	next.PlannedCourses = append(next.PlannedCourses, code)
	return next
}

// RemoveCourse drops a course from the plan.
func (p PlanState) RemoveCourse(code string) PlanState {
	next := p.Clone()
	code = NormalizeCode(code)
	next.PlannedCourses = slices.DeleteFunc(next.PlannedCourses, func(c string) bool { return c == code })
	return next
}

// ClearElectives removes every planned course.
func (p PlanState) ClearElectives() PlanState {
	next := p.Clone()
	next.PlannedCourses = []string{}
	return next
}

// ToggleMajor adds or removes a target major.
func (p PlanState) ToggleMajor(id string) PlanState {
	next := p.Clone()
	if next.TargetsMajor(id) {
		next.TargetMajors = slices.DeleteFunc(next.TargetMajors, func(m string) bool { return m == id })
	} else {
		next.TargetMajors = append(next.TargetMajors, id)
	}
	return next
}

// ClearMajors removes every target major.
func (p PlanState) ClearMajors() PlanState {
	next := p.Clone()
	next.TargetMajors = []string{}
	return next
}

// ToggleBlockCourse marks a block course completed or not completed.
func (p PlanState) ToggleBlockCourse(code string) PlanState {
	next := p.Clone()
	code = NormalizeCode(code)
	if next.HasCompletedBlock(code) {
		next.CompletedBlockCourses = slices.DeleteFunc(next.CompletedBlockCourses, func(c string) bool { return c == code })
	} else if code != "" {
		next.CompletedBlockCourses = append(next.CompletedBlockCourses, code)
	}
	return next
}

// SetView records the active front-end view and browse mode. Empty values
// leave the current setting in place.
func (p PlanState) SetView(view, explorerMode string) PlanState {
	next := p.Clone()
	if view != "" {
		next.CurrentView = view
	}
	if explorerMode != "" {
		next.ExplorerMode = explorerMode
	}
	return next
}

func cloneOrEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return slices.Clone(s)
}

func dedupe(s []string) []string {
	out := make([]string, 0, len(s))
	for _, v := range s {
		if v != "" && !slices.Contains(out, v) {
			out = append(out, v)
		}
	}
	return out
}
