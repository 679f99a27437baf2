package model

// CreditBreakdown splits a plan's total credits by source. Finance is the
// resolved corporate finance course and is already included in Core.
type CreditBreakdown struct {
	Core      float64 `json:"core"`
	Finance   float64 `json:"finance"`
	Block     float64 `json:"block"`
	Electives float64 `json:"electives"`
	Total     float64 `json:"total"`
}

// MajorProgress is the completion of one major against its requirement.
type MajorProgress struct {
	MajorID          string              `json:"major_id"`
	Name             string              `json:"name"`
	Kind             RequirementKind     `json:"kind"`
	CompletedCredits float64             `json:"completed_credits"`
	RequiredCredits  float64             `json:"required_credits"`
	Complete         bool                `json:"complete"`
	Details          *StructuredProgress `json:"details,omitempty"`
}

// Remaining returns the credits still needed, never negative.
func (m MajorProgress) Remaining() float64 {
	if m.CompletedCredits >= m.RequiredCredits {
		return 0
	}
	return m.RequiredCredits - m.CompletedCredits
}

// GateProgress reports the two half-credit gates of a GateBucket.
type GateProgress struct {
	Credits           float64 `json:"credits"`
	Required          float64 `json:"required"`
	HasRequiredCourse bool    `json:"has_required_course"`
	HasOneOfCourse    bool    `json:"has_one_of_course"`
}

// CoreBucketProgress reports a CoreBucket. FromPlanned is the share topped
// up by planned electives on the bucket's list.
type CoreBucketProgress struct {
	Credits     float64 `json:"credits"`
	Required    float64 `json:"required"`
	FromPlanned float64 `json:"from_planned"`
}

// ResearchProgress reports a ResearchBucket.
type ResearchProgress struct {
	Credits  float64 `json:"credits"`
	Required float64 `json:"required"`
	Met      bool    `json:"met"`
	ViaPair  bool    `json:"via_pair"`
}

// ElectiveProgress reports an ElectiveBucket.
type ElectiveProgress struct {
	Credits           float64            `json:"credits"`
	Required          float64            `json:"required"`
	DepartmentCredits map[string]float64 `json:"department_credits"`
}

// StructuredProgress is the per-bucket breakdown of a structured major.
type StructuredProgress struct {
	CoreA     GateProgress       `json:"core_a"`
	CoreB     CoreBucketProgress `json:"core_b"`
	Research  ResearchProgress   `json:"research"`
	Electives ElectiveProgress   `json:"electives"`
}

// Conflict is a scheduling overlap between two planned courses in one term.
// Weekend is the zero-based index of the first shared weekend, when one exists.
type Conflict struct {
	Course1      string `json:"course1"`
	Course2      string `json:"course2"`
	Code1        string `json:"code1"`
	Code2        string `json:"code2"`
	Term         string `json:"term"`
	TermName     string `json:"term_name"`
	Weekend      *int   `json:"weekend,omitempty"`
	WeekendLabel string `json:"weekend_label,omitempty"`
	Slot         string `json:"slot,omitempty"`
	Dates        string `json:"dates,omitempty"`
	Travel       bool   `json:"travel"`
}

// MissingPrerequisite lists the prerequisites of a planned course that the
// plan does not cover. Course and Missing use display codes.
type MissingPrerequisite struct {
	Code         string   `json:"code"`
	Course       string   `json:"course"`
	MissingCodes []string `json:"missing_codes"`
	Missing      []string `json:"missing"`
}

// PrerequisiteInfo is the full prerequisite picture for a single course.
type PrerequisiteInfo struct {
	Code           string   `json:"code"`
	Prerequisites  []string `json:"prerequisites"`
	MissingPrereqs []string `json:"missing_prereqs"`
}

// Severity grades an advisory message.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Alert is one advisory message about a plan.
type Alert struct {
	Severity Severity `json:"type"`
	Message  string   `json:"message"`
}

// PlannedCourse is a planned elective resolved against the cohort's offering.
type PlannedCourse struct {
	Code     string   `json:"code"`
	Label    string   `json:"label"`
	Title    string   `json:"title"`
	Credits  float64  `json:"credits"`
	Offering Offering `json:"offering"`
}

// PlanSummary bundles every derived view of a plan.
type PlanSummary struct {
	Plan                 PlanState                  `json:"plan"`
	Credits              CreditBreakdown            `json:"credits"`
	GraduationMinimum    float64                    `json:"graduation_minimum"`
	GraduationReady      bool                       `json:"graduation_ready"`
	CreditsNeeded        float64                    `json:"credits_needed"`
	ExtraTuitionCredits  float64                    `json:"extra_tuition_credits"`
	FinanceCode          string                     `json:"finance_code"`
	Majors               []MajorProgress            `json:"majors"`
	Conflicts            []Conflict                 `json:"conflicts"`
	MissingPrerequisites []MissingPrerequisite      `json:"missing_prerequisites"`
	Alerts               []Alert                    `json:"alerts"`
	Validation           []Alert                    `json:"validation"`
	PlannedByTerm        map[string][]PlannedCourse `json:"planned_by_term"`
}
