package model

// RequirementKind distinguishes the two shapes a major's requirements can take.
type RequirementKind string

const (
	RequirementGeneric    RequirementKind = "generic"
	RequirementStructured RequirementKind = "structured"
)

// Requirements is implemented by GenericRequirements and StructuredRequirements.
type Requirements interface {
	Kind() RequirementKind
	// Codes lists every course code the requirement can draw from.
	Codes() []string
}

// GenericRequirements counts any course on one of its lists.
type GenericRequirements struct {
	Core      []string `json:"core"`
	Primary   []string `json:"primary,omitempty"`
	Secondary []string `json:"secondary,omitempty"`
	Electives []string `json:"electives"`
}

func (GenericRequirements) Kind() RequirementKind { return RequirementGeneric }

func (g GenericRequirements) Codes() []string {
	return unionCodes(g.Core, g.Primary, g.Secondary, g.Electives)
}

// GateBucket is satisfied by one fixed course plus one of a set of alternates.
// Each gate contributes half of the bucket's credits.
type GateBucket struct {
	Label           string   `json:"label" yaml:"label"`
	RequiredCredits float64  `json:"required_credits" yaml:"required_credits"`
	RequiredCourses []string `json:"required_courses" yaml:"required_courses"`
	OneOfCourses    []string `json:"one_of_courses" yaml:"one_of_courses"`
}

// CoreBucket is satisfied by core-curriculum credits from its course list.
type CoreBucket struct {
	Label           string   `json:"label" yaml:"label"`
	Department      string   `json:"department" yaml:"department"`
	RequiredCredits float64  `json:"required_credits" yaml:"required_credits"`
	Courses         []string `json:"courses" yaml:"courses"`
}

// ResearchBucket is satisfied by a one-of course or by a complete pair.
type ResearchBucket struct {
	Label           string     `json:"label" yaml:"label"`
	RequiredCredits float64    `json:"required_credits" yaml:"required_credits"`
	OneOfCourses    []string   `json:"one_of_courses" yaml:"one_of_courses"`
	Examples        []string   `json:"examples,omitempty" yaml:"examples"`
	PairedCourses   [][]string `json:"paired_courses" yaml:"paired_courses"`
}

// Codes returns every course that belongs to the research bucket.
func (r ResearchBucket) Codes() []string {
	all := [][]string{r.OneOfCourses}
	all = append(all, r.PairedCourses...)
	return unionCodes(all...)
}

// DepartmentFloor is a minimum elective credit total for one department.
type DepartmentFloor struct {
	Department string  `json:"department" yaml:"department"`
	Credits    float64 `json:"credits" yaml:"credits"`
}

// ElectiveBucket counts eligible electives toward a total with department floors.
type ElectiveBucket struct {
	RequiredCredits      float64           `json:"required_credits" yaml:"required_credits"`
	MinDepartmentCredits []DepartmentFloor `json:"min_department_credits" yaml:"min_department_credits"`
	EligibleDepartments  []string          `json:"eligible_departments" yaml:"eligible_departments"`
	EligibleOutside      []string          `json:"eligible_outside" yaml:"eligible_outside"`
	DepartmentOverrides  map[string]string `json:"department_overrides" yaml:"department_overrides"`
}

// StructuredRequirements is the four-bucket joint major model.
type StructuredRequirements struct {
	CoreA     GateBucket     `json:"core_a" yaml:"core_a"`
	CoreB     CoreBucket     `json:"core_b" yaml:"core_b"`
	Research  ResearchBucket `json:"research" yaml:"research"`
	Electives ElectiveBucket `json:"electives" yaml:"electives"`
	// Courses is the browsable list of courses associated with the major.
	Courses []string `json:"courses" yaml:"-"`
}

func (StructuredRequirements) Kind() RequirementKind { return RequirementStructured }

func (s StructuredRequirements) Codes() []string {
	return unionCodes(s.Courses, s.CoreA.RequiredCourses, s.CoreA.OneOfCourses,
		s.CoreB.Courses, s.Research.Codes(), s.Electives.EligibleOutside)
}

// Major is a declarable field of concentration.
type Major struct {
	ID                  string          `json:"id"`
	Name                string          `json:"name"`
	ShortName           string          `json:"short_name,omitempty"`
	Department          string          `json:"department"`
	RequiredCredits     float64         `json:"required_credits"`
	ElectiveCredits     float64         `json:"elective_credits"`
	STEMCertified       bool            `json:"stem_certified"`
	Description         string          `json:"description"`
	RequiresLongFinance bool            `json:"requires_long_finance,omitempty"`
	Warnings            []string        `json:"warnings,omitempty"`
	Restrictions        []string        `json:"restrictions,omitempty"`
	Kind                RequirementKind `json:"kind"`
	Requirements        Requirements    `json:"requirements"`
}

// DisplayName prefers the short name used in advisory messages.
func (m *Major) DisplayName() string {
	if m.ShortName != "" {
		return m.ShortName
	}
	return m.Name
}

// ElectiveCourses returns the courses a student would browse for the major.
func (m *Major) ElectiveCourses() []string {
	switch r := m.Requirements.(type) {
	case GenericRequirements:
		return unionCodes(r.Electives, r.Primary, r.Secondary)
	case StructuredRequirements:
		return r.Courses
	default:
		return nil
	}
}

func unionCodes(lists ...[]string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, list := range lists {
		for _, c := range list {
			if _, ok := seen[c]; ok {
				continue
			}
			seen[c] = struct{}{}
			out = append(out, c)
		}
	}
	return out
}
