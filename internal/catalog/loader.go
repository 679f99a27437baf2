package catalog

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/stemsi/pathway-planner/internal/model"
	"gopkg.in/yaml.v3"
)

//go:embed data/catalog.yaml
var bundled []byte

// Data is the serialized catalog document, as stored in YAML or in the
// catalog tables.
type Data struct {
	ProgramRules   model.ProgramRules                       `yaml:"program_rules" json:"program_rules"`
	CodeAliases    map[string]string                        `yaml:"code_aliases" json:"code_aliases"`
	Cohorts        []model.Cohort                           `yaml:"cohorts" json:"cohorts"`
	Departments    []model.Department                       `yaml:"departments" json:"departments"`
	CoreCurriculum map[string]model.CoreCurriculum          `yaml:"core_curriculum" json:"core_curriculum"`
	BlockCourses   []model.BlockCourse                      `yaml:"block_courses" json:"block_courses"`
	Courses        []model.Course                           `yaml:"courses" json:"courses"`
	Majors         []MajorRecord                            `yaml:"majors" json:"majors"`
	Schedule       map[string]map[string]model.TermSchedule `yaml:"schedule" json:"schedule"`
}

// MajorRecord is the flat, serializable form of a major. A record with a
// structured block becomes a structured major; anything else is generic.
type MajorRecord struct {
	ID                  string                        `yaml:"id" json:"id"`
	Name                string                        `yaml:"name" json:"name"`
	ShortName           string                        `yaml:"short_name" json:"short_name,omitempty"`
	Department          string                        `yaml:"department" json:"department"`
	RequiredCredits     float64                       `yaml:"required_credits" json:"required_credits"`
	ElectiveCredits     float64                       `yaml:"elective_credits" json:"elective_credits"`
	STEMCertified       bool                          `yaml:"stem_certified" json:"stem_certified"`
	Description         string                        `yaml:"description" json:"description"`
	RequiresLongFinance bool                          `yaml:"requires_long_finance" json:"requires_long_finance,omitempty"`
	CoreRequirements    []string                      `yaml:"core_requirements" json:"core_requirements,omitempty"`
	PrimaryCourses      []string                      `yaml:"primary_courses" json:"primary_courses,omitempty"`
	SecondaryCourses    []string                      `yaml:"secondary_courses" json:"secondary_courses,omitempty"`
	ElectiveCourses     []string                      `yaml:"elective_courses" json:"elective_courses,omitempty"`
	Structured          *model.StructuredRequirements `yaml:"structured" json:"structured,omitempty"`
	Warnings            []string                      `yaml:"warnings" json:"warnings,omitempty"`
	Restrictions        []string                      `yaml:"restrictions" json:"restrictions,omitempty"`
}

func (r MajorRecord) toMajor() (*model.Major, error) {
	if r.ID == "" {
		return nil, fmt.Errorf("catalog: major %q has no id", r.Name)
	}
	if r.RequiredCredits <= 0 {
		return nil, fmt.Errorf("catalog: major %s: required_credits must be positive", r.ID)
	}

	m := &model.Major{
		ID:                  r.ID,
		Name:                r.Name,
		ShortName:           r.ShortName,
		Department:          r.Department,
		RequiredCredits:     r.RequiredCredits,
		ElectiveCredits:     r.ElectiveCredits,
		STEMCertified:       r.STEMCertified,
		Description:         r.Description,
		RequiresLongFinance: r.RequiresLongFinance,
		Warnings:            r.Warnings,
		Restrictions:        r.Restrictions,
	}

	if r.Structured == nil {
		m.Requirements = model.GenericRequirements{
			Core:      model.NormalizeCodes(r.CoreRequirements),
			Primary:   model.NormalizeCodes(r.PrimaryCourses),
			Secondary: model.NormalizeCodes(r.SecondaryCourses),
			Electives: model.NormalizeCodes(r.ElectiveCourses),
		}
		m.Kind = model.RequirementGeneric
		return m, nil
	}

	s := *r.Structured
	s.Courses = model.NormalizeCodes(r.ElectiveCourses)
	s.CoreA.RequiredCourses = model.NormalizeCodes(s.CoreA.RequiredCourses)
	s.CoreA.OneOfCourses = model.NormalizeCodes(s.CoreA.OneOfCourses)
	s.CoreB.Courses = model.NormalizeCodes(s.CoreB.Courses)
	s.Research.OneOfCourses = model.NormalizeCodes(s.Research.OneOfCourses)
	s.Research.Examples = model.NormalizeCodes(s.Research.Examples)
	pairs := make([][]string, 0, len(s.Research.PairedCourses))
	for _, p := range s.Research.PairedCourses {
		if np := model.NormalizeCodes(p); len(np) > 0 {
			pairs = append(pairs, np)
		}
	}
	s.Research.PairedCourses = pairs
	s.Electives.EligibleOutside = model.NormalizeCodes(s.Electives.EligibleOutside)
	overrides := make(map[string]string, len(s.Electives.DepartmentOverrides))
	for code, dept := range s.Electives.DepartmentOverrides {
		overrides[model.NormalizeCode(code)] = dept
	}
	s.Electives.DepartmentOverrides = overrides
	if s.CoreB.Department == "" {
		return nil, fmt.Errorf("catalog: major %s: core_b.department is required", r.ID)
	}

	m.Requirements = s
	m.Kind = model.RequirementStructured
	return m, nil
}

// ParseData decodes a YAML catalog document.
func ParseData(raw []byte) (*Data, error) {
	var d Data
	if err := yaml.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("decode catalog yaml: %w", err)
	}
	return &d, nil
}

// Parse decodes and indexes a YAML catalog document.
func Parse(raw []byte) (*Catalog, error) {
	d, err := ParseData(raw)
	if err != nil {
		return nil, err
	}
	return New(d)
}

// LoadFile reads a YAML catalog from disk.
func LoadFile(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return Parse(raw)
}

// BundledData returns the catalog document compiled into the binary.
func BundledData() (*Data, error) {
	return ParseData(bundled)
}

// LoadEmbedded indexes the catalog compiled into the binary.
func LoadEmbedded() (*Catalog, error) {
	return Parse(bundled)
}
