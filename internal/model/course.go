package model

import "strings"

// CategoryTravel tags Global Modular Course offerings that run on fixed
// travel dates instead of the cohort's weekend calendar.
const CategoryTravel = "GMC"

// Offering is the cohort-specific scheduling record for a course.
type Offering struct {
	Term        string             `json:"term" yaml:"term"`
	Category    string             `json:"category,omitempty" yaml:"category"`
	Professor   string             `json:"professor,omitempty" yaml:"professor"`
	Dates       string             `json:"dates,omitempty" yaml:"dates"`
	Location    string             `json:"location,omitempty" yaml:"location"`
	Slot        string             `json:"slot,omitempty" yaml:"slot"`
	Weekends    []int              `json:"weekends,omitempty" yaml:"weekends"`
	Evaluations map[string]float64 `json:"evaluations,omitempty" yaml:"evaluations"`
}

// IsTravel reports whether the offering is an intensive travel course.
func (o Offering) IsTravel() bool {
	return o.Category == CategoryTravel
}

// SlotLetters parses a slot label such as "A,A" or "B" into its distinct
// letters, in first-seen order.
func (o Offering) SlotLetters() []string {
	if strings.TrimSpace(o.Slot) == "" {
		return nil
	}
	var letters []string
	seen := make(map[string]struct{})
	for _, part := range strings.Split(o.Slot, ",") {
		p := strings.ToUpper(strings.TrimSpace(part))
		if p == "" {
			continue
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		letters = append(letters, p)
	}
	return letters
}

// Course is an elective in the catalog.
type Course struct {
	Code          string              `json:"code" yaml:"code"`
	Label         string              `json:"label" yaml:"label"`
	Title         string              `json:"title" yaml:"title"`
	Description   string              `json:"description,omitempty" yaml:"description"`
	Department    string              `json:"department" yaml:"department"`
	Credits       float64             `json:"credits" yaml:"credits"`
	Prerequisites []string            `json:"prerequisites" yaml:"prerequisites"`
	Offerings     map[string]Offering `json:"offerings" yaml:"offerings"`
}

// OfferingFor returns the course's offering for a cohort, if any.
func (c *Course) OfferingFor(cohort string) (Offering, bool) {
	o, ok := c.Offerings[cohort]
	return o, ok
}

// HasPrerequisite reports whether code is a direct prerequisite.
func (c *Course) HasPrerequisite(code string) bool {
	for _, p := range c.Prerequisites {
		if p == code {
			return true
		}
	}
	return false
}

// BlockCourse is a supplemental intensive completed during terms 1-3.
type BlockCourse struct {
	Code       string   `json:"code" yaml:"code"`
	Label      string   `json:"label" yaml:"label"`
	Title      string   `json:"title" yaml:"title"`
	Professor  string   `json:"professor" yaml:"professor"`
	Credits    float64  `json:"credits" yaml:"credits"`
	Department string   `json:"department" yaml:"department"`
	Term       string   `json:"term" yaml:"term"`
	Dates      string   `json:"dates" yaml:"dates"`
	Location   string   `json:"location" yaml:"location"`
	Cohorts    []string `json:"cohorts" yaml:"cohorts"`
}

// OfferedTo reports whether the block course is open to a cohort.
func (b *BlockCourse) OfferedTo(cohort string) bool {
	for _, c := range b.Cohorts {
		if c == cohort {
			return true
		}
	}
	return false
}

// CoreCourse is one fixed entry of a cohort's core curriculum.
type CoreCourse struct {
	Code    string  `json:"code" yaml:"code"`
	Title   string  `json:"title" yaml:"title"`
	Credits float64 `json:"credits" yaml:"credits"`
	Note    string  `json:"note,omitempty" yaml:"note"`
}

// AlternativeCourse can stand in for a core course when the student opts in.
type AlternativeCourse struct {
	CoreCourse `yaml:",inline"`
	Replaces   string `json:"replaces" yaml:"replaces"`
}

// CoreCurriculum is a cohort's fixed terms plus its substitution options.
type CoreCurriculum struct {
	Terms        map[string][]CoreCourse `json:"terms" yaml:"terms"`
	Alternatives []AlternativeCourse     `json:"alternatives,omitempty" yaml:"alternatives"`
}

// CoreTerms lists the terms covered by the core curriculum, in order.
var CoreTerms = []string{"T1", "T2", "T3"}

// Courses returns every core course across the core terms in term order.
func (cc *CoreCurriculum) Courses() []CoreCourse {
	var out []CoreCourse
	for _, t := range CoreTerms {
		out = append(out, cc.Terms[t]...)
	}
	return out
}

// Alternative returns the alternative course with the given code.
func (cc *CoreCurriculum) Alternative(code string) (AlternativeCourse, bool) {
	for _, a := range cc.Alternatives {
		if a.Code == code {
			return a, true
		}
	}
	return AlternativeCourse{}, false
}

// Cohort is one of the program's delivery tracks.
type Cohort struct {
	ID        string `json:"id" yaml:"id"`
	Name      string `json:"name" yaml:"name"`
	ShortName string `json:"short_name" yaml:"short_name"`
	Format    string `json:"format" yaml:"format"`
	Location  string `json:"location" yaml:"location"`
}

// Department groups courses by subject.
type Department struct {
	Code  string `json:"code" yaml:"code"`
	Name  string `json:"name" yaml:"name"`
	Color string `json:"color" yaml:"color"`
}

// FinanceRule describes the core-term corporate finance substitution.
type FinanceRule struct {
	Term      string `json:"term" yaml:"term"`
	ShortCode string `json:"short_code" yaml:"short_code"`
	LongCode  string `json:"long_code" yaml:"long_code"`
}

// ProgramRules holds program-wide limits.
type ProgramRules struct {
	ProgramName                string      `json:"program_name" yaml:"program_name"`
	GraduationMinimum          float64     `json:"graduation_minimum" yaml:"graduation_minimum"`
	MaximumWithoutExtraTuition float64     `json:"maximum_without_extra_tuition" yaml:"maximum_without_extra_tuition"`
	ProgramDuration            string      `json:"program_duration" yaml:"program_duration"`
	FullTimeMinimum            float64     `json:"full_time_minimum" yaml:"full_time_minimum"`
	BlockWeeksCovered          int         `json:"block_weeks_covered" yaml:"block_weeks_covered"`
	PassFailMaxPerSemester     int         `json:"pass_fail_max_per_semester" yaml:"pass_fail_max_per_semester"`
	Finance                    FinanceRule `json:"finance" yaml:"finance"`
}

// TermSchedule is the calendar of one elective term for one cohort.
type TermSchedule struct {
	Name     string   `json:"name" yaml:"name"`
	Weekends []string `json:"weekends" yaml:"weekends"`
}
