// Package catalog holds the read-only course catalog and program rules that
// every plan computation runs against.
package catalog

import (
	"errors"
	"fmt"

	"github.com/stemsi/pathway-planner/internal/model"
)

// Lookup errors returned by the catalog's checked accessors.
var (
	ErrUnknownCohort      = errors.New("unknown cohort")
	ErrUnknownCourse      = errors.New("unknown course")
	ErrUnknownMajor       = errors.New("unknown major")
	ErrUnknownBlockCourse = errors.New("unknown block course")
)

// Catalog is an immutable, indexed view of Data. Build one with New.
type Catalog struct {
	rules       model.ProgramRules
	aliases     map[string]string
	cohorts     []model.Cohort
	departments []model.Department
	core        map[string]model.CoreCurriculum
	schedule    map[string]map[string]model.TermSchedule

	courses      []*model.Course
	courseByCode map[string]*model.Course

	blockCourses []*model.BlockCourse
	blockByCode  map[string]*model.BlockCourse

	majors    []*model.Major
	majorByID map[string]*model.Major
}

// New normalizes every code in d and indexes it.
func New(d *Data) (*Catalog, error) {
	if d == nil {
		return nil, errors.New("catalog: nil data")
	}
	if d.ProgramRules.GraduationMinimum <= 0 {
		return nil, errors.New("catalog: program_rules.graduation_minimum must be positive")
	}
	fin := d.ProgramRules.Finance
	fin.ShortCode = model.NormalizeCode(fin.ShortCode)
	fin.LongCode = model.NormalizeCode(fin.LongCode)
	if fin.ShortCode == "" || fin.LongCode == "" {
		return nil, errors.New("catalog: program_rules.finance needs short_code and long_code")
	}

	c := &Catalog{
		rules:        d.ProgramRules,
		aliases:      make(map[string]string, len(d.CodeAliases)),
		cohorts:      d.Cohorts,
		departments:  d.Departments,
		core:         make(map[string]model.CoreCurriculum, len(d.CoreCurriculum)),
		schedule:     d.Schedule,
		courseByCode: make(map[string]*model.Course, len(d.Courses)),
		blockByCode:  make(map[string]*model.BlockCourse, len(d.BlockCourses)),
		majorByID:    make(map[string]*model.Major, len(d.Majors)),
	}
	c.rules.Finance = fin

	for from, to := range d.CodeAliases {
		c.aliases[model.NormalizeCode(from)] = model.NormalizeCode(to)
	}

	seenCohort := make(map[string]struct{}, len(d.Cohorts))
	for _, co := range d.Cohorts {
		if co.ID == "" {
			return nil, errors.New("catalog: cohort with empty id")
		}
		if _, dup := seenCohort[co.ID]; dup {
			return nil, fmt.Errorf("catalog: duplicate cohort %q", co.ID)
		}
		seenCohort[co.ID] = struct{}{}
	}

	for cohort, cc := range d.CoreCurriculum {
		c.core[cohort] = normalizeCore(cc)
	}

	for i := range d.Courses {
		course := d.Courses[i]
		course.Code = model.NormalizeCode(course.Code)
		if course.Code == "" {
			return nil, fmt.Errorf("catalog: course %d has no code", i)
		}
		if _, dup := c.courseByCode[course.Code]; dup {
			return nil, fmt.Errorf("catalog: duplicate course %s", course.Code)
		}
		if course.Label == "" {
			course.Label = model.DisplayCode(course.Code)
		}
		if course.Department == "" {
			course.Department = model.DepartmentOf(course.Code)
		}
		course.Prerequisites = model.NormalizeCodes(course.Prerequisites)
		c.courses = append(c.courses, &course)
		c.courseByCode[course.Code] = &course
	}

	for i := range d.BlockCourses {
		b := d.BlockCourses[i]
		b.Code = model.NormalizeCode(b.Code)
		if b.Code == "" {
			return nil, fmt.Errorf("catalog: block course %d has no code", i)
		}
		if _, dup := c.blockByCode[b.Code]; dup {
			return nil, fmt.Errorf("catalog: duplicate block course %s", b.Code)
		}
		if b.Label == "" {
			b.Label = model.DisplayCode(b.Code)
		}
		c.blockCourses = append(c.blockCourses, &b)
		c.blockByCode[b.Code] = &b
	}

	for i := range d.Majors {
		m, err := d.Majors[i].toMajor()
		if err != nil {
			return nil, err
		}
		if _, dup := c.majorByID[m.ID]; dup {
			return nil, fmt.Errorf("catalog: duplicate major %q", m.ID)
		}
		c.majors = append(c.majors, m)
		c.majorByID[m.ID] = m
	}

	return c, nil
}

func normalizeCore(cc model.CoreCurriculum) model.CoreCurriculum {
	out := model.CoreCurriculum{Terms: make(map[string][]model.CoreCourse, len(cc.Terms))}
	for term, list := range cc.Terms {
		courses := make([]model.CoreCourse, len(list))
		for i, cr := range list {
			cr.Code = model.NormalizeCode(cr.Code)
			courses[i] = cr
		}
		out.Terms[term] = courses
	}
	for _, alt := range cc.Alternatives {
		alt.Code = model.NormalizeCode(alt.Code)
		alt.Replaces = model.NormalizeCode(alt.Replaces)
		out.Alternatives = append(out.Alternatives, alt)
	}
	return out
}

// Rules returns the program-wide limits.
func (c *Catalog) Rules() model.ProgramRules { return c.rules }

// Aliases returns the retired-code rewrite table in canonical form.
func (c *Catalog) Aliases() map[string]string { return c.aliases }

// Cohorts lists the cohorts in catalog order.
func (c *Catalog) Cohorts() []model.Cohort { return c.cohorts }

// Departments lists the departments in catalog order.
func (c *Catalog) Departments() []model.Department { return c.departments }

// Courses lists every elective in catalog order.
func (c *Catalog) Courses() []*model.Course { return c.courses }

// BlockCourses lists every block course in catalog order.
func (c *Catalog) BlockCourses() []*model.BlockCourse { return c.blockCourses }

// Majors lists every major in catalog order.
func (c *Catalog) Majors() []*model.Major { return c.majors }

// Cohort returns a cohort by id.
func (c *Catalog) Cohort(id string) (model.Cohort, error) {
	for _, co := range c.cohorts {
		if co.ID == id {
			return co, nil
		}
	}
	return model.Cohort{}, fmt.Errorf("%w: %s", ErrUnknownCohort, id)
}

// HasCohort reports whether id names a cohort.
func (c *Catalog) HasCohort(id string) bool {
	_, err := c.Cohort(id)
	return err == nil
}

// Course returns an elective by canonical code, or nil.
func (c *Catalog) Course(code string) *model.Course {
	return c.courseByCode[code]
}

// LookupCourse normalizes code and returns the matching elective.
func (c *Catalog) LookupCourse(code string) (*model.Course, error) {
	if course := c.courseByCode[model.NormalizeCode(code)]; course != nil {
		return course, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownCourse, code)
}

// BlockCourse returns a block course by canonical code, or nil.
func (c *Catalog) BlockCourse(code string) *model.BlockCourse {
	return c.blockByCode[code]
}

// LookupBlockCourse normalizes code and returns the matching block course.
func (c *Catalog) LookupBlockCourse(code string) (*model.BlockCourse, error) {
	if b := c.blockByCode[model.NormalizeCode(code)]; b != nil {
		return b, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownBlockCourse, code)
}

// Major returns a major by id, or nil.
func (c *Catalog) Major(id string) *model.Major {
	return c.majorByID[id]
}

// LookupMajor returns a major by id.
func (c *Catalog) LookupMajor(id string) (*model.Major, error) {
	if m := c.majorByID[id]; m != nil {
		return m, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownMajor, id)
}

// CoreCurriculum returns the cohort's fixed core terms.
func (c *Catalog) CoreCurriculum(cohort string) (model.CoreCurriculum, bool) {
	cc, ok := c.core[cohort]
	return cc, ok
}

// OffersFinanceChoice reports whether the cohort may swap the short
// corporate finance course for the long one.
func (c *Catalog) OffersFinanceChoice(cohort string) bool {
	cc, ok := c.core[cohort]
	if !ok {
		return false
	}
	alt, ok := cc.Alternative(c.rules.Finance.LongCode)
	return ok && alt.Replaces == c.rules.Finance.ShortCode
}

// IsFinanceCode reports whether code is one of the two finance options.
func (c *Catalog) IsFinanceCode(code string) bool {
	return code == c.rules.Finance.ShortCode || code == c.rules.Finance.LongCode
}

// FinanceCredits returns the credit value of a finance course for a cohort,
// looking at the core terms first and then the alternatives.
func (c *Catalog) FinanceCredits(code, cohort string) float64 {
	if !c.IsFinanceCode(code) {
		return 0
	}
	cc, ok := c.core[cohort]
	if !ok {
		return 0
	}
	for _, cr := range cc.Courses() {
		if cr.Code == code {
			return cr.Credits
		}
	}
	if alt, ok := cc.Alternative(code); ok {
		return alt.Credits
	}
	return 0
}

// Schedule returns the cohort's elective-term calendar.
func (c *Catalog) Schedule(cohort string) (map[string]model.TermSchedule, bool) {
	s, ok := c.schedule[cohort]
	return s, ok
}

// TermName returns the human-readable name of a cohort's term, falling back
// to the term id.
func (c *Catalog) TermName(cohort, term string) string {
	if ts, ok := c.schedule[cohort][term]; ok && ts.Name != "" {
		return ts.Name
	}
	return term
}

// WeekendLabel returns the date label of a zero-based weekend index, or "".
func (c *Catalog) WeekendLabel(cohort, term string, index int) string {
	ts, ok := c.schedule[cohort][term]
	if !ok || index < 0 || index >= len(ts.Weekends) {
		return ""
	}
	return ts.Weekends[index]
}
