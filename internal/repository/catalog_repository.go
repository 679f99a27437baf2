package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/pathway-planner/internal/catalog"
	"github.com/stemsi/pathway-planner/internal/model"
)

// ErrCatalogEmpty is returned when the catalog tables have not been seeded.
var ErrCatalogEmpty = errors.New("catalog tables are empty")

// Core curriculum rows are either a fixed core course or an alternative.
const (
	coreKindCourse      = "core"
	coreKindAlternative = "alternative"
)

// CatalogRepository reads and writes the catalog document in PostgreSQL.
type CatalogRepository interface {
	Load(ctx context.Context) (*catalog.Data, error)
	Replace(ctx context.Context, d *catalog.Data) error
}

type catalogRepository struct {
	db *pgxpool.Pool
}

func NewCatalogRepository(db *pgxpool.Pool) CatalogRepository {
	return &catalogRepository{db: db}
}

// Load assembles a catalog document from every catalog table.
func (r *catalogRepository) Load(ctx context.Context) (*catalog.Data, error) {
	d := &catalog.Data{
		CodeAliases:    map[string]string{},
		CoreCurriculum: map[string]model.CoreCurriculum{},
		Schedule:       map[string]map[string]model.TermSchedule{},
	}

	if err := r.loadRules(ctx, d); err != nil {
		return nil, err
	}

	steps := []struct {
		name string
		fn   func(context.Context, *catalog.Data) error
	}{
		{"code_aliases", r.loadAliases},
		{"cohorts", r.loadCohorts},
		{"departments", r.loadDepartments},
		{"core_curriculum", r.loadCore},
		{"courses", r.loadCourses},
		{"block_courses", r.loadBlockCourses},
		{"majors", r.loadMajors},
		{"schedule_terms", r.loadSchedule},
	}
	for _, s := range steps {
		if err := s.fn(ctx, d); err != nil {
			return nil, fmt.Errorf("load %s: %w", s.name, err)
		}
	}
	return d, nil
}

func (r *catalogRepository) loadRules(ctx context.Context, d *catalog.Data) error {
	pr := &d.ProgramRules
	err := r.db.QueryRow(ctx,
		`SELECT program_name, graduation_minimum, maximum_without_extra_tuition, program_duration,
		        full_time_minimum, block_weeks_covered, pass_fail_max_per_semester,
		        finance_term, finance_short_code, finance_long_code
		 FROM program_rules WHERE id = 1`,
	).Scan(&pr.ProgramName, &pr.GraduationMinimum, &pr.MaximumWithoutExtraTuition, &pr.ProgramDuration,
		&pr.FullTimeMinimum, &pr.BlockWeeksCovered, &pr.PassFailMaxPerSemester,
		&pr.Finance.Term, &pr.Finance.ShortCode, &pr.Finance.LongCode)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrCatalogEmpty
	}
	return err
}

func (r *catalogRepository) loadAliases(ctx context.Context, d *catalog.Data) error {
	rows, err := r.db.Query(ctx, `SELECT code, replacement FROM code_aliases`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var code, replacement string
		if err := rows.Scan(&code, &replacement); err != nil {
			return err
		}
		d.CodeAliases[code] = replacement
	}
	return rows.Err()
}

func (r *catalogRepository) loadCohorts(ctx context.Context, d *catalog.Data) error {
	rows, err := r.db.Query(ctx,
		`SELECT id, name, short_name, format, location FROM cohorts ORDER BY position`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var c model.Cohort
		if err := rows.Scan(&c.ID, &c.Name, &c.ShortName, &c.Format, &c.Location); err != nil {
			return err
		}
		d.Cohorts = append(d.Cohorts, c)
	}
	return rows.Err()
}

func (r *catalogRepository) loadDepartments(ctx context.Context, d *catalog.Data) error {
	rows, err := r.db.Query(ctx, `SELECT code, name, color FROM departments ORDER BY position`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var dep model.Department
		if err := rows.Scan(&dep.Code, &dep.Name, &dep.Color); err != nil {
			return err
		}
		d.Departments = append(d.Departments, dep)
	}
	return rows.Err()
}

func (r *catalogRepository) loadCore(ctx context.Context, d *catalog.Data) error {
	rows, err := r.db.Query(ctx,
		`SELECT cohort_id, kind, term, code, title, credits, note, replaces
		 FROM core_curriculum ORDER BY cohort_id, kind, term, position`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			cohort, kind, term, replaces string
			cc                           model.CoreCourse
		)
		if err := rows.Scan(&cohort, &kind, &term, &cc.Code, &cc.Title, &cc.Credits, &cc.Note, &replaces); err != nil {
			return err
		}
		cur := d.CoreCurriculum[cohort]
		if cur.Terms == nil {
			cur.Terms = map[string][]model.CoreCourse{}
		}
		if kind == coreKindAlternative {
			cur.Alternatives = append(cur.Alternatives, model.AlternativeCourse{CoreCourse: cc, Replaces: replaces})
		} else {
			cur.Terms[term] = append(cur.Terms[term], cc)
		}
		d.CoreCurriculum[cohort] = cur
	}
	return rows.Err()
}

func (r *catalogRepository) loadCourses(ctx context.Context, d *catalog.Data) error {
	rows, err := r.db.Query(ctx,
		`SELECT code, label, title, description, department, credits
		 FROM courses ORDER BY position`)
	if err != nil {
		return err
	}

	index := map[string]int{}
	for rows.Next() {
		c := model.Course{Offerings: map[string]model.Offering{}}
		if err := rows.Scan(&c.Code, &c.Label, &c.Title, &c.Description, &c.Department, &c.Credits); err != nil {
			rows.Close()
			return err
		}
		index[c.Code] = len(d.Courses)
		d.Courses = append(d.Courses, c)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	prereqs, err := r.db.Query(ctx,
		`SELECT course_code, prerequisite_code FROM course_prerequisites ORDER BY course_code, position`)
	if err != nil {
		return err
	}
	for prereqs.Next() {
		var course, prereq string
		if err := prereqs.Scan(&course, &prereq); err != nil {
			prereqs.Close()
			return err
		}
		if i, ok := index[course]; ok {
			d.Courses[i].Prerequisites = append(d.Courses[i].Prerequisites, prereq)
		}
	}
	prereqs.Close()
	if err := prereqs.Err(); err != nil {
		return err
	}

	offerings, err := r.db.Query(ctx,
		`SELECT course_code, cohort_id, term, category, professor, dates, location, slot, weekends, evaluations
		 FROM course_offerings`)
	if err != nil {
		return err
	}
	defer offerings.Close()

	for offerings.Next() {
		var (
			course, cohort string
			o              model.Offering
			evals          []byte
		)
		if err := offerings.Scan(&course, &cohort, &o.Term, &o.Category, &o.Professor, &o.Dates,
			&o.Location, &o.Slot, &o.Weekends, &evals); err != nil {
			return err
		}
		if len(evals) > 0 {
			if err := json.Unmarshal(evals, &o.Evaluations); err != nil {
				return fmt.Errorf("course %s evaluations: %w", course, err)
			}
		}
		if i, ok := index[course]; ok {
			d.Courses[i].Offerings[cohort] = o
		}
	}
	return offerings.Err()
}

func (r *catalogRepository) loadBlockCourses(ctx context.Context, d *catalog.Data) error {
	rows, err := r.db.Query(ctx,
		`SELECT code, label, title, professor, credits, department, term, dates, location, cohorts
		 FROM block_courses ORDER BY position`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var b model.BlockCourse
		if err := rows.Scan(&b.Code, &b.Label, &b.Title, &b.Professor, &b.Credits, &b.Department,
			&b.Term, &b.Dates, &b.Location, &b.Cohorts); err != nil {
			return err
		}
		d.BlockCourses = append(d.BlockCourses, b)
	}
	return rows.Err()
}

func (r *catalogRepository) loadMajors(ctx context.Context, d *catalog.Data) error {
	rows, err := r.db.Query(ctx, `SELECT id, record FROM majors ORDER BY position`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id  string
			raw []byte
			rec catalog.MajorRecord
		)
		if err := rows.Scan(&id, &raw); err != nil {
			return err
		}
		if err := json.Unmarshal(raw, &rec); err != nil {
			return fmt.Errorf("major %s: %w", id, err)
		}
		rec.ID = id
		d.Majors = append(d.Majors, rec)
	}
	return rows.Err()
}

func (r *catalogRepository) loadSchedule(ctx context.Context, d *catalog.Data) error {
	rows, err := r.db.Query(ctx, `SELECT cohort_id, term, name, weekends FROM schedule_terms`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			cohort, term string
			ts           model.TermSchedule
		)
		if err := rows.Scan(&cohort, &term, &ts.Name, &ts.Weekends); err != nil {
			return err
		}
		if d.Schedule[cohort] == nil {
			d.Schedule[cohort] = map[string]model.TermSchedule{}
		}
		d.Schedule[cohort][term] = ts
	}
	return rows.Err()
}

// Replace swaps the whole catalog inside one transaction.
func (r *catalogRepository) Replace(ctx context.Context, d *catalog.Data) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`TRUNCATE program_rules, code_aliases, cohorts, departments, core_curriculum, courses,
		          course_prerequisites, course_offerings, block_courses, majors, schedule_terms CASCADE`); err != nil {
		return fmt.Errorf("truncate catalog: %w", err)
	}

	pr := d.ProgramRules
	if _, err := tx.Exec(ctx,
		`INSERT INTO program_rules (id, program_name, graduation_minimum, maximum_without_extra_tuition,
		        program_duration, full_time_minimum, block_weeks_covered, pass_fail_max_per_semester,
		        finance_term, finance_short_code, finance_long_code)
		 VALUES (1, $1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		pr.ProgramName, pr.GraduationMinimum, pr.MaximumWithoutExtraTuition, pr.ProgramDuration,
		pr.FullTimeMinimum, pr.BlockWeeksCovered, pr.PassFailMaxPerSemester,
		pr.Finance.Term, pr.Finance.ShortCode, pr.Finance.LongCode); err != nil {
		return fmt.Errorf("insert program_rules: %w", err)
	}

	tables, err := catalogRows(d)
	if err != nil {
		return err
	}
	for _, t := range tables {
		if len(t.rows) == 0 {
			continue
		}
		if _, err := tx.CopyFrom(ctx, pgx.Identifier{t.name}, t.columns, pgx.CopyFromRows(t.rows)); err != nil {
			return fmt.Errorf("copy %s: %w", t.name, err)
		}
	}

	return tx.Commit(ctx)
}

type tableRows struct {
	name    string
	columns []string
	rows    [][]any
}

// catalogRows flattens d into COPY rows, parents before children.
func catalogRows(d *catalog.Data) ([]tableRows, error) {
	aliases := tableRows{name: "code_aliases", columns: []string{"code", "replacement"}}
	for _, code := range sortedKeys(d.CodeAliases) {
		aliases.rows = append(aliases.rows, []any{code, d.CodeAliases[code]})
	}

	cohorts := tableRows{name: "cohorts", columns: []string{"id", "name", "short_name", "format", "location", "position"}}
	for i, c := range d.Cohorts {
		cohorts.rows = append(cohorts.rows, []any{c.ID, c.Name, c.ShortName, c.Format, c.Location, i})
	}

	departments := tableRows{name: "departments", columns: []string{"code", "name", "color", "position"}}
	for i, dep := range d.Departments {
		departments.rows = append(departments.rows, []any{dep.Code, dep.Name, dep.Color, i})
	}

	core := tableRows{name: "core_curriculum",
		columns: []string{"cohort_id", "kind", "term", "position", "code", "title", "credits", "note", "replaces"}}
	for _, cohort := range sortedKeys(d.CoreCurriculum) {
		cc := d.CoreCurriculum[cohort]
		for _, term := range sortedKeys(cc.Terms) {
			for i, c := range cc.Terms[term] {
				core.rows = append(core.rows, []any{cohort, coreKindCourse, term, i, c.Code, c.Title, c.Credits, c.Note, ""})
			}
		}
		for i, a := range cc.Alternatives {
			core.rows = append(core.rows, []any{cohort, coreKindAlternative, "", i, a.Code, a.Title, a.Credits, a.Note, a.Replaces})
		}
	}

	courses := tableRows{name: "courses",
		columns: []string{"code", "label", "title", "description", "department", "credits", "position"}}
	prereqs := tableRows{name: "course_prerequisites",
		columns: []string{"course_code", "prerequisite_code", "position"}}
	offerings := tableRows{name: "course_offerings",
		columns: []string{"course_code", "cohort_id", "term", "category", "professor", "dates", "location", "slot", "weekends", "evaluations"}}
	for i, c := range d.Courses {
		courses.rows = append(courses.rows, []any{c.Code, c.Label, c.Title, c.Description, c.Department, c.Credits, i})
		for j, p := range c.Prerequisites {
			prereqs.rows = append(prereqs.rows, []any{c.Code, p, j})
		}
		for _, cohort := range sortedKeys(c.Offerings) {
			o := c.Offerings[cohort]
			evals, err := json.Marshal(o.Evaluations)
			if err != nil {
				return nil, fmt.Errorf("course %s evaluations: %w", c.Code, err)
			}
			weekends := o.Weekends
			if weekends == nil {
				weekends = []int{}
			}
			offerings.rows = append(offerings.rows, []any{c.Code, cohort, o.Term, o.Category, o.Professor,
				o.Dates, o.Location, o.Slot, weekends, evals})
		}
	}

	blocks := tableRows{name: "block_courses",
		columns: []string{"code", "label", "title", "professor", "credits", "department", "term", "dates", "location", "cohorts", "position"}}
	for i, b := range d.BlockCourses {
		cohortIDs := b.Cohorts
		if cohortIDs == nil {
			cohortIDs = []string{}
		}
		blocks.rows = append(blocks.rows, []any{b.Code, b.Label, b.Title, b.Professor, b.Credits, b.Department,
			b.Term, b.Dates, b.Location, cohortIDs, i})
	}

	majors := tableRows{name: "majors", columns: []string{"id", "position", "record"}}
	for i, m := range d.Majors {
		raw, err := json.Marshal(m)
		if err != nil {
			return nil, fmt.Errorf("major %s: %w", m.ID, err)
		}
		majors.rows = append(majors.rows, []any{m.ID, i, raw})
	}

	schedule := tableRows{name: "schedule_terms", columns: []string{"cohort_id", "term", "name", "weekends"}}
	for _, cohort := range sortedKeys(d.Schedule) {
		for _, term := range sortedKeys(d.Schedule[cohort]) {
			ts := d.Schedule[cohort][term]
			weekends := ts.Weekends
			if weekends == nil {
				weekends = []string{}
			}
			schedule.rows = append(schedule.rows, []any{cohort, term, ts.Name, weekends})
		}
	}

	return []tableRows{aliases, cohorts, departments, core, courses, prereqs, offerings, blocks, majors, schedule}, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
