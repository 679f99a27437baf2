package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/stemsi/pathway-planner/internal/catalog"
	"github.com/stemsi/pathway-planner/internal/config"
	"github.com/stemsi/pathway-planner/internal/model"
	"github.com/stemsi/pathway-planner/internal/repository"
)

// CourseDetail is one course as seen from a cohort.
type CourseDetail struct {
	Course        *model.Course   `json:"course"`
	Offering      *model.Offering `json:"offering,omitempty"`
	Prerequisites []string        `json:"prerequisites"`
	Unlocks       []string        `json:"unlocks"`
}

// CatalogService serves read-only catalog views.
type CatalogService interface {
	Catalog() *catalog.Catalog
	Version() string
	Cohorts() []model.Cohort
	Departments() []model.Department
	Majors() []*model.Major
	Major(id string) (*model.Major, error)
	Courses(cohort string, f catalog.CourseFilter) ([]*model.Course, error)
	Course(code, cohort string) (*CourseDetail, error)
	BlockCourses(cohort, term string) ([]*model.BlockCourse, error)
	Schedule(cohort string) (map[string]model.TermSchedule, error)
}

type catalogService struct {
	cat     *catalog.Catalog
	version string
}

func NewCatalogService(cat *catalog.Catalog) CatalogService {
	return &catalogService{cat: cat, version: catalogVersion(cat)}
}

// LoadCatalog builds the catalog from the configured source. repo is only
// used for the postgres source.
func LoadCatalog(ctx context.Context, cfg *config.Config, repo repository.CatalogRepository, log zerolog.Logger) (*catalog.Catalog, error) {
	var (
		cat *catalog.Catalog
		err error
	)
	switch cfg.CatalogSource {
	case config.CatalogEmbedded:
		cat, err = catalog.LoadEmbedded()
	case config.CatalogFile:
		cat, err = catalog.LoadFile(cfg.CatalogPath)
	case config.CatalogPostgres:
		if repo == nil {
			return nil, fmt.Errorf("catalog source %q needs a database", cfg.CatalogSource)
		}
		var d *catalog.Data
		d, err = repo.Load(ctx)
		if err == nil {
			cat, err = catalog.New(d)
		}
	default:
		return nil, fmt.Errorf("unknown catalog source %q", cfg.CatalogSource)
	}
	if err != nil {
		return nil, fmt.Errorf("load %s catalog: %w", cfg.CatalogSource, err)
	}

	for _, w := range cat.Validate() {
		log.Warn().Str("source", cfg.CatalogSource).Msg(w)
	}
	log.Info().
		Str("source", cfg.CatalogSource).
		Int("courses", len(cat.Courses())).
		Int("majors", len(cat.Majors())).
		Msg("Catalog loaded")
	return cat, nil
}

// catalogVersion fingerprints the catalog for HTTP cache validation.
func catalogVersion(cat *catalog.Catalog) string {
	h := sha256.New()
	enc := json.NewEncoder(h)
	for _, part := range []any{cat.Rules(), cat.Aliases(), cat.Cohorts(), cat.Departments(),
		cat.Courses(), cat.BlockCourses(), cat.Majors()} {
		_ = enc.Encode(part)
	}
	return hex.EncodeToString(h.Sum(nil))[:16]
}

func (s *catalogService) Catalog() *catalog.Catalog { return s.cat }

func (s *catalogService) Version() string { return s.version }

func (s *catalogService) Cohorts() []model.Cohort { return s.cat.Cohorts() }

func (s *catalogService) Departments() []model.Department { return s.cat.Departments() }

func (s *catalogService) Majors() []*model.Major { return s.cat.Majors() }

func (s *catalogService) Major(id string) (*model.Major, error) {
	return s.cat.LookupMajor(id)
}

func (s *catalogService) Courses(cohort string, f catalog.CourseFilter) ([]*model.Course, error) {
	if _, err := s.cat.Cohort(cohort); err != nil {
		return nil, err
	}
	if f.MajorID != "" {
		if _, err := s.cat.LookupMajor(f.MajorID); err != nil {
			return nil, err
		}
	}
	return s.cat.CoursesForCohort(cohort, f), nil
}

// Course looks a course up by any accepted code spelling. With a cohort the
// detail carries that cohort's offering and the courses it unlocks there.
func (s *catalogService) Course(code, cohort string) (*CourseDetail, error) {
	course, err := s.cat.LookupCourse(model.NormalizeCode(code))
	if err != nil {
		return nil, err
	}

	d := &CourseDetail{
		Course:        course,
		Prerequisites: s.cat.UpstreamPrerequisites(course.Code),
		Unlocks:       []string{},
	}
	if cohort == "" {
		return d, nil
	}
	if _, err := s.cat.Cohort(cohort); err != nil {
		return nil, err
	}
	if o, ok := course.OfferingFor(cohort); ok {
		d.Offering = &o
	}
	d.Unlocks = s.cat.CoursesUnlockedBy(cohort, course.Code)
	return d, nil
}

func (s *catalogService) BlockCourses(cohort, term string) ([]*model.BlockCourse, error) {
	if _, err := s.cat.Cohort(cohort); err != nil {
		return nil, err
	}
	return s.cat.BlockCoursesForCohort(cohort, term), nil
}

func (s *catalogService) Schedule(cohort string) (map[string]model.TermSchedule, error) {
	if _, err := s.cat.Cohort(cohort); err != nil {
		return nil, err
	}
	sched, ok := s.cat.Schedule(cohort)
	if !ok {
		return map[string]model.TermSchedule{}, nil
	}
	return sched, nil
}
