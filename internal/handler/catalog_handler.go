package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/pathway-planner/internal/catalog"
	"github.com/stemsi/pathway-planner/internal/response"
	"github.com/stemsi/pathway-planner/internal/service"
	"github.com/stemsi/pathway-planner/internal/validator"
)

// CatalogHandler serves the read-only course catalog.
type CatalogHandler struct {
	catalogService service.CatalogService
	log            zerolog.Logger
}

func NewCatalogHandler(catalogService service.CatalogService, log zerolog.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
		log:            log.With().Str("component", "catalog_handler").Logger(),
	}
}

type courseListQuery struct {
	Cohort     string `form:"cohort" json:"cohort" binding:"required,cohort"`
	Department string `form:"department" json:"department" binding:"omitempty,alpha,max=5"`
	Major      string `form:"major" json:"major"`
	Term       string `form:"term" json:"term" binding:"omitempty,max=4"`
	Query      string `form:"q" json:"q" binding:"omitempty,max=100"`
}

type blockCourseQuery struct {
	Cohort string `form:"cohort" json:"cohort" binding:"required,cohort"`
	Term   string `form:"term" json:"term" binding:"omitempty,max=4"`
}

// Rules godoc
// GET /api/v1/catalog/rules
func (h *CatalogHandler) Rules(c *gin.Context) {
	cat := h.catalogService.Catalog()
	response.Success(c, http.StatusOK, gin.H{
		"rules":   cat.Rules(),
		"version": h.catalogService.Version(),
	})
}

// Cohorts godoc
// GET /api/v1/catalog/cohorts
func (h *CatalogHandler) Cohorts(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{"cohorts": h.catalogService.Cohorts()})
}

// Departments godoc
// GET /api/v1/catalog/departments
func (h *CatalogHandler) Departments(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{"departments": h.catalogService.Departments()})
}

// Majors godoc
// GET /api/v1/catalog/majors
func (h *CatalogHandler) Majors(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{"majors": h.catalogService.Majors()})
}

// Major godoc
// GET /api/v1/catalog/majors/:id
func (h *CatalogHandler) Major(c *gin.Context) {
	major, err := h.catalogService.Major(c.Param("id"))
	if err != nil {
		failWith(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"major": major})
}

// Courses godoc
// GET /api/v1/catalog/courses?cohort=&department=&major=&term=&q=
func (h *CatalogHandler) Courses(c *gin.Context) {
	var q courseListQuery
	if fields := validator.BindQuery(c, &q); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	courses, err := h.catalogService.Courses(q.Cohort, catalog.CourseFilter{
		Department: q.Department,
		MajorID:    q.Major,
		Term:       q.Term,
		Query:      q.Query,
	})
	if err != nil {
		failWith(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"courses": courses, "count": len(courses)})
}

// Course godoc
// GET /api/v1/catalog/courses/:code?cohort=
func (h *CatalogHandler) Course(c *gin.Context) {
	detail, err := h.catalogService.Course(c.Param("code"), c.Query("cohort"))
	if err != nil {
		failWith(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, detail)
}

// BlockCourses godoc
// GET /api/v1/catalog/block-courses?cohort=&term=
func (h *CatalogHandler) BlockCourses(c *gin.Context) {
	var q blockCourseQuery
	if fields := validator.BindQuery(c, &q); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	blocks, err := h.catalogService.BlockCourses(q.Cohort, q.Term)
	if err != nil {
		failWith(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"block_courses": blocks})
}

// Schedule godoc
// GET /api/v1/catalog/schedule/:cohort
func (h *CatalogHandler) Schedule(c *gin.Context) {
	sched, err := h.catalogService.Schedule(c.Param("cohort"))
	if err != nil {
		failWith(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"schedule": sched})
}
