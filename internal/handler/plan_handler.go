package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stemsi/pathway-planner/internal/model"
	"github.com/stemsi/pathway-planner/internal/response"
	"github.com/stemsi/pathway-planner/internal/service"
	"github.com/stemsi/pathway-planner/internal/validator"
)

// PlanHandler exposes plan mutations and derived views. Every mutation
// answers with the recomputed plan summary.
type PlanHandler struct {
	planService service.PlanService
	log         zerolog.Logger
}

func NewPlanHandler(planService service.PlanService, log zerolog.Logger) *PlanHandler {
	return &PlanHandler{
		planService: planService,
		log:         log.With().Str("component", "plan_handler").Logger(),
	}
}

type createPlanRequest struct {
	Cohort        string `json:"cohort" binding:"omitempty,cohort"`
	FinanceChoice string `json:"finance_choice" binding:"omitempty,coursecode"`
}

type selectCohortRequest struct {
	Cohort        string `json:"cohort" binding:"required,cohort"`
	FinanceChoice string `json:"finance_choice" binding:"omitempty,coursecode"`
}

type financeChoiceRequest struct {
	FinanceChoice string `json:"finance_choice" binding:"required,coursecode"`
}

type addCourseRequest struct {
	Code string `json:"code" binding:"required,coursecode"`
}

type viewRequest struct {
	CurrentView  string `json:"current_view" binding:"omitempty,max=32"`
	ExplorerMode string `json:"explorer_mode" binding:"omitempty,max=32"`
}

// planID reads and checks the :id path parameter.
func planID(c *gin.Context) (string, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return "", false
	}
	return id.String(), true
}

// Create godoc
// POST /api/v1/plans
func (h *PlanHandler) Create(c *gin.Context) {
	var req createPlanRequest
	if c.Request.ContentLength != 0 {
		if fields := validator.Bind(c, &req); fields != nil {
			response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
			return
		}
	}

	var initial *model.PlanState
	if req.Cohort != "" {
		p := model.NewPlanState()
		p.Cohort = req.Cohort
		p.FinanceChoice = req.FinanceChoice
		initial = &p
	}

	id, summary, err := h.planService.Create(c.Request.Context(), initial)
	if err != nil {
		failWith(c, h.log, err)
		return
	}
	c.Header("Location", "/api/v1/plans/"+id)
	response.Success(c, http.StatusCreated, gin.H{"id": id, "summary": summary})
}

// Get godoc
// GET /api/v1/plans/:id
func (h *PlanHandler) Get(c *gin.Context) {
	id, ok := planID(c)
	if !ok {
		return
	}
	plan, err := h.planService.Get(c.Request.Context(), id)
	if err != nil {
		failWith(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"id": id, "plan": plan})
}

// Replace godoc
// PUT /api/v1/plans/:id
// Body is a full persisted plan record; older codes are rewritten on import.
func (h *PlanHandler) Replace(c *gin.Context) {
	id, ok := planID(c)
	if !ok {
		return
	}
	var plan model.PlanState
	if err := c.ShouldBindJSON(&plan); err != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrInvalidPayload, validator.TranslateErrors(err))
		return
	}
	h.respond(c, id)(h.planService.Replace(c.Request.Context(), id, plan))
}

// SelectCohort godoc
// PUT /api/v1/plans/:id/cohort
func (h *PlanHandler) SelectCohort(c *gin.Context) {
	id, ok := planID(c)
	if !ok {
		return
	}
	var req selectCohortRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}
	h.respond(c, id)(h.planService.SelectCohort(c.Request.Context(), id, req.Cohort, req.FinanceChoice))
}

// SetFinanceChoice godoc
// PUT /api/v1/plans/:id/finance
func (h *PlanHandler) SetFinanceChoice(c *gin.Context) {
	id, ok := planID(c)
	if !ok {
		return
	}
	var req financeChoiceRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}
	h.respond(c, id)(h.planService.SetFinanceChoice(c.Request.Context(), id, req.FinanceChoice))
}

// AddCourse godoc
// POST /api/v1/plans/:id/courses
func (h *PlanHandler) AddCourse(c *gin.Context) {
	id, ok := planID(c)
	if !ok {
		return
	}
	var req addCourseRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}
	h.respond(c, id)(h.planService.AddCourse(c.Request.Context(), id, req.Code))
}

// RemoveCourse godoc
// DELETE /api/v1/plans/:id/courses/:code
func (h *PlanHandler) RemoveCourse(c *gin.Context) {
	id, ok := planID(c)
	if !ok {
		return
	}
	h.respond(c, id)(h.planService.RemoveCourse(c.Request.Context(), id, c.Param("code")))
}

// ClearElectives godoc
// DELETE /api/v1/plans/:id/courses
func (h *PlanHandler) ClearElectives(c *gin.Context) {
	id, ok := planID(c)
	if !ok {
		return
	}
	h.respond(c, id)(h.planService.ClearElectives(c.Request.Context(), id))
}

// ToggleMajor godoc
// POST /api/v1/plans/:id/majors/:major_id/toggle
func (h *PlanHandler) ToggleMajor(c *gin.Context) {
	id, ok := planID(c)
	if !ok {
		return
	}
	h.respond(c, id)(h.planService.ToggleMajor(c.Request.Context(), id, c.Param("major_id")))
}

// ClearMajors godoc
// DELETE /api/v1/plans/:id/majors
func (h *PlanHandler) ClearMajors(c *gin.Context) {
	id, ok := planID(c)
	if !ok {
		return
	}
	h.respond(c, id)(h.planService.ClearMajors(c.Request.Context(), id))
}

// ToggleBlockCourse godoc
// POST /api/v1/plans/:id/block-courses/:code/toggle
func (h *PlanHandler) ToggleBlockCourse(c *gin.Context) {
	id, ok := planID(c)
	if !ok {
		return
	}
	h.respond(c, id)(h.planService.ToggleBlockCourse(c.Request.Context(), id, c.Param("code")))
}

// SetView godoc
// PUT /api/v1/plans/:id/view
func (h *PlanHandler) SetView(c *gin.Context) {
	id, ok := planID(c)
	if !ok {
		return
	}
	var req viewRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}
	h.respond(c, id)(h.planService.SetView(c.Request.Context(), id, req.CurrentView, req.ExplorerMode))
}

// Summary godoc
// GET /api/v1/plans/:id/summary
func (h *PlanHandler) Summary(c *gin.Context) {
	id, ok := planID(c)
	if !ok {
		return
	}
	h.respond(c, id)(h.planService.Summary(c.Request.Context(), id))
}

// Alerts godoc
// GET /api/v1/plans/:id/alerts
func (h *PlanHandler) Alerts(c *gin.Context) {
	id, ok := planID(c)
	if !ok {
		return
	}
	alerts, err := h.planService.Alerts(c.Request.Context(), id)
	if err != nil {
		failWith(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"alerts": alerts})
}

// PrerequisiteInfo godoc
// GET /api/v1/plans/:id/prerequisites/:code
func (h *PlanHandler) PrerequisiteInfo(c *gin.Context) {
	id, ok := planID(c)
	if !ok {
		return
	}
	info, err := h.planService.PrerequisiteInfo(c.Request.Context(), id, c.Param("code"))
	if err != nil {
		failWith(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, info)
}

// Export godoc
// GET /api/v1/plans/:id/export
// Returns the plain-text plan as a download.
func (h *PlanHandler) Export(c *gin.Context) {
	id, ok := planID(c)
	if !ok {
		return
	}
	filename, text, err := h.planService.Export(c.Request.Context(), id)
	if err != nil {
		failWith(c, h.log, err)
		return
	}
	response.Attachment(c, filename, text)
}

// Snapshots godoc
// GET /api/v1/plans/:id/snapshots?page=&per_page=
func (h *PlanHandler) Snapshots(c *gin.Context) {
	id, ok := planID(c)
	if !ok {
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", strconv.Itoa(service.DefaultSnapshotPageSize)))
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > service.MaxSnapshotPageSize {
		perPage = service.DefaultSnapshotPageSize
	}

	snapshots, total, err := h.planService.Snapshots(c.Request.Context(), id, page, perPage)
	if err != nil {
		failWith(c, h.log, err)
		return
	}
	response.SuccessWithPagination(c, http.StatusOK, gin.H{"snapshots": snapshots}, response.NewPagination(page, perPage, total))
}

// respond writes a summary result for plan id.
func (h *PlanHandler) respond(c *gin.Context, id string) func(model.PlanSummary, error) {
	return func(summary model.PlanSummary, err error) {
		if err != nil {
			failWith(c, h.log, err)
			return
		}
		response.Success(c, http.StatusOK, gin.H{"id": id, "summary": summary})
	}
}
