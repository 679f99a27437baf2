package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/pathway-planner/internal/catalog"
	"github.com/stemsi/pathway-planner/internal/response"
	"github.com/stemsi/pathway-planner/internal/service"
)

// failWith maps a service or catalog error onto the API error envelope.
// Anything unrecognised is logged and reported as an internal error.
func failWith(c *gin.Context, log zerolog.Logger, err error) {
	switch {
	case errors.Is(err, service.ErrPlanNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrPlanNotFound)
	case errors.Is(err, catalog.ErrUnknownCohort):
		response.Fail(c, http.StatusNotFound, response.ErrUnknownCohort)
	case errors.Is(err, catalog.ErrUnknownCourse):
		response.Fail(c, http.StatusNotFound, response.ErrUnknownCourse)
	case errors.Is(err, catalog.ErrUnknownMajor):
		response.Fail(c, http.StatusNotFound, response.ErrUnknownMajor)
	case errors.Is(err, catalog.ErrUnknownBlockCourse):
		response.Fail(c, http.StatusNotFound, response.ErrUnknownBlockCourse)
	case errors.Is(err, service.ErrCohortRequired):
		response.Fail(c, http.StatusUnprocessableEntity, response.ErrCohortRequired)
	case errors.Is(err, service.ErrInvalidFinanceChoice):
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidFinanceChoice)
	case errors.Is(err, service.ErrFinanceChoiceLocked):
		response.Fail(c, http.StatusConflict, response.ErrFinanceChoiceLocked)
	case errors.Is(err, service.ErrSnapshotsDisabled):
		response.Fail(c, http.StatusNotImplemented, response.ErrSnapshotsDisabled)
	default:
		log.Error().Err(err).Str("path", c.FullPath()).Msg("Request failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
