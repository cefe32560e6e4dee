package handler

import (
	"errors"
	"io/fs"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/ballotmap/models"
)

// respondError maps an error to the correct HTTP status code and writes
// a structured JSON error response. A missing artifact means the pipeline
// has not run yet.
func respondError(c *gin.Context, err error) {
	var pipeErr *models.PipelineError
	switch {
	case errors.As(err, &pipeErr):
	case errors.Is(err, fs.ErrNotExist):
		pipeErr = models.NewPipelineError(models.ErrCodeNotFound, "artifact not generated yet", err)
	default:
		pipeErr = models.NewPipelineError(models.ErrCodeInternal, err.Error(), err)
	}

	c.JSON(mapErrorToStatus(pipeErr), models.Response{
		Success: false,
		Error:   pipeErr.ToDetail(),
	})
}

// mapErrorToStatus translates error codes to HTTP status codes.
func mapErrorToStatus(e *models.PipelineError) int {
	switch e.Code {
	case models.ErrCodeNotFound, models.ErrCodeReferenceMissing:
		return http.StatusNotFound // 404
	case models.ErrCodeRateLimited:
		return http.StatusTooManyRequests // 429
	case models.ErrCodeUnauthorized:
		return http.StatusUnauthorized // 401
	default:
		return http.StatusInternalServerError // 500
	}
}
