package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/ballotmap/aggregate"
	"github.com/use-agent/ballotmap/cache"
	"github.com/use-agent/ballotmap/dataset"
	"github.com/use-agent/ballotmap/models"
)

// Stats returns a handler for GET /api/v1/stats: the whole aggregate
// document as written by the pipeline.
func Stats(cc *cache.Cache, path string) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := loadStats(cc, path)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.Response{
			Success: true,
			Data:    stats,
			Count:   len(stats),
		})
	}
}

// CountyStats returns a handler for GET /api/v1/stats/:county. The county
// is matched in uppercase, so "all counties" finds the rollup.
func CountyStats(cc *cache.Cache, path string) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := loadStats(cc, path)
		if err != nil {
			respondError(c, err)
			return
		}

		county := strings.ToUpper(strings.TrimSpace(c.Param("county")))
		fields, ok := stats[county]
		if !ok {
			respondError(c, models.NewPipelineError(
				models.ErrCodeNotFound,
				"no statistics for county "+county,
				nil,
			))
			return
		}
		c.JSON(http.StatusOK, models.Response{
			Success: true,
			Data:    fields,
			Count:   len(fields),
		})
	}
}

func loadStats(cc *cache.Cache, path string) (aggregate.Nested, error) {
	v, err := cc.Load(path, func(p string) (any, error) {
		var n aggregate.Nested
		if err := dataset.ReadJSON(p, &n); err != nil {
			return nil, err
		}
		return n, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(aggregate.Nested), nil
}
