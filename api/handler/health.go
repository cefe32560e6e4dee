package handler

import (
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/ballotmap/cache"
	"github.com/use-agent/ballotmap/config"
	"github.com/use-agent/ballotmap/models"
)

// Version is reported by the health endpoint.
const Version = "0.1.0"

// Health returns a handler for GET /api/v1/health.
//
// Status degrades when any artifact has not been produced yet.
func Health(files config.FilesConfig, cc *cache.Cache, startTime time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		artifacts := []models.ArtifactStatus{
			artifactStatus("aggregate", files.AggregateJSON),
			artifactStatus("matched", files.MatchedCSV),
			artifactStatus("unmatched", files.UnmatchedCSV),
		}

		status := "healthy"
		for _, a := range artifacts {
			if !a.Present {
				status = "degraded"
			}
		}

		st := cc.Stats()
		c.JSON(http.StatusOK, models.HealthResponse{
			Status:    status,
			Uptime:    time.Since(startTime).Round(time.Second).String(),
			Version:   Version,
			Artifacts: artifacts,
			Cache: models.CacheStats{
				Entries: st.Entries,
				Hits:    st.Hits,
				Misses:  st.Misses,
			},
		})
	}
}

func artifactStatus(name, path string) models.ArtifactStatus {
	a := models.ArtifactStatus{Name: name, Path: path}
	info, err := os.Stat(path)
	if err != nil {
		return a
	}
	mod := info.ModTime().UTC()
	a.Present = true
	a.Size = info.Size()
	a.ModifiedAt = &mod
	return a
}
