package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/ballotmap/cache"
	"github.com/use-agent/ballotmap/dataset"
	"github.com/use-agent/ballotmap/models"
)

// Precincts returns a handler for GET /api/v1/precincts, serving the
// matched vote rows. ?county= narrows the result.
func Precincts(cc *cache.Cache, path string) gin.HandlerFunc {
	return tableHandler(cc, path)
}

// Unmatched returns a handler for GET /api/v1/unmatched, serving the
// rows that found no canonical precinct along with their suggestions.
// ?county= narrows the result.
func Unmatched(cc *cache.Cache, path string) gin.HandlerFunc {
	return tableHandler(cc, path)
}

func tableHandler(cc *cache.Cache, path string) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, err := cc.Load(path, func(p string) (any, error) {
			return dataset.ReadTable(p)
		})
		if err != nil {
			respondError(c, err)
			return
		}
		rows := v.(*dataset.Table).Rows

		if county := strings.TrimSpace(c.Query("county")); county != "" {
			rows = filterCounty(rows, county)
		}
		if rows == nil {
			rows = []map[string]string{}
		}

		c.JSON(http.StatusOK, models.Response{
			Success: true,
			Data:    rows,
			Count:   len(rows),
		})
	}
}

func filterCounty(rows []map[string]string, county string) []map[string]string {
	var out []map[string]string
	for _, row := range rows {
		if strings.EqualFold(row[dataset.ColCounty], county) {
			out = append(out, row)
		}
	}
	return out
}
