package merge

import (
	"strings"

	"github.com/antzucaro/matchr"
	"github.com/use-agent/ballotmap/models"
)

// Suggestion pairs an unmatched row with the most similar canonical key.
type Suggestion struct {
	Record     models.MergedRecord
	Candidate  string
	Similarity float64
}

// Suggest proposes, for every unmatched row, the canonical key with the
// highest Jaro-Winkler similarity. Keys from the row's own county are
// preferred; other counties are searched only when the county has none.
// Rows with no similar key get an empty Candidate.
func Suggest(unmatched []models.MergedRecord, canonical []models.CanonicalPrecinct) []Suggestion {
	byCounty := make(map[string][]string)
	var all []string
	seen := make(map[string]struct{}, len(canonical))
	for _, c := range canonical {
		county := strings.ToUpper(strings.TrimSpace(c.County))
		byCounty[county] = append(byCounty[county], c.Key)
		if _, dup := seen[c.Key]; !dup {
			seen[c.Key] = struct{}{}
			all = append(all, c.Key)
		}
	}

	out := make([]Suggestion, 0, len(unmatched))
	for _, row := range unmatched {
		pool := byCounty[strings.ToUpper(row.County())]
		if len(pool) == 0 {
			pool = all
		}

		s := Suggestion{Record: row}
		for _, key := range pool {
			sim := matchr.JaroWinkler(row.Key, key, false)
			if sim > s.Similarity {
				s.Similarity = sim
				s.Candidate = key
			}
		}
		out = append(out, s)
	}
	return out
}
