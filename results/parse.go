package results

import (
	"fmt"

	"github.com/use-agent/ballotmap/models"
)

// ParseCounty flattens one county's roster and tally documents into one
// VoteRecord per precinct.
//
// Counties order contests differently, so the contest is located in the
// roster by the rep candidate and the same index is read from the tally.
// Every candidate's count, tracked or not, is added to Total.
func ParseCounty(county string, roster, tally *Document, rep, dem string) ([]*models.VoteRecord, error) {
	idx := roster.ContestIndex(rep)
	if idx < 0 {
		return nil, models.NewPipelineError(
			models.ErrCodeContestNotFound,
			fmt.Sprintf("county %s: no contest lists candidate %q", county, rep),
			nil,
		)
	}
	if idx >= len(tally.Contests) {
		return nil, models.NewPipelineError(
			models.ErrCodeContestNotFound,
			fmt.Sprintf("county %s: tally has %d contests, roster contest is #%d", county, len(tally.Contests), idx),
			nil,
		)
	}

	candidates := roster.Contests[idx].CH
	contest := tally.Contests[idx]

	n := min(len(contest.P), len(contest.V))
	records := make([]*models.VoteRecord, 0, n)
	for i := 0; i < n; i++ {
		rec := &models.VoteRecord{Precinct: contest.P[i], County: county}
		votes := contest.V[i]
		for j := 0; j < min(len(candidates), len(votes)); j++ {
			count := float64(votes[j])
			switch candidates[j] {
			case rep:
				rec.SetRep(int(count))
			case dem:
				rec.SetDem(int(count))
			}
			rec.Total += count
		}
		records = append(records, rec)
	}
	return records, nil
}
