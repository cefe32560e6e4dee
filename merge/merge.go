// Package merge joins scraped vote records against the canonical precinct
// list and separates clean matches from rows that need manual review.
package merge

import (
	"log/slog"

	"github.com/use-agent/ballotmap/models"
	"github.com/use-agent/ballotmap/reconcile"
)

// Result partitions the filtered join output.
type Result struct {
	// Matched rows had a vote record and a canonical precinct.
	Matched []models.MergedRecord

	// Unmatched rows carry votes but no canonical precinct.
	Unmatched []models.MergedRecord
}

// Merge canonicalizes vote precinct names with the default rules and joins
// them against canonical.
func Merge(votes []*models.VoteRecord, canonical []models.CanonicalPrecinct) Result {
	return MergeWith(reconcile.Default, votes, canonical)
}

// MergeWith is Merge with an explicit reconciler.
//
// Vote precinct names are rewritten in place before joining. Rows lacking
// rep or dem counts are dropped after the join; this also drops every
// canonical precinct that no vote record matched.
func MergeWith(r *reconcile.Reconciler, votes []*models.VoteRecord, canonical []models.CanonicalPrecinct) Result {
	r.ApplyAll(votes)

	var res Result
	dropped := 0
	for _, row := range Join(votes, canonical) {
		if !row.HasVotes() {
			dropped++
			continue
		}
		if row.Indicator == models.Both {
			res.Matched = append(res.Matched, row)
		} else {
			res.Unmatched = append(res.Unmatched, row)
		}
	}

	slog.Info("merged precincts",
		"votes", len(votes),
		"canonical", len(canonical),
		"matched", len(res.Matched),
		"unmatched", len(res.Unmatched),
		"dropped", dropped,
	)
	return res
}

// Join is the full outer join of votes (left) and canonical (right) on the
// vote's Precinct and the canonical Key. A key present several times on
// both sides yields every pairing. Left rows come first in vote order,
// followed by unpaired canonical rows in file order.
func Join(votes []*models.VoteRecord, canonical []models.CanonicalPrecinct) []models.MergedRecord {
	byKey := make(map[string][]int, len(canonical))
	for i, c := range canonical {
		byKey[c.Key] = append(byKey[c.Key], i)
	}

	paired := make([]bool, len(canonical))
	rows := make([]models.MergedRecord, 0, len(votes)+len(canonical))

	for _, v := range votes {
		idxs := byKey[v.Precinct]
		if len(idxs) == 0 {
			rows = append(rows, models.MergedRecord{
				Key:       v.Precinct,
				Vote:      v,
				Indicator: models.LeftOnly,
			})
			continue
		}
		for _, i := range idxs {
			paired[i] = true
			rows = append(rows, models.MergedRecord{
				Key:       v.Precinct,
				Vote:      v,
				Canonical: &canonical[i],
				Indicator: models.Both,
			})
		}
	}

	for i := range canonical {
		if paired[i] {
			continue
		}
		rows = append(rows, models.MergedRecord{
			Key:       canonical[i].Key,
			Canonical: &canonical[i],
			Indicator: models.RightOnly,
		})
	}
	return rows
}
