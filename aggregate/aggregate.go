// Package aggregate joins matched precincts with demographic statistics and
// sums votes per county, race and income tier for the map's summary table.
package aggregate

import (
	"log/slog"
	"strings"

	"github.com/use-agent/ballotmap/models"
)

// Income tiers.
const (
	IncomeLow  = "low"
	IncomeMid  = "mid"
	IncomeHigh = "high"
)

// IncomeBins is the order income fields are emitted in.
var IncomeBins = []string{IncomeHigh, IncomeMid, IncomeLow}

// Options controls which demographic fields are summarised.
type Options struct {
	// RaceFields are the race categories emitted per county. Races not
	// listed still count toward the AllCounties totals.
	RaceFields []string
}

// DefaultOptions matches the map's summary table.
var DefaultOptions = Options{RaceFields: []string{"black", "white", "hispanic"}}

// IncomeBin buckets an average household income.
func IncomeBin(avgIncome float64) string {
	switch {
	case avgIncome < 50000:
		return IncomeLow
	case avgIncome < 100000:
		return IncomeMid
	default:
		return IncomeHigh
	}
}

type joinedRow struct {
	county   string
	race     string
	income   string
	rep, dem int
}

// groupSums is county -> field -> party -> votes for one grouping view.
type groupSums map[string]map[string]map[string]int

func (g groupSums) add(county, field string, rep, dem int) {
	fields, ok := g[county]
	if !ok {
		fields = make(map[string]map[string]int)
		g[county] = fields
	}
	parties, ok := fields[field]
	if !ok {
		parties = make(map[string]int)
		fields[field] = parties
	}
	parties[PartyRep] += rep
	parties[PartyDem] += dem
}

// Aggregate builds the summary from matched rows.
//
// Matched rows are inner-joined with demographics on precinct key and
// county; rows without demographics are dropped. Votes are grouped by
// (county, race) and by (county, income tier). Only counties present in
// both groupings are emitted. A field is emitted for a county only when
// its group had rows, and the county's "all" bucket is the sum of its
// emitted fields. AllCounties accumulates every emitted field and carries
// the overall rep/dem totals of the joined rows in its "all" bucket.
func Aggregate(matched []models.MergedRecord, demographics []models.DemographicRow, opts Options) *Summary {
	rows := join(matched, demographics)

	race := make(groupSums)
	income := make(groupSums)
	totalRep, totalDem := 0, 0
	for _, r := range rows {
		totalRep += r.rep
		totalDem += r.dem
		if r.race != "" {
			race.add(r.county, r.race, r.rep, r.dem)
		}
		if r.income != "" {
			income.add(r.county, r.income, r.rep, r.dem)
		}
	}

	s := newSummary()
	for county, raceFields := range race {
		incomeFields, ok := income[county]
		if !ok {
			continue
		}
		for _, party := range Parties {
			all := Key{county, FieldAll, party}
			s.set(all, 0)
			emit := func(field string, groups map[string]map[string]int) {
				parties, ok := groups[field]
				if !ok {
					return
				}
				n := parties[party]
				s.set(Key{county, field, party}, n)
				s.add(all, n)
				s.add(Key{AllCounties, field, party}, n)
			}
			for _, field := range opts.RaceFields {
				emit(field, raceFields)
			}
			for _, field := range IncomeBins {
				emit(field, incomeFields)
			}
		}
	}

	s.set(Key{AllCounties, FieldAll, PartyRep}, totalRep)
	s.set(Key{AllCounties, FieldAll, PartyDem}, totalDem)

	slog.Info("aggregated stats",
		"matched", len(matched),
		"joined", len(rows),
		"counties", len(s.Counties())-1,
		"rep_votes", totalRep,
		"dem_votes", totalDem,
	)
	return s
}

func joinKey(key, county string) string {
	return key + "\x00" + strings.ToUpper(strings.TrimSpace(county))
}

func join(matched []models.MergedRecord, demographics []models.DemographicRow) []joinedRow {
	byKey := make(map[string][]int, len(demographics))
	for i, d := range demographics {
		k := joinKey(d.Key, d.County)
		byKey[k] = append(byKey[k], i)
	}

	var rows []joinedRow
	for _, m := range matched {
		if !m.HasVotes() {
			continue
		}
		for _, i := range byKey[joinKey(m.Key, m.County())] {
			d := demographics[i]
			row := joinedRow{
				county: m.County(),
				race:   strings.ToLower(strings.TrimSpace(d.Race)),
				rep:    m.Vote.RepVotes,
				dem:    m.Vote.DemVotes,
			}
			if d.HasIncome {
				row.income = IncomeBin(d.AvgIncome)
			}
			rows = append(rows, row)
		}
	}
	return rows
}
