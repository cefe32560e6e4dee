// Package report prints run summaries for the operator.
package report

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/use-agent/ballotmap/aggregate"
	"github.com/use-agent/ballotmap/merge"
)

// Summary prints one row per county and field with both parties' votes.
func Summary(w io.Writer, s *aggregate.Summary) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"County", "Field", "Rep votes", "Dem votes"})

	for _, county := range s.Counties() {
		for _, field := range s.Fields(county) {
			t.AppendRow(table.Row{
				county,
				field,
				s.Get(county, field, aggregate.PartyRep),
				s.Get(county, field, aggregate.PartyDem),
			})
		}
		t.AppendSeparator()
	}

	t.SetStyle(table.StyleRounded)
	t.Render()
}

// Unmatched prints up to limit unmatched precincts with their suggested
// canonical key. limit <= 0 prints all of them.
func Unmatched(w io.Writer, suggestions []merge.Suggestion, limit int) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"County", "Scraped precinct", "Suggested", "Similarity"})

	for i, s := range suggestions {
		if limit > 0 && i == limit {
			t.AppendFooter(table.Row{"", fmt.Sprintf("%d more", len(suggestions)-limit), "", ""})
			break
		}
		t.AppendRow(table.Row{
			s.Record.County(),
			s.Record.Key,
			s.Candidate,
			fmt.Sprintf("%.3f", s.Similarity),
		})
	}

	t.SetStyle(table.StyleRounded)
	t.Render()
}
