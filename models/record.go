package models

// VoteRecord is one precinct's tally for the tracked contest.
// Total counts every candidate in the contest, so Total >= RepVotes+DemVotes.
type VoteRecord struct {
	Precinct string
	County   string
	RepVotes int
	DemVotes int
	Total    float64

	// hasRep and hasDem record whether the roster carried the tracked
	// candidates at all; a missing candidate leaves the count null.
	hasRep bool
	hasDem bool
}

// NewVoteRecord builds a record with both tracked counts present.
func NewVoteRecord(precinct, county string, rep, dem int, total float64) *VoteRecord {
	v := &VoteRecord{Precinct: precinct, County: county, Total: total}
	v.SetRep(rep)
	v.SetDem(dem)
	return v
}

// SetRep records the rep candidate's count.
func (v *VoteRecord) SetRep(n int) {
	v.RepVotes = n
	v.hasRep = true
}

// SetDem records the dem candidate's count.
func (v *VoteRecord) SetDem(n int) {
	v.DemVotes = n
	v.hasDem = true
}

// HasVotes reports whether both tracked counts are present.
func (v *VoteRecord) HasVotes() bool {
	return v != nil && v.hasRep && v.hasDem
}

// RepShare is RepVotes as a fraction of Total, or 0 when Total is 0.
func (v *VoteRecord) RepShare() float64 {
	if v.Total == 0 {
		return 0
	}
	return float64(v.RepVotes) / v.Total
}

// DemShare is DemVotes as a fraction of Total, or 0 when Total is 0.
func (v *VoteRecord) DemShare() float64 {
	if v.Total == 0 {
		return 0
	}
	return float64(v.DemVotes) / v.Total
}

// CanonicalPrecinct is a row of the precinct-to-geography reference file.
// Key holds the ajc_precinct column; Fields holds every column by header.
type CanonicalPrecinct struct {
	Key    string
	County string
	Fields map[string]string
}

// MatchIndicator tags which side of the join produced a row.
type MatchIndicator string

const (
	LeftOnly  MatchIndicator = "left_only"
	RightOnly MatchIndicator = "right_only"
	Both      MatchIndicator = "both"
)

// MergedRecord is one row of the outer join of scraped votes (left) and
// canonical precincts (right). A nil side had no row in the join.
type MergedRecord struct {
	Key       string
	Vote      *VoteRecord
	Canonical *CanonicalPrecinct
	Indicator MatchIndicator
}

// HasVotes reports whether the row carries rep and dem counts.
func (m MergedRecord) HasVotes() bool {
	return m.Vote.HasVotes()
}

// County prefers the scraped county and falls back to the reference one.
func (m MergedRecord) County() string {
	if m.Vote != nil && m.Vote.County != "" {
		return m.Vote.County
	}
	if m.Canonical != nil {
		return m.Canonical.County
	}
	return ""
}

// DemographicRow is a row of the demographic statistics file.
type DemographicRow struct {
	Key       string
	County    string
	Race      string
	AvgIncome float64
	HasIncome bool
	Fields    map[string]string
}
