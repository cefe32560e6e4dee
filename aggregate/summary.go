package aggregate

import (
	"encoding/json"
	"sort"
)

const (
	// AllCounties is the pseudo-county rolling up every real county.
	AllCounties = "ALL COUNTIES"

	// FieldAll is the per-county sum of every present field.
	FieldAll = "all"

	PartyRep = "rep_votes"
	PartyDem = "dem_votes"
)

// Parties lists the tracked vote columns.
var Parties = []string{PartyRep, PartyDem}

// Key addresses one bucket of the summary.
type Key struct {
	County string
	Field  string
	Party  string
}

// Nested is the serialized form: data[county][field][party] = votes.
type Nested map[string]map[string]map[string]int

// Summary is the explicit (county, field, party) -> votes mapping.
// Absent buckets read as zero but are not serialized.
type Summary struct {
	counts map[Key]int
}

func newSummary() *Summary {
	return &Summary{counts: make(map[Key]int)}
}

// Get returns the bucket's vote sum, or 0 when the bucket is absent.
func (s *Summary) Get(county, field, party string) int {
	return s.counts[Key{county, field, party}]
}

// Has reports whether the bucket was produced by the aggregation.
func (s *Summary) Has(county, field, party string) bool {
	_, ok := s.counts[Key{county, field, party}]
	return ok
}

func (s *Summary) set(k Key, n int) {
	s.counts[k] = n
}

func (s *Summary) add(k Key, n int) {
	s.counts[k] += n
}

// Counties returns every county in the summary, sorted, including AllCounties.
func (s *Summary) Counties() []string {
	seen := make(map[string]struct{})
	for k := range s.counts {
		seen[k.County] = struct{}{}
	}
	return sortedKeys(seen)
}

// Fields returns the fields present for county, sorted.
func (s *Summary) Fields(county string) []string {
	seen := make(map[string]struct{})
	for k := range s.counts {
		if k.County == county {
			seen[k.Field] = struct{}{}
		}
	}
	return sortedKeys(seen)
}

// Nested converts the summary to its serialized shape.
func (s *Summary) Nested() Nested {
	out := make(Nested)
	for k, n := range s.counts {
		fields, ok := out[k.County]
		if !ok {
			fields = make(map[string]map[string]int)
			out[k.County] = fields
		}
		parties, ok := fields[k.Field]
		if !ok {
			parties = make(map[string]int)
			fields[k.Field] = parties
		}
		parties[k.Party] = n
	}
	return out
}

// MarshalJSON encodes the nested form. encoding/json sorts map keys, so
// the output is stable across runs.
func (s *Summary) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Nested())
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
