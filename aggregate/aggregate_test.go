package aggregate

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/use-agent/ballotmap/models"
)

func matchedRow(key, county string, rep, dem int) models.MergedRecord {
	return models.MergedRecord{
		Key:       key,
		Vote:      models.NewVoteRecord(key, county, rep, dem, float64(rep+dem)),
		Canonical: &models.CanonicalPrecinct{Key: key, County: county},
		Indicator: models.Both,
	}
}

func demo(key, county, race string, income float64) models.DemographicRow {
	return models.DemographicRow{Key: key, County: county, Race: race, AvgIncome: income, HasIncome: true}
}

func TestIncomeBin(t *testing.T) {
	tests := []struct {
		income float64
		want   string
	}{
		{0, IncomeLow},
		{49999.99, IncomeLow},
		{50000, IncomeMid},
		{99999, IncomeMid},
		{100000, IncomeHigh},
		{250000, IncomeHigh},
	}
	for _, tt := range tests {
		if got := IncomeBin(tt.income); got != tt.want {
			t.Errorf("IncomeBin(%v) = %q, want %q", tt.income, got, tt.want)
		}
	}
}

func TestAggregate_Scenario(t *testing.T) {
	matched := []models.MergedRecord{
		matchedRow("MAIN ST", "A", 10, 5),
		matchedRow("EP04", "A", 3, 7),
		matchedRow("CHAMBLEE", "B", 8, 8),
	}
	demographics := []models.DemographicRow{
		demo("MAIN ST", "a", "white", 120000),
		demo("EP04", "A", "black", 42000),
		demo("CHAMBLEE", "B", "hispanic", 65000),
	}

	s := Aggregate(matched, demographics, DefaultOptions)

	want := Nested{
		"A": {
			"all":   {"rep_votes": 26, "dem_votes": 24},
			"white": {"rep_votes": 10, "dem_votes": 5},
			"black": {"rep_votes": 3, "dem_votes": 7},
			"high":  {"rep_votes": 10, "dem_votes": 5},
			"low":   {"rep_votes": 3, "dem_votes": 7},
		},
		"B": {
			"all":      {"rep_votes": 16, "dem_votes": 16},
			"hispanic": {"rep_votes": 8, "dem_votes": 8},
			"mid":      {"rep_votes": 8, "dem_votes": 8},
		},
		AllCounties: {
			"all":      {"rep_votes": 21, "dem_votes": 20},
			"white":    {"rep_votes": 10, "dem_votes": 5},
			"black":    {"rep_votes": 3, "dem_votes": 7},
			"hispanic": {"rep_votes": 8, "dem_votes": 8},
			"high":     {"rep_votes": 10, "dem_votes": 5},
			"mid":      {"rep_votes": 8, "dem_votes": 8},
			"low":      {"rep_votes": 3, "dem_votes": 7},
		},
	}
	if diff := cmp.Diff(want, s.Nested()); diff != "" {
		t.Errorf("summary mismatch (-want +got):\n%s", diff)
	}
}

func TestAggregate_Properties(t *testing.T) {
	matched := []models.MergedRecord{
		matchedRow("P1", "A", 10, 5),
		matchedRow("P2", "A", 3, 7),
		matchedRow("P3", "A", 1, 1),
		matchedRow("P4", "B", 8, 8),
		matchedRow("P5", "B", 2, 9),
		matchedRow("NO DEMO", "B", 100, 100),
	}
	demographics := []models.DemographicRow{
		demo("P1", "A", "white", 20000),
		demo("P2", "A", "white", 60000),
		demo("P3", "A", "asian", 60000),
		demo("P4", "B", "black", 150000),
		demo("P5", "B", "hispanic", 10000),
	}

	s := Aggregate(matched, demographics, DefaultOptions)

	for _, county := range s.Counties() {
		if county == AllCounties {
			continue
		}
		for _, party := range Parties {
			sum := 0
			for _, field := range s.Fields(county) {
				if field != FieldAll {
					sum += s.Get(county, field, party)
				}
			}
			if got := s.Get(county, FieldAll, party); got != sum {
				t.Errorf("%s/%s: all = %d, sum of fields = %d", county, party, got, sum)
			}
		}
	}

	// Joined rows only: NO DEMO has no demographics.
	if got := s.Get(AllCounties, FieldAll, PartyRep); got != 24 {
		t.Errorf("ALL COUNTIES rep = %d, want 24", got)
	}
	if got := s.Get(AllCounties, FieldAll, PartyDem); got != 30 {
		t.Errorf("ALL COUNTIES dem = %d, want 30", got)
	}

	// asian is not a listed race field; its votes show in income tiers only.
	if s.Has("A", "asian", PartyRep) {
		t.Error("unlisted race should not be emitted")
	}
	if got := s.Get("A", IncomeMid, PartyRep); got != 4 {
		t.Errorf("A mid rep = %d, want 4", got)
	}

	// Absent groups are skipped, not zero-filled.
	if s.Has("A", "black", PartyRep) {
		t.Error("A has no black precincts; bucket should be absent")
	}
	if s.Get("A", "black", PartyRep) != 0 {
		t.Error("absent bucket should read as zero")
	}

	// AllCounties fields accumulate every county.
	if got := s.Get(AllCounties, IncomeLow, PartyDem); got != 5+9 {
		t.Errorf("ALL COUNTIES low dem = %d, want 14", got)
	}
}

func TestAggregate_CountyMissingFromOneView(t *testing.T) {
	matched := []models.MergedRecord{
		matchedRow("P1", "A", 1, 2),
		matchedRow("P2", "B", 3, 4),
	}
	demographics := []models.DemographicRow{
		demo("P1", "A", "white", 20000),
		{Key: "P2", County: "B", Race: "black"}, // no income figure
	}

	s := Aggregate(matched, demographics, DefaultOptions)

	if s.Has("B", FieldAll, PartyRep) {
		t.Error("county without an income grouping should be dropped")
	}
	if got := s.Get(AllCounties, FieldAll, PartyRep); got != 4 {
		t.Errorf("ALL COUNTIES rep = %d, want 4 (totals include every joined row)", got)
	}
	if got := s.Get(AllCounties, "black", PartyRep); got != 0 || s.Has(AllCounties, "black", PartyRep) {
		t.Error("fields of dropped counties should not roll up")
	}
}

func TestAggregate_Empty(t *testing.T) {
	s := Aggregate(nil, nil, DefaultOptions)

	want := Nested{AllCounties: {"all": {"rep_votes": 0, "dem_votes": 0}}}
	if diff := cmp.Diff(want, s.Nested()); diff != "" {
		t.Errorf("empty summary mismatch (-want +got):\n%s", diff)
	}
}

func TestSummary_MarshalJSON(t *testing.T) {
	s := Aggregate([]models.MergedRecord{matchedRow("P1", "A", 1, 2)},
		[]models.DemographicRow{demo("P1", "A", "white", 20000)}, DefaultOptions)

	b, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var got Nested
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got["A"]["white"]["dem_votes"] != 2 {
		t.Errorf("unexpected encoding: %s", b)
	}
}
