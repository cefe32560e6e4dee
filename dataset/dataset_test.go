package dataset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/use-agent/ballotmap/merge"
	"github.com/use-agent/ballotmap/models"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func TestReadCanonical(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "canon.csv", "\ufeffajc_precinct,county,district\nMAIN ST , A,1\nEP04,A\n")

	got, header, err := ReadCanonical(path)
	if err != nil {
		t.Fatalf("ReadCanonical: %v", err)
	}
	if diff := cmp.Diff([]string{"ajc_precinct", "county", "district"}, header); diff != "" {
		t.Errorf("header mismatch (-want +got):\n%s", diff)
	}
	if len(got) != 2 {
		t.Fatalf("got %d rows, want 2", len(got))
	}
	if got[0].Key != "MAIN ST" || got[0].County != "A" || got[0].Fields["district"] != "1" {
		t.Errorf("row 0 = %+v", got[0])
	}
	if _, ok := got[1].Fields["district"]; ok {
		t.Error("short record should not carry missing columns")
	}
}

func TestReadCanonical_Errors(t *testing.T) {
	dir := t.TempDir()

	_, _, err := ReadCanonical(filepath.Join(dir, "missing.csv"))
	if !models.HasCode(err, models.ErrCodeReferenceMissing) {
		t.Errorf("missing file: err = %v, want %s", err, models.ErrCodeReferenceMissing)
	}

	path := writeFile(t, dir, "nocounty.csv", "ajc_precinct\nX\n")
	_, _, err = ReadCanonical(path)
	if !models.HasCode(err, models.ErrCodeInvalidInput) || !strings.Contains(err.Error(), "county") {
		t.Errorf("missing column: err = %v", err)
	}

	empty := writeFile(t, dir, "empty.csv", "")
	_, _, err = ReadCanonical(empty)
	if !models.HasCode(err, models.ErrCodeInvalidInput) {
		t.Errorf("empty file: err = %v", err)
	}
}

func TestReadDemographics(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "demo.csv", "ajc_precinct,county,race,avg_income\nA,X,black,\"42,000\"\nB,X,white,\nC,X,hispanic,n/a\n")

	got, err := ReadDemographics(path)
	if err != nil {
		t.Fatalf("ReadDemographics: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d rows, want 3", len(got))
	}
	if !got[0].HasIncome || got[0].AvgIncome != 42000 {
		t.Errorf("row 0 income = %v/%v, want 42000/true", got[0].AvgIncome, got[0].HasIncome)
	}
	if got[1].HasIncome || got[2].HasIncome {
		t.Error("blank or non-numeric income should leave HasIncome false")
	}
}

func TestWriteMatchedAndUnmatched(t *testing.T) {
	dir := t.TempDir()
	matchedPath := filepath.Join(dir, "out", "vote_data.csv")
	unmatchedPath := filepath.Join(dir, "out", "unmatched.csv")

	canonical := &models.CanonicalPrecinct{Key: "MAIN ST", County: "A", Fields: map[string]string{"ajc_precinct": "MAIN ST", "county": "A"}}
	rows := []models.MergedRecord{{
		Key:       "MAIN ST",
		Vote:      models.NewVoteRecord("MAIN ST", "A", 10, 5, 16),
		Canonical: canonical,
		Indicator: models.Both,
	}}
	if err := WriteMatched(matchedPath, rows, []string{"ajc_precinct", "county"}); err != nil {
		t.Fatalf("WriteMatched: %v", err)
	}

	table, err := ReadTable(matchedPath)
	if err != nil {
		t.Fatalf("ReadTable: %v", err)
	}
	want := map[string]string{
		"ajc_precinct": "MAIN ST",
		"county":       "A",
		"precinct":     "MAIN ST",
		"vote_county":  "A",
		"rep_votes":    "10",
		"dem_votes":    "5",
		"total":        "16",
		"rep_p":        "0.625000",
		"dem_p":        "0.312500",
		"_merge":       "both",
	}
	if diff := cmp.Diff([]map[string]string{want}, table.Rows); diff != "" {
		t.Errorf("matched CSV mismatch (-want +got):\n%s", diff)
	}

	suggestions := []merge.Suggestion{{
		Record:     models.MergedRecord{Key: "EP04", Vote: models.NewVoteRecord("EP04", "A", 3, 7, 10), Indicator: models.LeftOnly},
		Candidate:  "EP05",
		Similarity: 0.9,
	}}
	if err := WriteUnmatched(unmatchedPath, suggestions); err != nil {
		t.Fatalf("WriteUnmatched: %v", err)
	}
	table, err = ReadTable(unmatchedPath)
	if err != nil {
		t.Fatalf("ReadTable: %v", err)
	}
	if got := table.Rows[0]; got["suggested_precinct"] != "EP05" || got["_merge"] != "left_only" || got["similarity"] != "0.900" || got["total"] != "10" {
		t.Errorf("unmatched row = %v", got)
	}
}

func TestWriteJSON_Indented(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "assets", "data", "stats")

	v := map[string]map[string]int{"A": {"rep_votes": 1}}
	if err := WriteJSON(path, v); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := "{\n    \"A\": {\n        \"rep_votes\": 1\n    }\n}"
	if string(b) != want {
		t.Errorf("got %q, want %q", b, want)
	}

	var back map[string]map[string]int
	if err := ReadJSON(path, &back); err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if back["A"]["rep_votes"] != 1 {
		t.Errorf("round trip lost data: %v", back)
	}

	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Errorf("temp files left behind: %d entries", len(entries))
	}
}
