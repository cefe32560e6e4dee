package dataset

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/use-agent/ballotmap/merge"
	"github.com/use-agent/ballotmap/models"
)

// Vote columns appended after the canonical file's own columns.
var voteColumns = []string{"precinct", "vote_county", "rep_votes", "dem_votes", "total", "rep_p", "dem_p", "_merge"}

// Columns of the unmatched diagnostic file.
var unmatchedColumns = []string{"precinct", "county", "rep_votes", "dem_votes", "total", "_merge", "suggested_precinct", "similarity"}

// WriteMatched persists matched rows: the canonical columns in
// canonicalHeader order followed by the vote columns.
func WriteMatched(path string, rows []models.MergedRecord, canonicalHeader []string) error {
	header := append(append([]string{}, canonicalHeader...), voteColumns...)

	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		rec := make([]string, 0, len(header))
		for _, col := range canonicalHeader {
			if r.Canonical != nil {
				rec = append(rec, r.Canonical.Fields[col])
			} else {
				rec = append(rec, "")
			}
		}
		rec = append(rec, voteFields(r)...)
		rec = append(rec, string(r.Indicator))
		records = append(records, rec)
	}
	return writeCSV(path, header, records)
}

// WriteUnmatched persists unmatched rows with their closest canonical key.
func WriteUnmatched(path string, suggestions []merge.Suggestion) error {
	records := make([][]string, 0, len(suggestions))
	for _, s := range suggestions {
		r := s.Record
		rec := []string{r.Key, r.County()}
		rec = append(rec, voteFields(r)[2:5]...)
		rec = append(rec, string(r.Indicator), s.Candidate, strconv.FormatFloat(s.Similarity, 'f', 3, 64))
		records = append(records, rec)
	}
	return writeCSV(path, unmatchedColumns, records)
}

// voteFields renders precinct, county, rep, dem, total, rep_p, dem_p.
func voteFields(r models.MergedRecord) []string {
	v := r.Vote
	if v == nil {
		return []string{"", "", "", "", "", "", ""}
	}
	return []string{
		v.Precinct,
		v.County,
		strconv.Itoa(v.RepVotes),
		strconv.Itoa(v.DemVotes),
		strconv.FormatFloat(v.Total, 'f', -1, 64),
		strconv.FormatFloat(v.RepShare(), 'f', 6, 64),
		strconv.FormatFloat(v.DemShare(), 'f', 6, 64),
	}
}

func writeCSV(path string, header []string, records [][]string) error {
	return writeAtomic(path, func(f *os.File) error {
		w := csv.NewWriter(f)
		if err := w.Write(header); err != nil {
			return err
		}
		if err := w.WriteAll(records); err != nil {
			return err
		}
		return w.Error()
	})
}

// WriteJSON writes v as JSON indented with four spaces.
func WriteJSON(path string, v any) error {
	b, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return models.NewPipelineError(models.ErrCodeWrite, "failed to encode "+path, err)
	}
	return writeAtomic(path, func(f *os.File) error {
		_, err := f.Write(b)
		return err
	})
}

// ReadJSON decodes the JSON file at path into v.
func ReadJSON(path string, v any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// writeAtomic writes through a temp file in the target directory and renames
// it into place, so a failed run leaves the previous artifact intact.
func writeAtomic(path string, fill func(*os.File) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return models.NewPipelineError(models.ErrCodeWrite, "failed to create "+dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return models.NewPipelineError(models.ErrCodeWrite, "failed to create temp file for "+path, err)
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return models.NewPipelineError(models.ErrCodeWrite, "failed to chmod temp file for "+path, err)
	}

	if err := fill(tmp); err != nil {
		tmp.Close()
		return models.NewPipelineError(models.ErrCodeWrite, "failed to write "+path, err)
	}
	if err := tmp.Close(); err != nil {
		return models.NewPipelineError(models.ErrCodeWrite, "failed to flush "+path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return models.NewPipelineError(models.ErrCodeWrite, "failed to replace "+path, err)
	}
	return nil
}
