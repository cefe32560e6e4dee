// Package dataset reads the reference CSV files and writes the pipeline's
// artifacts.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/use-agent/ballotmap/models"
)

// Reference file columns.
const (
	ColKey       = "ajc_precinct"
	ColCounty    = "county"
	ColRace      = "race"
	ColAvgIncome = "avg_income"
)

// Table is a CSV file held as header plus rows keyed by column.
type Table struct {
	Header []string
	Rows   []map[string]string
}

// ReadTable loads a comma-separated file with a header line. A missing file
// is reported as ErrCodeReferenceMissing.
func ReadTable(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, models.NewPipelineError(models.ErrCodeReferenceMissing, "reference file not found: "+path, err)
		}
		return nil, fmt.Errorf("failed to open file %s: %w", path, err)
	}
	defer f.Close()

	return readTable(f, path)
}

func readTable(r io.Reader, name string) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, models.NewPipelineError(models.ErrCodeInvalidInput, name+" is empty", nil)
		}
		return nil, models.NewPipelineError(models.ErrCodeInvalidInput, "failed to read header from "+name, err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff"))
	}

	t := &Table{Header: header}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, models.NewPipelineError(models.ErrCodeInvalidInput, "failed to read record from "+name, err)
		}
		row := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(record) {
				row[col] = strings.TrimSpace(record[i])
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// Require fails with ErrCodeInvalidInput unless every column is present.
func (t *Table) Require(name string, columns ...string) error {
	have := make(map[string]struct{}, len(t.Header))
	for _, h := range t.Header {
		have[h] = struct{}{}
	}
	var missing []string
	for _, c := range columns {
		if _, ok := have[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return models.NewPipelineError(models.ErrCodeInvalidInput,
			fmt.Sprintf("%s is missing columns %s", name, strings.Join(missing, ", ")), nil)
	}
	return nil
}

// ReadCanonical loads the precinct-to-geography reference file.
func ReadCanonical(path string) ([]models.CanonicalPrecinct, []string, error) {
	t, err := ReadTable(path)
	if err != nil {
		return nil, nil, err
	}
	if err := t.Require(path, ColKey, ColCounty); err != nil {
		return nil, nil, err
	}

	out := make([]models.CanonicalPrecinct, 0, len(t.Rows))
	for _, row := range t.Rows {
		out = append(out, models.CanonicalPrecinct{
			Key:    row[ColKey],
			County: row[ColCounty],
			Fields: row,
		})
	}
	return out, t.Header, nil
}

// ReadDemographics loads the demographic statistics file. Rows whose
// avg_income is blank or not a number keep HasIncome false.
func ReadDemographics(path string) ([]models.DemographicRow, error) {
	t, err := ReadTable(path)
	if err != nil {
		return nil, err
	}
	if err := t.Require(path, ColKey, ColCounty, ColRace, ColAvgIncome); err != nil {
		return nil, err
	}

	out := make([]models.DemographicRow, 0, len(t.Rows))
	for _, row := range t.Rows {
		d := models.DemographicRow{
			Key:    row[ColKey],
			County: row[ColCounty],
			Race:   row[ColRace],
			Fields: row,
		}
		if v := strings.ReplaceAll(row[ColAvgIncome], ",", ""); v != "" {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				d.AvgIncome = f
				d.HasIncome = true
			}
		}
		out = append(out, d)
	}
	return out, nil
}
