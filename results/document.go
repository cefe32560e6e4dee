package results

import (
	"bytes"
	"fmt"
	"strconv"
)

// Document is the shape shared by sum.json and details.json.
// In sum.json CH carries the candidate roster; in details.json P lists the
// precincts and V holds one vote vector per precinct, aligned with CH.
type Document struct {
	Contests []Contest `json:"Contests"`
}

// Contest is one race inside a Document.
type Contest struct {
	CH []string  `json:"CH"`
	P  []string  `json:"P"`
	V  [][]Count `json:"V"`
}

// Count is a vote count. The results site emits counts either as JSON
// numbers or as numeric strings depending on the export.
type Count float64

// UnmarshalJSON accepts numbers, numeric strings, empty strings and null.
func (c *Count) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		unquoted, err := strconv.Unquote(string(b))
		if err != nil {
			return fmt.Errorf("vote count %s: %w", b, err)
		}
		b = bytes.TrimSpace([]byte(unquoted))
	}
	if len(b) == 0 || string(b) == "null" {
		*c = 0
		return nil
	}
	f, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return fmt.Errorf("vote count %q: %w", b, err)
	}
	if f < 0 {
		return fmt.Errorf("vote count %q: negative", b)
	}
	*c = Count(f)
	return nil
}

// ContestIndex returns the index of the first contest whose roster
// contains candidate, or -1.
func (d *Document) ContestIndex(candidate string) int {
	for i, c := range d.Contests {
		for _, name := range c.CH {
			if name == candidate {
				return i
			}
		}
	}
	return -1
}
