package models

// CountyEndpoint is a county's detail directory on the results site.
// JSON documents for the county are served relative to BaseURL.
type CountyEndpoint struct {
	County  string `json:"county"`
	BaseURL string `json:"base_url"`
}

// SummaryURL is the candidate roster document.
func (e CountyEndpoint) SummaryURL() string {
	return e.BaseURL + "/json/sum.json"
}

// DetailsURL is the per-precinct vote tally document.
func (e CountyEndpoint) DetailsURL() string {
	return e.BaseURL + "/json/details.json"
}
