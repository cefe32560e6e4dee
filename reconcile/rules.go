package reconcile

import "regexp"

// Rule is one textual rewrite applied to a scraped precinct name.
type Rule struct {
	Pattern     *regexp.Regexp
	Replacement string
}

// DefaultRules collapses the scraped name variants known to differ from the
// reference map. Order matters: the numeric prefix goes first so the
// remaining patterns see the bare name.
var DefaultRules = []Rule{
	{regexp.MustCompile(`^(?:\d{3} )+`), ""},
	{regexp.MustCompile(`\bEP04-(?:05|13)\b`), "EP04"},
	{regexp.MustCompile(`\b10H[12]\b`), "10H"},
	{regexp.MustCompile(`\bCATES D - (?:04|07)\b`), "CATES D"},
	{regexp.MustCompile(`\bAVONDALE HIGH - (?:05|04)\b`), "AVONDALE HIGH"},
	{regexp.MustCompile(`\bCHAMBLEE 2\b`), "CHAMBLEE"},
	{regexp.MustCompile(`\bWADSWORTH ELEM - 04\b`), "WADSWORTH ELEM"},
}

// MaxNameLength is the width of the reference file's key column.
const MaxNameLength = 20
