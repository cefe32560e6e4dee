// Package reconcile rewrites scraped precinct names into the naming used by
// the canonical precinct reference file.
package reconcile

import (
	"strings"

	"github.com/use-agent/ballotmap/models"
)

// Reconciler applies an ordered rule table followed by uppercasing,
// trimming and truncation. It has no failure mode: names no rule matches
// pass through with only the normalisation applied.
type Reconciler struct {
	rules  []Rule
	maxLen int
}

// Default uses DefaultRules and MaxNameLength.
var Default = New(DefaultRules, MaxNameLength)

// New creates a Reconciler. maxLen <= 0 disables truncation.
func New(rules []Rule, maxLen int) *Reconciler {
	return &Reconciler{rules: rules, maxLen: maxLen}
}

// Canonicalize returns the canonical form of raw using the default rules.
func Canonicalize(raw string) string {
	return Default.Canonicalize(raw)
}

// Canonicalize returns the canonical form of raw. The pass is repeated until
// the name stops changing, so Canonicalize(Canonicalize(x)) == Canonicalize(x)
// for any rule table whose replacements are shorter than their matches.
func (r *Reconciler) Canonicalize(raw string) string {
	name := raw
	// Shrinking rules remove at least one rune per changing pass.
	for passes := len([]rune(raw)) + 2; passes > 0; passes-- {
		next := r.pass(name)
		if next == name {
			break
		}
		name = next
	}
	return name
}

func (r *Reconciler) pass(name string) string {
	name = strings.ToUpper(strings.TrimSpace(name))
	for _, rule := range r.rules {
		name = rule.Pattern.ReplaceAllString(name, rule.Replacement)
	}
	name = strings.TrimSpace(name)
	if r.maxLen > 0 {
		if runes := []rune(name); len(runes) > r.maxLen {
			name = strings.TrimSpace(string(runes[:r.maxLen]))
		}
	}
	return name
}

// ApplyAll rewrites each record's Precinct in place.
func (r *Reconciler) ApplyAll(votes []*models.VoteRecord) {
	for _, v := range votes {
		v.Precinct = r.Canonicalize(v.Precinct)
	}
}
