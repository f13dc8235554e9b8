package search

import (
	"strings"

	"ge-lookup/internal/catalog"
)

const (
	defaultMaxResults = 10
	defaultScanCap    = 50
)

// Options tune the matcher limits.
type Options struct {
	// MaxResults bounds the returned slice after tier concatenation.
	MaxResults int
	// ScanCap stops the catalog scan once the cumulative raw match count
	// across all tiers exceeds it.
	ScanCap int
}

// Engine ranks catalog entries against a free-text query using three match
// tiers: exact name, name prefix, and name substring. Entries within a tier
// keep catalog order, so with an alphabetically sorted snapshot ties break
// alphabetically.
type Engine struct {
	maxResults int
	scanCap    int
}

// New constructs an Engine, applying defaults for non-positive options.
func New(opts Options) *Engine {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}
	scanCap := opts.ScanCap
	if scanCap <= 0 {
		scanCap = defaultScanCap
	}
	return &Engine{maxResults: maxResults, scanCap: scanCap}
}

// Search classifies every entry into at most one tier and returns exact
// matches, then prefix matches, then substring matches, truncated to
// MaxResults. Matching is case-insensitive on the display name.
//
// The scan stops once the cumulative match count exceeds ScanCap, so tier
// ordering holds only among the first matches encountered in catalog order.
// That is a deliberate bound on worst-case work for very common substrings,
// not a correctness defect: the result list is capped far below ScanCap.
//
// A query that is empty or whitespace-only yields no results.
func (e *Engine) Search(query string, entries []catalog.Entry) []catalog.Entry {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}

	var exact, prefix, substr []catalog.Entry
	for _, entry := range entries {
		name := strings.ToLower(entry.Name)
		switch {
		case name == q:
			exact = append(exact, entry)
		case strings.HasPrefix(name, q):
			prefix = append(prefix, entry)
		case strings.Contains(name, q):
			substr = append(substr, entry)
		default:
			continue
		}

		if len(exact)+len(prefix)+len(substr) > e.scanCap {
			break
		}
	}

	out := make([]catalog.Entry, 0, len(exact)+len(prefix)+len(substr))
	out = append(out, exact...)
	out = append(out, prefix...)
	out = append(out, substr...)

	if len(out) > e.maxResults {
		out = out[:e.maxResults]
	}
	return out
}
