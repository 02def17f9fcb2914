// Package gate decides which rule-derived rows are escalated to the
// secondary extractor.
package gate

import (
	"github.com/lexflow/chronicle/internal/model"
	"github.com/lexflow/chronicle/internal/rules"
)

// ShouldEscalate reports whether a candidate row needs secondary
// extraction. Rows matching an analysis cue are never escalated; analytic
// commentary is argumentative prose, not a dated event. Otherwise a row
// escalates when its confidence is below threshold, or when exactly one
// of date/event was found.
func ShouldEscalate(row model.CandidateRow, rs *rules.Ruleset, threshold float64) bool {
	for _, p := range rs.AnalysisCues {
		if p.MatchString(row.Description) {
			return false
		}
	}
	if row.Confidence < threshold {
		return true
	}
	return row.HasDate != row.HasEvent
}
