// Package matcher detects dates and events in text units and scores each
// finding with a confidence heuristic. It produces the primary candidate
// rows that the escalation gate and merger operate on.
package matcher

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/lexflow/chronicle/internal/chunker"
	"github.com/lexflow/chronicle/internal/dates"
	"github.com/lexflow/chronicle/internal/model"
	"github.com/lexflow/chronicle/internal/rules"
)

// ParsePage evaluates every unit on a page and returns candidate rows for
// units carrying at least one date or a detected event. Source is left
// empty for the caller to fill.
func ParsePage(page model.PageRecord, rs *rules.Ruleset, parser *dates.Parser) []model.CandidateRow {
	sections := chunker.BuildSections(page.Lines, rs.SectionPatterns)

	var out []model.CandidateRow
	for i, line := range page.Lines {
		for _, unit := range SplitUnits(line, rs) {
			found := parser.Extract(unit, rs.DatePatterns)
			event, hasEvent := DetectEvent(unit, rs)
			if len(found) == 0 && !hasEvent {
				continue
			}

			section := chunker.SectionFor(sections, i)
			conf := Confidence(hasEvent, found, isProceedings(section))

			ev := event
			if !hasEvent {
				ev = model.EventGeneric
			}
			date := ""
			if len(found) > 0 {
				date = found[0]
			}

			out = append(out, model.CandidateRow{
				Date:        date,
				Event:       ev,
				Description: unit,
				Location:    fmt.Sprintf("p.%d / %s", page.Number, section),
				Confidence:  conf,
				HasDate:     len(found) > 0,
				HasEvent:    hasEvent,
			})
		}
	}
	return out
}

// SplitUnits breaks a line into units: the line itself when line breaks are
// unit boundaries, otherwise the non-empty trimmed fragments between the
// configured delimiter characters.
func SplitUnits(line string, rs *rules.Ruleset) []string {
	if rs.LineIsBoundary {
		if t := strings.TrimSpace(line); t != "" {
			return []string{t}
		}
		return nil
	}

	parts := strings.FieldsFunc(line, func(r rune) bool {
		return strings.ContainsRune(rs.Delimiters, r)
	})
	var out []string
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// DetectEvent classifies a unit against the event rules in declaration
// order, returning the first label whose any pattern matches. Statutory
// citations with no procedural language are treated as non-events so that
// "Section 5 of the Act, with effect from ..." is not mislabeled as a
// court step.
func DetectEvent(unit string, rs *rules.Ruleset) (model.Event, bool) {
	low := strings.ToLower(unit)
	if matchesAny(low, rs.StatutoryCues) && !matchesAny(low, rs.ProceduralCues) {
		return "", false
	}
	for _, er := range rs.Events {
		for _, p := range er.Patterns {
			if p.MatchString(low) {
				return er.Label, true
			}
		}
	}
	return "", false
}

// Confidence scores a unit in [0,1]: +0.5 for a detected event, +0.2 for
// at least one date, +0.2 for a proceedings/hearing section, -0.1 when
// more than one distinct date was found (ambiguity penalty).
func Confidence(hasEvent bool, found []string, inProceedings bool) float64 {
	score := 0.0
	if hasEvent {
		score += 0.5
	}
	if len(found) > 0 {
		score += 0.2
	}
	if inProceedings {
		score += 0.2
	}
	if len(found) > 1 {
		score -= 0.1
	}
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

func isProceedings(section string) bool {
	low := strings.ToLower(section)
	return strings.Contains(low, "proceeding") || strings.Contains(low, "hearing")
}

func matchesAny(s string, patterns []*regexp.Regexp) bool {
	for _, p := range patterns {
		if p.MatchString(s) {
			return true
		}
	}
	return false
}
