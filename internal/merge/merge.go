// Package merge reconciles primary and escalated candidate rows into the
// canonical dataset: normalization, keyed conflict resolution, calendar
// validation, global deduplication, and the deterministic output sort.
package merge

import (
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/lexflow/chronicle/internal/model"
)

// EscalatedConfidence is the fixed confidence assigned to every row coming
// back from the secondary extractor.
const EscalatedConfidence = 0.75

// confidenceMargin is the minimum confidence gap that decides a merge
// conflict outright; smaller gaps fall back to description length.
const confidenceMargin = 0.05

// UnknownPage is the sentinel page number for locations without a
// parsable "p.<n>" marker.
const UnknownPage = -1

// descPrefixLen is how much of the description participates in the global
// dedupe key.
const descPrefixLen = 100

var (
	isoRe  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	pageRe = regexp.MustCompile(`p\.(\d+)`)
	wsRe   = regexp.MustCompile(`\s+`)
)

type mergeKey struct {
	source string
	date   string
	event  string
	page   int
}

// Document reconciles one document's rule-derived and escalated rows.
// Every row is normalized before keying; conflicting rows resolve by
// confidence (gap >= 0.05) then by longer description, with the incumbent
// keeping the slot on equal length. Rows whose date fails calendar
// validation are dropped at the end.
func Document(ruleRows, llmRows []model.CandidateRow) []model.MergedRow {
	merged := make(map[mergeKey]model.MergedRow)
	var order []mergeKey

	fold := func(rows []model.CandidateRow, escalated bool) {
		for _, r := range rows {
			row := normalize(r)
			if escalated {
				row.Confidence = EscalatedConfidence
			}
			k := mergeKey{row.Source, row.Date, row.Event, PageNumber(row.Location)}
			cur, ok := merged[k]
			if !ok {
				merged[k] = row
				order = append(order, k)
				continue
			}
			merged[k] = better(cur, row)
		}
	}
	fold(ruleRows, false)
	fold(llmRows, true)

	out := make([]model.MergedRow, 0, len(order))
	for _, k := range order {
		if row := merged[k]; ValidDate(row.Date) {
			out = append(out, row)
		}
	}
	return out
}

// Dedupe drops repeated rows across the whole batch, keyed by (source,
// date, normalized event, page number, first 100 chars of description).
// First occurrence wins; the operation is idempotent.
func Dedupe(rows []model.MergedRow) []model.MergedRow {
	type dedupeKey struct {
		source, date, event string
		page                int
		prefix              string
	}

	seen := make(map[dedupeKey]bool, len(rows))
	out := make([]model.MergedRow, 0, len(rows))
	for _, r := range rows {
		prefix := model.Truncate(r.Description, descPrefixLen)
		k := dedupeKey{
			source: r.Source,
			date:   r.Date,
			event:  string(model.ClampEvent(r.Event)),
			page:   PageNumber(r.Location),
			prefix: prefix,
		}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, r)
	}
	return out
}

// Sort orders rows by (source, page number, date, event) ascending, which
// makes the final output independent of processing and completion order.
func Sort(rows []model.MergedRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Source != b.Source {
			return a.Source < b.Source
		}
		if pa, pb := PageNumber(a.Location), PageNumber(b.Location); pa != pb {
			return pa < pb
		}
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		return a.Event < b.Event
	})
}

// PageNumber extracts the page number from a "p.<n> / <section>" location,
// returning UnknownPage when none parses.
func PageNumber(location string) int {
	m := pageRe.FindStringSubmatch(location)
	if m == nil {
		return UnknownPage
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return UnknownPage
	}
	return n
}

// ValidDate reports whether d is a syntactically and calendar-valid
// YYYY-MM-DD date.
func ValidDate(d string) bool {
	if !isoRe.MatchString(d) {
		return false
	}
	_, err := time.Parse("2006-01-02", d)
	return err == nil
}

// CleanText trims and collapses whitespace, capping at limit bytes on a
// rune boundary when limit > 0.
func CleanText(s string, limit int) string {
	return model.Truncate(wsRe.ReplaceAllString(strings.TrimSpace(s), " "), limit)
}

func normalize(r model.CandidateRow) model.MergedRow {
	return model.MergedRow{
		Date:        CleanText(r.Date, 0),
		Event:       string(model.ClampEvent(string(r.Event))),
		Description: CleanText(r.Description, model.MaxDescriptionLen),
		Location:    CleanText(r.Location, 0),
		Source:      CleanText(r.Source, 0),
		Confidence:  r.Confidence,
	}
}

// better keeps the row with clearly higher confidence; near-ties go to the
// longer description, the incumbent winning equal lengths.
func better(a, b model.MergedRow) model.MergedRow {
	if math.Abs(a.Confidence-b.Confidence) >= confidenceMargin {
		if a.Confidence > b.Confidence {
			return a
		}
		return b
	}
	if len(a.Description) >= len(b.Description) {
		return a
	}
	return b
}
