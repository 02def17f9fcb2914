package model

import "unicode/utf8"

// MaxDescriptionLen caps DESCRIPTION on every row that leaves the pipeline.
const MaxDescriptionLen = 400

// Truncate caps s at max bytes, backing up so a multi-byte rune is never
// split.
func Truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max]
}

// CandidateRow is a provisional row produced for a single unit by the rule
// matcher or the secondary extractor. Confidence and the Has* flags drive
// escalation and merge tie-breaks; they are never emitted.
type CandidateRow struct {
	Date        string // ISO-8601 date, or empty when only an event matched
	Event       Event
	Description string
	Location    string // "p.<page> / <section>"
	Source      string // originating document, filled by the caller
	Confidence  float64
	HasDate     bool
	HasEvent    bool
}

// MergedRow is the canonical output record. Confidence is internal merge
// state and is stripped from every serialized form.
type MergedRow struct {
	Date        string  `json:"DATE" csv:"DATE"`
	Event       string  `json:"EVENT" csv:"EVENT"`
	Description string  `json:"DESCRIPTION" csv:"DESCRIPTION"`
	Location    string  `json:"PAGE/SECTION" csv:"PAGE/SECTION"`
	Source      string  `json:"SOURCE" csv:"SOURCE"`
	Confidence  float64 `json:"-" csv:"-"`
}
