// Package model defines the data types shared across the extraction
// pipeline: loaded pages, candidate rows, merged rows, and the closed
// event vocabulary.
package model

import "strings"

// PageRecord is one page of a loaded document. Immutable once produced by
// a loader.
type PageRecord struct {
	Number  int      // 1-based page number
	Text    string   // full page text
	Lines   []string // ordered, non-empty, trimmed lines
	Scanned bool     // page had no native text layer (OCR candidate)
}

// NewPageRecord builds a PageRecord from raw page text, deriving the
// trimmed non-empty line list.
func NewPageRecord(number int, text string, scanned bool) PageRecord {
	var lines []string
	for _, ln := range strings.Split(text, "\n") {
		if t := strings.TrimSpace(ln); t != "" {
			lines = append(lines, t)
		}
	}
	return PageRecord{Number: number, Text: text, Lines: lines, Scanned: scanned}
}
