// Package chunker labels page lines with their enclosing section. Section
// detection is a pure predicate over the precompiled heading patterns; the
// section list is built by a single forward scan and never mutated after.
package chunker

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// maxHeadingLen rejects long sentences as headings.
	maxHeadingLen = 80
	// minUppercaseRatio prefers ALL-CAPS-like headings.
	minUppercaseRatio = 0.6

	defaultLabel = "BODY"
)

// Section is a contiguous run of lines starting at Start, labeled by the
// heading text that opened it.
type Section struct {
	Label string
	Start int
}

// IsHeading reports whether line qualifies as a section heading: trimmed
// length at most 80 runes, uppercase ratio at least 0.6, and at least one
// heading pattern matching.
func IsHeading(line string, patterns []*regexp.Regexp) bool {
	line = strings.TrimSpace(line)
	if utf8.RuneCountInString(line) > maxHeadingLen {
		return false
	}
	if uppercaseRatio(line) < minUppercaseRatio {
		return false
	}
	for _, p := range patterns {
		if p.MatchString(line) {
			return true
		}
	}
	return false
}

// BuildSections scans lines top to bottom; each heading opens a new section
// labeled by its trimmed text at that index. A page with no headings is a
// single BODY section starting at index 0.
func BuildSections(lines []string, patterns []*regexp.Regexp) []Section {
	var sections []Section
	for i, ln := range lines {
		if IsHeading(ln, patterns) {
			sections = append(sections, Section{Label: strings.TrimSpace(ln), Start: i})
		}
	}
	if len(sections) == 0 {
		sections = []Section{{Label: defaultLabel, Start: 0}}
	}
	return sections
}

// SectionFor returns the label of the section with the greatest start index
// not exceeding idx.
func SectionFor(sections []Section, idx int) string {
	label := defaultLabel
	for _, s := range sections {
		if s.Start <= idx {
			label = s.Label
		} else {
			break
		}
	}
	return label
}

func uppercaseRatio(s string) float64 {
	var letters, upper int
	for _, r := range s {
		if unicode.IsLetter(r) {
			letters++
			if unicode.IsUpper(r) {
				upper++
			}
		}
	}
	if letters == 0 {
		return 0
	}
	return float64(upper) / float64(letters)
}
