// Package dates normalizes free-form date strings found in case documents
// into ISO-8601 calendar dates.
package dates

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/rotisserie/eris"
)

// Settings configures date parsing, loaded from the rules file. Only
// English month/weekday tables are available; any other language is
// rejected at startup.
type Settings struct {
	Languages []string
	DateOrder string // "DMY", "MDY", or "YMD"
}

// Validate rejects unsupported languages and unknown date orders.
func (s Settings) Validate() error {
	for _, lang := range s.Languages {
		if strings.ToLower(strings.TrimSpace(lang)) != "en" {
			return eris.Errorf("dates: unsupported language %q", lang)
		}
	}
	switch strings.ToUpper(s.DateOrder) {
	case "", "DMY", "MDY", "YMD":
		return nil
	default:
		return eris.Errorf("dates: unknown date order %q", s.DateOrder)
	}
}

// ordinalRe strips English ordinal suffixes ("12th March" -> "12 March").
var ordinalRe = regexp.MustCompile(`(?i)\b(\d{1,2})(st|nd|rd|th)\b`)

// numericRe matches purely numeric dates ("12.03.2020", "2020-03-12",
// "25/12/18"). These are resolved explicitly; dateparse applies its own
// day/month preference to dotted dates and misreads dd.mm.yyyy input.
var numericRe = regexp.MustCompile(`^(\d{1,4})[./-](\d{1,2})[./-](\d{1,4})$`)

// Parser parses date strings according to the configured day/month order.
type Parser struct {
	monthFirst bool
	opts       []dateparse.ParserOption
}

// NewParser builds a Parser from validated settings.
func NewParser(s Settings) (*Parser, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	monthFirst := strings.ToUpper(s.DateOrder) == "MDY"
	return &Parser{
		monthFirst: monthFirst,
		opts: []dateparse.ParserOption{
			dateparse.PreferMonthFirst(monthFirst),
			dateparse.RetryAmbiguousDateWithSwap(true),
		},
	}, nil
}

// ISO parses s into a calendar date and returns it as YYYY-MM-DD. ok is
// false when s is not a parseable date. Purely numeric dates resolve by
// the configured day/month order; everything else delegates to dateparse.
func (p *Parser) ISO(s string) (string, bool) {
	s = ordinalRe.ReplaceAllString(strings.TrimSpace(s), "$1")
	if s == "" {
		return "", false
	}
	if d, ok := p.numericISO(s); ok {
		return d, true
	}
	t, err := dateparse.ParseAny(s, p.opts...)
	if err != nil {
		return "", false
	}
	return t.Format("2006-01-02"), true
}

// numericISO resolves a purely numeric date. A 4-digit leading field is
// year-first; otherwise the first two fields are day and month in the
// configured order, swapped when the month slot exceeds 12 and the day
// slot can hold a month. Dates that do not land on a real calendar day
// are rejected rather than normalized to a neighboring one.
func (p *Parser) numericISO(s string) (string, bool) {
	m := numericRe.FindStringSubmatch(s)
	if m == nil {
		return "", false
	}
	a, _ := strconv.Atoi(m[1])
	b, _ := strconv.Atoi(m[2])
	c, _ := strconv.Atoi(m[3])

	var year, month, day int
	if len(m[1]) == 4 {
		year, month, day = a, b, c
	} else {
		year = c
		if len(m[3]) <= 2 {
			// Same two-digit-year pivot the time package uses.
			if year >= 69 {
				year += 1900
			} else {
				year += 2000
			}
		}
		day, month = a, b
		if p.monthFirst {
			day, month = b, a
		}
		if month > 12 && day <= 12 {
			day, month = month, day
		}
	}

	if month < 1 || month > 12 || day < 1 || day > 31 {
		return "", false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || t.Month() != time.Month(month) || t.Day() != day {
		return "", false
	}
	return t.Format("2006-01-02"), true
}

// Extract scans text with the given patterns, parses every match, and
// returns the distinct dates as sorted ascending ISO-8601 strings.
func (p *Parser) Extract(text string, patterns []*regexp.Regexp) []string {
	seen := make(map[string]bool)
	for _, pat := range patterns {
		for _, m := range pat.FindAllString(text, -1) {
			if iso, ok := p.ISO(m); ok {
				seen[iso] = true
			}
		}
	}
	if len(seen) == 0 {
		return nil
	}
	out := make([]string, 0, len(seen))
	for d := range seen {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}
