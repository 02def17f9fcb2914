package chunker

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

var headingPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bPROCEEDINGS?\b`),
	regexp.MustCompile(`(?i)\bEVIDENCE\b`),
}

func TestIsHeading(t *testing.T) {
	t.Parallel()

	t.Run("short uppercase heading matches", func(t *testing.T) {
		t.Parallel()
		assert.True(t, IsHeading("PROCEEDINGS", headingPatterns))
		assert.True(t, IsHeading("  EVIDENCE OF PW-1  ", headingPatterns))
	})

	t.Run("length 80 allowed, 81 rejected", func(t *testing.T) {
		t.Parallel()
		pad := "PROCEEDINGS " + strings.Repeat("X", 68)
		assert.Len(t, pad, 80)
		assert.True(t, IsHeading(pad, headingPatterns))
		assert.False(t, IsHeading(pad+"X", headingPatterns))
	})

	t.Run("mostly lowercase rejected", func(t *testing.T) {
		t.Parallel()
		// "Proceedings held" is 1 upper of 15 letters, well under 0.6.
		assert.False(t, IsHeading("Proceedings held", headingPatterns))
	})

	t.Run("uppercase ratio boundary", func(t *testing.T) {
		t.Parallel()
		// 10 upper of 16 letters is 0.625, just over the bar.
		assert.True(t, IsHeading("PROCEEDING heldxy", headingPatterns))
		// 10 upper of 17 letters is 0.588, just under.
		assert.False(t, IsHeading("PROCEEDING heldxyz", headingPatterns))
	})

	t.Run("no pattern match rejected", func(t *testing.T) {
		t.Parallel()
		assert.False(t, IsHeading("CAUSE TITLE", headingPatterns))
	})
}

func TestBuildSections(t *testing.T) {
	t.Parallel()

	t.Run("headings open sections at their index", func(t *testing.T) {
		t.Parallel()
		lines := []string{
			"In the court of the civil judge",
			"PROCEEDINGS",
			"Suit heard on 12.03.2020.",
			"EVIDENCE",
			"PW-1 examined.",
		}
		got := BuildSections(lines, headingPatterns)
		assert.Equal(t, []Section{
			{Label: "PROCEEDINGS", Start: 1},
			{Label: "EVIDENCE", Start: 3},
		}, got)
	})

	t.Run("no headings falls back to single BODY", func(t *testing.T) {
		t.Parallel()
		got := BuildSections([]string{"plain text", "more text"}, headingPatterns)
		assert.Equal(t, []Section{{Label: "BODY", Start: 0}}, got)
	})
}

func TestSectionFor(t *testing.T) {
	t.Parallel()
	sections := []Section{
		{Label: "PROCEEDINGS", Start: 1},
		{Label: "EVIDENCE", Start: 3},
	}

	assert.Equal(t, "BODY", SectionFor(sections, 0), "before the first heading")
	assert.Equal(t, "PROCEEDINGS", SectionFor(sections, 1))
	assert.Equal(t, "PROCEEDINGS", SectionFor(sections, 2))
	assert.Equal(t, "EVIDENCE", SectionFor(sections, 3))
	assert.Equal(t, "EVIDENCE", SectionFor(sections, 10))
}
