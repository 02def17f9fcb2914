package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexflow/chronicle/internal/model"
)

func TestLoadDefaults(t *testing.T) {
	t.Parallel()

	rs, err := Load("")
	require.NoError(t, err)

	assert.NotEmpty(t, rs.SectionPatterns)
	assert.NotEmpty(t, rs.DatePatterns)
	assert.NotEmpty(t, rs.StatutoryCues)
	assert.NotEmpty(t, rs.AnalysisCues)
	assert.True(t, rs.LineIsBoundary)
	assert.Equal(t, "DMY", rs.Parser.DateOrder)

	t.Run("adjournment precedes hearing", func(t *testing.T) {
		t.Parallel()
		var adj, hearing int
		for i, er := range rs.Events {
			switch er.Label {
			case model.EventAdjournment:
				adj = i
			case model.EventHearing:
				hearing = i
			}
		}
		assert.Less(t, adj, hearing)
	})
}

func TestCompileEventOrder(t *testing.T) {
	t.Parallel()

	data := []byte(`
section_patterns: ['\bPROCEEDINGS\b']
date_patterns: ['\d{4}-\d{2}-\d{2}']
events:
  Judgment: ['\bdecreed\b']
  Filing: ['\bfiled\b']
  Order: ['\bdirected\b']
`)
	rs, err := Compile(data)
	require.NoError(t, err)

	labels := make([]model.Event, 0, len(rs.Events))
	for _, er := range rs.Events {
		labels = append(labels, er.Label)
	}
	assert.Equal(t, []model.Event{model.EventJudgment, model.EventFiling, model.EventOrder}, labels,
		"declaration order must survive decoding")
}

func TestCompileErrors(t *testing.T) {
	t.Parallel()

	t.Run("missing section patterns", func(t *testing.T) {
		t.Parallel()
		_, err := Compile([]byte(`
date_patterns: ['\d{4}']
events:
  Filing: ['\bfiled\b']
`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "section_patterns")
	})

	t.Run("missing date patterns", func(t *testing.T) {
		t.Parallel()
		_, err := Compile([]byte(`
section_patterns: ['\bPROCEEDINGS\b']
events:
  Filing: ['\bfiled\b']
`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "date_patterns")
	})

	t.Run("bad regex", func(t *testing.T) {
		t.Parallel()
		_, err := Compile([]byte(`
section_patterns: ['[unclosed']
date_patterns: ['\d{4}']
events:
  Filing: ['\bfiled\b']
`))
		assert.Error(t, err)
	})

	t.Run("unknown event label", func(t *testing.T) {
		t.Parallel()
		_, err := Compile([]byte(`
section_patterns: ['\bPROCEEDINGS\b']
date_patterns: ['\d{4}']
events:
  Remand: ['\bremand\b']
`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Remand")
	})

	t.Run("invalid yaml", func(t *testing.T) {
		t.Parallel()
		_, err := Compile([]byte("section_patterns: [unterminated"))
		assert.Error(t, err)
	})
}

func TestCompilePatternsCaseInsensitive(t *testing.T) {
	t.Parallel()

	rs, err := Compile([]byte(`
section_patterns: ['\bPROCEEDINGS\b']
date_patterns: ['\d{4}-\d{2}-\d{2}']
events:
  Filing: ['\bfiled\b']
statutory_cues: ['with effect from']
`))
	require.NoError(t, err)

	assert.True(t, rs.Events[0].Patterns[0].MatchString("FILED today"))
	assert.True(t, rs.StatutoryCues[0].MatchString("With Effect From 2019"))
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()
	_, err := Load("testdata/does-not-exist.yaml")
	assert.Error(t, err)
}
