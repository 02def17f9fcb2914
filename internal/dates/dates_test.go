package dates

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dmyParser(t *testing.T) *Parser {
	t.Helper()
	p, err := NewParser(Settings{Languages: []string{"en"}, DateOrder: "DMY"})
	require.NoError(t, err)
	return p
}

func TestSettingsValidate(t *testing.T) {
	t.Parallel()

	t.Run("english accepted", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, Settings{Languages: []string{"en"}, DateOrder: "DMY"}.Validate())
	})

	t.Run("non-english rejected", func(t *testing.T) {
		t.Parallel()
		err := Settings{Languages: []string{"en", "hi"}}.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported language")
	})

	t.Run("unknown order rejected", func(t *testing.T) {
		t.Parallel()
		assert.Error(t, Settings{DateOrder: "YDM"}.Validate())
	})
}

func TestParserISO(t *testing.T) {
	t.Parallel()
	p := dmyParser(t)

	t.Run("dotted numeric date is day first", func(t *testing.T) {
		t.Parallel()
		got, ok := p.ISO("12.03.2020")
		require.True(t, ok)
		assert.Equal(t, "2020-03-12", got)
	})

	t.Run("ordinal suffix stripped", func(t *testing.T) {
		t.Parallel()
		got, ok := p.ISO("12th March 2020")
		require.True(t, ok)
		assert.Equal(t, "2020-03-12", got)
	})

	t.Run("iso date passes through", func(t *testing.T) {
		t.Parallel()
		got, ok := p.ISO("2019-01-01")
		require.True(t, ok)
		assert.Equal(t, "2019-01-01", got)
	})

	t.Run("unambiguous swap recovers", func(t *testing.T) {
		t.Parallel()
		// Day 25 cannot be a month, so the swap retry resolves it.
		got, ok := p.ISO("25.12.2018")
		require.True(t, ok)
		assert.Equal(t, "2018-12-25", got)
	})

	t.Run("slash and dash separators", func(t *testing.T) {
		t.Parallel()
		got, ok := p.ISO("12/03/2020")
		require.True(t, ok)
		assert.Equal(t, "2020-03-12", got)
		got, ok = p.ISO("12-03-2020")
		require.True(t, ok)
		assert.Equal(t, "2020-03-12", got)
	})

	t.Run("two digit years pivot", func(t *testing.T) {
		t.Parallel()
		got, ok := p.ISO("01.02.94")
		require.True(t, ok)
		assert.Equal(t, "1994-02-01", got)
		got, ok = p.ISO("01.02.19")
		require.True(t, ok)
		assert.Equal(t, "2019-02-01", got)
	})

	t.Run("year first numeric", func(t *testing.T) {
		t.Parallel()
		got, ok := p.ISO("2020.03.12")
		require.True(t, ok)
		assert.Equal(t, "2020-03-12", got)
	})

	t.Run("impossible calendar day rejected not normalized", func(t *testing.T) {
		t.Parallel()
		_, ok := p.ISO("31.02.2020")
		assert.False(t, ok)
		_, ok = p.ISO("32.01.2020")
		assert.False(t, ok)
		_, ok = p.ISO("13.13.2020")
		assert.False(t, ok)
	})

	t.Run("garbage rejected", func(t *testing.T) {
		t.Parallel()
		_, ok := p.ISO("next Tuesday perhaps")
		assert.False(t, ok)
		_, ok = p.ISO("")
		assert.False(t, ok)
	})
}

func TestParserISOMonthFirst(t *testing.T) {
	t.Parallel()
	p, err := NewParser(Settings{Languages: []string{"en"}, DateOrder: "MDY"})
	require.NoError(t, err)

	t.Run("ambiguous numeric is month first", func(t *testing.T) {
		t.Parallel()
		got, ok := p.ISO("12.03.2020")
		require.True(t, ok)
		assert.Equal(t, "2020-12-03", got)
	})

	t.Run("overflow month swaps to day", func(t *testing.T) {
		t.Parallel()
		got, ok := p.ISO("25.12.2018")
		require.True(t, ok)
		assert.Equal(t, "2018-12-25", got)
	})
}

func TestParserExtract(t *testing.T) {
	t.Parallel()
	p := dmyParser(t)
	patterns := []*regexp.Regexp{
		regexp.MustCompile(`\b\d{1,2}[./-]\d{1,2}[./-]\d{2,4}\b`),
	}

	t.Run("distinct sorted ascending", func(t *testing.T) {
		t.Parallel()
		got := p.Extract("adjourned from 12.03.2020 to 01.02.2019 and again 12.03.2020", patterns)
		assert.Equal(t, []string{"2019-02-01", "2020-03-12"}, got)
	})

	t.Run("no dates yields nil", func(t *testing.T) {
		t.Parallel()
		assert.Nil(t, p.Extract("the suit was dismissed", patterns))
	})
}
