package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexflow/chronicle/internal/dates"
	"github.com/lexflow/chronicle/internal/loader"
	"github.com/lexflow/chronicle/internal/merge"
	"github.com/lexflow/chronicle/internal/pipeline"
	"github.com/lexflow/chronicle/internal/rules"
)

func TestListInputs(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	for _, name := range []string{"b.pdf", "a.txt", "notes.docx", "skip.xlsx", "sub/c.pdf"} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	}

	t.Run("directory walked recursively and sorted", func(t *testing.T) {
		t.Parallel()
		got, err := listInputs(dir)
		require.NoError(t, err)
		require.Len(t, got, 4)
		assert.Equal(t, filepath.Join(dir, "a.txt"), got[0])
		assert.Equal(t, filepath.Join(dir, "sub", "c.pdf"), got[3])
	})

	t.Run("single supported file", func(t *testing.T) {
		t.Parallel()
		got, err := listInputs(filepath.Join(dir, "a.txt"))
		require.NoError(t, err)
		assert.Equal(t, []string{filepath.Join(dir, "a.txt")}, got)
	})

	t.Run("single unsupported file rejected", func(t *testing.T) {
		t.Parallel()
		_, err := listInputs(filepath.Join(dir, "skip.xlsx"))
		assert.Error(t, err)
	})

	t.Run("missing path", func(t *testing.T) {
		t.Parallel()
		_, err := listInputs(filepath.Join(dir, "nope"))
		assert.Error(t, err)
	})
}

func TestProcessDocuments(t *testing.T) {
	t.Parallel()

	rs, err := rules.Load("")
	require.NoError(t, err)
	parser, err := dates.NewParser(rs.Parser)
	require.NoError(t, err)

	env := &pipelineEnv{
		Rules:    rs,
		Loader:   loader.New(nil, nil),
		Pipeline: &pipeline.Pipeline{Rules: rs, Parser: parser, Threshold: 0.6},
	}

	dir := t.TempDir()
	good := filepath.Join(dir, "case.txt")
	require.NoError(t, os.WriteFile(good, []byte("PROCEEDINGS\nHearing adjourned to 12.03.2020 for further evidence.\n"), 0o644))
	bad := filepath.Join(dir, "broken.docx")
	require.NoError(t, os.WriteFile(bad, []byte("not a zip"), 0o644))

	rows, failed := processDocuments(context.Background(), env, []string{good, bad}, 2)

	assert.Equal(t, int64(1), failed, "broken document skipped, not fatal")
	require.Len(t, rows, 1)
	assert.Equal(t, good, rows[0].Source, "source is the full input path")
	assert.Equal(t, "Adjournment", rows[0].Event)
}

func TestProcessDocumentsSameBaseName(t *testing.T) {
	t.Parallel()

	rs, err := rules.Load("")
	require.NoError(t, err)
	parser, err := dates.NewParser(rs.Parser)
	require.NoError(t, err)

	env := &pipelineEnv{
		Rules:    rs,
		Loader:   loader.New(nil, nil),
		Pipeline: &pipeline.Pipeline{Rules: rs, Parser: parser, Threshold: 0.6},
	}

	dir := t.TempDir()
	content := []byte("PROCEEDINGS\nHearing adjourned to 12.03.2020 for further evidence.\n")
	var inputs []string
	for _, sub := range []string{"a", "b"} {
		path := filepath.Join(dir, sub, "case.txt")
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, content, 0o644))
		inputs = append(inputs, path)
	}

	rows, failed := processDocuments(context.Background(), env, inputs, 2)
	require.Equal(t, int64(0), failed)

	rows = merge.Dedupe(rows)
	merge.Sort(rows)
	require.Len(t, rows, 2, "same base name in different directories stays distinct")
	assert.NotEqual(t, rows[0].Source, rows[1].Source)
}
