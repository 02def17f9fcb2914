// Package pipeline runs the extraction stages for a single document:
// pattern matching per page, escalation of weak rows to the secondary
// extractor, and the final merge.
package pipeline

import (
	"context"

	"go.uber.org/zap"

	"github.com/lexflow/chronicle/internal/dates"
	"github.com/lexflow/chronicle/internal/gate"
	"github.com/lexflow/chronicle/internal/llm"
	"github.com/lexflow/chronicle/internal/matcher"
	"github.com/lexflow/chronicle/internal/merge"
	"github.com/lexflow/chronicle/internal/model"
	"github.com/lexflow/chronicle/internal/rules"
)

// Escalator resolves low-confidence text chunks into candidate rows.
// A nil Escalator on the Pipeline disables escalation entirely.
type Escalator interface {
	Dispatch(ctx context.Context, chunks []llm.Chunk) []model.CandidateRow
}

// Pipeline holds the per-run extraction configuration.
type Pipeline struct {
	Rules     *rules.Ruleset
	Parser    *dates.Parser
	Extractor Escalator
	Threshold float64
}

// ProcessPages extracts a merged chronology from the pages of one document.
// source tags every row with the document's name.
func (p *Pipeline) ProcessPages(ctx context.Context, source string, pages []model.PageRecord) []model.MergedRow {
	var ruleRows []model.CandidateRow
	var chunks []llm.Chunk

	for _, page := range pages {
		rows := matcher.ParsePage(page, p.Rules, p.Parser)
		for i := range rows {
			rows[i].Source = source
		}

		for _, row := range rows {
			if p.Extractor != nil && gate.ShouldEscalate(row, p.Rules, p.Threshold) {
				chunks = append(chunks, llm.Chunk{
					Text:     row.Description,
					Location: row.Location,
					Source:   source,
				})
			}
			ruleRows = append(ruleRows, row)
		}
	}

	var llmRows []model.CandidateRow
	if p.Extractor != nil && len(chunks) > 0 {
		zap.L().Debug("pipeline: escalating chunks",
			zap.String("source", source),
			zap.Int("chunks", len(chunks)),
		)
		llmRows = p.Extractor.Dispatch(ctx, chunks)
	}

	return merge.Document(ruleRows, llmRows)
}
