package llm

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/lexflow/chronicle/internal/model"
)

// Dispatch sends one extraction call per unique chunk through a bounded
// worker pool and joins all results. Chunks are deduplicated before
// dispatch, results are joined by chunk index rather than completion
// order, and every per-call failure is isolated: logged, zero rows,
// siblings unaffected. Dispatch blocks until all calls finish or fail.
func (e *Extractor) Dispatch(ctx context.Context, chunks []Chunk) []model.CandidateRow {
	uniq := dedupeChunks(chunks)
	results := make([][]model.CandidateRow, len(uniq))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.maxInFlight)

	for i, c := range uniq {
		g.Go(func() error {
			if err := e.limiter.Wait(gctx); err != nil {
				return nil
			}

			callCtx := gctx
			if e.callTimeout > 0 {
				var cancel context.CancelFunc
				callCtx, cancel = context.WithTimeout(gctx, e.callTimeout)
				defer cancel()
			}

			rows, err := e.ExtractChunk(callCtx, c)
			if err != nil {
				zap.L().Warn("llm: chunk extraction failed",
					zap.String("location", c.Location),
					zap.String("source", c.Source),
					zap.Error(err),
				)
				return nil
			}
			results[i] = rows
			return nil
		})
	}
	_ = g.Wait()

	var out []model.CandidateRow
	for _, rows := range results {
		out = append(out, rows...)
	}
	return out
}

// dedupeChunks drops repeated chunks, keeping first-seen order so dispatch
// indexing stays deterministic.
func dedupeChunks(chunks []Chunk) []Chunk {
	seen := make(map[Chunk]bool, len(chunks))
	out := make([]Chunk, 0, len(chunks))
	for _, c := range chunks {
		if seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}
