// Package llm adapts the secondary extractor: it prompts a Claude model
// with escalated chunks and repairs the untrusted rows it returns.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"

	"github.com/lexflow/chronicle/internal/dates"
	"github.com/lexflow/chronicle/internal/model"
	"github.com/lexflow/chronicle/internal/rules"
	"github.com/lexflow/chronicle/pkg/anthropic"
)

// maxChunkLen truncates chunk text before it enters the prompt.
const maxChunkLen = 6000

// rowsSchema pins the response shape: a rows array of objects. Field-level
// problems are repaired, not rejected; a payload without a rows array is a
// total failure for the chunk.
const rowsSchema = `{
	"type": "object",
	"properties": {
		"rows": {
			"type": "array",
			"items": {"type": "object"}
		}
	},
	"required": ["rows"]
}`

const extractPrompt = `You extract legal case events. STRICT RULES:
- Return ONLY rows that have an explicit date in the text.
- Normalize dates to YYYY-MM-DD if possible; if uncertain, keep the original date string.
- Keep each description under two lines and quote key phrases.
- Do not invent information not present in the text.
- If no dated events are found, return {"rows":[]}.

Return ONLY a valid JSON object of the form:
{"rows":[{"date":"...","event":"...","description":"...","page_section":"...","source":"..."}]}

Meta:
source: %s
page_section: %s

Text:
"""%s"""`

// Chunk is one unique unit of text dispatched to the secondary extractor.
type Chunk struct {
	Text     string
	Location string
	Source   string
}

// Options configures the secondary extractor adapter.
type Options struct {
	Provider    string
	Model       string
	MaxInFlight int
	RatePerSec  float64
	CallTimeout time.Duration
}

// Extractor dispatches escalated chunks to the model and repairs the rows
// it returns. Safe for concurrent use.
type Extractor struct {
	client       anthropic.Client
	model        string
	maxInFlight  int
	callTimeout  time.Duration
	limiter      *rate.Limiter
	schema       *jsonschema.Schema
	parser       *dates.Parser
	datePatterns []*regexp.Regexp
}

// NewExtractor builds the adapter. Only the anthropic provider is
// supported; anything else is a configuration error.
func NewExtractor(client anthropic.Client, opts Options, rs *rules.Ruleset, parser *dates.Parser) (*Extractor, error) {
	if strings.ToLower(opts.Provider) != "anthropic" {
		return nil, eris.Errorf("llm: unsupported provider %q", opts.Provider)
	}
	if opts.Model == "" {
		return nil, eris.New("llm: model is required")
	}

	schema, err := jsonschema.CompileString("rows.json", rowsSchema)
	if err != nil {
		return nil, eris.Wrap(err, "llm: compile rows schema")
	}

	maxInFlight := opts.MaxInFlight
	if maxInFlight <= 0 {
		maxInFlight = 4
	}
	rps := opts.RatePerSec
	if rps <= 0 {
		rps = float64(maxInFlight)
	}

	return &Extractor{
		client:       client,
		model:        opts.Model,
		maxInFlight:  maxInFlight,
		callTimeout:  opts.CallTimeout,
		limiter:      rate.NewLimiter(rate.Limit(rps), maxInFlight),
		schema:       schema,
		parser:       parser,
		datePatterns: rs.DatePatterns,
	}, nil
}

// ExtractChunk sends one chunk to the model and returns the repaired rows.
// The returned rows carry the caller's location and source; the model's
// echo of them is never trusted.
func (e *Extractor) ExtractChunk(ctx context.Context, c Chunk) ([]model.CandidateRow, error) {
	text := model.Truncate(c.Text, maxChunkLen)

	temp := 0.0
	resp, err := e.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:       e.model,
		MaxTokens:   1024,
		Temperature: &temp,
		Messages: []anthropic.Message{
			{Role: "user", Content: fmt.Sprintf(extractPrompt, c.Source, c.Location, text)},
		},
	})
	if err != nil {
		return nil, eris.Wrap(err, "llm: create message")
	}

	return e.repair(resp.Text(), c)
}

// repair validates the raw response shape and normalizes every row:
// fields coerced to text, meta overridden with the caller's values, dates
// recovered from the description when missing and normalized to ISO-8601,
// events clamped to the closed vocabulary, descriptions capped. Rows that
// still lack a date are discarded.
func (e *Extractor) repair(raw string, c Chunk) ([]model.CandidateRow, error) {
	cleaned := cleanJSON(raw)

	var payload any
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return nil, eris.Wrap(err, "llm: decode response")
	}
	if err := e.schema.Validate(payload); err != nil {
		return nil, eris.Wrap(err, "llm: response shape")
	}

	var out []model.CandidateRow
	for _, r := range gjson.Get(cleaned, "rows").Array() {
		date := strings.TrimSpace(r.Get("date").String())
		label := strings.TrimSpace(r.Get("event").String())
		desc := strings.TrimSpace(r.Get("description").String())

		if date == "" {
			if found := e.parser.Extract(desc, e.datePatterns); len(found) > 0 {
				date = found[0]
			}
		}
		if date == "" {
			continue
		}
		if iso, ok := e.parser.ISO(date); ok {
			date = iso
		}

		ev := model.EventGeneric
		if label != "" {
			ev = model.ClampEvent(label)
		}
		desc = model.Truncate(desc, model.MaxDescriptionLen)

		out = append(out, model.CandidateRow{
			Date:        date,
			Event:       ev,
			Description: desc,
			Location:    c.Location,
			Source:      c.Source,
			HasDate:     true,
			HasEvent:    ev != model.EventGeneric,
		})
	}
	return out, nil
}

// cleanJSON strips markdown code fences around a JSON payload.
func cleanJSON(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if i := strings.LastIndex(s, "```"); i >= 0 {
			s = s[:i]
		}
	}
	return strings.TrimSpace(s)
}
