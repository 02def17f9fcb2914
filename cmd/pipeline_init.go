package main

import (
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/lexflow/chronicle/internal/dates"
	"github.com/lexflow/chronicle/internal/llm"
	"github.com/lexflow/chronicle/internal/loader"
	"github.com/lexflow/chronicle/internal/ocr"
	"github.com/lexflow/chronicle/internal/pipeline"
	"github.com/lexflow/chronicle/internal/rules"
	anthropicpkg "github.com/lexflow/chronicle/pkg/anthropic"
)

// pipelineEnv holds the loaded rules, document loader, and pipeline needed
// by the extract and serve commands.
type pipelineEnv struct {
	Rules    *rules.Ruleset
	Loader   *loader.Loader
	Pipeline *pipeline.Pipeline
}

// initPipeline compiles the rules, builds the date parser, and wires the
// optional escalation extractor and OCR fallback from config.
func initPipeline(rulesPath string) (*pipelineEnv, error) {
	if rulesPath == "" {
		rulesPath = cfg.Rules.Path
	}

	rs, err := rules.Load(rulesPath)
	if err != nil {
		return nil, err
	}

	parser, err := dates.NewParser(rs.Parser)
	if err != nil {
		return nil, err
	}

	var escalator pipeline.Escalator
	if cfg.LLM.Enabled {
		if cfg.Anthropic.Key == "" {
			return nil, eris.New("llm enabled but CHRONICLE_ANTHROPIC_KEY is not set")
		}
		client := anthropicpkg.NewClient(cfg.Anthropic.Key)
		ext, err := llm.NewExtractor(client, llm.Options{
			Provider:    cfg.LLM.Provider,
			Model:       cfg.LLM.Model,
			MaxInFlight: cfg.LLM.MaxInFlight,
			RatePerSec:  cfg.LLM.RatePerSec,
			CallTimeout: time.Duration(cfg.LLM.CallTimeoutSecs) * time.Second,
		}, rs, parser)
		if err != nil {
			return nil, err
		}
		escalator = ext
		zap.L().Info("escalation enabled", zap.String("model", cfg.LLM.Model))
	} else {
		zap.L().Debug("llm escalation disabled, running pattern rules only")
	}

	text := ocr.NewPdfToText(cfg.OCR.PdfToTextPath)
	var fallback ocr.Extractor
	if cfg.OCR.Enabled {
		// The fallback runs on pages whose text layer came back empty;
		// pointing it at the local text layer again would just re-read
		// the same empty pages.
		if p := cfg.OCR.Provider; p == "" || p == "local" {
			return nil, eris.Errorf("ocr enabled but provider %q cannot read scanned pages, set ocr.provider=mistral", p)
		}
		fallback, err = ocr.NewExtractor(cfg.OCR)
		if err != nil {
			return nil, err
		}
		zap.L().Info("ocr fallback enabled", zap.String("provider", cfg.OCR.Provider))
	}

	return &pipelineEnv{
		Rules:  rs,
		Loader: loader.New(text, fallback),
		Pipeline: &pipeline.Pipeline{
			Rules:     rs,
			Parser:    parser,
			Extractor: escalator,
			Threshold: cfg.LLM.ConfidenceThreshold,
		},
	}, nil
}
