// Package rules loads and compiles the extraction rule configuration:
// section heading patterns, date patterns, the ordered event-label mapping,
// cue phrase lists, and date parser settings.
package rules

import (
	_ "embed"
	"os"
	"regexp"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/lexflow/chronicle/internal/dates"
	"github.com/lexflow/chronicle/internal/model"
)

//go:embed defaults.yaml
var defaultRules []byte

// EventRule maps one label to its ordered pattern list. Declaration order
// in the rules file decides which label wins when several match; the
// matcher evaluates rules strictly in this order.
type EventRule struct {
	Label    model.Event
	Patterns []*regexp.Regexp
}

// Ruleset is the compiled rule configuration. It is built once at startup
// and threaded through every call; nothing mutates it afterwards.
type Ruleset struct {
	SectionPatterns []*regexp.Regexp
	DatePatterns    []*regexp.Regexp
	Events          []EventRule

	// Cue lists are matched case-insensitively and unanchored, preserving
	// substring semantics for plain-phrase cues.
	StatutoryCues  []*regexp.Regexp
	ProceduralCues []*regexp.Regexp
	AnalysisCues   []*regexp.Regexp

	Parser         dates.Settings
	LineIsBoundary bool
	Delimiters     string // unit delimiter characters
}

// fileConfig is the YAML schema of a rules file. Events is kept as a raw
// node so mapping declaration order survives decoding.
type fileConfig struct {
	SectionPatterns []string  `yaml:"section_patterns"`
	DatePatterns    []string  `yaml:"date_patterns"`
	Events          yaml.Node `yaml:"events"`
	DateParser      struct {
		Languages []string `yaml:"languages"`
		DateOrder string   `yaml:"date_order"`
	} `yaml:"dateparser"`
	LineBreakIsBoundary *bool    `yaml:"line_break_is_boundary"`
	SentenceDelimiters  []string `yaml:"sentence_delimiters"`
	StatutoryCues       []string `yaml:"statutory_cues"`
	ProceduralCues      []string `yaml:"procedural_cues"`
	AnalysisCues        []string `yaml:"analysis_cues"`
}

// Load reads and compiles a rules file. An empty path loads the embedded
// defaults. Any compile or validation error is fatal to the caller: a bad
// rules file must stop the run before documents are touched.
func Load(path string) (*Ruleset, error) {
	data := defaultRules
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, eris.Wrapf(err, "rules: read %s", path)
		}
		data = b
	}
	return Compile(data)
}

// Compile parses and compiles raw YAML rule configuration.
func Compile(data []byte) (*Ruleset, error) {
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, eris.Wrap(err, "rules: parse yaml")
	}

	if len(fc.SectionPatterns) == 0 {
		return nil, eris.New("rules: section_patterns is required")
	}
	if len(fc.DatePatterns) == 0 {
		return nil, eris.New("rules: date_patterns is required")
	}

	rs := &Ruleset{LineIsBoundary: true}
	if fc.LineBreakIsBoundary != nil {
		rs.LineIsBoundary = *fc.LineBreakIsBoundary
	}
	rs.Delimiters = strings.Join(fc.SentenceDelimiters, "")
	if rs.Delimiters == "" {
		rs.Delimiters = "."
	}

	var err error
	if rs.SectionPatterns, err = compileAll("section pattern", fc.SectionPatterns); err != nil {
		return nil, err
	}
	if rs.DatePatterns, err = compileAll("date pattern", fc.DatePatterns); err != nil {
		return nil, err
	}
	if rs.Events, err = compileEvents(fc.Events); err != nil {
		return nil, err
	}
	if rs.StatutoryCues, err = compileAll("statutory cue", fc.StatutoryCues); err != nil {
		return nil, err
	}
	if rs.ProceduralCues, err = compileAll("procedural cue", fc.ProceduralCues); err != nil {
		return nil, err
	}
	if rs.AnalysisCues, err = compileAll("analysis cue", fc.AnalysisCues); err != nil {
		return nil, err
	}

	rs.Parser = dates.Settings{
		Languages: fc.DateParser.Languages,
		DateOrder: fc.DateParser.DateOrder,
	}
	if len(rs.Parser.Languages) == 0 {
		rs.Parser.Languages = []string{"en"}
	}
	if rs.Parser.DateOrder == "" {
		rs.Parser.DateOrder = "DMY"
	}
	if err := rs.Parser.Validate(); err != nil {
		return nil, err
	}

	return rs, nil
}

// compileAll compiles a pattern list case-insensitively.
func compileAll(kind string, patterns []string) ([]*regexp.Regexp, error) {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile("(?i)" + p)
		if err != nil {
			return nil, eris.Wrapf(err, "rules: compile %s %q", kind, p)
		}
		out = append(out, re)
	}
	return out, nil
}

// compileEvents walks the raw events mapping node in declaration order.
// Labels must belong to the closed vocabulary.
func compileEvents(node yaml.Node) ([]EventRule, error) {
	if node.Kind == 0 || (node.Kind == yaml.ScalarNode && node.Value == "") {
		return nil, eris.New("rules: events mapping is required")
	}
	if node.Kind != yaml.MappingNode {
		return nil, eris.New("rules: events must be a mapping of label to pattern list")
	}

	var out []EventRule
	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode, valNode := node.Content[i], node.Content[i+1]

		label := model.Event(strings.TrimSpace(keyNode.Value))
		if !label.Known() {
			return nil, eris.Errorf("rules: unknown event label %q", keyNode.Value)
		}

		var raw []string
		if err := valNode.Decode(&raw); err != nil {
			return nil, eris.Wrapf(err, "rules: patterns for event %q", label)
		}
		compiled, err := compileAll("event pattern", raw)
		if err != nil {
			return nil, err
		}
		out = append(out, EventRule{Label: label, Patterns: compiled})
	}
	if len(out) == 0 {
		return nil, eris.New("rules: events mapping is required")
	}
	return out, nil
}
