// Package extract runs the staged document-to-record pipeline: summarize
// the raw text, classify it as a model or dataset article, then pull a
// structured record out of the summary and an excerpt of the original.
// Each stage depends on the previous one and a failed stage stops the run.
package extract

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/roadmaplab/cardkit/pkg/card"
	"github.com/roadmaplab/cardkit/pkg/genai"
)

// Stage identifies a pipeline phase for failure reporting.
type Stage string

const (
	StageSummarize Stage = "summarize"
	StageClassify  Stage = "classify"
	StageExtract   Stage = "extract"
)

// StageError reports which stage failed and why.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("extract: stage %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// ErrUploadTooLarge is returned before any generation call when the input
// document exceeds the upload cap.
var ErrUploadTooLarge = errors.New("extract: document exceeds upload size limit")

// Generator produces a text completion for a prompt. *genai.Client
// satisfies it.
type Generator interface {
	Generate(ctx context.Context, prompt string, opts genai.GenerateOptions) (string, error)
}

// FieldLister reports the top-level schema field names for a card kind,
// in declaration order. *resolver.Catalog satisfies it.
type FieldLister interface {
	Fields(ctx context.Context, kind card.Kind) ([]string, error)
}

const (
	defaultMaxInputChars   = 12000
	defaultMaxExcerptChars = 8000
	defaultMaxSchemaFields = 20
)

// Options configures a Pipeline.
type Options struct {
	// MaxInputChars caps the document text fed to the summarize stage.
	MaxInputChars int
	// MaxExcerptChars caps the original-text excerpt in the extract stage.
	MaxExcerptChars int
	// MaxSchemaFields caps how many schema field names the extract
	// prompt lists.
	MaxSchemaFields int
	Logger          *slog.Logger
}

// Artifact keeps the intermediate stage outputs alongside the final
// record, for audit and debugging.
type Artifact struct {
	RawText    string
	Summary    string
	Kind       card.Kind
	Reasoning  string
	Structured string
}

// Result is a successful pipeline run.
type Result struct {
	Kind     card.Kind
	Record   map[string]any
	Artifact Artifact
}

// Pipeline wires a Generator and a schema FieldLister into the staged
// extraction flow.
type Pipeline struct {
	gen             Generator
	fields          FieldLister
	maxInputChars   int
	maxExcerptChars int
	maxSchemaFields int
	log             *slog.Logger
}

// New builds a Pipeline. The field lister is optional: without one the
// extract prompt simply omits the schema field list.
func New(gen Generator, fields FieldLister, opts Options) (*Pipeline, error) {
	if gen == nil {
		return nil, errors.New("extract: generator is required")
	}
	if opts.MaxInputChars <= 0 {
		opts.MaxInputChars = defaultMaxInputChars
	}
	if opts.MaxExcerptChars <= 0 {
		opts.MaxExcerptChars = defaultMaxExcerptChars
	}
	if opts.MaxSchemaFields <= 0 {
		opts.MaxSchemaFields = defaultMaxSchemaFields
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Pipeline{
		gen:             gen,
		fields:          fields,
		maxInputChars:   opts.MaxInputChars,
		maxExcerptChars: opts.MaxExcerptChars,
		maxSchemaFields: opts.MaxSchemaFields,
		log:             opts.Logger,
	}, nil
}

// RunDocument enforces the upload cap before any generation call, then
// runs the pipeline on the document body.
func (p *Pipeline) RunDocument(ctx context.Context, name string, data []byte) (*Result, error) {
	if int64(len(data)) > card.MaxUploadBytes {
		p.log.Warn("extract.upload_rejected",
			"name", name, "bytes", len(data), "limit", card.MaxUploadBytes)
		return nil, ErrUploadTooLarge
	}
	return p.Run(ctx, string(data))
}

// Run executes all three stages on the given document text.
func (p *Pipeline) Run(ctx context.Context, text string) (*Result, error) {
	rid := uuid.New().String()
	start := time.Now()
	input := truncate(text, p.maxInputChars)

	p.log.Info("extract.start", "req_id", rid, "input_len", len(input))

	summary, err := p.summarize(ctx, input)
	if err != nil {
		return nil, &StageError{Stage: StageSummarize, Err: err}
	}
	p.log.Info("extract.summarized", "req_id", rid, "summary_len", len(summary))

	kind, reasoning, err := p.classify(ctx, summary)
	if err != nil {
		return nil, &StageError{Stage: StageClassify, Err: err}
	}
	p.log.Info("extract.classified", "req_id", rid, "kind", string(kind))

	record, structured, err := p.extract(ctx, kind, summary, text)
	if err != nil {
		return nil, &StageError{Stage: StageExtract, Err: err}
	}

	p.log.Info("extract.done",
		"req_id", rid,
		"kind", string(kind),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return &Result{
		Kind:   kind,
		Record: record,
		Artifact: Artifact{
			RawText:    text,
			Summary:    summary,
			Kind:       kind,
			Reasoning:  reasoning,
			Structured: structured,
		},
	}, nil
}

func (p *Pipeline) summarize(ctx context.Context, input string) (string, error) {
	out, err := p.gen.Generate(ctx, summarizePrompt(input), genai.GenerateOptions{
		Temperature:     0.3,
		MaxOutputTokens: 2000,
	})
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(out) == "" {
		return "", errors.New("empty summary")
	}
	return out, nil
}

func (p *Pipeline) classify(ctx context.Context, summary string) (card.Kind, string, error) {
	out, err := p.gen.Generate(ctx, classifyPrompt(summary), genai.GenerateOptions{
		Temperature:     0.1,
		MaxOutputTokens: 500,
	})
	if err != nil {
		return "", "", err
	}
	// The classifier is told to answer MODEL or DATASET; anything that
	// fails to mention DATASET is treated as a model article.
	kind := card.KindModel
	if strings.Contains(out, "DATASET") {
		kind = card.KindDataset
	}
	return kind, out, nil
}

var codeFence = regexp.MustCompile("```json\n?|\n?```")

func (p *Pipeline) extract(ctx context.Context, kind card.Kind, summary, original string) (map[string]any, string, error) {
	fields := p.schemaFields(ctx, kind)
	excerpt := truncate(original, p.maxExcerptChars)

	out, err := p.gen.Generate(ctx, extractPrompt(kind, fields, summary, excerpt), genai.GenerateOptions{
		Temperature:     0.1,
		MaxOutputTokens: 3000,
	})
	if err != nil {
		return nil, "", err
	}

	clean := strings.TrimSpace(codeFence.ReplaceAllString(out, ""))
	var parsed map[string]any
	if err := json.Unmarshal([]byte(clean), &parsed); err != nil {
		return nil, "", fmt.Errorf("parse structured output: %w", err)
	}
	record, ok := parsed[string(kind)].(map[string]any)
	if !ok {
		return nil, "", fmt.Errorf("structured output missing %q object", string(kind))
	}
	return record, clean, nil
}

// schemaFields fetches the field names to advertise in the extract
// prompt. Lookup failures are tolerated: the prompt degrades to an empty
// field list rather than failing the stage.
func (p *Pipeline) schemaFields(ctx context.Context, kind card.Kind) []string {
	if p.fields == nil {
		return nil
	}
	names, err := p.fields.Fields(ctx, kind)
	if err != nil {
		p.log.Warn("extract.schema_fields_unavailable", "kind", string(kind), "error", err)
		return nil
	}
	if len(names) > p.maxSchemaFields {
		names = names[:p.maxSchemaFields]
	}
	return names
}

// truncate caps s at limit bytes without splitting a UTF-8 rune.
func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
