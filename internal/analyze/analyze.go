// Package analyze runs the full extraction pipeline for one analysis
// request: prompt the model, truncate at the end-of-generation marker,
// extract the first balanced JSON object, and validate it against the
// mode's schema.
package analyze

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fidpa/hablara/internal/config"
	"github.com/fidpa/hablara/internal/extract"
	"github.com/fidpa/hablara/internal/provider"
	"github.com/fidpa/hablara/internal/schema"
	"github.com/fidpa/hablara/internal/telemetry"
)

// EndOfTextMarker is the generation stop token some models echo into
// their output; everything at and after it is discarded before
// extraction.
const EndOfTextMarker = "<|endoftext|>"

// Error wraps a pipeline failure with the mode and model it belongs to,
// for the caller's single user-visible failure message.
type Error struct {
	Mode  Mode
	Model string
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s analysis failed (model %s): %v", e.Mode, e.Model, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Analyzer ties the generation boundary to extraction and validation.
type Analyzer struct {
	Provider  provider.Provider
	Validator *schema.Validator
	Config    *config.AnalysisConfig
	Telemetry *telemetry.Provider
}

// Run performs one analysis. modelName may be empty for the configured
// default. The returned record is the model's object, unchanged.
func (a *Analyzer) Run(ctx context.Context, mode Mode, modelName, text string) (schema.Record, error) {
	model, err := a.Config.ResolveModel(modelName)
	if err != nil {
		a.Telemetry.RecordAnalysis(string(mode), "error")
		return nil, &Error{Mode: mode, Model: modelName, Err: err}
	}

	rec, err := a.run(ctx, mode, model, text)
	if err != nil {
		a.Telemetry.RecordAnalysis(string(mode), "error")
		return nil, &Error{Mode: mode, Model: model, Err: err}
	}
	a.Telemetry.RecordAnalysis(string(mode), "ok")
	return rec, nil
}

func (a *Analyzer) run(ctx context.Context, mode Mode, model, text string) (schema.Record, error) {
	prompt, maxTokens, err := BuildPrompt(mode, text)
	if err != nil {
		return nil, err
	}

	resp, err := a.Provider.Generate(ctx, &provider.Request{
		Model:     model,
		Prompt:    prompt,
		MaxTokens: maxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}

	raw := strings.TrimSpace(extract.TruncateAtMarker(strings.TrimSpace(resp.Text), EndOfTextMarker))

	span, err := extract.Slice(raw)
	if err != nil {
		a.Telemetry.RecordExtractionFailure(extractionErrorKind(err))
		return nil, err
	}

	validator := a.Validator
	if validator == nil {
		validator = &schema.Validator{}
	}
	return validator.Validate(span, kindFor(mode))
}

func kindFor(mode Mode) schema.Kind {
	if mode == ModeFallacy {
		return schema.KindFallacy
	}
	return schema.KindEmotion
}

func extractionErrorKind(err error) string {
	switch {
	case errors.Is(err, extract.ErrNoOpeningBrace):
		return "no_opening_brace"
	case errors.Is(err, extract.ErrUnbalancedBraces):
		return "unbalanced_braces"
	default:
		return "other"
	}
}
