package ai

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/healthmate/healthmate-api/internal/model"
)

// defaultModels is the fixed fallback priority. An override model, when
// configured, is tried before these.
var defaultModels = []string{
	"gemini-1.5-pro",
	"gemini-1.5-flash",
	"gemini-pro",
}

const defaultCandidateTimeout = 60 * time.Second

// Analyzer turns report metadata into a structured Insight. Analyze never
// fails from the caller's perspective: provider outages and malformed output
// both degrade to deterministic fallback payloads, observable only through
// the returned confidence and disclaimer.
type Analyzer struct {
	gen      Generator
	override string
	timeout  time.Duration
	log      zerolog.Logger
}

func NewAnalyzer(gen Generator, overrideModel string, log zerolog.Logger) *Analyzer {
	return &Analyzer{
		gen:      gen,
		override: overrideModel,
		timeout:  defaultCandidateTimeout,
		log:      log,
	}
}

func (a *Analyzer) candidates() []string {
	if a.override == "" {
		return defaultModels
	}
	return append([]string{a.override}, defaultModels...)
}

// Analyze builds the prompt, walks the candidate models in order, and parses
// the first JSON object found in the first non-empty response.
func (a *Analyzer) Analyze(ctx context.Context, fileURL, reportType string) *model.Insight {
	if a.gen == nil {
		a.log.Warn().Msg("generation API not configured, returning fallback analysis")
		return OutageFallback()
	}

	prompt := buildPrompt(reportType, fileURL)

	for _, candidate := range a.candidates() {
		text, err := a.generate(ctx, candidate, prompt)
		if err != nil {
			a.log.Warn().Err(err).Str("model", candidate).Msg("model candidate failed")
			continue
		}
		if strings.TrimSpace(text) == "" {
			a.log.Warn().Str("model", candidate).Msg("model candidate returned empty response")
			continue
		}

		raw, ok := ExtractJSON(text)
		if !ok {
			a.log.Warn().Str("model", candidate).Msg("no JSON object in model response")
			return MalformedFallback()
		}

		var insight model.Insight
		if err := json.Unmarshal([]byte(raw), &insight); err != nil {
			a.log.Warn().Err(err).Str("model", candidate).Msg("failed to parse model response")
			return MalformedFallback()
		}
		a.log.Info().Str("model", candidate).Int("confidence", insight.Confidence).Msg("report analysis completed")
		return &insight
	}

	a.log.Warn().Msg("all model candidates exhausted, returning fallback analysis")
	return OutageFallback()
}

func (a *Analyzer) generate(ctx context.Context, model, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()
	return a.gen.Generate(ctx, model, prompt)
}
