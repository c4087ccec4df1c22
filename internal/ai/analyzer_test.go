package ai

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/healthmate/healthmate-api/internal/model"
)

type fakeGenerator struct {
	responses map[string]string
	errs      map[string]error
	calls     []string
}

func (f *fakeGenerator) Generate(ctx context.Context, model, prompt string) (string, error) {
	f.calls = append(f.calls, model)
	if err, ok := f.errs[model]; ok {
		return "", err
	}
	return f.responses[model], nil
}

func newTestAnalyzer(gen Generator, override string) *Analyzer {
	return NewAnalyzer(gen, override, zerolog.Nop())
}

const validResponse = `{
	"summary": {"english": "Slightly high sugar", "urdu": "Sugar thori zyada hai"},
	"abnormalValues": [{"testName": "Glucose", "value": "130", "normalRange": "70-100", "severity": "high"}],
	"doctorQuestions": [],
	"dietaryAdvice": {"foodsToAvoid": [], "foodsToEat": []},
	"homeRemedies": [],
	"overallHealthStatus": "fair",
	"confidence": 88
}`

func TestAnalyzeParsesFirstSuccessfulCandidate(t *testing.T) {
	gen := &fakeGenerator{responses: map[string]string{
		"gemini-1.5-pro": "Here you go: " + validResponse,
	}}

	insight := newTestAnalyzer(gen, "").Analyze(context.Background(), "https://example.com/report.pdf", "blood_test")

	require.NotNil(t, insight)
	assert.Equal(t, 88, insight.Confidence)
	assert.Equal(t, "Slightly high sugar", insight.Summary.English)
	assert.Equal(t, model.HealthStatusFair, insight.OverallHealthStatus)
	require.Len(t, insight.AbnormalValues, 1)
	assert.Equal(t, "Glucose", insight.AbnormalValues[0].TestName)
	assert.Equal(t, []string{"gemini-1.5-pro"}, gen.calls)
}

func TestAnalyzeTriesCandidatesInOrder(t *testing.T) {
	gen := &fakeGenerator{
		errs: map[string]error{
			"gemini-1.5-pro":   errors.New("quota exceeded"),
			"gemini-1.5-flash": errors.New("unavailable"),
		},
		responses: map[string]string{
			"gemini-pro": validResponse,
		},
	}

	insight := newTestAnalyzer(gen, "").Analyze(context.Background(), "url", "blood_test")

	require.NotNil(t, insight)
	assert.Equal(t, 88, insight.Confidence)
	assert.Equal(t, []string{"gemini-1.5-pro", "gemini-1.5-flash", "gemini-pro"}, gen.calls)
}

func TestAnalyzeOverrideModelTriedFirst(t *testing.T) {
	gen := &fakeGenerator{responses: map[string]string{
		"gemini-2.0-flash": validResponse,
	}}

	insight := newTestAnalyzer(gen, "gemini-2.0-flash").Analyze(context.Background(), "url", "blood_test")

	require.NotNil(t, insight)
	assert.Equal(t, []string{"gemini-2.0-flash"}, gen.calls)
}

func TestAnalyzeAllCandidatesFailReturnsOutageFallback(t *testing.T) {
	gen := &fakeGenerator{errs: map[string]error{
		"gemini-1.5-pro":   errors.New("down"),
		"gemini-1.5-flash": errors.New("down"),
		"gemini-pro":       errors.New("down"),
	}}

	insight := newTestAnalyzer(gen, "").Analyze(context.Background(), "url", "blood_test")

	require.NotNil(t, insight)
	assert.Equal(t, 60, insight.Confidence)
	require.NotNil(t, insight.Disclaimer)
	assert.Equal(t, model.DefaultDisclaimer.English, insight.Disclaimer.English)
	assert.Equal(t, model.HealthStatusFair, insight.OverallHealthStatus)
	assert.NotEmpty(t, insight.Summary.English)
}

func TestAnalyzeEmptyResponsesTreatedAsFailure(t *testing.T) {
	gen := &fakeGenerator{responses: map[string]string{
		"gemini-1.5-pro":   "",
		"gemini-1.5-flash": "   \n",
		"gemini-pro":       "",
	}}

	insight := newTestAnalyzer(gen, "").Analyze(context.Background(), "url", "blood_test")

	require.NotNil(t, insight)
	assert.Equal(t, 60, insight.Confidence)
	assert.Len(t, gen.calls, 3)
}

func TestAnalyzeMalformedResponseReturnsMalformedFallback(t *testing.T) {
	gen := &fakeGenerator{responses: map[string]string{
		"gemini-1.5-pro": "The report looks fine, nothing to worry about.",
	}}

	insight := newTestAnalyzer(gen, "").Analyze(context.Background(), "url", "blood_test")

	require.NotNil(t, insight)
	assert.Equal(t, 70, insight.Confidence)
	assert.Nil(t, insight.Disclaimer)
	// A parseable answer that fails the pipeline stops the candidate walk.
	assert.Equal(t, []string{"gemini-1.5-pro"}, gen.calls)
}

func TestAnalyzeInvalidJSONObjectReturnsMalformedFallback(t *testing.T) {
	gen := &fakeGenerator{responses: map[string]string{
		"gemini-1.5-pro": `{"confidence": "not a number"}`,
	}}

	insight := newTestAnalyzer(gen, "").Analyze(context.Background(), "url", "blood_test")

	require.NotNil(t, insight)
	assert.Equal(t, 70, insight.Confidence)
	assert.Nil(t, insight.Disclaimer)
}

func TestAnalyzeNilGeneratorReturnsOutageFallback(t *testing.T) {
	insight := newTestAnalyzer(nil, "").Analyze(context.Background(), "url", "blood_test")

	require.NotNil(t, insight)
	assert.Equal(t, 60, insight.Confidence)
	require.NotNil(t, insight.Disclaimer)
}
