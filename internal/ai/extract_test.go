package ai

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
		ok    bool
	}{
		{
			name:  "bare object",
			input: `{"summary": "ok"}`,
			want:  `{"summary": "ok"}`,
			ok:    true,
		},
		{
			name:  "object surrounded by prose",
			input: "Here is your analysis:\n```json\n{\"confidence\": 85}\n```\nHope this helps!",
			want:  `{"confidence": 85}`,
			ok:    true,
		},
		{
			name:  "nested objects",
			input: `prefix {"a": {"b": {"c": 1}}} suffix`,
			want:  `{"a": {"b": {"c": 1}}}`,
			ok:    true,
		},
		{
			name:  "braces inside strings are ignored",
			input: `{"note": "use {curly} braces", "n": 1}`,
			want:  `{"note": "use {curly} braces", "n": 1}`,
			ok:    true,
		},
		{
			name:  "escaped quote inside string",
			input: `{"note": "she said \"hi {there}\"", "n": 2}`,
			want:  `{"note": "she said \"hi {there}\"", "n": 2}`,
			ok:    true,
		},
		{
			name:  "no object",
			input: "I could not analyze this report.",
			ok:    false,
		},
		{
			name:  "unterminated object",
			input: `{"summary": "truncated`,
			ok:    false,
		},
		{
			name:  "empty input",
			input: "",
			ok:    false,
		},
		{
			name:  "first of two objects wins",
			input: `{"first": 1} and then {"second": 2}`,
			want:  `{"first": 1}`,
			ok:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractJSON(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
				assert.True(t, json.Valid([]byte(got)))
			}
		})
	}
}

func TestExtractJSONRoundTrips(t *testing.T) {
	payload := map[string]interface{}{
		"summary":    map[string]interface{}{"english": "All values normal", "urdu": "Sab values normal hain"},
		"confidence": float64(92),
	}
	raw, err := json.Marshal(payload)
	require.NoError(t, err)

	extracted, ok := ExtractJSON("Sure! " + string(raw) + " Let me know if you need more.")
	require.True(t, ok)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(extracted), &got))
	assert.Equal(t, payload, got)
}
