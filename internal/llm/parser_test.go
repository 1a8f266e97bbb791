package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseNarrativeValidJSON(t *testing.T) {
	response := `{"description": "Unusual wire activity", "suspicion_score": 72.5, "narrative": "The customer's recent transfers deviate sharply from their history."}`

	n := ParseNarrative(response)

	assert.False(t, n.Fallback)
	assert.Equal(t, "Unusual wire activity", n.Description)
	assert.InDelta(t, 72.5, n.SuspicionScore, 0.001)
	assert.Equal(t, "The customer's recent transfers deviate sharply from their history.", n.Text)
}

func TestParseNarrativeSurroundingText(t *testing.T) {
	response := "Here is my assessment:\n```json\n" +
		`{"description": "Elevated risk", "suspicion_score": 60, "narrative": "Several outliers detected."}` +
		"\n```\nLet me know if you need more detail."

	n := ParseNarrative(response)

	assert.False(t, n.Fallback)
	assert.Equal(t, "Elevated risk", n.Description)
	assert.InDelta(t, 60.0, n.SuspicionScore, 0.001)
}

func TestParseNarrativeControlCharacters(t *testing.T) {
	response := "\x01\x02{\"description\": \"ok\", \"suspicion_score\": 10, \"narrative\": \"clean\"}\x7f"

	n := ParseNarrative(response)

	assert.False(t, n.Fallback)
	assert.Equal(t, "ok", n.Description)
}

func TestParseNarrativeClampsScore(t *testing.T) {
	tests := []struct {
		name  string
		score string
		want  float64
	}{
		{"above maximum", "150", 100},
		{"below minimum", "-20", 0},
		{"in range", "55", 55},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			response := `{"description": "d", "suspicion_score": ` + tt.score + `, "narrative": "n"}`
			n := ParseNarrative(response)
			assert.False(t, n.Fallback)
			assert.InDelta(t, tt.want, n.SuspicionScore, 0.001)
		})
	}
}

func TestParseNarrativeStringScore(t *testing.T) {
	response := `{"description": "d", "suspicion_score": "67.5", "narrative": "n"}`

	n := ParseNarrative(response)

	assert.False(t, n.Fallback)
	assert.InDelta(t, 67.5, n.SuspicionScore, 0.001)
}

func TestParseNarrativeNoJSON(t *testing.T) {
	n := ParseNarrative("The analysis is complete and everything looks normal.")

	assert.True(t, n.Fallback)
	assert.InDelta(t, 45.0, n.SuspicionScore, 0.001)
	assert.Contains(t, n.Description, "Enhanced transaction comparison analysis completed")
	assert.Contains(t, n.Text, "Z-score analysis and outlier identification")
}

func TestParseNarrativeMalformedJSON(t *testing.T) {
	n := ParseNarrative(`{"description": "d", "suspicion_score": 30, "narrative": `)

	assert.True(t, n.Fallback)
	assert.InDelta(t, 45.0, n.SuspicionScore, 0.001)
}

func TestParseNarrativeMissingKeys(t *testing.T) {
	n := ParseNarrative(`{"description": "d", "narrative": "n"}`)

	assert.True(t, n.Fallback)
	assert.InDelta(t, 45.0, n.SuspicionScore, 0.001)
}

func TestParseNarrativeUnusableScoreType(t *testing.T) {
	n := ParseNarrative(`{"description": "d", "suspicion_score": "very high", "narrative": "n"}`)

	assert.True(t, n.Fallback)
	assert.InDelta(t, 40.0, n.SuspicionScore, 0.001)
	assert.Equal(t, "Enhanced transaction comparison analysis completed with comprehensive historical data evaluation", n.Description)
}

func TestParseNarrativeNonStringFields(t *testing.T) {
	n := ParseNarrative(`{"description": 12, "suspicion_score": 30, "narrative": "n"}`)

	assert.True(t, n.Fallback)
	assert.InDelta(t, 40.0, n.SuspicionScore, 0.001)
}
