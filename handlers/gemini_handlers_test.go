package handlers

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"app/models"
)

func TestExtractJSON(t *testing.T) {
	raw := "Sure! Here is the analysis:\n```json\n{\"summary\":\"ok\"}\n```"
	assert.Equal(t, `{"summary":"ok"}`, extractJSON(raw))

	assert.Equal(t, "", extractJSON("no json here"))
	assert.Equal(t, "", extractJSON("} backwards {"))
}

func TestParseNarrativeResponseEmpty(t *testing.T) {
	_, err := parseNarrativeResponse(nil)
	assert.Error(t, err)
}

func TestConstructNarrativePrompt(t *testing.T) {
	p := models.ProfitPrediction{SevenDay: 700, ThirtyDay: 3000, Confidence: "High", ExpenseForecast: 450}
	prompt := constructNarrativePrompt(p, 42)
	assert.True(t, strings.Contains(prompt, "3000.00"))
	assert.True(t, strings.Contains(prompt, "High"))
	assert.True(t, strings.Contains(prompt, "42 transactions"))
}
