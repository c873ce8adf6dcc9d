package llm

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleVerdict struct {
	Verdict    string   `json:"verdict"`
	Confidence string   `json:"confidence"`
	RiskFlags  []string `json:"risk_flags,omitempty"`
	Score      *float64 `json:"score,omitempty"`
}

func TestGenerateSchema_StructFields(t *testing.T) {
	schema := GenerateSchema[sampleVerdict]()

	require.Equal(t, "object", schema.Type)
	assert.Equal(t, "string", schema.Properties["verdict"].Type)
	assert.Equal(t, "array", schema.Properties["risk_flags"].Type)
	assert.Equal(t, "string", schema.Properties["risk_flags"].Items.Type)
}

func TestGenerateSchema_OmitEmptyAndPointerFieldsAreNotRequired(t *testing.T) {
	schema := GenerateSchema[sampleVerdict]()

	assert.Contains(t, schema.Required, "verdict")
	assert.Contains(t, schema.Required, "confidence")
	assert.NotContains(t, schema.Required, "risk_flags")
	assert.NotContains(t, schema.Required, "score")
}

func TestSchema_JSONStringIsValidJSON(t *testing.T) {
	schema := GenerateSchema[sampleVerdict]()
	s := schema.JSONString()

	assert.True(t, json.Valid([]byte(s)))
	assert.Contains(t, s, `"type": "object"`)
}
