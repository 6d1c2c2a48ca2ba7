package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSchema_SimpleStruct(t *testing.T) {
	type SimpleConfig struct {
		Prompt string `json:"prompt"`
		Limit  int    `json:"limit"`
	}

	schema, err := GenerateSchema(SimpleConfig{})
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(schema, &decoded))

	assert.Contains(t, string(schema), "prompt")
	assert.Contains(t, string(schema), "limit")
}

func TestRuntimeConfigSchema(t *testing.T) {
	schema, err := RuntimeConfigSchema()
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(schema, &decoded))

	props, ok := decoded["properties"].(map[string]any)
	require.True(t, ok, "expanded struct should expose properties at the top level")
	assert.Contains(t, props, "runtime_home")
	assert.Contains(t, props, "sys_image")
	assert.Contains(t, props, "lib_path")

	home := props["runtime_home"].(map[string]any)
	assert.Equal(t, "Runtime home", home["title"])

	required, ok := decoded["required"].([]any)
	require.True(t, ok)
	assert.Equal(t, []any{"runtime_home"}, required)
}
