package types

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDurationUnmarshalYAML(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expected    time.Duration
		expectError bool
	}{
		{name: "seconds", input: `15s`, expected: 15 * time.Second},
		{name: "minutes", input: `10m`, expected: 10 * time.Minute},
		{name: "hours", input: `24h`, expected: 24 * time.Hour},
		{name: "compound", input: `1h30m`, expected: 90 * time.Minute},
		{name: "invalid", input: `soon`, expectError: true},
		{name: "bare number", input: `"42"`, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Duration
			err := yaml.Unmarshal([]byte(tt.input), &d)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, time.Duration(d))
		})
	}
}

func TestDurationUnmarshalJSON(t *testing.T) {
	var d Duration
	require.NoError(t, json.Unmarshal([]byte(`"30s"`), &d))
	assert.Equal(t, 30*time.Second, time.Duration(d))

	require.NoError(t, json.Unmarshal([]byte(`1000000000`), &d))
	assert.Equal(t, time.Second, time.Duration(d))

	assert.Error(t, json.Unmarshal([]byte(`"forever"`), &d))
	assert.Error(t, json.Unmarshal([]byte(`[1]`), &d))
}

func TestDurationMarshalRoundTrip(t *testing.T) {
	d := Duration(90 * time.Second)

	jsonData, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"1m30s"`, string(jsonData))

	yamlData, err := yaml.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, "1m30s\n", string(yamlData))
}

func TestRenderRequestUnmarshal(t *testing.T) {
	input := `{
		"request_id": "req-1",
		"options": {"title": "T", "env": {"A": 1}},
		"body": "<div id=\"app\">hello</div>",
		"head": [
			{"kind": "title", "text": "Override"},
			{"kind": "meta", "attrs": {"name": "description", "content": "D"}}
		]
	}`

	var req RenderRequest
	require.NoError(t, json.Unmarshal([]byte(input), &req))

	assert.Equal(t, "req-1", req.RequestID)
	assert.Equal(t, "T", req.Options.Title)
	assert.Equal(t, `<div id="app">hello</div>`, req.Body)
	require.Len(t, req.Head, 2)
	assert.Equal(t, "title", req.Head[0].Kind)
	assert.Equal(t, "Override", req.Head[0].Text)
	assert.Equal(t, "description", req.Head[1].Attrs["name"])
}

func TestRenderRequestUnmarshalStrictYAML(t *testing.T) {
	input := `
request_id: req-yaml
options:
  title: T
  visual_website_optimizer: true
body: "<div>hello</div>"
head:
  - kind: title
    text: Override
`

	// Strict decoding, as the render CLI reads request files
	decoder := yaml.NewDecoder(strings.NewReader(input))
	decoder.KnownFields(true)

	var req RenderRequest
	require.NoError(t, decoder.Decode(&req))

	assert.Equal(t, "req-yaml", req.RequestID)
	assert.Equal(t, "T", req.Options.Title)
	assert.True(t, req.Options.VisualWebsiteOptimizer.Enabled())
	assert.Equal(t, "<div>hello</div>", req.Body)
	require.Len(t, req.Head, 1)
	assert.Equal(t, "Override", req.Head[0].Text)
}
