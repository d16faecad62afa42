package formatting

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"cmdbmcp/internal/api"
	"cmdbmcp/internal/capability"
)

func testDescriptors() []*capability.Descriptor {
	return []*capability.Descriptor{
		{
			Kind:        api.KindTool,
			Name:        "repeat",
			Description: "Repeat a message multiple times, separated by single spaces.",
			Args: []api.ArgMetadata{
				{Name: "message", Required: true},
				{Name: "times", Type: api.ArgTypeInteger, Default: 2},
			},
		},
		{
			Kind:        api.KindResource,
			Name:        "cmdb_product_lines",
			URI:         "cmdb://product-lines{?rows}",
			Description: "CMDB product line catalog.\nReturns {rows, products, raw}.",
			Remote:      true,
		},
	}
}

func TestPrettyJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    interface{}
		expected string
	}{
		{name: "object", input: map[string]interface{}{"rows": 5, "products": []interface{}{}}, expected: "{\n  \"products\": [],\n  \"rows\": 5\n}"},
		{name: "string", input: "hello", expected: "\"hello\""},
		{name: "nil", input: nil, expected: "null"},
		{name: "no html escaping", input: "rows=5&page=1", expected: "\"rows=5&page=1\""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, PrettyJSON(tt.input))
		})
	}

	assert.NotEmpty(t, PrettyJSON(make(chan int)), "unmarshalable values fall back to %v")
}

func TestNew(t *testing.T) {
	for _, format := range append(Formats, "") {
		f, err := New(Options{Format: format})
		require.NoError(t, err)
		assert.NotNil(t, f)
	}

	_, err := New(Options{Format: "xml"})
	assert.Error(t, err)
}

func TestSummarize(t *testing.T) {
	summaries := Summarize(testDescriptors())
	require.Len(t, summaries, 2)

	assert.Equal(t, "tool", summaries[0].Kind)
	assert.Equal(t, []ArgSummary{
		{Name: "message", Type: "string", Required: true},
		{Name: "times", Type: "integer", Default: 2},
	}, summaries[0].Args)
	assert.True(t, summaries[1].Remote)
	assert.Empty(t, summaries[1].Args)
}

func TestTableFormatter_Capabilities(t *testing.T) {
	var buf bytes.Buffer
	f, err := New(Options{Format: FormatTable, Writer: &buf})
	require.NoError(t, err)

	require.NoError(t, f.FormatCapabilities(testDescriptors()))
	out := buf.String()

	for _, want := range []string{"KIND", "NAME", "repeat", "message:string*, times:integer", "cmdb://product-lines{?rows}", "yes"} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "\x1b[", "colors are off unless requested")
	assert.Contains(t, out, "CMDB product line catalog. Returns", "descriptions are flattened to one line")
}

func TestTableFormatter_Empty(t *testing.T) {
	var buf bytes.Buffer
	f := &TableFormatter{options: Options{Writer: &buf}}

	require.NoError(t, f.FormatCapabilities(nil))
	assert.Equal(t, "No capabilities registered\n", buf.String())
}

func TestTableFormatter_Result(t *testing.T) {
	var buf bytes.Buffer
	f := &TableFormatter{options: Options{Writer: &buf}}

	require.NoError(t, f.FormatResult(map[string]interface{}{
		"total":   2,
		"domains": []interface{}{map[string]interface{}{"addr": "a.example.com"}},
	}))
	out := buf.String()
	assert.Less(t, strings.Index(out, "domains"), strings.Index(out, "total"), "keys are sorted")
	assert.Contains(t, out, `[ { "addr": "a.example.com" } ]`)

	buf.Reset()
	require.NoError(t, f.FormatResult([]interface{}{"a", "b"}))
	assert.Contains(t, buf.String(), "  1. a\n")
	assert.Contains(t, buf.String(), "Total: 2 items")

	buf.Reset()
	require.NoError(t, f.FormatResult("hi hi"))
	assert.Equal(t, "hi hi\n", buf.String())
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	f, err := New(Options{Format: FormatJSON, Writer: &buf})
	require.NoError(t, err)

	require.NoError(t, f.FormatCapabilities(testDescriptors()[:1]))
	assert.JSONEq(t, `[{
		"kind": "tool",
		"name": "repeat",
		"description": "Repeat a message multiple times, separated by single spaces.",
		"remote": false,
		"args": [
			{"name": "message", "type": "string", "required": true},
			{"name": "times", "type": "integer", "default": 2}
		]
	}]`, buf.String())
}

func TestYAMLFormatter(t *testing.T) {
	var buf bytes.Buffer
	f, err := New(Options{Format: FormatYAML, Writer: &buf})
	require.NoError(t, err)

	require.NoError(t, f.FormatResult(map[string]interface{}{"rows": 5, "products": []interface{}{}}))

	var decoded map[string]interface{}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, 5, decoded["rows"])
	assert.Equal(t, []interface{}{}, decoded["products"])

	buf.Reset()
	require.NoError(t, f.FormatCapabilities(testDescriptors()))
	assert.Contains(t, buf.String(), "name: cmdb_product_lines")
	assert.Contains(t, buf.String(), "remote: true")
}
