package tools

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoerce(t *testing.T) {
	tests := []struct {
		name    string
		param   Param
		raw     any
		want    any
		wantErr bool
	}{
		{name: "string passthrough", param: Param{Name: "s", Type: TypeString}, raw: "hi", want: "hi"},
		{name: "number to string", param: Param{Name: "s", Type: TypeString}, raw: float64(5), want: "5"},
		{name: "json number to int", param: Param{Name: "n", Type: TypeInteger}, raw: float64(7), want: 7},
		{name: "numeric string to int", param: Param{Name: "n", Type: TypeInteger}, raw: "12", want: 12},
		{name: "fractional rejected as int", param: Param{Name: "n", Type: TypeInteger}, raw: 7.5, wantErr: true},
		{name: "int to float", param: Param{Name: "f", Type: TypeNumber}, raw: 3, want: 3.0},
		{name: "numeric string to float", param: Param{Name: "f", Type: TypeNumber}, raw: "2.5", want: 2.5},
		{name: "bool passthrough", param: Param{Name: "b", Type: TypeBoolean}, raw: true, want: true},
		{name: "string to bool", param: Param{Name: "b", Type: TypeBoolean}, raw: "true", want: true},
		{name: "bad bool string", param: Param{Name: "b", Type: TypeBoolean}, raw: "yep", wantErr: true},
		{name: "any slice to strings", param: Param{Name: "l", Type: TypeStringArray}, raw: []any{"a", "b"}, want: []string{"a", "b"}},
		{name: "single value to list", param: Param{Name: "l", Type: TypeStringArray}, raw: "solo", want: []string{"solo"}},
		{name: "mixed slice rejected", param: Param{Name: "l", Type: TypeStringArray}, raw: []any{"a", 1}, wantErr: true},
		{name: "object rejected as string", param: Param{Name: "s", Type: TypeString}, raw: map[string]any{}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := coerce(tt.param, tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuildArgs(t *testing.T) {
	params := []Param{
		{Name: "query", Type: TypeString, Required: true},
		{Name: "limit", Type: TypeInteger, Default: 5},
		{Name: "tags", Type: TypeStringArray},
	}

	t.Run("defaults applied and unknowns dropped", func(t *testing.T) {
		args, err := buildArgs(params, map[string]any{
			"query":   "suv under 20 lakh",
			"unknown": "ignored",
		})
		require.NoError(t, err)
		assert.Equal(t, "suv under 20 lakh", args.String("query"))
		assert.Equal(t, 5, args.Int("limit"))
		assert.False(t, args.Has("tags"))
		assert.False(t, args.Has("unknown"))
	})

	t.Run("missing required", func(t *testing.T) {
		_, err := buildArgs(params, map[string]any{"limit": float64(3)})
		require.Error(t, err)
		assert.Contains(t, err.Error(), `missing required parameter "query"`)
	})

	t.Run("nil treated as absent", func(t *testing.T) {
		args, err := buildArgs(params, map[string]any{"query": "x", "limit": nil})
		require.NoError(t, err)
		assert.Equal(t, 5, args.Int("limit"))
	})
}

func TestSchemaJSON(t *testing.T) {
	tool := New("search", "search the catalog", []Param{
		{Name: "query", Type: TypeString, Description: "free text", Required: true},
		{Name: "tags", Type: TypeStringArray, Description: "filter tags"},
		{Name: "limit", Type: TypeInteger, Description: "max results", Default: 5},
	}, nil)

	schema := tool.SchemaJSON()
	assert.Contains(t, schema, `"type":"object"`)
	assert.Contains(t, schema, `"required":["query"]`)
	assert.Contains(t, schema, `"items":{"type":"string"}`)
	assert.Contains(t, schema, `"default":5`)
}
