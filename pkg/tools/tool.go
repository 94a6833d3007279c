// Package tools implements the tool abstraction exposed to the language
// model: named callables with a parameter schema, collected in a registry
// and invoked with validated, coerced arguments.
package tools

import (
	"context"
	"encoding/json"
	"fmt"
)

// ParamType enumerates the argument types a tool parameter can declare.
type ParamType string

const (
	TypeString      ParamType = "string"
	TypeInteger     ParamType = "integer"
	TypeNumber      ParamType = "number"
	TypeBoolean     ParamType = "boolean"
	TypeStringArray ParamType = "string_array"
)

// Param declares one tool parameter. A parameter is required unless it
// carries a default.
type Param struct {
	Name        string
	Type        ParamType
	Description string
	Required    bool
	Default     any
}

// Func is the signature of a wrapped tool function. The returned string is
// the tool output fed back to the model; a non-nil error marks the call as
// failed without aborting the turn.
type Func func(ctx context.Context, args Args) (string, error)

// Tool is an immutable named callable with a schema derived from its
// declared parameters. Built once at startup via New; registration is an
// explicit call, not an annotation.
type Tool struct {
	name        string
	description string
	params      []Param
	fn          Func
}

// New builds a Tool from an explicit parameter spec and callable.
func New(name, description string, params []Param, fn Func) Tool {
	return Tool{name: name, description: description, params: params, fn: fn}
}

// Name returns the tool's unique key.
func (t Tool) Name() string { return t.name }

// Description returns the natural-language description consumed by the
// model for tool selection.
func (t Tool) Description() string { return t.description }

// Params returns the declared parameter spec.
func (t Tool) Params() []Param { return t.params }

// SchemaJSON renders the parameter spec as a JSON Schema object string.
func (t Tool) SchemaJSON() string {
	properties := make(map[string]any, len(t.params))
	var required []string
	for _, p := range t.params {
		prop := map[string]any{"description": p.Description}
		switch p.Type {
		case TypeStringArray:
			prop["type"] = "array"
			prop["items"] = map[string]any{"type": "string"}
		default:
			prop["type"] = string(p.Type)
		}
		if p.Default != nil {
			prop["default"] = p.Default
		}
		properties[p.Name] = prop
		if p.Required {
			required = append(required, p.Name)
		}
	}
	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	out, err := json.Marshal(schema)
	if err != nil {
		// Schema values are plain maps of JSON-safe types; this cannot fail.
		panic(fmt.Sprintf("tools: marshal schema for %s: %v", t.name, err))
	}
	return string(out)
}
