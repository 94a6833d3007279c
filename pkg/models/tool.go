package models

// ToolStatus is the outcome of a tool execution.
type ToolStatus string

const (
	ToolStatusSuccess ToolStatus = "success"
	ToolStatusFailure ToolStatus = "failure"
)

// ToolCallRequest is the model's request to invoke a named tool.
// Created by the LLM gateway when the provider emits a function-call
// directive; consumed exactly once by the agent loop; never mutated.
type ToolCallRequest struct {
	// ID is unique per request, assigned by the provider.
	ID string
	// Name must match a registered tool.
	Name string
	// Input is the parsed argument mapping. nil when RawInput did not parse.
	Input map[string]any
	// RawInput is the unparsed argument source, kept for diagnostics.
	RawInput string
}

// ToolResult is the outcome of executing a single tool call.
// Appended to the next user-role message sent back to the model.
type ToolResult struct {
	// ID correlates to the originating ToolCallRequest. Empty for ad hoc
	// invocations.
	ID       string
	Name     string
	Input    map[string]any
	RawInput string
	// Output is the tool's text output, or the failure message.
	Output   string
	Status   ToolStatus
	Metadata map[string]any
}

// OK reports whether the execution succeeded.
func (r ToolResult) OK() bool { return r.Status == ToolStatusSuccess }
