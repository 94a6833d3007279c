// Package llm provides the gateway to an OpenAI-compatible chat-completions
// provider: a channel-based streaming client plus higher-level response
// modes (single, structured, streaming, structured streaming).
package llm

import (
	"context"
	"time"

	"github.com/driveline-ai/driveline/pkg/models"
)

// Config holds provider connection settings for one model.
type Config struct {
	BaseURL     string        `yaml:"base_url"`
	APIKey      string        `yaml:"api_key"`
	Model       string        `yaml:"model"`
	Temperature *float64      `yaml:"temperature,omitempty"`
	MaxTokens   int           `yaml:"max_tokens,omitempty"`
	Timeout     time.Duration `yaml:"timeout,omitempty"`
}

// Client is the transport-level interface to the LLM provider.
type Client interface {
	// Generate sends a conversation to the LLM and returns a stream of chunks.
	// The returned channel is closed when the stream completes. Provider
	// errors are delivered as ErrorChunk values in the channel.
	Generate(ctx context.Context, input *GenerateInput) (<-chan Chunk, error)

	// Close releases the underlying connection resources.
	Close() error
}

// GenerateInput is one Generate request.
type GenerateInput struct {
	Messages []models.Message
	Tools    []ToolDefinition // nil = no tools
	// JSONOnly asks the provider to constrain output to a JSON object.
	JSONOnly bool
}

// ToolDefinition describes a tool available to the LLM.
type ToolDefinition struct {
	Name             string
	Description      string
	ParametersSchema string // JSON Schema
}

// Chunk is the interface for all streaming chunk types.
type Chunk interface {
	chunkType() ChunkType
}

// ChunkType identifies the kind of streaming chunk.
type ChunkType string

const (
	ChunkTypeText     ChunkType = "text"
	ChunkTypeToolCall ChunkType = "tool_call"
	ChunkTypeUsage    ChunkType = "usage"
	ChunkTypeError    ChunkType = "error"
)

// TextChunk is a delta of the LLM's text response.
type TextChunk struct{ Content string }

// ToolCallChunk is a completed tool call request, emitted once the
// provider's argument deltas for that call have been fully accumulated.
type ToolCallChunk struct{ CallID, Name, Arguments string }

// UsageChunk reports token consumption for this LLM call.
type UsageChunk struct{ InputTokens, OutputTokens, TotalTokens int }

// ErrorChunk signals an error from the LLM provider.
type ErrorChunk struct {
	Message    string
	StatusCode int
}

func (c *TextChunk) chunkType() ChunkType     { return ChunkTypeText }
func (c *ToolCallChunk) chunkType() ChunkType { return ChunkTypeToolCall }
func (c *UsageChunk) chunkType() ChunkType    { return ChunkTypeUsage }
func (c *ErrorChunk) chunkType() ChunkType    { return ChunkTypeError }
