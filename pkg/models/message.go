// Package models defines the conversation data model shared by the LLM
// gateway, the agent loop, and the API layer.
package models

import "github.com/google/uuid"

// Role identifies the sender of a conversation message.
type Role string

const (
	RoleSystem Role = "system"
	RoleUser   Role = "user"
	RoleAI     Role = "ai"
)

// Message is the closed set of conversation message variants.
// Handlers switch exhaustively over *SystemMessage, *UserMessage and
// *AIMessage; no other implementations exist.
type Message interface {
	messageRole() Role
}

// SystemMessage carries fixed instruction text for the model.
// If present, system messages precede all user/AI messages.
type SystemMessage struct {
	ID      string
	Content string
}

// UserMessage carries user input and, on tool-result turns, the results
// of the previous step's tool executions.
type UserMessage struct {
	ID          string
	Content     string
	ToolResults []ToolResult
}

// AIMessage is a model turn: text content, zero or more tool call
// requests, and optional reasoning emitted by the provider.
type AIMessage struct {
	ID               string
	Content          string
	ToolCallRequests []ToolCallRequest
	Reasoning        *Reasoning
}

// Reasoning holds provider-emitted reasoning attached to an AI message.
type Reasoning struct {
	ID        string
	Summaries []string
	Contents  []string
	Signature string
}

func (*SystemMessage) messageRole() Role { return RoleSystem }
func (*UserMessage) messageRole() Role   { return RoleUser }
func (*AIMessage) messageRole() Role     { return RoleAI }

// RoleOf returns the role tag for any message variant.
func RoleOf(m Message) Role { return m.messageRole() }

// NewSystemMessage creates a system message with a generated ID.
func NewSystemMessage(content string) *SystemMessage {
	return &SystemMessage{ID: uuid.New().String(), Content: content}
}

// NewUserMessage creates a user message with a generated ID.
func NewUserMessage(content string, results ...ToolResult) *UserMessage {
	return &UserMessage{ID: uuid.New().String(), Content: content, ToolResults: results}
}

// NewAIMessage creates an AI message with a generated ID.
func NewAIMessage(content string) *AIMessage {
	return &AIMessage{ID: uuid.New().String(), Content: content}
}

// HasToolCalls reports whether the AI message requests any tool executions.
func (m *AIMessage) HasToolCalls() bool {
	return len(m.ToolCallRequests) > 0
}
