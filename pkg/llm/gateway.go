package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/driveline-ai/driveline/pkg/models"
)

// Gateway layers the four response modes over a streaming Client.
type Gateway struct {
	client Client
	logger *slog.Logger
}

// NewGateway wraps a transport client.
func NewGateway(client Client) *Gateway {
	return &Gateway{
		client: client,
		logger: slog.Default().With("component", "llm.gateway"),
	}
}

// Close closes the underlying client.
func (g *Gateway) Close() error { return g.client.Close() }

// GetResponse collects one full model turn. Function-call directives become
// ToolCallRequests on the returned message; content may be empty when the
// model only requests tools.
func (g *Gateway) GetResponse(ctx context.Context, msgs []models.Message, tools []ToolDefinition) (*models.AIMessage, error) {
	chunks, err := g.client.Generate(ctx, &GenerateInput{Messages: msgs, Tools: tools})
	if err != nil {
		return nil, &TransportError{Message: err.Error()}
	}
	return collect(ctx, chunks)
}

// StructuredResponse asks for a JSON object and decodes it into T. The
// optional validate func rejects well-formed but out-of-contract values.
// On a parse or validation failure the request is retried once with the
// invalid reply and a corrective user note appended; a second failure
// yields a *SchemaError.
func StructuredResponse[T any](ctx context.Context, g *Gateway, msgs []models.Message, validate func(T) error) (T, error) {
	var zero T

	attempt := msgs
	var lastRaw string
	var lastErr error
	for i := 0; i < 2; i++ {
		chunks, err := g.client.Generate(ctx, &GenerateInput{Messages: attempt, JSONOnly: true})
		if err != nil {
			return zero, &TransportError{Message: err.Error()}
		}
		ai, err := collect(ctx, chunks)
		if err != nil {
			return zero, err
		}
		lastRaw = ai.Content

		var out T
		decodeErr := json.Unmarshal([]byte(stripFences(ai.Content)), &out)
		if decodeErr == nil && validate != nil {
			decodeErr = validate(out)
		}
		if decodeErr == nil {
			return out, nil
		}
		lastErr = decodeErr
		if i == 0 {
			g.logger.Warn("structured output invalid, retrying with corrective note", "error", decodeErr)
			// The note rides as a user turn so system messages keep their
			// place at the front of the conversation.
			note := models.NewUserMessage(fmt.Sprintf(
				"Your previous reply was not valid for the requested JSON contract (%v). Reply again with only a single valid JSON object.",
				decodeErr))
			attempt = append(append([]models.Message{}, msgs...), ai, note)
		}
	}
	return zero, &SchemaError{Raw: lastRaw, Err: lastErr}
}

// StreamEvent is one emission of StreamResponse. Err is set only on the
// terminal emission, when the provider aborted the turn; every other
// event carries a message snapshot.
type StreamEvent struct {
	Message *models.AIMessage
	Err     error
}

// StreamResponse streams cumulative snapshots of the model turn: every
// emitted message carries all content received so far, and the final
// emission additionally carries any tool call requests. A provider abort
// ends the stream with an event whose Err is a *TransportError. The
// channel is closed when the turn completes or ctx is cancelled.
func (g *Gateway) StreamResponse(ctx context.Context, msgs []models.Message) (<-chan StreamEvent, error) {
	chunks, err := g.client.Generate(ctx, &GenerateInput{Messages: msgs})
	if err != nil {
		return nil, &TransportError{Message: err.Error()}
	}

	out := make(chan StreamEvent)
	go func() {
		defer close(out)
		msg := models.NewAIMessage("")
		var content strings.Builder
		for chunk := range chunks {
			switch c := chunk.(type) {
			case *TextChunk:
				content.WriteString(c.Content)
				snapshot := *msg
				snapshot.Content = content.String()
				select {
				case out <- StreamEvent{Message: &snapshot}:
				case <-ctx.Done():
					return
				}
			case *ToolCallChunk:
				req := models.ToolCallRequest{ID: c.CallID, Name: c.Name, RawInput: c.Arguments}
				var input map[string]any
				if json.Unmarshal([]byte(c.Arguments), &input) == nil {
					req.Input = input
				}
				msg.ToolCallRequests = append(msg.ToolCallRequests, req)
			case *ErrorChunk:
				g.logger.Error("stream aborted by provider", "error", c.Message)
				select {
				case out <- StreamEvent{Err: &TransportError{Message: c.Message, StatusCode: c.StatusCode}}:
				case <-ctx.Done():
				}
				return
			}
		}
		if len(msg.ToolCallRequests) > 0 {
			snapshot := *msg
			snapshot.Content = content.String()
			select {
			case out <- StreamEvent{Message: &snapshot}:
			case <-ctx.Done():
			}
		}
	}()
	return out, nil
}

// StructuredEvent is one emission of StructuredStreamResponse. Err is set
// only on the terminal emission, when the provider aborted the turn.
type StructuredEvent[T any] struct {
	Value T
	Err   error
}

// StructuredStreamResponse streams cumulative best-effort decodings of T.
// Each text delta is appended, the partial JSON is repaired to a
// syntactically closed document and decoded; snapshots that do not decode
// are skipped. A provider abort ends the stream with an event whose Err
// is a *TransportError. The final state of the stream is the last
// emitted value.
func StructuredStreamResponse[T any](ctx context.Context, g *Gateway, msgs []models.Message) (<-chan StructuredEvent[T], error) {
	chunks, err := g.client.Generate(ctx, &GenerateInput{Messages: msgs, JSONOnly: true})
	if err != nil {
		return nil, &TransportError{Message: err.Error()}
	}

	out := make(chan StructuredEvent[T])
	go func() {
		defer close(out)
		var content strings.Builder
		for chunk := range chunks {
			switch c := chunk.(type) {
			case *TextChunk:
				content.WriteString(c.Content)
				repaired := repairJSON(stripFences(content.String()))
				var v T
				if err := json.Unmarshal([]byte(repaired), &v); err != nil {
					continue
				}
				select {
				case out <- StructuredEvent[T]{Value: v}:
				case <-ctx.Done():
					return
				}
			case *ErrorChunk:
				g.logger.Error("stream aborted by provider", "error", c.Message)
				select {
				case out <- StructuredEvent[T]{Err: &TransportError{Message: c.Message, StatusCode: c.StatusCode}}:
				case <-ctx.Done():
				}
				return
			}
		}
	}()
	return out, nil
}

// collect drains a chunk stream into one AIMessage.
func collect(ctx context.Context, chunks <-chan Chunk) (*models.AIMessage, error) {
	msg := models.NewAIMessage("")
	var content strings.Builder
	for chunk := range chunks {
		switch c := chunk.(type) {
		case *TextChunk:
			content.WriteString(c.Content)
		case *ToolCallChunk:
			req := models.ToolCallRequest{
				ID:       c.CallID,
				Name:     c.Name,
				RawInput: c.Arguments,
			}
			var input map[string]any
			if json.Unmarshal([]byte(c.Arguments), &input) == nil {
				req.Input = input
			}
			msg.ToolCallRequests = append(msg.ToolCallRequests, req)
		case *ErrorChunk:
			return nil, &TransportError{Message: c.Message, StatusCode: c.StatusCode}
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, &TransportError{Message: err.Error()}
	}
	msg.Content = content.String()
	return msg, nil
}

// stripFences removes a markdown code fence wrapper if the model added one
// despite the JSON-only instruction.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
