package llm

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/driveline-ai/driveline/pkg/models"
)

const defaultTimeout = 120 * time.Second

// OpenAIClient speaks the OpenAI-compatible chat-completions protocol.
// All requests use server-sent-event streaming; collecting a full turn is
// the gateway's job.
type OpenAIClient struct {
	cfg    Config
	http   *resty.Client
	logger *slog.Logger
}

// NewOpenAIClient builds a client for the configured provider endpoint.
func NewOpenAIClient(cfg Config) *OpenAIClient {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Authorization", "Bearer "+cfg.APIKey)
	return &OpenAIClient{
		cfg:    cfg,
		http:   client,
		logger: slog.Default().With("component", "llm"),
	}
}

// Close releases idle connections.
func (c *OpenAIClient) Close() error {
	c.http.GetClient().CloseIdleConnections()
	return nil
}

// Generate sends the conversation and returns a channel of stream chunks.
func (c *OpenAIClient) Generate(ctx context.Context, input *GenerateInput) (<-chan Chunk, error) {
	body, err := c.buildRequest(input)
	if err != nil {
		return nil, err
	}

	out := make(chan Chunk)
	go c.streamRequest(ctx, out, body)
	return out, nil
}

// Wire types for the chat-completions protocol.

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []wireMessage   `json:"messages"`
	Tools          []wireTool      `json:"tools,omitempty"`
	Temperature    *float64        `json:"temperature,omitempty"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	Stream         bool            `json:"stream"`
	StreamOptions  *streamOptions  `json:"stream_options,omitempty"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type streamOptions struct {
	IncludeUsage bool `json:"include_usage"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type wireMessage struct {
	Role       string         `json:"role"`
	Content    string         `json:"content"`
	ToolCalls  []wireToolCall `json:"tool_calls,omitempty"`
	ToolCallID string         `json:"tool_call_id,omitempty"`
}

type wireToolCall struct {
	ID       string       `json:"id"`
	Type     string       `json:"type"`
	Function wireFunction `json:"function"`
}

type wireFunction struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

type wireTool struct {
	Type     string      `json:"type"`
	Function wireToolDef `json:"function"`
}

type wireToolDef struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Parameters  json.RawMessage `json:"parameters"`
}

func (c *OpenAIClient) buildRequest(input *GenerateInput) (*chatRequest, error) {
	req := &chatRequest{
		Model:         c.cfg.Model,
		Messages:      toWireMessages(input.Messages),
		Temperature:   c.cfg.Temperature,
		MaxTokens:     c.cfg.MaxTokens,
		Stream:        true,
		StreamOptions: &streamOptions{IncludeUsage: true},
	}
	if input.JSONOnly {
		req.ResponseFormat = &responseFormat{Type: "json_object"}
	}
	for _, t := range input.Tools {
		if !json.Valid([]byte(t.ParametersSchema)) {
			return nil, fmt.Errorf("tool %q: invalid parameter schema", t.Name)
		}
		req.Tools = append(req.Tools, wireTool{
			Type: "function",
			Function: wireToolDef{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  json.RawMessage(t.ParametersSchema),
			},
		})
	}
	return req, nil
}

// toWireMessages flattens the message union onto the wire protocol. Tool
// results ride as role "tool" messages correlated by tool_call_id, placed
// before the user text of the message that carries them.
func toWireMessages(msgs []models.Message) []wireMessage {
	out := make([]wireMessage, 0, len(msgs))
	for _, m := range msgs {
		switch v := m.(type) {
		case *models.SystemMessage:
			out = append(out, wireMessage{Role: "system", Content: v.Content})
		case *models.UserMessage:
			for _, r := range v.ToolResults {
				out = append(out, wireMessage{
					Role:       "tool",
					Content:    r.Output,
					ToolCallID: r.ID,
				})
			}
			if v.Content != "" {
				out = append(out, wireMessage{Role: "user", Content: v.Content})
			}
		case *models.AIMessage:
			wm := wireMessage{Role: "assistant", Content: v.Content}
			for _, tc := range v.ToolCallRequests {
				wm.ToolCalls = append(wm.ToolCalls, wireToolCall{
					ID:   tc.ID,
					Type: "function",
					Function: wireFunction{
						Name:      tc.Name,
						Arguments: tc.RawInput,
					},
				})
			}
			out = append(out, wm)
		}
	}
	return out
}

// Stream wire types.

type chatStreamChunk struct {
	Choices []struct {
		Index int `json:"index"`
		Delta struct {
			Content   string `json:"content"`
			ToolCalls []struct {
				Index    int    `json:"index"`
				ID       string `json:"id"`
				Function struct {
					Name      string `json:"name"`
					Arguments string `json:"arguments"`
				} `json:"function"`
			} `json:"tool_calls"`
		} `json:"delta"`
		FinishReason *string `json:"finish_reason"`
	} `json:"choices"`
	Usage *struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

// pendingCall accumulates a tool call across argument deltas.
type pendingCall struct {
	id   string
	name string
	args strings.Builder
}

func (c *OpenAIClient) streamRequest(ctx context.Context, out chan<- Chunk, body *chatRequest) {
	defer close(out)

	resp, err := c.http.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		SetBody(body).
		Post("/chat/completions")
	if err != nil {
		send(ctx, out, &ErrorChunk{Message: fmt.Sprintf("request failed: %v", err)})
		return
	}
	raw := resp.RawBody()
	defer raw.Close()

	if resp.StatusCode() != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(raw, 4096))
		send(ctx, out, &ErrorChunk{
			Message:    fmt.Sprintf("provider error: %s", strings.TrimSpace(string(detail))),
			StatusCode: resp.StatusCode(),
		})
		return
	}

	calls := map[int]*pendingCall{}
	var usage *UsageChunk

	scanner := bufio.NewScanner(raw)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		data := strings.TrimPrefix(line, "data: ")
		if data == "[DONE]" {
			break
		}

		var chunk chatStreamChunk
		if err := json.Unmarshal([]byte(data), &chunk); err != nil {
			c.logger.Warn("skipping malformed stream event", "error", err)
			continue
		}

		if chunk.Usage != nil {
			usage = &UsageChunk{
				InputTokens:  chunk.Usage.PromptTokens,
				OutputTokens: chunk.Usage.CompletionTokens,
				TotalTokens:  chunk.Usage.TotalTokens,
			}
		}
		if len(chunk.Choices) == 0 {
			continue
		}
		delta := chunk.Choices[0].Delta
		if delta.Content != "" {
			if !send(ctx, out, &TextChunk{Content: delta.Content}) {
				return
			}
		}
		for _, tc := range delta.ToolCalls {
			p, ok := calls[tc.Index]
			if !ok {
				p = &pendingCall{}
				calls[tc.Index] = p
			}
			if tc.ID != "" {
				p.id = tc.ID
			}
			if tc.Function.Name != "" {
				p.name += tc.Function.Name
			}
			p.args.WriteString(tc.Function.Arguments)
		}
	}
	if err := scanner.Err(); err != nil {
		send(ctx, out, &ErrorChunk{Message: fmt.Sprintf("stream read failed: %v", err)})
		return
	}

	indices := make([]int, 0, len(calls))
	for i := range calls {
		indices = append(indices, i)
	}
	sort.Ints(indices)
	for _, i := range indices {
		p := calls[i]
		ok := send(ctx, out, &ToolCallChunk{
			CallID:    p.id,
			Name:      p.name,
			Arguments: p.args.String(),
		})
		if !ok {
			return
		}
	}
	if usage != nil {
		send(ctx, out, usage)
	}
}

// send delivers a chunk unless the context is cancelled first.
func send(ctx context.Context, out chan<- Chunk, c Chunk) bool {
	select {
	case out <- c:
		return true
	case <-ctx.Done():
		return false
	}
}
