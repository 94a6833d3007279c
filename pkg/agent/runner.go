// Package agent implements the streaming agent loop: repeated model turns
// and tool executions until the model produces a final answer.
package agent

import (
	"context"
	"log/slog"

	"github.com/driveline-ai/driveline/pkg/llm"
	"github.com/driveline-ai/driveline/pkg/models"
	"github.com/driveline-ai/driveline/pkg/tools"
)

// DefaultMaxIterations bounds the number of model turns in one Run. The
// cap is turn-fatal but conversation-recoverable: the turn ends with a
// synthetic final message and history stays usable.
const DefaultMaxIterations = 10

const capMessage = "I wasn't able to finish working on that request within my " +
	"step limit. Could you rephrase or narrow it down and try again?"

// ModelCaller is the slice of the LLM gateway the loop needs.
type ModelCaller interface {
	GetResponse(ctx context.Context, msgs []models.Message, tools []llm.ToolDefinition) (*models.AIMessage, error)
}

// Runner drives the agent loop against a model caller.
type Runner struct {
	gateway       ModelCaller
	maxIterations int
	logger        *slog.Logger
}

// NewRunner creates a runner. maxIterations <= 0 selects the default.
func NewRunner(gateway ModelCaller, maxIterations int) *Runner {
	if maxIterations <= 0 {
		maxIterations = DefaultMaxIterations
	}
	return &Runner{
		gateway:       gateway,
		maxIterations: maxIterations,
		logger:        slog.Default().With("component", "agent"),
	}
}

// Run executes one conversation turn and returns a lazy stream of complete
// AgentResponse snapshots. The last emission, and only the last, carries
// either FinalMessage or Err. Cancellation is caller-driven through ctx;
// the loop never blocks on send without also watching ctx.Done().
func (r *Runner) Run(ctx context.Context, userInput string, history []models.Message, registry *tools.Registry, instruction string) <-chan models.AgentResponse {
	out := make(chan models.AgentResponse)
	go func() {
		defer close(out)
		r.run(ctx, out, userInput, history, registry, instruction)
	}()
	return out
}

func (r *Runner) run(ctx context.Context, out chan<- models.AgentResponse, userInput string, history []models.Message, registry *tools.Registry, instruction string) {
	msgs := make([]models.Message, 0, len(history)+2)
	if instruction != "" {
		msgs = append(msgs, models.NewSystemMessage(instruction))
	}
	msgs = append(msgs, history...)
	msgs = append(msgs, models.NewUserMessage(userInput))

	defs := Definitions(registry)
	var steps []models.AgentStep
	var turnMsgs []models.Message

	emit := func(resp models.AgentResponse) bool {
		resp.Steps = models.Snapshot(steps)
		select {
		case out <- resp:
			return true
		case <-ctx.Done():
			return false
		}
	}

	for iteration := 1; iteration <= r.maxIterations; iteration++ {
		ai, err := r.gateway.GetResponse(ctx, msgs, defs)
		if err != nil {
			r.logger.Error("model call failed", "iteration", iteration, "error", err)
			emit(models.AgentResponse{Err: err})
			return
		}

		if !ai.HasToolCalls() {
			emit(models.AgentResponse{FinalMessage: ai, TurnMessages: turnMsgs})
			return
		}

		// Model responded with tool calls: open a pending step.
		steps = append(steps, models.AgentStep{Status: models.StepStatusPending})
		if !emit(models.AgentResponse{}) {
			return
		}

		// Execute sequentially in the model's listed order. Each call is
		// isolated; a failure becomes a FAILURE result, never an abort.
		step := &steps[len(steps)-1]
		for _, req := range ai.ToolCallRequests {
			result := registry.Invoke(ctx, req)
			if !result.OK() {
				r.logger.Warn("tool call failed", "tool", req.Name, "output", result.Output)
			}
			step.ToolResults = append(step.ToolResults, result)
			if !emit(models.AgentResponse{}) {
				return
			}
		}
		step.Status = models.StepStatusDone
		if !emit(models.AgentResponse{}) {
			return
		}

		results := models.NewUserMessage("", step.ToolResults...)
		msgs = append(msgs, ai, results)
		turnMsgs = append(turnMsgs, ai, results)
	}

	r.logger.Warn("iteration cap reached", "max", r.maxIterations)
	emit(models.AgentResponse{FinalMessage: models.NewAIMessage(capMessage), TurnMessages: turnMsgs})
}

// Definitions renders a registry's tools as LLM tool definitions, sorted
// by name.
func Definitions(registry *tools.Registry) []llm.ToolDefinition {
	list := registry.List()
	defs := make([]llm.ToolDefinition, 0, len(list))
	for _, t := range list {
		defs = append(defs, llm.ToolDefinition{
			Name:             t.Name(),
			Description:      t.Description(),
			ParametersSchema: t.SchemaJSON(),
		})
	}
	return defs
}
