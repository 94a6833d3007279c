package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/driveline-ai/driveline/pkg/llm"
	"github.com/driveline-ai/driveline/pkg/models"
	"github.com/driveline-ai/driveline/pkg/tools"
)

// scriptedCaller returns pre-baked model turns in order.
type scriptedCaller struct {
	turns []*models.AIMessage
	err   error // returned once all turns are consumed
	calls int
}

func (s *scriptedCaller) GetResponse(_ context.Context, _ []models.Message, _ []llm.ToolDefinition) (*models.AIMessage, error) {
	s.calls++
	if len(s.turns) == 0 {
		if s.err != nil {
			return nil, s.err
		}
		return models.NewAIMessage("done"), nil
	}
	turn := s.turns[0]
	s.turns = s.turns[1:]
	return turn, nil
}

func toolTurn(reqs ...models.ToolCallRequest) *models.AIMessage {
	msg := models.NewAIMessage("")
	msg.ToolCallRequests = reqs
	return msg
}

func recordingRegistry(t *testing.T, order *[]string) *tools.Registry {
	t.Helper()
	reg := tools.NewRegistry()
	for _, name := range []string{"alpha", "beta", "gamma"} {
		name := name
		reg.MustRegister(tools.New(name, name+" tool", nil, func(_ context.Context, _ tools.Args) (string, error) {
			*order = append(*order, name)
			return name + " ok", nil
		}))
	}
	reg.MustRegister(tools.New("broken", "always fails", nil, func(_ context.Context, _ tools.Args) (string, error) {
		*order = append(*order, "broken")
		return "", errors.New("backend down")
	}))
	return reg
}

func drain(ch <-chan models.AgentResponse) []models.AgentResponse {
	var out []models.AgentResponse
	for resp := range ch {
		out = append(out, resp)
	}
	return out
}

func TestRun_DirectFinal(t *testing.T) {
	caller := &scriptedCaller{turns: []*models.AIMessage{models.NewAIMessage("hello there")}}
	runner := NewRunner(caller, 0)

	responses := drain(runner.Run(context.Background(), "hi", nil, tools.NewRegistry(), "be helpful"))

	require.Len(t, responses, 1)
	require.NotNil(t, responses[0].FinalMessage)
	assert.Equal(t, "hello there", responses[0].FinalMessage.Content)
	assert.Empty(t, responses[0].Steps)
	assert.Empty(t, responses[0].TurnMessages)
}

func TestRun_ToolFlowOrderingAndFinalEmission(t *testing.T) {
	var order []string
	reg := recordingRegistry(t, &order)

	caller := &scriptedCaller{turns: []*models.AIMessage{
		toolTurn(
			models.ToolCallRequest{ID: "c1", Name: "alpha"},
			models.ToolCallRequest{ID: "c2", Name: "beta"},
			models.ToolCallRequest{ID: "c3", Name: "gamma"},
		),
		models.NewAIMessage("all done"),
	}}
	runner := NewRunner(caller, 0)

	responses := drain(runner.Run(context.Background(), "do things", nil, reg, ""))

	// Execution order matches the model's listed order.
	assert.Equal(t, []string{"alpha", "beta", "gamma"}, order)

	// Only the last emission carries the final message.
	for i, resp := range responses[:len(responses)-1] {
		assert.Nil(t, resp.FinalMessage, "emission %d must not be final", i)
		assert.NoError(t, resp.Err)
	}
	last := responses[len(responses)-1]
	require.NotNil(t, last.FinalMessage)
	assert.Equal(t, "all done", last.FinalMessage.Content)

	// In the final snapshot every step is done and results follow request order.
	require.Len(t, last.Steps, 1)
	step := last.Steps[0]
	assert.Equal(t, models.StepStatusDone, step.Status)
	require.Len(t, step.ToolResults, 3)
	assert.Equal(t, "c1", step.ToolResults[0].ID)
	assert.Equal(t, "c2", step.ToolResults[1].ID)
	assert.Equal(t, "c3", step.ToolResults[2].ID)

	// The final emission hands back the turn's conversation messages so
	// the caller can persist the tool exchange into history.
	require.Len(t, last.TurnMessages, 2)
	ai, ok := last.TurnMessages[0].(*models.AIMessage)
	require.True(t, ok)
	assert.Len(t, ai.ToolCallRequests, 3)
	results, ok := last.TurnMessages[1].(*models.UserMessage)
	require.True(t, ok)
	require.Len(t, results.ToolResults, 3)
	assert.Equal(t, "c1", results.ToolResults[0].ID)
}

func TestRun_SnapshotsAreCumulativeAndImmutable(t *testing.T) {
	var order []string
	reg := recordingRegistry(t, &order)

	caller := &scriptedCaller{turns: []*models.AIMessage{
		toolTurn(models.ToolCallRequest{ID: "c1", Name: "alpha"}),
		models.NewAIMessage("done"),
	}}
	runner := NewRunner(caller, 0)

	responses := drain(runner.Run(context.Background(), "go", nil, reg, ""))

	// First emission opened the pending step with no results yet; it must
	// still look that way after later emissions filled the step in.
	require.GreaterOrEqual(t, len(responses), 3)
	require.Len(t, responses[0].Steps, 1)
	assert.Equal(t, models.StepStatusPending, responses[0].Steps[0].Status)
	assert.Empty(t, responses[0].Steps[0].ToolResults)

	require.Len(t, responses[1].Steps, 1)
	assert.Len(t, responses[1].Steps[0].ToolResults, 1)
}

func TestRun_ToolFailureIsIsolated(t *testing.T) {
	var order []string
	reg := recordingRegistry(t, &order)

	caller := &scriptedCaller{turns: []*models.AIMessage{
		toolTurn(
			models.ToolCallRequest{ID: "c1", Name: "broken"},
			models.ToolCallRequest{ID: "c2", Name: "beta"},
		),
		models.NewAIMessage("handled it"),
	}}
	runner := NewRunner(caller, 0)

	responses := drain(runner.Run(context.Background(), "go", nil, reg, ""))

	assert.Equal(t, []string{"broken", "beta"}, order)
	last := responses[len(responses)-1]
	require.NotNil(t, last.FinalMessage)
	require.Len(t, last.Steps, 1)
	results := last.Steps[0].ToolResults
	require.Len(t, results, 2)
	assert.Equal(t, models.ToolStatusFailure, results[0].Status)
	assert.Equal(t, "backend down", results[0].Output)
	assert.Equal(t, models.ToolStatusSuccess, results[1].Status)
}

func TestRun_UnknownToolBecomesFailureResult(t *testing.T) {
	caller := &scriptedCaller{turns: []*models.AIMessage{
		toolTurn(models.ToolCallRequest{ID: "c1", Name: "no_such_tool"}),
		models.NewAIMessage("recovered"),
	}}
	runner := NewRunner(caller, 0)

	responses := drain(runner.Run(context.Background(), "go", nil, tools.NewRegistry(), ""))

	last := responses[len(responses)-1]
	require.NotNil(t, last.FinalMessage)
	require.Len(t, last.Steps, 1)
	require.Len(t, last.Steps[0].ToolResults, 1)
	assert.Equal(t, models.ToolStatusFailure, last.Steps[0].ToolResults[0].Status)
}

func TestRun_IterationCapTerminates(t *testing.T) {
	var order []string
	reg := recordingRegistry(t, &order)

	// The model asks for a tool on every turn, forever.
	caller := &endlessToolCaller{}
	runner := NewRunner(caller, 3)

	responses := drain(runner.Run(context.Background(), "loop", nil, reg, ""))

	assert.Equal(t, 3, caller.calls)
	last := responses[len(responses)-1]
	require.NotNil(t, last.FinalMessage)
	assert.Contains(t, last.FinalMessage.Content, "step limit")
	assert.Len(t, last.Steps, 3)
	for _, step := range last.Steps {
		assert.Equal(t, models.StepStatusDone, step.Status)
	}
	assert.Len(t, last.TurnMessages, 6, "each capped iteration still contributes its exchange")
}

type endlessToolCaller struct{ calls int }

func (e *endlessToolCaller) GetResponse(_ context.Context, _ []models.Message, _ []llm.ToolDefinition) (*models.AIMessage, error) {
	e.calls++
	return toolTurn(models.ToolCallRequest{ID: "c", Name: "alpha"}), nil
}

func TestRun_TransportErrorEndsTurn(t *testing.T) {
	caller := &scriptedCaller{err: &llm.TransportError{Message: "connection refused"}}
	runner := NewRunner(caller, 0)

	responses := drain(runner.Run(context.Background(), "hi", nil, tools.NewRegistry(), ""))

	require.Len(t, responses, 1)
	require.Error(t, responses[0].Err)
	var te *llm.TransportError
	assert.True(t, errors.As(responses[0].Err, &te))
	assert.Nil(t, responses[0].FinalMessage)
}

func TestRun_CancellationStopsStream(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	caller := &endlessToolCaller{}
	var order []string
	reg := recordingRegistry(t, &order)
	runner := NewRunner(caller, DefaultMaxIterations)

	stream := runner.Run(ctx, "loop", nil, reg, "")
	<-stream // consume one snapshot, then walk away
	cancel()

	// The stream must close rather than block forever on send.
	for range stream {
	}
}

func TestDefinitions(t *testing.T) {
	reg := tools.NewRegistry()
	reg.MustRegister(tools.New("zeta", "z tool", nil, nil))
	reg.MustRegister(tools.New("alpha", "a tool", []tools.Param{
		{Name: "q", Type: tools.TypeString, Description: "query", Required: true},
	}, nil))

	defs := Definitions(reg)
	require.Len(t, defs, 2)
	assert.Equal(t, "alpha", defs[0].Name)
	assert.Equal(t, "zeta", defs[1].Name)
	assert.Contains(t, defs[0].ParametersSchema, `"required":["q"]`)
}
