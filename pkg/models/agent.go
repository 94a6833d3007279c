package models

// StepStatus tracks whether all tool results of a step are populated.
type StepStatus string

const (
	StepStatusPending StepStatus = "pending"
	StepStatusDone    StepStatus = "done"
)

// AgentStep is one iteration of the agent loop: the tool results produced
// while servicing one model turn. Steps accumulate across a turn and are
// never removed.
type AgentStep struct {
	ToolResults []ToolResult
	Status      StepStatus
}

// AgentResponse is the unit streamed to the caller: a complete snapshot of
// all steps so far. FinalMessage is set only on the terminal emission, once
// the model produced a turn with no pending tool calls. Err is set instead
// when the turn was aborted by a transport-level failure.
//
// TurnMessages accompanies FinalMessage: the intermediate conversation
// messages the turn produced, in order — each assistant tool-call turn
// followed by the user message carrying its tool results. Callers that
// persist history must keep them so later turns see the tool exchanges.
type AgentResponse struct {
	Steps        []AgentStep
	TurnMessages []Message
	FinalMessage *AIMessage
	Err          error
}

// Snapshot deep-copies the step list so emitted responses stay immutable
// while the loop keeps appending.
func Snapshot(steps []AgentStep) []AgentStep {
	out := make([]AgentStep, len(steps))
	for i, s := range steps {
		results := make([]ToolResult, len(s.ToolResults))
		copy(results, s.ToolResults)
		out[i] = AgentStep{ToolResults: results, Status: s.Status}
	}
	return out
}
