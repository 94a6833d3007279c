package api

import (
	"time"

	"github.com/driveline-ai/driveline/pkg/models"
	"github.com/driveline-ai/driveline/pkg/session"
)

// ChatEvent is one SSE payload: a complete snapshot of the turn so far.
type ChatEvent struct {
	SessionID    string     `json:"session_id"`
	Steps        []StepView `json:"steps"`
	FinalMessage string     `json:"final_message,omitempty"`
	Error        string     `json:"error,omitempty"`
	Done         bool       `json:"done,omitempty"`
}

// StepView is one agent-loop iteration.
type StepView struct {
	Status      models.StepStatus `json:"status"`
	ToolResults []ToolResultView  `json:"tool_results"`
}

// ToolResultView is the outcome of one tool execution.
type ToolResultView struct {
	Name     string            `json:"name"`
	Status   models.ToolStatus `json:"status"`
	Output   string            `json:"output"`
	Metadata map[string]any    `json:"metadata,omitempty"`
}

func toChatEvent(sessionID string, resp models.AgentResponse) ChatEvent {
	ev := ChatEvent{SessionID: sessionID, Steps: make([]StepView, len(resp.Steps))}
	for i, step := range resp.Steps {
		view := StepView{Status: step.Status, ToolResults: make([]ToolResultView, len(step.ToolResults))}
		for j, r := range step.ToolResults {
			view.ToolResults[j] = ToolResultView{
				Name:     r.Name,
				Status:   r.Status,
				Output:   r.Output,
				Metadata: r.Metadata,
			}
		}
		ev.Steps[i] = view
	}
	if resp.FinalMessage != nil {
		ev.FinalMessage = resp.FinalMessage.Content
		ev.Done = true
	}
	if resp.Err != nil {
		ev.Error = resp.Err.Error()
		ev.Done = true
	}
	return ev
}

// SessionView is the list/detail representation of a session.
type SessionView struct {
	ID        string         `json:"id"`
	Status    session.Status `json:"status"`
	Turns     int            `json:"turns"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	Error     string         `json:"error,omitempty"`
	Messages  []MessageView  `json:"messages,omitempty"`
}

// MessageView is one history entry.
type MessageView struct {
	Role    models.Role `json:"role"`
	Content string      `json:"content"`
}

func toSessionView(s *session.Session, withHistory bool) SessionView {
	view := SessionView{
		ID:        s.ID,
		Status:    s.Status,
		Turns:     s.Turns(),
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
		Error:     s.Error,
	}
	if !withHistory {
		return view
	}
	for _, m := range s.History() {
		switch msg := m.(type) {
		case *models.UserMessage:
			view.Messages = append(view.Messages, MessageView{Role: models.RoleUser, Content: msg.Content})
		case *models.AIMessage:
			view.Messages = append(view.Messages, MessageView{Role: models.RoleAI, Content: msg.Content})
		case *models.SystemMessage:
			view.Messages = append(view.Messages, MessageView{Role: models.RoleSystem, Content: msg.Content})
		}
	}
	return view
}
