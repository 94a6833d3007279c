package session

import (
	"context"
	"sync"
	"time"

	"github.com/driveline-ai/driveline/pkg/models"
)

// Status represents the current state of a session's latest turn
type Status string

const (
	StatusIdle       Status = "idle"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
	StatusCancelled  Status = "cancelled"
)

// Session represents one conversation. History holds every message of
// completed turns — user input, the assistant's tool-call turns with
// their tool results, and the final reply; the in-flight turn is not
// visible until it finishes.
type Session struct {
	ID        string    `json:"id"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Error     string    `json:"error,omitempty"`

	history    []models.Message
	turns      int
	mu         sync.RWMutex       // Protects concurrent access to session fields
	cancelFunc context.CancelFunc // Function to cancel the in-flight turn
}

// History returns a copy of the conversation history (thread-safe)
func (s *Session) History() []models.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Message, len(s.history))
	copy(out, s.history)
	return out
}

// AppendTurn records a completed exchange (thread-safe): the user input,
// any intermediate tool-call and tool-result messages the turn produced,
// and the final assistant reply.
func (s *Session) AppendTurn(user *models.UserMessage, intermediate []models.Message, assistant *models.AIMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.history = append(s.history, user)
	s.history = append(s.history, intermediate...)
	s.history = append(s.history, assistant)
	s.turns++
	s.Status = StatusCompleted
	s.Error = ""
	s.UpdatedAt = time.Now()
}

// SetStatus updates the session status (thread-safe)
func (s *Session) SetStatus(status Status) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Status = status
	s.UpdatedAt = time.Now()
}

// SetError sets the error message and marks the turn failed (thread-safe)
func (s *Session) SetError(err string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Error = err
	s.Status = StatusFailed
	s.UpdatedAt = time.Now()
}

// SetCancelFunc stores the cancel function for the in-flight turn (thread-safe)
func (s *Session) SetCancelFunc(cancel context.CancelFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelFunc = cancel
}

// Cancel cancels the in-flight turn, if any (thread-safe)
func (s *Session) Cancel() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancelFunc != nil && s.Status == StatusProcessing {
		s.cancelFunc()
		s.cancelFunc = nil
		s.Status = StatusCancelled
		s.UpdatedAt = time.Now()
		return true
	}
	return false
}

// TryBeginTurn marks the session processing if no turn is in flight
// (thread-safe). Returns false when a turn is already running.
func (s *Session) TryBeginTurn() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Status == StatusProcessing {
		return false
	}
	s.Status = StatusProcessing
	s.UpdatedAt = time.Now()
	return true
}

// Clone creates a safe copy of the session for reading
func (s *Session) Clone() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history := make([]models.Message, len(s.history))
	copy(history, s.history)

	return Session{
		ID:        s.ID,
		Status:    s.Status,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
		Error:     s.Error,
		history:   history,
		turns:     s.turns,
	}
}

// Turns reports the number of completed exchanges
func (s *Session) Turns() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.turns
}
