// Package booking holds the in-memory OTP state machine for test-ride
// bookings.
package booking

import (
	"crypto/rand"
	"fmt"
	"log/slog"
	"math/big"
	"sync"
	"time"
)

// TTL is how long an issued code stays valid.
const TTL = 10 * time.Minute

type session struct {
	name     string
	otp      string
	issuedAt time.Time
}

// StateMachine issues and verifies one-time codes, keyed by phone number.
// Safe for concurrent use.
type StateMachine struct {
	mu       sync.Mutex
	sessions map[string]session
	now      func() time.Time
	logger   *slog.Logger
}

// New creates an empty state machine.
func New() *StateMachine {
	return &StateMachine{
		sessions: make(map[string]session),
		now:      time.Now,
		logger:   slog.Default().With("component", "booking"),
	}
}

// Issue creates a 6-digit code for the phone number, replacing any prior
// pending session for it.
func (m *StateMachine) Issue(phone, name string) (string, error) {
	otp, err := generateOTP()
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[phone] = session{name: name, otp: otp, issuedAt: m.now()}
	m.logger.Info("otp issued", "phone", phone)
	return otp, nil
}

// Verify checks the code issued to this exact phone number. A match
// consumes the session; a mismatch keeps it so the user can retry; an
// expired or missing session fails. Returns the booked name on success.
func (m *StateMachine) Verify(phone, otp string) (bool, string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[phone]
	if !ok {
		return false, ""
	}
	if m.now().Sub(s.issuedAt) > TTL {
		delete(m.sessions, phone)
		m.logger.Info("otp expired", "phone", phone)
		return false, ""
	}
	if s.otp != otp {
		return false, ""
	}
	delete(m.sessions, phone)
	m.logger.Info("otp verified", "phone", phone)
	return true, s.name
}

// Sweep drops every session older than the TTL. Called periodically by
// the server; Verify also expires lazily, so sweeping is housekeeping,
// not correctness.
func (m *StateMachine) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	cutoff := m.now().Add(-TTL)
	for phone, s := range m.sessions {
		if s.issuedAt.Before(cutoff) {
			delete(m.sessions, phone)
			removed++
		}
	}
	if removed > 0 {
		m.logger.Info("swept expired otp sessions", "removed", removed)
	}
	return removed
}

// Pending reports the number of live sessions.
func (m *StateMachine) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
