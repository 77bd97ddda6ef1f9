package metrics

import "sync"

var _ Metrics = (*Mock)(nil)

// RequestObservation is one recorded ObserveRequestDuration call
type RequestObservation struct {
	Method string
	Route  string
	Status int
}

// Mock is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu                sync.Mutex
	registrations     int
	unregistrations   int
	playersDeleted    int
	adminAuthFailures map[string]int
	teamSplits        int
	matchUpdates      int
	requests          []RequestObservation
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{
		adminAuthFailures: make(map[string]int),
	}
}

func (m *Mock) IncRegistrations() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.registrations++
}

func (m *Mock) IncUnregistrations() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.unregistrations++
}

func (m *Mock) IncPlayersDeleted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.playersDeleted++
}

func (m *Mock) IncAdminAuthFailures(action string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.adminAuthFailures[action]++
}

func (m *Mock) IncTeamSplits() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.teamSplits++
}

func (m *Mock) IncMatchUpdates() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.matchUpdates++
}

func (m *Mock) ObserveRequestDuration(method, route string, status int, seconds float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, RequestObservation{Method: method, Route: route, Status: status})
}

// Registrations returns the number of times IncRegistrations was called.
func (m *Mock) Registrations() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.registrations
}

// Unregistrations returns the number of times IncUnregistrations was called.
func (m *Mock) Unregistrations() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.unregistrations
}

// PlayersDeleted returns the number of times IncPlayersDeleted was called.
func (m *Mock) PlayersDeleted() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.playersDeleted
}

// AdminAuthFailures returns how often IncAdminAuthFailures was called for action.
func (m *Mock) AdminAuthFailures(action string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.adminAuthFailures[action]
}

// TeamSplits returns the number of times IncTeamSplits was called.
func (m *Mock) TeamSplits() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.teamSplits
}

// MatchUpdates returns the number of times IncMatchUpdates was called.
func (m *Mock) MatchUpdates() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.matchUpdates
}

// Requests returns a copy of every recorded request observation.
func (m *Mock) Requests() []RequestObservation {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]RequestObservation, len(m.requests))
	copy(out, m.requests)
	return out
}
