package notifier

import (
	"sync"

	"github.com/mauv0809/swiss-tribble/internal/swiss"
	"github.com/mauv0809/swiss-tribble/internal/tournament"
)

// Mock is a mock implementation of the Notifier interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	// Call records
	SendPairingsCalls []SendPairingsCall
	SendStandingsCalls []struct {
		Tournament tournament.Tournament
		Standings  []swiss.Standing
	}
	FormatErrorResponseCalls []string

	// Spies
	SendPairingsFunc            func(t tournament.Tournament, round int, pairings []swiss.Pairing, dryRun bool) (string, error)
	SendStandingsFunc           func(t tournament.Tournament, standings []swiss.Standing, dryRun bool) error
	FormatStandingsResponseFunc func(t tournament.Tournament, standings []swiss.Standing) (any, error)
	FormatPairingsResponseFunc  func(t tournament.Tournament, pairings []swiss.Pairing) (any, error)
	FormatErrorResponseFunc     func(text string) (any, error)
}

// SendPairingsCall holds the arguments of a SendPairings call.
type SendPairingsCall struct {
	Tournament tournament.Tournament
	Round      int
	Pairings   []swiss.Pairing
	DryRun     bool
}

var _ Notifier = (*Mock)(nil)

// NewMock creates a new mock notifier.
func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) SendPairings(t tournament.Tournament, round int, pairings []swiss.Pairing, dryRun bool) (string, error) {
	m.mu.Lock()
	m.SendPairingsCalls = append(m.SendPairingsCalls, SendPairingsCall{t, round, pairings, dryRun})
	m.mu.Unlock()
	if m.SendPairingsFunc != nil {
		return m.SendPairingsFunc(t, round, pairings, dryRun)
	}
	return "mock-ts", nil
}

func (m *Mock) SendStandings(t tournament.Tournament, standings []swiss.Standing, dryRun bool) error {
	m.mu.Lock()
	m.SendStandingsCalls = append(m.SendStandingsCalls, struct {
		Tournament tournament.Tournament
		Standings  []swiss.Standing
	}{t, standings})
	m.mu.Unlock()
	if m.SendStandingsFunc != nil {
		return m.SendStandingsFunc(t, standings, dryRun)
	}
	return nil
}

func (m *Mock) FormatStandingsResponse(t tournament.Tournament, standings []swiss.Standing) (any, error) {
	if m.FormatStandingsResponseFunc != nil {
		return m.FormatStandingsResponseFunc(t, standings)
	}
	return nil, nil
}

func (m *Mock) FormatPairingsResponse(t tournament.Tournament, pairings []swiss.Pairing) (any, error) {
	if m.FormatPairingsResponseFunc != nil {
		return m.FormatPairingsResponseFunc(t, pairings)
	}
	return nil, nil
}

func (m *Mock) FormatErrorResponse(text string) (any, error) {
	m.mu.Lock()
	m.FormatErrorResponseCalls = append(m.FormatErrorResponseCalls, text)
	m.mu.Unlock()
	if m.FormatErrorResponseFunc != nil {
		return m.FormatErrorResponseFunc(text)
	}
	return nil, nil
}

// PairingsCalls returns a copy of the recorded SendPairings calls.
func (m *Mock) PairingsCalls() []SendPairingsCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]SendPairingsCall(nil), m.SendPairingsCalls...)
}

// StandingsCallCount returns how often SendStandings was called.
func (m *Mock) StandingsCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.SendStandingsCalls)
}
