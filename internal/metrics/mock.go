package metrics

import "sync"

// Mock is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu                sync.Mutex
	standingsComputed int
	roundsPaired      int
	byesAssigned      int
	matchesReported   int
	engineErrors      map[string]int
	pairingDurations  []float64
	slackNotifSent    int
	slackNotifFailed  int
	startupTime       float64
}

var _ Metrics = (*Mock)(nil)

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{
		engineErrors:     make(map[string]int),
		pairingDurations: make([]float64, 0),
	}
}

func (m *Mock) IncStandingsComputed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.standingsComputed++
}

func (m *Mock) IncRoundsPaired() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.roundsPaired++
}

func (m *Mock) IncByesAssigned() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byesAssigned++
}

func (m *Mock) IncMatchesReported() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.matchesReported++
}

func (m *Mock) IncEngineErrors(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.engineErrors[kind]++
}

func (m *Mock) ObservePairingDuration(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pairingDurations = append(m.pairingDurations, duration)
}

func (m *Mock) IncSlackNotifSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifSent++
}

func (m *Mock) IncSlackNotifFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifFailed++
}

func (m *Mock) SetStartupTime(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startupTime = duration
}

// StandingsComputed returns the number of times IncStandingsComputed was called.
func (m *Mock) StandingsComputed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.standingsComputed
}

// RoundsPaired returns the number of times IncRoundsPaired was called.
func (m *Mock) RoundsPaired() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.roundsPaired
}

// ByesAssigned returns the number of times IncByesAssigned was called.
func (m *Mock) ByesAssigned() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.byesAssigned
}

// MatchesReported returns the number of times IncMatchesReported was called.
func (m *Mock) MatchesReported() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.matchesReported
}

// EngineErrors returns how often IncEngineErrors was called with kind.
func (m *Mock) EngineErrors(kind string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.engineErrors[kind]
}

// PairingDurations returns every observed pairing duration.
func (m *Mock) PairingDurations() []float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]float64(nil), m.pairingDurations...)
}

// SlackNotifSent returns the number of times IncSlackNotifSent was called.
func (m *Mock) SlackNotifSent() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifSent
}

// SlackNotifFailed returns the number of times IncSlackNotifFailed was called.
func (m *Mock) SlackNotifFailed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifFailed
}
