package tournament

import (
	"sync"

	"github.com/mauv0809/swiss-tribble/internal/swiss"
)

// MockStore is a mock implementation of the Store interface for testing.
// Unset hooks return zero values. It is safe for concurrent use.
type MockStore struct {
	mu sync.Mutex

	// Spies for method calls
	CreateTournamentFunc  func(name string) (Tournament, error)
	GetTournamentFunc     func(id swiss.TournamentID) (Tournament, error)
	ListTournamentsFunc   func() ([]Tournament, error)
	RegisterPlayerFunc    func(name string, tournamentID swiss.TournamentID, playerID swiss.PlayerID) (swiss.PlayerID, error)
	CountPlayersFunc      func(tournamentID swiss.TournamentID) (int, error)
	ReportMatchFunc       func(tournamentID swiss.TournamentID, winner, loser swiss.PlayerID, draw bool) error
	RecordByeFunc         func(tournamentID swiss.TournamentID, playerID swiss.PlayerID) error
	GetRosterFunc         func(tournamentID swiss.TournamentID) ([]swiss.RosterEntry, error)
	GetMatchesFunc        func(tournamentID swiss.TournamentID) ([]swiss.MatchRecord, error)
	GetByeEligibilityFunc func(tournamentID swiss.TournamentID) (map[swiss.PlayerID]bool, error)
	SnapshotFunc          func(tournamentID swiss.TournamentID) (Snapshot, error)
	DeleteMatchesFunc     func(tournamentID swiss.TournamentID) error
	DeletePlayersFunc     func(tournamentID swiss.TournamentID) error

	// Call records
	ReportMatchCalls []ReportMatchCall
	RecordByeCalls   []RecordByeCall
}

// ReportMatchCall holds the arguments of a ReportMatch call.
type ReportMatchCall struct {
	TournamentID swiss.TournamentID
	Winner       swiss.PlayerID
	Loser        swiss.PlayerID
	Draw         bool
}

// RecordByeCall holds the arguments of a RecordBye call.
type RecordByeCall struct {
	TournamentID swiss.TournamentID
	PlayerID     swiss.PlayerID
}

var _ Store = (*MockStore)(nil)

// NewMock creates a new mock instance.
func NewMock() *MockStore {
	return &MockStore{}
}

// Reset clears all call records.
func (m *MockStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ReportMatchCalls = nil
	m.RecordByeCalls = nil
}

func (m *MockStore) CreateTournament(name string) (Tournament, error) {
	if m.CreateTournamentFunc != nil {
		return m.CreateTournamentFunc(name)
	}
	return Tournament{}, nil
}

func (m *MockStore) GetTournament(id swiss.TournamentID) (Tournament, error) {
	if m.GetTournamentFunc != nil {
		return m.GetTournamentFunc(id)
	}
	return Tournament{ID: id}, nil
}

func (m *MockStore) ListTournaments() ([]Tournament, error) {
	if m.ListTournamentsFunc != nil {
		return m.ListTournamentsFunc()
	}
	return nil, nil
}

func (m *MockStore) RegisterPlayer(name string, tournamentID swiss.TournamentID, playerID swiss.PlayerID) (swiss.PlayerID, error) {
	if m.RegisterPlayerFunc != nil {
		return m.RegisterPlayerFunc(name, tournamentID, playerID)
	}
	return playerID, nil
}

func (m *MockStore) CountPlayers(tournamentID swiss.TournamentID) (int, error) {
	if m.CountPlayersFunc != nil {
		return m.CountPlayersFunc(tournamentID)
	}
	return 0, nil
}

func (m *MockStore) ReportMatch(tournamentID swiss.TournamentID, winner, loser swiss.PlayerID, draw bool) error {
	m.mu.Lock()
	m.ReportMatchCalls = append(m.ReportMatchCalls, ReportMatchCall{tournamentID, winner, loser, draw})
	m.mu.Unlock()
	if m.ReportMatchFunc != nil {
		return m.ReportMatchFunc(tournamentID, winner, loser, draw)
	}
	return nil
}

func (m *MockStore) RecordBye(tournamentID swiss.TournamentID, playerID swiss.PlayerID) error {
	m.mu.Lock()
	m.RecordByeCalls = append(m.RecordByeCalls, RecordByeCall{tournamentID, playerID})
	m.mu.Unlock()
	if m.RecordByeFunc != nil {
		return m.RecordByeFunc(tournamentID, playerID)
	}
	return nil
}

func (m *MockStore) GetRoster(tournamentID swiss.TournamentID) ([]swiss.RosterEntry, error) {
	if m.GetRosterFunc != nil {
		return m.GetRosterFunc(tournamentID)
	}
	return nil, nil
}

func (m *MockStore) GetMatches(tournamentID swiss.TournamentID) ([]swiss.MatchRecord, error) {
	if m.GetMatchesFunc != nil {
		return m.GetMatchesFunc(tournamentID)
	}
	return nil, nil
}

func (m *MockStore) GetByeEligibility(tournamentID swiss.TournamentID) (map[swiss.PlayerID]bool, error) {
	if m.GetByeEligibilityFunc != nil {
		return m.GetByeEligibilityFunc(tournamentID)
	}
	return map[swiss.PlayerID]bool{}, nil
}

// Snapshot defaults to combining the GetTournament, GetRoster, GetMatches and
// GetByeEligibility hooks.
func (m *MockStore) Snapshot(tournamentID swiss.TournamentID) (Snapshot, error) {
	if m.SnapshotFunc != nil {
		return m.SnapshotFunc(tournamentID)
	}
	var snap Snapshot
	var err error
	if snap.Tournament, err = m.GetTournament(tournamentID); err != nil {
		return Snapshot{}, err
	}
	if snap.Roster, err = m.GetRoster(snap.Tournament.ID); err != nil {
		return Snapshot{}, err
	}
	if snap.Matches, err = m.GetMatches(snap.Tournament.ID); err != nil {
		return Snapshot{}, err
	}
	if snap.HadBye, err = m.GetByeEligibility(snap.Tournament.ID); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

func (m *MockStore) DeleteMatches(tournamentID swiss.TournamentID) error {
	if m.DeleteMatchesFunc != nil {
		return m.DeleteMatchesFunc(tournamentID)
	}
	return nil
}

func (m *MockStore) DeletePlayers(tournamentID swiss.TournamentID) error {
	if m.DeletePlayersFunc != nil {
		return m.DeletePlayersFunc(tournamentID)
	}
	return nil
}
