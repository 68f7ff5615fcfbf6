package round

import (
	"sync"

	"github.com/mauv0809/swiss-tribble/internal/metrics"
	"github.com/mauv0809/swiss-tribble/internal/pubsub"
	"github.com/mauv0809/swiss-tribble/internal/swiss"
	"github.com/mauv0809/swiss-tribble/internal/tournament"
)

// Store is the part of tournament.Store the service reads and writes.
type Store interface {
	GetTournament(id swiss.TournamentID) (tournament.Tournament, error)
	Snapshot(tournamentID swiss.TournamentID) (tournament.Snapshot, error)
	ReportMatch(tournamentID swiss.TournamentID, winner, loser swiss.PlayerID, draw bool) error
	RecordBye(tournamentID swiss.TournamentID, playerID swiss.PlayerID) error
}

// Service runs the standings and pairing engine against one transactional
// snapshot of the store and persists what the engine decides.
type Service struct {
	store   Store
	engine  *swiss.Engine
	pubsub  pubsub.PubSubClient
	metrics metrics.Metrics

	// locks holds one *sync.Mutex per tournament id.
	locks sync.Map
}

// Round is the outcome of generating the next round of a tournament.
type Round struct {
	Tournament tournament.Tournament `json:"tournament"`
	Number     int                   `json:"round"`
	Pairings   []swiss.Pairing       `json:"pairings"`
	DryRun     bool                  `json:"dry_run"`
}

// Bye returns the player sitting out the round, if any.
func (r Round) Bye() (swiss.Player, bool) {
	for _, p := range r.Pairings {
		if p.IsBye() {
			return p.A, true
		}
	}
	return swiss.Player{}, false
}
