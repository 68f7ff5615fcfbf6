package tournament

import (
	"database/sql"
	"errors"
	"sync"
	"time"

	"github.com/mauv0809/swiss-tribble/internal/swiss"
)

const (
	// LatestTournament selects the most recently created tournament.
	LatestTournament swiss.TournamentID = 0
	// AllTournaments selects every tournament.
	AllTournaments swiss.TournamentID = -1
)

var (
	ErrTournamentNotFound = errors.New("tournament not found")
	ErrPlayerNotFound     = errors.New("player not found")
	ErrAlreadyRegistered  = errors.New("player is already registered for this tournament")
	ErrNotRegistered      = errors.New("player is not registered for this tournament")
	ErrByeAlreadyRecorded = errors.New("player has already received a bye in this tournament")
	ErrSamePlayer         = errors.New("a player cannot play against themselves")
	ErrNameRequired       = errors.New("name is required")
	ErrAllNotAllowed      = errors.New("operation needs a single tournament")
)

// Tournament is a single Swiss tournament instance.
type Tournament struct {
	ID        swiss.TournamentID `json:"id"`
	Name      string             `json:"name"`
	CreatedAt time.Time          `json:"created_at"`
}

// store handles all database operations for tournaments.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Snapshot is one tournament's state read in a single transaction.
type Snapshot struct {
	Tournament Tournament
	Roster     []swiss.RosterEntry
	Matches    []swiss.MatchRecord
	HadBye     map[swiss.PlayerID]bool
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}
