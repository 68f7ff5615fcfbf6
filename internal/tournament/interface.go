package tournament

import "github.com/mauv0809/swiss-tribble/internal/swiss"

// Store is the persistence layer for tournaments, rosters and match results.
// Methods taking a tournament id accept LatestTournament; only CountPlayers,
// DeleteMatches and DeletePlayers accept AllTournaments.
type Store interface {
	CreateTournament(name string) (Tournament, error)
	GetTournament(id swiss.TournamentID) (Tournament, error)
	ListTournaments() ([]Tournament, error)

	RegisterPlayer(name string, tournamentID swiss.TournamentID, playerID swiss.PlayerID) (swiss.PlayerID, error)
	CountPlayers(tournamentID swiss.TournamentID) (int, error)
	ReportMatch(tournamentID swiss.TournamentID, winner, loser swiss.PlayerID, draw bool) error
	RecordBye(tournamentID swiss.TournamentID, playerID swiss.PlayerID) error

	GetRoster(tournamentID swiss.TournamentID) ([]swiss.RosterEntry, error)
	GetMatches(tournamentID swiss.TournamentID) ([]swiss.MatchRecord, error)
	GetByeEligibility(tournamentID swiss.TournamentID) (map[swiss.PlayerID]bool, error)
	Snapshot(tournamentID swiss.TournamentID) (Snapshot, error)

	DeleteMatches(tournamentID swiss.TournamentID) error
	DeletePlayers(tournamentID swiss.TournamentID) error
}
