package swiss

// PlayerID identifies a player across tournaments. Zero is reserved for the bye sentinel.
type PlayerID int64

// TournamentID identifies a tournament instance.
type TournamentID int64

// Player is a registered player.
type Player struct {
	ID   PlayerID `json:"id" msgpack:"id"`
	Name string   `json:"name" msgpack:"name"`
}

// Bye is the sentinel opponent of a player who sits out a round.
var Bye = Player{ID: 0, Name: "Bye"}

// RosterEntry records a player's registration in a tournament.
// HadBye is set once, when the player is given a bye, and is never reset.
type RosterEntry struct {
	TournamentID TournamentID
	Player       Player
	HadBye       bool
}

// Outcome is the result of a match from player A's perspective.
type Outcome string

const (
	OutcomeAWon Outcome = "A"
	OutcomeBWon Outcome = "B"
	OutcomeDraw Outcome = "D"
)

// Valid reports whether o is one of the known outcomes.
func (o Outcome) Valid() bool {
	switch o {
	case OutcomeAWon, OutcomeBWon, OutcomeDraw:
		return true
	}
	return false
}

// MatchRecord is a single played match. Byes are never stored as matches;
// they are tracked through RosterEntry.HadBye.
type MatchRecord struct {
	TournamentID TournamentID
	PlayerA      PlayerID
	PlayerB      PlayerID
	Outcome      Outcome
}

// Standing is a player's position in a tournament, recomputed on every call.
type Standing struct {
	PlayerID PlayerID `json:"player_id" msgpack:"player_id"`
	Name     string   `json:"name" msgpack:"name"`
	Wins     int      `json:"wins" msgpack:"wins"`
	Draws    int      `json:"draws" msgpack:"draws"`
	Losses   int      `json:"losses" msgpack:"losses"`
	Score    float64  `json:"score" msgpack:"score"`
	Matches  int      `json:"matches" msgpack:"matches"`
	HadBye   bool     `json:"had_bye" msgpack:"had_bye"`
}

// Player returns the identity part of the standing.
func (s Standing) Player() Player {
	return Player{ID: s.PlayerID, Name: s.Name}
}

// Pairing is one game of the next round. B is Bye when A sits out.
type Pairing struct {
	A Player `json:"a" msgpack:"a"`
	B Player `json:"b" msgpack:"b"`
}

// IsBye reports whether the pairing is a bye.
func (p Pairing) IsBye() bool {
	return p.B == Bye
}
