package swiss

import "errors"

var (
	// Data-integrity errors raised while computing standings.
	ErrUnknownPlayer        = errors.New("match references a player who is not on the roster")
	ErrEmptyRoster          = errors.New("roster is empty but matches were recorded")
	ErrTournamentMismatch   = errors.New("record belongs to a different tournament")
	ErrDuplicateRosterEntry = errors.New("player is registered more than once")
	ErrInvalidMatch         = errors.New("invalid match record")

	// Errors raised while pairing a round.
	ErrNoByeEligiblePlayer = errors.New("every player has already received a bye")
	ErrOddAfterByeRemoval  = errors.New("odd number of players left after bye removal")
	ErrInvalidByeSelection = errors.New("bye selector picked a player who is not eligible")
	ErrDuplicatePlayer     = errors.New("player appears more than once in standings")
)
