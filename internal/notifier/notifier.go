package notifier

import (
	"github.com/mauv0809/swiss-tribble/internal/swiss"
	"github.com/mauv0809/swiss-tribble/internal/tournament"
)

// Notifier defines a high-level interface for sending notifications about business events.
// This decouples the rest of the application from the specific notification provider (e.g., Slack).
type Notifier interface {
	// For newly generated rounds
	SendPairings(t tournament.Tournament, round int, pairings []swiss.Pairing, dryRun bool) (string, error)
	// For recorded results
	SendStandings(t tournament.Tournament, standings []swiss.Standing, dryRun bool) error

	// For formatting responses for slash commands
	FormatStandingsResponse(t tournament.Tournament, standings []swiss.Standing) (any, error)
	FormatPairingsResponse(t tournament.Tournament, pairings []swiss.Pairing) (any, error)
	FormatErrorResponse(text string) (any, error)
}
