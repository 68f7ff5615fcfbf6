package pubsub

import (
	"cloud.google.com/go/pubsub"
	"github.com/mauv0809/swiss-tribble/internal/swiss"
)

type client struct {
	client   *pubsub.Client
	teardown func()
}

// EventType represents the type of event/message sent via pubsub.
type EventType string

const (
	EventRoundPaired   EventType = "round-paired"
	EventMatchReported EventType = "match-reported"
)

// RoundPairedEvent is published once the pairings of a round are accepted
// and its bye, if any, has been recorded.
type RoundPairedEvent struct {
	EventID        string             `msgpack:"event_id"`
	TournamentID   swiss.TournamentID `msgpack:"tournament_id"`
	TournamentName string             `msgpack:"tournament_name"`
	Round          int                `msgpack:"round"`
	Pairings       []swiss.Pairing    `msgpack:"pairings"`
	OccurredAt     int64              `msgpack:"occurred_at"`
}

// MatchReportedEvent is published after a match result is stored.
type MatchReportedEvent struct {
	EventID      string             `msgpack:"event_id"`
	TournamentID swiss.TournamentID `msgpack:"tournament_id"`
	Winner       swiss.PlayerID     `msgpack:"winner"`
	Loser        swiss.PlayerID     `msgpack:"loser"`
	Draw         bool               `msgpack:"draw"`
	OccurredAt   int64              `msgpack:"occurred_at"`
}
