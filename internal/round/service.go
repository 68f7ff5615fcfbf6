package round

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/mauv0809/swiss-tribble/internal/metrics"
	"github.com/mauv0809/swiss-tribble/internal/pubsub"
	"github.com/mauv0809/swiss-tribble/internal/swiss"
	"github.com/mauv0809/swiss-tribble/internal/tournament"
)

// New creates a new Service.
func New(store Store, engine *swiss.Engine, pubsub pubsub.PubSubClient, metrics metrics.Metrics) *Service {
	return &Service{
		store:   store,
		engine:  engine,
		pubsub:  pubsub,
		metrics: metrics,
	}
}

func (s *Service) standings(snap tournament.Snapshot) ([]swiss.Standing, error) {
	standings, err := swiss.ComputeStandings(snap.Tournament.ID, snap.Roster, snap.Matches)
	if err != nil {
		s.metrics.IncEngineErrors(ErrorKind(err))
		log.Error("Failed to compute standings", "tournament", snap.Tournament.ID, "error", err)
		return nil, err
	}
	s.metrics.IncStandingsComputed()
	return standings, nil
}

// Standings ranks the players of a tournament.
func (s *Service) Standings(id swiss.TournamentID) ([]swiss.Standing, error) {
	snap, err := s.store.Snapshot(id)
	if err != nil {
		return nil, err
	}
	return s.standings(snap)
}

// Pairings previews the next round of a tournament without recording anything.
func (s *Service) Pairings(id swiss.TournamentID) ([]swiss.Pairing, error) {
	snap, err := s.store.Snapshot(id)
	if err != nil {
		return nil, err
	}
	_, pairings, err := s.pair(snap)
	return pairings, err
}

func (s *Service) pair(snap tournament.Snapshot) ([]swiss.Standing, []swiss.Pairing, error) {
	start := time.Now()
	standings, err := s.standings(snap)
	if err != nil {
		return nil, nil, err
	}
	pairings, err := s.engine.ComputePairings(snap.Tournament.ID, standings, snap.HadBye)
	if err != nil {
		s.metrics.IncEngineErrors(ErrorKind(err))
		log.Error("Failed to compute pairings", "tournament", snap.Tournament.ID, "error", err)
		return nil, nil, err
	}
	s.metrics.ObservePairingDuration(time.Since(start).Seconds())
	return standings, pairings, nil
}

// GenerateRound computes the next round and, unless dryRun is set, records the
// bye and announces the round. Calls for the same tournament are serialized, so
// each one pairs against the bye recorded by the call before it. Duplicate
// calls are not collapsed: every non-dry-run call commits a round.
func (s *Service) GenerateRound(id swiss.TournamentID, dryRun bool) (Round, error) {
	t, err := s.store.GetTournament(id)
	if err != nil {
		return Round{}, err
	}
	mu := s.lock(t.ID)
	mu.Lock()
	defer mu.Unlock()

	snap, err := s.store.Snapshot(t.ID)
	if err != nil {
		return Round{}, err
	}
	standings, pairings, err := s.pair(snap)
	if err != nil {
		return Round{}, err
	}
	t = snap.Tournament
	number := nextRound(standings)
	round := Round{Tournament: t, Number: number, Pairings: pairings, DryRun: dryRun}

	if dryRun {
		log.Info("[Dry Run] Generated round", "tournament", t.ID, "round", number, "pairings", len(pairings))
		return round, nil
	}

	if bye, ok := round.Bye(); ok {
		if err := s.store.RecordBye(t.ID, bye.ID); err != nil {
			return Round{}, fmt.Errorf("failed to record bye for player %d: %w", bye.ID, err)
		}
		s.metrics.IncByesAssigned()
	}
	s.metrics.IncRoundsPaired()
	log.Info("Generated round", "tournament", t.ID, "round", number, "pairings", len(pairings))

	event := pubsub.RoundPairedEvent{
		EventID:        uuid.New().String(),
		TournamentID:   t.ID,
		TournamentName: t.Name,
		Round:          number,
		Pairings:       pairings,
		OccurredAt:     time.Now().Unix(),
	}
	if err := s.pubsub.SendMessage(pubsub.EventRoundPaired, event); err != nil {
		log.Error("Failed to publish round", "tournament", t.ID, "error", err)
	}
	return round, nil
}

// nextRound numbers a round after the most games any player has played.
func nextRound(standings []swiss.Standing) int {
	played := 0
	for _, st := range standings {
		played = max(played, st.Matches)
	}
	return played + 1
}

// ReportMatch stores a match result and announces it.
func (s *Service) ReportMatch(id swiss.TournamentID, winner, loser swiss.PlayerID, draw bool) error {
	t, err := s.store.GetTournament(id)
	if err != nil {
		return err
	}
	if err := s.store.ReportMatch(t.ID, winner, loser, draw); err != nil {
		return err
	}
	s.metrics.IncMatchesReported()

	event := pubsub.MatchReportedEvent{
		EventID:      uuid.New().String(),
		TournamentID: t.ID,
		Winner:       winner,
		Loser:        loser,
		Draw:         draw,
		OccurredAt:   time.Now().Unix(),
	}
	if err := s.pubsub.SendMessage(pubsub.EventMatchReported, event); err != nil {
		log.Error("Failed to publish match result", "tournament", t.ID, "error", err)
	}
	return nil
}

func (s *Service) lock(id swiss.TournamentID) *sync.Mutex {
	mu, _ := s.locks.LoadOrStore(id, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// ErrorKind maps engine errors to a short label for metrics.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, swiss.ErrUnknownPlayer):
		return "unknown_player"
	case errors.Is(err, swiss.ErrEmptyRoster):
		return "empty_roster"
	case errors.Is(err, swiss.ErrTournamentMismatch):
		return "tournament_mismatch"
	case errors.Is(err, swiss.ErrDuplicateRosterEntry), errors.Is(err, swiss.ErrDuplicatePlayer):
		return "duplicate_player"
	case errors.Is(err, swiss.ErrInvalidMatch):
		return "invalid_match"
	case errors.Is(err, swiss.ErrNoByeEligiblePlayer):
		return "no_bye_eligible_player"
	case errors.Is(err, swiss.ErrOddAfterByeRemoval):
		return "odd_after_bye_removal"
	case errors.Is(err, swiss.ErrInvalidByeSelection):
		return "invalid_bye_selection"
	}
	return "other"
}
