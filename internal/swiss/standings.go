package swiss

import (
	"fmt"
	"sort"
)

// ComputeStandings ranks the roster of a tournament from its match history.
//
// A win scores 1, a draw 0.5 and a loss 0. A roster entry flagged HadBye is
// credited one extra win and one extra match; byes are never read from
// matches. Players are ordered by score descending, ties broken by ascending
// player id, so identical inputs always produce the same order.
func ComputeStandings(tournamentID TournamentID, roster []RosterEntry, matches []MatchRecord) ([]Standing, error) {
	if len(roster) == 0 {
		if len(matches) > 0 {
			return nil, fmt.Errorf("tournament %d: %w", tournamentID, ErrEmptyRoster)
		}
		return []Standing{}, nil
	}

	index := make(map[PlayerID]*Standing, len(roster))
	for _, entry := range roster {
		if entry.TournamentID != tournamentID {
			return nil, fmt.Errorf("roster entry for player %d is in tournament %d, want %d: %w",
				entry.Player.ID, entry.TournamentID, tournamentID, ErrTournamentMismatch)
		}
		if _, ok := index[entry.Player.ID]; ok {
			return nil, fmt.Errorf("player %d: %w", entry.Player.ID, ErrDuplicateRosterEntry)
		}
		s := &Standing{PlayerID: entry.Player.ID, Name: entry.Player.Name, HadBye: entry.HadBye}
		if entry.HadBye {
			s.Wins++
			s.Matches++
		}
		index[entry.Player.ID] = s
	}

	for i, m := range matches {
		if m.TournamentID != tournamentID {
			return nil, fmt.Errorf("match %d is in tournament %d, want %d: %w", i, m.TournamentID, tournamentID, ErrTournamentMismatch)
		}
		if m.PlayerA == m.PlayerB || !m.Outcome.Valid() {
			return nil, fmt.Errorf("match %d (%d vs %d, outcome %q): %w", i, m.PlayerA, m.PlayerB, m.Outcome, ErrInvalidMatch)
		}
		a, ok := index[m.PlayerA]
		if !ok {
			return nil, fmt.Errorf("match %d, player %d: %w", i, m.PlayerA, ErrUnknownPlayer)
		}
		b, ok := index[m.PlayerB]
		if !ok {
			return nil, fmt.Errorf("match %d, player %d: %w", i, m.PlayerB, ErrUnknownPlayer)
		}
		a.Matches++
		b.Matches++
		switch m.Outcome {
		case OutcomeAWon:
			a.Wins++
			b.Losses++
		case OutcomeBWon:
			b.Wins++
			a.Losses++
		case OutcomeDraw:
			a.Draws++
			b.Draws++
		}
	}

	standings := make([]Standing, 0, len(index))
	for _, s := range index {
		// Halves are exact in binary floating point, so scores compare safely.
		s.Score = float64(s.Wins) + float64(s.Draws)/2
		standings = append(standings, *s)
	}
	sort.Slice(standings, func(i, j int) bool {
		if standings[i].Score != standings[j].Score {
			return standings[i].Score > standings[j].Score
		}
		return standings[i].PlayerID < standings[j].PlayerID
	})
	return standings, nil
}
