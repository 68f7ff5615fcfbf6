package swiss

import "fmt"

// Engine builds the pairings of the next round.
type Engine struct {
	selector ByeSelector
}

// NewEngine returns an Engine using selector for byes. A nil selector
// falls back to LowestRankSelector.
func NewEngine(selector ByeSelector) *Engine {
	if selector == nil {
		selector = LowestRankSelector{}
	}
	return &Engine{selector: selector}
}

// ComputePairings pairs adjacent players of standings, which must be the
// full ranking returned by ComputeStandings.
//
// hadBye reports, per player, whether a bye was already used in this
// tournament. With an odd field one player without a bye is removed first and
// returned as the leading (player, Bye) pairing. The engine never records the
// bye itself; persisting it is up to the caller.
func (e *Engine) ComputePairings(tournamentID TournamentID, standings []Standing, hadBye map[PlayerID]bool) ([]Pairing, error) {
	if len(standings) == 0 {
		return []Pairing{}, nil
	}

	seen := make(map[PlayerID]struct{}, len(standings))
	for _, s := range standings {
		if _, ok := seen[s.PlayerID]; ok {
			return nil, fmt.Errorf("tournament %d, player %d: %w", tournamentID, s.PlayerID, ErrDuplicatePlayer)
		}
		seen[s.PlayerID] = struct{}{}
	}

	pairings := make([]Pairing, 0, (len(standings)+1)/2)
	remaining := standings

	if len(standings)%2 == 1 {
		eligible := make([]Standing, 0, len(standings))
		for _, s := range standings {
			if !hadBye[s.PlayerID] {
				eligible = append(eligible, s)
			}
		}
		if len(eligible) == 0 {
			return nil, fmt.Errorf("tournament %d: %w", tournamentID, ErrNoByeEligiblePlayer)
		}

		chosen := e.selector.SelectBye(eligible)
		pos := -1
		for i, s := range standings {
			if s.PlayerID == chosen && !hadBye[s.PlayerID] {
				pos = i
				break
			}
		}
		if pos < 0 {
			return nil, fmt.Errorf("tournament %d, player %d: %w", tournamentID, chosen, ErrInvalidByeSelection)
		}

		pairings = append(pairings, Pairing{A: standings[pos].Player(), B: Bye})
		remaining = make([]Standing, 0, len(standings)-1)
		remaining = append(remaining, standings[:pos]...)
		remaining = append(remaining, standings[pos+1:]...)
	}

	if len(remaining)%2 != 0 {
		return nil, fmt.Errorf("tournament %d, %d players: %w", tournamentID, len(remaining), ErrOddAfterByeRemoval)
	}
	for i := 0; i < len(remaining); i += 2 {
		pairings = append(pairings, Pairing{A: remaining[i].Player(), B: remaining[i+1].Player()})
	}
	return pairings, nil
}
