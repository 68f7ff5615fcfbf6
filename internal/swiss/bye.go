package swiss

import (
	"encoding/binary"
	"hash/fnv"
	"math/rand/v2"
)

// ByeSelector decides which eligible player sits out an odd round.
// eligible is never empty and is given in rank order, leader first.
type ByeSelector interface {
	SelectBye(eligible []Standing) PlayerID
}

// LowestRankSelector gives the bye to the lowest ranked eligible player.
type LowestRankSelector struct{}

func (LowestRankSelector) SelectBye(eligible []Standing) PlayerID {
	return eligible[len(eligible)-1].PlayerID
}

// RandomSelector picks uniformly among eligible players. The pick depends
// only on the seed and the eligible standings, so repeating a call on the same
// snapshot gives the same bye.
type RandomSelector struct {
	seed uint64
}

// NewRandomSelector creates a RandomSelector seeded with seed.
func NewRandomSelector(seed uint64) *RandomSelector {
	return &RandomSelector{seed: seed}
}

func (r *RandomSelector) SelectBye(eligible []Standing) PlayerID {
	h := fnv.New64a()
	var buf [16]byte
	for _, st := range eligible {
		binary.LittleEndian.PutUint64(buf[:8], uint64(st.PlayerID))
		binary.LittleEndian.PutUint64(buf[8:], uint64(st.Matches))
		h.Write(buf[:])
	}
	rng := rand.New(rand.NewPCG(r.seed, h.Sum64()))
	return eligible[rng.IntN(len(eligible))].PlayerID
}
