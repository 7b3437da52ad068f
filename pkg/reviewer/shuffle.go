package reviewer

import (
	"math/rand/v2"
	"slices"

	"github.com/codeGROOVE-dev/reviewporter/pkg/types"
)

// Shuffler permutes the two candidate pools of a run.
type Shuffler interface {
	Shuffle(first, second []types.TeamMember) ([]types.TeamMember, []types.TeamMember)
}

// RandomShuffler applies an independent random permutation to each pool.
// It is not safe for concurrent use; give every run its own instance.
type RandomShuffler struct {
	rng *rand.Rand
}

// NewRandomShuffler returns a shuffler with a freshly seeded generator.
func NewRandomShuffler() *RandomShuffler {
	return NewSeededShuffler(rand.Uint64(), rand.Uint64())
}

// NewSeededShuffler returns a shuffler whose permutations are reproducible.
func NewSeededShuffler(seed1, seed2 uint64) *RandomShuffler {
	return &RandomShuffler{rng: rand.New(rand.NewPCG(seed1, seed2))}
}

// Shuffle returns shuffled copies of both pools; the inputs are left untouched.
func (s *RandomShuffler) Shuffle(first, second []types.TeamMember) ([]types.TeamMember, []types.TeamMember) {
	return s.permute(first), s.permute(second)
}

func (s *RandomShuffler) permute(members []types.TeamMember) []types.TeamMember {
	out := slices.Clone(members)
	s.rng.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}

// IdentityShuffler keeps both pools in their original order.
type IdentityShuffler struct{}

// Shuffle returns the pools unchanged.
func (IdentityShuffler) Shuffle(first, second []types.TeamMember) ([]types.TeamMember, []types.TeamMember) {
	return first, second
}
