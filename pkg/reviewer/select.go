package reviewer

import "github.com/codeGROOVE-dev/reviewporter/pkg/types"

// Select orders candidates for the required slots of a pull request.
//
// Both pools are shuffled once, filtered through eligible, and merged round-robin
// starting with peers. A person present in both pools is offered only through
// the peer stream. Alternating keeps either pool from owning the head of the
// list when the caller later caps it by position.
func Select(
	shuffler Shuffler, peers, requiredTeam []types.TeamMember, eligible func(types.TeamMember) bool,
) []types.Identifier {
	peers, requiredTeam = shuffler.Shuffle(peers, requiredTeam)

	peerIDs := make(map[types.Identifier]bool, len(peers))
	for _, m := range peers {
		peerIDs[m.ID] = true
	}

	fromPeers := filterIDs(peers, eligible)
	fromRequired := filterIDs(requiredTeam, func(m types.TeamMember) bool {
		return eligible(m) && !peerIDs[m.ID]
	})
	return interleave(fromPeers, fromRequired)
}

func filterIDs(members []types.TeamMember, keep func(types.TeamMember) bool) []types.Identifier {
	var ids []types.Identifier
	for _, m := range members {
		if keep(m) {
			ids = append(ids, m.ID)
		}
	}
	return ids
}

// interleave alternates first and second, starting with first, and appends the
// rest of the longer slice once the shorter one runs out.
func interleave(first, second []types.Identifier) []types.Identifier {
	out := make([]types.Identifier, 0, len(first)+len(second))
	for i := range max(len(first), len(second)) {
		if i < len(first) {
			out = append(out, first[i])
		}
		if i < len(second) {
			out = append(out, second[i])
		}
	}
	return out
}
