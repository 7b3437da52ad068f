package reviewer

import (
	"context"
	"fmt"
	"slices"

	"github.com/codeGROOVE-dev/reviewporter/pkg/types"
)

// ResolveAuthorTeam scans teams in order and returns the roster of the first
// team that contains author, together with that team.
// An author outside every team yields an empty roster and a nil team.
// Any lookup failure is returned as is; a partial scan is never reported as a miss.
func ResolveAuthorTeam(
	ctx context.Context, lister TeamLister, author types.Identifier, teams []types.DevTeam,
) ([]types.TeamMember, *types.DevTeam, error) {
	for i := range teams {
		team := &teams[i]
		members, err := lister.TeamMembers(ctx, team.Name)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to get members of team %s: %w", team.Name, err)
		}
		if slices.ContainsFunc(members, func(m types.TeamMember) bool { return m.ID == author }) {
			return members, team, nil
		}
	}
	return nil, nil, nil
}
