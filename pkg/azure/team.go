package azure

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/codeGROOVE-dev/reviewporter/pkg/types"
)

type identity struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	IsContainer bool   `json:"isContainer"`
}

type listResponse[T any] struct {
	Value []T `json:"value"`
}

// TeamMembers returns the people in a team. Nested groups are left out.
// With a roster TTL configured, repeated lookups of a team are served from memory.
func (c *Client) TeamMembers(ctx context.Context, team string) ([]types.TeamMember, error) {
	if c.rosters != nil {
		if members, ok := c.rosters.Get(team); ok {
			slog.DebugContext(ctx, "Team roster cache hit", "component", "azure", "team", team)
			return slices.Clone(members), nil
		}
	}

	slog.InfoContext(ctx, "Requesting team members", "component", "azure", "team", team)

	var resp listResponse[struct {
		Identity identity `json:"identity"`
	}]
	apiURL := c.endpoint(apiVersion, nil, "_apis", "projects", c.project, "teams", team, "members")
	if err := c.http.GetJSON(ctx, apiURL, &resp); err != nil {
		return nil, fmt.Errorf("failed to get members of team %s: %w", team, err)
	}

	members := make([]types.TeamMember, 0, len(resp.Value))
	for _, v := range resp.Value {
		if v.Identity.IsContainer {
			continue
		}
		members = append(members, types.TeamMember{
			ID:   types.Identifier(v.Identity.ID),
			Name: v.Identity.DisplayName,
		})
	}
	if c.rosters != nil {
		c.rosters.Set(team, slices.Clone(members))
	}
	return members, nil
}

// Teams returns the names of all teams in the project.
func (c *Client) Teams(ctx context.Context) ([]string, error) {
	slog.InfoContext(ctx, "Requesting teams", "component", "azure", "project", c.project)

	var resp listResponse[struct {
		Name string `json:"name"`
	}]
	apiURL := c.endpoint(apiVersionPreview, nil, "_apis", "projects", c.project, "teams")
	if err := c.http.GetJSON(ctx, apiURL, &resp); err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}

	names := make([]string, len(resp.Value))
	for i, v := range resp.Value {
		names[i] = v.Name
	}
	return names, nil
}
