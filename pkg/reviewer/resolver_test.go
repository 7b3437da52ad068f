package reviewer

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/codeGROOVE-dev/reviewporter/pkg/internal/testutil"
	"github.com/codeGROOVE-dev/reviewporter/pkg/types"
)

func TestResolveAuthorTeam(t *testing.T) {
	teams := []types.DevTeam{
		{Name: "Team_1", RequiredReviewersTeam: "Leads"},
		{Name: "Team_2"},
		{Name: "Team_3"},
	}

	tests := []struct {
		name      string
		author    types.Identifier
		wantTeam  string
		wantPeers []types.TeamMember
		wantCalls []string
	}{
		{
			name:      "first team",
			author:    "2",
			wantTeam:  "Team_1",
			wantPeers: testutil.Members("1", "2", "3"),
			wantCalls: []string{"Team_1"},
		},
		{
			name:      "stops at first match",
			author:    "5",
			wantTeam:  "Team_2",
			wantPeers: testutil.Members("4", "5"),
			wantCalls: []string{"Team_1", "Team_2"},
		},
		{
			name:      "no match scans everything",
			author:    "42",
			wantCalls: []string{"Team_1", "Team_2", "Team_3"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := testutil.NewFakeGateway()
			gw.SetTeam("Team_1", testutil.Members("1", "2", "3"))
			gw.SetTeam("Team_2", testutil.Members("4", "5"))
			gw.SetTeam("Team_3", testutil.Members("5", "6"))

			peers, team, err := ResolveAuthorTeam(context.Background(), gw, tt.author, teams)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if tt.wantTeam == "" {
				if team != nil {
					t.Errorf("expected no team, got %q", team.Name)
				}
			} else if team == nil || team.Name != tt.wantTeam {
				t.Errorf("expected team %q, got %+v", tt.wantTeam, team)
			}
			if diff := cmp.Diff(tt.wantPeers, peers); diff != "" {
				t.Errorf("peers mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.wantCalls, gw.TeamMembersCalls()); diff != "" {
				t.Errorf("lookups mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestResolveAuthorTeam_ReturnsConfiguredTeam(t *testing.T) {
	gw := testutil.NewFakeGateway()
	gw.SetTeam("Team_1", testutil.Members("1"))
	teams := []types.DevTeam{{Name: "Team_1", RequiredReviewersTeam: "Leads"}}

	_, team, err := ResolveAuthorTeam(context.Background(), gw, "1", teams)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if team.RequiredReviewersTeam != "Leads" {
		t.Errorf("expected required reviewers team %q, got %q", "Leads", team.RequiredReviewersTeam)
	}
}

func TestResolveAuthorTeam_LookupFailureIsFatal(t *testing.T) {
	errBoom := errors.New("boom")
	gw := testutil.NewFakeGateway()
	gw.SetTeam("Team_1", testutil.Members("1"))
	gw.SetError("TeamMembers:Team_2", errBoom)
	gw.SetTeam("Team_3", testutil.Members("9"))
	teams := []types.DevTeam{{Name: "Team_1"}, {Name: "Team_2"}, {Name: "Team_3"}}

	peers, team, err := ResolveAuthorTeam(context.Background(), gw, "9", teams)
	if !errors.Is(err, errBoom) {
		t.Fatalf("expected %v, got %v", errBoom, err)
	}
	if peers != nil || team != nil {
		t.Errorf("expected no result on failure, got %v, %v", peers, team)
	}
	if calls := gw.TeamMembersCalls(); len(calls) != 2 {
		t.Errorf("expected scan to stop at the failing team, got %v", calls)
	}
}

func TestResolveAuthorTeam_NoTeams(t *testing.T) {
	gw := testutil.NewFakeGateway()

	peers, team, err := ResolveAuthorTeam(context.Background(), gw, "1", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(peers) != 0 || team != nil {
		t.Errorf("expected empty result, got %v, %v", peers, team)
	}
}
