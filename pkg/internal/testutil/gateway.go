// Package testutil provides in-memory doubles and testing utilities for the reviewporter project.
package testutil

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/codeGROOVE-dev/reviewporter/pkg/types"
)

// FakeGateway is an in-memory hosting platform for testing.
// It is programmable: configure rosters, pull requests and failures, then
// inspect the recorded calls.
type FakeGateway struct {
	teams             map[string][]types.TeamMember
	pullRequests      map[string]*types.PullRequest
	errors            map[string]error
	teamMembersCalls  []string
	addReviewersCalls []AddReviewersCall
	mu                sync.Mutex
}

// AddReviewersCall records a call to AddReviewers.
type AddReviewersCall struct {
	RepositoryID  string
	PullRequestID string
	Reviewers     []types.NewReviewer
}

// NewFakeGateway creates an empty FakeGateway.
func NewFakeGateway() *FakeGateway {
	return &FakeGateway{
		teams:        make(map[string][]types.TeamMember),
		pullRequests: make(map[string]*types.PullRequest),
		errors:       make(map[string]error),
	}
}

// SetTeam configures the roster returned for a team.
func (f *FakeGateway) SetTeam(team string, members []types.TeamMember) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.teams[team] = members
}

// SetPullRequest configures the snapshot returned for a pull request.
func (f *FakeGateway) SetPullRequest(repositoryID, pullRequestID string, pr *types.PullRequest) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pullRequests[repositoryID+"/"+pullRequestID] = pr
}

// SetError makes an operation fail. Keys are "TeamMembers:<team>",
// "PullRequest:<repo>/<id>" and "AddReviewers:<repo>/<id>".
func (f *FakeGateway) SetError(key string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errors[key] = err
}

// TeamMembers returns the configured roster. Unknown teams are empty.
func (f *FakeGateway) TeamMembers(_ context.Context, team string) ([]types.TeamMember, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.teamMembersCalls = append(f.teamMembersCalls, team)
	if err := f.errors["TeamMembers:"+team]; err != nil {
		return nil, err
	}
	return slices.Clone(f.teams[team]), nil
}

// PullRequest returns the configured snapshot.
func (f *FakeGateway) PullRequest(_ context.Context, repositoryID, pullRequestID string) (*types.PullRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := repositoryID + "/" + pullRequestID
	if err := f.errors["PullRequest:"+key]; err != nil {
		return nil, err
	}
	pr, ok := f.pullRequests[key]
	if !ok {
		return nil, fmt.Errorf("pull request not found: %s", key)
	}
	return pr, nil
}

// AddReviewers records the submission.
func (f *FakeGateway) AddReviewers(_ context.Context, repositoryID, pullRequestID string, reviewers []types.NewReviewer) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.errors["AddReviewers:"+repositoryID+"/"+pullRequestID]; err != nil {
		return err
	}
	f.addReviewersCalls = append(f.addReviewersCalls, AddReviewersCall{
		RepositoryID:  repositoryID,
		PullRequestID: pullRequestID,
		Reviewers:     slices.Clone(reviewers),
	})
	return nil
}

// TeamMembersCalls returns the teams looked up, in call order.
func (f *FakeGateway) TeamMembersCalls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.teamMembersCalls)
}

// AddReviewersCalls returns all recorded submissions.
func (f *FakeGateway) AddReviewersCalls() []AddReviewersCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.addReviewersCalls)
}

// Members builds roster entries whose id and display name are both the given value.
func Members(ids ...string) []types.TeamMember {
	members := make([]types.TeamMember, len(ids))
	for i, id := range ids {
		members[i] = types.TeamMember{ID: types.Identifier(id), Name: id}
	}
	return members
}

// MemberRange builds roster entries named from..to-1.
func MemberRange(from, to int) []types.TeamMember {
	var ids []string
	for i := from; i < to; i++ {
		ids = append(ids, fmt.Sprint(i))
	}
	return Members(ids...)
}
