package reviewer

import (
	"context"

	"github.com/codeGROOVE-dev/reviewporter/pkg/types"
)

// TeamLister looks up team rosters.
type TeamLister interface {
	TeamMembers(ctx context.Context, team string) ([]types.TeamMember, error)
}

// Gateway is everything the assignment flow needs from the hosting platform.
type Gateway interface {
	TeamLister
	PullRequest(ctx context.Context, repositoryID, pullRequestID string) (*types.PullRequest, error)
	AddReviewers(ctx context.Context, repositoryID, pullRequestID string, reviewers []types.NewReviewer) error
}
