// Package report collects pull requests waiting on each team member and delivers reminders.
package report

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/codeGROOVE-dev/reviewporter/pkg/azure"
	"github.com/codeGROOVE-dev/reviewporter/pkg/types"
)

// Source is the hosting platform API the report reads from.
type Source interface {
	Teams(ctx context.Context) ([]string, error)
	TeamMembers(ctx context.Context, team string) ([]types.TeamMember, error)
	PullRequests(ctx context.Context, repositoryID string, criteria azure.SearchCriteria) ([]*types.PullRequest, error)
}

// RepoRequests groups the pull requests of one repository.
type RepoRequests struct {
	Repository   string
	PullRequests []*types.PullRequest
}

// Digest is everything one member should hear about.
type Digest struct {
	Member             types.TeamMember
	WaitingForReview   []RepoRequests // PRs where the member's review is pending
	WaitingByReviewers []RepoRequests // the member's own PRs where reviewers wait for them
}

// Empty reports whether there is nothing to tell the member.
func (d *Digest) Empty() bool {
	return len(d.WaitingForReview) == 0 && len(d.WaitingByReviewers) == 0
}

// Provider collects digests for the members of one team.
type Provider struct {
	source       Source
	logger       *slog.Logger
	team         string
	repositories []string
}

// NewProvider creates a provider for the given team and repositories.
func NewProvider(source Source, team string, repositories []string, logger *slog.Logger) *Provider {
	if logger == nil {
		logger = slog.Default()
	}
	return &Provider{
		source:       source,
		team:         team,
		repositories: repositories,
		logger:       logger.With("component", "report"),
	}
}

// Collect returns a digest for every member accepted by include that has pending pull requests.
// A missing team yields no digests. Failures for a single member are logged and that member is skipped.
func (p *Provider) Collect(ctx context.Context, include func(name string) bool) ([]Digest, error) {
	teams, err := p.source.Teams(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	if !slices.Contains(teams, p.team) {
		p.logger.InfoContext(ctx, "Team was not found", "team", p.team)
		return nil, nil
	}

	members, err := p.source.TeamMembers(ctx, p.team)
	if err != nil {
		return nil, fmt.Errorf("failed to get members of team %s: %w", p.team, err)
	}

	var digests []Digest
	for _, member := range members {
		if include != nil && !include(member.Name) {
			continue
		}
		d, err := p.digest(ctx, member)
		if err != nil {
			p.logger.ErrorContext(ctx, "Failed to obtain pull requests", "member", member.Name, "error", err)
			continue
		}
		if d.Empty() {
			p.logger.InfoContext(ctx, "No pending pull requests", "member", member.Name)
			continue
		}
		digests = append(digests, d)
	}
	return digests, nil
}

func (p *Provider) digest(ctx context.Context, member types.TeamMember) (Digest, error) {
	d := Digest{Member: member}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		d.WaitingForReview, err = p.perRepository(gctx, azure.ByReviewer(member.ID), func(r types.Reviewer) bool {
			return ShownToReviewer(r, member.ID)
		})
		return err
	})
	g.Go(func() error {
		var err error
		d.WaitingByReviewers, err = p.perRepository(gctx, azure.ByCreator(member.ID), ShownToCreator)
		return err
	})
	if err := g.Wait(); err != nil {
		return Digest{}, err
	}
	return d, nil
}

// perRepository fetches matching pull requests of every repository, keeping those
// with at least one reviewer accepted by show. Repositories without matches are dropped.
func (p *Provider) perRepository(ctx context.Context, criteria azure.SearchCriteria, show func(types.Reviewer) bool) ([]RepoRequests, error) {
	results := make([]RepoRequests, len(p.repositories))
	g, gctx := errgroup.WithContext(ctx)
	for i, repo := range p.repositories {
		g.Go(func() error {
			prs, err := p.source.PullRequests(gctx, repo, criteria)
			if err != nil {
				return err
			}
			prs = slices.DeleteFunc(prs, func(pr *types.PullRequest) bool {
				return !slices.ContainsFunc(pr.Reviewers, show)
			})
			slices.SortStableFunc(prs, func(a, b *types.PullRequest) int {
				return a.CreatedAt.Compare(b.CreatedAt)
			})
			results[i] = RepoRequests{Repository: repo, PullRequests: prs}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return slices.DeleteFunc(results, func(r RepoRequests) bool { return len(r.PullRequests) == 0 }), nil
}

// ShownToReviewer reports whether r is id's own pending required review.
func ShownToReviewer(r types.Reviewer, id types.Identifier) bool {
	if r.ID != id || !r.IsRequired || r.HasDeclined {
		return false
	}
	return r.Vote == types.VoteNone || r.Vote == types.VoteWaitingForAuthor
}

// ShownToCreator reports whether r is waiting for the author.
func ShownToCreator(r types.Reviewer) bool {
	return r.Vote == types.VoteWaitingForAuthor
}
