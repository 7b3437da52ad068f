// Package reviewer decides which reviewers to add to a pull request.
package reviewer

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/codeGROOVE-dev/reviewporter/pkg/types"
)

// Config holds configuration for reviewer assignment.
type Config struct {
	Logger            *slog.Logger    // nil uses slog.Default()
	Shuffler          Shuffler        // nil draws a fresh RandomShuffler for every run
	AllMembersTeam    string          // Team every optional reviewer is drawn from
	Teams             []types.DevTeam // Development teams, scanned in order
	RequiredReviewers int             // Required reviewers a pull request should end up with
}

// Service assigns reviewers to pull requests.
type Service struct {
	gateway           Gateway
	logger            *slog.Logger
	shuffler          Shuffler
	allMembersTeam    string
	teams             []types.DevTeam
	requiredReviewers int
}

// New creates a new Service backed by the given gateway.
func New(gateway Gateway, cfg Config) *Service {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		gateway:           gateway,
		logger:            logger,
		shuffler:          cfg.Shuffler,
		allMembersTeam:    cfg.AllMembersTeam,
		teams:             cfg.Teams,
		requiredReviewers: max(cfg.RequiredReviewers, 0),
	}
}

// AddReviewers picks new reviewers for a pull request and submits them.
// outOfOffice reports whether a person, by display name, should be deprioritized.
// The submitted batch is returned. An inactive pull request is left untouched
// and yields an empty result.
func (s *Service) AddReviewers(
	ctx context.Context, repositoryID, pullRequestID string, outOfOffice func(name string) bool,
) ([]types.NewReviewer, error) {
	if outOfOffice == nil {
		outOfOffice = func(string) bool { return false }
	}

	var (
		allMembers []types.TeamMember
		pr         *types.PullRequest
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		members, err := s.gateway.TeamMembers(gctx, s.allMembersTeam)
		if err != nil {
			return fmt.Errorf("failed to get members of team %s: %w", s.allMembersTeam, err)
		}
		allMembers = members
		return nil
	})
	g.Go(func() error {
		p, err := s.gateway.PullRequest(gctx, repositoryID, pullRequestID)
		if err != nil {
			return fmt.Errorf("failed to get pull request %s: %w", pullRequestID, err)
		}
		pr = p
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if pr.Status != types.StatusActive {
		s.logger.WarnContext(ctx, "Pull request is not active, reviewers can not be added",
			"repository", repositoryID, "pr", pullRequestID, "status", pr.Status)
		return nil, nil
	}
	s.logger.InfoContext(ctx, "Received pull request",
		"repository", repositoryID, "pr", pullRequestID, "author", pr.Author.Name, "reviewers", len(pr.Reviewers))

	author := pr.Author.ID
	existing := make(map[types.Identifier]bool, len(pr.Reviewers))
	for _, r := range pr.Reviewers {
		existing[r.ID] = true
	}
	picks := newPickList(author, existing)

	requiredLeft := RequiredLeft(pr.Reviewers, s.requiredReviewers)
	if requiredLeft > 0 {
		candidates, err := s.requiredCandidates(ctx, author, func(m types.TeamMember) bool {
			return m.ID != author && !existing[m.ID] && !outOfOffice(m.Name)
		})
		if err != nil {
			return nil, err
		}
		picks.add(candidates...)
	} else {
		s.logger.InfoContext(ctx, "Required reviewers already assigned", "pr", pullRequestID)
	}

	for _, m := range Prioritize(allMembers, outOfOffice) {
		picks.add(m.ID)
	}

	reviewers := Tag(picks.ids, requiredLeft)
	if len(reviewers) == 0 {
		s.logger.InfoContext(ctx, "No new reviewers to add", "repository", repositoryID, "pr", pullRequestID)
		return nil, nil
	}

	s.logger.InfoContext(ctx, "New reviewers will be added",
		"repository", repositoryID, "pr", pullRequestID, "required", min(requiredLeft, len(reviewers)), "total", len(reviewers))
	if err := s.gateway.AddReviewers(ctx, repositoryID, pullRequestID, reviewers); err != nil {
		return nil, fmt.Errorf("failed to add reviewers to pull request %s: %w", pullRequestID, err)
	}
	return reviewers, nil
}

// requiredCandidates returns the fairness-ordered candidates for required slots.
func (s *Service) requiredCandidates(
	ctx context.Context, author types.Identifier, eligible func(types.TeamMember) bool,
) ([]types.Identifier, error) {
	peers, team, err := ResolveAuthorTeam(ctx, s.gateway, author, s.teams)
	if err != nil {
		return nil, err
	}

	var requiredTeam []types.TeamMember
	switch {
	case team == nil:
		s.logger.WarnContext(ctx, "Pull request author is not in any of the configured teams", "author", author)
	case team.RequiredReviewersTeam == "":
		s.logger.InfoContext(ctx, "Author's team has no required reviewers team", "team", team.Name)
	default:
		s.logger.InfoContext(ctx, "Author's team found", "team", team.Name, "required_reviewers_team", team.RequiredReviewersTeam)
		requiredTeam, err = s.gateway.TeamMembers(ctx, team.RequiredReviewersTeam)
		if err != nil {
			return nil, fmt.Errorf("failed to get members of team %s: %w", team.RequiredReviewersTeam, err)
		}
	}

	shuffler := s.shuffler
	if shuffler == nil {
		shuffler = NewRandomShuffler()
	}
	return Select(shuffler, peers, requiredTeam, eligible), nil
}

// RequiredLeft returns how many required slots are still open given the
// reviewers already on a pull request.
func RequiredLeft(existing []types.Reviewer, target int) int {
	required := 0
	for _, r := range existing {
		if r.IsRequired {
			required++
		}
	}
	return max(target-required, 0)
}

// Prioritize returns members with everyone who is out of office moved to the
// end. Relative order inside each group is preserved.
func Prioritize(members []types.TeamMember, outOfOffice func(name string) bool) []types.TeamMember {
	available := make([]types.TeamMember, 0, len(members))
	var away []types.TeamMember
	for _, m := range members {
		if outOfOffice(m.Name) {
			away = append(away, m)
		} else {
			available = append(available, m)
		}
	}
	return append(available, away...)
}

// Tag flags the first required ids as required and the rest as optional.
func Tag(ids []types.Identifier, required int) []types.NewReviewer {
	out := make([]types.NewReviewer, len(ids))
	for i, id := range ids {
		out[i] = types.NewReviewer{ID: id, IsRequired: i < required}
	}
	return out
}

// pickList is an ordered set of chosen reviewers that never admits the author
// or anyone already reviewing.
type pickList struct {
	excluded map[types.Identifier]bool
	seen     map[types.Identifier]bool
	author   types.Identifier
	ids      []types.Identifier
}

func newPickList(author types.Identifier, existing map[types.Identifier]bool) *pickList {
	return &pickList{
		author:   author,
		excluded: existing,
		seen:     make(map[types.Identifier]bool),
	}
}

func (p *pickList) add(ids ...types.Identifier) {
	for _, id := range ids {
		if id == p.author || p.excluded[id] || p.seen[id] {
			continue
		}
		p.seen[id] = true
		p.ids = append(p.ids, id)
	}
}
