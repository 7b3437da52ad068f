package azure

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/codeGROOVE-dev/reviewporter/pkg/types"
)

type pullRequestData struct {
	CreationDate time.Time `json:"creationDate"`
	CreatedBy    identity  `json:"createdBy"`
	Title        string    `json:"title"`
	URL          string    `json:"url"`
	Status       string    `json:"status"`
	Reviewers    []struct {
		ID          string `json:"id"`
		DisplayName string `json:"displayName"`
		Vote        int    `json:"vote"`
		IsRequired  bool   `json:"isRequired"`
		HasDeclined bool   `json:"hasDeclined"`
	} `json:"reviewers"`
	PullRequestID int `json:"pullRequestId"`
}

func (d *pullRequestData) toPullRequest() *types.PullRequest {
	pr := &types.PullRequest{
		ID:        d.PullRequestID,
		Title:     d.Title,
		URL:       d.URL,
		CreatedAt: d.CreationDate,
		Status:    types.PullRequestStatus(d.Status),
		Author: types.PullRequestAuthor{
			ID:   types.Identifier(d.CreatedBy.ID),
			Name: d.CreatedBy.DisplayName,
		},
	}
	for _, r := range d.Reviewers {
		pr.Reviewers = append(pr.Reviewers, types.Reviewer{
			ID:          types.Identifier(r.ID),
			Name:        r.DisplayName,
			Vote:        types.Vote(r.Vote),
			IsRequired:  r.IsRequired,
			HasDeclined: r.HasDeclined,
		})
	}
	return pr
}

// PullRequest fetches a single pull request.
func (c *Client) PullRequest(ctx context.Context, repositoryID, pullRequestID string) (*types.PullRequest, error) {
	slog.InfoContext(ctx, "Requesting pull request", "component", "azure", "repository", repositoryID, "pr", pullRequestID)

	var data pullRequestData
	apiURL := c.endpoint(apiVersion, nil, c.project, "_apis", "git", "repositories", repositoryID, "pullrequests", pullRequestID)
	if err := c.http.GetJSON(ctx, apiURL, &data); err != nil {
		return nil, fmt.Errorf("failed to get pull request %s: %w", pullRequestID, err)
	}
	return data.toPullRequest(), nil
}

// AddReviewers adds reviewers to a pull request. An empty batch is a no-op.
func (c *Client) AddReviewers(ctx context.Context, repositoryID, pullRequestID string, reviewers []types.NewReviewer) error {
	if len(reviewers) == 0 {
		return nil
	}

	type newReviewer struct {
		ID         string `json:"id"`
		IsRequired bool   `json:"isRequired"`
	}
	payload := make([]newReviewer, len(reviewers))
	for i, r := range reviewers {
		payload[i] = newReviewer{ID: string(r.ID), IsRequired: r.IsRequired}
	}

	apiURL := c.endpoint(apiVersion, nil, c.project, "_apis", "git", "repositories", repositoryID, "pullrequests", pullRequestID, "reviewers")
	if err := c.http.PostJSON(ctx, apiURL, payload, nil); err != nil {
		return fmt.Errorf("failed to add reviewers: %w", err)
	}

	slog.InfoContext(ctx, "Added reviewers to PR", "component", "azure", "repository", repositoryID, "pr", pullRequestID, "count", len(reviewers))
	return nil
}

// SearchCriteria selects which active pull requests PullRequests returns.
type SearchCriteria struct {
	param string
	id    types.Identifier
}

// ByReviewer matches pull requests where id is a reviewer.
func ByReviewer(id types.Identifier) SearchCriteria {
	return SearchCriteria{param: "searchCriteria.reviewerId", id: id}
}

// ByCreator matches pull requests opened by id.
func ByCreator(id types.Identifier) SearchCriteria {
	return SearchCriteria{param: "searchCriteria.creatorId", id: id}
}

// PullRequests lists the active pull requests of a repository matching criteria.
// The URL of each result points at its web page.
func (c *Client) PullRequests(ctx context.Context, repositoryID string, criteria SearchCriteria) ([]*types.PullRequest, error) {
	query := url.Values{}
	query.Set(criteria.param, string(criteria.id))
	query.Set("searchCriteria.status", string(types.StatusActive))

	var resp listResponse[pullRequestData]
	apiURL := c.endpoint(apiVersion, query, c.project, "_apis", "git", "repositories", repositoryID, "pullrequests")
	if err := c.http.GetJSON(ctx, apiURL, &resp); err != nil {
		return nil, fmt.Errorf("failed to list pull requests of %s: %w", repositoryID, err)
	}

	prs := make([]*types.PullRequest, len(resp.Value))
	for i := range resp.Value {
		pr := resp.Value[i].toPullRequest()
		pr.URL = c.webURL(repositoryID, pr.ID)
		prs[i] = pr
	}
	slog.DebugContext(ctx, "Listed pull requests", "component", "azure", "repository", repositoryID,
		"criteria", criteria.param, "id", criteria.id, "count", len(prs))
	return prs, nil
}

