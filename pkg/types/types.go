// Package types contains shared data structures used across the reviewer system.
//
//nolint:revive // "types" is a standard Go package name for shared data structures
package types

import "time"

// Identifier is an opaque, unique handle for a person or a team.
type Identifier string

// TeamMember is a person listed in a team roster.
// Group identities are filtered out before they reach callers.
type TeamMember struct {
	ID   Identifier
	Name string
}

// DevTeam is a configured development team.
type DevTeam struct {
	Name                  string
	RequiredReviewersTeam string // empty when the team has none
}

// PullRequestStatus is the lifecycle state of a pull request.
type PullRequestStatus string

// Pull request statuses as reported by the hosting platform.
const (
	StatusActive    PullRequestStatus = "active"
	StatusAbandoned PullRequestStatus = "abandoned"
	StatusCompleted PullRequestStatus = "completed"
	StatusNotSet    PullRequestStatus = "notSet"
	StatusAll       PullRequestStatus = "all"
)

// Vote is a reviewer's verdict on a pull request.
type Vote int

// Reviewer votes.
const (
	VoteRejected                Vote = -10
	VoteWaitingForAuthor        Vote = -5
	VoteNone                    Vote = 0
	VoteApprovedWithSuggestions Vote = 5
	VoteApproved                Vote = 10
)

// PullRequestAuthor identifies who opened a pull request.
type PullRequestAuthor struct {
	ID   Identifier
	Name string
}

// Reviewer is a reviewer already attached to a pull request.
type Reviewer struct {
	ID          Identifier
	Name        string
	Vote        Vote
	IsRequired  bool
	HasDeclined bool
}

// PullRequest is a snapshot of a pull request taken at the start of a run.
type PullRequest struct {
	CreatedAt time.Time
	Author    PullRequestAuthor
	Title     string
	URL       string
	Status    PullRequestStatus
	Reviewers []Reviewer
	ID        int
}

// NewReviewer is a reviewer to be added to a pull request.
type NewReviewer struct {
	ID         Identifier
	IsRequired bool
}
