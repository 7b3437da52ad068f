package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/codeGROOVE-dev/reviewporter/pkg/types"
)

// Render formats the digest as a plain-text reminder. Ages are measured against now.
func (d *Digest) Render(now time.Time) string {
	var b strings.Builder
	b.WriteString("Hey!\n")
	b.WriteString("Just a friendly reminder that there are ")
	if len(d.WaitingForReview) > 0 {
		b.WriteString("Pull Requests waiting for your review:\n\n")
		for _, repo := range d.WaitingForReview {
			b.WriteString(repo.Repository + "\n")
			for _, pr := range repo.PullRequests {
				fmt.Fprintf(&b, "- %s (%s). Author: %s.%s\n", pr.Title, pr.URL, pr.Author.Name, age(now.Sub(pr.CreatedAt)))
			}
			b.WriteString("\n")
		}
	}
	if len(d.WaitingByReviewers) > 0 {
		b.WriteString("Pull Requests where reviewers are waiting for you:\n\n")
		for _, repo := range d.WaitingByReviewers {
			b.WriteString(repo.Repository + "\n")
			for _, pr := range repo.PullRequests {
				fmt.Fprintf(&b, "- %s (%s)%s\n", pr.Title, pr.URL, age(now.Sub(pr.CreatedAt)))
				fmt.Fprintf(&b, "Waiting: %s\n", strings.Join(waitingReviewers(pr), ", "))
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}

func waitingReviewers(pr *types.PullRequest) []string {
	var names []string
	for _, r := range pr.Reviewers {
		if ShownToCreator(r) {
			names = append(names, r.Name)
		}
	}
	return names
}

// age renders d as " 1d 2h 3m ago", omitting zero parts, with a fire marker past one day.
func age(d time.Duration) string {
	days := int64(d / (24 * time.Hour))
	hours := int64(d/time.Hour) % 24
	minutes := int64(d/time.Minute) % 60

	var b strings.Builder
	for _, part := range []struct {
		value int64
		unit  string
	}{{days, "d"}, {hours, "h"}, {minutes, "m"}} {
		if part.value > 0 {
			fmt.Fprintf(&b, " %d%s", part.value, part.unit)
		}
	}
	b.WriteString(" ago")
	if days > 0 {
		b.WriteString(" 🔥")
	}
	return b.String()
}
