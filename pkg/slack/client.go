// Package slack provides the Slack user directory and direct messages.
package slack

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/codeGROOVE-dev/reviewporter/pkg/internal/transport"
)

const (
	defaultBaseURL   = "https://slack.com/api/"
	vacationStatus   = "Vacationing"
	profileFetchers  = 8 // Concurrent profile lookups
	messageEndpoint  = "chat.postMessage"
	profileEndpoint  = "users.profile.get"
	usergroupMembers = "usergroups.users.list"
)

// Client talks to the Slack Web API.
type Client struct {
	http        *transport.Client
	baseURL     string
	teamID      string
	usergroupID string
}

// Config holds configuration for creating a new Slack client.
type Config struct {
	HTTPClient  transport.HTTPDoer // nil builds an http.Client with HTTPTimeout
	BaseURL     string             // empty uses https://slack.com/api/
	Token       string
	TeamID      string
	UsergroupID string // Group whose members receive reports
	HTTPTimeout time.Duration
}

// New creates a new Slack client.
func New(cfg Config) *Client {
	base := cfg.BaseURL
	if base == "" {
		base = defaultBaseURL
	}
	return &Client{
		http: transport.New(transport.Config{
			HTTPClient:  cfg.HTTPClient,
			Component:   "slack",
			Token:       cfg.Token,
			HTTPTimeout: cfg.HTTPTimeout,
		}),
		baseURL:     base,
		teamID:      cfg.TeamID,
		usergroupID: cfg.UsergroupID,
	}
}

// User is a member of the configured user group.
type User struct {
	ID         string
	Name       string
	StatusText string
}

// OnVacation reports whether the user's status marks them as away.
func (u User) OnVacation() bool {
	return u.StatusText == vacationStatus
}

// apiError is returned when Slack answers with "ok": false.
type apiError struct {
	method string
	code   string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("slack %s failed: %s", e.method, e.code)
}

type envelope struct {
	Error string `json:"error"`
	OK    bool   `json:"ok"`
}

func (e envelope) check(method string) error {
	if e.OK {
		return nil
	}
	return &apiError{method: method, code: e.Error}
}

func (c *Client) get(ctx context.Context, method string, query url.Values, out any) error {
	query.Set("team_id", c.teamID)
	return c.http.GetJSON(ctx, c.baseURL+method+"?"+query.Encode(), out)
}

// Users returns every member of the configured user group with their profile.
func (c *Client) Users(ctx context.Context) ([]User, error) {
	var list struct {
		envelope
		Users []string `json:"users"`
	}
	if err := c.get(ctx, usergroupMembers, url.Values{"usergroup": {c.usergroupID}}, &list); err != nil {
		return nil, fmt.Errorf("failed to list user group %s: %w", c.usergroupID, err)
	}
	if err := list.check(usergroupMembers); err != nil {
		return nil, err
	}

	users := make([]User, len(list.Users))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(profileFetchers)
	for i, id := range list.Users {
		g.Go(func() error {
			u, err := c.profile(gctx, id)
			if err != nil {
				return err
			}
			users[i] = u
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "Loaded Slack users", "component", "slack", "count", len(users))
	return users, nil
}

func (c *Client) profile(ctx context.Context, userID string) (User, error) {
	var resp struct {
		envelope
		Profile struct {
			RealName   string `json:"real_name"`
			StatusText string `json:"status_text"`
		} `json:"profile"`
	}
	if err := c.get(ctx, profileEndpoint, url.Values{"user": {userID}}, &resp); err != nil {
		return User{}, fmt.Errorf("failed to get profile of %s: %w", userID, err)
	}
	if err := resp.check(profileEndpoint); err != nil {
		return User{}, err
	}
	return User{ID: userID, Name: resp.Profile.RealName, StatusText: resp.Profile.StatusText}, nil
}

// SendMessage posts a direct message to a user.
func (c *Client) SendMessage(ctx context.Context, userID, text string) error {
	slog.InfoContext(ctx, "Sending message", "component", "slack", "user", userID)

	payload := struct {
		Channel string `json:"channel"`
		Text    string `json:"text"`
	}{Channel: userID, Text: text}

	var resp envelope
	if err := c.http.PostJSON(ctx, c.baseURL+messageEndpoint, payload, &resp); err != nil {
		return fmt.Errorf("failed to send message to %s: %w", userID, err)
	}
	if err := resp.check(messageEndpoint); err != nil {
		slog.WarnContext(ctx, "Message rejected", "component", "slack", "user", userID, "error", err)
		return err
	}
	return nil
}

// IsAPIError reports whether err is Slack rejecting a call, as opposed to a transport failure.
func IsAPIError(err error) bool {
	var apiErr *apiError
	return errors.As(err, &apiErr)
}
