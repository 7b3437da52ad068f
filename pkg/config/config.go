// Package config loads the reviewporter configuration file.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/codeGROOVE-dev/reviewporter/pkg/types"
)

const defaultHTTPTimeout = 30 * time.Second

// Config is the whole configuration file.
type Config struct {
	Slack Slack `toml:"slack"`
	Azure Azure `toml:"azure"`
}

// Azure configures the Azure DevOps project.
type Azure struct {
	BaseURL                string   `toml:"base_url"`
	Token                  string   `toml:"token"`
	Project                string   `toml:"project"`
	TeamName               string   `toml:"team_name"` // team holding every developer
	HTTPTimeout            Duration `toml:"http_timeout"`
	RosterTTL              Duration `toml:"roster_ttl"` // zero disables roster caching
	Repositories           []string `toml:"repositories"`
	Teams                  []Team   `toml:"teams"`
	RequiredReviewersCount int      `toml:"required_reviewers_count"`
}

// Team is one development team and the team its required reviewers come from.
type Team struct {
	Name                  string `toml:"name"`
	RequiredReviewersTeam string `toml:"required_reviewers_team"`
}

// Slack configures the messaging workspace.
type Slack struct {
	Token       string `toml:"token"`
	TeamID      string `toml:"team_id"`
	UsergroupID string `toml:"usergroup_id"`
}

// Duration is a time.Duration written as a string such as "30s".
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	d.Duration = v
	return nil
}

// Load reads and validates the configuration at path.
// AZURE_TOKEN and SLACK_TOKEN override the tokens in the file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(data, os.Getenv)
}

// Parse decodes and validates a configuration document. getenv supplies token overrides.
func Parse(data []byte, getenv func(string) string) (*Config, error) {
	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if getenv != nil {
		if v := getenv("AZURE_TOKEN"); v != "" {
			cfg.Azure.Token = v
		}
		if v := getenv("SLACK_TOKEN"); v != "" {
			cfg.Slack.Token = v
		}
	}
	if cfg.Azure.HTTPTimeout.Duration == 0 {
		cfg.Azure.HTTPTimeout.Duration = defaultHTTPTimeout
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the settings every command needs.
func (c *Config) Validate() error {
	var errs []error
	if c.Azure.BaseURL == "" {
		errs = append(errs, errors.New("azure.base_url is required"))
	} else if u, err := url.Parse(c.Azure.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("azure.base_url %q is not an absolute URL", c.Azure.BaseURL))
	}
	if c.Azure.Token == "" {
		errs = append(errs, errors.New("azure.token is required (or set AZURE_TOKEN)"))
	}
	if c.Azure.Project == "" {
		errs = append(errs, errors.New("azure.project is required"))
	}
	if c.Azure.TeamName == "" {
		errs = append(errs, errors.New("azure.team_name is required"))
	}
	if c.Azure.RequiredReviewersCount < 0 {
		errs = append(errs, fmt.Errorf("azure.required_reviewers_count must not be negative, got %d", c.Azure.RequiredReviewersCount))
	}
	for i, t := range c.Azure.Teams {
		if t.Name == "" {
			errs = append(errs, fmt.Errorf("azure.teams[%d].name is required", i))
		}
	}
	return errors.Join(errs...)
}

// ValidateSlack checks the messaging settings, which only some commands need.
func (c *Config) ValidateSlack() error {
	var errs []error
	if c.Slack.Token == "" {
		errs = append(errs, errors.New("slack.token is required (or set SLACK_TOKEN)"))
	}
	if c.Slack.TeamID == "" {
		errs = append(errs, errors.New("slack.team_id is required"))
	}
	if c.Slack.UsergroupID == "" {
		errs = append(errs, errors.New("slack.usergroup_id is required"))
	}
	return errors.Join(errs...)
}

// DevTeams returns the configured development teams in file order.
func (c *Config) DevTeams() []types.DevTeam {
	teams := make([]types.DevTeam, len(c.Azure.Teams))
	for i, t := range c.Azure.Teams {
		teams[i] = types.DevTeam{Name: t.Name, RequiredReviewersTeam: t.RequiredReviewersTeam}
	}
	return teams
}
