// Package main implements a CLI that assigns reviewers to Azure DevOps pull requests
// and sends Slack reminders about pending reviews.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/codeGROOVE-dev/reviewporter/pkg/azure"
	"github.com/codeGROOVE-dev/reviewporter/pkg/config"
	"github.com/codeGROOVE-dev/reviewporter/pkg/report"
	"github.com/codeGROOVE-dev/reviewporter/pkg/reviewer"
	"github.com/codeGROOVE-dev/reviewporter/pkg/slack"
)

var (
	configPath = flag.String("config", "", "Path to the TOML configuration file")
	verbose    = flag.Bool("v", false, "Verbose output with detailed diagnostics")
)

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s -config <FILE> [-v] <command> [options]\n\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "Commands:\n")
	fmt.Fprintf(os.Stderr, "  add-reviewers -repository <REPO> -request-id <ID>   Add reviewers to the pull request\n")
	fmt.Fprintf(os.Stderr, "  send-reports <REPO>...                              Send reports with not reviewed pull requests to reviewers\n\n")
	fmt.Fprintf(os.Stderr, "Options:\n")
	flag.PrintDefaults()
	fmt.Fprintf(os.Stderr, "\nExamples:\n")
	fmt.Fprintf(os.Stderr, "  %s -config reviewporter.toml add-reviewers -repository web -request-id 42\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "  %s -config reviewporter.toml send-reports web api\n", os.Args[0])
}

func main() {
	flag.Usage = usage
	flag.Parse()

	if *configPath == "" || flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	logLevel := slog.LevelInfo
	if *verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("Loading configuration", "path", *configPath)
	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	args := flag.Args()
	switch args[0] {
	case "add-reviewers":
		err = runAddReviewers(ctx, cfg, logger, args[1:])
	case "send-reports":
		err = runSendReports(ctx, cfg, logger, args[1:])
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", args[0])
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		slog.Error("Command failed", "command", args[0], "error", err)
		os.Exit(1)
	}
}

func runAddReviewers(ctx context.Context, cfg *config.Config, logger *slog.Logger, args []string) error {
	fs := flag.NewFlagSet("add-reviewers", flag.ContinueOnError)
	repository := fs.String("repository", "", "Pull request's repository name")
	requestID := fs.String("request-id", "", "Pull request's id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *repository == "" || *requestID == "" {
		fs.Usage()
		return errors.New("-repository and -request-id are required")
	}

	client, err := newAzureClient(cfg)
	if err != nil {
		return err
	}

	outOfOffice := func(string) bool { return false }
	if err := cfg.ValidateSlack(); err != nil {
		slog.Warn("Slack is not configured, vacation status is ignored", "error", err)
	} else {
		dir, err := slackDirectory(ctx, cfg)
		if err != nil {
			return err
		}
		outOfOffice = dir.OnVacation
	}

	svc := reviewer.New(client, reviewer.Config{
		Logger:            logger.With("component", "reviewer"),
		AllMembersTeam:    cfg.Azure.TeamName,
		Teams:             cfg.DevTeams(),
		RequiredReviewers: cfg.Azure.RequiredReviewersCount,
	})
	added, err := svc.AddReviewers(ctx, *repository, *requestID, outOfOffice)
	if err != nil {
		return err
	}

	if len(added) == 0 {
		fmt.Println("No reviewers were added")
		return nil
	}
	fmt.Printf("Added %d reviewers to %s#%s:\n", len(added), *repository, *requestID)
	for _, r := range added {
		kind := "optional"
		if r.IsRequired {
			kind = "required"
		}
		fmt.Printf("  %s (%s)\n", r.ID, kind)
	}
	return nil
}

func runSendReports(ctx context.Context, cfg *config.Config, logger *slog.Logger, repositories []string) error {
	if len(repositories) == 0 {
		repositories = cfg.Azure.Repositories
	}
	if len(repositories) == 0 {
		return errors.New("no repositories given on the command line or in azure.repositories")
	}
	if err := cfg.ValidateSlack(); err != nil {
		return err
	}

	client, err := newAzureClient(cfg)
	if err != nil {
		return err
	}
	slackClient := newSlackClient(cfg)
	users, err := slackClient.Users(ctx)
	if err != nil {
		return fmt.Errorf("failed to load Slack users: %w", err)
	}
	dir := slack.NewDirectory(users)

	slog.Info("Collecting pull requests", "team", cfg.Azure.TeamName, "repositories", strings.Join(repositories, ","))
	provider := report.NewProvider(client, cfg.Azure.TeamName, repositories, logger)
	digests, err := provider.Collect(ctx, dir.Includes)
	if err != nil {
		return err
	}
	return report.Send(ctx, slackClient, dir, digests, time.Now())
}

func newAzureClient(cfg *config.Config) (*azure.Client, error) {
	client, err := azure.New(azure.Config{
		BaseURL:     cfg.Azure.BaseURL,
		Project:     cfg.Azure.Project,
		Token:       cfg.Azure.Token,
		HTTPTimeout: cfg.Azure.HTTPTimeout.Duration,
		RosterTTL:   cfg.Azure.RosterTTL.Duration,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Azure DevOps client: %w", err)
	}
	return client, nil
}

func newSlackClient(cfg *config.Config) *slack.Client {
	return slack.New(slack.Config{
		Token:       cfg.Slack.Token,
		TeamID:      cfg.Slack.TeamID,
		UsergroupID: cfg.Slack.UsergroupID,
		HTTPTimeout: cfg.Azure.HTTPTimeout.Duration,
	})
}

func slackDirectory(ctx context.Context, cfg *config.Config) (*slack.Directory, error) {
	users, err := newSlackClient(cfg).Users(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load Slack users: %w", err)
	}
	return slack.NewDirectory(users), nil
}
