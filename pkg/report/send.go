package report

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
)

// Messenger delivers a direct message to a user id.
type Messenger interface {
	SendMessage(ctx context.Context, userID, text string) error
}

// Recipients resolves a display name to a messaging user id.
type Recipients interface {
	Recipient(name string) (string, bool)
}

// Send delivers every digest whose member has a recipient id. Members without one are skipped.
// Messages go out concurrently and the first failure fails the whole delivery.
func Send(ctx context.Context, messenger Messenger, recipients Recipients, digests []Digest, now time.Time) error {
	g, gctx := errgroup.WithContext(ctx)
	sent := 0
	for i := range digests {
		d := &digests[i]
		id, ok := recipients.Recipient(d.Member.Name)
		if !ok {
			slog.DebugContext(ctx, "No recipient for member", "component", "report", "member", d.Member.Name)
			continue
		}
		sent++
		text := d.Render(now)
		g.Go(func() error {
			if err := messenger.SendMessage(gctx, id, text); err != nil {
				return fmt.Errorf("failed to send report to %s: %w", d.Member.Name, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	slog.InfoContext(ctx, "All messages were sent", "component", "report", "count", sent)
	return nil
}
