package notifier

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/nicholas-fedor/shoutrrr"
	"github.com/nicholas-fedor/shoutrrr/pkg/router"
	"github.com/nicholas-fedor/shoutrrr/pkg/types"
)

// Shoutrrr pushes notifications to every configured service URL (ntfy, gotify, telegram...).
type Shoutrrr struct {
	sender *router.ServiceRouter
}

func NewShoutrrr(urls []string, timeout time.Duration) (*Shoutrrr, error) {
	if len(urls) == 0 {
		return nil, fmt.Errorf("at least one notification URL is required")
	}

	sender, err := shoutrrr.CreateSender(urls...)
	if err != nil {
		return nil, fmt.Errorf("invalid notification URL: %w", err)
	}
	if timeout > 0 {
		sender.Timeout = timeout
	}
	sender.SetLogger(log.New(io.Discard, "", 0))

	return &Shoutrrr{sender: sender}, nil
}

func (s *Shoutrrr) Show(ctx context.Context, n Notification) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	params := types.Params{}
	if n.Title != "" {
		params.SetTitle(n.Title)
	}

	for _, err := range s.sender.Send(n.Body, &params) {
		if err != nil {
			return fmt.Errorf("push notification failed: %w", err)
		}
	}
	return nil
}
