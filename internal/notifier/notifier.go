package notifier

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Surface shows a notification to the user.
type Surface interface {
	Show(ctx context.Context, n Notification) error
}

// Data travels with a notification and is handed back on activation.
type Data struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	URL       string    `json:"url"`
}

type Notification struct {
	Title              string `json:"title"`
	Body               string `json:"body"`
	Icon               string `json:"icon,omitempty"`
	Badge              string `json:"badge,omitempty"`
	Tag                string `json:"tag,omitempty"`
	Vibrate            []int  `json:"vibrate,omitempty"`
	RequireInteraction bool   `json:"require_interaction"`
	Urgent             bool   `json:"urgent,omitempty"`
	Data               Data   `json:"data"`
}

// Multi fans a notification out to every sink. It succeeds if any sink succeeds.
type Multi []Surface

func (m Multi) Show(ctx context.Context, n Notification) error {
	if len(m) == 0 {
		return errors.New("no notification sinks configured")
	}

	var errs []string
	delivered := false
	for _, s := range m {
		if err := s.Show(ctx, n); err != nil {
			errs = append(errs, err.Error())
			continue
		}
		delivered = true
	}

	if delivered {
		return nil
	}
	return fmt.Errorf("all notification sinks failed: %s", strings.Join(errs, "; "))
}
