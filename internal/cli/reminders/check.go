package reminders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/medwatch/internal/cli"
	"github.com/julianstephens/medwatch/internal/constants"
	"github.com/julianstephens/medwatch/internal/platform"
	"github.com/julianstephens/medwatch/internal/scheduler"
)

// CheckCmd runs one reminder check against the local store.
type CheckCmd struct {
	Now        bool `help:"Ignore the reminder window (all other guards still apply)."`
	Background bool `help:"Queue a one-shot wake for the running service instead of checking here."`
}

func (c *CheckCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Open(context.Background()); err != nil {
		return err
	}

	if c.Background {
		return c.queue(ctx)
	}

	res := ctx.Scheduler.Check(context.Background(), time.Now(), scheduler.Options{BypassWindow: c.Now})
	if res.Sent {
		fmt.Fprintln(ctx.Out, "✓ Morning reminder sent")
		return nil
	}

	fmt.Fprintf(ctx.Out, "No reminder sent: %s (stopped at %s)\n", describe(res.Reason, ctx.Scheduler.Window()), res.State)
	if res.Reason == scheduler.ReasonEmitFailed {
		return fmt.Errorf("notification could not be shown")
	}
	return nil
}

func (c *CheckCmd) queue(ctx *cli.Context) error {
	err := ctx.Waker.RegisterOnce(context.Background(), constants.WakeTagOneShot)
	if errors.Is(err, platform.ErrNotAllowed) {
		fmt.Fprintln(ctx.Out, "Background wake is not allowed on this host; run `medwatch check` instead.")
		return err
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(ctx.Out, "✓ Queued %s; the running service checks within %s\n", constants.WakeTagOneShot, ctx.Config.Wake.Poll)
	return nil
}

func describe(reason string, w scheduler.Window) string {
	switch reason {
	case scheduler.ReasonOutsideWindow:
		return fmt.Sprintf("outside the reminder window %s-%s", clock(w.Start), clock(w.End))
	case scheduler.ReasonAlreadySent:
		return "already sent today"
	case scheduler.ReasonNoMedications:
		return "no medications stored"
	case scheduler.ReasonNoActive:
		return "no active medications"
	case scheduler.ReasonPermission:
		return "notification permission not granted"
	default:
		return reason
	}
}

func clock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
