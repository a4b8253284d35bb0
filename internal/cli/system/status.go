package system

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/medwatch/internal/cli"
	"github.com/julianstephens/medwatch/internal/constants"
	"github.com/julianstephens/medwatch/internal/models"
)

type StatusCmd struct{}

func (c *StatusCmd) Run(ctx *cli.Context) error {
	appCtx := context.Background()
	now := time.Now()
	dec := ctx.Decision()

	fmt.Fprintf(ctx.Out, "Strategy:        %s\n", dec.Strategy)
	fmt.Fprintf(ctx.Out, "Background wake: %s\n", yesNo(dec.CapabilityPresent))
	fmt.Fprintf(ctx.Out, "Installed:       %s\n", yesNo(dec.Installed))
	fmt.Fprintf(ctx.Out, "Permission:      %s\n", ctx.Config.Notify.Permission)
	fmt.Fprintf(ctx.Out, "Window:          %s-%s\n", ctx.Config.Reminder.WindowStart, ctx.Config.Reminder.WindowEnd)

	tags, err := ctx.Waker.Tags(appCtx)
	if err != nil {
		return err
	}
	if len(tags) == 0 {
		fmt.Fprintln(ctx.Out, "Wake tags:       none")
	} else {
		fmt.Fprintf(ctx.Out, "Wake tags:       %s\n", strings.Join(tags, ", "))
	}

	sent, err := ctx.Store.HasLogForDate(appCtx, constants.LogTypeDailyReminder, models.LocalDateKey(now))
	if err != nil {
		return err
	}
	fmt.Fprintf(ctx.Out, "Sent today:      %s\n", yesNo(sent))

	meds, err := ctx.Store.ListMedications(appCtx)
	if err != nil {
		return err
	}
	fmt.Fprintf(ctx.Out, "Medications:     %d (%d active)\n", len(meds), len(models.FilterActive(meds)))

	return nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
