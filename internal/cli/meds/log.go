package meds

import (
	"context"
	"fmt"
	"time"

	"github.com/julianstephens/medwatch/internal/cli"
	"github.com/julianstephens/medwatch/internal/constants"
	"github.com/julianstephens/medwatch/internal/models"
)

// LogCmd prints the notification log for one local date.
type LogCmd struct {
	Date string `arg:"" optional:"" help:"Date to show (YYYY-MM-DD). Defaults to today."`
	All  bool   `help:"Show every entry regardless of date."`
}

func (c *LogCmd) Run(ctx *cli.Context) error {
	date := models.LocalDateKey(time.Now())
	if c.Date != "" {
		if _, err := time.Parse(constants.DateFormat, c.Date); err != nil {
			return fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", c.Date)
		}
		date = c.Date
	}
	if c.All {
		date = ""
	}

	entries, err := ctx.Store.ListLogs(context.Background(), date)
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		if date == "" {
			fmt.Fprintln(ctx.Out, "Notification log is empty.")
		} else {
			fmt.Fprintf(ctx.Out, "No notifications logged for %s.\n", date)
		}
		return nil
	}

	for _, e := range entries {
		fmt.Fprintf(ctx.Out, "%s  %-16s %s\n", e.Timestamp.Local().Format(time.DateTime), e.Type, e.Message)
	}
	return nil
}
