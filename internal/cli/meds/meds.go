package meds

import (
	"context"
	"fmt"
	"time"

	"github.com/julianstephens/medwatch/internal/cli"
	"github.com/julianstephens/medwatch/internal/models"
)

// ListCmd prints the locally replicated medication snapshot.
type ListCmd struct {
	Active bool `help:"Only show medications currently being taken."`
}

func (c *ListCmd) Run(ctx *cli.Context) error {
	meds, err := ctx.Store.ListMedications(context.Background())
	if err != nil {
		return err
	}
	if c.Active {
		meds = models.FilterActive(meds)
	}

	if len(meds) == 0 {
		fmt.Fprintln(ctx.Out, "No medications found.")
		return nil
	}

	models.SortForDisplay(meds)
	today := time.Now()
	for _, m := range meds {
		fmt.Fprintln(ctx.Out, cli.FormatMedication(m, today))
	}
	return nil
}
