package meds

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/medwatch/internal/cli"
	"github.com/julianstephens/medwatch/internal/config"
	"github.com/julianstephens/medwatch/internal/constants"
	"github.com/julianstephens/medwatch/internal/models"
)

func setupTestContext(t *testing.T) (*cli.Context, *bytes.Buffer) {
	t.Helper()
	t.Setenv("MEDWATCH_STORE_PATH", filepath.Join(t.TempDir(), "medwatch.db"))

	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	var out bytes.Buffer
	ctx, err := cli.NewContext(cfg, true)
	if err != nil {
		t.Fatal(err)
	}
	ctx.Out = &out
	t.Cleanup(func() { ctx.Store.Close() })
	return ctx, &out
}

func TestListCmd(t *testing.T) {
	ctx, out := setupTestContext(t)

	meds := []models.Medication{
		{ID: "1", Name: "Zinc", Status: models.StatusEnded},
		{ID: "2", Name: "Ibuprofen", Status: models.StatusActiveNew},
		{ID: "3", Name: "Aspirin", Status: models.StatusActiveOld},
	}
	if err := ctx.Store.ReplaceMedications(context.Background(), meds); err != nil {
		t.Fatal(err)
	}

	if err := (&ListCmd{}).Run(ctx); err != nil {
		t.Fatalf("ListCmd.Run() error = %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines:\n%s", len(lines), out.String())
	}
	for i, want := range []string{"Aspirin", "Ibuprofen", "Zinc"} {
		if !strings.HasPrefix(lines[i], want) {
			t.Errorf("line %d = %q, want prefix %q", i, lines[i], want)
		}
	}

	out.Reset()
	if err := (&ListCmd{Active: true}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(out.String(), "Zinc") {
		t.Errorf("--active listed an ended medication:\n%s", out.String())
	}
}

func TestListCmd_Empty(t *testing.T) {
	ctx, out := setupTestContext(t)

	if err := (&ListCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "No medications found.") {
		t.Errorf("output = %q", out.String())
	}
}

func TestLogCmd(t *testing.T) {
	ctx, out := setupTestContext(t)

	ts := time.Date(2024, 3, 5, 8, 0, 0, 0, time.Local)
	entry := models.NewLogEntry("a", constants.LogTypeDailyReminder, constants.LogMessageSent, ts)
	if err := ctx.Store.AppendLog(context.Background(), entry); err != nil {
		t.Fatal(err)
	}

	if err := (&LogCmd{Date: "2024-03-05"}).Run(ctx); err != nil {
		t.Fatalf("LogCmd.Run() error = %v", err)
	}
	if !strings.Contains(out.String(), constants.LogMessageSent) {
		t.Errorf("output = %q", out.String())
	}

	out.Reset()
	if err := (&LogCmd{Date: "2024-03-06"}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "No notifications logged for 2024-03-06.") {
		t.Errorf("output = %q", out.String())
	}

	out.Reset()
	if err := (&LogCmd{All: true}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), constants.LogMessageSent) {
		t.Errorf("--all output = %q", out.String())
	}

	if err := (&LogCmd{Date: "05/03/2024"}).Run(ctx); err == nil {
		t.Error("expected error for malformed date")
	}
}
