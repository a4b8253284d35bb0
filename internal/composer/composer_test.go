package composer

import (
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/medwatch/internal/models"
)

func mustDate(t *testing.T, s string) *models.Date {
	t.Helper()
	d, err := models.ParseDate(s)
	if err != nil {
		t.Fatal(err)
	}
	return &d
}

func TestRemainingDays(t *testing.T) {
	today := time.Date(2024, 1, 16, 7, 50, 0, 0, time.Local)

	tests := []struct {
		end  string
		want int
	}{
		{"2024-01-20", 4},
		{"2024-01-16", 0},
		{"2024-01-15", -1},
		{"2024-02-16", 31},
	}

	for _, tt := range tests {
		t.Run(tt.end, func(t *testing.T) {
			if got := RemainingDays(*mustDate(t, tt.end), today); got != tt.want {
				t.Errorf("RemainingDays(%s) = %d, want %d", tt.end, got, tt.want)
			}
		})
	}
}

func TestRemainingDaysAcrossDST(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Prague")
	if err != nil {
		t.Skipf("timezone data unavailable: %v", err)
	}

	// Spring forward on 2024-03-31 makes that day 23h long
	today := time.Date(2024, 3, 30, 8, 0, 0, 0, loc)
	if got := RemainingDays(*mustDate(t, "2024-04-02"), today); got != 3 {
		t.Errorf("RemainingDays across DST = %d, want 3", got)
	}

	// Fall back on 2024-10-27 makes that day 25h long
	today = time.Date(2024, 10, 26, 8, 0, 0, 0, loc)
	if got := RemainingDays(*mustDate(t, "2024-10-28"), today); got != 2 {
		t.Errorf("RemainingDays across DST = %d, want 2", got)
	}
}

func TestElapsedDays(t *testing.T) {
	today := time.Date(2024, 1, 16, 23, 59, 0, 0, time.Local)

	tests := []struct {
		start string
		want  int
	}{
		{"2024-01-16", 0},
		{"2024-01-01", 15},
		{"2024-01-17", -1},
	}

	for _, tt := range tests {
		t.Run(tt.start, func(t *testing.T) {
			if got := ElapsedDays(*mustDate(t, tt.start), today); got != tt.want {
				t.Errorf("ElapsedDays(%s) = %d, want %d", tt.start, got, tt.want)
			}
		})
	}
}

func TestComposeAspirin(t *testing.T) {
	today := time.Date(2024, 1, 16, 7, 50, 0, 0, time.Local)
	meds := []models.Medication{
		{ID: "1", Name: "Aspirin", Status: models.StatusActiveOld, EndDate: mustDate(t, "2024-01-20")},
	}

	r := Compose(meds, today)

	if r.Title != "🌅 Ranní přehled léků" {
		t.Errorf("Title = %q", r.Title)
	}
	want := "🌅 Dobré ráno, admirále!\n\nDnes užíváš:\n💊 Aspirin - zbývá 4 dní\n\n⚠️ Upozornění:\n⚠️ Aspirin - zbývá 4 dní"
	if r.Body != want {
		t.Errorf("Body =\n%q\nwant\n%q", r.Body, want)
	}
	if !r.Urgent {
		t.Error("expected Urgent for a course ending within a week")
	}
}

func TestComposeWarnings(t *testing.T) {
	today := time.Date(2024, 1, 16, 8, 0, 0, 0, time.Local)

	tests := []struct {
		name        string
		med         models.Medication
		wantLine    string
		wantWarning string
	}{
		{
			name:     "open ended",
			med:      models.Medication{Name: "Vitamin D", Status: models.StatusActiveNew},
			wantLine: "🔵 Vitamin D - dlouhodobě",
		},
		{
			name:     "far end",
			med:      models.Medication{Name: "Iron", Status: models.StatusActiveOld, EndDate: mustDate(t, "2024-01-24")},
			wantLine: "💊 Iron - zbývá 8 dní",
		},
		{
			name:        "seven days",
			med:         models.Medication{Name: "Iron", Status: models.StatusActiveOld, EndDate: mustDate(t, "2024-01-23")},
			wantLine:    "💊 Iron - zbývá 7 dní",
			wantWarning: "⚠️ Iron - zbývá 7 dní",
		},
		{
			name:        "ends today",
			med:         models.Medication{Name: "Iron", Status: models.StatusActiveNew, EndDate: mustDate(t, "2024-01-16")},
			wantLine:    "🔵 Iron - zbývá 0 dní",
			wantWarning: "🔴 Iron - SKONČENO!",
		},
		{
			name:        "overdue",
			med:         models.Medication{Name: "Iron", Status: models.StatusActiveOld, EndDate: mustDate(t, "2024-01-10")},
			wantLine:    "💊 Iron - zbývá -6 dní",
			wantWarning: "🔴 Iron - SKONČENO!",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Compose([]models.Medication{tt.med}, today)
			if len(r.Lines) != 1 || r.Lines[0] != tt.wantLine {
				t.Errorf("Lines = %v, want [%s]", r.Lines, tt.wantLine)
			}
			if tt.wantWarning == "" {
				if len(r.Warnings) != 0 || r.Urgent {
					t.Errorf("unexpected warnings %v", r.Warnings)
				}
				if strings.Contains(r.Body, "Upozornění") {
					t.Error("body should not contain warning section")
				}
				return
			}
			if len(r.Warnings) != 1 || r.Warnings[0] != tt.wantWarning {
				t.Errorf("Warnings = %v, want [%s]", r.Warnings, tt.wantWarning)
			}
		})
	}
}

func TestComposeSkipsInactive(t *testing.T) {
	today := time.Date(2024, 1, 16, 8, 0, 0, 0, time.Local)
	meds := []models.Medication{
		{Name: "Old", Status: models.StatusEnded, EndDate: mustDate(t, "2024-01-17")},
		{Name: "Unknown", Status: models.Status("Pauza")},
		{Name: "Current", Status: models.StatusActiveOld},
	}

	r := Compose(meds, today)
	if len(r.Lines) != 1 || r.Lines[0] != "💊 Current - dlouhodobě" {
		t.Errorf("Lines = %v", r.Lines)
	}
	if strings.Contains(r.Body, "Old") || strings.Contains(r.Body, "Unknown") {
		t.Errorf("inactive medication leaked into body: %q", r.Body)
	}
}

func TestCountdown(t *testing.T) {
	today := time.Date(2024, 1, 16, 12, 0, 0, 0, time.Local)

	tests := []struct {
		name     string
		med      models.Medication
		want     string
		wantTone Tone
	}{
		{"remaining", models.Medication{EndDate: mustDate(t, "2024-01-20")}, "Zbývá 4 dní", ToneRemaining},
		{"due today", models.Medication{EndDate: mustDate(t, "2024-01-16")}, "Dobrání dnes!", ToneDueToday},
		{"overdue", models.Medication{EndDate: mustDate(t, "2024-01-13")}, "Uplynulo 3 dní", ToneOverdue},
		{"ongoing", models.Medication{StartDate: mustDate(t, "2024-01-06")}, "Užívá se 10 dní", ToneOngoing},
		{"future start", models.Medication{StartDate: mustDate(t, "2024-02-01")}, "", ToneNone},
		{"no dates", models.Medication{}, "", ToneNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, tone := Countdown(tt.med, today)
			if got != tt.want || tone != tt.wantTone {
				t.Errorf("Countdown() = %q, %v; want %q, %v", got, tone, tt.want, tt.wantTone)
			}
		})
	}
}
