// Package strategy picks how reminders are delivered on this host: by the background worker on
// recurring wakes, or by a foreground timer while the process is running.
package strategy

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/julianstephens/medwatch/internal/constants"
	apperrors "github.com/julianstephens/medwatch/internal/errors"
	"github.com/julianstephens/medwatch/internal/logger"
	"github.com/julianstephens/medwatch/internal/models"
	"github.com/julianstephens/medwatch/internal/platform"
	"github.com/julianstephens/medwatch/internal/replication"
	"github.com/julianstephens/medwatch/internal/ui"
)

type Strategy int

const (
	Background Strategy = iota
	Fallback
)

func (s Strategy) String() string {
	if s == Background {
		return "background"
	}
	return "fallback"
}

type Decision struct {
	Strategy          Strategy
	PromptInstall     bool
	CapabilityPresent bool
	Installed         bool
}

// Select is the pure strategy predicate.
func Select(capabilityPresent, installed bool) Decision {
	d := Decision{
		Strategy:          Fallback,
		CapabilityPresent: capabilityPresent,
		Installed:         installed,
	}
	if capabilityPresent && installed {
		d.Strategy = Background
	}
	d.PromptInstall = capabilityPresent && !installed
	return d
}

// Banner texts
const (
	MsgBackgroundActive  = "Background reminders are active."
	MsgBackgroundEnabled = "Background reminders enabled."
	MsgInstallPrompt     = "Install medwatch to a stable location for reliable background reminders."
	MsgNoCapability      = "This host cannot run background reminders; use one that can. Reminders fire while medwatch is running."
	MsgWakeDenied        = "Background reminders were not allowed."
	MsgWakeFailed        = "Failed to enable background reminders."
)

type Prober interface {
	CapabilityPresent() bool
	Installed() bool
}

type Waker interface {
	Register(ctx context.Context, tag string, minInterval time.Duration) error
	Tags(ctx context.Context) ([]string, error)
}

type Host interface {
	UpdateMedicines(ctx context.Context, meds []models.Medication) error
}

type Detector struct {
	probe       Prober
	waker       Waker
	host        Host
	current     *replication.Current
	banners     *ui.Banners
	minInterval time.Duration
}

func NewDetector(probe Prober, waker Waker, host Host, current *replication.Current, banners *ui.Banners, minInterval time.Duration) *Detector {
	if minInterval <= 0 {
		minInterval = constants.DefaultWakeMinInterval
	}
	return &Detector{
		probe:       probe,
		waker:       waker,
		host:        host,
		current:     current,
		banners:     banners,
		minInterval: minInterval,
	}
}

// Setup probes the host once and prepares the chosen strategy. For Fallback the caller runs the
// foreground timer.
func (d *Detector) Setup(ctx context.Context) Decision {
	dec := Select(d.probe.CapabilityPresent(), d.probe.Installed())
	logger.Info("Delivery strategy selected",
		"strategy", dec.Strategy.String(),
		"capability", dec.CapabilityPresent,
		"installed", dec.Installed,
	)

	if dec.Strategy == Background {
		d.setupBackground(ctx)
		return dec
	}

	switch {
	case dec.PromptInstall:
		d.banners.Publish(ui.LevelInfo, MsgInstallPrompt)
	case !dec.CapabilityPresent:
		d.banners.Publish(ui.LevelWarning, MsgNoCapability)
	}
	return dec
}

func (d *Detector) setupBackground(ctx context.Context) {
	if meds, ok := d.current.Get(); ok && d.host != nil {
		if err := d.host.UpdateMedicines(ctx, meds); err != nil {
			logger.Warn("Failed to hand medications to background worker", "error", err)
		}
	}

	tags, err := d.waker.Tags(ctx)
	if err != nil {
		logger.Warn("Failed to read wake registrations", "error", err)
	}
	if slices.Contains(tags, constants.WakeTagPeriodic) {
		d.banners.Publish(ui.LevelSuccess, MsgBackgroundActive)
		return
	}

	_ = d.EnableBackground(ctx)
}

// EnableBackground registers the recurring wake. Failures are reported, never fatal.
func (d *Detector) EnableBackground(ctx context.Context) error {
	err := d.waker.Register(ctx, constants.WakeTagPeriodic, d.minInterval)
	if err == nil {
		d.banners.Publish(ui.LevelSuccess, MsgBackgroundEnabled)
		return nil
	}

	if errors.Is(err, platform.ErrNotAllowed) || errors.Is(err, apperrors.ErrPermissionDenied) {
		d.banners.Publish(ui.LevelWarning, MsgWakeDenied)
	} else {
		d.banners.Publish(ui.LevelError, MsgWakeFailed)
	}
	logger.Warn("Wake registration failed", "tag", constants.WakeTagPeriodic, "error", err)
	return err
}
