package rotation

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vhark/ProxmoxMCP/internal/proxmox"
)

// FleetAPI is everything the driver needs from the Proxmox client.
type FleetAPI interface {
	SnapshotAPI
	ListGuests(ctx context.Context) ([]proxmox.ClusterGuest, error)
	ListSnapshots(ctx context.Context, ref proxmox.GuestRef) ([]proxmox.Snapshot, error)
}

// DriverOptions parameterize a fleet pass.
type DriverOptions struct {
	Windows       Windows
	WeeklyDay     time.Weekday // week boundary day, default Monday
	IncludeMemory bool
	Clock         func() time.Time // defaults to time.Now
}

// Driver runs one rotation pass over every eligible guest in the cluster.
type Driver struct {
	api  FleetAPI
	opts DriverOptions
	log  *logrus.Entry
}

// NewDriver builds a fleet driver.
func NewDriver(api FleetAPI, opts DriverOptions) *Driver {
	if opts.Windows == nil {
		opts.Windows = DefaultWindows()
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	return &Driver{
		api:  api,
		opts: opts,
		log:  logrus.WithField("component", "rotation"),
	}
}

// Run performs a full fleet pass and returns its report. Templates and guests
// without a placement node are excluded entirely. A guest whose snapshot
// listing fails is skipped and counted; it never aborts the pass. Only a
// failure to list the inventory itself is returned as an error.
func (d *Driver) Run(ctx context.Context, dryRun bool) (*Report, error) {
	now := d.opts.Clock().UTC()
	plan := NewPlan(now, d.opts.WeeklyDay, d.opts.Windows)

	guests, err := d.api.ListGuests(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing cluster guests: %w", err)
	}

	report := NewReport(now, dryRun)
	executor := NewExecutor(d.api, d.opts.IncludeMemory)

	d.log.WithFields(logrus.Fields{
		"run":    report.ID,
		"due":    plan.Due,
		"guests": len(guests),
		"dryRun": dryRun,
	}).Info("starting rotation pass")

	for _, guest := range guests {
		if guest.Template.Bool() {
			continue
		}
		if guest.Node == "" {
			d.log.WithField("vmid", guest.VMID).Warn("guest has no placement node, skipping")
			continue
		}

		ref := guest.Ref()
		snapshots, err := d.api.ListSnapshots(ctx, ref)
		if err != nil {
			d.log.WithFields(logrus.Fields{"vmid": ref.VMID, "node": ref.Node}).
				WithError(err).Warn("cannot list snapshots, skipping guest")
			report.SkipGuest()
			continue
		}

		executor.Rotate(ctx, ref, snapshots, plan, dryRun, report)
	}

	d.log.WithFields(logrus.Fields{
		"run":     report.ID,
		"created": report.Created(),
		"deleted": report.Deleted(),
		"skipped": report.Skipped(),
		"errors":  report.Errors(),
	}).Info("rotation pass finished")

	return report, nil
}
