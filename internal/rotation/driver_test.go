package rotation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vhark/ProxmoxMCP/internal/proxmox"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestDriverRotatesEligibleGuests(t *testing.T) {
	now := time.Date(2026, 1, 14, 4, 37, 0, 0, time.UTC)

	api := newFakeAPI()
	api.guests = []proxmox.ClusterGuest{
		{VMID: 100, Node: "pve1", Type: proxmox.GuestVM},
		{VMID: 200, Node: "pve2", Type: proxmox.GuestContainer},
	}

	driver := NewDriver(api, DriverOptions{Clock: fixedClock(now)})
	report, err := driver.Run(context.Background(), false)
	require.NoError(t, err)

	// Hourly is due for both guests.
	assert.Equal(t, 2, report.Created())
	assert.Zero(t, report.Errors())
	assert.False(t, report.DryRun)
	assert.NotEmpty(t, report.ID)
	assert.True(t, report.StartedAt.Equal(now))
}

func TestDriverSkipsTemplatesAndUnplacedGuests(t *testing.T) {
	now := time.Date(2026, 1, 14, 4, 37, 0, 0, time.UTC)

	api := newFakeAPI()
	api.guests = []proxmox.ClusterGuest{
		{VMID: 100, Node: "pve1", Type: proxmox.GuestVM, Template: true},
		{VMID: 101, Node: "", Type: proxmox.GuestVM},
		{VMID: 102, Node: "pve1", Type: proxmox.GuestVM},
	}

	driver := NewDriver(api, DriverOptions{Clock: fixedClock(now)})
	report, err := driver.Run(context.Background(), false)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Created())
	// Ineligible guests are excluded, not errors.
	assert.Zero(t, report.Errors())
	assert.Zero(t, report.Skipped())
}

func TestDriverIsolatesListingFailures(t *testing.T) {
	now := time.Date(2026, 1, 14, 4, 37, 0, 0, time.UTC)

	api := newFakeAPI()
	api.guests = []proxmox.ClusterGuest{
		{VMID: 100, Node: "pve1", Type: proxmox.GuestVM},
		{VMID: 101, Node: "pve1", Type: proxmox.GuestVM},
		{VMID: 102, Node: "pve2", Type: proxmox.GuestVM},
	}
	api.listErr[101] = errors.New("connection refused")

	driver := NewDriver(api, DriverOptions{Clock: fixedClock(now)})
	report, err := driver.Run(context.Background(), false)
	require.NoError(t, err)

	// Guests 100 and 102 were still processed.
	assert.Equal(t, 2, report.Created())
	assert.Equal(t, 1, report.Skipped())
	assert.Equal(t, 1, report.Errors())
}

func TestDriverInventoryFailureIsFatal(t *testing.T) {
	api := &failingInventoryAPI{}
	driver := NewDriver(api, DriverOptions{})

	report, err := driver.Run(context.Background(), false)
	require.Error(t, err)
	assert.Nil(t, report)
}

func TestDriverPassesWindowsToPlan(t *testing.T) {
	now := time.Date(2026, 1, 14, 4, 37, 0, 0, time.UTC)

	api := newFakeAPI()
	api.guests = []proxmox.ClusterGuest{{VMID: 100, Node: "pve1", Type: proxmox.GuestVM}}
	// Under a 1-hour window this snapshot is gone; under the default 3 days
	// it would survive.
	api.snapshots[100] = []proxmox.Snapshot{{Name: "auto-hourly-20260114-0300"}}

	driver := NewDriver(api, DriverOptions{
		Windows: Windows{Hourly: time.Hour},
		Clock:   fixedClock(now),
	})
	report, err := driver.Run(context.Background(), false)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Deleted())
	assert.Equal(t, []string{"auto-hourly-20260114-0300"}, api.deleted)
}

type failingInventoryAPI struct{ fakeAPI }

func (f *failingInventoryAPI) ListGuests(ctx context.Context) ([]proxmox.ClusterGuest, error) {
	return nil, errors.New("cluster unreachable")
}
