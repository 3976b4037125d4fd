package rotation

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/vhark/ProxmoxMCP/internal/proxmox"
)

// SnapshotAPI is the slice of the Proxmox client the executor mutates
// through. Implementations must be safe for concurrent use.
type SnapshotAPI interface {
	CreateSnapshot(ctx context.Context, ref proxmox.GuestRef, name string, opts proxmox.SnapshotOptions) error
	DeleteSnapshot(ctx context.Context, ref proxmox.GuestRef, name string) error
}

// Executor applies a rotation plan to a single guest.
type Executor struct {
	api           SnapshotAPI
	includeMemory bool
	log           *logrus.Entry
}

// NewExecutor builds an executor. includeMemory controls whether QEMU
// snapshots capture the VM memory state.
func NewExecutor(api SnapshotAPI, includeMemory bool) *Executor {
	return &Executor{
		api:           api,
		includeMemory: includeMemory,
		log:           logrus.WithField("component", "rotation"),
	}
}

// Rotate runs the creation phase and then the pruning phase for one guest.
// Creation precedes pruning so a snapshot made this pass can never be
// immediately eligible for deletion. A failed action is recorded and logged
// but never aborts the remaining plan.
func (e *Executor) Rotate(ctx context.Context, ref proxmox.GuestRef, snapshots []proxmox.Snapshot, plan Plan, dryRun bool, report *Report) {
	for _, cadence := range plan.Due {
		e.create(ctx, ref, cadence, plan, dryRun, report)
	}

	buckets := Classify(snapshots)
	for _, cadence := range Cadences {
		cutoff := plan.Cutoffs[cadence]
		for _, snap := range buckets[cadence] {
			parsed, ok := ParseSnapshotName(snap.Name)
			if !ok {
				// Never delete a name the codec cannot parse.
				continue
			}
			if !parsed.Stamp.Before(cutoff) {
				continue
			}
			e.delete(ctx, ref, cadence, snap.Name, dryRun, report)
		}
	}
}

func (e *Executor) create(ctx context.Context, ref proxmox.GuestRef, cadence Cadence, plan Plan, dryRun bool, report *Report) {
	name := SnapshotName(cadence, plan.Now)
	action := Action{
		Kind:     ActionCreate,
		Node:     ref.Node,
		VMID:     ref.VMID,
		Cadence:  cadence,
		Snapshot: name,
	}
	fields := logrus.Fields{"vmid": ref.VMID, "node": ref.Node, "snapshot": name}

	if dryRun {
		e.log.WithFields(fields).Info("dry-run: would create snapshot")
		report.Record(action)
		return
	}

	opts := proxmox.SnapshotOptions{
		Description: "created by proxmox-mcp rotation",
		Memory:      e.includeMemory,
	}
	if err := e.api.CreateSnapshot(ctx, ref, name, opts); err != nil {
		e.log.WithFields(fields).WithError(err).Error("snapshot creation failed")
		action.Err = err.Error()
		report.Record(action)
		return
	}
	e.log.WithFields(fields).Info("created snapshot")
	report.Record(action)
}

func (e *Executor) delete(ctx context.Context, ref proxmox.GuestRef, cadence Cadence, name string, dryRun bool, report *Report) {
	action := Action{
		Kind:     ActionDelete,
		Node:     ref.Node,
		VMID:     ref.VMID,
		Cadence:  cadence,
		Snapshot: name,
	}
	fields := logrus.Fields{"vmid": ref.VMID, "node": ref.Node, "snapshot": name}

	if dryRun {
		e.log.WithFields(fields).Info("dry-run: would delete snapshot")
		report.Record(action)
		return
	}

	if err := e.api.DeleteSnapshot(ctx, ref, name); err != nil {
		e.log.WithFields(fields).WithError(err).Error("snapshot deletion failed")
		action.Err = err.Error()
		report.Record(action)
		return
	}
	e.log.WithFields(fields).Info("deleted snapshot")
	report.Record(action)
}
