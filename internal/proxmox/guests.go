package proxmox

import (
	"context"
	"fmt"
	"net/url"
	"sort"
)

// ListGuests returns the cluster-wide guest inventory, VMs and containers
// alike, sorted by VMID for stable iteration order.
func (c *Client) ListGuests(ctx context.Context) ([]ClusterGuest, error) {
	var guests []ClusterGuest
	q := url.Values{"type": {"vm"}}
	if err := c.get(ctx, "/cluster/resources", q, &guests); err != nil {
		return nil, err
	}
	sort.Slice(guests, func(i, j int) bool { return guests[i].VMID < guests[j].VMID })
	return guests, nil
}

// ListVMs returns a summary of every QEMU VM in the cluster. The per-VM core
// count requires a config lookup; when that lookup fails the VM is still
// listed, with Cores left unset.
func (c *Client) ListVMs(ctx context.Context) ([]VMSummary, error) {
	guests, err := c.ListGuests(ctx)
	if err != nil {
		return nil, err
	}

	var vms []VMSummary
	for _, g := range guests {
		if g.Type != GuestVM {
			continue
		}
		vm := VMSummary{
			VMID:   g.VMID,
			Name:   g.Name,
			Status: g.Status,
			Node:   g.Node,
			Mem:    g.Mem,
			MaxMem: g.MaxMem,
		}
		var cfg struct {
			Cores int `json:"cores"`
		}
		if err := c.get(ctx, g.Ref().apiPath()+"/config", nil, &cfg); err == nil && cfg.Cores > 0 {
			cores := cfg.Cores
			vm.Cores = &cores
		}
		vms = append(vms, vm)
	}
	return vms, nil
}

// ListContainers returns a summary of every LXC container in the cluster.
func (c *Client) ListContainers(ctx context.Context) ([]ContainerSummary, error) {
	guests, err := c.ListGuests(ctx)
	if err != nil {
		return nil, err
	}

	var cts []ContainerSummary
	for _, g := range guests {
		if g.Type != GuestContainer {
			continue
		}
		cts = append(cts, ContainerSummary{
			VMID:   g.VMID,
			Name:   g.Name,
			Status: g.Status,
			Node:   g.Node,
			Mem:    g.Mem,
			MaxMem: g.MaxMem,
		})
	}
	return cts, nil
}

// ListSnapshots lists the snapshots of a guest.
func (c *Client) ListSnapshots(ctx context.Context, ref GuestRef) ([]Snapshot, error) {
	var snaps []Snapshot
	if err := c.get(ctx, ref.apiPath()+"/snapshot", nil, &snaps); err != nil {
		return nil, fmt.Errorf("listing snapshots of %s: %w", ref, err)
	}
	return snaps, nil
}

// CreateSnapshot creates a named snapshot. The API rejects names that already
// exist. The memory-state option only applies to QEMU VMs.
func (c *Client) CreateSnapshot(ctx context.Context, ref GuestRef, name string, opts SnapshotOptions) error {
	form := url.Values{"snapname": {name}}
	if opts.Description != "" {
		form.Set("description", opts.Description)
	}
	if opts.Memory && ref.Type == GuestVM {
		form.Set("vmstate", "1")
	}
	if err := c.postForm(ctx, ref.apiPath()+"/snapshot", form, nil); err != nil {
		return fmt.Errorf("creating snapshot %s on %s: %w", name, ref, err)
	}
	return nil
}

// DeleteSnapshot removes a named snapshot.
func (c *Client) DeleteSnapshot(ctx context.Context, ref GuestRef, name string) error {
	if err := c.deletePath(ctx, ref.apiPath()+"/snapshot/"+url.PathEscape(name)); err != nil {
		return fmt.Errorf("deleting snapshot %s on %s: %w", name, ref, err)
	}
	return nil
}

// RollbackSnapshot starts a rollback of the guest to a named snapshot.
func (c *Client) RollbackSnapshot(ctx context.Context, ref GuestRef, name string) error {
	path := ref.apiPath() + "/snapshot/" + url.PathEscape(name) + "/rollback"
	if err := c.postForm(ctx, path, url.Values{}, nil); err != nil {
		return fmt.Errorf("rolling back %s to snapshot %s: %w", ref, name, err)
	}
	return nil
}
