package proxmox

import (
	"fmt"
	"strings"
	"time"
)

// GuestType selects the API family a guest belongs to.
type GuestType string

const (
	GuestVM        GuestType = "qemu"
	GuestContainer GuestType = "lxc"
)

// GuestRef identifies a guest by placement node, numeric ID, and type.
type GuestRef struct {
	Node string
	VMID int
	Type GuestType
}

func (g GuestRef) String() string {
	return fmt.Sprintf("%s/%s/%d", g.Node, g.Type, g.VMID)
}

// apiPath is the /nodes/... prefix for guest-scoped endpoints.
func (g GuestRef) apiPath() string {
	return fmt.Sprintf("/nodes/%s/%s/%d", g.Node, g.Type, g.VMID)
}

// IntBool decodes the 0/1 flags the Proxmox API uses for booleans. Some
// endpoints return them as numbers, others as strings.
type IntBool bool

func (b *IntBool) UnmarshalJSON(data []byte) error {
	switch strings.Trim(string(data), `"`) {
	case "1", "true":
		*b = true
	case "0", "false", "", "null":
		*b = false
	default:
		return fmt.Errorf("cannot decode %s as boolean flag", data)
	}
	return nil
}

func (b IntBool) Bool() bool { return bool(b) }

// ClusterGuest is one row of the cluster-wide guest inventory
// (GET /cluster/resources?type=vm, which covers both VMs and containers).
type ClusterGuest struct {
	VMID     int       `json:"vmid"`
	Name     string    `json:"name"`
	Node     string    `json:"node"`
	Type     GuestType `json:"type"`
	Status   string    `json:"status"`
	Template IntBool   `json:"template"`
	Mem      int64     `json:"mem"`
	MaxMem   int64     `json:"maxmem"`
	Uptime   int64     `json:"uptime"`
}

// Ref builds a GuestRef for this inventory row.
func (g ClusterGuest) Ref() GuestRef {
	return GuestRef{Node: g.Node, VMID: g.VMID, Type: g.Type}
}

// Snapshot is one entry of a guest's snapshot list. Proxmox includes a
// "current" pseudo-entry for the running state; SnapTime is zero when the API
// does not report a creation time.
type Snapshot struct {
	Name        string  `json:"name"`
	SnapTime    int64   `json:"snaptime"`
	Description string  `json:"description"`
	Parent      string  `json:"parent"`
	VMState     IntBool `json:"vmstate"`
}

// Created returns the creation time when the API reported one.
func (s Snapshot) Created() (time.Time, bool) {
	if s.SnapTime == 0 {
		return time.Time{}, false
	}
	return time.Unix(s.SnapTime, 0).UTC(), true
}

// SnapshotOptions are the optional fields of a snapshot creation call.
type SnapshotOptions struct {
	Description string
	Memory      bool // include VM memory state (QEMU only)
}

// Node is one row of GET /nodes.
type Node struct {
	Node   string  `json:"node"`
	Status string  `json:"status"`
	CPU    float64 `json:"cpu"`
	MaxCPU int     `json:"maxcpu"`
	Mem    int64   `json:"mem"`
	MaxMem int64   `json:"maxmem"`
	Uptime int64   `json:"uptime"`
}

// NodeStatus is the detailed view from GET /nodes/{node}/status.
type NodeStatus struct {
	CPU    float64 `json:"cpu"`
	Memory struct {
		Used  int64 `json:"used"`
		Total int64 `json:"total"`
		Free  int64 `json:"free"`
	} `json:"memory"`
	Uptime  int64 `json:"uptime"`
	CPUInfo struct {
		Cores   int    `json:"cores"`
		Sockets int    `json:"sockets"`
		Model   string `json:"model"`
	} `json:"cpuinfo"`
}

// VMSummary describes a VM for the tool surface. Cores is nil when the config
// lookup failed; consumers must handle absence explicitly.
type VMSummary struct {
	VMID   int
	Name   string
	Status string
	Node   string
	Cores  *int
	Mem    int64
	MaxMem int64
}

// ContainerSummary describes an LXC container for the tool surface.
type ContainerSummary struct {
	VMID   int
	Name   string
	Status string
	Node   string
	Mem    int64
	MaxMem int64
}

// StoragePool is one row of GET /cluster/resources?type=storage.
type StoragePool struct {
	Storage string `json:"storage"`
	Node    string `json:"node"`
	Type    string `json:"plugintype"`
	Status  string `json:"status"`
	Disk    int64  `json:"disk"`
	MaxDisk int64  `json:"maxdisk"`
}

// ClusterStatus summarizes GET /cluster/status.
type ClusterStatus struct {
	Name        string
	Quorate     bool
	Nodes       int
	OnlineNodes int
}
