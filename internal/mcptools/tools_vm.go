package mcptools

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/vhark/ProxmoxMCP/internal/proxmox"
)

type vmInfo struct {
	VMID   int        `json:"vmid"`
	Name   string     `json:"name"`
	Status string     `json:"status"`
	Node   string     `json:"node"`
	CPUs   *int       `json:"cpus,omitempty"`
	Memory memoryInfo `json:"memory"`
}

type vmListResult struct {
	VMs []vmInfo `json:"vms"`
}

type guestArgs struct {
	Node string `json:"node" jsonschema:"host node name, e.g. pve1"`
	VMID int    `json:"vmid" jsonschema:"guest ID number, e.g. 100"`
}

type snapshotArgs struct {
	Node string `json:"node" jsonschema:"host node name, e.g. pve1"`
	VMID int    `json:"vmid" jsonschema:"guest ID number, e.g. 100"`
	Name string `json:"name" jsonschema:"snapshot name"`
}

type vmSnapshotCreateArgs struct {
	Node          string `json:"node" jsonschema:"host node name, e.g. pve1"`
	VMID          int    `json:"vmid" jsonschema:"VM ID number, e.g. 100"`
	Name          string `json:"name" jsonschema:"snapshot name"`
	IncludeMemory bool   `json:"include_memory,omitempty" jsonschema:"include the VM memory state"`
	Description   string `json:"description,omitempty" jsonschema:"optional snapshot description"`
}

type execCommandArgs struct {
	Node    string `json:"node" jsonschema:"host node name, e.g. pve1"`
	VMID    int    `json:"vmid" jsonschema:"VM ID number, e.g. 100"`
	Command string `json:"command" jsonschema:"shell command to run, e.g. uname -a"`
}

type execCommandResult struct {
	Success  bool   `json:"success"`
	Output   string `json:"output"`
	Error    string `json:"error,omitempty"`
	ExitCode int    `json:"exit_code"`
}

type snapshotEntry struct {
	Name        string `json:"name"`
	Created     string `json:"created,omitempty"`
	Description string `json:"description,omitempty"`
}

type snapshotListResult struct {
	Snapshots []snapshotEntry `json:"snapshots"`
}

type snapshotAck struct {
	Success  bool   `json:"success"`
	Snapshot string `json:"snapshot"`
}

func (s *Server) registerVMTools(srv *mcp.Server) {
	mcp.AddTool(srv, &mcp.Tool{Name: "get_vms", Description: getVMsDesc}, s.getVMs)
	mcp.AddTool(srv, &mcp.Tool{Name: "execute_vm_command", Description: executeVMCommandDesc}, s.executeVMCommand)
	mcp.AddTool(srv, &mcp.Tool{Name: "vm_snapshot_list", Description: vmSnapshotListDesc}, s.vmSnapshotList)
	mcp.AddTool(srv, &mcp.Tool{Name: "vm_snapshot_create", Description: vmSnapshotCreateDesc}, s.vmSnapshotCreate)
	mcp.AddTool(srv, &mcp.Tool{Name: "vm_snapshot_rollback", Description: vmSnapshotRollbackDesc}, s.vmSnapshotRollback)
	mcp.AddTool(srv, &mcp.Tool{Name: "vm_snapshot_delete", Description: vmSnapshotDeleteDesc}, s.vmSnapshotDelete)
}

func (s *Server) getVMs(ctx context.Context, req *mcp.CallToolRequest, _ struct{}) (*mcp.CallToolResult, vmListResult, error) {
	vms, err := s.client.ListVMs(ctx)
	if err != nil {
		return nil, vmListResult{}, fmt.Errorf("get VMs: %w", err)
	}

	out := vmListResult{}
	var sb strings.Builder
	sb.WriteString("Virtual machines:\n")
	for _, vm := range vms {
		out.VMs = append(out.VMs, vmInfo{
			VMID:   vm.VMID,
			Name:   vm.Name,
			Status: vm.Status,
			Node:   vm.Node,
			CPUs:   vm.Cores,
			Memory: memoryInfo{Used: vm.Mem, Total: vm.MaxMem},
		})
		cpus := "unknown"
		if vm.Cores != nil {
			cpus = fmt.Sprint(*vm.Cores)
		}
		sb.WriteString(fmt.Sprintf("- %d %s (%s) on %s, %s cores\n",
			vm.VMID, vm.Name, vm.Status, vm.Node, cpus))
	}
	return textResult(sb.String()), out, nil
}

func (s *Server) executeVMCommand(ctx context.Context, req *mcp.CallToolRequest, args execCommandArgs) (*mcp.CallToolResult, execCommandResult, error) {
	res, err := s.client.ExecCommand(ctx, args.Node, args.VMID, args.Command)
	if err != nil {
		return nil, execCommandResult{}, fmt.Errorf("execute command on VM %d: %w", args.VMID, err)
	}

	out := execCommandResult{
		Success:  res.Success(),
		Output:   res.Output,
		Error:    res.ErrData,
		ExitCode: res.ExitCode,
	}
	text := fmt.Sprintf("Command on VM %d exited with code %d:\n%s", args.VMID, res.ExitCode, res.Output)
	if res.ErrData != "" {
		text += "\nstderr:\n" + res.ErrData
	}
	return textResult(text), out, nil
}

func (s *Server) vmSnapshotList(ctx context.Context, req *mcp.CallToolRequest, args guestArgs) (*mcp.CallToolResult, snapshotListResult, error) {
	ref := proxmox.GuestRef{Node: args.Node, VMID: args.VMID, Type: proxmox.GuestVM}
	return s.snapshotList(ctx, ref)
}

func (s *Server) vmSnapshotCreate(ctx context.Context, req *mcp.CallToolRequest, args vmSnapshotCreateArgs) (*mcp.CallToolResult, snapshotAck, error) {
	ref := proxmox.GuestRef{Node: args.Node, VMID: args.VMID, Type: proxmox.GuestVM}
	opts := proxmox.SnapshotOptions{Description: args.Description, Memory: args.IncludeMemory}
	if err := s.client.CreateSnapshot(ctx, ref, args.Name, opts); err != nil {
		return nil, snapshotAck{}, err
	}
	text := fmt.Sprintf("Snapshot created: %s for VM %d on %s", args.Name, args.VMID, args.Node)
	return textResult(text), snapshotAck{Success: true, Snapshot: args.Name}, nil
}

func (s *Server) vmSnapshotRollback(ctx context.Context, req *mcp.CallToolRequest, args snapshotArgs) (*mcp.CallToolResult, snapshotAck, error) {
	ref := proxmox.GuestRef{Node: args.Node, VMID: args.VMID, Type: proxmox.GuestVM}
	if err := s.client.RollbackSnapshot(ctx, ref, args.Name); err != nil {
		return nil, snapshotAck{}, err
	}
	text := fmt.Sprintf("Snapshot rollback started: %s for VM %d on %s", args.Name, args.VMID, args.Node)
	return textResult(text), snapshotAck{Success: true, Snapshot: args.Name}, nil
}

func (s *Server) vmSnapshotDelete(ctx context.Context, req *mcp.CallToolRequest, args snapshotArgs) (*mcp.CallToolResult, snapshotAck, error) {
	ref := proxmox.GuestRef{Node: args.Node, VMID: args.VMID, Type: proxmox.GuestVM}
	if err := s.client.DeleteSnapshot(ctx, ref, args.Name); err != nil {
		return nil, snapshotAck{}, err
	}
	text := fmt.Sprintf("Snapshot deleted: %s for VM %d on %s", args.Name, args.VMID, args.Node)
	return textResult(text), snapshotAck{Success: true, Snapshot: args.Name}, nil
}

// snapshotList is shared by the VM and container listing tools.
func (s *Server) snapshotList(ctx context.Context, ref proxmox.GuestRef) (*mcp.CallToolResult, snapshotListResult, error) {
	snaps, err := s.client.ListSnapshots(ctx, ref)
	if err != nil {
		return nil, snapshotListResult{}, err
	}

	out := snapshotListResult{}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Snapshots for %s %d on %s:\n", ref.Type, ref.VMID, ref.Node))
	for _, snap := range snaps {
		entry := snapshotEntry{Name: snap.Name, Description: snap.Description}
		created := "unknown"
		if t, ok := snap.Created(); ok {
			created = t.Format("2006-01-02T15:04:05Z07:00")
			entry.Created = created
		}
		out.Snapshots = append(out.Snapshots, entry)
		sb.WriteString(fmt.Sprintf("- %s (created: %s)\n", snap.Name, created))
	}
	return textResult(sb.String()), out, nil
}
