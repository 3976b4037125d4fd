package mcptools

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/vhark/ProxmoxMCP/internal/proxmox"
)

type containerInfo struct {
	VMID   int        `json:"vmid"`
	Name   string     `json:"name"`
	Status string     `json:"status"`
	Node   string     `json:"node"`
	Memory memoryInfo `json:"memory"`
}

type containerListResult struct {
	Containers []containerInfo `json:"containers"`
}

func (s *Server) registerContainerTools(srv *mcp.Server) {
	mcp.AddTool(srv, &mcp.Tool{Name: "get_containers", Description: getContainersDesc}, s.getContainers)
	mcp.AddTool(srv, &mcp.Tool{Name: "lxc_snapshot_list", Description: lxcSnapshotListDesc}, s.lxcSnapshotList)
	mcp.AddTool(srv, &mcp.Tool{Name: "lxc_snapshot_create", Description: lxcSnapshotCreateDesc}, s.lxcSnapshotCreate)
	mcp.AddTool(srv, &mcp.Tool{Name: "lxc_snapshot_rollback", Description: lxcSnapshotRollbackDesc}, s.lxcSnapshotRollback)
	mcp.AddTool(srv, &mcp.Tool{Name: "lxc_snapshot_delete", Description: lxcSnapshotDeleteDesc}, s.lxcSnapshotDelete)
}

func (s *Server) getContainers(ctx context.Context, req *mcp.CallToolRequest, _ struct{}) (*mcp.CallToolResult, containerListResult, error) {
	cts, err := s.client.ListContainers(ctx)
	if err != nil {
		return nil, containerListResult{}, fmt.Errorf("get containers: %w", err)
	}

	out := containerListResult{}
	var sb strings.Builder
	sb.WriteString("LXC containers:\n")
	for _, ct := range cts {
		out.Containers = append(out.Containers, containerInfo{
			VMID:   ct.VMID,
			Name:   ct.Name,
			Status: ct.Status,
			Node:   ct.Node,
			Memory: memoryInfo{Used: ct.Mem, Total: ct.MaxMem},
		})
		sb.WriteString(fmt.Sprintf("- %d %s (%s) on %s\n", ct.VMID, ct.Name, ct.Status, ct.Node))
	}
	return textResult(sb.String()), out, nil
}

func (s *Server) lxcSnapshotList(ctx context.Context, req *mcp.CallToolRequest, args guestArgs) (*mcp.CallToolResult, snapshotListResult, error) {
	ref := proxmox.GuestRef{Node: args.Node, VMID: args.VMID, Type: proxmox.GuestContainer}
	return s.snapshotList(ctx, ref)
}

func (s *Server) lxcSnapshotCreate(ctx context.Context, req *mcp.CallToolRequest, args snapshotArgs) (*mcp.CallToolResult, snapshotAck, error) {
	ref := proxmox.GuestRef{Node: args.Node, VMID: args.VMID, Type: proxmox.GuestContainer}
	if err := s.client.CreateSnapshot(ctx, ref, args.Name, proxmox.SnapshotOptions{}); err != nil {
		return nil, snapshotAck{}, err
	}
	text := fmt.Sprintf("Snapshot created: %s for container %d on %s", args.Name, args.VMID, args.Node)
	return textResult(text), snapshotAck{Success: true, Snapshot: args.Name}, nil
}

func (s *Server) lxcSnapshotRollback(ctx context.Context, req *mcp.CallToolRequest, args snapshotArgs) (*mcp.CallToolResult, snapshotAck, error) {
	ref := proxmox.GuestRef{Node: args.Node, VMID: args.VMID, Type: proxmox.GuestContainer}
	if err := s.client.RollbackSnapshot(ctx, ref, args.Name); err != nil {
		return nil, snapshotAck{}, err
	}
	text := fmt.Sprintf("Snapshot rollback started: %s for container %d on %s", args.Name, args.VMID, args.Node)
	return textResult(text), snapshotAck{Success: true, Snapshot: args.Name}, nil
}

func (s *Server) lxcSnapshotDelete(ctx context.Context, req *mcp.CallToolRequest, args snapshotArgs) (*mcp.CallToolResult, snapshotAck, error) {
	ref := proxmox.GuestRef{Node: args.Node, VMID: args.VMID, Type: proxmox.GuestContainer}
	if err := s.client.DeleteSnapshot(ctx, ref, args.Name); err != nil {
		return nil, snapshotAck{}, err
	}
	text := fmt.Sprintf("Snapshot deleted: %s for container %d on %s", args.Name, args.VMID, args.Node)
	return textResult(text), snapshotAck{Success: true, Snapshot: args.Name}, nil
}
