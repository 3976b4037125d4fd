package mcptools

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type memoryInfo struct {
	Used  int64 `json:"used"`
	Total int64 `json:"total"`
}

type nodeInfo struct {
	Node     string     `json:"node"`
	Status   string     `json:"status"`
	CPUUsage float64    `json:"cpu_usage"`
	Memory   memoryInfo `json:"memory"`
	Uptime   int64      `json:"uptime"`
}

type nodeListResult struct {
	Nodes []nodeInfo `json:"nodes"`
}

type nodeStatusArgs struct {
	Node string `json:"node" jsonschema:"the name of the node to query"`
}

type nodeStatusResult struct {
	Node     string     `json:"node"`
	CPUUsage float64    `json:"cpu_usage"`
	Cores    int        `json:"cores"`
	Memory   memoryInfo `json:"memory"`
	Uptime   int64      `json:"uptime"`
}

type storageInfo struct {
	Storage string `json:"storage"`
	Node    string `json:"node"`
	Type    string `json:"type"`
	Status  string `json:"status"`
	Used    int64  `json:"used"`
	Total   int64  `json:"total"`
}

type storageListResult struct {
	Pools []storageInfo `json:"pools"`
}

type clusterStatusResult struct {
	Name        string `json:"name"`
	Quorate     bool   `json:"quorate"`
	Nodes       int    `json:"nodes"`
	OnlineNodes int    `json:"online_nodes"`
}

func (s *Server) registerClusterTools(srv *mcp.Server) {
	mcp.AddTool(srv, &mcp.Tool{Name: "get_nodes", Description: getNodesDesc}, s.getNodes)
	mcp.AddTool(srv, &mcp.Tool{Name: "get_node_status", Description: getNodeStatusDesc}, s.getNodeStatus)
	mcp.AddTool(srv, &mcp.Tool{Name: "get_storage", Description: getStorageDesc}, s.getStorage)
	mcp.AddTool(srv, &mcp.Tool{Name: "get_cluster_status", Description: getClusterStatusDesc}, s.getClusterStatus)
}

func (s *Server) getNodes(ctx context.Context, req *mcp.CallToolRequest, _ struct{}) (*mcp.CallToolResult, nodeListResult, error) {
	nodes, err := s.client.ListNodes(ctx)
	if err != nil {
		return nil, nodeListResult{}, fmt.Errorf("get nodes: %w", err)
	}

	out := nodeListResult{}
	var sb strings.Builder
	sb.WriteString("Cluster nodes:\n")
	for _, n := range nodes {
		out.Nodes = append(out.Nodes, nodeInfo{
			Node:     n.Node,
			Status:   n.Status,
			CPUUsage: n.CPU,
			Memory:   memoryInfo{Used: n.Mem, Total: n.MaxMem},
			Uptime:   n.Uptime,
		})
		sb.WriteString(fmt.Sprintf("- %s (%s): cpu %.1f%%, memory %s / %s\n",
			n.Node, n.Status, n.CPU*100,
			humanize.IBytes(uint64(n.Mem)), humanize.IBytes(uint64(n.MaxMem))))
	}
	return textResult(sb.String()), out, nil
}

func (s *Server) getNodeStatus(ctx context.Context, req *mcp.CallToolRequest, args nodeStatusArgs) (*mcp.CallToolResult, nodeStatusResult, error) {
	status, err := s.client.GetNodeStatus(ctx, args.Node)
	if err != nil {
		return nil, nodeStatusResult{}, fmt.Errorf("get status of node %s: %w", args.Node, err)
	}

	out := nodeStatusResult{
		Node:     args.Node,
		CPUUsage: status.CPU,
		Cores:    status.CPUInfo.Cores * status.CPUInfo.Sockets,
		Memory:   memoryInfo{Used: status.Memory.Used, Total: status.Memory.Total},
		Uptime:   status.Uptime,
	}
	text := fmt.Sprintf("Node %s: cpu %.1f%%, memory %s / %s, up %s\n",
		args.Node, status.CPU*100,
		humanize.IBytes(uint64(status.Memory.Used)), humanize.IBytes(uint64(status.Memory.Total)),
		(time.Duration(status.Uptime) * time.Second).String())
	return textResult(text), out, nil
}

func (s *Server) getStorage(ctx context.Context, req *mcp.CallToolRequest, _ struct{}) (*mcp.CallToolResult, storageListResult, error) {
	pools, err := s.client.ListStorage(ctx)
	if err != nil {
		return nil, storageListResult{}, fmt.Errorf("get storage: %w", err)
	}

	out := storageListResult{}
	var sb strings.Builder
	sb.WriteString("Storage pools:\n")
	for _, p := range pools {
		out.Pools = append(out.Pools, storageInfo{
			Storage: p.Storage,
			Node:    p.Node,
			Type:    p.Type,
			Status:  p.Status,
			Used:    p.Disk,
			Total:   p.MaxDisk,
		})
		sb.WriteString(fmt.Sprintf("- %s on %s (%s): %s / %s\n",
			p.Storage, p.Node, p.Type,
			humanize.IBytes(uint64(p.Disk)), humanize.IBytes(uint64(p.MaxDisk))))
	}
	return textResult(sb.String()), out, nil
}

func (s *Server) getClusterStatus(ctx context.Context, req *mcp.CallToolRequest, _ struct{}) (*mcp.CallToolResult, clusterStatusResult, error) {
	status, err := s.client.GetClusterStatus(ctx)
	if err != nil {
		return nil, clusterStatusResult{}, fmt.Errorf("get cluster status: %w", err)
	}

	out := clusterStatusResult{
		Name:        status.Name,
		Quorate:     status.Quorate,
		Nodes:       status.Nodes,
		OnlineNodes: status.OnlineNodes,
	}
	quorum := "ok"
	if !status.Quorate {
		quorum = "lost"
	}
	text := fmt.Sprintf("Cluster %s: quorum %s, %d/%d nodes online\n",
		status.Name, quorum, status.OnlineNodes, status.Nodes)
	return textResult(text), out, nil
}

// textResult wraps a human-readable message as tool output.
func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}
