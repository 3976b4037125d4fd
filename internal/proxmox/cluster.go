package proxmox

import (
	"context"
	"fmt"
	"net/url"
)

// ListNodes returns every node in the cluster.
func (c *Client) ListNodes(ctx context.Context) ([]Node, error) {
	var nodes []Node
	if err := c.get(ctx, "/nodes", nil, &nodes); err != nil {
		return nil, err
	}
	return nodes, nil
}

// GetNodeStatus returns the detailed status of a single node.
func (c *Client) GetNodeStatus(ctx context.Context, node string) (*NodeStatus, error) {
	var status NodeStatus
	if err := c.get(ctx, "/nodes/"+url.PathEscape(node)+"/status", nil, &status); err != nil {
		return nil, fmt.Errorf("status of node %s: %w", node, err)
	}
	return &status, nil
}

// ListStorage returns every storage pool known to the cluster with usage data.
func (c *Client) ListStorage(ctx context.Context) ([]StoragePool, error) {
	var pools []StoragePool
	q := url.Values{"type": {"storage"}}
	if err := c.get(ctx, "/cluster/resources", q, &pools); err != nil {
		return nil, err
	}
	return pools, nil
}

// GetClusterStatus summarizes cluster health from GET /cluster/status.
func (c *Client) GetClusterStatus(ctx context.Context) (*ClusterStatus, error) {
	var entries []struct {
		Type    string  `json:"type"` // "cluster" or "node"
		Name    string  `json:"name"`
		Quorate IntBool `json:"quorate"`
		Nodes   int     `json:"nodes"`
		Online  IntBool `json:"online"`
	}
	if err := c.get(ctx, "/cluster/status", nil, &entries); err != nil {
		return nil, err
	}

	var status ClusterStatus
	for _, e := range entries {
		switch e.Type {
		case "cluster":
			status.Name = e.Name
			status.Quorate = e.Quorate.Bool()
			status.Nodes = e.Nodes
		case "node":
			if e.Online.Bool() {
				status.OnlineNodes++
			}
		}
	}
	return &status, nil
}
